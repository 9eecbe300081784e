package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/couchcryptid/pos-import-service/internal/domain"
)

// Repository keeps points of sale in process memory. It is the default store
// for local runs and is not durable across restarts.
type Repository struct {
	mu    sync.Mutex
	items map[string]domain.PointOfSale
	order []string
}

func NewRepository() *Repository {
	return &Repository{items: make(map[string]domain.PointOfSale)}
}

// Create stores pos under a new UUID and returns the stored copy.
func (r *Repository) Create(_ context.Context, pos domain.PointOfSale) (domain.PointOfSale, error) {
	pos.ID = uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[pos.ID] = pos
	r.order = append(r.order, pos.ID)
	return pos, nil
}
