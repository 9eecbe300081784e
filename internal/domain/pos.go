package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PointOfSale is a locally persisted business location.
type PointOfSale struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewPointOfSale maps validated node fields onto a fresh, unsaved entity.
// The ID is left empty for the repository to assign.
func NewPointOfSale(f NodeFields) PointOfSale {
	return PointOfSale{
		Name:      f.Name,
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		CreatedAt: clock.Now().UTC(),
	}
}

// MarshalJSON writes coordinates with the scale they were parsed with.
func (p PointOfSale) MarshalJSON() ([]byte, error) {
	type alias PointOfSale
	return json.Marshal(struct {
		alias
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	}{alias(p), FormatCoordinate(p.Latitude), FormatCoordinate(p.Longitude)})
}
