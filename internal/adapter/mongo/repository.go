package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/couchcryptid/pos-import-service/internal/domain"
)

// ErrNilCollection is returned when the repository has no collection.
var ErrNilCollection = errors.New("mongo collection is nil")

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, eris.Wrap(err, "mongo: connect")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, eris.Wrap(err, "mongo: ping")
	}
	return client, nil
}

// document is the stored shape of a point of sale. Coordinates use
// Decimal128 so they round-trip exactly.
type document struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Latitude  primitive.Decimal128 `bson:"latitude"`
	Longitude primitive.Decimal128 `bson:"longitude"`
	CreatedAt time.Time            `bson:"created_at"`
}

func toDocument(pos domain.PointOfSale) (document, error) {
	lat, err := primitive.ParseDecimal128(domain.FormatCoordinate(pos.Latitude))
	if err != nil {
		return document{}, eris.Wrap(err, "mongo: encode latitude")
	}
	lon, err := primitive.ParseDecimal128(domain.FormatCoordinate(pos.Longitude))
	if err != nil {
		return document{}, eris.Wrap(err, "mongo: encode longitude")
	}
	return document{
		Name:      pos.Name,
		Latitude:  lat,
		Longitude: lon,
		CreatedAt: pos.CreatedAt,
	}, nil
}

// Repository stores points of sale in a MongoDB collection.
type Repository struct {
	Collection *mongo.Collection
}

// NewRepository returns a repository for the named collection.
func NewRepository(client *mongo.Client, database, collection string) *Repository {
	return &Repository{Collection: client.Database(database).Collection(collection)}
}

// Create inserts pos and returns it with the generated ObjectID as hex.
func (r *Repository) Create(ctx context.Context, pos domain.PointOfSale) (domain.PointOfSale, error) {
	if r.Collection == nil {
		return domain.PointOfSale{}, ErrNilCollection
	}

	doc, err := toDocument(pos)
	if err != nil {
		return domain.PointOfSale{}, err
	}

	res, err := r.Collection.InsertOne(ctx, doc)
	if err != nil {
		return domain.PointOfSale{}, eris.Wrap(err, "mongo: insert point of sale")
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.PointOfSale{}, eris.Errorf("mongo: unexpected inserted id type %T", res.InsertedID)
	}
	pos.ID = oid.Hex()
	return pos, nil
}

// Ping verifies the server behind the collection is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if r.Collection == nil {
		return ErrNilCollection
	}
	return r.Collection.Database().Client().Ping(ctx, nil)
}
