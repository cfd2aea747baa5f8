package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homequest/realty-api/internal/core/domain"
)

const collectionPgBeds = "pg_beds"

// PgRepository persists PG beds. Occupancy is the authoritative availability
// signal for bed-level bookings.
type PgRepository struct {
	beds *mongo.Collection
}

func NewPgRepository(db *mongo.Database) *PgRepository {
	return &PgRepository{beds: db.Collection(collectionPgBeds)}
}

func (r *PgRepository) FindBed(ctx context.Context, bedID string) (*domain.PgBed, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var bed domain.PgBed
	if err := r.beds.FindOne(ctx, bson.M{"_id": bedID}).Decode(&bed); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBedNotFound
		}
		return nil, fmt.Errorf("find bed: %w", err)
	}
	return &bed, nil
}

func (r *PgRepository) SetBedOccupied(ctx context.Context, bedID string, occupied bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.beds.UpdateOne(ctx, bson.M{"_id": bedID}, bson.M{
		"$set": bson.M{"occupied": occupied},
	})
	if err != nil {
		return fmt.Errorf("update bed: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBedNotFound
	}
	return nil
}

// EnsureIndexes creates the per-property bed lookup index.
func (r *PgRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.beds.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "occupied", Value: 1}},
	})
	return err
}
