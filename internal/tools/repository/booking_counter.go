package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

const bookingCollectionName = "Bookings"

// BookingCounter is the tools-side view of the Bookings collection.
// Deleting a tool is refused while active bookings still reference it.
type BookingCounter interface {
	CountActiveByTool(ctx context.Context, toolID string) (int64, error)
}

type mongoBookingCounter struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingCounter(cfg *config.Config) BookingCounter {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingCounter{
		cfg:        cfg,
		collection: db.Collection(bookingCollectionName),
	}
}

func (r *mongoBookingCounter) CountActiveByTool(ctx context.Context, toolID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"tool_id": toolID,
		"status":  bson.M{"$ne": model.BookingStatusCancelled},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}

	return count, nil
}
