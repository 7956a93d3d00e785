package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "github.com/KillerWBI/ToolsBackEnd/internal/bookings/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

const ToolCollectionName = "Tools"

// ToolReservationRepository is the bookings-side view of the Tools
// collection: resolve a tool and move its booked dates.
type ToolReservationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Tool, error)
	PushRange(ctx context.Context, toolID string, rng model.DateRange) error
	PullRange(ctx context.Context, toolID string, rng model.DateRange) error
}

type mongoToolReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewToolReservationRepository(cfg *config.Config) ToolReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoToolReservationRepository{
		cfg:        cfg,
		collection: db.Collection(ToolCollectionName),
	}
}

func (r *mongoToolReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoToolReservationRepository) FindByID(ctx context.Context, id string) (*model.Tool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var tool model.Tool
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tool)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrToolNotFound
		}
		return nil, fmt.Errorf("failed to find tool: %w", err)
	}

	return &tool, nil
}

// PushRange appends the range to booked_dates only when no committed
// element overlaps it. The overlap test runs inside the filter, so the
// check and the append are one acknowledged write: two concurrent
// pushes for overlapping ranges cannot both match.
func (r *mongoToolReservationRepository) PushRange(ctx context.Context, toolID string, rng model.DateRange) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(toolID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, toolID)
	}

	// Closed-interval overlap: from <= rng.To && to >= rng.From.
	filter := bson.M{
		"_id": objectID,
		"booked_dates": bson.M{
			"$not": bson.M{
				"$elemMatch": bson.M{
					"from": bson.M{"$lte": rng.To},
					"to":   bson.M{"$gte": rng.From},
				},
			},
		},
	}
	update := bson.M{"$push": bson.M{"booked_dates": rng}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve date range: %w", err)
	}

	if result.MatchedCount == 0 {
		// Either the tool is gone or an interval overlaps. Tell them apart.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return fmt.Errorf("failed to resolve reservation rejection: %w", err)
		}
		if count == 0 {
			return bookingserrors.ErrToolNotFound
		}
		return bookingserrors.ErrDateConflict
	}

	return nil
}

// PullRange removes an exact range from booked_dates. Used by the
// cancellation path; pulling a range that is not present is a no-op.
func (r *mongoToolReservationRepository) PullRange(ctx context.Context, toolID string, rng model.DateRange) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(toolID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, toolID)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$pull": bson.M{
			"booked_dates": bson.M{"from": rng.From, "to": rng.To},
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release date range: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrToolNotFound
	}

	return nil
}
