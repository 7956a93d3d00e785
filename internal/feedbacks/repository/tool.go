package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	feedbackserrors "github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
)

const toolCollectionName = "Tools"

// ToolRatingRepository is the feedbacks-side view of the Tools
// collection: confirm a tool exists and rewrite its derived rating.
type ToolRatingRepository interface {
	Exists(ctx context.Context, toolID string) error
	UpdateRating(ctx context.Context, toolID string, rating float64, feedbackCount int64) error
}

type mongoToolRatingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewToolRatingRepository(cfg *config.Config) ToolRatingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoToolRatingRepository{
		cfg:        cfg,
		collection: db.Collection(toolCollectionName),
	}
}

func (r *mongoToolRatingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoToolRatingRepository) Exists(ctx context.Context, toolID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(toolID)
	if err != nil {
		return fmt.Errorf("%w: %s", feedbackserrors.ErrInvalidID, toolID)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to check tool existence: %w", err)
	}
	if count == 0 {
		return feedbackserrors.ErrToolNotFound
	}

	return nil
}

func (r *mongoToolRatingRepository) UpdateRating(ctx context.Context, toolID string, rating float64, feedbackCount int64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(toolID)
	if err != nil {
		return fmt.Errorf("%w: %s", feedbackserrors.ErrInvalidID, toolID)
	}

	update := bson.M{
		"$set": bson.M{
			"rating":         rating,
			"feedback_count": feedbackCount,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tool rating: %w", err)
	}

	if result.MatchedCount == 0 {
		return feedbackserrors.ErrToolNotFound
	}

	return nil
}
