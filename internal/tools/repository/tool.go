package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	toolserrors "github.com/KillerWBI/ToolsBackEnd/internal/tools/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	mongotx "github.com/KillerWBI/ToolsBackEnd/pkg/db/mongo"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

const (
	CollectionName = "Tools"
)

type ToolRepository interface {
	Create(ctx context.Context, tool *model.Tool) error
	FindByID(ctx context.Context, id string) (*model.Tool, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, error)
	FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Tool, error)
	Update(ctx context.Context, id string, tool *model.Tool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoToolRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoToolRepository(cfg *config.Config) ToolRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoToolRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoToolRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoToolRepository) Create(ctx context.Context, tool *model.Tool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	tool.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if tool.BookedDates == nil {
		tool.BookedDates = model.IntervalSet{}
	}

	result, err := r.collection.InsertOne(ctx, tool)
	if err != nil {
		return fmt.Errorf("failed to create tool: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tool.ID = oid.Hex()
	}
	return nil
}

func (r *mongoToolRepository) FindByID(ctx context.Context, id string) (*model.Tool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", toolserrors.ErrInvalidID, id)
	}

	var tool model.Tool
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tool)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, toolserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tool: %w", err)
	}

	return &tool, nil
}

func (r *mongoToolRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tools: %w", err)
	}
	defer cursor.Close(ctx)

	var tools []*model.Tool
	if err = cursor.All(ctx, &tools); err != nil {
		return nil, fmt.Errorf("failed to decode tools: %w", err)
	}

	return tools, nil
}

func (r *mongoToolRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Tool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tools by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var tools []*model.Tool
	if err = cursor.All(ctx, &tools); err != nil {
		return nil, fmt.Errorf("failed to decode tools: %w", err)
	}

	return tools, nil
}

// Update rewrites the listing fields only. Booked dates, rating and
// feedback count have their own write paths and are never touched here.
func (r *mongoToolRepository) Update(ctx context.Context, id string, tool *model.Tool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", toolserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":           tool.Name,
			"description":    tool.Description,
			"price_per_day":  tool.PricePerDay,
			"images":         tool.Images,
			"specifications": tool.Specifications,
			"rental_terms":   tool.RentalTerms,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update tool: %w", err)
	}

	if result.MatchedCount == 0 {
		return toolserrors.ErrNotFound
	}

	return nil
}

func (r *mongoToolRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", toolserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete tool: %w", err)
	}

	if result.DeletedCount == 0 {
		return toolserrors.ErrNotFound
	}

	return nil
}

func (r *mongoToolRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count tools: %w", err)
	}

	return count, nil
}

func (r *mongoToolRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count tools by owner: %w", err)
	}

	return count, nil
}

func (r *mongoToolRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
