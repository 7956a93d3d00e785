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

	feedbackserrors "github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	mongotx "github.com/KillerWBI/ToolsBackEnd/pkg/db/mongo"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

const (
	CollectionName = "Feedbacks"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	FindByID(ctx context.Context, id string) (*model.Feedback, error)
	FindByTool(ctx context.Context, toolID string, limit int, offset int64) ([]*model.Feedback, error)
	FindLatest(ctx context.Context, limit int) ([]*model.Feedback, error)
	RatesByTool(ctx context.Context, toolID string) ([]int, error)
	CountByTool(ctx context.Context, toolID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoFeedbackRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoFeedbackRepository(cfg *config.Config) FeedbackRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFeedbackRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoFeedbackRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	feedback.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		feedback.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFeedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", feedbackserrors.ErrInvalidID, id)
	}

	var feedback model.Feedback
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, feedbackserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}

	return &feedback, nil
}

func (r *mongoFeedbackRepository) FindByTool(ctx context.Context, toolID string, limit int, offset int64) ([]*model.Feedback, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"tool_id": toolID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback by tool: %w", err)
	}
	defer cursor.Close(ctx)

	var feedbacks []*model.Feedback
	if err = cursor.All(ctx, &feedbacks); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}

	return feedbacks, nil
}

func (r *mongoFeedbackRepository) FindLatest(ctx context.Context, limit int) ([]*model.Feedback, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var feedbacks []*model.Feedback
	if err = cursor.All(ctx, &feedbacks); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}

	return feedbacks, nil
}

// RatesByTool returns every rate given to the tool. The aggregator
// recomputes the mean from scratch on each new entry.
func (r *mongoFeedbackRepository) RatesByTool(ctx context.Context, toolID string) ([]int, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"rate": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"tool_id": toolID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates by tool: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Rate int `bson:"rate"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}

	rates := make([]int, 0, len(docs))
	for _, doc := range docs {
		rates = append(rates, doc.Rate)
	}
	return rates, nil
}

func (r *mongoFeedbackRepository) CountByTool(ctx context.Context, toolID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"tool_id": toolID})
	if err != nil {
		return 0, fmt.Errorf("failed to count feedback by tool: %w", err)
	}

	return count, nil
}

func (r *mongoFeedbackRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
