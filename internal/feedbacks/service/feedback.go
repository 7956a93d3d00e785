package service

import (
	"context"
	"errors"
	"math"

	"go.mongodb.org/mongo-driver/mongo"

	feedbackserrors "github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/errors"
	"github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/repository"
	"github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/validator"
	"github.com/KillerWBI/ToolsBackEnd/internal/events"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	apperrors "github.com/KillerWBI/ToolsBackEnd/pkg/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
	"github.com/KillerWBI/ToolsBackEnd/pkg/sanitizer"
)

type FeedbackService interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	GetByTool(ctx context.Context, toolID string, limit int, offset int64) ([]*model.Feedback, int64, error)
	Latest(ctx context.Context, limit int) ([]*model.Feedback, error)
}

type feedbackService struct {
	repo      repository.FeedbackRepository
	toolRepo  repository.ToolRatingRepository
	validator *validator.FeedbackValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewFeedbackService(
	repo repository.FeedbackRepository,
	toolRepo repository.ToolRatingRepository,
	validator *validator.FeedbackValidator,
	publisher events.Publisher,
	cfg *config.Config,
) FeedbackService {
	return &feedbackService{
		repo:      repo,
		toolRepo:  toolRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create records the feedback and rewrites the tool's derived rating.
// The rating is recomputed from every feedback row for the tool rather
// than adjusted incrementally, so a drifted value self-heals on the
// next write. Insert and rating update share a transaction.
func (s *feedbackService) Create(ctx context.Context, feedback *model.Feedback) error {
	s.sanitize(feedback)
	if err := s.validate(feedback); err != nil {
		return err
	}

	if err := s.resolveTool(ctx, feedback.ToolID); err != nil {
		return err
	}

	var rating float64
	var count int64

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, feedback); err != nil {
			return apperrors.Internal("Failed to create feedback", err)
		}

		rates, err := s.repo.RatesByTool(sessCtx, feedback.ToolID)
		if err != nil {
			return apperrors.Internal("Failed to load tool rates", err)
		}

		rating = AggregateRating(rates)
		count = int64(len(rates))

		if err := s.toolRepo.UpdateRating(sessCtx, feedback.ToolID, rating, count); err != nil {
			if errors.Is(err, feedbackserrors.ErrToolNotFound) {
				return apperrors.NotFoundWithID("Tool", feedback.ToolID)
			}
			return apperrors.Internal("Failed to update tool rating", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to record feedback", "tool_id", feedback.ToolID, "error", err)
		return err
	}

	s.cfg.Log.Info("Feedback recorded successfully",
		"id", feedback.ID,
		"tool_id", feedback.ToolID,
		"rate", feedback.Rate,
		"tool_rating", rating,
		"feedback_count", count,
	)

	_ = s.publisher.Publish(ctx, events.EventFeedbackRecorded, feedback.ToolID, events.FeedbackRecorded{
		FeedbackID:    feedback.ID,
		ToolID:        feedback.ToolID,
		AuthorID:      feedback.AuthorID,
		Rate:          feedback.Rate,
		ToolRating:    rating,
		FeedbackCount: count,
		CreatedAt:     feedback.CreatedAt,
	})

	return nil
}

func (s *feedbackService) GetByTool(ctx context.Context, toolID string, limit int, offset int64) ([]*model.Feedback, int64, error) {
	if toolID == "" {
		return nil, 0, apperrors.InvalidInput("Tool ID cannot be empty")
	}

	feedbacks, err := s.repo.FindByTool(ctx, toolID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list feedback by tool", "tool_id", toolID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve feedback", err)
	}

	count, err := s.repo.CountByTool(ctx, toolID)
	if err != nil {
		s.cfg.Log.Error("Failed to count feedback by tool", "tool_id", toolID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count feedback", err)
	}

	return feedbacks, count, nil
}

func (s *feedbackService) Latest(ctx context.Context, limit int) ([]*model.Feedback, error) {
	if limit <= 0 || limit > s.cfg.LatestFeedbackLimit {
		limit = s.cfg.LatestFeedbackLimit
	}

	feedbacks, err := s.repo.FindLatest(ctx, limit)
	if err != nil {
		s.cfg.Log.Error("Failed to list latest feedback", "error", err)
		return nil, apperrors.Internal("Failed to retrieve feedback", err)
	}

	return feedbacks, nil
}

// AggregateRating maps a set of rates to the tool's displayed rating:
// the mean rounded to one decimal, half away from zero. [5,4,5] gives
// 4.7, adding a 3 gives 4.25 which rounds to 4.3. No rates gives 0.
func AggregateRating(rates []int) float64 {
	if len(rates) == 0 {
		return 0
	}

	var sum int
	for _, rate := range rates {
		sum += rate
	}

	mean := float64(sum) / float64(len(rates))
	return math.Round(mean*10) / 10
}

// --- Helpers ---

func (s *feedbackService) sanitize(f *model.Feedback) {
	f.AuthorName = sanitizer.NormalizeName(f.AuthorName)
	f.Description = sanitizer.TrimAndNormalize(f.Description)
}

func (s *feedbackService) validate(feedback *model.Feedback) error {
	if err := s.validator.Validate(feedback); err != nil {
		s.cfg.Log.Warn("Feedback validation failed", "error", err)
		return apperrors.Validation("Feedback validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *feedbackService) resolveTool(ctx context.Context, toolID string) error {
	err := s.toolRepo.Exists(ctx, toolID)
	if err == nil {
		return nil
	}

	if errors.Is(err, feedbackserrors.ErrToolNotFound) {
		return apperrors.NotFoundWithID("Tool", toolID)
	}
	if errors.Is(err, feedbackserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid tool ID format")
	}
	return apperrors.Internal("Failed to resolve tool", err)
}
