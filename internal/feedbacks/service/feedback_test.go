package service

import (
	"context"
	"io"
	"testing"
	"time"

	feedbackserrors "github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/errors"
	"github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/validator"
	"github.com/KillerWBI/ToolsBackEnd/internal/events"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	mongotx "github.com/KillerWBI/ToolsBackEnd/pkg/db/mongo"
	apperrors "github.com/KillerWBI/ToolsBackEnd/pkg/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

// mockFeedbackRepository stores feedback in memory so the rating
// recompute sees every prior entry.
type mockFeedbackRepository struct {
	feedbacks []*model.Feedback
}

func (m *mockFeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	feedback.ID = "feedback-1"
	feedback.CreatedAt = time.Now()
	copied := *feedback
	m.feedbacks = append(m.feedbacks, &copied)
	return nil
}

func (m *mockFeedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	return nil, feedbackserrors.ErrNotFound
}

func (m *mockFeedbackRepository) FindByTool(ctx context.Context, toolID string, limit int, offset int64) ([]*model.Feedback, error) {
	var result []*model.Feedback
	for _, f := range m.feedbacks {
		if f.ToolID == toolID {
			result = append(result, f)
		}
	}
	return result, nil
}

func (m *mockFeedbackRepository) FindLatest(ctx context.Context, limit int) ([]*model.Feedback, error) {
	if limit > len(m.feedbacks) {
		limit = len(m.feedbacks)
	}
	result := make([]*model.Feedback, 0, limit)
	for i := len(m.feedbacks) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.feedbacks[i])
	}
	return result, nil
}

func (m *mockFeedbackRepository) RatesByTool(ctx context.Context, toolID string) ([]int, error) {
	var rates []int
	for _, f := range m.feedbacks {
		if f.ToolID == toolID {
			rates = append(rates, f.Rate)
		}
	}
	return rates, nil
}

func (m *mockFeedbackRepository) CountByTool(ctx context.Context, toolID string) (int64, error) {
	rates, _ := m.RatesByTool(ctx, toolID)
	return int64(len(rates)), nil
}

func (m *mockFeedbackRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockToolRatingRepo struct {
	missing bool

	rating float64
	count  int64
}

func (m *mockToolRatingRepo) Exists(ctx context.Context, toolID string) error {
	if m.missing {
		return feedbackserrors.ErrToolNotFound
	}
	return nil
}

func (m *mockToolRatingRepo) UpdateRating(ctx context.Context, toolID string, rating float64, feedbackCount int64) error {
	if m.missing {
		return feedbackserrors.ErrToolNotFound
	}
	m.rating = rating
	m.count = feedbackCount
	return nil
}

type mockPublisher struct {
	events []string
}

func (m *mockPublisher) Publish(ctx context.Context, eventType string, toolID string, payload any) error {
	m.events = append(m.events, eventType)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func newService(repo *mockFeedbackRepository, toolRepo *mockToolRatingRepo, pub *mockPublisher) FeedbackService {
	log := logger.New(logger.Config{Output: io.Discard})
	cfg := &config.Config{
		Log:                 log,
		ReadTimeout:         5 * time.Second,
		WriteTimeout:        5 * time.Second,
		LatestFeedbackLimit: 10,
	}
	return NewFeedbackService(repo, toolRepo, validator.NewFeedbackValidator(log), pub, cfg)
}

func feedbackWithRate(rate int) *model.Feedback {
	return &model.Feedback{
		ToolID:      "507f1f77bcf86cd799439011",
		AuthorID:    "507f1f77bcf86cd799439012",
		AuthorName:  "Olena",
		Rate:        rate,
		Description: "Worked exactly as described",
	}
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestAggregateRating(t *testing.T) {
	tests := []struct {
		name  string
		rates []int
		want  float64
	}{
		{"no feedback", nil, 0},
		{"single rate", []int{4}, 4.0},
		{"mean with repeating decimal", []int{5, 4, 5}, 4.7},
		{"exact half rounds up", []int{5, 4, 5, 3}, 4.3},
		{"all fives", []int{5, 5, 5}, 5.0},
		{"all ones", []int{1, 1}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateRating(tt.rates); got != tt.want {
				t.Errorf("AggregateRating(%v) = %v, want %v", tt.rates, got, tt.want)
			}
		})
	}
}

func TestCreate_RecomputesRatingOnEachEntry(t *testing.T) {
	repo := &mockFeedbackRepository{}
	toolRepo := &mockToolRatingRepo{}
	pub := &mockPublisher{}
	svc := newService(repo, toolRepo, pub)
	ctx := context.Background()

	for _, rate := range []int{5, 4, 5} {
		if err := svc.Create(ctx, feedbackWithRate(rate)); err != nil {
			t.Fatalf("Create(rate=%d) returned error: %v", rate, err)
		}
	}

	if toolRepo.rating != 4.7 {
		t.Errorf("rating after [5,4,5] = %v, want 4.7", toolRepo.rating)
	}
	if toolRepo.count != 3 {
		t.Errorf("feedback_count = %d, want 3", toolRepo.count)
	}

	// 4.25 rounds half up to 4.3.
	if err := svc.Create(ctx, feedbackWithRate(3)); err != nil {
		t.Fatalf("Create(rate=3) returned error: %v", err)
	}
	if toolRepo.rating != 4.3 {
		t.Errorf("rating after adding 3 = %v, want 4.3", toolRepo.rating)
	}
	if toolRepo.count != 4 {
		t.Errorf("feedback_count = %d, want 4", toolRepo.count)
	}

	if len(pub.events) != 4 {
		t.Errorf("published events = %d, want 4", len(pub.events))
	}
	for _, eventType := range pub.events {
		if eventType != events.EventFeedbackRecorded {
			t.Errorf("event type = %q, want feedback.recorded", eventType)
		}
	}
}

func TestCreate_ToolNotFound(t *testing.T) {
	repo := &mockFeedbackRepository{}
	svc := newService(repo, &mockToolRatingRepo{missing: true}, &mockPublisher{})

	err := svc.Create(context.Background(), feedbackWithRate(5))
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("Create = %v, want NOT_FOUND", err)
	}
	if len(repo.feedbacks) != 0 {
		t.Errorf("stored feedback = %d, want 0", len(repo.feedbacks))
	}
}

func TestCreate_RateOutOfRange(t *testing.T) {
	svc := newService(&mockFeedbackRepository{}, &mockToolRatingRepo{}, &mockPublisher{})

	for _, rate := range []int{0, 6} {
		err := svc.Create(context.Background(), feedbackWithRate(rate))
		if !apperrors.IsCode(err, apperrors.CodeValidation) {
			t.Errorf("Create(rate=%d) = %v, want VALIDATION_ERROR", rate, err)
		}
	}
}

func TestLatest_CapsLimit(t *testing.T) {
	repo := &mockFeedbackRepository{}
	toolRepo := &mockToolRatingRepo{}
	svc := newService(repo, toolRepo, &mockPublisher{})
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if err := svc.Create(ctx, feedbackWithRate(5)); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	feedbacks, err := svc.Latest(ctx, 100)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if len(feedbacks) != 10 {
		t.Errorf("Latest(100) returned %d entries, want capped at 10", len(feedbacks))
	}
}
