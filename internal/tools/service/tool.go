package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	toolserrors "github.com/KillerWBI/ToolsBackEnd/internal/tools/errors"
	"github.com/KillerWBI/ToolsBackEnd/internal/tools/repository"
	"github.com/KillerWBI/ToolsBackEnd/internal/tools/validator"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	apperrors "github.com/KillerWBI/ToolsBackEnd/pkg/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
	"github.com/KillerWBI/ToolsBackEnd/pkg/sanitizer"
)

type ToolService interface {
	Create(ctx context.Context, tool *model.Tool) error
	GetByID(ctx context.Context, id string) (*model.Tool, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, int64, error)
	GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Tool, int64, error)
	Update(ctx context.Context, id string, updates *model.ToolUpdate) (*model.Tool, error)
	Delete(ctx context.Context, id string) error
}

type toolService struct {
	repo      repository.ToolRepository
	bookings  repository.BookingCounter
	validator *validator.ToolValidator
	cfg       *config.Config
}

func NewToolService(
	repo repository.ToolRepository,
	bookings repository.BookingCounter,
	validator *validator.ToolValidator,
	cfg *config.Config,
) ToolService {
	return &toolService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *toolService) Create(ctx context.Context, tool *model.Tool) error {
	s.sanitize(tool)

	// New listings never carry derived state.
	tool.BookedDates = model.IntervalSet{}
	tool.Rating = 0
	tool.FeedbackCount = 0

	if err := s.validate(tool); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, tool); err != nil {
		s.cfg.Log.Error("Failed to create tool", "error", err)
		return apperrors.Internal("Failed to create tool", err)
	}

	s.cfg.Log.Info("Tool created successfully", "id", tool.ID, "owner_id", tool.OwnerID, "name", tool.Name)
	return nil
}

func (s *toolService) GetByID(ctx context.Context, id string) (*model.Tool, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tool ID cannot be empty")
	}

	tool, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, toolserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tool", id)
		}
		if errors.Is(err, toolserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid tool ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve tool", err)
	}

	return tool, nil
}

func (s *toolService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, int64, error) {
	var count int64
	var tools []*model.Tool
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count tools", "error", errCount)
			errCount = apperrors.Internal("Failed to count tools", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		tools, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list tools", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve tools", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return tools, count, nil
}

func (s *toolService) GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Tool, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	var count int64
	var tools []*model.Tool
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, ownerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count tools by owner", "owner_id", ownerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count tools", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		tools, errFind = s.repo.FindByOwner(ctx, ownerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list tools by owner", "owner_id", ownerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve tools", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return tools, count, nil
}

func (s *toolService) Update(ctx context.Context, id string, updates *model.ToolUpdate) (*model.Tool, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Tool update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeToolUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, toolserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tool", id)
		}
		s.cfg.Log.Error("Failed to update tool", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update tool", err)
	}

	s.cfg.Log.Info("Tool updated successfully", "id", id)
	return merged, nil
}

// Delete removes a listing. Refused while non-cancelled bookings still
// reference the tool: renters hold committed date ranges on it.
func (s *toolService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.bookings.CountActiveByTool(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to count active bookings for tool", "id", id, "error", err)
		return apperrors.Internal("Failed to check tool bookings", err)
	}
	if active > 0 {
		return apperrors.Conflict(
			fmt.Sprintf("Tool cannot be deleted: %d active booking(s) reference it", active),
		).WithDetails(map[string]any{"active_bookings": active})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, toolserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Tool", id)
		}
		s.cfg.Log.Error("Failed to delete tool", "id", id, "error", err)
		return apperrors.Internal("Failed to delete tool", err)
	}

	s.cfg.Log.Info("Tool deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *toolService) sanitize(t *model.Tool) {
	t.Name = sanitizer.TrimAndNormalize(t.Name)
	t.Description = sanitizer.TrimAndNormalize(t.Description)
	t.RentalTerms = sanitizer.TrimAndNormalize(t.RentalTerms)
}

func (s *toolService) validate(tool *model.Tool) error {
	if err := s.validator.Validate(tool); err != nil {
		s.cfg.Log.Warn("Tool validation failed", "error", err)
		return apperrors.Validation("Tool validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *toolService) mergeToolUpdates(existing *model.Tool, updates *model.ToolUpdate) *model.Tool {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.PricePerDay != nil {
		merged.PricePerDay = *updates.PricePerDay
	}
	if updates.Images != "" {
		merged.Images = updates.Images
	}
	if updates.Specifications != nil {
		merged.Specifications = *updates.Specifications
	}
	if updates.RentalTerms != nil {
		merged.RentalTerms = *updates.RentalTerms
	}

	return &merged
}
