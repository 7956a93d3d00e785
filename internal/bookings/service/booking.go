package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/availability"
	bookingserrors "github.com/KillerWBI/ToolsBackEnd/internal/bookings/errors"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/pricing"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/repository"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/validator"
	"github.com/KillerWBI/ToolsBackEnd/internal/events"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	apperrors "github.com/KillerWBI/ToolsBackEnd/pkg/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
	"github.com/KillerWBI/ToolsBackEnd/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByTool(ctx context.Context, toolID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	toolRepo  repository.ToolReservationRepository
	guard     availability.Guard
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	toolRepo repository.ToolReservationRepository,
	guard availability.Guard,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		toolRepo:  toolRepo,
		guard:     guard,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create reserves the requested range and persists the booking as one
// unit: the interval push and the booking insert share a transaction,
// so a failed insert rolls the reservation back. The advisory lock
// serializes concurrent attempts on the same tool.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	release, err := s.guard.AcquireLock(ctx, booking.ToolID)
	if err != nil {
		return err
	}
	defer release()

	tool, err := s.resolveTool(ctx, booking.ToolID)
	if err != nil {
		return err
	}

	booking.TotalPrice = pricing.Total(booking.StartDate, booking.EndDate, tool.PricePerDay)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.guard.Reserve(sessCtx, booking.ToolID, booking.Range()); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "tool_id", booking.ToolID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"tool_id", booking.ToolID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
		"total_price", booking.TotalPrice,
	)

	// Best effort; the booking is committed either way.
	_ = s.publisher.Publish(ctx, events.EventBookingCreated, booking.ToolID, events.BookingCreated{
		BookingID:  booking.ID,
		ToolID:     booking.ToolID,
		CustomerID: booking.CustomerID,
		StartDate:  booking.StartDate,
		EndDate:    booking.EndDate,
		TotalPrice: booking.TotalPrice,
		CreatedAt:  booking.CreatedAt,
	})

	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByTool(ctx context.Context, toolID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if toolID == "" {
		return nil, 0, apperrors.InvalidInput("Tool ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByTool(ctx, toolID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by tool", "tool_id", toolID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByTool(ctx, toolID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings by tool", "tool_id", toolID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Cancel marks the booking cancelled and returns its range to the
// tool's availability. Both writes share a transaction.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch booking.Status {
	case model.BookingStatusCancelled:
		return apperrors.Conflict("Booking is already cancelled")
	case model.BookingStatusCompleted:
		return apperrors.Conflict("Completed bookings cannot be cancelled")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.UpdateStatus(sessCtx, id, model.BookingStatusCancelled); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to cancel booking", err)
		}
		if err := s.guard.Release(sessCtx, booking.ToolID, booking.Range()); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", id, "tool_id", booking.ToolID)

	_ = s.publisher.Publish(ctx, events.EventBookingCancelled, booking.ToolID, events.BookingCancelled{
		BookingID:   booking.ID,
		ToolID:      booking.ToolID,
		CustomerID:  booking.CustomerID,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		CancelledAt: time.Now().UTC(),
	})

	return nil
}

// Delete removes the booking record. A still-active booking gives its
// range back first; a cancelled one already has.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		if booking.Status != model.BookingStatusCancelled {
			if err := s.guard.Release(sessCtx, booking.ToolID, booking.Range()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingStatusPending
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.FirstName = sanitizer.NormalizeName(b.FirstName)
	b.LastName = sanitizer.NormalizeName(b.LastName)
	b.Phone = sanitizer.NormalizePhone(b.Phone)
	b.DeliveryCity = sanitizer.NormalizeCity(b.DeliveryCity)
	b.DeliveryBranch = sanitizer.NormalizeBranch(b.DeliveryBranch)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) resolveTool(ctx context.Context, toolID string) (*model.Tool, error) {
	tool, err := s.toolRepo.FindByID(ctx, toolID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrToolNotFound) {
			return nil, apperrors.NotFoundWithID("Tool", toolID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid tool ID format")
		}
		return nil, apperrors.Internal("Failed to resolve tool", err)
	}
	return tool, nil
}
