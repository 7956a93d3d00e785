package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "github.com/KillerWBI/ToolsBackEnd/internal/bookings/errors"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/repository"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	apperrors "github.com/KillerWBI/ToolsBackEnd/pkg/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

// Guard serializes reservations on a tool's booked dates. Reserve and
// Release are the only write paths into a tool's interval set.
type Guard interface {
	// AcquireLock takes the per-tool advisory lock. The returned
	// release function must be called once the reservation attempt is
	// over, success or not.
	AcquireLock(ctx context.Context, toolID string) (release func(), err error)

	// Reserve commits the range onto the tool's booked dates. The
	// overlap check and the append are a single conditional write, so
	// of two concurrent overlapping reserves at most one succeeds.
	Reserve(ctx context.Context, toolID string, rng model.DateRange) error

	// Release removes a committed range (cancellation path).
	Release(ctx context.Context, toolID string, rng model.DateRange) error
}

type mongoGuard struct {
	toolRepo repository.ToolReservationRepository
	lockRepo repository.ReservationLockRepository
	cfg      *config.Config
}

func NewGuard(
	toolRepo repository.ToolReservationRepository,
	lockRepo repository.ReservationLockRepository,
	cfg *config.Config,
) Guard {
	return &mongoGuard{
		toolRepo: toolRepo,
		lockRepo: lockRepo,
		cfg:      cfg,
	}
}

func (g *mongoGuard) AcquireLock(ctx context.Context, toolID string) (func(), error) {
	lockID := fmt.Sprintf("reservation_lock_%s", toolID)

	lock := &model.ReservationLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(g.cfg.ReservationLockTTL),
	}

	if _, err := g.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Conflict("This tool is currently being booked by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire reservation lock", err)
	}

	release := func() {
		if err := g.lockRepo.Delete(context.WithoutCancel(ctx), lockID); err != nil {
			g.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", err)
		}
	}
	return release, nil
}

func (g *mongoGuard) Reserve(ctx context.Context, toolID string, rng model.DateRange) error {
	if !rng.Valid() {
		return apperrors.InvalidInput("End date must not be before start date")
	}

	err := g.toolRepo.PushRange(ctx, toolID, rng)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, bookingserrors.ErrToolNotFound):
		return apperrors.NotFoundWithID("Tool", toolID)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid tool ID format")
	case errors.Is(err, bookingserrors.ErrDateConflict):
		return g.conflictError(ctx, toolID, rng)
	default:
		return apperrors.Internal("Failed to reserve date range", err)
	}
}

func (g *mongoGuard) Release(ctx context.Context, toolID string, rng model.DateRange) error {
	err := g.toolRepo.PullRange(ctx, toolID, rng)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, bookingserrors.ErrToolNotFound):
		return apperrors.NotFoundWithID("Tool", toolID)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid tool ID format")
	default:
		return apperrors.Internal("Failed to release date range", err)
	}
}

// conflictError reports which committed ranges block the candidate.
// The set may have moved since the rejected write; this is best effort
// detail for the client, the rejection itself is authoritative.
func (g *mongoGuard) conflictError(ctx context.Context, toolID string, rng model.DateRange) error {
	conflict := apperrors.Conflict("Requested dates conflict with existing bookings")

	tool, err := g.toolRepo.FindByID(ctx, toolID)
	if err != nil {
		return conflict
	}

	conflicts := tool.BookedDates.Conflicts(rng)
	ranges := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		ranges = append(ranges, c.String())
	}

	return conflict.WithDetails(map[string]any{
		"requested": rng.String(),
		"conflicts": ranges,
	})
}
