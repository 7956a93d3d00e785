package availability

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "github.com/KillerWBI/ToolsBackEnd/internal/bookings/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	apperrors "github.com/KillerWBI/ToolsBackEnd/pkg/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

// fakeToolRepo keeps interval sets in memory. PushRange performs the
// overlap check and the append under one lock, mirroring the atomicity
// of the conditional Mongo write.
type fakeToolRepo struct {
	mu    sync.Mutex
	tools map[string]*model.Tool
}

func newFakeToolRepo(toolIDs ...string) *fakeToolRepo {
	tools := make(map[string]*model.Tool)
	for _, id := range toolIDs {
		tools[id] = &model.Tool{ID: id, PricePerDay: 100}
	}
	return &fakeToolRepo{tools: tools}
}

func (f *fakeToolRepo) FindByID(ctx context.Context, id string) (*model.Tool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tool, ok := f.tools[id]
	if !ok {
		return nil, bookingserrors.ErrToolNotFound
	}
	copied := *tool
	copied.BookedDates = append(model.IntervalSet{}, tool.BookedDates...)
	return &copied, nil
}

func (f *fakeToolRepo) PushRange(ctx context.Context, toolID string, rng model.DateRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tool, ok := f.tools[toolID]
	if !ok {
		return bookingserrors.ErrToolNotFound
	}
	if tool.BookedDates.HasConflict(rng) {
		return bookingserrors.ErrDateConflict
	}
	tool.BookedDates = tool.BookedDates.Add(rng)
	return nil
}

func (f *fakeToolRepo) PullRange(ctx context.Context, toolID string, rng model.DateRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tool, ok := f.tools[toolID]
	if !ok {
		return bookingserrors.ErrToolNotFound
	}
	var kept model.IntervalSet
	for _, committed := range tool.BookedDates {
		if committed != rng {
			kept = append(kept, committed)
		}
	}
	tool.BookedDates = kept
	return nil
}

func (f *fakeToolRepo) committed(toolID string) model.IntervalSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append(model.IntervalSet{}, f.tools[toolID].BookedDates...)
}

// fakeLockRepo enforces unique lock IDs and fails duplicates the way
// Mongo does, with a duplicate key write error.
type fakeLockRepo struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newFakeLockRepo() *fakeLockRepo {
	return &fakeLockRepo{locks: make(map[string]bool)}
}

func (f *fakeLockRepo) Create(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[lock.ID] {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	f.locks[lock.ID] = true
	return lock, nil
}

func (f *fakeLockRepo) Delete(ctx context.Context, lockID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, lockID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		ReservationLockTTL: 10 * time.Second,
		Log:                logger.New(logger.Config{Output: io.Discard}),
	}
}

func dateRange(fromDay, toDay int) model.DateRange {
	return model.DateRange{
		From: time.Date(2025, time.June, fromDay, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.June, toDay, 0, 0, 0, 0, time.UTC),
	}
}

func TestReserveCommitsRange(t *testing.T) {
	toolRepo := newFakeToolRepo("tool-1")
	guard := NewGuard(toolRepo, newFakeLockRepo(), testConfig())

	if err := guard.Reserve(context.Background(), "tool-1", dateRange(1, 5)); err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}

	committed := toolRepo.committed("tool-1")
	if len(committed) != 1 || committed[0] != dateRange(1, 5) {
		t.Errorf("committed ranges = %v, want exactly [%v]", committed, dateRange(1, 5))
	}
}

func TestReserveToolNotFound(t *testing.T) {
	guard := NewGuard(newFakeToolRepo(), newFakeLockRepo(), testConfig())

	err := guard.Reserve(context.Background(), "missing", dateRange(1, 5))
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("Reserve on missing tool = %v, want NOT_FOUND", err)
	}
}

func TestReserveInvalidRange(t *testing.T) {
	guard := NewGuard(newFakeToolRepo("tool-1"), newFakeLockRepo(), testConfig())

	err := guard.Reserve(context.Background(), "tool-1", dateRange(10, 5))
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("Reserve with reversed range = %v, want INVALID_INPUT", err)
	}
}

func TestReserveConflictReportsCommittedRanges(t *testing.T) {
	toolRepo := newFakeToolRepo("tool-1")
	guard := NewGuard(toolRepo, newFakeLockRepo(), testConfig())
	ctx := context.Background()

	if err := guard.Reserve(ctx, "tool-1", dateRange(1, 5)); err != nil {
		t.Fatalf("first Reserve returned error: %v", err)
	}

	// Shared boundary date is a conflict: no same-day handover.
	err := guard.Reserve(ctx, "tool-1", dateRange(5, 10))
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("overlapping Reserve = %v, want CONFLICT", err)
	}

	appErr := apperrors.AsAppError(err)
	conflicts, ok := appErr.Details["conflicts"].([]string)
	if !ok || len(conflicts) != 1 {
		t.Fatalf("conflict details = %v, want one conflicting range", appErr.Details)
	}
	if conflicts[0] != dateRange(1, 5).String() {
		t.Errorf("conflicting range = %s, want %s", conflicts[0], dateRange(1, 5))
	}

	// The rejected reserve must not have mutated the set.
	if committed := toolRepo.committed("tool-1"); len(committed) != 1 {
		t.Errorf("committed ranges after conflict = %v, want one entry", committed)
	}
}

func TestReleaseRemovesRange(t *testing.T) {
	toolRepo := newFakeToolRepo("tool-1")
	guard := NewGuard(toolRepo, newFakeLockRepo(), testConfig())
	ctx := context.Background()

	if err := guard.Reserve(ctx, "tool-1", dateRange(1, 5)); err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}
	if err := guard.Release(ctx, "tool-1", dateRange(1, 5)); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}

	if committed := toolRepo.committed("tool-1"); len(committed) != 0 {
		t.Errorf("committed ranges after release = %v, want empty", committed)
	}

	// The released range can be reserved again.
	if err := guard.Reserve(ctx, "tool-1", dateRange(1, 5)); err != nil {
		t.Errorf("Reserve after release returned error: %v", err)
	}
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	toolRepo := newFakeToolRepo("tool-1")
	lockRepo := newFakeLockRepo()
	guard := NewGuard(toolRepo, lockRepo, testConfig())

	const attempts = 8
	results := make(chan error, attempts)

	var start sync.WaitGroup
	start.Add(1)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()

			ctx := context.Background()
			release, err := guard.AcquireLock(ctx, "tool-1")
			if err != nil {
				results <- err
				return
			}
			defer release()

			results <- guard.Reserve(ctx, "tool-1", dateRange(1, 5))
		}()
	}

	start.Done()
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.IsCode(err, apperrors.CodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if conflicts != attempts-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-1)
	}
	if committed := toolRepo.committed("tool-1"); len(committed) != 1 {
		t.Errorf("committed ranges = %v, want exactly one entry", committed)
	}
}
