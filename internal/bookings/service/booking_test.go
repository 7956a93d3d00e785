package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	bookingserrors "github.com/KillerWBI/ToolsBackEnd/internal/bookings/errors"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/validator"
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

type mockBookingRepository struct {
	createFunc       func(ctx context.Context, booking *model.Booking) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	updateStatusFunc func(ctx context.Context, id string, status string) error
	deleteFunc       func(ctx context.Context, id string) error
	countFunc        func(ctx context.Context) (int64, error)
	findAllFunc      func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)

	created []*model.Booking
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "booking-1"
	booking.CreatedAt = time.Now()
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByTool(ctx context.Context, toolID string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) CountByTool(ctx context.Context, toolID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) CountActiveByTool(ctx context.Context, toolID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockToolRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Tool, error)
}

func (m *mockToolRepo) FindByID(ctx context.Context, id string) (*model.Tool, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Tool{ID: id, PricePerDay: 100}, nil
}

func (m *mockToolRepo) PushRange(ctx context.Context, toolID string, rng model.DateRange) error {
	return nil
}

func (m *mockToolRepo) PullRange(ctx context.Context, toolID string, rng model.DateRange) error {
	return nil
}

type mockGuard struct {
	reserveFunc func(ctx context.Context, toolID string, rng model.DateRange) error
	releaseFunc func(ctx context.Context, toolID string, rng model.DateRange) error

	lockCount int
	reserved  []model.DateRange
	released  []model.DateRange
}

func (m *mockGuard) AcquireLock(ctx context.Context, toolID string) (func(), error) {
	m.lockCount++
	return func() {}, nil
}

func (m *mockGuard) Reserve(ctx context.Context, toolID string, rng model.DateRange) error {
	if m.reserveFunc != nil {
		return m.reserveFunc(ctx, toolID, rng)
	}
	m.reserved = append(m.reserved, rng)
	return nil
}

func (m *mockGuard) Release(ctx context.Context, toolID string, rng model.DateRange) error {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, toolID, rng)
	}
	m.released = append(m.released, rng)
	return nil
}

type mockPublisher struct {
	published []string
}

func (m *mockPublisher) Publish(ctx context.Context, eventType string, toolID string, payload any) error {
	m.published = append(m.published, eventType)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		Log:            logger.New(logger.Config{Output: io.Discard}),
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		MaxBookingDays: 90,
	}
}

func newService(repo *mockBookingRepository, toolRepo *mockToolRepo, guard *mockGuard, pub *mockPublisher) BookingService {
	cfg := testConfig()
	v := validator.NewBookingValidator(cfg.Log, cfg.MaxBookingDays)
	return NewBookingService(repo, toolRepo, guard, v, pub, cfg)
}

func pendingBooking() *model.Booking {
	return &model.Booking{
		ToolID:         "507f1f77bcf86cd799439011",
		CustomerID:     "507f1f77bcf86cd799439012",
		FirstName:      "Olena",
		LastName:       "Shevchenko",
		Phone:          "+380501234567",
		StartDate:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		DeliveryCity:   "Kyiv",
		DeliveryBranch: "Branch 12",
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_ReservesAndPrices(t *testing.T) {
	repo := &mockBookingRepository{}
	guard := &mockGuard{}
	pub := &mockPublisher{}
	svc := newService(repo, &mockToolRepo{}, guard, pub)

	booking := pendingBooking()
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// June 1 to June 5 is 4 billable days at 100/day.
	if booking.TotalPrice != 400 {
		t.Errorf("TotalPrice = %v, want 400", booking.TotalPrice)
	}
	if booking.Status != model.BookingStatusPending {
		t.Errorf("Status = %q, want pending", booking.Status)
	}
	if guard.lockCount != 1 {
		t.Errorf("lock acquisitions = %d, want 1", guard.lockCount)
	}
	if len(guard.reserved) != 1 || guard.reserved[0] != booking.Range() {
		t.Errorf("reserved ranges = %v, want [%v]", guard.reserved, booking.Range())
	}
	if len(repo.created) != 1 {
		t.Fatalf("created bookings = %d, want 1", len(repo.created))
	}
	if len(pub.published) != 1 || pub.published[0] != events.EventBookingCreated {
		t.Errorf("published events = %v, want [booking.created]", pub.published)
	}
}

func TestCreate_SameDayBookingBillsOneDay(t *testing.T) {
	repo := &mockBookingRepository{}
	svc := newService(repo, &mockToolRepo{}, &mockGuard{}, &mockPublisher{})

	booking := pendingBooking()
	booking.EndDate = booking.StartDate

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if booking.TotalPrice != 100 {
		t.Errorf("TotalPrice = %v, want 100 (one-day minimum)", booking.TotalPrice)
	}
}

func TestCreate_ValidationFailureSkipsLock(t *testing.T) {
	guard := &mockGuard{}
	svc := newService(&mockBookingRepository{}, &mockToolRepo{}, guard, &mockPublisher{})

	booking := pendingBooking()
	booking.Phone = "not a phone"

	err := svc.Create(context.Background(), booking)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("Create = %v, want VALIDATION_ERROR", err)
	}
	if guard.lockCount != 0 {
		t.Errorf("lock acquisitions = %d, want 0 for invalid input", guard.lockCount)
	}
}

func TestCreate_ToolNotFound(t *testing.T) {
	repo := &mockBookingRepository{}
	toolRepo := &mockToolRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Tool, error) {
			return nil, bookingserrors.ErrToolNotFound
		},
	}
	svc := newService(repo, toolRepo, &mockGuard{}, &mockPublisher{})

	err := svc.Create(context.Background(), pendingBooking())
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("Create = %v, want NOT_FOUND", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("created bookings = %d, want 0", len(repo.created))
	}
}

func TestCreate_ConflictAbortsInsert(t *testing.T) {
	repo := &mockBookingRepository{}
	pub := &mockPublisher{}
	guard := &mockGuard{
		reserveFunc: func(ctx context.Context, toolID string, rng model.DateRange) error {
			return apperrors.Conflict("Requested dates conflict with existing bookings")
		},
	}
	svc := newService(repo, &mockToolRepo{}, guard, pub)

	err := svc.Create(context.Background(), pendingBooking())
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("Create = %v, want CONFLICT", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("created bookings = %d, want 0 after conflict", len(repo.created))
	}
	if len(pub.published) != 0 {
		t.Errorf("published events = %v, want none after conflict", pub.published)
	}
}

func TestCreate_InsertFailurePropagates(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return errors.New("write concern failure")
		},
	}
	svc := newService(repo, &mockToolRepo{}, &mockGuard{}, &mockPublisher{})

	err := svc.Create(context.Background(), pendingBooking())
	if !apperrors.IsCode(err, apperrors.CodeInternal) {
		t.Fatalf("Create = %v, want INTERNAL_ERROR", err)
	}
}

// ────────────────────────────────────────────────
// Cancel
// ────────────────────────────────────────────────

func TestCancel_ReleasesRange(t *testing.T) {
	booking := pendingBooking()
	booking.ID = "booking-1"

	var updatedStatus string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			copied := *booking
			return &copied, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status string) error {
			updatedStatus = status
			return nil
		},
	}
	guard := &mockGuard{}
	pub := &mockPublisher{}
	svc := newService(repo, &mockToolRepo{}, guard, pub)

	if err := svc.Cancel(context.Background(), "booking-1"); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	if updatedStatus != model.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", updatedStatus)
	}
	if len(guard.released) != 1 || guard.released[0] != booking.Range() {
		t.Errorf("released ranges = %v, want [%v]", guard.released, booking.Range())
	}
	if len(pub.published) != 1 || pub.published[0] != events.EventBookingCancelled {
		t.Errorf("published events = %v, want [booking.cancelled]", pub.published)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	booking := pendingBooking()
	booking.ID = "booking-1"
	booking.Status = model.BookingStatusCancelled

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	guard := &mockGuard{}
	svc := newService(repo, &mockToolRepo{}, guard, &mockPublisher{})

	err := svc.Cancel(context.Background(), "booking-1")
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("Cancel = %v, want CONFLICT", err)
	}
	if len(guard.released) != 0 {
		t.Errorf("released ranges = %v, want none", guard.released)
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := newService(&mockBookingRepository{}, &mockToolRepo{}, &mockGuard{}, &mockPublisher{})

	err := svc.Cancel(context.Background(), "booking-404")
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("Cancel = %v, want NOT_FOUND", err)
	}
}

// ────────────────────────────────────────────────
// Delete / GetAll
// ────────────────────────────────────────────────

func TestDelete_ActiveBookingReleasesRange(t *testing.T) {
	booking := pendingBooking()
	booking.ID = "booking-1"

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			copied := *booking
			return &copied, nil
		},
	}
	guard := &mockGuard{}
	svc := newService(repo, &mockToolRepo{}, guard, &mockPublisher{})

	if err := svc.Delete(context.Background(), "booking-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(guard.released) != 1 {
		t.Errorf("released ranges = %v, want one entry", guard.released)
	}
}

func TestDelete_CancelledBookingSkipsRelease(t *testing.T) {
	booking := pendingBooking()
	booking.ID = "booking-1"
	booking.Status = model.BookingStatusCancelled

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			copied := *booking
			return &copied, nil
		},
	}
	guard := &mockGuard{}
	svc := newService(repo, &mockToolRepo{}, guard, &mockPublisher{})

	if err := svc.Delete(context.Background(), "booking-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(guard.released) != 0 {
		t.Errorf("released ranges = %v, want none for cancelled booking", guard.released)
	}
}

func TestGetAll_CountAndPageTogether(t *testing.T) {
	repo := &mockBookingRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(10 * time.Millisecond)
			return 42, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
			time.Sleep(10 * time.Millisecond)
			return []*model.Booking{{ID: "1"}, {ID: "2"}}, nil
		},
	}
	svc := newService(repo, &mockToolRepo{}, &mockGuard{}, &mockPublisher{})

	bookings, count, err := svc.GetAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if count != 42 {
		t.Errorf("count = %d, want 42", count)
	}
	if len(bookings) != 2 {
		t.Errorf("bookings = %d, want 2", len(bookings))
	}
}
