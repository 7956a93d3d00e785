package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "github.com/KillerWBI/ToolsBackEnd/pkg/errors"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

type mockToolService struct {
	createFunc   func(ctx context.Context, tool *model.Tool) error
	getByIDFunc  func(ctx context.Context, id string) (*model.Tool, error)
	deleteFunc   func(ctx context.Context, id string) error
	getAllCalled bool
}

func (m *mockToolService) Create(ctx context.Context, tool *model.Tool) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, tool)
	}
	tool.ID = "507f1f77bcf86cd799439099"
	return nil
}

func (m *mockToolService) GetByID(ctx context.Context, id string) (*model.Tool, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Tool", id)
}

func (m *mockToolService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, int64, error) {
	m.getAllCalled = true
	return []*model.Tool{{ID: "1", Name: "Drill"}}, 1, nil
}

func (m *mockToolService) GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Tool, int64, error) {
	return []*model.Tool{}, 0, nil
}

func (m *mockToolService) Update(ctx context.Context, id string, updates *model.ToolUpdate) (*model.Tool, error) {
	return nil, apperrors.NotFoundWithID("Tool", id)
}

func (m *mockToolService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestRouter(svc *mockToolService) *httprouter.Router {
	h := NewToolHandler(svc, logger.New(logger.Config{Output: io.Discard}))
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreate_ReturnsCreated(t *testing.T) {
	router := newTestRouter(&mockToolService{})

	body := `{"owner_id":"507f1f77bcf86cd799439011","category_id":"507f1f77bcf86cd799439012","name":"Drill","description":"18V cordless","price_per_day":150,"images":"drill.jpg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var resp struct {
		Data model.Tool `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID == "" {
		t.Error("response carries no tool ID")
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	router := newTestRouter(&mockToolService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetByID_NotFoundStatus(t *testing.T) {
	router := newTestRouter(&mockToolService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools/id/507f1f77bcf86cd799439011", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDelete_ConflictSurfacesDetails(t *testing.T) {
	svc := &mockToolService{
		deleteFunc: func(ctx context.Context, id string) error {
			return apperrors.Conflict("Tool cannot be deleted: 2 active booking(s) reference it").
				WithDetails(map[string]any{"active_bookings": 2})
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tools/id/507f1f77bcf86cd799439011", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var resp struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Details["active_bookings"] != float64(2) {
		t.Errorf("details = %v, want active_bookings=2", resp.Details)
	}
}

func TestGetAll_Paginates(t *testing.T) {
	svc := &mockToolService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools?limit=5&offset=0", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !svc.getAllCalled {
		t.Error("GetAll was never called")
	}

	var resp struct {
		TotalCount int64 `json:"total_count"`
		Limit      int   `json:"limit"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalCount != 1 || resp.Limit != 5 {
		t.Errorf("pagination = total %d limit %d, want total 1 limit 5", resp.TotalCount, resp.Limit)
	}
}
