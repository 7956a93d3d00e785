package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/service"
	apperrors "github.com/KillerWBI/ToolsBackEnd/pkg/errors"
	httputil "github.com/KillerWBI/ToolsBackEnd/pkg/http"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
	"github.com/KillerWBI/ToolsBackEnd/pkg/model"
)

type FeedbackHandler struct {
	service service.FeedbackService
	log     *logger.Logger
}

func NewFeedbackHandler(service service.FeedbackService, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		log:     log,
	}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var feedback model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &feedback); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, feedback); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

// GetLatest serves the landing-page feed of newest feedback entries.
func (h *FeedbackHandler) GetLatest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid limit parameter: "+limitStr)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetLatest", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		limit = v
	}

	feedbacks, err := h.service.Latest(r.Context(), limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetLatest", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, feedbacks); err != nil {
		h.log.Error("failed to write success response", "handler", "GetLatest", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FeedbackHandler) GetByTool(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	toolID := ps.ByName("toolId")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByTool", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	feedbacks, total, err := h.service.GetByTool(r.Context(), toolID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByTool", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, feedbacks, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByTool", "operation", "WritePaginated", "error", err)
	}
}

func (h *FeedbackHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/feedbacks", h.Create)
	router.GET("/api/v1/feedbacks", h.GetLatest)
	router.GET("/api/v1/feedbacks/tool/:toolId", h.GetByTool)
}
