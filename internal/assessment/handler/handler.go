// Package handler exposes the assessment REST endpoints.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"signalviz/internal/analytics"
	"signalviz/internal/assessment/models"
	"signalviz/internal/assessment/service"
	"signalviz/internal/platform/metrics"
	"signalviz/internal/platform/middleware"
	"signalviz/internal/transport/http/shared"
	dErrors "signalviz/pkg/domain-errors"
)

// maxUploadBytes caps upload payloads. Research exports run large but a
// whole cohort fits well under this.
const maxUploadBytes = 50 << 20

// Service defines the assessment operations the handler needs.
type Service interface {
	List(ctx context.Context, opts analytics.QueryOptions) ([]models.AssessmentRecord, error)
	Upload(ctx context.Context, payload []byte, mode service.UploadMode) (service.UploadResult, error)
	UpdateAnnotations(ctx context.Context, id string, patch map[string]any, updatedBy string) (models.Annotations, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (analytics.Stats, error)
	Analyze(ctx context.Context, id string) (service.RecordAnalysis, error)
}

// Handler handles assessment endpoints.
type Handler struct {
	logger       *slog.Logger
	assessments  Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new assessment Handler.
func New(
	assessments Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		assessments:  assessments,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the assessment routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	router.Get("/", h.handleList)
	router.Get("/stats", h.handleStats)
	router.Post("/upload", h.handleUpload)
	router.Get("/{id}/analysis", h.handleAnalysis)
	router.Patch("/{id}/annotations", h.handleUpdateAnnotations)
	router.Delete("/{id}", h.handleDelete)
	router.Delete("/", h.handleClear)

	r.Mount("/api/assessments", router)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	opts := analytics.QueryOptions{
		Archetype: q.Get("archetype"),
		Search:    q.Get("search"),
		Key:       analytics.SortKey(q.Get("sort")),
		Dir:       analytics.SortDir(q.Get("dir")),
	}

	records, err := h.assessments.List(ctx, opts)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list assessments",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	// An empty store serializes as [] rather than null.
	if records == nil {
		records = []models.AssessmentRecord{}
	}
	shared.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.assessments.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute stats",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	mode, err := service.ParseUploadMode(r.URL.Query().Get("mode"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read upload body",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unable to read upload body"))
		return
	}

	result, err := h.assessments.Upload(ctx, payload, mode)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "rejected upload payload",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to store upload",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   result.Count,
		"mode":    result.Mode,
	})
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	analysis, err := h.assessments.Analyze(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to analyze assessment",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, analysis)
}

func (h *Handler) handleUpdateAnnotations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.WarnContext(ctx, "invalid annotations patch",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	annotations, err := h.assessments.UpdateAnnotations(ctx, chi.URLParam(r, "id"), patch, middleware.GetUserID(ctx))
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to update annotations",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"annotations": annotations,
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.assessments.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to delete assessment",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Assessment deleted",
	})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.assessments.Clear(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to clear assessments",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "All data cleared",
	})
}
