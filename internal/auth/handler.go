package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"signalviz/internal/platform/metrics"
	"signalviz/internal/platform/middleware"
	"signalviz/internal/ratelimit"
	"signalviz/internal/transport/http/shared"
	dErrors "signalviz/pkg/domain-errors"
)

// Handler handles the login endpoint.
type Handler struct {
	logger  *slog.Logger
	auth    *Service
	metrics *metrics.Metrics
	limiter *ratelimit.Limiter
}

// NewHandler creates a new auth Handler.
func NewHandler(auth *Service, logger *slog.Logger, metrics *metrics.Metrics, limiter *ratelimit.Limiter) *Handler {
	return &Handler{
		logger:  logger,
		auth:    auth,
		metrics: metrics,
		limiter: limiter,
	}
}

// Register registers the login route with the chi router. Login stays
// outside the session-token gate but behind the rate limiter.
func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(middleware.Recovery(h.logger))
	authRouter.Use(middleware.RequestID)
	authRouter.Use(middleware.Logger(h.logger))
	authRouter.Use(middleware.Timeout(10 * time.Second))
	authRouter.Use(middleware.ContentTypeJSON)
	authRouter.Use(middleware.Latency(h.metrics))
	authRouter.Use(ratelimit.Middleware(h.limiter, h.logger))
	authRouter.Post("/login", h.handleLogin)

	r.Mount("/api/auth", authRouter)
}

type loginRequest struct {
	ID string `json:"id"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestID,
			"error", err.Error(),
		)
		h.metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.auth.Login(ctx, req.ID)
	if err != nil {
		switch {
		case dErrors.Is(err, dErrors.CodeBadRequest):
			h.metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		case dErrors.Is(err, dErrors.CodeUnauthorized):
			h.metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		default:
			h.metrics.LoginAttempts.WithLabelValues("error").Inc()
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	h.metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    result.User,
		"token":   result.Token,
	})
}
