package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"signalviz/internal/transport/http/shared"
	dErrors "signalviz/pkg/domain-errors"
)

// Middleware rejects requests with 429 once the client IP exceeds the
// limiter's budget.
func Middleware(limiter *Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.WarnContext(r.Context(), "rate limit exceeded", "client", key, "path", r.URL.Path)
				shared.WriteError(w, dErrors.New(dErrors.CodeTooMany, "too many requests, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
