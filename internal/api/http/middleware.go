package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"homecrm-backend/internal/config"
	"homecrm-backend/internal/domain"
	"homecrm-backend/internal/logger"
	"homecrm-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

// IdentityResolver resolves the Authorization header to a principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization string) (*domain.Principal, error)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
		return route.GetName()
	}
	return "unknown"
}

// requestMiddleware tags the request with an id, puts a request logger
// in the context and records access logs and metrics.
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		route := routeName(r)
		reqLogger := logger.Get().With("request_id", requestID, "route", route)
		ctx := logger.WithContext(r.Context(), reqLogger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
			s.metrics.latency.WithLabelValues(route).Observe(elapsed.Seconds())
		}
		reqLogger.Info("HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration_ms", elapsed.Milliseconds())
	})
}

// authMiddleware enforces the route's policy: public routes pass,
// every other route needs a resolved principal that satisfies the
// route's role and division requirements.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeName(r)
		policy := config.GetRoutePolicy(route)
		if policy.Level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := s.resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			s.deny(w, r, route, err)
			return
		}
		if err := security.Authorize(principal, policy.Roles, policy.Divisions); err != nil {
			logger.WarnContext(r.Context(), "Request denied by route policy", "user_id", principal.ID, "role", principal.Role, "error", err)
			s.deny(w, r, route, err)
			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", principal.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) deny(w http.ResponseWriter, r *http.Request, route string, err error) {
	if s.metrics != nil {
		reason := "error"
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			reason = "unauthenticated"
		case errors.Is(err, domain.ErrInvalidCredential):
			reason = "invalid_credential"
		case errors.Is(err, domain.ErrInsufficientRole):
			reason = "role"
		case errors.Is(err, domain.ErrInsufficientDivision):
			reason = "division"
		}
		s.metrics.denials.WithLabelValues(route, reason).Inc()
	}
	writeError(w, r, err)
}
