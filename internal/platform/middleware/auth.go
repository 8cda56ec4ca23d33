package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"affilia/internal/capability"
	"affilia/pkg/requestcontext"
)

// TokenValidator defines the interface for validating capability tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (capability.Claims, error)
}

// RequireLicenceManager rejects requests whose bearer token is missing,
// invalid, or lacks the licence-management capability. Validated claims
// and the caller id land in the request context for handlers and services.
func RequireLicenceManager(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeForbidden(w, "missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeForbidden(w, "invalid or expired token")
				return
			}

			if !claims.ManageLicences {
				logger.WarnContext(ctx, "forbidden - caller lacks licence management capability",
					"caller", claims.Subject,
					"request_id", requestID,
				)
				writeForbidden(w, "licence management capability required")
				return
			}

			ctx = capability.WithClaims(ctx, claims)
			ctx = requestcontext.WithCallerID(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"code":"forbidden","message":"` + message + `"}`))
}
