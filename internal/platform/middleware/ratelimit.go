package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	platformredis "affilia/internal/platform/redis"
	"affilia/pkg/requestcontext"
)

// RateLimit applies a fixed-window counter per caller (falling back to the
// client IP before auth ran). A nil client disables the middleware, so dev
// runs without redis keep working. Redis failures fail open.
func RateLimit(client *platformredis.Client, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := requestcontext.CallerID(ctx)
			if key == "" {
				key = requestcontext.ClientIP(ctx)
			}
			if key == "" {
				key = ClientIPFromRequest(r)
			}
			bucket := "ratelimit:" + key + ":" + strconv.FormatInt(time.Now().Unix()/int64(window.Seconds()), 10)

			count, err := client.Incr(ctx, bucket).Result()
			if err != nil {
				logger.WarnContext(ctx, "rate limit check failed, allowing request",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(ctx, bucket, window)
			}
			if count > int64(limit) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"code":"rate_limited","message":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
