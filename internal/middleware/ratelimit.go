package middleware

import (
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/parisxmas/materai/internal/auth"
)

// RateLimit limits requests per signed-in user, or per client IP for
// anonymous requests. rate uses the limiter format, e.g. "30-M".
func RateLimit(rate string) (func(http.Handler) http.Handler, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), r)
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(func(req *http.Request) string {
			if sess, ok := auth.GetSession(req.Context()); ok && sess.UserID != "" {
				return "user:" + sess.UserID
			}
			return "ip:" + instance.GetIPKey(req)
		}),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests"}`))
		}),
	)
	return mw.Handler, nil
}
