package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/parisxmas/materai/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenCookie carries the session token for browser clients that cannot set
// an Authorization header on form posts.
const TokenCookie = "materai_token"

func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims, err := ValidateToken(secret, tokenStr)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := WithSession(r.Context(), claims.Session())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func WithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, UserContextKey, sess)
}

// GetSession returns the caller's session; ok is false outside Middleware.
func GetSession(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(UserContextKey).(models.Session)
	return sess, ok
}
