package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parisxmas/materai/internal/models"
)

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Branch string `json:"cabang"`
	jwt.RegisteredClaims
}

func (c *Claims) Session() models.Session {
	return models.Session{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
		Branch: c.Branch,
	}
}

// GenerateToken signs a session token. Tokens are normally issued by the
// login service; this exists for tooling and tests.
func GenerateToken(secret string, sess models.Session, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	claims := Claims{
		UserID: sess.UserID,
		Email:  sess.Email,
		Role:   sess.Role,
		Branch: sess.Branch,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}
