package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parisxmas/materai/internal/models"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	in := models.Session{UserID: "42", Email: "staf@toko.id", Role: "user", Branch: "JKT01"}
	tok, err := GenerateToken(secret, in, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, tok)
	require.NoError(t, err)
	require.Equal(t, in, claims.Session())

	_, err = ValidateToken("other-secret", tok)
	require.Error(t, err)
}

func TestGenerateToken_DefaultLifetime(t *testing.T) {
	tok, err := GenerateToken(secret, models.Session{UserID: "1"}, 0)
	require.NoError(t, err)
	claims, err := ValidateToken(secret, tok)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestMiddleware(t *testing.T) {
	tok, err := GenerateToken(secret, models.Session{UserID: "7", Branch: "BDG02"}, time.Hour)
	require.NoError(t, err)

	var got models.Session
	h := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSession(r.Context())
		require.True(t, ok)
		got = sess
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "BDG02", got.Branch)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddleware_BranchOnlyFromToken(t *testing.T) {
	tok, err := GenerateToken(secret, models.Session{UserID: "9"}, time.Hour)
	require.NoError(t, err)

	var got models.Session
	h := Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetSession(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.AddCookie(&http.Cookie{Name: SessionKey, Value: url.QueryEscape(`{"cabang":"SBY03"}`)})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "9", got.UserID)
	require.Empty(t, got.Branch)
}

func TestReadSessionBranch(t *testing.T) {
	cases := map[string]string{
		`{"email":"a@b.c","cabang":" JKT01 "}`: "JKT01",
		`{"cabang":101}`:                        "101",
		`{"cabang":null}`:                       "",
		`{"email":"a@b.c"}`:                     "",
		`{not json`:                             "",
		`[]`:                                    "",
		``:                                      "",
	}
	for raw, want := range cases {
		require.Equal(t, want, ReadSessionBranch(raw), raw)
	}
}
