package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/tenant"
)

const secret = "test-secret"

// echo writes the identity found in the context.
var echo = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Write([]byte(ctxkeys.GetUserID(ctx) + "|" + ctxkeys.GetRole(ctx) + "|" + ctxkeys.GetTenantID(ctx)))
})

func do(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthWithJWT(t *testing.T) {
	h := Auth(NewJWTVerifier(secret), tenant.NewResolver("default"))(echo)

	token, err := IssueToken(secret, Identity{UserID: "u1", Role: "admin", TenantID: "studio"}, time.Now())
	require.NoError(t, err)

	rec := do(h, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1|admin|studio", rec.Body.String())
}

func TestAuthDefaults(t *testing.T) {
	h := Auth(NewJWTVerifier(secret), tenant.NewResolver("default"))(echo)

	token, err := IssueToken(secret, Identity{UserID: "u1", Role: "wizard"}, time.Now())
	require.NoError(t, err)

	rec := do(h, "Bearer "+token)
	assert.Equal(t, "u1|coach|default", rec.Body.String())
}

func TestAuthRejects(t *testing.T) {
	h := Auth(NewJWTVerifier(secret), tenant.NewResolver("default"))(echo)

	expired, err := IssueToken(secret, Identity{UserID: "u1"}, time.Now().Add(-8*24*time.Hour))
	require.NoError(t, err)
	forged, err := IssueToken("other-secret", Identity{UserID: "u1"}, time.Now())
	require.NoError(t, err)
	anonymous, err := IssueToken(secret, Identity{}, time.Now())
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"garbage":        "Bearer not-a-jwt",
		"expired":        "Bearer " + expired,
		"wrong secret":   "Bearer " + forged,
		"no user":        "Bearer " + anonymous,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(h, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

type fakeIDTokens struct {
	token *auth.Token
	err   error
}

func (f fakeIDTokens) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return f.token, f.err
}

func TestFirebaseVerifier(t *testing.T) {
	v := NewFirebaseVerifier(fakeIDTokens{token: &auth.Token{
		UID:    "fb-uid",
		Claims: map[string]interface{}{"role": "superadmin", "tenantId": "studio"},
	}})

	id, err := v.Verify(context.Background(), "raw")
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "fb-uid", Role: "superadmin", TenantID: "studio"}, id)

	_, err = NewFirebaseVerifier(fakeIDTokens{err: errors.New("expired")}).Verify(context.Background(), "raw")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireMinRole(t *testing.T) {
	h := RequireMinRole(ctxkeys.RoleAdmin)(echo)

	for role, want := range map[string]int{
		ctxkeys.RoleCoach:      http.StatusForbidden,
		ctxkeys.RoleAdmin:      http.StatusOK,
		ctxkeys.RoleSuperadmin: http.StatusOK,
		"":                     http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(ctxkeys.WithIdentity(req.Context(), "u", role, "t"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, "role %q", role)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(rate.Every(time.Hour), 2)(echo)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestLimiterSweep(t *testing.T) {
	l := newIPLimiter(rate.Every(time.Hour), 1)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	l.allow("a")
	clock = clock.Add(limiterIdleTTL + time.Second)
	l.allow("b")
	l.sweep()

	assert.NotContains(t, l.limiters, "a")
	assert.Contains(t, l.limiters, "b")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
