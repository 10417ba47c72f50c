package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/cache"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
)

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequestOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/pdf/merge", nil)
	req.RemoteAddr = "10.0.0.7:41000"
	req.Header.Set("X-Forwarded-For", "unknown")
	req.Header.Set("Proxy-Client-IP", "198.51.100.4, 10.0.0.1")
	req.Header.Set(HeaderSourceType, "Frontend")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	c, _ := newContext(req)
	p := &entity.Principal{UserID: 3, Role: valueobject.RoleUser}
	SetPrincipal(c, p)

	origin := RequestOrigin(c)
	assert.Same(t, p, origin.Principal)
	assert.Equal(t, "Frontend", origin.SourceType)
	assert.Equal(t, "Mozilla/5.0", origin.UserAgent)
	assert.Equal(t, "198.51.100.4", origin.ClientIP())
}

func TestRequestOrigin_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/pdf/merge", nil)
	req.RemoteAddr = "203.0.113.50:1234"
	c, _ := newContext(req)

	origin := RequestOrigin(c)
	assert.Nil(t, origin.Principal)
	assert.Equal(t, "203.0.113.50", origin.ClientIP())
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name      string
		principal *entity.Principal
		wantCode  apperror.ErrorCode
	}{
		{name: "anonymous", wantCode: apperror.CodeUnauthorized},
		{name: "user on admin route", principal: &entity.Principal{UserID: 1, Role: valueobject.RoleUser}, wantCode: apperror.CodeForbidden},
		{name: "admin", principal: &entity.Principal{UserID: 2, Role: valueobject.RoleAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(httptest.NewRequest(http.MethodGet, "/api/history", nil))
			if tt.principal != nil {
				SetPrincipal(c, tt.principal)
			}

			err := RequireRole(valueobject.RoleAdmin)(okHandler)(c)
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

type stubRevoker struct {
	revoked map[string]bool
}

func (s *stubRevoker) Revoke(_ context.Context, id string, _ time.Duration) error {
	s.revoked[id] = true
	return nil
}

func (s *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.revoked[id], nil
}

func TestJWTAuthMiddleware_Authenticate(t *testing.T) {
	svc := jwt.NewJWTService(jwt.Config{
		SecretKey:          "test-secret-key-that-is-at-least-32-chars",
		Issuer:             "pdfops",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
	})
	access, refresh, err := svc.GenerateTokenPair(jwt.Subject{UserID: 9, Email: "a@example.com", Name: "A B", Role: "ADMIN"})
	require.NoError(t, err)
	revoker := &stubRevoker{revoked: map[string]bool{}}
	m := NewJWTAuthMiddleware(svc, revoker)

	call := func(header string) (echo.Context, error) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		c, _ := newContext(req)
		return c, m.Authenticate()(okHandler)(c)
	}

	c, err := call("Bearer " + access)
	require.NoError(t, err)
	p := GetPrincipal(c)
	require.NotNil(t, p)
	assert.Equal(t, int64(9), p.UserID)
	assert.Equal(t, valueobject.RoleAdmin, p.Role)

	_, err = call("")
	assert.True(t, apperror.IsUnauthorized(err))

	_, err = call("Bearer " + refresh)
	assert.True(t, apperror.IsUnauthorized(err), "refresh token must not authenticate")

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	revoker.revoked[claims.ID] = true
	_, err = call("Bearer " + access)
	assert.True(t, apperror.IsUnauthorized(err))
}

type fakeLimiter struct {
	allowed bool
	err     error
	ids     []string
}

func (f *fakeLimiter) Allow(_ context.Context, id string, cfg cache.RateLimitConfig) (*cache.RateLimitResult, error) {
	f.ids = append(f.ids, id)
	if f.err != nil {
		return nil, f.err
	}
	return &cache.RateLimitResult{Allowed: f.allowed, ResetAt: time.Unix(1700000000, 0)}, nil
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("rejects when exhausted", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: false}
		c, rec := newContext(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

		err := NewRateLimitMiddleware(limiter).ByIP(cache.RateLimitAuthLogin)(okHandler)(c)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeRateLimitExceeded, appErr.Code)
		assert.Equal(t, "1700000000", rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("allows on limiter failure", func(t *testing.T) {
		limiter := &fakeLimiter{err: errors.New("redis down")}
		c, _ := newContext(httptest.NewRequest(http.MethodPost, "/api/pdf/merge", nil))
		SetPrincipal(c, &entity.Principal{UserID: 4})

		require.NoError(t, NewRateLimitMiddleware(limiter).ByUser(cache.RateLimitPDFProcess)(okHandler)(c))
		assert.Equal(t, []string{"user:4"}, limiter.ids)
	})

	t.Run("nil limiter allows", func(t *testing.T) {
		c, _ := newContext(httptest.NewRequest(http.MethodPost, "/api/pdf/merge", nil))
		require.NoError(t, NewRateLimitMiddleware(nil).ByUser(cache.RateLimitPDFProcess)(okHandler)(c))
	})
}

func TestCustomHTTPErrorHandler(t *testing.T) {
	c, rec := newContext(httptest.NewRequest(http.MethodDelete, "/api/history/5", nil))
	c.Set(ContextKeyRequestID, "req-1")

	CustomHTTPErrorHandler(apperror.NewNotFoundError("operation history"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, "req-1", body.Meta.RequestID)
}

func TestCustomHTTPErrorHandler_EchoError(t *testing.T) {
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/missing", nil))

	CustomHTTPErrorHandler(echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"), c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_REQUEST", body.Error.Code)
}
