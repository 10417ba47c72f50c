package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/internal/infrastructure/cache"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// Limiter はレート制限の判定を行います
type Limiter interface {
	Allow(ctx context.Context, identifier string, config cache.RateLimitConfig) (*cache.RateLimitResult, error)
}

// RateLimitMiddleware はレート制限ミドルウェアを提供します
type RateLimitMiddleware struct {
	limiter Limiter
}

// NewRateLimitMiddleware は新しいRateLimitMiddlewareを作成します
// limiter が nil の場合、全てのリクエストを許可します
func NewRateLimitMiddleware(limiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// ByIP はIPアドレスでレート制限するミドルウェアを返します
func (m *RateLimitMiddleware) ByIP(config cache.RateLimitConfig) echo.MiddlewareFunc {
	return m.limit(config, func(c echo.Context) string {
		return c.RealIP()
	})
}

// ByUser はユーザーIDでレート制限するミドルウェアを返します
// 未認証の場合はIPアドレスで判定します
func (m *RateLimitMiddleware) ByUser(config cache.RateLimitConfig) echo.MiddlewareFunc {
	return m.limit(config, func(c echo.Context) string {
		if p := GetPrincipal(c); p != nil {
			return "user:" + strconv.FormatInt(p.UserID, 10)
		}
		return c.RealIP()
	})
}

func (m *RateLimitMiddleware) limit(config cache.RateLimitConfig, identify func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.limiter == nil {
				return next(c)
			}

			result, err := m.limiter.Allow(c.Request().Context(), identify(c), config)
			if err != nil {
				// レート制限チェックに失敗した場合はリクエストを許可
				logger.WithError(c.Request().Context(), err).Warn("rate limit check failed", "type", config.Type)
				return next(c)
			}

			setRateLimitHeaders(c, config, result)

			if !result.Allowed {
				return apperror.NewTooManyRequestsError("rate limit exceeded")
			}

			return next(c)
		}
	}
}

// setRateLimitHeaders はレート制限ヘッダーを設定します
func setRateLimitHeaders(c echo.Context, config cache.RateLimitConfig, result *cache.RateLimitResult) {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(config.Requests))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
