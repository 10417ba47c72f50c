package di

import (
	"github.com/Hiro-mackay/pdfops/internal/interface/middleware"
)

// Middlewares はアプリケーションのミドルウェアを保持します
type Middlewares struct {
	JWTAuth   *middleware.JWTAuthMiddleware
	RateLimit *middleware.RateLimitMiddleware
}

// NewMiddlewares はContainerから全てのミドルウェアを初期化します
func NewMiddlewares(c *Container) *Middlewares {
	// *cache.RateLimiter の nil をそのまま渡すと nil でないインターフェースになる
	var limiter middleware.Limiter
	if c.RateLimiter != nil {
		limiter = c.RateLimiter
	}

	return &Middlewares{
		JWTAuth:   middleware.NewJWTAuthMiddleware(c.JWTService, c.Revoker),
		RateLimit: middleware.NewRateLimitMiddleware(limiter),
	}
}
