package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// SecurityHeadersConfig はセキュリティヘッダー設定を定義します
type SecurityHeadersConfig struct {
	EnableHSTS    bool
	HSTSMaxAge    int
	CSPDirectives string
}

// DefaultSecurityHeadersConfig はデフォルトセキュリティヘッダー設定を返します
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		EnableHSTS:    false,
		HSTSMaxAge:    31536000, // 1年
		CSPDirectives: "default-src 'none'; frame-ancestors 'none'",
	}
}

// SecurityHeaders はセキュリティヘッダーを設定するミドルウェアを返します
func SecurityHeaders(cfg SecurityHeadersConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", cfg.CSPDirectives)
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if cfg.EnableHSTS {
				h.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge))
			}

			return next(c)
		}
	}
}
