package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// Logger はリクエストロギングミドルウェアを返します
// ヘルスチェックはDebugレベルで出力します
func Logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// ステータスを確定させる
				c.Error(err)
			}

			req := c.Request()
			args := []any{
				"method", req.Method,
				"uri", req.RequestURI,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"bytes_in", req.ContentLength,
				"bytes_out", c.Response().Size,
			}
			if p := GetPrincipal(c); p != nil {
				args = append(args, "user_id", p.UserID)
			}

			if strings.HasPrefix(c.Path(), "/health") || c.Path() == "/ready" {
				logger.Debug(req.Context(), "request", args...)
			} else {
				logger.Info(req.Context(), "request", args...)
			}

			return nil
		}
	}
}
