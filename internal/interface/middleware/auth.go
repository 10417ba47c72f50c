package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
)

const (
	ContextKeyPrincipal    = "principal"
	ContextKeyAccessClaims = "access_claims"
)

// GetPrincipal はコンテキストから認証済みの呼び出し元を取得します
// 未認証の場合は nil を返します
func GetPrincipal(c echo.Context) *entity.Principal {
	if p, ok := c.Get(ContextKeyPrincipal).(*entity.Principal); ok {
		return p
	}
	return nil
}

// SetPrincipal はコンテキストに呼び出し元を設定します
func SetPrincipal(c echo.Context, p *entity.Principal) {
	c.Set(ContextKeyPrincipal, p)
}

// GetAccessClaims はコンテキストからアクセストークンのクレームを取得します
func GetAccessClaims(c echo.Context) *jwt.AccessTokenClaims {
	if claims, ok := c.Get(ContextKeyAccessClaims).(*jwt.AccessTokenClaims); ok {
		return claims
	}
	return nil
}

// RequireRole はいずれかのロールを持たない呼び出し元を拒否するミドルウェアを返します
// Authenticate の後に適用します
func RequireRole(roles ...valueobject.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := GetPrincipal(c)
			if p == nil {
				return apperror.NewUnauthorizedError("authentication required")
			}
			if !p.HasRole(roles...) {
				return apperror.NewForbiddenError("insufficient role")
			}
			return next(c)
		}
	}
}
