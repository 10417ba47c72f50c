package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// JWTAuthMiddleware はJWT認証ミドルウェアを提供します
type JWTAuthMiddleware struct {
	jwtService *jwt.JWTService
	revoker    service.TokenRevoker
}

// NewJWTAuthMiddleware は新しいJWTAuthMiddlewareを作成します
// revoker が nil の場合、失効チェックは行いません
func NewJWTAuthMiddleware(jwtService *jwt.JWTService, revoker service.TokenRevoker) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		jwtService: jwtService,
		revoker:    revoker,
	}
}

// Authenticate は認証ミドルウェアを返します
func (m *JWTAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return apperror.NewUnauthorizedError("authorization header required")
			}

			claims, err := m.jwtService.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return apperror.NewTokenExpiredError()
				}
				return apperror.NewUnauthorizedError("invalid token")
			}

			if m.revoker != nil {
				revoked, err := m.revoker.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					// 失効リストが参照できない場合は署名検証の結果を信頼する
					logger.WithError(c.Request().Context(), err).Warn("token revocation check failed")
				} else if revoked {
					return apperror.NewUnauthorizedError("token has been revoked")
				}
			}

			principal := &entity.Principal{
				UserID: claims.UserID,
				Name:   claims.Name,
				Email:  claims.Email,
				Role:   valueobject.Role(claims.Role),
			}
			SetPrincipal(c, principal)
			c.Set(ContextKeyAccessClaims, claims)

			ctx := logger.ContextWithUserID(c.Request().Context(), claims.UserID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
