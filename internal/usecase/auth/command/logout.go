package command

import (
	"context"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
)

// LogoutInput はログアウトの入力を定義します
type LogoutInput struct {
	AccessTokenID        string
	AccessTokenExpiresAt time.Time
	// RefreshToken は任意です。指定された場合は同時に失効させます
	RefreshToken string
}

// LogoutCommand はログアウトコマンドです
type LogoutCommand struct {
	revoker    service.TokenRevoker
	jwtService *jwt.JWTService
}

// NewLogoutCommand は新しいLogoutCommandを作成します
// revoker が nil の場合、トークンは有効期限まで有効なままです
func NewLogoutCommand(revoker service.TokenRevoker, jwtService *jwt.JWTService) *LogoutCommand {
	return &LogoutCommand{
		revoker:    revoker,
		jwtService: jwtService,
	}
}

// Execute はログアウトを実行します
func (c *LogoutCommand) Execute(ctx context.Context, input LogoutInput) error {
	if c.revoker == nil {
		return nil
	}

	if input.AccessTokenID != "" {
		if err := c.revoke(ctx, input.AccessTokenID, input.AccessTokenExpiresAt); err != nil {
			return err
		}
	}

	if input.RefreshToken != "" {
		claims, err := c.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err != nil {
			// 期限切れや不正なトークンは失効済みとみなす
			return nil
		}
		if claims.ExpiresAt != nil {
			return c.revoke(ctx, claims.ID, claims.ExpiresAt.Time)
		}
	}
	return nil
}

func (c *LogoutCommand) revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := c.revoker.Revoke(ctx, tokenID, ttl); err != nil {
		return apperror.NewInternalError(err)
	}
	return nil
}
