package command

import (
	"context"
	"errors"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// RefreshTokenInput はトークンリフレッシュの入力を定義します
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenCommand はトークンリフレッシュコマンドです
// 使用済みのリフレッシュトークンは失効させます
type RefreshTokenCommand struct {
	userRepo   repository.UserRepository
	revoker    service.TokenRevoker
	jwtService *jwt.JWTService
}

// NewRefreshTokenCommand は新しいRefreshTokenCommandを作成します
// revoker が nil の場合はローテーションを行いません
func NewRefreshTokenCommand(
	userRepo repository.UserRepository,
	revoker service.TokenRevoker,
	jwtService *jwt.JWTService,
) *RefreshTokenCommand {
	return &RefreshTokenCommand{
		userRepo:   userRepo,
		revoker:    revoker,
		jwtService: jwtService,
	}
}

// Execute はトークンリフレッシュを実行します
func (c *RefreshTokenCommand) Execute(ctx context.Context, input RefreshTokenInput) (*AuthOutput, error) {
	// 1. リフレッシュトークン検証
	claims, err := c.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.NewTokenExpiredError()
		}
		return nil, apperror.NewUnauthorizedError("invalid refresh token")
	}

	// 2. 失効チェック
	if c.revoker != nil {
		revoked, err := c.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperror.NewInternalError(err)
		}
		if revoked {
			return nil, apperror.NewUnauthorizedError("refresh token has been revoked")
		}
	}

	// 3. ユーザー取得
	user, err := c.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorizedError("user not found")
		}
		return nil, apperror.NewInternalError(err)
	}
	if !user.CanLogin() {
		return nil, apperror.NewUnauthorizedError("account disabled")
	}

	// 4. 新しいトークン発行
	output, err := issueTokens(c.jwtService, user)
	if err != nil {
		return nil, err
	}

	// 5. 旧トークンを失効
	if c.revoker != nil && claims.ExpiresAt != nil {
		if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
			if err := c.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
				logger.WithError(ctx, err).Warn("failed to revoke rotated refresh token")
			}
		}
	}

	return output, nil
}
