package command

import (
	"context"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
)

// LoginInput はログインの入力を定義します
type LoginInput struct {
	Email    string
	Password string
}

// LoginCommand はログインコマンドです
type LoginCommand struct {
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
}

// NewLoginCommand は新しいLoginCommandを作成します
func NewLoginCommand(userRepo repository.UserRepository, jwtService *jwt.JWTService) *LoginCommand {
	return &LoginCommand{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Execute はログインを実行します
func (c *LoginCommand) Execute(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	// 1. メールアドレスでユーザーを検索
	email, err := valueobject.NewEmail(input.Email)
	if err != nil {
		return nil, apperror.NewUnauthorizedError("invalid credentials")
	}

	user, err := c.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorizedError("invalid credentials")
		}
		return nil, apperror.NewInternalError(err)
	}

	// 2. パスワード検証
	if !user.Password().Verify(input.Password) {
		return nil, apperror.NewUnauthorizedError("invalid credentials")
	}

	// 3. ユーザー状態チェック
	if !user.CanLogin() {
		return nil, apperror.NewUnauthorizedError("account disabled")
	}

	// 4. トークン発行
	return issueTokens(c.jwtService, user)
}
