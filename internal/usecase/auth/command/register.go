package command

import (
	"context"
	"strings"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// RegisterInput は登録の入力を定義します
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterCommand はユーザー登録コマンドです
// 登録したユーザーは常に USER ロールになります
type RegisterCommand struct {
	userRepo   repository.UserRepository
	txManager  repository.TransactionManager
	jwtService *jwt.JWTService
}

// NewRegisterCommand は新しいRegisterCommandを作成します
func NewRegisterCommand(
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	jwtService *jwt.JWTService,
) *RegisterCommand {
	return &RegisterCommand{
		userRepo:   userRepo,
		txManager:  txManager,
		jwtService: jwtService,
	}
}

// Execute はユーザー登録を実行し、トークンを発行します
func (c *RegisterCommand) Execute(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	// 1. 入力のバリデーション
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, apperror.NewFieldValidationError("firstName", "first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return nil, apperror.NewFieldValidationError("lastName", "last name is required")
	}

	email, err := valueobject.NewEmail(input.Email)
	if err != nil {
		return nil, apperror.NewFieldValidationError("email", err.Error())
	}

	password, err := valueobject.NewPassword(input.Password, email)
	if err != nil {
		return nil, apperror.NewFieldValidationError("password", err.Error())
	}

	// 2. メールアドレスの重複チェックと作成
	user := entity.NewUser(input.FirstName, input.LastName, email, password, valueobject.RoleUser)

	err = c.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := c.userRepo.Exists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewConflictError("email already in use")
		}
		return c.userRepo.Create(ctx, user)
	})
	if err != nil {
		if apperror.IsConflict(err) {
			return nil, err
		}
		return nil, apperror.NewInternalError(err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID)

	// 3. トークン発行
	return issueTokens(c.jwtService, user)
}
