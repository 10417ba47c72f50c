package command

import (
	"context"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// PromoteUserInput はロール変更の入力を定義します
type PromoteUserInput struct {
	Email string
	Role  string
}

// PromoteUserCommand はユーザーのロールを変更するコマンドです
type PromoteUserCommand struct {
	userRepo repository.UserRepository
}

// NewPromoteUserCommand は新しいPromoteUserCommandを作成します
func NewPromoteUserCommand(userRepo repository.UserRepository) *PromoteUserCommand {
	return &PromoteUserCommand{userRepo: userRepo}
}

// Execute はロールを変更します
func (c *PromoteUserCommand) Execute(ctx context.Context, input PromoteUserInput) (*entity.User, error) {
	email, err := valueobject.NewEmail(input.Email)
	if err != nil {
		return nil, apperror.NewFieldValidationError("email", err.Error())
	}
	role, err := valueobject.NewRole(input.Role)
	if err != nil {
		return nil, apperror.NewFieldValidationError("role", err.Error())
	}

	user, err := c.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFoundError("user")
		}
		return nil, apperror.NewInternalError(err)
	}

	if user.Role == role {
		return user, nil
	}

	user.Promote(role)
	if err := c.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return user, nil
}
