package command

import (
	"context"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// EnsureAdminInput は初期管理者作成の入力を定義します
type EnsureAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EnsureAdminOutput は初期管理者作成の出力を定義します
type EnsureAdminOutput struct {
	UserID  int64
	Created bool
	// Promoted は既存ユーザーを ADMIN に昇格した場合に true です
	Promoted bool
}

// EnsureAdminCommand は起動時に管理者ユーザーを用意するコマンドです
type EnsureAdminCommand struct {
	userRepo repository.UserRepository
}

// NewEnsureAdminCommand は新しいEnsureAdminCommandを作成します
func NewEnsureAdminCommand(userRepo repository.UserRepository) *EnsureAdminCommand {
	return &EnsureAdminCommand{userRepo: userRepo}
}

// Execute は管理者が存在しなければ作成し、USER ロールであれば昇格します
// 既存ユーザーのパスワードは変更しません
func (c *EnsureAdminCommand) Execute(ctx context.Context, input EnsureAdminInput) (*EnsureAdminOutput, error) {
	email, err := valueobject.NewEmail(input.Email)
	if err != nil {
		return nil, apperror.NewFieldValidationError("email", err.Error())
	}

	existing, err := c.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role.IsAdmin() {
			return &EnsureAdminOutput{UserID: existing.ID}, nil
		}
		existing.Promote(valueobject.RoleAdmin)
		if err := c.userRepo.Update(ctx, existing); err != nil {
			return nil, apperror.NewInternalError(err)
		}
		logger.Info(ctx, "bootstrap user promoted to admin", "user_id", existing.ID)
		return &EnsureAdminOutput{UserID: existing.ID, Promoted: true}, nil
	case !apperror.IsNotFound(err):
		return nil, apperror.NewInternalError(err)
	}

	password, err := valueobject.NewPassword(input.Password, email)
	if err != nil {
		return nil, apperror.NewFieldValidationError("password", err.Error())
	}

	firstName, lastName := input.FirstName, input.LastName
	if firstName == "" {
		firstName = "Admin"
	}
	if lastName == "" {
		lastName = "User"
	}

	user := entity.NewUser(firstName, lastName, email, password, valueobject.RoleAdmin)
	if err := c.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.NewInternalError(err)
	}

	logger.Info(ctx, "bootstrap admin created", "user_id", user.ID)
	return &EnsureAdminOutput{UserID: user.ID, Created: true}, nil
}
