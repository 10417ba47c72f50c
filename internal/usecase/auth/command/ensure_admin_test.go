package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/tests/testutil/mocks"
)

func TestEnsureAdminCommand_Execute_CreatesAdmin(t *testing.T) {
	ctx := context.Background()
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByEmail", ctx, mock.Anything).Return(nil, apperror.NewNotFoundError("user"))
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Role == valueobject.RoleAdmin && u.FirstName == "Admin" && u.Password().Verify("Bootstrap123")
	})).Run(func(args mock.Arguments) { args.Get(1).(*entity.User).ID = 1 }).Return(nil)

	output, err := command.NewEnsureAdminCommand(userRepo).Execute(ctx, command.EnsureAdminInput{
		Email: "admin@example.com", Password: "Bootstrap123",
	})

	require.NoError(t, err)
	assert.True(t, output.Created)
	assert.Equal(t, int64(1), output.UserID)
}

func TestEnsureAdminCommand_Execute_ExistingAdminIsNoop(t *testing.T) {
	ctx := context.Background()
	user := newActiveUser(t)
	user.Role = valueobject.RoleAdmin
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByEmail", ctx, mock.Anything).Return(user, nil)

	output, err := command.NewEnsureAdminCommand(userRepo).Execute(ctx, command.EnsureAdminInput{Email: "test@example.com"})

	require.NoError(t, err)
	assert.False(t, output.Created)
	assert.False(t, output.Promoted)
}

func TestEnsureAdminCommand_Execute_PromotesExistingUser(t *testing.T) {
	ctx := context.Background()
	user := newActiveUser(t)
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByEmail", ctx, mock.Anything).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	output, err := command.NewEnsureAdminCommand(userRepo).Execute(ctx, command.EnsureAdminInput{Email: "test@example.com"})

	require.NoError(t, err)
	assert.True(t, output.Promoted)
	assert.Equal(t, valueobject.RoleAdmin, user.Role)
}

func TestPromoteUserCommand_Execute(t *testing.T) {
	ctx := context.Background()
	user := newActiveUser(t)
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByEmail", ctx, mock.Anything).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	updated, err := command.NewPromoteUserCommand(userRepo).Execute(ctx, command.PromoteUserInput{Email: "test@example.com", Role: "ROLE_ADMIN"})

	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleAdmin, updated.Role)
}

func TestPromoteUserCommand_Execute_UnknownUser(t *testing.T) {
	ctx := context.Background()
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByEmail", ctx, mock.Anything).Return(nil, apperror.NewNotFoundError("user"))

	_, err := command.NewPromoteUserCommand(userRepo).Execute(ctx, command.PromoteUserInput{Email: "ghost@example.com", Role: "ADMIN"})

	requireAppErrorCode(t, err, apperror.CodeNotFound)
}

func TestPromoteUserCommand_Execute_InvalidRole(t *testing.T) {
	userRepo := mocks.NewMockUserRepository(t)

	_, err := command.NewPromoteUserCommand(userRepo).Execute(context.Background(), command.PromoteUserInput{Email: "test@example.com", Role: "ROOT"})

	requireAppErrorCode(t, err, apperror.CodeValidationError)
}
