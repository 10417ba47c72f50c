package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/internal/usecase/auth/query"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/tests/testutil/mocks"
)

func TestGetUserQuery_Execute_ValidUserID_ReturnsUser(t *testing.T) {
	ctx := context.Background()
	email, _ := valueobject.NewEmail("test@example.com")
	user := entity.NewUser("Test", "User", email, valueobject.PasswordFromHash("hash"), valueobject.RoleUser)
	user.ID = 3

	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByID", ctx, int64(3)).Return(user, nil)

	output, err := query.NewGetUserQuery(userRepo).Execute(ctx, query.GetUserInput{UserID: 3})

	require.NoError(t, err)
	assert.Equal(t, "Test User", output.User.FullName())
}

func TestGetUserQuery_Execute_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByID", ctx, int64(3)).Return(nil, apperror.NewNotFoundError("user"))

	output, err := query.NewGetUserQuery(userRepo).Execute(ctx, query.GetUserInput{UserID: 3})

	assert.Nil(t, output)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestGetUserQuery_Execute_StoreError(t *testing.T) {
	ctx := context.Background()
	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByID", ctx, int64(3)).Return(nil, errors.New("db down"))

	_, err := query.NewGetUserQuery(userRepo).Execute(ctx, query.GetUserInput{UserID: 3})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInternalError, appErr.Code)
}
