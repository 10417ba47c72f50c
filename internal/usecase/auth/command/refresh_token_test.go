package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
	"github.com/Hiro-mackay/pdfops/tests/testutil/mocks"
)

func issueRefreshToken(t *testing.T, svc *jwt.JWTService, userID int64) (string, string) {
	t.Helper()
	_, refresh, err := svc.GenerateTokenPair(jwt.Subject{UserID: userID, Email: "test@example.com"})
	require.NoError(t, err)
	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	return refresh, claims.ID
}

func TestRefreshTokenCommand_Execute_RotatesToken(t *testing.T) {
	ctx := context.Background()
	jwtService := newJWTService()
	user := newActiveUser(t)
	refresh, jti := issueRefreshToken(t, jwtService, user.ID)

	userRepo := mocks.NewMockUserRepository(t)
	revoker := mocks.NewMockTokenRevoker(t)
	revoker.On("IsRevoked", ctx, jti).Return(false, nil)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	revoker.On("Revoke", ctx, jti, mock.MatchedBy(func(d time.Duration) bool { return d > 0 })).Return(nil)

	output, err := command.NewRefreshTokenCommand(userRepo, revoker, jwtService).Execute(ctx, command.RefreshTokenInput{RefreshToken: refresh})

	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEqual(t, refresh, output.RefreshToken)
}

func TestRefreshTokenCommand_Execute_RevokedToken(t *testing.T) {
	ctx := context.Background()
	jwtService := newJWTService()
	refresh, jti := issueRefreshToken(t, jwtService, 5)

	userRepo := mocks.NewMockUserRepository(t)
	revoker := mocks.NewMockTokenRevoker(t)
	revoker.On("IsRevoked", ctx, jti).Return(true, nil)

	_, err := command.NewRefreshTokenCommand(userRepo, revoker, jwtService).Execute(ctx, command.RefreshTokenInput{RefreshToken: refresh})

	requireAppErrorCode(t, err, apperror.CodeUnauthorized)
}

func TestRefreshTokenCommand_Execute_AccessTokenRejected(t *testing.T) {
	jwtService := newJWTService()
	access, _, err := jwtService.GenerateTokenPair(jwt.Subject{UserID: 5})
	require.NoError(t, err)

	userRepo := mocks.NewMockUserRepository(t)

	_, err = command.NewRefreshTokenCommand(userRepo, nil, jwtService).Execute(context.Background(), command.RefreshTokenInput{RefreshToken: access})

	requireAppErrorCode(t, err, apperror.CodeUnauthorized)
}

func TestRefreshTokenCommand_Execute_WithoutRevoker(t *testing.T) {
	ctx := context.Background()
	jwtService := newJWTService()
	user := newActiveUser(t)
	refresh, _ := issueRefreshToken(t, jwtService, user.ID)

	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	output, err := command.NewRefreshTokenCommand(userRepo, nil, jwtService).Execute(ctx, command.RefreshTokenInput{RefreshToken: refresh})

	require.NoError(t, err)
	assert.Equal(t, user.ID, output.User.ID)
}

func TestRefreshTokenCommand_Execute_UserGone(t *testing.T) {
	ctx := context.Background()
	jwtService := newJWTService()
	refresh, _ := issueRefreshToken(t, jwtService, 99)

	userRepo := mocks.NewMockUserRepository(t)
	userRepo.On("FindByID", ctx, int64(99)).Return(nil, apperror.NewNotFoundError("user"))

	_, err := command.NewRefreshTokenCommand(userRepo, nil, jwtService).Execute(ctx, command.RefreshTokenInput{RefreshToken: refresh})

	requireAppErrorCode(t, err, apperror.CodeUnauthorized)
}

func TestRefreshTokenCommand_Execute_RevokerFailure(t *testing.T) {
	ctx := context.Background()
	jwtService := newJWTService()
	refresh, jti := issueRefreshToken(t, jwtService, 5)

	userRepo := mocks.NewMockUserRepository(t)
	revoker := mocks.NewMockTokenRevoker(t)
	revoker.On("IsRevoked", ctx, jti).Return(false, errors.New("redis down"))

	_, err := command.NewRefreshTokenCommand(userRepo, revoker, jwtService).Execute(ctx, command.RefreshTokenInput{RefreshToken: refresh})

	requireAppErrorCode(t, err, apperror.CodeInternalError)
}
