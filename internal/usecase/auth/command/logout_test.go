package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/tests/testutil/mocks"
)

func TestLogoutCommand_Execute_RevokesAccessAndRefresh(t *testing.T) {
	ctx := context.Background()
	jwtService := newJWTService()
	refresh, refreshID := issueRefreshToken(t, jwtService, 5)

	revoker := mocks.NewMockTokenRevoker(t)
	revoker.On("Revoke", ctx, "access-jti", mock.MatchedBy(func(d time.Duration) bool {
		return d > 0 && d <= 10*time.Minute
	})).Return(nil)
	revoker.On("Revoke", ctx, refreshID, mock.AnythingOfType("time.Duration")).Return(nil)

	err := command.NewLogoutCommand(revoker, jwtService).Execute(ctx, command.LogoutInput{
		AccessTokenID:        "access-jti",
		AccessTokenExpiresAt: time.Now().Add(10 * time.Minute),
		RefreshToken:         refresh,
	})

	assert.NoError(t, err)
}

func TestLogoutCommand_Execute_ExpiredAccessTokenIsNoop(t *testing.T) {
	revoker := mocks.NewMockTokenRevoker(t)

	err := command.NewLogoutCommand(revoker, newJWTService()).Execute(context.Background(), command.LogoutInput{
		AccessTokenID:        "access-jti",
		AccessTokenExpiresAt: time.Now().Add(-time.Minute),
		RefreshToken:         "garbage",
	})

	assert.NoError(t, err)
	revoker.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogoutCommand_Execute_WithoutRevoker(t *testing.T) {
	err := command.NewLogoutCommand(nil, newJWTService()).Execute(context.Background(), command.LogoutInput{
		AccessTokenID:        "access-jti",
		AccessTokenExpiresAt: time.Now().Add(time.Minute),
	})
	assert.NoError(t, err)
}

func TestLogoutCommand_Execute_RevokerFailure(t *testing.T) {
	ctx := context.Background()
	revoker := mocks.NewMockTokenRevoker(t)
	revoker.On("Revoke", ctx, "access-jti", mock.Anything).Return(errors.New("redis down"))

	err := command.NewLogoutCommand(revoker, newJWTService()).Execute(ctx, command.LogoutInput{
		AccessTokenID:        "access-jti",
		AccessTokenExpiresAt: time.Now().Add(time.Minute),
	})

	requireAppErrorCode(t, err, apperror.CodeInternalError)
}
