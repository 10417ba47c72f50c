package di

import (
	authcmd "github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
	authqry "github.com/Hiro-mackay/pdfops/internal/usecase/auth/query"
)

// AuthUseCases はAuth関連のUseCaseを保持します
type AuthUseCases struct {
	// Commands
	Register     *authcmd.RegisterCommand
	Login        *authcmd.LoginCommand
	RefreshToken *authcmd.RefreshTokenCommand
	Logout       *authcmd.LogoutCommand
	EnsureAdmin  *authcmd.EnsureAdminCommand
	PromoteUser  *authcmd.PromoteUserCommand

	// Queries
	GetUser *authqry.GetUserQuery
}

// NewAuthUseCases は新しいAuthUseCasesを作成します
func NewAuthUseCases(c *Container) *AuthUseCases {
	return &AuthUseCases{
		// Commands
		Register: authcmd.NewRegisterCommand(
			c.UserRepo,
			c.TxManager,
			c.JWTService,
		),
		Login: authcmd.NewLoginCommand(
			c.UserRepo,
			c.JWTService,
		),
		RefreshToken: authcmd.NewRefreshTokenCommand(
			c.UserRepo,
			c.Revoker,
			c.JWTService,
		),
		Logout: authcmd.NewLogoutCommand(
			c.Revoker,
			c.JWTService,
		),
		EnsureAdmin: authcmd.NewEnsureAdminCommand(c.UserRepo),
		PromoteUser: authcmd.NewPromoteUserCommand(c.UserRepo),

		// Queries
		GetUser: authqry.NewGetUserQuery(c.UserRepo),
	}
}
