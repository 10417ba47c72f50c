package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/internal/interface/dto/request"
	"github.com/Hiro-mackay/pdfops/internal/interface/dto/response"
	"github.com/Hiro-mackay/pdfops/internal/interface/middleware"
	"github.com/Hiro-mackay/pdfops/internal/interface/presenter"
	authcmd "github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
	authqry "github.com/Hiro-mackay/pdfops/internal/usecase/auth/query"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// AuthHandler は認証関連のHTTPハンドラーです
type AuthHandler struct {
	// Commands
	registerCommand     *authcmd.RegisterCommand
	loginCommand        *authcmd.LoginCommand
	refreshTokenCommand *authcmd.RefreshTokenCommand
	logoutCommand       *authcmd.LogoutCommand

	// Queries
	getUserQuery *authqry.GetUserQuery
}

// NewAuthHandler は新しいAuthHandlerを作成します
func NewAuthHandler(
	registerCommand *authcmd.RegisterCommand,
	loginCommand *authcmd.LoginCommand,
	refreshTokenCommand *authcmd.RefreshTokenCommand,
	logoutCommand *authcmd.LogoutCommand,
	getUserQuery *authqry.GetUserQuery,
) *AuthHandler {
	return &AuthHandler{
		registerCommand:     registerCommand,
		loginCommand:        loginCommand,
		refreshTokenCommand: refreshTokenCommand,
		logoutCommand:       logoutCommand,
		getUserQuery:        getUserQuery,
	}
}

// Register はユーザー登録を処理します
// POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req request.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.registerCommand.Execute(c.Request().Context(), authcmd.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return presenter.Created(c, response.ToAuthResponse(output))
}

// Login はログインを処理します
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req request.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.loginCommand.Execute(c.Request().Context(), authcmd.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToAuthResponse(output))
}

// Refresh はトークンリフレッシュを処理します
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req request.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.refreshTokenCommand.Execute(c.Request().Context(), authcmd.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToAuthResponse(output))
}

// Logout はログアウトを処理します
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := middleware.GetAccessClaims(c)
	if claims == nil {
		return apperror.NewUnauthorizedError("authentication required")
	}

	// ボディは任意
	var req request.LogoutRequest
	_ = c.Bind(&req)

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.logoutCommand.Execute(c.Request().Context(), authcmd.LogoutInput{
		AccessTokenID:        claims.ID,
		AccessTokenExpiresAt: expiresAt,
		RefreshToken:         req.RefreshToken,
	}); err != nil {
		return err
	}

	return presenter.OK(c, map[string]string{"message": "logged out"})
}

// Me は認証済みユーザーの情報を返します
// GET /api/me
func (h *AuthHandler) Me(c echo.Context) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return apperror.NewUnauthorizedError("authentication required")
	}

	output, err := h.getUserQuery.Execute(c.Request().Context(), authqry.GetUserInput{
		UserID: principal.UserID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToUserResponse(output.User))
}
