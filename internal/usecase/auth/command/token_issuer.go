package command

import (
	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/jwt"
)

// AuthOutput は認証系コマンドの共通出力を定義します
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // seconds
	User         *entity.User
}

// issueTokens はユーザーのトークンペアを発行します
func issueTokens(jwtService *jwt.JWTService, user *entity.User) (*AuthOutput, error) {
	accessToken, refreshToken, err := jwtService.GenerateTokenPair(jwt.Subject{
		UserID: user.ID,
		Email:  user.Email.String(),
		Name:   user.FullName(),
		Role:   user.Role.String(),
	})
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}

	return &AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(jwtService.GetAccessTokenExpiry().Seconds()),
		User:         user,
	}, nil
}
