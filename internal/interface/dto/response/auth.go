package response

import (
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	authcmd "github.com/Hiro-mackay/pdfops/internal/usecase/auth/command"
)

// AuthResponse はトークン発行レスポンス
type AuthResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	TokenType    string        `json:"tokenType"`
	ExpiresIn    int           `json:"expiresIn"`
	User         *UserResponse `json:"user"`
}

// UserResponse はユーザー情報レスポンス
type UserResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToAuthResponse はユースケースの出力をレスポンスに変換します
func ToAuthResponse(out *authcmd.AuthOutput) *AuthResponse {
	return &AuthResponse{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    out.ExpiresIn,
		User:         ToUserResponse(out.User),
	}
}

// ToUserResponse はエンティティをレスポンスに変換します
func ToUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email.String(),
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}
}
