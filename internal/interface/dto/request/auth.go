package request

// RegisterRequest はユーザー登録リクエスト
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,password"`
}

// LoginRequest はログインリクエスト
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest はトークンリフレッシュリクエスト
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest はログアウトリクエスト
// refreshToken を指定した場合はリフレッシュトークンも失効させます
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
