package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Subject はトークンに埋め込むユーザー情報を定義します
type Subject struct {
	UserID int64
	Email  string
	Name   string
	Role   string
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AccessTokenClaims はアクセストークンのクレームを定義します
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
}

// RefreshTokenClaims はリフレッシュトークンのクレームを定義します
type RefreshTokenClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Type   string `json:"typ"`
}
