package service

import (
	"context"
	"time"
)

// TokenRevoker はログアウトしたアクセストークンを失効させます
type TokenRevoker interface {
	// Revoke はトークンIDを有効期限まで失効リストに登録します
	Revoke(ctx context.Context, tokenID string, expiry time.Duration) error

	// IsRevoked はトークンIDが失効済みかを判定します
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
