package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
)

// JWTBlacklist はログアウト済みアクセストークンのIDを保持します
type JWTBlacklist struct {
	client redis.Cmdable
}

// NewJWTBlacklist は新しいJWTBlacklistを作成します
func NewJWTBlacklist(client redis.Cmdable) *JWTBlacklist {
	return &JWTBlacklist{client: client}
}

// Revoke はトークンIDを残り有効期間だけブラックリストに登録します
func (b *JWTBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, JWTBlacklistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add to blacklist: %w", err)
	}
	return nil
}

// IsRevoked はトークンIDがブラックリストに存在するか確認します
func (b *JWTBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, JWTBlacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return n > 0, nil
}

var _ service.TokenRevoker = (*JWTBlacklist)(nil)
