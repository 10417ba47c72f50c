package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitResult はレート制限チェックの結果を表します
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimitConfig はレート制限の設定を定義します
type RateLimitConfig struct {
	Type     string        // 制限タイプ（auth:login, pdf:process 等）
	Requests int           // ウィンドウ内の最大リクエスト数
	Window   time.Duration // ウィンドウサイズ
}

// 事前定義されたレート制限設定
var (
	RateLimitAuthLogin = RateLimitConfig{
		Type:     "auth:login",
		Requests: 10,
		Window:   time.Minute,
	}
	RateLimitAuthRegister = RateLimitConfig{
		Type:     "auth:register",
		Requests: 5,
		Window:   time.Minute,
	}
	RateLimitPDFProcess = RateLimitConfig{
		Type:     "pdf:process",
		Requests: 60,
		Window:   time.Minute,
	}
	RateLimitHistoryExport = RateLimitConfig{
		Type:     "history:export",
		Requests: 10,
		Window:   time.Minute,
	}
)

// RateLimiter はRedisのスライディングウィンドウでレート制限を行います
type RateLimiter struct {
	client redis.Scripter
	now    func() time.Time
}

// NewRateLimiter は新しいRateLimiterを作成します
func NewRateLimiter(client redis.Scripter) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

// ウィンドウ内のリクエスト時刻をソート済みセットで保持する
var slidingWindowScript = redis.NewScript(`
    local key = KEYS[1]
    local now = tonumber(ARGV[1])
    local window_ms = tonumber(ARGV[2])
    local limit = tonumber(ARGV[3])

    redis.call('ZREMRANGEBYSCORE', key, 0, now - window_ms)

    local count = redis.call('ZCARD', key)

    if count < limit then
        redis.call('ZADD', key, now, now .. ':' .. math.random())
        redis.call('PEXPIRE', key, window_ms)
        return {1, limit - count - 1, now + window_ms}
    else
        local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
        return {0, 0, tonumber(oldest[2]) + window_ms}
    end
`)

// Allow はリクエストが許可されるかチェックします
func (r *RateLimiter) Allow(ctx context.Context, identifier string, config RateLimitConfig) (*RateLimitResult, error) {
	key := RateLimitKey(config.Type, identifier)
	now := r.now().UnixMilli()

	result, err := slidingWindowScript.Run(ctx, r.client, []string{key}, now, config.Window.Milliseconds(), config.Requests).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if len(result) != 3 {
		return nil, fmt.Errorf("unexpected rate limit reply: %v", result)
	}

	return &RateLimitResult{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
		ResetAt:   time.UnixMilli(result[2]),
	}, nil
}
