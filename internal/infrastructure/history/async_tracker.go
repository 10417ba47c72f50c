// Package history は操作履歴の記録をリクエスト処理から切り離して実行します
package history

import (
	"context"
	"sync"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// DefaultBufferSize はキューの既定の長さです
const DefaultBufferSize = 1000

// trackTimeout は1件の記録に許す時間です
const trackTimeout = 5 * time.Second

type queuedEntry struct {
	entry     service.TrackEntry
	requestID string
}

// AsyncTracker は履歴記録の非同期キューです
// キューが満杯の場合はエントリを破棄します
type AsyncTracker struct {
	inner   service.HistoryTracker
	entries chan queuedEntry
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncTracker は新しいAsyncTrackerを作成し、処理ループを開始します
func NewAsyncTracker(inner service.HistoryTracker, bufferSize int) *AsyncTracker {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	t := &AsyncTracker{
		inner:   inner,
		entries: make(chan queuedEntry, bufferSize),
		done:    make(chan struct{}),
	}
	go t.processLoop()
	return t
}

// Track はエントリをキューに追加します（非ブロッキング）
func (t *AsyncTracker) Track(ctx context.Context, entry service.TrackEntry) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	queued := queuedEntry{entry: entry, requestID: logger.RequestIDFromContext(ctx)}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		logger.Warn(ctx, "history tracker stopped, dropping entry",
			"operation_type", entry.OperationType.String(),
		)
		return
	}

	select {
	case t.entries <- queued:
	default:
		// バッファが満杯の場合はログ出力して破棄
		logger.Warn(ctx, "history buffer full, dropping entry",
			"operation_type", entry.OperationType.String(),
		)
	}
}

// processLoop はキューからエントリを読み取り記録します
func (t *AsyncTracker) processLoop() {
	defer close(t.done)
	for q := range t.entries {
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		if q.requestID != "" {
			ctx = logger.ContextWithRequestID(ctx, q.requestID)
		}
		t.inner.Track(ctx, q.entry)
		cancel()
	}
}

// Pending はキューに残っている件数を返します
func (t *AsyncTracker) Pending() int {
	return len(t.entries)
}

// Shutdown はキューを閉じ、残りのエントリを処理してから戻ります
func (t *AsyncTracker) Shutdown(ctx context.Context) error {
	t.once.Do(func() {
		t.mu.Lock()
		t.closed = true
		close(t.entries)
		t.mu.Unlock()
	})

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// インターフェースの実装を保証
var _ service.HistoryTracker = (*AsyncTracker)(nil)
