package service

import (
	"context"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
)

// HistoryTracker はPDF操作の完了を履歴に記録するサービスインターフェースです
// 記録の失敗は呼び出し元に返しません
type HistoryTracker interface {
	// Track は操作を記録します
	Track(ctx context.Context, entry TrackEntry)
}

// TrackEntry は操作の記録に必要な情報を定義します
type TrackEntry struct {
	OperationType  valueobject.OperationType
	RequestDetails string
	Origin         entity.RequestOrigin
	OccurredAt     time.Time // ゼロ値の場合は記録時刻を使います
}
