package repository

import (
	"context"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
)

// HistoryFilter は履歴検索の条件です
// すべての条件はANDで結合され、ゼロ値の項目は条件に含めません
type HistoryFilter struct {
	UserID        *int64
	OperationType string
	StartDate     *time.Time // 含む
	EndDate       *time.Time // 含む
	Country       string
	SourceType    string
}

// IsEmpty は条件が1つも指定されていないかを判定します
func (f HistoryFilter) IsEmpty() bool {
	return f.UserID == nil && f.OperationType == "" && f.StartDate == nil &&
		f.EndDate == nil && f.Country == "" && f.SourceType == ""
}

// PageRequest は0始まりのページ指定です
type PageRequest struct {
	Page int
	Size int
}

// Offset はページの先頭位置を返します
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OperationHistoryRepository は操作履歴の永続化インターフェースです
// 一覧系の結果は常に timestamp DESC, id DESC で並びます
type OperationHistoryRepository interface {
	// Create は履歴を追記し、採番したIDを返します
	Create(ctx context.Context, record *entity.OperationRecord) (int64, error)

	// FindByID はIDで履歴を取得します
	FindByID(ctx context.Context, id int64) (*entity.OperationRecord, error)

	// FindPage は条件に一致する履歴の1ページ分と総件数を返します
	FindPage(ctx context.Context, filter HistoryFilter, page PageRequest) ([]*entity.OperationRecord, int64, error)

	// ScanAll は条件に一致する履歴を結果全体を保持せずに順に渡します
	ScanAll(ctx context.Context, filter HistoryFilter, fn func(*entity.OperationRecord) error) error

	// DeleteByID は履歴を削除し、削除した行があれば true を返します
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// DeleteAll はすべての履歴を削除し、削除件数を返します
	DeleteAll(ctx context.Context) (int64, error)

	// DeleteBefore は指定時刻より前の履歴を削除します
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DistinctOperationTypes は記録済みの操作種別を返します
	DistinctOperationTypes(ctx context.Context) ([]string, error)

	// DistinctCountries は記録済みの国名を返します
	DistinctCountries(ctx context.Context) ([]string, error)
}
