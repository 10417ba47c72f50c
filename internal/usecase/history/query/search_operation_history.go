package query

import (
	"context"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// SearchOperationHistoryInput は履歴検索の入力を定義します
type SearchOperationHistoryInput struct {
	Filter repository.HistoryFilter
	Page   int
	Size   int
}

// SearchOperationHistoryQuery は条件に一致する履歴を返すクエリです
type SearchOperationHistoryQuery struct {
	historyRepo repository.OperationHistoryRepository
}

// NewSearchOperationHistoryQuery は新しいSearchOperationHistoryQueryを作成します
func NewSearchOperationHistoryQuery(historyRepo repository.OperationHistoryRepository) *SearchOperationHistoryQuery {
	return &SearchOperationHistoryQuery{historyRepo: historyRepo}
}

// Execute は履歴を検索します
func (q *SearchOperationHistoryQuery) Execute(ctx context.Context, input SearchOperationHistoryInput) (*HistoryPage, error) {
	page, err := validatePage(input.Page, input.Size)
	if err != nil {
		return nil, err
	}
	if err := validateFilter(input.Filter); err != nil {
		return nil, err
	}

	records, total, err := q.historyRepo.FindPage(ctx, input.Filter, page)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return toHistoryPage(records, total, page), nil
}
