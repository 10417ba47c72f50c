package query

import (
	"context"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// GetOperationHistoryInput は履歴一覧取得の入力を定義します
type GetOperationHistoryInput struct {
	Page int
	Size int
}

// GetOperationHistoryQuery は全ユーザーの履歴を新しい順に返すクエリです
type GetOperationHistoryQuery struct {
	historyRepo repository.OperationHistoryRepository
}

// NewGetOperationHistoryQuery は新しいGetOperationHistoryQueryを作成します
func NewGetOperationHistoryQuery(historyRepo repository.OperationHistoryRepository) *GetOperationHistoryQuery {
	return &GetOperationHistoryQuery{historyRepo: historyRepo}
}

// Execute は履歴一覧を取得します
func (q *GetOperationHistoryQuery) Execute(ctx context.Context, input GetOperationHistoryInput) (*HistoryPage, error) {
	page, err := validatePage(input.Page, input.Size)
	if err != nil {
		return nil, err
	}

	records, total, err := q.historyRepo.FindPage(ctx, repository.HistoryFilter{}, page)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return toHistoryPage(records, total, page), nil
}
