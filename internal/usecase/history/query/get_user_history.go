package query

import (
	"context"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// GetUserHistoryInput は自分の履歴取得の入力を定義します
type GetUserHistoryInput struct {
	UserID int64
	Page   int
	Size   int
}

// GetUserHistoryQuery は呼び出し元ユーザー自身の履歴を返すクエリです
type GetUserHistoryQuery struct {
	historyRepo repository.OperationHistoryRepository
}

// NewGetUserHistoryQuery は新しいGetUserHistoryQueryを作成します
func NewGetUserHistoryQuery(historyRepo repository.OperationHistoryRepository) *GetUserHistoryQuery {
	return &GetUserHistoryQuery{historyRepo: historyRepo}
}

// Execute はユーザーの履歴を取得します
func (q *GetUserHistoryQuery) Execute(ctx context.Context, input GetUserHistoryInput) (*HistoryPage, error) {
	page, err := validatePage(input.Page, input.Size)
	if err != nil {
		return nil, err
	}

	userID := input.UserID
	records, total, err := q.historyRepo.FindPage(ctx, repository.HistoryFilter{UserID: &userID}, page)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return toHistoryPage(records, total, page), nil
}
