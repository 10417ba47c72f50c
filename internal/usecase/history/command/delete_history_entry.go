package command

import (
	"context"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// DeleteHistoryEntryInput は履歴削除の入力を定義します
type DeleteHistoryEntryInput struct {
	ID int64
}

// DeleteHistoryEntryOutput は履歴削除の出力を定義します
type DeleteHistoryEntryOutput struct {
	Deleted bool
}

// DeleteHistoryEntryCommand は履歴を1件削除するコマンドです
type DeleteHistoryEntryCommand struct {
	historyRepo repository.OperationHistoryRepository
}

// NewDeleteHistoryEntryCommand は新しいDeleteHistoryEntryCommandを作成します
func NewDeleteHistoryEntryCommand(historyRepo repository.OperationHistoryRepository) *DeleteHistoryEntryCommand {
	return &DeleteHistoryEntryCommand{historyRepo: historyRepo}
}

// Execute は履歴を削除します
// 存在しないIDの場合は Deleted=false を返します
func (c *DeleteHistoryEntryCommand) Execute(ctx context.Context, input DeleteHistoryEntryInput) (*DeleteHistoryEntryOutput, error) {
	if input.ID <= 0 {
		return nil, apperror.NewFieldValidationError("id", "id must be a positive integer")
	}

	deleted, err := c.historyRepo.DeleteByID(ctx, input.ID)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}

	if deleted {
		logger.Info(ctx, "history entry deleted", "history_id", input.ID)
	}
	return &DeleteHistoryEntryOutput{Deleted: deleted}, nil
}
