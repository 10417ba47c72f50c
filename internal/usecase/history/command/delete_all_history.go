package command

import (
	"context"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// DeleteAllHistoryOutput は全履歴削除の出力を定義します
type DeleteAllHistoryOutput struct {
	Deleted int64
}

// DeleteAllHistoryCommand はすべての履歴を削除するコマンドです
type DeleteAllHistoryCommand struct {
	historyRepo repository.OperationHistoryRepository
}

// NewDeleteAllHistoryCommand は新しいDeleteAllHistoryCommandを作成します
func NewDeleteAllHistoryCommand(historyRepo repository.OperationHistoryRepository) *DeleteAllHistoryCommand {
	return &DeleteAllHistoryCommand{historyRepo: historyRepo}
}

// Execute はすべての履歴を削除します
func (c *DeleteAllHistoryCommand) Execute(ctx context.Context) (*DeleteAllHistoryOutput, error) {
	n, err := c.historyRepo.DeleteAll(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}

	logger.Info(ctx, "all history entries deleted", "count", n)
	return &DeleteAllHistoryOutput{Deleted: n}, nil
}
