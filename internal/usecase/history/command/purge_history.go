package command

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/export"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// PurgeHistoryInput は期限切れ履歴削除の入力を定義します
type PurgeHistoryInput struct {
	Before time.Time
	// Archive が true の場合、削除前にCSVをアーカイブストレージへ保存します
	Archive bool
}

// PurgeHistoryOutput は期限切れ履歴削除の出力を定義します
type PurgeHistoryOutput struct {
	Archived   int
	ArchiveKey string
	Deleted    int64
}

// PurgeHistoryCommand は指定時刻より前の履歴を削除するコマンドです
type PurgeHistoryCommand struct {
	historyRepo repository.OperationHistoryRepository
	archive     service.ArchiveStorage
}

// NewPurgeHistoryCommand は新しいPurgeHistoryCommandを作成します
// archive が nil の場合はアーカイブせずに削除します
func NewPurgeHistoryCommand(historyRepo repository.OperationHistoryRepository, archive service.ArchiveStorage) *PurgeHistoryCommand {
	return &PurgeHistoryCommand{
		historyRepo: historyRepo,
		archive:     archive,
	}
}

// Execute は期限切れの履歴を削除します
func (c *PurgeHistoryCommand) Execute(ctx context.Context, input PurgeHistoryInput) (*PurgeHistoryOutput, error) {
	if input.Before.IsZero() {
		return nil, apperror.NewFieldValidationError("before", "cutoff time is required")
	}

	output := &PurgeHistoryOutput{}

	if input.Archive && c.archive != nil {
		key, count, err := c.archiveBefore(ctx, input.Before)
		if err != nil {
			return nil, apperror.NewInternalError(err)
		}
		output.ArchiveKey = key
		output.Archived = count
	}

	deleted, err := c.historyRepo.DeleteBefore(ctx, input.Before)
	if err != nil {
		if output.ArchiveKey != "" {
			// 削除されなかったレコードのアーカイブは残さない
			if rmErr := c.archive.DeleteObject(ctx, output.ArchiveKey); rmErr != nil {
				logger.Warn(ctx, "failed to remove orphaned archive", "key", output.ArchiveKey, "error", rmErr)
			}
		}
		return nil, apperror.NewInternalError(err)
	}
	output.Deleted = deleted

	logger.Info(ctx, "history purged",
		"before", input.Before.UTC().Format(time.RFC3339),
		"deleted", deleted,
		"archived", output.Archived,
	)
	return output, nil
}

func (c *PurgeHistoryCommand) archiveBefore(ctx context.Context, before time.Time) (string, int, error) {
	end := before.Add(-time.Microsecond)
	filter := repository.HistoryFilter{EndDate: &end}

	var buf bytes.Buffer
	w := export.NewCSVWriter(&buf)
	err := c.historyRepo.ScanAll(ctx, filter, func(rec *entity.OperationRecord) error {
		return w.Write(rec)
	})
	if err != nil {
		return "", 0, fmt.Errorf("scanning history: %w", err)
	}
	if w.Count() == 0 {
		return "", 0, nil
	}
	if err := w.Flush(); err != nil {
		return "", 0, err
	}

	key := ArchiveObjectKey(before)
	if err := c.archive.PutObject(ctx, key, &buf, int64(buf.Len()), "text/csv"); err != nil {
		return "", 0, fmt.Errorf("uploading archive: %w", err)
	}
	return key, w.Count(), nil
}

// ArchiveObjectKey はアーカイブのオブジェクトキーを生成します
// 同じ締め時刻で再実行しても上書きしないよう末尾にUUIDを付けます
func ArchiveObjectKey(before time.Time) string {
	return fmt.Sprintf("history/%s/pdf_operations_history_before_%s_%s.csv",
		before.UTC().Format("2006/01"),
		before.UTC().Format("2006-01-02_150405"),
		uuid.NewString(),
	)
}
