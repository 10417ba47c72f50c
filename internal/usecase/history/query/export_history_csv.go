package query

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/export"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// ExportFormatCSV は唯一サポートするエクスポート形式です
const ExportFormatCSV = "csv"

// ExportHistoryCSVInput はCSVエクスポートの入力を定義します
// Filter がゼロ値の場合は全件を出力します
type ExportHistoryCSVInput struct {
	Filter repository.HistoryFilter
}

// ExportHistoryCSVOutput はCSVエクスポートの出力を定義します
type ExportHistoryCSVOutput struct {
	Rows int
}

// ExportHistoryCSVQuery は履歴をCSVとして書き出すクエリです
type ExportHistoryCSVQuery struct {
	historyRepo repository.OperationHistoryRepository
}

// NewExportHistoryCSVQuery は新しいExportHistoryCSVQueryを作成します
func NewExportHistoryCSVQuery(historyRepo repository.OperationHistoryRepository) *ExportHistoryCSVQuery {
	return &ExportHistoryCSVQuery{historyRepo: historyRepo}
}

// Execute は履歴を新しい順に w へ書き出します
func (q *ExportHistoryCSVQuery) Execute(ctx context.Context, w io.Writer, input ExportHistoryCSVInput) (*ExportHistoryCSVOutput, error) {
	if err := validateFilter(input.Filter); err != nil {
		return nil, err
	}

	csvw := export.NewCSVWriter(w)
	if err := csvw.WriteHeader(); err != nil {
		return nil, apperror.NewInternalError(fmt.Errorf("writing csv header: %w", err))
	}

	err := q.historyRepo.ScanAll(ctx, input.Filter, func(rec *entity.OperationRecord) error {
		return csvw.Write(rec)
	})
	if err != nil {
		return nil, apperror.NewInternalError(fmt.Errorf("exporting history: %w", err))
	}
	if err := csvw.Flush(); err != nil {
		return nil, apperror.NewInternalError(fmt.Errorf("flushing csv: %w", err))
	}

	logger.Info(ctx, "history exported", "rows", csvw.Count())
	return &ExportHistoryCSVOutput{Rows: csvw.Count()}, nil
}

// ExportFilename はダウンロード時のファイル名を返します
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("pdf_operations_history_%s.csv", now.Format("2006-01-02_150405"))
}
