package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// ReorderPagesInput はページ並べ替えの入力を定義します
type ReorderPagesInput struct {
	PDF        Document
	PageOrder  []int
	OutputName string
	Origin     entity.RequestOrigin
}

// ReorderPagesCommand はページを並べ替えるコマンドです
// PageOrder に含まれないページは出力から除かれます
type ReorderPagesCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewReorderPagesCommand は新しいReorderPagesCommandを作成します
func NewReorderPagesCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *ReorderPagesCommand {
	return &ReorderPagesCommand{processor: processor, tracker: tracker}
}

// Execute はページを並べ替えます
func (c *ReorderPagesCommand) Execute(ctx context.Context, input ReorderPagesInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	if len(input.PageOrder) == 0 {
		return nil, apperror.NewFieldValidationError("pageOrder", "page order list cannot be empty")
	}

	pages, err := countPages(ctx, c.processor, input.PDF)
	if err != nil {
		return nil, err
	}
	for _, p := range input.PageOrder {
		if p < 1 || p > pages {
			return nil, apperror.NewFieldValidationError("pageOrder", fmt.Sprintf("page %d is out of range 1-%d", p, pages))
		}
	}

	out, err := c.processor.Reorder(ctx, input.PDF.Data, input.PageOrder)
	if err != nil {
		return nil, processingError(err)
	}

	name := outputName(input.OutputName, "reordered.pdf")
	track(ctx, c.tracker, valueobject.OperationReorderPages,
		fmt.Sprintf("Reordered pages in %s with order %s, output: %s", input.PDF.Name, joinInts(input.PageOrder), name),
		input.Origin)

	return &FileOutput{Filename: name, ContentType: ContentTypePDF, Data: out}, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
