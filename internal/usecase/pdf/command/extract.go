package command

import (
	"context"
	"fmt"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// ExtractPagesInput はページ抽出の入力を定義します
type ExtractPagesInput struct {
	PDF        Document
	StartPage  int
	EndPage    int
	OutputName string
	Origin     entity.RequestOrigin
}

// ExtractPagesCommand はページ範囲を抽出するコマンドです
type ExtractPagesCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewExtractPagesCommand は新しいExtractPagesCommandを作成します
func NewExtractPagesCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *ExtractPagesCommand {
	return &ExtractPagesCommand{processor: processor, tracker: tracker}
}

// Execute は StartPage から EndPage までを抽出します
func (c *ExtractPagesCommand) Execute(ctx context.Context, input ExtractPagesInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	if input.StartPage < 1 {
		return nil, apperror.NewFieldValidationError("startPage", "start page must be 1 or greater")
	}
	if input.EndPage < input.StartPage {
		return nil, apperror.NewFieldValidationError("endPage", "end page must be greater than or equal to start page")
	}

	pages, err := countPages(ctx, c.processor, input.PDF)
	if err != nil {
		return nil, err
	}
	if input.EndPage > pages {
		return nil, apperror.NewFieldValidationError("endPage", fmt.Sprintf("end page exceeds page count (%d)", pages))
	}

	out, err := c.processor.ExtractPages(ctx, input.PDF.Data, input.StartPage, input.EndPage)
	if err != nil {
		return nil, processingError(err)
	}

	name := outputName(input.OutputName, "extracted.pdf")
	track(ctx, c.tracker, valueobject.OperationExtractPages,
		fmt.Sprintf("Extracted pages %d-%d from %s into %s", input.StartPage, input.EndPage, input.PDF.Name, name),
		input.Origin)

	return &FileOutput{Filename: name, ContentType: ContentTypePDF, Data: out}, nil
}
