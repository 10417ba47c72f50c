package command

import (
	"context"
	"fmt"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// RemovePageInput はページ削除の入力を定義します
type RemovePageInput struct {
	PDF          Document
	PageToRemove int
	OutputName   string
	Origin       entity.RequestOrigin
}

// RemovePageCommand は1ページを削除するコマンドです
type RemovePageCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewRemovePageCommand は新しいRemovePageCommandを作成します
func NewRemovePageCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *RemovePageCommand {
	return &RemovePageCommand{processor: processor, tracker: tracker}
}

// Execute はページを削除します
// 1ページしかないPDFからは削除できません
func (c *RemovePageCommand) Execute(ctx context.Context, input RemovePageInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	if input.PageToRemove < 1 {
		return nil, apperror.NewFieldValidationError("pageToRemove", "page number must be 1 or greater")
	}

	pages, err := countPages(ctx, c.processor, input.PDF)
	if err != nil {
		return nil, err
	}
	if input.PageToRemove > pages {
		return nil, apperror.NewFieldValidationError("pageToRemove", fmt.Sprintf("page number exceeds page count (%d)", pages))
	}
	if pages == 1 {
		return nil, apperror.NewFieldValidationError("pageToRemove", "cannot remove the only page")
	}

	out, err := c.processor.RemovePage(ctx, input.PDF.Data, input.PageToRemove)
	if err != nil {
		return nil, processingError(err)
	}

	name := outputName(input.OutputName, "modified.pdf")
	track(ctx, c.tracker, valueobject.OperationRemovePage,
		fmt.Sprintf("Removed page %d from %s, output: %s", input.PageToRemove, input.PDF.Name, name),
		input.Origin)

	return &FileOutput{Filename: name, ContentType: ContentTypePDF, Data: out}, nil
}
