package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// RotatePagesInput はページ回転の入力を定義します
// Pages と Rotations は同じ長さで、同じ位置の要素が対応します
type RotatePagesInput struct {
	PDF        Document
	Pages      []int
	Rotations  []int
	OutputName string
	Origin     entity.RequestOrigin
}

// RotatePagesCommand はページを回転するコマンドです
type RotatePagesCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewRotatePagesCommand は新しいRotatePagesCommandを作成します
func NewRotatePagesCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *RotatePagesCommand {
	return &RotatePagesCommand{processor: processor, tracker: tracker}
}

// Execute はページを回転します
// 同じページが複数回指定された場合は後の指定が優先されます
func (c *RotatePagesCommand) Execute(ctx context.Context, input RotatePagesInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	if len(input.Pages) == 0 {
		return nil, apperror.NewFieldValidationError("pages", "page list cannot be empty")
	}
	if len(input.Rotations) == 0 {
		return nil, apperror.NewFieldValidationError("rotations", "rotation list cannot be empty")
	}
	if len(input.Pages) != len(input.Rotations) {
		return nil, apperror.NewFieldValidationError("rotations", "number of pages and rotations must match")
	}
	for _, r := range input.Rotations {
		if r%90 != 0 {
			return nil, apperror.NewFieldValidationError("rotations", fmt.Sprintf("rotation %d is not a multiple of 90", r))
		}
	}

	pages, err := countPages(ctx, c.processor, input.PDF)
	if err != nil {
		return nil, err
	}

	rotations := make(map[int]int, len(input.Pages))
	details := make([]string, len(input.Pages))
	for i, p := range input.Pages {
		if p < 1 || p > pages {
			return nil, apperror.NewFieldValidationError("pages", fmt.Sprintf("page %d is out of range 1-%d", p, pages))
		}
		rotations[p] = input.Rotations[i]
		details[i] = fmt.Sprintf("Page %d rotated %d°", p, input.Rotations[i])
	}

	out, err := c.processor.Rotate(ctx, input.PDF.Data, rotations)
	if err != nil {
		return nil, processingError(err)
	}

	name := outputName(input.OutputName, "rotated.pdf")
	track(ctx, c.tracker, valueobject.OperationRotatePages,
		fmt.Sprintf("Rotated pages in %s (%s), output: %s", input.PDF.Name, strings.Join(details, ", "), name),
		input.Origin)

	return &FileOutput{Filename: name, ContentType: ContentTypePDF, Data: out}, nil
}
