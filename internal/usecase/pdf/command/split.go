package command

import (
	"context"
	"fmt"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// SplitPDFInput はPDF分割の入力を定義します
type SplitPDFInput struct {
	PDF              Document
	SplitAtPage      int
	FirstOutputName  string
	SecondOutputName string
	Origin           entity.RequestOrigin
}

// SplitPDFCommand はPDFを2つに分割するコマンドです
// 結果は2つのPDFを含むZIPです
type SplitPDFCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewSplitPDFCommand は新しいSplitPDFCommandを作成します
func NewSplitPDFCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *SplitPDFCommand {
	return &SplitPDFCommand{processor: processor, tracker: tracker}
}

// Execute は SplitAtPage ページ目の後ろで分割します
func (c *SplitPDFCommand) Execute(ctx context.Context, input SplitPDFInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	if input.SplitAtPage < 1 {
		return nil, apperror.NewFieldValidationError("splitAtPage", "split page must be 1 or greater")
	}

	pages, err := countPages(ctx, c.processor, input.PDF)
	if err != nil {
		return nil, err
	}
	if input.SplitAtPage >= pages {
		return nil, apperror.NewFieldValidationError("splitAtPage", fmt.Sprintf("split page must be less than page count (%d)", pages))
	}

	first, second, err := c.processor.Split(ctx, input.PDF.Data, input.SplitAtPage)
	if err != nil {
		return nil, processingError(err)
	}

	firstName := outputName(input.FirstOutputName, "part1.pdf")
	secondName := outputName(input.SecondOutputName, "part2.pdf")
	if firstName == secondName {
		return nil, apperror.NewFieldValidationError("secondOutputName", "output names must differ")
	}

	archive, err := zipFiles(zipEntry{firstName, first}, zipEntry{secondName, second})
	if err != nil {
		return nil, err
	}

	track(ctx, c.tracker, valueobject.OperationSplitPDF,
		fmt.Sprintf("Split %s at page %d into %s and %s", input.PDF.Name, input.SplitAtPage, firstName, secondName),
		input.Origin)

	return &FileOutput{
		Filename:    baseName(input.PDF.Name, "split") + "_split.zip",
		ContentType: ContentTypeZip,
		Data:        archive,
	}, nil
}
