package command

import (
	"context"
	"fmt"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
)

// MergePDFInput はPDF結合の入力を定義します
type MergePDFInput struct {
	First      Document
	Second     Document
	OutputName string
	Origin     entity.RequestOrigin
}

// MergePDFCommand は2つのPDFを結合するコマンドです
type MergePDFCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewMergePDFCommand は新しいMergePDFCommandを作成します
func NewMergePDFCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *MergePDFCommand {
	return &MergePDFCommand{processor: processor, tracker: tracker}
}

// Execute はPDFを結合します
func (c *MergePDFCommand) Execute(ctx context.Context, input MergePDFInput) (*FileOutput, error) {
	if err := requireDocument("firstPdf", input.First); err != nil {
		return nil, err
	}
	if err := requireDocument("secondPdf", input.Second); err != nil {
		return nil, err
	}

	out, err := c.processor.Merge(ctx, input.First.Data, input.Second.Data)
	if err != nil {
		return nil, processingError(err)
	}

	name := outputName(input.OutputName, "merged.pdf")
	track(ctx, c.tracker, valueobject.OperationMergePDF,
		fmt.Sprintf("Merged files: %s and %s into %s", input.First.Name, input.Second.Name, name),
		input.Origin)

	return &FileOutput{Filename: name, ContentType: ContentTypePDF, Data: out}, nil
}
