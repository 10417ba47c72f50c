package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// 透かしの既定値
const (
	DefaultWatermarkOpacity  = 0.3
	DefaultWatermarkFontSize = 40
	DefaultWatermarkColor    = "#888888"
	DefaultWatermarkRotation = 45
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// AddWatermarkInput は透かし追加の入力を定義します
type AddWatermarkInput struct {
	PDF        Document
	Text       string
	Opacity    float64
	FontSize   int
	Color      string
	Rotation   int
	OutputName string
	Origin     entity.RequestOrigin
}

// AddWatermarkCommand は全ページにテキスト透かしを追加するコマンドです
type AddWatermarkCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewAddWatermarkCommand は新しいAddWatermarkCommandを作成します
func NewAddWatermarkCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *AddWatermarkCommand {
	return &AddWatermarkCommand{processor: processor, tracker: tracker}
}

// Execute は透かしを追加します
func (c *AddWatermarkCommand) Execute(ctx context.Context, input AddWatermarkInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperror.NewFieldValidationError("watermarkText", "watermark text cannot be empty")
	}
	if input.Opacity < 0 || input.Opacity > 1 {
		return nil, apperror.NewFieldValidationError("opacity", "opacity must be between 0.0 and 1.0")
	}
	fontSize := input.FontSize
	if fontSize <= 0 {
		fontSize = DefaultWatermarkFontSize
	}
	color := input.Color
	if color == "" {
		color = DefaultWatermarkColor
	}
	if !hexColorPattern.MatchString(color) {
		return nil, apperror.NewFieldValidationError("color", "color must be in #RRGGBB format")
	}

	out, err := c.processor.AddWatermark(ctx, input.PDF.Data, service.WatermarkOptions{
		Text:     input.Text,
		Opacity:  input.Opacity,
		FontSize: fontSize,
		Color:    color,
		Rotation: float64(input.Rotation),
	})
	if err != nil {
		return nil, processingError(err)
	}

	name := outputName(input.OutputName, "watermarked.pdf")
	track(ctx, c.tracker, valueobject.OperationAddWatermark,
		fmt.Sprintf("Added watermark %q to %s, output: %s", input.Text, input.PDF.Name, name),
		input.Origin)

	return &FileOutput{Filename: name, ContentType: ContentTypePDF, Data: out}, nil
}
