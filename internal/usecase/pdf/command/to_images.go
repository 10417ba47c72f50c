package command

import (
	"context"
	"fmt"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
)

// DefaultDPI は dpi 未指定時の解像度です
const DefaultDPI = 150

// ToImagesInput は画像抽出の入力を定義します
type ToImagesInput struct {
	PDF    Document
	DPI    int
	Origin entity.RequestOrigin
}

// ToImagesCommand はPDFに埋め込まれた画像をZIPで返すコマンドです
type ToImagesCommand struct {
	processor service.PDFProcessor
	tracker   service.HistoryTracker
}

// NewToImagesCommand は新しいToImagesCommandを作成します
func NewToImagesCommand(processor service.PDFProcessor, tracker service.HistoryTracker) *ToImagesCommand {
	return &ToImagesCommand{processor: processor, tracker: tracker}
}

// Execute は画像を取り出します
// DPI は記録のみに使い、埋め込み画像は元の解像度のまま返します
func (c *ToImagesCommand) Execute(ctx context.Context, input ToImagesInput) (*FileOutput, error) {
	if err := requireDocument("pdf", input.PDF); err != nil {
		return nil, err
	}
	dpi := input.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	images, err := c.processor.ExtractImages(ctx, input.PDF.Data)
	if err != nil {
		return nil, processingError(err)
	}

	entries := make([]zipEntry, 0, len(images))
	perPage := map[int]int{}
	for _, img := range images {
		perPage[img.PageNumber]++
		entries = append(entries, zipEntry{
			name: fmt.Sprintf("page_%d_%d.%s", img.PageNumber, perPage[img.PageNumber], img.FileType),
			data: img.Data,
		})
	}

	archive, err := zipFiles(entries...)
	if err != nil {
		return nil, err
	}

	track(ctx, c.tracker, valueobject.OperationPDFToImages,
		fmt.Sprintf("Converted %s to images with DPI=%d", input.PDF.Name, dpi),
		input.Origin)

	return &FileOutput{
		Filename:    baseName(input.PDF.Name, "pdf") + "_images.zip",
		ContentType: ContentTypeZip,
		Data:        archive,
	}, nil
}
