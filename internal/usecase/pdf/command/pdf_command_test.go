package command_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/internal/usecase/pdf/command"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/tests/testutil/mocks"
)

var (
	srcPDF = []byte("%PDF-1.4 source")
	outPDF = []byte("%PDF-1.4 result")
	origin = entity.RequestOrigin{RemoteAddr: "203.0.113.9:5555", UserAgent: "curl/8.0"}
)

func doc(name string) command.Document {
	return command.Document{Name: name, Data: srcPDF}
}

// expectTrack は指定の操作と詳細で記録されることを期待します
func expectTrack(tracker *mocks.MockHistoryTracker, op valueobject.OperationType, details string) {
	tracker.On("Track", mock.Anything, service.TrackEntry{
		OperationType:  op,
		RequestDetails: details,
		Origin:         origin,
	}).Return().Once()
}

func requireCode(t *testing.T, err error, code apperror.ErrorCode) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func unzip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		files[f.Name] = b
	}
	return files
}

func TestMergePDFCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("merges and tracks with default name", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		second := []byte("%PDF-1.4 second")
		processor.On("Merge", ctx, [][]byte{srcPDF, second}).Return(outPDF, nil)
		expectTrack(tracker, valueobject.OperationMergePDF, "Merged files: a.pdf and b.pdf into merged.pdf")

		out, err := command.NewMergePDFCommand(processor, tracker).Execute(ctx, command.MergePDFInput{
			First:  doc("a.pdf"),
			Second: command.Document{Name: "b.pdf", Data: second},
			Origin: origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "merged.pdf", out.Filename)
		assert.Equal(t, command.ContentTypePDF, out.ContentType)
		assert.Equal(t, outPDF, out.Data)
	})

	t.Run("empty second file", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)

		_, err := command.NewMergePDFCommand(processor, tracker).Execute(ctx, command.MergePDFInput{
			First:  doc("a.pdf"),
			Second: command.Document{Name: "b.pdf"},
		})
		requireCode(t, err, apperror.CodeValidationError)
	})

	t.Run("library failure is not tracked", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("Merge", ctx, mock.Anything).Return(nil, errors.New("malformed xref"))

		_, err := command.NewMergePDFCommand(processor, tracker).Execute(ctx, command.MergePDFInput{
			First:  doc("a.pdf"),
			Second: doc("b.pdf"),
		})
		requireCode(t, err, apperror.CodePDFProcessing)
		tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	})
}

func TestExtractPagesCommand_Execute(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		start, end int
		pages      int
		wantField  string
	}{
		{name: "start below one", start: 0, end: 2, wantField: "startPage"},
		{name: "end before start", start: 3, end: 2, wantField: "endPage"},
		{name: "end beyond page count", start: 1, end: 9, pages: 5, wantField: "endPage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := mocks.NewMockPDFProcessor(t)
			tracker := mocks.NewMockHistoryTracker(t)
			if tt.pages > 0 {
				processor.On("PageCount", ctx, srcPDF).Return(tt.pages, nil)
			}

			_, err := command.NewExtractPagesCommand(processor, tracker).Execute(ctx, command.ExtractPagesInput{
				PDF: doc("in.pdf"), StartPage: tt.start, EndPage: tt.end,
			})
			appErr := requireCode(t, err, apperror.CodeValidationError)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tt.wantField, appErr.Details[0].Field)
		})
	}

	t.Run("extracts range", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(5, nil)
		processor.On("ExtractPages", ctx, srcPDF, 2, 4).Return(outPDF, nil)
		expectTrack(tracker, valueobject.OperationExtractPages, "Extracted pages 2-4 from in.pdf into chapter.pdf")

		out, err := command.NewExtractPagesCommand(processor, tracker).Execute(ctx, command.ExtractPagesInput{
			PDF: doc("in.pdf"), StartPage: 2, EndPage: 4, OutputName: "chapter.pdf", Origin: origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "chapter.pdf", out.Filename)
	})

	t.Run("unreadable PDF", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(0, errors.New("not a PDF"))

		_, err := command.NewExtractPagesCommand(processor, tracker).Execute(ctx, command.ExtractPagesInput{
			PDF: doc("in.pdf"), StartPage: 1, EndPage: 1,
		})
		requireCode(t, err, apperror.CodePDFProcessing)
	})
}

func TestSplitPDFCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("zips both parts", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		first, second := []byte("first"), []byte("second")
		processor.On("PageCount", ctx, srcPDF).Return(4, nil)
		processor.On("Split", ctx, srcPDF, 1).Return(first, second, nil)
		expectTrack(tracker, valueobject.OperationSplitPDF, "Split report.pdf at page 1 into part1.pdf and part2.pdf")

		out, err := command.NewSplitPDFCommand(processor, tracker).Execute(ctx, command.SplitPDFInput{
			PDF: doc("report.pdf"), SplitAtPage: 1, Origin: origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "report_split.zip", out.Filename)
		assert.Equal(t, command.ContentTypeZip, out.ContentType)

		files := unzip(t, out.Data)
		assert.Equal(t, first, files["part1.pdf"])
		assert.Equal(t, second, files["part2.pdf"])
	})

	t.Run("split at last page is rejected", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(4, nil)

		_, err := command.NewSplitPDFCommand(processor, tracker).Execute(ctx, command.SplitPDFInput{
			PDF: doc("report.pdf"), SplitAtPage: 4,
		})
		requireCode(t, err, apperror.CodeValidationError)
	})

	t.Run("zip name falls back without pdf suffix", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(2, nil)
		processor.On("Split", ctx, srcPDF, 1).Return([]byte("a"), []byte("b"), nil)
		tracker.On("Track", mock.Anything, mock.Anything).Return()

		out, err := command.NewSplitPDFCommand(processor, tracker).Execute(ctx, command.SplitPDFInput{
			PDF: doc("upload"), SplitAtPage: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "split_split.zip", out.Filename)
	})
}

func TestRemovePageCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("removes page", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(3, nil)
		processor.On("RemovePage", ctx, srcPDF, 2).Return(outPDF, nil)
		expectTrack(tracker, valueobject.OperationRemovePage, "Removed page 2 from in.pdf, output: modified.pdf")

		out, err := command.NewRemovePageCommand(processor, tracker).Execute(ctx, command.RemovePageInput{
			PDF: doc("in.pdf"), PageToRemove: 2, Origin: origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "modified.pdf", out.Filename)
	})

	t.Run("only page cannot be removed", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(1, nil)

		_, err := command.NewRemovePageCommand(processor, tracker).Execute(ctx, command.RemovePageInput{
			PDF: doc("in.pdf"), PageToRemove: 1,
		})
		requireCode(t, err, apperror.CodeValidationError)
	})
}

func TestReorderPagesCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reorders and records raw order", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(3, nil)
		processor.On("Reorder", ctx, srcPDF, []int{3, 1, 2}).Return(outPDF, nil)
		expectTrack(tracker, valueobject.OperationReorderPages, "Reordered pages in in.pdf with order 3,1,2, output: reordered.pdf")

		_, err := command.NewReorderPagesCommand(processor, tracker).Execute(ctx, command.ReorderPagesInput{
			PDF: doc("in.pdf"), PageOrder: []int{3, 1, 2}, Origin: origin,
		})
		require.NoError(t, err)
	})

	t.Run("out of range page", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(3, nil)

		_, err := command.NewReorderPagesCommand(processor, tracker).Execute(ctx, command.ReorderPagesInput{
			PDF: doc("in.pdf"), PageOrder: []int{1, 4},
		})
		requireCode(t, err, apperror.CodeValidationError)
	})

	t.Run("empty order", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)

		_, err := command.NewReorderPagesCommand(processor, tracker).Execute(ctx, command.ReorderPagesInput{
			PDF: doc("in.pdf"),
		})
		requireCode(t, err, apperror.CodeValidationError)
	})
}

func TestPasswordCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("add password", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("Encrypt", ctx, srcPDF, "s3cret").Return(outPDF, nil)
		expectTrack(tracker, valueobject.OperationAddPassword, "Added password protection to in.pdf, output: protected.pdf")

		out, err := command.NewAddPasswordCommand(processor, tracker).Execute(ctx, command.PasswordInput{
			PDF: doc("in.pdf"), Password: "s3cret", Origin: origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "protected.pdf", out.Filename)
	})

	t.Run("add password requires password", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)

		_, err := command.NewAddPasswordCommand(processor, tracker).Execute(ctx, command.PasswordInput{PDF: doc("in.pdf")})
		requireCode(t, err, apperror.CodeValidationError)
	})

	t.Run("remove password", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("Decrypt", ctx, srcPDF, "s3cret").Return(outPDF, nil)
		expectTrack(tracker, valueobject.OperationRemovePassword, "Removed password protection from in.pdf, output: unprotected.pdf")

		out, err := command.NewRemovePasswordCommand(processor, tracker).Execute(ctx, command.PasswordInput{
			PDF: doc("in.pdf"), Password: "s3cret", Origin: origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "unprotected.pdf", out.Filename)
	})

	t.Run("wrong password is a validation error", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("Decrypt", ctx, srcPDF, "nope").Return(nil, service.ErrInvalidPassword)

		_, err := command.NewRemovePasswordCommand(processor, tracker).Execute(ctx, command.PasswordInput{
			PDF: doc("in.pdf"), Password: "nope",
		})
		requireCode(t, err, apperror.CodeValidationError)
	})
}

func TestToImagesCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("zips images with default dpi", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("ExtractImages", ctx, srcPDF).Return([]service.PageImage{
			{PageNumber: 1, FileType: "png", Data: []byte("p1a")},
			{PageNumber: 1, FileType: "jpg", Data: []byte("p1b")},
			{PageNumber: 3, FileType: "png", Data: []byte("p3")},
		}, nil)
		expectTrack(tracker, valueobject.OperationPDFToImages, "Converted scan.pdf to images with DPI=150")

		out, err := command.NewToImagesCommand(processor, tracker).Execute(ctx, command.ToImagesInput{
			PDF: doc("scan.pdf"), Origin: origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "scan_images.zip", out.Filename)

		files := unzip(t, out.Data)
		assert.Equal(t, []byte("p1a"), files["page_1_1.png"])
		assert.Equal(t, []byte("p1b"), files["page_1_2.jpg"])
		assert.Equal(t, []byte("p3"), files["page_3_1.png"])
	})

	t.Run("no images", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("ExtractImages", ctx, srcPDF).Return(nil, service.ErrNoImages)

		_, err := command.NewToImagesCommand(processor, tracker).Execute(ctx, command.ToImagesInput{PDF: doc("scan.pdf"), DPI: 300})
		requireCode(t, err, apperror.CodePDFProcessing)
	})
}

func TestRotatePagesCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates pages", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("PageCount", ctx, srcPDF).Return(3, nil)
		processor.On("Rotate", ctx, srcPDF, map[int]int{1: 90, 3: 180}).Return(outPDF, nil)
		expectTrack(tracker, valueobject.OperationRotatePages,
			"Rotated pages in in.pdf (Page 1 rotated 90°, Page 3 rotated 180°), output: rotated.pdf")

		out, err := command.NewRotatePagesCommand(processor, tracker).Execute(ctx, command.RotatePagesInput{
			PDF: doc("in.pdf"), Pages: []int{1, 3}, Rotations: []int{90, 180}, Origin: origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "rotated.pdf", out.Filename)
	})

	tests := []struct {
		name      string
		pages     []int
		rotations []int
	}{
		{name: "empty pages", rotations: []int{90}},
		{name: "length mismatch", pages: []int{1, 2}, rotations: []int{90}},
		{name: "not a right angle", pages: []int{1}, rotations: []int{45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := mocks.NewMockPDFProcessor(t)
			tracker := mocks.NewMockHistoryTracker(t)

			_, err := command.NewRotatePagesCommand(processor, tracker).Execute(ctx, command.RotatePagesInput{
				PDF: doc("in.pdf"), Pages: tt.pages, Rotations: tt.rotations,
			})
			requireCode(t, err, apperror.CodeValidationError)
		})
	}
}

func TestAddWatermarkCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		processor := mocks.NewMockPDFProcessor(t)
		tracker := mocks.NewMockHistoryTracker(t)
		processor.On("AddWatermark", ctx, srcPDF, service.WatermarkOptions{
			Text:     "DRAFT",
			Opacity:  command.DefaultWatermarkOpacity,
			FontSize: command.DefaultWatermarkFontSize,
			Color:    command.DefaultWatermarkColor,
			Rotation: command.DefaultWatermarkRotation,
		}).Return(outPDF, nil)
		expectTrack(tracker, valueobject.OperationAddWatermark, `Added watermark "DRAFT" to in.pdf, output: watermarked.pdf`)

		out, err := command.NewAddWatermarkCommand(processor, tracker).Execute(ctx, command.AddWatermarkInput{
			PDF:      doc("in.pdf"),
			Text:     "DRAFT",
			Opacity:  command.DefaultWatermarkOpacity,
			Rotation: command.DefaultWatermarkRotation,
			Origin:   origin,
		})
		require.NoError(t, err)
		assert.Equal(t, "watermarked.pdf", out.Filename)
	})

	tests := []struct {
		name  string
		input command.AddWatermarkInput
		field string
	}{
		{name: "blank text", input: command.AddWatermarkInput{Text: "   ", Opacity: 0.3}, field: "watermarkText"},
		{name: "opacity above one", input: command.AddWatermarkInput{Text: "X", Opacity: 1.5}, field: "opacity"},
		{name: "bad color", input: command.AddWatermarkInput{Text: "X", Opacity: 0.3, Color: "red"}, field: "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := mocks.NewMockPDFProcessor(t)
			tracker := mocks.NewMockHistoryTracker(t)
			tt.input.PDF = doc("in.pdf")

			_, err := command.NewAddWatermarkCommand(processor, tracker).Execute(ctx, tt.input)
			appErr := requireCode(t, err, apperror.CodeValidationError)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
}
