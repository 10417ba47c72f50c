package command

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

const (
	ContentTypePDF = "application/pdf"
	ContentTypeZip = "application/zip"
)

// Document はアップロードされたPDFです
type Document struct {
	Name string
	Data []byte
}

// FileOutput は処理結果のファイルです
type FileOutput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// requireDocument はPDFが空でないことを確認します
func requireDocument(field string, doc Document) error {
	if len(doc.Data) == 0 {
		return apperror.NewFieldValidationError(field, "PDF file cannot be empty")
	}
	return nil
}

// outputName は出力ファイル名を返します
func outputName(name, fallback string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return fallback
}

// baseName はファイル名から ".pdf" を除いた部分を返します
// ".pdf" で終わらない場合は fallback を返します
func baseName(filename, fallback string) string {
	if strings.HasSuffix(filename, ".pdf") && len(filename) > len(".pdf") {
		return strings.TrimSuffix(filename, ".pdf")
	}
	return fallback
}

// countPages はページ数を返します
// 読み込めないPDFは処理失敗として扱います
func countPages(ctx context.Context, processor service.PDFProcessor, doc Document) (int, error) {
	n, err := processor.PageCount(ctx, doc.Data)
	if err != nil {
		return 0, processingError(err)
	}
	return n, nil
}

// processingError はPDFライブラリのエラーをアプリケーションエラーに変換します
func processingError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperror.NewInternalError(err)
	case errors.Is(err, service.ErrInvalidPassword):
		return apperror.NewFieldValidationError("password", "incorrect password")
	case errors.Is(err, service.ErrNoImages):
		return apperror.NewPDFProcessingError("PDF does not contain any embedded images", err)
	default:
		return apperror.NewPDFProcessingError("failed to process PDF", err)
	}
}

type zipEntry struct {
	name string
	data []byte
}

// zipFiles はファイルをZIPにまとめます
func zipFiles(entries ...zipEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, apperror.NewInternalError(err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, apperror.NewInternalError(err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return buf.Bytes(), nil
}

// track は完了した操作を履歴に記録します
func track(ctx context.Context, tracker service.HistoryTracker, op valueobject.OperationType, details string, origin entity.RequestOrigin) {
	tracker.Track(ctx, service.TrackEntry{
		OperationType:  op,
		RequestDetails: details,
		Origin:         origin,
	})
}
