package service

import (
	"context"
	"errors"
)

var (
	// ErrInvalidPassword はPDFのパスワードが一致しない場合に返されます
	ErrInvalidPassword = errors.New("invalid PDF password")
	// ErrNoImages は画像を含まないPDFから画像を取り出そうとした場合に返されます
	ErrNoImages = errors.New("no images found in PDF")
)

// WatermarkOptions はテキスト透かしの描画設定です
type WatermarkOptions struct {
	Text     string
	Opacity  float64 // 0.0 - 1.0
	FontSize int
	Color    string // #RRGGBB
	Rotation float64
}

// PageImage はPDFから取り出した画像です
type PageImage struct {
	PageNumber int
	Name       string
	FileType   string
	Data       []byte
}

// PDFProcessor はPDFのバイト列を変換するドメインサービスインターフェースです
// 入力は読み取り専用で、結果は新しいバイト列として返します
type PDFProcessor interface {
	// PageCount はページ数を返します
	PageCount(ctx context.Context, doc []byte) (int, error)

	// Merge は複数のPDFを順に結合します
	Merge(ctx context.Context, docs ...[]byte) ([]byte, error)

	// ExtractPages は start から end までのページ(両端を含む)を取り出します
	ExtractPages(ctx context.Context, doc []byte, start, end int) ([]byte, error)

	// Split は at ページ目までと、それ以降の2つに分割します
	Split(ctx context.Context, doc []byte, at int) (first, second []byte, err error)

	// RemovePage は1ページを削除します
	RemovePage(ctx context.Context, doc []byte, page int) ([]byte, error)

	// Reorder は order の順にページを並べ替えます
	Reorder(ctx context.Context, doc []byte, order []int) ([]byte, error)

	// Encrypt はユーザーパスワードとオーナーパスワードを設定します
	Encrypt(ctx context.Context, doc []byte, password string) ([]byte, error)

	// Decrypt はパスワード保護を解除します
	Decrypt(ctx context.Context, doc []byte, password string) ([]byte, error)

	// ExtractImages はページに埋め込まれた画像を取り出します
	ExtractImages(ctx context.Context, doc []byte) ([]PageImage, error)

	// Rotate はページ番号ごとに回転角度(90の倍数)を加算します
	Rotate(ctx context.Context, doc []byte, rotations map[int]int) ([]byte, error)

	// AddWatermark は全ページにテキスト透かしを追加します
	AddWatermark(ctx context.Context, doc []byte, opts WatermarkOptions) ([]byte, error)
}
