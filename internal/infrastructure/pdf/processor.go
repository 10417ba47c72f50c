// Package pdf はpdfcpuを使ったPDF変換処理を提供します
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
)

func init() {
	// 設定ファイルをユーザーディレクトリに作成させない
	api.DisableConfigDir()
}

// Processor はpdfcpuによるPDFProcessorの実装です
type Processor struct{}

// NewProcessor は新しいProcessorを作成します
func NewProcessor() *Processor {
	return &Processor{}
}

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// transform は入力を io.ReadSeeker として fn に渡し、書き出された結果を返します
func transform(ctx context.Context, doc []byte, fn func(rs io.ReadSeeker, w io.Writer) error) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := fn(bytes.NewReader(doc), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PageCount はページ数を返します
func (p *Processor) PageCount(ctx context.Context, doc []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := api.PageCount(bytes.NewReader(doc), newConfig())
	if err != nil {
		return 0, fmt.Errorf("reading page count: %w", err)
	}
	return n, nil
}

// Merge は複数のPDFを順に結合します
func (p *Processor) Merge(ctx context.Context, docs ...[]byte) ([]byte, error) {
	if len(docs) < 2 {
		return nil, fmt.Errorf("merge requires at least two documents")
	}
	return transform(ctx, nil, func(_ io.ReadSeeker, w io.Writer) error {
		readers := make([]io.ReadSeeker, len(docs))
		for i, d := range docs {
			readers[i] = bytes.NewReader(d)
		}
		return api.MergeRaw(readers, w, false, newConfig())
	})
}

// ExtractPages は start から end までのページを取り出します
func (p *Processor) ExtractPages(ctx context.Context, doc []byte, start, end int) ([]byte, error) {
	return p.trim(ctx, doc, fmt.Sprintf("%d-%d", start, end))
}

// Split は at ページ目までと、それ以降の2つに分割します
func (p *Processor) Split(ctx context.Context, doc []byte, at int) ([]byte, []byte, error) {
	first, err := p.trim(ctx, doc, fmt.Sprintf("1-%d", at))
	if err != nil {
		return nil, nil, err
	}
	second, err := p.trim(ctx, doc, fmt.Sprintf("%d-", at+1))
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (p *Processor) trim(ctx context.Context, doc []byte, selection string) ([]byte, error) {
	return transform(ctx, doc, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Trim(rs, w, []string{selection}, newConfig())
	})
}

// RemovePage は1ページを削除します
func (p *Processor) RemovePage(ctx context.Context, doc []byte, page int) ([]byte, error) {
	return transform(ctx, doc, func(rs io.ReadSeeker, w io.Writer) error {
		return api.RemovePages(rs, w, []string{strconv.Itoa(page)}, newConfig())
	})
}

// Reorder は order の順にページを並べ替えます
func (p *Processor) Reorder(ctx context.Context, doc []byte, order []int) ([]byte, error) {
	pages := make([]string, len(order))
	for i, n := range order {
		pages[i] = strconv.Itoa(n)
	}
	return transform(ctx, doc, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Collect(rs, w, pages, newConfig())
	})
}

// Encrypt はユーザーパスワードとオーナーパスワードに同じ値を設定します
func (p *Processor) Encrypt(ctx context.Context, doc []byte, password string) ([]byte, error) {
	return transform(ctx, doc, func(rs io.ReadSeeker, w io.Writer) error {
		conf := newConfig()
		conf.UserPW = password
		conf.OwnerPW = password
		return api.Encrypt(rs, w, conf)
	})
}

// Decrypt はパスワード保護を解除します
// パスワードが一致しない場合は service.ErrInvalidPassword を返します
func (p *Processor) Decrypt(ctx context.Context, doc []byte, password string) ([]byte, error) {
	out, err := transform(ctx, doc, func(rs io.ReadSeeker, w io.Writer) error {
		conf := newConfig()
		conf.UserPW = password
		conf.OwnerPW = password
		return api.Decrypt(rs, w, conf)
	})
	if err != nil && isPasswordError(err) {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidPassword, err)
	}
	return out, err
}

func isPasswordError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password")
}

// ExtractImages はページに埋め込まれた画像をページ順に取り出します
func (p *Processor) ExtractImages(ctx context.Context, doc []byte) ([]service.PageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var images []service.PageImage
	digest := func(img model.Image, _ bool, _ int) error {
		data, err := io.ReadAll(img)
		if err != nil {
			return err
		}
		images = append(images, service.PageImage{
			PageNumber: img.PageNr,
			Name:       img.Name,
			FileType:   img.FileType,
			Data:       data,
		})
		return nil
	}

	if err := api.ExtractImages(bytes.NewReader(doc), nil, digest, newConfig()); err != nil {
		return nil, fmt.Errorf("extracting images: %w", err)
	}
	if len(images) == 0 {
		return nil, service.ErrNoImages
	}

	sort.SliceStable(images, func(i, j int) bool { return images[i].PageNumber < images[j].PageNumber })
	return images, nil
}

// Rotate はページごとに回転角度を加算します
// 同じ角度のページはまとめて1回で処理します
func (p *Processor) Rotate(ctx context.Context, doc []byte, rotations map[int]int) ([]byte, error) {
	byAngle := map[int][]string{}
	for page, deg := range rotations {
		deg = ((deg % 360) + 360) % 360
		if deg == 0 {
			continue
		}
		byAngle[deg] = append(byAngle[deg], strconv.Itoa(page))
	}

	angles := make([]int, 0, len(byAngle))
	for a := range byAngle {
		angles = append(angles, a)
	}
	sort.Ints(angles)

	out := doc
	for _, angle := range angles {
		pages := byAngle[angle]
		sort.Strings(pages)
		next, err := transform(ctx, out, func(rs io.ReadSeeker, w io.Writer) error {
			return api.Rotate(rs, w, angle, pages, newConfig())
		})
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// AddWatermark は全ページにテキスト透かしを追加します
func (p *Processor) AddWatermark(ctx context.Context, doc []byte, opts service.WatermarkOptions) ([]byte, error) {
	wm, err := api.TextWatermark(opts.Text, watermarkDescription(opts), true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("parsing watermark: %w", err)
	}
	return transform(ctx, doc, func(rs io.ReadSeeker, w io.Writer) error {
		return api.AddWatermarks(rs, w, nil, wm, newConfig())
	})
}

// watermarkDescription はpdfcpuの透かし記述子を組み立てます
func watermarkDescription(opts service.WatermarkOptions) string {
	rot := opts.Rotation
	for rot > 180 {
		rot -= 360
	}
	for rot < -180 {
		rot += 360
	}
	return fmt.Sprintf("font:Helvetica, points:%d, fillcolor:%s, rot:%s, op:%s, scale:1 abs",
		opts.FontSize,
		opts.Color,
		strconv.FormatFloat(rot, 'f', -1, 64),
		strconv.FormatFloat(opts.Opacity, 'f', -1, 64),
	)
}

var _ service.PDFProcessor = (*Processor)(nil)
