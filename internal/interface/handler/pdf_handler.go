package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/internal/interface/dto/request"
	"github.com/Hiro-mackay/pdfops/internal/interface/middleware"
	"github.com/Hiro-mackay/pdfops/internal/interface/presenter"
	pdfcmd "github.com/Hiro-mackay/pdfops/internal/usecase/pdf/command"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// DefaultMaxUploadSize は1ファイルあたりのアップロード上限です
const DefaultMaxUploadSize int64 = 50 << 20

// PDFCommands はPDF操作のユースケースをまとめたものです
type PDFCommands struct {
	Merge          *pdfcmd.MergePDFCommand
	Extract        *pdfcmd.ExtractPagesCommand
	Split          *pdfcmd.SplitPDFCommand
	RemovePage     *pdfcmd.RemovePageCommand
	Reorder        *pdfcmd.ReorderPagesCommand
	AddPassword    *pdfcmd.AddPasswordCommand
	RemovePassword *pdfcmd.RemovePasswordCommand
	ToImages       *pdfcmd.ToImagesCommand
	Rotate         *pdfcmd.RotatePagesCommand
	AddWatermark   *pdfcmd.AddWatermarkCommand
}

// PDFHandler はPDF操作のHTTPハンドラーです
// 処理結果はファイルとして返します
type PDFHandler struct {
	commands      PDFCommands
	maxUploadSize int64
}

// NewPDFHandler は新しいPDFHandlerを作成します
func NewPDFHandler(commands PDFCommands, maxUploadSize int64) *PDFHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &PDFHandler{commands: commands, maxUploadSize: maxUploadSize}
}

// Merge は2つのPDFを結合します
// POST /api/pdf/merge
func (h *PDFHandler) Merge(c echo.Context) error {
	var req request.MergePDFRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	first, err := h.readPDF(c, "firstPdf")
	if err != nil {
		return err
	}
	second, err := h.readPDF(c, "secondPdf")
	if err != nil {
		return err
	}

	out, err := h.commands.Merge.Execute(c.Request().Context(), pdfcmd.MergePDFInput{
		First:      first,
		Second:     second,
		OutputName: req.OutputName,
		Origin:     middleware.RequestOrigin(c),
	})
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// Extract はページ範囲を抽出します
// POST /api/pdf/extract
func (h *PDFHandler) Extract(c echo.Context) error {
	var req request.ExtractPagesRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	doc, err := h.readPDF(c, "pdf")
	if err != nil {
		return err
	}

	out, err := h.commands.Extract.Execute(c.Request().Context(), pdfcmd.ExtractPagesInput{
		PDF:        doc,
		StartPage:  req.StartPage,
		EndPage:    req.EndPage,
		OutputName: req.OutputName,
		Origin:     middleware.RequestOrigin(c),
	})
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// Split はPDFを2つに分割してZIPで返します
// POST /api/pdf/split
func (h *PDFHandler) Split(c echo.Context) error {
	var req request.SplitPDFRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	doc, err := h.readPDF(c, "pdf")
	if err != nil {
		return err
	}

	out, err := h.commands.Split.Execute(c.Request().Context(), pdfcmd.SplitPDFInput{
		PDF:              doc,
		SplitAtPage:      req.SplitAtPage,
		FirstOutputName:  req.FirstOutputName,
		SecondOutputName: req.SecondOutputName,
		Origin:           middleware.RequestOrigin(c),
	})
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// RemovePage はページを1つ削除します
// POST /api/pdf/remove-page
func (h *PDFHandler) RemovePage(c echo.Context) error {
	var req request.RemovePageRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	doc, err := h.readPDF(c, "pdf")
	if err != nil {
		return err
	}

	out, err := h.commands.RemovePage.Execute(c.Request().Context(), pdfcmd.RemovePageInput{
		PDF:          doc,
		PageToRemove: req.PageToRemove,
		OutputName:   req.OutputName,
		Origin:       middleware.RequestOrigin(c),
	})
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// Reorder はページを並べ替えます
// POST /api/pdf/reorder
func (h *PDFHandler) Reorder(c echo.Context) error {
	var req request.ReorderPagesRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	order, err := parseIntList("pageOrder", req.PageOrder)
	if err != nil {
		return err
	}
	doc, err := h.readPDF(c, "pdf")
	if err != nil {
		return err
	}

	out, err := h.commands.Reorder.Execute(c.Request().Context(), pdfcmd.ReorderPagesInput{
		PDF:        doc,
		PageOrder:  order,
		OutputName: req.OutputName,
		Origin:     middleware.RequestOrigin(c),
	})
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// AddPassword はパスワード保護を追加します
// POST /api/pdf/add-password
func (h *PDFHandler) AddPassword(c echo.Context) error {
	input, err := h.passwordInput(c)
	if err != nil {
		return err
	}
	out, err := h.commands.AddPassword.Execute(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// RemovePassword はパスワード保護を解除します
// POST /api/pdf/remove-password
func (h *PDFHandler) RemovePassword(c echo.Context) error {
	input, err := h.passwordInput(c)
	if err != nil {
		return err
	}
	out, err := h.commands.RemovePassword.Execute(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

func (h *PDFHandler) passwordInput(c echo.Context) (pdfcmd.PasswordInput, error) {
	var req request.PasswordRequest
	if err := bindForm(c, &req); err != nil {
		return pdfcmd.PasswordInput{}, err
	}
	doc, err := h.readPDF(c, "pdf")
	if err != nil {
		return pdfcmd.PasswordInput{}, err
	}
	return pdfcmd.PasswordInput{
		PDF:        doc,
		Password:   req.Password,
		OutputName: req.OutputName,
		Origin:     middleware.RequestOrigin(c),
	}, nil
}

// ToImages は埋め込み画像をZIPで返します
// POST /api/pdf/to-images
func (h *PDFHandler) ToImages(c echo.Context) error {
	var req request.ToImagesRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	doc, err := h.readPDF(c, "pdf")
	if err != nil {
		return err
	}

	out, err := h.commands.ToImages.Execute(c.Request().Context(), pdfcmd.ToImagesInput{
		PDF:    doc,
		DPI:    req.DPI,
		Origin: middleware.RequestOrigin(c),
	})
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// Rotate はページを回転します
// POST /api/pdf/rotate
func (h *PDFHandler) Rotate(c echo.Context) error {
	var req request.RotatePagesRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}
	pages, err := parseIntList("pages", req.Pages)
	if err != nil {
		return err
	}
	rotations, err := parseIntList("rotations", req.Rotations)
	if err != nil {
		return err
	}
	doc, err := h.readPDF(c, "pdf")
	if err != nil {
		return err
	}

	out, err := h.commands.Rotate.Execute(c.Request().Context(), pdfcmd.RotatePagesInput{
		PDF:        doc,
		Pages:      pages,
		Rotations:  rotations,
		OutputName: req.OutputName,
		Origin:     middleware.RequestOrigin(c),
	})
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// AddWatermark はテキスト透かしを追加します
// POST /api/pdf/add-watermark
func (h *PDFHandler) AddWatermark(c echo.Context) error {
	var req request.AddWatermarkRequest
	if err := bindForm(c, &req); err != nil {
		return err
	}

	opacity := pdfcmd.DefaultWatermarkOpacity
	if req.Opacity != "" {
		v, err := strconv.ParseFloat(req.Opacity, 64)
		if err != nil {
			return apperror.NewFieldValidationError("opacity", "must be a number")
		}
		opacity = v
	}
	fontSize, err := optionalInt("fontSize", req.FontSize, pdfcmd.DefaultWatermarkFontSize)
	if err != nil {
		return err
	}
	rotation, err := optionalInt("rotation", req.Rotation, pdfcmd.DefaultWatermarkRotation)
	if err != nil {
		return err
	}

	doc, err := h.readPDF(c, "pdf")
	if err != nil {
		return err
	}

	out, err := h.commands.AddWatermark.Execute(c.Request().Context(), pdfcmd.AddWatermarkInput{
		PDF:        doc,
		Text:       req.WatermarkText,
		Opacity:    opacity,
		FontSize:   fontSize,
		Color:      req.Color,
		Rotation:   rotation,
		OutputName: req.OutputName,
		Origin:     middleware.RequestOrigin(c),
	})
	if err != nil {
		return err
	}
	return sendFile(c, out)
}

// readPDF はmultipartのファイルを読み込みます
// Content-Type が application/pdf でない場合は、拡張子が .pdf の octet-stream のみ受け付けます
func (h *PDFHandler) readPDF(c echo.Context, field string) (pdfcmd.Document, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return pdfcmd.Document{}, apperror.NewFieldValidationError(field, "PDF file is required")
	}
	if !isPDFUpload(fh) {
		return pdfcmd.Document{}, apperror.NewFieldValidationError(field, "file must be a PDF")
	}
	if fh.Size > h.maxUploadSize {
		return pdfcmd.Document{}, apperror.NewFieldValidationError(field, fmt.Sprintf("file exceeds %d bytes", h.maxUploadSize))
	}

	f, err := fh.Open()
	if err != nil {
		return pdfcmd.Document{}, apperror.NewInvalidRequestError("failed to read upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadSize+1))
	if err != nil {
		return pdfcmd.Document{}, apperror.NewInvalidRequestError("failed to read upload")
	}
	if int64(len(data)) > h.maxUploadSize {
		return pdfcmd.Document{}, apperror.NewFieldValidationError(field, fmt.Sprintf("file exceeds %d bytes", h.maxUploadSize))
	}

	return pdfcmd.Document{Name: fh.Filename, Data: data}, nil
}

func isPDFUpload(fh *multipart.FileHeader) bool {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(fh.Header.Get(echo.HeaderContentType), ";", 2)[0]))
	switch contentType {
	case "application/pdf":
		return true
	case "", echo.MIMEOctetStream:
		return strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf")
	default:
		return false
	}
}

func bindForm(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return apperror.NewInvalidRequestError("invalid form data")
	}
	return c.Validate(dst)
}

// parseIntList は繰り返し指定とカンマ区切りの両方を整数列に変換します
func parseIntList(field string, values []string) ([]int, error) {
	var out []int
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, apperror.NewFieldValidationError(field, fmt.Sprintf("%q is not an integer", part))
			}
			out = append(out, n)
		}
	}
	return out, nil
}

func optionalInt(field, value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperror.NewFieldValidationError(field, "must be an integer")
	}
	return n, nil
}

func sendFile(c echo.Context, out *pdfcmd.FileOutput) error {
	return presenter.Attachment(c, out.Filename, out.ContentType, out.Data)
}
