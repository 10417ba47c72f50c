package presenter

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// Response は統一レスポンス構造を定義します
type Response struct {
	Data interface{} `json:"data"`
	Meta interface{} `json:"meta"`
}

// Pagination はページネーション情報を定義します
// page は0始まりです
type Pagination struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	HasNext       bool  `json:"hasNext"`
	HasPrev       bool  `json:"hasPrev"`
}

// Meta はメタ情報を定義します
type Meta struct {
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// OK は成功レスポンスを返します
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: nil,
	})
}

// Created は作成成功レスポンスを返します
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Data: data,
		Meta: nil,
	})
}

// Deleted は削除成功レスポンスを返します
func Deleted(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: Meta{Message: message},
	})
}

// List はリスト取得レスポンスを返します
func List(c echo.Context, data interface{}, pagination *Pagination) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: Meta{Pagination: pagination},
	})
}

// NewPagination はページネーション情報を作成します
func NewPagination(page, size int, total int64) *Pagination {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return &Pagination{
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       page+1 < totalPages,
		HasPrev:       page > 0,
	}
}

// ContentDisposition は添付ファイル用のヘッダー値を返します
// ASCII以外のファイル名は filename* で併記します
func ContentDisposition(filename string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		asciiFallback(filename), url.PathEscape(filename))
}

// Attachment はファイルをダウンロードレスポンスとして返します
func Attachment(c echo.Context, filename, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, ContentDisposition(filename))
	return c.Blob(http.StatusOK, contentType, data)
}

func asciiFallback(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			out = append(out, '_')
		case r < 0x20 || r > 0x7e:
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
