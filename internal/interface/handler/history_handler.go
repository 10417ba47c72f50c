package handler

import (
	"bytes"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hiro-mackay/pdfops/internal/interface/dto/request"
	"github.com/Hiro-mackay/pdfops/internal/interface/dto/response"
	"github.com/Hiro-mackay/pdfops/internal/interface/middleware"
	"github.com/Hiro-mackay/pdfops/internal/interface/presenter"
	historycmd "github.com/Hiro-mackay/pdfops/internal/usecase/history/command"
	historyqry "github.com/Hiro-mackay/pdfops/internal/usecase/history/query"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// csvContentType はCSVダウンロードのContent-Typeです
const csvContentType = echo.MIMEOctetStream

// HistoryHandler は操作履歴のHTTPハンドラーです
type HistoryHandler struct {
	// Commands
	deleteEntryCommand *historycmd.DeleteHistoryEntryCommand
	deleteAllCommand   *historycmd.DeleteAllHistoryCommand

	// Queries
	getHistoryQuery    *historyqry.GetOperationHistoryQuery
	searchHistoryQuery *historyqry.SearchOperationHistoryQuery
	userHistoryQuery   *historyqry.GetUserHistoryQuery
	exportCSVQuery     *historyqry.ExportHistoryCSVQuery
	filterOptionsQuery *historyqry.ListFilterOptionsQuery

	now func() time.Time
}

// NewHistoryHandler は新しいHistoryHandlerを作成します
func NewHistoryHandler(
	deleteEntryCommand *historycmd.DeleteHistoryEntryCommand,
	deleteAllCommand *historycmd.DeleteAllHistoryCommand,
	getHistoryQuery *historyqry.GetOperationHistoryQuery,
	searchHistoryQuery *historyqry.SearchOperationHistoryQuery,
	userHistoryQuery *historyqry.GetUserHistoryQuery,
	exportCSVQuery *historyqry.ExportHistoryCSVQuery,
	filterOptionsQuery *historyqry.ListFilterOptionsQuery,
) *HistoryHandler {
	return &HistoryHandler{
		deleteEntryCommand: deleteEntryCommand,
		deleteAllCommand:   deleteAllCommand,
		getHistoryQuery:    getHistoryQuery,
		searchHistoryQuery: searchHistoryQuery,
		userHistoryQuery:   userHistoryQuery,
		exportCSVQuery:     exportCSVQuery,
		filterOptionsQuery: filterOptionsQuery,
		now:                time.Now,
	}
}

// List は操作履歴を新しい順に返します
// GET /api/history?page=0&size=20
func (h *HistoryHandler) List(c echo.Context) error {
	page, size, err := bindPage(c)
	if err != nil {
		return err
	}

	output, err := h.getHistoryQuery.Execute(c.Request().Context(), historyqry.GetOperationHistoryInput{
		Page: page,
		Size: size,
	})
	if err != nil {
		return err
	}

	return listHistory(c, output)
}

// Search は条件に一致する操作履歴を返します
// POST /api/history/search?page=0&size=20
func (h *HistoryHandler) Search(c echo.Context) error {
	page, size, err := bindPage(c)
	if err != nil {
		return err
	}

	var req request.HistoryFilterRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return apperror.NewInvalidRequestError("invalid filter body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.searchHistoryQuery.Execute(c.Request().Context(), historyqry.SearchOperationHistoryInput{
		Filter: req.ToFilter(),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return err
	}

	return listHistory(c, output)
}

// Mine は呼び出し元自身の操作履歴を返します
// GET /api/history/me?page=0&size=20
func (h *HistoryHandler) Mine(c echo.Context) error {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return apperror.NewUnauthorizedError("authentication required")
	}

	page, size, err := bindPage(c)
	if err != nil {
		return err
	}

	output, err := h.userHistoryQuery.Execute(c.Request().Context(), historyqry.GetUserHistoryInput{
		UserID: principal.UserID,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return err
	}

	return listHistory(c, output)
}

// Export は全履歴をCSVで返します
// GET /api/history/export
func (h *HistoryHandler) Export(c echo.Context) error {
	return h.export(c, historyqry.ExportHistoryCSVInput{})
}

// ExportFiltered は条件に一致する履歴をCSVで返します
// POST /api/history/export
func (h *HistoryHandler) ExportFiltered(c echo.Context) error {
	var req request.ExportHistoryRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid export body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	return h.export(c, historyqry.ExportHistoryCSVInput{Filter: req.ToFilter()})
}

// 途中で失敗した場合にエラーレスポンスを返せるよう、書き出しを終えてから送信する
func (h *HistoryHandler) export(c echo.Context, input historyqry.ExportHistoryCSVInput) error {
	var buf bytes.Buffer
	if _, err := h.exportCSVQuery.Execute(c.Request().Context(), &buf, input); err != nil {
		return err
	}

	return presenter.Attachment(c, historyqry.ExportFilename(h.now()), csvContentType, buf.Bytes())
}

// FilterOptions は検索条件の候補を返します
// GET /api/history/filters
func (h *HistoryHandler) FilterOptions(c echo.Context) error {
	output, err := h.filterOptionsQuery.Execute(c.Request().Context())
	if err != nil {
		return err
	}

	return presenter.OK(c, response.FilterOptionsResponse{
		OperationTypes: output.OperationTypes,
		Countries:      output.Countries,
		SourceTypes:    output.SourceTypes,
	})
}

// Delete は履歴を1件削除します
// DELETE /api/history/:id
func (h *HistoryHandler) Delete(c echo.Context) error {
	var param request.HistoryIDParam
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &param); err != nil {
		return apperror.NewFieldValidationError("id", "must be a positive integer")
	}

	output, err := h.deleteEntryCommand.Execute(c.Request().Context(), historycmd.DeleteHistoryEntryInput{
		ID: param.ID,
	})
	if err != nil {
		return err
	}
	if !output.Deleted {
		return apperror.NewNotFoundError("operation history")
	}

	return presenter.Deleted(c, response.DeleteHistoryResponse{Deleted: 1}, "history entry deleted")
}

// DeleteAll は全履歴を削除します
// DELETE /api/history
func (h *HistoryHandler) DeleteAll(c echo.Context) error {
	output, err := h.deleteAllCommand.Execute(c.Request().Context())
	if err != nil {
		return err
	}

	return presenter.Deleted(c, response.DeleteHistoryResponse{Deleted: output.Deleted}, "all history deleted")
}

func bindPage(c echo.Context) (int, int, error) {
	var q request.PageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return 0, 0, apperror.NewInvalidRequestError("page and size must be integers")
	}
	page, size, err := q.Values(historyqry.DefaultPageSize)
	if err != nil {
		return 0, 0, apperror.NewInvalidRequestError("page and size must be integers")
	}
	return page, size, nil
}

func listHistory(c echo.Context, page *historyqry.HistoryPage) error {
	return presenter.List(c,
		response.ToHistoryResponses(page.Items),
		presenter.NewPagination(page.Page, page.Size, page.Total),
	)
}
