package query

import (
	"math"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/export"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

const (
	// DefaultPageSize は size 未指定時のページサイズです
	DefaultPageSize = 20
	// MaxPageSize は1ページに返す最大件数です
	MaxPageSize = 100
)

// HistoryView は履歴1件の表示用データです
type HistoryView struct {
	ID             int64
	UserID         int64
	UserName       string
	UserEmail      string
	OperationType  string
	Timestamp      string
	SourceType     string
	IPAddress      string
	Country        string
	State          string
	UserAgent      string
	RequestDetails string
}

// HistoryPage はページングされた履歴一覧です
type HistoryPage struct {
	Items []HistoryView
	Page  int
	Size  int
	Total int64
}

// TotalPages は総ページ数を返します
func (p *HistoryPage) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func toHistoryView(r *entity.OperationRecord) HistoryView {
	return HistoryView{
		ID:             r.ID,
		UserID:         r.UserID,
		UserName:       r.UserName,
		UserEmail:      r.UserEmail,
		OperationType:  r.OperationType,
		Timestamp:      r.Timestamp.UTC().Format(export.TimestampLayout),
		SourceType:     r.SourceType,
		IPAddress:      r.IPAddress,
		Country:        r.Country,
		State:          r.State,
		UserAgent:      r.UserAgent,
		RequestDetails: r.RequestDetails,
	}
}

func toHistoryPage(records []*entity.OperationRecord, total int64, page repository.PageRequest) *HistoryPage {
	items := make([]HistoryView, 0, len(records))
	for _, r := range records {
		items = append(items, toHistoryView(r))
	}
	return &HistoryPage{
		Items: items,
		Page:  page.Page,
		Size:  page.Size,
		Total: total,
	}
}

// validatePage はページ指定を検証します
func validatePage(page, size int) (repository.PageRequest, error) {
	var details []apperror.FieldError
	if page < 0 {
		details = append(details, apperror.FieldError{Field: "page", Message: "page must be >= 0"})
	}
	if size < 1 || size > MaxPageSize {
		details = append(details, apperror.FieldError{Field: "size", Message: "size must be between 1 and 100"})
	} else if page > math.MaxInt/size {
		details = append(details, apperror.FieldError{Field: "page", Message: "page is too large"})
	}
	if len(details) > 0 {
		return repository.PageRequest{}, apperror.NewValidationError("invalid pagination parameters", details)
	}
	return repository.PageRequest{Page: page, Size: size}, nil
}

// validateFilter は検索条件を検証します
func validateFilter(f repository.HistoryFilter) error {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return apperror.NewFieldValidationError("startDate", "startDate must not be after endDate")
	}
	return nil
}
