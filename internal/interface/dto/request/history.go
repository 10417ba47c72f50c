package request

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
)

// PageQuery はページングのクエリパラメータ
// 未指定の場合は page=0, size=20 です
type PageQuery struct {
	Page string `query:"page"`
	Size string `query:"size"`
}

// Values はデフォルトを補ったページ番号とサイズを返します
func (q PageQuery) Values(defaultSize int) (page, size int, err error) {
	page, size = 0, defaultSize
	if q.Page != "" {
		if page, err = strconv.Atoi(q.Page); err != nil {
			return 0, 0, fmt.Errorf("page: %w", err)
		}
	}
	if q.Size != "" {
		if size, err = strconv.Atoi(q.Size); err != nil {
			return 0, 0, fmt.Errorf("size: %w", err)
		}
	}
	return page, size, nil
}

// 検索条件の日時として受け付ける形式
// タイムゾーンを含まない値はUTCとして扱います
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// DateTime はJSONの日時を複数の形式で受け取ります
// 日付のみの値は DateOnly が true になります
type DateTime struct {
	time.Time
	DateOnly bool
}

// UnmarshalJSON は日時文字列を解析します
func (d *DateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			d.Time = t.UTC()
			d.DateOnly = layout == time.DateOnly
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d *DateTime) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// endPtr は終了日時を返します
// 日付のみの場合はその日の最終時刻(マイクロ秒精度)まで含めます
func (d *DateTime) endPtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	if d.DateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t
}

// HistoryIDParam は履歴IDのパスパラメータ
type HistoryIDParam struct {
	ID int64 `param:"id"`
}

// HistoryFilterRequest は履歴検索の条件
// 空のフィールドは条件に含めません
type HistoryFilterRequest struct {
	UserID        *int64    `json:"userId" validate:"omitempty,gt=0"`
	OperationType string    `json:"operationType" validate:"omitempty,max=100"`
	StartDate     *DateTime `json:"startDate"`
	EndDate       *DateTime `json:"endDate"`
	Country       string    `json:"country" validate:"omitempty,max=100"`
	SourceType    string    `json:"sourceType" validate:"omitempty,oneof=API Frontend"`
}

// ToFilter はリポジトリの検索条件に変換します
func (r HistoryFilterRequest) ToFilter() repository.HistoryFilter {
	return repository.HistoryFilter{
		UserID:        r.UserID,
		OperationType: r.OperationType,
		StartDate:     r.StartDate.ptr(),
		EndDate:       r.EndDate.endPtr(),
		Country:       r.Country,
		SourceType:    r.SourceType,
	}
}

// ExportHistoryRequest は条件付きエクスポートリクエスト
type ExportHistoryRequest struct {
	HistoryFilterRequest
	Format string `json:"format" validate:"omitempty,oneof=csv"`
}
