package response

import (
	"github.com/Hiro-mackay/pdfops/internal/usecase/history/query"
)

// HistoryResponse は操作履歴1件のレスポンス
type HistoryResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"userId"`
	UserName       string `json:"userName"`
	UserEmail      string `json:"userEmail"`
	OperationType  string `json:"operationType"`
	Timestamp      string `json:"timestamp"`
	SourceType     string `json:"sourceType"`
	IPAddress      string `json:"ipAddress"`
	Country        string `json:"country"`
	State          string `json:"state"`
	UserAgent      string `json:"userAgent"`
	RequestDetails string `json:"requestDetails"`
}

// ToHistoryResponses は表示用データをレスポンスに変換します
func ToHistoryResponses(items []query.HistoryView) []HistoryResponse {
	out := make([]HistoryResponse, len(items))
	for i, v := range items {
		out[i] = HistoryResponse(v)
	}
	return out
}

// DeleteHistoryResponse は削除結果のレスポンス
type DeleteHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}

// FilterOptionsResponse は検索条件の候補
type FilterOptionsResponse struct {
	OperationTypes []string `json:"operationTypes"`
	Countries      []string `json:"countries"`
	SourceTypes    []string `json:"sourceTypes"`
}
