package entity

import (
	"time"
	"unicode/utf8"
)

// MaxRequestDetailsLength は RequestDetails に保存できる最大文字数です
const MaxRequestDetailsLength = 1000

// OperationRecord はPDF操作履歴の1エントリを表します
// 作成後は変更されず、削除は即時の物理削除です
type OperationRecord struct {
	ID             int64
	UserID         int64
	UserName       string
	UserEmail      string
	OperationType  string
	Timestamp      time.Time
	SourceType     string
	IPAddress      string
	Country        string
	State          string
	UserAgent      string
	RequestDetails string
}

// NormalizeTimestamp はストアが保持できる精度(マイクロ秒, UTC)に時刻を丸めます
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// TruncateDetails は詳細文字列を最大長に切り詰めます
func TruncateDetails(details string) string {
	if utf8.RuneCountInString(details) <= MaxRequestDetailsLength {
		return details
	}
	runes := []rune(details)
	return string(runes[:MaxRequestDetailsLength])
}
