package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
)

// Dialect はSQL方言ごとの差異を表す
type Dialect struct {
	// Placeholder は n 番目(1始まり)のバインド変数を返す
	Placeholder func(n int) string
	// TimeArg は時刻をバインド値に変換する
	TimeArg func(t time.Time) any
}

// PostgresDialect はpgx向けの方言
var PostgresDialect = Dialect{
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	TimeArg:     func(t time.Time) any { return t.UTC() },
}

// SQLiteDialect はsqlite向けの方言
// 時刻はUnixナノ秒の整数で保存する
var SQLiteDialect = Dialect{
	Placeholder: func(int) string { return "?" },
	TimeArg:     func(t time.Time) any { return t.UTC().UnixNano() },
}

// HistoryOrderBy は履歴一覧の並び順
const HistoryOrderBy = "ORDER BY timestamp DESC, id DESC"

// BuildHistoryWhere はフィルタからWHERE句とバインド値を組み立てる
// 条件が無い場合は空文字を返す
func BuildHistoryWhere(d Dialect, f repository.HistoryFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, d.Placeholder(len(args))))
	}

	if f.UserID != nil {
		add("user_id = %s", *f.UserID)
	}
	if f.OperationType != "" {
		add("operation_type = %s", f.OperationType)
	}
	if f.StartDate != nil {
		add("timestamp >= %s", d.TimeArg(*f.StartDate))
	}
	if f.EndDate != nil {
		add("timestamp <= %s", d.TimeArg(*f.EndDate))
	}
	if f.Country != "" {
		add("country = %s", f.Country)
	}
	if f.SourceType != "" {
		add("source_type = %s", f.SourceType)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
