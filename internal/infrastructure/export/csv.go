package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
)

// CSVHeader は履歴CSVのヘッダー行です
const CSVHeader = "ID,User,Email,Operation,Timestamp,Source,IP Address,Country,State,User Agent,Request Details"

// TimestampLayout はCSVとAPIで使う時刻の書式です
const TimestampLayout = "2006-01-02 15:04:05"

// CSVWriter は操作履歴をCSVとして書き出します
// 行は渡された順に出力し、改行は "\n" です
type CSVWriter struct {
	w       *bufio.Writer
	started bool
	count   int
}

// NewCSVWriter は w に書き込むCSVWriterを作成します
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: bufio.NewWriter(w)}
}

// WriteHeader はヘッダー行を書き出します
// Write の初回呼び出し時にも自動で書き出されます
func (c *CSVWriter) WriteHeader() error {
	if c.started {
		return nil
	}
	c.started = true
	_, err := c.w.WriteString(CSVHeader + "\n")
	return err
}

// Write は1件の履歴を1行として書き出します
func (c *CSVWriter) Write(rec *entity.OperationRecord) error {
	if err := c.WriteHeader(); err != nil {
		return err
	}

	fields := [...]string{
		strconv.FormatInt(rec.ID, 10),
		rec.UserName,
		rec.UserEmail,
		rec.OperationType,
		formatTimestamp(rec),
		rec.SourceType,
		rec.IPAddress,
		rec.Country,
		rec.State,
		rec.UserAgent,
		rec.RequestDetails,
	}

	for i, f := range fields {
		if i > 0 {
			if err := c.w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := c.w.WriteString(EscapeField(f)); err != nil {
			return err
		}
	}
	c.count++
	return c.w.WriteByte('\n')
}

// Flush はバッファを書き出します
func (c *CSVWriter) Flush() error {
	if err := c.WriteHeader(); err != nil {
		return err
	}
	return c.w.Flush()
}

// Count は書き出した行数(ヘッダーを除く)を返します
func (c *CSVWriter) Count() int {
	return c.count
}

// EscapeField はCSVのフィールドをエスケープします
// 引用符・カンマ・改行を含む場合のみ引用符で囲み、内部の引用符は二重にします
func EscapeField(v string) string {
	if !strings.ContainsAny(v, "\",\r\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func formatTimestamp(rec *entity.OperationRecord) string {
	if rec.Timestamp.IsZero() {
		return ""
	}
	return rec.Timestamp.UTC().Format(TimestampLayout)
}
