package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/database"
)

const historyResource = "history entry"

const historyColumns = `id, user_id, user_name, user_email, operation_type, timestamp,
	source_type, ip_address, country, state, user_agent, request_details`

// OperationHistoryRepository は操作履歴リポジトリのSQLite実装です
type OperationHistoryRepository struct {
	tx *TxManager
}

// NewOperationHistoryRepository は新しいOperationHistoryRepositoryを作成します
func NewOperationHistoryRepository(tx *TxManager) *OperationHistoryRepository {
	return &OperationHistoryRepository{tx: tx}
}

// Create は履歴を追記します
func (r *OperationHistoryRepository) Create(ctx context.Context, rec *entity.OperationRecord) (int64, error) {
	const q = `INSERT INTO pdf_operation_history (
		user_id, user_name, user_email, operation_type, timestamp,
		source_type, ip_address, country, state, user_agent, request_details
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.tx.GetQuerier(ctx).ExecContext(ctx, q,
		rec.UserID,
		rec.UserName,
		rec.UserEmail,
		rec.OperationType,
		rec.Timestamp.UTC().UnixNano(),
		rec.SourceType,
		rec.IPAddress,
		rec.Country,
		rec.State,
		rec.UserAgent,
		rec.RequestDetails,
	)
	if err != nil {
		return 0, handleError(err, historyResource)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, handleError(err, historyResource)
	}
	rec.ID = id
	return id, nil
}

// FindByID はIDで履歴を取得します
func (r *OperationHistoryRepository) FindByID(ctx context.Context, id int64) (*entity.OperationRecord, error) {
	row := r.tx.GetQuerier(ctx).QueryRowContext(ctx, `SELECT `+historyColumns+` FROM pdf_operation_history WHERE id = ?`, id)
	rec, err := scanHistory(row)
	if err != nil {
		return nil, handleError(err, historyResource)
	}
	return rec, nil
}

// FindPage は条件に一致する履歴の1ページ分と総件数を返します
func (r *OperationHistoryRepository) FindPage(ctx context.Context, filter repository.HistoryFilter, page repository.PageRequest) ([]*entity.OperationRecord, int64, error) {
	where, args := database.BuildHistoryWhere(database.SQLiteDialect, filter)
	querier := r.tx.GetQuerier(ctx)

	var total int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM pdf_operation_history `+where, args...).Scan(&total); err != nil {
		return nil, 0, handleError(err, historyResource)
	}
	if total == 0 {
		return []*entity.OperationRecord{}, 0, nil
	}

	q := fmt.Sprintf(`SELECT %s FROM pdf_operation_history %s %s LIMIT ? OFFSET ?`, historyColumns, where, database.HistoryOrderBy)
	rows, err := querier.QueryContext(ctx, q, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, handleError(err, historyResource)
	}
	defer rows.Close()

	records := make([]*entity.OperationRecord, 0, page.Size)
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, 0, handleError(err, historyResource)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, handleError(err, historyResource)
	}
	return records, total, nil
}

// ScanAll は条件に一致する履歴を1行ずつ fn に渡します
func (r *OperationHistoryRepository) ScanAll(ctx context.Context, filter repository.HistoryFilter, fn func(*entity.OperationRecord) error) error {
	where, args := database.BuildHistoryWhere(database.SQLiteDialect, filter)
	q := fmt.Sprintf(`SELECT %s FROM pdf_operation_history %s %s`, historyColumns, where, database.HistoryOrderBy)

	rows, err := r.tx.GetQuerier(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return handleError(err, historyResource)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return handleError(err, historyResource)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return handleError(err, historyResource)
	}
	return nil
}

// DeleteByID は履歴を1件削除します
func (r *OperationHistoryRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	n, err := r.exec(ctx, `DELETE FROM pdf_operation_history WHERE id = ?`, id)
	return n > 0, err
}

// DeleteAll は全ての履歴を削除します
func (r *OperationHistoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.exec(ctx, `DELETE FROM pdf_operation_history`)
}

// DeleteBefore は cutoff より前の履歴を削除します
func (r *OperationHistoryRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.exec(ctx, `DELETE FROM pdf_operation_history WHERE timestamp < ?`, cutoff.UTC().UnixNano())
}

// DistinctOperationTypes は記録済みの操作種別を返します
func (r *OperationHistoryRepository) DistinctOperationTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT operation_type FROM pdf_operation_history ORDER BY operation_type`)
}

// DistinctCountries は記録済みの国名を返します
func (r *OperationHistoryRepository) DistinctCountries(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT country FROM pdf_operation_history WHERE country <> '' ORDER BY country`)
}

func (r *OperationHistoryRepository) exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := r.tx.GetQuerier(ctx).ExecContext(ctx, q, args...)
	if err != nil {
		return 0, handleError(err, historyResource)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, handleError(err, historyResource)
	}
	return n, nil
}

func (r *OperationHistoryRepository) distinct(ctx context.Context, q string) ([]string, error) {
	rows, err := r.tx.GetQuerier(ctx).QueryContext(ctx, q)
	if err != nil {
		return nil, handleError(err, historyResource)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, handleError(err, historyResource)
		}
		values = append(values, v)
	}
	return values, handleError(rows.Err(), historyResource)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*entity.OperationRecord, error) {
	var (
		rec entity.OperationRecord
		ts  int64
	)
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.UserName,
		&rec.UserEmail,
		&rec.OperationType,
		&ts,
		&rec.SourceType,
		&rec.IPAddress,
		&rec.Country,
		&rec.State,
		&rec.UserAgent,
		&rec.RequestDetails,
	)
	if err != nil {
		return nil, err
	}
	rec.Timestamp = time.Unix(0, ts).UTC()
	return &rec, nil
}

var (
	_ repository.OperationHistoryRepository = (*OperationHistoryRepository)(nil)
	_ rowScanner                            = (*sql.Row)(nil)
)
