package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/database"
)

const historyResource = "history entry"

const historyColumns = `id, user_id, user_name, user_email, operation_type, timestamp,
	source_type, ip_address, country, state, user_agent, request_details`

// OperationHistoryRepository は操作履歴リポジトリのPostgreSQL実装です
type OperationHistoryRepository struct {
	*database.BaseRepository
}

// NewOperationHistoryRepository は新しいOperationHistoryRepositoryを作成します
func NewOperationHistoryRepository(txManager *database.TxManager) *OperationHistoryRepository {
	return &OperationHistoryRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create は履歴を追記します
func (r *OperationHistoryRepository) Create(ctx context.Context, rec *entity.OperationRecord) (int64, error) {
	const q = `INSERT INTO pdf_operation_history (
		user_id, user_name, user_email, operation_type, timestamp,
		source_type, ip_address, country, state, user_agent, request_details
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id`

	var id int64
	err := r.Querier(ctx).QueryRow(ctx, q,
		rec.UserID,
		rec.UserName,
		rec.UserEmail,
		rec.OperationType,
		pgtype.Timestamptz{Time: rec.Timestamp.UTC(), Valid: true},
		rec.SourceType,
		rec.IPAddress,
		rec.Country,
		rec.State,
		rec.UserAgent,
		rec.RequestDetails,
	).Scan(&id)
	if err != nil {
		return 0, r.HandleError(err, historyResource)
	}

	rec.ID = id
	return id, nil
}

// FindByID はIDで履歴を取得します
func (r *OperationHistoryRepository) FindByID(ctx context.Context, id int64) (*entity.OperationRecord, error) {
	q := `SELECT ` + historyColumns + ` FROM pdf_operation_history WHERE id = $1`

	rec, err := scanHistory(r.Querier(ctx).QueryRow(ctx, q, id))
	if err != nil {
		return nil, r.HandleError(err, historyResource)
	}
	return rec, nil
}

// FindPage は条件に一致する履歴の1ページ分と総件数を返します
func (r *OperationHistoryRepository) FindPage(ctx context.Context, filter repository.HistoryFilter, page repository.PageRequest) ([]*entity.OperationRecord, int64, error) {
	where, args := database.BuildHistoryWhere(database.PostgresDialect, filter)
	querier := r.Querier(ctx)

	var total int64
	if err := querier.QueryRow(ctx, `SELECT COUNT(*) FROM pdf_operation_history `+where, args...).Scan(&total); err != nil {
		return nil, 0, r.HandleError(err, historyResource)
	}
	if total == 0 {
		return []*entity.OperationRecord{}, 0, nil
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM pdf_operation_history %s %s LIMIT $%d OFFSET $%d`,
		historyColumns, where, database.HistoryOrderBy, n+1, n+2)
	args = append(args, page.Size, page.Offset())

	rows, err := querier.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, r.HandleError(err, historyResource)
	}
	defer rows.Close()

	records := make([]*entity.OperationRecord, 0, page.Size)
	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return nil, 0, r.HandleError(err, historyResource)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.HandleError(err, historyResource)
	}

	return records, total, nil
}

// ScanAll は条件に一致する履歴を1行ずつ fn に渡します
// fn がエラーを返すと走査を中断してそのエラーを返します
func (r *OperationHistoryRepository) ScanAll(ctx context.Context, filter repository.HistoryFilter, fn func(*entity.OperationRecord) error) error {
	where, args := database.BuildHistoryWhere(database.PostgresDialect, filter)
	q := fmt.Sprintf(`SELECT %s FROM pdf_operation_history %s %s`, historyColumns, where, database.HistoryOrderBy)

	rows, err := r.Querier(ctx).Query(ctx, q, args...)
	if err != nil {
		return r.HandleError(err, historyResource)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanHistory(rows)
		if err != nil {
			return r.HandleError(err, historyResource)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return r.HandleError(err, historyResource)
	}
	return nil
}

// DeleteByID は履歴を1件削除します
func (r *OperationHistoryRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tag, err := r.Querier(ctx).Exec(ctx, `DELETE FROM pdf_operation_history WHERE id = $1`, id)
	if err != nil {
		return false, r.HandleError(err, historyResource)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAll は全ての履歴を削除します
func (r *OperationHistoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.Querier(ctx).Exec(ctx, `DELETE FROM pdf_operation_history`)
	if err != nil {
		return 0, r.HandleError(err, historyResource)
	}
	return tag.RowsAffected(), nil
}

// DeleteBefore は cutoff より前の履歴を削除します
func (r *OperationHistoryRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.Querier(ctx).Exec(ctx, `DELETE FROM pdf_operation_history WHERE timestamp < $1`, cutoff.UTC())
	if err != nil {
		return 0, r.HandleError(err, historyResource)
	}
	return tag.RowsAffected(), nil
}

// DistinctOperationTypes は記録済みの操作種別を返します
func (r *OperationHistoryRepository) DistinctOperationTypes(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT operation_type FROM pdf_operation_history ORDER BY operation_type`)
}

// DistinctCountries は記録済みの国名を返します
func (r *OperationHistoryRepository) DistinctCountries(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT country FROM pdf_operation_history WHERE country <> '' ORDER BY country`)
}

func (r *OperationHistoryRepository) distinct(ctx context.Context, q string) ([]string, error) {
	rows, err := r.Querier(ctx).Query(ctx, q)
	if err != nil {
		return nil, r.HandleError(err, historyResource)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, r.HandleError(err, historyResource)
	}
	return values, nil
}

func scanHistory(row pgx.Row) (*entity.OperationRecord, error) {
	var (
		rec entity.OperationRecord
		ts  pgtype.Timestamptz
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
	rec.Timestamp = ts.Time.UTC()
	return &rec, nil
}

// インターフェースの実装を保証
var _ repository.OperationHistoryRepository = (*OperationHistoryRepository)(nil)
