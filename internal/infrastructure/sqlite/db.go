package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// DB は組み込みSQLiteデータベースを表します
// 単一接続で動作するため、行の走査中に別のクエリを発行してはいけません
type DB struct {
	*sql.DB
	path string
}

// Open はファイルのSQLiteデータベースを開き、スキーマを適用します
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return open(ctx, path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

// OpenMemory はインメモリのデータベースを開きます
func OpenMemory(ctx context.Context) (*DB, error) {
	return open(ctx, ":memory:", ":memory:")
}

func open(ctx context.Context, dsn, path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if _, err := d.ExecContext(ctx, schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return d, nil
}

// Path はデータベースファイルのパスを返します
func (d *DB) Path() string {
	return d.path
}

// Health はデータベースのヘルスチェックを行います
func (d *DB) Health(ctx context.Context) error {
	return d.PingContext(ctx)
}

// handleError はSQLiteのエラーをアプリケーションエラーに変換します
func handleError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFoundError(resource)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return apperror.NewConflictError(fmt.Sprintf("%s already exists", resource))
		}
	}
	// ドライバのバージョンによっては拡張コードを返さない
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return apperror.NewConflictError(fmt.Sprintf("%s already exists", resource))
	}
	return apperror.NewInternalError(err)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name    TEXT    NOT NULL,
    last_name     TEXT    NOT NULL,
    email         TEXT    NOT NULL UNIQUE,
    password_hash TEXT    NOT NULL,
    role          TEXT    NOT NULL DEFAULT 'USER' CHECK (role IN ('USER', 'ADMIN')),
    enabled       INTEGER NOT NULL DEFAULT 1,
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pdf_operation_history (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id         INTEGER NOT NULL,
    user_name       TEXT    NOT NULL DEFAULT '',
    user_email      TEXT    NOT NULL DEFAULT '',
    operation_type  TEXT    NOT NULL,
    timestamp       INTEGER NOT NULL,
    source_type     TEXT    NOT NULL DEFAULT 'API',
    ip_address      TEXT    NOT NULL DEFAULT '',
    country         TEXT    NOT NULL DEFAULT '',
    state           TEXT    NOT NULL DEFAULT '',
    user_agent      TEXT    NOT NULL DEFAULT '',
    request_details TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_history_timestamp_id ON pdf_operation_history (timestamp DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_history_user_id ON pdf_operation_history (user_id);
CREATE INDEX IF NOT EXISTS idx_history_operation_type ON pdf_operation_history (operation_type);
`
