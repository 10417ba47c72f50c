package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationsTable はマイグレーション管理テーブル名
const MigrationsTable = "pdfops_schema_migrations"

// Migrator はPostgreSQLのスキーママイグレーションを実行する
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator は migrations ディレクトリと接続URLからMigratorを作成する
func NewMigrator(migrationsDir, databaseURL string) (*Migrator, error) {
	m, err := migrate.New("file://"+migrationsDir, withMigrationsTable(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up は未適用のマイグレーションを全て適用する
// 適用済みの場合は false を返す
func (r *Migrator) Up() (bool, error) {
	if err := r.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return false, nil
		}
		return false, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return true, nil
}

// Down は指定した数だけマイグレーションを戻す
func (r *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	if err := r.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

// Version は現在のスキーマバージョンを返す
func (r *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close はソースとデータベース接続を閉じる
func (r *Migrator) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

func withMigrationsTable(databaseURL string) string {
	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sx-migrations-table=%s", databaseURL, sep, MigrationsTable)
}
