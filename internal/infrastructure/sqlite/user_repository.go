package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
)

const userResource = "user"

const userColumns = `id, first_name, last_name, email, password_hash, role, enabled, created_at, updated_at`

// UserRepository はユーザーリポジトリのSQLite実装です
type UserRepository struct {
	tx *TxManager
}

// NewUserRepository は新しいUserRepositoryを作成します
func NewUserRepository(tx *TxManager) *UserRepository {
	return &UserRepository{tx: tx}
}

// Create はユーザーを作成します
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	const q = `INSERT INTO users (first_name, last_name, email, password_hash, role, enabled, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.tx.GetQuerier(ctx).ExecContext(ctx, q,
		user.FirstName,
		user.LastName,
		user.Email.String(),
		user.PasswordHash,
		user.Role.String(),
		user.Enabled,
		user.CreatedAt.UTC().UnixNano(),
		user.UpdatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return handleError(err, userResource)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return handleError(err, userResource)
	}
	user.ID = id
	return nil
}

// Update はユーザーを更新します
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	const q = `UPDATE users
	SET first_name = ?, last_name = ?, password_hash = ?, role = ?, enabled = ?, updated_at = ?
	WHERE id = ?`

	res, err := r.tx.GetQuerier(ctx).ExecContext(ctx, q,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role.String(),
		user.Enabled,
		user.UpdatedAt.UTC().UnixNano(),
		user.ID,
	)
	if err != nil {
		return handleError(err, userResource)
	}
	if n, err := res.RowsAffected(); err != nil {
		return handleError(err, userResource)
	} else if n == 0 {
		return handleError(sql.ErrNoRows, userResource)
	}
	return nil
}

// FindByID はIDでユーザーを検索します
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.tx.GetQuerier(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, handleError(err, userResource)
	}
	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索します
func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	row := r.tx.GetQuerier(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email.String())
	user, err := scanUser(row)
	if err != nil {
		return nil, handleError(err, userResource)
	}
	return user, nil
}

// Exists はメールアドレスが存在するかを確認します
func (r *UserRepository) Exists(ctx context.Context, email valueobject.Email) (bool, error) {
	var exists bool
	err := r.tx.GetQuerier(ctx).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email.String()).Scan(&exists)
	if err != nil {
		return false, handleError(err, userResource)
	}
	return exists, nil
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		u                    entity.User
		email, role          string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &email, &u.PasswordHash, &role, &u.Enabled, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.Email = valueobject.EmailFromTrusted(email)
	u.Role = valueobject.Role(role)
	u.CreatedAt = time.Unix(0, createdAt).UTC()
	u.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
