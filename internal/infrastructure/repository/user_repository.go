package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/database"
)

const userResource = "user"

const userColumns = `id, first_name, last_name, email, password_hash, role, enabled, created_at, updated_at`

// UserRepository はユーザーリポジトリのPostgreSQL実装です
type UserRepository struct {
	*database.BaseRepository
}

// NewUserRepository は新しいUserRepositoryを作成します
func NewUserRepository(txManager *database.TxManager) *UserRepository {
	return &UserRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create はユーザーを作成します
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	const q = `INSERT INTO users (first_name, last_name, email, password_hash, role, enabled, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

	err := r.Querier(ctx).QueryRow(ctx, q,
		user.FirstName,
		user.LastName,
		user.Email.String(),
		user.PasswordHash,
		user.Role.String(),
		user.Enabled,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	return r.HandleError(err, userResource)
}

// Update はユーザーを更新します
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	const q = `UPDATE users
	SET first_name = $2, last_name = $3, password_hash = $4, role = $5, enabled = $6, updated_at = $7
	WHERE id = $1`

	tag, err := r.Querier(ctx).Exec(ctx, q,
		user.ID,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role.String(),
		user.Enabled,
		user.UpdatedAt,
	)
	if err != nil {
		return r.HandleError(err, userResource)
	}
	if tag.RowsAffected() == 0 {
		return r.HandleError(pgx.ErrNoRows, userResource)
	}
	return nil
}

// FindByID はIDでユーザーを検索します
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := scanUser(r.Querier(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, r.HandleError(err, userResource)
	}
	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索します
func (r *UserRepository) FindByEmail(ctx context.Context, email valueobject.Email) (*entity.User, error) {
	user, err := scanUser(r.Querier(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.String()))
	if err != nil {
		return nil, r.HandleError(err, userResource)
	}
	return user, nil
}

// Exists はメールアドレスが存在するかを確認します
func (r *UserRepository) Exists(ctx context.Context, email valueobject.Email) (bool, error) {
	var exists bool
	err := r.Querier(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email.String()).Scan(&exists)
	if err != nil {
		return false, r.HandleError(err, userResource)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u     entity.User
		email string
		role  string
	)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &email, &u.PasswordHash, &role, &u.Enabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Email = valueobject.EmailFromTrusted(email)
	u.Role = valueobject.Role(role)
	return &u, nil
}

// インターフェースの実装を保証
var _ repository.UserRepository = (*UserRepository)(nil)
