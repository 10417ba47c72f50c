package entity

import (
	"strings"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
)

// User はユーザーエンティティを定義します
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        valueobject.Email
	PasswordHash string
	Role         valueobject.Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser は新しいユーザーを作成します
// IDはストアが採番します
func NewUser(firstName, lastName string, email valueobject.Email, password valueobject.Password, role valueobject.Role) *User {
	now := time.Now().UTC()
	return &User{
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        email,
		PasswordHash: password.Hash(),
		Role:         role,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// FullName は "名 姓" 形式の氏名を返します
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Password はハッシュ化済みパスワードを返します
func (u *User) Password() valueobject.Password {
	return valueobject.PasswordFromHash(u.PasswordHash)
}

// CanLogin はユーザーがログイン可能かを判定します
func (u *User) CanLogin() bool {
	return u.Enabled
}

// Promote はロールを変更します
func (u *User) Promote(role valueobject.Role) {
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
}

// Principal はユーザーを認証済み呼び出し元として表現します
func (u *User) Principal() *Principal {
	return &Principal{
		UserID: u.ID,
		Name:   u.FullName(),
		Email:  u.Email.String(),
		Role:   u.Role,
	}
}
