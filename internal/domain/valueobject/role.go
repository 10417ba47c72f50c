package valueobject

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRole = errors.New("invalid role")
)

// Role はユーザーのシステムロールを表す値オブジェクト
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// NewRole は文字列からRoleを生成します
// 大文字小文字と "ROLE_" 接頭辞は無視します
func NewRole(role string) (Role, error) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_"))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// IsValid はロールが有効かを判定します
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String は文字列を返します
func (r Role) String() string {
	return string(r)
}

// IsAdmin は管理者かを判定します
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// OneOf はロールが指定のいずれかに含まれるかを判定します
func (r Role) OneOf(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
