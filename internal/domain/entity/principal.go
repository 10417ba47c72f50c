package entity

import "github.com/Hiro-mackay/pdfops/internal/domain/valueobject"

// Principal は認証済みの呼び出し元を表します
type Principal struct {
	UserID int64
	Name   string
	Email  string
	Role   valueobject.Role
}

// HasRole はいずれかのロールを持つかを判定します
func (p *Principal) HasRole(roles ...valueobject.Role) bool {
	return p != nil && p.Role.OneOf(roles...)
}
