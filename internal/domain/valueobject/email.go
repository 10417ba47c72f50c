package valueobject

import (
	"fmt"
	"net/mail"
	"strings"
)

// Email はメールアドレスを表す値オブジェクトです
type Email struct {
	value string
}

// NewEmail は新しいEmailを作成します
func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(strings.ToLower(value))

	if value == "" {
		return Email{}, fmt.Errorf("email cannot be empty")
	}

	if len(value) > 255 {
		return Email{}, fmt.Errorf("email must be at most 255 characters")
	}

	// 表示名付きの形式 ("Jane <jane@example.com>") は受け付けない
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return Email{}, fmt.Errorf("invalid email format")
	}

	return Email{value: value}, nil
}

// EmailFromTrusted はDBなど検証済みの値からEmailを復元します
func EmailFromTrusted(value string) Email {
	return Email{value: value}
}

// String はメールアドレスを文字列で返します
func (e Email) String() string {
	return e.value
}

// Equals は2つのEmailが等しいかを判定します
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// LocalPart はメールアドレスのローカル部分（@より前）を返します
func (e Email) LocalPart() string {
	local, _, found := strings.Cut(e.value, "@")
	if !found {
		return ""
	}
	return local
}
