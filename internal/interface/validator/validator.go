package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

var invalidFileNameChars = regexp.MustCompile(`[/\\:*?"<>|\x00-\x1f]`)

// CustomValidator はEcho用のカスタムバリデーターです
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator は新しいCustomValidatorを作成します
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	// エラーのフィールド名はリクエストのキー名で返す
	v.RegisterTagNameFunc(fieldName)

	v.RegisterValidation("filename", validateFileName)
	v.RegisterValidation("password", validatePassword)

	return &CustomValidator{validator: v}
}

// Validate はリクエストを検証します
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return cv.formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors はバリデーションエラーをフォーマットします
func (cv *CustomValidator) formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.NewValidationError(err.Error(), nil)
	}

	details := make([]apperror.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, apperror.FieldError{
			Field:   e.Field(),
			Message: getValidationMessage(e),
		})
	}

	return apperror.NewValidationError("validation failed", details)
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "query"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// validateFileName は出力ファイル名のバリデーション
// パス区切りや制御文字を含む名前は Content-Disposition に載せられない
func validateFileName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	if invalidFileNameChars.MatchString(name) {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	return len(name) <= 255
}

// validatePassword はアカウントパスワードのバリデーション
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 || len(password) > 256 {
		return false
	}

	// 英大文字、英小文字、数字のうち2種以上
	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case 'A' <= char && char <= 'Z':
			hasUpper = true
		case 'a' <= char && char <= 'z':
			hasLower = true
		case '0' <= char && char <= '9':
			hasDigit = true
		}
	}

	count := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit} {
		if ok {
			count++
		}
	}

	return count >= 2
}

// getValidationMessage はバリデーションエラーメッセージを返します
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "filename":
		return "must be a valid file name (no path separators or special characters)"
	case "password":
		return "must be 8-256 characters with at least 2 of: uppercase, lowercase, digit"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gtfield":
		return "must be after " + e.Param()
	case "hexcolor":
		return "must be a hex color such as #888888"
	default:
		return "validation failed"
	}
}
