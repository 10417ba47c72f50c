package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

type sample struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,password"`
	OutputName string `form:"outputName" validate:"omitempty,filename"`
}

func TestCustomValidator_FieldNamesFromTags(t *testing.T) {
	v := NewCustomValidator()

	err := v.Validate(&sample{Email: "bad", Password: "short", OutputName: "../etc/passwd"})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)

	fields := make([]string, 0, len(appErr.Details))
	for _, d := range appErr.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password", "outputName"}, fields)
}

func TestCustomValidator_Valid(t *testing.T) {
	v := NewCustomValidator()
	assert.NoError(t, v.Validate(&sample{Email: "a@example.com", Password: "Password123", OutputName: "report final.pdf"}))
	assert.NoError(t, v.Validate(&sample{Email: "a@example.com", Password: "password123"}))
}

func TestValidatePassword_RequiresTwoClasses(t *testing.T) {
	v := NewCustomValidator()
	assert.Error(t, v.Validate(&sample{Email: "a@example.com", Password: "alllowercase"}))
	assert.Error(t, v.Validate(&sample{Email: "a@example.com", Password: "12345678"}))
}
