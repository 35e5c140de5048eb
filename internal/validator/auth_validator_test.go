package validator_test

import (
	"strings"
	"testing"

	"pos/internal/validator"

	"github.com/stretchr/testify/assert"
)

func TestAuthValidator_ValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator()

	assert.NoError(t, v.ValidateLogin("admin", "admin123"))
	assert.ErrorIs(t, v.ValidateLogin("", "x"), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin("   ", "x"), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin("admin", ""), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateLogin("admin", strings.Repeat("a", 73)), validator.ErrInvalidInput)
}

func TestAuthValidator_ValidateSeed(t *testing.T) {
	v := validator.NewAuthValidator()

	assert.NoError(t, v.ValidateSeed("admin", "admin123"))
	assert.NoError(t, v.ValidateSeed("shop.manager-01", "longenough"))
	assert.ErrorIs(t, v.ValidateSeed("with space", "admin123"), validator.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateSeed("admin", "short"), validator.ErrInvalidInput)
}
