// AngelaMos | 2026
// validation_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username string `validate:"required,min=3,alphanumunderscore"`
	Email    string `validate:"required,email"`
	Rating   int    `validate:"gte=1,lte=5"`
}

func TestValidator_CustomUsernameTag(t *testing.T) {
	t.Parallel()

	v := NewValidator()

	assert.NoError(t, v.Struct(signup{Username: "ana_99", Email: "ana@x.com", Rating: 3}))
	assert.Error(t, v.Struct(signup{Username: "ana@x", Email: "ana@x.com", Rating: 3}))
}

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidator().Struct(signup{Username: "a-", Email: "nope", Rating: 6})

	assert.Equal(t,
		"username must be at least 3; email must be a valid email; rating must be <= 5",
		FormatValidationError(err),
	)
	assert.Equal(t, "invalid request", FormatValidationError(assert.AnError))
}
