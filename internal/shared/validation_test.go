package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registration struct {
	Username string `validate:"required,min=4,max=12"`
	Password string `validate:"required,min=4,max=12,hasletter"`
	Confirm  string `validate:"required,eqfield=Password"`
}

func TestHasLetterRule(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(registration{Username: "reader", Password: "pass1", Confirm: "pass1"}))

	err := v.Struct(registration{Username: "reader", Password: "1234", Confirm: "1234"})
	require.Error(t, err)
	messages := ValidationMessages(err)
	assert.Contains(t, messages, "password must include at least one letter")
}

func TestValidationMessages(t *testing.T) {
	v := NewValidator()

	err := v.Struct(registration{Username: "abc", Password: "pass1", Confirm: "nope1"})
	require.Error(t, err)
	messages := ValidationMessages(err)
	assert.Contains(t, messages, "username must be at least 4 characters long")
	assert.Contains(t, messages, "passwords do not match")
}
