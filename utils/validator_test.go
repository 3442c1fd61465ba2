package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type slugPayload struct {
	Slug string `validate:"required,slug"`
}

func TestSlugValidation(t *testing.T) {
	valid := []string{"pad-thai", "recipe-101", "a", "30-minute-dinners"}
	for _, s := range valid {
		assert.NoError(t, ValidateStruct(slugPayload{Slug: s}), s)
	}

	invalid := []string{"Pad-Thai", "pad thai", "-pad-thai", "pad-thai-", "pad_thai", "crème-brûlée"}
	for _, s := range invalid {
		assert.Error(t, ValidateStruct(slugPayload{Slug: s}), s)
	}
}

func TestValidateStructMessages(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=3"`
	}

	err := ValidateStruct(payload{Email: "not-an-email", Name: "ab"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "name must be at least 3 characters")

	err = ValidateStruct(payload{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
}
