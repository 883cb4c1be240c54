package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type recipeInput struct {
	Title        string   `validate:"required,max=5"`
	CategoryName string   `validate:"required_without=CategoryID"`
	CategoryID   string   `validate:"omitempty,uuid"`
	Ingredients  []string `validate:"dive,required"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(recipeInput{
		Title:       "too long",
		CategoryID:  "nope",
		Ingredients: []string{"flour", ""},
	})

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "title must be at most 5 characters")
	assert.Contains(t, msg, "category_id must be a valid uuid")
	assert.Contains(t, msg, "ingredients[1] is required")
}

func TestFormatValidationError_RequiredWithout(t *testing.T) {
	err := validator.New().Struct(recipeInput{Title: "Soup"})
	assert.Equal(t, "category_name is required when category_id is empty", FormatValidationError(err))
}

func TestFormatValidationError_PlainError(t *testing.T) {
	assert.Equal(t, "unexpected EOF", FormatValidationError(errors.New("unexpected EOF")))
}

func TestFormatValidationError_GreaterThan(t *testing.T) {
	type servingsInput struct {
		Servings int `validate:"gt=0"`
	}

	err := validator.New().Struct(servingsInput{Servings: -3})
	assert.Equal(t, "servings must be greater than 0", FormatValidationError(err))
}
