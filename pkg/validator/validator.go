package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", field, getFieldName(fe.Param()))
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid uuid", field)
	case "url":
		return fmt.Sprintf("%s must be a valid url", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":      "username",
		"Email":         "email",
		"Password":      "password",
		"Name":          "name",
		"Title":         "title",
		"Description":   "description",
		"PrepTime":      "prep_time",
		"Servings":      "servings",
		"Image":         "image",
		"PublishStatus": "publish_status",
		"CategoryName":  "category_name",
		"CategoryID":    "category_id",
		"UserID":        "user_id",
		"Ingredients":   "ingredients",
		"Steps":         "steps",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	// dive errors are reported as e.g. "Ingredients[0]"
	if i := strings.IndexByte(field, '['); i > 0 {
		if name, ok := fieldNames[field[:i]]; ok {
			return name + field[i:]
		}
	}
	return field
}
