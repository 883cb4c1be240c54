package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrForeignKeyViolation = errors.New("referenced resource does not exist")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrBadRequest          = errors.New("bad request")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpstreamMediaUpload = errors.New("image upload failed")
	ErrInternal            = errors.New("internal server error")
)

// Error kinds reported to clients next to the message.
const (
	KindNotFound         = "not_found"
	KindUniqueViolation  = "unique_constraint_violation"
	KindForeignKey       = "foreign_key_violation"
	KindCategoryNotFound = "category_not_found"
	KindValidation       = "validation_error"
	KindUpstreamMedia    = "upstream_media_upload_failure"
	KindInternal         = "internal"
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation wraps a human readable validation message so it maps to 400.
func Validation(message string) error {
	return New(http.StatusBadRequest, message, ErrInvalidInput)
}

// FromDB translates gorm errors into the application sentinels. The gorm
// connection must be opened with TranslateError enabled for constraint
// violations to be recognised.
func FromDB(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrForeignKeyViolation, err)
	}
	return err
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrAlreadyExists) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrForeignKeyViolation) || errors.Is(err, ErrCategoryNotFound) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUpstreamMediaUpload) {
		return http.StatusBadGateway
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// KindOf returns the machine readable kind of err.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		return KindCategoryNotFound
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindUniqueViolation
	case errors.Is(err, ErrForeignKeyViolation):
		return KindForeignKey
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrUpstreamMediaUpload):
		return KindUpstreamMedia
	}
	return KindInternal
}
