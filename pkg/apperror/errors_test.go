package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFromDB(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, ErrAlreadyExists},
		{"foreign key", gorm.ErrForeignKeyViolated, ErrForeignKeyViolation},
		{"wrapped not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, FromDB(tt.in), tt.want)
		})
	}

	assert.NoError(t, FromDB(nil))

	other := errors.New("connection reset")
	assert.Same(t, other, FromDB(other))
}

func TestStatusAndKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not found", fmt.Errorf("recipe not found: %w", ErrNotFound), http.StatusNotFound, KindNotFound},
		{"duplicate", ErrAlreadyExists, http.StatusConflict, KindUniqueViolation},
		{"foreign key", ErrForeignKeyViolation, http.StatusUnprocessableEntity, KindForeignKey},
		{"category", fmt.Errorf("category %q: %w", "Soups", ErrCategoryNotFound), http.StatusUnprocessableEntity, KindCategoryNotFound},
		{"validation", Validation("title is required"), http.StatusBadRequest, KindValidation},
		{"bad request", ErrBadRequest, http.StatusBadRequest, KindValidation},
		{"upload", fmt.Errorf("%w: timeout", ErrUpstreamMediaUpload), http.StatusBadGateway, KindUpstreamMedia},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, MapErrorToStatus(tt.err))
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestAppError_Message(t *testing.T) {
	err := New(http.StatusBadRequest, "", ErrInvalidInput)
	assert.Equal(t, ErrInvalidInput.Error(), err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, "title is required", Validation("title is required").Error())
	assert.Equal(t, http.StatusText(http.StatusTeapot), New(http.StatusTeapot, "", nil).Error())
}
