// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"anoa.com/recipeshare/internal/bootstrap"
	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated private in-memory SQLite database with foreign
// keys enforced. It is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, bootstrap.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCategory inserts a category named name.
func CreateCategory(t *testing.T, db *gorm.DB, name string) *entity.Category {
	t.Helper()

	category := &entity.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

// Count returns the number of rows in model's table.
func Count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
