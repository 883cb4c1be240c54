package repository

import (
	"context"
	"testing"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/internal/testutil"
	"anoa.com/recipeshare/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_CreateDuplicateLeavesRowUnchanged(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	first := &entity.Category{Name: "Desserts"}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &entity.Category{Name: "Desserts"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, "Desserts", all[0].Name)
}

func TestCategoryRepository_FindAndUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	cat := testutil.CreateCategory(t, db, "Soups")
	testutil.CreateCategory(t, db, "Breads")

	got, err := repo.FindByName(ctx, "Soups")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.ID)

	require.NoError(t, repo.Update(ctx, &entity.Category{ID: cat.ID, Name: "Stews"}))
	got, err = repo.FindByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stews", got.Name)

	err = repo.Update(ctx, &entity.Category{ID: cat.ID, Name: "Breads"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)

	err = repo.Update(ctx, &entity.Category{ID: uuid.New(), Name: "Nope"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Breads", all[0].Name)
	assert.Equal(t, "Stews", all[1].Name)
}

func TestCategoryRepository_NotFound(t *testing.T) {
	repo := NewCategoryRepository(testutil.NewDB(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = repo.FindByName(ctx, "Missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), apperror.ErrNotFound)
}

func TestCategoryRepository_DeleteCascadesToRecipes(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "chef")
	cat := testutil.CreateCategory(t, db, "Desserts")
	other := testutil.CreateCategory(t, db, "Drinks")

	doomed := &entity.Recipe{Title: "Tiramisu", PrepTime: "30m", Servings: 4, CategoryID: cat.ID, UserID: user.ID}
	require.NoError(t, db.Create(doomed).Error)
	require.NoError(t, db.Create(&entity.Ingredient{RecipeID: doomed.ID, Description: "mascarpone"}).Error)
	require.NoError(t, db.Create(&entity.Step{RecipeID: doomed.ID, Description: "chill"}).Error)

	kept := &entity.Recipe{Title: "Lemonade", PrepTime: "5m", Servings: 2, CategoryID: other.ID, UserID: user.ID}
	require.NoError(t, db.Create(kept).Error)

	require.NoError(t, repo.Delete(ctx, cat.ID))

	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.Recipe{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Ingredient{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Step{}))
	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.User{}))
}
