package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/recipeshare/internal/entity"
	"anoa.com/recipeshare/internal/testutil"
	"anoa.com/recipeshare/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRecipe(userID uuid.UUID, title, status string) *entity.Recipe {
	return &entity.Recipe{
		Title:         title,
		PrepTime:      "20 minutes",
		Servings:      2,
		PublishStatus: status,
		UserID:        userID,
	}
}

func TestRecipeRepository_CreateAndFindAggregate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "chef")
	cat := testutil.CreateCategory(t, db, "Desserts")

	recipe := newRecipe(user.ID, "Tiramisu", entity.StatusPublished)
	recipe.Servings = 4
	ingredients := []string{"mascarpone", "coffee", "ladyfingers", "cocoa"}
	steps := []string{"mix", "layer", "chill"}

	require.NoError(t, repo.Create(ctx, recipe, CategoryRef{Name: "Desserts"}, ingredients, steps))
	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, cat.ID, recipe.CategoryID)

	agg, err := repo.FindAggregate(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tiramisu", agg.Title)
	assert.Equal(t, 4, agg.Servings)
	assert.Equal(t, "chef", agg.Username)
	assert.Equal(t, cat.ID, agg.CategoryID)
	assert.Equal(t, user.ID, agg.UserID)
	assert.Equal(t, ingredients, agg.Ingredients)
	assert.Equal(t, steps, agg.Steps)
}

func TestRecipeRepository_CreateByCategoryID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	user := testutil.CreateUser(t, db, "chef")
	cat := testutil.CreateCategory(t, db, "Drinks")

	recipe := newRecipe(user.ID, "Lemonade", entity.StatusDraft)
	require.NoError(t, repo.Create(context.Background(), recipe, CategoryRef{ID: &cat.ID}, nil, nil))
	assert.Equal(t, cat.ID, recipe.CategoryID)

	agg, err := repo.FindAggregate(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, agg.Ingredients)
	assert.Empty(t, agg.Steps)
}

func TestRecipeRepository_UnknownCategoryCreatesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "chef")
	missing := uuid.New()

	err := repo.Create(ctx, newRecipe(user.ID, "Soup", entity.StatusPublished), CategoryRef{Name: "Soups"}, []string{"water"}, []string{"boil"})
	assert.ErrorIs(t, err, apperror.ErrCategoryNotFound)

	err = repo.Create(ctx, newRecipe(user.ID, "Soup", entity.StatusPublished), CategoryRef{ID: &missing}, []string{"water"}, []string{"boil"})
	assert.ErrorIs(t, err, apperror.ErrCategoryNotFound)

	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Recipe{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Ingredient{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Step{}))
}

func TestRecipeRepository_UnknownUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	testutil.CreateCategory(t, db, "Desserts")

	err := repo.Create(context.Background(), newRecipe(uuid.New(), "Flan", entity.StatusDraft), CategoryRef{Name: "Desserts"}, []string{"milk"}, nil)
	assert.ErrorIs(t, err, apperror.ErrForeignKeyViolation)
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Recipe{}))
}

func TestRecipeRepository_RollsBackWhenStepInsertFails(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)

	user := testutil.CreateUser(t, db, "chef")
	testutil.CreateCategory(t, db, "Desserts")

	stepFailure := errors.New("disk full")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_steps", func(tx *gorm.DB) {
		if tx.Statement.Table == "steps" {
			_ = tx.AddError(stepFailure)
		}
	}))

	err := repo.Create(context.Background(), newRecipe(user.ID, "Tiramisu", entity.StatusPublished), CategoryRef{Name: "Desserts"},
		[]string{"mascarpone", "coffee"}, []string{"mix", "chill"})
	assert.ErrorIs(t, err, stepFailure)

	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Recipe{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Ingredient{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Step{}))
}

func TestRecipeRepository_FindAggregateNotFound(t *testing.T) {
	repo := NewRecipeRepository(testutil.NewDB(t))

	_, err := repo.FindAggregate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRecipeRepository_FindPublished(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	desserts := testutil.CreateCategory(t, db, "Desserts")
	drinks := testutil.CreateCategory(t, db, "Drinks")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		title    string
		user     uuid.UUID
		category uuid.UUID
		status   string
		created  time.Time
	}{
		{"Old cake", alice.ID, desserts.ID, entity.StatusPublished, base},
		{"Newest tea", bob.ID, drinks.ID, entity.StatusPublished, base.Add(2 * time.Hour)},
		{"Secret pie", alice.ID, desserts.ID, entity.StatusDraft, base.Add(3 * time.Hour)},
		{"Mid mousse", bob.ID, desserts.ID, entity.StatusPublished, base.Add(time.Hour)},
		{"Odd status", bob.ID, desserts.ID, "Published ", base.Add(4 * time.Hour)},
	}
	for _, s := range seed {
		r := newRecipe(s.user, s.title, s.status)
		r.CategoryID = s.category
		r.CreatedAt = s.created
		require.NoError(t, db.Create(r).Error)
	}

	all, err := repo.FindPublished(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Newest tea", "Mid mousse", "Old cake"}, titles(all))
	assert.Equal(t, "bob", all[0].Username)
	assert.Equal(t, "alice", all[2].Username)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	onlyDesserts, err := repo.FindPublished(ctx, &desserts.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mid mousse", "Old cake"}, titles(onlyDesserts))

	unknown := uuid.New()
	none, err := repo.FindPublished(ctx, &unknown)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRecipeRepository_Update(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "chef")
	testutil.CreateCategory(t, db, "Desserts")
	drinks := testutil.CreateCategory(t, db, "Drinks")

	recipe := newRecipe(user.ID, "Tiramisu", entity.StatusDraft)
	require.NoError(t, repo.Create(ctx, recipe, CategoryRef{Name: "Desserts"}, []string{"a", "b"}, []string{"mix", "chill"}))

	now := time.Now().UTC()
	recipe.Title = "Iced coffee"
	recipe.PublishStatus = entity.StatusPublished
	recipe.PublishedAt = &now
	require.NoError(t, repo.Update(ctx, recipe, &CategoryRef{Name: "Drinks"}, []string{"coffee", "ice"}, nil))

	agg, err := repo.FindAggregate(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Iced coffee", agg.Title)
	assert.Equal(t, entity.StatusPublished, agg.PublishStatus)
	assert.NotNil(t, agg.PublishedAt)
	assert.Equal(t, drinks.ID, agg.CategoryID)
	assert.Equal(t, []string{"coffee", "ice"}, agg.Ingredients)
	assert.Equal(t, []string{"mix", "chill"}, agg.Steps)

	// an empty, non-nil list clears the children
	require.NoError(t, repo.Update(ctx, recipe, nil, nil, []string{}))
	agg, err = repo.FindAggregate(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, agg.Steps)
	assert.Len(t, agg.Ingredients, 2)

	err = repo.Update(ctx, recipe, &CategoryRef{Name: "Nope"}, nil, nil)
	assert.ErrorIs(t, err, apperror.ErrCategoryNotFound)

	ghost := newRecipe(user.ID, "Ghost", entity.StatusDraft)
	ghost.ID = uuid.New()
	assert.ErrorIs(t, repo.Update(ctx, ghost, nil, nil, nil), apperror.ErrNotFound)
}

func TestRecipeRepository_DeleteCascadesToChildren(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "chef")
	testutil.CreateCategory(t, db, "Desserts")

	recipe := newRecipe(user.ID, "Tiramisu", entity.StatusPublished)
	require.NoError(t, repo.Create(ctx, recipe, CategoryRef{Name: "Desserts"}, []string{"a"}, []string{"b"}))

	require.NoError(t, repo.Delete(ctx, recipe.ID))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Ingredient{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Step{}))

	_, err := repo.FindAggregate(ctx, recipe.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, recipe.ID), apperror.ErrNotFound)
}

func TestRecipeRepository_UserDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	testutil.CreateCategory(t, db, "Desserts")

	var ids []uuid.UUID
	for _, title := range []string{"One", "Two"} {
		r := newRecipe(owner.ID, title, entity.StatusPublished)
		require.NoError(t, repo.Create(ctx, r, CategoryRef{Name: "Desserts"}, []string{"x"}, []string{"y"}))
		ids = append(ids, r.ID)
	}
	require.NoError(t, db.Create(&entity.Trick{Title: "Sharp knives", UserID: owner.ID}).Error)

	survivor := newRecipe(other.ID, "Three", entity.StatusPublished)
	require.NoError(t, repo.Create(ctx, survivor, CategoryRef{Name: "Desserts"}, []string{"x"}, nil))

	require.NoError(t, db.Delete(&entity.User{}, "id = ?", owner.ID).Error)

	for _, id := range ids {
		_, err := repo.FindAggregate(ctx, id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	}
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Trick{}))
	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.Recipe{}))
	assert.Equal(t, int64(1), testutil.Count(t, db, &entity.Ingredient{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &entity.Step{}))
}

func titles(rows []RecipeWithAuthor) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}
