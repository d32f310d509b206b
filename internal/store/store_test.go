package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/model"
)

func newTestRecipe(title string, ingredients ...string) *model.Recipe {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return model.NewRecipe(uuid.NewString(), model.RecipeInput{Title: title, Ingredients: ingredients}, now)
}

// runStoreSuite exercises the behavior every backend has to share
func runStoreSuite(t *testing.T, s RecipeStore) {
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})

	t.Run("empty scan", func(t *testing.T) {
		recipes, err := s.Scan(ctx)
		require.NoError(t, err)
		assert.NotNil(t, recipes)
		assert.Empty(t, recipes)
	})

	t.Run("put and get", func(t *testing.T) {
		recipe := newTestRecipe("Pasta", "tomato", "pasta")
		require.NoError(t, s.Put(ctx, recipe))

		got, err := s.Get(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, recipe.ID, got.ID)
		assert.Equal(t, "Pasta", got.Title)
		assert.Equal(t, model.StringList{"tomato", "pasta"}, got.Ingredients)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put replaces", func(t *testing.T) {
		recipe := newTestRecipe("Soup", "water")
		require.NoError(t, s.Put(ctx, recipe))

		recipe.Title = "Better Soup"
		recipe.Ingredients = model.StringList{"water", "salt"}
		require.NoError(t, s.Put(ctx, recipe))

		got, err := s.Get(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "Better Soup", got.Title)
		assert.Equal(t, model.StringList{"water", "salt"}, got.Ingredients)
	})

	t.Run("update existing", func(t *testing.T) {
		recipe := newTestRecipe("Salad", "lettuce")
		require.NoError(t, s.Put(ctx, recipe))

		require.NoError(t, s.Update(ctx, recipe.ID, "Green Salad", []string{"lettuce", "cucumber"}))

		got, err := s.Get(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, recipe.ID, got.ID)
		assert.Equal(t, "Green Salad", got.Title)
		assert.Equal(t, model.StringList{"lettuce", "cucumber"}, got.Ingredients)
		assert.True(t, got.CreatedAt.Equal(recipe.CreatedAt), "created_at must be preserved")
	})

	t.Run("update missing", func(t *testing.T) {
		id := uuid.NewString()
		err := s.Update(ctx, id, "Ghost", []string{"air"})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "update must not create a record")
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		recipe := newTestRecipe("Toast", "bread")
		require.NoError(t, s.Put(ctx, recipe))

		require.NoError(t, s.Delete(ctx, recipe.ID))
		_, err := s.Get(ctx, recipe.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, s.Delete(ctx, recipe.ID))
		assert.NoError(t, s.Delete(ctx, "never-existed"))
	})

	t.Run("scan returns all", func(t *testing.T) {
		before, err := s.Scan(ctx)
		require.NoError(t, err)

		added := map[string]bool{}
		for i := 0; i < 3; i++ {
			recipe := newTestRecipe("Batch", "flour")
			require.NoError(t, s.Put(ctx, recipe))
			added[recipe.ID] = true
		}

		after, err := s.Scan(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+3)
		for _, recipe := range after {
			delete(added, recipe.ID)
		}
		assert.Empty(t, added)
	})
}
