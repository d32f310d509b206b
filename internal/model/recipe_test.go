package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeInputValidate(t *testing.T) {
	tests := []struct {
		name  string
		input RecipeInput
		field string
	}{
		{name: "valid", input: RecipeInput{Title: "Pasta", Ingredients: []string{"tomato", "pasta"}}},
		{name: "empty title", input: RecipeInput{Title: "", Ingredients: []string{"tomato"}}, field: FieldTitle},
		{name: "blank title", input: RecipeInput{Title: "   ", Ingredients: []string{"tomato"}}, field: FieldTitle},
		{name: "nil ingredients", input: RecipeInput{Title: "Pasta"}, field: FieldIngredients},
		{name: "empty ingredients", input: RecipeInput{Title: "Pasta", Ingredients: []string{}}, field: FieldIngredients},
		{name: "blank ingredient", input: RecipeInput{Title: "Pasta", Ingredients: []string{"tomato", " "}}, field: FieldIngredients},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNewRecipeCopiesIngredients(t *testing.T) {
	in := RecipeInput{Title: "Pasta", Ingredients: []string{"tomato", "pasta"}}
	now := time.Now()

	recipe := NewRecipe("abc", in, now)
	in.Ingredients[0] = "changed"

	assert.Equal(t, "abc", recipe.ID)
	assert.Equal(t, StringList{"tomato", "pasta"}, recipe.Ingredients)
	assert.Equal(t, now, recipe.CreatedAt)
}

func TestRecipeJSONOmitsTimestamps(t *testing.T) {
	recipe := Recipe{ID: "1", Title: "Soup", Ingredients: StringList{"water"}, CreatedAt: time.Now()}

	data, err := json.Marshal(recipe)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","title":"Soup","ingredients":["water"]}`, string(data))
}

func TestStringListValueAndScan(t *testing.T) {
	value, err := StringList{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, value)

	empty, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	var list StringList
	require.NoError(t, list.Scan([]byte(`["x"]`)))
	assert.Equal(t, StringList{"x"}, list)

	require.NoError(t, list.Scan(nil))
	assert.Equal(t, StringList{}, list)

	assert.Error(t, list.Scan(42))
}

func TestEnvelopeOmitsMissingData(t *testing.T) {
	data, err := json.Marshal(Failure("Recipe not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"Recipe not found"}`, string(data))
}
