// Package seed loads sample recipes into a store through the recipe service.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/service"
)

// SampleRecipes is the data set used when no seed file is given
var SampleRecipes = []model.RecipeInput{
	{Title: "Pasta al pomodoro", Ingredients: []string{"spaghetti", "canned tomatoes", "garlic", "olive oil", "basil"}},
	{Title: "Greek salad", Ingredients: []string{"tomatoes", "cucumber", "red onion", "feta", "kalamata olives", "oregano"}},
	{Title: "Banana smoothie", Ingredients: []string{"banana", "milk", "greek yogurt", "honey"}},
	{Title: "Chickpea curry", Ingredients: []string{"chickpeas", "coconut milk", "onion", "garlic", "ginger", "curry powder"}},
	{Title: "French omelette", Ingredients: []string{"eggs", "butter", "chives", "salt"}},
	{Title: "Guacamole", Ingredients: []string{"avocados", "lime", "red onion", "cilantro", "jalapeno", "salt"}},
	{Title: "Miso soup", Ingredients: []string{"dashi", "miso paste", "tofu", "wakame", "scallions"}},
	{Title: "Pancakes", Ingredients: []string{"flour", "milk", "eggs", "baking powder", "sugar", "butter"}},
}

// Result counts the outcome of a seeding run
type Result struct {
	Created int
	Failed  int
}

// LoadFile reads a JSON array of {title, ingredients} objects
func LoadFile(path string) ([]model.RecipeInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a JSON array of recipe inputs. Unknown fields are rejected.
func Decode(r io.Reader) ([]model.RecipeInput, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var inputs []model.RecipeInput
	if err := dec.Decode(&inputs); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return inputs, nil
}

// Run creates every input through the service. Invalid or failing entries
// are logged and skipped; the run stops only when ctx is done.
func Run(ctx context.Context, recipes service.IRecipeService, inputs []model.RecipeInput, logger *slog.Logger) (Result, error) {
	var res Result
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		recipe, err := recipes.CreateRecipe(ctx, in)
		if err != nil {
			res.Failed++
			logger.Warn("failed to seed recipe", "component", "seed", "index", i, "title", in.Title, "error", err)
			continue
		}

		res.Created++
		logger.Info("created recipe", "component", "seed", "id", recipe.ID, "title", recipe.Title)
	}
	return res, nil
}
