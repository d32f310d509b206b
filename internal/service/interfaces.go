package service

import (
	"context"

	"github.com/pageza/recipebox/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, input model.RecipeInput) (*model.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, input model.RecipeInput) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
