package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/store"
)

// ErrRecipeNotFound is returned when no recipe has the requested id
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeService handles recipe operations. Each method validates first and
// then performs exactly one store operation; nothing is cached between calls.
type RecipeService struct {
	store store.RecipeStore
	newID func() string
	now   func() time.Time
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(s store.RecipeStore) *RecipeService {
	return &RecipeService{
		store: s,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateRecipe assigns a fresh id and persists the recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, input model.RecipeInput) (*model.Recipe, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	recipe := model.NewRecipe(s.newID(), input, s.now())
	if err := s.store.Put(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// ListRecipes returns every recipe in store order
func (s *RecipeService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	return recipes, nil
}

// UpdateRecipe replaces title and ingredients of an existing recipe. The
// result echoes the request values rather than re-reading the store.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, input model.RecipeInput) (*model.Recipe, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, id, input.Title, input.Ingredients)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}

	return &model.Recipe{
		ID:          id,
		Title:       input.Title,
		Ingredients: append(model.StringList{}, input.Ingredients...),
	}, nil
}

// DeleteRecipe removes a recipe; deleting a missing id succeeds
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// Ping reports whether the store is reachable
func (s *RecipeService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
