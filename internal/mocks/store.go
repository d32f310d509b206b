package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/model"
)

// MockRecipeStore is a mock implementation of store.RecipeStore
type MockRecipeStore struct {
	mock.Mock
}

// Put mocks the Put method
func (m *MockRecipeStore) Put(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

// Get mocks the Get method
func (m *MockRecipeStore) Get(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// Scan mocks the Scan method
func (m *MockRecipeStore) Scan(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// Update mocks the Update method
func (m *MockRecipeStore) Update(ctx context.Context, id string, title string, ingredients []string) error {
	args := m.Called(ctx, id, title, ingredients)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockRecipeStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Ping mocks the Ping method
func (m *MockRecipeStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
