package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/model"
)

// GormStore keeps recipes in a relational table through gorm
type GormStore struct {
	db    *gorm.DB
	table string
}

// NewGormStore creates a store over the given table
func NewGormStore(db *gorm.DB, table string) *GormStore {
	if table == "" {
		table = DefaultTableName
	}
	return &GormStore{db: db, table: table}
}

// AutoMigrate creates or updates the recipe table
func (s *GormStore) AutoMigrate() error {
	return s.db.Table(s.table).AutoMigrate(&model.Recipe{})
}

func (s *GormStore) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.table)
}

// Put writes the record, replacing any record with the same id
func (s *GormStore) Put(ctx context.Context, recipe *model.Recipe) error {
	err := s.query(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(recipe).Error
	if err != nil {
		return fmt.Errorf("failed to put recipe %s: %w", recipe.ID, err)
	}
	return nil
}

// Get returns the record with the given id
func (s *GormStore) Get(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.query(ctx).Where(model.FieldID+" = ?", id).Take(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	return &recipe, nil
}

// Scan returns every record
func (s *GormStore) Scan(ctx context.Context) ([]model.Recipe, error) {
	recipes := []model.Recipe{}
	if err := s.query(ctx).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to scan recipes: %w", err)
	}
	return recipes, nil
}

// Update sets title and ingredients on an existing record
func (s *GormStore) Update(ctx context.Context, id string, title string, ingredients []string) error {
	result := s.query(ctx).
		Where(model.FieldID+" = ?", id).
		UpdateColumns(map[string]interface{}{
			model.FieldTitle:       title,
			model.FieldIngredients: model.StringList(ingredients),
			model.FieldUpdatedAt:   nowFunc(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update recipe %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record with the given id
func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.query(ctx).Where(model.FieldID+" = ?", id).Delete(&model.Recipe{}).Error; err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}

// Ping checks the underlying connection
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
