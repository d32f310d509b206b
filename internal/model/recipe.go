package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Field names of the canonical recipe record. Every store backend and every
// handler refers to these instead of spelling the names out.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldIngredients = "ingredients"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// StringList is an ordered list of strings persisted as a JSON array
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	return json.Unmarshal(data, l)
}

// Recipe is the stored recipe record. Only id, title and ingredients are part
// of the JSON contract; the timestamps are store bookkeeping.
type Recipe struct {
	ID          string     `gorm:"type:varchar(64);primaryKey" json:"id" dynamodbav:"id"`
	Title       string     `gorm:"type:text;not null" json:"title" dynamodbav:"title"`
	Ingredients StringList `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients" dynamodbav:"ingredients"`
	CreatedAt   time.Time  `json:"-" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"-" dynamodbav:"updated_at"`
}

// RecipeInput is the body accepted by create and update
type RecipeInput struct {
	Title       string   `json:"title" binding:"required"`
	Ingredients []string `json:"ingredients" binding:"required,min=1,dive,required"`
}

// ValidationError reports a request field that does not satisfy the schema
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TitleError is returned when the title is missing or blank
func TitleError() *ValidationError {
	return &ValidationError{
		Field:   FieldTitle,
		Message: `"title" is required and must not be blank.`,
	}
}

// IngredientsError is returned when ingredients is not a list of non-blank strings
func IngredientsError() *ValidationError {
	return &ValidationError{
		Field:   FieldIngredients,
		Message: `"ingredients" must be an array with at least one entry and no blank entries.`,
	}
}

// Validate checks the input against the recipe schema. Values are not
// modified; blank means empty after trimming whitespace.
func (in RecipeInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return TitleError()
	}
	if len(in.Ingredients) == 0 {
		return IngredientsError()
	}
	for _, ingredient := range in.Ingredients {
		if strings.TrimSpace(ingredient) == "" {
			return IngredientsError()
		}
	}
	return nil
}

// NewRecipe builds a record for a freshly generated id
func NewRecipe(id string, in RecipeInput, now time.Time) *Recipe {
	return &Recipe{
		ID:          id,
		Title:       in.Title,
		Ingredients: append(StringList{}, in.Ingredients...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
