package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipebox/backend/internal/model"
)

// Request body messages
const (
	MsgInvalidJSON  = "Invalid JSON in request body."
	MsgBodyTooLarge = "Request body too large."
)

// maxBodyBytes caps the size of create and update bodies
const maxBodyBytes = 1 << 20

// bindRecipeInput decodes and validates a recipe body. Keys must match
// title and ingredients exactly, so "Title" is an unknown field. Trailing
// data is rejected. The returned message is safe to send back.
func bindRecipeInput(c *gin.Context) (model.RecipeInput, string, bool) {
	var in model.RecipeInput

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	dec := json.NewDecoder(body)

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return in, decodeMessage(err), false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return in, MsgInvalidJSON, false
	}

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if key != model.FieldTitle && key != model.FieldIngredients {
			return in, fmt.Sprintf("Unknown field %q in request body.", key), false
		}
	}
	if raw, ok := fields[model.FieldTitle]; ok {
		if err := json.Unmarshal(raw, &in.Title); err != nil {
			return in, model.TitleError().Message, false
		}
	}
	if raw, ok := fields[model.FieldIngredients]; ok {
		if err := json.Unmarshal(raw, &in.Ingredients); err != nil {
			return in, model.IngredientsError().Message, false
		}
	}

	if err := binding.Validator.ValidateStruct(&in); err != nil {
		return in, validationMessage(err), false
	}
	if err := in.Validate(); err != nil {
		return in, err.Error(), false
	}
	return in, "", true
}

func decodeMessage(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return MsgBodyTooLarge
	}
	return MsgInvalidJSON
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgInvalidJSON
	}
	if strings.HasPrefix(verrs[0].StructField(), "Ingredients") {
		return model.IngredientsError().Message
	}
	return model.TitleError().Message
}
