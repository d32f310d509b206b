package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/service"
)

// Response messages of the recipe endpoints
const (
	MsgCreated      = "Recipe created successfully"
	MsgListed       = "Recipes retrieved successfully"
	MsgRetrieved    = "Recipe retrieved successfully"
	MsgUpdated      = "Recipe updated successfully"
	MsgDeleted      = "Recipe deleted successfully."
	MsgNotFound     = "Recipe not found"
	MsgCreateFailed = "Failed to create recipe"
	MsgListFailed   = "Failed to retrieve recipes"
	MsgGetFailed    = "Failed to retrieve recipe"
	MsgUpdateFailed = "Failed to update recipe"
	MsgDeleteFailed = "Failed to delete recipe"
)

// RecipeHandler serves the recipe resource
type RecipeHandler struct {
	recipeService service.IRecipeService
	logger        *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService service.IRecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		logger:        logger.With("component", "api"),
	}
}

// RegisterRoutes mounts the five recipe endpoints
func (h *RecipeHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/recipe", h.CreateRecipe)
	router.GET("/recipe", h.ListRecipes)
	router.GET("/recipe/:id", h.GetRecipe)
	router.PUT("/recipe/:id", h.UpdateRecipe)
	router.DELETE("/recipe/:id", h.DeleteRecipe)
}

// CreateRecipe handles POST /recipe
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	input, msg, ok := bindRecipeInput(c)
	if !ok {
		h.logger.Warn("rejected create request", "operation", "create", "reason", msg)
		c.JSON(http.StatusBadRequest, model.Failure(msg))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), input)
	if err != nil {
		if h.badRequest(c, err) {
			return
		}
		h.logger.Error("failed to create recipe", "operation", "create", "error", err)
		c.JSON(http.StatusInternalServerError, model.Failure(MsgCreateFailed))
		return
	}

	c.JSON(http.StatusCreated, model.Success(MsgCreated, model.RecipeData{Recipe: recipe}))
}

// ListRecipes handles GET /recipe
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list recipes", "operation", "list", "error", err)
		c.JSON(http.StatusInternalServerError, model.Failure(MsgListFailed))
		return
	}

	c.JSON(http.StatusOK, model.Success(MsgListed, model.RecipesData{Recipes: recipes}))
}

// GetRecipe handles GET /recipe/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id := c.Param("id")

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if errors.Is(err, service.ErrRecipeNotFound) {
		c.JSON(http.StatusNotFound, model.Failure(MsgNotFound))
		return
	}
	if err != nil {
		h.logger.Error("failed to get recipe", "operation", "get", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, model.Failure(MsgGetFailed))
		return
	}

	c.JSON(http.StatusOK, model.Success(MsgRetrieved, model.RecipeData{Recipe: recipe}))
}

// UpdateRecipe handles PUT /recipe/:id. The body is validated before the
// store is touched; the response echoes the request values.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id := c.Param("id")

	input, msg, ok := bindRecipeInput(c)
	if !ok {
		h.logger.Warn("rejected update request", "operation", "update", "id", id, "reason", msg)
		c.JSON(http.StatusBadRequest, model.Failure(msg))
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, input)
	if errors.Is(err, service.ErrRecipeNotFound) {
		c.JSON(http.StatusNotFound, model.Failure(MsgNotFound))
		return
	}
	if err != nil {
		if h.badRequest(c, err) {
			return
		}
		h.logger.Error("failed to update recipe", "operation", "update", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, model.Failure(MsgUpdateFailed))
		return
	}

	c.JSON(http.StatusOK, model.Success(MsgUpdated, recipe))
}

// DeleteRecipe handles DELETE /recipe/:id. Deleting a missing id succeeds.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete recipe", "operation", "delete", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, model.Failure(MsgDeleteFailed))
		return
	}

	c.JSON(http.StatusOK, model.Success(MsgDeleted, nil))
}

// badRequest answers validation errors coming back from the service
func (h *RecipeHandler) badRequest(c *gin.Context, err error) bool {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	c.JSON(http.StatusBadRequest, model.Failure(verr.Message))
	return true
}
