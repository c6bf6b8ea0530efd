// api/handlers/ingredient_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Annany2002/recipe-backend/api/middleware"
	"github.com/Annany2002/recipe-backend/api/models"
	"github.com/Annany2002/recipe-backend/internal/auth"
	"github.com/Annany2002/recipe-backend/internal/core"
	"github.com/Annany2002/recipe-backend/internal/domain"
	"github.com/Annany2002/recipe-backend/internal/storage"
)

// IngredientHandler holds dependencies for ingredient, aggregation and
// search handlers.
type IngredientHandler struct {
	DB *sql.DB
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(db *sql.DB) *IngredientHandler {
	return &IngredientHandler{DB: db}
}

// ownedRecipe loads the recipe named by the :id param and checks the caller
// owns it. Missing recipes are ErrRecipeNotFound, foreign ones ErrForbidden.
func (h *IngredientHandler) ownedRecipe(c *gin.Context) (*domain.Recipe, error) {
	recipe, err := storage.FindRecipeByID(c.Request.Context(), h.DB, c.Param("id"))
	if err != nil {
		return nil, err
	}
	if user := middleware.CurrentUser(c); user == nil || recipe.AuthorID != user.ID {
		return nil, auth.ErrForbidden
	}
	return recipe, nil
}

// AddIngredient adds a single ingredient to one of the caller's recipes.
func (h *IngredientHandler) AddIngredient(c *gin.Context) {
	var req models.AddIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.ownedRecipe(c)
	if err != nil {
		customLog.Warnf("AddIngredient: recipe %s rejected for caller: %v", c.Param("id"), err)
		_ = c.Error(err)
		return
	}

	name, err := core.NormalizeIngredientName(req.Name)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ingredient, err := storage.AddIngredient(c.Request.Context(), h.DB, recipe.ID, name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

// AddIngredients bulk-adds names to one of the caller's recipes. The body is
// a JSON array of names, or an object with an "ingredients" array. Names
// already on the recipe are skipped.
func (h *IngredientHandler) AddIngredients(c *gin.Context) {
	values, err := bindIngredientValues(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	names, err := core.IngredientNamesFromValues(values)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.ownedRecipe(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	added, err := storage.AddIngredients(c.Request.Context(), h.DB, recipe.ID, names)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := models.AddIngredientsResponse{Added: make([]models.IngredientView, 0, len(added)), Count: len(added)}
	for _, ing := range added {
		resp.Added = append(resp.Added, models.IngredientView{ID: ing.ID, Name: ing.Name})
	}
	c.JSON(http.StatusCreated, resp)
}

func bindIngredientValues(c *gin.Context) ([]any, error) {
	var values []any
	err := c.ShouldBindBodyWith(&values, binding.JSON)
	if err == nil {
		return values, nil
	}

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return nil, err
	}
	var wrapped struct {
		Ingredients []any `json:"ingredients"`
	}
	if err := c.ShouldBindBodyWith(&wrapped, binding.JSON); err != nil {
		return nil, err
	}
	return wrapped.Ingredients, nil
}

// DeleteIngredient removes one ingredient from one of the caller's recipes.
func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	recipe, err := h.ownedRecipe(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	deleted, err := storage.DeleteIngredient(c.Request.Context(), h.DB, recipe.ID, c.Param("ingredientId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

// TopIngredients returns the n most used ingredient names with their counts.
// GET /ingredients/top?n=5
func (h *IngredientHandler) TopIngredients(c *gin.Context) {
	n, err := core.ParseTopN(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	top, err := storage.TopIngredients(c.Request.Context(), h.DB, n)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, top)
}

// RecipeByIngredientCount returns the recipe with the most or fewest ingredients.
// GET /recipes/ingredients/minmax?type=max
func (h *IngredientHandler) RecipeByIngredientCount(c *gin.Context) {
	direction, err := core.ParseExtremeDirection(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := storage.RecipeByIngredientCount(c.Request.Context(), h.DB, direction)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// SearchRecipes matches free text against recipes and ingredient names.
// GET /recipes/ingredients/search?text=tomato basil
func (h *IngredientHandler) SearchRecipes(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(err)
		return
	}

	recipes, err := storage.SearchRecipes(c.Request.Context(), h.DB, req.Text)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}
