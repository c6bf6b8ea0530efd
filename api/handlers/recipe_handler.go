// api/handlers/recipe_handler.go
package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Annany2002/recipe-backend/api/middleware"
	"github.com/Annany2002/recipe-backend/api/models"
	"github.com/Annany2002/recipe-backend/internal/core"
	"github.com/Annany2002/recipe-backend/internal/domain"
	"github.com/Annany2002/recipe-backend/internal/storage"
)

// RecipeHandler holds dependencies for recipe handlers.
type RecipeHandler struct {
	DB *sql.DB
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(db *sql.DB) *RecipeHandler {
	return &RecipeHandler{DB: db}
}

// CreateRecipe stores a recipe with its initial, de-duplicated ingredients.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req models.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("CreateRecipe binding error: %v", err)
		_ = c.Error(err)
		return
	}

	title, err := core.NormalizeTitle(req.Title)
	if err != nil {
		_ = c.Error(err)
		return
	}
	names, err := core.IngredientNamesFromValues(req.Ingredients)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user := middleware.CurrentUser(c)
	recipe := &domain.Recipe{Title: title, Instructions: req.Instructions, AuthorID: user.ID}
	created, err := storage.CreateRecipe(c.Request.Context(), h.DB, recipe, names)
	if err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("User %s created recipe %s with %d ingredients", user.ID, created.ID, len(created.Ingredients))
	c.JSON(http.StatusCreated, created)
}

// ListRecipes returns one page of every recipe, newest first, with ingredients.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := core.ParsePageOptions(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipes, err := storage.ListRecipes(c.Request.Context(), h.DB, *page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// ListMyRecipes returns the caller's recipes.
// GET /recipes/me?limit=10&skip=10&sortBy=createdAt_desc
func (h *RecipeHandler) ListMyRecipes(c *gin.Context) {
	opts, err := core.ParseListQueryOptions(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipes, err := storage.ListRecipesByAuthor(c.Request.Context(), h.DB, middleware.CurrentUser(c).ID, *opts)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// GetRecipe returns one of the caller's recipes.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := storage.FindRecipeForAuthor(c.Request.Context(), h.DB, c.Param("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// UpdateRecipe patches title and/or instructions of the caller's recipe.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindBodyWith(&patch, binding.JSON); err != nil {
		_ = c.Error(err)
		return
	}
	if err := core.CheckAllowedUpdates(mapKeys(patch), core.RecipeUpdateFields); err != nil {
		_ = c.Error(err)
		return
	}

	var req models.UpdateRecipeRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	recipe, err := storage.FindRecipeForAuthor(ctx, h.DB, c.Param("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if req.Title != nil {
		title, err := core.NormalizeTitle(*req.Title)
		if err != nil {
			_ = c.Error(err)
			return
		}
		recipe.Title = title
	}
	if req.Instructions != nil {
		recipe.Instructions = *req.Instructions
	}

	if err := storage.UpdateRecipe(ctx, h.DB, recipe); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes the caller's recipe and its ingredients.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	deleted, err := storage.DeleteRecipe(c.Request.Context(), h.DB, c.Param("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

// ListIngredients returns the ingredients of any existing recipe.
func (h *RecipeHandler) ListIngredients(c *gin.Context) {
	ctx := c.Request.Context()
	recipe, err := storage.FindRecipeByID(ctx, h.DB, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	ingredients, err := storage.ListIngredients(ctx, h.DB, recipe.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}
