// internal/storage/recipe_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Annany2002/recipe-backend/internal/core"
	"github.com/Annany2002/recipe-backend/internal/domain"
)

// Specific errors for recipe operations
var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrRecipeExists   = errors.New("a recipe with that title already exists")
	ErrNoRecipes      = errors.New("no recipes found")
)

const recipeColumns = `recipe_id, title, instructions, author_id, created_at, updated_at`

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := row.Scan(&recipe.ID, &recipe.Title, &recipe.Instructions, &recipe.AuthorID,
		&recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func scanRecipes(rows *sql.Rows) ([]domain.Recipe, error) {
	defer rows.Close()
	recipes := make([]domain.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed reading recipe data: %w", err)
		}
		recipes = append(recipes, *recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed processing recipes: %w", err)
	}
	return recipes, nil
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// CreateRecipe stores a recipe and its ingredient names in one transaction.
// names must already be normalized and de-duplicated.
func CreateRecipe(ctx context.Context, db *sql.DB, recipe *domain.Recipe, names []string) (*domain.RecipeWithIngredients, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	recipe.CreatedAt, recipe.UpdatedAt = now, now

	var ingredients []domain.Ingredient
	err := WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO recipes (`+recipeColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			recipe.ID, recipe.Title, recipe.Instructions, recipe.AuthorID, recipe.CreatedAt, recipe.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, "recipes.title") {
				return ErrRecipeExists
			}
			customLog.Warnf("Storage: Failed to insert recipe '%s': %v", recipe.Title, err)
			return fmt.Errorf("database error during recipe creation: %w", err)
		}

		ingredients, err = insertIngredients(ctx, tx, recipe.ID, names)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &domain.RecipeWithIngredients{Recipe: *recipe, Ingredients: ingredients}, nil
}

// FindRecipeByID retrieves a recipe regardless of its author.
func FindRecipeByID(ctx context.Context, db DBTX, recipeID string) (*domain.Recipe, error) {
	recipe, err := scanRecipe(db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE recipe_id = ? LIMIT 1`, recipeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		customLog.Warnf("Storage: Failed to find recipe %s: %v", recipeID, err)
		return nil, fmt.Errorf("database error finding recipe: %w", err)
	}
	return recipe, nil
}

// FindRecipeForAuthor retrieves a recipe only when it is owned by authorID.
func FindRecipeForAuthor(ctx context.Context, db DBTX, recipeID, authorID string) (*domain.Recipe, error) {
	recipe, err := scanRecipe(db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE recipe_id = ? AND author_id = ? LIMIT 1`, recipeID, authorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		customLog.Warnf("Storage: Failed to find recipe %s for author %s: %v", recipeID, authorID, err)
		return nil, fmt.Errorf("database error finding recipe: %w", err)
	}
	return recipe, nil
}

// ListRecipesByAuthor returns the author's recipes, ordered and paged by opts.
func ListRecipesByAuthor(ctx context.Context, db DBTX, authorID string, opts core.ListQueryOptions) ([]domain.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE author_id = ?`
	if opts.SortBy != "" {
		direction := "ASC"
		if opts.Desc {
			direction = "DESC"
		}
		// SortBy only ever holds a column from core.SortableRecipeFields.
		query += fmt.Sprintf(" ORDER BY %s %s", opts.SortBy, direction)
	}

	limit := -1
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	query += ` LIMIT ? OFFSET ?`

	rows, err := db.QueryContext(ctx, query, authorID, limit, opts.Skip)
	if err != nil {
		customLog.Warnf("Storage: Error listing recipes of author %s: %v", authorID, err)
		return nil, fmt.Errorf("database error listing recipes: %w", err)
	}
	return scanRecipes(rows)
}

// ListRecipes returns one page of all recipes, newest first, each joined with
// its ingredients. An empty page is ErrNoRecipes.
func ListRecipes(ctx context.Context, db DBTX, page core.PageOptions) ([]domain.RecipeWithIngredients, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY created_at DESC, seq DESC LIMIT ? OFFSET ?`,
		page.Limit, page.Offset())
	if err != nil {
		customLog.Warnf("Storage: Error listing recipes page %d: %v", page.Page, err)
		return nil, fmt.Errorf("database error listing recipes: %w", err)
	}
	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, ErrNoRecipes
	}
	return attachIngredients(ctx, db, recipes)
}

// FindRecipesWithIngredients loads the given recipes joined with their ingredients.
// Unknown ids are skipped.
func FindRecipesWithIngredients(ctx context.Context, db DBTX, recipeIDs []string) ([]domain.RecipeWithIngredients, error) {
	if len(recipeIDs) == 0 {
		return []domain.RecipeWithIngredients{}, nil
	}
	args := make([]any, len(recipeIDs))
	for i, id := range recipeIDs {
		args[i] = id
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE recipe_id IN (`+placeholders(len(recipeIDs))+`)`, args...)
	if err != nil {
		customLog.Warnf("Storage: Error loading %d recipes: %v", len(recipeIDs), err)
		return nil, fmt.Errorf("database error loading recipes: %w", err)
	}
	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, err
	}
	return attachIngredients(ctx, db, recipes)
}

// UpdateRecipe writes title and instructions back; the author never changes.
func UpdateRecipe(ctx context.Context, db DBTX, recipe *domain.Recipe) error {
	recipe.UpdatedAt = time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`UPDATE recipes SET title = ?, instructions = ?, updated_at = ? WHERE recipe_id = ? AND author_id = ?`,
		recipe.Title, recipe.Instructions, recipe.UpdatedAt, recipe.ID, recipe.AuthorID)
	if err != nil {
		if isUniqueViolation(err, "recipes.title") {
			return ErrRecipeExists
		}
		customLog.Warnf("Storage: Failed to update recipe %s: %v", recipe.ID, err)
		return fmt.Errorf("database error during recipe update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed confirming recipe update: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// DeleteRecipe removes an author's recipe and every ingredient referencing it
// as one transaction, ingredients first. It returns the deleted recipe.
func DeleteRecipe(ctx context.Context, db *sql.DB, recipeID, authorID string) (*domain.Recipe, error) {
	var deleted *domain.Recipe
	err := WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		recipe, err := FindRecipeForAuthor(ctx, tx, recipeID, authorID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE recipe_id = ?`, recipeID); err != nil {
			customLog.Warnf("Storage: Failed deleting ingredients of recipe %s: %v", recipeID, err)
			return fmt.Errorf("database error deleting ingredients: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE recipe_id = ?`, recipeID); err != nil {
			customLog.Warnf("Storage: Failed deleting recipe %s: %v", recipeID, err)
			return fmt.Errorf("database error deleting recipe: %w", err)
		}
		deleted = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// attachIngredients joins each recipe with its ingredients using one lookup.
func attachIngredients(ctx context.Context, db DBTX, recipes []domain.Recipe) ([]domain.RecipeWithIngredients, error) {
	out := make([]domain.RecipeWithIngredients, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	args := make([]any, len(recipes))
	index := make(map[string]int, len(recipes))
	for i, r := range recipes {
		args[i] = r.ID
		index[r.ID] = i
		out[i] = domain.RecipeWithIngredients{Recipe: r, Ingredients: []domain.Ingredient{}}
	}

	rows, err := db.QueryContext(ctx,
		`SELECT ingredient_id, name, recipe_id FROM ingredients WHERE recipe_id IN (`+placeholders(len(args))+`) ORDER BY name`,
		args...)
	if err != nil {
		customLog.Warnf("Storage: Error joining ingredients: %v", err)
		return nil, fmt.Errorf("database error joining ingredients: %w", err)
	}
	ingredients, err := scanIngredients(rows)
	if err != nil {
		return nil, err
	}
	for _, ing := range ingredients {
		i := index[ing.RecipeID]
		out[i].Ingredients = append(out[i].Ingredients, ing)
	}
	return out, nil
}
