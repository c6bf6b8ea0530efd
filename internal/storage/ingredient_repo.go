// internal/storage/ingredient_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Annany2002/recipe-backend/internal/domain"
)

// Specific errors for ingredient operations
var (
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrIngredientExists   = errors.New("this ingredient is already listed for this recipe")
)

func scanIngredients(rows *sql.Rows) ([]domain.Ingredient, error) {
	defer rows.Close()
	ingredients := make([]domain.Ingredient, 0)
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.RecipeID); err != nil {
			return nil, fmt.Errorf("failed reading ingredient data: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed processing ingredients: %w", err)
	}
	return ingredients, nil
}

// insertIngredients inserts normalized names for a recipe as a single batch.
func insertIngredients(ctx context.Context, db DBTX, recipeID string, names []string) ([]domain.Ingredient, error) {
	ingredients := make([]domain.Ingredient, 0, len(names))
	if len(names) == 0 {
		return ingredients, nil
	}

	args := make([]any, 0, len(names)*3)
	values := ""
	for i, name := range names {
		ing := domain.Ingredient{ID: uuid.New().String(), Name: name, RecipeID: recipeID}
		ingredients = append(ingredients, ing)
		args = append(args, ing.ID, ing.Name, ing.RecipeID)
		if i > 0 {
			values += ", "
		}
		values += "(?, ?, ?)"
	}

	_, err := db.ExecContext(ctx, `INSERT INTO ingredients (ingredient_id, name, recipe_id) VALUES `+values, args...)
	if err != nil {
		if isUniqueViolation(err, "ingredients.name") {
			return nil, ErrIngredientExists
		}
		customLog.Warnf("Storage: Failed inserting %d ingredients for recipe %s: %v", len(names), recipeID, err)
		return nil, fmt.Errorf("database error inserting ingredients: %w", err)
	}
	return ingredients, nil
}

// ListIngredients returns every ingredient owned by the recipe.
func ListIngredients(ctx context.Context, db DBTX, recipeID string) ([]domain.Ingredient, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT ingredient_id, name, recipe_id FROM ingredients WHERE recipe_id = ? ORDER BY name`, recipeID)
	if err != nil {
		customLog.Warnf("Storage: Error listing ingredients of recipe %s: %v", recipeID, err)
		return nil, fmt.Errorf("database error listing ingredients: %w", err)
	}
	return scanIngredients(rows)
}

// AddIngredient adds one normalized name to a recipe.
func AddIngredient(ctx context.Context, db DBTX, recipeID, name string) (*domain.Ingredient, error) {
	added, err := insertIngredients(ctx, db, recipeID, []string{name})
	if err != nil {
		return nil, err
	}
	return &added[0], nil
}

// AddIngredients inserts the names not yet present on the recipe and returns
// only what was added. Re-adding existing names is a no-op.
func AddIngredients(ctx context.Context, db *sql.DB, recipeID string, names []string) ([]domain.Ingredient, error) {
	var added []domain.Ingredient
	err := WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		existing, err := ListIngredients(ctx, tx, recipeID)
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(existing))
		for _, ing := range existing {
			present[ing.Name] = true
		}

		fresh := make([]string, 0, len(names))
		for _, name := range names {
			if !present[name] {
				fresh = append(fresh, name)
			}
		}

		added, err = insertIngredients(ctx, tx, recipeID, fresh)
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// DeleteIngredient removes a single ingredient from a recipe and returns it.
func DeleteIngredient(ctx context.Context, db DBTX, recipeID, ingredientID string) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	err := db.QueryRowContext(ctx,
		`DELETE FROM ingredients WHERE ingredient_id = ? AND recipe_id = ? RETURNING ingredient_id, name, recipe_id`,
		ingredientID, recipeID).Scan(&ing.ID, &ing.Name, &ing.RecipeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		customLog.Warnf("Storage: Failed deleting ingredient %s: %v", ingredientID, err)
		return nil, fmt.Errorf("database error deleting ingredient: %w", err)
	}
	return &ing, nil
}
