package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Annany2002/recipe-backend/internal/core"
	"github.com/Annany2002/recipe-backend/internal/domain"
)

// ErrNoIngredients is returned by aggregations when no ingredient exists.
var ErrNoIngredients = errors.New("no ingredients found")

// TopIngredients returns the n most frequent ingredient names across all
// recipes, highest count first, ties broken by name.
func TopIngredients(ctx context.Context, db DBTX, n int) ([]domain.IngredientCount, error) {
	defer observe("top_ingredients", time.Now())

	rows, err := db.QueryContext(ctx,
		`SELECT name, COUNT(*) AS uses FROM ingredients GROUP BY name ORDER BY uses DESC, name ASC LIMIT ?`, n)
	if err != nil {
		customLog.Warnf("Storage: Error aggregating top %d ingredients: %v", n, err)
		return nil, fmt.Errorf("database error aggregating ingredients: %w", err)
	}
	defer rows.Close()

	counts := make([]domain.IngredientCount, 0, n)
	for rows.Next() {
		var ic domain.IngredientCount
		if err := rows.Scan(&ic.Name, &ic.Count); err != nil {
			return nil, fmt.Errorf("failed reading ingredient count: %w", err)
		}
		counts = append(counts, ic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed processing ingredient counts: %w", err)
	}
	if len(counts) == 0 {
		queryEmptyResults.WithLabelValues("top_ingredients").Inc()
		return nil, ErrNoIngredients
	}
	return counts, nil
}

// RecipeByIngredientCount returns the recipe with the most ("max") or fewest
// ("min") ingredients together with its ingredient list. Recipes without
// ingredients never qualify. Ties resolve toward the lowest recipe id for max
// and the highest for min, so the two ends differ whenever two recipes exist.
func RecipeByIngredientCount(ctx context.Context, db DBTX, direction string) (*domain.RecipeWithIngredients, error) {
	defer observe("recipe_by_ingredient_count", time.Now())

	order := "uses DESC, recipe_id ASC"
	if direction == core.ExtremeMin {
		order = "uses ASC, recipe_id DESC"
	}

	var recipeID string
	var uses int
	err := db.QueryRowContext(ctx,
		`SELECT recipe_id, COUNT(*) AS uses FROM ingredients GROUP BY recipe_id ORDER BY `+order+` LIMIT 1`).
		Scan(&recipeID, &uses)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			queryEmptyResults.WithLabelValues("recipe_by_ingredient_count").Inc()
			return nil, ErrNoIngredients
		}
		customLog.Warnf("Storage: Error finding %s recipe by ingredient count: %v", direction, err)
		return nil, fmt.Errorf("database error aggregating recipes: %w", err)
	}

	recipes, err := FindRecipesWithIngredients(ctx, db, []string{recipeID})
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		// ingredient rows outlived their recipe
		customLog.Warnf("Storage: Orphaned ingredients reference recipe %s (%d rows)", recipeID, uses)
		return nil, ErrRecipeNotFound
	}
	return &recipes[0], nil
}
