package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Annany2002/recipe-backend/internal/core"
	"github.com/Annany2002/recipe-backend/internal/domain"
)

// ErrNoSearchResults is returned when neither index matches the search text.
var ErrNoSearchResults = errors.New("no recipes matched the search")

// SearchRecipes matches text against the recipe index (title, instructions)
// and the ingredient index (name) concurrently. Each recipe appears once,
// recipe-text hits first, then recipes reached only through an ingredient.
func SearchRecipes(ctx context.Context, db DBTX, text string) ([]domain.RecipeWithIngredients, error) {
	defer observe("search_recipes", time.Now())

	terms := core.SearchTerms(text)
	if len(terms) == 0 {
		queryEmptyResults.WithLabelValues("search_recipes").Inc()
		return nil, ErrNoSearchResults
	}
	match := core.MatchExpression(terms)

	var byRecipe, byIngredient []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := matchIDs(gctx, db,
			`SELECT r.recipe_id FROM recipes_fts JOIN recipes r ON r.seq = recipes_fts.docid
			 WHERE recipes_fts MATCH ? ORDER BY r.created_at DESC`, match)
		byRecipe = ids
		return err
	})
	g.Go(func() error {
		ids, err := matchIDs(gctx, db,
			`SELECT DISTINCT i.recipe_id FROM ingredients_fts JOIN ingredients i ON i.seq = ingredients_fts.docid
			 WHERE ingredients_fts MATCH ?`, match)
		byIngredient = ids
		return err
	})
	if err := g.Wait(); err != nil {
		customLog.Warnf("Storage: Search for %q failed: %v", text, err)
		return nil, fmt.Errorf("database error searching recipes: %w", err)
	}

	seen := make(map[string]bool, len(byRecipe)+len(byIngredient))
	ordered := make([]string, 0, len(byRecipe)+len(byIngredient))
	for _, id := range append(byRecipe, byIngredient...) {
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}
	if len(ordered) == 0 {
		queryEmptyResults.WithLabelValues("search_recipes").Inc()
		return nil, ErrNoSearchResults
	}

	recipes, err := FindRecipesWithIngredients(ctx, db, ordered)
	if err != nil {
		return nil, err
	}
	position := make(map[string]int, len(ordered))
	for i, id := range ordered {
		position[id] = i
	}
	results := make([]domain.RecipeWithIngredients, len(ordered))
	found := 0
	for _, r := range recipes {
		results[position[r.ID]] = r
		found++
	}
	out := make([]domain.RecipeWithIngredients, 0, found)
	for _, r := range results {
		if r.ID != "" {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoSearchResults
	}
	return out, nil
}

func matchIDs(ctx context.Context, db DBTX, query, match string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, match)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
