package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Annany2002/recipe-backend/config"
	"github.com/Annany2002/recipe-backend/internal/domain"
)

// newTestDB returns a migrated database in a per-test directory.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{DatabaseDir: t.TempDir(), DatabaseFile: "test.db"}
	db, err := ConnectDB(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{FirstName: "Test", LastName: "User", Email: email, Age: 30, PasswordHash: "hash"}
	require.NoError(t, CreateUser(context.Background(), db, user))
	return user
}

func createTestRecipe(t *testing.T, db *sql.DB, authorID, title string, ingredients ...string) *domain.RecipeWithIngredients {
	t.Helper()
	recipe := &domain.Recipe{Title: title, Instructions: "Cook it.", AuthorID: authorID}
	created, err := CreateRecipe(context.Background(), db, recipe, ingredients)
	require.NoError(t, err)
	return created
}

func countTokens(t *testing.T, db *sql.DB, userID string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM user_tokens WHERE user_id = ?`, userID).Scan(&count))
	return count
}

func countIngredients(t *testing.T, db *sql.DB, recipeID string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM ingredients WHERE recipe_id = ?`, recipeID).Scan(&count))
	return count
}
