// internal/domain/models.go
package domain

import "time"

// User is a registered account. The password hash and session tokens never
// leave the storage layer in responses.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`
	Title        string    `json:"title,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Recipe is owned by exactly one user; its title is unique across all recipes.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Instructions string    `json:"instructions"`
	AuthorID     string    `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Ingredient belongs to one recipe. (Name, RecipeID) is unique.
type Ingredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RecipeID string `json:"recipe"`
}

// RecipeWithIngredients is a recipe joined with its ingredient list.
type RecipeWithIngredients struct {
	Recipe
	Ingredients []Ingredient `json:"ingredients"`
}

// IngredientCount is one group of the ingredient frequency aggregation.
type IngredientCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
