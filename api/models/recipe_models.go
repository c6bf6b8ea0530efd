package models

// CreateRecipeRequest creates a recipe with its initial ingredient names.
// Ingredients stay untyped so non-text entries can be rejected explicitly.
type CreateRecipeRequest struct {
	Title        string `json:"title" binding:"required,trimmed_required"`
	Instructions string `json:"instructions" binding:"required"`
	Ingredients  []any  `json:"ingredients"`
}

// UpdateRecipeRequest carries a recipe patch. Nil fields are left untouched.
type UpdateRecipeRequest struct {
	Title        *string `json:"title" binding:"omitnil,trimmed_required"`
	Instructions *string `json:"instructions" binding:"omitnil,trimmed_required"`
}

// AddIngredientRequest adds a single ingredient to a recipe
type AddIngredientRequest struct {
	Name string `json:"name" binding:"required,trimmed_required"`
}

// AddIngredientsResponse lists what a bulk add actually inserted
type AddIngredientsResponse struct {
	Added []IngredientView `json:"added"`
	Count int              `json:"count"`
}

// IngredientView is the public shape of an ingredient in bulk responses
type IngredientView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchRequest is read from the query string or a JSON body
type SearchRequest struct {
	Text string `form:"text" json:"text" binding:"required,trimmed_required"`
}
