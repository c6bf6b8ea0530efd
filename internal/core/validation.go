// internal/core/validation.go
package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidUpdates = errors.New("invalid updates")
)

// Fields a client may change with PATCH.
var (
	RecipeUpdateFields = []string{"title", "instructions"}
	UserUpdateFields   = []string{"firstName", "lastName", "email", "password", "age"}
)

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePersonName trims a first or last name and collapses inner runs
// of whitespace to a single space. Case is kept as typed.
func NormalizePersonName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeTitle trims a recipe title and rejects blank titles.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	return trimmed, nil
}

// NormalizeIngredientName trims and lowercases an ingredient name.
func NormalizeIngredientName(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", fmt.Errorf("%w: ingredient name must not be empty", ErrInvalidInput)
	}
	return normalized, nil
}

// NormalizeIngredientNames normalizes every name and drops duplicates,
// keeping the first occurrence order.
func NormalizeIngredientNames(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		normalized, err := NormalizeIngredientName(name)
		if err != nil {
			return nil, err
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out, nil
}

// IngredientNamesFromValues checks that every decoded JSON value is a string
// and returns the normalized, de-duplicated names.
func IngredientNamesFromValues(values []any) ([]string, error) {
	names := make([]string, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: all new ingredients must be strings (item %d is %T)", ErrInvalidInput, i, v)
		}
		names = append(names, s)
	}
	return NormalizeIngredientNames(names)
}

// CheckAllowedUpdates fails with ErrInvalidUpdates when any key is outside allowed.
// The whole update is rejected, never partially applied.
func CheckAllowedUpdates(keys []string, allowed []string) error {
	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = true
	}
	var rejected []string
	for _, k := range keys {
		if !allowedSet[k] {
			rejected = append(rejected, k)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return fmt.Errorf("%w: %s", ErrInvalidUpdates, strings.Join(rejected, ", "))
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: no fields provided", ErrInvalidUpdates)
	}
	return nil
}

// SearchTerms splits free text into lowercase words, dropping punctuation and duplicates.
func SearchTerms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			terms = append(terms, f)
		}
	}
	return terms
}

// MatchExpression builds a full-text MATCH expression where any term may match.
// Terms are quoted so words like "or" and "near" are never read as operators.
func MatchExpression(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " OR ")
}
