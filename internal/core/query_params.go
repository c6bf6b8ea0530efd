// internal/core/query_params.go
package core

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Default and limit constants for pagination
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultTopN     = 5
	MaxTopN         = 100
)

// Directions accepted by ParseExtremeDirection.
const (
	ExtremeMin = "min"
	ExtremeMax = "max"
)

var ErrInvalidQuery = errors.New("invalid query parameter")

// SortableRecipeFields maps the public sort field names to their columns.
var SortableRecipeFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

// ListQueryOptions holds the paging and sorting of an author's recipe list.
type ListQueryOptions struct {
	Limit  int // 0 means no limit
	Skip   int
	SortBy string // column name, empty keeps store order
	Desc   bool
}

// ParseListQueryOptions reads ?limit=&skip=&sortBy=<field>_<asc|desc>.
func ParseListQueryOptions(queryParams url.Values) (*ListQueryOptions, error) {
	opts := &ListQueryOptions{}

	var err error
	if opts.Limit, err = parseNonNegative(queryParams, "limit", 0); err != nil {
		return nil, err
	}
	if opts.Skip, err = parseNonNegative(queryParams, "skip", 0); err != nil {
		return nil, err
	}

	if sortBy := queryParams.Get("sortBy"); sortBy != "" {
		field, order, _ := strings.Cut(sortBy, "_")
		column, ok := SortableRecipeFields[field]
		if !ok {
			return nil, fmt.Errorf("%w: cannot sort by '%s'", ErrInvalidQuery, field)
		}
		switch strings.ToLower(order) {
		case "", "asc":
		case "desc":
			opts.Desc = true
		default:
			return nil, fmt.Errorf("%w: sort order must be 'asc' or 'desc'", ErrInvalidQuery)
		}
		opts.SortBy = column
	}

	return opts, nil
}

// PageOptions is the 1-based page window of the public recipe list.
type PageOptions struct {
	Page  int
	Limit int
}

// Offset returns the number of rows skipped before the page.
func (p PageOptions) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePageOptions reads ?page=&limit= with defaults 1 and 10.
func ParsePageOptions(queryParams url.Values) (*PageOptions, error) {
	page, err := parsePositive(queryParams, "page", DefaultPage)
	if err != nil {
		return nil, err
	}
	limit, err := parsePositive(queryParams, "limit", DefaultPageSize)
	if err != nil {
		return nil, err
	}
	if limit > MaxPageSize {
		return nil, fmt.Errorf("%w: 'limit' maximum is %d", ErrInvalidQuery, MaxPageSize)
	}
	return &PageOptions{Page: page, Limit: limit}, nil
}

// ParseTopN reads ?n= for the ingredient frequency ranking.
func ParseTopN(queryParams url.Values) (int, error) {
	n, err := parsePositive(queryParams, "n", DefaultTopN)
	if err != nil {
		return 0, err
	}
	if n > MaxTopN {
		return 0, fmt.Errorf("%w: 'n' maximum is %d", ErrInvalidQuery, MaxTopN)
	}
	return n, nil
}

// ParseExtremeDirection reads ?type= which must be "min" or "max".
func ParseExtremeDirection(queryParams url.Values) (string, error) {
	switch t := strings.ToLower(queryParams.Get("type")); t {
	case ExtremeMin, ExtremeMax:
		return t, nil
	default:
		return "", fmt.Errorf("%w: 'type' must be 'min' or 'max'", ErrInvalidQuery)
	}
}

func parseNonNegative(queryParams url.Values, key string, fallback int) (int, error) {
	raw := queryParams.Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: '%s' must be a non-negative integer", ErrInvalidQuery, key)
	}
	return v, nil
}

func parsePositive(queryParams url.Values, key string, fallback int) (int, error) {
	raw := queryParams.Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w: '%s' must be at least 1", ErrInvalidQuery, key)
	}
	return v, nil
}
