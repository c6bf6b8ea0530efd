package core

import (
	"errors"
	"testing"
)

func TestNormalizeIngredientNames(t *testing.T) {
	testCases := []struct {
		name    string
		input   []string
		want    []string
		wantErr bool
	}{
		{"case folded and de-duplicated", []string{"Tomato", "Pasta", "Tomato"}, []string{"tomato", "pasta"}, false},
		{"trimmed", []string{"  Basil ", "basil"}, []string{"basil"}, false},
		{"empty list", []string{}, []string{}, false},
		{"blank name", []string{"salt", "   "}, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeIngredientNames(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NormalizeIngredientNames(%q) error = %v; wantErr %v", tc.input, err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if len(got) != len(tc.want) {
				t.Fatalf("NormalizeIngredientNames(%q) = %q; want %q", tc.input, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("NormalizeIngredientNames(%q)[%d] = %q; want %q", tc.input, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestIngredientNamesFromValues(t *testing.T) {
	got, err := IngredientNamesFromValues([]any{"Egg", "MILK", "egg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "egg" || got[1] != "milk" {
		t.Errorf("got %q; want [egg milk]", got)
	}

	for _, bad := range [][]any{{"egg", float64(3)}, {true}, {nil}, {map[string]any{"name": "egg"}}} {
		if _, err := IngredientNamesFromValues(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("IngredientNamesFromValues(%v) error = %v; want ErrInvalidInput", bad, err)
		}
	}
}

func TestCheckAllowedUpdates(t *testing.T) {
	testCases := []struct {
		name    string
		keys    []string
		wantErr bool
	}{
		{"title only", []string{"title"}, false},
		{"both fields", []string{"instructions", "title"}, false},
		{"author not mutable", []string{"title", "author"}, true},
		{"unknown only", []string{"createdAt"}, true},
		{"empty", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckAllowedUpdates(tc.keys, RecipeUpdateFields)
			if (err != nil) != tc.wantErr {
				t.Errorf("CheckAllowedUpdates(%q) error = %v; wantErr %v", tc.keys, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidUpdates) {
				t.Errorf("expected ErrInvalidUpdates, got %v", err)
			}
		})
	}
}

func TestNormalizePersonName(t *testing.T) {
	testCases := []struct{ input, want string }{
		{input: "  Ann ", want: "Ann"},
		{input: "Mary \t  Jane", want: "Mary Jane"},
		{input: "Zoë", want: "Zoë"},
		{input: "   ", want: ""},
	}
	for _, tc := range testCases {
		if got := NormalizePersonName(tc.input); got != tc.want {
			t.Errorf("NormalizePersonName(%q) = %q; want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeTitleAndEmail(t *testing.T) {
	if got, err := NormalizeTitle("  Pasta  "); err != nil || got != "Pasta" {
		t.Errorf("NormalizeTitle = %q, %v; want \"Pasta\", nil", got, err)
	}
	if _, err := NormalizeTitle(" \t "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NormalizeTitle(blank) error = %v; want ErrInvalidInput", err)
	}
	if got := NormalizeEmail("  Ann@Example.COM "); got != "ann@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestSearchTermsAndMatchExpression(t *testing.T) {
	terms := SearchTerms(`Tomato, basil & "tomato" OR near!`)
	want := []string{"tomato", "basil", "or", "near"}
	if len(terms) != len(want) {
		t.Fatalf("SearchTerms = %q; want %q", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("SearchTerms[%d] = %q; want %q", i, terms[i], want[i])
		}
	}

	if got := MatchExpression([]string{"tomato", "basil"}); got != `"tomato" OR "basil"` {
		t.Errorf("MatchExpression = %s", got)
	}
	if got := SearchTerms("  ?!  "); len(got) != 0 {
		t.Errorf("SearchTerms(punctuation) = %q; want empty", got)
	}
}
