package handlers

import (
	"sort"
)

// mapKeys returns the keys of a decoded JSON object in a stable order.
func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
