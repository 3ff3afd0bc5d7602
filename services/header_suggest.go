package services

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// maxSuggestionDistance bounds how far a column label may be from an
// unmapped header to be offered as a suggestion.
const maxSuggestionDistance = 3

// SuggestColumns returns up to limit column labels close to an unmapped
// header, nearest first.
func SuggestColumns(header string, columns []ColumnConfig, limit int) []string {
	h := normalizeHeader(header)
	if h == "" || limit <= 0 {
		return nil
	}

	type candidate struct {
		label string
		dist  int
	}
	var cands []candidate
	for _, c := range columns {
		d := levenshtein.ComputeDistance(h, normalizeHeader(c.Label))
		if d <= maxSuggestionDistance {
			cands = append(cands, candidate{c.Label, d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.label
	}
	return out
}
