package factlist

import (
	"today-i-learned/internal/category"
	"today-i-learned/internal/model"
)

// Visible returns the facts shown for the selected category. For
// category.All the input comes back as is; otherwise the matching facts in
// their original order.
func Visible(facts []model.Fact, selected string) []model.Fact {
	if selected == category.All {
		return facts
	}
	out := make([]model.Fact, 0, len(facts))
	for _, f := range facts {
		if f.Category == selected {
			out = append(out, f)
		}
	}
	return out
}

// CountByCategory tallies facts per category name.
func CountByCategory(facts []model.Fact) map[string]int {
	out := make(map[string]int)
	for _, f := range facts {
		out[f.Category]++
	}
	return out
}
