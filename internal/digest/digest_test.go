package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"today-i-learned/internal/model"
)

func TestRenderFacts(t *testing.T) {
	facts := []model.Fact{
		{ID: "1", Text: "Octopuses have three hearts.", Source: "https://example.com/o", Category: "science", VotesInteresting: 12, VotesMindblowing: 3},
		{ID: "2", Text: "The moon is cheese.", Source: "https://example.com/m", Category: "news", VotesInteresting: 1, VotesFalse: 9},
	}
	out, err := Render(Data{
		Title:      "Today I learned 2026-10-18",
		Slug:       "daily-20261018",
		Datetime:   "2026-10-18 00:00",
		Preface:    "Hello readers.",
		Summary:    "Hearts and cheese.",
		Postscript: "See you tomorrow.",
		Facts:      Items(facts),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "---\ntitle: \"Today I learned 2026-10-18\"\n"))
	assert.Contains(t, out, "slug: daily-20261018")
	assert.Contains(t, out, "Hello readers.")
	assert.Contains(t, out, "> Hearts and cheese.")
	assert.Contains(t, out, "## 1. Octopuses have three hearts.")
	assert.Contains(t, out, "## 2. The moon is cheese.")
	assert.Contains(t, out, "science · 👍 12 · 🤯 3 · ⛔️ 0")
	assert.Contains(t, out, "[Source](https://example.com/o)")
	assert.Contains(t, out, "See you tomorrow.")
	assert.NotContains(t, out, "No facts yet.")
	assert.Equal(t, 1, strings.Count(out, "DISPUTED"))
	assert.Less(t, strings.Index(out, "## 1."), strings.Index(out, "## 2."))
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render(Data{Title: "Empty"})
	require.NoError(t, err)
	assert.Contains(t, out, "No facts yet.")
	assert.NotContains(t, out, "## 1.")
}

func TestExpandVars(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("X", -3*3600))
	assert.Equal(t, "Today I learned 2026-10-19", ExpandVars("Today I learned {.CurrentDate}", now))
	assert.Equal(t, "(c) 2026", ExpandVars("(c) {.CurrentYear}", now))
	assert.Equal(t, "  ", ExpandVars("  ", now))
}
