package form

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"today-i-learned/internal/category"
	"today-i-learned/internal/model"
)

func fixedClock() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

func newForm() *Form {
	return New(category.Default(), WithClock(fixedClock), WithIDs(func() model.FactID { return "local-1" }))
}

func TestSubmitValidFact(t *testing.T) {
	f := newForm()
	f.Text = "Octopuses have three hearts."
	f.Source = "https://example.com/octo"
	f.Category = "science"

	fact, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, model.Fact{
		ID:          "local-1",
		Text:        "Octopuses have three hearts.",
		Source:      "https://example.com/octo",
		Category:    "science",
		CreatedYear: 2026,
		Pending:     true,
	}, fact)
	assert.True(t, f.IsEmpty())
}

func TestSubmitTextTooLong(t *testing.T) {
	f := newForm()
	f.Text = strings.Repeat("a", 201)
	f.Source = "https://example.com"
	f.Category = "science"

	_, err := f.Submit()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has(FieldText))
	assert.False(t, ve.Has(FieldSource))
	assert.Equal(t, strings.Repeat("a", 201), f.Text, "failed submit must not clear the form")
	assert.Equal(t, -1, f.RemainingChars())
}

func TestTextLimitCountsCharacters(t *testing.T) {
	f := newForm()
	f.Text = strings.Repeat("é", 200)
	f.Source = "http://example.com"
	f.Category = "history"
	assert.Equal(t, 0, f.RemainingChars())
	assert.NoError(t, f.Validate())
}

func TestTextLimitIgnoresSurroundingSpace(t *testing.T) {
	f := newForm()
	f.Text = strings.Repeat("a", 200) + " \n"
	f.Source = "https://example.com"
	f.Category = "science"
	assert.Equal(t, 0, f.RemainingChars())

	fact, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 200), fact.Text)
	assert.Equal(t, 200, TextLength("  "+fact.Text+"  "))
}

func TestSourceRules(t *testing.T) {
	tests := []struct {
		source string
		ok     bool
	}{
		{"https://example.com/octo", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"not a url", false},
		{"example.com/path", false},
		{"https://", false},
		{"javascript:alert(1)", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			err := CheckSource(tt.source)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSubmitRejectsBadSources(t *testing.T) {
	for _, src := range []string{"ftp://example.com", "not a url"} {
		f := newForm()
		f.Text = "Valid text."
		f.Source = src
		f.Category = "science"

		_, err := f.Submit()
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), src)
		assert.True(t, ve.Has(FieldSource), src)
		assert.Equal(t, src, f.Source)
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	f := newForm()
	f.Category = "gossip"

	err := f.Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 3)
	assert.Equal(t, "required", ve.Fields[FieldText])
	assert.Equal(t, "required", ve.Fields[FieldSource])
	assert.Contains(t, ve.Fields[FieldCategory], "gossip")
	assert.Equal(t, `invalid fact: category: unknown category "gossip"; source: required; text: required`, err.Error())
}

func TestDefaultIDsAreUnique(t *testing.T) {
	f := New(category.Default())
	seen := map[model.FactID]bool{}
	for i := 0; i < 100; i++ {
		f.Text, f.Source, f.Category = "t", "https://e.com", "news"
		fact, err := f.Submit()
		require.NoError(t, err)
		assert.False(t, seen[fact.ID])
		seen[fact.ID] = true
	}
}
