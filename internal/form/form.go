// Package form validates user input and turns it into new facts.
package form

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"today-i-learned/internal/category"
	"today-i-learned/internal/model"
)

// Field names used in validation errors.
const (
	FieldText     = "text"
	FieldSource   = "source"
	FieldCategory = "category"
)

// ValidationError lists every field that failed, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid fact: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Form holds the three inputs of a new fact.
type Form struct {
	Text     string
	Source   string
	Category string

	registry *category.Registry
	now      func() time.Time
	newID    func() model.FactID
}

// Option customizes a Form.
type Option func(*Form)

// WithClock sets the time source for the creation year.
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// WithIDs sets the generator for local fact ids.
func WithIDs(gen func() model.FactID) Option {
	return func(f *Form) { f.newID = gen }
}

func New(registry *category.Registry, opts ...Option) *Form {
	f := &Form{
		registry: registry,
		now:      time.Now,
		newID:    func() model.FactID { return model.FactID(uuid.NewString()) },
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// TextLength counts the characters of text as it will be stored, ignoring
// surrounding whitespace.
func TextLength(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

// RemainingChars is how many characters the text may still grow by.
// It goes negative once the text is too long.
func (f *Form) RemainingChars() int {
	return model.MaxTextLength - TextLength(f.Text)
}

// Validate checks all three fields and reports each failure.
func (f *Form) Validate() error {
	errs := map[string]string{}

	text := strings.TrimSpace(f.Text)
	switch {
	case text == "":
		errs[FieldText] = "required"
	case TextLength(text) > model.MaxTextLength:
		errs[FieldText] = fmt.Sprintf("must be at most %d characters", model.MaxTextLength)
	}

	if strings.TrimSpace(f.Source) == "" {
		errs[FieldSource] = "required"
	} else if err := CheckSource(f.Source); err != nil {
		errs[FieldSource] = err.Error()
	}

	switch {
	case f.Category == "":
		errs[FieldCategory] = "required"
	case !f.registry.Has(f.Category):
		errs[FieldCategory] = fmt.Sprintf("unknown category %q", f.Category)
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Submit validates the inputs and, if they pass, returns a new pending fact
// and clears the form. A failed submit leaves the form untouched.
func (f *Form) Submit() (model.Fact, error) {
	if err := f.Validate(); err != nil {
		return model.Fact{}, err
	}
	fact := model.Fact{
		ID:          f.newID(),
		Text:        strings.TrimSpace(f.Text),
		Source:      strings.TrimSpace(f.Source),
		Category:    f.Category,
		CreatedYear: f.now().Year(),
		Pending:     true,
	}
	f.Reset()
	return fact, nil
}

// Reset clears all fields.
func (f *Form) Reset() {
	f.Text = ""
	f.Source = ""
	f.Category = ""
}

// IsEmpty reports whether nothing has been typed yet.
func (f *Form) IsEmpty() bool {
	return f.Text == "" && f.Source == "" && f.Category == ""
}

// CheckSource accepts absolute http and https URLs.
func CheckSource(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("not a valid URL")
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q not allowed, use http or https", u.Scheme)
	}
	return nil
}
