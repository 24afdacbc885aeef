// Package category holds the fixed set of topical buckets a fact can belong to.
//
// A Registry is built once at startup and handed to every component that
// needs it; it is never mutated afterwards.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// All selects every category. It is a filter value, never a registry name.
const All = "all"

// ErrCategoryNotFound is returned for names absent from the registry.
var ErrCategoryNotFound = errors.New("category not found")

// LookupError reports a reference to a category the registry does not know.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("category %q not found", e.Name)
}

func (e *LookupError) Unwrap() error { return ErrCategoryNotFound }

// Category is a topical tag with its display color.
type Category struct {
	Name  string `mapstructure:"name" yaml:"name" json:"name"`
	Color string `mapstructure:"color" yaml:"color" json:"color"`
}

// Registry is an ordered, immutable set of categories.
type Registry struct {
	list  []Category
	index map[string]int
}

// New validates cats and builds a registry preserving their order.
func New(cats []Category) (*Registry, error) {
	if len(cats) == 0 {
		return nil, errors.New("category: empty registry")
	}
	r := &Registry{
		list:  make([]Category, 0, len(cats)),
		index: make(map[string]int, len(cats)),
	}
	for _, c := range cats {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, errors.New("category: empty name")
		}
		if name == All {
			return nil, fmt.Errorf("category: %q is reserved", All)
		}
		if strings.TrimSpace(c.Color) == "" {
			return nil, fmt.Errorf("category %q: empty color", name)
		}
		if _, dup := r.index[name]; dup {
			return nil, fmt.Errorf("category %q: duplicate name", name)
		}
		r.index[name] = len(r.list)
		r.list = append(r.list, Category{Name: name, Color: strings.TrimSpace(c.Color)})
	}
	return r, nil
}

// Defaults returns the stock categories.
func Defaults() []Category {
	return []Category{
		{Name: "technology", Color: "#3b82f6"},
		{Name: "science", Color: "#16a34a"},
		{Name: "finance", Color: "#ef4444"},
		{Name: "society", Color: "#eab308"},
		{Name: "entertainment", Color: "#db2777"},
		{Name: "health", Color: "#14b8a6"},
		{Name: "history", Color: "#f97316"},
		{Name: "news", Color: "#8b5cf6"},
	}
}

// Default returns a registry of the stock categories.
func Default() *Registry {
	r, err := New(Defaults())
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the categories in registry order.
func (r *Registry) All() []Category {
	out := make([]Category, len(r.list))
	copy(out, r.list)
	return out
}

// Names returns the category names in registry order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.list))
	for i, c := range r.list {
		out[i] = c.Name
	}
	return out
}

func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

func (r *Registry) Len() int { return len(r.list) }

// ColorOf returns the display color of the named category.
func (r *Registry) ColorOf(name string) (string, error) {
	i, ok := r.index[name]
	if !ok {
		return "", &LookupError{Name: name}
	}
	return r.list[i].Color, nil
}

// IsSelection reports whether s is a valid filter value: All or a known name.
func (r *Registry) IsSelection(s string) bool {
	return s == All || r.Has(s)
}

// Next returns the selection following cur in the cycle All, c1, ..., cn, All.
// Unknown values restart at All.
func (r *Registry) Next(cur string) string {
	if cur == All {
		return r.list[0].Name
	}
	i, ok := r.index[cur]
	if !ok || i == len(r.list)-1 {
		return All
	}
	return r.list[i+1].Name
}

// Prev is the reverse of Next.
func (r *Registry) Prev(cur string) string {
	if cur == All {
		return r.list[len(r.list)-1].Name
	}
	i, ok := r.index[cur]
	if !ok || i == 0 {
		return All
	}
	return r.list[i-1].Name
}
