// Package markdown reads facts written as markdown files.
//
// A fact file carries its source and category in YAML frontmatter and the fact
// text as the body:
//
//	---
//	source: https://example.com/octopus
//	category: science
//	---
//	Octopuses have three hearts.
package markdown

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Document represents a Markdown file with YAML frontmatter.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// FactFile is the user-editable content of a fact file.
type FactFile struct {
	Text     string
	Source   string `yaml:"source"`
	Category string `yaml:"category"`
}

// Parse splits r into frontmatter and body. Frontmatter is only recognised
// when the very first line is "---".
func Parse(r io.Reader) (Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var fm, body []string
	inFM, first, closed := false, true, false
	for sc.Scan() {
		line := sc.Text()
		switch {
		case first && strings.TrimSpace(line) == delimiter:
			inFM = true
		case inFM && strings.TrimSpace(line) == delimiter:
			inFM, closed = false, true
		case inFM:
			fm = append(fm, line)
		default:
			body = append(body, line)
		}
		first = false
	}
	if err := sc.Err(); err != nil {
		return Document{}, err
	}
	if inFM && !closed {
		return Document{}, errors.New("markdown: unterminated frontmatter")
	}

	d := Document{Frontmatter: map[string]any{}, Body: strings.Join(body, "\n")}
	if len(fm) > 0 {
		if err := yaml.Unmarshal([]byte(strings.Join(fm, "\n")), &d.Frontmatter); err != nil {
			return Document{}, fmt.Errorf("markdown: frontmatter: %w", err)
		}
	}
	return d, nil
}

// ParseFile reads a Markdown file and extracts YAML frontmatter and body.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Parse(f)
}

// ParseFactFile reads a fact file. Body whitespace is collapsed to single
// spaces so wrapped paragraphs become one line of text.
func ParseFactFile(path string) (FactFile, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return FactFile{}, err
	}
	var ff FactFile
	ff.Source = stringField(doc.Frontmatter, "source")
	ff.Category = strings.ToLower(stringField(doc.Frontmatter, "category"))
	ff.Text = strings.Join(strings.Fields(doc.Body), " ")
	return ff, nil
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
