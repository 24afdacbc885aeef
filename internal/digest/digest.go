// Package digest renders the most interesting facts of a period as markdown.
package digest

import (
	"bytes"
	_ "embed"
	"text/template"

	"today-i-learned/internal/model"
)

type Item struct {
	Text             string
	Source           string
	Category         string
	VotesInteresting int
	VotesMindblowing int
	VotesFalse       int
	Disputed         bool
}

type Data struct {
	Title      string
	Slug       string
	Datetime   string
	Preface    string
	Summary    string
	Postscript string
	Facts      []Item
}

// Items converts facts into template items, keeping their order.
func Items(facts []model.Fact) []Item {
	out := make([]Item, 0, len(facts))
	for i := range facts {
		f := &facts[i]
		out = append(out, Item{
			Text:             f.Text,
			Source:           f.Source,
			Category:         f.Category,
			VotesInteresting: f.VotesInteresting,
			VotesMindblowing: f.VotesMindblowing,
			VotesFalse:       f.VotesFalse,
			Disputed:         f.IsDisputed(),
		})
	}
	return out
}

//go:embed digest.tmpl
var digestTpl string

var compiled = template.Must(template.New("digest").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(digestTpl))

func Render(d Data) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
