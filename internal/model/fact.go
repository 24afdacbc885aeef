package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MaxTextLength is the maximum number of characters in a fact's text.
const MaxTextLength = 200

// FactID identifies a fact. The hosted table hands out integer ids while
// locally created facts carry a uuid until the store confirms them, so the
// id is kept as a string and decoded from either JSON form.
type FactID string

func (id *FactID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FactID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("fact id: %w", err)
	}
	*id = FactID(n.String())
	return nil
}

// Int returns the numeric form of the id, if it has one.
func (id FactID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func (id FactID) String() string { return string(id) }

// Fact is one crowd-sourced claim with its voting counters.
type Fact struct {
	ID               FactID `json:"id,omitempty"`
	Text             string `json:"text"`
	Source           string `json:"source"`
	Category         string `json:"category"`
	VotesInteresting int    `json:"votesInteresting"`
	VotesMindblowing int    `json:"votesMindblowing"`
	VotesFalse       int    `json:"votesFalse"`
	CreatedYear      int    `json:"createdIn"`

	// Pending is set while a locally created fact waits for the store.
	Pending bool `json:"-"`
}

// VoteKind selects one of a fact's three counters.
type VoteKind string

const (
	VoteInteresting VoteKind = "interesting"
	VoteMindblowing VoteKind = "mindblowing"
	VoteFalse       VoteKind = "false"
)

// ParseVoteKind accepts the kind names plus the counter column names.
func ParseVoteKind(s string) (VoteKind, error) {
	switch s {
	case "interesting", "votesInteresting":
		return VoteInteresting, nil
	case "mindblowing", "votesMindblowing":
		return VoteMindblowing, nil
	case "false", "votesFalse":
		return VoteFalse, nil
	}
	return "", fmt.Errorf("unknown vote kind %q", s)
}

// Column returns the store column backing the counter.
func (k VoteKind) Column() string {
	switch k {
	case VoteInteresting:
		return "votesInteresting"
	case VoteMindblowing:
		return "votesMindblowing"
	case VoteFalse:
		return "votesFalse"
	}
	return ""
}

// AddVote increments the counter for kind and returns its new value.
func (f *Fact) AddVote(kind VoteKind) (int, error) {
	switch kind {
	case VoteInteresting:
		f.VotesInteresting++
		return f.VotesInteresting, nil
	case VoteMindblowing:
		f.VotesMindblowing++
		return f.VotesMindblowing, nil
	case VoteFalse:
		f.VotesFalse++
		return f.VotesFalse, nil
	}
	return 0, fmt.Errorf("unknown vote kind %q", kind)
}

// Votes returns the value of the counter for kind.
func (f Fact) Votes(kind VoteKind) int {
	switch kind {
	case VoteInteresting:
		return f.VotesInteresting
	case VoteMindblowing:
		return f.VotesMindblowing
	case VoteFalse:
		return f.VotesFalse
	}
	return 0
}

// IsDisputed reports whether false votes outnumber the positive ones.
func (f Fact) IsDisputed() bool {
	return f.VotesFalse > f.VotesInteresting+f.VotesMindblowing
}
