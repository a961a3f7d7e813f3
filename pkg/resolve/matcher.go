// Package resolve turns bill mentions in debate transcripts and order
// papers into bill records.
//
// Resolution runs in two stages. The Matcher walks the normalizer ladder
// against the record store until some rewrite of the mention finds
// candidates. The disambiguator then drops candidates that could not have
// been under discussion on the reference date and prefers the bill
// introduced closest to it.
package resolve

import (
	"io"
	"log/slog"

	"github.com/Psopho/twfynz/pkg/bill"
	"github.com/Psopho/twfynz/pkg/normalize"
)

// Store is the record store queried during resolution.
type Store interface {
	// FindByName returns bills whose display name equals name.
	FindByName(name string) []*bill.Bill

	// FindByFormerName returns bills whose former name equals name.
	FindByFormerName(name string) []*bill.Bill

	// FindByPlainName returns bills whose plain name equals name.
	FindByPlainName(name string) []*bill.Bill

	// FindByPlainFormerName returns bills whose plain former name equals name.
	FindByPlainFormerName(name string) []*bill.Bill

	// BillByID returns the bill with the given identifier.
	BillByID(id int) (*bill.Bill, bool)
}

// Lookup selects which name field a lookup matches against.
type Lookup int

const (
	// ByName matches the current display name.
	ByName Lookup = iota
	// ByFormerName matches the name a bill carried before renaming.
	ByFormerName
)

// String returns a human-readable label for the lookup.
func (l Lookup) String() string {
	switch l {
	case ByName:
		return "name"
	case ByFormerName:
		return "former_name"
	default:
		return "unknown"
	}
}

// Match is the outcome of walking the ladder with one lookup.
type Match struct {
	// Candidates are the bills found by the first productive rung.
	Candidates []*bill.Bill

	// Rung is the name of the rung that produced the candidates, empty
	// when every rung came back empty.
	Rung string

	// Key is the rewritten text that matched.
	Key string
}

// Matcher tries each rung of a normalizer ladder against the store and
// stops at the first rung that yields candidates.
type Matcher struct {
	Store  Store
	Ladder []normalize.Rung
	Logger *slog.Logger
}

// NewMatcher returns a matcher using the default ladder.
func NewMatcher(store Store) *Matcher {
	return &Matcher{
		Store:  store,
		Ladder: normalize.DefaultLadder(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Match walks the ladder for text using the given lookup.
func (m *Matcher) Match(text string, lookup Lookup) Match {
	find := m.finder(lookup)
	for i, key := range normalize.Variants(text, m.Ladder) {
		rung := m.Ladder[i]
		candidates := find(key)
		m.logger().Debug("bill lookup",
			"text", text, "lookup", lookup.String(), "rung", rung.Name, "key", key, "candidates", len(candidates))
		if len(candidates) > 0 {
			return Match{Candidates: candidates, Rung: rung.Name, Key: key}
		}
	}
	return Match{}
}

func (m *Matcher) finder(lookup Lookup) func(string) []*bill.Bill {
	if lookup == ByFormerName {
		return m.Store.FindByFormerName
	}
	return m.Store.FindByName
}

func (m *Matcher) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m.Logger
}
