package resolve

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Psopho/twfynz/pkg/bill"
	"github.com/Psopho/twfynz/pkg/normalize"
)

// DefaultYearLookback is how many years before the requested year a
// plain-name search steps back.
const DefaultYearLookback = 2

// ResolutionError reports a mention that could not be resolved to a
// single bill. It wraps bill.ErrNotFound or bill.ErrAmbiguous.
type ResolutionError struct {
	// Text is the mention as given.
	Text string

	// Date is the reference date of the mention.
	Date time.Time

	// Candidates is the number of bills that remained, if any.
	Candidates int

	Err error
}

func (e *ResolutionError) Error() string {
	date := e.Date.Format(bill.DateLayout)
	if errors.Is(e.Err, bill.ErrAmbiguous) {
		return fmt.Sprintf("%d bills match: %s, %s", e.Candidates, e.Text, date)
	}
	return fmt.Sprintf("no bills match: %s, %s", e.Text, date)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLadder replaces the normalizer ladder.
func WithLadder(ladder []normalize.Rung) ResolverOption {
	return func(r *Resolver) {
		r.matcher.Ladder = ladder
	}
}

// WithLogger sets the logger used for lookup tracing.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
		r.matcher.Logger = logger
	}
}

// WithYearLookback sets how far FindByPlainNameAndYear steps back.
func WithYearLookback(years int) ResolverOption {
	return func(r *Resolver) {
		r.yearLookback = years
	}
}

// Resolver resolves bill mentions against a record store.
type Resolver struct {
	store        Store
	matcher      *Matcher
	yearLookback int
	logger       *slog.Logger
}

// NewResolver creates a resolver over store.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:        store,
		matcher:      NewMatcher(store),
		yearLookback: DefaultYearLookback,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the bill that text referred to on date. Names are tried
// first; when no candidate survives the date filter the former names are
// tried with the same ladder.
func (r *Resolver) Resolve(text string, date time.Time) (*bill.Bill, error) {
	for _, lookup := range []Lookup{ByName, ByFormerName} {
		match := r.matcher.Match(text, lookup)
		survivors := Filter(match.Candidates, date)

		switch len(survivors) {
		case 0:
			if lookup == ByName {
				r.logger.Info("no current bill by name, trying former names",
					"text", text, "date", date.Format(bill.DateLayout), "candidates", len(match.Candidates))
			}
			continue
		case 1:
			return survivors[0], nil
		}

		chosen, err := Closest(survivors, date)
		if err != nil {
			r.logger.Warn("bill mention is ambiguous", "text", text, "candidates", len(survivors))
			return nil, &ResolutionError{Text: text, Date: date, Candidates: len(survivors), Err: err}
		}
		return chosen, nil
	}

	r.logger.Warn("bill mention not found", "text", text, "date", date.Format(bill.DateLayout))
	return nil, &ResolutionError{Text: text, Date: date, Err: bill.ErrNotFound}
}

// Resolution is the outcome for one name in a list.
type Resolution struct {
	// Name is the bill name as extracted from the list.
	Name string

	// Bill is the resolved bill, nil on failure.
	Bill *bill.Bill

	// Err is the resolution failure, nil on success.
	Err error
}

var (
	numberedTeReo    = regexp.MustCompile(`(\d)\), Te`)
	parentheticalAnd = regexp.MustCompile(`Bill( \([^\)]+\))? and the`)
	listSeparator    = regexp.MustCompile(`,( and)? the`)
	leadingLowercase = regexp.MustCompile(`^[a-z ]*`)
)

// SplitList splits an order paper item naming several bills, such as
// "Taxation Bill, the Local Government Bill, and the Road User Charges
// Bill", into the individual names.
func SplitList(text string) []string {
	text = numberedTeReo.ReplaceAllString(text, "$1), the Te")
	text = parentheticalAnd.ReplaceAllString(text, "Bill$1, and the")

	var names []string
	for _, part := range listSeparator.Split(text, -1) {
		name := leadingLowercase.ReplaceAllString(part, "")
		name = strings.TrimSpace(strings.TrimSuffix(name, ", "))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ResolveList resolves every bill named in text. Failures are reported per
// name and do not stop the remaining names resolving.
func (r *Resolver) ResolveList(text string, date time.Time) []Resolution {
	names := SplitList(text)
	results := make([]Resolution, 0, len(names))
	for _, name := range names {
		b, err := r.Resolve(name, date)
		results = append(results, Resolution{Name: name, Bill: b, Err: err})
	}
	return results
}

// FindByPlainNameAndYear returns bills whose plain name (or, failing that,
// plain former name) matches name and that were introduced in year. When
// none was, earlier years are tried up to the configured lookback. A bill
// divided from a parent also matches on the parent's introduction year.
func (r *Resolver) FindByPlainNameAndYear(name string, year int) []*bill.Bill {
	plain := normalize.Plain(name)
	bills := r.store.FindByPlainName(plain)
	if len(bills) == 0 {
		bills = r.store.FindByPlainFormerName(plain)
	}

	for back := 0; back <= r.yearLookback; back++ {
		if selected := r.selectByYear(bills, year-back); len(selected) > 0 {
			return selected
		}
	}
	return nil
}

func (r *Resolver) selectByYear(bills []*bill.Bill, year int) []*bill.Bill {
	var selected []*bill.Bill
	for _, b := range bills {
		if b.Introduction != nil && b.Introduction.Year() == year {
			selected = append(selected, b)
			continue
		}
		if b.ParentID == 0 {
			continue
		}
		if parent, ok := r.store.BillByID(b.ParentID); ok && parent.Introduction != nil && parent.Introduction.Year() == year {
			selected = append(selected, b)
		}
	}
	return selected
}
