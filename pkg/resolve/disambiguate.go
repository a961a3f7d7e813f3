package resolve

import (
	"sort"
	"time"

	"github.com/Psopho/twfynz/pkg/bill"
)

// Filter drops candidates that cannot be the bill discussed on date: bills
// that received royal assent on or before date, and bills introduced after
// it. Candidates missing either date are kept.
func Filter(candidates []*bill.Bill, date time.Time) []*bill.Bill {
	reference := day(date)
	var survivors []*bill.Bill
	for _, b := range candidates {
		if b.RoyalAssent != nil && !day(*b.RoyalAssent).After(reference) {
			continue
		}
		if b.Introduction != nil && day(*b.Introduction).After(reference) {
			continue
		}
		survivors = append(survivors, b)
	}
	return survivors
}

// Closest returns the candidate introduced nearest to date. Equal distances
// go to the lowest ID. Candidates without an introduction date cannot be
// ranked, and ErrAmbiguous is returned when one is present.
func Closest(candidates []*bill.Bill, date time.Time) (*bill.Bill, error) {
	if len(candidates) == 0 {
		return nil, bill.ErrNotFound
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	reference := day(date)
	type ranked struct {
		candidate *bill.Bill
		days      int
	}
	ranking := make([]ranked, 0, len(candidates))
	for _, b := range candidates {
		if b.Introduction == nil {
			return nil, bill.ErrAmbiguous
		}
		ranking = append(ranking, ranked{candidate: b, days: daysBetween(day(*b.Introduction), reference)})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].days != ranking[j].days {
			return ranking[i].days < ranking[j].days
		}
		return ranking[i].candidate.ID < ranking[j].candidate.ID
	})
	return ranking[0].candidate, nil
}

// day truncates t to its calendar date in UTC.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the absolute number of days between two dates.
func daysBetween(a, b time.Time) int {
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
