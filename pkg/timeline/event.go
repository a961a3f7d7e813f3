// Package timeline assembles the legislative history of a bill as an
// ordered sequence of dated events.
package timeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Psopho/twfynz/pkg/bill"
)

// SourceKind identifies where an event came from.
type SourceKind int

const (
	// SourceMilestone is a milestone or discharge date on the bill record.
	SourceMilestone SourceKind = iota
	// SourceDebate is a debate group with no matching milestone.
	SourceDebate
	// SourceExternalLink is a publication of the bill text.
	SourceExternalLink
)

var sourceKindLabels = [...]string{
	SourceMilestone:    "milestone",
	SourceDebate:       "debate",
	SourceExternalLink: "external_link",
}

// String returns the label for the source kind.
func (k SourceKind) String() string {
	if k < 0 || int(k) >= len(sourceKindLabels) {
		return "unknown"
	}
	return sourceKindLabels[k]
}

// Source records the origin of an event. Exactly one of Stage, Debate or
// Version is meaningful, selected by Kind.
type Source struct {
	Kind SourceKind `json:"kind"`

	// Stage is set for milestone events.
	Stage bill.Stage `json:"-"`

	// Debate is the last debate in the group for debate events.
	Debate *bill.Debate `json:"-"`

	// Version is set for external link events.
	Version *bill.Version `json:"-"`
}

// Event is one dated point in a bill's history.
type Event struct {
	Date   time.Time `json:"date"`
	Label  string    `json:"label"`
	Source Source    `json:"source"`
}

// Origin describes the source of the event, e.g. "milestone:Second Reading"
// or "debate:42".
func (e Event) Origin() string {
	switch e.Source.Kind {
	case SourceMilestone:
		return fmt.Sprintf("%s:%s", e.Source.Kind, e.Source.Stage)
	case SourceDebate:
		if e.Source.Debate == nil {
			return e.Source.Kind.String()
		}
		return fmt.Sprintf("%s:%d", e.Source.Kind, e.Source.Debate.ID)
	case SourceExternalLink:
		if e.Source.Version == nil {
			return e.Source.Kind.String()
		}
		return fmt.Sprintf("%s:%s", e.Source.Kind, e.Source.Version.Link)
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the event with its origin alongside the source.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return json.Marshal(struct {
		plain
		Origin string `json:"origin"`
	}{plain(e), e.Origin()})
}

// String formats the event as "2006-01-02 Label".
func (e Event) String() string {
	return e.Date.Format(bill.DateLayout) + " " + e.Label
}

// LastEvent returns the final event of an ordered timeline.
func LastEvent(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	return events[len(events)-1], true
}
