package timeline

import (
	"sort"
	"strings"

	"github.com/Psopho/twfynz/pkg/bill"
)

// DebateSource supplies the debates held on a bill, grouped by stage heading.
type DebateSource interface {
	DebateGroups(b *bill.Bill) []bill.DebateGroup
}

// Options controls which events a timeline includes.
type Options struct {
	// IncludeVersions adds an event for each published version of the bill text.
	IncludeVersions bool
}

// Builder builds timelines for bills.
type Builder struct {
	Debates DebateSource
	Options Options
}

// NewBuilder returns a builder reading debates from source. A nil source
// builds timelines from milestones alone.
func NewBuilder(source DebateSource, opts Options) *Builder {
	return &Builder{Debates: source, Options: opts}
}

// Build returns the ordered timeline of b.
func (tb *Builder) Build(b *bill.Bill) []Event {
	var groups []bill.DebateGroup
	if tb.Debates != nil {
		groups = tb.Debates.DebateGroups(b)
	}
	return Build(b, groups, tb.Options)
}

// Build merges the milestone events of b with the debate groups that no
// milestone accounts for, and returns them in timeline order.
func Build(b *bill.Bill, groups []bill.DebateGroup, opts Options) []Event {
	events := MilestoneEvents(b)
	Sort(events)

	seen := make(map[string]bool, len(events))
	for _, e := range events {
		seen[e.Label] = true
	}

	merged := false
	for _, group := range groups {
		last := group.Last()
		if last == nil || seen[group.Label] {
			continue
		}
		seen[group.Label] = true
		events = append(events, Event{
			Date:   last.Date,
			Label:  group.Label,
			Source: Source{Kind: SourceDebate, Debate: last},
		})
		merged = true
	}

	if opts.IncludeVersions {
		for i := range b.Versions {
			v := &b.Versions[i]
			events = append(events, Event{
				Date:   v.Published,
				Label:  versionLabel(v),
				Source: Source{Kind: SourceExternalLink, Version: v},
			})
			merged = true
		}
	}

	if merged {
		Sort(events)
	}
	return events
}

// MilestoneEvents returns one event per milestone or discharge date set on
// b, in stage order.
func MilestoneEvents(b *bill.Bill) []Event {
	var events []Event
	for _, stage := range bill.AllStages {
		if d := b.Date(stage); d != nil {
			events = append(events, Event{
				Date:   *d,
				Label:  stage.String(),
				Source: Source{Kind: SourceMilestone, Stage: stage},
			})
		}
	}
	return events
}

// Sort orders events by date. Among events on the same day, those naming
// a reading are placed First, Second, Third within the positions readings
// occupy; every other event keeps its place.
func Sort(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	for start := 0; start < len(events); {
		end := start + 1
		for end < len(events) && events[end].Date.Equal(events[start].Date) {
			end++
		}
		orderReadings(events[start:end])
		start = end
	}
}

// orderReadings reorders the reading events of a same-day run in place.
func orderReadings(run []Event) {
	var positions []int
	var readings []Event
	for i, e := range run {
		if readingRank(e.Label) > 0 {
			positions = append(positions, i)
			readings = append(readings, e)
		}
	}
	if len(readings) < 2 {
		return
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return readingRank(readings[i].Label) < readingRank(readings[j].Label)
	})
	for k, pos := range positions {
		run[pos] = readings[k]
	}
}

func readingRank(label string) int {
	switch {
	case strings.Contains(label, "First"):
		return 1
	case strings.Contains(label, "Second"):
		return 2
	case strings.Contains(label, "Third"):
		return 3
	default:
		return 0
	}
}

func versionLabel(v *bill.Version) string {
	if v.Committee != "" {
		return "Bill text " + v.Stage + " by " + v.Committee
	}
	return "Bill text " + v.Stage
}
