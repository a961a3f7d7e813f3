package timeline

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/Psopho/twfynz/pkg/bill"
)

func mustDate(value string) time.Time {
	d, err := time.Parse(bill.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return d
}

func mustDatePtr(value string) *time.Time {
	d := mustDate(value)
	return &d
}

func labels(events []Event) []string {
	result := make([]string, len(events))
	for i, e := range events {
		result[i] = e.Label
	}
	return result
}

type debateSource map[int][]*bill.Debate

func (s debateSource) DebateGroups(b *bill.Bill) []bill.DebateGroup {
	return bill.GroupDebates(s[b.ID])
}

func TestBuildMergesDebateStages(t *testing.T) {
	b := &bill.Bill{
		ID: 1,
		Milestones: bill.Milestones{
			Introduction:  mustDatePtr("2010-01-10"),
			FirstReading:  mustDatePtr("2010-01-10"),
			SecondReading: mustDatePtr("2010-02-01"),
		},
	}
	source := debateSource{1: {
		{ID: 10, BillID: 1, Name: "Second Reading", Date: mustDate("2010-02-01")},
		{ID: 11, BillID: 1, Name: "Third Reading", Date: mustDate("2010-02-01")},
	}}

	events := NewBuilder(source, Options{}).Build(b)

	want := []string{"Introduction", "First Reading", "Second Reading", "Third Reading"}
	if got := labels(events); !reflect.DeepEqual(got, want) {
		t.Fatalf("Build() = %v, want %v", got, want)
	}

	third := events[3]
	if third.Source.Kind != SourceDebate || third.Source.Debate.ID != 11 {
		t.Errorf("Third Reading source = %+v, want debate 11", third.Source)
	}
	if !third.Date.Equal(mustDate("2010-02-01")) {
		t.Errorf("Third Reading date = %v", third.Date)
	}
}

func TestBuildUsesLastDebateDate(t *testing.T) {
	b := &bill.Bill{ID: 1, Milestones: bill.Milestones{Introduction: mustDatePtr("2010-01-10")}}
	source := debateSource{1: {
		{ID: 2, BillID: 1, Name: "In Committee", Date: mustDate("2010-04-07")},
		{ID: 1, BillID: 1, Name: "In Committee", Date: mustDate("2010-03-30")},
	}}

	events := NewBuilder(source, Options{}).Build(b)
	if len(events) != 2 {
		t.Fatalf("Build() = %v", labels(events))
	}
	if !events[1].Date.Equal(mustDate("2010-04-07")) {
		t.Errorf("In Committee dated %v, want the last debate 2010-04-07", events[1].Date)
	}
}

func TestBuildWithoutDebates(t *testing.T) {
	b := &bill.Bill{
		Milestones: bill.Milestones{
			Introduction: mustDatePtr("2009-06-01"),
			RoyalAssent:  mustDatePtr("2010-01-01"),
		},
		Discharges: bill.Discharges{Withdrawn: mustDatePtr("2009-09-01")},
	}

	got := labels(NewBuilder(nil, Options{}).Build(b))
	want := []string{"Introduction", "Withdrawn", "Royal Assent"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
}

func TestBuildIncludesVersions(t *testing.T) {
	b := &bill.Bill{
		Milestones: bill.Milestones{Introduction: mustDatePtr("2010-01-10")},
		Versions: []bill.Version{
			{Stage: "reported", Committee: "Health Committee", Link: "http://www.legislation.govt.nz/bill/reported", Published: mustDate("2010-05-01")},
			{Stage: "introduction", Link: "http://www.legislation.govt.nz/bill/introduction", Published: mustDate("2010-01-10")},
		},
	}

	without := Build(b, nil, Options{})
	if len(without) != 1 {
		t.Fatalf("Build() without versions = %v", labels(without))
	}

	events := Build(b, nil, Options{IncludeVersions: true})
	want := []string{"Introduction", "Bill text introduction", "Bill text reported by Health Committee"}
	if got := labels(events); !reflect.DeepEqual(got, want) {
		t.Fatalf("Build() = %v, want %v", got, want)
	}
	if events[2].Origin() != "external_link:http://www.legislation.govt.nz/bill/reported" {
		t.Errorf("Origin() = %q", events[2].Origin())
	}
}

func TestSortReadingPrecedence(t *testing.T) {
	day := mustDate("2010-03-01")
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "first before third",
			input: []string{"Third Reading", "First Reading"},
			want:  []string{"First Reading", "Third Reading"},
		},
		{
			name:  "second before third",
			input: []string{"Third Reading", "Second Reading"},
			want:  []string{"Second Reading", "Third Reading"},
		},
		{
			name:  "all three reversed",
			input: []string{"Third Reading", "Second Reading", "First Reading"},
			want:  []string{"First Reading", "Second Reading", "Third Reading"},
		},
		{
			name:  "other stages keep their place",
			input: []string{"Third Reading", "In Committee", "Second Reading", "Royal Assent"},
			want:  []string{"Second Reading", "In Committee", "Third Reading", "Royal Assent"},
		},
		{
			name:  "non reading events stay in insertion order",
			input: []string{"SC Reports", "Introduction", "Submissions Due"},
			want:  []string{"SC Reports", "Introduction", "Submissions Due"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := make([]Event, len(tt.input))
			for i, label := range tt.input {
				events[i] = Event{Date: day, Label: label}
			}
			Sort(events)
			if got := labels(events); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortByDateFirst(t *testing.T) {
	events := []Event{
		{Date: mustDate("2010-03-01"), Label: "First Reading"},
		{Date: mustDate("2010-01-01"), Label: "Third Reading"},
		{Date: mustDate("2010-02-01"), Label: "Introduction"},
	}
	Sort(events)
	want := []string{"Third Reading", "Introduction", "First Reading"}
	if got := labels(events); !reflect.DeepEqual(got, want) {
		t.Errorf("Sort() = %v, want %v", got, want)
	}
}

func TestSortIsDeterministic(t *testing.T) {
	day := mustDate("2010-03-01")
	build := func() []Event {
		return []Event{
			{Date: day, Label: "Third Reading"},
			{Date: day, Label: "Introduction"},
			{Date: day, Label: "First Reading"},
			{Date: day, Label: "Second reading withdrawn"},
		}
	}

	first := build()
	Sort(first)
	for i := 0; i < 10; i++ {
		again := build()
		Sort(again)
		if !reflect.DeepEqual(labels(first), labels(again)) {
			t.Fatalf("Sort() gave %v then %v", labels(first), labels(again))
		}
	}
}

func TestLastEvent(t *testing.T) {
	if _, ok := LastEvent(nil); ok {
		t.Error("LastEvent(nil) reported an event")
	}
	events := []Event{{Label: "Introduction"}, {Label: "Royal Assent"}}
	last, ok := LastEvent(events)
	if !ok || last.Label != "Royal Assent" {
		t.Errorf("LastEvent() = %v, %v", last, ok)
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Event{Source: Source{Kind: SourceMilestone, Stage: bill.StageSecondReading}}, "milestone:Second Reading"},
		{Event{Source: Source{Kind: SourceDebate, Debate: &bill.Debate{ID: 42}}}, "debate:42"},
		{Event{Source: Source{Kind: SourceDebate}}, "debate"},
		{Event{Source: Source{Kind: SourceKind(7)}}, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.event.Origin(); got != tt.want {
			t.Errorf("Origin() = %q, want %q", got, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	e := Event{Date: mustDate("2010-02-01"), Label: "Third Reading"}
	if got := e.String(); got != "2010-02-01 Third Reading" {
		t.Errorf("String() = %q", got)
	}
}

func TestEventJSONIncludesOrigin(t *testing.T) {
	e := Event{
		Date:   mustDate("2010-02-01"),
		Label:  "Third Reading",
		Source: Source{Kind: SourceDebate, Debate: &bill.Debate{ID: 11}},
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["origin"] != "debate:11" {
		t.Errorf("origin = %v, want debate:11", got["origin"])
	}
	if got["label"] != "Third Reading" {
		t.Errorf("label = %v", got["label"])
	}
}
