// Package bill provides the record types for New Zealand Parliament bills and
// the debates, votes, committees and members they reference, together with
// the validation rules applied when a bill is created or updated.
package bill

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the layout used for dates in datasets and on the command line.
const DateLayout = "2006-01-02"

// Type classifies who promoted a bill.
type Type string

const (
	// TypeGovernment is a bill promoted by a minister.
	TypeGovernment Type = "Government"
	// TypeMember is a member's bill.
	TypeMember Type = "Member's"
	// TypePrivate is a private bill.
	TypePrivate Type = "Private"
	// TypeLocal is a local bill.
	TypeLocal Type = "Local"
)

// Milestones holds the progress dates of a bill. Each is independently nil.
type Milestones struct {
	Introduction          *time.Time `yaml:"introduction,omitempty" json:"introduction,omitempty"`
	FirstReading          *time.Time `yaml:"first_reading,omitempty" json:"first_reading,omitempty"`
	SelectCommitteeReport *time.Time `yaml:"sc_reports,omitempty" json:"sc_reports,omitempty"`
	SubmissionsDue        *time.Time `yaml:"submissions_due,omitempty" json:"submissions_due,omitempty"`
	SecondReading         *time.Time `yaml:"second_reading,omitempty" json:"second_reading,omitempty"`
	CommitteeOfWholeHouse *time.Time `yaml:"committee_of_the_whole_house,omitempty" json:"committee_of_the_whole_house,omitempty"`
	ThirdReading          *time.Time `yaml:"third_reading,omitempty" json:"third_reading,omitempty"`
	RoyalAssent           *time.Time `yaml:"royal_assent,omitempty" json:"royal_assent,omitempty"`
}

// Discharges holds the withdrawal and discharge dates of a bill.
type Discharges struct {
	Withdrawn                       *time.Time `yaml:"withdrawn,omitempty" json:"withdrawn,omitempty"`
	SecondReadingWithdrawn          *time.Time `yaml:"second_reading_withdrawn,omitempty" json:"second_reading_withdrawn,omitempty"`
	CommittalDischarged             *time.Time `yaml:"committal_discharged,omitempty" json:"committal_discharged,omitempty"`
	ConsiderationOfReportDischarged *time.Time `yaml:"consideration_of_report_discharged,omitempty" json:"consideration_of_report_discharged,omitempty"`
	SecondReadingDischarged         *time.Time `yaml:"second_reading_discharged,omitempty" json:"second_reading_discharged,omitempty"`
	FirstReadingDischarged          *time.Time `yaml:"first_reading_discharged,omitempty" json:"first_reading_discharged,omitempty"`
}

// Version is a publication of the bill text at legislation.govt.nz.
type Version struct {
	// Stage is the version stage as published (e.g. "introduction", "reported").
	Stage string `yaml:"stage" json:"stage"`

	// Committee is the reporting committee for "reported" versions.
	Committee string `yaml:"committee,omitempty" json:"committee,omitempty"`

	// Link is the address of the published version.
	Link string `yaml:"link" json:"link"`

	// Published is the publication date.
	Published time.Time `yaml:"published" json:"published"`
}

// Bill is the identity record for a bill.
type Bill struct {
	// ID is the record identifier. Lower IDs were created earlier.
	ID int `yaml:"id" json:"id"`

	// Name is the canonical display name, e.g. "Road User Charges Amendment Bill".
	Name string `yaml:"name" json:"name"`

	// FormerName is the name the bill carried before it was renamed.
	FormerName string `yaml:"former_name,omitempty" json:"former_name,omitempty"`

	// PlainName is Name with punctuation stripped, used for loose lookups.
	PlainName string `yaml:"plain_name,omitempty" json:"plain_name,omitempty"`

	// PlainFormerName is FormerName with punctuation stripped.
	PlainFormerName string `yaml:"plain_former_name,omitempty" json:"plain_former_name,omitempty"`

	// ParentID is the bill this one was divided from, zero when none.
	ParentID int `yaml:"formerly_part_of_id,omitempty" json:"formerly_part_of_id,omitempty"`

	// Type classifies the promoter of the bill.
	Type Type `yaml:"type,omitempty" json:"type,omitempty"`

	// MemberInChargeID references the member in charge.
	MemberInChargeID int `yaml:"member_in_charge_id,omitempty" json:"member_in_charge_id,omitempty"`

	// CommitteeID references the select committee the bill was referred to.
	CommitteeID int `yaml:"referred_to_committee_id,omitempty" json:"referred_to_committee_id,omitempty"`

	// ParliamentURL is the bill's page on the Parliament website.
	ParliamentURL string `yaml:"parliament_url,omitempty" json:"parliament_url,omitempty"`

	Milestones `yaml:",inline"`
	Discharges `yaml:",inline"`

	FirstReadingNegatived  bool `yaml:"first_reading_negatived,omitempty" json:"first_reading_negatived,omitempty"`
	SecondReadingNegatived bool `yaml:"second_reading_negatived,omitempty" json:"second_reading_negatived,omitempty"`

	// Slug is the permanent URL identifier, assigned once at creation.
	Slug string `yaml:"url,omitempty" json:"url,omitempty"`

	// EarliestDate is the earliest milestone, or the parent's when none is set.
	EarliestDate *time.Time `yaml:"earliest_date,omitempty" json:"earliest_date,omitempty"`

	// Versions are the legislation.govt.nz publications of the bill text.
	Versions []Version `yaml:"versions,omitempty" json:"versions,omitempty"`
}

// Date returns the date recorded for a stage, or nil.
func (b *Bill) Date(stage Stage) *time.Time {
	switch stage {
	case StageIntroduction:
		return b.Introduction
	case StageFirstReading:
		return b.FirstReading
	case StageSelectCommitteeReport:
		return b.SelectCommitteeReport
	case StageSubmissionsDue:
		return b.SubmissionsDue
	case StageSecondReading:
		return b.SecondReading
	case StageCommitteeOfWholeHouse:
		return b.CommitteeOfWholeHouse
	case StageThirdReading:
		return b.ThirdReading
	case StageRoyalAssent:
		return b.RoyalAssent
	case StageWithdrawn:
		return b.Withdrawn
	case StageSecondReadingWithdrawn:
		return b.SecondReadingWithdrawn
	case StageCommittalDischarged:
		return b.CommittalDischarged
	case StageConsiderationOfReportDischarged:
		return b.ConsiderationOfReportDischarged
	case StageSecondReadingDischarged:
		return b.SecondReadingDischarged
	case StageFirstReadingDischarged:
		return b.FirstReadingDischarged
	}
	return nil
}

// EarliestMilestone returns the minimum of the milestone dates present,
// or nil when none is set.
func (b *Bill) EarliestMilestone() *time.Time {
	var dates []time.Time
	for _, stage := range MilestoneStages {
		if d := b.Date(stage); d != nil {
			dates = append(dates, *d)
		}
	}
	if len(dates) == 0 {
		return nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	earliest := dates[0]
	return &earliest
}

// Year returns the year of the earliest date, or zero when unknown.
func (b *Bill) Year() int {
	if b.EarliestDate != nil {
		return b.EarliestDate.Year()
	}
	if d := b.EarliestMilestone(); d != nil {
		return d.Year()
	}
	return 0
}

// Negatived reports whether the bill was voted down at first or second reading.
func (b *Bill) Negatived() bool {
	return b.FirstReadingNegatived || b.SecondReadingNegatived
}

// Assented reports whether the bill received royal assent.
func (b *Bill) Assented() bool {
	return b.RoyalAssent != nil
}

// IsWithdrawn reports whether the bill was withdrawn outright or at second reading.
func (b *Bill) IsWithdrawn() bool {
	return b.Withdrawn != nil || b.SecondReadingWithdrawn != nil
}

// Discharged reports whether any order of the day for the bill was discharged.
func (b *Bill) Discharged() bool {
	return b.CommittalDischarged != nil ||
		b.ConsiderationOfReportDischarged != nil ||
		b.SecondReadingDischarged != nil ||
		b.FirstReadingDischarged != nil
}

// Current reports whether the bill is still before the House. A bill that
// has been divided into other bills is no longer current itself.
func (b *Bill) Current(dividedInto []*Bill) bool {
	if len(dividedInto) > 0 {
		return false
	}
	return !(b.Negatived() || b.Assented() || b.IsWithdrawn() || b.Discharged())
}

// String returns a short description of the bill.
func (b *Bill) String() string {
	return fmt.Sprintf("Bill{id: %d, name: %q, url: %q}", b.ID, b.Name, b.Slug)
}

// Committee is a select committee.
type Committee struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Slug string `yaml:"url" json:"url"`
}

// Member is a member of Parliament.
type Member struct {
	ID int `yaml:"id" json:"id"`

	// Name is the member's name as it appears in bill listings.
	Name string `yaml:"name" json:"name"`

	// IDName is the member's URL identifier, e.g. "john_key".
	IDName string `yaml:"id_name" json:"id_name"`

	// Aliases are other forms of the name that should resolve to this member.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// ContributionKind classifies an item in a debate transcript.
type ContributionKind string

const (
	ContributionSpeech       ContributionKind = "speech"
	ContributionInterjection ContributionKind = "interjection"
	ContributionProcedural   ContributionKind = "procedural"
	ContributionVote         ContributionKind = "vote"
)

// Vote is a recorded vote in a debate.
type Vote struct {
	Question    string `yaml:"question" json:"question"`
	Result      string `yaml:"result" json:"result"`
	Ayes        int    `yaml:"ayes,omitempty" json:"ayes,omitempty"`
	Noes        int    `yaml:"noes,omitempty" json:"noes,omitempty"`
	Abstentions int    `yaml:"abstentions,omitempty" json:"abstentions,omitempty"`
}

// Contribution is one item of a debate transcript.
type Contribution struct {
	Kind ContributionKind `yaml:"kind" json:"kind"`
	Text string           `yaml:"text,omitempty" json:"text,omitempty"`

	// Vote is set when Kind is ContributionVote.
	Vote *Vote `yaml:"vote,omitempty" json:"vote,omitempty"`
}

// IsVote reports whether the contribution records a vote.
func (c Contribution) IsVote() bool {
	return c.Kind == ContributionVote && c.Vote != nil
}

// Debate is a sitting's debate on a bill. Name is the stage heading used to
// group debates, e.g. "Second Reading" or "In Committee".
type Debate struct {
	ID            int            `yaml:"id" json:"id"`
	BillID        int            `yaml:"bill_id" json:"bill_id"`
	Name          string         `yaml:"name" json:"name"`
	Date          time.Time      `yaml:"date" json:"date"`
	Votes         []*Vote        `yaml:"votes,omitempty" json:"votes,omitempty"`
	Contributions []Contribution `yaml:"contributions,omitempty" json:"contributions,omitempty"`
}

// DebateGroup is the debates held under one stage heading, in date order.
type DebateGroup struct {
	Label   string
	Debates []*Debate
}

// Last returns the most recent debate in the group, or nil.
func (g DebateGroup) Last() *Debate {
	if len(g.Debates) == 0 {
		return nil
	}
	return g.Debates[len(g.Debates)-1]
}

// GroupDebates groups debates by Name, ordering debates by date within a
// group and groups by the date of their first debate.
func GroupDebates(debates []*Debate) []DebateGroup {
	sorted := append([]*Debate(nil), debates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	index := make(map[string]int)
	var groups []DebateGroup
	for _, d := range sorted {
		i, ok := index[d.Name]
		if !ok {
			i = len(groups)
			index[d.Name] = i
			groups = append(groups, DebateGroup{Label: d.Name})
		}
		groups[i].Debates = append(groups[i].Debates, d)
	}
	return groups
}
