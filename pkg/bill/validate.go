package bill

import (
	"fmt"
	"strings"

	"github.com/Psopho/twfynz/pkg/normalize"
	"github.com/Psopho/twfynz/pkg/slug"
)

// Directory is the read side of the record store that validation needs.
type Directory interface {
	// BillByName finds a bill by exact display name.
	BillByName(name string) (*Bill, bool)

	// BillByID finds a bill by identifier.
	BillByID(id int) (*Bill, bool)

	// CommitteeByName finds a select committee by name.
	CommitteeByName(name string) (*Committee, bool)

	// MemberByName finds a member of Parliament by name or alias.
	MemberByName(name string) (*Member, bool)

	// SlugTaken reports whether a bill already uses the slug.
	SlugTaken(slug string) bool
}

// Notes are the transient annotations that accompany a bill record from the
// Parliament bill listing. They are consumed by validation and not stored.
type Notes struct {
	// Change is the bill-change annotation, e.g. "(Formerly part of X Bill)".
	Change string `yaml:"bill_change,omitempty" json:"bill_change,omitempty"`

	// ReferredTo is the committee the bill was referred to.
	ReferredTo string `yaml:"referred_to,omitempty" json:"referred_to,omitempty"`

	// MemberName is the name of the member in charge.
	MemberName string `yaml:"mp_name,omitempty" json:"mp_name,omitempty"`
}

// Validator completes and checks bill records before they are saved.
type Validator struct {
	Directory Directory
	Slugs     *slug.Generator
}

// NewValidator returns a validator backed by dir with the default slug budget.
func NewValidator(dir Directory) *Validator {
	return &Validator{Directory: dir, Slugs: slug.NewGenerator()}
}

// Create prepares a new bill: it applies the rules run on every save, then
// fills the member in charge, the negatived defaults, the plain names and
// the slug. The slug is assigned here and never recomputed.
func (v *Validator) Create(b *Bill, notes Notes) error {
	if err := v.prepare(b, notes); err != nil {
		return err
	}
	if err := v.populateMember(b, notes); err != nil {
		return err
	}
	if b.Slug == "" && b.Name != "" {
		b.Slug = v.Slugs.Bill(b.Name, b.Year(), v.Directory.SlugTaken)
	}
	return v.check(b)
}

// Update prepares an existing bill after new milestone or discharge dates
// arrive. The slug and member in charge are left as they are.
func (v *Validator) Update(b *Bill, notes Notes) error {
	if err := v.prepare(b, notes); err != nil {
		return err
	}
	return v.check(b)
}

// prepare runs the rules applied on every save.
func (v *Validator) prepare(b *Bill, notes Notes) error {
	change := ParseChange(notes.Change)
	if change.FormerName != "" {
		b.FormerName = change.FormerName
	}

	if b.ParentID == 0 && change.ParentName != "" {
		parent, ok := v.Directory.BillByName(change.ParentName)
		if !ok {
			return ValidationError{
				Field:   "bill_change",
				Message: "cannot find former bill from bill change",
				Value:   notes.Change,
				Err:     ErrInvalidReference,
			}
		}
		b.ParentID = parent.ID
	}

	if err := v.resetEarliestDate(b); err != nil {
		return err
	}

	if b.CommitteeID == 0 && strings.TrimSpace(notes.ReferredTo) != "" {
		name := CommitteeNameFromReferral(notes.ReferredTo)
		committee, ok := v.Directory.CommitteeByName(name)
		if !ok {
			return ValidationError{
				Field:   "referred_to",
				Message: "cannot find committee from referred to",
				Value:   notes.ReferredTo,
				Err:     ErrInvalidReference,
			}
		}
		b.CommitteeID = committee.ID
	}

	b.PlainName = normalize.Plain(b.Name)
	b.PlainFormerName = normalize.Plain(b.FormerName)
	return nil
}

// resetEarliestDate keeps EarliestDate equal to the earliest milestone, or
// inherits the parent's earliest date when the bill has no milestones.
func (v *Validator) resetEarliestDate(b *Bill) error {
	if earliest := b.EarliestMilestone(); earliest != nil {
		b.EarliestDate = earliest
		return nil
	}
	if b.ParentID == 0 {
		return nil
	}
	parent, ok := v.Directory.BillByID(b.ParentID)
	if !ok {
		return ValidationError{
			Field:   "formerly_part_of_id",
			Message: "parent bill does not exist",
			Value:   b.ParentID,
			Err:     ErrInvalidReference,
		}
	}
	if parent.EarliestDate != nil {
		inherited := *parent.EarliestDate
		b.EarliestDate = &inherited
	}
	return nil
}

func (v *Validator) populateMember(b *Bill, notes Notes) error {
	if b.MemberInChargeID != 0 {
		return nil
	}
	name := strings.TrimSpace(notes.MemberName)
	if name == "" {
		return ValidationError{Field: "mp_name", Message: "can't be blank"}
	}
	member, ok := v.Directory.MemberByName(name)
	if !ok {
		return ValidationError{
			Field:   "mp_name",
			Message: "cannot find member in charge from mp name",
			Value:   name,
			Err:     ErrInvalidReference,
		}
	}
	b.MemberInChargeID = member.ID
	return nil
}

// check verifies the fields every saved bill must carry.
func (v *Validator) check(b *Bill) error {
	var errs ValidationErrors
	if strings.TrimSpace(b.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "can't be blank"})
	}
	if b.Slug == "" {
		errs = append(errs, ValidationError{Field: "url", Message: "can't be blank"})
	}
	if b.EarliestDate == nil {
		errs = append(errs, ValidationError{Field: "earliest_date", Message: "can't be blank"})
	}
	if b.MemberInChargeID == 0 {
		errs = append(errs, ValidationError{Field: "member_in_charge_id", Message: "can't be blank"})
	}
	if strings.TrimSpace(b.ParliamentURL) == "" {
		errs = append(errs, ValidationError{Field: "parliament_url", Message: "can't be blank"})
	}
	if len(errs) > 0 {
		return fmt.Errorf("validating %q: %w", b.Name, errs)
	}
	return nil
}

// CacheKeys lists the cached pages that show the bill, relative to the
// cache root. The committee and member may be nil.
func CacheKeys(b *Bill, committee *Committee, member *Member) []string {
	keys := []string{fmt.Sprintf("bills/%s.cache", b.Slug)}
	if committee != nil {
		keys = append(keys, fmt.Sprintf("committees/%s.cache", committee.Slug))
	}
	if member != nil {
		keys = append(keys, fmt.Sprintf("mps/%s.cache", member.IDName))
	}
	return append(keys, "bills.cache")
}
