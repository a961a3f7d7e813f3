package bill

import (
	"errors"
	"reflect"
	"testing"
)

type fakeDirectory struct {
	bills      []*Bill
	committees []*Committee
	members    []*Member
}

func (d *fakeDirectory) BillByName(name string) (*Bill, bool) {
	for _, b := range d.bills {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

func (d *fakeDirectory) BillByID(id int) (*Bill, bool) {
	for _, b := range d.bills {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (d *fakeDirectory) CommitteeByName(name string) (*Committee, bool) {
	for _, c := range d.committees {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (d *fakeDirectory) MemberByName(name string) (*Member, bool) {
	for _, m := range d.members {
		if m.Name == name {
			return m, true
		}
		for _, alias := range m.Aliases {
			if alias == name {
				return m, true
			}
		}
	}
	return nil, false
}

func (d *fakeDirectory) SlugTaken(slug string) bool {
	for _, b := range d.bills {
		if b.Slug == slug {
			return true
		}
	}
	return false
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		bills: []*Bill{
			{ID: 1, Name: "Taxation Bill", Slug: "taxation", EarliestDate: date("2009-05-01")},
			{ID: 2, Name: "Road User Charges Amendment Bill", Slug: "road_user_charges_amendment"},
		},
		committees: []*Committee{
			{ID: 7, Name: "Maori Affairs Committee", Slug: "maori_affairs"},
		},
		members: []*Member{
			{ID: 11, Name: "Hon Steven Joyce", IDName: "steven_joyce", Aliases: []string{"Steven Joyce"}},
		},
	}
}

func TestValidatorCreate(t *testing.T) {
	v := NewValidator(newDirectory())
	b := &Bill{
		Name:          "Road User Charges Amendment Bill",
		ParliamentURL: "http://www.parliament.nz/en-NZ/PB/Legislation/Bills/road-user",
		Milestones: Milestones{
			FirstReading: date("2011-03-10"),
			Introduction: date("2011-03-01"),
		},
	}
	notes := Notes{
		Change:     "(Formerly Road User Charges Bill)",
		ReferredTo: "Māori Affairs Committee",
		MemberName: "Steven Joyce",
	}

	if err := v.Create(b, notes); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if b.FormerName != "Road User Charges Bill" {
		t.Errorf("FormerName = %q", b.FormerName)
	}
	if b.CommitteeID != 7 {
		t.Errorf("CommitteeID = %d, want 7", b.CommitteeID)
	}
	if b.MemberInChargeID != 11 {
		t.Errorf("MemberInChargeID = %d, want 11", b.MemberInChargeID)
	}
	if b.EarliestDate == nil || !b.EarliestDate.Equal(*date("2011-03-01")) {
		t.Errorf("EarliestDate = %v, want 2011-03-01", b.EarliestDate)
	}
	if b.PlainName != "Road User Charges Amendment Bill" || b.PlainFormerName != "Road User Charges Bill" {
		t.Errorf("plain names = %q, %q", b.PlainName, b.PlainFormerName)
	}
	if b.Slug != "road_user_charges_amendment_2011" {
		t.Errorf("Slug = %q, want the year appended on collision", b.Slug)
	}
	if b.Negatived() {
		t.Error("new bill is negatived")
	}
}

func TestValidatorInheritsParentDate(t *testing.T) {
	v := NewValidator(newDirectory())
	b := &Bill{
		Name:          "Taxation (Part A) Bill",
		ParliamentURL: "http://www.parliament.nz/taxation-a",
	}
	notes := Notes{Change: "(Formerly part of Taxation Bill)", MemberName: "Hon Steven Joyce"}

	if err := v.Create(b, notes); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.ParentID != 1 {
		t.Errorf("ParentID = %d, want 1", b.ParentID)
	}
	if b.EarliestDate == nil || !b.EarliestDate.Equal(*date("2009-05-01")) {
		t.Errorf("EarliestDate = %v, want the parent's 2009-05-01", b.EarliestDate)
	}
	if b.Slug != "taxation_part_a" {
		t.Errorf("Slug = %q, want %q", b.Slug, "taxation_part_a")
	}
}

func TestValidatorReferenceErrors(t *testing.T) {
	tests := []struct {
		name      string
		notes     Notes
		bill      Bill
		wantField string
	}{
		{
			name:      "unknown parent",
			notes:     Notes{Change: "(Formerly part of Missing Bill)", MemberName: "Steven Joyce"},
			wantField: "bill_change",
		},
		{
			name:      "unknown committee",
			notes:     Notes{ReferredTo: "Imaginary Committee", MemberName: "Steven Joyce"},
			wantField: "referred_to",
		},
		{
			name:      "unknown member",
			notes:     Notes{MemberName: "Nobody"},
			wantField: "mp_name",
		},
		{
			name:      "missing parent record",
			bill:      Bill{ParentID: 99},
			notes:     Notes{MemberName: "Steven Joyce"},
			wantField: "formerly_part_of_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.bill
			b.Name = "Some Bill"
			b.ParliamentURL = "http://www.parliament.nz/some"
			b.Introduction = nil

			err := NewValidator(newDirectory()).Create(&b, tt.notes)
			if !errors.Is(err, ErrInvalidReference) {
				t.Fatalf("Create() error = %v, want ErrInvalidReference", err)
			}
			var verr ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.wantField {
				t.Errorf("Create() failed on field %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidatorPresence(t *testing.T) {
	v := NewValidator(newDirectory())
	b := &Bill{MemberInChargeID: 11}

	err := v.Update(b, Notes{})
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Update() error = %v, want ValidationErrors", err)
	}

	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	want := []string{"name", "url", "earliest_date", "parliament_url"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("failed fields = %v, want %v", fields, want)
	}
}

func TestValidatorUpdateKeepsSlug(t *testing.T) {
	v := NewValidator(newDirectory())
	b := &Bill{
		ID:               2,
		Name:             "Road User Charges Amendment Bill",
		Slug:             "road_user_charges_amendment",
		MemberInChargeID: 11,
		ParliamentURL:    "http://www.parliament.nz/road-user",
		Milestones:       Milestones{Introduction: date("2011-03-01")},
	}

	b.SecondReading = date("2011-02-01")
	if err := v.Update(b, Notes{}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if b.Slug != "road_user_charges_amendment" {
		t.Errorf("Slug = %q, update must not regenerate it", b.Slug)
	}
	if !b.EarliestDate.Equal(*date("2011-02-01")) {
		t.Errorf("EarliestDate = %v, want reset to 2011-02-01", b.EarliestDate)
	}
}

func TestCacheKeys(t *testing.T) {
	b := &Bill{Slug: "road_user_charges_amendment"}
	committee := &Committee{Slug: "transport_and_industrial_relations"}
	member := &Member{IDName: "steven_joyce"}

	got := CacheKeys(b, committee, member)
	want := []string{
		"bills/road_user_charges_amendment.cache",
		"committees/transport_and_industrial_relations.cache",
		"mps/steven_joyce.cache",
		"bills.cache",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CacheKeys() = %v, want %v", got, want)
	}

	if got := CacheKeys(b, nil, nil); len(got) != 2 {
		t.Errorf("CacheKeys() without committee or member = %v", got)
	}
}
