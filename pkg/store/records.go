// Package store holds the in-memory record set that bill resolution,
// validation and timeline building query.
//
// Records are kept in maps by identifier and their lookup fields are
// indexed as facts, so that name, former name, slug and parent lookups each
// read one index entry.
package store

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Psopho/twfynz/pkg/bill"
	"github.com/Psopho/twfynz/pkg/cache"
	"github.com/Psopho/twfynz/pkg/organisation"
	"github.com/Psopho/twfynz/pkg/slug"
)

// Indexed fields.
const (
	predName            = "name"
	predFormerName      = "former_name"
	predPlainName       = "plain_name"
	predPlainFormerName = "plain_former_name"
	predSlug            = "url"
	predParent          = "formerly_part_of"
	predAlias           = "alias"
)

const (
	kindBill         = "bill"
	kindCommittee    = "committee"
	kindMember       = "member"
	kindOrganisation = "organisation"
)

// Option configures Records.
type Option func(*Records)

// WithSink sets where cache invalidations are sent after a save.
func WithSink(sink cache.Sink) Option {
	return func(r *Records) {
		r.sink = sink
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Records) {
		r.logger = logger
	}
}

// WithSlugGenerator sets the generator used for new bill slugs.
func WithSlugGenerator(g *slug.Generator) Option {
	return func(r *Records) {
		r.validator.Slugs = g
	}
}

// Records is the record set. Reads are safe for concurrent use; saves are
// expected from a single writer.
type Records struct {
	mu sync.RWMutex

	index         *Index
	bills         map[int]*bill.Bill
	committees    map[int]*bill.Committee
	members       map[int]*bill.Member
	organisations map[int]*organisation.Organisation
	debates       map[int][]*bill.Debate

	lastBillID         int
	lastOrganisationID int

	validator *bill.Validator
	sink      cache.Sink
	logger    *slog.Logger
}

// New creates an empty record set.
func New(opts ...Option) *Records {
	r := &Records{
		index:         NewIndex(),
		bills:         make(map[int]*bill.Bill),
		committees:    make(map[int]*bill.Committee),
		members:       make(map[int]*bill.Member),
		organisations: make(map[int]*organisation.Organisation),
		debates:       make(map[int][]*bill.Debate),
		sink:          cache.Discard,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	r.validator = bill.NewValidator(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func subject(kind string, id int) string {
	return kind + "/" + strconv.Itoa(id)
}

func parseSubject(s string) (string, int, bool) {
	kind, id, ok := strings.Cut(s, "/")
	if !ok {
		return "", 0, false
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return "", 0, false
	}
	return kind, n, true
}

// billsWhere returns the bills having predicate=object, ordered by ID.
func (r *Records) billsWhere(predicate, object string) []*bill.Bill {
	if object == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bills []*bill.Bill
	for _, s := range r.index.Subjects(predicate, object) {
		kind, id, ok := parseSubject(s)
		if !ok || kind != kindBill {
			continue
		}
		if b, ok := r.bills[id]; ok {
			bills = append(bills, b)
		}
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].ID < bills[j].ID })
	return bills
}

// FindByName returns bills whose display name equals name.
func (r *Records) FindByName(name string) []*bill.Bill {
	return r.billsWhere(predName, name)
}

// FindByFormerName returns bills whose former name equals name.
func (r *Records) FindByFormerName(name string) []*bill.Bill {
	return r.billsWhere(predFormerName, name)
}

// FindByPlainName returns bills whose plain name equals name.
func (r *Records) FindByPlainName(name string) []*bill.Bill {
	return r.billsWhere(predPlainName, name)
}

// FindByPlainFormerName returns bills whose plain former name equals name.
func (r *Records) FindByPlainFormerName(name string) []*bill.Bill {
	return r.billsWhere(predPlainFormerName, name)
}

// BillByID returns the bill with the given identifier.
func (r *Records) BillByID(id int) (*bill.Bill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bills[id]
	return b, ok
}

// BillByName returns the earliest-created bill with the display name.
func (r *Records) BillByName(name string) (*bill.Bill, bool) {
	bills := r.FindByName(name)
	if len(bills) == 0 {
		return nil, false
	}
	return bills[0], true
}

// BillBySlug returns the bill with the given slug.
func (r *Records) BillBySlug(s string) (*bill.Bill, bool) {
	bills := r.billsWhere(predSlug, s)
	if len(bills) == 0 {
		return nil, false
	}
	return bills[0], true
}

// SlugTaken reports whether a bill already uses the slug.
func (r *Records) SlugTaken(s string) bool {
	return len(r.billsWhere(predSlug, s)) > 0
}

// DividedInto returns the bills that were divided from b.
func (r *Records) DividedInto(b *bill.Bill) []*bill.Bill {
	return r.billsWhere(predParent, subject(kindBill, b.ID))
}

// IsCurrent reports whether b is still before the House.
func (r *Records) IsCurrent(b *bill.Bill) bool {
	return b.Current(r.DividedInto(b))
}

// Bills returns every bill ordered by ID.
func (r *Records) Bills() []*bill.Bill {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bills := make([]*bill.Bill, 0, len(r.bills))
	for _, b := range r.bills {
		bills = append(bills, b)
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].ID < bills[j].ID })
	return bills
}

// CommitteeByID returns the committee with the given identifier.
func (r *Records) CommitteeByID(id int) (*bill.Committee, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.committees[id]
	return c, ok
}

// CommitteeByName returns the committee with the given name.
func (r *Records) CommitteeByName(name string) (*bill.Committee, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.index.Subjects(predName, name) {
		if kind, id, ok := parseSubject(s); ok && kind == kindCommittee {
			return r.committees[id], true
		}
	}
	return nil, false
}

// MemberByID returns the member with the given identifier.
func (r *Records) MemberByID(id int) (*bill.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	return m, ok
}

// MemberByName returns the member with the given name or alias.
func (r *Records) MemberByName(name string) (*bill.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, predicate := range []string{predName, predAlias} {
		for _, s := range r.index.Subjects(predicate, name) {
			if kind, id, ok := parseSubject(s); ok && kind == kindMember {
				return r.members[id], true
			}
		}
	}
	return nil, false
}

// OrganisationByName returns the organisation with the given name.
func (r *Records) OrganisationByName(name string) (*organisation.Organisation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.index.Subjects(predName, name) {
		if kind, id, ok := parseSubject(s); ok && kind == kindOrganisation {
			return r.organisations[id], true
		}
	}
	return nil, false
}

// OrganisationSlugTaken reports whether an organisation already uses the slug.
func (r *Records) OrganisationSlugTaken(s string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, subj := range r.index.Subjects(predSlug, s) {
		if kind, _, ok := parseSubject(subj); ok && kind == kindOrganisation {
			return true
		}
	}
	return false
}

// DebateGroups returns the debates on b grouped by stage heading.
func (r *Records) DebateGroups(b *bill.Bill) []bill.DebateGroup {
	r.mu.RLock()
	debates := append([]*bill.Debate(nil), r.debates[b.ID]...)
	r.mu.RUnlock()
	return bill.GroupDebates(debates)
}

// AddCommittee stores a committee.
func (r *Records) AddCommittee(c *bill.Committee) error {
	if c.ID == 0 || c.Name == "" {
		return fmt.Errorf("committee requires id and name: %+v", c)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := subject(kindCommittee, c.ID)
	r.index.Remove(s)
	r.committees[c.ID] = c
	_ = r.index.Add(s, predName, c.Name)
	_ = r.index.Add(s, predSlug, c.Slug)
	return nil
}

// AddMember stores a member of Parliament.
func (r *Records) AddMember(m *bill.Member) error {
	if m.ID == 0 || m.Name == "" {
		return fmt.Errorf("member requires id and name: %+v", m)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := subject(kindMember, m.ID)
	r.index.Remove(s)
	r.members[m.ID] = m
	_ = r.index.Add(s, predName, m.Name)
	for _, alias := range m.Aliases {
		_ = r.index.Add(s, predAlias, alias)
	}
	return nil
}

// AddDebate stores a debate against its bill.
func (r *Records) AddDebate(d *bill.Debate) error {
	if d.BillID == 0 {
		return fmt.Errorf("debate %d has no bill", d.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debates[d.BillID] = append(r.debates[d.BillID], d)
	return nil
}

// SaveOrganisation stores an organisation and expires its cached pages.
// Organisations without an ID or slug are prepared as new records first.
func (r *Records) SaveOrganisation(o *organisation.Organisation) error {
	if err := r.saveOrganisation(o); err != nil {
		return err
	}
	return r.emit(cache.Invalidation{Reason: "organisation " + o.Slug, Keys: organisation.CacheKeys(o)})
}

func (r *Records) saveOrganisation(o *organisation.Organisation) error {
	if o.Slug == "" || o.ID == 0 {
		if err := organisation.Prepare(o, r); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == 0 {
		o.ID = r.lastOrganisationID + 1
	}
	if o.ID > r.lastOrganisationID {
		r.lastOrganisationID = o.ID
	}
	s := subject(kindOrganisation, o.ID)
	r.index.Remove(s)
	r.organisations[o.ID] = o
	_ = r.index.Add(s, predName, o.Name)
	_ = r.index.Add(s, predSlug, o.Slug)
	return nil
}

// Save validates and stores a bill. A bill whose ID is already stored is
// updated; any other bill is created, receiving an ID above every stored
// one when it has none. The bill's cached pages are expired after the save.
func (r *Records) Save(b *bill.Bill, notes bill.Notes) error {
	if err := r.save(b, notes); err != nil {
		return err
	}
	return r.Expire(b)
}

// Expire sends the invalidation for a stored bill without changing it.
func (r *Records) Expire(b *bill.Bill) error {
	return r.emit(cache.Invalidation{Reason: "bill " + b.Slug, Keys: r.cacheKeys(b)})
}

func (r *Records) save(b *bill.Bill, notes bill.Notes) error {
	_, exists := r.BillByID(b.ID)
	exists = exists && b.ID != 0

	var err error
	if exists {
		err = r.validator.Update(b, notes)
	} else {
		err = r.validator.Create(b, notes)
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.lastBillID + 1
	}
	r.indexBill(b)
	r.logger.Debug("saved bill", "id", b.ID, "url", b.Slug, "created", !exists)
	return nil
}

// indexBill replaces the stored facts for b. Callers hold the write lock.
func (r *Records) indexBill(b *bill.Bill) {
	s := subject(kindBill, b.ID)
	r.index.Remove(s)
	r.bills[b.ID] = b
	if b.ID > r.lastBillID {
		r.lastBillID = b.ID
	}
	_ = r.index.Add(s, predName, b.Name)
	_ = r.index.Add(s, predFormerName, b.FormerName)
	_ = r.index.Add(s, predPlainName, b.PlainName)
	_ = r.index.Add(s, predPlainFormerName, b.PlainFormerName)
	_ = r.index.Add(s, predSlug, b.Slug)
	if b.ParentID != 0 {
		_ = r.index.Add(s, predParent, subject(kindBill, b.ParentID))
	}
}

func (r *Records) cacheKeys(b *bill.Bill) []string {
	var committee *bill.Committee
	if c, ok := r.CommitteeByID(b.CommitteeID); ok {
		committee = c
	}
	var member *bill.Member
	if m, ok := r.MemberByID(b.MemberInChargeID); ok {
		member = m
	}
	return bill.CacheKeys(b, committee, member)
}

func (r *Records) emit(inv cache.Invalidation) error {
	if err := r.sink.Invalidate(inv); err != nil {
		return fmt.Errorf("expiring cached pages for %s: %w", inv.Reason, err)
	}
	return nil
}
