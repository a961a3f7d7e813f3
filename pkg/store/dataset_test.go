package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Psopho/twfynz/pkg/bill"
)

const sampleDataset = `
committees:
  - id: 7
    name: Health Committee
    url: health
members:
  - id: 11
    name: Hon Tony Ryall
    id_name: tony_ryall
    aliases: [Tony Ryall]
bills:
  - id: 2
    name: Taxation (Part A) Bill
    parliament_url: http://www.parliament.nz/taxation-a
    bill_change: (Formerly part of Taxation Bill)
    mp_name: Tony Ryall
  - id: 1
    name: Taxation Bill
    parliament_url: http://www.parliament.nz/taxation
    introduction: 2009-05-01
    first_reading: 2009-05-12
    referred_to: Health Committee
    mp_name: Tony Ryall
  - name: Orphan Bill
    parliament_url: http://www.parliament.nz/orphan
    introduction: 2010-01-10
    mp_name: Nobody
debates:
  - id: 100
    bill_id: 1
    name: First Reading
    date: 2009-05-12
organisations:
  - name: Federated Farmers
    url: http://www.fedfarm.org.nz/
`

func TestParseDatasetAndLoad(t *testing.T) {
	ds, err := ParseDataset([]byte(sampleDataset))
	if err != nil {
		t.Fatalf("ParseDataset() error = %v", err)
	}
	if len(ds.Bills) != 3 || ds.Bills[1].MemberName != "Tony Ryall" {
		t.Fatalf("parsed bills = %+v", ds.Bills)
	}

	r := New()
	errs := r.Load(ds)
	if len(errs) != 1 || !errors.Is(errs[0], bill.ErrInvalidReference) {
		t.Fatalf("Load() errors = %v, want one invalid reference", errs)
	}

	parent, ok := r.BillByID(1)
	if !ok {
		t.Fatal("bill 1 not loaded")
	}
	if parent.Slug != "taxation" || parent.CommitteeID != 7 || parent.MemberInChargeID != 11 {
		t.Errorf("parent = %+v", parent)
	}
	if !parent.EarliestDate.Equal(*date("2009-05-01")) {
		t.Errorf("parent EarliestDate = %v", parent.EarliestDate)
	}

	child, ok := r.BillByID(2)
	if !ok {
		t.Fatal("bill 2 not loaded")
	}
	if child.ParentID != 1 || !child.EarliestDate.Equal(*date("2009-05-01")) {
		t.Errorf("child = %+v", child)
	}
	if r.IsCurrent(parent) {
		t.Error("divided bill is current")
	}

	if groups := r.DebateGroups(parent); len(groups) != 1 || groups[0].Label != "First Reading" {
		t.Errorf("DebateGroups() = %+v", groups)
	}
	if o, ok := r.OrganisationByName("Federated Farmers"); !ok || o.Slug != "federated_farmers" || o.URL != "www.fedfarm.org.nz" {
		t.Errorf("OrganisationByName() = %+v, %v", o, ok)
	}
}

func TestLoadDatasetErrors(t *testing.T) {
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadDataset() of a missing file succeeded")
	}
	if _, err := ParseDataset([]byte("bills: {")); err == nil {
		t.Error("ParseDataset() of invalid YAML succeeded")
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	if err := os.WriteFile(path, []byte("bills: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan *Dataset, 1)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- Watch(ctx, path, logger, func(ds *Dataset) {
			select {
			case changed <- ds:
			default:
			}
		})
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ds := <-changed:
			if len(ds.Committees) != 1 {
				t.Errorf("reloaded dataset = %+v", ds)
			}
			cancel()
			if err := <-done; !errors.Is(err, context.Canceled) {
				t.Errorf("Watch() error = %v, want context.Canceled", err)
			}
			return
		case <-ticker.C:
			_ = os.WriteFile(path, []byte("committees:\n  - id: 1\n    name: Health Committee\n"), 0o644)
		case <-ctx.Done():
			t.Fatal("no change observed")
		}
	}
}
