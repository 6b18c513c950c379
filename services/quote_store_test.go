package services_test

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"jobquote/services"
	"jobquote/testhelpers"
)

func TestQuoteStore_SaveAndGet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewQuoteStore(app, zap.NewNop())

	q := testhelpers.SampleQuote("Jo Bloggs", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
	q.Notes = "Gate code 1234"
	q.JobAddress = "Allotment 7"
	q.IsInvoice = true

	saved, err := store.Save(q)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.ID != q.ID || got.Template != q.Template || got.Notes != q.Notes || got.JobAddress != q.JobAddress {
		t.Errorf("scalar fields did not round-trip: %+v", got)
	}
	if got.Customer != q.Customer {
		t.Errorf("customer = %+v, want %+v", got.Customer, q.Customer)
	}
	if !got.Date.Equal(q.Date) {
		t.Errorf("date = %v, want %v", got.Date, q.Date)
	}
	if !got.IsInvoice || got.TaxRate != 20 || got.CurrencyCode != "GBP" {
		t.Errorf("flags = invoice %v tax %v currency %q", got.IsInvoice, got.TaxRate, got.CurrencyCode)
	}
	if len(got.Items) != 1 || got.Items[0] != q.Items[0] {
		t.Errorf("items = %+v, want %+v", got.Items, q.Items)
	}
	if len(got.Extras) != 1 || got.Extras[0] != q.Extras[0] {
		t.Errorf("extras = %+v, want %+v", got.Extras, q.Extras)
	}
	if got.Total() != q.Total() {
		t.Errorf("total = %v, want %v", got.Total(), q.Total())
	}
}

func TestQuoteStore_SaveRejectsInvalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewQuoteStore(app, zap.NewNop())

	q := testhelpers.SampleQuote("  ", time.Now())
	if _, err := store.Save(q); !errors.Is(err, services.ErrInvalidQuote) {
		t.Fatalf("expected ErrInvalidQuote, got %v", err)
	}

	quotes, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("invalid quote was persisted: %d quotes", len(quotes))
	}
}

func TestQuoteStore_SaveAssignsIdentifiers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewQuoteStore(app, zap.NewNop())

	q := testhelpers.SampleQuote("Sam", time.Now())
	q.ID = ""
	q.Items = []services.LineItem{{Description: "No id yet", Hours: 1, Rate: 1}}

	saved, err := store.Save(q)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.ID == "" || saved.Items[0].ID == "" {
		t.Errorf("identifiers not assigned: quote %q item %q", saved.ID, saved.Items[0].ID)
	}
	if saved.Extras[0].ID != q.Extras[0].ID {
		t.Error("existing identifiers must be kept")
	}
}

func TestQuoteStore_ListNewestFirst(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewQuoteStore(app, zap.NewNop())

	older := testhelpers.CreateTestQuote(t, app, "Older", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	newest := testhelpers.CreateTestQuote(t, app, "Newest", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	middle := testhelpers.CreateTestQuote(t, app, "Middle", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	quotes, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{newest.ID, middle.ID, older.ID}
	if len(quotes) != len(want) {
		t.Fatalf("List() returned %d quotes, want %d", len(quotes), len(want))
	}
	for i, id := range want {
		if quotes[i].ID != id {
			t.Errorf("position %d = %s (%s), want %s", i, quotes[i].ID, quotes[i].Customer.Name, id)
		}
	}
}

func TestQuoteStore_Update(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewQuoteStore(app, zap.NewNop())
	q := testhelpers.CreateTestQuote(t, app, "Jo", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	notes := "Updated notes"
	extras := []services.ExtraItem{}
	updated, err := store.Update(q.ID, services.QuoteUpdate{Notes: &notes, Extras: &extras})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Notes != notes || len(updated.Extras) != 0 {
		t.Errorf("update not applied: %+v", updated)
	}

	got, err := store.Get(q.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Notes != notes || len(got.Extras) != 0 || got.Customer.Name != "Jo" {
		t.Errorf("stored quote = %+v", got)
	}
	if got.Subtotal() != 30 {
		t.Errorf("subtotal after removing extras = %v, want 30", got.Subtotal())
	}

	blank := services.Customer{Name: ""}
	if _, err := store.Update(q.ID, services.QuoteUpdate{Customer: &blank}); !errors.Is(err, services.ErrInvalidQuote) {
		t.Errorf("expected ErrInvalidQuote when clearing the name, got %v", err)
	}
	if _, err := store.Update("missing", services.QuoteUpdate{Notes: &notes}); !errors.Is(err, services.ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound, got %v", err)
	}
}

func TestQuoteStore_Delete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewQuoteStore(app, zap.NewNop())
	q := testhelpers.CreateTestQuote(t, app, "Jo", time.Now())

	if err := store.Delete(q.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(q.ID); !errors.Is(err, services.ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound after delete, got %v", err)
	}
	if err := store.Delete(q.ID); !errors.Is(err, services.ErrQuoteNotFound) {
		t.Errorf("second delete: expected ErrQuoteNotFound, got %v", err)
	}
}

func TestQuoteStore_SaveReplacesExisting(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewQuoteStore(app, zap.NewNop())
	q := testhelpers.CreateTestQuote(t, app, "Jo", time.Now())

	q.TaxRate = 0
	q.Customer.Name = "Jo Smith"
	if _, err := store.Save(q); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	quotes, _ := store.List()
	if len(quotes) != 1 {
		t.Fatalf("expected a single record, got %d", len(quotes))
	}
	if quotes[0].Customer.Name != "Jo Smith" || quotes[0].TaxRate != 0 {
		t.Errorf("stored quote = %+v", quotes[0])
	}
}

func TestQuoteStore_SaveReplacesRepeatedItemIDs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	store := services.NewQuoteStore(app, zap.NewNop())

	q := testhelpers.SampleQuote("Jo", time.Now())
	q.Items = append(q.Items, q.Items[0])
	q.Extras = append(q.Extras, q.Extras[0], services.ExtraItem{ID: q.Items[0].ID, Name: "Skip", Price: 80})

	saved, err := store.Save(q)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if len(got.Items) != 2 || len(got.Extras) != 3 {
		t.Fatalf("stored %d items and %d extras", len(got.Items), len(got.Extras))
	}
	if got.Items[0].ID != q.Items[0].ID || got.Extras[0].ID != q.Extras[0].ID {
		t.Error("the first use of an id must be kept")
	}
	seen := map[string]bool{}
	for _, id := range []string{got.Items[0].ID, got.Items[1].ID, got.Extras[0].ID, got.Extras[1].ID, got.Extras[2].ID} {
		if seen[id] {
			t.Errorf("id %s stored more than once", id)
		}
		seen[id] = true
	}

	e := services.NewEditor(got)
	if !e.RemoveItem(got.Items[1].ID) {
		t.Fatal("RemoveItem() = false")
	}
	if items := e.Quote().Items; len(items) != 1 || items[0].ID != q.Items[0].ID {
		t.Errorf("removing the copy also removed the original: %+v", items)
	}
}
