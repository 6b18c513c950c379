package services

import (
	"strings"
	"testing"
)

func TestBuildDocument_MowLawn(t *testing.T) {
	q := mowLawnQuote()
	doc := BuildDocument(q, testBusiness(), nil)

	if doc.Title != "QUOTE" {
		t.Errorf("Title = %q, want QUOTE", doc.Title)
	}
	if doc.Subtotal != 30 || doc.Tax != 6 || doc.Total != 36 {
		t.Errorf("totals = %v/%v/%v, want 30/6/36", doc.Subtotal, doc.Tax, doc.Total)
	}

	items, ok := doc.Block(BlockItems)
	if !ok {
		t.Fatal("items block missing")
	}
	if items.Heading != "Quoted Services" {
		t.Errorf("items heading = %q", items.Heading)
	}
	wantRow := []string{"Mow lawn", "2.0", "£15.00", "£30.00"}
	if len(items.Table.Rows) != 1 || !equalStrings(items.Table.Rows[0], wantRow) {
		t.Errorf("item rows = %v, want [%v]", items.Table.Rows, wantRow)
	}

	totals, _ := doc.Block(BlockTotals)
	wantTotals := [][]string{
		{"Subtotal:", "£30.00"},
		{"Tax (20.00%):", "£6.00"},
		{"TOTAL QUOTE:", "£36.00"},
	}
	for i, want := range wantTotals {
		if !equalStrings(totals.Table.Rows[i], want) {
			t.Errorf("totals row %d = %v, want %v", i, totals.Table.Rows[i], want)
		}
	}

	header, _ := doc.Block(BlockHeader)
	if header.Heading != "GREEN THUMB LTD" {
		t.Errorf("business name = %q", header.Heading)
	}
	if header.Table.Rows[1][1] != "Valid until: 4 Apr 2024" {
		t.Errorf("valid until = %q", header.Table.Rows[1][1])
	}
	if !strings.HasPrefix(header.Table.Rows[1][0], "No: Q-") {
		t.Errorf("quote number cell = %q", header.Table.Rows[1][0])
	}
}

func TestBuildDocument_BlockOrder(t *testing.T) {
	q := mowLawnQuote()
	q.Extras = []ExtraItem{NewExtraItem("Skip hire", 80)}
	q.Notes = "Gate code 1234"
	q.JobAddress = "22 Acacia Avenue"
	photo := Photo{Data: []byte{1}, Width: 1, Height: 1}

	doc := BuildDocument(q, testBusiness(), []Photo{photo})

	want := []BlockKind{
		BlockHeader, BlockParties, BlockJobAddress, BlockItems, BlockExtras,
		BlockTotals, BlockNotes, BlockPhotos, BlockFooter,
	}
	var got []BlockKind
	for _, b := range doc.Blocks {
		got = append(got, b.Kind)
	}
	if len(got) != len(want) {
		t.Fatalf("blocks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBuildDocument_OptionalBlocks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Quote)
		photos int
		kind   BlockKind
		want   bool
	}{
		{"no extras", func(q *Quote) {}, 0, BlockExtras, false},
		{"extras present", func(q *Quote) { q.Extras = []ExtraItem{{Name: "Skip", Price: 80}} }, 0, BlockExtras, true},
		{"blank notes", func(q *Quote) { q.Notes = " \n\t " }, 0, BlockNotes, false},
		{"notes present", func(q *Quote) { q.Notes = "Cash only" }, 0, BlockNotes, true},
		{"no job address", func(q *Quote) {}, 0, BlockJobAddress, false},
		{"blank job address", func(q *Quote) { q.JobAddress = "  " }, 0, BlockJobAddress, false},
		{"job address", func(q *Quote) { q.JobAddress = "Allotment 7" }, 0, BlockJobAddress, true},
		{"no photos", func(q *Quote) {}, 0, BlockPhotos, false},
		{"photos", func(q *Quote) {}, 2, BlockPhotos, true},
		{"items always present", func(q *Quote) { q.Items = nil }, 0, BlockItems, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mowLawnQuote()
			tt.mutate(&q)
			photos := make([]Photo, tt.photos)
			doc := BuildDocument(q, testBusiness(), photos)
			if got := doc.HasBlock(tt.kind); got != tt.want {
				t.Errorf("HasBlock(%s) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestBuildDocument_ExtrasRows(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		q := mowLawnQuote()
		for i := 0; i < n; i++ {
			q.Extras = append(q.Extras, NewExtraItem("extra", float64(i)))
		}
		extras, ok := BuildDocument(q, testBusiness(), nil).Block(BlockExtras)
		if !ok {
			t.Fatalf("extras block missing for %d extras", n)
		}
		if len(extras.Table.Rows) != n {
			t.Errorf("extras rows = %d, want %d", len(extras.Table.Rows), n)
		}
		if !equalStrings(extras.Table.Columns, []string{"Item", "Price"}) {
			t.Errorf("extras columns = %v", extras.Table.Columns)
		}
	}
}

func TestBuildDocument_EmptyQuote(t *testing.T) {
	q := NewQuote(TemplateSmallRepairs, refDate, "GBP")
	q.TaxRate = 10

	doc := BuildDocument(q, BusinessInfo{}, nil)
	if doc.Subtotal != 0 || doc.Tax != 0 || doc.Total != 0 {
		t.Errorf("totals = %v/%v/%v, want zeros", doc.Subtotal, doc.Tax, doc.Total)
	}

	items, ok := doc.Block(BlockItems)
	if !ok {
		t.Fatal("items block missing")
	}
	if len(items.Table.Rows) != 0 {
		t.Errorf("expected header-only item table, got %d rows", len(items.Table.Rows))
	}
	if !equalStrings(items.Table.Columns, []string{"Description", "Qty/Hrs", "Rate", "Amount"}) {
		t.Errorf("item columns = %v", items.Table.Columns)
	}

	totals, _ := doc.Block(BlockTotals)
	if totals.Table.Rows[2][1] != "£0.00" {
		t.Errorf("total = %q, want £0.00", totals.Table.Rows[2][1])
	}
}

func TestBuildDocument_Notes(t *testing.T) {
	q := mowLawnQuote()
	q.Notes = "Access via side gate.\n\nPayment by bank transfer."

	notes, ok := BuildDocument(q, testBusiness(), nil).Block(BlockNotes)
	if !ok {
		t.Fatal("notes block missing")
	}
	if notes.Heading != "Notes / Terms" {
		t.Errorf("notes heading = %q", notes.Heading)
	}
	if got := strings.Join(notes.Lines, "\n"); got != q.Notes {
		t.Errorf("notes text = %q, want %q", got, q.Notes)
	}
}

func TestBuildDocument_InvoiceLabels(t *testing.T) {
	q := mowLawnQuote()
	q.IsInvoice = true
	doc := BuildDocument(q, testBusiness(), nil)

	if doc.Title != "INVOICE" {
		t.Errorf("Title = %q", doc.Title)
	}
	items, _ := doc.Block(BlockItems)
	if items.Heading != "Services / Items" {
		t.Errorf("items heading = %q", items.Heading)
	}
	totals, _ := doc.Block(BlockTotals)
	if totals.Table.Rows[2][0] != "TOTAL DUE:" {
		t.Errorf("total label = %q", totals.Table.Rows[2][0])
	}
}

func TestBuildDocument_PhotoLimit(t *testing.T) {
	var photos []Photo
	for i := 1; i <= 5; i++ {
		photos = append(photos, Photo{Width: i})
	}
	block, ok := BuildDocument(mowLawnQuote(), testBusiness(), photos).Block(BlockPhotos)
	if !ok {
		t.Fatal("photos block missing")
	}
	if len(block.Photos) != MaxDocumentPhotos {
		t.Fatalf("photos = %d, want %d", len(block.Photos), MaxDocumentPhotos)
	}
	for i, p := range block.Photos {
		if p.Width != i+1 {
			t.Errorf("photo %d out of order: width %d", i, p.Width)
		}
	}
}

func TestBuildDocument_Snapshot(t *testing.T) {
	q := mowLawnQuote()
	q.Extras = []ExtraItem{NewExtraItem("Skip", 80)}
	doc := BuildDocument(q, testBusiness(), nil)

	q.Items[0].Description = "edited later"
	q.Items[0].Hours = 100
	q.Extras[0].Name = "edited later"

	items, _ := doc.Block(BlockItems)
	if items.Table.Rows[0][0] != "Mow lawn" || doc.Subtotal != 110 {
		t.Errorf("document changed after source edit: %v, subtotal %v", items.Table.Rows[0], doc.Subtotal)
	}
	extras, _ := doc.Block(BlockExtras)
	if extras.Table.Rows[0][0] != "Skip" {
		t.Errorf("extras changed after source edit: %v", extras.Table.Rows[0])
	}
}

func TestBuildDocument_PartiesAndCurrency(t *testing.T) {
	q := mowLawnQuote()
	q.CurrencyCode = "EUR"
	q.Customer.Phone = ""
	doc := BuildDocument(q, testBusiness(), nil)

	parties, _ := doc.Block(BlockParties)
	want := []string{"Jo Bloggs", "1 High St", "Email: jo@example.com"}
	if parties.Heading != "Bill To:" || !equalStrings(parties.Lines, want) {
		t.Errorf("parties = %q %v, want Bill To: %v", parties.Heading, parties.Lines, want)
	}

	totals, _ := doc.Block(BlockTotals)
	if totals.Table.Rows[2][1] != "€36.00" {
		t.Errorf("total = %q, want €36.00", totals.Table.Rows[2][1])
	}
}

func TestDocument_TextContent(t *testing.T) {
	q := mowLawnQuote()
	q.Notes = "line one\n\nline two"
	doc := BuildDocument(q, BusinessInfo{Name: "Acme"}, nil)
	text := doc.TextContent()

	for _, s := range text {
		if strings.TrimSpace(s) == "" {
			t.Fatal("TextContent must not contain blank strings")
		}
	}
	if text[0] != "ACME" {
		t.Errorf("first string = %q, want ACME", text[0])
	}
	if text[len(text)-1] != FooterText {
		t.Errorf("last string = %q, want footer", text[len(text)-1])
	}

	idx := func(s string) int {
		for i, v := range text {
			if v == s {
				return i
			}
		}
		return -1
	}
	order := []string{"QUOTE", "Bill To:", "Quoted Services", "Description", "Mow lawn", "£30.00", "Subtotal:", "TOTAL QUOTE:", "Notes / Terms", "line one", "line two"}
	prev := -1
	for _, s := range order {
		i := idx(s)
		if i <= prev {
			t.Fatalf("%q at %d, expected after %d in %v", s, i, prev, text)
		}
		prev = i
	}
}
