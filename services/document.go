package services

import (
	"strings"
	"time"

	"github.com/tiendc/go-deepcopy"
)

// BlockKind identifies a section of the printable document.
type BlockKind string

const (
	BlockHeader     BlockKind = "header"
	BlockParties    BlockKind = "parties"
	BlockJobAddress BlockKind = "job_address"
	BlockItems      BlockKind = "items"
	BlockExtras     BlockKind = "extras"
	BlockTotals     BlockKind = "totals"
	BlockNotes      BlockKind = "notes"
	BlockPhotos     BlockKind = "photos"
	BlockFooter     BlockKind = "footer"
)

// MaxDocumentPhotos is how many attached photos a document shows.
const MaxDocumentPhotos = 3

const FooterText = "Thank you for your business! Payment due within 14 days. Questions? Contact us anytime."

// Table is a grid of pre-formatted cells. Columns may be empty for
// label/value tables such as the totals.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Photo is a renderer-ready image: PNG bytes plus pixel size.
type Photo struct {
	Data   []byte
	Width  int
	Height int
}

// Block is one typed section. Every string in it is already formatted.
type Block struct {
	Kind    BlockKind
	Heading string
	Lines   []string
	Table   *Table
	Photos  []Photo
}

// Document is the renderer-agnostic description of one printed page.
// Screen and PDF output both walk Blocks in order.
type Document struct {
	Title        string // "QUOTE" or "INVOICE"
	QuoteTitle   string
	QuoteNumber  string
	CurrencyCode string
	Date         time.Time
	ValidUntil   time.Time
	Subtotal     float64
	Tax          float64
	Total        float64
	Blocks       []Block
}

// Block returns the first block of the given kind.
func (d Document) Block(kind BlockKind) (Block, bool) {
	for _, b := range d.Blocks {
		if b.Kind == kind {
			return b, true
		}
	}
	return Block{}, false
}

func (d Document) HasBlock(kind BlockKind) bool {
	_, ok := d.Block(kind)
	return ok
}

// TextContent lists every visible string in rendering order: for each block
// its heading, lines, table columns and then table cells row by row. Blank
// strings are skipped. Both renderers must reproduce exactly this sequence.
func (d Document) TextContent() []string {
	var out []string
	add := func(s string) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	for _, b := range d.Blocks {
		add(b.Heading)
		for _, l := range b.Lines {
			add(l)
		}
		if b.Table != nil {
			for _, c := range b.Table.Columns {
				add(c)
			}
			for _, row := range b.Table.Rows {
				for _, cell := range row {
					add(cell)
				}
			}
		}
	}
	return out
}

// BuildDocument assembles the document for q. It works on a private copy of
// the quote, so the caller may keep editing while a render is in flight.
// Optional sections with no content are left out.
func BuildDocument(q Quote, business BusinessInfo, photos []Photo) Document {
	snap := snapshotQuote(q)
	money := NewMoneyFormatter(snap.CurrencyCode)
	totals := snap.Totals()

	title := "QUOTE"
	itemsHeading := "Quoted Services"
	totalLabel := "TOTAL QUOTE:"
	if snap.IsInvoice {
		title = "INVOICE"
		itemsHeading = "Services / Items"
		totalLabel = "TOTAL DUE:"
	}

	doc := Document{
		Title:        title,
		QuoteTitle:   snap.Title(),
		QuoteNumber:  snap.QuoteNumber(),
		CurrencyCode: snap.CurrencyCode,
		Date:         snap.Date,
		ValidUntil:   snap.ValidUntil(),
		Subtotal:     totals.Subtotal,
		Tax:          totals.Tax,
		Total:        totals.Total,
	}

	doc.Blocks = append(doc.Blocks, Block{
		Kind:    BlockHeader,
		Heading: strings.ToUpper(business.Name),
		Lines: nonBlank(
			business.Address,
			joinNonEmpty([]string{business.Phone, business.Email}, " • "),
			business.Website,
		),
		Table: &Table{Rows: [][]string{
			{title, FormatDate(doc.Date)},
			{"No: " + doc.QuoteNumber, "Valid until: " + FormatDate(doc.ValidUntil)},
		}},
	})

	doc.Blocks = append(doc.Blocks, Block{
		Kind:    BlockParties,
		Heading: "Bill To:",
		Lines: nonBlank(
			snap.Customer.Name,
			snap.Customer.Address,
			fmtField("Ph", snap.Customer.Phone),
			fmtField("Email", snap.Customer.Email),
		),
	})

	if snap.HasJobAddress() {
		doc.Blocks = append(doc.Blocks, Block{
			Kind:  BlockJobAddress,
			Lines: []string{"Job Location: " + strings.TrimSpace(snap.JobAddress)},
		})
	}

	items := &Table{Columns: []string{"Description", "Qty/Hrs", "Rate", "Amount"}}
	for _, item := range snap.Items {
		items.Rows = append(items.Rows, []string{
			item.Description,
			FormatHours(item.Hours),
			money.Format(item.Rate),
			money.Format(item.Total()),
		})
	}
	doc.Blocks = append(doc.Blocks, Block{Kind: BlockItems, Heading: itemsHeading, Table: items})

	if len(snap.Extras) > 0 {
		extras := &Table{Columns: []string{"Item", "Price"}}
		for _, extra := range snap.Extras {
			extras.Rows = append(extras.Rows, []string{extra.Name, money.Format(extra.Price)})
		}
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockExtras, Heading: "Extras", Table: extras})
	}

	doc.Blocks = append(doc.Blocks, Block{
		Kind: BlockTotals,
		Table: &Table{Rows: [][]string{
			{"Subtotal:", money.Format(totals.Subtotal)},
			{"Tax (" + FormatTaxRate(snap.TaxRate) + "):", money.Format(totals.Tax)},
			{totalLabel, money.Format(totals.Total)},
		}},
	})

	if strings.TrimSpace(snap.Notes) != "" {
		doc.Blocks = append(doc.Blocks, Block{
			Kind:    BlockNotes,
			Heading: "Notes / Terms",
			Lines:   splitLines(snap.Notes),
		})
	}

	if len(photos) > 0 {
		n := min(len(photos), MaxDocumentPhotos)
		shown := make([]Photo, n)
		copy(shown, photos[:n])
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockPhotos, Heading: "Photos", Photos: shown})
	}

	doc.Blocks = append(doc.Blocks, Block{Kind: BlockFooter, Lines: []string{FooterText}})

	return doc
}

// snapshotQuote detaches the item and extra slices from the caller's quote.
func snapshotQuote(q Quote) Quote {
	snap := q
	snap.Items, snap.Extras = nil, nil
	if err := deepcopy.Copy(&snap.Items, &q.Items); err != nil {
		snap.Items = append([]LineItem(nil), q.Items...)
	}
	if err := deepcopy.Copy(&snap.Extras, &q.Extras); err != nil {
		snap.Extras = append([]ExtraItem(nil), q.Extras...)
	}
	return snap
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func splitLines(s string) []string {
	return strings.Split(newlines.Replace(s), "\n")
}

func nonBlank(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}
