package services

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Template is the job category picked when a quote is created. It is a
// display label only.
type Template string

const (
	TemplateManVan       Template = "Man + Van"
	TemplateGarageWork   Template = "Garage Work"
	TemplateGardenWork   Template = "Garden Work"
	TemplateSmallRepairs Template = "Small Repairs"
	TemplatePlumbing     Template = "Plumbing"
	TemplateRoofing      Template = "Roofing"
)

var templates = []Template{
	TemplateManVan,
	TemplateGarageWork,
	TemplateGardenWork,
	TemplateSmallRepairs,
	TemplatePlumbing,
	TemplateRoofing,
}

// Templates returns the closed set of job templates in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// ParseTemplate returns the template with the given label.
func ParseTemplate(label string) (Template, error) {
	for _, t := range templates {
		if string(t) == label {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, label)
}

func templateValues() []any {
	values := make([]any, len(templates))
	for i, t := range templates {
		values[i] = string(t)
	}
	return values
}

// LineItem is an hourly piece of work.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Rate        float64 `json:"rate"`
}

func NewLineItem(description string, hours, rate float64) LineItem {
	return LineItem{ID: uuid.NewString(), Description: description, Hours: hours, Rate: rate}
}

// Total is always recomputed from the current hours and rate.
func (i LineItem) Total() float64 {
	return CalcLineTotal(i.Hours, i.Rate)
}

// ExtraItem is a flat-priced add-on.
type ExtraItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func NewExtraItem(name string, price float64) ExtraItem {
	return ExtraItem{ID: uuid.NewString(), Name: name, Price: price}
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// BusinessInfo is the sender profile printed in the document header.
type BusinessInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Website string `json:"website"`
}

// Quote is the aggregate for one job estimate or invoice. Money values are
// never stored on it; use Subtotal, TaxAmount and Total.
type Quote struct {
	ID           string      `json:"id"`
	Template     Template    `json:"template"`
	Items        []LineItem  `json:"items"`
	Extras       []ExtraItem `json:"extras"`
	Notes        string      `json:"notes"`
	Customer     Customer    `json:"customer"`
	JobAddress   string      `json:"job_address,omitempty"`
	TaxRate      float64     `json:"tax_rate"`
	Date         time.Time   `json:"date"`
	IsInvoice    bool        `json:"is_invoice"`
	CurrencyCode string      `json:"currency_code"`
}

// NewQuote starts an empty quote with a fresh identifier.
func NewQuote(template Template, date time.Time, currencyCode string) Quote {
	return Quote{
		ID:           uuid.NewString(),
		Template:     template,
		Date:         date,
		CurrencyCode: currencyCode,
	}
}

func (q Quote) Subtotal() float64 {
	return CalcSubtotal(q.Items, q.Extras)
}

func (q Quote) TaxAmount() float64 {
	return CalcTax(q.Subtotal(), q.TaxRate)
}

func (q Quote) Total() float64 {
	return CalcTotal(q.Subtotal(), q.TaxAmount())
}

func (q Quote) Totals() QuoteTotals {
	return CalcQuoteTotals(q.Items, q.Extras, q.TaxRate)
}

func (q Quote) QuoteNumber() string {
	return QuoteNumber(q.ID)
}

// Title is "{template} – {date}".
func (q Quote) Title() string {
	return string(q.Template) + " – " + FormatDate(q.Date)
}

func (q Quote) ValidUntil() time.Time {
	return ValidUntil(q.Date)
}

// Kind is "Invoice" or "Quote"; it only changes labels.
func (q Quote) Kind() string {
	if q.IsInvoice {
		return "Invoice"
	}
	return "Quote"
}

// HasJobAddress reports whether a job-site address distinct from the
// billing address was given.
func (q Quote) HasJobAddress() bool {
	return strings.TrimSpace(q.JobAddress) != ""
}

// Validate is the save guard. Numeric fields are deliberately not checked.
func (q Quote) Validate() error {
	err := validation.Errors{
		"customer.name": validation.Validate(
			strings.TrimSpace(q.Customer.Name),
			validation.Required.Error("customer name is required"),
		),
		"template": validation.Validate(
			string(q.Template),
			validation.Required,
			validation.In(templateValues()...).Error("must be one of the job templates"),
		),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	return nil
}

func (q Quote) CanSave() bool {
	return q.Validate() == nil
}

// QuoteUpdate lists every mutable quote field. Nil fields are left as they
// are. The identifier is not part of the list.
type QuoteUpdate struct {
	Template     *Template    `json:"template,omitempty"`
	Items        *[]LineItem  `json:"items,omitempty"`
	Extras       *[]ExtraItem `json:"extras,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	Customer     *Customer    `json:"customer,omitempty"`
	JobAddress   *string      `json:"job_address,omitempty"`
	TaxRate      *float64     `json:"tax_rate,omitempty"`
	Date         *time.Time   `json:"date,omitempty"`
	IsInvoice    *bool        `json:"is_invoice,omitempty"`
	CurrencyCode *string      `json:"currency_code,omitempty"`
}

// Update returns a copy of q with the non-nil fields of u applied.
func (q Quote) Update(u QuoteUpdate) Quote {
	next := q
	if u.Template != nil {
		next.Template = *u.Template
	}
	if u.Items != nil {
		next.Items = append([]LineItem(nil), (*u.Items)...)
	}
	if u.Extras != nil {
		next.Extras = append([]ExtraItem(nil), (*u.Extras)...)
	}
	if u.Notes != nil {
		next.Notes = *u.Notes
	}
	if u.Customer != nil {
		next.Customer = *u.Customer
	}
	if u.JobAddress != nil {
		next.JobAddress = *u.JobAddress
	}
	if u.TaxRate != nil {
		next.TaxRate = *u.TaxRate
	}
	if u.Date != nil {
		next.Date = *u.Date
	}
	if u.IsInvoice != nil {
		next.IsInvoice = *u.IsInvoice
	}
	if u.CurrencyCode != nil {
		next.CurrencyCode = *u.CurrencyCode
	}
	return next
}
