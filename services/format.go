package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencyCode is used when neither the quote nor the settings name one.
const DefaultCurrencyCode = "GBP"

// defaultSymbol is printed for codes without a known symbol.
const defaultSymbol = "£"

var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
	"AUD": "A$",
	"CAD": "CA$",
	"NZD": "NZ$",
}

// CanonicalCurrency upper-cases and validates an ISO 4217 code. The second
// result is false for anything that is not a recognised currency.
func CanonicalCurrency(code string) (string, bool) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", false
	}
	return unit.String(), true
}

// CurrencySymbol returns the display symbol for code, falling back to £.
func CurrencySymbol(code string) string {
	canonical, ok := CanonicalCurrency(code)
	if !ok {
		return defaultSymbol
	}
	if sym, ok := currencySymbols[canonical]; ok {
		return sym
	}
	return defaultSymbol
}

// MoneyFormatter renders every monetary value of a document. One instance is
// built per document so table rows and totals share the exact same routine.
type MoneyFormatter struct {
	symbol  string
	printer *message.Printer
}

func NewMoneyFormatter(currencyCode string) MoneyFormatter {
	return MoneyFormatter{
		symbol:  CurrencySymbol(currencyCode),
		printer: message.NewPrinter(language.BritishEnglish),
	}
}

// Format returns symbol + amount with exactly two decimals and locale digit
// grouping, e.g. £1,234.50 or -£5.00. Rounding is half away from zero on the
// decimal value, not on the binary float.
func (f MoneyFormatter) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprintf("%s%v", f.symbol, amount)
	}

	d := decimal.NewFromFloat(amount).Round(2)
	negative := d.IsNegative()
	if negative {
		d = d.Neg()
	}

	result := f.symbol + f.printer.Sprintf("%.2f", d.InexactFloat64())
	if negative {
		result = "-" + result
	}
	return result
}

func (f MoneyFormatter) Symbol() string {
	return f.symbol
}

// FormatHours renders hours with exactly one decimal place.
func FormatHours(hours float64) string {
	return fixed(hours, 1)
}

// FormatTaxRate renders a percentage with two decimals, e.g. "20.00%".
func FormatTaxRate(rate float64) string {
	return fixed(rate, 2) + "%"
}

// FormatDate is the abbreviated date used on documents and titles.
func FormatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}

func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
