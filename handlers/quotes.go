package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"jobquote/services"
)

// quoteResponse is a stored quote plus the values derived from it.
type quoteResponse struct {
	services.Quote
	QuoteNumber string    `json:"quote_number"`
	Title       string    `json:"title"`
	Kind        string    `json:"kind"`
	Subtotal    float64   `json:"subtotal"`
	Tax         float64   `json:"tax"`
	Total       float64   `json:"total"`
	ValidUntil  time.Time `json:"valid_until"`
}

func newQuoteResponse(q services.Quote) quoteResponse {
	totals := q.Totals()
	return quoteResponse{
		Quote:       q,
		QuoteNumber: q.QuoteNumber(),
		Title:       q.Title(),
		Kind:        q.Kind(),
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		Total:       totals.Total,
		ValidUntil:  q.ValidUntil(),
	}
}

// quoteCreateRequest is the body of POST /quotes. Missing date and currency
// fall back to now and the defaultCurrency setting.
type quoteCreateRequest struct {
	Template     string               `json:"template"`
	Date         *time.Time           `json:"date"`
	Customer     services.Customer    `json:"customer"`
	Items        []services.LineItem  `json:"items"`
	Extras       []services.ExtraItem `json:"extras"`
	Notes        string               `json:"notes"`
	JobAddress   string               `json:"job_address"`
	TaxRate      float64              `json:"tax_rate"`
	IsInvoice    bool                 `json:"is_invoice"`
	CurrencyCode string               `json:"currency_code"`
}

// quoteError maps store errors to responses.
func quoteError(e *core.RequestEvent, err error) error {
	switch {
	case errors.Is(err, services.ErrQuoteNotFound):
		return ErrorToast(e, http.StatusNotFound, "Quote not found")
	case errors.Is(err, services.ErrInvalidQuote), errors.Is(err, services.ErrUnknownTemplate):
		return ErrorToast(e, http.StatusUnprocessableEntity, err.Error())
	default:
		zap.L().Error("quotes: request failed", zap.String("path", e.Request.URL.Path), zap.Error(err))
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// HandleTemplateList returns the job templates in display order.
func HandleTemplateList() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, services.Templates())
	}
}

// HandleQuoteList returns every saved quote, newest reference date first.
func HandleQuoteList(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotes, err := services.NewQuoteStore(app, zap.L()).List()
		if err != nil {
			return quoteError(e, err)
		}
		out := make([]quoteResponse, len(quotes))
		for i, q := range quotes {
			out[i] = newQuoteResponse(q)
		}
		return e.JSON(http.StatusOK, out)
	}
}

func HandleQuoteCreate(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteCreateRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid quote data")
		}

		template, err := services.ParseTemplate(strings.TrimSpace(req.Template))
		if err != nil {
			return quoteError(e, err)
		}

		date := time.Now()
		if req.Date != nil && !req.Date.IsZero() {
			date = *req.Date
		}
		currency, ok := services.CanonicalCurrency(req.CurrencyCode)
		if !ok {
			currency = services.NewSettingsStore(app).DefaultCurrency()
		}

		q := services.NewQuote(template, date, currency)
		q.Customer = req.Customer
		q.Items = req.Items
		q.Extras = req.Extras
		q.Notes = req.Notes
		q.JobAddress = req.JobAddress
		q.TaxRate = req.TaxRate
		q.IsInvoice = req.IsInvoice

		saved, err := services.NewQuoteStore(app, zap.L()).Save(q)
		if err != nil {
			return quoteError(e, err)
		}
		SetToast(e, "success", saved.Kind()+" saved")
		return e.JSON(http.StatusCreated, newQuoteResponse(saved))
	}
}

func HandleQuoteGet(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := services.NewQuoteStore(app, zap.L()).Get(e.Request.PathValue("id"))
		if err != nil {
			return quoteError(e, err)
		}
		return e.JSON(http.StatusOK, newQuoteResponse(q))
	}
}

// HandleQuotePatch applies a partial update. Only the fields present in the
// body change; the result must still be saveable.
func HandleQuotePatch(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var update services.QuoteUpdate
		if err := e.BindBody(&update); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid quote data")
		}
		if update.CurrencyCode != nil {
			code, ok := services.CanonicalCurrency(*update.CurrencyCode)
			if !ok {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Unknown currency code")
			}
			update.CurrencyCode = &code
		}

		q, err := services.NewQuoteStore(app, zap.L()).Update(e.Request.PathValue("id"), update)
		if err != nil {
			return quoteError(e, err)
		}
		return e.JSON(http.StatusOK, newQuoteResponse(q))
	}
}

func HandleQuoteDelete(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := services.NewQuoteStore(app, zap.L()).Delete(id); err != nil {
			return quoteError(e, err)
		}
		SetToast(e, "success", "Quote deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
