package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

const QuotesCollection = "quotes"

// QuoteStore persists quotes in the pocketbase "quotes" collection. The quote
// identifier lives in the unique "uid" field; the record id is internal.
type QuoteStore struct {
	app    core.App
	logger *zap.Logger
}

func NewQuoteStore(app core.App, logger *zap.Logger) *QuoteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteStore{app: app, logger: logger}
}

// Save writes q, creating the record or replacing every field of an existing
// one. Quotes that fail Validate are rejected with ErrInvalidQuote. Missing
// quote and item identifiers are assigned; the stored value is returned.
func (s *QuoteStore) Save(q Quote) (Quote, error) {
	if err := q.Validate(); err != nil {
		return Quote{}, err
	}
	q = withIdentifiers(q)

	record, err := s.findRecord(q.ID)
	switch {
	case errors.Is(err, ErrQuoteNotFound):
		col, err := s.app.FindCollectionByNameOrId(QuotesCollection)
		if err != nil {
			return Quote{}, fmt.Errorf("quote_store: find collection: %w", err)
		}
		record = core.NewRecord(col)
	case err != nil:
		return Quote{}, err
	}

	writeQuote(record, q)
	if err := s.app.Save(record); err != nil {
		s.logger.Error("quote_store: save failed", zap.String("quote", q.ID), zap.Error(err))
		return Quote{}, fmt.Errorf("quote_store: save %s: %w", q.ID, err)
	}
	return q, nil
}

func (s *QuoteStore) Get(id string) (Quote, error) {
	record, err := s.findRecord(id)
	if err != nil {
		return Quote{}, err
	}
	return readQuote(record)
}

// Update applies u to the stored quote. The result must still pass Validate.
func (s *QuoteStore) Update(id string, u QuoteUpdate) (Quote, error) {
	record, err := s.findRecord(id)
	if err != nil {
		return Quote{}, err
	}
	current, err := readQuote(record)
	if err != nil {
		return Quote{}, err
	}

	next := withIdentifiers(current.Update(u))
	if err := next.Validate(); err != nil {
		return Quote{}, err
	}

	writeQuote(record, next)
	if err := s.app.Save(record); err != nil {
		s.logger.Error("quote_store: update failed", zap.String("quote", id), zap.Error(err))
		return Quote{}, fmt.Errorf("quote_store: update %s: %w", id, err)
	}
	return next, nil
}

func (s *QuoteStore) Delete(id string) error {
	record, err := s.findRecord(id)
	if err != nil {
		return err
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("quote_store: delete %s: %w", id, err)
	}
	return nil
}

// List returns every saved quote, most recent reference date first.
func (s *QuoteStore) List() ([]Quote, error) {
	var records []*core.Record
	err := s.app.RecordQuery(QuotesCollection).
		OrderBy("date DESC", "created DESC").
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("quote_store: list: %w", err)
	}

	quotes := make([]Quote, 0, len(records))
	for _, record := range records {
		q, err := readQuote(record)
		if err != nil {
			s.logger.Warn("quote_store: skipping unreadable record", zap.String("record", record.Id), zap.Error(err))
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (s *QuoteStore) findRecord(id string) (*core.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrQuoteNotFound
	}
	record, err := s.app.FindFirstRecordByFilter(QuotesCollection, "uid = {:uid}", dbx.Params{"uid": id})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
		}
		return nil, fmt.Errorf("quote_store: find %s: %w", id, err)
	}
	return record, nil
}

// withIdentifiers assigns ids to the quote and any item that lacks one. An
// item or extra whose id repeats an earlier one in the quote gets a fresh id,
// so ids stay unique within a quote. Other ids are never changed.
func withIdentifiers(q Quote) Quote {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	seen := make(map[string]struct{}, len(q.Items)+len(q.Extras))
	unique := func(id string) string {
		if _, dup := seen[id]; id == "" || dup {
			id = uuid.NewString()
		}
		seen[id] = struct{}{}
		return id
	}

	items := make([]LineItem, len(q.Items))
	copy(items, q.Items)
	for i := range items {
		items[i].ID = unique(items[i].ID)
	}
	extras := make([]ExtraItem, len(q.Extras))
	copy(extras, q.Extras)
	for i := range extras {
		extras[i].ID = unique(extras[i].ID)
	}
	q.Items, q.Extras = items, extras
	return q
}

// writeQuote copies every stored field of q onto record.
func writeQuote(record *core.Record, q Quote) {
	items, extras := q.Items, q.Extras
	if items == nil {
		items = []LineItem{}
	}
	if extras == nil {
		extras = []ExtraItem{}
	}
	record.Set("uid", q.ID)
	record.Set("template", string(q.Template))
	record.Set("items", items)
	record.Set("extras", extras)
	record.Set("customer", q.Customer)
	record.Set("notes", q.Notes)
	record.Set("job_address", q.JobAddress)
	record.Set("tax_rate", q.TaxRate)
	record.Set("date", q.Date)
	record.Set("is_invoice", q.IsInvoice)
	record.Set("currency_code", q.CurrencyCode)
}

func readQuote(record *core.Record) (Quote, error) {
	q := Quote{
		ID:           record.GetString("uid"),
		Template:     Template(record.GetString("template")),
		Notes:        record.GetString("notes"),
		JobAddress:   record.GetString("job_address"),
		TaxRate:      record.GetFloat("tax_rate"),
		Date:         record.GetDateTime("date").Time(),
		IsInvoice:    record.GetBool("is_invoice"),
		CurrencyCode: record.GetString("currency_code"),
	}
	if err := unmarshalJSONField(record, "items", &q.Items); err != nil {
		return Quote{}, err
	}
	if err := unmarshalJSONField(record, "extras", &q.Extras); err != nil {
		return Quote{}, err
	}
	if err := unmarshalJSONField(record, "customer", &q.Customer); err != nil {
		return Quote{}, err
	}
	return q, nil
}

func unmarshalJSONField(record *core.Record, key string, dst any) error {
	raw := strings.TrimSpace(record.GetString(key))
	if raw == "" || raw == "null" {
		return nil
	}
	if err := record.UnmarshalJSONField(key, dst); err != nil {
		return fmt.Errorf("quote_store: decode %s of %s: %w", key, record.Id, err)
	}
	return nil
}
