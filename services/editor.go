package services

import (
	"slices"
	"sync"
)

// Editor is a single-owner editing session for one quote. Every mutation
// replaces the held Quote value and then notifies subscribers with the new
// value, which is how the preview re-renders on each change.
//
// Mutations are expected from one goroutine; Quote and Document may be called
// from anywhere.
type Editor struct {
	mu     sync.RWMutex
	quote  Quote
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(Quote)
}

// NewEditor starts a session on q. Missing or repeated item ids are replaced.
func NewEditor(q Quote) *Editor {
	return &Editor{quote: withIdentifiers(q)}
}

// Quote returns the current value. Callers get their own copy of the slices.
func (e *Editor) Quote() Quote {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return snapshotQuote(e.quote)
}

// Subscribe registers fn to be called after every change. Subscribers are
// called in the order they subscribed. The returned func removes the
// subscription.
func (e *Editor) Subscribe(fn func(Quote)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.subs = append(e.subs, subscription{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			e.subs = slices.DeleteFunc(e.subs, func(s subscription) bool { return s.id == id })
			e.mu.Unlock()
		})
	}
}

// Document assembles the printable document for the current value.
func (e *Editor) Document(business BusinessInfo, photos []Photo) Document {
	return BuildDocument(e.Quote(), business, photos)
}

// Apply replaces the quote with q.Update(u) and notifies subscribers.
func (e *Editor) Apply(u QuoteUpdate) Quote {
	return e.mutate(func(q Quote) Quote { return q.Update(u) })
}

func (e *Editor) SetCustomer(c Customer) Quote {
	return e.Apply(QuoteUpdate{Customer: &c})
}

func (e *Editor) SetNotes(notes string) Quote {
	return e.Apply(QuoteUpdate{Notes: &notes})
}

func (e *Editor) SetJobAddress(address string) Quote {
	return e.Apply(QuoteUpdate{JobAddress: &address})
}

func (e *Editor) SetTaxRate(rate float64) Quote {
	return e.Apply(QuoteUpdate{TaxRate: &rate})
}

func (e *Editor) SetInvoice(isInvoice bool) Quote {
	return e.Apply(QuoteUpdate{IsInvoice: &isInvoice})
}

func (e *Editor) SetCurrency(code string) Quote {
	return e.Apply(QuoteUpdate{CurrencyCode: &code})
}

// AddItem appends a new line item and returns it.
func (e *Editor) AddItem(description string, hours, rate float64) LineItem {
	item := NewLineItem(description, hours, rate)
	e.mutate(func(q Quote) Quote {
		items := append(append([]LineItem(nil), q.Items...), item)
		return q.Update(QuoteUpdate{Items: &items})
	})
	return item
}

// UpdateItem replaces the description, hours and rate of the item with the
// given id. The identifier and position are kept. It reports whether the
// item was found.
func (e *Editor) UpdateItem(id, description string, hours, rate float64) bool {
	found := false
	e.mutate(func(q Quote) Quote {
		items := append([]LineItem(nil), q.Items...)
		for i := range items {
			if items[i].ID == id {
				items[i].Description, items[i].Hours, items[i].Rate = description, hours, rate
				found = true
			}
		}
		return q.Update(QuoteUpdate{Items: &items})
	})
	return found
}

func (e *Editor) RemoveItem(id string) bool {
	found := false
	e.mutate(func(q Quote) Quote {
		items := make([]LineItem, 0, len(q.Items))
		for _, item := range q.Items {
			if item.ID == id {
				found = true
				continue
			}
			items = append(items, item)
		}
		return q.Update(QuoteUpdate{Items: &items})
	})
	return found
}

func (e *Editor) AddExtra(name string, price float64) ExtraItem {
	extra := NewExtraItem(name, price)
	e.mutate(func(q Quote) Quote {
		extras := append(append([]ExtraItem(nil), q.Extras...), extra)
		return q.Update(QuoteUpdate{Extras: &extras})
	})
	return extra
}

func (e *Editor) RemoveExtra(id string) bool {
	found := false
	e.mutate(func(q Quote) Quote {
		extras := make([]ExtraItem, 0, len(q.Extras))
		for _, extra := range q.Extras {
			if extra.ID == id {
				found = true
				continue
			}
			extras = append(extras, extra)
		}
		return q.Update(QuoteUpdate{Extras: &extras})
	})
	return found
}

func (e *Editor) mutate(fn func(Quote) Quote) Quote {
	e.mu.Lock()
	e.quote = fn(e.quote)
	next := e.quote
	subs := slices.Clone(e.subs)
	e.mu.Unlock()

	for _, s := range subs {
		s.fn(snapshotQuote(next))
	}
	return snapshotQuote(next)
}
