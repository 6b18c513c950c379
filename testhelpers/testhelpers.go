// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"go.uber.org/zap"

	"jobquote/collections"
	"jobquote/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	if err := collections.Setup(app, zap.NewNop()); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// SampleQuote returns a valid quote with one line item and one extra.
func SampleQuote(customer string, date time.Time) services.Quote {
	q := services.NewQuote(services.TemplateGardenWork, date, "GBP")
	q.Customer = services.Customer{Name: customer, Phone: "07700 900123", Email: "jo@example.com", Address: "1 High St"}
	q.Items = []services.LineItem{services.NewLineItem("Mow lawn", 2, 15)}
	q.Extras = []services.ExtraItem{services.NewExtraItem("Green waste", 5)}
	q.TaxRate = 20
	return q
}

// CreateTestQuote saves a sample quote for customer dated date and returns it.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, customer string, date time.Time) services.Quote {
	t.Helper()

	saved, err := services.NewQuoteStore(app, zap.NewNop()).Save(SampleQuote(customer, date))
	if err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}
	return saved
}

// SetTestSetting writes one settings key.
func SetTestSetting(t *testing.T, app *pocketbase.PocketBase, key, value string) {
	t.Helper()

	if err := services.NewSettingsStore(app).Set(key, value); err != nil {
		t.Fatalf("failed to save setting %s: %v", key, err)
	}
}

// PNG returns an encoded solid-colour image of the given size.
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
