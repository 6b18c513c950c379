// Package templates renders quote documents as HTML for the on-screen preview.
package templates

//go:generate templ generate

import (
	"bytes"
	"context"

	"jobquote/services"
)

// ScreenRenderer produces the preview page as bytes.
type ScreenRenderer struct {
	// Partial renders only the document fragment, for HTMX swaps.
	Partial bool
}

func (r ScreenRenderer) Render(ctx context.Context, doc services.Document) ([]byte, error) {
	var buf bytes.Buffer
	component := QuotePage(doc)
	if r.Partial {
		component = DocumentView(doc)
	}
	if err := component.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ services.Renderer = ScreenRenderer{}

// RenderScreen renders the full preview page for doc.
func RenderScreen(ctx context.Context, doc services.Document) ([]byte, error) {
	return ScreenRenderer{}.Render(ctx, doc)
}
