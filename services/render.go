package services

import "context"

// Renderer turns a Document into output bytes. The PDF renderer and the
// screen renderer both implement it and emit the same TextContent.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

var _ Renderer = (*PDFRenderer)(nil)
