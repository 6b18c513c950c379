package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Export is the filename and PDF pair handed to a share Sink.
type Export struct {
	Filename string
	PDF      []byte
}

// ExportFilename is "{Quote|Invoice}-{title}-{unix seconds of the quote date}.pdf".
func ExportFilename(q Quote) string {
	return fmt.Sprintf("%s-%s-%d.pdf", q.Kind(), q.Title(), q.Date.Unix())
}

// Exporter builds the document for a quote and renders it to PDF.
type Exporter struct {
	renderer Renderer
	logger   *zap.Logger
}

func NewExporter(renderer Renderer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{renderer: renderer, logger: logger}
}

// Export returns the filename and bytes for q. When the renderer fails no
// partial artifact is returned.
func (x *Exporter) Export(ctx context.Context, q Quote, business BusinessInfo, photos []Photo) (Export, error) {
	doc := BuildDocument(q, business, photos)
	pdf, err := x.renderer.Render(ctx, doc)
	if err != nil {
		x.logger.Warn("quote_export: render failed", zap.String("quote", q.ID), zap.Error(err))
		return Export{}, err
	}
	exp := Export{Filename: ExportFilename(q), PDF: pdf}
	x.logger.Info("quote_export: rendered",
		zap.String("quote", q.ID),
		zap.String("filename", exp.Filename),
		zap.Int("bytes", len(pdf)),
	)
	return exp, nil
}
