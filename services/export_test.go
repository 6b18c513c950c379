package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubRenderer struct {
	out []byte
	err error
	got Document
}

func (s *stubRenderer) Render(_ context.Context, doc Document) ([]byte, error) {
	s.got = doc
	return s.out, s.err
}

func TestExportFilename(t *testing.T) {
	q := mowLawnQuote()
	want := "Quote-Garden Work – 5 Mar 2024-1709634600.pdf"
	if got := ExportFilename(q); got != want {
		t.Errorf("ExportFilename() = %q, want %q", got, want)
	}

	q.IsInvoice = true
	if got := ExportFilename(q); !strings.HasPrefix(got, "Invoice-") {
		t.Errorf("invoice filename = %q", got)
	}
}

func TestExporter_Export(t *testing.T) {
	stub := &stubRenderer{out: []byte("%PDF-stub")}
	x := NewExporter(stub, zap.NewNop())

	q := mowLawnQuote()
	exp, err := x.Export(context.Background(), q, testBusiness(), nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if exp.Filename != ExportFilename(q) || string(exp.PDF) != "%PDF-stub" {
		t.Errorf("export = %q (%d bytes)", exp.Filename, len(exp.PDF))
	}
	if stub.got.QuoteNumber != q.QuoteNumber() || stub.got.Title != "QUOTE" {
		t.Errorf("renderer received %q %q", stub.got.Title, stub.got.QuoteNumber)
	}
}

func TestExporter_RenderFailure(t *testing.T) {
	stub := &stubRenderer{out: []byte("partial"), err: ErrRenderContext}
	x := NewExporter(stub, nil)

	exp, err := x.Export(context.Background(), mowLawnQuote(), BusinessInfo{}, nil)
	if !errors.Is(err, ErrRenderContext) {
		t.Fatalf("expected ErrRenderContext, got %v", err)
	}
	if exp.Filename != "" || exp.PDF != nil {
		t.Errorf("failed export returned an artifact: %+v", exp)
	}
}

func TestExporter_WithPDFRenderer(t *testing.T) {
	x := NewExporter(NewPDFRenderer(zap.NewNop()), zap.NewNop())
	exp, err := x.Export(context.Background(), mowLawnQuote(), testBusiness(), nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.HasPrefix(string(exp.PDF), "%PDF") {
		t.Error("export is not a PDF")
	}
}
