package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"jobquote/config"
	"jobquote/services"
	"jobquote/templates"
)

const maxPhotoUpload = 32 << 20

// uploadFetch reads one multipart file when the loader asks for it.
func uploadFetch(fh *multipart.FileHeader) services.PhotoFetch {
	return func(ctx context.Context) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
}

// requestPhotos loads the "photos" files of a multipart POST. Other requests
// have no photos. Files that are not images are dropped by the loader.
func requestPhotos(e *core.RequestEvent, cfg config.PhotoConfig) ([]services.Photo, error) {
	if e.Request.Method != http.MethodPost {
		return nil, nil
	}
	if err := e.Request.ParseMultipartForm(maxPhotoUpload); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	files := e.Request.MultipartForm.File["photos"]
	if len(files) == 0 {
		return nil, nil
	}

	fetches := make([]services.PhotoFetch, len(files))
	for i, fh := range files {
		fetches[i] = uploadFetch(fh)
	}
	loader := services.NewPhotoLoader(zap.L(), cfg.ThumbSize, cfg.MaxConcurrent)
	return loader.LoadPhotos(e.Request.Context(), fetches), nil
}

// HandleQuotePreview renders the on-screen document. HTMX requests get the
// bare document fragment; everything else gets the full page.
func HandleQuotePreview(app core.App, photoCfg config.PhotoConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := services.NewQuoteStore(app, zap.L()).Get(e.Request.PathValue("id"))
		if err != nil {
			return quoteError(e, err)
		}

		photos, err := requestPhotos(e, photoCfg)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid photo upload")
		}

		doc := services.BuildDocument(q, GetBusinessInfo(e.Request), photos)
		renderer := templates.ScreenRenderer{Partial: e.Request.Header.Get("HX-Request") == "true"}
		page, err := renderer.Render(e.Request.Context(), doc)
		if err != nil {
			zap.L().Error("preview: render failed", zap.String("quote", q.ID), zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Could not render the preview")
		}
		return e.HTML(http.StatusOK, string(page))
	}
}

// HandleQuoteExportPDF renders the quote to a single-page PDF and sends it
// as a download named after the quote.
func HandleQuoteExportPDF(app core.App, photoCfg config.PhotoConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, err := services.NewQuoteStore(app, zap.L()).Get(e.Request.PathValue("id"))
		if err != nil {
			return quoteError(e, err)
		}

		photos, err := requestPhotos(e, photoCfg)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid photo upload")
		}

		exporter := services.NewExporter(services.NewPDFRenderer(zap.L()), zap.L())
		exp, err := exporter.Export(e.Request.Context(), q, GetBusinessInfo(e.Request), photos)
		if err != nil {
			if errors.Is(err, services.ErrRenderContext) {
				return ErrorToast(e, http.StatusServiceUnavailable, "PDF export is unavailable right now")
			}
			zap.L().Error("export_pdf: failed to generate", zap.String("quote", q.ID), zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Disposition",
			mime.FormatMediaType("attachment", map[string]string{"filename": exp.Filename}))
		return e.Blob(http.StatusOK, "application/pdf", exp.PDF)
	}
}
