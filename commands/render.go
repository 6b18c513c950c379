// Package commands holds the jobquote subcommands added to the pocketbase
// root command.
package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobquote/collections"
	"jobquote/config"
	"jobquote/services"
)

// NewRenderCommand returns "render <quote-id>", which exports a saved quote
// to PDF and shares it to the export directory or by mail.
func NewRenderCommand(app core.App, cfg *config.Config, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render QUOTE_ID",
		Short: "Export a saved quote as a one-page PDF",
		Long: `Render a saved quote or invoice to PDF. The file is written to the
export directory; with --mail-to it is sent as an attachment instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			photoPaths, _ := cmd.Flags().GetStringSlice("photo")
			mailTo, _ := cmd.Flags().GetStringSlice("mail-to")
			return runRender(cmd, app, cfg, logger, renderOptions{
				quoteID: args[0],
				outDir:  out,
				photos:  photoPaths,
				mailTo:  mailTo,
			})
		},
	}

	cmd.Flags().StringP("out", "o", cfg.Export.Dir, "Directory the PDF is written to")
	cmd.Flags().StringSliceP("photo", "p", nil, "Photo file to attach (repeatable, first 3 are used)")
	cmd.Flags().StringSlice("mail-to", nil, "Email the PDF to these addresses instead of writing it")
	return cmd
}

type renderOptions struct {
	quoteID string
	outDir  string
	photos  []string
	mailTo  []string
}

func runRender(cmd *cobra.Command, app core.App, cfg *config.Config, logger *zap.Logger, opts renderOptions) error {
	ctx := cmd.Context()
	if err := collections.Setup(app, logger); err != nil {
		return fmt.Errorf("prepare collections: %w", err)
	}

	q, err := services.NewQuoteStore(app, logger).Get(opts.quoteID)
	if err != nil {
		return err
	}

	fetches := make([]services.PhotoFetch, len(opts.photos))
	for i, path := range opts.photos {
		fetches[i] = services.FileFetch(path)
	}
	loader := services.NewPhotoLoader(logger, cfg.Photos.ThumbSize, cfg.Photos.MaxConcurrent)
	photos := loader.LoadPhotos(ctx, fetches)
	if len(photos) < len(opts.photos) {
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "! %d of %d photos could not be read\n",
			len(opts.photos)-len(photos), len(opts.photos))
	}

	business := services.NewSettingsStore(app).BusinessInfo()
	exporter := services.NewExporter(services.NewPDFRenderer(logger), logger)
	exp, err := exporter.Export(ctx, q, business, photos)
	if err != nil {
		return err
	}

	var sink services.Sink = services.DirSink{Dir: opts.outDir}
	if len(opts.mailTo) > 0 {
		if !cfg.Mail.Enabled() {
			return fmt.Errorf("--mail-to needs mail.host and mail.from to be configured")
		}
		sink = services.NewMailSink(services.MailConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}, opts.mailTo...)
	}

	dest, err := sink.Share(ctx, exp)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	color.New(color.FgGreen, color.Bold).Fprintf(w, "✔ %s %s\n", q.Kind(), q.QuoteNumber())
	fmt.Fprintf(w, "  %-9s %s\n", "customer", q.Customer.Name)
	fmt.Fprintf(w, "  %-9s %s\n", "total", services.NewMoneyFormatter(q.CurrencyCode).Format(q.Total()))
	fmt.Fprintf(w, "  %-9s %s\n", "size", humanize.Bytes(uint64(len(exp.PDF))))
	if len(photos) > 0 {
		fmt.Fprintf(w, "  %-9s %s\n", "photos", strings.Repeat("■", min(len(photos), services.MaxDocumentPhotos)))
	}
	color.New(color.FgCyan).Fprintf(w, "  → %s\n", dest)
	return nil
}
