package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"jobquote/collections"
	"jobquote/commands"
	"jobquote/config"
	"jobquote/handlers"
)

func main() {
	cfg, err := config.Load(os.Getenv("JOBQUOTE_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	app := pocketbase.New()
	app.RootCmd.AddCommand(commands.NewRenderCommand(app, cfg, logger))

	// Create collections and default settings on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app, logger); err != nil {
			return err
		}
		if err := collections.MigrateDefaultSettings(app, logger); err != nil {
			logger.Warn("default settings migration failed", zap.Error(err))
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))

		se.Router.BindFunc(handlers.BusinessProfileMiddleware(app))

		// ── Templates & quotes ──────────────────────────────────
		se.Router.GET("/templates", handlers.HandleTemplateList())
		se.Router.GET("/quotes", handlers.HandleQuoteList(app))
		se.Router.POST("/quotes", handlers.HandleQuoteCreate(app))
		se.Router.GET("/quotes/{id}", handlers.HandleQuoteGet(app))
		se.Router.PATCH("/quotes/{id}", handlers.HandleQuotePatch(app))
		se.Router.DELETE("/quotes/{id}", handlers.HandleQuoteDelete(app))

		// ── Documents ───────────────────────────────────────────
		se.Router.GET("/quotes/{id}/preview", handlers.HandleQuotePreview(app, cfg.Photos))
		se.Router.POST("/quotes/{id}/preview", handlers.HandleQuotePreview(app, cfg.Photos))
		se.Router.GET("/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(app, cfg.Photos))
		se.Router.POST("/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(app, cfg.Photos))

		// ── Business profile ────────────────────────────────────
		se.Router.GET("/settings/business", handlers.HandleBusinessSettings(app))
		se.Router.POST("/settings/business", handlers.HandleBusinessSettingsSave(app))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/quotes")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("jobquote stopped", zap.Error(err))
	}
}
