package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/factura/internal/config"
	"github.com/MrJamesThe3rd/factura/internal/database"
	"github.com/MrJamesThe3rd/factura/internal/document"
	documentStore "github.com/MrJamesThe3rd/factura/internal/document/store"
	"github.com/MrJamesThe3rd/factura/internal/export"
	facturaHttp "github.com/MrJamesThe3rd/factura/internal/http"
	documentHandler "github.com/MrJamesThe3rd/factura/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/factura/internal/http/export"
	logoHandler "github.com/MrJamesThe3rd/factura/internal/http/logo"
	renderHandler "github.com/MrJamesThe3rd/factura/internal/http/render"
	settingsHandler "github.com/MrJamesThe3rd/factura/internal/http/settings"
	"github.com/MrJamesThe3rd/factura/internal/importer"
	"github.com/MrJamesThe3rd/factura/internal/importer/csvitems"
	"github.com/MrJamesThe3rd/factura/internal/logo"
	"github.com/MrJamesThe3rd/factura/internal/logo/memstore"
	"github.com/MrJamesThe3rd/factura/internal/logo/redisstore"
	"github.com/MrJamesThe3rd/factura/internal/render"
	"github.com/MrJamesThe3rd/factura/internal/render/pdf"
	"github.com/MrJamesThe3rd/factura/internal/settings"
	settingsStore "github.com/MrJamesThe3rd/factura/internal/settings/store"
	"github.com/MrJamesThe3rd/factura/internal/totals"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	logoStore, err := newLogoStore(ctx, cfg)
	if err != nil {
		return err
	}

	rates, err := cfg.AllowedRates()
	if err != nil {
		return err
	}

	allowed := totals.NewRateValidator(rates)

	var (
		settingsService = settings.NewService(settingsStore.New(db), settings.Fallback{
			TemplateID: cfg.Render.DefaultTemplate,
			TaxRate:    cfg.Render.TaxRate,
			Currency:   cfg.Render.Currency,
		}, allowed)
		documentService = document.NewService(documentStore.New(db), settingsService, allowed)
		logoService     = logo.NewService(logoStore, logo.Options{
			Budget:    cfg.Logo.Budget,
			MaxRaw:    cfg.Logo.MaxUpload,
			MaxPixels: cfg.Logo.MaxPixels,
		}, cfg.Logo.StoreCeiling)
		exportService = export.NewService(documentService, logoService, settingsService, pdf.New(pdf.Options{}), render.Options{
			Currency:    cfg.Render.Currency,
			Attribution: cfg.Render.Attribution,
		})
		importService = importer.NewService(map[importer.Format]importer.Importer{
			importer.FormatCSV: csvitems.NewParser(),
		})
	)

	var (
		renderH   = renderHandler.NewHandler(exportService)
		documentH = documentHandler.NewHandler(documentService, exportService, importService)
		logoH     = logoHandler.NewHandler(logoService, int64(cfg.Logo.MaxUpload))
		settingsH = settingsHandler.NewHandler(settingsService)
		exportH   = exportHandler.NewHandler(exportService)
	)

	router := facturaHttp.New(facturaHttp.Options{
		AuthSecret:     cfg.Auth.Secret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, renderH, documentH, logoH, settingsH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newLogoStore uses Redis when an address is configured and process memory otherwise.
func newLogoStore(ctx context.Context, cfg *config.Config) (logo.Store, error) {
	if cfg.Redis.Addr == "" {
		slog.Info("storing logos in memory", "ceiling", cfg.Logo.StoreCeiling)
		return memstore.New(cfg.Logo.StoreCeiling), nil
	}

	client, err := redisstore.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return redisstore.New(client), nil
}
