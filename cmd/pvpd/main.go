package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/diegoandradesramos-hub/pvp/internal/async"
	"github.com/diegoandradesramos-hub/pvp/internal/common"
	"github.com/diegoandradesramos-hub/pvp/internal/export"
	"github.com/diegoandradesramos-hub/pvp/internal/extract"
	"github.com/diegoandradesramos-hub/pvp/internal/importer"
	"github.com/diegoandradesramos-hub/pvp/internal/ingest"
	"github.com/diegoandradesramos-hub/pvp/internal/ocr"
	"github.com/diegoandradesramos-hub/pvp/internal/pipeline"
	"github.com/diegoandradesramos-hub/pvp/internal/pricing"
	"github.com/diegoandradesramos-hub/pvp/internal/repository"
	"github.com/diegoandradesramos-hub/pvp/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	settings, err := common.LoadSettings(cfg.Settings.Path, logger)
	if err != nil {
		logger.Error("could not load settings", "path", cfg.Settings.Path, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	ledger := repository.NewLedgerRepository(db, logger)
	yields := repository.NewYieldRepository(db, logger)
	menu := repository.NewMenuRepository(db, logger)
	margins := repository.NewMarginRepository(db, logger)

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		Lang:          cfg.OCR.Lang,
		TessdataDir:   cfg.OCR.TessdataDir,
		HeicConverter: cfg.OCR.HeicConverter,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	source := extract.NewOCRSource(extractor, logger)

	proc := pipeline.NewProcessor(logger, pipeline.Config{
		DefaultTaxRate: settings.DefaultTaxRate,
	}, source, ledger)

	queue := async.NewInvoiceQueue(proc, logger,
		async.WithWorkers(cfg.Inbox.Workers),
		async.WithQueueSize(cfg.Inbox.QueueLen),
	)

	if cfg.Inbox.Dir != "" {
		events, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{cfg.Inbox.Dir},
			InitialScan: true,
			Debounce:    500 * time.Millisecond,
		})
		if err != nil {
			logger.Error("inbox watcher failed", "dir", cfg.Inbox.Dir, "error", err)
			os.Exit(1)
		}
		inbox := ingest.NewInbox(queue, settings.DefaultTaxRate, logger)
		go inbox.Run(ctx, events)
		go func() {
			for err := range errCh {
				logger.Warn("inbox watcher error", "error", err)
			}
		}()
		logger.Info("inbox watcher started", "dir", cfg.Inbox.Dir)
	}

	srv := server.New(server.Deps{
		DB:        db,
		Ledger:    ledger,
		Yields:    yields,
		Menu:      menu,
		Margins:   margins,
		Processor: proc,
		Importer:  importer.NewService(menu, yields, margins, logger),
		Pricer:    pricing.NewEngine(settings.DefaultMargin, settings.DefaultTaxRate, logger),
		Exporter:  export.NewService(settings.CurrencySymbol, logger),
		UploadDir: cfg.Server.UploadDir,
	}, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Router(),
	}
	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
