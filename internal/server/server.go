// Package server exposes the purchase ledger, cost map and price list over
// HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/diegoandradesramos-hub/pvp/internal/common"
	"github.com/diegoandradesramos-hub/pvp/internal/costmap"
	"github.com/diegoandradesramos-hub/pvp/internal/entity"
	"github.com/diegoandradesramos-hub/pvp/internal/export"
	"github.com/diegoandradesramos-hub/pvp/internal/importer"
	"github.com/diegoandradesramos-hub/pvp/internal/pipeline"
	"github.com/diegoandradesramos-hub/pvp/internal/pricing"
	"github.com/diegoandradesramos-hub/pvp/internal/repository"
)

type Server struct {
	logger   *slog.Logger
	db       *repository.DB
	ledger   repository.LedgerRepository
	yields   repository.YieldRepository
	menu     repository.MenuRepository
	margins  repository.MarginRepository
	proc     *pipeline.Processor
	importer *importer.Service
	pricer   *pricing.Engine
	exporter *export.Service

	uploadDir string
}

type Deps struct {
	DB        *repository.DB
	Ledger    repository.LedgerRepository
	Yields    repository.YieldRepository
	Menu      repository.MenuRepository
	Margins   repository.MarginRepository
	Processor *pipeline.Processor
	Importer  *importer.Service
	Pricer    *pricing.Engine
	Exporter  *export.Service
	UploadDir string
}

func New(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:    logger,
		db:        deps.DB,
		ledger:    deps.Ledger,
		yields:    deps.Yields,
		menu:      deps.Menu,
		margins:   deps.Margins,
		proc:      deps.Processor,
		importer:  deps.Importer,
		pricer:    deps.Pricer,
		exporter:  deps.Exporter,
		uploadDir: deps.UploadDir,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", s.handleInvoiceUpload)
	})
	r.Route("/purchases", func(r chi.Router) {
		r.Post("/", s.handleAppendPurchase)
		r.Get("/", s.handleListPurchases)
	})
	r.Put("/yields", s.handleUpsertYield)
	r.Get("/costmap", s.handleCostMap)

	r.Route("/menu", func(r chi.Router) {
		r.Post("/import", s.handleMenuImport)
		r.Get("/prices", s.handlePrices)
		r.Get("/prices.xlsx", s.handlePricesXLSX)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context(), 2*time.Second); err != nil {
			s.logger.Error("healthcheck failed", "error", err)
			common.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// priceList resolves everything needed to price the menu: the full ledger,
// the yield table, the recipes and the per-category margin rules.
func (s *Server) priceList(ctx context.Context) ([]entity.PricedItem, error) {
	purchases, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	yields, err := s.yields.List(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.menu.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := s.menu.ListLines(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.margins.List(ctx)
	if err != nil {
		return nil, err
	}
	costs := costmap.Build(purchases, yields)
	return s.pricer.Suggest(items, lines, costs, rules), nil
}
