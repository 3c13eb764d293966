package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/diegoandradesramos-hub/pvp/internal/common"
	"github.com/diegoandradesramos-hub/pvp/internal/costmap"
	"github.com/diegoandradesramos-hub/pvp/internal/export"
	"github.com/diegoandradesramos-hub/pvp/internal/pricing"
	"github.com/diegoandradesramos-hub/pvp/internal/repository"
)

// pricelist computes the suggested price list from the current ledger and
// menu, printing it as a table or writing an XLSX workbook with -o.
func main() {
	_ = godotenv.Load()

	out := flag.String("o", "", "write an XLSX workbook to this path instead of printing")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	settings, err := common.LoadSettings(cfg.Settings.Path, logger)
	if err != nil {
		logger.Error("could not load settings", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		DialTimeout: cfg.Database.DialTimeout,
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

	purchases, err := ledger.List(ctx)
	if err != nil {
		logger.Error("list purchases failed", "error", err)
		os.Exit(1)
	}
	yieldRows, err := yields.List(ctx)
	if err != nil {
		logger.Error("list yields failed", "error", err)
		os.Exit(1)
	}
	items, err := menu.ListItems(ctx)
	if err != nil {
		logger.Error("list menu items failed", "error", err)
		os.Exit(1)
	}
	lines, err := menu.ListLines(ctx)
	if err != nil {
		logger.Error("list recipe lines failed", "error", err)
		os.Exit(1)
	}
	rules, err := margins.List(ctx)
	if err != nil {
		logger.Error("list margin rules failed", "error", err)
		os.Exit(1)
	}

	costs := costmap.Build(purchases, yieldRows)
	engine := pricing.NewEngine(settings.DefaultMargin, settings.DefaultTaxRate, logger)
	priced := engine.Suggest(items, lines, costs, rules)

	if *out != "" {
		svc := export.NewService(settings.CurrencySymbol, logger)
		data, err := svc.PriceListXLSX(priced, purchases)
		if err != nil {
			logger.Error("xlsx export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Error("write failed", "path", *out, "error", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %d items to %s\n", len(priced), *out)
		return
	}

	cur := settings.CurrencySymbol
	fmt.Printf("%-16s %-30s %8s %6s %10s %12s %s\n",
		"Sección", "Producto", "Margen", "IVA", "Coste", "PVP", "")
	for _, it := range priced {
		price := "-"
		if it.SuggestedPrice != nil {
			price = fmt.Sprintf("%.2f %s", *it.SuggestedPrice, cur)
		}
		note := ""
		if it.HasMissingCost {
			note = "(faltan costes)"
		}
		fmt.Printf("%-16s %-30s %7.0f%% %5.0f%% %7.2f %s %12s %s\n",
			it.Category, it.DisplayName,
			it.Margin*100, it.TaxRate*100,
			it.IngredientCost, cur, price, note)
	}
}
