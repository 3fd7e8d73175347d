package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cardledger/cardledger/internal/config"
	"github.com/cardledger/cardledger/internal/database"
	cardledgerHttp "github.com/cardledger/cardledger/internal/http"
	ingestHandler "github.com/cardledger/cardledger/internal/http/ingest"
	reclassifyHandler "github.com/cardledger/cardledger/internal/http/reclassify"
	reportHandler "github.com/cardledger/cardledger/internal/http/report"
	rulesHandler "github.com/cardledger/cardledger/internal/http/rules"
	txHandler "github.com/cardledger/cardledger/internal/http/transaction"
	"github.com/cardledger/cardledger/internal/ingest"
	"github.com/cardledger/cardledger/internal/normalize"
	"github.com/cardledger/cardledger/internal/reclassify"
	"github.com/cardledger/cardledger/internal/report"
	reportStore "github.com/cardledger/cardledger/internal/report/store"
	"github.com/cardledger/cardledger/internal/rules"
	rulesStore "github.com/cardledger/cardledger/internal/rules/store"
	"github.com/cardledger/cardledger/internal/transaction"
	txStore "github.com/cardledger/cardledger/internal/transaction/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(cfg.ConnectionString(), cfg.MigrationsPath); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	formats := normalize.NewRegistry()

	if cfg.FormatsPath != "" {
		if err := formats.LoadFile(cfg.FormatsPath); err != nil {
			slog.Error("failed to load export formats", "error", err)
			os.Exit(1)
		}
	}

	var (
		txRepo             = txStore.New(db)
		transactionService = transaction.NewService(txRepo)
		rulesService       = rules.NewService(rulesStore.New(db))
		ingestService      = ingest.NewService(formats, rulesService, txRepo)
		reclassifyService  = reclassify.NewService(rulesService, txRepo)
		reportService      = report.NewService(reportStore.New(db))
	)

	router := cardledgerHttp.New(
		txHandler.NewHandler(transactionService),
		ingestHandler.NewHandler(ingestService),
		rulesHandler.NewHandler(rulesService),
		reclassifyHandler.NewHandler(reclassifyService),
		reportHandler.NewHandler(reportService),
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
