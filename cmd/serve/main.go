// Command serve runs the analysis once and keeps the result available
// over HTTP.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/r0bertgabriel/inmet-belem/adapters/inmet"
	"github.com/r0bertgabriel/inmet-belem/adapters/postgres"
	"github.com/r0bertgabriel/inmet-belem/app"
	"github.com/r0bertgabriel/inmet-belem/internal"
	"github.com/r0bertgabriel/inmet-belem/internal/api"
	"github.com/r0bertgabriel/inmet-belem/internal/config"
	"github.com/r0bertgabriel/inmet-belem/internal/descriptive"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := internal.NewDefaultLogger()

	records, err := inmet.NewReader().ReadFile(cfg.Data.CSVFile)
	if err != nil {
		logger.Error("read %s: %v", cfg.Data.CSVFile, err)
		os.Exit(1)
	}

	engine := descriptive.NewEngine(cfg.Analysis.Percentiles...)
	service := app.NewAnalysisService(engine, cfg.Analysis.MinRunLength,
		cfg.Analysis.HeatPercentile, cfg.Analysis.ColdPercentile, logger)

	ctx := context.Background()
	analysisReport, err := service.Run(ctx, records)
	if err != nil {
		logger.Error("analysis failed: %v", err)
		os.Exit(1)
	}

	// with a database configured, the server also exposes earlier runs
	var history api.RunHistory
	if cfg.Database.URL != "" {
		db, err := postgres.Open(cfg.Database.URL)
		if err != nil {
			logger.Error("database: %v", err)
			os.Exit(1)
		}
		defer db.Close()
		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("schema: %v", err)
			os.Exit(1)
		}
		if err := repo.SaveReport(ctx, analysisReport); err != nil {
			logger.Error("save run: %v", err)
			os.Exit(1)
		}
		history = repo
	}

	server := api.NewServer(analysisReport, history, logger)
	addr := ":" + cfg.Server.Port
	logger.Info("serving run %s on %s", analysisReport.RunID, addr)
	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		logger.Error("server: %v", err)
		os.Exit(1)
	}
}
