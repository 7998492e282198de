package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/r0bertgabriel/inmet-belem/adapters/export"
	"github.com/r0bertgabriel/inmet-belem/adapters/inmet"
	"github.com/r0bertgabriel/inmet-belem/adapters/postgres"
	"github.com/r0bertgabriel/inmet-belem/adapters/report"
	"github.com/r0bertgabriel/inmet-belem/app"
	"github.com/r0bertgabriel/inmet-belem/internal"
	"github.com/r0bertgabriel/inmet-belem/internal/config"
	"github.com/r0bertgabriel/inmet-belem/internal/descriptive"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := internal.NewDefaultLogger()
	ctx := context.Background()

	reader := inmet.NewReader()
	records, err := reader.ReadFile(cfg.Data.CSVFile)
	if err != nil {
		logger.Error("read %s: %v", cfg.Data.CSVFile, err)
		os.Exit(1)
	}
	logger.Info("read %d raw records from %s", len(records), cfg.Data.CSVFile)

	engine := descriptive.NewEngine(cfg.Analysis.Percentiles...)
	service := app.NewAnalysisService(engine, cfg.Analysis.MinRunLength,
		cfg.Analysis.HeatPercentile, cfg.Analysis.ColdPercentile, logger)

	analysisReport, err := service.Run(ctx, records)
	if err != nil {
		logger.Error("analysis failed: %v", err)
		os.Exit(1)
	}

	csvWriter, err := export.NewCSVWriter(cfg.Output.Dir)
	if err != nil {
		logger.Error("csv export: %v", err)
		os.Exit(1)
	}
	if err := csvWriter.WriteReport(analysisReport); err != nil {
		logger.Error("csv export: %v", err)
		os.Exit(1)
	}

	xlsxPath := filepath.Join(cfg.Output.Dir, "report.xlsx")
	if err := export.NewXLSXWriter().WriteReport(analysisReport, xlsxPath); err != nil {
		logger.Error("xlsx export: %v", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(cfg.Output.Dir, "report.md")
	if err := os.WriteFile(mdPath, []byte(report.NewBuilder().Markdown(analysisReport)), 0o644); err != nil {
		logger.Error("markdown export: %v", err)
		os.Exit(1)
	}

	// a missing DATABASE_URL disables persistence rather than failing
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
		logger.Info("run %s archived", analysisReport.RunID)
	}

	logger.Info("analysis complete: outputs in %s", cfg.Output.Dir)
}
