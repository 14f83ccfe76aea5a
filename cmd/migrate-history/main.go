// Package main provides a one-shot migration tool that rewrites legacy
// history CSV files into the canonical column layout, or pushes a CSV file
// into any configured backend.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/racing-predictor/internal/config"
	"github.com/yourusername/racing-predictor/internal/models"
	"github.com/yourusername/racing-predictor/internal/repository"
)

func main() {
	var (
		input      = flag.String("in", "", "Input CSV file, legacy layouts accepted")
		output     = flag.String("out", "", "Output CSV file in the canonical layout")
		configPath = flag.String("config", "", "Config file; when set, records are also saved to the configured backend")
		dryRun     = flag.Bool("dry-run", false, "Parse and report without writing anything")
	)
	flag.Parse()

	logger := newLogger()

	if *input == "" {
		logger.Fatal("-in is required")
	}
	if *output == "" && *configPath == "" && !*dryRun {
		logger.Fatal("at least one of -out, -config or -dry-run is required")
	}

	records := readRecords(*input, logger)
	logger.WithFields(logrus.Fields{
		"input":   *input,
		"records": len(records),
	}).Info("Parsed history file")

	if *dryRun {
		return
	}
	if *output != "" {
		writeCanonical(*output, records, logger)
	}
	if *configPath != "" {
		pushToBackend(*configPath, records, logger)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

func readRecords(path string, logger *logrus.Logger) []models.HistoryRecord {
	f, err := os.Open(path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open input file")
	}
	defer f.Close()

	records, err := repository.DecodeCSV(f, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse input file")
	}
	return records
}

func writeCanonical(path string, records []models.HistoryRecord, logger *logrus.Logger) {
	f, err := os.Create(path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create output file")
	}
	defer f.Close()

	if err := repository.EncodeCSV(f, records); err != nil {
		logger.WithError(err).Fatal("Failed to write output file")
	}
	logger.WithFields(logrus.Fields{
		"output":  path,
		"records": len(records),
	}).Info("Wrote canonical history file")
}

func pushToBackend(configPath string, records []models.HistoryRecord, logger *logrus.Logger) {
	ctx := context.Background()

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	if err := config.Validate(cfg); err != nil {
		logger.WithError(err).Fatal("Invalid config")
	}

	store, cleanup, err := repository.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up history store")
	}
	defer cleanup()

	if err := store.Save(ctx, records); err != nil {
		logger.WithError(err).Fatal("Failed to save records to backend")
	}
	logger.WithFields(logrus.Fields{
		"backend": cfg.History.Backend,
		"records": len(records),
	}).Info("Migrated history into backend")
}
