// Command duratrack runs the ETF effective-duration pipeline: it
// scrapes the duration figure and as-of date for each tracked fund
// from its iShares product page, then reconciles the readings into the
// persisted time series.
//
// Usage:
//
//	duratrack --config config.yaml
//	duratrack --skip-extract   (reconcile an existing readings file)
//	duratrack setup            (interactive config wizard)
package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/vadiminshakov/duratrack/config"
	"github.com/vadiminshakov/duratrack/internal/app"
	"github.com/vadiminshakov/duratrack/internal/instruments"
	"github.com/vadiminshakov/duratrack/internal/services/extractor"
	"github.com/vadiminshakov/duratrack/internal/services/reconciler"
	"github.com/vadiminshakov/duratrack/internal/setup"
	"github.com/vadiminshakov/duratrack/internal/storage/readingscsv"
	"github.com/vadiminshakov/duratrack/internal/storage/runjournal"
	"github.com/vadiminshakov/duratrack/internal/storage/seriescsv"
	"github.com/vadiminshakov/duratrack/pkg/retrier"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	table := instruments.All()

	var collector *extractor.Collector
	if !cfg.SkipExtract {
		fetcher, err := extractor.NewRodFetcher(cfg.Headless, cfg.NavTimeout, logger)
		if err != nil {
			logger.Fatal("browser startup failed", zap.Error(err))
		}
		defer fetcher.Close()
		collector = extractor.NewCollector(fetcher, retrier.New(cfg.FetchTries, cfg.PageDelay), cfg.PageDelay, logger)
	}

	journal, err := runjournal.NewWALStore(cfg.JournalDir)
	if err != nil {
		logger.Fatal("run journal startup failed", zap.Error(err))
	}
	defer journal.Close()

	pipeline := app.New(
		table,
		collector,
		readingscsv.New(cfg.ReadingsFile),
		seriescsv.New(cfg.SeriesFile, table),
		journal,
		reconciler.New(logger),
		logger,
	)

	if err := pipeline.Run(context.Background()); err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}
}
