// Package config loads pipeline settings from a YAML file or from
// command-line flags when no file is given.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a setting is absent in both YAML and flags.
const (
	DefaultSeriesFile   = "isharesidd_data.csv"
	DefaultReadingsFile = "etf_effective_duration.csv"
	DefaultJournalDir   = "./wal/runs"
	DefaultNavTimeout   = 45 * time.Second
	DefaultPageDelay    = 2 * time.Second
	DefaultFetchTries   = 3
)

// Config holds one pipeline run's settings.
type Config struct {
	SeriesFile   string
	ReadingsFile string
	JournalDir   string
	Headless     bool
	NavTimeout   time.Duration
	PageDelay    time.Duration
	FetchTries   int
	SkipExtract  bool
}

// durations are yaml strings ("45s", "2m") parsed via time.ParseDuration
type configTmp struct {
	SeriesFile   string `yaml:"series_file,omitempty"`
	ReadingsFile string `yaml:"readings_file,omitempty"`
	JournalDir   string `yaml:"journal_dir,omitempty"`
	Headless     *bool  `yaml:"headless,omitempty"`
	NavTimeout   string `yaml:"nav_timeout,omitempty"`
	PageDelay    string `yaml:"page_delay,omitempty"`
	FetchTries   int    `yaml:"fetch_tries,omitempty"`
}

// Get parses flags and returns the effective configuration. When
// --config points at a YAML file its values win over flag defaults;
// --skip-extract is flag-only.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	series := flag.String("series", DefaultSeriesFile, "path to the persisted duration series")
	readings := flag.String("readings", DefaultReadingsFile, "path to the extracted readings file")
	journal := flag.String("journal", DefaultJournalDir, "directory for the run journal WAL")
	headless := flag.Bool("headless", true, "run the browser headless")
	navTimeout := flag.Duration("navtimeout", DefaultNavTimeout, "per-page navigation timeout")
	skipExtract := flag.Bool("skip-extract", false, "reconcile an existing readings file without scraping")
	flag.Parse()

	cfg := Config{
		SeriesFile:   *series,
		ReadingsFile: *readings,
		JournalDir:   *journal,
		Headless:     *headless,
		NavTimeout:   *navTimeout,
		PageDelay:    DefaultPageDelay,
		FetchTries:   DefaultFetchTries,
		SkipExtract:  *skipExtract,
	}

	if *configPath != "" {
		if err := applyYaml(*configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if cfg.NavTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid nav timeout: %s", cfg.NavTimeout)
	}
	if cfg.FetchTries < 1 {
		return Config{}, fmt.Errorf("invalid fetch tries: %d", cfg.FetchTries)
	}
	return cfg, nil
}

func applyYaml(path string, cfg *Config) error {
	f, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if tmp.SeriesFile != "" {
		cfg.SeriesFile = tmp.SeriesFile
	}
	if tmp.ReadingsFile != "" {
		cfg.ReadingsFile = tmp.ReadingsFile
	}
	if tmp.JournalDir != "" {
		cfg.JournalDir = tmp.JournalDir
	}
	if tmp.Headless != nil {
		cfg.Headless = *tmp.Headless
	}
	if tmp.NavTimeout != "" {
		d, err := time.ParseDuration(tmp.NavTimeout)
		if err != nil {
			return fmt.Errorf("parse nav_timeout in %s: %w", path, err)
		}
		cfg.NavTimeout = d
	}
	if tmp.PageDelay != "" {
		d, err := time.ParseDuration(tmp.PageDelay)
		if err != nil {
			return fmt.Errorf("parse page_delay in %s: %w", path, err)
		}
		cfg.PageDelay = d
	}
	if tmp.FetchTries > 0 {
		cfg.FetchTries = tmp.FetchTries
	}
	return nil
}
