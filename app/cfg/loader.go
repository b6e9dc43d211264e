package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./job_comb.db" description:"Path to the SQLite database file"`

	// Application configuration
	DatasetsDir       string  `long:"datasets-dir" env:"DATASETS_DIR" default:"./datasets" description:"Directory containing job posting export files (CSV)"`
	RulesFile         string  `long:"rules-file" env:"RULES_FILE" description:"Path to a YAML rules file (skill taxonomy, title rules); embedded defaults are used when unset"`
	ExportDir         string  `long:"export-dir" env:"EXPORT_DIR" default:"./export" description:"Directory for exported feature table artifacts"`
	Port              string  `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int     `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for dataset processing"`
	SchedulerInterval int     `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	APIAccessKey      string  `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	MinSupport        float64 `long:"min-support" env:"MIN_SUPPORT" default:"0.1" description:"Minimum support threshold for frequent skill-set mining"`
	Once              bool    `long:"once" env:"ONCE" description:"Process all pending datasets once, export artifacts, and exit"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		DatasetsDir:       raw.DatasetsDir,
		RulesFile:         raw.RulesFile,
		ExportDir:         raw.ExportDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		MinSupport:        raw.MinSupport,
		Once:              raw.Once,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
