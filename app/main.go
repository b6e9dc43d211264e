package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lysyi3m/job-comb/app/api"
	"github.com/lysyi3m/job-comb/app/cfg"
	"github.com/lysyi3m/job-comb/app/database"
	"github.com/lysyi3m/job-comb/app/dataset"
	"github.com/lysyi3m/job-comb/app/export"
	"github.com/lysyi3m/job-comb/app/mining"
	"github.com/lysyi3m/job-comb/app/posting"
	"github.com/lysyi3m/job-comb/app/rules"
	"github.com/lysyi3m/job-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Job Comb", "version", cfg.GetVersion())

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	loadedRules, err := rules.Load(appCfg.RulesFile)
	if err != nil {
		slog.Error("Failed to load rules", "error", err)
		os.Exit(1)
	}
	slog.Info("Rules loaded", "skill_categories", len(loadedRules.Skills), "role_rules", len(loadedRules.Roles))

	datasetRepo := database.NewDatasetRepository(db)
	postingRepo := database.NewPostingRepository(db)
	itemsetRepo := database.NewItemsetRepository(db)

	reader := dataset.NewReader()
	processor := posting.NewProcessor(loadedRules)
	miner := mining.NewMiner(appCfg.MinSupport)

	scheduler := tasks.NewScheduler(reader, processor, miner, datasetRepo, postingRepo, itemsetRepo)

	if appCfg.Once {
		if err := runOnce(scheduler, datasetRepo, postingRepo, loadedRules.Categories(), appCfg.ExportDir); err != nil {
			slog.Error("Batch run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	handler := api.NewHandler(datasetRepo, postingRepo, itemsetRepo, reader, processor, miner, loadedRules.Categories(), scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// runOnce drains the pipeline for every dataset file and writes the feature
// tables to the export directory, then exits.
func runOnce(scheduler tasks.TaskSchedulerInterface, datasetRepo database.DatasetRepository,
	postingRepo database.PostingRepository, skillCategories []string, exportDir string) error {
	if err := scheduler.RunOnce(context.Background()); err != nil {
		return err
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	datasets, err := datasetRepo.GetDatasets()
	if err != nil {
		return fmt.Errorf("failed to list datasets: %w", err)
	}

	writer := export.NewWriter(skillCategories)
	for _, d := range datasets {
		postings, err := postingRepo.GetAllPostings(d.Name)
		if err != nil {
			return fmt.Errorf("failed to load postings for %s: %w", d.Name, err)
		}

		path := filepath.Join(exportDir, d.Name+".csv")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}

		if err := writer.Run(file, postings); err != nil {
			file.Close()
			return fmt.Errorf("failed to write export for %s: %w", d.Name, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close export file: %w", err)
		}

		slog.Info("Export written", "dataset", d.Name, "file", path, "rows", len(postings))
	}

	return nil
}
