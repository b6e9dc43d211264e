package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/job-comb/app/database"
	"github.com/lysyi3m/job-comb/app/dataset"
	"github.com/lysyi3m/job-comb/app/posting"
)

type ProcessDatasetTask struct {
	Task
	SourceFile  string
	reader      *dataset.Reader
	processor   *posting.Processor
	datasetRepo database.DatasetRepository
	postingRepo database.PostingRepository
}

func NewProcessDatasetTask(datasetName, sourceFile string, reader *dataset.Reader,
	processor *posting.Processor, datasetRepo database.DatasetRepository,
	postingRepo database.PostingRepository) *ProcessDatasetTask {
	return &ProcessDatasetTask{
		Task:        NewTask(TaskTypeProcessDataset, datasetName),
		SourceFile:  sourceFile,
		reader:      reader,
		processor:   processor,
		datasetRepo: datasetRepo,
		postingRepo: postingRepo,
	}
}

func (t *ProcessDatasetTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	raws, fileHash, err := t.reader.Run(t.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}

	datasetID, changed, err := t.datasetRepo.UpsertDataset(t.DatasetName, t.SourceFile, fileHash)
	if err != nil {
		return fmt.Errorf("failed to register dataset: %w", err)
	}

	existing, err := t.datasetRepo.GetDataset(t.DatasetName)
	if err != nil {
		return fmt.Errorf("failed to get dataset: %w", err)
	}
	if !changed && existing != nil && existing.ProcessedAt != nil {
		slog.Debug("Dataset unchanged, skipping", "dataset", t.DatasetName)
		return nil
	}

	normalized, stats, err := t.processor.Run(raws)
	if err != nil {
		return fmt.Errorf("failed to process dataset: %w", err)
	}

	if err := t.postingRepo.ReplacePostings(datasetID, normalized); err != nil {
		return fmt.Errorf("failed to store postings: %w", err)
	}

	if err := t.datasetRepo.UpdateDatasetStats(t.DatasetName, stats); err != nil {
		return fmt.Errorf("failed to update dataset stats: %w", err)
	}

	slog.Info("Task completed",
		"type", "ProcessDataset",
		"dataset", t.DatasetName,
		"duration", t.GetDuration(),
		"total", stats.Total,
		"duplicates", stats.Duplicates,
		"missing_salary", stats.MissingSalary,
		"hourly", stats.Hourly,
		"kept", stats.Kept)

	return nil
}
