package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/job-comb/app/database"
	"github.com/lysyi3m/job-comb/app/mining"
)

type MineSkillsTask struct {
	Task
	miner       *mining.Miner
	datasetRepo database.DatasetRepository
	postingRepo database.PostingRepository
	itemsetRepo database.ItemsetRepository
}

func NewMineSkillsTask(datasetName string, miner *mining.Miner,
	datasetRepo database.DatasetRepository, postingRepo database.PostingRepository,
	itemsetRepo database.ItemsetRepository) *MineSkillsTask {
	return &MineSkillsTask{
		Task:        NewTask(TaskTypeMineSkills, datasetName),
		miner:       miner,
		datasetRepo: datasetRepo,
		postingRepo: postingRepo,
		itemsetRepo: itemsetRepo,
	}
}

func (t *MineSkillsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	existing, err := t.datasetRepo.GetDataset(t.DatasetName)
	if err != nil {
		return fmt.Errorf("failed to get dataset: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("dataset not found: %s", t.DatasetName)
	}

	transactions, err := t.postingRepo.GetSkillTransactions(t.DatasetName)
	if err != nil {
		return fmt.Errorf("failed to load skill transactions: %w", err)
	}

	itemsets, err := t.miner.Run(transactions)
	if err != nil {
		return fmt.Errorf("failed to mine itemsets: %w", err)
	}

	if err := t.itemsetRepo.ReplaceItemsets(existing.ID, itemsets); err != nil {
		return fmt.Errorf("failed to store itemsets: %w", err)
	}

	if err := t.datasetRepo.MarkMined(t.DatasetName); err != nil {
		return fmt.Errorf("failed to mark dataset mined: %w", err)
	}

	slog.Info("Task completed",
		"type", "MineSkills",
		"dataset", t.DatasetName,
		"duration", t.GetDuration(),
		"transactions", len(transactions),
		"itemsets", len(itemsets))

	return nil
}
