package database

import (
	"github.com/lysyi3m/job-comb/app/mining"
	"github.com/lysyi3m/job-comb/app/posting"
)

type DatasetRepository interface {
	GetDataset(name string) (*Dataset, error)
	GetDatasets() ([]Dataset, error)
	GetDatasetCount() (int, error)

	UpsertDataset(name, sourceFile, fileHash string) (string, bool, error)
	UpdateDatasetStats(name string, stats posting.Stats) error
	MarkMined(name string) error
}

type PostingRepository interface {
	ReplacePostings(datasetID string, postings []posting.Normalized) error
	GetPostings(datasetName string, limit, offset int) ([]posting.Normalized, error)
	GetAllPostings(datasetName string) ([]posting.Normalized, error)
	GetPostingCount(datasetName string) (int, error)
	GetTotalCount() (int, error)
	GetSkillTransactions(datasetName string) ([][]string, error)
}

type ItemsetRepository interface {
	ReplaceItemsets(datasetID string, itemsets []mining.Itemset) error
	GetItemsets(datasetName string) ([]mining.Itemset, error)
}
