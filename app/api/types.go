package api

import (
	"io"

	"github.com/lysyi3m/job-comb/app/database"
	"github.com/lysyi3m/job-comb/app/dataset"
	"github.com/lysyi3m/job-comb/app/export"
	"github.com/lysyi3m/job-comb/app/mining"
	"github.com/lysyi3m/job-comb/app/posting"
	"github.com/lysyi3m/job-comb/app/tasks"
)

type WriterInterface interface {
	Run(out io.Writer, postings []posting.Normalized) error
}

var _ WriterInterface = (*export.Writer)(nil)

type Handler struct {
	datasetRepo     database.DatasetRepository
	postingRepo     database.PostingRepository
	itemsetRepo     database.ItemsetRepository
	reader          *dataset.Reader
	processor       *posting.Processor
	miner           *mining.Miner
	writer          WriterInterface
	skillCategories []string
	scheduler       tasks.TaskSchedulerInterface
}
