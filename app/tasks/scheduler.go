package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/job-comb/app/cfg"
	"github.com/lysyi3m/job-comb/app/database"
	"github.com/lysyi3m/job-comb/app/dataset"
	"github.com/lysyi3m/job-comb/app/mining"
	"github.com/lysyi3m/job-comb/app/posting"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	datasetRepo database.DatasetRepository
	postingRepo database.PostingRepository
	itemsetRepo database.ItemsetRepository
	reader      *dataset.Reader
	processor   *posting.Processor
	miner       *mining.Miner
	datasetsDir string
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(reader *dataset.Reader, processor *posting.Processor, miner *mining.Miner,
	datasetRepo database.DatasetRepository, postingRepo database.PostingRepository,
	itemsetRepo database.ItemsetRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		datasetRepo: datasetRepo,
		postingRepo: postingRepo,
		itemsetRepo: itemsetRepo,
		reader:      reader,
		processor:   processor,
		miner:       miner,
		datasetsDir: cfg.DatasetsDir,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// RunOnce drains the pipeline synchronously: every dataset file is processed,
// then every processed dataset is mined. Used for one-shot batch runs.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	files, err := s.datasetFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no dataset files found in %s", s.datasetsDir)
	}

	for _, file := range files {
		task := NewProcessDatasetTask(datasetName(file), file, s.reader, s.processor, s.datasetRepo, s.postingRepo)
		if err := task.Execute(ctx); err != nil {
			return fmt.Errorf("failed to process dataset %s: %w", task.DatasetName, err)
		}
	}

	for _, file := range files {
		task := NewMineSkillsTask(datasetName(file), s.miner, s.datasetRepo, s.postingRepo, s.itemsetRepo)
		if err := task.Execute(ctx); err != nil {
			return fmt.Errorf("failed to mine dataset %s: %w", task.DatasetName, err)
		}
	}

	return nil
}

func (s *Scheduler) enqueueTasks() {
	files, err := s.datasetFiles()
	if err != nil {
		slog.Warn("Failed to scan datasets directory", "dir", s.datasetsDir, "error", err)
		return
	}
	if len(files) == 0 {
		slog.Debug("No dataset files found", "dir", s.datasetsDir)
		return
	}

	slog.Debug("Processing dataset files for task scheduling", "count", len(files))

	for _, file := range files {
		name := datasetName(file)

		processTask := NewProcessDatasetTask(name, file, s.reader, s.processor, s.datasetRepo, s.postingRepo)
		if err := s.EnqueueTask(processTask); err != nil {
			slog.Warn("Failed to enqueue ProcessDatasetTask", "dataset", name, "error", err)
			continue
		}

		existing, err := s.datasetRepo.GetDataset(name)
		if err != nil {
			slog.Warn("Failed to get dataset from database, skipping mining", "dataset", name, "error", err)
			continue
		}
		if existing == nil || existing.ProcessedAt == nil {
			continue
		}

		if existing.MinedAt == nil || existing.MinedAt.Before(*existing.ProcessedAt) {
			mineTask := NewMineSkillsTask(name, s.miner, s.datasetRepo, s.postingRepo, s.itemsetRepo)
			if err := s.EnqueueTask(mineTask); err != nil {
				slog.Warn("Failed to enqueue MineSkillsTask", "dataset", name, "error", err)
			}
		}
	}
}

func (s *Scheduler) datasetFiles() ([]string, error) {
	entries, err := os.ReadDir(s.datasetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read datasets directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, filepath.Join(s.datasetsDir, entry.Name()))
		}
	}
	return files, nil
}

// datasetName derives the dataset identifier from the source filename.
func datasetName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "dataset", task.GetDatasetName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
