package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/job-comb/app/database"
	"github.com/lysyi3m/job-comb/app/dataset"
	"github.com/lysyi3m/job-comb/app/export"
	"github.com/lysyi3m/job-comb/app/mining"
	"github.com/lysyi3m/job-comb/app/posting"
	"github.com/lysyi3m/job-comb/app/tasks"
)

func NewHandler(datasetRepo database.DatasetRepository, postingRepo database.PostingRepository,
	itemsetRepo database.ItemsetRepository, reader *dataset.Reader, processor *posting.Processor,
	miner *mining.Miner, skillCategories []string, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		datasetRepo:     datasetRepo,
		postingRepo:     postingRepo,
		itemsetRepo:     itemsetRepo,
		reader:          reader,
		processor:       processor,
		miner:           miner,
		writer:          export.NewWriter(skillCategories),
		skillCategories: skillCategories,
		scheduler:       scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if datasetCount, err := h.datasetRepo.GetDatasetCount(); err == nil {
		health["datasets"] = datasetCount
	}
	if postingCount, err := h.postingRepo.GetTotalCount(); err == nil {
		health["postings"] = postingCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	datasets, err := h.datasetRepo.GetDatasets()
	if err != nil {
		slog.Error("Database error", "operation", "get_datasets", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	stats := make([]map[string]interface{}, 0, len(datasets))
	for _, d := range datasets {
		stats = append(stats, map[string]interface{}{
			"name":                d.Name,
			"total_rows":          d.TotalRows,
			"duplicate_rows":      d.DuplicateRows,
			"missing_salary_rows": d.MissingSalaryRows,
			"hourly_rows":         d.HourlyRows,
			"kept_rows":           d.KeptRows,
			"processed_at":        d.ProcessedAt,
			"mined_at":            d.MinedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"datasets":         stats,
		"skill_categories": h.skillCategories,
	})
}

// GetExport streams a dataset's feature table as CSV. Public like the main
// feed endpoint: the export is the artifact downstream consumers poll for.
func (h *Handler) GetExport(c *gin.Context) {
	name := c.Param("name")

	stored, err := h.datasetRepo.GetDataset(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_dataset", "dataset", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if stored == nil || stored.ProcessedAt == nil {
		c.Status(http.StatusNotFound)
		return
	}

	postings, err := h.postingRepo.GetAllPostings(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_postings", "dataset", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	c.Header("X-Dataset-Rows", strconv.Itoa(len(postings)))
	c.Header("X-Processed-At", stored.ProcessedAt.Format(time.RFC3339))

	if err := h.writer.Run(c.Writer, postings); err != nil {
		slog.Error("Export generation error", "dataset", name, "error", err)
	}
}

func (h *Handler) APIListDatasets(c *gin.Context) {
	datasets, err := h.datasetRepo.GetDatasets()
	if err != nil {
		slog.Error("Database error", "operation", "get_datasets", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	result := make([]map[string]interface{}, 0, len(datasets))
	for _, d := range datasets {
		info := map[string]interface{}{
			"name":         d.Name,
			"source_file":  d.SourceFile,
			"kept_rows":    d.KeptRows,
			"processed_at": d.ProcessedAt,
			"mined_at":     d.MinedAt,
			"updated_at":   d.UpdatedAt,
		}
		if count, err := h.postingRepo.GetPostingCount(d.Name); err == nil {
			info["posting_count"] = count
		}
		result = append(result, info)
	}

	c.JSON(http.StatusOK, gin.H{"datasets": result, "count": len(result)})
}

func (h *Handler) APIGetDatasetDetails(c *gin.Context) {
	name := c.Param("name")

	stored, err := h.datasetRepo.GetDataset(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_dataset", "dataset", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":                stored.Name,
		"source_file":         stored.SourceFile,
		"file_hash":           stored.FileHash,
		"total_rows":          stored.TotalRows,
		"duplicate_rows":      stored.DuplicateRows,
		"missing_salary_rows": stored.MissingSalaryRows,
		"hourly_rows":         stored.HourlyRows,
		"kept_rows":           stored.KeptRows,
		"processed_at":        stored.ProcessedAt,
		"mined_at":            stored.MinedAt,
		"created_at":          stored.CreatedAt,
		"updated_at":          stored.UpdatedAt,
	})
}

func (h *Handler) APIGetPostings(c *gin.Context) {
	name := c.Param("name")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	postings, err := h.postingRepo.GetPostings(name, limit, offset)
	if err != nil {
		slog.Error("Database error", "operation", "get_postings", "dataset", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	total, err := h.postingRepo.GetPostingCount(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_posting_count", "dataset", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"postings": postings,
		"count":    len(postings),
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) APIGetItemsets(c *gin.Context) {
	name := c.Param("name")

	itemsets, err := h.itemsetRepo.GetItemsets(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_itemsets", "dataset", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"itemsets": itemsets, "count": len(itemsets)})
}

// APIReprocessDataset enqueues a fresh processing run for a known dataset.
func (h *Handler) APIReprocessDataset(c *gin.Context) {
	name := c.Param("name")

	stored, err := h.datasetRepo.GetDataset(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_dataset", "dataset", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	}

	task := tasks.NewProcessDatasetTask(name, stored.SourceFile, h.reader, h.processor, h.datasetRepo, h.postingRepo)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue ProcessDatasetTask", "dataset", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "task_id": task.GetID()})
}

// APIMineDataset enqueues an itemset mining run for a processed dataset.
func (h *Handler) APIMineDataset(c *gin.Context) {
	name := c.Param("name")

	stored, err := h.datasetRepo.GetDataset(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_dataset", "dataset", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if stored == nil || stored.ProcessedAt == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not processed yet"})
		return
	}

	task := tasks.NewMineSkillsTask(name, h.miner, h.datasetRepo, h.postingRepo, h.itemsetRepo)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue MineSkillsTask", "dataset", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "task_id": task.GetID()})
}
