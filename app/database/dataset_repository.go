package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lysyi3m/job-comb/app/posting"
)

// datasetRepository handles database operations for datasets
type datasetRepository struct {
	db *DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *DB) DatasetRepository {
	return &datasetRepository{db: db}
}

// UpsertDataset inserts or updates a dataset registration. It returns the
// dataset's database ID and whether the file hash changed since the last
// registration, which signals the dataset needs reprocessing.
func (r *datasetRepository) UpsertDataset(name, sourceFile, fileHash string) (string, bool, error) {
	existing, err := r.GetDataset(name)
	if err != nil {
		return "", false, fmt.Errorf("failed to check existing dataset: %w", err)
	}

	if existing != nil {
		changed := existing.FileHash != fileHash
		_, err = r.db.Exec(`
			UPDATE datasets
			SET source_file = ?, file_hash = ?, updated_at = CURRENT_TIMESTAMP
			WHERE name = ?
		`, sourceFile, fileHash, name)
		if err != nil {
			return "", false, fmt.Errorf("failed to update dataset: %w", err)
		}
		return existing.ID, changed, nil
	}

	id := uuid.New().String()
	_, err = r.db.Exec(`
		INSERT INTO datasets (id, name, source_file, file_hash)
		VALUES (?, ?, ?, ?)
	`, id, name, sourceFile, fileHash)
	if err != nil {
		return "", false, fmt.Errorf("failed to insert dataset: %w", err)
	}

	return id, true, nil
}

// UpdateDatasetStats records the result of a processing run and stamps
// processed_at.
func (r *datasetRepository) UpdateDatasetStats(name string, stats posting.Stats) error {
	result, err := r.db.Exec(`
		UPDATE datasets
		SET total_rows = ?, duplicate_rows = ?, missing_salary_rows = ?,
		    hourly_rows = ?, kept_rows = ?,
		    processed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, stats.Total, stats.Duplicates, stats.MissingSalary, stats.Hourly, stats.Kept, name)
	if err != nil {
		return fmt.Errorf("failed to update dataset stats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("dataset not found: %s", name)
	}
	return nil
}

// MarkMined stamps mined_at after an itemset mining run.
func (r *datasetRepository) MarkMined(name string) error {
	result, err := r.db.Exec(`
		UPDATE datasets
		SET mined_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, name)
	if err != nil {
		return fmt.Errorf("failed to mark dataset mined: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("dataset not found: %s", name)
	}
	return nil
}

// GetDataset retrieves a dataset by name, or nil when it does not exist.
func (r *datasetRepository) GetDataset(name string) (*Dataset, error) {
	dataset := &Dataset{}
	err := r.db.QueryRow(`
		SELECT id, name, source_file, file_hash, total_rows, duplicate_rows,
		       missing_salary_rows, hourly_rows, kept_rows,
		       processed_at, mined_at, created_at, updated_at
		FROM datasets
		WHERE name = ?
	`, name).Scan(
		&dataset.ID, &dataset.Name, &dataset.SourceFile, &dataset.FileHash,
		&dataset.TotalRows, &dataset.DuplicateRows, &dataset.MissingSalaryRows,
		&dataset.HourlyRows, &dataset.KeptRows,
		&dataset.ProcessedAt, &dataset.MinedAt, &dataset.CreatedAt, &dataset.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return dataset, nil
}

// GetDatasets retrieves all registered datasets ordered by name.
func (r *datasetRepository) GetDatasets() ([]Dataset, error) {
	rows, err := r.db.Query(`
		SELECT id, name, source_file, file_hash, total_rows, duplicate_rows,
		       missing_salary_rows, hourly_rows, kept_rows,
		       processed_at, mined_at, created_at, updated_at
		FROM datasets
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get datasets: %w", err)
	}
	defer rows.Close()

	datasets := make([]Dataset, 0)
	for rows.Next() {
		var dataset Dataset
		err := rows.Scan(
			&dataset.ID, &dataset.Name, &dataset.SourceFile, &dataset.FileHash,
			&dataset.TotalRows, &dataset.DuplicateRows, &dataset.MissingSalaryRows,
			&dataset.HourlyRows, &dataset.KeptRows,
			&dataset.ProcessedAt, &dataset.MinedAt, &dataset.CreatedAt, &dataset.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, dataset)
	}
	return datasets, rows.Err()
}

func (r *datasetRepository) GetDatasetCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM datasets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count datasets: %w", err)
	}
	return count, nil
}
