package database

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/job-comb/app/mining"
)

// itemsetRepository handles database operations for mined itemsets
type itemsetRepository struct {
	db *DB
}

// NewItemsetRepository creates a new itemset repository
func NewItemsetRepository(db *DB) ItemsetRepository {
	return &itemsetRepository{db: db}
}

// ReplaceItemsets atomically swaps a dataset's itemsets for a fresh mining
// result.
func (r *itemsetRepository) ReplaceItemsets(datasetID string, itemsets []mining.Itemset) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM itemsets WHERE dataset_id = ?`, datasetID); err != nil {
		return fmt.Errorf("failed to clear itemsets: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO itemsets (dataset_id, items, size, support)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, itemset := range itemsets {
		_, err := stmt.Exec(datasetID, strings.Join(itemset.Items, ","), len(itemset.Items), itemset.Support)
		if err != nil {
			return fmt.Errorf("failed to insert itemset: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit itemsets: %w", err)
	}
	return nil
}

// GetItemsets retrieves a dataset's itemsets in mining order: size, then
// descending support, then items.
func (r *itemsetRepository) GetItemsets(datasetName string) ([]mining.Itemset, error) {
	rows, err := r.db.Query(`
		SELECT i.items, i.support
		FROM itemsets i
		JOIN datasets d ON d.id = i.dataset_id
		WHERE d.name = ?
		ORDER BY i.size, i.support DESC, i.items
	`, datasetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get itemsets: %w", err)
	}
	defer rows.Close()

	itemsets := make([]mining.Itemset, 0)
	for rows.Next() {
		var items string
		var support float64
		if err := rows.Scan(&items, &support); err != nil {
			return nil, fmt.Errorf("failed to scan itemset: %w", err)
		}
		itemsets = append(itemsets, mining.Itemset{Items: strings.Split(items, ","), Support: support})
	}
	return itemsets, rows.Err()
}
