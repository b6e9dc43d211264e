package database

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/job-comb/app/posting"
)

// postingRepository handles database operations for normalized postings
type postingRepository struct {
	db *DB
}

// NewPostingRepository creates a new posting repository
func NewPostingRepository(db *DB) PostingRepository {
	return &postingRepository{db: db}
}

// ReplacePostings atomically swaps a dataset's postings for a fresh
// processing result.
func (r *postingRepository) ReplacePostings(datasetID string, postings []posting.Normalized) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM postings WHERE dataset_id = ?`, datasetID); err != nil {
		return fmt.Errorf("failed to clear postings: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO postings (
			id, dataset_id, row_index, title, role, seniority,
			min_salary, max_salary, est_salary, rating, founded, years_founded,
			max_employee_size, max_revenue_usd, city, state, hq_city, hq_state,
			ownership, industry, sector, size_band, skill_tags, content_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range postings {
		_, err := stmt.Exec(
			p.ID, datasetID, p.Index, p.Title, string(p.Role), string(p.Seniority),
			p.MinSalary, p.MaxSalary, p.EstSalary, p.Rating, p.Founded, p.YearsFounded,
			p.MaxEmployeeSize, p.MaxRevenueUSD, p.City, p.State, p.HQCity, p.HQState,
			p.Ownership, p.Industry, p.Sector, p.SizeText,
			strings.Join(p.SkillTags, ","), p.ContentHash,
		)
		if err != nil {
			return fmt.Errorf("failed to insert posting %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit postings: %w", err)
	}
	return nil
}

// GetPostings retrieves a page of a dataset's postings ordered by row index.
func (r *postingRepository) GetPostings(datasetName string, limit, offset int) ([]posting.Normalized, error) {
	return r.queryPostings(`
		SELECT p.id, p.row_index, p.title, p.role, p.seniority,
		       p.min_salary, p.max_salary, p.est_salary, p.rating, p.founded, p.years_founded,
		       p.max_employee_size, p.max_revenue_usd, p.city, p.state, p.hq_city, p.hq_state,
		       p.ownership, p.industry, p.sector, p.size_band, p.skill_tags, p.content_hash
		FROM postings p
		JOIN datasets d ON d.id = p.dataset_id
		WHERE d.name = ?
		ORDER BY p.row_index
		LIMIT ? OFFSET ?
	`, datasetName, limit, offset)
}

// GetAllPostings retrieves every posting of a dataset ordered by row index.
func (r *postingRepository) GetAllPostings(datasetName string) ([]posting.Normalized, error) {
	return r.queryPostings(`
		SELECT p.id, p.row_index, p.title, p.role, p.seniority,
		       p.min_salary, p.max_salary, p.est_salary, p.rating, p.founded, p.years_founded,
		       p.max_employee_size, p.max_revenue_usd, p.city, p.state, p.hq_city, p.hq_state,
		       p.ownership, p.industry, p.sector, p.size_band, p.skill_tags, p.content_hash
		FROM postings p
		JOIN datasets d ON d.id = p.dataset_id
		WHERE d.name = ?
		ORDER BY p.row_index
	`, datasetName)
}

func (r *postingRepository) queryPostings(query string, args ...interface{}) ([]posting.Normalized, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get postings: %w", err)
	}
	defer rows.Close()

	postings := make([]posting.Normalized, 0)
	for rows.Next() {
		var p posting.Normalized
		var role, seniority, skillTags string
		err := rows.Scan(
			&p.ID, &p.Index, &p.Title, &role, &seniority,
			&p.MinSalary, &p.MaxSalary, &p.EstSalary, &p.Rating, &p.Founded, &p.YearsFounded,
			&p.MaxEmployeeSize, &p.MaxRevenueUSD, &p.City, &p.State, &p.HQCity, &p.HQState,
			&p.Ownership, &p.Industry, &p.Sector, &p.SizeText, &skillTags, &p.ContentHash,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}

		p.Role = posting.Role(role)
		p.Seniority = posting.Seniority(seniority)
		if skillTags != "" {
			p.SkillTags = strings.Split(skillTags, ",")
		}
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

func (r *postingRepository) GetPostingCount(datasetName string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM postings p
		JOIN datasets d ON d.id = p.dataset_id
		WHERE d.name = ?
	`, datasetName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count postings: %w", err)
	}
	return count, nil
}

func (r *postingRepository) GetTotalCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM postings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count postings: %w", err)
	}
	return count, nil
}

// GetSkillTransactions returns each posting's skill-tag set, the input for
// itemset mining. Postings without tags contribute an empty transaction so
// support fractions stay relative to the whole dataset.
func (r *postingRepository) GetSkillTransactions(datasetName string) ([][]string, error) {
	rows, err := r.db.Query(`
		SELECT p.skill_tags
		FROM postings p
		JOIN datasets d ON d.id = p.dataset_id
		WHERE d.name = ?
		ORDER BY p.row_index
	`, datasetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([][]string, 0)
	for rows.Next() {
		var skillTags string
		if err := rows.Scan(&skillTags); err != nil {
			return nil, fmt.Errorf("failed to scan skill tags: %w", err)
		}

		if skillTags == "" {
			transactions = append(transactions, []string{})
			continue
		}
		transactions = append(transactions, strings.Split(skillTags, ","))
	}
	return transactions, rows.Err()
}
