package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lysyi3m/job-comb/app/posting"
)

var requiredColumns = []string{
	"Job Title",
	"Salary Estimate",
	"Job Description",
	"Rating",
	"Company Name",
	"Location",
	"Headquarters",
	"Size",
	"Founded",
	"Type of ownership",
	"Industry",
	"Sector",
	"Revenue",
}

// Reader loads a delimited job postings export into raw posting rows.
// Columns are resolved by header name, a -1 sentinel in any form marks a
// missing value, and company cells carry an embedded rating suffix that is
// stripped off.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Run reads a dataset file. It returns the raw rows and the sha256 hex hash
// of the file contents, used for change detection.
func (r *Reader) Run(path string) ([]posting.Raw, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read dataset file: %w", err)
	}
	fileHash := fmt.Sprintf("%x", sha256.Sum256(data))

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse dataset file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, "", fmt.Errorf("dataset file %s is empty", path)
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return nil, "", fmt.Errorf("dataset file %s: %w", path, err)
	}

	raws := make([]posting.Raw, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < len(records[0]) {
			slog.Warn("Skipping short dataset row", "file", path, "row", i+1, "fields", len(record))
			continue
		}

		raws = append(raws, posting.Raw{
			Index:        i,
			Title:        cell(record, columns, "Job Title"),
			SalaryText:   cell(record, columns, "Salary Estimate"),
			Description:  cell(record, columns, "Job Description"),
			Company:      stripCompanyRating(cell(record, columns, "Company Name")),
			Location:     cell(record, columns, "Location"),
			Headquarters: cell(record, columns, "Headquarters"),
			SizeText:     cell(record, columns, "Size"),
			Founded:      intCell(record, columns, "Founded"),
			Rating:       floatCell(record, columns, "Rating"),
			Ownership:    cell(record, columns, "Type of ownership"),
			Industry:     cell(record, columns, "Industry"),
			Sector:       cell(record, columns, "Sector"),
			RevenueText:  cell(record, columns, "Revenue"),
		})
	}

	slog.Debug("Dataset loaded", "file", path, "rows", len(raws))

	return raws, fileHash, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	missing := make([]string, 0)
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

// cell returns the named field with the -1 missing-value sentinel mapped to
// an empty string.
func cell(record []string, columns map[string]int, name string) string {
	value := strings.TrimSpace(record[columns[name]])
	if isSentinel(value) {
		return ""
	}
	return value
}

func intCell(record []string, columns map[string]int, name string) *int {
	value := cell(record, columns, name)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}

func floatCell(record []string, columns map[string]int, name string) *float64 {
	value := cell(record, columns, name)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func isSentinel(value string) bool {
	switch value {
	case "-1", "-1.0":
		return true
	}
	return false
}

// stripCompanyRating drops the rating figure some exports append to the
// company cell on its own line ("Acme Corp\n3.8").
func stripCompanyRating(company string) string {
	name, _, found := strings.Cut(company, "\n")
	if !found {
		return company
	}
	return strings.TrimSpace(name)
}
