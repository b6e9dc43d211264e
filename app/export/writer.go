package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lysyi3m/job-comb/app/posting"
)

var columnNameRe = regexp.MustCompile(`[^a-z0-9]+`)

// Writer produces the model-ready feature table: one row per posting with
// numeric columns, one boolean column per skill category, and dummy columns
// for every categorical field. The first sorted level of each categorical is
// dropped so the dummies stay linearly independent.
type Writer struct {
	skillCategories []string
}

func NewWriter(skillCategories []string) *Writer {
	return &Writer{skillCategories: skillCategories}
}

type categoricalColumn struct {
	name string
	get  func(*posting.Normalized) string
}

func categoricals() []categoricalColumn {
	return []categoricalColumn{
		{"role", func(p *posting.Normalized) string { return string(p.Role) }},
		{"seniority", func(p *posting.Normalized) string { return string(p.Seniority) }},
		{"state", func(p *posting.Normalized) string { return deref(p.State) }},
		{"sector", func(p *posting.Normalized) string { return deref(p.Sector) }},
		{"ownership", func(p *posting.Normalized) string { return deref(p.Ownership) }},
		{"size_band", func(p *posting.Normalized) string { return deref(p.SizeText) }},
	}
}

// Run writes the feature table as CSV.
func (w *Writer) Run(out io.Writer, postings []posting.Normalized) error {
	columns := categoricals()

	// Dummy levels are derived from the data, sorted, first level dropped.
	levels := make([][]string, len(columns))
	for i, column := range columns {
		seen := make(map[string]bool)
		for j := range postings {
			if value := column.get(&postings[j]); value != "" {
				seen[value] = true
			}
		}
		values := make([]string, 0, len(seen))
		for value := range seen {
			values = append(values, value)
		}
		sort.Strings(values)
		if len(values) > 0 {
			values = values[1:]
		}
		levels[i] = values
	}

	writer := csv.NewWriter(out)

	header := []string{
		"id", "min_salary", "max_salary", "est_salary", "rating",
		"years_founded", "max_employee_size", "max_revenue_usd",
	}
	for _, category := range w.skillCategories {
		header = append(header, "skill_"+sanitize(category))
	}
	for i, column := range columns {
		for _, level := range levels[i] {
			header = append(header, column.name+"_"+sanitize(level))
		}
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for i := range postings {
		p := &postings[i]

		row := []string{
			p.ID,
			formatFloat(p.MinSalary),
			formatFloat(p.MaxSalary),
			formatFloat(p.EstSalary),
			formatFloat(p.Rating),
			formatFloat(p.YearsFounded),
			formatFloat(p.MaxEmployeeSize),
			formatFloat(p.MaxRevenueUSD),
		}

		tags := make(map[string]bool, len(p.SkillTags))
		for _, tag := range p.SkillTags {
			tags[tag] = true
		}
		for _, category := range w.skillCategories {
			row = append(row, boolCell(tags[category]))
		}

		for j, column := range columns {
			value := column.get(p)
			for _, level := range levels[j] {
				row = append(row, boolCell(value == level))
			}
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

func sanitize(name string) string {
	cleaned := columnNameRe.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(cleaned, "_")
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func boolCell(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
