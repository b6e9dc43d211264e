package posting

import (
	"fmt"
	"math"
	"sort"
)

// Imputer fills missing values in place after all rows are parsed, using
// global column statistics. Numeric strategies are fixed per column, not
// inferred; categorical columns take the column mode.
type Imputer struct{}

func NewImputer() *Imputer {
	return &Imputer{}
}

type floatColumn struct {
	name     string
	strategy string
	get      func(*Normalized) **float64
}

type stringColumn struct {
	name string
	get  func(*Normalized) **string
}

// Run imputes every nullable column used downstream. A column whose values
// are all missing is a data error and fails the run.
func (im *Imputer) Run(postings []Normalized) error {
	if len(postings) == 0 {
		return nil
	}

	floatColumns := []floatColumn{
		{"rating", "mean", func(p *Normalized) **float64 { return &p.Rating }},
		{"years_founded", "median", func(p *Normalized) **float64 { return &p.YearsFounded }},
		{"max_employee_size", "median", func(p *Normalized) **float64 { return &p.MaxEmployeeSize }},
		{"max_revenue_usd", "median", func(p *Normalized) **float64 { return &p.MaxRevenueUSD }},
	}

	for _, column := range floatColumns {
		if err := im.imputeFloat(postings, column); err != nil {
			return err
		}
	}

	if err := im.imputeFounded(postings); err != nil {
		return err
	}

	stringColumns := []stringColumn{
		{"state", func(p *Normalized) **string { return &p.State }},
		{"hq_state", func(p *Normalized) **string { return &p.HQState }},
		{"ownership", func(p *Normalized) **string { return &p.Ownership }},
		{"industry", func(p *Normalized) **string { return &p.Industry }},
		{"sector", func(p *Normalized) **string { return &p.Sector }},
		{"size_band", func(p *Normalized) **string { return &p.SizeText }},
	}

	for _, column := range stringColumns {
		if err := im.imputeString(postings, column); err != nil {
			return err
		}
	}

	return nil
}

func (im *Imputer) imputeFloat(postings []Normalized, column floatColumn) error {
	values := make([]float64, 0, len(postings))
	for i := range postings {
		if ptr := *column.get(&postings[i]); ptr != nil {
			values = append(values, *ptr)
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("cannot impute column %q: all values are missing", column.name)
	}

	var fill float64
	if column.strategy == "mean" {
		fill = mean(values)
	} else {
		fill = median(values)
	}

	for i := range postings {
		slot := column.get(&postings[i])
		if *slot == nil {
			value := fill
			*slot = &value
		}
	}
	return nil
}

func (im *Imputer) imputeFounded(postings []Normalized) error {
	values := make([]float64, 0, len(postings))
	for i := range postings {
		if postings[i].Founded != nil {
			values = append(values, float64(*postings[i].Founded))
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("cannot impute column %q: all values are missing", "founded")
	}

	fill := int(math.Round(median(values)))
	for i := range postings {
		if postings[i].Founded == nil {
			value := fill
			postings[i].Founded = &value
		}
	}
	return nil
}

func (im *Imputer) imputeString(postings []Normalized, column stringColumn) error {
	values := make([]string, 0, len(postings))
	for i := range postings {
		if ptr := *column.get(&postings[i]); ptr != nil {
			values = append(values, *ptr)
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("cannot impute column %q: all values are missing", column.name)
	}

	fill := mode(values)
	for i := range postings {
		slot := column.get(&postings[i])
		if *slot == nil {
			value := fill
			*slot = &value
		}
	}
	return nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// mode returns the most frequent value; ties go to the value encountered
// first, keeping the result stable across runs.
func mode(values []string) string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, value := range values {
		if counts[value] == 0 {
			order = append(order, value)
		}
		counts[value]++
	}

	best := order[0]
	for _, value := range order {
		if counts[value] > counts[best] {
			best = value
		}
	}
	return best
}
