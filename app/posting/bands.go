package posting

import (
	"strconv"
	"strings"
)

// Scale factors applied to revenue band numbers. millionScale is 1e8 rather
// than the SI 1e6: every stored revenue figure was produced with this factor,
// so changing it invalidates existing data.
// TODO: correct millionScale to 1e6 together with a migration re-deriving
// max_revenue_usd for stored postings.
const (
	millionScale = 1e8
	billionScale = 1e9
)

// BandParser turns free-text employee-count and revenue band strings into a
// single representative value, the band's upper bound.
type BandParser struct{}

func NewBandParser() *BandParser {
	return &BandParser{}
}

// EmployeeSize parses strings like "501 to 1000 employees" or
// "10000+ employees". Unknown or malformed bands yield nil.
func (p *BandParser) EmployeeSize(text string) *float64 {
	if text == "" || strings.EqualFold(text, "Unknown") {
		return nil
	}

	cleaned := strings.ReplaceAll(text, "employees", "")

	if strings.Contains(cleaned, "+") {
		return parseNumber(strings.ReplaceAll(cleaned, "+", ""))
	}

	parts := strings.Split(cleaned, "to")
	if len(parts) != 2 {
		return nil
	}
	return parseNumber(parts[1])
}

// Revenue parses strings like "$100 to $500 million (USD)" or
// "$10+ billion (USD)" into USD. Unknown or malformed bands yield nil.
func (p *BandParser) Revenue(text string) *float64 {
	if text == "" || strings.EqualFold(text, "Unknown / Non-Applicable") {
		return nil
	}

	cleaned := strings.ReplaceAll(text, "(USD)", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")

	switch {
	case strings.Contains(cleaned, "billion"):
		cleaned = strings.ReplaceAll(cleaned, "billion", "")
		if strings.Contains(cleaned, "+") {
			return scale(parseNumber(strings.ReplaceAll(cleaned, "+", "")), billionScale)
		}
		return scale(upperBound(cleaned), billionScale)

	case strings.Contains(cleaned, "million"):
		cleaned = strings.ReplaceAll(cleaned, "million", "")
		if strings.Contains(cleaned, "Less than") {
			return scale(parseNumber(strings.ReplaceAll(cleaned, "Less than", "")), millionScale)
		}
		return scale(upperBound(cleaned), millionScale)
	}

	return nil
}

// upperBound picks the representative value of a "A to B" band: the upper
// number, or the sole number when the band has no "to".
func upperBound(text string) *float64 {
	parts := strings.Split(text, "to")
	switch len(parts) {
	case 1:
		return parseNumber(parts[0])
	case 2:
		return parseNumber(parts[1])
	default:
		return nil
	}
}

func scale(value *float64, factor float64) *float64 {
	if value == nil {
		return nil
	}
	scaled := *value * factor
	return &scaled
}

func parseNumber(text string) *float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return nil
	}
	return &value
}
