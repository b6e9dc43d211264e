package posting

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	hourlyRe         = regexp.MustCompile(`(?i)per\s+hour`)
	estimateSuffixRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// SalaryRange holds parsed salary bounds in thousands of USD. A nil bound
// means the source token did not parse.
type SalaryRange struct {
	Min *float64
	Max *float64
}

// Est returns the midpoint of the two bounds, or nil when either is missing.
func (r SalaryRange) Est() *float64 {
	if r.Min == nil || r.Max == nil {
		return nil
	}
	est := (*r.Min + *r.Max) / 2
	return &est
}

// SalaryParser extracts min/max salary bounds from semi-structured strings
// like "$74K-$118K (Glassdoor est.)". Hourly-rate postings are flagged rather
// than parsed; callers drop them from the final table.
type SalaryParser struct{}

func NewSalaryParser() *SalaryParser {
	return &SalaryParser{}
}

// Run parses a salary string. The returned bool is true when the string
// matches the hourly-rate pattern; such strings never yield bounds.
// Malformed strings degrade to nil bounds, never to an error.
func (p *SalaryParser) Run(text string) (SalaryRange, bool) {
	if hourlyRe.MatchString(text) {
		return SalaryRange{}, true
	}

	stripped := estimateSuffixRe.ReplaceAllString(text, "")

	parts := strings.Split(stripped, "-")
	if len(parts) != 2 {
		return SalaryRange{}, false
	}

	return SalaryRange{
		Min: parseBound(parts[0]),
		Max: parseBound(parts[1]),
	}, false
}

// parseBound parses one "$NK" token into thousands of USD. Tokens without
// the K suffix are unparseable rather than guessed at.
func parseBound(token string) *float64 {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "$")

	if !strings.HasSuffix(token, "K") && !strings.HasSuffix(token, "k") {
		return nil
	}
	token = strings.TrimSpace(token[:len(token)-1])

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &value
}
