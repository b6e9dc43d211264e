package posting

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lysyi3m/job-comb/app/rules"
)

// referenceYear anchors the years_founded feature. Stored values were
// derived against 2022 and stay comparable only if this does not drift
// with the wall clock.
const referenceYear = 2022

var postingNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Processor runs the full per-posting pipeline: text normalization, field
// parsers, skill extraction, title classification, deduplication, and the
// global imputation pass. One Processor is shared across datasets; it holds
// no per-run state.
type Processor struct {
	normalizer *Normalizer
	salary     *SalaryParser
	bands      *BandParser
	locations  *LocationSplitter
	skills     *SkillExtractor
	titles     *TitleClassifier
	imputer    *Imputer
}

func NewProcessor(cfg *rules.Rules) *Processor {
	return &Processor{
		normalizer: NewNormalizer(cfg.Boilerplate),
		salary:     NewSalaryParser(),
		bands:      NewBandParser(),
		locations:  NewLocationSplitter(cfg.StateOverrides),
		skills:     NewSkillExtractor(cfg.Skills),
		titles:     NewTitleClassifier(cfg.Roles, cfg.Seniority),
		imputer:    NewImputer(),
	}
}

// Run transforms raw rows into normalized postings. Rows are dropped only
// for three reasons: duplicate content, an empty salary string, or an
// hourly-rate salary. Parse misses on other fields degrade to nil and are
// filled by the imputation pass at the end.
func (p *Processor) Run(raws []Raw) ([]Normalized, Stats, error) {
	stats := Stats{Total: len(raws)}

	seen := make(map[string]bool)
	normalized := make([]Normalized, 0, len(raws))

	for _, raw := range raws {
		contentHash := contentHash(raw)
		if seen[contentHash] {
			stats.Duplicates++
			continue
		}
		seen[contentHash] = true

		if strings.TrimSpace(raw.SalaryText) == "" {
			stats.MissingSalary++
			continue
		}

		salary, hourly := p.salary.Run(raw.SalaryText)
		if hourly {
			stats.Hourly++
			continue
		}

		normalized = append(normalized, p.normalize(raw, salary, contentHash))
	}

	stats.Kept = len(normalized)

	if err := p.imputer.Run(normalized); err != nil {
		return nil, stats, fmt.Errorf("imputation failed: %w", err)
	}

	slog.Debug("Postings processed",
		"total", stats.Total,
		"duplicates", stats.Duplicates,
		"missing_salary", stats.MissingSalary,
		"hourly", stats.Hourly,
		"kept", stats.Kept)

	return normalized, stats, nil
}

func (p *Processor) normalize(raw Raw, salary SalaryRange, contentHash string) Normalized {
	description := p.normalizer.Run(raw.Description)
	city, state := p.locations.Run(raw.Location)
	hqCity, hqState := p.locations.Run(raw.Headquarters)

	var yearsFounded *float64
	if raw.Founded != nil {
		years := float64(referenceYear - *raw.Founded)
		yearsFounded = &years
	}

	return Normalized{
		ID:              uuid.NewSHA1(postingNamespace, []byte(contentHash)).String(),
		Index:           raw.Index,
		Title:           raw.Title,
		Role:            p.titles.Role(raw.Title),
		Seniority:       p.titles.Seniority(raw.Title),
		MinSalary:       salary.Min,
		MaxSalary:       salary.Max,
		EstSalary:       salary.Est(),
		Rating:          raw.Rating,
		Founded:         raw.Founded,
		YearsFounded:    yearsFounded,
		MaxEmployeeSize: p.bands.EmployeeSize(raw.SizeText),
		MaxRevenueUSD:   p.bands.Revenue(raw.RevenueText),
		City:            city,
		State:           state,
		HQCity:          hqCity,
		HQState:         hqState,
		Ownership:       nilIfEmpty(raw.Ownership),
		Industry:        nilIfEmpty(raw.Industry),
		Sector:          nilIfEmpty(raw.Sector),
		SizeText:        nilIfEmpty(raw.SizeText),
		SkillTags:       p.skills.Run(description),
		ContentHash:     contentHash,
	}
}

func contentHash(raw Raw) string {
	content := fmt.Sprintf("%s|%s|%s", raw.Title, raw.Location, raw.Description)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

func nilIfEmpty(text string) *string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &text
}
