package posting

import (
	"testing"

	"github.com/lysyi3m/job-comb/app/rules"
)

func testRules(t *testing.T) *rules.Rules {
	t.Helper()

	loaded, err := rules.Load("")
	if err != nil {
		t.Fatalf("Failed to load default rules: %v", err)
	}
	return loaded
}

func testRaw(index int) Raw {
	return Raw{
		Index:        index,
		Title:        "Data Scientist",
		SalaryText:   "$74K-$118K (Glassdoor est.)",
		Description:  "We need Python, SQL and Tableau experience.",
		Company:      "Acme Corp",
		Location:     "New York, NY",
		Headquarters: "Boston, MA",
		SizeText:     "501 to 1000 employees",
		Founded:      intPtr(2002),
		Rating:       floatPtr(4.1),
		Ownership:    "Company - Private",
		Industry:     "IT Services",
		Sector:       "Information Technology",
		RevenueText:  "$100 to $500 million (USD)",
	}
}

func TestProcessorRun(t *testing.T) {
	processor := NewProcessor(testRules(t))

	postings, stats, err := processor.Run([]Raw{testRaw(0)})
	if err != nil {
		t.Fatalf("Processing should not fail: %v", err)
	}
	if stats.Kept != 1 {
		t.Fatalf("Expected 1 kept posting, got %d", stats.Kept)
	}

	p := postings[0]
	if p.Role != RoleDataScientist {
		t.Errorf("Expected role data_scientist, got %s", p.Role)
	}
	if p.Seniority != SeniorityUnspecified {
		t.Errorf("Expected seniority unspecified, got %s", p.Seniority)
	}
	if p.MinSalary == nil || *p.MinSalary != 74 {
		t.Errorf("Expected min salary 74, got %v", fmtPtr(p.MinSalary))
	}
	if p.EstSalary == nil || *p.EstSalary != 96 {
		t.Errorf("Expected est salary 96, got %v", fmtPtr(p.EstSalary))
	}
	if p.City != "New York" || p.State == nil || *p.State != "NY" {
		t.Errorf("Expected New York/NY, got %s/%v", p.City, strPtrFmt(p.State))
	}
	if p.HQCity != "Boston" || p.HQState == nil || *p.HQState != "MA" {
		t.Errorf("Expected Boston/MA, got %s/%v", p.HQCity, strPtrFmt(p.HQState))
	}
	if p.MaxEmployeeSize == nil || *p.MaxEmployeeSize != 1000 {
		t.Errorf("Expected employee size 1000, got %v", fmtPtr(p.MaxEmployeeSize))
	}
	if p.MaxRevenueUSD == nil || *p.MaxRevenueUSD != 500*1e8 {
		t.Errorf("Expected revenue 5e10, got %v", fmtPtr(p.MaxRevenueUSD))
	}
	if p.YearsFounded == nil || *p.YearsFounded != 20 {
		t.Errorf("Expected years founded 20, got %v", fmtPtr(p.YearsFounded))
	}
	if p.ID == "" || p.ContentHash == "" {
		t.Error("Posting should carry a deterministic ID and content hash")
	}

	hasSQL := false
	for _, tag := range p.SkillTags {
		if tag == "SQL" {
			hasSQL = true
		}
	}
	if !hasSQL {
		t.Errorf("Expected SQL skill tag, got %v", p.SkillTags)
	}
}

func TestProcessorDropsHourly(t *testing.T) {
	processor := NewProcessor(testRules(t))

	hourly := testRaw(1)
	hourly.Title = "Part Time Analyst"
	hourly.Description = "Hourly analyst role."
	hourly.SalaryText = "$20 Per Hour"

	postings, stats, err := processor.Run([]Raw{testRaw(0), hourly})
	if err != nil {
		t.Fatalf("Processing should not fail: %v", err)
	}
	if stats.Hourly != 1 {
		t.Errorf("Expected 1 hourly drop, got %d", stats.Hourly)
	}
	for _, p := range postings {
		if p.Title == "Part Time Analyst" {
			t.Error("Hourly posting must not appear in the output")
		}
	}
}

func TestProcessorDropsMissingSalary(t *testing.T) {
	processor := NewProcessor(testRules(t))

	missing := testRaw(1)
	missing.Title = "Mystery Role"
	missing.SalaryText = ""

	_, stats, err := processor.Run([]Raw{testRaw(0), missing})
	if err != nil {
		t.Fatalf("Processing should not fail: %v", err)
	}
	if stats.MissingSalary != 1 {
		t.Errorf("Expected 1 missing-salary drop, got %d", stats.MissingSalary)
	}
	if stats.Kept != 1 {
		t.Errorf("Expected 1 kept posting, got %d", stats.Kept)
	}
}

func TestProcessorDeduplicates(t *testing.T) {
	processor := NewProcessor(testRules(t))

	postings, stats, err := processor.Run([]Raw{testRaw(0), testRaw(1)})
	if err != nil {
		t.Fatalf("Processing should not fail: %v", err)
	}
	if stats.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", stats.Duplicates)
	}
	if len(postings) != 1 {
		t.Errorf("Expected 1 posting after dedup, got %d", len(postings))
	}
}

func TestProcessorDeterministicIDs(t *testing.T) {
	processor := NewProcessor(testRules(t))

	first, _, err := processor.Run([]Raw{testRaw(0)})
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := processor.Run([]Raw{testRaw(0)})
	if err != nil {
		t.Fatal(err)
	}

	if first[0].ID != second[0].ID {
		t.Errorf("Same content should produce the same ID, got %s vs %s", first[0].ID, second[0].ID)
	}
}

func TestProcessorImputesParseMisses(t *testing.T) {
	processor := NewProcessor(testRules(t))

	sparse := testRaw(1)
	sparse.Title = "Junior Data Analyst"
	sparse.Description = "Entry level analytics."
	sparse.SizeText = "Unknown"
	sparse.RevenueText = "Unknown / Non-Applicable"
	sparse.Rating = nil
	sparse.Founded = nil
	sparse.Location = "Remote"
	sparse.Headquarters = "Remote"

	postings, _, err := processor.Run([]Raw{testRaw(0), sparse})
	if err != nil {
		t.Fatalf("Processing should not fail: %v", err)
	}

	for _, p := range postings {
		if p.Rating == nil || p.Founded == nil || p.MaxEmployeeSize == nil ||
			p.MaxRevenueUSD == nil || p.State == nil || p.Sector == nil {
			t.Errorf("Posting %d should have no missing imputable fields after processing", p.Index)
		}
	}
}
