package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testHeader = `,Job Title,Salary Estimate,Job Description,Rating,Company Name,Location,Headquarters,Size,Founded,Type of ownership,Industry,Sector,Revenue,Competitors,Easy Apply`

func writeDataset(t *testing.T, rows ...string) string {
	t.Helper()

	content := testHeader + "\n" + strings.Join(rows, "\n") + "\n"
	path := filepath.Join(t.TempDir(), "postings.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReaderRun(t *testing.T) {
	path := writeDataset(t,
		`0,Data Scientist,"$74K-$118K (Glassdoor est.)",Great role with SQL.,4.1,"Acme Corp
4.1","New York, NY","Boston, MA",501 to 1000 employees,2002,Company - Private,IT Services,Information Technology,$100 to $500 million (USD),-1,True`)

	raws, fileHash, err := NewReader().Run(path)
	if err != nil {
		t.Fatalf("Reading valid dataset should not fail: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(raws))
	}
	if fileHash == "" {
		t.Error("Expected a non-empty file hash")
	}

	raw := raws[0]
	if raw.Title != "Data Scientist" {
		t.Errorf("Expected title 'Data Scientist', got '%s'", raw.Title)
	}
	if raw.Company != "Acme Corp" {
		t.Errorf("Embedded rating should be stripped from company, got '%s'", raw.Company)
	}
	if raw.Rating == nil || *raw.Rating != 4.1 {
		t.Errorf("Expected rating 4.1, got %v", raw.Rating)
	}
	if raw.Founded == nil || *raw.Founded != 2002 {
		t.Errorf("Expected founded 2002, got %v", raw.Founded)
	}
	if raw.Location != "New York, NY" {
		t.Errorf("Expected location 'New York, NY', got '%s'", raw.Location)
	}
}

func TestReaderSentinelValues(t *testing.T) {
	path := writeDataset(t,
		`0,Analyst,-1,Plain description.,-1.0,Acme,-1,-1,-1,-1,-1,-1,-1,-1,-1,-1`)

	raws, _, err := NewReader().Run(path)
	if err != nil {
		t.Fatalf("Reading should not fail: %v", err)
	}

	raw := raws[0]
	if raw.SalaryText != "" {
		t.Errorf("Sentinel salary should be empty, got '%s'", raw.SalaryText)
	}
	if raw.Rating != nil {
		t.Errorf("Sentinel rating should be nil, got %v", raw.Rating)
	}
	if raw.Founded != nil {
		t.Errorf("Sentinel founded should be nil, got %v", raw.Founded)
	}
	if raw.Sector != "" || raw.Industry != "" || raw.Ownership != "" {
		t.Error("Sentinel categorical fields should be empty")
	}
}

func TestReaderFileHashChangesWithContent(t *testing.T) {
	first := writeDataset(t,
		`0,Analyst,"$50K-$60K",Desc one.,3.0,A,"X, NY","X, NY",Unknown,2000,Private,I,S,Unknown / Non-Applicable,-1,True`)
	second := writeDataset(t,
		`0,Analyst,"$50K-$70K",Desc two.,3.0,A,"X, NY","X, NY",Unknown,2000,Private,I,S,Unknown / Non-Applicable,-1,True`)

	_, firstHash, err := NewReader().Run(first)
	if err != nil {
		t.Fatal(err)
	}
	_, secondHash, err := NewReader().Run(second)
	if err != nil {
		t.Fatal(err)
	}

	if firstHash == secondHash {
		t.Error("Different file contents should produce different hashes")
	}
}

func TestReaderMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("Job Title,Location\nAnalyst,\"New York, NY\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := NewReader().Run(path)
	if err == nil {
		t.Fatal("Reading a dataset with missing columns should fail")
	}
	if !strings.Contains(err.Error(), "missing required columns") {
		t.Errorf("Error should name the missing columns, got: %v", err)
	}
}

func TestReaderMissingFile(t *testing.T) {
	_, _, err := NewReader().Run(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Error("Reading a missing file should fail")
	}
}
