package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/job-comb/app/database"
	"github.com/lysyi3m/job-comb/app/dataset"
	"github.com/lysyi3m/job-comb/app/mining"
	"github.com/lysyi3m/job-comb/app/posting"
	"github.com/lysyi3m/job-comb/app/rules"
	"github.com/lysyi3m/job-comb/app/tasks"
)

type stubScheduler struct {
	enqueued []tasks.TaskInterface
}

func (s *stubScheduler) Start()                            {}
func (s *stubScheduler) Stop()                             {}
func (s *stubScheduler) RunOnce(ctx context.Context) error { return nil }
func (s *stubScheduler) EnqueueTask(task tasks.TaskInterface) error {
	s.enqueued = append(s.enqueued, task)
	return nil
}

func testServer(t *testing.T, apiAccessKey string) (*gin.Engine, database.DatasetRepository, database.PostingRepository, *stubScheduler) {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	loaded, err := rules.Load("")
	if err != nil {
		t.Fatalf("Failed to load default rules: %v", err)
	}

	datasetRepo := database.NewDatasetRepository(db)
	postingRepo := database.NewPostingRepository(db)
	itemsetRepo := database.NewItemsetRepository(db)
	scheduler := &stubScheduler{}

	handler := NewHandler(datasetRepo, postingRepo, itemsetRepo,
		dataset.NewReader(), posting.NewProcessor(loaded), mining.NewMiner(0.1),
		loaded.Categories(), scheduler)

	return NewServer(handler, apiAccessKey), datasetRepo, postingRepo, scheduler
}

func seedDataset(t *testing.T, datasetRepo database.DatasetRepository, postingRepo database.PostingRepository) {
	t.Helper()

	id, _, err := datasetRepo.UpsertDataset("postings", "postings.csv", "hash1")
	if err != nil {
		t.Fatal(err)
	}

	est := 96.0
	state := "NY"
	batch := []posting.Normalized{{
		ID:          "a",
		Index:       0,
		Title:       "Data Scientist",
		Role:        posting.RoleDataScientist,
		Seniority:   posting.SeniorityUnspecified,
		EstSalary:   &est,
		City:        "New York",
		State:       &state,
		SkillTags:   []string{"SQL"},
		ContentHash: "hash-a",
	}}
	if err := postingRepo.ReplacePostings(id, batch); err != nil {
		t.Fatal(err)
	}
	if err := datasetRepo.UpdateDatasetStats("postings", posting.Stats{Total: 1, Kept: 1}); err != nil {
		t.Fatal(err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _, _, _ := testServer(t, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "timestamp") {
		t.Errorf("Health response should contain a timestamp, got %s", w.Body.String())
	}
}

func TestStatsEndpoint(t *testing.T) {
	server, datasetRepo, postingRepo, _ := testServer(t, "")
	seedDataset(t, datasetRepo, postingRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stats", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "skill_categories") {
		t.Errorf("Stats response should list skill categories, got %s", w.Body.String())
	}
}

func TestExportEndpoint(t *testing.T) {
	server, datasetRepo, postingRepo, _ := testServer(t, "")
	seedDataset(t, datasetRepo, postingRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/datasets/postings/export", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if contentType := w.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/csv") {
		t.Errorf("Expected CSV content type, got %s", contentType)
	}

	body := w.Body.String()
	if !strings.Contains(body, "est_salary") {
		t.Errorf("Export should contain the est_salary column, got %s", body)
	}
	if !strings.Contains(body, "skill_sql") {
		t.Errorf("Export should contain skill columns, got %s", body)
	}
}

func TestExportEndpointUnknownDataset(t *testing.T) {
	server, _, _, _ := testServer(t, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/datasets/missing/export", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestAPIRequiresKey(t *testing.T) {
	server, _, _, _ := testServer(t, "secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/datasets", nil)
	server.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without key, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/datasets", nil)
	req.Header.Set("X-API-Key", "wrong")
	server.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with wrong key, got %d", w.Code)
	}
}

func TestAPIListDatasets(t *testing.T) {
	server, datasetRepo, postingRepo, _ := testServer(t, "secret")
	seedDataset(t, datasetRepo, postingRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/datasets", nil)
	req.Header.Set("X-API-Key", "secret")
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "postings") {
		t.Errorf("Dataset list should contain the seeded dataset, got %s", w.Body.String())
	}
}

func TestAPIBearerToken(t *testing.T) {
	server, _, _, _ := testServer(t, "secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/datasets", nil)
	req.Header.Set("Authorization", "Bearer secret")
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with bearer token, got %d", w.Code)
	}
}

func TestAPIReprocessEnqueuesTask(t *testing.T) {
	server, datasetRepo, postingRepo, scheduler := testServer(t, "secret")
	seedDataset(t, datasetRepo, postingRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/datasets/postings/reprocess", nil)
	req.Header.Set("X-API-Key", "secret")
	server.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}
	if len(scheduler.enqueued) != 1 {
		t.Fatalf("Expected 1 enqueued task, got %d", len(scheduler.enqueued))
	}
	if scheduler.enqueued[0].GetType() != tasks.TaskTypeProcessDataset {
		t.Errorf("Expected process_dataset task, got %s", scheduler.enqueued[0].GetType())
	}
}

func TestAPIMineRequiresProcessedDataset(t *testing.T) {
	server, _, _, scheduler := testServer(t, "secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/datasets/missing/mine", nil)
	req.Header.Set("X-API-Key", "secret")
	server.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if len(scheduler.enqueued) != 0 {
		t.Errorf("No task should be enqueued, got %d", len(scheduler.enqueued))
	}
}
