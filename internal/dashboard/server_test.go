package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/henrietta/dispatch/internal/models"
	"github.com/henrietta/dispatch/internal/notes"
	"github.com/henrietta/dispatch/internal/pipeline"
)

func TestStart_NilStore(t *testing.T) {
	err := Start(context.Background(), StartOpts{})
	if err == nil {
		t.Fatal("expected error for nil store")
	}
	if !strings.Contains(err.Error(), "store is required") {
		t.Errorf("error = %q", err.Error())
	}
}

// testRouter builds a router over a store preloaded from CSV fixtures plus
// an in-memory notes store.
func testRouter(t *testing.T) (*gin.Engine, *pipeline.Store) {
	t.Helper()

	dir := t.TempDir()
	jobs := filepath.Join(dir, "jobs.csv")
	content := `Job,Order,Part,Customer,Engineered,Order Qty,Qty Completed,Due Date
JOB-100,ORD-1,P-100,ACME,true,10,4,06/10/2026
JOB-200,ORD-2,P-200,GLOBEX,false,5,0,
`
	if err := os.WriteFile(jobs, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store := &pipeline.Store{}
	refresher := &pipeline.Refresher{
		Paths: pipeline.Paths{ShopOrders: jobs},
		Store: store,
		Now:   func() time.Time { return time.Date(2026, 6, 15, 8, 0, 0, 0, time.Local) },
	}
	if _, err := refresher.Refresh(); err != nil {
		t.Fatal(err)
	}

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Note{}); err != nil {
		t.Fatal(err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, StartOpts{
		Store:     store,
		Refresher: refresher,
		Notes:     notes.NewStore(gdb),
	})
	return router, store
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["ok"] != true || resp["loaded"] != true || resp["stale"] != false {
		t.Errorf("resp = %v", resp)
	}
}

func TestJobsEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/jobs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp JobsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || len(resp.Jobs) != 2 {
		t.Errorf("total=%d jobs=%d, want 2/2", resp.Total, len(resp.Jobs))
	}
	if resp.Counts["unengineered"] != 1 || resp.Counts["in_work"] != 1 {
		t.Errorf("counts = %v", resp.Counts)
	}

	// Rows carry display tokens.
	for _, j := range resp.Jobs {
		if j.Color == "" || j.StatusName == "" {
			t.Errorf("job %s missing display tokens: %+v", j.JobID, j)
		}
	}
}

func TestJobsEndpointFiltering(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/jobs?unengineered=1", "")
	var resp JobsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	if len(resp.Jobs) != 1 || resp.Jobs[0].JobID != "JOB-200" {
		t.Errorf("jobs = %+v, want only JOB-200", resp.Jobs)
	}
	// Total and counts still reflect the whole set.
	if resp.Total != 2 || resp.Counts["in_work"] != 1 {
		t.Errorf("total=%d counts=%v", resp.Total, resp.Counts)
	}
}

func TestJobsEndpointRejectsBadFilter(t *testing.T) {
	router, _ := testRouter(t)

	// A bad filter value is reported and skipped, never a request failure.
	w := doRequest(t, router, http.MethodGet, "/api/jobs?esi=bogus&due_from=junk", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp JobsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.RejectedFilters) != 2 {
		t.Errorf("rejected = %v, want esi and due_range", resp.RejectedFilters)
	}
	if len(resp.Jobs) != 2 {
		t.Errorf("rejected filters must not filter: got %d jobs", len(resp.Jobs))
	}
}

func TestRefreshEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/refresh", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["refreshed"] != true {
		t.Errorf("resp = %v", resp)
	}
}

func TestNotesEndpoints(t *testing.T) {
	router, _ := testRouter(t)

	// Add.
	w := doRequest(t, router, http.MethodPost, "/api/jobs/JOB-100/notes",
		`{"text":"waiting on material","author":"smith"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", w.Code, w.Body.String())
	}

	// List.
	w = doRequest(t, router, http.MethodGet, "/api/jobs/JOB-100/notes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list struct {
		JobID string        `json:"job_id"`
		Notes []models.Note `json:"notes"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Notes) != 1 || list.Notes[0].Text != "waiting on material" {
		t.Errorf("notes = %+v", list.Notes)
	}

	// The note count surfaces on the jobs view.
	w = doRequest(t, router, http.MethodGet, "/api/jobs", "")
	var jobs JobsResponse
	json.Unmarshal(w.Body.Bytes(), &jobs)
	for _, j := range jobs.Jobs {
		if j.JobID == "JOB-100" && j.NoteCount != 1 {
			t.Errorf("JOB-100 note count = %d, want 1", j.NoteCount)
		}
	}

	// Delete.
	id := strconv.FormatUint(uint64(list.Notes[0].ID), 10)
	w = doRequest(t, router, http.MethodDelete, "/api/notes/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", w.Code, w.Body.String())
	}
	w = doRequest(t, router, http.MethodDelete, "/api/notes/"+id, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", w.Code)
	}
}

func TestNotesRejectBlankText(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/jobs/JOB-100/notes", `{"text":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPurchasingEndpointEmpty(t *testing.T) {
	router, _ := testRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/purchasing", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp PurchasingResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Lines) != 0 || len(resp.Suppliers) != 0 {
		t.Errorf("resp = %+v, want empty purchasing payload", resp)
	}
}

func TestDiagnosticsEndpoint(t *testing.T) {
	router, store := testRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/diagnostics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["stale"] != false {
		t.Errorf("resp = %v", resp)
	}
	if store.Current().Snapshot == nil {
		t.Fatal("store lost its snapshot")
	}
}
