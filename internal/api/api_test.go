package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/pebblesync/internal/daily"
	"github.com/starford/pebblesync/internal/importer"
	"github.com/starford/pebblesync/internal/ledger"
	"github.com/starford/pebblesync/internal/models"
	"github.com/starford/pebblesync/internal/testutil"
)

type stubFetcher struct {
	notes []models.RemoteNote
}

func (s *stubFetcher) Fetch(ctx context.Context, baseURL, apiKey string) ([]models.RemoteNote, error) {
	return s.notes, nil
}

func testRouter(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	_, fs := testutil.TestVault(t)
	fetcher := &stubFetcher{notes: []models.RemoteNote{{
		Kind:      models.KindNote,
		Content:   "Buy milk",
		CreatedAt: "2024-01-05T10:30:00Z",
	}}}
	imp := importer.New(fs, fetcher, ledger.New(), nil, importer.Settings{
		APIURL:         "http://pebble.local",
		APIKey:         "key",
		NotesEnabled:   true,
		Folder:         "Pebble",
		SectionHeading: "## Pebble Imports",
		Daily:          daily.Config{Folder: "Daily", Format: "YYYY-MM-DD"},
		MaxLedgerSize:  ledger.DefaultMaxSize,
	})
	return NewRouter(imp, authEnabled, token, nil)
}

func TestTriggerImport(t *testing.T) {
	r := testRouter(t, false, "")

	req := httptest.NewRequest(http.MethodPost, "/import", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Summary.Created != 1 {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if resp.Message == "" {
		t.Error("empty message")
	}
}

func TestTriggerImportTwiceReportsDuplicates(t *testing.T) {
	r := testRouter(t, false, "")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/import", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("run %d status = %d", i+1, rec.Code)
		}
		if i == 1 {
			var resp ImportResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Summary.SkippedDuplicate != 1 || resp.Summary.Created != 0 {
				t.Errorf("second run summary = %+v", resp.Summary)
			}
		}
	}
}

func TestStatus(t *testing.T) {
	r := testRouter(t, false, "")

	// Before any run.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var before StatusResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &before)
	if before.LastRun != nil || before.LedgerSize != 0 {
		t.Errorf("before = %+v", before)
	}

	// After a run.
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/import", nil))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	var after StatusResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &after)
	if after.LastRun == nil || after.LedgerSize != 1 {
		t.Errorf("after = %+v", after)
	}
}

func TestResetHistory(t *testing.T) {
	r := testRouter(t, false, "")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/import", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/history/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	var status StatusResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &status)
	if status.LedgerSize != 0 {
		t.Errorf("ledger size = %d after reset", status.LedgerSize)
	}
}

func TestAuthEnforced(t *testing.T) {
	r := testRouter(t, true, "sekret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", rec.Code)
	}
}
