package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/internal/config"
	"github.com/username/long-weekend-planner/internal/planner"
	"github.com/username/long-weekend-planner/internal/vacation"
	"github.com/username/long-weekend-planner/pkg/dateutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Planner:  config.PlannerConfig{PaidLeaves: 12, MinGapWeeks: 2, MaxBlockLength: 10},
		Holidays: config.HolidaysConfig{Source: "builtin", Region: "in"},
		State:    config.StateConfig{File: filepath.Join(t.TempDir(), "state.json")},
	}
	now := dateutil.MustParseKey("2025-06-01").Add(9 * time.Hour)

	m, err := vacation.NewFromConfig(cfg, zap.NewNop(), planner.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	return New(m, zap.NewNop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
}

func TestServer_ReadEndpoints(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/health", http.StatusOK},
		{"/api/years/2026/overview", http.StatusOK},
		{"/api/years/2026/long-weekends", http.StatusOK},
		{"/api/years/2026/candidates", http.StatusOK},
		{"/api/years/2026/plan", http.StatusOK},
		{"/api/years/2026/stats", http.StatusOK},
		{"/api/years/2026/holidays", http.StatusOK},
		{"/api/years/next/overview", http.StatusBadRequest},
		{"/api/years/12/overview", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.path, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("GET %s = %d, want %d (%s)", tt.path, rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestServer_Overview(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/years/2026/overview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var ov struct {
		Year         int               `json:"year"`
		Holidays     []planner.Holiday `json:"holidays"`
		LongWeekends []json.RawMessage `json:"long_weekends"`
		PaidLeaves   int               `json:"paid_leaves"`
		Stats        planner.YearStats `json:"stats"`
	}
	decode(t, rec, &ov)

	if ov.Year != 2026 || len(ov.Holidays) != 12 || len(ov.LongWeekends) != 8 {
		t.Errorf("overview = year %d, %d holidays, %d long weekends", ov.Year, len(ov.Holidays), len(ov.LongWeekends))
	}
	if ov.PaidLeaves != 12 || ov.Stats.TotalWeekends != 104 {
		t.Errorf("paid leaves = %d, weekends = %d", ov.PaidLeaves, ov.Stats.TotalWeekends)
	}
}

func TestServer_HolidayLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/years/2026/holidays", `{"date":"2026-13-01","name":"Bad"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid add = %d, want 400", rec.Code)
	}
	var bad errorBody
	decode(t, rec, &bad)
	if bad.Field != "date" || bad.Error != "Date must be YYYY-MM-DD." {
		t.Errorf("error body = %+v", bad)
	}

	rec = do(t, s, http.MethodPost, "/api/years/2026/holidays", `{"date":"2026-06-01","name":"Offsite"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	var added planner.Holiday
	decode(t, rec, &added)
	if added.ID == "" || !added.Enabled {
		t.Fatalf("added = %+v", added)
	}

	rec = do(t, s, http.MethodPatch, "/api/years/2026/holidays/"+added.ID, `{"date":"2026-01-01"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("patch onto a taken date = %d, want 409", rec.Code)
	}

	rec = do(t, s, http.MethodPatch, "/api/years/2026/holidays/"+added.ID, `{"name":"Team offsite"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("rename = %d, want 200", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/years/2026/holidays/"+added.ID+"/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle = %d, want 200", rec.Code)
	}
	var toggled planner.Holiday
	decode(t, rec, &toggled)
	if toggled.Enabled || toggled.Name != "Team offsite" {
		t.Errorf("toggled = %+v", toggled)
	}

	if rec = do(t, s, http.MethodDelete, "/api/years/2026/holidays/"+added.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", rec.Code)
	}
	if rec = do(t, s, http.MethodDelete, "/api/years/2026/holidays/"+added.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/years/2026/holidays/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset = %d, want 200", rec.Code)
	}
	var reset []planner.Holiday
	decode(t, rec, &reset)
	if len(reset) != 12 {
		t.Errorf("reset = %d holidays, want 12", len(reset))
	}
}

func TestServer_Preferences(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLeaves int
		wantWeeks  int
	}{
		{"string leaves", `{"paid_leaves":"5","distance_weeks":3}`, http.StatusOK, 5, 3},
		{"number leaves", `{"paid_leaves":7}`, http.StatusOK, 7, 2},
		{"weeks clamped", `{"distance_weeks":20}`, http.StatusOK, 12, 8},
		{"not a number", `{"paid_leaves":"many"}`, http.StatusBadRequest, 0, 0},
		{"over the limit", `{"paid_leaves":"500"}`, http.StatusBadRequest, 0, 0},
		{"broken json", `{"paid_leaves":`, http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := do(t, s, http.MethodPut, "/api/years/2026/preferences", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got preferencesResponse
			decode(t, rec, &got)
			if got.PaidLeaves != tt.wantLeaves || got.DistanceWeeks != tt.wantWeeks {
				t.Errorf("preferences = %+v, want %d/%d", got, tt.wantLeaves, tt.wantWeeks)
			}
		})
	}
}

func TestServer_Exports(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/years/2026/export.ics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("ics status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("ics content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("ics body is not a calendar")
	}

	rec = do(t, s, http.MethodGet, "/api/years/2026/export.xlsx", "")
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Errorf("xlsx status = %d, %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodOptions, "/api/years/2026/holidays", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
