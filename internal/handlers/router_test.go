package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xelth-com/eckslots/internal/clock"
	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/models"
	"github.com/xelth-com/eckslots/internal/services/printer"
)

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newTestRouter(t *testing.T) (*Router, *inventory.MemoryStore) {
	t.Helper()
	store := &inventory.MemoryStore{}
	svc, err := inventory.NewService(context.Background(), store, inventory.WithClock(clock.NewFakeClock(testNow)))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewRouter(svc, Options{Labels: printer.DefaultLabelConfig(), Backend: "memory", InstanceID: "test-node"}), store
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func TestHealthAndStatus(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}

	rec = do(t, r, "GET", "/api/status", "")
	var status map[string]interface{}
	decode(t, rec, &status)
	if status["backend"] != "memory" || status["build"] == nil || status["instanceId"] != "test-node" {
		t.Errorf("status = %v", status)
	}
}

func TestLaneWorkflow(t *testing.T) {
	r, store := newTestRouter(t)

	rec := do(t, r, "PUT", "/api/lanes/A1/layout", `{"capacity":10,"max_height":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("layout = %d %s", rec.Code, rec.Body)
	}

	rec = do(t, r, "POST", "/api/lanes/Street%20A1/intake", `{"lot":"L1","expiry":"2026-08-01","quantity":12}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("intake = %d %s", rec.Code, rec.Body)
	}
	var placed map[string]int
	decode(t, rec, &placed)
	if placed["placed"] != 10 || placed["requested"] != 12 {
		t.Errorf("intake result = %v", placed)
	}

	rec = do(t, r, "POST", "/api/lanes/a1/reserve", `{"client":"acme","quantity":3}`)
	var reserved map[string]int
	decode(t, rec, &reserved)
	if reserved["reserved"] != 3 {
		t.Errorf("reserve result = %v", reserved)
	}

	rec = do(t, r, "POST", "/api/lanes/A1/dispatch", `{"quantity":4}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("dispatching 4 of 3 reserved = %d, want 409", rec.Code)
	}

	rec = do(t, r, "POST", "/api/lanes/A1/dispatch", `{"quantity":4,"mode":"direct"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("direct dispatch = %d %s", rec.Code, rec.Body)
	}

	rec = do(t, r, "GET", "/api/lanes/A1", "")
	var lane LaneResponse
	decode(t, rec, &lane)
	if lane.Lane != "Street A1" || len(lane.Cells) != models.LaneRows*models.LaneMaxLevels {
		t.Fatalf("lane = %s with %d cells", lane.Lane, len(lane.Cells))
	}
	if len(lane.Grid) != models.LaneMaxLevels || len(lane.Grid[0]) != models.LaneRows {
		t.Errorf("grid is %dx%d", len(lane.Grid), len(lane.Grid[0]))
	}
	if lane.Grid[2][13].Row != 1 || lane.Grid[2][13].Level != 1 {
		t.Errorf("bottom-right grid cell = %+v, want row 1 level 1", lane.Grid[2][13])
	}

	rec = do(t, r, "GET", "/api/lanes/A1/report", "")
	var rows []inventory.ReportRow
	decode(t, rec, &rows)
	if len(rows) != 6 {
		t.Errorf("report has %d rows, want 6", len(rows))
	}
	for _, row := range rows {
		if !row.ExpiryAlert {
			t.Errorf("slot %s expiring in under 180 days is not flagged", row.SlotID)
		}
	}

	if store.Saves == 0 {
		t.Error("nothing was saved")
	}
}

func TestRebuildOccupiedLaneConflict(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, "POST", "/api/lanes/B2/intake", `{"lot":"L1","quantity":1}`)

	rec := do(t, r, "PUT", "/api/lanes/B2/layout", `{"capacity":5,"max_height":2}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("rebuild of occupied lane = %d, want 409", rec.Code)
	}
	rec = do(t, r, "PUT", "/api/lanes/B2/layout", `{"capacity":5,"max_height":2,"force":true}`)
	if rec.Code != http.StatusOK {
		t.Errorf("forced rebuild = %d %s", rec.Code, rec.Body)
	}
}

func TestValidationErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown lane", "GET", "/api/lanes/A3", "", http.StatusNotFound},
		{"zero quantity", "POST", "/api/lanes/A1/intake", `{"lot":"L","quantity":0}`, http.StatusBadRequest},
		{"bad expiry", "POST", "/api/lanes/A1/intake", `{"lot":"L","expiry":"soon","quantity":1}`, http.StatusBadRequest},
		{"empty client", "POST", "/api/lanes/A1/reserve", `{"client":"  ","quantity":1}`, http.StatusBadRequest},
		{"bad mode", "POST", "/api/lanes/A1/dispatch", `{"quantity":1,"mode":"ALL"}`, http.StatusBadRequest},
		{"capacity too big", "PUT", "/api/lanes/A1/layout", `{"capacity":42,"max_height":3}`, http.StatusBadRequest},
		{"height too big", "PUT", "/api/lanes/A1/layout", `{"capacity":10,"max_height":4}`, http.StatusBadRequest},
		{"malformed body", "POST", "/api/lanes/A1/intake", `{"quantity":`, http.StatusBadRequest},
		{"unknown field", "POST", "/api/lanes/A1/intake", `{"qty":1}`, http.StatusBadRequest},
		{"bad settings", "PUT", "/api/settings", `{"default_capacity":99}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.path, rec.Code, tt.want, rec.Body)
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["error"] == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestSaveFailureIsServiceUnavailable(t *testing.T) {
	r, store := newTestRouter(t)
	store.SaveErr = errors.New("disk full")

	rec := do(t, r, "POST", "/api/lanes/C1/intake", `{"lot":"L","quantity":2}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("intake with failing store = %d, want 503", rec.Code)
	}
}

func TestSettingsAndDashboard(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(t, r, "PUT", "/api/settings", `{"warehouse_capacity":100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("settings = %d %s", rec.Code, rec.Body)
	}
	do(t, r, "POST", "/api/lanes/A1/intake", `{"lot":"L","quantity":25}`)

	rec = do(t, r, "GET", "/api/dashboard", "")
	var d inventory.Dashboard
	decode(t, rec, &d)
	if d.Occupied != 25 || d.WarehouseCapacity != 100 || d.OccupancyPercent != 25 {
		t.Errorf("dashboard = %+v", d)
	}

	rec = do(t, r, "POST", "/api/sync", "")
	if rec.Code != http.StatusOK {
		t.Errorf("sync = %d", rec.Code)
	}
}

func TestListLanes(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, "GET", "/api/lanes/Z2", "")

	rec := do(t, r, "GET", "/api/lanes", "")
	var lanes []inventory.LaneListing
	decode(t, rec, &lanes)
	if len(lanes) != 52 {
		t.Fatalf("got %d lanes, want 52", len(lanes))
	}
	last := lanes[51]
	if last.Lane != "Street Z2" || !last.Built || last.Config == nil || last.Config.Capacity != 41 {
		t.Errorf("Z2 listing = %+v", last)
	}
	if lanes[0].Built {
		t.Error("A1 reported built without being touched")
	}
}

func TestPDFDownloads(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, "POST", "/api/lanes/A1/intake", `{"lot":"L","expiry":"2026-06-01","quantity":3}`)

	for _, path := range []string{
		"/api/lanes/A1/labels.pdf",
		"/api/lanes/A1/labels.pdf?cols=1000&rows=100000",
		"/api/lanes/A1/report.pdf",
	} {
		rec := do(t, r, "GET", path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s = %d %s", path, rec.Code, rec.Body)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("%s content type = %q", path, ct)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
			t.Errorf("%s is not a PDF", path)
		}
	}
}

func TestScan(t *testing.T) {
	r, _ := newTestRouter(t)
	do(t, r, "PUT", "/api/lanes/D1/layout", `{"capacity":41,"max_height":3}`)
	do(t, r, "POST", "/api/lanes/D1/intake", `{"lot":"L7","quantity":1}`)

	// The first intake lands in the back row, bottom level: slot 41.
	rec := do(t, r, "POST", "/api/scan", `{"barcode":"ECK1.COM/sD1-41IB"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("scan = %d %s", rec.Code, rec.Body)
	}
	var resp ScanResponse
	decode(t, rec, &resp)
	if resp.Lane != "Street D1" || resp.Cell.Lot != "L7" || resp.Cell.Status != models.StatusAvailable {
		t.Errorf("scan result = %+v", resp)
	}

	rec = do(t, r, "POST", "/api/scan", `{"barcode":"i000000000000000001"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("item code scan = %d, want 400", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("unknown error -> %d", got)
	}
	wrapped := errors.Join(errors.New("context"), inventory.ErrNotSaved)
	if got := statusFor(wrapped); got != http.StatusServiceUnavailable {
		t.Errorf("wrapped ErrNotSaved -> %d", got)
	}
}

func TestHandlerIgnoresPathCase(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r.Handler(), "GET", "/API/LANES/A1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /API/LANES/A1 = %d %s", rec.Code, rec.Body)
	}
	var lane LaneResponse
	decode(t, rec, &lane)
	if lane.Lane != "Street A1" {
		t.Errorf("lane = %q", lane.Lane)
	}
}
