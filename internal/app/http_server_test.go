package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/file"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/adapter/geo"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/domain"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/ports"
	"github.com/aucklandcodernz/sb1-71bsk7t2-sub002/internal/usecase"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestServer(t *testing.T, locator ports.Locator) (*httptest.Server, *testClock) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	snaps, err := file.NewStore(t.TempDir(), "blip-storage", log)
	require.NoError(t, err)

	clock := &testClock{t: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
	uc := &usecase.TimeClock{Log: log, Snapshots: snaps, Now: clock.Now}
	require.NoError(t, uc.Load(t.Context()))

	a := &App{log: log, uc: uc, locator: locator}
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv, clock
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, srv.URL+path, rd)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.Header.Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

var office = map[string]any{"latitude": -36.8485, "longitude": 174.7633, "accuracy": 8}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	resp, _ := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/healthz", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestClockFlow(t *testing.T) {
	srv, clock := newTestServer(t, geo.Unavailable("no gps"))

	resp, body := do(t, srv, http.MethodPost, "/clock-in", map[string]any{"employeeId": "emp-1"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, body)

	resp, body = do(t, srv, http.MethodPost, "/clock-in", map[string]any{
		"employeeId": "emp-1",
		"location":   map[string]any{"latitude": -36.8305, "longitude": 174.7633},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)

	resp, body = do(t, srv, http.MethodPost, "/clock-in", map[string]any{"employeeId": "emp-1", "location": office})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "active", body["status"])
	id := body["id"]

	resp, _ = do(t, srv, http.MethodPost, "/clock-in", map[string]any{"employeeId": "emp-1", "location": office})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/employees/emp-1/active", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["id"])

	resp, _ = do(t, srv, http.MethodPost, "/breaks/start", map[string]any{"employeeId": "emp-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	clock.t = clock.t.Add(2 * time.Hour)
	resp, body = do(t, srv, http.MethodPost, "/breaks/start", map[string]any{"employeeId": "emp-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = do(t, srv, http.MethodGet, "/employees/emp-1/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["onBreak"])
	assert.Equal(t, "rest", body["breakKind"])

	clock.t = clock.t.Add(15 * time.Minute)
	resp, _ = do(t, srv, http.MethodPost, "/breaks/end", map[string]any{"employeeId": "emp-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/breaks/end", map[string]any{"employeeId": "emp-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	clock.t = clock.t.Add(5 * time.Hour)
	resp, body = do(t, srv, http.MethodPost, "/clock-out", map[string]any{"employeeId": "emp-1", "location": office})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "completed", body["status"])

	resp, _ = do(t, srv, http.MethodGet, "/employees/emp-1/active", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/employees/emp-1/history?from=2024-01-15&to=2024-01-15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["sessions"], 1)
	assert.Equal(t, "2024-01-15T23:59:59.999Z", body["to"])

	resp, body = do(t, srv, http.MethodGet, "/employees/emp-1/history?from=2024-01-16&to=2024-01-20", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["sessions"])
}

func TestBadInput(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, _ := do(t, srv, http.MethodPost, "/clock-in", map[string]any{"location": office})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/clock-in", map[string]any{"employeeId": "emp-1", "bogus": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/clock-in", map[string]any{
		"employeeId": "emp-1",
		"location":   map[string]any{"latitude": 123, "longitude": 0},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/employees/emp-1/history?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "geofencing")

	resp, _ = do(t, srv, http.MethodPatch, "/settings", map[string]any{
		"workHours": map[string]any{"start": "18:00", "end": "08:00"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPatch, "/settings", map[string]any{
		"geofencing": map[string]any{"enabled": false, "radius": 0, "locations": []any{}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	g := body["geofencing"].(map[string]any)
	assert.Equal(t, false, g["enabled"])
	wh := body["workHours"].(map[string]any)
	assert.Equal(t, "09:00", wh["start"])

	resp, body = do(t, srv, http.MethodPost, "/geofence/check", map[string]any{"latitude": 51.5, "longitude": -0.12})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["within"])
}

func TestGeofenceCheck(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodPost, "/geofence/check", office)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["within"])

	resp, body = do(t, srv, http.MethodPost, "/geofence/check", map[string]any{"latitude": -36.8305, "longitude": 174.7633})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["within"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(domain.ErrLocationUnavailable))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(domain.ErrOutsideWorkHours))
	assert.Equal(t, http.StatusConflict, statusFor(domain.ErrNoOpenBreak))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrEmployeeRequired))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.ErrSnapshot))
}
