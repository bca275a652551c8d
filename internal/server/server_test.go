package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/platform"
)

func newTestServer(t *testing.T) (*httptest.Server, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	p := platform.NewWithClient(platform.DefaultConfig(), rdb)
	p.Health.SetReady()

	ts := httptest.NewServer(New(p).Handler())
	t.Cleanup(ts.Close)
	return ts, mr
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestServer_HealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["redis_connected"])

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_SessionLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	// Create.
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json",
		strings.NewReader(`{"user_id":"user-1","user_data":{"role":"operator"}}`))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := body["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	// Get.
	resp, err = http.Get(ts.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	body = decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess := body["session"].(map[string]any)
	assert.Equal(t, "user-1", sess["user_id"])
	assert.Equal(t, "active", sess["status"])

	// List.
	resp, err = http.Get(ts.URL + "/api/sessions/active")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(1), body["count"])

	// Metrics.
	resp, err = http.Get(ts.URL + "/api/sessions/metrics")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	metrics := body["metrics"].(map[string]any)
	assert.Equal(t, float64(1), metrics["total_active_sessions"])
	assert.Equal(t, float64(1), metrics["unique_users"])

	// Delete.
	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+id, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Gone.
	resp, err = http.Get(ts.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CreateSessionValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestServer_SensorIngestAndStream(t *testing.T) {
	ts, _ := newTestServer(t)

	payload := `{"sensor_id":"TEMP-001","timestamp":100,"temperature":85.5,"location":"TOWER-001"}`
	resp, err := http.Post(ts.URL+"/api/sensors/data", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["stream_id"])

	resp, err = http.Get(ts.URL + "/api/sensors/TEMP-001/stream")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(1), body["count"])

	resp, err = http.Get(ts.URL + "/api/sensors/active")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(1), body["count"])
}

func TestServer_SensorIngestRequiresID(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/sensors/data", "application/json", strings.NewReader(`{"temperature":85}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_DashboardAlerts(t *testing.T) {
	ts, mr := newTestServer(t)

	mr.ZAdd("telcom:alerts:active", 100, `{"id":"A1","type":"test","message":"Test Alert","severity":"warning"}`)

	resp, err := http.Get(ts.URL + "/api/dashboard/alerts")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
}

func TestServer_DashboardKPIs(t *testing.T) {
	ts, mr := newTestServer(t)

	mr.ZAdd("telcom:assets:locations", 1, "TOWER-001")
	mr.Set("telcom:metrics:avg_temperature", "85.5")
	mr.Set("telcom:alerts:count", "3")

	resp, err := http.Get(ts.URL + "/api/dashboard/kpis")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	kpis := body["kpis"].(map[string]any)
	assert.Equal(t, float64(1), kpis["total_assets"])
	assert.Equal(t, 85.5, kpis["avg_temperature"])
	assert.Equal(t, float64(3), kpis["total_alerts"])
	// Missing metric keys read as zero.
	assert.Equal(t, float64(0), kpis["total_production"])
}

func TestServer_MonitorEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	// Generate some monitored activity.
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json",
		strings.NewReader(`{"user_id":"user-1"}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/monitor/commands?context=session")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Greater(t, body["count"], float64(0))

	resp, err = http.Get(ts.URL + "/api/monitor/stats?context=session")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	stats := body["stats"].(map[string]any)
	assert.Greater(t, stats["total_count"], float64(0))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/monitor/commands?context=session", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/monitor/commands?context=session")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, float64(0), body["count"])
}

func TestServer_NearbyAssetsValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/assets/nearby")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_CORS(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/assets", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
