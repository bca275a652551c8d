//go:build integration

// Package integration exercises the paths miniredis cannot cover: RedisJSON
// documents, the pipelined asset batch, GEORADIUS, and RediSearch. It needs
// a Redis Stack instance; set REDIS_ADDR (host:port) to run it.
package integration

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/platform"
)

func geoLoc(id string, lon, lat float64) *redis.GeoLocation {
	return &redis.GeoLocation{Name: id, Longitude: lon, Latitude: lat}
}

func newLivePlatform(t *testing.T) *platform.Platform {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration tests")
	}
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := platform.DefaultConfig()
	cfg.Redis.Host = host
	cfg.Redis.Port = port
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.Namespace = "telcomtest"

	p, err := platform.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Ping(ctx))

	// Each test starts from a clean namespace.
	cleanup := func() {
		keys, err := p.Redis().Keys(context.Background(), "telcomtest:*").Result()
		require.NoError(t, err)
		if len(keys) > 0 {
			require.NoError(t, p.Redis().Del(context.Background(), keys...).Err())
		}
	}
	cleanup()
	t.Cleanup(cleanup)
	return p
}

func seedAsset(t *testing.T, p *platform.Platform, id string, lat, lon float64, doc string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, p.Redis().JSONSet(ctx, p.Keys.Asset(id), "$", doc).Err())
	require.NoError(t, p.Redis().GeoAdd(ctx, p.Keys.AssetLocations(), geoLoc(id, lon, lat)).Err())
}

func TestAssetAggregation(t *testing.T) {
	p := newLivePlatform(t)
	ctx := context.Background()

	seedAsset(t, p, "TOWER-001", 32.78, -96.80,
		`{"asset":{"id":"TOWER-001","name":"Cell Tower Downtown-001","type":"cell_tower","status":{"state":"active","last_update":"2026-01-01T00:00:00Z"},"metrics":{"temperature_c":42.5}}}`)
	seedAsset(t, p, "TOWER-002", 33.12, -96.65,
		`{"asset":{"id":"TOWER-002","name":"Cell Tower North-002","type":"cell_tower","status":{"state":"maintenance","last_update":"2026-01-01T00:00:00Z"},"metrics":{"temperature_c":38.0}}}`)

	projections, err := p.Assets.List(ctx)
	require.NoError(t, err)
	require.Len(t, projections, 2)

	byID := map[string]bool{}
	for _, proj := range projections {
		byID[proj.ID] = true
		assert.NotZero(t, proj.Latitude)
		assert.NotZero(t, proj.Longitude)
	}
	assert.True(t, byID["TOWER-001"])
	assert.True(t, byID["TOWER-002"])

	detail, err := p.Assets.Get(ctx, "TOWER-001")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Cell Tower Downtown-001", detail.Name)
	assert.Equal(t, "active", detail.Status.State)
	assert.InDelta(t, 32.78, detail.Location.Latitude, 0.001)

	missing, err := p.Assets.Get(ctx, "NO-SUCH-ASSET")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAssetAggregation_GapSkipped(t *testing.T) {
	p := newLivePlatform(t)
	ctx := context.Background()

	// Coordinate without a document.
	require.NoError(t, p.Redis().GeoAdd(ctx, p.Keys.AssetLocations(), geoLoc("ORPHAN", -96.80, 32.78)).Err())
	seedAsset(t, p, "TOWER-001", 32.78, -96.80,
		`{"asset":{"id":"TOWER-001","name":"Tower","type":"cell_tower","status":{"state":"active"}}}`)

	projections, err := p.Assets.List(ctx)
	require.NoError(t, err)
	require.Len(t, projections, 1)
	assert.Equal(t, "TOWER-001", projections[0].ID)
}

func TestNearbyAssets(t *testing.T) {
	p := newLivePlatform(t)
	ctx := context.Background()

	seedAsset(t, p, "NEAR", 32.78, -96.80,
		`{"asset":{"name":"Near Tower","type":"cell_tower","status":{"state":"active"}}}`)
	seedAsset(t, p, "FAR", 40.0, -80.0,
		`{"asset":{"name":"Far Tower","type":"cell_tower","status":{"state":"active"}}}`)

	nearby, err := p.Assets.NearbyAssets(ctx, 32.78, -96.80, 10)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "NEAR", nearby[0].ID)
	assert.Equal(t, "Near Tower", nearby[0].Name)
	assert.Less(t, nearby[0].DistanceKM, 1.0)
}

func TestUpdateLocation(t *testing.T) {
	p := newLivePlatform(t)
	ctx := context.Background()

	seedAsset(t, p, "SVC-001", 32.82, -96.82,
		`{"asset":{"name":"Service Vehicle","type":"service_vehicle","status":{"state":"active","last_update":"2026-01-01T00:00:00Z"}}}`)

	require.NoError(t, p.Assets.UpdateLocation(ctx, "SVC-001", 32.85, -96.85, "maintenance"))

	detail, err := p.Assets.Get(ctx, "SVC-001")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "maintenance", detail.Status.State)
	assert.NotEqual(t, "2026-01-01T00:00:00Z", detail.Status.LastUpdate)
	assert.InDelta(t, 32.85, detail.Location.Latitude, 0.001)
}

func TestSearchSuggestionsPassThrough(t *testing.T) {
	p := newLivePlatform(t)
	ctx := context.Background()

	// The suggestible-field whitelist is enforced before touching the index.
	_, err := p.Search.Suggestions(ctx, "serial_number")
	require.Error(t, err)
}
