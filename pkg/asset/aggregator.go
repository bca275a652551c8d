package asset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/monitor"
)

var errEmptyDocument = errors.New("asset: empty document result")

// batcher performs the one-round-trip fetch of coordinates and documents for
// a set of asset IDs. Results are positional: positions[i] and docs[i]
// belong to ids[i]. Either may be nil/empty when that record is missing;
// per-item gaps are the caller's concern, only a batch-level failure is an
// error.
type batcher interface {
	fetch(ctx context.Context, ids []string) (positions []*redis.GeoPos, docs []string, err error)
}

// Aggregator batches per-asset coordinate and document lookups. Failures of
// the store propagate immediately; there are no internal retries.
type Aggregator struct {
	rdb      redis.Cmdable
	keys     keys.Scheme
	recorder *monitor.Recorder // optional, may be nil
	batch    batcher
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator. recorder may be nil to disable audit
// logging.
func NewAggregator(rdb redis.Cmdable, scheme keys.Scheme, recorder *monitor.Recorder) *Aggregator {
	return &Aggregator{
		rdb:      rdb,
		keys:     scheme,
		recorder: recorder,
		batch:    &redisBatcher{rdb: rdb, keys: scheme},
		logger:   slog.Default(),
	}
}

// List returns projections for every asset in the geospatial index.
//
// The identifiers come from one index read. Coordinates and documents are
// then fetched in a single pipelined exchange (2N sub-operations, one
// network round trip) and zipped positionally: the batch preserves
// submission order, so index i of each result slice belongs to ids[i].
// Assets missing either half are skipped silently.
func (a *Aggregator) List(ctx context.Context) ([]Projection, error) {
	a.audit(ctx, "ZRANGE", a.keys.AssetLocations())
	ids, err := a.rdb.ZRange(ctx, a.keys.AssetLocations(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing asset ids: %w", err)
	}
	if len(ids) == 0 {
		return []Projection{}, nil
	}

	a.audit(ctx, "PIPELINE", fmt.Sprintf("%d commands", len(ids)*2))
	positions, docs, err := a.batch.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	projections := make([]Projection, 0, len(ids))
	for i, id := range ids {
		if positions[i] == nil || docs[i] == "" {
			continue
		}
		doc, err := decodeDocument(docs[i])
		if err != nil {
			a.logger.Warn("skipping corrupted asset document", "asset_id", id, "error", err)
			continue
		}
		projections = append(projections, doc.project(id, positions[i].Latitude, positions[i].Longitude))
	}
	return projections, nil
}

// Count returns the number of assets in the geospatial index.
func (a *Aggregator) Count(ctx context.Context) (int64, error) {
	n, err := a.rdb.ZCard(ctx, a.keys.AssetLocations()).Result()
	if err != nil {
		return 0, fmt.Errorf("counting assets: %w", err)
	}
	return n, nil
}

// Get returns the full detail view for one asset, or nil, nil when the asset
// has no coordinate or no document.
func (a *Aggregator) Get(ctx context.Context, id string) (*Detail, error) {
	a.audit(ctx, "GEOPOS", a.keys.AssetLocations())
	positions, err := a.rdb.GeoPos(ctx, a.keys.AssetLocations(), id).Result()
	if err != nil {
		return nil, fmt.Errorf("locating asset: %w", err)
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, nil
	}

	a.audit(ctx, "JSON.GET", a.keys.Asset(id))
	raw, err := a.rdb.JSONGet(ctx, a.keys.Asset(id), "$").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching asset document: %w", err)
	}
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding asset document: %w", err)
	}

	d := doc.Asset
	name := d.Name
	if name == "" {
		name = id
	}
	typ := d.Type
	if typ == "" {
		typ = "unknown"
	}
	return &Detail{
		ID:     id,
		Name:   name,
		Type:   typ,
		Status: d.Status,
		Location: Location{
			Latitude:  positions[0].Latitude,
			Longitude: positions[0].Longitude,
			Zone:      d.Location.Zone,
		},
		Metrics:    d.Metrics,
		Model:      d.Model,
		LastUpdate: d.Status.LastUpdate,
	}, nil
}

// NearbyAssets finds assets within radiusKM of a point, nearest data
// enriched with names from the stored documents where available.
func (a *Aggregator) NearbyAssets(ctx context.Context, lat, lon, radiusKM float64) ([]Nearby, error) {
	a.audit(ctx, "GEORADIUS", a.keys.AssetLocations())
	query := &redis.GeoRadiusQuery{
		Radius:    radiusKM,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
	}
	locations, err := a.rdb.GeoRadius(ctx, a.keys.AssetLocations(), lon, lat, query).Result()
	if err != nil {
		return nil, fmt.Errorf("searching nearby assets: %w", err)
	}
	if len(locations) == 0 {
		return []Nearby{}, nil
	}

	ids := make([]string, len(locations))
	for i, loc := range locations {
		ids[i] = loc.Name
	}
	_, docs, err := a.batch.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	results := make([]Nearby, 0, len(locations))
	for i, loc := range locations {
		hit := Nearby{
			ID:         loc.Name,
			Name:       loc.Name,
			Type:       "unknown",
			DistanceKM: math.Round(loc.Dist*100) / 100,
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
		}
		if docs[i] != "" {
			if doc, err := decodeDocument(docs[i]); err == nil {
				if doc.Asset.Name != "" {
					hit.Name = doc.Asset.Name
				}
				if doc.Asset.Type != "" {
					hit.Type = doc.Asset.Type
				}
			}
		}
		results = append(results, hit)
	}
	return results, nil
}

// UpdateLocation moves an asset in the geospatial index and stamps its
// document. The two writes are independent; a failure between them leaves
// the document stale, which the next update repairs.
func (a *Aggregator) UpdateLocation(ctx context.Context, id string, lat, lon float64, state string) error {
	a.audit(ctx, "GEOADD", a.keys.AssetLocations())
	loc := &redis.GeoLocation{Name: id, Latitude: lat, Longitude: lon}
	if err := a.rdb.GeoAdd(ctx, a.keys.AssetLocations(), loc).Err(); err != nil {
		return fmt.Errorf("updating asset location: %w", err)
	}

	key := a.keys.Asset(id)
	stamp := jsonString(time.Now().UTC().Format(time.RFC3339))
	if err := a.rdb.JSONSet(ctx, key, "$.asset.status.last_update", stamp).Err(); err != nil {
		return fmt.Errorf("stamping asset document: %w", err)
	}
	if state != "" {
		if err := a.rdb.JSONSet(ctx, key, "$.asset.status.state", jsonString(state)).Err(); err != nil {
			return fmt.Errorf("updating asset state: %w", err)
		}
	}
	return nil
}

func (a *Aggregator) audit(ctx context.Context, operation, key string) {
	if a.recorder != nil {
		a.recorder.Record(ctx, operation, key, "", monitor.PartitionDashboard)
	}
}

// redisBatcher queues N GEOPOS and N JSON.GET commands on one pipeline and
// executes them in a single exchange. go-redis returns each queued command's
// result on the handle captured at queue time, which preserves submission
// order by construction. Zipping happens on the handle index, never on a
// returned key.
type redisBatcher struct {
	rdb  redis.Cmdable
	keys keys.Scheme
}

func (b *redisBatcher) fetch(ctx context.Context, ids []string) ([]*redis.GeoPos, []string, error) {
	pipe := b.rdb.Pipeline()
	geoCmds := make([]*redis.GeoPosCmd, len(ids))
	docCmds := make([]*redis.JSONCmd, len(ids))
	for i, id := range ids {
		geoCmds[i] = pipe.GeoPos(ctx, b.keys.AssetLocations(), id)
	}
	for i, id := range ids {
		docCmds[i] = pipe.JSONGet(ctx, b.keys.Asset(id), "$")
	}

	// Exec surfaces the first command error; redis.Nil from a missing
	// document is a per-item gap, not a batch failure.
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, fmt.Errorf("executing asset batch: %w", err)
	}

	positions := make([]*redis.GeoPos, len(ids))
	docs := make([]string, len(ids))
	for i := range ids {
		if pos, err := geoCmds[i].Result(); err == nil && len(pos) > 0 {
			positions[i] = pos[0]
		}
		if doc, err := docCmds[i].Result(); err == nil {
			docs[i] = doc
		}
	}
	return positions, docs, nil
}

// jsonString encodes a scalar for a JSONSet path write. go-redis passes
// string values through as raw JSON, so scalars must be pre-encoded.
func jsonString(s string) string {
	return fmt.Sprintf("%q", s)
}
