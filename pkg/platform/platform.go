package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/alert"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/asset"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/health"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/monitor"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/search"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/sensor"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/session"
)

// Platform wires the core components around one Redis client. All instances
// are constructed here once and shared by reference.
type Platform struct {
	cfg *Config
	rdb *redis.Client

	Keys     keys.Scheme
	Recorder *monitor.Recorder
	Sessions *session.Manager
	Assets   *asset.Aggregator
	Sensors  *sensor.Store
	Alerts   *alert.Feed
	Search   *search.Searcher
	Health   *health.Checker
}

// New constructs the platform from configuration. It does not dial Redis;
// call Ping to verify connectivity.
func New(cfg *Config) (*Platform, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr(),
		Username:    cfg.Redis.Username,
		Password:    cfg.Redis.Password,
		DialTimeout: time.Duration(cfg.Redis.DialTimeoutSeconds) * time.Second,
		ReadTimeout: time.Duration(cfg.Redis.ReadTimeoutSeconds) * time.Second,
	})

	return NewWithClient(cfg, rdb), nil
}

// NewWithClient wires the components around an existing client. Used by
// tests to inject a test server.
func NewWithClient(cfg *Config, rdb *redis.Client) *Platform {
	scheme := keys.New(cfg.Redis.Namespace)

	recorder := monitor.NewRecorder(
		monitor.NewRedisLog(rdb, scheme, cfg.Monitor.MaxEvents),
		scheme,
		monitor.Config{
			MaxEvents:     cfg.Monitor.MaxEvents,
			ResultPreview: cfg.Monitor.ResultPreview,
			StatsSample:   cfg.Monitor.StatsSample,
		},
	)

	return &Platform{
		cfg:      cfg,
		rdb:      rdb,
		Keys:     scheme,
		Recorder: recorder,
		Sessions: session.NewManager(rdb, scheme, recorder, session.Config{TTL: cfg.Session.TTL()}),
		Assets:   asset.NewAggregator(rdb, scheme, recorder),
		Sensors:  sensor.NewStore(rdb, scheme, recorder),
		Alerts:   alert.NewFeed(rdb, scheme, recorder),
		Search:   search.NewSearcher(rdb, scheme, recorder),
		Health:   health.NewChecker(),
	}
}

// Config returns the platform configuration.
func (p *Platform) Config() *Config {
	return p.cfg
}

// Redis returns the shared client for glue-layer reads (dashboard counters).
func (p *Platform) Redis() *redis.Client {
	return p.rdb
}

// Ping verifies Redis connectivity.
func (p *Platform) Ping(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}

// Close releases the Redis client.
func (p *Platform) Close() error {
	return p.rdb.Close()
}
