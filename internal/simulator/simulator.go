// Package simulator seeds the Dallas-Fort Worth demo network and keeps it
// alive: assets move, sensors emit telemetry, thresholds raise alerts, and
// dashboard metrics refresh on fixed intervals.
package simulator

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/platform"
)

// Intervals for the three background loops.
const (
	movementInterval = 30 * time.Second
	sensorInterval   = 5 * time.Second
	metricsInterval  = 10 * time.Second
)

type position struct {
	lat       float64
	lon       float64
	assetType string
}

// Simulator drives the demo data generators against a platform.
type Simulator struct {
	platform  *platform.Platform
	positions map[string]position
	logger    *slog.Logger
}

// New creates a simulator bound to the given platform.
func New(p *platform.Platform) *Simulator {
	return &Simulator{
		platform:  p,
		positions: make(map[string]position),
		logger:    slog.Default().With("component", "simulator"),
	}
}

// Run seeds the asset fleet and then loops until the context is cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	if err := s.seedAssets(ctx); err != nil {
		return err
	}

	movement := time.NewTicker(movementInterval)
	defer movement.Stop()
	sensors := time.NewTicker(sensorInterval)
	defer sensors.Stop()
	metrics := time.NewTicker(metricsInterval)
	defer metrics.Stop()

	s.logger.Info("simulator running",
		"assets", len(s.positions),
		"sensors", len(sensorConfigs))

	// Prime telemetry immediately so dashboards have data before the first
	// tick fires.
	s.emitReadings(ctx)
	s.updateMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulator stopping")
			return ctx.Err()
		case <-movement.C:
			s.moveAssets(ctx)
		case <-sensors.C:
			s.emitReadings(ctx)
		case <-metrics.C:
			s.updateMetrics(ctx)
		}
	}
}

// updateMetrics recomputes fleet-wide averages from the latest sensor
// readings and refreshes the dashboard counters.
func (s *Simulator) updateMetrics(ctx context.Context) {
	sensors, err := s.platform.Sensors.Active(ctx)
	if err != nil {
		s.logger.Error("reading sensors for metrics failed", "error", err)
		return
	}

	var totalTemp, totalPressure float64
	var tempCount, pressureCount int
	for _, sn := range sensors {
		if temp, err := strconv.ParseFloat(sn.Reading["temperature"], 64); err == nil && temp != 0 {
			totalTemp += temp
			tempCount++
		}
		if pressure, err := strconv.ParseFloat(sn.Reading["pressure"], 64); err == nil && pressure != 0 {
			totalPressure += pressure
			pressureCount++
		}
	}

	rdb := s.platform.Redis()
	if tempCount > 0 {
		s.setMetric(ctx, s.platform.Keys.Metric("avg_temperature"), round1(totalTemp/float64(tempCount)))
	}
	if pressureCount > 0 {
		s.setMetric(ctx, s.platform.Keys.Metric("avg_pressure"), round1(totalPressure/float64(pressureCount)))
	}
	s.setMetric(ctx, s.platform.Keys.Metric("total_production"), float64(randIntRange(8500, 9500)))
	if err := rdb.Set(ctx, s.platform.Keys.SystemUptime(), time.Now().Unix(), 0).Err(); err != nil {
		s.logger.Error("updating uptime failed", "error", err)
	}
}

func (s *Simulator) setMetric(ctx context.Context, key string, value float64) {
	if err := s.platform.Redis().Set(ctx, key, strconv.FormatFloat(value, 'f', -1, 64), 0).Err(); err != nil {
		s.logger.Error("updating metric failed", "key", key, "error", err)
	}
}

func randIntRange(lo, hi int) int {
	return lo + rand.IntN(hi-lo+1)
}

func randFloatRange(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func pick(options ...string) string {
	return options[rand.IntN(len(options))]
}

func stripDashes(s string) string {
	return strings.ReplaceAll(s, "-", "")
}
