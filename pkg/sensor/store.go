// Package sensor ingests and serves sensor telemetry. Each sensor has a
// stream of readings for history and a hash holding the most recent reading
// for cheap fan-out to dashboards.
package sensor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/monitor"
)

// Reading is one telemetry sample.
type Reading struct {
	StreamID    string  `json:"id,omitempty"`
	SensorID    string  `json:"sensor_id"`
	Timestamp   float64 `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	FlowRate    float64 `json:"flow_rate"`
	Vibration   float64 `json:"vibration"`
	Location    string  `json:"location"`
}

// Latest pairs a sensor with its most recent reading fields.
type Latest struct {
	SensorID   string            `json:"sensor_id"`
	Reading    map[string]string `json:"latest_reading"`
	LastUpdate string            `json:"last_update"`
}

// Store reads and writes sensor telemetry.
type Store struct {
	rdb      redis.Cmdable
	keys     keys.Scheme
	recorder *monitor.Recorder // optional, may be nil
}

// NewStore creates a sensor store. recorder may be nil.
func NewStore(rdb redis.Cmdable, scheme keys.Scheme, recorder *monitor.Recorder) *Store {
	return &Store{rdb: rdb, keys: scheme, recorder: recorder}
}

// Ingest appends the reading to the sensor's stream and replaces the
// latest-reading hash. Returns the stream entry ID.
func (s *Store) Ingest(ctx context.Context, r Reading) (string, error) {
	stream := s.keys.SensorStream(r.SensorID)

	s.audit(ctx, "XADD", stream)
	streamID, err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: r.fields(),
	}).Result()
	if err != nil {
		return "", fmt.Errorf("appending sensor reading: %w", err)
	}

	latest := s.keys.SensorLatest(r.SensorID)
	s.audit(ctx, "HSET", latest)
	if err := s.rdb.HSet(ctx, latest, r.fields()).Err(); err != nil {
		return "", fmt.Errorf("updating latest reading: %w", err)
	}
	return streamID, nil
}

// Readings returns up to count stream entries for a sensor, newest first.
func (s *Store) Readings(ctx context.Context, sensorID string, count int64) ([]Reading, error) {
	stream := s.keys.SensorStream(sensorID)

	s.audit(ctx, "XREVRANGE", stream)
	messages, err := s.rdb.XRevRangeN(ctx, stream, "+", "-", count).Result()
	if err != nil {
		return nil, fmt.Errorf("reading sensor stream: %w", err)
	}

	readings := make([]Reading, 0, len(messages))
	for _, msg := range messages {
		r := fromValues(msg.Values)
		r.StreamID = msg.ID
		r.SensorID = sensorID
		readings = append(readings, r)
	}
	return readings, nil
}

// Active lists every sensor with a latest-reading hash. The key space is
// walked with SCAN rather than KEYS so the server is never blocked.
func (s *Store) Active(ctx context.Context) ([]Latest, error) {
	latestKeys, err := s.scanLatestKeys(ctx)
	if err != nil {
		return nil, err
	}

	sensors := make([]Latest, 0, len(latestKeys))
	for _, key := range latestKeys {
		s.audit(ctx, "HGETALL", key)
		data, err := s.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("reading latest sensor data: %w", err)
		}
		if len(data) == 0 {
			continue
		}
		sensors = append(sensors, Latest{
			SensorID:   strings.TrimPrefix(key, s.keys.SensorLatestPrefix()),
			Reading:    data,
			LastUpdate: data["timestamp"],
		})
	}
	return sensors, nil
}

// ForAsset returns the sensors whose location field names the given asset.
func (s *Store) ForAsset(ctx context.Context, assetID string) ([]Latest, error) {
	sensors, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Latest, 0, len(sensors))
	for _, sensor := range sensors {
		if sensor.Reading["location"] == assetID {
			matched = append(matched, sensor)
		}
	}
	return matched, nil
}

// CountActive returns the number of sensors with a latest reading.
func (s *Store) CountActive(ctx context.Context) (int, error) {
	latestKeys, err := s.scanLatestKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(latestKeys), nil
}

func (s *Store) scanLatestKeys(ctx context.Context) ([]string, error) {
	var (
		found  []string
		cursor uint64
	)
	s.audit(ctx, "SCAN", s.keys.SensorLatestPattern())
	for {
		batch, next, err := s.rdb.Scan(ctx, cursor, s.keys.SensorLatestPattern(), 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning sensor keys: %w", err)
		}
		found = append(found, batch...)
		if next == 0 {
			return found, nil
		}
		cursor = next
	}
}

func (s *Store) audit(ctx context.Context, operation, key string) {
	if s.recorder != nil {
		s.recorder.Record(ctx, operation, key, "", monitor.PartitionDashboard)
	}
}

func (r Reading) fields() map[string]any {
	return map[string]any{
		"sensor_id":   r.SensorID,
		"timestamp":   strconv.FormatFloat(r.Timestamp, 'f', -1, 64),
		"temperature": strconv.FormatFloat(r.Temperature, 'f', -1, 64),
		"pressure":    strconv.FormatFloat(r.Pressure, 'f', -1, 64),
		"flow_rate":   strconv.FormatFloat(r.FlowRate, 'f', -1, 64),
		"vibration":   strconv.FormatFloat(r.Vibration, 'f', -1, 64),
		"location":    r.Location,
	}
}

func fromValues(values map[string]any) Reading {
	return Reading{
		Timestamp:   floatValue(values, "timestamp"),
		Temperature: floatValue(values, "temperature"),
		Pressure:    floatValue(values, "pressure"),
		FlowRate:    floatValue(values, "flow_rate"),
		Vibration:   floatValue(values, "vibration"),
		Location:    stringValue(values, "location"),
	}
}

func floatValue(values map[string]any, field string) float64 {
	s, ok := values[field].(string)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func stringValue(values map[string]any, field string) string {
	s, _ := values[field].(string)
	return s
}
