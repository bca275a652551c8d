package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
)

// assetConfig describes one seeded network asset in the Dallas-Fort Worth
// metro area.
type assetConfig struct {
	ID           string
	Name         string
	Type         string
	Lat          float64
	Lon          float64
	Manufacturer string
	Model        string
}

var assetConfigs = []assetConfig{
	{ID: "TOWER-001", Name: "Cell Tower Downtown-001", Type: "cell_tower", Lat: 32.78, Lon: -96.80, Manufacturer: "Ericsson", Model: "AIR-6488"},
	{ID: "TOWER-002", Name: "Cell Tower North-002", Type: "cell_tower", Lat: 33.12, Lon: -96.65, Manufacturer: "Nokia", Model: "AirScale-5G"},
	{ID: "TOWER-003", Name: "Cell Tower West-003", Type: "cell_tower", Lat: 32.95, Lon: -97.25, Manufacturer: "Samsung", Model: "Compact-Macro"},
	{ID: "BASE-001", Name: "Base Station Alpha", Type: "base_station", Lat: 32.45, Lon: -96.92, Manufacturer: "Ericsson", Model: "RBS-6000"},
	{ID: "BASE-002", Name: "Base Station Beta", Type: "base_station", Lat: 32.89, Lon: -97.15, Manufacturer: "Nokia", Model: "Flexi-Zone"},
	{ID: "BASE-003", Name: "Base Station Gamma", Type: "base_station", Lat: 33.15, Lon: -96.78, Manufacturer: "Samsung", Model: "Compact-Base"},
	{ID: "RTR-ALPHA", Name: "Core Router Alpha", Type: "router", Lat: 32.67, Lon: -96.85, Manufacturer: "Cisco", Model: "ASR-9000"},
	{ID: "RTR-BETA", Name: "Edge Router Beta", Type: "router", Lat: 32.56, Lon: -97.05, Manufacturer: "Cisco", Model: "ASR-1000"},
	{ID: "SWH-001", Name: "Distribution Switch 001", Type: "switch", Lat: 33.01, Lon: -96.89, Manufacturer: "Cisco", Model: "Catalyst-9500"},
	{ID: "SWH-002", Name: "Access Switch 002", Type: "switch", Lat: 32.34, Lon: -96.67, Manufacturer: "Cisco", Model: "Catalyst-9300"},
	{ID: "FIBER-001", Name: "Fiber Node 001", Type: "fiber_node", Lat: 32.78, Lon: -96.95, Manufacturer: "Nokia", Model: "FN-7500"},
	{ID: "FIBER-002", Name: "Fiber Node 002", Type: "fiber_node", Lat: 32.89, Lon: -96.72, Manufacturer: "Ericsson", Model: "FN-6200"},
	{ID: "ANT-001", Name: "Antenna Array 001", Type: "antenna", Lat: 32.98, Lon: -96.88, Manufacturer: "Ericsson", Model: "AIR-32"},
	{ID: "SVC-001", Name: "Field Service Vehicle 001", Type: "service_vehicle", Lat: 32.82, Lon: -96.82, Manufacturer: "Ford", Model: "F-350-Tech"},
}

var maintenanceTeams = []string{
	"Network Ops A", "Network Ops B", "Network Ops C",
	"Field Service Alpha", "Tower Maintenance Team",
}

var contacts = []map[string]string{
	{"name": "John Doe", "email": "john.doe@example.com"},
	{"name": "Sarah Johnson", "email": "sarah.johnson@example.com"},
	{"name": "Mike Wilson", "email": "mike.wilson@example.com"},
	{"name": "Lisa Chen", "email": "lisa.chen@example.com"},
	{"name": "David Rodriguez", "email": "david.rodriguez@example.com"},
}

var assetStates = []string{"active", "maintenance", "standby", "offline"}

// seedAssets writes the full JSON document for each configured asset and
// registers it in the geospatial index.
func (s *Simulator) seedAssets(ctx context.Context) error {
	for _, cfg := range assetConfigs {
		doc := s.buildDocument(cfg)
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding asset document: %w", err)
		}

		key := s.platform.Keys.Asset(cfg.ID)
		if err := s.platform.Redis().JSONSet(ctx, key, "$", string(payload)).Err(); err != nil {
			return fmt.Errorf("seeding asset %s: %w", cfg.ID, err)
		}
		geo := &redis.GeoLocation{Name: cfg.ID, Longitude: cfg.Lon, Latitude: cfg.Lat}
		if err := s.platform.Redis().GeoAdd(ctx, s.platform.Keys.AssetLocations(), geo).Err(); err != nil {
			return fmt.Errorf("indexing asset %s: %w", cfg.ID, err)
		}

		s.positions[cfg.ID] = position{lat: cfg.Lat, lon: cfg.Lon, assetType: cfg.Type}
	}
	s.logger.Info("seeded network assets", "count", len(assetConfigs))
	return nil
}

func (s *Simulator) buildDocument(cfg assetConfig) map[string]any {
	now := time.Now()
	installed := now.AddDate(0, 0, -randIntRange(365, 1095))
	lastService := now.AddDate(0, 0, -randIntRange(1, 90))
	nextService := lastService.AddDate(0, 0, randIntRange(30, 120))
	lastFault := now.AddDate(0, 0, -randIntRange(1, 30))

	return map[string]any{
		"asset": map[string]any{
			"id":    cfg.ID,
			"name":  cfg.Name,
			"type":  cfg.Type,
			"group": "DFW Metro Network A",
			"model": map[string]any{
				"manufacturer":  cfg.Manufacturer,
				"model_number":  cfg.Model,
				"serial_number": fmt.Sprintf("SN-%d", randIntRange(10000000, 99999999)),
				"install_date":  installed.Format("2006-01-02"),
			},
			"status": map[string]any{
				"state":         assetStates[rand.IntN(len(assetStates))],
				"last_update":   now.Format(time.RFC3339Nano),
				"health_score":  randIntRange(85, 99),
				"runtime_hours": randIntRange(1000, 8000),
			},
			"location": map[string]any{
				"latitude":     cfg.Lat,
				"longitude":    cfg.Lon,
				"elevation_ft": randIntRange(500, 800),
				"zone":         fmt.Sprintf("DFW Metro Zone %d", randIntRange(1, 6)),
				"region_code":  fmt.Sprintf("TX-DFW%d", randIntRange(1, 6)),
			},
			"metrics": typeMetrics(cfg.Type),
			"maintenance": map[string]any{
				"last_service_date":    lastService.Format("2006-01-02"),
				"next_service_due":     nextService.Format("2006-01-02"),
				"total_downtime_hours": randIntRange(50, 300),
				"last_fault": map[string]any{
					"code":      fmt.Sprintf("E-%d", randIntRange(100, 999)),
					"timestamp": lastFault.UTC().Format(time.RFC3339),
				},
				"maintenance_team": maintenanceTeams[rand.IntN(len(maintenanceTeams))],
				"contact":          contacts[rand.IntN(len(contacts))],
			},
			"connectivity": map[string]any{
				"sensor_id":            "SENSOR-" + stripDashes(cfg.ID),
				"communication_status": pick("online", "online", "online", "degraded"),
				"data_source":          pick("Modbus/TCP", "OPC-UA", "MQTT", "LoRaWAN"),
				"data_frequency":       pick("1s", "5s", "10s", "30s"),
				"last_data_received":   now.Add(-time.Duration(randIntRange(1, 300)) * time.Second).UTC().Format(time.RFC3339),
			},
			"analytics": map[string]any{
				"avg_uptime_pct":           round1(randFloatRange(95.0, 99.5)),
				"maintenance_cost_to_date": round2(randFloatRange(5000, 25000)),
			},
			"metadata": map[string]any{
				"created_by": "system",
				"created_at": installed.UTC().Format(time.RFC3339),
				"updated_by": "simulator",
				"version":    fmt.Sprintf("v1.%d.%d", randIntRange(1, 5), rand.IntN(10)),
			},
		},
	}
}

// typeMetrics produces equipment-specific operating metrics.
func typeMetrics(assetType string) map[string]any {
	switch assetType {
	case "cell_tower":
		return map[string]any{
			"temperature_c":       round1(randFloatRange(25, 45)),
			"signal_strength_dbm": round1(randFloatRange(-85, -45)),
			"bandwidth_mbps":      round1(randFloatRange(100, 500)),
			"vibration_mm_s":      round2(randFloatRange(0.1, 0.5)),
			"power_kwh":           round1(randFloatRange(5.0, 15.0)),
			"active_connections":  randIntRange(50, 500),
		}
	case "base_station":
		return map[string]any{
			"temperature_c":       round1(randFloatRange(30, 50)),
			"signal_strength_dbm": round1(randFloatRange(-80, -40)),
			"bandwidth_mbps":      round1(randFloatRange(80, 400)),
			"vibration_mm_s":      round2(randFloatRange(0.1, 0.8)),
			"power_kwh":           round1(randFloatRange(3.0, 10.0)),
			"active_connections":  randIntRange(30, 300),
		}
	case "router":
		return map[string]any{
			"temperature_c":       round1(randFloatRange(35, 55)),
			"signal_strength_dbm": round1(randFloatRange(-75, -35)),
			"bandwidth_mbps":      round1(randFloatRange(500, 2000)),
			"vibration_mm_s":      round2(randFloatRange(0.05, 0.3)),
			"power_kwh":           round1(randFloatRange(10, 30)),
			"packet_loss_pct":     round2(randFloatRange(0.01, 0.5)),
			"latency_ms":          round1(randFloatRange(5, 25)),
		}
	case "switch":
		return map[string]any{
			"temperature_c":        round1(randFloatRange(30, 50)),
			"signal_strength_dbm":  round1(randFloatRange(-70, -30)),
			"bandwidth_mbps":       round1(randFloatRange(200, 1000)),
			"vibration_mm_s":       round2(randFloatRange(0.05, 0.4)),
			"power_kwh":            round1(randFloatRange(5, 20)),
			"port_utilization_pct": round1(randFloatRange(40, 85)),
			"throughput_gbps":      round1(randFloatRange(1, 10)),
		}
	case "fiber_node":
		return map[string]any{
			"temperature_c":       round1(randFloatRange(25, 40)),
			"signal_strength_dbm": round1(randFloatRange(-65, -25)),
			"bandwidth_mbps":      round1(randFloatRange(1000, 5000)),
			"vibration_mm_s":      round2(randFloatRange(0.02, 0.2)),
			"power_kwh":           round1(randFloatRange(2, 8)),
			"optical_power_dbm":   round1(randFloatRange(-15, -5)),
			"link_quality_pct":    round1(randFloatRange(90, 99.9)),
		}
	case "antenna":
		return map[string]any{
			"temperature_c":       round1(randFloatRange(20, 40)),
			"signal_strength_dbm": round1(randFloatRange(-90, -50)),
			"bandwidth_mbps":      round1(randFloatRange(50, 300)),
			"vibration_mm_s":      round2(randFloatRange(0.1, 1.0)),
			"power_kwh":           round1(randFloatRange(1, 5)),
			"gain_dbi":            round1(randFloatRange(12, 20)),
			"vswr":                round2(randFloatRange(1.1, 1.5)),
		}
	case "service_vehicle":
		return map[string]any{
			"temperature_c":       round1(randFloatRange(20, 35)),
			"signal_strength_dbm": round1(randFloatRange(-95, -55)),
			"bandwidth_mbps":      round1(randFloatRange(10, 100)),
			"vibration_mm_s":      round2(randFloatRange(0.5, 2.0)),
			"power_kwh":           round1(randFloatRange(5, 20)),
			"fuel_level_pct":      round1(randFloatRange(30, 90)),
			"operating_hours":     float64(randIntRange(100, 2000)),
		}
	case "repeater":
		return map[string]any{
			"temperature_c":       round1(randFloatRange(25, 45)),
			"signal_strength_dbm": round1(randFloatRange(-85, -45)),
			"bandwidth_mbps":      round1(randFloatRange(50, 250)),
			"vibration_mm_s":      round2(randFloatRange(0.05, 0.3)),
			"power_kwh":           round1(randFloatRange(1, 6)),
			"amplification_db":    round1(randFloatRange(15, 30)),
		}
	default:
		return map[string]any{
			"temperature_c":       round1(randFloatRange(25, 45)),
			"signal_strength_dbm": round1(randFloatRange(-85, -45)),
			"bandwidth_mbps":      round1(randFloatRange(100, 500)),
			"vibration_mm_s":      round2(randFloatRange(0.1, 0.5)),
			"power_kwh":           round1(randFloatRange(2.0, 8.0)),
		}
	}
}

// moveAssets nudges mobile assets (service vehicles and routers) by up to
// roughly a kilometer in each direction.
func (s *Simulator) moveAssets(ctx context.Context) {
	for id, pos := range s.positions {
		if pos.assetType != "service_vehicle" && pos.assetType != "router" {
			continue
		}
		pos.lat += randFloatRange(-0.01, 0.01)
		pos.lon += randFloatRange(-0.01, 0.01)
		s.positions[id] = pos

		if err := s.platform.Assets.UpdateLocation(ctx, id, pos.lat, pos.lon, ""); err != nil {
			s.logger.Error("moving asset failed", "asset_id", id, "error", err)
		}
	}
}
