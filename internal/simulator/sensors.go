package simulator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/alert"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/sensor"
)

type sensorConfig struct {
	Kind     string
	Location string
	Base     float64
}

var sensorConfigs = map[string]sensorConfig{
	"TEMP-001":  {Kind: "temperature", Location: "TOWER-001", Base: 85},
	"TEMP-002":  {Kind: "temperature", Location: "TOWER-002", Base: 78},
	"PRESS-001": {Kind: "pressure", Location: "BASE-001", Base: 2500},
	"PRESS-002": {Kind: "pressure", Location: "BASE-002", Base: 2800},
	"FLOW-001":  {Kind: "flow_rate", Location: "RTR-ALPHA", Base: 150},
	"FLOW-002":  {Kind: "flow_rate", Location: "RTR-BETA", Base: 180},
	"VIB-001":   {Kind: "vibration", Location: "SWH-001", Base: 2.5},
	"VIB-002":   {Kind: "vibration", Location: "ANT-001", Base: 1.8},
}

// nextReading produces one sample for a sensor. Only the field matching the
// sensor kind carries a value.
func nextReading(sensorID string, cfg sensorConfig, now time.Time) sensor.Reading {
	r := sensor.Reading{
		SensorID:  sensorID,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Location:  cfg.Location,
	}
	switch cfg.Kind {
	case "temperature":
		r.Temperature = round2(cfg.Base + randFloatRange(-10, 10))
	case "pressure":
		r.Pressure = round2(cfg.Base + randFloatRange(-200, 200))
	case "flow_rate":
		r.FlowRate = round2(max(0, cfg.Base+randFloatRange(-20, 20)))
	case "vibration":
		r.Vibration = round2(max(0, cfg.Base+randFloatRange(-0.5, 0.5)))
	}
	return r
}

// emitReadings generates one reading per sensor, ingests it, and raises any
// threshold alerts.
func (s *Simulator) emitReadings(ctx context.Context) {
	now := time.Now()
	for id, cfg := range sensorConfigs {
		r := nextReading(id, cfg, now)
		if _, err := s.platform.Sensors.Ingest(ctx, r); err != nil {
			s.logger.Error("ingesting simulated reading failed", "sensor_id", id, "error", err)
			continue
		}
		for _, a := range thresholdAlerts(r, now) {
			if err := s.platform.Alerts.Raise(ctx, a); err != nil {
				s.logger.Error("raising alert failed", "alert_id", a.ID, "error", err)
			}
		}
	}
	s.maybeSystemAlert(ctx, now)
}

// thresholdAlerts evaluates a reading against the operating thresholds.
func thresholdAlerts(r sensor.Reading, now time.Time) []alert.Alert {
	var alerts []alert.Alert
	ts := float64(now.Unix())

	if r.Temperature > 95 {
		severity := "warning"
		switch {
		case r.Temperature > 110:
			severity = "critical"
		case r.Temperature > 105:
			severity = "high"
		}
		alerts = append(alerts, alert.Alert{
			ID:        fmt.Sprintf("TEMP_HIGH_%s_%d", r.SensorID, now.Unix()),
			Type:      "temperature_high",
			Message:   "High Temperature Detected",
			Details:   fmt.Sprintf("%.1f°F exceeds normal operating range", r.Temperature),
			Location:  r.Location,
			SensorID:  r.SensorID,
			Severity:  severity,
			Timestamp: ts,
		})
	}

	if r.Pressure > 2800 {
		severity := "warning"
		switch {
		case r.Pressure > 3200:
			severity = "critical"
		case r.Pressure > 3000:
			severity = "high"
		}
		alerts = append(alerts, alert.Alert{
			ID:        fmt.Sprintf("PRESS_HIGH_%s_%d", r.SensorID, now.Unix()),
			Type:      "pressure_high",
			Message:   "Pressure Threshold Exceeded",
			Details:   fmt.Sprintf("%.0f PSI above safe operating limits", r.Pressure),
			Location:  r.Location,
			SensorID:  r.SensorID,
			Severity:  severity,
			Timestamp: ts,
		})
	}

	if r.Vibration > 2.5 {
		severity := "warning"
		switch {
		case r.Vibration > 4.0:
			severity = "critical"
		case r.Vibration > 3.0:
			severity = "high"
		}
		alerts = append(alerts, alert.Alert{
			ID:        fmt.Sprintf("VIB_HIGH_%s_%d", r.SensorID, now.Unix()),
			Type:      "vibration_high",
			Message:   "Excessive Vibration Detected",
			Details:   fmt.Sprintf("%.1f mm/s indicates potential equipment issue", r.Vibration),
			Location:  r.Location,
			SensorID:  r.SensorID,
			Severity:  severity,
			Timestamp: ts,
		})
	}

	// Low-flow check applies only to flow sensors, which always carry a
	// non-zero reading.
	if r.FlowRate > 0 && r.FlowRate < 15 {
		severity := "warning"
		if r.FlowRate < 10 {
			severity = "high"
		}
		alerts = append(alerts, alert.Alert{
			ID:        fmt.Sprintf("FLOW_LOW_%s_%d", r.SensorID, now.Unix()),
			Type:      "flow_low",
			Message:   "Low Flow Rate Alert",
			Details:   fmt.Sprintf("%.1f GPM below expected production levels", r.FlowRate),
			Location:  r.Location,
			SensorID:  r.SensorID,
			Severity:  severity,
			Timestamp: ts,
		})
	}

	return alerts
}

var systemAlertKinds = []alert.Alert{
	{Type: "maintenance_due", Message: "Scheduled Maintenance Due", Details: "Preventive maintenance window approaching", Severity: "warning"},
	{Type: "communication_issue", Message: "Communication Timeout", Details: "Intermittent connection to remote sensors", Severity: "warning"},
	{Type: "production_anomaly", Message: "Production Rate Anomaly", Details: "Output variance detected across multiple sites", Severity: "high"},
	{Type: "weather_warning", Message: "Weather Advisory", Details: "High winds forecasted - secure equipment", Severity: "warning"},
}

var systemAlertSites = []string{"FIELD-NORTH", "FIELD-SOUTH", "FIELD-CENTRAL", "OPERATIONS-HQ"}

// maybeSystemAlert raises a system-level alert on roughly 30% of cycles.
func (s *Simulator) maybeSystemAlert(ctx context.Context, now time.Time) {
	if rand.Float64() >= 0.3 {
		return
	}
	a := systemAlertKinds[rand.IntN(len(systemAlertKinds))]
	a.ID = fmt.Sprintf("SYS_%s_%d", strings.ToUpper(a.Type), now.Unix())
	a.Location = systemAlertSites[rand.IntN(len(systemAlertSites))]
	a.SensorID = "SYSTEM"
	a.Timestamp = float64(now.Unix())

	if err := s.platform.Alerts.Raise(ctx, a); err != nil {
		s.logger.Error("raising system alert failed", "alert_id", a.ID, "error", err)
		return
	}
	s.logger.Info("raised system alert", "message", a.Message, "location", a.Location)
}
