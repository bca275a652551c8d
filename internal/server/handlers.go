package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/search"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/sensor"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/session"
)

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.platform.Assets.List(r.Context())
	if err != nil {
		s.logger.Error("listing assets failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"assets":  assets,
		"count":   len(assets),
	})
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	detail, err := s.platform.Assets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("fetching asset failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch asset")
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "asset": detail})
}

func (s *Server) nearbyAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	radius := 10.0
	if v := q.Get("radius"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			radius = parsed
		}
	}

	nearby, err := s.platform.Assets.NearbyAssets(r.Context(), lat, lon, radius)
	if err != nil {
		s.logger.Error("nearby search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to search nearby assets")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"nearby_assets": nearby,
		"search_center": map[string]float64{"lat": lat, "lon": lon},
		"radius_km":     radius,
		"count":         len(nearby),
	})
}

type updateAssetRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Status    string  `json:"status"`
}

func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := r.PathValue("id")
	if err := s.platform.Assets.UpdateLocation(r.Context(), id, req.Latitude, req.Longitude, req.Status); err != nil {
		s.logger.Error("updating asset failed", "asset_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update asset")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "asset " + id + " updated"})
}

func (s *Server) assetSensors(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sensors, err := s.platform.Sensors.ForAsset(r.Context(), id)
	if err != nil {
		s.logger.Error("listing asset sensors failed", "asset_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list asset sensors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"asset_id": id,
		"sensors":  sensors,
		"count":    len(sensors),
	})
}

func (s *Server) dashboardKPIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	totalAssets, err := s.platform.Assets.Count(ctx)
	if err != nil {
		s.logger.Error("counting assets failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute KPIs")
		return
	}
	activeSensors, err := s.platform.Sensors.CountActive(ctx)
	if err != nil {
		s.logger.Error("counting sensors failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute KPIs")
		return
	}

	kpis := map[string]float64{
		"total_assets":     float64(totalAssets),
		"active_sensors":   float64(activeSensors),
		"total_alerts":     s.counter(ctx, s.platform.Keys.AlertCount()),
		"avg_temperature":  s.counter(ctx, s.platform.Keys.Metric("avg_temperature")),
		"avg_pressure":     s.counter(ctx, s.platform.Keys.Metric("avg_pressure")),
		"total_production": s.counter(ctx, s.platform.Keys.Metric("total_production")),
		"system_uptime":    s.counter(ctx, s.platform.Keys.SystemUptime()),
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "kpis": kpis})
}

// counter reads a numeric string key, treating absence or a bad value as 0.
func (s *Server) counter(ctx context.Context, key string) float64 {
	raw, err := s.platform.Redis().Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("reading counter failed", "key", key, "error", err)
		}
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func (s *Server) activeAlerts(w http.ResponseWriter, r *http.Request) {
	limit := int64(10)
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			limit = parsed
		}
	}
	alerts, err := s.platform.Alerts.Active(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing alerts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"alerts":  alerts,
		"count":   len(alerts),
	})
}

func (s *Server) ingestSensorData(w http.ResponseWriter, r *http.Request) {
	var reading sensor.Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil || reading.SensorID == "" {
		writeError(w, http.StatusBadRequest, "sensor_id is required")
		return
	}
	streamID, err := s.platform.Sensors.Ingest(r.Context(), reading)
	if err != nil {
		s.logger.Error("ingesting sensor data failed", "sensor_id", reading.SensorID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to ingest sensor data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"stream_id": streamID,
		"sensor_id": reading.SensorID,
	})
}

func (s *Server) activeSensors(w http.ResponseWriter, r *http.Request) {
	sensors, err := s.platform.Sensors.Active(r.Context())
	if err != nil {
		s.logger.Error("listing sensors failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sensors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"sensors": sensors,
		"count":   len(sensors),
	})
}

func (s *Server) sensorStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	count := int64(100)
	if v := r.URL.Query().Get("count"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			count = parsed
		}
	}
	readings, err := s.platform.Sensors.Readings(r.Context(), id, count)
	if err != nil {
		s.logger.Error("reading sensor stream failed", "sensor_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read sensor stream")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sensor_id": id,
		"data":      readings,
		"count":     len(readings),
	})
}

func (s *Server) searchAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := search.Filters{
		Query:        q.Get("q"),
		Type:         q.Get("type"),
		Manufacturer: q.Get("manufacturer"),
		Status:       q.Get("status"),
		Region:       q.Get("region"),
		Team:         q.Get("team"),
	}
	if v := q.Get("limit"); v != "" {
		filters.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		filters.Offset, _ = strconv.Atoi(v)
	}

	result, err := s.platform.Search.Assets(r.Context(), filters)
	if err != nil {
		s.logger.Error("searching assets failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to search assets")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   result.Total,
		"count":   len(result.Assets),
		"assets":  result.Assets,
		"query":   result.Query,
	})
}

func (s *Server) searchSuggestions(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if field == "" {
		field = "type"
	}
	suggestions, err := s.platform.Search.Suggestions(r.Context(), field)
	if err != nil {
		var notSuggestible search.ErrFieldNotSuggestible
		if errors.As(err, &notSuggestible) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("listing suggestions failed", "field", field, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list suggestions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"field":       field,
		"suggestions": suggestions,
	})
}

type createSessionRequest struct {
	UserID   string          `json:"user_id"`
	UserData json.RawMessage `json:"user_data"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	id, err := s.platform.Sessions.Create(r.Context(), req.UserID, req.UserData)
	if err != nil {
		if errors.Is(err, session.ErrUserDataTooLarge) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("creating session failed", "user_id", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "session_id": id})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.platform.Sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("fetching session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch session")
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "session": sess})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.platform.Sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.logger.Error("deleting session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) listActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.platform.Sessions.ListActive(r.Context())
	if err != nil {
		s.logger.Error("listing sessions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (s *Server) sessionMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.platform.Sessions.Metrics(r.Context())
	if err != nil {
		s.logger.Error("computing session metrics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute session metrics")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "metrics": metrics})
}

func (s *Server) recentCommands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	commands := s.platform.Recorder.Recent(r.Context(), limit, q.Get("context"))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"commands": commands,
		"count":    len(commands),
	})
}

func (s *Server) commandStats(w http.ResponseWriter, r *http.Request) {
	stats := s.platform.Recorder.Stats(r.Context(), r.URL.Query().Get("context"))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (s *Server) clearCommands(w http.ResponseWriter, r *http.Request) {
	s.platform.Recorder.Clear(r.Context(), r.URL.Query().Get("context"))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
