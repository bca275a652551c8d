// Package asset aggregates geospatial coordinates and RedisJSON documents
// into display projections. The full listing is fetched in one pipelined
// round trip regardless of fleet size, and per-asset gaps (a coordinate
// without a document, or the reverse) are absorbed rather than failing the
// whole request.
package asset

import "encoding/json"

// Projection is the fixed display whitelist for one asset. The raw document
// is never surfaced through a listing.
type Projection struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	LastUpdate  string  `json:"last_update"`
}

// Detail is the full single-asset view.
type Detail struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Status     Status         `json:"status"`
	Location   Location       `json:"location"`
	Metrics    map[string]any `json:"metrics"`
	Model      map[string]any `json:"model"`
	LastUpdate string         `json:"last_update"`
}

// Status is the status block of an asset document.
type Status struct {
	State       string `json:"state"`
	LastUpdate  string `json:"last_update"`
	HealthScore int    `json:"health_score,omitempty"`
}

// Location is an asset's resolved position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zone      string  `json:"zone,omitempty"`
}

// Nearby is one radius-search hit.
type Nearby struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	DistanceKM float64 `json:"distance_km"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// document mirrors the stored RedisJSON asset shape.
type document struct {
	Asset struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Type   string `json:"type"`
		Status Status `json:"status"`
		Location struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Zone      string  `json:"zone"`
		} `json:"location"`
		Metrics map[string]any `json:"metrics"`
		Model   map[string]any `json:"model"`
	} `json:"asset"`
}

// decodeDocument parses a JSON.GET result. A "$" path wraps the value in a
// one-element array; a legacy path returns the bare object. Both are
// accepted.
func decodeDocument(raw string) (*document, error) {
	var multi []document
	if err := json.Unmarshal([]byte(raw), &multi); err == nil {
		if len(multi) == 0 {
			return nil, errEmptyDocument
		}
		return &multi[0], nil
	}
	var single document
	if err := json.Unmarshal([]byte(raw), &single); err != nil {
		return nil, err
	}
	return &single, nil
}

// metric reads a numeric field from a document metric map, returning zero
// when absent or non-numeric.
func (d *document) metric(name string) float64 {
	v, ok := d.Asset.Metrics[name]
	if !ok {
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return f
}

// project applies the display whitelist.
func (d *document) project(id string, lat, lon float64) Projection {
	a := d.Asset
	name := a.Name
	if name == "" {
		name = id
	}
	typ := a.Type
	if typ == "" {
		typ = "unknown"
	}
	state := a.Status.State
	if state == "" {
		state = "active"
	}
	return Projection{
		ID:          id,
		Name:        name,
		Type:        typ,
		Status:      state,
		Latitude:    lat,
		Longitude:   lon,
		Temperature: d.metric("temperature_c"),
		Pressure:    d.metric("pressure_psi"),
		LastUpdate:  a.Status.LastUpdate,
	}
}
