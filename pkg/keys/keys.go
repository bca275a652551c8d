// Package keys defines the hierarchical Redis key scheme shared by every
// component. Context inference in pkg/monitor and record addressing in the
// storage packages both depend on these exact prefixes, so the scheme lives
// in one place rather than as string literals scattered across packages.
package keys

// DefaultNamespace is the key prefix used when none is configured.
const DefaultNamespace = "telcom"

// Scheme builds namespaced Redis keys.
type Scheme struct {
	ns string
}

// New creates a Scheme for the given namespace. An empty namespace falls back
// to DefaultNamespace.
func New(namespace string) Scheme {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Scheme{ns: namespace}
}

// Namespace returns the configured namespace.
func (s Scheme) Namespace() string {
	return s.ns
}

// Session returns the hash key holding one session record.
func (s Scheme) Session(id string) string {
	return s.ns + ":session:" + id
}

// ActiveSessions returns the sorted-set key indexing live session IDs by
// creation time.
func (s Scheme) ActiveSessions() string {
	return s.ns + ":sessions:active"
}

// Asset returns the RedisJSON key holding one asset document.
func (s Scheme) Asset(id string) string {
	return s.ns + ":asset:" + id
}

// AssetLocations returns the geospatial index key for asset coordinates.
func (s Scheme) AssetLocations() string {
	return s.ns + ":assets:locations"
}

// SensorStream returns the stream key for one sensor's telemetry.
func (s Scheme) SensorStream(id string) string {
	return s.ns + ":sensors:" + id
}

// SensorLatest returns the hash key holding a sensor's most recent reading.
func (s Scheme) SensorLatest(id string) string {
	return s.ns + ":sensor:latest:" + id
}

// SensorLatestPattern returns the SCAN match pattern for latest-reading keys.
func (s Scheme) SensorLatestPattern() string {
	return s.ns + ":sensor:latest:*"
}

// SensorLatestPrefix returns the prefix shared by latest-reading keys.
func (s Scheme) SensorLatestPrefix() string {
	return s.ns + ":sensor:latest:"
}

// ActiveAlerts returns the sorted-set key holding active alerts by timestamp.
func (s Scheme) ActiveAlerts() string {
	return s.ns + ":alerts:active"
}

// AlertCount returns the counter key for total alerts raised.
func (s Scheme) AlertCount() string {
	return s.ns + ":alerts:count"
}

// Metric returns the key for one rolling dashboard metric.
func (s Scheme) Metric(name string) string {
	return s.ns + ":metrics:" + name
}

// SystemUptime returns the key holding the last simulator heartbeat.
func (s Scheme) SystemUptime() string {
	return s.ns + ":system:uptime"
}

// CommandLog returns the sorted-set key for one monitoring partition.
func (s Scheme) CommandLog(partition string) string {
	return s.ns + ":commands:" + partition
}

// SearchIndex returns the RediSearch index name for asset documents.
func (s Scheme) SearchIndex() string {
	return "idx:" + s.ns + ":assets"
}

// SessionPrefixes returns the key prefixes that classify a command into the
// "session" partition. Checked before DashboardPrefixes.
func (s Scheme) SessionPrefixes() []string {
	return []string{
		s.ns + ":session:",
		s.ns + ":sessions:active",
	}
}

// DashboardPrefixes returns the key prefixes that classify a command into the
// "dashboard" partition.
func (s Scheme) DashboardPrefixes() []string {
	return []string{
		s.ns + ":asset:",
		s.ns + ":assets:locations",
		s.ns + ":sensor:",
		s.ns + ":sensors:",
		s.ns + ":alerts:",
		s.ns + ":metrics:",
		s.ns + ":system:",
	}
}
