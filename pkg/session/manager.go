package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/keys"
	"github.com/naresh29s/Redis-Datastucture-beyond-caching-telcom/pkg/monitor"
)

// Hash field names of a session record.
const (
	fieldSessionID    = "session_id"
	fieldUserID       = "user_id"
	fieldCreatedAt    = "created_at"
	fieldLastActivity = "last_activity"
	fieldUserData     = "user_data"
)

// Config configures a Manager.
type Config struct {
	// TTL is the sliding session lifetime. Zero means DefaultTTL.
	TTL time.Duration
}

// Manager owns session records. Store failures propagate to the caller;
// there are no internal retries. Absence is reported as nil, nil, not an
// error.
type Manager struct {
	rdb      redis.Cmdable
	keys     keys.Scheme
	recorder *monitor.Recorder // optional audit trail, may be nil
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewManager creates a session manager. recorder may be nil to disable audit
// logging of session commands.
func NewManager(rdb redis.Cmdable, scheme keys.Scheme, recorder *monitor.Recorder, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Manager{
		rdb:      rdb,
		keys:     scheme,
		recorder: recorder,
		ttl:      cfg.TTL,
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// TTL returns the configured sliding session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create writes a new session record with a fresh TTL and registers it in
// the active-session index scored by creation time. The three writes are
// independent Redis commands; a failure partway through can leave an
// orphaned index entry, which ListActive later prunes.
func (m *Manager) Create(ctx context.Context, userID string, userData json.RawMessage) (string, error) {
	if len(userData) > MaxUserDataBytes {
		return "", ErrUserDataTooLarge
	}
	if len(userData) == 0 {
		userData = json.RawMessage("{}")
	}

	id := uuid.NewString()
	key := m.keys.Session(id)
	now := m.now()

	m.audit(ctx, "HSET", key)
	fields := map[string]any{
		fieldSessionID:    id,
		fieldUserID:       userID,
		fieldCreatedAt:    now.Format(time.RFC3339Nano),
		fieldLastActivity: now.Format(time.RFC3339Nano),
		fieldUserData:     string(userData),
	}
	if err := m.rdb.HSet(ctx, key, fields).Err(); err != nil {
		return "", fmt.Errorf("writing session: %w", err)
	}

	m.audit(ctx, "EXPIRE", key)
	if err := m.rdb.Expire(ctx, key, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("setting session expiry: %w", err)
	}

	m.audit(ctx, "ZADD", m.keys.ActiveSessions())
	member := redis.Z{Score: float64(now.Unix()), Member: id}
	if err := m.rdb.ZAdd(ctx, m.keys.ActiveSessions(), member).Err(); err != nil {
		return "", fmt.Errorf("indexing session: %w", err)
	}
	return id, nil
}

// Get returns the session, refreshing last_activity and resetting the TTL to
// its full duration (sliding expiration). Returns nil, nil when the session
// does not exist, including after true expiry.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	key := m.keys.Session(id)

	m.audit(ctx, "HGETALL", key)
	data, err := m.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	now := m.now()
	if err := m.rdb.HSet(ctx, key, fieldLastActivity, now.Format(time.RFC3339Nano)).Err(); err != nil {
		return nil, fmt.Errorf("refreshing session activity: %w", err)
	}
	if err := m.rdb.Expire(ctx, key, m.ttl).Err(); err != nil {
		return nil, fmt.Errorf("refreshing session expiry: %w", err)
	}

	sess, err := parseRecord(id, data)
	if err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	sess.LastActivity = now

	ttl, err := m.rdb.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading session expiry: %w", err)
	}
	applyTTL(sess, ttl)
	return sess, nil
}

// Delete removes a session and its index entry. Idempotent: deleting an
// unknown id is a no-op, never an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	key := m.keys.Session(id)

	m.audit(ctx, "DEL", key)
	if err := m.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	m.audit(ctx, "ZREM", m.keys.ActiveSessions())
	if err := m.rdb.ZRem(ctx, m.keys.ActiveSessions(), id).Err(); err != nil {
		return fmt.Errorf("unindexing session: %w", err)
	}
	return nil
}

// ListActive enumerates the active-session index and fetches each backing
// record. Index entries whose hash has expired are pruned synchronously as a
// side effect; reconciliation always happens here, never in a background
// task. Enumeration does not refresh TTLs, and it is not audited: recording
// each fetch would feed more events into the session partition being read.
func (m *Manager) ListActive(ctx context.Context) ([]*Session, error) {
	ids, err := m.rdb.ZRange(ctx, m.keys.ActiveSessions(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing active sessions: %w", err)
	}

	sessions := make([]*Session, 0, len(ids))
	for _, id := range ids {
		key := m.keys.Session(id)
		data, err := m.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("reading session: %w", err)
		}
		if len(data) == 0 {
			// Orphaned index entry: the hash expired under us.
			if err := m.rdb.ZRem(ctx, m.keys.ActiveSessions(), id).Err(); err != nil {
				return nil, fmt.Errorf("pruning expired session: %w", err)
			}
			continue
		}

		sess, err := parseRecord(id, data)
		if err != nil {
			m.logger.Warn("skipping corrupted session record", "session_id", id, "error", err)
			continue
		}
		ttl, err := m.rdb.TTL(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("reading session expiry: %w", err)
		}
		applyTTL(sess, ttl)
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// Metrics derives session statistics from a fresh enumeration. Zero active
// sessions yields zero values, not an error.
func (m *Manager) Metrics(ctx context.Context) (Metrics, error) {
	sessions, err := m.ListActive(ctx)
	if err != nil {
		return Metrics{}, err
	}

	metrics := Metrics{
		TotalActiveSessions: len(sessions),
		SessionsByUser:      make(map[string]int),
	}
	now := m.now()
	var totalMinutes float64
	for _, sess := range sessions {
		metrics.SessionsByUser[sess.UserID]++
		totalMinutes += now.Sub(sess.CreatedAt).Minutes()
	}
	metrics.UniqueUsers = len(metrics.SessionsByUser)
	if len(sessions) > 0 {
		avg := totalMinutes / float64(len(sessions))
		metrics.AvgSessionDuration = math.Round(avg*100) / 100
	}
	return metrics, nil
}

func (m *Manager) audit(ctx context.Context, operation, key string) {
	if m.recorder != nil {
		m.recorder.Record(ctx, operation, key, "", monitor.PartitionSession)
	}
}

// parseRecord decodes a session hash. created_at must parse; everything else
// degrades to the zero value.
func parseRecord(id string, data map[string]string) (*Session, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, data[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	sess := &Session{
		ID:        id,
		UserID:    data[fieldUserID],
		CreatedAt: createdAt,
	}
	if last, err := time.Parse(time.RFC3339Nano, data[fieldLastActivity]); err == nil {
		sess.LastActivity = last
	}
	if raw := data[fieldUserData]; raw != "" && json.Valid([]byte(raw)) {
		sess.UserData = json.RawMessage(raw)
	}
	return sess, nil
}

// applyTTL derives status and remaining lifetime from a key TTL.
func applyTTL(sess *Session, ttl time.Duration) {
	if ttl > 0 {
		sess.Status = StatusActive
		sess.TTLSeconds = int64(ttl.Seconds())
		return
	}
	sess.Status = StatusExpired
	sess.TTLSeconds = 0
}
