package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"impact-lending/pkg/id"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"

	replayKeyPrefix = "impact-lending:replay:"
)

// requestKey identifies one client attempt at one concrete resource. Path is the
// request path, not the route pattern, so /loans/0/repayments and
// /loans/1/repayments never share an entry.
type requestKey struct {
	Method    string
	Path      string
	Caller    string
	RequestID string
}

func (k requestKey) String() string {
	return replayKeyPrefix + strings.ToLower(k.Method) + ":" + k.Path + ":" + k.Caller + ":" + k.RequestID
}

type replayState string

const (
	statePending replayState = "pending"
	stateDone    replayState = "done"
)

type replayEntry struct {
	State       replayState `json:"state"`
	Fingerprint string      `json:"fingerprint"`
	Status      int         `json:"status,omitempty"`
	Body        []byte      `json:"body,omitempty"`
	RequestAtMS int64       `json:"request_at_ms"`
	StoredAt    time.Time   `json:"stored_at"`
}

// replayStore keeps request outcomes in Redis. A pending entry is a lock held for
// pendingTTL; a done entry is replayed for doneTTL.
type replayStore struct {
	rdb        *redis.Client
	pendingTTL time.Duration
	doneTTL    time.Duration
}

var errNoEntry = errors.New("no replay entry")

// reserve claims the key for a new attempt. It reports false when an entry
// already exists.
func (s *replayStore) reserve(ctx context.Context, key requestKey, fingerprint string, at time.Time) (bool, error) {
	payload, err := json.Marshal(replayEntry{
		State:       statePending,
		Fingerprint: fingerprint,
		RequestAtMS: at.UnixMilli(),
		StoredAt:    time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key.String(), payload, s.pendingTTL).Result()
}

func (s *replayStore) lookup(ctx context.Context, key requestKey) (replayEntry, error) {
	var e replayEntry
	raw, err := s.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, errNoEntry
	}
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, err
	}
	return e, nil
}

func (s *replayStore) commit(ctx context.Context, key requestKey, e replayEntry) error {
	e.State = stateDone
	e.StoredAt = time.Now().UTC()
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key.String(), payload, s.doneTTL).Err()
}

// release drops a pending entry so the same request id may be retried.
func (s *replayStore) release(ctx context.Context, key requestKey) error {
	return s.rdb.Del(ctx, key.String()).Err()
}

func fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

var reUUID = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)

// validRequestID accepts a lowercase UUID or a 32-char identity-shaped id.
func validRequestID(s string) bool {
	return reUUID.MatchString(s) || id.IsHex32(s)
}

// parseRequestAt reads Ax-Request-At as epoch seconds, epoch milliseconds, or
// RFC3339 with an explicit zone.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch seconds, epoch millis or RFC3339 with zone")
}
