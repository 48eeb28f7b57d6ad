package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"impact-lending/pkg/id"
)

const (
	// pendingTTL bounds how long a crashed attempt keeps its request id locked.
	pendingTTL = 60 * time.Second
	// maxClockSkew is the accepted distance between Ax-Request-At and server time.
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// captureWriter tees the response so it can be stored for replay.
type captureWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware makes state-changing requests safe to retry. Each attempt
// carries Ax-Request-Id and Ax-Request-At; the first response for a
// (method, path, caller, request id) is stored for ttl and replayed to every
// repeat with the same body. A repeat with a different body, or one that arrives
// while the first is still running, gets 409. Server errors (5xx) are not stored,
// so the client may retry them under the same id.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	store := &replayStore{rdb: rdb, pendingTTL: pendingTTL, doneTTL: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			key, at, msg := requestKeyOf(c)
			if msg != "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
			}

			var body []byte
			if req.Body != nil {
				var err error
				if body, err = io.ReadAll(req.Body); err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			fp := fingerprint(body)

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			fresh, err := store.reserve(ctx, key, fp, at)
			if err != nil {
				log.WithFields(log.Fields{"path": key.Path, "error": err}).Warn("Replay store unavailable")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !fresh {
				return replay(ctx, c, store, key, fp)
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}
			finish(req.Context(), store, key, replayEntry{
				Fingerprint: fp,
				Status:      w.status,
				Body:        w.body.Bytes(),
				RequestAtMS: at.UnixMilli(),
			})
			return nil
		}
	}
}

// requestKeyOf validates the replay headers. A non-empty message means the
// request is rejected with 400.
func requestKeyOf(c echo.Context) (requestKey, time.Time, string) {
	h := c.Request().Header
	reqID := strings.TrimSpace(h.Get(HeaderRequestID))
	if reqID == "" {
		return requestKey{}, time.Time{}, "missing " + HeaderRequestID
	}
	if !validRequestID(reqID) {
		return requestKey{}, time.Time{}, "invalid " + HeaderRequestID
	}

	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return requestKey{}, time.Time{}, err.Error()
	}
	now := time.Now().UTC()
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return requestKey{}, time.Time{}, HeaderRequestAt + " too far from server time"
	}

	// CallerIdentity normally runs first; fall back to the header when it did not.
	caller := CallerFrom(c)
	if caller == "" {
		caller = strings.TrimSpace(h.Get(HeaderCallerID))
		if caller == "" {
			return requestKey{}, time.Time{}, "missing " + HeaderCallerID
		}
		if !id.IsHex32(caller) {
			return requestKey{}, time.Time{}, "invalid " + HeaderCallerID
		}
	}

	return requestKey{
		Method:    c.Request().Method,
		Path:      c.Request().URL.Path,
		Caller:    caller,
		RequestID: reqID,
	}, at, ""
}

func replay(ctx context.Context, c echo.Context, store *replayStore, key requestKey, fp string) error {
	cur, err := store.lookup(ctx, key)
	if err != nil {
		if !errors.Is(err, errNoEntry) {
			log.WithFields(log.Fields{"path": key.Path, "error": err}).Warn("Failed to read replay entry")
		}
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}
	if cur.Fingerprint != fp {
		return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with a different body"})
	}
	if cur.State != stateDone {
		return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
	}
	c.Response().Header().Set("Ax-Replayed", "true")
	if len(cur.Body) == 0 {
		return c.NoContent(cur.Status)
	}
	return c.Blob(cur.Status, echo.MIMEApplicationJSON, cur.Body)
}

// finish stores a completed outcome, or frees the id after a server error. It
// outlives a client disconnect so the lock never dangles until pendingTTL.
func finish(parent context.Context, store *replayStore, key requestKey, e replayEntry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), storeTimeout)
	defer cancel()

	if e.Status >= http.StatusInternalServerError {
		if err := store.release(ctx, key); err != nil {
			log.WithFields(log.Fields{"path": key.Path, "error": err}).Warn("Failed to release request id")
		}
		return
	}
	if err := store.commit(ctx, key, e); err != nil {
		log.WithFields(log.Fields{"path": key.Path, "error": err}).Warn("Failed to store response for replay")
	}
}
