package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	streamMaxLen = 100_000
	sinkTimeout  = 2 * time.Second
	sinkBuffer   = 1024
)

// StreamSink appends events to a redis stream so downstream consumers (investor
// dashboards, payout reconciliation) can follow the engine. One worker writes
// the stream, so entries keep the order in which Handle received them.
type StreamSink struct {
	rdb    *redis.Client
	stream string

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

// NewStreamSink starts the sink's worker. Subscribe Handle with Bus.SubscribeOrdered
// and call Close on shutdown.
func NewStreamSink(rdb *redis.Client, stream string) *StreamSink {
	s := &StreamSink{
		rdb:    rdb,
		stream: stream,
		queue:  make(chan Event, sinkBuffer),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Handle queues event for the worker. It blocks only while the buffer is full.
func (s *StreamSink) Handle(_ context.Context, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		log.WithField("eventType", event.Type()).Warn("Stream sink closed, event dropped")
		return
	}
	s.queue <- event
}

func (s *StreamSink) run() {
	defer close(s.done)
	for event := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		if err := appendEvent(ctx, s.rdb, s.stream, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"stream":    s.stream,
				"error":     err,
			}).Error("Failed to append event to stream")
		}
		cancel()
	}
}

// Close stops accepting events and waits until the queued ones are written or
// ctx ends.
func (s *StreamSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func appendEvent(ctx context.Context, rdb *redis.Client, stream string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{
			"type":    string(event.Type()),
			"payload": string(payload),
		},
	}).Err()
}
