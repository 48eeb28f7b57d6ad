package oracle

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"impact-lending/internal/domain/impact"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "impact:"

// RedisOracle reads impact readings that the oracle feed writes as redis hashes
// under impact:<business> with fields metric and timestamp.
type RedisOracle struct {
	rdb *redis.Client
}

func NewRedisOracle(rdb *redis.Client) *RedisOracle { return &RedisOracle{rdb: rdb} }

func key(business string) string { return keyPrefix + business }

func (o *RedisOracle) GetImpact(ctx context.Context, business string) (*impact.Reading, error) {
	vals, err := o.rdb.HMGet(ctx, key(business), "metric", "timestamp").Result()
	if err != nil {
		return nil, err
	}
	if len(vals) != 2 || vals[0] == nil {
		return nil, impact.ErrImpactNotFound
	}

	metric, err := parseInt(vals[0])
	if err != nil {
		return nil, fmt.Errorf("impact %s: metric: %w", business, err)
	}
	var ts int64
	if vals[1] != nil {
		if ts, err = parseInt(vals[1]); err != nil {
			return nil, fmt.Errorf("impact %s: timestamp: %w", business, err)
		}
	}
	return &impact.Reading{Metric: metric, Timestamp: ts}, nil
}

// Record stores a reading, replacing the previous one.
func (o *RedisOracle) Record(ctx context.Context, business string, r impact.Reading) error {
	return o.rdb.HSet(ctx, key(business), "metric", r.Metric, "timestamp", r.Timestamp).Err()
}

func parseInt(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, errors.New("unexpected value type")
	}
	return strconv.ParseInt(s, 10, 64)
}
