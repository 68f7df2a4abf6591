package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eunoia/internal/model"

	"github.com/redis/go-redis/v9"
)

// HistoryLimit is how many recent assessments are kept per user
const HistoryLimit = 20

var errStaleFill = errors.New("history changed while loading")

// HistoryCache keeps each user's most recent assessments, newest first.
//
// Writers bump a per-user version and drop the list. Readers take the
// version before loading from the store and pass it to Fill, which writes
// nothing if a newer assessment was stored in between.
type HistoryCache interface {
	// Get returns the cached history, or nil on a miss
	Get(ctx context.Context, userID string) ([]model.RiskAssessment, error)
	// Version returns the user's current history version
	Version(ctx context.Context, userID string) (int64, error)
	// Fill caches a list loaded from the store at the given version
	Fill(ctx context.Context, userID string, version int64, assessments []model.RiskAssessment) error
	// Invalidate drops the cached list after a new assessment is stored
	Invalidate(ctx context.Context, userID string) error
}

type historyCache struct {
	client     *redis.Client
	ttl        time.Duration
	versionTTL time.Duration
}

// NewHistoryCache creates a Redis-backed history cache
func NewHistoryCache(client *redis.Client) HistoryCache {
	return &historyCache{
		client:     client,
		ttl:        time.Hour,
		versionTTL: 24 * time.Hour,
	}
}

func (c *historyCache) key(userID string) string {
	return fmt.Sprintf("user:%s:assessments", userID)
}

func (c *historyCache) versionKey(userID string) string {
	return fmt.Sprintf("user:%s:assessments:version", userID)
}

func (c *historyCache) Get(ctx context.Context, userID string) ([]model.RiskAssessment, error) {
	items, err := c.client.LRange(ctx, c.key(userID), 0, HistoryLimit-1).Result()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	assessments := make([]model.RiskAssessment, 0, len(items))
	for _, item := range items {
		var a model.RiskAssessment
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, nil
}

func (c *historyCache) Version(ctx context.Context, userID string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *historyCache) Fill(ctx context.Context, userID string, version int64, assessments []model.RiskAssessment) error {
	if len(assessments) == 0 {
		return nil
	}
	if len(assessments) > HistoryLimit {
		assessments = assessments[:HistoryLimit]
	}

	values := make([]interface{}, 0, len(assessments))
	for i := range assessments {
		data, err := json.Marshal(&assessments[i])
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	key, vkey := c.key(userID), c.versionKey(userID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.RPush(ctx, key, values...)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, vkey)

	// A write raced this fill; the next read loads the fresh list
	if errors.Is(err, errStaleFill) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *historyCache) Invalidate(ctx context.Context, userID string) error {
	vkey := c.versionKey(userID)
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, vkey)
	pipe.Expire(ctx, vkey, c.versionTTL)
	pipe.Del(ctx, c.key(userID))
	_, err := pipe.Exec(ctx)
	return err
}

// NoopHistoryCache is used when Redis is not configured
type NoopHistoryCache struct{}

func (NoopHistoryCache) Get(context.Context, string) ([]model.RiskAssessment, error) {
	return nil, nil
}

func (NoopHistoryCache) Version(context.Context, string) (int64, error) {
	return 0, nil
}

func (NoopHistoryCache) Fill(context.Context, string, int64, []model.RiskAssessment) error {
	return nil
}

func (NoopHistoryCache) Invalidate(context.Context, string) error {
	return nil
}
