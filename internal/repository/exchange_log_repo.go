package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

// ErrKeyExists means a record already sits under the generated key.
var ErrKeyExists = errors.New("exchange log key already exists")

// keyClock hands out strictly increasing unix-millisecond values.
type keyClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (c *keyClock) next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}

var processClock = &keyClock{now: time.Now}

func exchangeKey(rec *models.ExchangeLogRecord, ms int64) string {
	stamp := strconv.FormatInt(ms, 10)
	switch rec.Category {
	case models.CategoryDiagnosis:
		return "diagnosis_" + rec.Crop + "_" + stamp
	default:
		return "chat_log_" + stamp
	}
}

// ExchangeLogRepo writes each successful exchange once. Records are never
// updated or expired.
type ExchangeLogRepo struct {
	redis *redis.Client
	clock *keyClock
}

func NewExchangeLogRepo(client *redis.Client) *ExchangeLogRepo {
	return &ExchangeLogRepo{redis: client, clock: processClock}
}

func (r *ExchangeLogRepo) Append(ctx context.Context, rec *models.ExchangeLogRecord) error {
	rec.Key = exchangeKey(rec, r.clock.next())

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode exchange log record: %w", err)
	}

	ok, err := r.redis.SetNX(ctx, rec.Key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to write exchange log record %s: %w", rec.Key, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyExists, rec.Key)
	}
	return nil
}

// NopExchangeLog assigns keys but stores nothing. Used when no Redis is configured.
type NopExchangeLog struct {
	clock *keyClock
}

func NewNopExchangeLog() *NopExchangeLog {
	return &NopExchangeLog{clock: processClock}
}

func (l *NopExchangeLog) Append(_ context.Context, rec *models.ExchangeLogRecord) error {
	rec.Key = exchangeKey(rec, l.clock.next())
	return nil
}
