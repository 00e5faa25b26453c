package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
)

// counterTTL keeps a day's counter around long enough to outlive the
// day in any timezone.
const counterTTL = 48 * time.Hour

type Counter struct {
	rdb redis.Cmdable
}

func NewCounter(rdb redis.Cmdable) *Counter {
	return &Counter{rdb: rdb}
}

func CounterKey(dateKey string, locationID uint, t queue.TicketType) string {
	return fmt.Sprintf("queue:seq:%s:%d:%s", dateKey, locationID, t)
}

// Next relies on INCR being atomic on the server.
func (c *Counter) Next(ctx context.Context, dateKey string, locationID uint, t queue.TicketType) (int64, error) {
	key := CounterKey(dateKey, locationID, t)

	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	return incr.Val(), nil
}

var _ queue.Counter = (*Counter)(nil)
