package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/openclaw/availability"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BusyCache keeps recently fetched busy sets in Redis so bursts of
// slot queries do not hammer the upstream calendars.
type BusyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type ParamsNewBusyCache struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Logger   *zap.Logger
}

func NewBusyCache(params *ParamsNewBusyCache) (*BusyCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     params.Addr,
		Password: params.Password,
		DB:       params.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, errPing := client.Ping(ctx).Result(); errPing != nil {
		return nil,
			errors.Wrap(errPing, "connect to redis")
	}

	ttl := params.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BusyCache{
			client: client,
			ttl:    ttl,
			logger: logger,
		},
		nil
}

func cacheKey(calendarIDs []string, w availability.Window) string {
	return fmt.Sprintf(
		"busy:%s:%d:%d",
		strings.Join(calendarIDs, ","),
		w.TimeMin.Unix(),
		w.TimeMax.Unix(),
	)
}

// Get reports the cached busy set and whether the lookup hit. Cache
// failures count as misses.
func (c *BusyCache) Get(ctx context.Context, calendarIDs []string, w availability.Window) ([]availability.TimeInterval, bool) {
	payload, errGet := c.client.Get(ctx, cacheKey(calendarIDs, w)).Result()
	if errGet != nil {
		if errGet != redis.Nil {
			c.logger.Warn("busy cache get", zap.Error(errGet))
		}

		return nil, false
	}

	var intervals []availability.TimeInterval

	if errUnmarshal := json.Unmarshal([]byte(payload), &intervals); errUnmarshal != nil {
		c.logger.Warn("busy cache decode", zap.Error(errUnmarshal))

		return nil, false
	}

	return intervals, true
}

func (c *BusyCache) Set(ctx context.Context, calendarIDs []string, w availability.Window, intervals []availability.TimeInterval) {
	payload, errMarshal := json.Marshal(intervals)
	if errMarshal != nil {
		c.logger.Warn("busy cache encode", zap.Error(errMarshal))

		return
	}

	if errSet := c.client.Set(ctx, cacheKey(calendarIDs, w), payload, c.ttl).Err(); errSet != nil {
		c.logger.Warn("busy cache set", zap.Error(errSet))
	}
}

func (c *BusyCache) Close() error {
	return c.client.Close()
}
