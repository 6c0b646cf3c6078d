package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPoolSize    = 20
	defaultRedisMaxRetries  = 3
	defaultRedisDialTimeout = 5 * time.Second

	// The shared {timelines} hash tag keeps a timeline and the index in one
	// cluster slot so Save can update both in a single transaction.
	redisTimelinePrefix = "retrace:{timelines}:"
	redisIndexKey       = "retrace:{timelines}"
)

// RedisStorage stores each timeline as a string value and keeps a set of
// names for listing.
type RedisStorage struct {
	client redis.UniversalClient

	closeOnce sync.Once
	closeErr  error
}

// NewRedisStorage connects and pings the server, retrying with backoff.
func NewRedisStorage(cfg *RedisConfig) (*RedisStorage, error) {
	conf, err := normalizeRedisConfig(cfg)
	if err != nil {
		return nil, err
	}

	client := newRedisClient(conf)
	s := &RedisStorage{client: client}

	if err := s.pingWithRetry(context.Background(), conf.MaxRetries); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return s, nil
}

func (s *RedisStorage) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisTimelinePrefix+name, data, 0)
		p.SAdd(ctx, redisIndexKey, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving %s to redis: %w", name, err)
	}
	return nil
}

func (s *RedisStorage) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisTimelinePrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, unavailable(name, nil)
	}
	if err != nil {
		return nil, unavailable(name, err)
	}
	return data, nil
}

func (s *RedisStorage) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing redis timelines: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close releases Redis resources. It is idempotent.
func (s *RedisStorage) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}

func (s *RedisStorage) pingWithRetry(ctx context.Context, maxRetries int) error {
	attempts := maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	backoff := 100 * time.Millisecond
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = s.client.Ping(ctx).Err(); lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}

func normalizeRedisConfig(cfg *RedisConfig) (*RedisConfig, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}

	conf := *cfg
	if conf.PoolSize <= 0 {
		conf.PoolSize = defaultRedisPoolSize
	}
	if conf.MaxRetries <= 0 {
		conf.MaxRetries = defaultRedisMaxRetries
	}
	if conf.DialTimeout <= 0 {
		conf.DialTimeout = defaultRedisDialTimeout
	}

	if conf.Cluster {
		if len(conf.ClusterNodes) == 0 {
			return nil, fmt.Errorf("cluster_nodes is required when cluster=true")
		}
	} else {
		if conf.Host == "" {
			return nil, fmt.Errorf("host is required when cluster=false")
		}
		if conf.Port <= 0 {
			return nil, fmt.Errorf("port must be positive when cluster=false, got %d", conf.Port)
		}
	}
	return &conf, nil
}

func newRedisClient(cfg *RedisConfig) redis.UniversalClient {
	if cfg.Cluster {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:       cfg.ClusterNodes,
			Password:    cfg.Password,
			PoolSize:    cfg.PoolSize,
			MaxRetries:  cfg.MaxRetries,
			DialTimeout: cfg.DialTimeout,
		})
	}

	return redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: cfg.DialTimeout,
	})
}
