package data

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/TomasB/geoloc/internal/apperr"
	"github.com/redis/go-redis/v9"
)

// RangeKeyRedis is the sorted set holding the ranges. Scores are range ends,
// members are "start|end|country_code|city".
const RangeKeyRedis = "geoloc:ranges"

// RedisStore implements RangeStore over a Redis sorted set.
type RedisStore struct {
	client *redis.Client
}

// OpenRedisStore connects to the Redis server at url and pings it.
func OpenRedisStore(ctx context.Context, url string) (RangeStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// RangeMember encodes a sorted set member for a range.
func RangeMember(start, end uint32, country, city string) string {
	return fmt.Sprintf("%d|%d|%s|%s", start, end, country, city)
}

// QueryRange fetches the range with the smallest end not below addr and
// checks that it starts at or before addr.
func (s *RedisStore) QueryRange(ctx context.Context, addr uint32) (string, string, error) {
	members, err := s.client.ZRangeByScore(ctx, RangeKeyRedis, &redis.ZRangeBy{
		Min:   strconv.FormatUint(uint64(addr), 10),
		Max:   "+inf",
		Count: 1,
	}).Result()
	if err != nil {
		return "", "", fmt.Errorf("range query failed: %w", err)
	}
	if len(members) == 0 {
		return "", "", apperr.ErrLookup
	}

	parts := strings.SplitN(members[0], "|", 4)
	if len(parts) != 4 {
		return "", "", apperr.Wrap(apperr.KindParse, fmt.Errorf("malformed member %q", members[0]))
	}
	start, err := parseBound(parts[0])
	if err != nil {
		return "", "", err
	}
	if addr < start {
		return "", "", apperr.ErrLookup
	}
	return parts[2], parts[3], nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
