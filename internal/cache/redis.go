package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// IsMiss reports whether err is a plain cache miss rather than a Redis failure.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// TranscriptKey derives a cache key from the decoded audio and the decode
// parameters, so the same file transcribed by a different backend or language
// does not collide.
func TranscriptKey(pcm []byte, backend, language string) string {
	h := sha256.New()
	h.Write(pcm)
	fmt.Fprintf(h, "|%s|%s", backend, language)
	return "transcript:" + hex.EncodeToString(h.Sum(nil))
}
