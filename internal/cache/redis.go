package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/slotbooking/config"
	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseClaimScript deletes a claim only while it still carries the token of
// the request releasing it. A claim whose TTL expired may already belong to
// another request.
var releaseClaimScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client   *redis.Client
	slotsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, slotsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		slotsTTL: slotsTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetSlots returns nil, nil on a cache miss.
func (c *RedisCache) GetSlots(ctx context.Context) ([]domain.Slot, error) {
	data, err := c.client.Get(ctx, slotsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var slots []domain.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *RedisCache) SetSlots(ctx context.Context, slots []domain.Slot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, slotsKey(), payload, c.slotsTTL).Err()
}

func (c *RedisCache) InvalidateSlots(ctx context.Context) error {
	return c.client.Del(ctx, slotsKey()).Err()
}

// AcquirePaymentClaim marks paymentID as being verified and returns the token
// that releases the claim. It returns false when another request holds it.
func (c *RedisCache) AcquirePaymentClaim(ctx context.Context, paymentID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, paymentClaimKey(paymentID), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (c *RedisCache) ReleasePaymentClaim(ctx context.Context, paymentID, token string) error {
	return releaseClaimScript.Run(ctx, c.client, []string{paymentClaimKey(paymentID)}, token).Err()
}

func slotsKey() string {
	return "cache:slots"
}

func paymentClaimKey(paymentID string) string {
	return "lock:payment:" + paymentID
}
