// Package dedup claims receipt fingerprints in Redis while a submission is
// being stored. The claim is taken after extraction and evaluation, once the
// fingerprint is known, so two concurrent uploads of the same receipt do not
// both reach the database transaction. That transaction remains the
// authority on duplicates.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 2 * time.Minute

	keyPrefix     = "receipt-rewards:claim:"
	claimAttempts = 2
)

// Claimer holds short-lived fingerprint claims. A nil client disables it:
// every claim succeeds.
type Claimer struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewClaimer(rdb *redis.Client, ttl time.Duration) *Claimer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Claimer{
		rdb: rdb,
		ttl: ttl,
	}
}

// Enabled reports whether claims are backed by Redis.
func (c *Claimer) Enabled() bool {
	return c.rdb != nil
}

// Claim marks the fingerprint as being processed by owner. When another
// submission already holds the claim it returns false and that holder. An
// empty holder with no error means the claim kept changing hands and the
// caller should proceed without one.
func (c *Claimer) Claim(ctx context.Context, fingerprint, owner string) (bool, string, error) {
	if c.rdb == nil {
		return true, owner, nil
	}

	k := key(fingerprint)
	for attempt := 0; attempt < claimAttempts; attempt++ {
		set, err := c.rdb.SetNX(ctx, k, owner, c.ttl).Result()
		if err != nil {
			return false, "", fmt.Errorf("dedup SETNX: %w", err)
		}
		if set {
			return true, owner, nil
		}

		holder, err := c.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// Released between SETNX and GET.
			continue
		}
		if err != nil {
			return false, "", fmt.Errorf("dedup GET: %w", err)
		}
		return false, holder, nil
	}
	return false, "", nil
}

// Release drops the claim once the submission has finished.
func (c *Claimer) Release(ctx context.Context, fingerprint string) error {
	if c.rdb == nil {
		return nil
	}

	if err := c.rdb.Del(ctx, key(fingerprint)).Err(); err != nil {
		return fmt.Errorf("dedup DEL: %w", err)
	}
	return nil
}

func key(fingerprint string) string {
	return keyPrefix + fingerprint
}
