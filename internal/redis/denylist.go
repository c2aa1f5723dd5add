package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist holds revoked JWTs until their natural expiry. Tokens are keyed by
// hash so the plaintext token never lands in Redis.
type Denylist struct {
	rdb *redis.Client
}

func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

func denyKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("denylist:%s", hex.EncodeToString(sum[:]))
}

// Revoke marks the token as unusable for the given TTL.
func (d *Denylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denyKey(token), 1, ttl).Err()
}

// IsRevoked reports whether the token has been revoked. When Redis is
// unreachable the token is allowed through: a dead denylist must not take
// authentication down with it.
func (d *Denylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denyKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
