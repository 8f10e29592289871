package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	logger "github.com/Gopher0727/Messenger/middleware/log"
)

// CachedResolver is a read-through profile cache in front of another
// resolver. Cache failures are logged and degrade to a direct resolution;
// they never fail the caller.
type CachedResolver struct {
	next Resolver
	rdb  *redis.Client
	ttl  time.Duration
	log  *logger.Logger
}

func NewCachedResolver(next Resolver, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachedResolver {
	return &CachedResolver{next: next, rdb: rdb, ttl: ttl, log: log}
}

func profileKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

func (r *CachedResolver) ResolveUser(ctx context.Context, userID uint) (*Profile, error) {
	key := profileKey(userID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err == nil {
		var profile Profile
		if err := json.Unmarshal([]byte(raw), &profile); err == nil {
			return &profile, nil
		}
		// Corrupt entry, drop it and fall through to the source
		r.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		r.log.WarnContext(ctx, "profile cache read failed",
			zap.Uint("user_id", userID), zap.Error(err))
	}

	profile, err := r.next.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(profile); err == nil {
		if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.log.WarnContext(ctx, "profile cache write failed",
				zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return profile, nil
}

// Invalidate drops the cached profile of a user.
func (r *CachedResolver) Invalidate(ctx context.Context, userID uint) error {
	return r.rdb.Del(ctx, profileKey(userID)).Err()
}
