package policies

import (
	"context"

	"asset-register/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DestroyUserSessions deletes every session recorded in user_sessions:<user_id>, then the set.
func DestroyUserSessions(ctx context.Context, rdb *redis.Client, userID string) {
	if rdb == nil || userID == "" {
		return
	}
	key := middleware.UserSessionsPrefix + userID
	sessionIDs, err := rdb.SMembers(ctx, key).Result()
	if err == nil && len(sessionIDs) > 0 {
		keys := make([]string, 0, len(sessionIDs))
		for _, sid := range sessionIDs {
			keys = append(keys, middleware.SessionRedisPrefix+sid)
		}
		rdb.Del(ctx, keys...)
	}
	rdb.Del(ctx, key)
}
