package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"dally/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	rdb      *redis.Client
	cacheCtx = context.Background()
)

const userCacheTTL = 10 * time.Minute

// cachedUser is the cache wire form of a user. models.User hides
// HashedPassword from JSON, so marshalling the model directly would drop
// the hash and break current-password checks on cache hits.
type cachedUser struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	HashedPassword []byte    `json:"hashed_password"`
}

func encodeUserForCache(u models.User) ([]byte, error) {
	return json.Marshal(cachedUser{
		ID:             u.ID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		HashedPassword: u.HashedPassword,
	})
}

func decodeCachedUser(data []byte) (models.User, error) {
	var cu cachedUser
	if err := json.Unmarshal(data, &cu); err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:             cu.ID,
		CreatedAt:      cu.CreatedAt,
		UpdatedAt:      cu.UpdatedAt,
		Email:          cu.Email,
		FirstName:      cu.FirstName,
		LastName:       cu.LastName,
		HashedPassword: cu.HashedPassword,
	}, nil
}

// initRedis connects the optional user-lookup cache. The service runs fine
// without it; every rdb use is nil-guarded.
func initRedis() {
	if cfg.RedisAddr == "" {
		return
	}
	rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(cacheCtx).Err(); err != nil {
		slog.Warn("redis unreachable, user cache disabled", "addr", cfg.RedisAddr, "error", err)
		rdb = nil
	}
}

// lookupUser resolves a user id to its record, via the cache when available.
func lookupUser(id uuid.UUID) (models.User, bool) {
	key := fmt.Sprintf("user:%s:data", id)
	if rdb != nil {
		if data, err := rdb.Get(cacheCtx, key).Result(); err == nil {
			if user, err := decodeCachedUser([]byte(data)); err == nil {
				return user, true
			}
			slog.Warn("failed to unmarshal cached user", "user_id", id)
		} else if err != redis.Nil {
			slog.Error("redis GET failed", "error", err, "user_id", id)
		}
	}
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return models.User{}, false
	}
	if rdb != nil {
		if data, err := encodeUserForCache(user); err == nil {
			if err := rdb.Set(cacheCtx, key, data, userCacheTTL).Err(); err != nil {
				slog.Error("redis SET failed", "error", err, "user_id", id)
			}
		}
	}
	return user, true
}

// invalidateUserCache drops the cached record after a credential change.
func invalidateUserCache(id uuid.UUID) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(cacheCtx, fmt.Sprintf("user:%s:data", id)).Err(); err != nil {
		slog.Error("redis DEL failed", "error", err, "user_id", id)
	}
}
