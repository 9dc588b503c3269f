package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hilltop/user-service/internal/domain"
)

const userCacheKeyPrefix = "user:mobile:"

// cachedUser is the Redis representation of a user record.
type cachedUser struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	MobileNo     string          `json:"mobile_no"`
	PasswordHash string          `json:"password_hash"`
	UserType     domain.UserType `json:"user_type"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type cachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps a repository with a read-through Redis cache
// for mobile-number lookups. Cache faults degrade to the inner repository and
// never surface to callers.
func NewCachedUserRepository(inner UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &cachedUserRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.inner.Create(ctx, user); err != nil {
		return err
	}
	// Drop any stale entry for this mobile number.
	if err := r.client.Del(ctx, userCacheKeyPrefix+user.MobileNo).Err(); err != nil {
		r.logger.Debug("user cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *cachedUserRepository) GetByMobileNo(ctx context.Context, mobileNo string) (*domain.User, error) {
	key := userCacheKeyPrefix + mobileNo

	payload, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached cachedUser
		if unmarshalErr := json.Unmarshal(payload, &cached); unmarshalErr == nil {
			return &domain.User{
				ID:           cached.ID,
				Name:         cached.Name,
				MobileNo:     cached.MobileNo,
				PasswordHash: cached.PasswordHash,
				UserType:     cached.UserType,
				CreatedAt:    cached.CreatedAt,
				UpdatedAt:    cached.UpdatedAt,
			}, nil
		}
		r.logger.Debug("user cache entry corrupt; falling through", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Debug("user cache read failed", zap.Error(err))
	}

	user, err := r.inner.GetByMobileNo(ctx, mobileNo)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, user)
	return user, nil
}

func (r *cachedUserRepository) store(ctx context.Context, key string, user *domain.User) {
	payload, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Name:         user.Name,
		MobileNo:     user.MobileNo,
		PasswordHash: user.PasswordHash,
		UserType:     user.UserType,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Debug("user cache write failed", zap.Error(err))
	}
}
