package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hilltop/user-service/internal/domain"
)

type memoryUserRepository struct {
	mu       sync.RWMutex
	byMobile map[string]domain.User
}

// NewMemoryUserRepository builds an in-memory user store for testing.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{byMobile: make(map[string]domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byMobile[user.MobileNo]; exists {
		return ErrDuplicateMobileNo
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byMobile[user.MobileNo] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.byMobile {
		if user.ID == id {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) GetByMobileNo(_ context.Context, mobileNo string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byMobile[mobileNo]
	if !ok {
		return nil, ErrNotFound
	}
	found := user
	return &found, nil
}
