package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/hilltop/user-service/internal/auth"
	"github.com/hilltop/user-service/internal/config"
	"github.com/hilltop/user-service/internal/domain"
	"github.com/hilltop/user-service/internal/events"
	"github.com/hilltop/user-service/internal/repository"
	"github.com/hilltop/user-service/pkg/util"
)

// Exactly 10 ASCII digits, no separators.
var mobileNoPattern = regexp.MustCompile(`^[0-9]{10}$`)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	MobileNo string
	Password string
	UserType domain.UserType
}

// LoginInput carries the credential triple checked during authentication.
type LoginInput struct {
	MobileNo string
	Password string
	UserType domain.UserType
}

// UserService coordinates registration, login and token validation flows.
// It holds no mutable state across requests; concurrent calls are safe.
type UserService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account. Gates run in order: required fields,
// mobile number format, uniqueness pre-check, then persist. The first
// violated gate wins and no later gate runs.
func (s *UserService) Register(ctx context.Context, in RegisterInput) error {
	if in.Name == "" || in.MobileNo == "" || in.Password == "" || in.UserType == "" {
		return util.NewMissingFields()
	}
	if !mobileNoPattern.MatchString(in.MobileNo) {
		return util.NewInvalidMobileNo()
	}

	_, err := s.users.GetByMobileNo(ctx, in.MobileNo)
	switch {
	case err == nil:
		return util.NewDuplicateUser()
	case !errors.Is(err, repository.ErrNotFound):
		return util.NewInternalError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return util.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		MobileNo:     in.MobileNo,
		PasswordHash: hash,
		UserType:     in.UserType,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraint backs up the pre-check above; two racing
		// registrations resolve here.
		if errors.Is(err, repository.ErrDuplicateMobileNo) {
			return util.NewDuplicateUser()
		}
		return util.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		UserID:    user.ID,
		Timestamp: time.Now().UTC(),
		Payload:   events.UserRegisteredPayload{MobileNo: user.MobileNo, UserType: user.UserType},
	})
	return nil
}

// Login authenticates a credential triple and mints an access token with the
// mobile number as subject. Lookup miss, password mismatch and user-type
// mismatch are indistinguishable to the caller; only store faults surface as
// internal errors.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*domain.User, string, time.Time, error) {
	if in.MobileNo == "" || in.Password == "" || in.UserType == "" {
		return nil, "", time.Time{}, util.NewMissingFields()
	}

	user, err := s.users.GetByMobileNo(ctx, in.MobileNo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, util.NewInvalidLogin()
		}
		return nil, "", time.Time{}, util.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, in.Password); err != nil {
		return nil, "", time.Time{}, util.NewInvalidLogin()
	}
	if user.UserType != in.UserType {
		return nil, "", time.Time{}, util.NewInvalidLogin()
	}

	token, expiresAt, err := s.tokenMgr.Issue(user.MobileNo)
	if err != nil {
		return nil, "", time.Time{}, util.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserLoggedIn,
		UserID:    user.ID,
		Timestamp: time.Now().UTC(),
		Payload: events.UserLoggedInPayload{
			MobileNo:       user.MobileNo,
			UserType:       user.UserType,
			TokenExpiresAt: expiresAt,
		},
	})
	return user, token, expiresAt, nil
}

// VerifyToken checks an access token for authenticity and freshness. Any
// decode or verification failure is a caller error, never an internal fault.
func (s *UserService) VerifyToken(tokenStr string) error {
	if err := s.tokenMgr.Validate(tokenStr); err != nil {
		return util.NewInvalidToken()
	}
	return nil
}

// TokenManager exposes the underlying token manager.
func (s *UserService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
