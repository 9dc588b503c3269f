package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hilltop/user-service/internal/config"
	"github.com/hilltop/user-service/internal/domain"
	"github.com/hilltop/user-service/internal/events"
	"github.com/hilltop/user-service/internal/repository"
	"github.com/hilltop/user-service/pkg/util"
)

// countingRepo tracks store access so tests can assert fail-fast gates never
// reach the repository.
type countingRepo struct {
	inner repository.UserRepository
	gets  int
	crts  int
}

func (r *countingRepo) Create(ctx context.Context, user *domain.User) error {
	r.crts++
	return r.inner.Create(ctx, user)
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *countingRepo) GetByMobileNo(ctx context.Context, mobileNo string) (*domain.User, error) {
	r.gets++
	return r.inner.GetByMobileNo(ctx, mobileNo)
}

func (r *countingRepo) calls() int {
	return r.gets + r.crts
}

// faultyRepo simulates an unreachable store.
type faultyRepo struct {
	err error
}

func (r *faultyRepo) Create(context.Context, *domain.User) error {
	return r.err
}

func (r *faultyRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, r.err
}

func (r *faultyRepo) GetByMobileNo(context.Context, string) (*domain.User, error) {
	return nil, r.err
}

// raceRepo misses on lookup but reports a unique violation on insert, the
// window two concurrent registrations can hit.
type raceRepo struct{}

func (r *raceRepo) Create(context.Context, *domain.User) error {
	return repository.ErrDuplicateMobileNo
}

func (r *raceRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (r *raceRepo) GetByMobileNo(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func newTestService(repo repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
	}
	return NewUserService(cfg, repo, dispatcher)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:     "User",
		MobileNo: "0779090909",
		Password: "secret",
		UserType: domain.UserTypeUser,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	if err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, err := repo.GetByMobileNo(ctx, "0779090909")
	if err != nil {
		t.Fatalf("expected stored user: %v", err)
	}
	if stored.PasswordHash == "secret" {
		t.Fatal("password must be stored hashed")
	}
	if stored.ID == "" {
		t.Fatal("expected assigned user id")
	}

	user, token, expiresAt, err := svc.Login(ctx, LoginInput{
		MobileNo: "0779090909",
		Password: "secret",
		UserType: domain.UserTypeUser,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.IsZero() {
		t.Fatal("expected expiry timestamp")
	}
	if user.ID != stored.ID {
		t.Fatalf("expected user %s, got %s", stored.ID, user.ID)
	}

	if err := svc.VerifyToken(token); err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	if err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	err := svc.Register(ctx, validRegisterInput())
	if !util.IsCode(err, util.CodeMobileNoExist) {
		t.Fatalf("expected %s, got %v", util.CodeMobileNoExist, err)
	}
}

func TestRegisterDuplicateInsertRace(t *testing.T) {
	svc := newTestService(&raceRepo{}, nil)

	err := svc.Register(context.Background(), validRegisterInput())
	if !util.IsCode(err, util.CodeMobileNoExist) {
		t.Fatalf("expected %s for unique violation on insert, got %v", util.CodeMobileNoExist, err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	cases := map[string]RegisterInput{
		"name":     {MobileNo: "0779090909", Password: "secret", UserType: domain.UserTypeUser},
		"mobileNo": {Name: "User", Password: "secret", UserType: domain.UserTypeUser},
		"password": {Name: "User", MobileNo: "0779090909", UserType: domain.UserTypeUser},
		"userType": {Name: "User", MobileNo: "0779090909", Password: "secret"},
	}

	for field, in := range cases {
		repo := &countingRepo{inner: repository.NewMemoryUserRepository()}
		svc := newTestService(repo, nil)

		err := svc.Register(context.Background(), in)
		if !util.IsCode(err, util.CodeMissingFields) {
			t.Fatalf("missing %s: expected %s, got %v", field, util.CodeMissingFields, err)
		}
		if repo.calls() != 0 {
			t.Fatalf("missing %s: expected zero store calls, got %d", field, repo.calls())
		}
	}
}

func TestRegisterInvalidMobileNo(t *testing.T) {
	for _, mobileNo := range []string{
		"077909090",    // 9 digits
		"07790909091",  // 11 digits
		"07790a0909",   // non-digit
		"077 909 090",  // separators
		"+94779090909", // prefixed
	} {
		repo := &countingRepo{inner: repository.NewMemoryUserRepository()}
		svc := newTestService(repo, nil)

		in := validRegisterInput()
		in.MobileNo = mobileNo
		err := svc.Register(context.Background(), in)
		if !util.IsCode(err, util.CodeInvalidMobileNo) {
			t.Fatalf("%q: expected %s, got %v", mobileNo, util.CodeInvalidMobileNo, err)
		}
		if repo.calls() != 0 {
			t.Fatalf("%q: expected zero store calls, got %d", mobileNo, repo.calls())
		}
	}
}

func TestRegisterStoreFault(t *testing.T) {
	svc := newTestService(&faultyRepo{err: errors.New("connection refused")}, nil)

	err := svc.Register(context.Background(), validRegisterInput())
	if !util.IsCode(err, util.CodeInternal) {
		t.Fatalf("expected %s, got %v", util.CodeInternal, err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	if err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := map[string]LoginInput{
		"unknown mobile":    {MobileNo: "0111111111", Password: "secret", UserType: domain.UserTypeUser},
		"wrong password":    {MobileNo: "0779090909", Password: "wrong", UserType: domain.UserTypeUser},
		"userType mismatch": {MobileNo: "0779090909", Password: "secret", UserType: domain.UserTypeAdmin},
	}

	for name, in := range cases {
		_, _, _, err := svc.Login(ctx, in)
		if !util.IsCode(err, util.CodeInvalidLogin) {
			t.Fatalf("%s: expected %s, got %v", name, util.CodeInvalidLogin, err)
		}
		if msg := err.Error(); strings.Contains(msg, "secret") || strings.Contains(msg, "wrong") {
			t.Fatalf("%s: error leaks credential material: %q", name, msg)
		}
	}
}

func TestLoginMissingFields(t *testing.T) {
	svc := newTestService(repository.NewMemoryUserRepository(), nil)

	_, _, _, err := svc.Login(context.Background(), LoginInput{MobileNo: "0779090909"})
	if !util.IsCode(err, util.CodeMissingFields) {
		t.Fatalf("expected %s, got %v", util.CodeMissingFields, err)
	}
}

func TestLoginStoreFault(t *testing.T) {
	svc := newTestService(&faultyRepo{err: errors.New("connection refused")}, nil)

	_, _, _, err := svc.Login(context.Background(), LoginInput{
		MobileNo: "0779090909",
		Password: "secret",
		UserType: domain.UserTypeUser,
	})
	if !util.IsCode(err, util.CodeInternal) {
		t.Fatalf("expected %s for store fault, got %v", util.CodeInternal, err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(repository.NewMemoryUserRepository(), nil)

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		err := svc.VerifyToken(tokenStr)
		if !util.IsCode(err, util.CodeInvalidToken) {
			t.Fatalf("%q: expected %s, got %v", tokenStr, util.CodeInvalidToken, err)
		}
	}
}

func TestFlowsPublishEvents(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	dispatcher := &recordingDispatcher{}
	svc := newTestService(repo, dispatcher)
	ctx := context.Background()

	if err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, _, err := svc.Login(ctx, LoginInput{
		MobileNo: "0779090909",
		Password: "secret",
		UserType: domain.UserTypeUser,
	}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if len(dispatcher.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(dispatcher.published))
	}
	if dispatcher.published[0].Type != events.EventUserRegistered {
		t.Fatalf("expected %s first, got %s", events.EventUserRegistered, dispatcher.published[0].Type)
	}
	if dispatcher.published[1].Type != events.EventUserLoggedIn {
		t.Fatalf("expected %s second, got %s", events.EventUserLoggedIn, dispatcher.published[1].Type)
	}
}
