package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayplan/todo-service/internal/auth"
	"github.com/dayplan/todo-service/internal/config"
	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/events"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// stubUserRepo is a map-backed stand-in for the Postgres user repository.
type stubUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) CreateWithRole(_ context.Context, user *domain.User, roleName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	user.Roles = []string{roleName}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:  "test-secret",
		BcryptCost: bcrypt.MinCost,
	}}
}

func newAuthFixture() (*AuthService, *stubUserRepo, events.Dispatcher) {
	repo := newStubUserRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:   repo,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return svc, repo, dispatcher
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName:       "Alice",
		LastName:        "Smith",
		Email:           "alice@example.com",
		PhoneNumber:     "+15550001111",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	svc, _, dispatcher := newAuthFixture()

	var published []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.Enabled)
	assert.Equal(t, []string{domain.RoleUser}, user.Roles)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash, "password must be stored hashed")

	require.Len(t, published, 1)
	assert.Equal(t, user.ID, published[0].SubjectID)
}

func TestRegisterDuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc, repo, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Email = "ALICE@Example.COM"
	dup.PhoneNumber = "+15550002222"
	_, err = svc.Register(context.Background(), dup)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmailExists))
	assert.Equal(t, 1, repo.count())
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, repo, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Email = "bob@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePhoneExists))
	assert.Equal(t, 1, repo.count())
}

func TestRegisterPasswordMismatchWritesNothing(t *testing.T) {
	svc, repo, _ := newAuthFixture()

	input := registerInput()
	input.ConfirmPassword = "different"
	_, err := svc.Register(context.Background(), input)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePasswordMismatch))
	assert.Equal(t, 0, repo.count())

	input = registerInput()
	input.Password = ""
	input.ConfirmPassword = ""
	_, err = svc.Register(context.Background(), input)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePasswordMismatch))
	assert.Equal(t, 0, repo.count())
}

func TestLoginIssuesBearerPair(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeBearer, pair.TokenType)

	subject, err := svc.TokenManager().Validate(pair.AccessToken, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	subject, err = svc.TokenManager().Validate(pair.RefreshToken, domain.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, wrongErr := svc.Login(context.Background(), "alice@example.com", "nope")
	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "nope")

	assert.True(t, apperrors.IsCode(wrongErr, apperrors.CodeInvalidCredentials))
	assert.True(t, apperrors.IsCode(unknownErr, apperrors.CodeInvalidCredentials))
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

// countingAttemptStore backs the login limiter with an in-memory counter.
type countingAttemptStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (s *countingAttemptStore) Incr(_ context.Context, key string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return redis.NewIntResult(s.counts[key], nil)
}

func (s *countingAttemptStore) Expire(_ context.Context, _ string, _ time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func (s *countingAttemptStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.counts, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// watchedUserRepo records credential lookups so tests can assert they
// never happened.
type watchedUserRepo struct {
	*stubUserRepo
	emailLookups int
}

func (r *watchedUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.emailLookups++
	return r.stubUserRepo.GetByEmail(ctx, email)
}

func TestLoginOverLimitRejectedBeforeCredentialCheck(t *testing.T) {
	repo := &watchedUserRepo{stubUserRepo: newStubUserRepo()}
	limiter := auth.NewLoginLimiter(
		&countingAttemptStore{counts: make(map[string]int64)},
		zap.NewNop(), 2, time.Minute,
	)
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo: repo,
		Limiter:  limiter,
		Logger:   zap.NewNop(),
	})
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "alice@example.com", "wrong-password")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))
	}
	lookupsBefore := repo.emailLookups

	_, err = svc.Login(ctx, "alice@example.com", "s3cret-pass")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeTooManyLoginAttempts))
	assert.Equal(t, lookupsBefore, repo.emailLookups,
		"an over-limit login must not reach the credential store")
}

func TestLoginSuccessResetsLimiter(t *testing.T) {
	store := &countingAttemptStore{counts: make(map[string]int64)}
	limiter := auth.NewLoginLimiter(store, zap.NewNop(), 3, time.Minute)
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo: newStubUserRepo(),
		Limiter:  limiter,
		Logger:   zap.NewNop(),
	})
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "alice@example.com", "wrong-password")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))
	}

	_, err = svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Empty(t, store.counts, "a successful login clears the attempt counter")
}

func TestRefreshFlow(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	pair, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken)

	subject, err := svc.TokenManager().Validate(refreshed.AccessToken, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeTokenInvalid))
}
