package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayplan/todo-service/internal/domain"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// stubUserStore backs the verifier with an in-memory user set keyed by
// lowercased email.
type stubUserStore struct {
	users map[string]*domain.User
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (s *stubUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserStore) CreateWithRole(_ context.Context, _ *domain.User, _ string) error {
	return nil
}

func (s *stubUserStore) Update(_ context.Context, _ *domain.User) error { return nil }

func (s *stubUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := s.users[strings.ToLower(email)]
	return ok, nil
}

func (s *stubUserStore) ExistsByPhone(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func newVerifierFixture(t *testing.T, enabled bool) *CredentialVerifier {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &stubUserStore{users: map[string]*domain.User{
		"alice@example.com": {
			ID:           "user-1",
			Email:        "alice@example.com",
			PasswordHash: string(hash),
			Enabled:      enabled,
		},
	}}
	return NewCredentialVerifier(store)
}

func TestVerifySuccess(t *testing.T) {
	v := newVerifierFixture(t, true)

	user, err := v.Verify(context.Background(), "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestVerifyCaseInsensitiveEmail(t *testing.T) {
	v := newVerifierFixture(t, true)

	user, err := v.Verify(context.Background(), "ALICE@Example.COM", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestVerifyUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	v := newVerifierFixture(t, true)

	_, unknownErr := v.Verify(context.Background(), "nobody@example.com", "whatever")
	_, wrongErr := v.Verify(context.Background(), "alice@example.com", "not-the-password")

	assert.True(t, apperrors.IsCode(unknownErr, apperrors.CodeInvalidCredentials))
	assert.True(t, apperrors.IsCode(wrongErr, apperrors.CodeInvalidCredentials))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestVerifyEmptyEmail(t *testing.T) {
	v := newVerifierFixture(t, true)

	_, err := v.Verify(context.Background(), "", "correct-horse")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))
}

func TestVerifyDisabledAccountAfterPasswordCheck(t *testing.T) {
	v := newVerifierFixture(t, false)

	// Wrong password on a disabled account must not reveal the disabled
	// state: credentials are checked first.
	_, err := v.Verify(context.Background(), "alice@example.com", "not-the-password")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))

	_, err = v.Verify(context.Background(), "alice@example.com", "correct-horse")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAccountDisabled))
}
