package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/events"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

func newAccountFixture(t *testing.T) (*AccountService, *stubUserRepo, *domain.User) {
	t.Helper()
	repo := newStubUserRepo()

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		FirstName:    "Alice",
		Email:        "alice@example.com",
		PhoneNumber:  "+15550001111",
		PasswordHash: string(hash),
		Enabled:      true,
	}
	require.NoError(t, repo.CreateWithRole(context.Background(), user, domain.RoleUser))

	svc := NewAccountService(testConfig(), repo, events.NewInMemoryDispatcher(), zap.NewNop())
	return svc, repo, user
}

func TestChangePasswordSuccess(t *testing.T) {
	svc, repo, user := newAccountFixture(t)

	err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password", "new-password")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))
	assert.True(t, stored.Enabled)
	assert.Equal(t, []string{domain.RoleUser}, stored.Roles)
}

func TestChangePasswordConfirmationMismatch(t *testing.T) {
	svc, _, user := newAccountFixture(t)

	err := svc.ChangePassword(context.Background(), user.ID, "old-password", "new-password", "other")
	assert.True(t, apperrors.IsCode(err, apperrors.CodePasswordMismatch))
}

func TestChangePasswordUnknownUser(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	err := svc.ChangePassword(context.Background(), "missing", "old-password", "new-password", "new-password")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUserNotFound))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, repo, user := newAccountFixture(t)

	err := svc.ChangePassword(context.Background(), user.ID, "not-the-password", "new-password", "new-password")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCurrentPass))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("old-password")))
}

func TestUpdateProfileMergesNonEmptyFields(t *testing.T) {
	svc, _, user := newAccountFixture(t)

	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdateInput{
		LastName:    "Jones",
		DateOfBirth: &dob,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName, "empty fields are left untouched")
	assert.Equal(t, "Jones", updated.LastName)
	require.NotNil(t, updated.DateOfBirth)
	assert.True(t, dob.Equal(*updated.DateOfBirth))
}

func TestDeactivateAndReactivate(t *testing.T) {
	svc, repo, user := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, user.ID))
	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Enabled)

	err = svc.Deactivate(ctx, user.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyDeactivated))

	require.NoError(t, svc.Reactivate(ctx, user.ID))
	stored, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Enabled)

	err = svc.Reactivate(ctx, user.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyReactivated))
}

func TestDeleteAccountIsNoOp(t *testing.T) {
	svc, repo, user := newAccountFixture(t)

	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID))
	assert.Equal(t, 1, repo.count(), "delete must not remove the record")

	err := svc.DeleteAccount(context.Background(), "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUserNotFound))
}

func TestVerifyDisabledCredentials(t *testing.T) {
	svc, _, user := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, user.ID))

	verified, err := svc.VerifyDisabledCredentials(ctx, "alice@example.com", "old-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	_, wrongErr := svc.VerifyDisabledCredentials(ctx, "alice@example.com", "nope")
	_, unknownErr := svc.VerifyDisabledCredentials(ctx, "nobody@example.com", "nope")
	assert.True(t, apperrors.IsCode(wrongErr, apperrors.CodeInvalidCredentials))
	assert.True(t, apperrors.IsCode(unknownErr, apperrors.CodeInvalidCredentials))
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}
