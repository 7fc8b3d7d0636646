package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/repository"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// CredentialVerifier checks submitted credentials against stored hashes.
// It is read-only and holds no state beyond its collaborators.
type CredentialVerifier struct {
	users repository.UserRepository
}

// NewCredentialVerifier constructs the verifier.
func NewCredentialVerifier(users repository.UserRepository) *CredentialVerifier {
	return &CredentialVerifier{users: users}
}

// Verify authenticates an email/password pair. An unknown email and a wrong
// password produce the same INVALID_CREDENTIALS error so callers cannot
// enumerate accounts. The enabled flag is checked only after the hash
// comparison succeeds: ACCOUNT_DISABLED is reachable solely by a caller who
// already proved knowledge of the password.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.NewInvalidCredentials()
	}

	user, err := v.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	if !user.Enabled {
		return nil, apperrors.NewAccountDisabled()
	}
	return user, nil
}
