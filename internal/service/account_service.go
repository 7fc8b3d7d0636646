package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dayplan/todo-service/internal/auth"
	"github.com/dayplan/todo-service/internal/config"
	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/events"
	"github.com/dayplan/todo-service/internal/repository"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// AccountService mutates account state: password, profile, enabled flag.
type AccountService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// ProfileUpdateInput carries optional profile fields; empty values are
// left untouched.
type ProfileUpdateInput struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// ChangePassword verifies the current password before storing the new hash.
// Roles and the enabled flag are untouched.
func (s *AccountService) ChangePassword(ctx context.Context, subjectID, currentPassword, newPassword, confirmNewPassword string) error {
	if newPassword == "" || newPassword != confirmNewPassword {
		return apperrors.NewPasswordMismatch()
	}

	user, err := s.getUser(ctx, subjectID)
	if err != nil {
		return err
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCurrentPassword()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{Type: events.EventPasswordChanged, SubjectID: user.ID})
	return nil
}

// UpdateProfile merges non-empty profile fields into the stored record.
func (s *AccountService) UpdateProfile(ctx context.Context, subjectID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.getUser(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" && input.FirstName != user.FirstName {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" && input.LastName != user.LastName {
		user.LastName = input.LastName
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = input.DateOfBirth
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Deactivate flips the enabled flag off. Repeating the call is rejected so
// a retried request cannot mask a conflicting update.
func (s *AccountService) Deactivate(ctx context.Context, subjectID string) error {
	user, err := s.getUser(ctx, subjectID)
	if err != nil {
		return err
	}
	if !user.Enabled {
		return apperrors.NewAlreadyDeactivated()
	}

	user.Enabled = false
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{Type: events.EventAccountDeactivated, SubjectID: user.ID})
	return nil
}

// Reactivate flips the enabled flag back on.
func (s *AccountService) Reactivate(ctx context.Context, subjectID string) error {
	user, err := s.getUser(ctx, subjectID)
	if err != nil {
		return err
	}
	if user.Enabled {
		return apperrors.NewAlreadyReactivated()
	}

	user.Enabled = true
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{Type: events.EventAccountReactivated, SubjectID: user.ID})
	return nil
}

// DeleteAccount is accepted but performs no deletion. Accounts are never
// hard-deleted; deactivation is the supported way to retire one.
func (s *AccountService) DeleteAccount(ctx context.Context, subjectID string) error {
	if _, err := s.getUser(ctx, subjectID); err != nil {
		return err
	}
	s.logger.Info("account deletion requested; ignoring", zap.String("subject_id", subjectID))
	return nil
}

// VerifyDisabledCredentials authenticates an account by email and password
// without rejecting disabled accounts, the entry path for reactivation.
// Unknown email and wrong password stay indistinguishable.
func (s *AccountService) VerifyDisabledCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return user, nil
}

// GetProfile loads the account for the subject.
func (s *AccountService) GetProfile(ctx context.Context, subjectID string) (*domain.User, error) {
	return s.getUser(ctx, subjectID)
}

func (s *AccountService) getUser(ctx context.Context, subjectID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserNotFound()
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *AccountService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
