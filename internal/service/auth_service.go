package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayplan/todo-service/internal/auth"
	"github.com/dayplan/todo-service/internal/config"
	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/events"
	"github.com/dayplan/todo-service/internal/repository"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// AuthService coordinates registration, login and token refresh flows.
type AuthService struct {
	users      repository.UserRepository
	verifier   *auth.CredentialVerifier
	tokenMgr   *auth.TokenManager
	limiter    *auth.LoginLimiter
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Limiter    *auth.LoginLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput describes the registration payload after boundary validation.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	PhoneNumber     string
	DateOfBirth     *time.Time
	Password        string
	ConfirmPassword string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		verifier:   auth.NewCredentialVerifier(deps.UserRepo),
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates an email/password pair and issues a bearer token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	if !s.limiter.Allow(ctx, email) {
		return domain.TokenPair{}, apperrors.NewTooManyLoginAttempts()
	}

	user, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		return domain.TokenPair{}, err
	}

	access, err := s.tokenMgr.IssueAccessToken(user.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.tokenMgr.IssueRefreshToken(user.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	s.limiter.Reset(ctx, email)
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domain.TokenTypeBearer,
	}, nil
}

// Register creates a new account with the default role. Uniqueness checks
// and the password confirmation run before anything is written.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	emailExists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if emailExists {
		return nil, apperrors.NewEmailExists()
	}

	phoneExists, err := s.users.ExistsByPhone(ctx, input.PhoneNumber)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if phoneExists {
		return nil, apperrors.NewPhoneExists()
	}

	if input.Password == "" || input.Password != input.ConfirmPassword {
		return nil, apperrors.NewPasswordMismatch()
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		DateOfBirth:  input.DateOfBirth,
		PasswordHash: hash,
		Enabled:      true,
	}
	if err := s.users.CreateWithRole(ctx, user, domain.RoleUser); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: user.ID,
		Payload: events.UserRegisteredPayload{
			Email: user.Email,
			Roles: user.Roles,
		},
	})
	return user, nil
}

// Refresh exchanges a refresh token for a fresh access token. The refresh
// token is returned unchanged; see TokenManager.Refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	return s.tokenMgr.Refresh(refreshToken)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
