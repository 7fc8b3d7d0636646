package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dayplan/todo-service/internal/domain"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// TokenManager issues and validates signed JWT credentials. Tokens are
// stateless: validity is a pure function of signature and expiry, no
// server-side record is kept.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager with distinct access and refresh TTLs.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Claims describes the JWT payload.
type Claims struct {
	Kind domain.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived access token for the subject.
func (tm *TokenManager) IssueAccessToken(subjectID string) (string, error) {
	return tm.issue(subjectID, domain.TokenKindAccess, tm.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the subject.
func (tm *TokenManager) IssueRefreshToken(subjectID string) (string, error) {
	return tm.issue(subjectID, domain.TokenKindRefresh, tm.refreshTTL)
}

func (tm *TokenManager) issue(subjectID string, kind domain.TokenKind, ttl time.Duration) (string, error) {
	now := tm.now()
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return signed, nil
}

// Validate checks signature, expiry and token kind, returning the embedded
// subject identifier. It deliberately does not re-check account state; the
// subject may have been disabled since issuance and resolving that is the
// caller's concern.
func (tm *TokenManager) Validate(tokenStr string, kind domain.TokenKind) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.NewTokenExpired()
		}
		return "", apperrors.NewTokenInvalid()
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", apperrors.NewTokenInvalid()
	}
	if claims.Kind != kind {
		return "", apperrors.NewTokenInvalid()
	}
	if claims.Subject == "" {
		return "", apperrors.NewTokenInvalid()
	}
	return claims.Subject, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is passed through unchanged; there is no rotation
// and no revocation state before natural expiry.
func (tm *TokenManager) Refresh(refreshToken string) (domain.TokenPair, error) {
	subjectID, err := tm.Validate(refreshToken, domain.TokenKindRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}
	access, err := tm.IssueAccessToken(subjectID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    domain.TokenTypeBearer,
	}, nil
}
