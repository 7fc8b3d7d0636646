package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/dayplan/todo-service/internal/domain"
	"github.com/dayplan/todo-service/internal/repository"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. The subject identifier is
// always passed explicitly to services; the principal only carries what the
// HTTP layer resolved from the bearer token.
type Principal struct {
	User *domain.User
}

// Middleware validates bearer access tokens and loads the principal.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes. Token validity and
// account state can diverge between issuance and use, so the account is
// re-resolved here: deleted accounts reject as unauthorized and disabled
// accounts as ACCOUNT_DISABLED.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], domain.TokenTypeBearer) {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	subjectID, err := m.tokens.Validate(parts[1], domain.TokenKindAccess)
	if err != nil {
		return err
	}

	user, err := m.users.GetByID(c.Context(), subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("unknown subject")
		}
		return apperrors.MapError(err)
	}
	if !user.Enabled {
		return apperrors.NewAccountDisabled()
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
