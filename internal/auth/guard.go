package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/dayplan/todo-service/pkg/util"
)

// OwnerLookup resolves the owning subject for a resource id. It returns
// pgx.ErrNoRows (or an error wrapping it) when the resource does not exist.
// Each owned resource type contributes its own lookup.
type OwnerLookup func(ctx context.Context, resourceID string) (string, error)

// OwnershipGuard decides whether a subject may act on an owned resource.
// The same guard serves every resource type; only the lookup differs.
type OwnershipGuard struct{}

// NewOwnershipGuard constructs the guard.
func NewOwnershipGuard() *OwnershipGuard {
	return &OwnershipGuard{}
}

// IsOwner reports whether subjectID owns the resource. A missing resource
// and a resource owned by someone else both return false: existence must
// not leak through the denial.
func (g *OwnershipGuard) IsOwner(ctx context.Context, resourceID, subjectID string, lookup OwnerLookup) bool {
	if resourceID == "" || subjectID == "" {
		return false
	}
	ownerID, err := lookup(ctx, resourceID)
	if err != nil {
		return false
	}
	return ownerID == subjectID
}

// Require runs the ownership check as a pre-condition and converts a denial
// into AUTHORIZATION_DENIED. Unexpected lookup failures (anything other than
// a missing row) surface as opaque internal errors rather than denials.
func (g *OwnershipGuard) Require(ctx context.Context, resourceID, subjectID string, lookup OwnerLookup) error {
	if resourceID == "" || subjectID == "" {
		return apperrors.NewAuthorizationDenied()
	}
	ownerID, err := lookup(ctx, resourceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewAuthorizationDenied()
		}
		return apperrors.NewInternalError(err)
	}
	if ownerID != subjectID {
		return apperrors.NewAuthorizationDenied()
	}
	return nil
}
