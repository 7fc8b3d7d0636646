package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayplan/todo-service/internal/auth"
	apperrors "github.com/dayplan/todo-service/pkg/util"
)

func newCategoryFixture() (*CategoryService, *stubCategoryRepo) {
	repo := newStubCategoryRepo()
	return NewCategoryService(repo, auth.NewOwnershipGuard()), repo
}

func TestCategoryCreateAndList(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "  Work  ", "daily grind")
	require.NoError(t, err)
	assert.Equal(t, "Work", created.Name)
	assert.Equal(t, "user-1", created.OwnerID)

	_, err = svc.Create(ctx, "user-2", "Home", "")
	require.NoError(t, err)

	mine, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
}

func TestCategoryGetGuarded(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "Work", "")
	require.NoError(t, err)

	_, foreignErr := svc.Get(ctx, "user-2", created.ID)
	_, missingErr := svc.Get(ctx, "user-2", "cat-404")
	assert.True(t, apperrors.IsCode(foreignErr, apperrors.CodeAuthorizationDenied))
	assert.True(t, apperrors.IsCode(missingErr, apperrors.CodeAuthorizationDenied))

	got, err := svc.Get(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCategoryUpdateGuarded(t *testing.T) {
	svc, _ := newCategoryFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "Work", "")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-2", created.ID, "Hijacked", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAuthorizationDenied))

	updated, err := svc.Update(ctx, "user-1", created.ID, "Projects", "bigger things")
	require.NoError(t, err)
	assert.Equal(t, "Projects", updated.Name)
	assert.Equal(t, "bigger things", updated.Description)
}

func TestCategoryDeleteGuarded(t *testing.T) {
	svc, repo := newCategoryFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "Work", "")
	require.NoError(t, err)

	err = svc.Delete(ctx, "user-2", created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAuthorizationDenied))

	require.NoError(t, svc.Delete(ctx, "user-1", created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.Error(t, err)
}
