package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewInvalidCredentials()
	mapped := ToDomainError(original)
	require.NotNil(t, mapped)
	assert.Equal(t, CodeInvalidCredentials, mapped.Code)
	assert.Equal(t, http.StatusUnauthorized, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsStorageErrors(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)

	mapped = ToDomainError(errors.New("connection reset"))
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, "internal server error", mapped.Message, "cause must not leak")
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewEmailExists(), CodeEmailExists))
	assert.False(t, IsCode(NewEmailExists(), CodePhoneExists))
	assert.False(t, IsCode(errors.New("plain"), CodeEmailExists))
	assert.False(t, IsCode(nil, CodeEmailExists))
}
