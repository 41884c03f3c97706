package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahesenov7-ai/paysphate.demo/internal/application/dto"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// RequireValidationError checks that err is a *dto.ValidationError for field.
func RequireValidationError(t *testing.T, err error, field string) *dto.ValidationError {
	t.Helper()
	var verr *dto.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	require.Equal(t, field, verr.Field)
	return verr
}
