package testutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taskboard/internal/errors"
)

// AssertAppError requires err to carry an *AppError with code and returns it
// so callers can inspect the message or status.
func AssertAppError(t testing.TB, err error, code string) *apperrors.AppError {
	t.Helper()

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr, "expected AppError with code %q", code)
	assert.Equal(t, code, appErr.Code, "message: %s", appErr.Message)
	return appErr
}

// AssertNotFound checks for a 404 with code. Rows owned by another user must
// surface this way too.
func AssertNotFound(t testing.TB, err error, code string) {
	t.Helper()

	appErr := AssertAppError(t, err, code)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode, "code %s", code)
}

// AssertNoError stops the test on err.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	require.NoError(t, err)
}
