package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	var nilErr *Error
	assert.Equal(t, "", nilErr.Error())
	assert.Equal(t, "boom", New(500, CodeInternal, errors.New("boom")).Error())
	assert.Equal(t, "unavailable", New(503, "unavailable", nil).Error())
	assert.Equal(t, "api error (418)", New(418, "", nil).Error())
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	cause := errors.New("question and tenant_id are required")
	wrapped := fmt.Errorf("bind: %w", BadRequest(cause))

	var ae *Error
	require.True(t, errors.As(wrapped, &ae))
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, CodeInvalidRequest, ae.Code)
	assert.ErrorIs(t, wrapped, cause)
}
