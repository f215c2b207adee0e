package httpx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/platform/httpx"
	"github.com/parleyhq/parley/internal/shared"
)

func TestRespondError_TaxonomyStaysDistinct(t *testing.T) {
	cases := []struct {
		err    error
		status int
		title  string
	}{
		{shared.ErrNotAuthenticated, http.StatusUnauthorized, "Not Authenticated"},
		{shared.ErrInvalidToken, http.StatusUnauthorized, "Invalid Token"},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid Credentials"},
		{shared.ErrUserNotFound, http.StatusNotFound, "Not Found"},
		{shared.ErrConflict, http.StatusConflict, "Conflict"},
		{shared.ErrValidation, http.StatusBadRequest, "Validation Failed"},
		{errors.New("pg: connection refused"), http.StatusInternalServerError, "Internal Error"},
	}

	for _, tc := range cases {
		res := httptest.NewRecorder()
		httpx.RespondError(res, fmt.Errorf("wrapped: %w", tc.err))

		require.Equal(t, tc.status, res.Code, tc.title)
		var problem httpx.ProblemDetail
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &problem))
		assert.Equal(t, tc.title, problem.Title)
		assert.Equal(t, tc.status, problem.Status)
	}
}

func TestRespondError_InternalDetailNeverLeaks(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &problem))
	assert.Empty(t, problem.Detail)
	assert.NotContains(t, res.Body.String(), "10.0.0.5")
}
