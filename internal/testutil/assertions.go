package testutil

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the HTTP response status
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes the response body into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v), "failed to decode JSON response")
}

// AssertContainsChampion asserts the champion id is in the list
func AssertContainsChampion(t *testing.T, ids []string, championID string) {
	t.Helper()
	assert.Contains(t, ids, championID)
}

// AssertNotContainsChampion asserts the champion id is not in the list
func AssertNotContainsChampion(t *testing.T, ids []string, championID string) {
	t.Helper()
	assert.NotContains(t, ids, championID)
}
