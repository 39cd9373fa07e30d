package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondProblem(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondProblem(rec, http.StatusConflict, "duplicate_name", "a folder named \"Docs\" already exists", map[string]any{
		"existing_id": "f-1",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "duplicate_name", body["reason"])
	assert.Equal(t, "f-1", body["existing_id"])
	assert.Equal(t, "Conflict", body["title"])
	assert.EqualValues(t, 409, body["status"])
}

func TestRespondError_OmitsReason(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusTeapot, "short and stout")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "reason")
	assert.Equal(t, "about:blank", body["type"])
}

func TestProblemDetail_ExtrasCannotOverrideMembers(t *testing.T) {
	payload, err := json.Marshal(ProblemDetail{
		Type:   problemType(http.StatusNotFound),
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Extra:  map[string]any{"status": 200, "item_id": "f-1"},
	})
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload, &body))
	assert.EqualValues(t, 404, body["status"])
	assert.Equal(t, "f-1", body["item_id"])
	assert.Contains(t, body["type"], "404")
}
