package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/metrics"
	"github.com/AscenderGrey/EcomDashQ1BetaCohort/internal/schema"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandlers(zap.NewNop(), metrics.NewCollectorWith(prometheus.NewRegistry()), nil)
	h.RegisterRoutes(router)
	return router
}

func eventBody(overrides map[string]any) []byte {
	base := map[string]any{
		"event_type": "pageview",
		"session_id": "sess_test",
		"visitor_id": "visitor_test",
		"url":        "https://test-store.com/",
		"path":       "/",
		"user_agent": "Mozilla/5.0",
	}
	for k, v := range overrides {
		base[k] = v
	}
	out, _ := json.Marshal(base)
	return out
}

func post(router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTrackEventAccepted(t *testing.T) {
	router := newTestRouter(t)

	w := post(router, "/api/v1/analytics/track/event", eventBody(nil))
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp schema.TrackEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.EventID, "evt_"))
	assert.Equal(t, "event accepted", resp.Message)
}

func TestTrackEventMalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	w := post(router, "/api/v1/analytics/track/event", []byte("{not json"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Error)
}

func TestTrackEventUnknownField(t *testing.T) {
	router := newTestRouter(t)

	w := post(router, "/api/v1/analytics/track/event", eventBody(map[string]any{"mystery": true}))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Error)
	assert.Contains(t, resp.Message, "mystery")
}

func TestTrackEventValidationFailure(t *testing.T) {
	router := newTestRouter(t)

	w := post(router, "/api/v1/analytics/track/event", eventBody(map[string]any{"session_id": ""}))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
	assert.Contains(t, resp.Message, "session_id")
}

func TestTrackEventTruncatesOversizeURL(t *testing.T) {
	router := newTestRouter(t)

	long := "https://test-store.com/" + strings.Repeat("a", schema.MaxURLLength)
	w := post(router, "/api/v1/analytics/track/event", eventBody(map[string]any{"url": long}))
	assert.Equal(t, http.StatusAccepted, w.Code, "over-length URLs are truncated, not rejected")
}

func TestTrackBatchPartialFailure(t *testing.T) {
	router := newTestRouter(t)

	batch := map[string]any{"events": []json.RawMessage{
		eventBody(nil),
		eventBody(map[string]any{"event_type": "teleport"}),
		eventBody(map[string]any{"event_type": "click"}),
	}}
	body, err := json.Marshal(batch)
	require.NoError(t, err)

	w := post(router, "/api/v1/analytics/track/batch", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.BatchTrackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "event 1")
}

func TestTrackBatchAllValid(t *testing.T) {
	router := newTestRouter(t)

	batch := map[string]any{"events": []json.RawMessage{eventBody(nil), eventBody(nil)}}
	body, err := json.Marshal(batch)
	require.NoError(t, err)

	w := post(router, "/api/v1/analytics/track/batch", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.BatchTrackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 0, resp.Failed)
}

func TestTrackBatchSizeBounds(t *testing.T) {
	router := newTestRouter(t)

	w := post(router, "/api/v1/analytics/track/batch", []byte(`{"events": []}`))
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty batches are rejected")

	events := make([]json.RawMessage, schema.MaxBatchSize+1)
	for i := range events {
		events[i] = eventBody(map[string]any{"session_id": fmt.Sprintf("sess_%d", i)})
	}
	body, err := json.Marshal(map[string]any{"events": events})
	require.NoError(t, err)

	w = post(router, "/api/v1/analytics/track/batch", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_batch", resp.Error)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
