package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cuzimmicah/tmonitor/internal/auth"
	"github.com/cuzimmicah/tmonitor/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiKey string) *config.Config {
	return &config.Config{
		APIKey:   apiKey,
		LogLevel: "info",
	}
}

func TestHandler_Health(t *testing.T) {
	app := newApp(testConfig("secret123"))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "TwitterAPI Monitor (Vercel)", resp["service"])
	assert.Equal(t, true, resp["api_key_configured"])
}

func TestHandler_WebhookStampsTimestamp(t *testing.T) {
	app := newApp(testConfig("secret123"))

	body := `{"rule_id":"r1","rule_tag":"demo","tweets":[{"id":"1","text":"hi"}]}`
	req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(body))
	req.Header.Set(auth.HeaderName, "secret123")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, float64(1), resp["tweets_count"])
	assert.NotEmpty(t, resp["timestamp"])
}

func TestHandler_NoStatsRoute(t *testing.T) {
	app := newApp(testConfig("secret123"))

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_UnconfiguredKeyRejectsRequests(t *testing.T) {
	// Без секрета serverless-вариант не падает, а отвечает 401 на каждый запрос
	app := newApp(testConfig(""))

	req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(`{"tweets":[]}`))
	req.Header.Set(auth.HeaderName, "anything")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	req = httptest.NewRequest("GET", "/api/health", nil)
	w = httptest.NewRecorder()
	app.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["api_key_configured"])
}
