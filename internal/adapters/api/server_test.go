package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/email-guardian/internal/adapters/history"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/core"
	"github.com/mikey/email-guardian/internal/utils"
	"github.com/mikey/email-guardian/internal/whitelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "secret-key"

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedModel struct{}

func (m *fixedModel) Predict(_ context.Context, _ string) (*core.Sentiment, error) {
	return &core.Sentiment{Label: "NEGATIVE", Score: 0.6}, nil
}

func (m *fixedModel) Name() string {
	return "fixed"
}

// brokenHistory fails every operation
type brokenHistory struct{}

func (h *brokenHistory) Add(context.Context, *core.ScanRecord) error {
	return errors.New("disk full")
}

func (h *brokenHistory) List(context.Context, string, int) ([]*core.ScanRecord, int, error) {
	return nil, 0, errors.New("disk full")
}

func (h *brokenHistory) All(context.Context) ([]*core.ScanRecord, error) {
	return nil, errors.New("disk full")
}

func (h *brokenHistory) Cleanup(context.Context, time.Time) error {
	return nil
}

func newTestServer(t *testing.T, repo core.HistoryRepository) *Server {
	t.Helper()

	logger := zap.NewNop()
	adapter := core.NewSentimentAdapter(&fixedModel{}, core.DefaultMaxInputChars, logger, utils.NewTextProcessor(logger))
	service := core.NewGuardService(core.NewEngine(adapter, logger), repo, logger, true, whitelist.NewChecker(nil, logger))

	server, err := NewServer(service, logger, config.APIConfig{
		ListenAddress:       "127.0.0.1:0",
		Key:                 testKey,
		MaxContentLength:    100,
		DefaultHistoryLimit: 10,
		CORSAllowedOrigins:  []string{"*"},
	})
	require.NoError(t, err)
	return server
}

func newMemoryServer(t *testing.T) *Server {
	return newTestServer(t, history.NewMemoryHistory(zap.NewNop(), 100, 0, 0))
}

func doRequest(s *Server, method, path, key string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("x-api-key", key)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestNewServerRequiresKey(t *testing.T) {
	_, err := NewServer(nil, zap.NewNop(), config.APIConfig{})
	assert.Error(t, err)
}

func TestRootAndHealth(t *testing.T) {
	s := newMemoryServer(t)

	w := doRequest(s, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, serviceName, decode(t, w)["message"])

	w = doRequest(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestProtectedEndpointsRequireKey(t *testing.T) {
	s := newMemoryServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/scan"},
		{http.MethodGet, "/history"},
		{http.MethodGet, "/stats"},
	} {
		w := doRequest(s, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)

		w = doRequest(s, tc.method, tc.path, "wrong", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.Equal(t, "Invalid API key", decode(t, w)["detail"])
	}
}

func TestScan(t *testing.T) {
	s := newMemoryServer(t)

	w := doRequest(s, http.MethodPost, "/scan", testKey, gin.H{
		"content": "Dear customer, urgent: verify your account. Click here to confirm your password.",
		"user_id": "alice",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Regexp(t, `^scan_\d{8}_\d{6}_[0-9a-f]{8}$`, body["id"])
	assert.Equal(t, "phishing", body["classification"])
	assert.Equal(t, "alice", body["user_id"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Contains(t, body["indicators"], "urgent_action")
	assert.Contains(t, body["features"], "word_count")
}

func TestScanValidation(t *testing.T) {
	s := newMemoryServer(t)

	w := doRequest(s, http.MethodPost, "/scan", testKey, gin.H{"user_id": "alice"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(s, http.MethodPost, "/scan", testKey, gin.H{"content": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(s, http.MethodPost, "/scan", testKey, gin.H{"content": strings.Repeat("a", 101)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(s, http.MethodPost, "/scan", testKey, gin.H{"content": strings.Repeat("é", 100)})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistory(t *testing.T) {
	s := newMemoryServer(t)

	for i, user := range []string{"alice", "bob", "alice", "alice"} {
		w := doRequest(s, http.MethodPost, "/scan", testKey, gin.H{
			"content": "Meeting notes number " + string(rune('A'+i)),
			"user_id": user,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(s, http.MethodGet, "/history", testKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(4), body["total_count"])
	assert.Len(t, body["scans"], 4)

	w = doRequest(s, http.MethodGet, "/history?limit=2&user_id=alice", testKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, float64(3), body["total_count"])
	scans := body["scans"].([]interface{})
	require.Len(t, scans, 2)
	for _, scan := range scans {
		assert.Equal(t, "alice", scan.(map[string]interface{})["user_id"])
	}

	w = doRequest(s, http.MethodGet, "/history?limit=abc", testKey, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(s, http.MethodGet, "/history?limit=-1", testKey, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestStats(t *testing.T) {
	s := newMemoryServer(t)

	w := doRequest(s, http.MethodGet, "/stats", testKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode(t, w)
	assert.Equal(t, float64(0), empty["total_scans"])
	assert.Equal(t, map[string]interface{}{"last_24_hours": float64(0), "average_confidence": float64(0)}, empty["recent_activity"])

	doRequest(s, http.MethodPost, "/scan", testKey, gin.H{"content": "See you at lunch tomorrow"})
	doRequest(s, http.MethodPost, "/scan", testKey, gin.H{"content": "Dear customer, urgent: verify your account. Click here to confirm your password."})

	w = doRequest(s, http.MethodGet, "/stats", testKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["total_scans"])
	assert.Equal(t, float64(1), body["classifications"].(map[string]interface{})["phishing"])
	recent := body["recent_activity"].(map[string]interface{})
	assert.Equal(t, float64(2), recent["last_24_hours"])
}

func TestStorageErrors(t *testing.T) {
	s := newTestServer(t, &brokenHistory{})

	w := doRequest(s, http.MethodPost, "/scan", testKey, gin.H{"content": "hello there"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["detail"], "disk full")

	w = doRequest(s, http.MethodGet, "/history", testKey, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(s, http.MethodGet, "/stats", testKey, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStartStop(t *testing.T) {
	s := newMemoryServer(t)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func preflight(handler http.Handler, path, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-api-key")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCORSPreflight(t *testing.T) {
	s := newMemoryServer(t)

	for _, path := range []string{"/scan", "/history", "/stats"} {
		w := preflight(s.Handler(), path, "http://localhost:3000")
		assert.Equal(t, http.StatusNoContent, w.Code, path)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
	}
}

func TestCORSOnAuthenticatedRequest(t *testing.T) {
	s := newMemoryServer(t)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("x-api-key", testKey)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigins(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://guard.example.com"}))
	router.GET("/stats", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := preflight(router, "/stats", "https://guard.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://guard.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight(router, "/stats", "https://evil.example.net")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
