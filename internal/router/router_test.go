package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"deepresearch-backend/internal/chat"
	"deepresearch-backend/internal/fallback"
	"deepresearch-backend/internal/handlers"
	"deepresearch-backend/internal/providers"
	"deepresearch-backend/internal/store"
)

func newTestRouter(t *testing.T, chatRateLimit int) http.Handler {
	t.Helper()

	tagsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"models": []map[string]interface{}{}})
	}))
	t.Cleanup(tagsServer.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orchestrator := chat.NewOrchestrator(
		nil, // no providers: every chat lands on the fallback
		fallback.New(),
		store.NewMemoryStore(),
		logger,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"),
	)

	ollama := providers.NewOllama(tagsServer.URL, "llama2:7b", 5*time.Second)
	return New(
		handlers.NewHealthHandler("", ollama, time.Now()),
		handlers.NewChatHandler(orchestrator, logger),
		chatRateLimit,
	)
}

func TestRouterChatEndToEnd(t *testing.T) {
	r := newTestRouter(t, 60)

	body, _ := json.Marshal(map[string]string{"prompt": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "fallback", resp["source"])
}

func TestRouterPreflight(t *testing.T) {
	r := newTestRouter(t, 60)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rr.Header().Get("Access-Control-Allow-Headers"))
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter(t, 60)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, true, resp["ok"])
}

func TestRouterChatRateLimited(t *testing.T) {
	r := newTestRouter(t, 2)

	body := []byte(`{"prompt":"hello"}`)
	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		last = rr.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
