package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/middleware"
)

// SecurityMockHandler is a simple HTTP handler for testing security middleware
type SecurityMockHandler struct {
	Called     bool
	StatusCode int
	Response   string
}

func (h *SecurityMockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Called = true
	if h.StatusCode == 0 {
		h.StatusCode = http.StatusOK
	}
	w.WriteHeader(h.StatusCode)
	_, _ = w.Write([]byte(h.Response))
}

func TestSecurityHeaders(t *testing.T) {
	next := &SecurityMockHandler{Response: "ok"}
	handler := middleware.SecurityHeaders()(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.True(t, next.Called)
	assert.Equal(t, constants.ContentTypeOptionsNoSniff, rr.Header().Get(constants.HeaderXContentTypeOptions))
	assert.Equal(t, constants.FrameOptionsDeny, rr.Header().Get(constants.HeaderXFrameOptions))
	assert.Equal(t, constants.XSSProtectionModeBlock, rr.Header().Get(constants.HeaderXXSSProtection))
	assert.Equal(t, constants.ReferrerPolicyStrictOrigin, rr.Header().Get(constants.HeaderReferrerPolicy))
	assert.Equal(t, constants.CSPDefaultSrc, rr.Header().Get(constants.HeaderContentSecurityPolicy))
}

func TestNoStore(t *testing.T) {
	handler := middleware.NoStore()(&SecurityMockHandler{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

	assert.Equal(t, constants.CacheControlNoStore, rr.Header().Get(constants.HeaderCacheControl))
	assert.Equal(t, constants.PragmaNoCache, rr.Header().Get(constants.HeaderPragma))
}

func TestRateLimit(t *testing.T) {
	next := &SecurityMockHandler{}
	handler := middleware.RateLimit(2, time.Minute)(next)

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.7:5000").Code)
	assert.Equal(t, http.StatusOK, send("203.0.113.7:5001").Code)

	limited := send("203.0.113.7:5002")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &body))
	assert.Equal(t, constants.MsgTooManyRequests, body["message"])
	assert.Equal(t, constants.CodeRateLimited, body["code"])

	// Another client has its own budget
	assert.Equal(t, http.StatusOK, send("198.51.100.4:5000").Code)
}

func TestRequestLogger(t *testing.T) {
	var logBuf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&logBuf)
	defer func() { log.Logger = original }()

	previousLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(previousLevel)

	handler := middleware.RequestLogger()(&SecurityMockHandler{StatusCode: http.StatusNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/events/999", nil)
	req = req.WithContext(context.WithValue(req.Context(), chimiddleware.RequestIDKey, "req-42"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logBuf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "req-42", entry[constants.RequestIDContextKey])
	assert.Equal(t, "/api/events/999", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
}
