package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
)

func TestDevHandler_TestEmail(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		target     string
		mode       string
		sendErr    error
		wantStatus int
		wantSent   int
		wantOK     bool
	}{
		{name: "disabled in production", enabled: false, target: "/api/dev/test-email?to=a@b.co", mode: constants.MailModeFallback, wantStatus: http.StatusNotFound},
		{name: "missing recipient", enabled: true, target: "/api/dev/test-email", mode: constants.MailModeFallback, wantStatus: http.StatusBadRequest},
		{name: "fallback", enabled: true, target: "/api/dev/test-email?to=a@b.co", mode: constants.MailModeFallback, wantStatus: http.StatusOK, wantSent: 1, wantOK: true},
		{name: "sendgrid", enabled: true, target: "/api/dev/test-email?to=a@b.co", mode: constants.MailModeSendGrid, wantStatus: http.StatusOK, wantSent: 1, wantOK: true},
		{name: "transport failure", enabled: true, target: "/api/dev/test-email?to=a@b.co", mode: constants.MailModeSendGrid, sendErr: errors.New("401 from provider"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &MockMailer{ModeName: tt.mode, Err: tt.sendErr}
			h := NewDevHandler(mailer, tt.enabled)

			rr := httptest.NewRecorder()
			h.TestEmail(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Len(t, mailer.Sent, tt.wantSent)

			body := decodeBody(t, rr)
			switch tt.wantStatus {
			case http.StatusBadRequest:
				assert.Equal(t, constants.MsgMissingRecipient, body["message"])
			case http.StatusOK, http.StatusInternalServerError:
				assert.Equal(t, tt.wantOK, body["ok"])
				assert.Equal(t, tt.mode, body["mode"])
				assert.NotContains(t, rr.Body.String(), "401 from provider")
			}
			if tt.wantSent > 0 {
				assert.Equal(t, "a@b.co", mailer.Sent[0].ToEmail)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	app := &config.AppSettings{Name: "eventure-api", Version: "1.2.0", Environment: "test"}

	t.Run("health", func(t *testing.T) {
		h := NewHealthHandler(&MockHealthChecker{Err: errors.New("down")}, app)

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		h := NewHealthHandler(&MockHealthChecker{}, app)

		rr := httptest.NewRecorder()
		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ok":true,"database":"up"}`, rr.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		h := NewHealthHandler(&MockHealthChecker{Err: errors.New("dial tcp: refused")}, app)

		rr := httptest.NewRecorder()
		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"ok":false,"database":"down"}`, rr.Body.String())
	})

	t.Run("version", func(t *testing.T) {
		h := NewHealthHandler(&MockHealthChecker{}, app)

		rr := httptest.NewRecorder()
		h.Version(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

		assert.JSONEq(t, `{"name":"eventure-api","version":"1.2.0","environment":"test"}`, rr.Body.String())
	})
}
