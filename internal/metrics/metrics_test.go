package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventure/eventure-api/internal/metrics"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveAuth("login", true)
		m.ResetCodeIssued()
		m.ObserveMail("fallback", nil)
		m.SetStats(1, 2, 3)
		m.SetDatabaseUp(true)
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, m.Middleware(next))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	for _, path := range []string{"/api/events/1", "/api/events/2", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP eventure_http_requests_total HTTP requests by method, route and status.
# TYPE eventure_http_requests_total counter
eventure_http_requests_total{method="GET",route="/api/events/{id}",status="404"} 2
eventure_http_requests_total{method="GET",route="/health",status="200"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "eventure_http_requests_total"))
}

func TestCountersAndGauges(t *testing.T) {
	m := metrics.New()

	m.ObserveAuth("login", true)
	m.ObserveAuth("login", false)
	m.ObserveAuth("login", false)
	m.ResetCodeIssued()
	m.ObserveMail("sendgrid", errors.New("boom"))
	m.SetStats(10, 6, 2)
	m.SetDatabaseUp(false)

	expected := `
# HELP eventure_auth_events_total Authentication events by kind and result.
# TYPE eventure_auth_events_total counter
eventure_auth_events_total{event="login",result="failure"} 2
eventure_auth_events_total{event="login",result="success"} 1
# HELP eventure_auth_reset_codes_issued_total Password reset codes issued.
# TYPE eventure_auth_reset_codes_issued_total counter
eventure_auth_reset_codes_issued_total 1
# HELP eventure_mail_sent_total Outgoing mail by transport mode and result.
# TYPE eventure_mail_sent_total counter
eventure_mail_sent_total{mode="sendgrid",result="failure"} 1
# HELP eventure_events_pending Events awaiting moderation.
# TYPE eventure_events_pending gauge
eventure_events_pending 2
# HELP eventure_users Registered users.
# TYPE eventure_users gauge
eventure_users 10
# HELP eventure_database_up 1 when the last database probe succeeded.
# TYPE eventure_database_up gauge
eventure_database_up 0
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"eventure_auth_events_total",
		"eventure_auth_reset_codes_issued_total",
		"eventure_mail_sent_total",
		"eventure_events_pending",
		"eventure_users",
		"eventure_database_up",
	))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := metrics.New()
	m.SetStats(1, 1, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "eventure_users 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
