package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/database"
	"github.com/eventure/eventure-api/internal/utils"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// ReadinessResponse is the body of GET /health/ready.
type ReadinessResponse struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// HealthHandler serves liveness, readiness and version probes.
type HealthHandler struct {
	db  database.HealthChecker
	app *config.AppSettings
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db database.HealthChecker, app *config.AppSettings) *HealthHandler {
	if db == nil {
		panic("db cannot be nil")
	}
	if app == nil {
		app = &config.AppSettings{}
	}
	return &HealthHandler{db: db, app: app}
}

// Health always answers ok while the process is serving
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, HealthResponse{OK: true})
}

// Ready pings the database and answers 503 when it is unreachable
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.DBHealthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Readiness check failed")
		utils.JSON(w, http.StatusServiceUnavailable, ReadinessResponse{OK: false, Database: "down"})
		return
	}

	utils.JSON(w, http.StatusOK, ReadinessResponse{OK: true, Database: "up"})
}

// Version reports the running build
func (h *HealthHandler) Version(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, VersionResponse{
		Name:        h.app.Name,
		Version:     h.app.Version,
		Environment: h.app.Environment,
	})
}
