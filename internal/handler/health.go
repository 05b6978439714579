// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/vitrine/internal/session"
	"github.com/olegiv/vitrine/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	sm         *scs.SessionManager
	uploadsDir string
	startTime  time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, sm *scs.SessionManager, uploadsDir string) *HealthHandler {
	return &HealthHandler{
		db:         db,
		sm:         sm,
		uploadsDir: uploadsDir,
		startTime:  time.Now(),
	}
}

// HealthStatus is the /health response. Only signed-in callers see
// anything beyond Status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp *time.Time       `json:"timestamp,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   *version.Info    `json:"version,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	uploadsCheck := h.checkUploads()

	status := HealthStatus{Status: statusHealthy}
	code := http.StatusOK
	if dbCheck.Status != statusHealthy || uploadsCheck.Status != statusHealthy {
		status.Status = statusDegraded
		code = http.StatusServiceUnavailable
	}

	if h.signedIn(r) {
		now := time.Now().UTC()
		info := version.Get()
		status.Timestamp = &now
		status.Uptime = time.Since(h.startTime).Round(time.Second).String()
		status.Version = &info
		status.Checks = map[string]Check{"database": dbCheck, "uploads": uploadsCheck}
		if r.URL.Query().Get("verbose") == "true" {
			status.System = &SystemInfo{
				GoVersion:    runtime.Version(),
				NumGoroutine: runtime.NumGoroutine(),
				NumCPU:       runtime.NumCPU(),
			}
		}
	}

	writeJSON(w, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.checkDatabase(r.Context()).Status != statusHealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// signedIn reports whether the request carries a signed-in session.
// It returns false, without panicking, when no session is loaded.
func (h *HealthHandler) signedIn(r *http.Request) (ok bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()
	return session.UserID(r.Context(), h.sm) > 0
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: statusUnhealthy, Message: "database unreachable"}
	}
	return Check{Status: statusHealthy, Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkUploads() Check {
	if h.uploadsDir == "" {
		return Check{Status: statusHealthy, Message: "not configured"}
	}
	info, err := os.Stat(h.uploadsDir)
	if err != nil || !info.IsDir() {
		return Check{Status: statusUnhealthy, Message: "uploads directory missing"}
	}
	return Check{Status: statusHealthy}
}
