// Bookshelf - Book Recommendations from Reader Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status  string  `json:"status"` // healthy, starting
	Version string  `json:"version,omitempty"`
	Ready   bool    `json:"ready"`
	State   string  `json:"state"`
	Rows    int     `json:"rows"`
	Cols    int     `json:"cols"`
	Uptime  float64 `json:"uptime"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.recommender.Status()

	status := "healthy"
	if !st.Ready {
		status = "starting"
	}

	NewResponseWriter(w, r).Success(HealthStatus{
		Status:  status,
		Version: h.version,
		Ready:   st.Ready,
		State:   st.State.String(),
		Rows:    st.Rows,
		Cols:    st.Cols,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}

// HealthLive handles the liveness probe. It succeeds as long as the
// process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles the readiness probe. It returns 503 until the
// neighbour index has been built.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.recommender.Ready()

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	NewResponseWriter(w, r).SuccessWithStatus(statusCode, map[string]any{
		"ready_to_serve": ready,
		"uptime":         time.Since(h.startTime).Seconds(),
	}, nil)
}
