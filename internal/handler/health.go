package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/segyhp/upn-qr/internal/repository"
	"github.com/segyhp/upn-qr/pkg/response"
)

type HealthHandler struct {
	schema  string
	images  repository.ImageRepository
	timeout time.Duration
}

// NewHealthHandler creates a health handler. images may be nil when the
// render cache is disabled.
func NewHealthHandler(schema string, images repository.ImageRepository) *HealthHandler {
	return &HealthHandler{
		schema:  schema,
		images:  images,
		timeout: 5 * time.Second,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready performs readiness check including schema and render cache connectivity
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	status.Checks["schema"] = "ok: " + h.schema

	if h.images == nil {
		status.Checks["render_cache"] = "disabled"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		if err := h.images.Ping(ctx); err != nil {
			status.Status = "error"
			status.Checks["render_cache"] = "failed: " + err.Error()
		} else {
			status.Checks["render_cache"] = "ok"
		}
	}

	if status.Status == "error" {
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}

	response.Success(w, status)
}
