package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"negociosverdes/internal/dataset/repository"
	httputil "negociosverdes/pkg/http"
	"negociosverdes/pkg/logger"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Dataset  string `json:"dataset,omitempty"`
	Database string `json:"database,omitempty"`
}

// Readiness is the part of the dataset service the readiness probe looks at.
type Readiness interface {
	Loaded() bool
}

type HealthHandler struct {
	dataset Readiness
	repo    repository.SnapshotRepository
	log     *logger.Logger
}

// NewHealthHandler builds the probes. repo is nil when no snapshot store is configured.
func NewHealthHandler(dataset Readiness, repo repository.SnapshotRepository, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		dataset: dataset,
		repo:    repo,
		log:     log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := HealthResponse{Status: "ready", Dataset: "loaded"}
	status := http.StatusOK

	if !h.dataset.Loaded() {
		resp.Status = "unavailable"
		resp.Dataset = "not_loaded"
		status = http.StatusServiceUnavailable
	}

	if h.repo != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp.Database = "ok"
		if err := h.repo.Ping(ctx); err != nil {
			h.log.Error("Database health check failed",
				"error", err,
				"path", r.URL.Path,
			)
			resp.Status = "unavailable"
			resp.Database = "error"
			status = http.StatusServiceUnavailable
		}
	}

	if err := httputil.WriteJSON(w, status, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
