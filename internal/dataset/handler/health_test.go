package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negociosverdes/internal/dataset/repository"
	"negociosverdes/pkg/logger"
	"negociosverdes/pkg/model"
)

type readiness bool

func (r readiness) Loaded() bool { return bool(r) }

type pingRepository struct {
	err error
}

func (p *pingRepository) Load(context.Context, string) (*model.Snapshot, error) { return nil, nil }
func (p *pingRepository) Save(context.Context, *model.Snapshot) error           { return nil }
func (p *pingRepository) Ping(context.Context) error                            { return p.err }

func TestHealth(t *testing.T) {
	router := httprouter.New()
	NewHealthHandler(readiness(false), nil, logger.Discard()).RegisterRoutes(router)

	rec := serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	tests := []struct {
		name         string
		loaded       bool
		repo         repository.SnapshotRepository
		wantStatus   int
		wantDataset  string
		wantDatabase string
	}{
		{name: "loaded without store", loaded: true, wantStatus: http.StatusOK, wantDataset: "loaded"},
		{name: "not loaded", loaded: false, wantStatus: http.StatusServiceUnavailable, wantDataset: "not_loaded"},
		{name: "store up", loaded: true, repo: &pingRepository{}, wantStatus: http.StatusOK, wantDataset: "loaded", wantDatabase: "ok"},
		{name: "store down", loaded: true, repo: &pingRepository{err: errors.New("no reachable servers")}, wantStatus: http.StatusServiceUnavailable, wantDataset: "loaded", wantDatabase: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(readiness(tt.loaded), tt.repo, logger.Discard()).RegisterRoutes(router)

			rec := serve(router, http.MethodGet, "/ready", "")
			require.Equal(t, tt.wantStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantDataset, resp.Dataset)
			assert.Equal(t, tt.wantDatabase, resp.Database)
		})
	}
}
