package handler

import (
	"net/http"

	"negociosverdes/internal/insights"
	apperrors "negociosverdes/pkg/errors"
	httputil "negociosverdes/pkg/http"
	"negociosverdes/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type OverviewResponse struct {
	insights.Overview
	Summary string `json:"summary"`
}

// insight serves an aggregation of the active snapshot.
func (h *DatasetHandler) insight(name string, compute func(r *http.Request, t *model.Table) (any, error)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		snap, err := h.service.Snapshot(r.Context())
		if err != nil {
			h.writeError(w, name, err)
			return
		}

		data, err := compute(r, snap.Table)
		if err != nil {
			h.writeError(w, name, err)
			return
		}
		h.writeSuccess(w, name, data)
	}
}

func topParam(r *http.Request, fallback int) (int, error) {
	n, err := httputil.ExtractInt(r, "top", fallback)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, apperrors.InvalidInput("top must be positive")
	}
	return n, nil
}

func overview(_ *http.Request, t *model.Table) (any, error) {
	return OverviewResponse{Overview: insights.Summarize(t), Summary: insights.SummaryText(t)}, nil
}

func departments(_ *http.Request, t *model.Table) (any, error) {
	return insights.Departments(t), nil
}

func sectors(r *http.Request, t *model.Table) (any, error) {
	n, err := topParam(r, insights.DefaultTopSectors)
	if err != nil {
		return nil, err
	}
	return insights.TopSectors(t, n), nil
}

func authorities(r *http.Request, t *model.Table) (any, error) {
	n, err := topParam(r, insights.DefaultTopAuthorities)
	if err != nil {
		return nil, err
	}
	return insights.TopAuthorities(t, n), nil
}

func years(_ *http.Request, t *model.Table) (any, error) {
	return insights.AnnualTrend(t), nil
}

func alignment(_ *http.Request, t *model.Table) (any, error) {
	return insights.Alignment(t), nil
}

func regions(_ *http.Request, t *model.Table) (any, error) {
	return insights.RegionCategoryMatrix(t), nil
}

func (h *DatasetHandler) registerInsights(router *httprouter.Router) {
	router.GET("/api/v1/insights/overview", h.insight("Overview", overview))
	router.GET("/api/v1/insights/departments", h.insight("Departments", departments))
	router.GET("/api/v1/insights/sectors", h.insight("Sectors", sectors))
	router.GET("/api/v1/insights/authorities", h.insight("Authorities", authorities))
	router.GET("/api/v1/insights/years", h.insight("Years", years))
	router.GET("/api/v1/insights/alignment", h.insight("Alignment", alignment))
	router.GET("/api/v1/insights/regions", h.insight("Regions", regions))
}
