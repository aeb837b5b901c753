package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"negociosverdes/internal/catalog"
	"negociosverdes/internal/classifier"
	"negociosverdes/internal/dataset/service"
	"negociosverdes/internal/dataset/validator"
	"negociosverdes/internal/export"
	"negociosverdes/internal/normalize"
	apperrors "negociosverdes/pkg/errors"
	httputil "negociosverdes/pkg/http"
	"negociosverdes/pkg/logger"
	"negociosverdes/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DatasetHandler struct {
	service   service.DatasetService
	validator *validator.DatasetValidator
	log       *logger.Logger
}

func NewDatasetHandler(service service.DatasetService, validator *validator.DatasetValidator, log *logger.Logger) *DatasetHandler {
	return &DatasetHandler{
		service:   service,
		validator: validator,
		log:       log,
	}
}

func (h *DatasetHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *DatasetHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

// validationError maps validator output to a 422 carrying the per-field messages.
func validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.InvalidInput(err.Error())
}

func (h *DatasetHandler) Info(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, "Info", err)
		return
	}
	h.writeSuccess(w, "Info", snap.Info())
}

func (h *DatasetHandler) Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Refresh", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.validator.ValidateRefresh(&req); err != nil {
		h.writeError(w, "Refresh", validationError("Invalid refresh request", err))
		return
	}

	snap, err := h.service.Refresh(r.Context(), req.Version)
	if err != nil {
		h.writeError(w, "Refresh", err)
		return
	}
	h.writeSuccess(w, "Refresh", snap.Info())
}

func (h *DatasetHandler) Records(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query, err := parseRecordQuery(r)
	if err != nil {
		h.writeError(w, "Records", err)
		return
	}

	if err := h.validator.ValidateQuery(&query); err != nil {
		h.writeError(w, "Records", validationError("Invalid records query", err))
		return
	}

	page, total, err := h.service.List(r.Context(), query)
	if err != nil {
		h.writeError(w, "Records", err)
		return
	}

	if err := httputil.WritePaginated(w, page.Records(), int64(total), query.Limit, query.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Records", "operation", "WritePaginated", "error", err)
	}
}

func (h *DatasetHandler) Filters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.writeError(w, "Filters", err)
		return
	}
	h.writeSuccess(w, "Filters", opts)
}

func (h *DatasetHandler) Coordinates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")

	canonical, ok := catalog.CanonicalDepartment(name)
	if !ok {
		h.writeError(w, "Coordinates", apperrors.NotFoundWithKey("Department", name))
		return
	}
	coords, ok := normalize.Coordinates(model.String(canonical))
	if !ok {
		h.writeError(w, "Coordinates", apperrors.NotFoundWithKey("Department coordinates", name))
		return
	}

	h.writeSuccess(w, "Coordinates", model.CoordinatesResponse{
		Department: canonical,
		Lat:        coords.Lat,
		Lon:        coords.Lon,
	})
}

func (h *DatasetHandler) Classify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Classify", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.validator.ValidateClassify(&req); err != nil {
		h.writeError(w, "Classify", validationError("Invalid classification request", err))
		return
	}

	categories := classifier.Classify(req.Description, req.Sector, req.Subsector)
	label := classifier.Join(categories)

	h.writeSuccess(w, "Classify", model.ClassifyResponse{
		Categories: categories,
		Label:      label,
		Aligned:    classifier.Aligned(model.String(label)),
	})
}

// Export downloads the full cleaned table. Filters do not apply.
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	format, err := export.ParseFormat(ps.ByName("format"))
	if err != nil {
		h.writeError(w, "Export", apperrors.InvalidInput(err.Error()))
		return
	}

	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(r.Context(), &buf, format, snap.Table); err != nil {
		h.log.Error("Export failed", "format", format, "version", snap.Version, "error", err)
		h.writeError(w, "Export", apperrors.Internal("Failed to export dataset", err))
		return
	}

	if err := httputil.WriteAttachment(w, format.Filename(), format.ContentType(), func(out io.Writer) error {
		_, err := buf.WriteTo(out)
		return err
	}); err != nil {
		h.log.Error("failed to write attachment", "handler", "Export", "operation", "WriteAttachment", "error", err)
	}
}

func (h *DatasetHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/dataset", h.Info)
	router.POST("/api/v1/dataset/refresh", h.Refresh)
	router.GET("/api/v1/records", h.Records)
	router.GET("/api/v1/filters", h.Filters)
	router.GET("/api/v1/departments/:name/coordinates", h.Coordinates)
	router.POST("/api/v1/classify", h.Classify)
	router.GET("/api/v1/export/:format", h.Export)
	h.registerInsights(router)
}
