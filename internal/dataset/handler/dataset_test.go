package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"negociosverdes/internal/dataset/validator"
	apperrors "negociosverdes/pkg/errors"
	httputil "negociosverdes/pkg/http"
	"negociosverdes/pkg/logger"
	"negociosverdes/pkg/model"
)

type mockDatasetService struct {
	snapshot   *model.Snapshot
	err        error
	lastQuery  model.RecordQuery
	refreshed  string
	refreshErr error
}

func (m *mockDatasetService) Snapshot(context.Context) (*model.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func (m *mockDatasetService) Refresh(_ context.Context, version string) (*model.Snapshot, error) {
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	m.refreshed = version
	if version == "" {
		version = "generated"
	}
	snap := *m.snapshot
	snap.Version = version
	return &snap, nil
}

func (m *mockDatasetService) List(_ context.Context, q model.RecordQuery) (*model.Table, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.lastQuery = q
	return m.snapshot.Table.Slice(q.Offset, q.Limit), m.snapshot.Table.Len(), nil
}

func (m *mockDatasetService) FilterOptions(context.Context) (*model.FilterOptions, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.FilterOptions{
		Regions:     []string{"ANDINA"},
		Departments: []string{"ANTIOQUIA"},
		Sectors:     []string{"Agroindustria"},
		Categories:  []string{"Compostaje/Biomasa"},
	}, nil
}

func (m *mockDatasetService) Loaded() bool { return m.snapshot != nil && m.err == nil }

func testSnapshot() *model.Snapshot {
	t := model.NewTable([]string{
		model.ColumnYear,
		model.ColumnRegion,
		model.ColumnDepartment,
		model.ColumnSector,
		model.ColumnAuthority,
		model.ColumnDescription,
		model.ColumnAlignmentCategories,
		model.ColumnAligned,
	})
	t.Append(model.Row{
		model.Int(2021), model.String("ANDINA"), model.String("ANTIOQUIA"), model.String("Agroindustria"),
		model.String("CORANTIOQUIA"), model.String("Compostaje"),
		model.String("Compostaje/Biomasa"), model.String(model.AlignedYes),
	})
	t.Append(model.Row{
		model.Int(2022), model.String("CARIBE"), model.String("ATLÁNTICO"), model.String("Ecoturismo"),
		model.String("CRA"), model.String("Senderismo"),
		model.String("No aplica"), model.String(model.AlignedNo),
	})
	return &model.Snapshot{
		Version: "20251025",
		Table:   t,
		Report:  model.RunReport{RunID: "run-1", Aligned: 1},
		Origin:  model.OriginPipeline,
	}
}

func newTestRouter(svc *mockDatasetService) *httprouter.Router {
	log := logger.Discard()
	router := httprouter.New()
	NewDatasetHandler(svc, validator.NewDatasetValidator(log), log).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, into))
}

func TestInfo(t *testing.T) {
	router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

	rec := serve(router, http.MethodGet, "/api/v1/dataset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info model.SnapshotInfo
	decodeData(t, rec, &info)
	assert.Equal(t, "20251025", info.Version)
	assert.Equal(t, 2, info.Rows)
	assert.Equal(t, "run-1", info.Report.RunID)
}

func TestInfoSourceUnavailable(t *testing.T) {
	router := newTestRouter(&mockDatasetService{err: apperrors.SourceUnavailable(errors.New("dial tcp: timeout"))})

	rec := serve(router, http.MethodGet, "/api/v1/dataset", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.CodeSourceUnavailable, resp.Code)
	assert.NotContains(t, rec.Body.String(), "dial tcp")
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantVersion string
	}{
		{name: "explicit version", body: `{"version":"v2"}`, wantStatus: http.StatusOK, wantVersion: "v2"},
		{name: "empty body", body: "", wantStatus: http.StatusOK, wantVersion: "generated"},
		{name: "bad token", body: `{"version":"v 2"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed json", body: `{"version":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

			rec := serve(router, http.MethodPost, "/api/v1/dataset/refresh", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantVersion != "" {
				var info model.SnapshotInfo
				decodeData(t, rec, &info)
				assert.Equal(t, tt.wantVersion, info.Version)
			}
		})
	}
}

func TestRecords(t *testing.T) {
	svc := &mockDatasetService{snapshot: testSnapshot()}
	router := newTestRouter(svc)

	rec := serve(router, http.MethodGet, "/api/v1/records?region=ANDINA,CARIBE&sector=Agroindustria&category=Compostaje/Biomasa&aligned=si&q=compost&limit=1&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []string{"ANDINA", "CARIBE"}, svc.lastQuery.Regions)
	assert.Equal(t, []string{"Agroindustria"}, svc.lastQuery.Sectors)
	assert.Equal(t, []string{"Compostaje/Biomasa"}, svc.lastQuery.Categories)
	require.NotNil(t, svc.lastQuery.Aligned)
	assert.True(t, *svc.lastQuery.Aligned)
	assert.Equal(t, "compost", svc.lastQuery.Search)

	var resp struct {
		Data       []map[string]any `json:"data"`
		TotalCount int64            `json:"total_count"`
		Limit      int              `json:"limit"`
		Offset     int              `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.Limit)
	assert.Equal(t, 1, resp.Offset)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "ATLÁNTICO", resp.Data[0][model.ColumnDepartment])
	assert.Equal(t, float64(2022), resp.Data[0][model.ColumnYear])
}

func TestRecordsInvalidParameters(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{name: "limit not a number", target: "/api/v1/records?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "aligned not a bool", target: "/api/v1/records?aligned=maybe", wantStatus: http.StatusBadRequest},
		{name: "unknown category", target: "/api/v1/records?category=Miner%C3%ADa", wantStatus: http.StatusUnprocessableEntity},
		{name: "search too long", target: "/api/v1/records?q=" + strings.Repeat("a", 201), wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})
			rec := serve(router, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestFilters(t *testing.T) {
	router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

	rec := serve(router, http.MethodGet, "/api/v1/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts model.FilterOptions
	decodeData(t, rec, &opts)
	assert.Equal(t, []string{"Compostaje/Biomasa"}, opts.Categories)
}

func TestCoordinates(t *testing.T) {
	router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

	rec := serve(router, http.MethodGet, "/api/v1/departments/bogota/coordinates", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var coords model.CoordinatesResponse
	decodeData(t, rec, &coords)
	assert.Equal(t, "BOGOTÁ, D.C.", coords.Department)
	assert.InDelta(t, 4.6097, coords.Lat, 1e-9)
	assert.InDelta(t, -74.0817, coords.Lon, 1e-9)

	rec = serve(router, http.MethodGet, "/api/v1/departments/atlantida/coordinates", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClassify(t *testing.T) {
	router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

	rec := serve(router, http.MethodPost, "/api/v1/classify", `{"description":"Planta de compostaje y reciclaje"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.ClassifyResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, []string{"Reciclaje/Reutilización", "Compostaje/Biomasa"}, resp.Categories)
	assert.Equal(t, "Reciclaje/Reutilización, Compostaje/Biomasa", resp.Label)
	assert.Equal(t, model.AlignedYes, resp.Aligned)

	rec = serve(router, http.MethodPost, "/api/v1/classify", `{"sector":"Ecoturismo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &resp)
	assert.Empty(t, resp.Categories)
	assert.Equal(t, "No aplica", resp.Label)
	assert.Equal(t, model.AlignedNo, resp.Aligned)

	rec = serve(router, http.MethodPost, "/api/v1/classify", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExport(t *testing.T) {
	router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

	rec := serve(router, http.MethodGet, "/api/v1/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "negocios_verdes_normalizados.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], model.ColumnYear+","))

	rec = serve(router, http.MethodGet, "/api/v1/export/xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	rec = serve(router, http.MethodGet, "/api/v1/export/pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsights(t *testing.T) {
	router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

	for _, path := range []string{
		"/api/v1/insights/overview",
		"/api/v1/insights/departments",
		"/api/v1/insights/sectors",
		"/api/v1/insights/authorities?top=5",
		"/api/v1/insights/years",
		"/api/v1/insights/alignment",
		"/api/v1/insights/regions",
	} {
		rec := serve(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := serve(router, http.MethodGet, "/api/v1/insights/sectors?top=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightsOverview(t *testing.T) {
	router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

	rec := serve(router, http.MethodGet, "/api/v1/insights/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Records int    `json:"records"`
		YearMin int64  `json:"year_min"`
		YearMax int64  `json:"year_max"`
		Summary string `json:"summary"`
	}
	decodeData(t, rec, &resp)
	assert.Equal(t, 2, resp.Records)
	assert.Equal(t, int64(2021), resp.YearMin)
	assert.Equal(t, int64(2022), resp.YearMax)
	assert.NotEmpty(t, resp.Summary)
}

func TestYearsOrdered(t *testing.T) {
	router := newTestRouter(&mockDatasetService{snapshot: testSnapshot()})

	rec := serve(router, http.MethodGet, "/api/v1/insights/years", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var years []struct {
		Year  int64 `json:"year"`
		Count int   `json:"count"`
	}
	decodeData(t, rec, &years)
	require.Len(t, years, 2)
	assert.Equal(t, int64(2021), years[0].Year)
	assert.Equal(t, int64(2022), years[1].Year)
}
