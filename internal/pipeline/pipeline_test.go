package pipeline

import (
	"context"
	"errors"
	"testing"

	"negociosverdes/internal/classifier"
	"negociosverdes/internal/source"
	"negociosverdes/pkg/logger"
	"negociosverdes/pkg/metrics"
	"negociosverdes/pkg/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s(v string) model.Value { return model.String(v) }

func rawRegistry() *model.Table {
	t := model.NewTable([]string{
		"año", "región\nREGION (texto)", " departamento ", "autoridad ambiental ",
		"categoría", "sector", "subsector", "descripción", "producto principal",
	})
	t.Append(model.Row{
		s("2,023"), s("pacifico"), s("bogota d.c"), s("car"),
		s("1.2. Bienes y servicios"), s("2. agroindustria"), s("1.1 residuos"),
		s("fabricación de compost orgánico"), s("miel."),
	})
	t.Append(model.Row{
		s("N/A"), model.Null(), s("valle"), s(" cvc"),
		s("Bienes"), s("comercio"), s("artesanías"),
		s("venta de artesanías en madera"), s("Mochilas"),
	})
	t.Append(model.Row{
		s("2020"), s("caribe"), s("Atlántico"), s("CVC"),
		model.Null(), s("manufactura"), model.Null(),
		s("reciclaje de plástico y producción limpia"), model.Null(),
	})
	return t
}

func TestClean_Registry(t *testing.T) {
	raw := rawRegistry()
	table, reports := Clean(raw)

	require.Len(t, reports, len(StepNames()))
	for _, r := range reports {
		assert.Equal(t, Applied, r.Outcome, r.Name)
	}

	assert.Equal(t, []string{
		model.ColumnYear, model.ColumnRegion, model.ColumnDepartment, model.ColumnAuthority,
		model.ColumnCategory, model.ColumnSector, model.ColumnSubsector, model.ColumnDescription,
		model.ColumnProduct, model.ColumnAlignmentCategories, model.ColumnAligned,
	}, table.Columns)

	t.Run("year", func(t *testing.T) {
		assert.Equal(t, model.Int(2023), table.Get(0, model.ColumnYear))
		assert.True(t, table.Get(1, model.ColumnYear).IsNull())
		assert.Equal(t, model.Int(2020), table.Get(2, model.ColumnYear))
	})

	t.Run("region", func(t *testing.T) {
		assert.Equal(t, s("PACÍFICO"), table.Get(0, model.ColumnRegion))
		assert.Equal(t, s("PACÍFICO"), table.Get(1, model.ColumnRegion), "inferred from CVC")
		assert.Equal(t, s("CARIBE"), table.Get(2, model.ColumnRegion), "explicit region wins")
	})

	t.Run("department", func(t *testing.T) {
		assert.Equal(t, s("BOGOTÁ, D.C."), table.Get(0, model.ColumnDepartment))
		assert.Equal(t, s("VALLE DEL CAUCA"), table.Get(1, model.ColumnDepartment))
		assert.Equal(t, s("ATLÁNTICO"), table.Get(2, model.ColumnDepartment))
	})

	t.Run("text columns", func(t *testing.T) {
		assert.Equal(t, s("CAR"), table.Get(0, model.ColumnAuthority))
		assert.Equal(t, s("Bienes y servicios"), table.Get(0, model.ColumnCategory))
		assert.Equal(t, s("AGROINDUSTRIA"), table.Get(0, model.ColumnSector))
		assert.Equal(t, s("residuos"), table.Get(0, model.ColumnSubsector))
		assert.Equal(t, s("MIEL DE ABEJAS"), table.Get(0, model.ColumnProduct))
		assert.Equal(t, s("MOCHILAS"), table.Get(1, model.ColumnProduct))
		assert.True(t, table.Get(2, model.ColumnProduct).IsNull())
	})

	t.Run("classification", func(t *testing.T) {
		assert.Equal(t, s("Compostaje/Biomasa"), table.Get(0, model.ColumnAlignmentCategories))
		assert.Equal(t, s(classifier.NoMatch), table.Get(1, model.ColumnAlignmentCategories))
		assert.Equal(t, s("Reciclaje/Reutilización, Producción limpia"), table.Get(2, model.ColumnAlignmentCategories))

		assert.Equal(t, s(model.AlignedYes), table.Get(0, model.ColumnAligned))
		assert.Equal(t, s(model.AlignedNo), table.Get(1, model.ColumnAligned))
		assert.Equal(t, s(model.AlignedYes), table.Get(2, model.ColumnAligned))
	})

	t.Run("raw untouched", func(t *testing.T) {
		assert.Equal(t, "año", raw.Columns[0])
		assert.Equal(t, s("2,023"), raw.Get(0, "año"))
		assert.False(t, raw.Has(model.ColumnAligned))
	})
}

func TestClean_SchemaDrift(t *testing.T) {
	raw := model.NewTable([]string{"AÑO", "DESCRIPCIÓN", "SECTOR"})
	raw.Append(model.Row{s("2021"), s("compost"), s("agro")})

	table, reports := Clean(raw)
	report := Report{Steps: reports}

	classify, ok := report.Step(StepClassify)
	require.True(t, ok)
	assert.Equal(t, Skipped, classify.Outcome)
	assert.Equal(t, "missing column SUBSECTOR", classify.Reason)

	region, _ := report.Step(StepNormalizeRegion)
	assert.Equal(t, Skipped, region.Outcome)

	numbering, _ := report.Step(StepStripNumbering)
	assert.Equal(t, Applied, numbering.Outcome, "one numbered column is enough")

	assert.False(t, table.Has(model.ColumnAlignmentCategories))
	assert.False(t, table.Has(model.ColumnAligned))
	assert.Contains(t, report.SkippedSteps(), StepAligned)
	assert.Equal(t, model.Int(2021), table.Get(0, model.ColumnYear))
}

func TestClean_PrecomputedCategoriesStillDeriveFlag(t *testing.T) {
	raw := model.NewTable([]string{"RELACIÓN BASURA CERO"})
	raw.Append(model.Row{s("Economía circular")})
	raw.Append(model.Row{s(" no disponible ")})
	raw.Append(model.Row{model.Null()})

	table, _ := Clean(raw)

	assert.Equal(t, []model.Value{s(model.AlignedYes), s(model.AlignedNo), s(model.AlignedNo)},
		table.Column(model.ColumnAligned))
}

func TestClean_Idempotent(t *testing.T) {
	once, _ := Clean(rawRegistry())
	twice, reports := Clean(once)

	assert.Equal(t, once.Rows, twice.Rows)
	for _, r := range reports {
		if r.Name == StepClassify || r.Name == StepAligned {
			continue
		}
		assert.Zero(t, r.Changed, r.Name)
	}
}

func TestPipeline_Run(t *testing.T) {
	m := metrics.New()
	p := New(source.NewStatic("memory", rawRegistry()), logger.Discard(), m)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Report.RunID)
	assert.Equal(t, "memory", result.Report.Source)
	assert.Equal(t, 3, result.Report.InputRows)
	assert.Equal(t, 3, result.Report.OutputRows)
	assert.Equal(t, 2, result.Report.Aligned)
	assert.Empty(t, result.Report.SkippedSteps())
	assert.False(t, result.Report.FinishedAt.Before(result.Report.StartedAt))

	runs, err := testutil.GatherAndCount(m.Registry(), "negocios_verdes_pipeline_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}

type failingSource struct{}

func (failingSource) Fetch(context.Context) (*model.Table, error) {
	return nil, errors.New("connection refused")
}

func (failingSource) Name() string { return "broken" }

func TestPipeline_RunFetchFailure(t *testing.T) {
	p := New(failingSource{}, logger.Discard(), nil)

	result, err := p.Run(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "connection refused")
}
