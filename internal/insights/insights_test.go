package insights

import (
	"testing"

	"negociosverdes/internal/classifier"
	"negociosverdes/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s(v string) model.Value { return model.String(v) }

func cleaned() *model.Table {
	t := model.NewTable([]string{
		model.ColumnYear, model.ColumnRegion, model.ColumnDepartment, model.ColumnAuthority,
		model.ColumnSector, model.ColumnDescription, model.ColumnAlignmentCategories, model.ColumnAligned,
	})
	rows := []model.Row{
		{model.Int(2021), s("ANDINA"), s("BOGOTÁ, D.C."), s("SDA"), s("AGROINDUSTRIA"), s("miel de abejas"), s("Compostaje/Biomasa"), s("Sí")},
		{model.Int(2023), s("ANDINA"), s("BOGOTÁ, D.C."), s("SDA"), s("AGROINDUSTRIA"), s("café"), s(classifier.NoMatch), s("No")},
		{model.Int(2021), s("PACÍFICO"), s("VALLE DEL CAUCA"), s("CVC"), s("ENERGÍA"), s("paneles"), s("Reciclaje/Reutilización, Compostaje/Biomasa"), s("Sí")},
		{model.Null(), model.Null(), s("ATLANTIDA"), model.Null(), s("TURISMO"), s("Miel y turismo"), s("Energía renovable"), s("Sí")},
	}
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func TestSummarize(t *testing.T) {
	o := Summarize(cleaned())

	assert.Equal(t, 4, o.Records)
	assert.Equal(t, 8, o.Columns)
	assert.Equal(t, 3, o.Departments)
	assert.Equal(t, "BOGOTÁ, D.C.", o.TopDepartment)
	assert.Equal(t, "ANDINA", o.TopRegion)
	assert.Equal(t, "AGROINDUSTRIA", o.TopSector)
	require.NotNil(t, o.YearMin)
	require.NotNil(t, o.YearMax)
	assert.Equal(t, int64(2021), *o.YearMin)
	assert.Equal(t, int64(2023), *o.YearMax)
	assert.Equal(t, Share{Count: 2, Percent: 50}, o.Honey)
	assert.Equal(t, Share{Count: 1, Percent: 25}, o.Energy)
}

func TestSummarize_EmptyTable(t *testing.T) {
	o := Summarize(model.NewTable(nil))

	assert.Zero(t, o.Records)
	assert.Nil(t, o.YearMin)
	assert.Empty(t, o.TopDepartment)
}

func TestDepartments(t *testing.T) {
	stats := Departments(cleaned())

	require.Len(t, stats, 2, "unknown departments have no coordinates")
	assert.Equal(t, "BOGOTÁ, D.C.", stats[0].Department)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 1, stats[0].Aligned)
	assert.Equal(t, 50.0, stats[0].Percent)
	assert.InDelta(t, 4.6097, stats[0].Lat, 1e-4)
	assert.InDelta(t, -74.0817, stats[0].Lon, 1e-4)

	assert.Equal(t, "VALLE DEL CAUCA", stats[1].Department)
	assert.Equal(t, 100.0, stats[1].Percent)
	assert.NotEmpty(t, stats[1].Color)
}

func TestTopSectors(t *testing.T) {
	assert.Equal(t, []Count{{"AGROINDUSTRIA", 2}, {"ENERGÍA", 1}, {"TURISMO", 1}}, TopSectors(cleaned(), 0))
	assert.Equal(t, []Count{{"AGROINDUSTRIA", 2}}, TopSectors(cleaned(), 1))
	assert.Empty(t, TopSectors(model.NewTable([]string{"OTHER"}), 5))
}

func TestTopAuthorities(t *testing.T) {
	stats := TopAuthorities(cleaned(), 0)

	require.Len(t, stats, 3)
	assert.Equal(t, AuthorityStat{Authority: "SDA", Total: 2, Aligned: 1, Unaligned: 1, Percent: 50}, stats[0])
	assert.Equal(t, "CVC", stats[1].Authority)
	assert.Equal(t, UnregisteredAuthority, stats[2].Authority)
	assert.Equal(t, 1, stats[2].Aligned)
}

func TestAnnualTrend(t *testing.T) {
	assert.Equal(t, []YearCount{{2021, 2}, {2023, 1}}, AnnualTrend(cleaned()))
}

func TestAlignment(t *testing.T) {
	a := Alignment(cleaned())

	assert.Equal(t, 3, a.Aligned)
	assert.Equal(t, 1, a.Unaligned)
	assert.Equal(t, 75.0, a.Percent)
	assert.Equal(t, []Count{
		{"Compostaje/Biomasa", 2},
		{"Energía renovable", 1},
		{"Reciclaje/Reutilización", 1},
	}, a.Categories)
}

func TestRegionCategoryMatrix(t *testing.T) {
	assert.Equal(t, []MatrixCell{
		{Region: "ANDINA", Category: "Compostaje/Biomasa", Count: 1},
		{Region: "PACÍFICO", Category: "Reciclaje/Reutilización", Count: 1},
		{Region: "PACÍFICO", Category: "Compostaje/Biomasa", Count: 1},
	}, RegionCategoryMatrix(cleaned()))
}

func TestSummaryText(t *testing.T) {
	text := SummaryText(cleaned())

	assert.Contains(t, text, "Departamento con más negocios: BOGOTÁ, D.C.")
	assert.Contains(t, text, "Sector predominante: AGROINDUSTRIA")
	assert.Contains(t, text, "Años cubiertos: 2021 – 2023")
	assert.Contains(t, text, "Basura Cero: 3 (75.0%)")

	assert.Equal(t, noData, SummaryText(model.NewTable(nil)))
}
