package pipeline

import (
	"strings"

	"negociosverdes/internal/classifier"
	"negociosverdes/internal/normalize"
	"negociosverdes/pkg/model"
	"negociosverdes/pkg/sanitizer"
)

// Step names, in execution order.
const (
	StepRepairHeaders       = "repair_headers"
	StepCoerceYear          = "coerce_year"
	StepNormalizeAuthority  = "normalize_authority"
	StepNormalizeRegion     = "normalize_region"
	StepNormalizeDepartment = "normalize_department"
	StepStripNumbering      = "strip_numbering"
	StepNormalizeSector     = "normalize_sector"
	StepNormalizeProduct    = "normalize_product"
	StepClassify            = "classify"
	StepAligned             = "aligned"
)

// numberedColumns carry outline numbering such as "1.2. " in the raw extract.
var numberedColumns = []string{model.ColumnCategory, model.ColumnSector, model.ColumnSubsector}

type step struct {
	name string
	// requires lists columns that must all be present.
	requires []string
	// requiresAny lists columns of which at least one must be present.
	requiresAny []string
	apply       func(t *model.Table) int
}

var steps = []step{
	{
		name:  StepRepairHeaders,
		apply: repairHeaders,
	},
	{
		name:     StepCoerceYear,
		requires: []string{model.ColumnYear},
		apply:    mapper(model.ColumnYear, normalize.Year),
	},
	{
		name:     StepNormalizeAuthority,
		requires: []string{model.ColumnAuthority},
		apply:    mapper(model.ColumnAuthority, normalize.Authority),
	},
	{
		name:     StepNormalizeRegion,
		requires: []string{model.ColumnRegion},
		apply:    resolveRegions,
	},
	{
		name:     StepNormalizeDepartment,
		requires: []string{model.ColumnDepartment},
		apply:    mapper(model.ColumnDepartment, normalize.Department),
	},
	{
		name:        StepStripNumbering,
		requiresAny: numberedColumns,
		apply:       stripNumbering,
	},
	{
		name:     StepNormalizeSector,
		requires: []string{model.ColumnSector},
		apply:    mapper(model.ColumnSector, normalize.Sector),
	},
	{
		name:     StepNormalizeProduct,
		requires: []string{model.ColumnProduct},
		apply:    mapper(model.ColumnProduct, normalize.Product),
	},
	{
		name:     StepClassify,
		requires: []string{model.ColumnDescription, model.ColumnSector, model.ColumnSubsector},
		apply:    classify,
	},
	{
		name:     StepAligned,
		requires: []string{model.ColumnAlignmentCategories},
		apply:    aligned,
	},
}

// StepNames lists every step in execution order.
func StepNames() []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return names
}

// missing returns the reason a step cannot run on t, or "".
func (s step) missing(t *model.Table) string {
	var absent []string
	for _, c := range s.requires {
		if !t.Has(c) {
			absent = append(absent, c)
		}
	}
	if len(s.requiresAny) > 0 && !anyPresent(t, s.requiresAny) {
		absent = append(absent, s.requiresAny...)
	}
	switch len(absent) {
	case 0:
		return ""
	case 1:
		return "missing column " + absent[0]
	default:
		return "missing columns " + strings.Join(absent, ", ")
	}
}

func anyPresent(t *model.Table, columns []string) bool {
	for _, c := range columns {
		if t.Has(c) {
			return true
		}
	}
	return false
}

// mapper rewrites every cell of column with fn and counts the cells that changed.
func mapper(column string, fn func(model.Value) model.Value) func(*model.Table) int {
	return func(t *model.Table) int {
		return mapColumn(t, column, fn)
	}
}

func mapColumn(t *model.Table, column string, fn func(model.Value) model.Value) int {
	return mapRows(t, column, func(_ int, v model.Value) model.Value { return fn(v) })
}

func repairHeaders(t *model.Table) int {
	columns := make([]string, len(t.Columns))
	changed := 0
	for i, c := range t.Columns {
		columns[i] = sanitizer.SanitizeHeader(c)
		if columns[i] != c {
			changed++
		}
	}
	t.SetColumns(columns)
	return changed
}

// resolveRegions normalizes the region, fills gaps from the authority and normalizes
// again so inferred values share the canonical spelling.
func resolveRegions(t *model.Table) int {
	hasAuthority := t.Has(model.ColumnAuthority)
	return mapRows(t, model.ColumnRegion, func(i int, v model.Value) model.Value {
		v = normalize.Region(v)
		if hasAuthority {
			v = normalize.InferRegion(v, t.Get(i, model.ColumnAuthority))
		}
		return normalize.Region(v)
	})
}

func stripNumbering(t *model.Table) int {
	changed := 0
	for _, c := range numberedColumns {
		if t.Has(c) {
			changed += mapColumn(t, c, normalize.StripLeadingNumbering)
		}
	}
	return changed
}

func classify(t *model.Table) int {
	t.AddColumn(model.ColumnAlignmentCategories)
	return mapRows(t, model.ColumnAlignmentCategories, func(i int, _ model.Value) model.Value {
		return model.String(classifier.ClassifyRecord(
			t.Get(i, model.ColumnDescription),
			t.Get(i, model.ColumnSector),
			t.Get(i, model.ColumnSubsector),
		))
	})
}

func aligned(t *model.Table) int {
	t.AddColumn(model.ColumnAligned)
	return mapRows(t, model.ColumnAligned, func(i int, _ model.Value) model.Value {
		return model.String(classifier.Aligned(t.Get(i, model.ColumnAlignmentCategories)))
	})
}

func mapRows(t *model.Table, column string, fn func(i int, v model.Value) model.Value) int {
	changed := 0
	for i := range t.Rows {
		before := t.Get(i, column)
		after := fn(i, before)
		if !after.Equal(before) {
			t.Set(i, column, after)
			changed++
		}
	}
	return changed
}
