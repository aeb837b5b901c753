package insights

import (
	"fmt"
	"strings"

	"negociosverdes/pkg/model"
)

const noData = "No hay datos para mostrar."

// SummaryText renders the short Spanish summary shown above the registry table.
func SummaryText(t *model.Table) string {
	if t.Len() == 0 {
		return noData
	}
	o := Summarize(t)
	a := Alignment(t)

	var b strings.Builder
	b.WriteString("Resumen del subconjunto activo\n")
	fmt.Fprintf(&b, "* Registros: %d\n", o.Records)
	if o.TopDepartment != "" {
		fmt.Fprintf(&b, "* Departamento con más negocios: %s\n", o.TopDepartment)
	}
	if o.TopSector != "" {
		fmt.Fprintf(&b, "* Sector predominante: %s\n", o.TopSector)
	}
	if o.YearMin != nil && o.YearMax != nil {
		fmt.Fprintf(&b, "* Años cubiertos: %d – %d\n", *o.YearMin, *o.YearMax)
	}
	if t.Has(model.ColumnAlignmentCategories) {
		fmt.Fprintf(&b, "* Iniciativas alineadas con Basura Cero: %d (%.1f%%)\n", a.Aligned, a.Percent)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
