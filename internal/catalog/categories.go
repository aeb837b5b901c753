package catalog

import (
	"slices"
	"strings"

	"negociosverdes/pkg/sanitizer"
)

type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// categories are kept in declaration order; classification results follow it.
var categories = []Category{
	{"Reciclaje/Reutilización", []string{"recicl", "reutiliz", "reuso", "aprovech"}},
	{"Compostaje/Biomasa", []string{"compost", "orgánic", "biomasa", "abono"}},
	{"Producción limpia", []string{"producción limpia", "transformación sostenible", "ecodiseño", "eficiencia"}},
	{"Economía circular", []string{"economía circular", "ciclo cerrado", "remanufactura"}},
	{"Bioinsumos/Bioproductos", []string{"bioinsumo", "biodegrad", "biofertiliz", "bioproduct"}},
	{"Energía renovable", []string{"energía solar", "energía renovable", "biogás", "panel solar", "fotovoltaic"}},
	{"Agroecología/Sostenibilidad rural", []string{"agroecolog", "agroindustria sostenible", "sostenible", "ecológica"}},
}

// Categories returns a copy of the Basura Cero categories in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Keywords: slices.Clone(c.Keywords)}
	}
	return out
}

func CategoryNames() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

// MatchKey is the accent-insensitive form free-text search compares in: lower-cased
// with accents folded. The classifier does not use it.
func MatchKey(s string) string {
	return sanitizer.FoldAccents(strings.ToLower(sanitizer.NFC(s)))
}
