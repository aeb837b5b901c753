// Package normalize maps raw registry cells to their cleaned form.
//
// Every function here is total: null cells stay null, values that no table
// recognizes pass through in cleaned form, and nothing panics.
package normalize

import (
	"negociosverdes/internal/catalog"
	"negociosverdes/pkg/model"
	"negociosverdes/pkg/sanitizer"
)

// regionSpellings maps the accent-folded form of a region to its canonical spelling.
var regionSpellings = map[string]string{
	"CARIBE":    catalog.RegionCaribe,
	"ANDINA":    catalog.RegionAndina,
	"PACIFICO":  catalog.RegionPacifico,
	"ORINOQUIA": catalog.RegionOrinoquia,
	"AMAZONIA":  catalog.RegionAmazonia,
}

var departmentText = sanitizer.Pipeline{
	sanitizer.NFC,
	sanitizer.Upper,
	sanitizer.ReplaceWith(".,", " "),
	sanitizer.TrimAndNormalize,
}

// Region trims and upper-cases a region and restores the accents of the five
// continental regions. Unrecognized regions are returned trimmed and upper-cased.
func Region(v model.Value) model.Value {
	return v.Map(region)
}

func region(s string) string {
	label := sanitizer.Pipeline{sanitizer.NFC, sanitizer.Trim, sanitizer.Upper}.Apply(s)
	if canonical, ok := regionSpellings[sanitizer.FoldAccents(label)]; ok {
		return canonical
	}
	return label
}

// Department resolves a department to its canonical name. Names the catalog does not
// know are returned upper-cased with periods and commas replaced and whitespace
// collapsed.
func Department(v model.Value) model.Value {
	return v.Map(department)
}

func department(s string) string {
	if canonical, ok := catalog.CanonicalDepartment(s); ok {
		return canonical
	}
	return departmentText.Apply(s)
}

// Coordinates returns the position of a department given under any spelling.
func Coordinates(v model.Value) (catalog.Coordinates, bool) {
	if v.Kind() != model.KindString {
		return catalog.Coordinates{}, false
	}
	canonical, ok := catalog.CanonicalDepartment(v.Text())
	if !ok {
		return catalog.Coordinates{}, false
	}
	return catalog.DepartmentCoordinates(canonical)
}

// IsUnregistered reports whether a region cell carries no usable value.
func IsUnregistered(v model.Value) bool {
	if v.IsNull() {
		return true
	}
	return sanitizer.SanitizeKey(v.Text()) == catalog.RegionNoRegistra
}

// InferRegion keeps an explicit region and only fills null or "no registra" cells
// from the environmental authority table. When the authority is unknown the region
// is returned as given.
func InferRegion(region, authority model.Value) model.Value {
	if !IsUnregistered(region) {
		return region
	}
	if authority.Kind() != model.KindString {
		return region
	}
	if inferred, ok := catalog.AuthorityRegion(authority.Text()); ok {
		return model.String(inferred)
	}
	return region
}
