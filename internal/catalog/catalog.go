// Package catalog holds the fixed reference tables of the green business registry:
// canonical departments and their coordinates, the environmental authority to
// region map and the Basura Cero keyword categories.
//
// Tables are package-level and never mutated after init. Accessors that return
// slices or maps return copies.
package catalog

import "negociosverdes/pkg/sanitizer"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// departmentKey is the lookup form of a department name: upper-cased with periods and
// commas turned into spaces, whitespace collapsed, and accents folded.
var departmentKey = sanitizer.Pipeline{
	sanitizer.NFC,
	sanitizer.Upper,
	sanitizer.ReplaceWith(".,", " "),
	sanitizer.TrimAndNormalize,
	sanitizer.FoldAccents,
}

// authorityKey is the lookup form of an authority code.
var authorityKey = sanitizer.Key

func DepartmentKey(name string) string {
	return departmentKey.Apply(name)
}

func AuthorityKey(code string) string {
	return authorityKey.Apply(code)
}
