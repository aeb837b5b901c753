package normalize

import (
	"negociosverdes/pkg/model"
	"negociosverdes/pkg/sanitizer"
)

// productRenames expands product names that the registry abbreviates.
var productRenames = map[string]string{
	"MIEL": "MIEL DE ABEJAS",
}

var (
	label   = sanitizer.Pipeline{sanitizer.NFC, sanitizer.Trim, sanitizer.Upper}
	product = sanitizer.Pipeline{sanitizer.NFC, sanitizer.Upper, sanitizer.Remove(".")}
)

// StripLeadingNumbering removes outline numbering like "1.2. " from a text cell.
func StripLeadingNumbering(v model.Value) model.Value {
	return v.Map(sanitizer.StripLeadingNumbering)
}

// Sector trims and upper-cases a sector name.
func Sector(v model.Value) model.Value {
	return v.Map(label.Apply)
}

// Authority trims and upper-cases an environmental authority acronym.
func Authority(v model.Value) model.Value {
	return v.Map(label.Apply)
}

// Product upper-cases a product name, drops periods and expands known abbreviations.
// Surrounding whitespace is kept, so only an exact abbreviation is expanded.
func Product(v model.Value) model.Value {
	return v.Map(func(s string) string {
		s = product.Apply(s)
		if renamed, ok := productRenames[s]; ok {
			return renamed
		}
		return s
	})
}
