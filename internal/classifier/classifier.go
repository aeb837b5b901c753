// Package classifier tags registry records with the Basura Cero categories their free
// text mentions.
//
// Matching is unanchored substring containment of keyword stems, so "recicl" also hits
// "reciclador". Text and keywords are compared lower-cased; accents are significant,
// so "organico" does not hit the "orgánic" stem.
package classifier

import (
	"strings"

	"negociosverdes/internal/catalog"
	"negociosverdes/pkg/model"
	"negociosverdes/pkg/sanitizer"
)

const (
	// NoMatch is stored when a record hits no category.
	NoMatch = "No aplica"
	// Unavailable marks a record whose classification could not be computed.
	Unavailable = "No disponible"

	separator = ", "
)

type Category = string

type rule struct {
	name     string
	keywords []string
}

var rules []rule

func init() {
	for _, c := range catalog.Categories() {
		r := rule{name: c.Name}
		for _, k := range c.Keywords {
			r.keywords = append(r.keywords, keywordKey(k))
		}
		rules = append(rules, r)
	}
}

// Classify returns the categories whose keywords occur in any of the given fields, in
// catalog order. Each field is searched on its own, so the result does not depend on
// the order the fields are passed in.
func Classify(fields ...string) []Category {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			keys = append(keys, keywordKey(f))
		}
	}

	out := []Category{}
	for _, r := range rules {
		if matchesAny(keys, r.keywords) {
			out = append(out, r.name)
		}
	}
	return out
}

func keywordKey(s string) string {
	return strings.ToLower(sanitizer.NFC(s))
}

func matchesAny(texts, keywords []string) bool {
	for _, t := range texts {
		for _, k := range keywords {
			if strings.Contains(t, k) {
				return true
			}
		}
	}
	return false
}

// Join renders a classification the way it is stored in the table.
func Join(categories []Category) string {
	if len(categories) == 0 {
		return NoMatch
	}
	return strings.Join(categories, separator)
}

// Split is the inverse of Join. The NoMatch and Unavailable sentinels split to nothing.
func Split(joined string) []Category {
	if !HasAlignment(joined) {
		return []Category{}
	}
	out := []Category{}
	for _, p := range strings.Split(joined, separator) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasAlignment is false for empty values and the two sentinels, true for anything else.
func HasAlignment(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", strings.ToLower(NoMatch), strings.ToLower(Unavailable):
		return false
	default:
		return true
	}
}

// HasAlignmentValue applies HasAlignment to a table cell; null is not aligned.
func HasAlignmentValue(v model.Value) bool {
	if v.IsNull() {
		return false
	}
	return HasAlignment(v.Text())
}

// ClassifyRecord classifies the description, sector and subsector cells of a record.
// Null cells contribute no text.
func ClassifyRecord(description, sector, subsector model.Value) string {
	return Join(Classify(description.Text(), sector.Text(), subsector.Text()))
}

// Aligned renders the aligned indicator of a classification cell.
func Aligned(classification model.Value) string {
	if HasAlignmentValue(classification) {
		return model.AlignedYes
	}
	return model.AlignedNo
}
