package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reLeadingNumbering = regexp.MustCompile(`^\s*[0-9.]+\s+`)

	foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

func Trim(s string) string {
	return strings.TrimSpace(s)
}

func Upper(s string) string {
	return strings.ToUpper(s)
}

func Lower(s string) string {
	return strings.ToLower(s)
}

// NFC composes decomposed sequences so that "Á" and "Á" compare equal.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// FoldAccents drops combining marks: "ÁÉÍÓÚÑ" becomes "AEIOUN".
func FoldAccents(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		return s
	}
	return out
}

// CutAtLineBreak keeps the text before the first \r or \n.
func CutAtLineBreak(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// StripLeadingNumbering removes outline numbering such as "1.2. " from the start of s.
// The numbering must be followed by whitespace, so "2023" alone is left untouched.
func StripLeadingNumbering(s string) string {
	return reLeadingNumbering.ReplaceAllString(s, "")
}

// ReplaceWith returns a strategy that replaces every rune of chars with repl.
func ReplaceWith(chars string, repl string) Strategy {
	return func(s string) string {
		if !strings.ContainsAny(s, chars) {
			return s
		}
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if strings.ContainsRune(chars, r) {
				b.WriteString(repl)
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	}
}

// Remove returns a strategy that deletes every rune of chars.
func Remove(chars string) Strategy {
	return ReplaceWith(chars, "")
}

var (
	// Label is the canonical form of categorical cells: trimmed, NFC and upper-cased.
	Label = Pipeline{NFC, TrimAndNormalize, Upper}

	// Key folds a label further into a lookup key that ignores accents.
	Key = Pipeline{NFC, TrimAndNormalize, Upper, FoldAccents}

	// Header repairs a raw header cell.
	Header = Pipeline{CutAtLineBreak, NFC, Trim, Upper}
)

func SanitizeLabel(input string) string {
	return Label.Apply(input)
}

func SanitizeKey(input string) string {
	return Key.Apply(input)
}

func SanitizeHeader(input string) string {
	return Header.Apply(input)
}
