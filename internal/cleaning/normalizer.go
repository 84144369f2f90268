package cleaning

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"jefabcli/internal/config"
	"jefabcli/internal/table"
)

// Normalizer repairs mojibake, strips accents, lowercases and trims text values.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	replacer *strings.Replacer
	patterns []config.Replacement
}

// NewNormalizer builds a normalizer from a mojibake table.
//
// Patterns are tried longest first, ties keeping table order, so a short
// pattern that is a prefix of a longer one never fires inside it.
func NewNormalizer(mojibake []config.Replacement) *Normalizer {
	patterns := make([]config.Replacement, 0, len(mojibake))
	for _, r := range mojibake {
		if r.From == "" {
			continue
		}
		patterns = append(patterns, r)
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return utf8.RuneCountInString(patterns[i].From) > utf8.RuneCountInString(patterns[j].From)
	})

	oldnew := make([]string, 0, 2*len(patterns))
	for _, p := range patterns {
		oldnew = append(oldnew, p.From, p.To)
	}

	return &Normalizer{
		replacer: strings.NewReplacer(oldnew...),
		patterns: patterns,
	}
}

// Patterns returns the replacement table in application order
func (n *Normalizer) Patterns() []config.Replacement {
	out := make([]config.Replacement, len(n.patterns))
	copy(out, n.patterns)
	return out
}

// Normalize cleans text values. Missing and numeric values are returned unchanged.
func (n *Normalizer) Normalize(v table.Value) table.Value {
	s, ok := v.Str()
	if !ok {
		return v
	}
	return table.Text(n.NormalizeString(s))
}

// NormalizeString applies the full cleaning sequence to a plain string
func (n *Normalizer) NormalizeString(s string) string {
	if s == "" {
		return ""
	}

	s = n.replacer.Replace(s)
	s = strings.ToLower(s)

	// Fresh transformer per call: transform.Chain keeps internal state
	stripped, _, err := transform.String(stripMarks(), s)
	if err == nil {
		s = stripped
	}

	return strings.TrimSpace(s)
}

func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
