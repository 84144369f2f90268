package cleaning

import (
	"fmt"
	"regexp"
	"sort"

	"jefabcli/internal/config"
	apperrors "jefabcli/internal/errors"
	"jefabcli/internal/table"
)

var listSeparator = regexp.MustCompile(`\s*;\s*`)

// Canonicalizer maps normalized text variants to their canonical label
type Canonicalizer struct {
	normalizer *Normalizer
	lookup     map[string]string
}

// NewCanonicalizer normalizes every variant with n and inverts the synonym
// table. It fails when one normalized variant would map to two labels, or
// when a label's normalized spelling is claimed as a variant of another label.
func NewCanonicalizer(synonyms []config.Synonym, n *Normalizer) (*Canonicalizer, error) {
	if n == nil {
		return nil, apperrors.NewAppValidationError("canonicalizer requires a normalizer")
	}

	lookup := make(map[string]string)
	for _, syn := range synonyms {
		for _, variant := range syn.Variants {
			key := n.NormalizeString(variant)
			if key == "" {
				continue
			}
			if existing, ok := lookup[key]; ok && existing != syn.Canonical {
				return nil, apperrors.NewAppValidationError(
					fmt.Sprintf("variant %q maps to both %q and %q", key, existing, syn.Canonical)).
					WithContext("variant", variant)
			}
			lookup[key] = syn.Canonical
		}
	}

	for _, syn := range synonyms {
		key := n.NormalizeString(syn.Canonical)
		if owner, ok := lookup[key]; ok && owner != syn.Canonical {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("canonical label %q is a variant of %q", syn.Canonical, owner))
		}
	}

	return &Canonicalizer{normalizer: n, lookup: lookup}, nil
}

// Canonicalize returns the canonical label for a known variant. Missing,
// numeric and unknown values come back unchanged.
func (c *Canonicalizer) Canonicalize(v table.Value) table.Value {
	s, ok := v.Str()
	if !ok {
		return v
	}
	if label, found := c.lookup[c.normalizer.NormalizeString(s)]; found {
		return table.Text(label)
	}
	return v
}

// Lookup reports the canonical label of a raw string, if any
func (c *Canonicalizer) Lookup(s string) (string, bool) {
	label, ok := c.lookup[c.normalizer.NormalizeString(s)]
	return label, ok
}

// Labels returns the distinct canonical labels, sorted
func (c *Canonicalizer) Labels() []string {
	seen := make(map[string]struct{}, len(c.lookup))
	for _, label := range c.lookup {
		seen[label] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// CollapseListSeparators removes whitespace around ';' in text values.
// The list is kept whole: elements are not split or canonicalized one by one.
func CollapseListSeparators(v table.Value) table.Value {
	s, ok := v.Str()
	if !ok {
		return v
	}
	return table.Text(listSeparator.ReplaceAllString(s, ";"))
}
