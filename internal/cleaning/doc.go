// Package cleaning implements the text stages of the survey pipeline.
//
// Three stages live here, each taking its static tables from config.CleaningConfig
// at construction:
//
//   - Normalizer repairs mojibake with a literal replacement table, removes
//     accents through canonical decomposition, lowercases and trims. Replacement
//     patterns are tried longest first so overlapping patterns apply the same
//     way on every run.
//   - Canonicalizer maps kinship variants ("mamá", "mama", "madre") onto one
//     label. Its lookup table is keyed by the normalized variant, so lookups
//     must go through the same Normalizer.
//   - RuleImputer fills dependent fields implied by an answer, e.g. HIJOS = "no"
//     gives NUMERO_HIJOS = 0 where the count was left blank.
//
// Semicolon-separated answers have the whitespace around ';' collapsed but are
// matched as a whole. A list like "madre;padre" is not canonicalized element by
// element.
//
// Example:
//
//	n := cleaning.NewNormalizer(cfg.Cleaning.Mojibake)
//	c, err := cleaning.NewCanonicalizer(cfg.Cleaning.Synonyms, n)
//	if err != nil {
//	    return err
//	}
//	cleaning.NormalizeTable(tbl, n)
//	cleaning.CanonicalizeTable(tbl, c)
//	report, err := cleaning.NewRuleImputer(cfg.Cleaning.Rules, logger).Apply(tbl)
package cleaning
