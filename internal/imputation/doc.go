// Package imputation fills the numeric gaps of the survey table.
//
// The numeric stage works on every column tagged table.KindNumber:
//
//  1. For each parent side (father, mother) a zero age or bracket on a row where
//     the parent is alive is a placeholder, not a measurement, and is blanked.
//  2. Missing cells are filled by chained equations: each incomplete column is
//     regressed on all other numeric columns with ridge regression on
//     standardized predictors, in rounds, until the largest change of an
//     imputed cell falls below Tolerance times the largest observed magnitude
//     or MaxIter rounds have run. Columns are visited fewest-missing first, or
//     in a seeded random order.
//  3. Every modelled value is clipped at zero and rounded half away from zero.
//  4. Deceased parents get age and bracket 0. Living parents get the bracket of
//     their (possibly imputed) age; brackets are never imputed on their own.
//
// Columns with no observed value cannot be modelled and are left as they are.
// A run that hits MaxIter keeps its last iterate and reports a CONVERGENCE
// error, which is not fatal. Missing liveness or age columns skip that parent
// side only.
package imputation
