// Package errors defines the typed application errors used across the cleaning pipeline.
//
// Errors are classified by ErrorType. Malformed input, storage, configuration and
// validation failures abort a run; a missing column or a non-converged imputation is
// recorded and the run continues. IsFatal encodes that split.
package errors
