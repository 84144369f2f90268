// Package config provides configuration management for the survey cleaning tools.
//
// # Configuration Sources
//
// Configuration is assembled in increasing order of precedence:
//
//	1. Built-in defaults (Default, DefaultCleaning)
//	2. A YAML file (explicit path, JEFAB_CONFIG_FILE, config.yaml or configs/config.yaml)
//	3. Environment variables, optionally seeded from a .env file
//
// # Environment Variables
//
// Variables use the JEFAB_ prefix and the section name:
//
//	JEFAB_LOGGING_LEVEL=debug
//	JEFAB_PATHS_INPUT=data/JEFAB_2024.xlsx
//	JEFAB_IMPUTATION_MAX_ITER=10
//	JEFAB_IMPUTATION_SEED=42
//	JEFAB_PIPELINE_DISABLED=profile,rules
//	JEFAB_PIPELINE_IMPUTE_TIMEOUT=45m
//
// # Cleaning Tables
//
// The mojibake repairs, kinship synonyms, dependent-field rules, liveness
// vocabularies, parent column sets and age brackets live in CleaningConfig.
// They can only be replaced from the YAML file. Once loaded they are treated as
// read-only and handed to the stages that need them.
//
// # Validation
//
// Load validates the result with struct tags (go-playground/validator), so an
// invalid iteration cap, tolerance, bracket table or step id fails before any
// data is read. Load failures are AppErrors of type CONFIG.
package config
