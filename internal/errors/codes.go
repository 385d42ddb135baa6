// Package errors provides structured error handling for genequery.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 3XX: External collaborator errors (soft failures)
//   - 4XX: User input errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryExternal indicates collaborator-service errors.
	CategoryExternal Category = "EXTERNAL"
	// CategoryUser indicates invalid caller input (4xx-equivalent).
	CategoryUser Category = "USER"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the request failed but the process continues.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// External collaborator errors (300-399). These are soft by design:
	// expansion failure falls back to unexpanded ids, a missing saved
	// filter is skipped.
	ErrCodeTaxonomyExpansion = "ERR_301_TAXONOMY_EXPANSION"
	ErrCodeFilterStore       = "ERR_302_FILTER_STORE"
	ErrCodeEngineUnavailable = "ERR_303_ENGINE_UNAVAILABLE"

	// User input errors (400-499)
	ErrCodeInvalidInput     = "ERR_401_INVALID_INPUT"
	ErrCodeAmbiguousGenomic = "ERR_402_AMBIGUOUS_GENOMIC_QUERY"
	ErrCodeInvalidWildcard  = "ERR_403_INVALID_WILDCARD"
	ErrCodeInvalidSpecies   = "ERR_404_INVALID_SPECIES"
	ErrCodeInvalidScopes    = "ERR_405_INVALID_SCOPES"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '3':
		return CategoryExternal
	case '4':
		return CategoryUser
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Collaborator failures degrade gracefully, so they are warnings.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryConfig:
		return SeverityFatal
	case CategoryExternal:
		return SeverityWarning
	default:
		return SeverityError
	}
}
