package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
		severity Severity
	}{
		{
			name:     "user error",
			code:     ErrCodeAmbiguousGenomic,
			category: CategoryUser,
			severity: SeverityError,
		},
		{
			name:     "external soft failure",
			code:     ErrCodeTaxonomyExpansion,
			category: CategoryExternal,
			severity: SeverityWarning,
		},
		{
			name:     "config error",
			code:     ErrCodeConfigInvalid,
			category: CategoryConfig,
			severity: SeverityFatal,
		},
		{
			name:     "internal error",
			code:     ErrCodeInternal,
			category: CategoryInternal,
			severity: SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestError_IncludesCodeAndMessage(t *testing.T) {
	err := New(ErrCodeInvalidWildcard, "invalid query term", nil)
	assert.Equal(t, "[ERR_403_INVALID_WILDCARD] invalid query term", err.Error())
}

func TestUnwrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeEngineUnavailable, cause)
	assert.True(t, stderrors.Is(err, cause))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeAmbiguousGenomic, "one", nil)
	b := New(ErrCodeAmbiguousGenomic, "two", nil)
	c := New(ErrCodeInvalidInput, "three", nil)

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(UserError("bad species selector")))
	assert.False(t, IsUserError(New(ErrCodeInternal, "oops", nil)))
	assert.False(t, IsUserError(fmt.Errorf("plain")))
	assert.False(t, IsUserError(nil))
}

func TestIsSoft(t *testing.T) {
	soft := ExternalError(ErrCodeTaxonomyExpansion, "expansion service 503", nil)
	assert.True(t, IsSoft(soft))
	assert.False(t, IsSoft(UserError("nope")))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	var qe *QueryError = Wrap(ErrCodeInternal, nil)
	assert.Nil(t, qe)
}

func TestWithDetail_Chains(t *testing.T) {
	err := UserError("bad scope").WithDetail("scope", "entrezgene")
	require.NotNil(t, err.Details)
	assert.Equal(t, "entrezgene", err.Details["scope"])
}

func TestFormatForCLI(t *testing.T) {
	out := FormatForCLI(New(ErrCodeInvalidSpecies, "unknown selector type", nil))
	assert.Contains(t, out, "Error: unknown selector type")
	assert.Contains(t, out, ErrCodeInvalidSpecies)

	assert.Contains(t, FormatForCLI(fmt.Errorf("plain failure")), ErrCodeInternal)
	assert.Empty(t, FormatForCLI(nil))
}
