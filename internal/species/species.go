// Package species normalizes user-supplied species selectors into canonical
// taxonomy id sets and expands them via the taxonomy service collaborator.
package species

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/biosearch/genequery/internal/errors"
)

// All is the sentinel selector matching every species (no taxonomy filter).
const All = "all"

// Resolved is a canonical species selection: either the all-species
// sentinel or a list of taxonomy ids. A nil *Resolved means the selector
// was absent and must stay absent (the default_to_none path).
type Resolved struct {
	// AllSpecies short-circuits any taxonomy filtering.
	AllSpecies bool

	// IDs is the resolved taxonomy id list. Empty with AllSpecies false
	// means every supplied token was unrecognized; no filter is applied.
	IDs []int
}

// Single reports whether exactly one taxonomy id is selected.
func (r *Resolved) Single() bool {
	return r != nil && !r.AllSpecies && len(r.IDs) == 1
}

// HasFilter reports whether a taxonomy filter clause should be emitted.
func (r *Resolved) HasFilter() bool {
	return r != nil && !r.AllSpecies && len(r.IDs) > 0
}

// FallbackPolicy selects the behavior for an absent species selector.
type FallbackPolicy int

const (
	// FallbackDefault substitutes the configured default species set.
	FallbackDefault FallbackPolicy = iota

	// FallbackNone leaves an absent selector absent. Used for the
	// species facet filter, which must not fall back to the default set.
	FallbackNone
)

// Resolver normalizes species selectors against the taxonomy table.
type Resolver struct {
	taxonomy map[string]int
	defaults []int
	logger   *slog.Logger
}

// NewResolver creates a resolver over an immutable taxonomy table.
func NewResolver(taxonomy map[string]int, defaults []int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		taxonomy: taxonomy,
		defaults: defaults,
		logger:   logger,
	}
}

// Resolve normalizes a species selector. The selector may be absent (nil),
// a single integer, a single or comma-separated string, or a sequence of
// strings/integers. The literal "all" resolves to the all-species sentinel.
// Unrecognized name tokens are dropped, matching legacy leniency.
func (r *Resolver) Resolve(selector any, policy FallbackPolicy) (*Resolved, error) {
	if selector == nil {
		if policy == FallbackNone {
			return nil, nil
		}
		ids := make([]int, len(r.defaults))
		copy(ids, r.defaults)
		return &Resolved{IDs: ids}, nil
	}

	var tokens []string
	switch v := selector.(type) {
	case int:
		return &Resolved{IDs: []int{v}}, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if s == All {
			return &Resolved{AllSpecies: true}, nil
		}
		tokens = strings.Split(s, ",")
	case []string:
		tokens = v
	case []int:
		ids := make([]int, len(v))
		copy(ids, v)
		return &Resolved{IDs: ids}, nil
	case []any:
		for _, item := range v {
			switch it := item.(type) {
			case int:
				tokens = append(tokens, strconv.Itoa(it))
			case string:
				tokens = append(tokens, it)
			default:
				return nil, errors.Newf(errors.ErrCodeInvalidSpecies,
					"species list may contain only strings and integers, not %T", item)
			}
		}
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidSpecies,
			"species parameter must be a string, integer or a list, not %T", selector)
	}

	resolved := &Resolved{}
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if taxid, err := strconv.Atoi(tok); err == nil {
			resolved.IDs = append(resolved.IDs, taxid)
			continue
		}
		if taxid, ok := r.taxonomy[tok]; ok {
			resolved.IDs = append(resolved.IDs, taxid)
			continue
		}
		// Legacy-compatible leniency: unrecognized names are dropped.
		r.logger.Debug("dropping unrecognized species token", slog.String("token", tok))
	}
	return resolved, nil
}
