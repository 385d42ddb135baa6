package search

import (
	"log/slog"
	"strings"

	"github.com/biosearch/genequery/internal/query"
)

// Params are the recognized request parameters after normalization.
// Everything the engine should see verbatim lands in PassThrough; the rest
// drives query compilation.
type Params struct {
	// Species is the raw species selector, resolved later. Resolution
	// falls back to the default species set when absent.
	Species any

	// SpeciesFacetFilter is the raw post-filter selector. Resolution
	// must NOT fall back: an absent value stays absent.
	SpeciesFacetFilter any

	// IncludeTaxTree requests taxonomic subtree expansion.
	IncludeTaxTree bool

	// EntrezOnly restricts hits to documents with a numeric identifier.
	EntrezOnly bool

	// EnsemblOnly restricts hits to documents with an ensembl identifier.
	EnsemblOnly bool

	// UserFilters are saved-filter names to resolve and attach.
	UserFilters []string

	// Exists lists fields returned documents must have.
	Exists []string

	// Missing lists fields returned documents must not have.
	Missing []string

	// PassThrough holds allow-listed engine options, with deprecated
	// keys renamed to what the engine expects.
	PassThrough map[string]any
}

// allowedOptions is the pass-through allow-list. Unknown keys are dropped.
var allowedOptions = map[string]bool{
	"_source":  true,
	"from":     true,
	"size":     true,
	"sort":     true,
	"explain":  true,
	"version":  true,
	"aggs":     true,
	"dotfield": true,
}

// NormalizeOptions validates an option map against the allow-list and
// splits out the compilation-driving parameters. The input map is never
// mutated; unknown keys are dropped with a debug log.
func NormalizeOptions(opts map[string]any, logger *slog.Logger) Params {
	if logger == nil {
		logger = slog.Default()
	}

	params := Params{PassThrough: make(map[string]any)}
	remaining := make(map[string]any, len(opts))
	for k, v := range opts {
		remaining[k] = v
	}

	params.Species = pop(remaining, "species")
	params.SpeciesFacetFilter = pop(remaining, "species_facet_filter")
	params.IncludeTaxTree = asBool(pop(remaining, "include_tax_tree"))
	params.EntrezOnly = asBool(pop(remaining, "entrezonly"))
	params.EnsemblOnly = asBool(pop(remaining, "ensemblonly"))
	params.UserFilters = asStringList(pop(remaining, "userfilter"))
	params.Exists = asStringList(pop(remaining, "exists"))
	params.Missing = asStringList(pop(remaining, "missing"))

	// Facet option parsing: a comma-separated field list becomes a
	// terms aggregation per field.
	if facets := asStringList(pop(remaining, "facets")); len(facets) > 0 {
		remaining["aggs"] = parseFacets(facets)
	}

	// Deprecated key renames.
	if start, ok := remaining["start"]; ok {
		if _, exists := remaining["from"]; !exists {
			remaining["from"] = start
		}
		delete(remaining, "start")
	}
	if fields, ok := remaining["fields"]; ok && fields != nil {
		remaining["_source"] = fields
		delete(remaining, "fields")
	}

	for k, v := range remaining {
		if !allowedOptions[k] {
			logger.Debug("dropping unknown option key", slog.String("key", k))
			continue
		}
		params.PassThrough[k] = v
	}
	return params
}

// parseFacets converts facet field names into terms aggregations.
func parseFacets(fields []string) query.M {
	aggs := query.M{}
	for _, field := range fields {
		aggs[field] = query.M{"terms": query.M{"field": field}}
	}
	return aggs
}

func pop(m map[string]any, key string) any {
	v, ok := m[key]
	if !ok {
		return nil
	}
	delete(m, key)
	return v
}

// asBool interprets an option value leniently: booleans, the strings
// "true"/"1"/"yes", and non-zero integers are true.
func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes":
			return true
		}
	case int:
		return b != 0
	}
	return false
}

// asStringList interprets an option as a comma-separated list of names.
func asStringList(v any) []string {
	var raw []string
	switch s := v.(type) {
	case string:
		if s == "" {
			return nil
		}
		raw = strings.Split(s, ",")
	case []string:
		raw = s
	default:
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
