// Package search compiles raw gene-search requests into the document
// engine's query DSL: it classifies the query intent, builds the matching
// query structure, and augments it with filters and a scoring envelope.
package search

import (
	"github.com/biosearch/genequery/internal/query"
)

// Intent is the closed classification of a raw query string.
// Exactly one intent applies per query; classification is a pure function
// of the string's shape.
type Intent int

const (
	// IntentRelevance is the default free-text relevance query.
	IntentRelevance Intent = iota

	// IntentGenomicInterval is a genomic coordinate range query.
	IntentGenomicInterval

	// IntentNumericID is a query that parses fully as an integer.
	// The relevance builder adds an exact numeric-identifier clause.
	IntentNumericID

	// IntentWildcard is a pattern query containing * or ?.
	IntentWildcard
)

// String returns the intent name for logging.
func (i Intent) String() string {
	switch i {
	case IntentGenomicInterval:
		return "genomic_interval"
	case IntentNumericID:
		return "numeric_id"
	case IntentWildcard:
		return "wildcard"
	default:
		return "relevance"
	}
}

// Interval is a genomic interval captured from a raw query string.
// Start and End are kept raw; the genomic builder strips digit-grouping
// separators before comparison.
type Interval struct {
	Chr      string
	Start    string
	End      string
	Assembly string // "" for the organism's default assembly
}

// Compiled is the final artifact handed to the execution collaborator.
// It is constructed fresh per request and never mutated afterwards.
type Compiled struct {
	// Query is the structured boolean/scored expression.
	Query query.M

	// Filter is the optional post-filter, applied after scoring to
	// narrow visible hits without affecting facet counts. It is a
	// distinct slot from any filter inside Query.
	Filter query.M

	// Options are the normalized pass-through engine options.
	Options map[string]any
}

// Body renders the compiled query as a single engine request body.
func (c *Compiled) Body() query.M {
	body := query.M{"query": c.Query}
	if c.Filter != nil {
		body["filter"] = c.Filter
	}
	for k, v := range c.Options {
		body[k] = v
	}
	return body
}

// Document field names in the gene index.
const (
	FieldSymbol     = "symbol"
	FieldName       = "name"
	FieldSummary    = "summary"
	FieldTaxID      = "taxid"
	FieldEntrez     = "entrezgene"
	FieldRetired    = "retired"
	FieldEnsembl    = "ensemblgene"
	FieldUnigene    = "unigene"
	FieldGO         = "go"
	FieldGenomicPos = "genomic_pos"
)

// integerOnlyFields are identifier fields that hold numeric ids; querying
// them with a non-integer id can never match.
var integerOnlyFields = map[string]bool{
	FieldEntrez:  true,
	FieldRetired: true,
}
