package search

import (
	"context"
	"log/slog"

	"github.com/biosearch/genequery/internal/query"
	"github.com/biosearch/genequery/internal/species"
)

// buildScopeFilters builds the boolean filter attached inside the query.
// These filters narrow the scoring scope and therefore DO affect facet
// counts. Returns nil when no clause applies.
func (c *Compiler) buildScopeFilters(ctx context.Context, sp *species.Resolved, params Params) query.M {
	var clauses []query.M

	if clause := speciesClause(sp); clause != nil {
		clauses = append(clauses, clause)
	}
	if params.EntrezOnly {
		clauses = append(clauses, query.Exists(FieldEntrez))
	}
	if params.EnsemblOnly {
		clauses = append(clauses, query.Exists(FieldEnsembl))
	}

	if c.filters != nil {
		for _, name := range params.UserFilters {
			filter, err := c.filters.Get(ctx, name)
			if err != nil {
				// Store failure degrades to skipping the filter.
				c.logger.Warn("saved filter lookup failed",
					slog.String("name", name), slog.Any("error", err))
				continue
			}
			if filter == nil {
				c.logger.Debug("skipping unknown saved filter", slog.String("name", name))
				continue
			}
			clauses = append(clauses, filter)
		}
	}

	for _, field := range params.Exists {
		clauses = append(clauses, query.Exists(field))
	}
	for _, field := range params.Missing {
		clauses = append(clauses, query.Missing(field))
	}

	return query.And(clauses)
}

// buildFacetFilter builds the post-filter from the species facet filter.
// It narrows visible hits only and must stay a distinct slot in the
// compiled query so facet counts are unaffected. Returns nil when absent.
func buildFacetFilter(facet *species.Resolved) query.M {
	if !facet.HasFilter() {
		return nil
	}
	return query.And([]query.M{speciesClause(facet)})
}

// speciesClause builds the taxonomy filter clause, nil when no filter
// applies ("all", absent, or nothing resolved).
func speciesClause(sp *species.Resolved) query.M {
	if !sp.HasFilter() {
		return nil
	}
	if len(sp.IDs) == 1 {
		return query.Term(FieldTaxID, sp.IDs[0])
	}
	return query.Terms(FieldTaxID, sp.IDs)
}

// filtered wraps a query with a scope filter. The filter participates in
// scoring scope, unlike the compiled query's post-filter slot.
func filtered(q, filter query.M) query.M {
	if filter == nil {
		return q
	}
	return query.M{"filtered": query.M{"query": q, "filter": filter}}
}
