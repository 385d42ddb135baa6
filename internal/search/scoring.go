package search

import (
	"github.com/biosearch/genequery/internal/config"
	"github.com/biosearch/genequery/internal/query"
)

// augmentScore wraps a query in the fixed function-score envelope:
// first-matching-rule-wins, so a pseudogene downgrade and the per-organism
// boosts never stack.
func augmentScore(q query.M, boosts []config.BoostRule) query.M {
	if len(boosts) == 0 {
		return q
	}
	functions := make([]query.ScoreFunction, 0, len(boosts))
	for _, rule := range boosts {
		functions = append(functions, query.ScoreFunction{
			Filter: query.Term(rule.Field, rule.Value),
			Weight: rule.Factor,
		})
	}
	return query.FunctionScore(q, functions, "first")
}
