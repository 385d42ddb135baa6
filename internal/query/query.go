// Package query builds expressions in the document engine's JSON query DSL.
//
// The DSL grammar (bool/range/nested/wildcard/function-score expressions) is
// the engine's stable external schema. Expressions are plain map[string]any
// values so the compiled query marshals directly to the engine's wire format.
package query

import (
	"encoding/json"
	"sort"
)

// M is a JSON object in the engine's query DSL.
type M = map[string]any

// Match builds a simple single-field match query.
func Match(field string, value any) M {
	return M{"match": M{field: value}}
}

// MatchAnalyzer builds a match query with an explicit analyzer.
func MatchAnalyzer(field, q, analyzer string) M {
	return M{"match": M{field: M{"query": q, "analyzer": analyzer}}}
}

// MatchAnd builds a match query requiring every token to match.
func MatchAnd(field string, value any) M {
	return M{"match": M{field: M{"query": value, "operator": "and"}}}
}

// MatchAndAnalyzer builds an AND-operator match with an explicit analyzer.
func MatchAndAnalyzer(field, q, analyzer string) M {
	return M{"match": M{field: M{"query": q, "operator": "and", "analyzer": analyzer}}}
}

// MatchPhrase builds a phrase match query.
func MatchPhrase(field, q string) M {
	return M{"match_phrase": M{field: q}}
}

// Term builds an exact term query.
func Term(field string, value any) M {
	return M{"term": M{field: value}}
}

// Terms builds a set-membership query.
func Terms(field string, values []int) M {
	return M{"terms": M{field: values}}
}

// Exists builds a field-presence filter.
func Exists(field string) M {
	return M{"exists": M{"field": field}}
}

// Missing builds a field-absence filter.
func Missing(field string) M {
	return M{"missing": M{"field": field}}
}

// MultiMatch builds a best-fields query across several fields.
func MultiMatch(q any, fields []string) M {
	return M{"multi_match": M{"query": q, "fields": fields}}
}

// MultiMatchAnd builds a multi-field match requiring every token to match.
func MultiMatchAnd(q any, fields []string) M {
	return M{"multi_match": M{"query": q, "fields": fields, "operator": "and"}}
}

// Wildcard builds a single-field wildcard query.
func Wildcard(field, value string) M {
	return M{"wildcard": M{field: M{"value": value}}}
}

// QueryString builds the catch-all full-text query with AND semantics.
func QueryString(q string) M {
	return M{"query_string": M{
		"query":                        q,
		"default_operator":             "AND",
		"auto_generate_phrase_queries": true,
	}}
}

// DisMax combines clauses with best-single-clause-wins semantics.
func DisMax(queries ...M) M {
	return M{"dis_max": M{
		"tie_breaker": 0,
		"boost":       1,
		"queries":     queries,
	}}
}

// Weighted wraps a clause with a fixed relevance weight.
func Weighted(q M, weight float64) M {
	return M{"function_score": M{"query": q, "weight": weight}}
}

// ScoreFunction is one (predicate, multiplicative boost) pair.
type ScoreFunction struct {
	Filter M
	Weight float64
}

// FunctionScore wraps a query in a function-score envelope.
// Mode "first" applies only the first matching function's boost.
func FunctionScore(q M, functions []ScoreFunction, mode string) M {
	fns := make([]M, 0, len(functions))
	for _, fn := range functions {
		fns = append(fns, M{"filter": fn.Filter, "weight": fn.Weight})
	}
	return M{"function_score": M{
		"query":      q,
		"functions":  fns,
		"score_mode": mode,
	}}
}

// Nested wraps a query against a nested document path.
func Nested(path string, q M) M {
	return M{"nested": M{"path": path, "query": q}}
}

// RangeLTE builds a less-than-or-equal range query.
func RangeLTE(field string, value int) M {
	return M{"range": M{field: M{"lte": value}}}
}

// RangeGTE builds a greater-than-or-equal range query.
func RangeGTE(field string, value int) M {
	return M{"range": M{field: M{"gte": value}}}
}

// Bool builds a boolean query whose clauses must all match.
func Bool(must ...M) M {
	return M{"bool": M{"must": must}}
}

// And composes filter clauses into a single boolean expression.
// Zero clauses yields nil (omit the filter), one clause is used bare,
// multiple clauses are combined with an explicit conjunction. Clauses are
// canonically ordered so composition is insertion-order independent.
func And(clauses []M) M {
	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	}

	sorted := make([]M, len(clauses))
	copy(sorted, clauses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return canonical(sorted[i]) < canonical(sorted[j])
	})
	anded := make([]any, len(sorted))
	for i, c := range sorted {
		anded[i] = c
	}
	return M{"and": anded}
}

// NoHits is the structurally empty query: syntactically valid, guaranteed
// to match nothing. Used for unsatisfiable-but-valid requests.
func NoHits() M {
	return Match("non_exist_field", "")
}

// canonical returns a stable JSON rendering of an expression.
// encoding/json sorts map keys, so equal expressions render identically.
func canonical(m M) string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}
