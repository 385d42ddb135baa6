package search

import (
	"strconv"
	"strings"

	"github.com/biosearch/genequery/internal/config"
	"github.com/biosearch/genequery/internal/errors"
	"github.com/biosearch/genequery/internal/query"
)

// Relevance clause weights. Best single clause wins (dis-max); an exact
// symbol hit must outrank a phrase hit on the display name, which in turn
// outranks plain token matches and the catch-all full-text clause.
const (
	weightEntrez      = 8
	weightSymbol      = 5
	weightNamePhrase  = 4
	weightNameTokens  = 3
	weightUnigene     = 1.1
	weightGO          = 1.1
	weightQueryString = 1
)

// Index analyzers for the relevance clauses.
const (
	analyzerWhitespaceLower = "whitespace_lowercase"
	analyzerStringLower     = "string_lowercase"
)

// translateSources rewrites legacy field-name tokens in the raw query to
// current field names. Each table entry is applied once, in order.
func translateSources(q string, translations []config.Translation) string {
	for _, tr := range translations {
		q = strings.ReplaceAll(q, tr.From, tr.To)
	}
	return q
}

// relevanceQuery builds the dis-max relevance query. If the query parses
// fully as an integer, a single exact numeric-identifier clause replaces
// the free-text clause list.
func relevanceQuery(q string) query.M {
	// Quotes and backslashes would escape into the engine's query
	// string grammar; strip them up front.
	q = strings.NewReplacer(`"`, "", `\`, "").Replace(q)

	if id, err := strconv.Atoi(q); err == nil {
		return query.DisMax(
			query.Weighted(query.Term(FieldEntrez, id), weightEntrez),
		)
	}

	return query.DisMax(
		query.Weighted(query.MatchAnalyzer(FieldSymbol, q, analyzerWhitespaceLower), weightSymbol),
		// A phrase match on the display name ranks "cyclin-dependent
		// kinase 2" above token-bag matches.
		query.Weighted(query.MatchPhrase(FieldName, q), weightNamePhrase),
		query.Weighted(query.MatchAndAnalyzer(FieldName, q, analyzerWhitespaceLower), weightNameTokens),
		query.Weighted(query.MatchAnalyzer(FieldUnigene, q, analyzerStringLower), weightUnigene),
		query.Weighted(query.MatchAnalyzer(FieldGO, q, analyzerStringLower), weightGO),
		query.Weighted(query.QueryString(q), weightQueryString),
	)
}

// wildcardQuery builds the dis-max wildcard query over symbol, display
// name and summary. The pattern must contain * or ?, not as the first
// character; the classifier guarantees that, the re-check is defensive.
func wildcardQuery(q string) (query.M, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" || !hasWildcard(q) {
		return nil, errors.New(errors.ErrCodeInvalidWildcard, "invalid query term", nil)
	}

	return query.DisMax(
		query.Wildcard(FieldSymbol, q),
		query.Wildcard(FieldName, q),
		query.Wildcard(FieldSummary, q),
	), nil
}

// idQuery builds the scoped-identifier query. An unsatisfiable scope/id
// combination yields the zero-hit query, never an error.
func idQuery(id string, scopes []string) (query.M, error) {
	intID, intErr := strconv.Atoi(id)
	idIsInt := intErr == nil

	switch len(scopes) {
	case 0:
		if idIsInt {
			return query.MultiMatch(intID, []string{FieldEntrez, FieldRetired}), nil
		}
		return query.MatchAnd(FieldEnsembl, id), nil

	case 1:
		field := scopes[0]
		if integerOnlyFields[field] {
			if !idIsInt {
				// No results, not a failure: the scope/id
				// combination is simply unsatisfiable.
				return query.NoHits(), nil
			}
			return query.Match(field, intID), nil
		}
		return query.MatchAnd(field, id), nil

	default:
		var intFields, strFields []string
		for _, field := range scopes {
			if integerOnlyFields[field] {
				intFields = append(intFields, field)
			} else {
				strFields = append(strFields, field)
			}
		}

		if idIsInt {
			switch len(intFields) {
			case 1:
				return query.Match(intFields[0], intID), nil
			case 2:
				return query.MultiMatch(intID, intFields), nil
			default:
				return query.NoHits(), nil
			}
		}
		if len(strFields) > 0 {
			return query.MultiMatchAnd(id, strFields), nil
		}
		return query.NoHits(), nil
	}
}

// genomicPosQuery builds the nested coordinate range query: exact
// chromosome AND stored-start <= queried-end AND stored-end >=
// queried-start, the standard inclusive interval overlap test.
func genomicPosQuery(iv *Interval) (query.M, error) {
	start, err := safeGenomePos(iv.Start)
	if err != nil {
		return nil, err
	}
	end, err := safeGenomePos(iv.End)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, errors.Newf(errors.ErrCodeInvalidInput,
			"genomic interval start %d is greater than end %d", start, end)
	}

	chr := strings.ToLower(iv.Chr)
	chr = strings.TrimPrefix(chr, "chr")

	field := FieldGenomicPos
	switch iv.Assembly {
	case "hg19":
		field = FieldGenomicPos + "_hg19"
	case "mm9":
		field = FieldGenomicPos + "_mm9"
	}

	return query.Nested(field, query.Bool(
		query.Term(field+".chr", chr),
		query.RangeLTE(field+".start", end),
		query.RangeGTE(field+".end", start),
	)), nil
}

// safeGenomePos parses a genomic coordinate, stripping digit-grouping
// separators ("1,000" -> 1000).
func safeGenomePos(s string) (int, error) {
	pos, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, errors.Newf(errors.ErrCodeInvalidInput,
			"invalid genomic position %q", s)
	}
	if pos < 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidInput,
			"genomic position must not be negative, got %d", pos)
	}
	return pos, nil
}
