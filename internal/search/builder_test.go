package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosearch/genequery/internal/config"
	"github.com/biosearch/genequery/internal/errors"
	"github.com/biosearch/genequery/internal/query"
)

// disMaxClauses digs the clause list out of a dis-max query.
func disMaxClauses(t *testing.T, q query.M) []query.M {
	t.Helper()
	dm, ok := q["dis_max"].(query.M)
	require.True(t, ok, "expected a dis_max query, got %v", q)
	clauses, ok := dm["queries"].([]query.M)
	require.True(t, ok)
	return clauses
}

// clauseWeight extracts the weight of a function_score-wrapped clause.
func clauseWeight(t *testing.T, clause query.M) float64 {
	t.Helper()
	fs, ok := clause["function_score"].(query.M)
	require.True(t, ok)
	switch w := fs["weight"].(type) {
	case float64:
		return w
	case int:
		return float64(w)
	}
	t.Fatalf("clause has no numeric weight: %v", clause)
	return 0
}

func TestTranslateSources(t *testing.T) {
	translations := []config.Translation{
		{From: "refseq:", To: "refseq.genomic:"},
		{From: "reporter:", To: "reporter.HG-U133_Plus_2:"},
	}

	assert.Equal(t,
		"refseq.genomic:NM_052827",
		translateSources("refseq:NM_052827", translations))
	assert.Equal(t,
		"reporter.HG-U133_Plus_2:1007_s_at",
		translateSources("reporter:1007_s_at", translations))
	assert.Equal(t, "BTK", translateSources("BTK", translations))
	assert.Equal(t, "BTK", translateSources("BTK", nil))
}

func TestRelevanceQuery_ClauseWeightsDescend(t *testing.T) {
	clauses := disMaxClauses(t, relevanceQuery("BTK"))
	require.Len(t, clauses, 6)

	weights := make([]float64, len(clauses))
	for i, clause := range clauses {
		weights[i] = clauseWeight(t, clause)
	}
	assert.Equal(t, []float64{5, 4, 3, 1.1, 1.1, 1}, weights)

	// Highest-weight clause is the symbol match.
	top := clauses[0]["function_score"].(query.M)["query"].(query.M)
	symbol, ok := top["match"].(query.M)[FieldSymbol].(query.M)
	require.True(t, ok)
	assert.Equal(t, "BTK", symbol["query"])
	assert.Equal(t, analyzerWhitespaceLower, symbol["analyzer"])

	// Second clause is the display-name phrase match.
	phrase := clauses[1]["function_score"].(query.M)["query"].(query.M)
	assert.Equal(t, "BTK", phrase["match_phrase"].(query.M)[FieldName])

	// Catch-all full-text clause comes last.
	last := clauses[5]["function_score"].(query.M)["query"].(query.M)
	assert.Contains(t, last, "query_string")
}

func TestRelevanceQuery_IntegerReplacesClauseList(t *testing.T) {
	clauses := disMaxClauses(t, relevanceQuery("1017"))
	require.Len(t, clauses, 1, "integer query replaces the clause list")

	assert.Equal(t, float64(weightEntrez), clauseWeight(t, clauses[0]))
	term := clauses[0]["function_score"].(query.M)["query"].(query.M)
	assert.Equal(t, 1017, term["term"].(query.M)[FieldEntrez])
}

func TestRelevanceQuery_StripsQuotesAndBackslashes(t *testing.T) {
	clauses := disMaxClauses(t, relevanceQuery(`"insulin\receptor"`))
	top := clauses[0]["function_score"].(query.M)["query"].(query.M)
	symbol := top["match"].(query.M)[FieldSymbol].(query.M)
	assert.Equal(t, "insulinreceptor", symbol["query"])
}

func TestWildcardQuery(t *testing.T) {
	q, err := wildcardQuery("CDK?")
	require.NoError(t, err)

	clauses := disMaxClauses(t, q)
	require.Len(t, clauses, 3)

	fields := make([]string, 0, 3)
	for _, clause := range clauses {
		wc, ok := clause["wildcard"].(query.M)
		require.True(t, ok)
		for field, v := range wc {
			fields = append(fields, field)
			assert.Equal(t, "cdk?", v.(query.M)["value"], "pattern must be lower-cased")
		}
	}
	assert.Equal(t, []string{FieldSymbol, FieldName, FieldSummary}, fields)
}

func TestWildcardQuery_RejectsUnusablePattern(t *testing.T) {
	for _, raw := range []string{"", "   ", "CDK2", "*CDK"} {
		_, err := wildcardQuery(raw)
		require.Error(t, err, "raw %q", raw)
		assert.Equal(t, errors.ErrCodeInvalidWildcard, errors.GetCode(err))
	}
}

func TestIDQuery_DefaultScopes(t *testing.T) {
	t.Run("integer id searches numeric identifier fields", func(t *testing.T) {
		q, err := idQuery("1017", nil)
		require.NoError(t, err)
		mm := q["multi_match"].(query.M)
		assert.Equal(t, 1017, mm["query"])
		assert.Equal(t, []string{FieldEntrez, FieldRetired}, mm["fields"])
	})

	t.Run("string id searches the ensembl field", func(t *testing.T) {
		q, err := idQuery("ENSG00000123374", nil)
		require.NoError(t, err)
		m := q["match"].(query.M)[FieldEnsembl].(query.M)
		assert.Equal(t, "ENSG00000123374", m["query"])
		assert.Equal(t, "and", m["operator"])
	})
}

func TestIDQuery_SingleScope(t *testing.T) {
	t.Run("integer field with integer id", func(t *testing.T) {
		q, err := idQuery("1017", []string{FieldEntrez})
		require.NoError(t, err)
		assert.Equal(t, 1017, q["match"].(query.M)[FieldEntrez])
	})

	t.Run("integer field with non-integer id yields zero hits, not an error", func(t *testing.T) {
		q, err := idQuery("not-a-number", []string{FieldEntrez})
		require.NoError(t, err)
		assert.Equal(t, query.NoHits(), q)
	})

	t.Run("string field", func(t *testing.T) {
		q, err := idQuery("NM_052827", []string{"refseq.rna"})
		require.NoError(t, err)
		m := q["match"].(query.M)["refseq.rna"].(query.M)
		assert.Equal(t, "and", m["operator"])
	})
}

func TestIDQuery_MultipleScopes(t *testing.T) {
	t.Run("two integer fields build a disjunctive multi-field match", func(t *testing.T) {
		q, err := idQuery("1017", []string{FieldEntrez, FieldRetired})
		require.NoError(t, err)
		mm := q["multi_match"].(query.M)
		assert.ElementsMatch(t, []string{FieldEntrez, FieldRetired}, mm["fields"])
	})

	t.Run("one integer field builds an exact clause", func(t *testing.T) {
		q, err := idQuery("1017", []string{FieldEntrez, "symbol"})
		require.NoError(t, err)
		assert.Equal(t, 1017, q["match"].(query.M)[FieldEntrez])
	})

	t.Run("integer id with no usable integer field yields zero hits", func(t *testing.T) {
		q, err := idQuery("1017", []string{"symbol", "alias"})
		require.NoError(t, err)
		assert.Equal(t, query.NoHits(), q)
	})

	t.Run("string id with only integer fields yields zero hits", func(t *testing.T) {
		q, err := idQuery("not-a-number", []string{FieldEntrez, FieldRetired})
		require.NoError(t, err)
		assert.Equal(t, query.NoHits(), q)
	})

	t.Run("string id over string fields builds AND multi-field match", func(t *testing.T) {
		q, err := idQuery("BTK", []string{FieldEntrez, "symbol", "alias"})
		require.NoError(t, err)
		mm := q["multi_match"].(query.M)
		assert.Equal(t, []string{"symbol", "alias"}, mm["fields"])
		assert.Equal(t, "and", mm["operator"])
	})
}

func TestGenomicPosQuery(t *testing.T) {
	q, err := genomicPosQuery(&Interval{Chr: "1", Start: "1,000", End: "2,000"})
	require.NoError(t, err)

	nested := q["nested"].(query.M)
	assert.Equal(t, FieldGenomicPos, nested["path"])

	must := nested["query"].(query.M)["bool"].(query.M)["must"].([]query.M)
	require.Len(t, must, 3)
	assert.Equal(t, "1", must[0]["term"].(query.M)["genomic_pos.chr"])
	assert.Equal(t, 2000, must[1]["range"].(query.M)["genomic_pos.start"].(query.M)["lte"])
	assert.Equal(t, 1000, must[2]["range"].(query.M)["genomic_pos.end"].(query.M)["gte"])
}

func TestGenomicPosQuery_OverlapSemantics(t *testing.T) {
	// Inclusive overlap: a stored range [500,1500] matches query
	// [1000,2000] because 500 <= 2000 and 1500 >= 1000; a disjoint
	// stored range [2500,3000] fails the start <= 2000 bound. The
	// boundary is inclusive: stored end 1500 vs query start 1500 counts.
	q, err := genomicPosQuery(&Interval{Chr: "1", Start: "1500", End: "2000"})
	require.NoError(t, err)

	must := q["nested"].(query.M)["query"].(query.M)["bool"].(query.M)["must"].([]query.M)
	gte := must[2]["range"].(query.M)["genomic_pos.end"].(query.M)["gte"].(int)
	assert.Equal(t, 1500, gte, "stored end equal to query start must still match")
}

func TestGenomicPosQuery_Normalization(t *testing.T) {
	t.Run("strips chr prefix case-insensitively and lower-cases", func(t *testing.T) {
		q, err := genomicPosQuery(&Interval{Chr: "ChrX", Start: "1", End: "2"})
		require.NoError(t, err)
		must := q["nested"].(query.M)["query"].(query.M)["bool"].(query.M)["must"].([]query.M)
		assert.Equal(t, "x", must[0]["term"].(query.M)["genomic_pos.chr"])
	})

	t.Run("assembly selects the field variant", func(t *testing.T) {
		for assembly, field := range map[string]string{
			"hg19": "genomic_pos_hg19",
			"mm9":  "genomic_pos_mm9",
			"":     "genomic_pos",
		} {
			q, err := genomicPosQuery(&Interval{Chr: "7", Start: "100", End: "200", Assembly: assembly})
			require.NoError(t, err)
			assert.Equal(t, field, q["nested"].(query.M)["path"], "assembly %q", assembly)
		}
	})
}

func TestGenomicPosQuery_InvalidInput(t *testing.T) {
	_, err := genomicPosQuery(&Interval{Chr: "1", Start: "2000", End: "1000"})
	require.Error(t, err, "start beyond end must be rejected")
	assert.True(t, errors.IsUserError(err))

	_, err = genomicPosQuery(&Interval{Chr: "1", Start: "abc", End: "10"})
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
}

func TestSafeGenomePos(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"1000", 1000, false},
		{"1,000", 1000, false},
		{"10,000,000", 10000000, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"12ab", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pos, err := safeGenomePos(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pos)
		})
	}
}

func TestBuilderOutputs_AreJSONSerializable(t *testing.T) {
	for name, q := range map[string]query.M{
		"relevance": relevanceQuery("BTK"),
		"integer":   relevanceQuery("1017"),
	} {
		_, err := json.Marshal(q)
		assert.NoError(t, err, name)
	}
}
