package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, m M) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	return string(data)
}

func TestTerm(t *testing.T) {
	assert.Equal(t, `{"term":{"taxid":9606}}`, mustJSON(t, Term("taxid", 9606)))
}

func TestTerms(t *testing.T) {
	assert.Equal(t,
		`{"terms":{"taxid":[9606,10090]}}`,
		mustJSON(t, Terms("taxid", []int{9606, 10090})))
}

func TestMatchVariants(t *testing.T) {
	assert.Equal(t,
		`{"match":{"entrezgene":1017}}`,
		mustJSON(t, Match("entrezgene", 1017)))

	assert.Equal(t,
		`{"match":{"symbol":{"analyzer":"whitespace_lowercase","query":"cdk2"}}}`,
		mustJSON(t, MatchAnalyzer("symbol", "cdk2", "whitespace_lowercase")))

	assert.Equal(t,
		`{"match":{"ensemblgene":{"operator":"and","query":"ENSG00000123374"}}}`,
		mustJSON(t, MatchAnd("ensemblgene", "ENSG00000123374")))

	assert.Equal(t,
		`{"match_phrase":{"name":"cyclin-dependent kinase 2"}}`,
		mustJSON(t, MatchPhrase("name", "cyclin-dependent kinase 2")))
}

func TestExistsAndMissing(t *testing.T) {
	assert.Equal(t, `{"exists":{"field":"entrezgene"}}`, mustJSON(t, Exists("entrezgene")))
	assert.Equal(t, `{"missing":{"field":"pdb"}}`, mustJSON(t, Missing("pdb")))
}

func TestDisMax_WrapsClauses(t *testing.T) {
	q := DisMax(Term("a", 1), Term("b", 2))
	dm, ok := q["dis_max"].(M)
	require.True(t, ok)
	assert.Equal(t, 0, dm["tie_breaker"])
	assert.Equal(t, 1, dm["boost"])
	assert.Len(t, dm["queries"], 2)
}

func TestWeighted(t *testing.T) {
	q := Weighted(Match("symbol", "btk"), 5)
	fs, ok := q["function_score"].(M)
	require.True(t, ok)
	assert.Equal(t, float64(5), fs["weight"])
}

func TestFunctionScore_FirstMatchMode(t *testing.T) {
	q := FunctionScore(Match("symbol", "btk"), []ScoreFunction{
		{Filter: Term("name", "pseudogene"), Weight: 0.5},
		{Filter: Term("taxid", 9606), Weight: 1.55},
	}, "first")

	fs, ok := q["function_score"].(M)
	require.True(t, ok)
	assert.Equal(t, "first", fs["score_mode"])

	fns, ok := fs["functions"].([]M)
	require.True(t, ok)
	require.Len(t, fns, 2)
	assert.Equal(t, 0.5, fns[0]["weight"])
	assert.Equal(t, Term("name", "pseudogene"), fns[0]["filter"])
}

func TestNestedRangeBool(t *testing.T) {
	q := Nested("genomic_pos", Bool(
		Term("genomic_pos.chr", "1"),
		RangeLTE("genomic_pos.start", 2000),
		RangeGTE("genomic_pos.end", 1000),
	))

	nested, ok := q["nested"].(M)
	require.True(t, ok)
	assert.Equal(t, "genomic_pos", nested["path"])

	b := nested["query"].(M)["bool"].(M)
	must, ok := b["must"].([]M)
	require.True(t, ok)
	assert.Len(t, must, 3)
}

func TestAnd_ZeroOneMany(t *testing.T) {
	assert.Nil(t, And(nil))

	single := Term("taxid", 9606)
	assert.Equal(t, single, And([]M{single}))

	combined := And([]M{Term("taxid", 9606), Exists("entrezgene")})
	clauses, ok := combined["and"].([]any)
	require.True(t, ok)
	assert.Len(t, clauses, 2)
}

func TestAnd_InsertionOrderIndependent(t *testing.T) {
	a := Term("taxid", 9606)
	b := Exists("entrezgene")
	c := Missing("pdb")

	forward := And([]M{a, b, c})
	reverse := And([]M{c, b, a})

	assert.Equal(t, mustJSON(t, forward), mustJSON(t, reverse))
}

func TestNoHits(t *testing.T) {
	assert.Equal(t, `{"match":{"non_exist_field":""}}`, mustJSON(t, NoHits()))
}

func TestQueryString(t *testing.T) {
	q := QueryString("insulin receptor")
	qs, ok := q["query_string"].(M)
	require.True(t, ok)
	assert.Equal(t, "AND", qs["default_operator"])
	assert.Equal(t, true, qs["auto_generate_phrase_queries"])
}
