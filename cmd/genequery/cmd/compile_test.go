package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the CLI with args and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCompileCmd_SymbolQuery(t *testing.T) {
	out, err := runCommand(t, "compile", "BTK")
	require.NoError(t, err)

	var result struct {
		Index string         `json:"index"`
		Body  map[string]any `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "genedoc_tier1", result.Index,
		"default species set routes to the tier-1 partition")
	assert.Contains(t, result.Body, "query")
}

func TestCompileCmd_AllSpeciesRoutesToFullIndex(t *testing.T) {
	out, err := runCommand(t, "compile", "BTK", "--species", "all")
	require.NoError(t, err)

	var result struct {
		Index string `json:"index"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "genedoc_all", result.Index)
}

func TestCompileCmd_GenomicIntervalNeedsSingleSpecies(t *testing.T) {
	_, err := runCommand(t, "compile", "chr1:100-200")
	require.Error(t, err, "default multi-species set is ambiguous for coordinates")

	out, err := runCommand(t, "compile", "chr1:100-200", "--species", "human")
	require.NoError(t, err)
	assert.Contains(t, out, "genomic_pos")
}

func TestCompileCmd_ScopedIdentifier(t *testing.T) {
	out, err := runCommand(t, "compile", "1017", "--scopes", "entrezgene,retired", "--species", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "multi_match")
}

func TestCompileCmd_PassThroughOptions(t *testing.T) {
	out, err := runCommand(t, "compile", "BTK", "--size", "5", "--fields", "symbol,name")
	require.NoError(t, err)

	var result struct {
		Body map[string]any `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, float64(5), result.Body["size"])
	assert.Contains(t, result.Body, "_source")
}

func TestCompileCmd_RequiresQuery(t *testing.T) {
	_, err := runCommand(t, "compile")
	require.Error(t, err)
}
