package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/biosearch/genequery/internal/engine"
)

func newSearchCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Compile a query and execute it against the engine",
		Long: `Compile a raw query and execute it against the configured engine,
printing the matched documents.

Examples:
  genequery search "BTK"
  genequery search "insulin receptor" --species human --size 5
  genequery search "chr1:1,000-2,000" --species human
  genequery search ENSG00000123374 --scopes ensemblgene`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, raw string, opts queryOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	compiler, cleanup, err := newCompiler(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	compiled, sp, err := compileQuery(ctx, compiler, raw, opts)
	if err != nil {
		return err
	}

	index := compiler.Router().Route(sp)
	client := engine.NewClient(cfg, slog.Default())

	result, err := client.Search(ctx, index, compiled)
	if err != nil {
		return err
	}
	slog.Info("search complete",
		slog.String("index", index),
		slog.Int64("total", result.Total),
		slog.Int("took_ms", result.Took))

	return printResult(cmd, raw, result)
}

func printResult(cmd *cobra.Command, raw string, result *engine.Result) error {
	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		return writeJSON(out, result)
	}

	if result.Total == 0 {
		_, err := fmt.Fprintf(out, "No hits for %q\n", raw)
		return err
	}

	fmt.Fprintf(out, "%d hits for %q (%dms)\n\n", result.Total, raw, result.Took)
	for _, hit := range result.Hits {
		var source map[string]any
		if err := json.Unmarshal(hit.Source, &source); err != nil {
			source = map[string]any{}
		}
		fmt.Fprintf(out, "  %-12s %v  %v\n", hit.ID, source["symbol"], source["name"])
	}
	return nil
}
