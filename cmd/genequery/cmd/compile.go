package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/biosearch/genequery/internal/config"
	"github.com/biosearch/genequery/internal/search"
	"github.com/biosearch/genequery/internal/species"
	"github.com/biosearch/genequery/internal/userfilter"
)

func newCompileCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "compile <query>",
		Short: "Compile a query without executing it",
		Long: `Compile a raw query into the engine's query DSL and print it,
together with the index partition it would run against.

Examples:
  genequery compile "BTK"
  genequery compile "chr1:1,000-2,000" --species human
  genequery compile "CDK?" --species human,mouse --size 5
  genequery compile 1017 --scopes entrezgene,retired`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	return cmd
}

func runCompile(ctx context.Context, cmd *cobra.Command, raw string, opts queryOptions) error {
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
	slog.Debug("query compiled", slog.String("index", index))

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"index": index,
		"body":  compiled.Body(),
	})
}

// compileQuery dispatches between the raw-query and scoped-identifier
// compile paths based on the --scopes flag.
func compileQuery(ctx context.Context, compiler *search.Compiler, raw string, opts queryOptions) (*search.Compiled, *species.Resolved, error) {
	if len(opts.scopes) > 0 {
		return compiler.BuildIDQuery(ctx, raw, opts.scopes, opts.optionMap())
	}
	return compiler.Compile(ctx, raw, opts.optionMap())
}

// newCompiler wires the compiler's collaborators from configuration.
// The cleanup closes the saved-filter store when one was opened.
func newCompiler(cfg *config.Config) (*search.Compiler, func(), error) {
	deps := search.Deps{}
	cleanup := func() {}

	if cfg.Species.ExpansionURL != "" {
		deps.Expander = species.NewExpander(cfg.Species.ExpansionURL, cfg.Species.ExpansionTimeout)
	}
	if cfg.Filters.StorePath != "" {
		store, err := userfilter.Open(cfg.Filters.StorePath)
		if err != nil {
			return nil, nil, err
		}
		deps.FilterStore = store
		cleanup = func() { _ = store.Close() }
	}

	return search.NewCompiler(cfg, deps), cleanup, nil
}
