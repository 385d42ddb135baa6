package search

import (
	"context"
	"log/slog"

	"github.com/biosearch/genequery/internal/config"
	"github.com/biosearch/genequery/internal/errors"
	"github.com/biosearch/genequery/internal/query"
	"github.com/biosearch/genequery/internal/species"
	"github.com/biosearch/genequery/internal/userfilter"
)

// Compiler turns raw gene-search requests into compiled engine queries.
// It is a pure, stateless transformation per request: the only shared
// state is read-only configuration, so concurrent Compile calls need no
// locking. Two collaborators reach outside the process — the taxonomy
// expansion service and the saved-filter store — and both degrade
// gracefully on failure.
type Compiler struct {
	cfg      *config.Config
	resolver *species.Resolver
	expander *species.Expander
	filters  userfilter.Store
	router   *Router
	logger   *slog.Logger
}

// Deps are the compiler's collaborators. Expander and FilterStore are
// optional; leaving them nil disables subtree expansion and saved-filter
// resolution respectively.
type Deps struct {
	Expander    *species.Expander
	FilterStore userfilter.Store
	Logger      *slog.Logger
}

// NewCompiler creates a compiler over immutable configuration.
func NewCompiler(cfg *config.Config, deps Deps) *Compiler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		cfg:      cfg,
		resolver: species.NewResolver(cfg.Species.Taxonomy, cfg.Species.Default, logger),
		expander: deps.Expander,
		filters:  deps.FilterStore,
		router:   NewRouter(cfg),
		logger:   logger,
	}
}

// Router returns the index router for the compiled query's execution.
func (c *Compiler) Router() *Router {
	return c.router
}

// Compile builds the compiled query for a raw query string and option map.
// The raw string's shape selects the query structure; the options select
// filters, scoring scope and pass-through engine options.
func (c *Compiler) Compile(ctx context.Context, raw string, opts map[string]any) (*Compiled, *species.Resolved, error) {
	params := NormalizeOptions(opts, c.logger)

	sp, err := c.resolveSpecies(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	facet, err := c.resolver.Resolve(params.SpeciesFacetFilter, species.FallbackNone)
	if err != nil {
		return nil, nil, err
	}

	q := translateSources(raw, c.cfg.Query.Translations)

	intent, interval := Classify(q)
	c.logger.Debug("classified query",
		slog.String("intent", intent.String()),
		slog.String("query", q))

	if intent == IntentGenomicInterval {
		compiled, err := c.compileGenomic(ctx, interval, sp, params)
		return compiled, sp, err
	}

	var base query.M
	switch intent {
	case IntentWildcard:
		base, err = wildcardQuery(q)
		if err != nil {
			return nil, nil, err
		}
	default:
		// Relevance and numeric-id intents share the dis-max builder;
		// an integer query swaps in the numeric-identifier clause.
		base = relevanceQuery(q)
	}

	scoped := filtered(base, c.buildScopeFilters(ctx, sp, params))
	compiled := &Compiled{
		Query:   augmentScore(scoped, c.cfg.Query.Boosts),
		Filter:  buildFacetFilter(facet),
		Options: params.PassThrough,
	}
	return compiled, sp, nil
}

// BuildIDQuery compiles a scoped-identifier lookup. This is a public
// operation independent of raw-query classification: annotation callers
// look ids up by explicit scope fields. Unsatisfiable scope/id
// combinations compile to the zero-hit query.
func (c *Compiler) BuildIDQuery(ctx context.Context, id string, scopes []string, opts map[string]any) (*Compiled, *species.Resolved, error) {
	params := NormalizeOptions(opts, c.logger)

	sp, err := c.resolveSpecies(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	base, err := idQuery(id, scopes)
	if err != nil {
		return nil, nil, err
	}

	scoped := filtered(base, c.buildScopeFilters(ctx, sp, params))
	compiled := &Compiled{
		Query:   augmentScore(scoped, c.cfg.Query.Boosts),
		Options: params.PassThrough,
	}
	return compiled, sp, nil
}

// compileGenomic compiles the genomic-interval path. Coordinate lookups
// require exactly one organism: the same coordinates name different loci
// on different assemblies, so guessing would silently return wrong genes.
// The function-score wrap is deliberately omitted here; a coordinate
// containment test has no relevance ranking to boost.
func (c *Compiler) compileGenomic(ctx context.Context, iv *Interval, sp *species.Resolved, params Params) (*Compiled, error) {
	if !sp.Single() {
		return nil, errors.New(errors.ErrCodeAmbiguousGenomic,
			"genomic interval query requires a single species; "+
				`specify one species instead of "all" or a list`, nil)
	}

	base, err := genomicPosQuery(iv)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Query:   filtered(base, c.buildScopeFilters(ctx, sp, params)),
		Options: params.PassThrough,
	}, nil
}

// resolveSpecies resolves the species selector and optionally expands it
// to the full taxonomic subtree. Expansion failure is soft: the resolved
// ids are kept unexpanded.
func (c *Compiler) resolveSpecies(ctx context.Context, params Params) (*species.Resolved, error) {
	sp, err := c.resolver.Resolve(params.Species, species.FallbackDefault)
	if err != nil {
		return nil, err
	}

	if params.IncludeTaxTree && c.expander != nil && sp.HasFilter() {
		expanded, err := c.expander.Expand(ctx, sp.IDs)
		if err != nil {
			c.logger.Warn("taxonomy expansion failed, using unexpanded ids",
				slog.Any("error", err))
			return sp, nil
		}
		sp = &species.Resolved{IDs: expanded}
	}
	return sp, nil
}
