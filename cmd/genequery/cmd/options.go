package cmd

import (
	"github.com/spf13/cobra"
)

// queryOptions holds the CLI flags shared by compile and search.
type queryOptions struct {
	species            string
	speciesFacetFilter string
	includeTaxTree     bool
	entrezOnly         bool
	ensemblOnly        bool
	userFilters        string
	exists             string
	missing            string
	facets             string
	fields             string
	sort               string
	size               int
	from               int
	explain            bool
	dotfield           bool

	scopes []string
}

// register adds the shared query flags to a command.
func (o *queryOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.species, "species", "", `Species filter: names or taxonomy ids, comma-separated, or "all"`)
	cmd.Flags().StringVar(&o.speciesFacetFilter, "species-facet-filter", "", "Species post-filter (facet counts unaffected)")
	cmd.Flags().BoolVar(&o.includeTaxTree, "include-tax-tree", false, "Expand species to their full taxonomic subtree")
	cmd.Flags().BoolVar(&o.entrezOnly, "entrezonly", false, "Only hits with a numeric gene identifier")
	cmd.Flags().BoolVar(&o.ensemblOnly, "ensemblonly", false, "Only hits with an ensembl gene identifier")
	cmd.Flags().StringVar(&o.userFilters, "userfilter", "", "Saved filter names, comma-separated")
	cmd.Flags().StringVar(&o.exists, "exists", "", "Require these fields, comma-separated")
	cmd.Flags().StringVar(&o.missing, "missing", "", "Exclude hits with these fields, comma-separated")
	cmd.Flags().StringVar(&o.facets, "facets", "", "Facet fields, comma-separated")
	cmd.Flags().StringVar(&o.fields, "fields", "", "Fields to return per hit, comma-separated")
	cmd.Flags().StringVar(&o.sort, "sort", "", "Sort specification")
	cmd.Flags().IntVar(&o.size, "size", 0, "Maximum number of hits")
	cmd.Flags().IntVar(&o.from, "from", 0, "Result offset for paging")
	cmd.Flags().BoolVar(&o.explain, "explain", false, "Ask the engine to explain scoring")
	cmd.Flags().BoolVar(&o.dotfield, "dotfield", false, "Return hits with flattened dotted field names")

	cmd.Flags().StringSliceVar(&o.scopes, "scopes", nil,
		"Treat the argument as an identifier looked up in these fields")
}

// optionMap converts the flags to the compiler's option map. Zero-valued
// flags are omitted so the compiler's defaults apply.
func (o *queryOptions) optionMap() map[string]any {
	opts := make(map[string]any)

	setString := func(key, value string) {
		if value != "" {
			opts[key] = value
		}
	}
	setString("species", o.species)
	setString("species_facet_filter", o.speciesFacetFilter)
	setString("userfilter", o.userFilters)
	setString("exists", o.exists)
	setString("missing", o.missing)
	setString("facets", o.facets)
	setString("fields", o.fields)
	setString("sort", o.sort)

	if o.includeTaxTree {
		opts["include_tax_tree"] = true
	}
	if o.entrezOnly {
		opts["entrezonly"] = true
	}
	if o.ensemblOnly {
		opts["ensemblonly"] = true
	}
	if o.size > 0 {
		opts["size"] = o.size
	}
	if o.from > 0 {
		opts["from"] = o.from
	}
	if o.explain {
		opts["explain"] = true
	}
	if o.dotfield {
		opts["dotfield"] = true
	}
	return opts
}
