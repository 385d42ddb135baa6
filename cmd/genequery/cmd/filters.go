package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biosearch/genequery/internal/config"
	"github.com/biosearch/genequery/internal/query"
	"github.com/biosearch/genequery/internal/userfilter"
)

func newFiltersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Manage saved named filters",
		Long: `Manage saved filters: persisted query-DSL filter expressions that
queries attach by name via --userfilter.

Examples:
  genequery filters set curated '{"term": {"curated": true}}'
  genequery filters list
  genequery filters rm curated`,
	}

	cmd.AddCommand(newFiltersListCmd())
	cmd.AddCommand(newFiltersSetCmd())
	cmd.AddCommand(newFiltersRmCmd())
	return cmd
}

func newFiltersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved filter names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openFilterStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newFiltersSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <filter-json>",
		Short: "Save a filter expression under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, raw := args[0], args[1]

			var filter query.M
			if err := json.Unmarshal([]byte(raw), &filter); err != nil {
				return fmt.Errorf("filter must be a JSON object: %w", err)
			}

			store, err := openFilterStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Put(cmd.Context(), name, filter); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved filter %q\n", name)
			return nil
		},
	}
}

func newFiltersRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a saved filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openFilterStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted filter %q\n", args[0])
			return nil
		},
	}
}

// openFilterStore opens the configured saved-filter database.
func openFilterStore() (*userfilter.SQLiteStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.Filters.StorePath
	if path == "" {
		path = config.DefaultFilterStorePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return userfilter.Open(path)
}
