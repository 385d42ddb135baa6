package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/biosearch/genequery/internal/engine"
)

func newMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Describe the gene index",
		Long: `Fetch the index mapping metadata from the engine, together with
the taxonomy and genome-assembly tables used for query compilation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := engine.NewClient(cfg, slog.Default())
			meta, err := client.Metadata(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), meta)
		},
	}
}
