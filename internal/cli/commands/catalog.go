package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapfuzz/pkg/adapter"
	"github.com/spf13/cobra"
)

// CatalogOptions holds options for the catalog command.
type CatalogOptions struct {
	Format string
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand() *cobra.Command {
	opts := &CatalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Load and print the catalog of the target database",
		Long: `Connect to the target, read its tables, views and columns from
information_schema and print them with the operators, functions and
aggregates available to statement generators.

Every column type is normalized to a canonical type. A column of an
unsupported type aborts the load.`,
		Example: `  # Print the catalog as tables
  leapfuzz catalog --conninfo "host=db1 dbname=shop user=tester"

  # Export for a generator
  leapfuzz catalog --format json > catalog.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalog(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCatalog(cmd *cobra.Command, opts *CatalogOptions) error {
	if !validCatalogFormat(opts.Format) {
		return fmt.Errorf("unknown format %q (want table, json or yaml)", opts.Format)
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cat, err := adapter.LoadCatalog(cmd.Context(), cmdCtx.Cfg.Target.Type, cmdCtx.Cfg.Target.Conninfo, cmdCtx.Logger)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info("catalog loaded", slog.String("summary", cat.Summary()))

	return renderCatalog(cmd.OutOrStdout(), cat, opts.Format)
}
