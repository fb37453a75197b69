package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortiblox/x1-genesis/pkg/archive"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Export the genesis program accounts to a compressed archive",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, out, cmd)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "genesis-programs"+archive.FileExtension, "archive path")

	return cmd
}

func runExport(opts *RootOptions, out string, cmd *cobra.Command) error {
	entries := opts.programAccounts()
	opts.warnPlaceholders()
	if err := archive.WriteFile(out, entries); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	opts.log.Infow("exported genesis accounts", "out", out, "accounts", len(entries))

	if opts.Format == "json" {
		return newFormatter(opts, cmd.OutOrStdout()).JSON(map[string]interface{}{
			"out":      out,
			"accounts": len(entries),
		})
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %d accounts to %s\n", len(entries), out)
	return err
}
