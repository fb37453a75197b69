package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortiblox/x1-genesis/pkg/accounts"
	"github.com/fortiblox/x1-genesis/pkg/archive"
)

// HashOptions holds flags for the hash command.
type HashOptions struct {
	DBPath      string
	ArchivePath string
}

// HashOutput is the JSON form of an accounts hash.
type HashOutput struct {
	Hash           string `json:"hash"`
	Capitalization uint64 `json:"capitalization"`
	Accounts       uint64 `json:"accounts"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{}

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the accounts hash of the genesis program accounts",
		Long: `Print the accounts hash, capitalization and account count.

Hashes the freshly built accounts by default, or the accounts stored in
--db or --archive.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "hash the accounts in this database")
	cmd.Flags().StringVar(&opts.ArchivePath, "archive", "", "hash the accounts in this archive")

	return cmd
}

func runHash(rootOpts *RootOptions, opts *HashOptions, cmd *cobra.Command) error {
	if opts.DBPath != "" && opts.ArchivePath != "" {
		return errors.New("--db and --archive are mutually exclusive")
	}

	var result accounts.AccountsHashResult
	switch {
	case opts.DBPath != "":
		db, err := openAccountsDB(rootOpts, opts.DBPath, true)
		if err != nil {
			return err
		}
		defer db.Close()

		result, err = accounts.ComputeAccountsHash(db)
		if err != nil {
			return fmt.Errorf("hash accounts db: %w", err)
		}
	case opts.ArchivePath != "":
		entries, err := archive.ReadFile(opts.ArchivePath)
		if err != nil {
			return fmt.Errorf("hash archive: %w", err)
		}
		result = accounts.ComputeEntriesHash(entries)
	default:
		result = accounts.ComputeEntriesHash(rootOpts.programAccounts())
	}

	return newFormatter(rootOpts, cmd.OutOrStdout()).hashResult(result)
}

func (f *OutputFormatter) hashResult(r accounts.AccountsHashResult) error {
	out := HashOutput{
		Hash:           r.Hash.String(),
		Capitalization: r.Capitalization,
		Accounts:       r.Count,
	}
	if f.Format == "json" {
		return f.JSON(out)
	}
	_, err := fmt.Fprintf(f.Writer, "hash:           %s\ncapitalization: %d\naccounts:       %d\n",
		out.Hash, out.Capitalization, out.Accounts)
	return err
}
