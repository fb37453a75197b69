package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fortiblox/x1-genesis/internal/logging"
	"github.com/fortiblox/x1-genesis/pkg/accounts"
	"github.com/fortiblox/x1-genesis/pkg/archive"
)

// WriteOptions holds flags for the write command.
type WriteOptions struct {
	DBPath      string
	ArchivePath string
}

// NewWriteCommand creates the write command.
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{}

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the genesis program accounts into an accounts database",
		Long: `Write the genesis program accounts into a badger accounts database at slot 0.

By default the accounts are built from the configured rent and features.
With --archive they are read from a previously exported archive instead.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "accounts database directory (required)")
	cmd.Flags().StringVar(&opts.ArchivePath, "archive", "", "load accounts from this archive instead of building them")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runWrite(rootOpts *RootOptions, opts *WriteOptions, cmd *cobra.Command) error {
	log := rootOpts.log

	db, err := openAccountsDB(rootOpts, opts.DBPath, false)
	if err != nil {
		return err
	}
	defer db.Close()

	if existing, _ := db.AccountsCount(); existing > 0 {
		log.Warnw("database already holds accounts; genesis accounts will overwrite matching keys",
			"db", opts.DBPath, "accounts", existing)
	}

	var written int
	if opts.ArchivePath != "" {
		written, err = archive.Load(opts.ArchivePath, db)
		if err != nil {
			return fmt.Errorf("write from archive: %w", err)
		}
	} else {
		entries := rootOpts.programAccounts()
		rootOpts.warnPlaceholders()
		if err := accounts.WriteGenesis(db, entries); err != nil {
			return fmt.Errorf("write genesis: %w", err)
		}
		written = len(entries)
	}

	result, err := accounts.ComputeAccountsHash(db)
	if err != nil {
		return fmt.Errorf("hash accounts: %w", err)
	}
	log.Infow("wrote genesis accounts",
		"db", opts.DBPath,
		"written", written,
		"accounts", result.Count,
		"capitalization", result.Capitalization,
	)

	return newFormatter(rootOpts, cmd.OutOrStdout()).hashResult(result)
}

// openAccountsDB opens the badger database at path. A read-only open
// requires an existing database and never creates one.
func openAccountsDB(rootOpts *RootOptions, path string, readOnly bool) (*accounts.BadgerDB, error) {
	if readOnly {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("open accounts db %s: %w", path, err)
		}
	}

	cfg := accounts.DefaultBadgerDBConfig(path)
	cfg.ReadOnly = readOnly
	cfg.Logger = logging.NewBadgerLogger(rootOpts.log)

	db, err := accounts.NewBadgerDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open accounts db %s: %w", path, err)
	}
	return db, nil
}
