// Package cli implements the x1-genesis command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fortiblox/x1-genesis/internal/logging"
	"github.com/fortiblox/x1-genesis/pkg/accounts"
	"github.com/fortiblox/x1-genesis/pkg/genesis"
)

// Version information, set at build time.
var (
	Version   = "0.1.0"
	GitCommit = "dev"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Features   string
	Format     string // "json" | "text"

	// Resolved in PersistentPreRunE.
	config Config
	log    *zap.SugaredLogger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the x1-genesis CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "x1-genesis",
		Short:   "Build the program accounts of an X1 genesis ledger",
		Long:    "Builds the SPL and Core BPF program accounts seeded into an X1 ledger at genesis.",
		Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
		// main prints the error once.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "TOML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Features, "features", "all", "active migration features (all|none|<name or address>,...)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAccountsCommand(opts))
	cmd.AddCommand(NewWriteCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewHashCommand(opts))
	cmd.AddCommand(NewRentCommand(opts))

	return cmd
}

// resolve loads the config file and applies flags that were set explicitly
// on top of it.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	cfg := DefaultConfig()
	if o.ConfigPath != "" {
		loaded, err := LoadConfig(o.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") || o.ConfigPath == "" {
		cfg.LogLevel = o.LogLevel
	}
	if flags.Changed("features") || o.ConfigPath == "" {
		set, err := ParseFeatures(o.Features)
		if err != nil {
			return fmt.Errorf("invalid --features: %w", err)
		}
		cfg.Features = set
	}

	o.config = cfg
	o.log = logging.Setup(cfg.LogLevel, cmd.ErrOrStderr())
	o.log.Debugw("resolved config",
		"config", o.ConfigPath,
		"lamports_per_byte_year", cfg.Rent.LamportsPerByteYear,
		"exemption_threshold", cfg.Rent.ExemptionThreshold,
		"features", cfg.Features.Len(),
	)
	return nil
}

// programAccounts builds the genesis program accounts for the resolved config.
func (o *RootOptions) programAccounts() []accounts.AccountEntry {
	entries := genesis.ProgramAccounts(o.config.Rent, o.config.Features.Predicate())
	o.log.Debugw("built program accounts", "count", len(entries))
	return entries
}

// warnPlaceholders logs every program seeded from a stand-in binary. A
// ledger built from one cannot execute that program.
func (o *RootOptions) warnPlaceholders() {
	isActive := o.config.Features.Predicate()
	for _, p := range genesis.SPLPrograms() {
		if p.Placeholder() {
			o.log.Warnw("seeding placeholder program binary", "program", p.Name, "version", p.Version, "id", p.ID)
		}
	}
	for _, p := range genesis.CoreBPFPrograms() {
		if p.Placeholder() && isActive(p.Feature) {
			o.log.Warnw("seeding placeholder program binary", "program", p.Name, "version", p.Version, "id", p.ID)
		}
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
