package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fortiblox/x1-genesis/internal/types"
	"github.com/fortiblox/x1-genesis/pkg/features"
	"github.com/fortiblox/x1-genesis/pkg/genesis"
	"github.com/fortiblox/x1-genesis/pkg/loader"
)

// ProgramInfo describes one registry entry.
type ProgramInfo struct {
	Kind    string       `json:"kind"`
	Name    string       `json:"name"`
	Version string       `json:"version"`
	ID      types.Pubkey `json:"id"`
	Loader  string       `json:"loader"`
	Feature string       `json:"feature,omitempty"`
	Active  bool         `json:"active"`
	Size    int          `json:"size"`
	ELF     string       `json:"elf"`

	Placeholder bool `json:"placeholder"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List the programs seeded at genesis",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	infos := programInfos(opts.config.Features.Predicate())

	rows := make([][]string, 0, len(infos))
	for _, p := range infos {
		feature := p.Feature
		if feature == "" {
			feature = "-"
		}
		rows = append(rows, []string{
			p.Kind, p.Name, p.Version, p.ID.String(), p.Loader, feature,
			strconv.FormatBool(p.Active), strconv.Itoa(p.Size), p.ELF,
		})
	}

	header := []string{"KIND", "NAME", "VERSION", "ID", "LOADER", "FEATURE", "ACTIVE", "SIZE", "ELF"}
	return newFormatter(opts, cmd.OutOrStdout()).Table(header, rows, infos)
}

func programInfos(isActive features.Predicate) []ProgramInfo {
	var infos []ProgramInfo
	for _, p := range genesis.SPLPrograms() {
		infos = append(infos, ProgramInfo{
			Kind:    "spl",
			Name:    p.Name,
			Version: p.Version,
			ID:      p.ID,
			Loader:  types.LoaderName(p.Loader),
			Active:  true,
			Size:    p.Size(),
			ELF:     describeELF(p.ELF()),

			Placeholder: p.Placeholder(),
		})
	}
	for _, p := range genesis.CoreBPFPrograms() {
		infos = append(infos, ProgramInfo{
			Kind:    "core-bpf",
			Name:    p.Name,
			Version: p.Version,
			ID:      p.ID,
			Loader:  types.LoaderName(types.BPFLoaderUpgradeableAddr),
			Feature: features.Name(p.Feature),
			Active:  isActive(p.Feature),
			Size:    p.Size(),
			ELF:     describeELF(p.ELF()),

			Placeholder: p.Placeholder(),
		})
	}
	return infos
}

// describeELF names the target machine of a program binary for display.
// Binaries are seeded as-is, so a header that does not parse is reported
// rather than rejected.
func describeELF(elf []byte) string {
	h, err := loader.ParseELFHeader(elf)
	if err != nil {
		return "unrecognized"
	}
	return h.MachineName()
}
