package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fortiblox/x1-genesis/internal/types"
	"github.com/fortiblox/x1-genesis/pkg/accounts"
)

// AccountInfo summarizes a built account without its data.
type AccountInfo struct {
	Address    types.Pubkey `json:"address"`
	Owner      string       `json:"owner"`
	Lamports   uint64       `json:"lamports"`
	DataLen    int          `json:"data_len"`
	Executable bool         `json:"executable"`
	RentEpoch  uint64       `json:"rent_epoch"`
}

// NewAccountsCommand creates the accounts command.
func NewAccountsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "accounts",
		Short:        "Print the genesis program accounts",
		Long:         "Builds the genesis program accounts for the configured rent and features and prints them in insertion order.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccounts(rootOpts, cmd)
		},
	}
	return cmd
}

func runAccounts(opts *RootOptions, cmd *cobra.Command) error {
	infos := accountInfos(opts.programAccounts())

	rows := make([][]string, 0, len(infos))
	for _, a := range infos {
		rows = append(rows, []string{
			a.Address.String(), a.Owner,
			strconv.FormatUint(a.Lamports, 10), strconv.Itoa(a.DataLen),
			strconv.FormatBool(a.Executable),
		})
	}

	header := []string{"ADDRESS", "OWNER", "LAMPORTS", "DATA_LEN", "EXECUTABLE"}
	return newFormatter(opts, cmd.OutOrStdout()).Table(header, rows, infos)
}

func accountInfos(entries []accounts.AccountEntry) []AccountInfo {
	infos := make([]AccountInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, AccountInfo{
			Address:    e.Pubkey,
			Owner:      types.LoaderName(e.Account.Owner),
			Lamports:   e.Account.Lamports,
			DataLen:    e.Account.DataLen(),
			Executable: e.Account.Executable,
			RentEpoch:  e.Account.RentEpoch,
		})
	}
	return infos
}
