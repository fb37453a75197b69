// x1-genesis builds the program accounts seeded into an X1 ledger at genesis.
package main

import (
	"fmt"
	"os"

	"github.com/fortiblox/x1-genesis/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
