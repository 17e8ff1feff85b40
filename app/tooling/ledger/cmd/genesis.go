package cmd

import (
	"fmt"
	"io"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/spf13/cobra"
)

// genesisCmd represents the genesis command
var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Print the genesis block for the genesis file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := genesis.Load(genesisPath)
		if err != nil {
			return err
		}

		return printGenesis(cmd.OutOrStdout(), gen)
	},
}

func init() {
	rootCmd.AddCommand(genesisCmd)
}

func printGenesis(w io.Writer, gen genesis.Genesis) error {
	data, err := canonical.Marshal(gen.Block())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
