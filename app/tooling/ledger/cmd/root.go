// Package cmd contains the ledger tool commands.
package cmd

import (
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/spf13/cobra"
)

var genesisPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "ledger",
	Short:        "Build and verify append-only balance ledgers",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", genesis.DefaultPath, "Path to the genesis file.")
}
