package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var verbose bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <chain-file>",
	Short: "Replay a serialized chain and print the balances it implies.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		balances, err := checkFile(cmd.ErrOrStderr(), args[0])
		if err != nil {
			return err
		}

		return printBalances(cmd.OutOrStdout(), balances)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every validation step.")
}

// checkFile reads and validates the chain in the file. Validation steps are
// written to the writer in verbose mode.
func checkFile(w io.Writer, path string) (database.Balances, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ev := func(v string, args ...any) {
		if verbose {
			fmt.Fprintf(w, v+"\n", args...)
		}
	}

	return database.CheckSerializedChain(data, ev)
}

func printBalances(w io.Writer, balances database.Balances) error {
	for _, account := range balances.Accounts() {
		if _, err := fmt.Fprintf(w, "%s: %d\n", account, balances[account]); err != nil {
			return err
		}
	}
	return nil
}
