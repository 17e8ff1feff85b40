package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var account string

// balancesCmd represents the balances command
var balancesCmd = &cobra.Command{
	Use:   "balances <chain-file>",
	Short: "Replay a serialized chain and print the balance of one account.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		balances, err := checkFile(cmd.ErrOrStderr(), args[0])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", account, balances.Balance(database.AccountID(account)))
		return err
	},
}

func init() {
	rootCmd.AddCommand(balancesCmd)
	balancesCmd.Flags().StringVarP(&account, "account", "a", "", "Account to print.")
	balancesCmd.MarkFlagRequired("account")
}
