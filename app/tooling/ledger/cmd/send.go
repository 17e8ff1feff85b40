package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	url   string
	from  string
	to    string
	value int64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transfer to a running node.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, err := transfer(from, to, value)
		if err != nil {
			return err
		}

		return send(cmd.OutOrStdout(), url, tx)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Account to debit.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account to credit.")
	sendCmd.Flags().Int64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
}

// transfer builds the conserving transaction moving value between accounts.
func transfer(from string, to string, value int64) (database.Tx, error) {
	switch {
	case from == "" || to == "":
		return nil, errors.New("from and to are required")
	case from == to:
		return nil, errors.New("from and to must be different accounts")
	case value <= 0:
		return nil, fmt.Errorf("value must be positive: got %d", value)
	}

	return database.Tx{
		database.AccountID(from): -value,
		database.AccountID(to):   value,
	}, nil
}

func send(w io.Writer, url string, tx database.Tx) error {
	payload := struct {
		Tx database.Tx `json:"tx"`
	}{
		Tx: tx,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("node returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	_, err = fmt.Fprintln(w, string(bytes.TrimSpace(body)))
	return err
}
