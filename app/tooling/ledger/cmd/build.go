package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/spf13/cobra"
)

var (
	txsPath string
	outPath string
	batch   int
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble a chain from the genesis file and a list of candidate transactions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := genesis.Load(genesisPath)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(txsPath)
		if err != nil {
			return err
		}

		var txs []database.Tx
		if err := json.Unmarshal(content, &txs); err != nil {
			return fmt.Errorf("unmarshal %s: %w", txsPath, err)
		}

		size := batch
		if size <= 0 {
			size = int(gen.TransPerBlock)
		}

		chain, rejected, err := buildChain(gen, txs, size)
		if err != nil {
			return err
		}

		for _, rej := range rejected {
			fmt.Fprintf(cmd.ErrOrStderr(), "discarded tx[%d] %s: %s\n", rej.Index, rej.Tx, rej.Err)
		}

		data, err := chain.Encode()
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		_, err = fmt.Fprintln(w, string(data))
		return err
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&txsPath, "txs", "t", "", "Path to a JSON list of candidate transactions.")
	buildCmd.MarkFlagRequired("txs")
	buildCmd.Flags().StringVarP(&outPath, "out", "o", "", "Path to write the chain to, stdout when empty.")
	buildCmd.Flags().IntVarP(&batch, "batch", "b", 0, "Candidates per block, the genesis trans_per_block when zero.")
}

// buildChain runs the candidates through block assembly in batches of the
// specified size on top of the genesis block. A batch where every candidate
// is discarded produces no block. Rejection indexes refer to the full list.
func buildChain(gen genesis.Genesis, txs []database.Tx, size int) (database.Chain, []database.Rejection, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("batch size must be positive: got %d", size)
	}

	chain := database.Chain{gen.Block()}
	balances := gen.Accounts()

	var rejected []database.Rejection
	for start := 0; start < len(txs); start += size {
		end := min(start+size, len(txs))

		asm := database.AssembleTxs(txs[start:end], balances)
		for _, rej := range asm.Rejected {
			rej.Index += start
			rejected = append(rejected, rej)
		}

		if len(asm.Accepted) == 0 {
			continue
		}

		block, err := database.MakeBlock(asm.Accepted, chain)
		if err != nil {
			return nil, nil, err
		}

		chain = chain.Append(block)
		balances = asm.Balances
	}

	return chain, rejected, nil
}
