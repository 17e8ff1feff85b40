package state_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/hasher"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newState(t *testing.T, transPerBlock uint16) (*state.State, *[]string) {
	t.Helper()

	var events []string
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		if strings.HasPrefix(s, "viewer:") {
			events = append(events, s)
		}
	}

	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			TransPerBlock: transPerBlock,
			Balances:      map[string]int64{"Alice": 50, "Bob": 50},
		},
		Storage:   memory.New(),
		EvHandler: ev,
	})
	if err != nil {
		t.Fatalf("unable to construct state: %v", err)
	}

	return st, &events
}

// =============================================================================

func Test_New(t *testing.T) {
	t.Log("Given the need to start a node.")
	{
		gen := genesis.Genesis{TransPerBlock: 10, Balances: map[string]int64{"Alice": 50, "Bob": 50}}

		testID := 0
		t.Logf("\tTest %d:\tWhen storage is empty.", testID)
		{
			strg := memory.New()

			st, err := state.New(state.Config{Genesis: gen, Storage: strg})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the state: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to construct the state.", success, testID)

			if st.RetrieveLatestBlock().Hash != gen.Block().Hash {
				t.Fatalf("\t%s\tTest %d:\tShould start at the genesis block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould start at the genesis block.", success, testID)

			if _, err := strg.GetBlock(0); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould have written the genesis block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have written the genesis block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen storage already holds a chain.", testID)
		{
			strg := memory.New()
			genesisBlock := gen.Block()
			block := database.NewBlock([]database.Tx{{"Alice": -10, "Bob": 10}}, genesisBlock)
			strg.Write(genesisBlock)
			strg.Write(block)

			st, err := state.New(state.Config{Genesis: gen, Storage: strg})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to replay the chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to replay the chain.", success, testID)

			if balance, _ := st.QueryAccount("Bob"); balance != 60 {
				t.Fatalf("\t%s\tTest %d:\tShould rebuild Bob's balance of 60, got %d.", failed, testID, balance)
			}
			t.Logf("\t%s\tTest %d:\tShould rebuild Bob's balance of 60.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen storage holds a chain for another genesis.", testID)
		{
			strg := memory.New()
			strg.Write(database.NewGenesisBlock(database.Balances{"Mallory": 1000}))

			if _, err := state.New(state.Config{Genesis: gen, Storage: strg}); !errors.Is(err, state.ErrGenesisMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould get back a genesis mismatch: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back a genesis mismatch.", success, testID)
		}
	}
}

func Test_SubmitTransaction(t *testing.T) {
	type table struct {
		name string
		tx   database.Tx
		err  error
	}

	tt := []table{
		{name: "valid", tx: database.Tx{"Alice": -5, "Bob": 5}},
		{name: "overdraft-queued", tx: database.Tx{"Alice": -500, "Bob": 500}},
		{name: "empty", tx: database.Tx{}, err: state.ErrEmptyTransaction},
		{name: "blank-account", tx: database.Tx{" ": -1, "Bob": 1}, err: state.ErrInvalidAccount},
		{name: "not-conserved", tx: database.Tx{"Alice": -5, "Bob": 4}, err: database.ErrNotConserved},
	}

	t.Log("Given the need to submit transactions to the node.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen submitting %s.", testID, tst.tx)
				{
					st, _ := newState(t, 10)

					_, err := st.SubmitTransaction(tst.tx)
					if tst.err != nil {
						if !errors.Is(err, tst.err) || !state.IsSubmissionError(err) {
							t.Fatalf("\t%s\tTest %d:\tShould get back the %q error: %v", failed, testID, tst.err, err)
						}
						if st.QueryMempoolLength() != 0 {
							t.Fatalf("\t%s\tTest %d:\tShould not queue the transaction.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould get back the %q error.", success, testID, tst.err)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to submit the transaction: %v", failed, testID, err)
					}
					if st.QueryMempoolLength() != 1 {
						t.Fatalf("\t%s\tTest %d:\tShould queue the transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould queue the transaction.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_AssembleBlock(t *testing.T) {
	t.Log("Given the need to assemble blocks from the mempool.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the mempool holds valid and invalid candidates.", testID)
		{
			st, events := newState(t, 3)

			st.SubmitTransaction(database.Tx{"Alice": -50, "Bob": 50})
			st.SubmitTransaction(database.Tx{"Alice": -1, "Carol": 1})
			st.SubmitTransaction(database.Tx{"Bob": -25, "Carol": 25})
			st.SubmitTransaction(database.Tx{"Carol": -5, "Alice": 5})

			report, err := st.AssembleBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to assemble a block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to assemble a block.", success, testID)

			if report.Block.Number() != 1 || len(report.Accepted) != 2 || len(report.Discarded) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould accept 2 and discard 1 into block 1: %+v", failed, testID, report)
			}
			t.Logf("\t%s\tTest %d:\tShould accept 2 and discard 1 into block 1.", success, testID)

			if st.QueryMempoolLength() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould leave only the unpicked candidate, got %d.", failed, testID, st.QueryMempoolLength())
			}
			t.Logf("\t%s\tTest %d:\tShould leave only the unpicked candidate.", success, testID)

			exp := database.Balances{"Alice": 0, "Bob": 75, "Carol": 25}
			got := st.RetrieveBalances()
			for accountID, balance := range exp {
				if got[accountID] != balance {
					t.Fatalf("\t%s\tTest %d:\tShould get back the new balances, got %v.", failed, testID, got)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould get back the new balances.", success, testID)

			if len(*events) != 1 || !strings.HasPrefix((*events)[0], "viewer: block: ") {
				t.Fatalf("\t%s\tTest %d:\tShould publish one block event: %v", failed, testID, *events)
			}
			t.Logf("\t%s\tTest %d:\tShould publish one block event.", success, testID)

			chain, err := st.RetrieveChain()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to retrieve the chain: %v", failed, testID, err)
			}
			balances, err := database.CheckChain(chain, nil)
			if err != nil || balances.Balance("Carol") != 25 {
				t.Fatalf("\t%s\tTest %d:\tShould store a chain that replays to the same balances: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould store a chain that replays to the same balances.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen every candidate is invalid.", testID)
		{
			st, _ := newState(t, 3)

			st.SubmitTransaction(database.Tx{"Alice": -51, "Bob": 51})
			st.SubmitTransaction(database.Tx{"Carol": -1, "Bob": 1})

			report, err := st.AssembleBlock()
			if !errors.Is(err, state.ErrNoValidTransactions) || len(report.Discarded) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould get back no valid transactions: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back no valid transactions.", success, testID)

			if st.QueryMempoolLength() != 0 || st.RetrieveLatestBlock().Number() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould drop the candidates without writing a block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould drop the candidates without writing a block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the mempool is empty.", testID)
		{
			st, _ := newState(t, 3)

			if _, err := st.AssembleBlock(); !errors.Is(err, state.ErrNoTransactions) {
				t.Fatalf("\t%s\tTest %d:\tShould get back no transactions: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back no transactions.", success, testID)
		}
	}
}

func Test_ProcessProposedBlock(t *testing.T) {
	t.Log("Given the need to evaluate a single candidate block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the block number skips ahead by 2.", testID)
		{
			st, events := newState(t, 10)

			tip := st.RetrieveLatestBlock()
			before := st.RetrieveBalances()

			block := database.NewBlock([]database.Tx{{"Alice": -3, "Bob": 3}}, tip)
			block.Contents.BlockNumber += 2
			block.Hash = hasher.Hash(block.Contents)

			var sb *database.SequenceBreakError
			if err := st.ProcessProposedBlock(block); !errors.As(err, &sb) {
				t.Fatalf("\t%s\tTest %d:\tShould get back a sequence break: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back a sequence break.", success, testID)

			if st.RetrieveLatestBlock().Hash != tip.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould keep the same tip.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the same tip.", success, testID)

			after := st.RetrieveBalances()
			if len(after) != len(before) || after["Alice"] != before["Alice"] || after["Bob"] != before["Bob"] {
				t.Fatalf("\t%s\tTest %d:\tShould keep the same balances, got %v.", failed, testID, after)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the same balances.", success, testID)

			chain, _ := st.RetrieveChain()
			if len(chain) != 1 || len(*events) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not store the block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not store the block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the block is valid.", testID)
		{
			st, _ := newState(t, 10)
			st.SubmitTransaction(database.Tx{"Alice": -3, "Bob": 3})

			block := database.NewBlock([]database.Tx{{"Alice": -3, "Bob": 3}}, st.RetrieveLatestBlock())
			if err := st.ProcessProposedBlock(block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept the block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the block.", success, testID)

			if st.RetrieveLatestBlock().Hash != block.Hash || st.QueryMempoolLength() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould move the tip and drop the included candidate.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould move the tip and drop the included candidate.", success, testID)
		}
	}
}

func Test_ReplaceChain(t *testing.T) {
	t.Log("Given the need to replace the node's chain.")
	{
		st, _ := newState(t, 10)
		gen := st.RetrieveGenesis()

		chain := database.Chain{gen.Block()}
		for i := 0; i < 3; i++ {
			block, _ := database.MakeBlock([]database.Tx{{"Bob": -10, "Alice": 10}}, chain)
			chain = chain.Append(block)
		}

		testID := 0
		t.Logf("\tTest %d:\tWhen the chain is longer and valid.", testID)
		{
			if err := st.ReplaceChain(chain); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to replace the chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to replace the chain.", success, testID)

			if balance, _ := st.QueryAccount("Alice"); balance != 80 {
				t.Fatalf("\t%s\tTest %d:\tShould rebuild Alice's balance of 80, got %d.", failed, testID, balance)
			}
			t.Logf("\t%s\tTest %d:\tShould rebuild Alice's balance of 80.", success, testID)

			blocks, err := st.QueryBlocksByAccount("Alice")
			if err != nil || len(blocks) != 4 {
				t.Fatalf("\t%s\tTest %d:\tShould find 4 blocks for Alice, got %d: %v", failed, testID, len(blocks), err)
			}
			t.Logf("\t%s\tTest %d:\tShould find 4 blocks for Alice.", success, testID)

			if blocks := st.QueryBlocksByNumber(1, 2); len(blocks) != 2 || blocks[0].Number() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould find blocks 1 and 2.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould find blocks 1 and 2.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the chain is not longer.", testID)
		{
			if err := st.ReplaceChain(chain[:2]); !errors.Is(err, state.ErrChainNotLonger) {
				t.Fatalf("\t%s\tTest %d:\tShould get back a not longer error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back a not longer error.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the chain starts at another genesis.", testID)
		{
			other := database.Chain{database.NewGenesisBlock(database.Balances{"Mallory": 1})}
			for i := 0; i < 5; i++ {
				block, _ := database.MakeBlock(nil, other)
				other = other.Append(block)
			}

			if err := st.ReplaceChain(other); !errors.Is(err, state.ErrGenesisMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould get back a genesis mismatch: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back a genesis mismatch.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the chain is invalid.", testID)
		{
			longer := chain
			for i := 0; i < 2; i++ {
				block, _ := database.MakeBlock([]database.Tx{{"Bob": -100, "Alice": 100}}, longer)
				longer = longer.Append(block)
			}

			var it *database.InvalidTransactionError
			if err := st.ReplaceChain(longer); !errors.As(err, &it) {
				t.Fatalf("\t%s\tTest %d:\tShould get back an invalid transaction: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back an invalid transaction.", success, testID)

			if st.RetrieveLatestBlock().Number() != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould keep the current chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the current chain.", success, testID)
		}
	}
}
