package memory_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Memory(t *testing.T) {
	t.Log("Given the need to store blocks in memory.")
	{
		genesis := database.NewGenesisBlock(database.Balances{"Alice": 50, "Bob": 50})
		block1 := database.NewBlock([]database.Tx{{"Alice": -3, "Bob": 3}}, genesis)
		block2 := database.NewBlock([]database.Tx{{"Alice": -1, "Bob": 1}}, block1)

		testID := 0
		t.Logf("\tTest %d:\tWhen writing blocks in order.", testID)
		{
			m := memory.New()
			defer m.Close()

			for _, block := range []database.Block{genesis, block1, block2} {
				if err := m.Write(block); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write block %d: %v", failed, testID, block.Number(), err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write the blocks.", success, testID)

			got, err := m.GetBlock(1)
			if err != nil || got.Hash != block1.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read block 1: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to read block 1.", success, testID)

			if _, err := m.GetBlock(3); !errors.Is(err, memory.ErrNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould not find block 3: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not find block 3.", success, testID)

			chain, err := database.ReadChain(m)
			if err != nil || len(chain) != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould be able to iterate over 3 blocks, got %d: %v", failed, testID, len(chain), err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to iterate over 3 blocks.", success, testID)

			if _, err := database.CheckChain(chain, nil); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould read back a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould read back a valid chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen writing blocks out of order.", testID)
		{
			m := memory.New()

			if err := m.Write(block1); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not be able to write block 1 first.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not be able to write block 1 first.", success, testID)

			if err := m.Write(genesis); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write genesis: %v", failed, testID, err)
			}

			if err := m.Write(block2); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not be able to skip block 1.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not be able to skip block 1.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen resetting storage.", testID)
		{
			m := memory.New()
			m.Write(genesis)
			m.Reset()

			iter := m.ForEach()
			if _, err := iter.Next(); !errors.Is(err, database.ErrIteratorDone) || !iter.Done() {
				t.Fatalf("\t%s\tTest %d:\tShould have nothing to iterate: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have nothing to iterate.", success, testID)
		}
	}
}
