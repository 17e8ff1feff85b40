package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	type table struct {
		name    string
		content string
		valid   bool
	}

	tt := []table{
		{
			name:    "valid",
			content: `{"date": "2026-01-01T00:00:00Z", "trans_per_block": 10, "balances": {"Alice": 50, "Bob": 50}}`,
			valid:   true,
		},
		{name: "no-batch", content: `{"balances": {"Alice": 50}}`},
		{name: "no-balances", content: `{"trans_per_block": 10}`},
		{name: "negative", content: `{"trans_per_block": 10, "balances": {"Alice": -1}}`},
		{name: "empty-account", content: `{"trans_per_block": 10, "balances": {"": 5}}`},
		{name: "not-json", content: `trans_per_block`},
	}

	t.Log("Given the need to load a genesis file.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen loading %s.", testID, tst.content)
				{
					path := filepath.Join(t.TempDir(), "genesis.json")
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
					}

					gen, err := genesis.Load(path)
					if !tst.valid {
						if err == nil {
							t.Fatalf("\t%s\tTest %d:\tShould not be able to load the genesis.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould not be able to load the genesis: %v", success, testID, err)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to load the genesis: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to load the genesis.", success, testID)

					balances := gen.Accounts()
					if balances.Balance("Alice") != 50 || balances.Total() != 100 {
						t.Fatalf("\t%s\tTest %d:\tShould get back the initial balances: %v", failed, testID, balances)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the initial balances.", success, testID)

					const exp = "7c88a4312054f89a2b73b04989cd9b9e1ae437e1048f89fbb4e18a08479de507"
					if gen.Block().Hash != exp {
						t.Fatalf("\t%s\tTest %d:\tShould get back the fixed genesis hash, got %s.", failed, testID, gen.Block().Hash)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the fixed genesis hash.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
