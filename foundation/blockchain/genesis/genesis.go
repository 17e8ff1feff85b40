// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// DefaultPath is where the node looks for the genesis file.
const DefaultPath = "zblock/genesis.json"

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time        `json:"date"`
	TransPerBlock uint16           `json:"trans_per_block" validate:"required"` // The maximum number of transactions that can be in a block.
	Balances      map[string]int64 `json:"balances" validate:"required,dive,gte=0"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	return Parse(content)
}

// Parse decodes and validates the genesis content.
func Parse(content []byte) (Genesis, error) {
	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal: %w", err)
	}

	if err := validate.Check(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validate: %w", err)
	}

	for account := range genesis.Balances {
		if account == "" {
			return Genesis{}, fmt.Errorf("validate: balances: account name is empty")
		}
	}

	return genesis, nil
}

// Accounts returns the initial balances as a ledger snapshot.
func (g Genesis) Accounts() database.Balances {
	balances := make(database.Balances, len(g.Balances))
	for account, balance := range g.Balances {
		balances[database.AccountID(account)] = balance
	}
	return balances
}

// Block returns the genesis block for this genesis.
func (g Genesis) Block() database.Block {
	return database.NewGenesisBlock(g.Accounts())
}
