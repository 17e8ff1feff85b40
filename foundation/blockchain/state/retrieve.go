package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestBlock
}

// RetrieveBalances returns a copy of the current balances.
func (s *State) RetrieveBalances() database.Balances {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances.Copy()
}

// RetrieveChain returns the full chain from storage.
func (s *State) RetrieveChain() (database.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return database.ReadChain(s.storage)
}

// RetrieveMempool returns a copy of the mempool in arrival order.
func (s *State) RetrieveMempool() []mempool.Candidate {
	return s.mempool.Copy()
}
