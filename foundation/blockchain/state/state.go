// Package state is the core API for the ledger node and implements all the
// business rules and processing around the chain it owns.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool/selector"
)

// Set of errors returned by the node state.
var (
	ErrGenesisMismatch = errors.New("chain does not start at this node's genesis block")
	ErrNotFound        = errors.New("not found")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for assembling blocks in the background.
type Worker interface {
	Shutdown()
	SignalAssemble()
}

// =============================================================================

// Config represents the configuration required to start
// the ledger node.
type Config struct {
	Genesis        genesis.Genesis
	Storage        database.Storage
	SelectStrategy string
	EvHandler      EventHandler
}

// State manages the ledger. The mutex serializes every change to the chain
// and balances so there is only ever a single writer.
type State struct {
	mu          sync.RWMutex
	evHandler   EventHandler
	genesis     genesis.Genesis
	genesisHash string
	mempool     *mempool.Mempool
	storage     database.Storage
	balances    database.Balances
	latestBlock database.Block

	Worker Worker
}

// New constructs a new ledger node state. An empty storage is seeded with the
// genesis block, otherwise the stored chain is replayed to rebuild balances.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	strategy := cfg.SelectStrategy
	if strategy == "" {
		strategy = selector.StrategyFIFO
	}

	// Construct a mempool with the specified select strategy.
	mp, err := mempool.NewWithStrategy(strategy)
	if err != nil {
		return nil, err
	}

	genesisBlock := cfg.Genesis.Block()

	// Load all existing blocks from storage into memory for processing.
	chain, err := database.ReadChain(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("read chain: %w", err)
	}

	if len(chain) == 0 {
		ev("state: New: seeding storage with genesis blk[%s]", genesisBlock.Hash)
		if err := cfg.Storage.Write(genesisBlock); err != nil {
			return nil, fmt.Errorf("write genesis: %w", err)
		}
		chain = database.Chain{genesisBlock}
	}

	if chain[0].Hash != genesisBlock.Hash {
		return nil, fmt.Errorf("stored genesis %s: %w", chain[0].Hash, ErrGenesisMismatch)
	}

	ev("state: New: replaying %d blocks", len(chain))

	balances, err := database.CheckChain(chain, ev)
	if err != nil {
		return nil, fmt.Errorf("replay chain: %w", err)
	}

	state := State{
		evHandler:   ev,
		genesis:     cfg.Genesis,
		genesisHash: genesisBlock.Hash,
		mempool:     mp,
		storage:     cfg.Storage,
		balances:    balances,
		latestBlock: chain[len(chain)-1],
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Make sure the storage is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop all background assembly.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
