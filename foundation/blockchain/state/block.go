package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/google/uuid"
)

// Set of errors returned while assembling or accepting blocks.
var (
	ErrNoTransactions      = errors.New("no transactions in mempool")
	ErrNoValidTransactions = errors.New("no valid transactions in mempool")
	ErrChainNotLonger      = errors.New("chain is not longer than the current chain")
)

// Discard describes a candidate dropped during block assembly.
type Discard struct {
	ID     uuid.UUID   `json:"id"`
	Tx     database.Tx `json:"tx"`
	Reason string      `json:"reason"`
}

// AssemblyReport is the outcome of assembling a block from the mempool.
type AssemblyReport struct {
	Block     database.Block `json:"block"`
	Accepted  []uuid.UUID    `json:"accepted"`
	Discarded []Discard      `json:"discarded"`
}

// =============================================================================

// AssembleBlock picks the next batch of candidates from the mempool, keeps the
// ones that are valid against the running balances and appends a block with
// them to the chain. Every picked candidate leaves the mempool, the discarded
// ones are reported with their reason.
func (s *State) AssembleBlock() (AssemblyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: AssembleBlock: check mempool count")

	candidates := s.mempool.PickBest(int(s.genesis.TransPerBlock))
	if len(candidates) == 0 {
		return AssemblyReport{}, ErrNoTransactions
	}

	txs := make([]database.Tx, len(candidates))
	for i, c := range candidates {
		txs[i] = c.Tx
	}

	s.evHandler("state: AssembleBlock: running %d candidates against blk[%d] balances", len(txs), s.latestBlock.Number())

	asm := database.AssembleTxs(txs, s.balances)

	var report AssemblyReport
	discarded := make(map[int]bool, len(asm.Rejected))
	for _, rej := range asm.Rejected {
		c := candidates[rej.Index]
		discarded[rej.Index] = true

		s.evHandler("state: AssembleBlock: tx[%s]: id[%s]: discarded: %s", c.Tx, c.ID, rej.Err)
		s.mempool.Delete(c.ID)

		report.Discarded = append(report.Discarded, Discard{ID: c.ID, Tx: c.Tx, Reason: rej.Err.Error()})
	}

	if len(asm.Accepted) == 0 {
		return report, ErrNoValidTransactions
	}

	block := database.NewBlock(asm.Accepted, s.latestBlock)

	s.evHandler("state: AssembleBlock: validate and update database")

	if err := s.validateUpdateDatabase(block); err != nil {
		return report, err
	}

	for i, c := range candidates {
		if discarded[i] {
			continue
		}
		s.mempool.Delete(c.ID)
		report.Accepted = append(report.Accepted, c.ID)
	}

	report.Block = block

	return report, nil
}

// ProcessProposedBlock takes a single candidate block, validates it against
// the current tip and if that passes, adds the block to the local chain. A
// rejected block leaves the chain and balances exactly as they were.
func (s *State) ProcessProposedBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: ProcessProposedBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", s.latestBlock.Hash, block.Hash, len(block.Contents.Txns))
	defer s.evHandler("state: ProcessProposedBlock: completed: newBlk[%s]", block.Hash)

	if err := s.validateUpdateDatabase(block); err != nil {
		s.evHandler("state: ProcessProposedBlock: REJECTED: %s", err)
		return err
	}

	// Drop the queued candidates this block already carries.
	s.removeIncluded(block)

	return nil
}

// ReplaceChain validates the specified chain and, when it starts at this
// node's genesis block and is longer than the current chain, replaces the
// stored chain and balances with it.
func (s *State) ReplaceChain(chain database.Chain) error {
	s.evHandler("state: ReplaceChain: started: blocks[%d]", len(chain))
	defer s.evHandler("state: ReplaceChain: completed")

	balances, err := database.CheckChain(chain, s.evHandler)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if chain[0].Hash != s.genesisHash {
		return ErrGenesisMismatch
	}

	if uint64(len(chain)) <= s.latestBlock.Number()+1 {
		return fmt.Errorf("got %d blocks, have %d: %w", len(chain), s.latestBlock.Number()+1, ErrChainNotLonger)
	}

	current, err := database.ReadChain(s.storage)
	if err != nil {
		return fmt.Errorf("read chain: %w", err)
	}

	if err := s.rewrite(chain); err != nil {
		s.evHandler("state: ReplaceChain: ERROR: %s: restoring previous chain", err)
		if rerr := s.rewrite(current); rerr != nil {
			return fmt.Errorf("restore chain: %w: %w", rerr, err)
		}
		return err
	}

	s.balances = balances
	s.latestBlock = chain[len(chain)-1]

	for _, block := range chain[len(current):] {
		s.removeIncluded(block)
		s.blockEvent(block)
	}

	return nil
}

// =============================================================================

// validateUpdateDatabase takes the block and validates it against the ledger
// rules. If the block passes, the state of the node is updated including
// adding the block to storage. The caller must hold the write lock.
func (s *State) validateUpdateDatabase(block database.Block) error {
	s.evHandler("state: validateUpdateDatabase: validate block")

	balances, err := database.ValidateBlock(block, s.latestBlock, s.balances, s.evHandler)
	if err != nil {
		return err
	}

	s.evHandler("state: validateUpdateDatabase: write to storage")

	if err := s.storage.Write(block); err != nil {
		return err
	}

	s.balances = balances
	s.latestBlock = block

	// Send an event about this new block.
	s.blockEvent(block)

	return nil
}

// rewrite resets storage and writes the chain into it.
func (s *State) rewrite(chain database.Chain) error {
	if err := s.storage.Reset(); err != nil {
		return fmt.Errorf("reset storage: %w", err)
	}

	for _, block := range chain {
		if err := s.storage.Write(block); err != nil {
			return fmt.Errorf("write blk[%d]: %w", block.Number(), err)
		}
	}

	return nil
}

// removeIncluded removes one queued candidate for every transaction the block
// carries.
func (s *State) removeIncluded(block database.Block) {
	if len(block.Contents.Txns) == 0 || s.mempool.Count() == 0 {
		return
	}

	included := make(map[string]int, len(block.Contents.Txns))
	for _, tx := range block.Contents.Txns {
		included[tx.String()]++
	}

	for _, c := range s.mempool.Copy() {
		key := c.Tx.String()
		if included[key] == 0 {
			continue
		}
		included[key]--

		s.evHandler("state: removeIncluded: tx[%s]: id[%s]: included in blk[%d]", c.Tx, c.ID, block.Number())
		s.mempool.Delete(c.ID)
	}
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	data, err := canonical.Marshal(block)
	if err != nil {
		data = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler("viewer: block: %s", string(data))
}
