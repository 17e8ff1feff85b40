// Package mempool maintains the pool of candidate transactions waiting to be
// assembled into a block.
package mempool

import (
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool/selector"
	"github.com/google/uuid"
)

// Candidate is a transaction waiting in the mempool.
type Candidate = selector.Candidate

// Mempool represents a cache of candidate transactions keyed by id.
type Mempool struct {
	mu       sync.RWMutex
	pool     map[uuid.UUID]Candidate
	seq      uint64
	selectFn selector.Func
}

// New constructs a new mempool using the default select strategy.
func New() *Mempool {
	mp, _ := NewWithStrategy(selector.StrategyFIFO)
	return mp
}

// NewWithStrategy constructs a new mempool with specified select strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		pool:     make(map[uuid.UUID]Candidate),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of candidates in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds a transaction to the mempool under a new id. The transaction
// count after the add is returned.
func (mp *Mempool) Upsert(tx database.Tx) (uuid.UUID, int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.seq++
	c := Candidate{
		ID:       uuid.New(),
		Tx:       tx.Copy(),
		Received: time.Now().UTC(),
		Seq:      mp.seq,
	}
	mp.pool[c.ID] = c

	return c.ID, len(mp.pool)
}

// Delete removes a candidate from the mempool.
func (mp *Mempool) Delete(id uuid.UUID) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	delete(mp.pool, id)
}

// Truncate clears all the candidates from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[uuid.UUID]Candidate)
}

// Copy returns a list of the current candidates in arrival order.
func (mp *Mempool) Copy() []Candidate {
	return mp.pick(selectArrival, -1)
}

// PickBest uses the configured select strategy to return the next set
// of candidates for the next block. Pass -1 for all of them.
func (mp *Mempool) PickBest(howMany int) []Candidate {
	return mp.pick(mp.selectFn, howMany)
}

// =============================================================================

var selectArrival, _ = selector.Retrieve(selector.StrategyFIFO)

func (mp *Mempool) pick(fn selector.Func, howMany int) []Candidate {
	mp.mu.RLock()
	candidates := make([]Candidate, 0, len(mp.pool))
	for _, c := range mp.pool {
		candidates = append(candidates, c)
	}
	mp.mu.RUnlock()

	return fn(candidates, howMany)
}
