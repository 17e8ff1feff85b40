// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/google/uuid"
)

// List of different select strategies.
const (
	StrategyFIFO   = "fifo"
	StrategyVolume = "volume"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyFIFO:   fifoSelect,
	StrategyVolume: volumeSelect,
}

// Candidate is a transaction waiting in the mempool to be assembled into
// a block.
type Candidate struct {
	ID       uuid.UUID   `json:"id"`
	Tx       database.Tx `json:"tx"`
	Received time.Time   `json:"received"`
	Seq      uint64      `json:"-"`
}

// Func defines a function that takes the pending candidates and selects
// howMany of them in an order based on the functions strategy. Receiving -1
// for howMany must return all the candidates in the strategies ordering. The
// specified slice may be reordered.
type Func func(candidates []Candidate, howMany int) []Candidate

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// bySeq provides sorting support by arrival order.
type bySeq []Candidate

// Len returns the number of candidates in the list.
func (bs bySeq) Len() int {
	return len(bs)
}

// Less helps to sort the list by arrival in ascending order.
func (bs bySeq) Less(i, j int) bool {
	return bs[i].Seq < bs[j].Seq
}

// Swap moves candidates in the order of arrival.
func (bs bySeq) Swap(i, j int) {
	bs[i], bs[j] = bs[j], bs[i]
}

// =============================================================================

// limit caps the candidates to howMany, -1 meaning all of them.
func limit(candidates []Candidate, howMany int) []Candidate {
	if howMany < 0 || howMany > len(candidates) {
		howMany = len(candidates)
	}
	return candidates[:howMany]
}
