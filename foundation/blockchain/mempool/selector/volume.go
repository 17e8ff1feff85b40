package selector

import (
	"math"
	"sort"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// volumeSelect returns the candidates that move the most value first. Ties
// are broken by arrival so the ordering is stable.
var volumeSelect = func(candidates []Candidate, howMany int) []Candidate {
	sort.Slice(candidates, func(i, j int) bool {
		vi, vj := volume(candidates[i].Tx), volume(candidates[j].Tx)
		if vi != vj {
			return vi > vj
		}
		return candidates[i].Seq < candidates[j].Seq
	})

	return limit(candidates, howMany)
}

// volume returns the sum of the positive deltas, saturating at the maximum
// int64 value.
func volume(tx database.Tx) int64 {
	var v int64
	for _, delta := range tx {
		if delta <= 0 {
			continue
		}
		if v > math.MaxInt64-delta {
			return math.MaxInt64
		}
		v += delta
	}
	return v
}
