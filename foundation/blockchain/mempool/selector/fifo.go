package selector

import "sort"

// fifoSelect returns the oldest candidates first.
var fifoSelect = func(candidates []Candidate, howMany int) []Candidate {
	sort.Sort(bySeq(candidates))
	return limit(candidates, howMany)
}
