// Package database implements the ledger rules: the account, transaction,
// block and chain records, the validators that check them and the replay
// that derives account balances from raw chain data.
//
// Every operation takes a balances snapshot and returns a new one. Nothing in
// this package owns a shared ledger, so independent chains or candidate blocks
// can be validated from multiple goroutines as long as each call owns the
// snapshot it was given.
package database

// EventHandler defines a function that is called when events occur during
// validation. A nil handler is ignored.
type EventHandler func(v string, args ...any)

// safe returns an event handler that can always be called.
func safe(ev func(v string, args ...any)) func(v string, args ...any) {
	if ev == nil {
		return func(string, ...any) {}
	}
	return ev
}

// addInt64 adds two values and reports false if the result overflowed.
func addInt64(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return c, false
	}
	return c, true
}
