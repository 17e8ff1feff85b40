package database

import (
	"errors"
	"fmt"
)

// Reasons a transaction or chain can be rejected.
var (
	ErrNotConserved = errors.New("transaction deltas do not sum to zero")
	ErrOverdraft    = errors.New("transaction overdraws an account")
	ErrOverflow     = errors.New("balance arithmetic overflows")
	ErrEmptyChain   = errors.New("chain has no blocks")
)

// =============================================================================

// HashMismatchError is returned when the hash stored with a block does not
// match the hash computed over its contents.
type HashMismatchError struct {
	BlockNumber uint64
	Stored      string
	Computed    string
}

// Error implements the error interface.
func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash does not match contents for block %d, stored %s, computed %s", e.BlockNumber, e.Stored, e.Computed)
}

// InvalidTransactionError is returned when a transaction inside a block fails
// against the balances derived from the preceding chain.
type InvalidTransactionError struct {
	BlockNumber uint64
	Index       int
	Tx          Tx
	Err         error
}

// Error implements the error interface.
func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction %d in block %d: %s: %s", e.Index, e.BlockNumber, e.Tx, e.Err)
}

// Unwrap provides access to the reason the transaction is invalid.
func (e *InvalidTransactionError) Unwrap() error {
	return e.Err
}

// SequenceBreakError is returned when a block number is not the successor of
// its parent's number.
type SequenceBreakError struct {
	BlockNumber uint64
	Expected    uint64
}

// Error implements the error interface.
func (e *SequenceBreakError) Error() string {
	return fmt.Sprintf("block number %d is out of sequence, exp %d", e.BlockNumber, e.Expected)
}

// BrokenLinkError is returned when a block's parent hash does not equal the
// hash of the block before it.
type BrokenLinkError struct {
	BlockNumber uint64
	ParentHash  *string
	Expected    *string
}

// Error implements the error interface.
func (e *BrokenLinkError) Error() string {
	return fmt.Sprintf("parent hash for block %d does not link to parent, got %s, exp %s", e.BlockNumber, hashString(e.ParentHash), hashString(e.Expected))
}

// StructuralFormatError is returned when a record is malformed. Record is the
// position of the offending block record or -1 when the input as a whole is
// not an ordered sequence of block records.
type StructuralFormatError struct {
	Record int
	Err    error
}

// Error implements the error interface.
func (e *StructuralFormatError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("malformed chain: %s", e.Err)
	}
	return fmt.Sprintf("malformed block record %d: %s", e.Record, e.Err)
}

// Unwrap provides access to the underlying format problem.
func (e *StructuralFormatError) Unwrap() error {
	return e.Err
}

// =============================================================================

// IsValidationError reports whether the error is one of the errors produced
// when a block or chain fails the ledger rules.
func IsValidationError(err error) bool {
	var hm *HashMismatchError
	var it *InvalidTransactionError
	var sb *SequenceBreakError
	var bl *BrokenLinkError
	var sf *StructuralFormatError

	switch {
	case errors.As(err, &hm), errors.As(err, &it), errors.As(err, &sb), errors.As(err, &bl), errors.As(err, &sf):
		return true
	}

	return false
}

// hashString renders a nullable hash for messages.
func hashString(h *string) string {
	if h == nil {
		return "null"
	}
	return *h
}
