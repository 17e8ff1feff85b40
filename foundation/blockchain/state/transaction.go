package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/google/uuid"
)

// Set of reasons a submitted transaction is refused before queueing.
var (
	ErrEmptyTransaction = errors.New("transaction has no deltas")
	ErrInvalidAccount   = errors.New("transaction references an empty account name")
)

// SubmitTransaction accepts a transaction for inclusion in a future block.
// Only the checks that do not depend on balances are performed here, overdraft
// is checked when the block is assembled.
func (s *State) SubmitTransaction(tx database.Tx) (uuid.UUID, error) {
	if err := checkSubmission(tx); err != nil {
		return uuid.Nil, err
	}

	id, count := s.mempool.Upsert(tx)

	s.evHandler("state: SubmitTransaction: tx[%s]: queued: id[%s]: mempool[%d]", tx, id, count)

	if s.Worker != nil && count >= int(s.genesis.TransPerBlock) {
		s.Worker.SignalAssemble()
	}

	return id, nil
}

// checkSubmission validates the shape of a submitted transaction.
func checkSubmission(tx database.Tx) error {
	if len(tx) == 0 {
		return ErrEmptyTransaction
	}

	for accountID := range tx {
		if strings.TrimSpace(string(accountID)) == "" {
			return ErrInvalidAccount
		}
	}

	if err := database.CheckConservation(tx); err != nil {
		return fmt.Errorf("tx[%s]: %w", tx, err)
	}

	return nil
}

// IsSubmissionError reports whether the error was produced by refusing a
// submitted transaction.
func IsSubmissionError(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyTransaction),
		errors.Is(err, ErrInvalidAccount),
		errors.Is(err, database.ErrNotConserved),
		errors.Is(err, database.ErrOverflow):
		return true
	}
	return false
}
