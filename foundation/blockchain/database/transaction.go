package database

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
)

// Tx is a set of balance deltas keyed by account. A valid transaction sums to
// zero and does not drive any account below zero. A transaction carries no
// identity, it is only valid or invalid against a given balances snapshot.
type Tx map[AccountID]int64

// Sum returns the sum of all deltas in the transaction.
func (tx Tx) Sum() (int64, error) {
	var sum int64
	for _, accountID := range sortedAccounts(tx) {
		var ok bool
		if sum, ok = addInt64(sum, tx[accountID]); !ok {
			return 0, fmt.Errorf("%w: summing deltas at account %q", ErrOverflow, accountID)
		}
	}
	return sum, nil
}

// Accounts returns the accounts referenced by the transaction in ascending order.
func (tx Tx) Accounts() []AccountID {
	return sortedAccounts(tx)
}

// Copy makes a copy of the transaction.
func (tx Tx) Copy() Tx {
	cpy := make(Tx, len(tx))
	for accountID, delta := range tx {
		cpy[accountID] = delta
	}
	return cpy
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	data, err := canonical.Marshal(tx)
	if err != nil {
		return fmt.Sprintf("%v", map[AccountID]int64(tx))
	}
	return string(data)
}

// =============================================================================

// CheckConservation checks the deltas of the transaction sum to zero. This is
// the part of transaction validity that does not depend on account state.
func CheckConservation(tx Tx) error {
	sum, err := tx.Sum()
	if err != nil {
		return err
	}

	if sum != 0 {
		return fmt.Errorf("%w: sum is %d", ErrNotConserved, sum)
	}

	return nil
}

// ValidateTx checks the transaction against the balances snapshot. The deltas
// must sum to zero and no referenced account may end up with a negative
// balance. The first failing rule is reported.
func ValidateTx(tx Tx, balances Balances) error {
	if err := CheckConservation(tx); err != nil {
		return err
	}

	for _, accountID := range tx.Accounts() {
		balance, ok := addInt64(balances[accountID], tx[accountID])
		if !ok {
			return fmt.Errorf("%w: account %q", ErrOverflow, accountID)
		}

		if balance < 0 {
			return fmt.Errorf("%w: account %q, balance %d, delta %d", ErrOverdraft, accountID, balances[accountID], tx[accountID])
		}
	}

	return nil
}

// IsValidTx reports whether the transaction is valid against the balances.
func IsValidTx(tx Tx, balances Balances) bool {
	return ValidateTx(tx, balances) == nil
}

// ApplyTx returns a new balances snapshot with each delta of the transaction
// added to its account. The specified balances are not modified. ApplyTx does
// not validate, callers are expected to call ValidateTx first.
func ApplyTx(tx Tx, balances Balances) Balances {
	newBalances := balances.Copy()
	for accountID, delta := range tx {
		newBalances[accountID] += delta
	}
	return newBalances
}

// =============================================================================

// Rejection records a candidate transaction discarded during assembly.
type Rejection struct {
	Index int
	Tx    Tx
	Err   error
}

// Assembly is the result of running a batch of candidates through the
// transaction rules.
type Assembly struct {
	Accepted []Tx
	Rejected []Rejection
	Balances Balances
}

// AssembleTxs validates each candidate in order against a running snapshot
// that starts at the specified balances. Valid candidates are applied and
// accepted, invalid ones are discarded and assembly continues with the rest.
func AssembleTxs(candidates []Tx, balances Balances) Assembly {
	asm := Assembly{
		Accepted: make([]Tx, 0, len(candidates)),
		Balances: balances,
	}

	for i, tx := range candidates {
		if err := ValidateTx(tx, asm.Balances); err != nil {
			asm.Rejected = append(asm.Rejected, Rejection{Index: i, Tx: tx, Err: err})
			continue
		}

		asm.Balances = ApplyTx(tx, asm.Balances)
		asm.Accepted = append(asm.Accepted, tx)
	}

	return asm
}
