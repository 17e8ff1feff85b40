package database

import "sort"

// AccountID represents a named balance holder.
type AccountID string

// =============================================================================

// Balances is a snapshot of account state, a mapping of account to balance.
// Accounts that are not present hold a zero balance.
type Balances map[AccountID]int64

// Balance returns the balance for the specified account.
func (b Balances) Balance(accountID AccountID) int64 {
	return b[accountID]
}

// Copy makes a copy of the balances.
func (b Balances) Copy() Balances {
	balances := make(Balances, len(b))
	for accountID, balance := range b {
		balances[accountID] = balance
	}
	return balances
}

// Total returns the sum of all balances.
func (b Balances) Total() int64 {
	var total int64
	for _, balance := range b {
		total += balance
	}
	return total
}

// Accounts returns the accounts in ascending order.
func (b Balances) Accounts() []AccountID {
	return sortedAccounts(b)
}

// =============================================================================

// sortedAccounts returns the keys of the map in ascending order.
func sortedAccounts(m map[AccountID]int64) []AccountID {
	accounts := make([]AccountID, 0, len(m))
	for accountID := range m {
		accounts = append(accounts, accountID)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i] < accounts[j]
	})

	return accounts
}
