package database

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/hasher"
)

// BlockContents represents the hashed portion of a block. The field names and
// json tags define the canonical form the block hash is computed over.
type BlockContents struct {
	BlockNumber uint64  `json:"blockNumber"`
	ParentHash  *string `json:"parentHash"`
	TxnCount    int     `json:"txnCount"`
	Txns        []Tx    `json:"txns"`
}

// Block represents a group of transactions batched together with the hash of
// its contents.
type Block struct {
	Hash     string        `json:"hash"`
	Contents BlockContents `json:"contents"`
}

// NewGenesisBlock constructs block 0 with a single pseudo transaction that
// carries the initial balances. This is the only block allowed to create
// value.
func NewGenesisBlock(balances Balances) Block {
	tx := make(Tx, len(balances))
	for accountID, balance := range balances {
		tx[accountID] = balance
	}

	return newBlock(0, nil, []Tx{tx})
}

// NewBlock constructs the block that follows the specified parent. The
// transactions are copied into the block and are not validated.
func NewBlock(txs []Tx, parent Block) Block {
	parentHash := parent.Hash
	return newBlock(parent.Contents.BlockNumber+1, &parentHash, txs)
}

// MakeBlock constructs the block that follows the tip of the chain.
func MakeBlock(txs []Tx, chain Chain) (Block, error) {
	tip, err := chain.Tip()
	if err != nil {
		return Block{}, fmt.Errorf("make block: %w", err)
	}

	return NewBlock(txs, tip), nil
}

// newBlock copies the transactions and seals the contents with its hash.
func newBlock(number uint64, parentHash *string, txs []Tx) Block {
	cpy := make([]Tx, len(txs))
	for i, tx := range txs {
		cpy[i] = tx.Copy()
	}

	contents := BlockContents{
		BlockNumber: number,
		ParentHash:  parentHash,
		TxnCount:    len(cpy),
		Txns:        cpy,
	}

	return Block{
		Hash:     hasher.Hash(contents),
		Contents: contents,
	}
}

// =============================================================================

// Number returns the block number.
func (b Block) Number() uint64 {
	return b.Contents.BlockNumber
}

// IsGenesis reports whether the block has the shape of a genesis block.
func (b Block) IsGenesis() bool {
	return b.Contents.BlockNumber == 0 && b.Contents.ParentHash == nil
}

// CheckHash recomputes the hash over the contents and compares it to the
// stored hash.
func (b Block) CheckHash() error {
	computed := hasher.Hash(b.Contents)
	if computed != b.Hash {
		return &HashMismatchError{
			BlockNumber: b.Contents.BlockNumber,
			Stored:      b.Hash,
			Computed:    computed,
		}
	}

	return nil
}

// Accounts returns the accounts referenced by any transaction in the block.
func (b Block) Accounts() []AccountID {
	seen := make(map[AccountID]int64)
	for _, tx := range b.Contents.Txns {
		for accountID := range tx {
			seen[accountID] = 0
		}
	}
	return sortedAccounts(seen)
}

// =============================================================================

// ValidateBlock takes a block and validates it to be included into the
// blockchain after the specified parent. The balances must be the state
// produced by the chain ending at parent. On success the balances produced by
// applying every transaction in the block are returned. The input balances are
// never modified.
func ValidateBlock(block Block, parent Block, balances Balances, evHandler func(v string, args ...any)) (Balances, error) {
	ev := safe(evHandler)
	number := block.Contents.BlockNumber

	ev("database: ValidateBlock: validate: blk[%d]: check: transactions are valid against parent state", number)

	state := balances
	for i, tx := range block.Contents.Txns {
		if err := ValidateTx(tx, state); err != nil {
			return nil, &InvalidTransactionError{
				BlockNumber: number,
				Index:       i,
				Tx:          tx,
				Err:         err,
			}
		}
		state = ApplyTx(tx, state)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block hash does match contents", number)

	if err := block.CheckHash(); err != nil {
		return nil, err
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", number)

	nextNumber := parent.Contents.BlockNumber + 1
	if number != nextNumber {
		return nil, &SequenceBreakError{
			BlockNumber: number,
			Expected:    nextNumber,
		}
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", number)

	if block.Contents.ParentHash == nil || *block.Contents.ParentHash != parent.Hash {
		expected := parent.Hash
		return nil, &BrokenLinkError{
			BlockNumber: number,
			ParentHash:  block.Contents.ParentHash,
			Expected:    &expected,
		}
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: transaction count does match transactions", number)

	if block.Contents.TxnCount != len(block.Contents.Txns) {
		return nil, &StructuralFormatError{
			Record: int(number),
			Err:    fmt.Errorf("txnCount is %d, block holds %d transactions", block.Contents.TxnCount, len(block.Contents.Txns)),
		}
	}

	// A block without transactions still has to hand back a snapshot the
	// caller owns.
	if len(block.Contents.Txns) == 0 {
		state = balances.Copy()
	}

	return state, nil
}
