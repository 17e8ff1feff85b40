package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ardanlabs/ledger/foundation/blockchain/canonical"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// Chain is an ordered sequence of blocks from genesis to tip.
type Chain []Block

// Tip returns the last block of the chain.
func (c Chain) Tip() (Block, error) {
	if len(c) == 0 {
		return Block{}, ErrEmptyChain
	}
	return c[len(c)-1], nil
}

// Append returns a new chain with the block added at the end. The original
// chain is not modified.
func (c Chain) Append(block Block) Chain {
	chain := make(Chain, len(c), len(c)+1)
	copy(chain, c)
	return append(chain, block)
}

// Encode returns the canonical serialization of the chain.
func (c Chain) Encode() ([]byte, error) {
	if c == nil {
		c = Chain{}
	}
	return canonical.Marshal(c)
}

// =============================================================================

// CheckChain replays the chain from an empty state and returns the balances
// implied by the entire chain. The genesis transactions are applied without
// validation, every following block must pass ValidateBlock against the state
// produced by its predecessors. Any failure rejects the whole chain.
func CheckChain(chain Chain, evHandler func(v string, args ...any)) (Balances, error) {
	ev := safe(evHandler)

	if len(chain) == 0 {
		return nil, &StructuralFormatError{Record: -1, Err: ErrEmptyChain}
	}

	genesis := chain[0]

	ev("database: CheckChain: replay: blk[%d]: apply genesis transactions", genesis.Contents.BlockNumber)

	balances := Balances{}
	for _, tx := range genesis.Contents.Txns {
		balances = ApplyTx(tx, balances)
	}

	ev("database: CheckChain: replay: blk[%d]: check: genesis block is well formed", genesis.Contents.BlockNumber)

	if err := genesis.CheckHash(); err != nil {
		return nil, err
	}

	if genesis.Contents.BlockNumber != 0 {
		return nil, &SequenceBreakError{BlockNumber: genesis.Contents.BlockNumber, Expected: 0}
	}

	if genesis.Contents.ParentHash != nil {
		return nil, &BrokenLinkError{BlockNumber: 0, ParentHash: genesis.Contents.ParentHash}
	}

	if genesis.Contents.TxnCount != len(genesis.Contents.Txns) {
		return nil, &StructuralFormatError{
			Record: 0,
			Err:    fmt.Errorf("txnCount is %d, block holds %d transactions", genesis.Contents.TxnCount, len(genesis.Contents.Txns)),
		}
	}

	parent := genesis
	for _, block := range chain[1:] {
		var err error
		if balances, err = ValidateBlock(block, parent, balances, ev); err != nil {
			return nil, err
		}
		parent = block
	}

	ev("database: CheckChain: replay: chain of %d blocks accepted", len(chain))

	return balances, nil
}

// CheckSerializedChain decodes the serialized chain and replays it.
func CheckSerializedChain(data []byte, evHandler func(v string, args ...any)) (Balances, error) {
	chain, err := DecodeChain(data)
	if err != nil {
		return nil, err
	}

	return CheckChain(chain, evHandler)
}

// =============================================================================

// blockRecord is the shape every serialized block must have. Pointers are
// used to tell a missing field apart from a zero value.
type blockRecord struct {
	Hash     *string         `json:"hash" validate:"required"`
	Contents *contentsRecord `json:"contents" validate:"required"`
}

type contentsRecord struct {
	BlockNumber *uint64 `json:"blockNumber" validate:"required"`
	ParentHash  *string `json:"parentHash"`
	TxnCount    *int    `json:"txnCount" validate:"required"`
	Txns        []Tx    `json:"txns" validate:"required"`
}

// DecodeChain converts a serialized chain into a Chain without trusting any
// of its contents. The input must be an ordered sequence of block records,
// anything else is reported as a StructuralFormatError.
func DecodeChain(data []byte) (Chain, error) {
	var raws []json.RawMessage
	if err := strictUnmarshal(data, &raws); err != nil {
		return nil, &StructuralFormatError{Record: -1, Err: err}
	}

	if raws == nil {
		return nil, &StructuralFormatError{Record: -1, Err: errors.New("chain is not a sequence of block records")}
	}

	chain := make(Chain, len(raws))
	for i, raw := range raws {
		block, err := decodeBlock(raw)
		if err != nil {
			return nil, &StructuralFormatError{Record: i, Err: err}
		}
		chain[i] = block
	}

	return chain, nil
}

// DecodeBlock converts a single serialized block record into a Block.
func DecodeBlock(data []byte) (Block, error) {
	block, err := decodeBlock(data)
	if err != nil {
		return Block{}, &StructuralFormatError{Record: -1, Err: err}
	}
	return block, nil
}

func decodeBlock(data []byte) (Block, error) {
	var rec *blockRecord
	if err := strictUnmarshal(data, &rec); err != nil {
		return Block{}, err
	}

	if rec == nil {
		return Block{}, errors.New("block record is null")
	}

	if err := validate.Check(rec); err != nil {
		return Block{}, err
	}

	if err := validate.Check(rec.Contents); err != nil {
		return Block{}, err
	}

	for i, tx := range rec.Contents.Txns {
		if tx == nil {
			return Block{}, fmt.Errorf("transaction %d is null", i)
		}
	}

	block := Block{
		Hash: *rec.Hash,
		Contents: BlockContents{
			BlockNumber: *rec.Contents.BlockNumber,
			ParentHash:  rec.Contents.ParentHash,
			TxnCount:    *rec.Contents.TxnCount,
			Txns:        rec.Contents.Txns,
		},
	}

	return block, nil
}

// strictUnmarshal decodes a single JSON value, rejecting unknown fields and
// trailing data.
func strictUnmarshal(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return err
	}

	if err := decoder.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after value")
	}

	return nil
}
