package database

import "errors"

// ErrIteratorDone is returned by an iterator once every block was read.
var ErrIteratorDone = errors.New("done")

// Storage interface represents the behavior required to be implemented by any
// package providing support for reading and writing the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// ReadChain reads every block from storage in order.
func ReadChain(storage Storage) (Chain, error) {
	var chain Chain

	iter := storage.ForEach()
	for {
		block, err := iter.Next()
		if err != nil {
			if errors.Is(err, ErrIteratorDone) {
				return chain, nil
			}
			return nil, err
		}
		chain = append(chain, block)
	}
}
