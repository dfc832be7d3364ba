// Package database handles the blockchain data model, the hashing of block
// contents, the proof of work puzzle and the validation rules for blocks
// and chains.
package database

import (
	"time"
)

// GenesisHash is the fixed hash and parent hash of the genesis block.
const GenesisHash = "0"

// =============================================================================

// BlockData represents the portion of a block that is covered by the
// proof of work.
type BlockData struct {
	Transactions []Tx   `json:"transactions"`
	Index        uint64 `json:"index"`
}

// Block represents a group of transactions batched together.
type Block struct {
	Index         uint64 `json:"index"`
	TimeStamp     int64  `json:"timestamp"` // Unix milliseconds.
	Transactions  []Tx   `json:"transactions"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
	PrevBlockHash string `json:"previousBlockHash"`
}

// Genesis returns the first block of every chain. It is identical on every
// node which is what lets independently started nodes converge.
func Genesis() Block {
	return Block{
		Index:         0,
		TimeStamp:     0,
		Transactions:  []Tx{},
		Nonce:         0,
		Hash:          GenesisHash,
		PrevBlockHash: GenesisHash,
	}
}

// NewBlock constructs a block from the solved proof of work values. The
// transactions are copied so the caller can reuse the slice.
func NewBlock(index uint64, nonce uint64, prevBlockHash string, hash string, trans []Tx) Block {
	txs := make([]Tx, len(trans))
	copy(txs, trans)

	return Block{
		Index:         index,
		TimeStamp:     time.Now().UTC().UnixMilli(),
		Transactions:  txs,
		Nonce:         nonce,
		Hash:          hash,
		PrevBlockHash: prevBlockHash,
	}
}

// Data returns the proof of work input for this block.
func (b Block) Data() BlockData {
	return BlockData{
		Transactions: b.Transactions,
		Index:        b.Index,
	}
}

// IsGenesis reports if this block is the canonical genesis block.
func (b Block) IsGenesis() bool {
	return b.Index == 0 &&
		b.TimeStamp == 0 &&
		b.Nonce == 0 &&
		b.Hash == GenesisHash &&
		b.PrevBlockHash == GenesisHash &&
		len(b.Transactions) == 0
}
