package database

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// hashInput is the canonical form of what gets hashed. Field order is fixed
// by the struct so every node produces the same bytes.
type hashInput struct {
	PrevBlockHash string    `json:"previousBlockHash"`
	BlockData     BlockData `json:"blockData"`
	Nonce         uint64    `json:"nonce"`
}

// Hash returns the lowercase hex encoded SHA-256 digest of the block contents.
// An empty string is returned if the data can't be encoded, which never
// satisfies the proof of work.
func Hash(prevBlockHash string, data BlockData, nonce uint64) string {
	if data.Transactions == nil {
		data.Transactions = []Tx{}
	}

	v, err := json.Marshal(hashInput{
		PrevBlockHash: prevBlockHash,
		BlockData:     data,
		Nonce:         nonce,
	})
	if err != nil {
		return ""
	}

	hash := sha256.Sum256(v)
	return common.Bytes2Hex(hash[:])
}
