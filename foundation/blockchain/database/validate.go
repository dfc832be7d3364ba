package database

import (
	"errors"
	"fmt"
)

// ErrEmptyChain is returned when a chain has no blocks at all.
var ErrEmptyChain = errors.New("chain has no blocks")

// =============================================================================

// IsNextBlock is the fast path check used when a peer pushes a freshly mined
// block. It only checks the linkage and the index against our latest block.
func IsNextBlock(candidate Block, latest Block) bool {
	return candidate.PrevBlockHash == latest.Hash && candidate.Index == latest.Index+1
}

// ValidateBlock takes a block and validates it against its parent block.
func ValidateBlock(block Block, prevBlock Block, difficulty uint16) error {
	if block.Index != prevBlock.Index+1 {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", block.Index, prevBlock.Index+1)
	}

	if block.PrevBlockHash != prevBlock.Hash {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", block.PrevBlockHash, prevBlock.Hash)
	}

	hash := Hash(prevBlock.Hash, block.Data(), block.Nonce)
	if block.Hash != hash {
		return fmt.Errorf("block hash doesn't match block contents, got %s, exp %s", block.Hash, hash)
	}

	if !isHashSolved(difficulty, hash) {
		return fmt.Errorf("%s invalid block hash", hash)
	}

	return nil
}

// ValidateChain walks the entire chain and returns the first problem found.
func ValidateChain(chain []Block, difficulty uint16) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}

	if !chain[0].IsGenesis() {
		return errors.New("first block is not the genesis block")
	}

	for i := 1; i < len(chain); i++ {
		if err := ValidateBlock(chain[i], chain[i-1], difficulty); err != nil {
			return fmt.Errorf("blk[%d]: %w", i, err)
		}
	}

	return nil
}

// IsChainValid reports if the chain is valid end to end.
func IsChainValid(chain []Block, difficulty uint16) bool {
	return ValidateChain(chain, difficulty) == nil
}
