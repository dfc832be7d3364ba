package database

import (
	"context"
	"errors"
)

// DefaultDifficulty is the number of leading zero hex characters a block
// hash needs to be considered solved.
const DefaultDifficulty = 4

// ErrMiningExhausted is returned when the configured number of mining
// attempts was reached without finding a solution.
var ErrMiningExhausted = errors.New("mining attempts exhausted")

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PrevBlockHash string
	Data          BlockData
	Difficulty    uint16
	MaxAttempts   uint64 // Zero means no limit.
	EvHandler     func(v string, args ...any)
}

// POW performs the work to find the smallest nonce that solves the
// cryptographic POW puzzle for the specified block data. The search starts
// at zero so identical inputs always produce the identical nonce.
func POW(ctx context.Context, args POWArgs) (nonce uint64, hash string, err error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("database: POW: MINING: started: blk[%d]: txs[%d]", args.Data.Index, len(args.Data.Transactions))
	defer ev("database: POW: MINING: completed: blk[%d]", args.Data.Index)

	for {
		if args.MaxAttempts > 0 && nonce >= args.MaxAttempts {
			ev("database: POW: MINING: EXHAUSTED: attempts[%d]", nonce)
			return 0, "", ErrMiningExhausted
		}

		if nonce%1_000_000 == 0 && nonce > 0 {
			ev("database: POW: MINING: attempts[%d]", nonce)
		}

		// Checking the context on every attempt is too expensive.
		if nonce%1_000 == 0 && ctx.Err() != nil {
			ev("database: POW: MINING: CANCELLED")
			return 0, "", ctx.Err()
		}

		hash = Hash(args.PrevBlockHash, args.Data, nonce)
		if isHashSolved(args.Difficulty, hash) {
			ev("database: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", args.PrevBlockHash, hash, nonce+1)
			return nonce, hash, nil
		}

		nonce++
	}
}

// IsValidProof recomputes the hash for the block data and nonce and checks
// it satisfies the difficulty.
func IsValidProof(prevBlockHash string, data BlockData, nonce uint64, difficulty uint16) bool {
	return isHashSolved(difficulty, Hash(prevBlockHash, data, nonce))
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint16, hash string) bool {
	const match = "0000000000000000000000000000000000000000000000000000000000000000"

	if len(hash) != 64 || int(difficulty) > len(match) {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
