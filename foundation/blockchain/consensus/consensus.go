// Package consensus implements the longest valid chain rule used to
// reconcile a node's chain with the chains held by its peers.
package consensus

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Snapshot represents a node's chain and pending transactions at a point
// in time.
type Snapshot struct {
	Chain      []database.Block `json:"chain"`
	PendingTxs []database.Tx    `json:"pendingTransactions"`
}

// Outcome represents the result of resolving a set of peer snapshots
// against the local snapshot.
type Outcome struct {
	Replaced   bool             `json:"replaced"`
	Chain      []database.Block `json:"chain"`
	PendingTxs []database.Tx    `json:"pendingTransactions"`
}

// Resolve scans the peer snapshots in order and picks the longest chain that
// is longer than the local chain. A candidate is only replaced by a strictly
// longer one, so among peers sharing the maximal length the first one scanned
// is kept. Only that candidate is validated; if it isn't valid the local
// chain is kept.
func Resolve(local Snapshot, peers []Snapshot, difficulty uint16) Outcome {
	maxLength := len(local.Chain)

	var winner *Snapshot
	for i := range peers {

		// Strict > keeps the first of equal maximal lengths.
		if len(peers[i].Chain) > maxLength {
			maxLength = len(peers[i].Chain)
			winner = &peers[i]
		}
	}

	if winner == nil || !database.IsChainValid(winner.Chain, difficulty) {
		return Outcome{
			Replaced:   false,
			Chain:      local.Chain,
			PendingTxs: local.PendingTxs,
		}
	}

	pending := winner.PendingTxs
	if pending == nil {
		pending = []database.Tx{}
	}

	return Outcome{
		Replaced:   true,
		Chain:      winner.Chain,
		PendingTxs: pending,
	}
}
