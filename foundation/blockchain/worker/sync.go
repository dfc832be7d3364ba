package worker

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Sync lets the known peers know this node is available and brings the
// chain up to date if any peer is ahead.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	self := peer.New(w.state.RetrieveHost())
	latest := w.state.RetrieveLatestBlock()

	var behind bool
	for _, pr := range w.state.RetrieveKnownPeers() {
		if err := w.state.NetRequestAddPeer(w.ctx, pr, self); err != nil {
			w.evHandler("worker: sync: addPeer: %s: ERROR: %s", pr.Host, err)
			continue
		}

		peerStatus, err := w.state.NetRequestPeerStatus(w.ctx, pr)
		if err != nil {
			w.evHandler("worker: sync: queryPeerStatus: %s: ERROR: %s", pr.Host, err)
			continue
		}

		if peerStatus.LatestBlockIndex > latest.Index {
			w.evHandler("worker: sync: peer[%s] is ahead: latest-blknum[%d]", pr.Host, peerStatus.LatestBlockIndex)
			behind = true
		}
	}

	if !behind {
		return
	}

	outcome := w.state.NetResolveConsensus(w.ctx)
	w.evHandler("worker: sync: consensus: replaced[%v]: blocks[%d]", outcome.Replaced, len(outcome.Chain))
}
