package worker

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// maxBlockShareRequests represents the max number of mined blocks waiting
// to be proposed to the peers.
const maxBlockShareRequests = 10

// =============================================================================

// shareBlockOperations handles proposing locally mined blocks to the peers.
func (w *Worker) shareBlockOperations() {
	w.evHandler("worker: shareBlockOperations: G started")
	defer w.evHandler("worker: shareBlockOperations: G completed")

	for {
		select {
		case block := <-w.blockSharing:
			if !w.isShutdown() {
				w.runShareBlockOperation(block)
			}
		case <-w.shut:
			w.evHandler("worker: shareBlockOperations: received shut signal")
			return
		}
	}
}

// runShareBlockOperation proposes the block to every known peer. Log the
// error, but that's it.
func (w *Worker) runShareBlockOperation(block database.Block) {
	w.evHandler("worker: runShareBlockOperation: started: blk[%d]", block.Index)
	defer w.evHandler("worker: runShareBlockOperation: completed: blk[%d]", block.Index)

	if err := w.state.NetSendBlockToPeers(w.ctx, block); err != nil {
		w.evHandler("worker: runShareBlockOperation: WARNING: %s", err)
	}
}
