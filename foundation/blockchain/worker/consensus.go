package worker

// consensusOperations handles resolving the chain against the peers, either
// on the configured interval or when signaled.
func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: G started")
	defer w.evHandler("worker: consensusOperations: G completed")

	tick, stop := newTicker(w.cfg.ConsensusInterval)
	defer stop()

	for {
		select {
		case <-tick:
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.resolveConsensus:
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.shut:
			w.evHandler("worker: consensusOperations: received shut signal")
			return
		}
	}
}

// runConsensusOperation pulls the peer snapshots and adopts the longest
// valid chain.
func (w *Worker) runConsensusOperation() {
	w.evHandler("worker: runConsensusOperation: started")
	defer w.evHandler("worker: runConsensusOperation: completed")

	outcome := w.state.NetResolveConsensus(w.ctx)
	if outcome.Replaced {
		w.evHandler("worker: runConsensusOperation: chain replaced: blocks[%d]", len(outcome.Chain))
	}
}
