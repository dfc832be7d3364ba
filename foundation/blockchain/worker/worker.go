// Package worker implements block propagation, transaction sharing and
// periodic consensus for the blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Config represents the settings for the background operations.
type Config struct {

	// ConsensusInterval is how often the chain is resolved against the
	// peers. Zero turns periodic consensus off.
	ConsensusInterval time.Duration
}

// =============================================================================

// Worker manages the network workflows for the blockchain.
type Worker struct {
	state            *state.State
	cfg              Config
	wg               sync.WaitGroup
	ctx              context.Context
	cancel           context.CancelFunc
	shut             chan struct{}
	txSharing        chan database.Tx
	blockSharing     chan database.Block
	resolveConsensus chan bool
	evHandler        state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config, evHandler state.EventHandler) {
	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:            st,
		cfg:              cfg,
		ctx:              ctx,
		cancel:           cancel,
		shut:             make(chan struct{}),
		txSharing:        make(chan database.Tx, maxTxShareRequests),
		blockSharing:     make(chan database.Block, maxBlockShareRequests),
		resolveConsensus: make(chan bool, 1),
		evHandler:        evHandler,
	}

	if w.evHandler == nil {
		w.evHandler = func(string, ...any) {}
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.shareTxOperations,
		w.shareBlockOperations,
		w.consensusOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: cancel network calls")
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalShareTx signals a share transaction operation. If
// maxTxShareRequests signals exist in the channel, we won't send these.
func (w *Worker) SignalShareTx(tx database.Tx) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, transactions won't be shared.")
	}
}

// SignalShareBlock signals a new block needs to be proposed to the peers.
// If maxBlockShareRequests signals exist in the channel, the block is dropped
// and peers will pick it up at the next consensus.
func (w *Worker) SignalShareBlock(block database.Block) {
	select {
	case w.blockSharing <- block:
		w.evHandler("worker: SignalShareBlock: share block signaled: blk[%d]", block.Index)
	default:
		w.evHandler("worker: SignalShareBlock: queue full, block won't be shared: blk[%d]", block.Index)
	}
}

// SignalResolveConsensus starts a consensus operation. If there is already
// a signal pending in the channel, just return since an operation will run.
func (w *Worker) SignalResolveConsensus() {
	select {
	case w.resolveConsensus <- true:
	default:
	}
	w.evHandler("worker: SignalResolveConsensus: consensus signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// newTicker returns a ticker channel for the interval. A zero interval
// returns a nil channel which never fires.
func newTicker(interval time.Duration) (<-chan time.Time, func()) {
	if interval <= 0 {
		return nil, func() {}
	}

	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}
