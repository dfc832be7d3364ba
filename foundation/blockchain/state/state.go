// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// defaultPeerTimeout is used when no peer timeout is configured.
const defaultPeerTimeout = 5 * time.Second

// ErrNotFound is returned when a block, transaction or peer lookup misses.
var ErrNotFound = errors.New("not found")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for block and transaction sharing and for
// running consensus in the background.
type Worker interface {
	Shutdown()
	SignalShareTx(tx database.Tx)
	SignalShareBlock(block database.Block)
	SignalResolveConsensus()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	BeneficiaryAddress string
	Host               string
	Genesis            genesis.Genesis
	KnownPeers         *peer.PeerSet
	PeerTimeout        time.Duration
	EvHandler          EventHandler
}

// State manages the chain and the pending transactions for a node. It is the
// only value allowed to change either of them.
type State struct {
	beneficiary string
	host        string
	peerTimeout time.Duration
	evHandler   EventHandler

	genesis    genesis.Genesis
	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool

	// Consecutive failed requests per peer host.
	peerMu       sync.Mutex
	peerFailures map[string]int

	mu           sync.RWMutex
	chain        []database.Block
	cancelMining context.CancelFunc

	// Only one local mining operation can run at a time.
	miningMu sync.Mutex

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	if cfg.BeneficiaryAddress == "" {
		return nil, errors.New("beneficiary address is required")
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = defaultPeerTimeout
	}

	state := State{
		beneficiary: cfg.BeneficiaryAddress,
		host:        cfg.Host,
		peerTimeout: peerTimeout,
		evHandler:   ev,

		genesis:    cfg.Genesis,
		knownPeers: knownPeers,
		mempool:    mempool.NewWithLimit(cfg.Genesis.MaxPoolSize),
		chain:      []database.Block{database.Genesis()},

		peerFailures: make(map[string]int),

		// The call to worker.Run will replace this with a real worker.
		Worker: nopWorker{},
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop any mining that is taking place.
	s.mu.Lock()
	if s.cancelMining != nil {
		s.cancelMining()
	}
	s.mu.Unlock()

	// Stop all blockchain writing activity.
	s.Worker.Shutdown()

	return nil
}

// =============================================================================

// nopWorker is used until a real worker registers itself.
type nopWorker struct{}

func (nopWorker) Shutdown()                       {}
func (nopWorker) SignalShareTx(database.Tx)       {}
func (nopWorker) SignalShareBlock(database.Block) {}
func (nopWorker) SignalResolveConsensus()         {}
