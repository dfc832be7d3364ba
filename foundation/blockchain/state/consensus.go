package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// RetrieveSnapshot returns a copy of the chain and the mempool taken under
// the same lock so they are consistent with each other.
func (s *State) RetrieveSnapshot() consensus.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := make([]database.Block, len(s.chain))
	copy(chain, s.chain)

	return consensus.Snapshot{
		Chain:      chain,
		PendingTxs: s.mempool.Copy(),
	}
}

// NodeSnapshot is the full view of a node handed to clients and peers.
type NodeSnapshot struct {
	consensus.Snapshot
	CurrentNodeURL string   `json:"currentNodeUrl"`
	NetworkNodes   []string `json:"networkNodes"`
}

// RetrieveNodeSnapshot returns the chain and mempool along with this node's
// host and the hosts of the peers it knows about.
func (s *State) RetrieveNodeSnapshot() NodeSnapshot {
	peers := s.RetrieveKnownPeers()

	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	return NodeSnapshot{
		Snapshot:       s.RetrieveSnapshot(),
		CurrentNodeURL: s.host,
		NetworkNodes:   hosts,
	}
}

// ResolveConsensus applies the longest valid chain rule against the
// specified peer snapshots. When a peer chain wins, the local chain and
// mempool are replaced by the peer's and any local mining is cancelled.
func (s *State) ResolveConsensus(peers []consensus.Snapshot) consensus.Outcome {
	s.evHandler("state: ResolveConsensus: started: peers[%d]", len(peers))

	s.mu.Lock()
	defer s.mu.Unlock()

	current := make([]database.Block, len(s.chain))
	copy(current, s.chain)

	local := consensus.Snapshot{
		Chain:      current,
		PendingTxs: s.mempool.Copy(),
	}

	outcome := consensus.Resolve(local, peers, s.genesis.Difficulty)
	if !outcome.Replaced {
		s.evHandler("state: ResolveConsensus: completed: chain kept: blocks[%d]", len(s.chain))
		return outcome
	}

	chain := make([]database.Block, len(outcome.Chain))
	copy(chain, outcome.Chain)

	s.chain = chain
	s.mempool.Replace(outcome.PendingTxs)

	if s.cancelMining != nil {
		s.cancelMining()
	}

	s.evHandler("state: ResolveConsensus: completed: chain replaced: blocks[%d]: txs[%d]", len(chain), len(outcome.PendingTxs))

	return outcome
}

// NetResolveConsensus gathers the snapshots of the known peers and resolves
// the local chain against them.
func (s *State) NetResolveConsensus(ctx context.Context) consensus.Outcome {
	peers := s.NetRequestPeerSnapshots(ctx)
	return s.ResolveConsensus(peers)
}
