// Package peer maintains the peer related information such as the set
// of know peers and their status.
package peer

import (
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// PeerStatus represents information about the status
// of any given peer.
type PeerStatus struct {
	LatestBlockHash  string `json:"latest_block_hash"`
	LatestBlockIndex uint64 `json:"latest_block_index"`
	KnownPeers       []Peer `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
// Peers are kept in the order they were registered since consensus scans
// them in that order.
type PeerSet struct {
	mu    sync.RWMutex
	peers []Peer
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{}
}

// Add adds a new node to the set. It reports false if the node already
// existed.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, p := range ps.peers {
		if p == peer {
			return false
		}
	}

	ps.peers = append(ps.peers, peer)
	return true
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, p := range ps.peers {
		if p == peer {
			ps.peers = append(ps.peers[:i], ps.peers[i+1:]...)
			return
		}
	}
}

// Copy returns a list of the known peers excluding the specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.peers))
	for _, peer := range ps.peers {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	return peers
}
