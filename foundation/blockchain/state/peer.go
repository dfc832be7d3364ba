package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// maxPeerFailures is the number of consecutive failed requests after which
// a peer is dropped from the known peer list.
const maxPeerFailures = 3

// Set of errors returned when registering peers.
var (
	ErrSelfRegistration = errors.New("a node can't register itself as a peer")
	ErrPeerExists       = errors.New("peer already registered")
)

// AddKnownPeer provides the ability to add a new peer to the known peer
// list. It reports false when the peer is this node or already known.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if pr.Host == "" || pr.Match(s.host) {
		return false
	}

	return s.knownPeers.Add(pr)
}

// AddKnownPeers adds every peer in the list, skipping this node and the
// peers already known. It returns the number of peers added.
func (s *State) AddKnownPeers(peers []peer.Peer) int {
	var added int
	for _, pr := range peers {
		if s.AddKnownPeer(pr) {
			added++
		}
	}

	return added
}

// RemoveKnownPeer provides the ability to remove a peer from
// the known peer list.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)

	s.peerMu.Lock()
	delete(s.peerFailures, pr.Host)
	s.peerMu.Unlock()
}

// peerFailed records a failed request to the peer and drops the peer once
// it has failed maxPeerFailures times in a row.
func (s *State) peerFailed(pr peer.Peer) {
	s.peerMu.Lock()
	s.peerFailures[pr.Host]++
	failures := s.peerFailures[pr.Host]
	s.peerMu.Unlock()

	if failures < maxPeerFailures {
		return
	}

	s.RemoveKnownPeer(pr)
	s.evHandler("state: peerFailed: removed peer[%s]: failures[%d]", pr, failures)
}

// peerResponded clears the failure count for the peer.
func (s *State) peerResponded(pr peer.Peer) {
	s.peerMu.Lock()
	delete(s.peerFailures, pr.Host)
	s.peerMu.Unlock()
}

// RegisterAndBroadcastPeer adds a new node to the network. Every peer this
// node already knows is told about the new node, then the new node is handed
// the complete list of nodes including this one. Peers that can't be reached
// are logged and skipped.
func (s *State) RegisterAndBroadcastPeer(ctx context.Context, newPeer peer.Peer) error {
	s.evHandler("state: RegisterAndBroadcastPeer: started: %s", newPeer)
	defer s.evHandler("state: RegisterAndBroadcastPeer: completed: %s", newPeer)

	if newPeer.Match(s.host) {
		return ErrSelfRegistration
	}

	if !s.AddKnownPeer(newPeer) {
		return fmt.Errorf("%s: %w", newPeer, ErrPeerExists)
	}

	existing := s.knownPeers.Copy(newPeer.Host)
	for _, pr := range existing {
		if err := s.NetRequestAddPeer(ctx, pr, newPeer); err != nil {
			s.evHandler("state: RegisterAndBroadcastPeer: WARNING: add to peer[%s]: %s", pr, err)
		}
	}

	all := append([]peer.Peer{peer.New(s.host)}, existing...)
	if err := s.NetRequestBulkPeers(ctx, newPeer, all); err != nil {
		s.evHandler("state: RegisterAndBroadcastPeer: WARNING: bulk to peer[%s]: %s", newPeer, err)
	}

	return nil
}
