package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

const baseURL = "http://%s/v1/node"

// ErrPeerUnreachable is returned when a peer can't be reached or returns
// a response that can't be used.
var ErrPeerUnreachable = errors.New("peer unreachable")

// NetSendBlockToPeers takes the new mined block and sends it to all know
// peers. A peer that fails to accept the block doesn't stop the others.
func (s *State) NetSendBlockToPeers(ctx context.Context, block database.Block) error {
	s.evHandler("state: NetSendBlockToPeers: started")
	defer s.evHandler("state: NetSendBlockToPeers: completed")

	var errs []error
	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/block/propose", fmt.Sprintf(baseURL, pr.Host))

		var status struct {
			Status string `json:"status"`
		}

		if err := s.send(ctx, http.MethodPost, url, block, &status); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", pr.Host, err))
			continue
		}

		s.evHandler("state: NetSendBlockToPeers: sent to peer[%s]: status[%s]", pr, status.Status)
	}

	return errors.Join(errs...)
}

// NetSendTxToPeers shares a new transaction with the known peers.
func (s *State) NetSendTxToPeers(ctx context.Context, tx database.Tx) {
	s.evHandler("state: NetSendTxToPeers: started")
	defer s.evHandler("state: NetSendTxToPeers: completed")

	for _, pr := range s.RetrieveKnownPeers() {
		url := fmt.Sprintf("%s/tx/submit", fmt.Sprintf(baseURL, pr.Host))
		if err := s.send(ctx, http.MethodPost, url, tx, nil); err != nil {
			s.evHandler("state: NetSendTxToPeers: WARNING: %s: %s", pr, err)
		}
	}
}

// NetRequestPeerSnapshots asks every known peer for its chain and mempool.
// The snapshots are returned in peer registration order and peers that
// couldn't answer are left out. A peer that keeps failing is dropped.
func (s *State) NetRequestPeerSnapshots(ctx context.Context) []consensus.Snapshot {
	s.evHandler("state: NetRequestPeerSnapshots: started")
	defer s.evHandler("state: NetRequestPeerSnapshots: completed")

	peers := s.RetrieveKnownPeers()
	results := make([]*consensus.Snapshot, len(peers))

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for i, pr := range peers {
		go func(i int, pr peer.Peer) {
			defer wg.Done()

			snapshot, err := s.NetRequestPeerSnapshot(ctx, pr)
			if err != nil {
				s.evHandler("state: NetRequestPeerSnapshots: WARNING: %s: %s", pr, err)
				if errors.Is(err, ErrPeerUnreachable) {
					s.peerFailed(pr)
				}
				return
			}

			s.peerResponded(pr)
			results[i] = &snapshot
		}(i, pr)
	}

	wg.Wait()

	snapshots := make([]consensus.Snapshot, 0, len(peers))
	for _, snapshot := range results {
		if snapshot != nil {
			snapshots = append(snapshots, *snapshot)
		}
	}

	return snapshots
}

// NetRequestPeerSnapshot asks the specified peer for its chain and mempool.
func (s *State) NetRequestPeerSnapshot(ctx context.Context, pr peer.Peer) (consensus.Snapshot, error) {
	url := fmt.Sprintf("%s/blockchain", fmt.Sprintf(baseURL, pr.Host))

	var snapshot consensus.Snapshot
	if err := s.send(ctx, http.MethodGet, url, nil, &snapshot); err != nil {
		return consensus.Snapshot{}, err
	}

	s.evHandler("state: NetRequestPeerSnapshot: peer[%s]: blocks[%d]: txs[%d]", pr, len(snapshot.Chain), len(snapshot.PendingTxs))

	return snapshot, nil
}

// NetRequestPeerStatus asks the peer for its latest block and the peers
// it knows about.
func (s *State) NetRequestPeerStatus(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error) {
	s.evHandler("state: NetRequestPeerStatus: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerStatus: completed: %s", pr)

	url := fmt.Sprintf("%s/status", fmt.Sprintf(baseURL, pr.Host))

	var ps peer.PeerStatus
	if err := s.send(ctx, http.MethodGet, url, nil, &ps); err != nil {
		return peer.PeerStatus{}, err
	}

	s.evHandler("state: NetRequestPeerStatus: peer-node[%s]: latest-blknum[%d]: peer-list[%s]", pr, ps.LatestBlockIndex, ps.KnownPeers)

	return ps, nil
}

// NetRequestAddPeer tells the specified peer about a new node.
func (s *State) NetRequestAddPeer(ctx context.Context, pr peer.Peer, newPeer peer.Peer) error {
	url := fmt.Sprintf("%s/peers/add", fmt.Sprintf(baseURL, pr.Host))
	return s.send(ctx, http.MethodPost, url, newPeer, nil)
}

// NetRequestBulkPeers hands the specified peer the full list of nodes in
// the network.
func (s *State) NetRequestBulkPeers(ctx context.Context, pr peer.Peer, peers []peer.Peer) error {
	url := fmt.Sprintf("%s/peers/bulk", fmt.Sprintf(baseURL, pr.Host))
	return s.send(ctx, http.MethodPost, url, peers, nil)
}

// =============================================================================

// send is a helper function to send an HTTP request to a node. Every
// request is bounded by the configured peer timeout.
func (s *State) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPeerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPeerUnreachable, err)
		}
		return fmt.Errorf("%w: status[%d]: %s", ErrPeerUnreachable, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return fmt.Errorf("%w: decode: %w", ErrPeerUnreachable, err)
		}
	}

	return nil
}
