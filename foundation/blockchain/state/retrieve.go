package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RetrieveHost returns the host this node is reachable on by its peers.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveBeneficiary returns the address mining rewards are paid to.
func (s *State) RetrieveBeneficiary() string {
	return s.beneficiary
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain[len(s.chain)-1]
}

// LastBlock is an alias of RetrieveLatestBlock.
func (s *State) LastBlock() database.Block {
	return s.RetrieveLatestBlock()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list excluding
// this node.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus returns the latest block information and the known peers.
func (s *State) RetrieveStatus() peer.PeerStatus {
	latest := s.RetrieveLatestBlock()

	return peer.PeerStatus{
		LatestBlockHash:  latest.Hash,
		LatestBlockIndex: latest.Index,
		KnownPeers:       s.RetrieveKnownPeers(),
	}
}
