package state

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ProcessProposedBlock takes a block received from a peer and, if it links
// to our latest block, appends it to the chain and empties the mempool. Any
// local mining operation is cancelled since its solution can't be used.
func (s *State) ProcessProposedBlock(block database.Block) bool {
	s.evHandler("state: ProcessProposedBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", block.PrevBlockHash, block.Hash, len(block.Transactions))

	s.mu.Lock()
	{
		lastBlock := s.chain[len(s.chain)-1]
		if !database.IsNextBlock(block, lastBlock) {
			s.mu.Unlock()
			s.evHandler("state: ProcessProposedBlock: REJECTED: blk[%d]: latest[%d]: latestHash[%s]", block.Index, lastBlock.Index, lastBlock.Hash)
			return false
		}

		s.chain = append(s.chain, block)
		s.mempool.Truncate()

		if s.cancelMining != nil {
			s.evHandler("state: ProcessProposedBlock: signal mining to cancel")
			s.cancelMining()
		}
	}
	s.mu.Unlock()

	s.evHandler("state: ProcessProposedBlock: ACCEPTED: blk[%d]", block.Index)
	s.blockEvent(block)

	return true
}

// =============================================================================

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: %s`, string(blockJSON))
}
