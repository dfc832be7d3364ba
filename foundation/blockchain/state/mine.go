package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Set of errors returned by the mining workflow.
var (
	ErrMiningInProgress = errors.New("a mining operation is already running")
	ErrChainMoved       = errors.New("chain changed while mining, block discarded")
)

// =============================================================================

// MineNextBlock queues the mining reward, solves the POW puzzle for the
// current mempool and commits the new block to the chain.
//
// The mempool is captured when mining starts and the committed block holds
// exactly that snapshot. Transactions that arrive during the search stay in
// the mempool for the next block. If the chain changes during the search the
// solution is useless and ErrChainMoved is returned.
func (s *State) MineNextBlock(ctx context.Context) (database.Block, error) {
	if !s.miningMu.TryLock() {
		return database.Block{}, ErrMiningInProgress
	}
	defer s.miningMu.Unlock()

	s.evHandler("state: MineNextBlock: MINING: queue reward")

	reward, err := database.NewRewardTx(s.genesis.MiningReward, s.beneficiary)
	if err != nil {
		return database.Block{}, err
	}

	// Capture what will be mined and register a way for peer blocks to
	// cancel the search.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.mempool.AddReward(reward)
	prevBlock := s.chain[len(s.chain)-1]
	trans := s.mempool.Copy()
	s.cancelMining = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.cancelMining = nil
		s.mu.Unlock()
	}()

	s.evHandler("state: MineNextBlock: MINING: perform POW: txs[%d]", len(trans))

	data := database.BlockData{
		Transactions: trans,
		Index:        prevBlock.Index + 1,
	}

	nonce, hash, err := database.POW(ctx, database.POWArgs{
		PrevBlockHash: prevBlock.Hash,
		Data:          data,
		Difficulty:    s.genesis.Difficulty,
		MaxAttempts:   s.genesis.MaxMiningAttempts,
		EvHandler:     s.evHandler,
	})
	if err != nil {
		s.mempool.Delete([]database.Tx{reward})
		return database.Block{}, err
	}

	s.evHandler("state: MineNextBlock: MINING: commit block")

	block, err := s.commitMinedBlock(prevBlock, nonce, hash, trans)
	if err != nil {
		s.mempool.Delete([]database.Tx{reward})
		return database.Block{}, err
	}

	s.blockEvent(block)

	// Send the new block to the network. This doesn't block.
	s.Worker.SignalShareBlock(block)

	return block, nil
}

// AssembleBlock builds the next block from the current mempool using an
// already solved nonce and hash, appends it to the chain and empties the
// mempool.
func (s *State) AssembleBlock(nonce uint64, prevBlockHash string, hash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastBlock := s.chain[len(s.chain)-1]
	block := database.NewBlock(lastBlock.Index+1, nonce, prevBlockHash, hash, s.mempool.Copy())

	s.chain = append(s.chain, block)
	s.mempool.Truncate()

	s.evHandler("state: AssembleBlock: blk[%d]: hash[%s]: txs[%d]", block.Index, block.Hash, len(block.Transactions))

	return block
}

// =============================================================================

// commitMinedBlock appends a locally mined block as long as the chain still
// ends with the block that was mined on top of.
func (s *State) commitMinedBlock(prevBlock database.Block, nonce uint64, hash string, trans []database.Tx) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastBlock := s.chain[len(s.chain)-1]
	if lastBlock.Hash != prevBlock.Hash || lastBlock.Index != prevBlock.Index {
		return database.Block{}, ErrChainMoved
	}

	block := database.NewBlock(prevBlock.Index+1, nonce, prevBlock.Hash, hash, trans)

	s.chain = append(s.chain, block)
	s.mempool.Delete(trans)

	return block, nil
}
