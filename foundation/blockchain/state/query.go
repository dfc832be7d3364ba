package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// AddressSummary represents every transaction an address took part in and
// the resulting balance.
type AddressSummary struct {
	Transactions []database.Tx `json:"addressTransactions"`
	Balance      float64       `json:"addressBalance"`
}

// QueryBlockByHash returns the block with the specified hash.
func (s *State) QueryBlockByHash(hash string) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, block := range s.chain {
		if block.Hash == hash {
			return block, nil
		}
	}

	return database.Block{}, ErrNotFound
}

// QueryTransaction returns the transaction with the specified id along with
// the block that holds it. Only mined transactions are searched.
func (s *State) QueryTransaction(id string) (database.Tx, database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, block := range s.chain {
		for _, tx := range block.Transactions {
			if tx.ID == id {
				return tx, block, nil
			}
		}
	}

	return database.Tx{}, database.Block{}, ErrNotFound
}

// QueryAddress returns every mined transaction where the address is the
// sender or the recipient, in chain order, with the address balance.
// Pending transactions are not included.
func (s *State) QueryAddress(address string) AddressSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := AddressSummary{
		Transactions: []database.Tx{},
	}

	for _, block := range s.chain {
		for _, tx := range block.Transactions {
			if tx.Sender != address && tx.Recipient != address {
				continue
			}

			summary.Transactions = append(summary.Transactions, tx)

			if tx.Recipient == address {
				summary.Balance += tx.Amount
			}
			if tx.Sender == address {
				summary.Balance -= tx.Amount
			}
		}
	}

	return summary
}

// QueryChainLength returns the number of blocks in the chain including
// the genesis block.
func (s *State) QueryChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chain)
}

// QueryMempoolLength returns the number of transactions waiting to be mined.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}
