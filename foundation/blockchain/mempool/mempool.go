// Package mempool maintains the pool of pending transactions for the
// blockchain.
package mempool

import (
	"errors"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrPoolFull is returned when the pool has reached its configured size.
var ErrPoolFull = errors.New("mempool is full")

// Mempool represents an ordered cache of transactions waiting to be mined.
// Transactions keep the order they were received in.
type Mempool struct {
	mu      sync.RWMutex
	pool    []database.Tx
	maxSize int
}

// New constructs a new mempool with no size limit.
func New() *Mempool {
	return NewWithLimit(0)
}

// NewWithLimit constructs a new mempool that holds at most maxSize
// transactions. A maxSize of zero means unbounded.
func NewWithLimit(maxSize int) *Mempool {
	return &Mempool{
		maxSize: maxSize,
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the pool. There is no check for duplicate
// transaction ids.
func (mp *Mempool) Add(tx database.Tx) (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.maxSize > 0 && len(mp.pool) >= mp.maxSize {
		return len(mp.pool), ErrPoolFull
	}

	mp.pool = append(mp.pool, tx)

	return len(mp.pool), nil
}

// AddReward appends a mining reward to the pool. The size limit doesn't
// apply so a full pool can still be mined.
func (mp *Mempool) AddReward(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Delete removes the specified transactions from the pool. Each entry in
// the set removes one matching transaction, oldest first, so a copy with
// the same id that was added later stays in the pool.
func (mp *Mempool) Delete(txs []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	counts := make(map[string]int, len(txs))
	for _, tx := range txs {
		counts[tx.ID]++
	}

	pool := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		if counts[tx.ID] > 0 {
			counts[tx.ID]--
			continue
		}
		pool = append(pool, tx)
	}

	mp.pool = pool
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Replace swaps the contents of the pool wholesale. The size limit is not
// applied since the transactions come from an adopted peer chain.
func (mp *Mempool) Replace(txs []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make([]database.Tx, len(txs))
	copy(mp.pool, txs)
}

// Copy returns a copy of the transactions in the order received.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}
