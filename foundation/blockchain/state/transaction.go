package state

import (
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// CreateTransaction constructs a new transaction with a unique id. The
// mempool is not touched.
func (s *State) CreateTransaction(amount float64, sender string, recipient string) (database.Tx, error) {
	return database.NewTx(amount, sender, recipient)
}

// AddToPendingPool appends the transaction to the mempool and returns the
// index of the block the transaction is expected to be mined into.
func (s *State) AddToPendingPool(tx database.Tx) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.mempool.Add(tx); err != nil {
		return 0, err
	}

	s.evHandler("state: AddToPendingPool: tx[%s]", tx)

	return int(s.chain[len(s.chain)-1].Index) + 1, nil
}

// SubmitNewTransaction creates a transaction for the caller, adds it to the
// mempool and shares it with the known peers.
func (s *State) SubmitNewTransaction(amount float64, sender string, recipient string) (database.Tx, int, error) {
	tx, err := s.CreateTransaction(amount, sender, recipient)
	if err != nil {
		return database.Tx{}, 0, err
	}

	blockIndex, err := s.AddToPendingPool(tx)
	if err != nil {
		return database.Tx{}, 0, err
	}

	s.Worker.SignalShareTx(tx)

	return tx, blockIndex, nil
}

// SubmitNodeTransaction accepts a transaction shared by a peer. It is not
// shared again.
func (s *State) SubmitNodeTransaction(tx database.Tx) (int, error) {
	if err := validateTransaction(tx); err != nil {
		return 0, err
	}

	return s.AddToPendingPool(tx)
}

// =============================================================================

// validateTransaction checks a transaction received from the network.
func validateTransaction(tx database.Tx) error {
	if tx.ID == "" {
		return errors.New("transaction id is required")
	}

	if _, err := database.NewTx(tx.Amount, tx.Sender, tx.Recipient); err != nil {
		return err
	}

	return nil
}
