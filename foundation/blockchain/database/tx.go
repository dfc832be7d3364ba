package database

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// RewardSender is the sender address used for system minted mining rewards.
// There is no wallet behind this address.
const RewardSender = "00"

// ErrInvalidAmount is returned when a transaction amount is not a finite,
// non-negative number.
var ErrInvalidAmount = errors.New("amount must be a finite, non-negative number")

// =============================================================================

// Tx represents a transfer of value between two addresses.
type Tx struct {
	ID        string  `json:"transactionId"`
	Amount    float64 `json:"amount"`
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
}

// NewTx constructs a new transaction with a unique id.
func NewTx(amount float64, sender string, recipient string) (Tx, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Tx{}, ErrInvalidAmount
	}

	tx := Tx{
		ID:        NewTxID(),
		Amount:    amount,
		Sender:    sender,
		Recipient: recipient,
	}

	return tx, nil
}

// NewRewardTx constructs the mining reward transaction for the specified
// beneficiary address.
func NewRewardTx(amount float64, beneficiary string) (Tx, error) {
	return NewTx(amount, RewardSender, beneficiary)
}

// NewTxID produces a random 32 character hex identifier.
func NewTxID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsReward reports if the transaction was minted by the system.
func (tx Tx) IsReward() bool {
	return tx.Sender == RewardSender
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s->%s:%v", tx.ID, tx.Sender, tx.Recipient, tx.Amount)
}
