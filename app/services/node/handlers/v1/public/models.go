package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// newTx is what a client posts to create a transaction.
type newTx struct {
	Amount    *float64 `json:"amount" validate:"required,gte=0"`
	Sender    string   `json:"sender" validate:"required"`
	Recipient string   `json:"recipient" validate:"required"`
}

// newPeer is what a client posts to add a node to the network.
type newPeer struct {
	Host string `json:"host" validate:"required,hostname_port"`
}

type txCreated struct {
	Note        string      `json:"note"`
	Transaction database.Tx `json:"transaction"`
	BlockIndex  int         `json:"blockIndex"`
}

type blockMined struct {
	Note  string         `json:"note"`
	Block database.Block `json:"block"`
}

type consensusResult struct {
	Note     string           `json:"note"`
	Replaced bool             `json:"replaced"`
	Chain    []database.Block `json:"chain"`
}

type blockFound struct {
	Block database.Block `json:"block"`
}

type txFound struct {
	Transaction database.Tx    `json:"transaction"`
	Block       database.Block `json:"block"`
}

type addressFound struct {
	AddressData state.AddressSummary `json:"addressData"`
}

type note struct {
	Note string `json:"note"`
}
