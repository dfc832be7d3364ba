// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Blockchain returns the chain and mempool so peers can run consensus.
func (h Handlers) Blockchain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveNodeSnapshot(), http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveStatus(), http.StatusOK)
}

// SubmitNodeTransaction adds a transaction shared by a peer to the mempool.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a transaction.
	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewDecodeError(err)
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx.ID, "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount)

	blockIndex, err := h.State.SubmitNodeTransaction(tx)
	if err != nil {
		return errs.Classify(err,
			errs.On(mempool.ErrPoolFull, http.StatusServiceUnavailable),
			errs.Otherwise(http.StatusBadRequest),
		)
	}

	resp := struct {
		Note string `json:"note"`
	}{
		Note: fmt.Sprintf("Transaction will be added in block %d.", blockIndex),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ProposeBlock takes a block mined by a peer and, if it links to the latest
// block, adds it to the local chain.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	// Decode the JSON in the post call into a block.
	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return errs.NewDecodeError(err)
	}

	if !h.State.ProcessProposedBlock(block) {
		return errs.NewTrusted(errors.New("block not accepted"), http.StatusNotAcceptable)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "accepted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddPeer adds a node announced by a peer to the known peer list. This
// node and nodes already known are ignored.
func (h Handlers) AddPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var pr peer.Peer
	if err := web.Decode(r, &pr); err != nil {
		return errs.NewDecodeError(err)
	}

	if !h.State.AddKnownPeer(pr) {
		h.Log.Infow("add peer: ignored", "host", pr.Host)
	}

	return web.Respond(ctx, w, nil, http.StatusNoContent)
}

// AddPeers adds every node in the list to the known peer list. This node
// and nodes already known are ignored.
func (h Handlers) AddPeers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var peers []peer.Peer
	if err := web.Decode(r, &peers); err != nil {
		return errs.NewDecodeError(err)
	}

	added := h.State.AddKnownPeers(peers)

	resp := struct {
		Note  string `json:"note"`
		Added int    `json:"added"`
	}{
		Note:  "Bulk registration successful.",
		Added: added,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
