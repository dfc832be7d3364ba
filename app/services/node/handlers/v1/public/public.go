// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	State   *state.State
	Metrics *metrics.Metrics
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// Clients can limit the stream with filter=<prefix>, for example
	// filter=viewer: for chain changes only.
	ch := h.Evts.Acquire(v.TraceID, r.URL.Query()["filter"]...)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Blockchain returns the full chain, the mempool and the nodes in the
// network.
func (h Handlers) Blockchain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveNodeSnapshot(), http.StatusOK)
}

// BroadcastTransaction creates a new transaction, adds it to the mempool
// and shares it with the network.
func (h Handlers) BroadcastTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewDecodeError(err)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	h.Log.Infow("broadcast tran", "traceid", v.TraceID, "sender", ntx.Sender, "recipient", ntx.Recipient, "amount", *ntx.Amount)

	tx, blockIndex, err := h.State.SubmitNewTransaction(*ntx.Amount, ntx.Sender, ntx.Recipient)
	if err != nil {
		return errs.Classify(err,
			errs.On(database.ErrInvalidAmount, http.StatusBadRequest),
			errs.On(mempool.ErrPoolFull, http.StatusServiceUnavailable),
		)
	}

	resp := txCreated{
		Note:        fmt.Sprintf("Transaction created and broadcast successfully, it will be added in block %d.", blockIndex),
		Transaction: tx,
		BlockIndex:  blockIndex,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mine mines the mempool into a new block and proposes it to the network.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNextBlock(ctx)
	if err != nil {
		return errs.Classify(err,
			errs.On(state.ErrMiningInProgress, http.StatusConflict),
			errs.On(state.ErrChainMoved, http.StatusConflict),
			errs.On(context.Canceled, http.StatusConflict),
			errs.On(database.ErrMiningExhausted, http.StatusServiceUnavailable),
		)
	}

	if h.Metrics != nil {
		h.Metrics.AddMinedBlock()
	}

	resp := blockMined{
		Note:  "New block mined and broadcast successfully.",
		Block: block,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Consensus resolves the local chain against the chains held by the peers.
func (h Handlers) Consensus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	outcome := h.State.NetResolveConsensus(ctx)

	if h.Metrics != nil {
		h.Metrics.AddConsensus(outcome.Replaced)
	}

	resp := consensusResult{
		Note:     "Current chain has not been replaced.",
		Replaced: outcome.Replaced,
		Chain:    outcome.Chain,
	}

	if outcome.Replaced {
		resp.Note = "This chain has been replaced."
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Block returns the block with the specified hash.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := web.Param(r, "hash")

	block, err := h.State.QueryBlockByHash(hash)
	if err != nil {
		return errs.Classify(fmt.Errorf("block %q: %w", hash, err), errs.On(state.ErrNotFound, http.StatusNotFound))
	}

	return web.Respond(ctx, w, blockFound{Block: block}, http.StatusOK)
}

// Transaction returns the transaction with the specified id and the block
// that holds it.
func (h Handlers) Transaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := web.Param(r, "id")

	tx, block, err := h.State.QueryTransaction(id)
	if err != nil {
		return errs.Classify(fmt.Errorf("transaction %q: %w", id, err), errs.On(state.ErrNotFound, http.StatusNotFound))
	}

	return web.Respond(ctx, w, txFound{Transaction: tx, Block: block}, http.StatusOK)
}

// Address returns the mined transactions and the balance for an address.
func (h Handlers) Address(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	summary := h.State.QueryAddress(address)

	return web.Respond(ctx, w, addressFound{AddressData: summary}, http.StatusOK)
}

// RegisterPeer adds a new node to the network and lets every node know
// about it.
func (h Handlers) RegisterPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var np newPeer
	if err := web.Decode(r, &np); err != nil {
		return errs.NewDecodeError(err)
	}

	if err := validate.Check(np); err != nil {
		return err
	}

	h.Log.Infow("register peer", "traceid", v.TraceID, "host", np.Host)

	if err := h.State.RegisterAndBroadcastPeer(ctx, peer.New(np.Host)); err != nil {
		return errs.Classify(err,
			errs.On(state.ErrSelfRegistration, http.StatusBadRequest),
			errs.On(state.ErrPeerExists, http.StatusConflict),
		)
	}

	return web.Respond(ctx, w, note{Note: "New node registered with network successfully."}, http.StatusOK)
}
