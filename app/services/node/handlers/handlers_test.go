package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// node is a running node with its public and private apis.
type node struct {
	state   *state.State
	public  *httptest.Server
	private *httptest.Server
	host    string
}

func startNode(t *testing.T, name string) *node {
	t.Helper()

	private := httptest.NewUnstartedServer(nil)
	host := private.Listener.Addr().String()

	gen := genesis.Default()
	gen.Difficulty = 2

	st, err := state.New(state.Config{
		BeneficiaryAddress: name,
		Host:               host,
		Genesis:            gen,
		PeerTimeout:        2 * time.Second,
	})
	require.NoError(t, err)

	worker.Run(st, worker.Config{}, nil)

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     events.New(),
		Metrics:  metrics.New(st),
	}

	private.Config.Handler = handlers.PrivateMux(cfg)
	private.Start()

	public := httptest.NewServer(handlers.PublicMux(cfg))

	t.Cleanup(func() {
		public.Close()
		private.Close()
		st.Shutdown()
	})

	return &node{
		state:   st,
		public:  public,
		private: private,
		host:    host,
	}
}

func call(t *testing.T, method string, url string, in any, out any) int {
	t.Helper()

	var body bytes.Buffer
	if in != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(in))
	}

	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func Test_TwoNodes(t *testing.T) {
	a := startNode(t, "node-a")
	b := startNode(t, "node-b")

	// Register node b through node a. Node b learns about node a through
	// the bulk registration.
	status := call(t, http.MethodPost, a.public.URL+"/v1/peers/register", map[string]string{"host": b.host}, nil)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, a.state.RetrieveKnownPeers(), 1)
	require.Len(t, b.state.RetrieveKnownPeers(), 1)
	assert.Equal(t, a.host, b.state.RetrieveKnownPeers()[0].Host)

	// Registering the same node twice is a conflict.
	status = call(t, http.MethodPost, a.public.URL+"/v1/peers/register", map[string]string{"host": b.host}, nil)
	assert.Equal(t, http.StatusConflict, status)

	// A transaction created on node a is shared with node b.
	var created struct {
		Transaction database.Tx `json:"transaction"`
		BlockIndex  int         `json:"blockIndex"`
	}
	status = call(t, http.MethodPost, a.public.URL+"/v1/tx/broadcast", map[string]any{"amount": 5, "sender": "A", "recipient": "B"}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1, created.BlockIndex)

	require.Eventually(t, func() bool {
		return b.state.QueryMempoolLength() == 1
	}, 5*time.Second, 10*time.Millisecond, "node b should receive the transaction")

	// Mining on node a proposes the block to node b.
	var mined struct {
		Block database.Block `json:"block"`
	}
	status = call(t, http.MethodGet, a.public.URL+"/v1/mine", nil, &mined)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, uint64(1), mined.Block.Index)
	require.Len(t, mined.Block.Transactions, 2)

	require.Eventually(t, func() bool {
		return b.state.LastBlock().Hash == mined.Block.Hash
	}, 5*time.Second, 10*time.Millisecond, "node b should accept the block")
	assert.Equal(t, 0, b.state.QueryMempoolLength())

	// Both nodes agree, so consensus keeps the chain.
	var resolved struct {
		Replaced bool             `json:"replaced"`
		Chain    []database.Block `json:"chain"`
	}
	status = call(t, http.MethodGet, b.public.URL+"/v1/consensus", nil, &resolved)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, resolved.Replaced)
	assert.Len(t, resolved.Chain, 2)

	// Lookups on node b see the mined transaction.
	var found struct {
		Transaction database.Tx    `json:"transaction"`
		Block       database.Block `json:"block"`
	}
	status = call(t, http.MethodGet, fmt.Sprintf("%s/v1/tx/%s", b.public.URL, created.Transaction.ID), nil, &found)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, mined.Block.Hash, found.Block.Hash)

	status = call(t, http.MethodGet, b.public.URL+"/v1/block/"+mined.Block.Hash, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	var address struct {
		AddressData state.AddressSummary `json:"addressData"`
	}
	status = call(t, http.MethodGet, b.public.URL+"/v1/address/B", nil, &address)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5), address.AddressData.Balance)

	var snapshot state.NodeSnapshot
	status = call(t, http.MethodGet, a.public.URL+"/v1/blockchain", nil, &snapshot)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, a.host, snapshot.CurrentNodeURL)
	assert.Equal(t, []string{b.host}, snapshot.NetworkNodes)
	assert.Len(t, snapshot.Chain, 2)
}

func Test_Consensus(t *testing.T) {
	a := startNode(t, "node-a")
	b := startNode(t, "node-b")

	// Node b mines on its own before joining the network.
	for i := 0; i < 2; i++ {
		status := call(t, http.MethodGet, b.public.URL+"/v1/mine", nil, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status := call(t, http.MethodPost, a.public.URL+"/v1/peers/register", map[string]string{"host": b.host}, nil)
	require.Equal(t, http.StatusOK, status)

	var resolved struct {
		Replaced bool             `json:"replaced"`
		Chain    []database.Block `json:"chain"`
	}
	status = call(t, http.MethodGet, a.public.URL+"/v1/consensus", nil, &resolved)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resolved.Replaced)
	assert.Len(t, resolved.Chain, 3)
	assert.Equal(t, b.state.LastBlock().Hash, a.state.LastBlock().Hash)
}

func Test_Errors(t *testing.T) {
	a := startNode(t, "node-a")

	tests := []struct {
		name   string
		method string
		path   string
		in     any
		status int
	}{
		{name: "missing fields", method: http.MethodPost, path: "/v1/tx/broadcast", in: map[string]any{"amount": 5}, status: http.StatusBadRequest},
		{name: "negative amount", method: http.MethodPost, path: "/v1/tx/broadcast", in: map[string]any{"amount": -5, "sender": "A", "recipient": "B"}, status: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/v1/tx/broadcast", in: map[string]any{"amount": 5, "sender": "A", "recipient": "B", "fee": 1}, status: http.StatusBadRequest},
		{name: "unknown block", method: http.MethodGet, path: "/v1/block/abc", status: http.StatusNotFound},
		{name: "unknown tx", method: http.MethodGet, path: "/v1/tx/abc", status: http.StatusNotFound},
		{name: "bad host", method: http.MethodPost, path: "/v1/peers/register", in: map[string]string{"host": "not a host"}, status: http.StatusBadRequest},
		{name: "self registration", method: http.MethodPost, path: "/v1/peers/register", in: map[string]string{"host": a.host}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp struct {
				Error string `json:"error"`
			}
			status := call(t, tt.method, a.public.URL+tt.path, tt.in, &resp)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, resp.Error)
		})
	}

	// A block that doesn't link to the latest block is refused.
	bad := database.Block{Index: 1, PrevBlockHash: "ffff", Hash: "00ab", Transactions: []database.Tx{}}
	status := call(t, http.MethodPost, a.private.URL+"/v1/node/block/propose", bad, nil)
	assert.Equal(t, http.StatusNotAcceptable, status)
	assert.Equal(t, 1, a.state.QueryChainLength())
}

func Test_Debug(t *testing.T) {
	a := startNode(t, "node-a")

	debug := httptest.NewServer(handlers.DebugMux("test", zap.NewNop().Sugar(), a.state, metrics.New(a.state)))
	t.Cleanup(debug.Close)

	var ready struct {
		Status      string `json:"status"`
		Blocks      int    `json:"blocks"`
		Difficulty  uint16 `json:"difficulty"`
		Beneficiary string `json:"beneficiary"`
	}
	status := call(t, http.MethodGet, debug.URL+"/debug/readiness", nil, &ready)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", ready.Status)
	assert.Equal(t, 1, ready.Blocks)
	assert.Equal(t, uint16(2), ready.Difficulty)
	assert.Equal(t, "node-a", ready.Beneficiary)

	resp, err := http.Get(debug.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
