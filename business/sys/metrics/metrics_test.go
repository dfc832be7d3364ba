package metrics_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type ledger struct{}

func (ledger) QueryChainLength() int   { return 3 }
func (ledger) QueryMempoolLength() int { return 7 }

func Test_Metrics(t *testing.T) {
	t.Log("Given the need to expose node metrics.")
	{
		m := metrics.New(ledger{})

		m.ObserveRequest(http.MethodGet, "/v1/mine", http.StatusOK, time.Millisecond)
		m.AddMinedBlock()
		m.AddConsensus(true)

		n, err := testutil.GatherAndCount(m.Registry(), "ledger_api_requests_total", "ledger_chain_blocks_mined_total", "ledger_chain_consensus_total")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to gather the metrics: %v", failed, err)
		}
		if n != 3 {
			t.Fatalf("\t%s\tShould record the request, block and consensus: got %d", failed, n)
		}
		t.Logf("\t%s\tShould record the request, block and consensus.", success)

		n, err = testutil.GatherAndCount(m.Registry(), "ledger_chain_length", "ledger_mempool_length")
		if err != nil || n != 2 {
			t.Fatalf("\t%s\tShould expose the ledger gauges: %d %v", failed, n, err)
		}
		t.Logf("\t%s\tShould expose the ledger gauges.", success)
	}
}
