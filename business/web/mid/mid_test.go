package mid_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(m *metrics.Metrics) (*web.App, chan os.Signal) {
	shutdown := make(chan os.Signal, 1)
	log := zap.NewNop().Sugar()

	app := web.NewApp(shutdown, mid.Logger(log), mid.Metrics(m), mid.Errors(log), mid.Panics(m), mid.Cors("*"))

	app.Handle(http.MethodGet, "v1", "/trusted", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errs.NewTrusted(errors.New("not here"), http.StatusNotFound)
	})

	app.Handle(http.MethodGet, "v1", "/fields", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return validate.FieldErrors{{Field: "amount", Error: "amount is required"}}
	})

	app.Handle(http.MethodGet, "v1", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	app.Handle(http.MethodGet, "v1", "/ok/:id", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, map[string]string{"id": web.Param(r, "id")}, http.StatusOK)
	})

	app.Handle(http.MethodGet, "v1", "/integrity", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("ledger corrupted")
	})

	return app, shutdown
}

// brokenWriter fails every write like a client that hung up.
type brokenWriter struct {
	header http.Header
	status int
}

func (bw *brokenWriter) Header() http.Header {
	if bw.header == nil {
		bw.header = make(http.Header)
	}
	return bw.header
}

func (bw *brokenWriter) WriteHeader(status int) {
	bw.status = status
}

func (bw *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("write: broken pipe")
}

func Test_Middleware(t *testing.T) {
	m := metrics.New(nil)
	app, shutdown := newApp(m)

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{name: "trusted", path: "/v1/trusted", status: http.StatusNotFound, body: `{"error":"not here"}`},
		{name: "fields", path: "/v1/fields", status: http.StatusBadRequest, body: `{"error":"data validation error","fields":{"amount":"amount is required"}}`},
		{name: "panic", path: "/v1/panic", status: http.StatusInternalServerError, body: `{"error":"Internal Server Error"}`},
		{name: "ok", path: "/v1/ok/abc", status: http.StatusOK, body: `{"id":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			app.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	select {
	case <-shutdown:
		t.Fatal("handled errors should not shut the service down")
	default:
	}

	mfs, err := m.Registry().Gather()
	require.NoError(t, err)

	counters := make(map[string]float64)
	for _, mf := range mfs {
		if len(mf.GetMetric()) == 1 && mf.GetMetric()[0].GetCounter() != nil {
			counters[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}

	assert.Equal(t, float64(1), counters["ledger_api_panics_total"], "panics")
	assert.Equal(t, float64(1), counters["ledger_api_errors_total"], "server errors")

	n, err := testutil.GatherAndCount(m.Registry(), "ledger_api_requests_total")
	require.NoError(t, err)
	assert.Equal(t, len(tests), n, "one series per route")
}

func Test_ClientGone(t *testing.T) {
	app, shutdown := newApp(metrics.New(nil))

	for _, path := range []string{"/v1/ok/abc", "/v1/trusted", "/v1/panic"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := brokenWriter{}

		app.ServeHTTP(&w, r)

		select {
		case <-shutdown:
			t.Fatalf("a failed write on %s should not shut the service down", path)
		default:
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/v1/integrity", nil)
	app.ServeHTTP(httptest.NewRecorder(), r)

	select {
	case <-shutdown:
	default:
		t.Fatal("an integrity failure should shut the service down")
	}
}

func Test_Cors(t *testing.T) {
	app := web.NewApp(make(chan os.Signal, 1), mid.Errors(zap.NewNop().Sugar()), mid.Cors("http://viewer.local"))

	app.Handle(http.MethodGet, "v1", "/chain", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, map[string]int{"blocks": 1}, http.StatusOK)
	})
	app.Handle(http.MethodOptions, "", "/*", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		t.Error("preflight should be answered by the middleware")
		return nil
	})

	tests := []struct {
		name   string
		method string
		path   string
		origin string
		status int
		allow  string
	}{
		{name: "allowed", method: http.MethodGet, path: "/v1/chain", origin: "http://viewer.local", status: http.StatusOK, allow: "http://viewer.local"},
		{name: "other", method: http.MethodGet, path: "/v1/chain", origin: "http://evil.local", status: http.StatusOK, allow: ""},
		{name: "preflight", method: http.MethodOptions, path: "/v1/tx/broadcast", origin: "http://viewer.local", status: http.StatusNoContent, allow: "http://viewer.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			r.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			app.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.allow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
