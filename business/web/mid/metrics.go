package mid

import (
	"context"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/sys/metrics"
	"github.com/ardanlabs/ledger/foundation/web"
)

// Metrics updates the request counters and latency histogram. Requests are
// labeled by route so path parameters don't create new series. It needs to
// run before Errors so the response status code is known.
func Metrics(m *metrics.Metrics) web.Middleware {

	// This is the actual middleware function to be executed.
	mw := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := handler(ctx, w, r)

			v, verr := web.GetValues(ctx)
			if verr != nil {
				return web.NewShutdownError("web value missing from context")
			}

			m.ObserveRequest(r.Method, v.Route, v.StatusCode, time.Since(v.Now))

			if err != nil || v.StatusCode >= http.StatusInternalServerError {
				m.AddError()
			}

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return mw
}
