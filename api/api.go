// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/nestvault/nest/api/admin"
	"github.com/nestvault/nest/api/stakes"
	"github.com/nestvault/nest/metrics"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
	"github.com/nestvault/nest/vault"
)

type Options struct {
	AllowedOrigins  string
	EnableMetrics   bool
	EnableReqLogger bool
}

// New assembles the API router over the given vault and state. One lock
// serializes every mutating handler across the components: they all write the
// same state journal, which is not safe for concurrent use.
func New(v *vault.Vault, st *state.State, clock *nest.Clock, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	mu := new(sync.RWMutex)
	router := mux.NewRouter()
	stakes.New(v, st, clock, mu).Mount(router, "/stakes")
	admin.New(v, st, clock, mu).Mount(router, "/admin")

	if opts.EnableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{"GET", "POST"}),
	)(handler)
	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	if opts.EnableMetrics {
		handler = metricsHandler(handler)
	}
	return handler
}
