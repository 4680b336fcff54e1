// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/nestvault/nest/log"
)

var logger = log.WithContext("pkg", "api")

// RequestLoggerHandler logs each request's method, path, body and duration.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		// the body can only be read once, so restore it for the next handler
		var bodyBytes []byte
		var err error
		if r.Body != nil {
			bodyBytes, err = io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("unexpected body read error", "err", err)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		now := time.Now()
		handler.ServeHTTP(w, r)

		logger.Info("API request",
			"method", r.Method,
			"uri", r.URL.String(),
			"body", string(bodyBytes),
			"duration", time.Since(now),
		)
	}
	return http.HandlerFunc(fn)
}
