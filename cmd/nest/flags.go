// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the ledger database, in-memory when empty",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma-separated list of domains from which to accept cross-origin requests to API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enable Prometheus metrics and the /metrics endpoint",
	}
	enableReqLoggerFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "log every API request",
	}
	genesisTimeFlag = cli.Uint64Flag{
		Name:  "genesis-time",
		Usage: "unix timestamp anchoring block height derivation, defaults to first start",
	}
	adminFlag = cli.StringFlag{
		Name:  "admin",
		Usage: "address granted the admin role on first start",
	}
)
