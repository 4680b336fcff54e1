// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/nestvault/nest/api"
	"github.com/nestvault/nest/log"
	"github.com/nestvault/nest/metrics"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
	"github.com/nestvault/nest/storage"
	"github.com/nestvault/nest/vault"
	"github.com/nestvault/nest/vault/custody"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")

	// custody accounts of the ledger
	vaultAddr      = nest.BytesToAddress([]byte("nest-vault"))
	collectionAddr = nest.BytesToAddress([]byte("nest-collection"))
	tokenAddr      = nest.BytesToAddress([]byte("nest-reward-token"))
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Nest",
		Usage:     "collectible staking vault",
		Copyright: "2025 NestVault",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			enableReqLoggerFlag,
			genesisTimeFlag,
			adminFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing database..."); db.Close() }()

	st := state.New(db)
	genesis, err := loadGenesisTime(ctx, st, vaultAddr)
	if err != nil {
		return err
	}
	clock := nest.NewClock(genesis)

	collection := custody.NewCollection(storage.NewContext(collectionAddr, st))
	token := custody.NewToken(storage.NewContext(tokenAddr, st))
	admins := custody.NewAdmins(storage.NewContext(vaultAddr, st))

	v := vault.New(vaultAddr, st, collection, token, admins)
	collection.RegisterReceiver(vaultAddr, v)

	if err := bootstrapAdmin(ctx, st, admins); err != nil {
		return err
	}

	handler := api.New(v, st, clock, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger: ctx.Bool(enableReqLoggerFlag.Name),
	})

	srv := &http.Server{
		Addr:    ctx.String(apiAddrFlag.Name),
		Handler: handler,
	}
	errChan := make(chan error, 1)
	go func() {
		logger.Info("API service started", "addr", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("shutting down...", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// bootstrapAdmin grants the admin role on first start so the privileged
// surface is reachable.
func bootstrapAdmin(ctx *cli.Context, st *state.State, admins *custody.Admins) error {
	granted, err := admins.All()
	if err != nil {
		return err
	}
	if len(granted) > 0 {
		return nil
	}
	addr := ctx.String(adminFlag.Name)
	if addr == "" {
		logger.Warn("no admin granted, privileged operations are unreachable")
		return nil
	}
	admin, err := nest.ParseAddress(addr)
	if err != nil {
		return fmt.Errorf("parse admin address: %w", err)
	}
	if err := admins.Grant(*admin); err != nil {
		return err
	}
	if err := st.Commit(); err != nil {
		return err
	}
	logger.Info("granted admin role", "admin", admin)
	return nil
}
