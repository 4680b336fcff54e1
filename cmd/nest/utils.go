// Copyright (c) 2025 The NestVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/nestvault/nest/kv"
	"github.com/nestvault/nest/log"
	"github.com/nestvault/nest/lvldb"
	"github.com/nestvault/nest/nest"
	"github.com/nestvault/nest/state"
	"github.com/nestvault/nest/storage"
)

var slotGenesisTime = nest.BytesToBytes32([]byte("genesis-time"))

func initLogger(ctx *cli.Context) {
	var level slog.Level
	switch verbosity := ctx.Int(verbosityFlag.Name); {
	case verbosity <= 0:
		level = log.LevelCrit
	case verbosity == 1:
		level = log.LevelError
	case verbosity == 2:
		level = log.LevelWarn
	case verbosity == 3:
		level = log.LevelInfo
	case verbosity == 4:
		level = log.LevelDebug
	default:
		level = log.LevelTrace
	}
	var lvl slog.LevelVar
	lvl.Set(level)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, &lvl)
	} else {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func openDB(ctx *cli.Context) (kv.GetPutCloser, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		logger.Info("using in-memory database")
		return lvldb.NewMem()
	}
	db, err := lvldb.New(dir, lvldb.Options{})
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", dir, err)
	}
	logger.Info("opened database", "dir", dir)
	return db, nil
}

// loadGenesisTime returns the persisted height anchor, persisting the flag
// value (or the current time) on first start.
func loadGenesisTime(ctx *cli.Context, st *state.State, addr nest.Address) (uint64, error) {
	slot := storage.NewUint64(storage.NewContext(addr, st), slotGenesisTime)
	stored, err := slot.Get()
	if err != nil {
		return 0, err
	}
	if stored != 0 {
		return stored, nil
	}
	genesis := ctx.Uint64(genesisTimeFlag.Name)
	if genesis == 0 {
		genesis = uint64(time.Now().Unix())
	}
	if err := slot.Set(genesis); err != nil {
		return 0, err
	}
	if err := st.Commit(); err != nil {
		return 0, err
	}
	logger.Info("anchored genesis time", "genesis", genesis)
	return genesis, nil
}
