// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/dao-ledger/stakerep/eventdb"
	"github.com/dao-ledger/stakerep/genesis"
	"github.com/dao-ledger/stakerep/lvldb"
)

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("flag value too large: %d", val)
	}
	return int(val), nil
}

// initLogger installs the process wide logger. The returned level can be
// changed at runtime through the admin server.
func initLogger(lvl int, jsonLogs bool) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if jsonLogs {
		handler = log.JSONHandlerWithLevel(os.Stderr, logLevel)
	} else {
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, useColor(os.Stderr))
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.dao-ledger.stakerep")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.dao-ledger.stakerep")
		default:
			return filepath.Join(home, ".org.dao-ledger.stakerep")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// selectGenesis loads the genesis file given by flag, or the dev genesis.
func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	gen, err := genesis.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "load genesis")
	}
	return gen, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.New("data directory not set")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data directory [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(dir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

func openEventDB(dir string) (*eventdb.EventDB, error) {
	path := filepath.Join(dir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", path)
	}
	return db, nil
}

func printStartupMessage(gen *genesis.Genesis, seq, clock uint64, dataDir, apiURL string) {
	fmt.Printf(`Starting %v
    Custody      [ %v ]
    Treasury     [ %v ]
    Ledger       [ #%v @%v ]
    Data dir     [ %v ]
    API portal   [ %v ]
`,
		fmt.Sprintf("StakeRep/%s/%s/%s", fullVersion(), runtime.GOOS, runtime.Version()),
		gen.Custody,
		gen.Treasury,
		seq, time.Unix(int64(clock), 0).UTC(),
		dataDir,
		apiURL)
}
