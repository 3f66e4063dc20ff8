// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// stakerep runs the staking and reputation ledger behind its HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/dao-ledger/stakerep/api"
	"github.com/dao-ledger/stakerep/cmd/stakerep/httpserver"
	"github.com/dao-ledger/stakerep/co"
	"github.com/dao-ledger/stakerep/eventdb"
	"github.com/dao-ledger/stakerep/genesis"
	"github.com/dao-ledger/stakerep/kv"
	"github.com/dao-ledger/stakerep/ledger"
	"github.com/dao-ledger/stakerep/lvldb"
	"github.com/dao-ledger/stakerep/metrics"
	"github.com/dao-ledger/stakerep/natspub"
)

var (
	version   string
	gitCommit string
	gitTag    string

	commonFlags = []cli.Flag{
		genesisFlag,
		stateCacheFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiEventsLimitFlag,
		enableAPILogsFlag,
		pprofFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		natsURLFlag,
		natsSubjectPrefixFlag,
	}
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
		Name:      "StakeRep",
		Usage:     "Staking and reputation ledger for DAOs",
		Copyright: "2025 The VeChainThor developers",
		Flags:     append([]cli.Flag{dataDirFlag}, commonFlags...),
		Action:    defaultAction,
		Commands: []cli.Command{
			{
				Name:   "solo",
				Usage:  "in-memory ledger for test & dev",
				Flags:  append([]cli.Flag{dataDirFlag, persistFlag}, commonFlags...),
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(ctx *cli.Context) (*slog.LevelVar, *genesis.Genesis, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	gen, err := selectGenesis(ctx)
	if err != nil {
		return nil, nil, err
	}
	return logLevel, gen, nil
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel, gen, err := setup(ctx)
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	eventDB, err := openEventDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing event database..."); eventDB.Close() }()

	return run(ctx, logLevel, gen, mainDB, eventDB, dataDir)
}

func soloAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel, gen, err := setup(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB  *lvldb.LevelDB
		eventDB *eventdb.EventDB
		dataDir string
	)
	if ctx.Bool(persistFlag.Name) {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
		if mainDB, err = openMainDB(dataDir); err != nil {
			return err
		}
		if eventDB, err = openEventDB(dataDir); err != nil {
			mainDB.Close()
			return err
		}
	} else {
		dataDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return errors.Wrap(err, "open main database")
		}
		if eventDB, err = eventdb.NewMem(); err != nil {
			mainDB.Close()
			return errors.Wrap(err, "open event database")
		}
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()
	defer func() { log.Info("closing event database..."); eventDB.Close() }()

	return run(ctx, logLevel, gen, mainDB, eventDB, dataDir)
}

func run(
	ctx *cli.Context,
	logLevel *slog.LevelVar,
	gen *genesis.Genesis,
	mainDB kv.Store,
	eventDB *eventdb.EventDB,
	dataDir string,
) error {
	// meters resolve their provider on first use, which happens in ledger.New
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	token := newMemToken(gen)
	l, err := ledger.New(mainDB, token, gen, ledger.Options{StateCacheSize: ctx.Int(stateCacheFlag.Name)})
	if err != nil {
		return errors.Wrap(err, "open ledger")
	}
	defer func() { log.Info("closing ledger..."); l.Close() }()

	replayed, err := replayTransfers(token, l.Treasury(), l)
	if err != nil {
		return errors.Wrap(err, "restore token balances")
	}
	log.Debug("token balances restored", "records", replayed)

	goes := co.NewGoes(handleExitSignal())
	defer func() {
		goes.Stop()
		goes.Wait()
	}()

	goes.Go("indexer", eventdb.NewIndexer(eventDB, l).Run)

	if url := ctx.String(natsURLFlag.Name); url != "" {
		pub, err := natspub.Connect(natspub.Config{
			URL:            url,
			ConnectionName: "stakerep",
			SubjectPrefix:  ctx.String(natsSubjectPrefixFlag.Name),
			MaxReconnects:  -1,
			ReconnectWait:  2 * time.Second,
		})
		if err != nil {
			return err
		}
		defer pub.Close()
		goes.Go("natspub", func(ctx context.Context) error {
			return pub.Run(ctx, l)
		})
		log.Info("publishing records to NATS", "url", url)
	}

	handler, closeStreams := api.New(l, eventDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	apiURL, stopAPI, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), handler, closeStreams)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); stopAPI() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		url, stopMetrics, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping metrics server..."); stopMetrics() }()
		log.Info("metrics server started", "url", url)
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, stopAdmin, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, l, eventDB)
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping admin server..."); stopAdmin() }()
		log.Info("admin server started", "url", url)
	}

	printStartupMessage(gen, l.Seq(), l.Clock(), dataDir, apiURL)

	return goes.Wait()
}
