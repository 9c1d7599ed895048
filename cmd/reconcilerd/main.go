package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/custodex/reconcilerd/config"
	"github.com/custodex/reconcilerd/internal/core/application"
	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
	"github.com/custodex/reconcilerd/internal/infrastructure/blockchain/esplora"
	dbbadger "github.com/custodex/reconcilerd/internal/infrastructure/storage/db/badger"
)

func main() {
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	dbDir := filepath.Join(config.GetString(config.DatadirKey), config.DbLocation)
	repoManager, err := dbbadger.NewRepoManager(dbDir, nil)
	if err != nil {
		log.WithError(err).Fatal("error while opening ledger store")
	}
	defer repoManager.Close()

	ctx := context.Background()
	watchers := make([]*application.Watcher, 0)
	wg := &errgroup.Group{}

	for _, chainKey := range config.GetChains() {
		chain, err := repoManager.ChainRepository().GetChain(ctx, chainKey)
		if err != nil {
			log.WithError(err).Fatalf(
				"chain %s is not provisioned in the ledger store", chainKey,
			)
		}

		currencies, err := repoManager.CurrencyRepository().
			GetCurrenciesForChain(ctx, chainKey)
		if err != nil {
			log.WithError(err).Fatalf(
				"error while loading currencies for chain %s", chainKey,
			)
		}

		adapter, err := esplora.NewService(esplora.ServiceOpts{
			Endpoint:          config.GetChainEndpoint(chainKey),
			RequestTimeout:    config.GetDuration(config.ExplorerRequestTimeoutKey),
			RequestsPerSecond: config.GetInt(config.ExplorerRateLimitKey),
		})
		if err != nil {
			log.WithError(err).Fatalf(
				"error while connecting to explorer for chain %s", chainKey,
			)
		}
		if err := adapter.Configure(ports.AdapterSettings{
			Currencies: currencies,
		}); err != nil {
			log.WithError(err).Fatalf(
				"error while configuring adapter for chain %s", chainKey,
			)
		}

		reconcilerSvc := application.NewReconcilerService(
			*chain, repoManager, adapter, logAcceptedDeposit,
		)
		watcher := application.NewWatcher(reconcilerSvc, application.WatcherOpts{
			Interval: config.GetDuration(config.ScanIntervalKey),
		})
		watchers = append(watchers, watcher)

		w := watcher
		wg.Go(func() error {
			w.Start()
			return nil
		})

		log.Infof(
			"reconciling chain %s from height %d", chainKey, chain.Height,
		)
	}

	log.Info("daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
	for _, watcher := range watchers {
		watcher.Stop()
	}
	wg.Wait()
}

func logAcceptedDeposit(deposit domain.Deposit) {
	log.Infof(
		"accepted deposit %s: %s %s to member %s (tx %s)",
		deposit.ID, deposit.Amount, deposit.CurrencyID, deposit.MemberID,
		deposit.TxID,
	)
}
