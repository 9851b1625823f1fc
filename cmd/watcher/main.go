package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/cache"
	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/db"
	"github.com/walletscope/walletscope-backend/server"
	"github.com/walletscope/walletscope-backend/txflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		panic(err.Error())
	}

	runtime.GOMAXPROCS(runtime.NumCPU())
	serviceCfg, err := cfg.New()
	if err != nil {
		panic(err.Error())
	}

	logger, err := newLogger(serviceCfg)
	if err != nil {
		panic("cannot init logger")
	}
	logger.Info("Start watcher...")

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	waitExit := make(chan bool)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigCh {
			cancel()
			waitExit <- true
		}
	}()

	srvConfig := server.Config{
		StorageAdapter: db.Adapter(serviceCfg.StorageDriver),
		StorageURI:     serviceCfg.StorageURI,
		StorageDB:      serviceCfg.StorageDB,
		StorageMinConn: serviceCfg.StorageMinConn,
		StorageMaxConn: serviceCfg.StorageMaxConn,
		StorageIsFlush: serviceCfg.StorageIsFlush,

		CacheAdapter:  cache.Adapter(serviceCfg.CacheEngine),
		CacheURL:      serviceCfg.CacheURL,
		CacheDB:       serviceCfg.CacheDB,
		CachePassword: serviceCfg.CachePassword,
		CacheIsFlush:  serviceCfg.CacheIsFlush,

		ScannerURL:       serviceCfg.ScannerURL,
		ScannerAPIKey:    serviceCfg.ScannerAPIKey,
		ScannerRateLimit: serviceCfg.ScannerRateLimit,
		ScannerPageSize:  serviceCfg.ScannerPageSize,

		DexDataURL: serviceCfg.DexDataURL,
		RPCURLs:    serviceCfg.RPCURLs,

		Rules: txflow.NewRuleset(serviceCfg),

		PriceTTL:     serviceCfg.PriceTTL,
		HistoryTTL:   serviceCfg.HistoryTTL,
		TokenInfoTTL: serviceCfg.TokenInfoTTL,

		AppVersion:      serviceCfg.StatusAppVersion,
		ChainName:       serviceCfg.ChainName,
		StakingContract: serviceCfg.StakingContract,
		RefreshWorkers:  serviceCfg.RefreshWorkers,

		Logger: logger.With(zap.String("service", "watcher")),
	}
	srv, err := server.New(ctx, srvConfig)
	if err != nil {
		logger.Panic(err.Error())
	}
	if err := srv.Ping(ctx); err != nil {
		logger.Panic(err.Error())
	}

	go watch(ctx, srv, serviceCfg.WatcherInterval, logger)
	<-waitExit
}

// watch refreshes every watched portfolio on a fixed cadence, once right
// away so a fresh deploy serves warm pages without waiting a full interval.
func watch(ctx context.Context, srv *server.Server, interval time.Duration, logger *zap.Logger) {
	if err := srv.RefreshWatchedPortfolios(ctx); err != nil {
		logger.Warn("cannot refresh watched portfolios", zap.Error(err))
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := srv.RefreshWatchedPortfolios(ctx); err != nil {
				logger.Warn("cannot refresh watched portfolios", zap.Error(err))
			}
		}
	}
}
