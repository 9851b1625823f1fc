package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"

	"github.com/walletscope/walletscope-backend/api"
	"github.com/walletscope/walletscope-backend/cache"
	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/db"
	"github.com/walletscope/walletscope-backend/driver/aws"
	"github.com/walletscope/walletscope-backend/metrics"
	"github.com/walletscope/walletscope-backend/server"
	"github.com/walletscope/walletscope-backend/txflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		panic(err.Error())
	}

	serviceCfg, err := cfg.New()
	if err != nil {
		panic(err.Error())
	}

	logger, err := newLogger(serviceCfg)
	if err != nil {
		panic("cannot init logger")
	}
	logger.Info("Start API server...")

	defer func() {
		if err := recover(); err != nil {
			logger.Error("cannot recover")
		}
		if err := logger.Sync(); err != nil {
			logger.Error("cannot sync log")
		}
	}()

	if err := setupSentry(serviceCfg); err != nil {
		panic(err)
	}
	defer sentry.Flush(2 * time.Second)

	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

		Logger: logger,
	}
	srv, err := server.New(ctx, srvConfig)
	if err != nil {
		log.Panicf("cannot create server instance %s", err.Error())
	}
	if err := srv.Ping(ctx); err != nil {
		log.Panicf("cannot reach backing stores %s", err.Error())
	}

	restSrv := &api.Server{}
	restSrv.SetService(srv).
		SetSecret(serviceCfg.HttpRequestSecret).
		SetRequestTimeout(serviceCfg.DefaultAPITimeout).
		SetLogger(logger)

	if serviceCfg.LogoBucket != "" {
		awsCfg := aws.Config{
			Region:   serviceCfg.LogoRegion,
			Bucket:   serviceCfg.LogoBucket,
			PathLogo: "logos",
		}
		sess, err := aws.ConnectAws(awsCfg)
		if err != nil {
			log.Panicf("cannot connect AWS %s", err.Error())
		}
		restSrv.SetFileStorage(aws.NewFileStorage(sess, awsCfg))
	}

	e := echo.New()
	go func() {
		api.Start(e, restSrv, serviceCfg)
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	sigCh := make(chan os.Signal, 1)
	waitExit := make(chan bool)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigCh {
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := e.Shutdown(shutdownCtx); err != nil {
				logger.Error("cannot shutdown echo server")
			}
			shutdownCancel()
			waitExit <- true
		}
	}()
	<-waitExit
}

func setupSentry(cfg cfg.ServiceConfig) error {
	opts := sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.ServerMode,
	}
	if err := sentry.Init(opts); err != nil {
		return err
	}
	return nil
}
