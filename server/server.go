// Package server wires the upstream providers, the classification pipeline
// and the storage layers into the operations the API and the watcher expose.
// It owns orchestration only; shape conversion stays in external/ and txflow,
// price policy in pricing.
package server

import (
	"context"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/cache"
	"github.com/walletscope/walletscope-backend/db"
	"github.com/walletscope/walletscope-backend/evm"
	"github.com/walletscope/walletscope-backend/external"
	"github.com/walletscope/walletscope-backend/pricing"
	"github.com/walletscope/walletscope-backend/txflow"
	"github.com/walletscope/walletscope-backend/types"
)

// ScannerProvider is the slice of the scanner API the server consumes.
type ScannerProvider interface {
	AddressTxs(ctx context.Context, address, cursor string, limit int) ([]*types.RawTransaction, string, error)
	AddressTokenBalances(ctx context.Context, address string) ([]*types.RawTokenBalance, error)
}

// DexProvider yields the candidate trading pairs for a token.
type DexProvider interface {
	TokenPairs(ctx context.Context, token string) ([]*types.TradingPair, error)
}

// ChainReader is the slice of the RPC client the server consumes.
type ChainReader interface {
	NativeBalance(ctx context.Context, address string) (*big.Int, error)
	TokenBalance(ctx context.Context, token, wallet string) (*big.Int, error)
	TokenInfo(ctx context.Context, token string) (*types.Token, error)
	LPPosition(ctx context.Context, pairAddress, wallet string) (*types.LPPosition, error)
	StakedBalance(ctx context.Context, contract, wallet string) (*big.Int, *big.Int, error)
}

// Storage is the slice of the db client the server consumes.
type Storage interface {
	db.IPortfolios
	db.ITokens
	db.ISummaries
	Ping(ctx context.Context) error
}

type Config struct {
	StorageAdapter db.Adapter
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool

	CacheAdapter  cache.Adapter
	CacheURL      string
	CacheDB       int
	CachePassword string
	CacheIsFlush  bool

	ScannerURL       string
	ScannerAPIKey    string
	ScannerRateLimit int
	ScannerPageSize  int

	DexDataURL string

	RPCURLs []string

	Rules txflow.Ruleset

	PriceTTL     time.Duration
	HistoryTTL   time.Duration
	TokenInfoTTL time.Duration

	AppVersion      string
	ChainName       string
	StakingContract string
	RefreshWorkers  int

	Logger *zap.Logger
}

// Server receives requests from the dashboard and controls how we react to
// those requests.
type Server struct {
	db      Storage
	cache   cache.Client
	scanner ScannerProvider
	dex     DexProvider
	chain   ChainReader

	pipeline *txflow.Pipeline
	resolver *pricing.Resolver
	recent   *pricing.Cache

	pageSize        int
	appVersion      string
	chainName       string
	nativeSymbol    string
	nativeDecimals  int64
	wrappedNative   string
	stakingContract string
	refreshWorkers  int

	logger *zap.Logger
}

func New(ctx context.Context, cfg Config) (*Server, error) {
	lgr := cfg.Logger
	if lgr == nil {
		lgr = zap.NewNop()
	}
	lgr.Info("create new server instance",
		zap.String("chain", cfg.ChainName),
		zap.String("storage", string(cfg.StorageAdapter)),
		zap.String("cache", string(cfg.CacheAdapter)))

	dbClient, err := db.NewClient(db.Config{
		DbAdapter: cfg.StorageAdapter,
		DbName:    cfg.StorageDB,
		URL:       cfg.StorageURI,
		MinConn:   cfg.StorageMinConn,
		MaxConn:   cfg.StorageMaxConn,
		FlushDB:   cfg.StorageIsFlush,
		Logger:    lgr,
	})
	if err != nil {
		return nil, err
	}

	cacheClient, err := cache.New(cache.Config{
		Adapter:      cfg.CacheAdapter,
		URL:          cfg.CacheURL,
		DB:           cfg.CacheDB,
		Password:     cfg.CachePassword,
		IsFlush:      cfg.CacheIsFlush,
		TokenInfoTTL: cfg.TokenInfoTTL,
		PriceTTL:     cfg.PriceTTL,
		HistoryTTL:   cfg.HistoryTTL,
		Logger:       lgr,
	})
	if err != nil {
		return nil, err
	}

	chainClient, err := evm.NewClient(ctx, evm.Config{
		URLs:   cfg.RPCURLs,
		Logger: lgr,
	})
	if err != nil {
		return nil, err
	}

	scannerClient := external.NewScannerClient(external.ScannerConfig{
		URL:       cfg.ScannerURL,
		APIKey:    cfg.ScannerAPIKey,
		RateLimit: cfg.ScannerRateLimit,
		Logger:    lgr,
	})
	dexClient := external.NewDexDataClient(external.DexDataConfig{
		URL:    cfg.DexDataURL,
		Logger: lgr,
	})

	pageSize := cfg.ScannerPageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	refreshWorkers := cfg.RefreshWorkers
	if refreshWorkers <= 0 {
		refreshWorkers = 4
	}
	priceTTL := cfg.PriceTTL
	if priceTTL <= 0 {
		priceTTL = 5 * time.Minute
	}

	return &Server{
		db:      dbClient,
		cache:   cacheClient,
		scanner: scannerClient,
		dex:     dexClient,
		chain:   chainClient,

		pipeline: txflow.NewPipeline(cfg.Rules, lgr),
		resolver: pricing.NewResolver(cfg.Rules.WrappedNative, lgr),
		recent:   pricing.NewCache(priceTTL, nil),

		pageSize:        pageSize,
		appVersion:      cfg.AppVersion,
		chainName:       cfg.ChainName,
		nativeSymbol:    cfg.Rules.NativeSymbol,
		nativeDecimals:  cfg.Rules.NativeDecimals,
		wrappedNative:   cfg.Rules.WrappedNative,
		stakingContract: cfg.StakingContract,
		refreshWorkers:  refreshWorkers,

		logger: lgr,
	}, nil
}
