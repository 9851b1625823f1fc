// Package cfg
package cfg

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ModeDev        = "dev"
	ModeProduction = "prod"
)

// ServerVersion is the build's reported version, answered by /ping.
const ServerVersion = "1.0.0"

// NativeTokenAddress is the pseudo address flows of the chain's native asset
// are recorded under. Raw transfer records carry an empty token address for
// native moves; the normalizer maps them here so native and ERC20 flows live
// in one table.
const NativeTokenAddress = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

type ServiceConfig struct {
	ServerMode        string
	Port              string
	HttpRequestSecret string

	LogLevel  string
	SentryDSN string

	DefaultAPITimeout time.Duration

	ScannerURL       string
	ScannerAPIKey    string
	ScannerRateLimit int
	ScannerPageSize  int

	DexDataURL string

	RPCURLs []string

	CacheEngine   string
	CacheURL      string
	CacheDB       int
	CachePassword string
	CacheIsFlush  bool

	PriceTTL         time.Duration
	HistoryTTL       time.Duration
	TokenInfoTTL     time.Duration
	StatusAppVersion string

	StorageDriver  string
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int
	StorageIsFlush bool

	WatcherInterval time.Duration
	RefreshWorkers  int

	ChainName      string
	NativeSymbol   string
	NativeDecimals int64

	WrappedNativeAddress string
	WrappedNativeSymbol  string

	SwapRouters     []string
	SwapMethodWords []string

	StakingContract string

	LogoBucket string
	LogoRegion string
}

func New() (ServiceConfig, error) {
	apiDefaultTimeoutStr := os.Getenv("DEFAULT_API_TIMEOUT")
	apiDefaultTimeout, err := strconv.Atoi(apiDefaultTimeoutStr)
	if err != nil {
		apiDefaultTimeout = 5
	}

	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		cacheDB = 0
	}

	cacheIsFlushStr := os.Getenv("CACHE_IS_FLUSH")
	cacheIsFlush, err := strconv.ParseBool(cacheIsFlushStr)
	if err != nil {
		cacheIsFlush = false
	}

	var rpcURLs []string
	rpcURLsStr := os.Getenv("RPC_URLS")
	if rpcURLsStr != "" {
		rpcURLs = strings.Split(rpcURLsStr, ",")
	} else {
		panic("missing RPC URLs in config")
	}

	scannerRateLimitStr := os.Getenv("SCANNER_RATE_LIMIT")
	scannerRateLimit, err := strconv.Atoi(scannerRateLimitStr)
	if err != nil {
		scannerRateLimit = 5
	}

	scannerPageSizeStr := os.Getenv("SCANNER_PAGE_SIZE")
	scannerPageSize, err := strconv.Atoi(scannerPageSizeStr)
	if err != nil {
		scannerPageSize = 25
	}

	priceTTLStr := os.Getenv("PRICE_TTL")
	priceTTL, err := time.ParseDuration(priceTTLStr)
	if err != nil {
		priceTTL = 5 * time.Minute
	}

	historyTTLStr := os.Getenv("HISTORY_TTL")
	historyTTL, err := time.ParseDuration(historyTTLStr)
	if err != nil {
		historyTTL = 30 * time.Second
	}

	tokenInfoTTLStr := os.Getenv("TOKEN_INFO_TTL")
	tokenInfoTTL, err := time.ParseDuration(tokenInfoTTLStr)
	if err != nil {
		tokenInfoTTL = 1 * time.Hour
	}

	watcherIntervalStr := os.Getenv("WATCHER_INTERVAL")
	watcherInterval, err := time.ParseDuration(watcherIntervalStr)
	if err != nil {
		watcherInterval = 2 * time.Minute
	}

	refreshWorkersStr := os.Getenv("REFRESH_WORKERS")
	refreshWorkers, err := strconv.Atoi(refreshWorkersStr)
	if err != nil {
		refreshWorkers = 8
	}

	storageMinConnStr := os.Getenv("STORAGE_MIN_CONN")
	storageMinConn, err := strconv.Atoi(storageMinConnStr)
	if err != nil {
		storageMinConn = 8
	}

	storageMaxConnStr := os.Getenv("STORAGE_MAX_CONN")
	storageMaxConn, err := strconv.Atoi(storageMaxConnStr)
	if err != nil {
		storageMaxConn = 32
	}

	storageIsFlushStr := os.Getenv("STORAGE_IS_FLUSH")
	storageIsFlush, err := strconv.ParseBool(storageIsFlushStr)
	if err != nil {
		storageIsFlush = false
	}

	nativeDecimalsStr := os.Getenv("NATIVE_DECIMALS")
	nativeDecimals, err := strconv.Atoi(nativeDecimalsStr)
	if err != nil {
		nativeDecimals = 18
	}

	nativeSymbol := os.Getenv("NATIVE_SYMBOL")
	if nativeSymbol == "" {
		nativeSymbol = "ETH"
	}

	wrappedNativeAddress := strings.ToLower(os.Getenv("WRAPPED_NATIVE_ADDRESS"))
	if wrappedNativeAddress == "" {
		wrappedNativeAddress = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	}
	wrappedNativeSymbol := os.Getenv("WRAPPED_NATIVE_SYMBOL")
	if wrappedNativeSymbol == "" {
		wrappedNativeSymbol = "WETH"
	}

	var swapRouters []string
	swapRoutersStr := os.Getenv("SWAP_ROUTERS")
	if swapRoutersStr == "" {
		// Routers of the major venues on the target network. Classification
		// only, funds never touch these.
		swapRoutersStr = "0x7a250d5630b4cf539739df2c5dacb4c659f2488d," +
			"0xe592427a0aece92de3edee1f18e0157c05861564," +
			"0xef1c6e67703c7bd7107eed8303fbe6ec2554bf6b," +
			"0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f," +
			"0x1111111254eeb25477b68fb85ed929f73a960582"
	}
	for _, r := range strings.Split(swapRoutersStr, ",") {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			swapRouters = append(swapRouters, r)
		}
	}

	var swapMethodWords []string
	swapMethodWordsStr := os.Getenv("SWAP_METHOD_WORDS")
	if swapMethodWordsStr == "" {
		swapMethodWordsStr = "swap,trade,multicall,exactinput,exactoutput,addliquidity,removeliquidity"
	}
	for _, w := range strings.Split(swapMethodWordsStr, ",") {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			swapMethodWords = append(swapMethodWords, w)
		}
	}

	logoRegion := os.Getenv("LOGO_REGION")
	if logoRegion == "" {
		logoRegion = "ap-southeast-1"
	}

	cfg := ServiceConfig{
		ServerMode:        os.Getenv("SERVER_MODE"),
		Port:              os.Getenv("PORT"),
		HttpRequestSecret: os.Getenv("HTTP_REQUEST_SECRET"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		DefaultAPITimeout: time.Duration(apiDefaultTimeout) * time.Second,

		ScannerURL:       os.Getenv("SCANNER_URL"),
		ScannerAPIKey:    os.Getenv("SCANNER_API_KEY"),
		ScannerRateLimit: scannerRateLimit,
		ScannerPageSize:  scannerPageSize,

		DexDataURL: os.Getenv("DEXDATA_URL"),

		RPCURLs: rpcURLs,

		CacheEngine:   os.Getenv("CACHE_ENGINE"),
		CacheURL:      os.Getenv("CACHE_URI"),
		CacheDB:       cacheDB,
		CachePassword: os.Getenv("CACHE_PASSWORD"),
		CacheIsFlush:  cacheIsFlush,

		PriceTTL:         priceTTL,
		HistoryTTL:       historyTTL,
		TokenInfoTTL:     tokenInfoTTL,
		StatusAppVersion: os.Getenv("APP_VERSION"),

		StorageDriver:  os.Getenv("STORAGE_DRIVER"),
		StorageURI:     os.Getenv("STORAGE_URI"),
		StorageDB:      os.Getenv("STORAGE_DB"),
		StorageMinConn: storageMinConn,
		StorageMaxConn: storageMaxConn,
		StorageIsFlush: storageIsFlush,

		WatcherInterval: watcherInterval,
		RefreshWorkers:  refreshWorkers,

		ChainName:      os.Getenv("CHAIN_NAME"),
		NativeSymbol:   nativeSymbol,
		NativeDecimals: int64(nativeDecimals),

		WrappedNativeAddress: wrappedNativeAddress,
		WrappedNativeSymbol:  wrappedNativeSymbol,

		SwapRouters:     swapRouters,
		SwapMethodWords: swapMethodWords,

		StakingContract: strings.ToLower(os.Getenv("STAKING_CONTRACT")),

		LogoBucket: os.Getenv("LOGO_BUCKET"),
		LogoRegion: logoRegion,
	}

	return cfg, nil
}
