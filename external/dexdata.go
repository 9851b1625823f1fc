package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/walletscope/walletscope-backend/metrics"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

type DexDataConfig struct {
	URL    string
	Logger *zap.Logger
}

// DexDataClient talks to the DEX-data API. The provider quotes every pair a
// token appears in, both sides; mapping marks the quote-side listings as
// Reversed so the resolver can drop them.
type DexDataClient struct {
	baseURL string

	http    *http.Client
	limiter *rate.Limiter

	retryInterval time.Duration
	maxRetries    uint64

	logger *zap.Logger
}

func NewDexDataClient(cfg DexDataConfig) *DexDataClient {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DexDataClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:       rate.NewLimiter(rate.Limit(5), 5),
		retryInterval: 500 * time.Millisecond,
		maxRetries:    3,
		logger:        logger.With(zap.String("client", "dexdata")),
	}
}

// Provider wire shape. Only the fields the mapper reads are declared.
type dexPairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type dexLiquidity struct {
	Usd float64 `json:"usd"`
}

type dexPair struct {
	ChainID     string        `json:"chainId"`
	DexID       string        `json:"dexId"`
	PairAddress string        `json:"pairAddress"`
	BaseToken   dexPairToken  `json:"baseToken"`
	QuoteToken  dexPairToken  `json:"quoteToken"`
	PriceUsd    string        `json:"priceUsd"`
	Liquidity   *dexLiquidity `json:"liquidity"`
}

// TokenPairs returns every pair quoting token, mapped out of the provider
// shape. A token with no pairs is a valid empty result, not an error.
func (c *DexDataClient) TokenPairs(ctx context.Context, token string) ([]*types.TradingPair, error) {
	token = utils.NormalizeAddress(token)
	lgr := c.logger.With(zap.String("method", "TokenPairs"))

	reqURL := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, token)
	var payload struct {
		Pairs []*dexPair `json:"pairs"`
	}
	if err := c.getJSON(ctx, "pairs", reqURL, &payload); err != nil {
		lgr.Warn("cannot fetch token pairs", zap.String("token", token), zap.Error(err))
		return nil, err
	}

	pairs := make([]*types.TradingPair, 0, len(payload.Pairs))
	for _, p := range payload.Pairs {
		if p == nil {
			continue
		}
		mapped := &types.TradingPair{
			PairAddress: utils.NormalizeAddress(p.PairAddress),
			DexID:       p.DexID,
			BaseToken:   utils.NormalizeAddress(p.BaseToken.Address),
			BaseSymbol:  p.BaseToken.Symbol,
			QuoteToken:  utils.NormalizeAddress(p.QuoteToken.Address),
			QuoteSymbol: p.QuoteToken.Symbol,
			Reversed:    utils.NormalizeAddress(p.BaseToken.Address) != token,
		}
		if p.Liquidity != nil {
			mapped.LiquidityUsd = p.Liquidity.Usd
		}
		if p.PriceUsd != "" {
			price, err := decimal.NewFromString(p.PriceUsd)
			if err != nil {
				lgr.Warn("cannot parse pair price",
					zap.String("pair", p.PairAddress), zap.String("priceUsd", p.PriceUsd))
			} else {
				mapped.PriceUsd = price
			}
		}
		pairs = append(pairs, mapped)
	}
	return pairs, nil
}

func (c *DexDataClient) getJSON(ctx context.Context, endpoint, reqURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode >= http.StatusInternalServerError,
			resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("dexdata returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("dexdata returned %d", resp.StatusCode))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("cannot decode dexdata payload: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
	metrics.RecordProviderRequest("dexdata", endpoint, time.Since(start), err)
	return err
}
