// Package external holds the HTTP clients for the third-party data
// providers: the indexed scanner API and the DEX-data API. Provider wire
// shapes live and die here and in the normalizer; everything past these
// clients works on normalized types.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/walletscope/walletscope-backend/metrics"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

const maxBodyBytes = 10 << 20

type ScannerConfig struct {
	URL       string
	APIKey    string
	RateLimit int // requests per second against the scanner
	Logger    *zap.Logger
}

// ScannerClient talks to the indexed scanner API. Every request goes through
// the shared rate limiter; transient upstream failures are retried with
// bounded exponential backoff, 4xx responses are not.
type ScannerClient struct {
	baseURL string
	apiKey  string

	http    *http.Client
	limiter *rate.Limiter

	retryInterval time.Duration
	maxRetries    uint64

	logger *zap.Logger
}

func NewScannerClient(cfg ScannerConfig) *ScannerClient {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 5
	}
	return &ScannerClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:       rate.NewLimiter(rate.Limit(rps), rps),
		retryInterval: 500 * time.Millisecond,
		maxRetries:    3,
		logger:        logger.With(zap.String("client", "scanner")),
	}
}

// AddressTxs fetches one page of a wallet's transaction history. The
// returned cursor is opaque; empty means the history is exhausted.
func (c *ScannerClient) AddressTxs(ctx context.Context, address, cursor string, limit int) ([]*types.RawTransaction, string, error) {
	address = utils.NormalizeAddress(address)
	lgr := c.logger.With(zap.String("method", "AddressTxs"))

	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	reqURL := fmt.Sprintf("%s/v1/addresses/%s/transactions", c.baseURL, address)
	if enc := q.Encode(); enc != "" {
		reqURL += "?" + enc
	}

	var payload struct {
		Transactions []*types.RawTransaction `json:"transactions"`
		Cursor       string                  `json:"cursor"`
	}
	if err := c.getJSON(ctx, "transactions", reqURL, &payload); err != nil {
		lgr.Warn("cannot fetch address transactions",
			zap.String("address", address), zap.Error(err))
		return nil, "", err
	}
	return payload.Transactions, payload.Cursor, nil
}

// AddressTokenBalances fetches every token holding the scanner indexed for
// a wallet, raw provider shape.
func (c *ScannerClient) AddressTokenBalances(ctx context.Context, address string) ([]*types.RawTokenBalance, error) {
	address = utils.NormalizeAddress(address)
	lgr := c.logger.With(zap.String("method", "AddressTokenBalances"))

	reqURL := fmt.Sprintf("%s/v1/addresses/%s/tokens", c.baseURL, address)
	var payload struct {
		Tokens []*types.RawTokenBalance `json:"tokens"`
	}
	if err := c.getJSON(ctx, "tokens", reqURL, &payload); err != nil {
		lgr.Warn("cannot fetch address token balances",
			zap.String("address", address), zap.Error(err))
		return nil, err
	}
	return payload.Tokens, nil
}

func (c *ScannerClient) getJSON(ctx context.Context, endpoint, reqURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
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
			return fmt.Errorf("scanner returned %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("scanner returned %d", resp.StatusCode))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("cannot decode scanner payload: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
	metrics.RecordProviderRequest("scanner", endpoint, time.Since(start), err)
	return err
}
