// Package server
package server

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/metrics"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

const pricePoolSize = 8

// TokenPrice resolves a token's USD price through the in-memory cache, the
// redis cache and finally the DEX data provider. A token no pair quotes
// resolves to (nil, nil); only provider failures surface as errors. The
// native asset is priced through its wrapped form.
func (s *Server) TokenPrice(ctx context.Context, token string) (*types.PriceResult, error) {
	address, err := utils.ValidateAddress(token)
	if err != nil {
		return nil, err
	}
	if address == cfg.NativeTokenAddress {
		address = s.wrappedNative
	}

	if price := s.recent.Get(address); price != nil {
		metrics.RecordPriceResolution("memory")
		return price, nil
	}
	if price, err := s.cache.TokenPrice(ctx, address); err == nil && price != nil {
		s.recent.Set(address, price)
		metrics.RecordPriceResolution("cache")
		return price, nil
	}

	pairs, err := s.dex.TokenPairs(ctx, address)
	if err != nil {
		metrics.RecordPriceResolution("upstream_error")
		return nil, err
	}
	price := s.resolver.Resolve(address, pairs)
	if price == nil {
		metrics.RecordPriceResolution("none")
		return nil, nil
	}

	s.recent.Set(address, price)
	if err := s.cache.UpdateTokenPrice(ctx, price); err != nil {
		s.logger.Warn("cannot cache token price", zap.String("token", address), zap.Error(err))
	}
	metrics.RecordPriceResolution("resolved")
	return price, nil
}

// TokenPairs exposes the raw candidate pairs for a token, before the
// resolver's policy picks one. Debug surface for the pricing pipeline.
func (s *Server) TokenPairs(ctx context.Context, token string) ([]*types.TradingPair, error) {
	address, err := utils.ValidateAddress(token)
	if err != nil {
		return nil, err
	}
	if address == cfg.NativeTokenAddress {
		address = s.wrappedNative
	}
	return s.dex.TokenPairs(ctx, address)
}

// resolvePrices fans price resolution out over a bounded worker pool. The
// result map only carries tokens that resolved; a failing token is logged
// and omitted so the rest of the batch is unaffected.
func (s *Server) resolvePrices(ctx context.Context, tokens []string) map[string]*types.PriceResult {
	results := make(map[string]*types.PriceResult, len(tokens))
	if len(tokens) == 0 {
		return results
	}
	lgr := s.logger.With(zap.String("method", "resolvePrices"))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	pool, err := ants.NewPoolWithFunc(pricePoolSize, func(i interface{}) {
		defer wg.Done()
		token := i.(string)
		price, err := s.TokenPrice(ctx, token)
		if err != nil {
			lgr.Warn("cannot resolve token price", zap.String("token", token), zap.Error(err))
			return
		}
		if price == nil {
			return
		}
		mu.Lock()
		results[token] = price
		mu.Unlock()
	}, ants.WithPreAlloc(true))
	if err != nil {
		lgr.Warn("cannot create price pool", zap.Error(err))
		return results
	}
	defer pool.Release()

	for _, token := range tokens {
		wg.Add(1)
		if err := pool.Invoke(token); err != nil {
			wg.Done()
			lgr.Warn("cannot submit price task", zap.String("token", token), zap.Error(err))
		}
	}
	wg.Wait()
	return results
}
