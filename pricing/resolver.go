// Package pricing turns the noisy set of DEX pairs quoting a token into a
// single trustworthy USD price, and keeps a short-lived local cache of what
// it resolved.
package pricing

import (
	"time"

	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// Resolver applies the pair-selection policy. It is stateless: every call
// works only with the pairs it is handed and assumes nothing about caching.
type Resolver struct {
	wrappedNative string
	logger        *zap.Logger
}

func NewResolver(wrappedNative string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		wrappedNative: utils.NormalizeAddress(wrappedNative),
		logger:        logger,
	}
}

// Resolve picks the authoritative USD price for token, or nil when no pair
// qualifies. Reversed pairs never qualify, not even as a fallback: their
// quoted price describes the pair's other side. Among qualifying pairs a
// wrapped-native quote wins outright, highest liquidity first; only when no
// native quote exists does the highest-liquidity pair of any quote asset win.
func (r *Resolver) Resolve(token string, pairs []*types.TradingPair) *types.PriceResult {
	token = utils.NormalizeAddress(token)

	var best, bestNative *types.TradingPair
	for _, p := range pairs {
		if p == nil || p.Reversed {
			continue
		}
		// A zero or negative quote carries no signal.
		if p.PriceUsd.Sign() <= 0 {
			continue
		}
		if best == nil || p.LiquidityUsd > best.LiquidityUsd {
			best = p
		}
		if utils.NormalizeAddress(p.QuoteToken) == r.wrappedNative {
			if bestNative == nil || p.LiquidityUsd > bestNative.LiquidityUsd {
				bestNative = p
			}
		}
	}

	chosen := bestNative
	if chosen == nil {
		chosen = best
	}
	if chosen == nil {
		r.logger.Debug("no qualifying pair for token",
			zap.String("token", token), zap.Int("candidates", len(pairs)))
		return nil
	}

	source := chosen.DexID
	if source == "" {
		source = "dex"
	}
	return &types.PriceResult{
		TokenAddress: token,
		PriceUsd:     chosen.PriceUsd,
		Source:       source,
		QuoteSymbol:  chosen.QuoteSymbol,
		ResolvedAt:   time.Now().Unix(),
	}
}
