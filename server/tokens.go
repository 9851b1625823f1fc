// Package server
package server

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// AddressTokens lists a wallet's holdings: the native balance first, then
// every non-zero token balance the scanner reports, with metadata resolved
// through cache, storage and finally the chain, and USD values attached
// where a price resolves.
func (s *Server) AddressTokens(ctx context.Context, address string) ([]*types.TokenBalance, error) {
	balances, _, err := s.addressTokens(ctx, address)
	return balances, err
}

func (s *Server) addressTokens(ctx context.Context, address string) ([]*types.TokenBalance, decimal.Decimal, error) {
	total := decimal.Zero
	address, err := utils.ValidateAddress(address)
	if err != nil {
		return nil, total, err
	}
	lgr := s.logger.With(zap.String("method", "AddressTokens"), zap.String("address", address))

	raws, err := s.scanner.AddressTokenBalances(ctx, address)
	if err != nil {
		return nil, total, err
	}

	entries := make([]*types.TokenBalance, 0, len(raws)+1)
	if native, err := s.chain.NativeBalance(ctx, address); err != nil {
		lgr.Warn("cannot read native balance", zap.Error(err))
	} else if native.Sign() > 0 {
		entries = append(entries, &types.TokenBalance{
			Token: &types.Token{
				Address:  cfg.NativeTokenAddress,
				Name:     s.nativeSymbol,
				Symbol:   s.nativeSymbol,
				Decimals: s.nativeDecimals,
			},
			Balance:        native.String(),
			BalanceDisplay: utils.DisplayAmount(native, s.nativeDecimals),
		})
	}

	for _, raw := range raws {
		amount, ok := utils.ParseAmount(raw.Balance)
		if !ok {
			lgr.Warn("cannot parse token balance", zap.String("token", raw.TokenAddress), zap.String("balance", raw.Balance))
			continue
		}
		if amount.Sign() == 0 {
			continue
		}
		token := s.tokenInfo(ctx, raw)
		entries = append(entries, &types.TokenBalance{
			Token:          token,
			Balance:        amount.String(),
			BalanceDisplay: utils.DisplayAmount(amount, token.Decimals),
		})
	}

	tokens := make([]string, 0, len(entries))
	for _, entry := range entries {
		tokens = append(tokens, entry.Token.Address)
	}
	prices := s.resolvePrices(ctx, tokens)
	for _, entry := range entries {
		price := prices[entry.Token.Address]
		if price == nil {
			continue
		}
		amount, ok := utils.ParseAmount(entry.Balance)
		if !ok {
			continue
		}
		value := utils.AmountUsd(amount, entry.Token.Decimals, price.PriceUsd)
		entry.PriceUsd = price.PriceUsd.String()
		entry.ValueUsd = utils.FormatUsd(value)
		total = total.Add(value)
	}
	return entries, total, nil
}

// UpdateTokenLogo points a token's registry entry at a freshly uploaded
// logo. Unknown tokens get a registry entry on the spot, enriched from the
// chain when possible.
func (s *Server) UpdateTokenLogo(ctx context.Context, address, logo string) (*types.Token, error) {
	normalized, err := utils.ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	token, err := s.db.Token(ctx, normalized)
	if err != nil {
		if onChain, chainErr := s.chain.TokenInfo(ctx, normalized); chainErr == nil && onChain != nil {
			token = onChain
		} else {
			token = &types.Token{Address: normalized}
		}
	}
	token.Logo = logo
	token.UpdatedAt = time.Now().Unix()
	if err := s.db.UpsertToken(ctx, token); err != nil {
		return nil, err
	}
	if err := s.cache.UpdateTokenInfo(ctx, token); err != nil {
		s.logger.Warn("cannot cache token info", zap.String("token", normalized), zap.Error(err))
	}
	return token, nil
}

// tokenInfo resolves token metadata read-through: cache, then storage, then
// the scanner's own row, re-checked on chain when the row looks incomplete.
// It always returns a usable token; lookup failures degrade to the scanner
// hint rather than dropping the balance entry.
func (s *Server) tokenInfo(ctx context.Context, raw *types.RawTokenBalance) *types.Token {
	address := utils.NormalizeAddress(raw.TokenAddress)

	if token, err := s.cache.TokenInfo(ctx, address); err == nil && token != nil {
		return token
	}
	if token, err := s.db.Token(ctx, address); err == nil && token != nil {
		if err := s.cache.UpdateTokenInfo(ctx, token); err != nil {
			s.logger.Warn("cannot cache token info", zap.String("token", address), zap.Error(err))
		}
		return token
	}

	token := &types.Token{
		Address:  address,
		Name:     raw.TokenName,
		Symbol:   raw.TokenSymbol,
		Decimals: utils.ParseDecimals(raw.Decimals),
		Logo:     raw.TokenLogo,
	}
	// scanner rows sometimes ship empty symbols or a bogus zero decimals;
	// those are the ones worth a contract call
	if token.Symbol == "" || token.Decimals == 0 {
		if onChain, err := s.chain.TokenInfo(ctx, address); err != nil {
			s.logger.Warn("cannot verify token on chain", zap.String("token", address), zap.Error(err))
		} else if onChain != nil {
			if onChain.Logo == "" {
				onChain.Logo = raw.TokenLogo
			}
			token = onChain
		}
	}
	token.UpdatedAt = time.Now().Unix()

	if err := s.db.UpsertToken(ctx, token); err != nil {
		s.logger.Warn("cannot store token info", zap.String("token", address), zap.Error(err))
	}
	if err := s.cache.UpdateTokenInfo(ctx, token); err != nil {
		s.logger.Warn("cannot cache token info", zap.String("token", address), zap.Error(err))
	}
	return token
}
