package types

import (
	"github.com/shopspring/decimal"
)

// TradingPair is one DEX pair that quotes a token, already mapped out of the
// provider shape. Reversed means the provider priced the pair's base side and
// our token sits on the quote side, so PriceUsd does not describe our token.
type TradingPair struct {
	PairAddress  string          `json:"pairAddress"`
	DexID        string          `json:"dexId"`
	BaseToken    string          `json:"baseToken"`
	BaseSymbol   string          `json:"baseSymbol"`
	QuoteToken   string          `json:"quoteToken"`
	QuoteSymbol  string          `json:"quoteSymbol"`
	LiquidityUsd float64         `json:"liquidityUsd"`
	PriceUsd     decimal.Decimal `json:"priceUsd"`
	Reversed     bool            `json:"reversed"`
}

// PriceResult is a successfully resolved USD price. Absence of a price is a
// nil *PriceResult, never a zero value.
type PriceResult struct {
	TokenAddress string          `json:"tokenAddress"`
	PriceUsd     decimal.Decimal `json:"priceUsd"`
	Source       string          `json:"source"`
	QuoteSymbol  string          `json:"quoteSymbol,omitempty"`
	ResolvedAt   int64           `json:"resolvedAt"`
}
