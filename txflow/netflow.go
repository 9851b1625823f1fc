package txflow

import (
	"math/big"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// Aggregate reconstructs what wallet actually gave up and received in one
// transaction: a signed net amount per token, with router hop duplicates and
// wrap artifacts removed. Indexers report every internal hop of a routed
// swap as its own transfer record, so the honest answer is a strictly
// smaller set than the raw legs.
//
// The walk is stateless and the input is never mutated; running it twice
// yields identical output. Flows come back in a fixed order: the native
// seed first, then tokens by first appearance.
func (p *Pipeline) Aggregate(tx *types.Transaction, wallet string) []*types.TokenFlow {
	wallet = utils.NormalizeAddress(wallet)

	type entry struct {
		net      *big.Int
		decimals int64
		symbol   string
	}
	byToken := make(map[string]*entry)
	var order []string

	add := func(key string, amt *big.Int, decimals int64, symbol string) {
		e, ok := byToken[key]
		if !ok {
			e = &entry{net: new(big.Int), decimals: decimals, symbol: symbol}
			byToken[key] = e
			order = append(order, key)
		}
		e.net.Add(e.net, amt)
		if e.symbol == "" && symbol != "" {
			e.symbol = symbol
		}
	}

	// The transaction's own value is the native leg that exists before any
	// wrapping. Count it once, as an outflow, when the wallet is the sender.
	value, _ := utils.ParseAmount(tx.Value)
	seeded := tx.From == wallet && value.Sign() > 0
	if seeded {
		add(cfg.NativeTokenAddress, new(big.Int).Neg(value), p.rules.NativeDecimals, p.rules.NativeSymbol)
	}

	isSwap := p.swapShaped(tx)
	seedConsumed := false

	for _, t := range tx.Transfers {
		if t.Internal || t.Direction == types.DirectionUnknown {
			continue
		}

		// Indexers commonly emit a native transfer record that restates the
		// transaction's own value. One seed, one skip.
		if seeded && !seedConsumed &&
			t.TokenAddress == cfg.NativeTokenAddress &&
			t.Direction == types.DirectionSend &&
			t.Amount.Cmp(value) == 0 {
			seedConsumed = true
			continue
		}

		if t.TokenAddress == p.rules.WrappedNative && p.rules.WrappedNative != "" {
			// Inside a swap the wrapped legs are the router's wrap step; the
			// unwrapped native leg already represents the money.
			if isSwap {
				continue
			}
			// Outside labeled swaps the same artifact shows up as a wrapped
			// leg restating the seeded outflow: same direction, same amount.
			// A deliberate wrap runs the other way (native out, wrapped in)
			// and is kept.
			if seeded && t.Direction == types.DirectionSend && t.Amount.Cmp(value) == 0 {
				continue
			}
		}

		amt := new(big.Int).Set(t.Amount)
		if t.Direction == types.DirectionSend {
			amt.Neg(amt)
		}
		add(t.TokenAddress, amt, t.Decimals, t.Symbol)
	}

	out := make([]*types.TokenFlow, 0, len(order))
	for _, key := range order {
		e := byToken[key]
		// Round trips cancel out entirely; a zero row is noise, not a flow.
		if e.net.Sign() == 0 {
			continue
		}
		out = append(out, &types.TokenFlow{
			TokenAddress: key,
			Symbol:       e.symbol,
			Decimals:     e.decimals,
			Net:          e.net,
		})
	}
	return out
}
