package txflow

import (
	"fmt"
	"math/big"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// PriceLookup resolves a token's USD price, or nil when none is available.
// Summarize treats nil lookups and nil results the same way: the amount is
// shown, the USD annotation is omitted.
type PriceLookup func(tokenAddress string) *types.PriceResult

// Summarize composes the whole pipeline for one transaction and one wallet:
// classify, aggregate, annotate with prices, render the display line.
func (p *Pipeline) Summarize(tx *types.Transaction, wallet string, lookup PriceLookup) *types.TxSummary {
	wallet = utils.NormalizeAddress(wallet)

	txType := p.Classify(tx, wallet)
	flows := p.Aggregate(tx, wallet)

	views := make([]*types.FlowView, 0, len(flows))
	for _, f := range flows {
		v := &types.FlowView{
			TokenAddress: f.TokenAddress,
			Symbol:       f.Symbol,
			Decimals:     f.Decimals,
			Amount:       utils.DisplayAmount(f.Net, f.Decimals),
		}
		if lookup != nil {
			if pr := lookup(f.TokenAddress); pr != nil {
				v.AmountUsd = utils.FormatUsd(utils.AmountUsd(f.Net, f.Decimals, pr.PriceUsd))
			}
		}
		views = append(views, v)
	}

	return &types.TxSummary{
		Wallet:   wallet,
		Hash:     tx.Hash,
		Type:     txType,
		Category: tx.Category,
		Line:     buildLine(txType, flows),
		Time:     tx.Time,
		Failed:   tx.Failed,
		Flows:    views,
	}
}

func buildLine(txType types.TransactionType, flows []*types.TokenFlow) string {
	var in, out *types.TokenFlow
	for _, f := range flows {
		if f.Outbound() {
			if out == nil {
				out = f
			}
		} else if in == nil {
			in = f
		}
	}

	switch txType {
	case types.TxSwap:
		switch {
		case in != nil && out != nil:
			return fmt.Sprintf("Swapped %s %s for %s %s",
				humanAbs(out), flowSymbol(out), humanAbs(in), flowSymbol(in))
		case out != nil:
			return fmt.Sprintf("Swapped %s %s", humanAbs(out), flowSymbol(out))
		case in != nil:
			return fmt.Sprintf("Swapped for %s %s", humanAbs(in), flowSymbol(in))
		default:
			return "Swap (details unavailable)"
		}
	case types.TxSend:
		if out != nil {
			return fmt.Sprintf("Sent %s %s", humanAbs(out), flowSymbol(out))
		}
		return "Sent funds"
	case types.TxReceive:
		if in != nil {
			return fmt.Sprintf("Received %s %s", humanAbs(in), flowSymbol(in))
		}
		return "Received funds"
	case types.TxApproval:
		return "Approved token spending"
	case types.TxContract:
		return "Contract interaction"
	default:
		return "Unknown activity"
	}
}

func humanAbs(f *types.TokenFlow) string {
	return utils.HumanAmount(new(big.Int).Abs(f.Net), f.Decimals)
}

func flowSymbol(f *types.TokenFlow) string {
	if f.Symbol != "" {
		return f.Symbol
	}
	return shortAddress(f.TokenAddress)
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
