package txflow

import (
	"strings"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// Classify assigns one semantic type to a transaction as seen by wallet.
// Checks run in fixed precedence and the first hit wins: decoded method
// labels are more reliable than router membership, which beats patterns
// inferred from the transfer legs. Reordering these checks changes results
// on real data, so don't.
func (p *Pipeline) Classify(tx *types.Transaction, wallet string) types.TransactionType {
	wallet = utils.NormalizeAddress(wallet)

	// 1. Known swap method vocabulary on the decoded label.
	if p.matchesSwapVocabulary(tx.MethodLabel) {
		return types.TxSwap
	}

	// 2. Recipient is a known DEX router.
	if tx.To != "" && p.rules.Routers[tx.To] {
		return types.TxSwap
	}

	// 3. Both directions present among non-internal ERC20 legs.
	var sendAll, recvAll, sendERC, recvERC, visible, erc20Visible int
	for _, t := range tx.Transfers {
		if t.Internal {
			continue
		}
		visible++
		erc20 := t.TokenAddress != cfg.NativeTokenAddress
		if erc20 {
			erc20Visible++
		}
		switch t.Direction {
		case types.DirectionSend:
			sendAll++
			if erc20 {
				sendERC++
			}
		case types.DirectionReceive:
			recvAll++
			if erc20 {
				recvERC++
			}
		}
	}
	if sendERC > 0 && recvERC > 0 {
		return types.TxSwap
	}

	// 4. Approvals.
	if strings.Contains(strings.ToLower(tx.MethodLabel), "approve") {
		return types.TxApproval
	}

	// 5. A single direction across the legs is that direction.
	if sendAll > 0 && recvAll == 0 {
		return types.TxSend
	}
	if recvAll > 0 && sendAll == 0 {
		return types.TxReceive
	}

	value, _ := utils.ParseAmount(tx.Value)

	// 6. Plain contract touch: a recipient, no value, no visible legs.
	if tx.To != "" && value.Sign() == 0 && visible == 0 {
		return types.TxContract
	}

	// 7. Bare native movement without any ERC20 involvement.
	if value.Sign() > 0 && erc20Visible == 0 {
		if tx.From == wallet {
			return types.TxSend
		}
		return types.TxReceive
	}

	// 8. Nothing usable.
	return types.TxUnknown
}

// matchesSwapVocabulary reports whether a decoded method label belongs to the
// swap family. Substring match, case-insensitive; labels like
// "swapExactTokensForTokens" or "multicall(uint256,bytes[])" all hit.
func (p *Pipeline) matchesSwapVocabulary(methodLabel string) bool {
	if methodLabel == "" {
		return false
	}
	label := strings.ToLower(methodLabel)
	for _, w := range p.rules.SwapMethodWords {
		if strings.Contains(label, w) {
			return true
		}
	}
	return false
}

// swapShaped is the aggregator's pre-classification: the label/router
// heuristics only, cheap enough to run before flows exist.
func (p *Pipeline) swapShaped(tx *types.Transaction) bool {
	if p.matchesSwapVocabulary(tx.MethodLabel) {
		return true
	}
	return tx.To != "" && p.rules.Routers[tx.To]
}
