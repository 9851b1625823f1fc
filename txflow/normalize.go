package txflow

import (
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// NormalizeTransfer converts one provider transfer record into the canonical
// form, resolving direction relative to wallet. Malformed amounts become
// zero, missing address fields leave direction unknown; neither ever fails
// the record.
func (p *Pipeline) NormalizeTransfer(raw *types.RawTransfer, wallet string) *types.Transfer {
	wallet = utils.NormalizeAddress(wallet)

	token := utils.NormalizeAddress(raw.TokenAddress)
	symbol := raw.TokenSymbol
	decimals := utils.ParseDecimals(raw.Decimals)
	if token == "" {
		token = cfg.NativeTokenAddress
		if symbol == "" {
			symbol = p.rules.NativeSymbol
		}
		decimals = p.rules.NativeDecimals
	}
	if symbol == "" && token == p.rules.WrappedNative {
		symbol = p.rules.WrappedSymbol
	}

	amount, ok := utils.ParseAmount(raw.Amount)
	if !ok {
		p.logger.Warn("cannot parse transfer amount, treating as zero",
			zap.String("token", token), zap.String("amount", raw.Amount))
	}

	from := utils.NormalizeAddress(raw.From)
	to := utils.NormalizeAddress(raw.To)
	if from == "" && to == "" {
		p.logger.Warn("transfer record missing both addresses",
			zap.String("token", token), zap.Uint("logIndex", raw.LogIndex))
	}

	direction := types.DirectionUnknown
	switch {
	case to != "" && to == wallet:
		direction = types.DirectionReceive
	case from != "" && from == wallet:
		direction = types.DirectionSend
	}

	return &types.Transfer{
		TokenAddress: token,
		Symbol:       symbol,
		Name:         raw.TokenName,
		Logo:         raw.TokenLogo,
		Decimals:     decimals,
		From:         from,
		To:           to,
		Amount:       amount,
		Direction:    direction,
		Internal:     raw.Internal,
		LogIndex:     raw.LogIndex,
	}
}

// NormalizeTransaction maps a provider transaction and its transfer log into
// the pipeline's domain shape. The result is a fresh value; the raw input is
// never aliased, so one fetch can feed any number of wallet perspectives.
func (p *Pipeline) NormalizeTransaction(raw *types.RawTransaction, wallet string) *types.Transaction {
	tx := &types.Transaction{
		Hash:        raw.Hash,
		From:        utils.NormalizeAddress(raw.From),
		To:          utils.NormalizeAddress(raw.To),
		Value:       raw.Value,
		MethodLabel: raw.MethodLabel,
		Category:    raw.Category,
		Failed:      raw.IsError != "" && raw.IsError != "0",
		Time:        raw.Time,
	}
	if len(raw.Transfers) > 0 {
		tx.Transfers = make([]*types.Transfer, 0, len(raw.Transfers))
		for _, t := range raw.Transfers {
			tx.Transfers = append(tx.Transfers, p.NormalizeTransfer(t, wallet))
		}
	}
	return tx
}
