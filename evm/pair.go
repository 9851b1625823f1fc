package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// PairState is the on-chain snapshot of one AMM pair.
type PairState struct {
	PairAddress string
	Token0      string
	Token1      string
	Reserve0    *big.Int
	Reserve1    *big.Int
	TotalSupply *big.Int
}

// PairInfo reads token0/token1, reserves and LP supply for one pair.
func (c *Client) PairInfo(ctx context.Context, pairAddress string) (*PairState, error) {
	parsed, err := pairABIInstance()
	if err != nil {
		return nil, err
	}
	addr := common.HexToAddress(pairAddress)
	state := &PairState{
		PairAddress: utils.NormalizeAddress(pairAddress),
		Reserve0:    new(big.Int),
		Reserve1:    new(big.Int),
		TotalSupply: new(big.Int),
	}

	values, err := c.call(ctx, addr, parsed, "token0")
	if err != nil {
		return nil, err
	}
	if a, ok := values[0].(common.Address); ok {
		state.Token0 = utils.NormalizeAddress(a.Hex())
	}

	values, err = c.call(ctx, addr, parsed, "token1")
	if err != nil {
		return nil, err
	}
	if a, ok := values[0].(common.Address); ok {
		state.Token1 = utils.NormalizeAddress(a.Hex())
	}

	values, err = c.call(ctx, addr, parsed, "getReserves")
	if err != nil {
		return nil, err
	}
	if r0, ok := asBigInt(values[0]); ok {
		state.Reserve0 = r0
	}
	if r1, ok := asBigInt(values[1]); ok {
		state.Reserve1 = r1
	}

	values, err = c.call(ctx, addr, parsed, "totalSupply")
	if err != nil {
		return nil, err
	}
	if supply, ok := asBigInt(values[0]); ok {
		state.TotalSupply = supply
	}
	return state, nil
}

// LPPosition translates wallet's LP balance in a pair into underlying token
// amounts by pool share. A zero balance is (nil, nil), not an error.
func (c *Client) LPPosition(ctx context.Context, pairAddress, wallet string) (*types.LPPosition, error) {
	parsed, err := pairABIInstance()
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, common.HexToAddress(pairAddress), parsed, "balanceOf", common.HexToAddress(wallet))
	if err != nil {
		return nil, err
	}
	balance, ok := asBigInt(values[0])
	if !ok {
		return nil, fmt.Errorf("balanceOf returned unexpected type for %s", pairAddress)
	}
	if balance.Sign() == 0 {
		return nil, nil
	}

	state, err := c.PairInfo(ctx, pairAddress)
	if err != nil {
		return nil, err
	}
	if state.TotalSupply.Sign() == 0 {
		return nil, fmt.Errorf("pair %s has zero LP supply", pairAddress)
	}

	amount0 := new(big.Int).Mul(state.Reserve0, balance)
	amount0.Div(amount0, state.TotalSupply)
	amount1 := new(big.Int).Mul(state.Reserve1, balance)
	amount1.Div(amount1, state.TotalSupply)

	// Pool share in parts-per-million, rendered as a percentage with four
	// fractional digits.
	ppm := new(big.Int).Mul(balance, big.NewInt(1000000))
	ppm.Div(ppm, state.TotalSupply)

	pos := &types.LPPosition{
		PairAddress:  state.PairAddress,
		LPBalance:    balance.String(),
		TotalSupply:  state.TotalSupply.String(),
		SharePercent: utils.DisplayAmount(ppm, 4),
		Amount0:      amount0.String(),
		Amount1:      amount1.String(),
	}

	if t0, err := c.TokenInfo(ctx, state.Token0); err == nil {
		pos.Token0 = t0
	} else {
		pos.Token0 = &types.Token{Address: state.Token0, Decimals: utils.DefaultDecimals}
	}
	if t1, err := c.TokenInfo(ctx, state.Token1); err == nil {
		pos.Token1 = t1
	} else {
		pos.Token1 = &types.Token{Address: state.Token1, Decimals: utils.DefaultDecimals}
	}
	return pos, nil
}
