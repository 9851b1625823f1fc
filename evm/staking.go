package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// StakedBalance reads wallet's stake and accrued rewards from a
// StakingRewards-style contract. Contracts without an earned view still
// report the stake; rewards come back zero.
func (c *Client) StakedBalance(ctx context.Context, contract, wallet string) (*big.Int, *big.Int, error) {
	parsed, err := stakingABIInstance()
	if err != nil {
		return nil, nil, err
	}
	addr := common.HexToAddress(contract)
	owner := common.HexToAddress(wallet)

	values, err := c.call(ctx, addr, parsed, "balanceOf", owner)
	if err != nil {
		return nil, nil, err
	}
	staked, ok := asBigInt(values[0])
	if !ok {
		return nil, nil, fmt.Errorf("balanceOf returned unexpected type for %s", contract)
	}

	rewards := new(big.Int)
	if values, err := c.call(ctx, addr, parsed, "earned", owner); err == nil {
		if r, ok := asBigInt(values[0]); ok {
			rewards = r
		}
	}
	return staked, rewards, nil
}
