package evm

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// TokenBalance returns the ERC20 balance of wallet on token at head.
func (c *Client) TokenBalance(ctx context.Context, token, wallet string) (*big.Int, error) {
	parsed, err := erc20ABIInstance()
	if err != nil {
		return nil, err
	}
	values, err := c.call(ctx, common.HexToAddress(token), parsed, "balanceOf", common.HexToAddress(wallet))
	if err != nil {
		return nil, err
	}
	balance, ok := asBigInt(values[0])
	if !ok {
		return nil, fmt.Errorf("balanceOf returned unexpected type for %s", token)
	}
	return balance, nil
}

// TokenInfo reads a token's on-chain metadata. decimals failing means the
// contract is not usable as an ERC20 and is an error; symbol and name fall
// back to the bytes32 ABI and then to empty values.
func (c *Client) TokenInfo(ctx context.Context, token string) (*types.Token, error) {
	lgr := c.logger.With(zap.String("method", "TokenInfo"))
	addr := common.HexToAddress(token)

	parsed, err := erc20ABIInstance()
	if err != nil {
		return nil, err
	}

	info := &types.Token{
		Address:  utils.NormalizeAddress(token),
		Decimals: utils.DefaultDecimals,
	}

	values, err := c.call(ctx, addr, parsed, "decimals")
	if err != nil {
		return nil, err
	}
	if d, ok := values[0].(uint8); ok {
		info.Decimals = int64(d)
	}

	if values, err := c.call(ctx, addr, parsed, "symbol"); err == nil {
		if s, ok := values[0].(string); ok {
			info.Symbol = s
		}
	} else {
		info.Symbol = c.bytes32Field(ctx, addr, "symbol")
		if info.Symbol == "" {
			lgr.Debug("token has no readable symbol", zap.String("token", info.Address))
		}
	}

	if values, err := c.call(ctx, addr, parsed, "name"); err == nil {
		if s, ok := values[0].(string); ok {
			info.Name = s
		}
	} else {
		info.Name = c.bytes32Field(ctx, addr, "name")
	}

	if values, err := c.call(ctx, addr, parsed, "totalSupply"); err == nil {
		if supply, ok := asBigInt(values[0]); ok {
			info.TotalSupply = supply.String()
		}
	}

	info.UpdatedAt = time.Now().Unix()
	return info, nil
}

func (c *Client) bytes32Field(ctx context.Context, addr common.Address, method string) string {
	parsed, err := erc20Bytes32ABIInstance()
	if err != nil {
		return ""
	}
	values, err := c.call(ctx, addr, parsed, method)
	if err != nil {
		return ""
	}
	s, _ := bytes32ToString(values[0])
	return s
}
