// Package evm reads on-chain state over JSON-RPC: native and token balances,
// token metadata, AMM pair state and staking views. Calls rotate round-robin
// across the configured endpoints.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/metrics"
)

type Config struct {
	URLs   []string
	Logger *zap.Logger
}

type Client struct {
	rpcs  []*rpc.Client
	nodes []*ethclient.Client
	next  uint64

	logger *zap.Logger
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if len(cfg.URLs) == 0 {
		return nil, errors.New("no rpc endpoints configured")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{logger: logger.With(zap.String("client", "evm"))}
	for _, u := range cfg.URLs {
		rc, err := rpc.DialContext(ctx, u)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("cannot dial rpc endpoint %s: %w", u, err)
		}
		c.rpcs = append(c.rpcs, rc)
		c.nodes = append(c.nodes, ethclient.NewClient(rc))
	}
	return c, nil
}

func (c *Client) Close() {
	for _, rc := range c.rpcs {
		rc.Close()
	}
}

func (c *Client) node() *ethclient.Client {
	i := atomic.AddUint64(&c.next, 1)
	return c.nodes[i%uint64(len(c.nodes))]
}

// NativeBalance returns the chain-native balance of address at head.
func (c *Client) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	start := time.Now()
	balance, err := c.node().BalanceAt(ctx, common.HexToAddress(address), nil)
	metrics.RecordRPCCall("eth_getBalance", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("cannot read native balance: %w", err)
	}
	return balance, nil
}

// call packs one view method, executes it against the next node in rotation
// and unpacks the outputs.
func (c *Client) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}

	start := time.Now()
	resp, err := c.node().CallContract(ctx, msg, nil)
	metrics.RecordRPCCall(method, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}
