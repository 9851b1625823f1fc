package evm

import (
	"bytes"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal view-method ABIs, embedded so no artifact files ship with the
// binary. The bytes32 variant covers pre-standard tokens whose symbol/name
// return fixed-width values.
const erc20ABIJSON = `[
  {"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"type": "address"}], "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const erc20Bytes32ABIJSON = `[
  {"inputs": [], "name": "name", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"}
]`

const pairABIJSON = `[
  {"inputs": [], "name": "token0", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "token1", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getReserves", "outputs": [{"type": "uint112"}, {"type": "uint112"}, {"type": "uint32"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"type": "address"}], "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const stakingABIJSON = `[
  {"inputs": [{"type": "address"}], "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"type": "address"}], "name": "earned", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

var (
	erc20ABI         abi.ABI
	erc20ABIOnce     sync.Once
	erc20ABIErr      error
	erc20B32ABI      abi.ABI
	erc20B32ABIOnce  sync.Once
	erc20B32ABIErr   error
	pairABI          abi.ABI
	pairABIOnce      sync.Once
	pairABIErr       error
	stakingABI       abi.ABI
	stakingABIOnce   sync.Once
	stakingABIErr    error
)

func erc20ABIInstance() (abi.ABI, error) {
	erc20ABIOnce.Do(func() {
		erc20ABI, erc20ABIErr = abi.JSON(strings.NewReader(erc20ABIJSON))
	})
	return erc20ABI, erc20ABIErr
}

func erc20Bytes32ABIInstance() (abi.ABI, error) {
	erc20B32ABIOnce.Do(func() {
		erc20B32ABI, erc20B32ABIErr = abi.JSON(strings.NewReader(erc20Bytes32ABIJSON))
	})
	return erc20B32ABI, erc20B32ABIErr
}

func pairABIInstance() (abi.ABI, error) {
	pairABIOnce.Do(func() {
		pairABI, pairABIErr = abi.JSON(strings.NewReader(pairABIJSON))
	})
	return pairABI, pairABIErr
}

func stakingABIInstance() (abi.ABI, error) {
	stakingABIOnce.Do(func() {
		stakingABI, stakingABIErr = abi.JSON(strings.NewReader(stakingABIJSON))
	})
	return stakingABI, stakingABIErr
}

func asBigInt(v interface{}) (*big.Int, bool) {
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		return nil, false
	}
	return n, true
}

func bytes32ToString(v interface{}) (string, bool) {
	b, ok := v.([32]byte)
	if !ok {
		return "", false
	}
	trimmed := bytes.TrimRight(b[:], "\x00")
	if len(trimmed) == 0 {
		return "", false
	}
	return string(trimmed), true
}
