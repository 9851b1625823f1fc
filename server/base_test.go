// Package server
package server

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/pricing"
	"github.com/walletscope/walletscope-backend/txflow"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

const (
	tWallet  = "0xa1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0"
	tWallet2 = "0x2222222222222222222222222222222222222222"
	tParty   = "0x1111111111111111111111111111111111111111"
	tTokenA  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	tTokenB  = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	tWrapped = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	tRouter  = "0x7a250d5630b4cf539739df2c5dacb4c659f2488d"
	tStaking = "0x5555555555555555555555555555555555555555"
	tPair    = "0x4444444444444444444444444444444444444444"
)

func newTestServer(sc ScannerProvider, dx DexProvider, ch ChainReader) (*Server, *memStore, *memCache) {
	rules := txflow.Ruleset{
		SwapMethodWords: []string{"swap"},
		Routers:         map[string]bool{tRouter: true},
		WrappedNative:   tWrapped,
		NativeSymbol:    "ETH",
		NativeDecimals:  18,
	}
	store := newMemStore()
	cc := newMemCache()
	srv := &Server{
		db:      store,
		cache:   cc,
		scanner: sc,
		dex:     dx,
		chain:   ch,

		pipeline: txflow.NewPipeline(rules, zap.NewNop()),
		resolver: pricing.NewResolver(tWrapped, zap.NewNop()),
		recent:   pricing.NewCache(time.Minute, nil),

		pageSize:        25,
		appVersion:      "test",
		chainName:       "testnet",
		nativeSymbol:    "ETH",
		nativeDecimals:  18,
		wrappedNative:   tWrapped,
		stakingContract: tStaking,
		refreshWorkers:  2,

		logger: zap.NewNop(),
	}
	return srv, store, cc
}

func tradingPair(base, quote, quoteSymbol string, liquidity float64, price string) *types.TradingPair {
	return &types.TradingPair{
		PairAddress:  tPair,
		DexID:        "testswap",
		BaseToken:    base,
		QuoteToken:   quote,
		QuoteSymbol:  quoteSymbol,
		LiquidityUsd: liquidity,
		PriceUsd:     decimal.RequireFromString(price),
	}
}

// fakeScanner scripts the scanner provider per address.

type fakeScanner struct {
	mu sync.Mutex

	txs        []*types.RawTransaction
	nextCursor string
	balances   map[string][]*types.RawTokenBalance

	txErr  error
	balErr error

	txCalls  int
	balCalls int
}

func (f *fakeScanner) AddressTxs(_ context.Context, _, _ string, _ int) ([]*types.RawTransaction, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCalls++
	if f.txErr != nil {
		return nil, "", f.txErr
	}
	return f.txs, f.nextCursor, nil
}

func (f *fakeScanner) AddressTokenBalances(_ context.Context, address string) ([]*types.RawTokenBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balCalls++
	if f.balErr != nil {
		return nil, f.balErr
	}
	return f.balances[utils.NormalizeAddress(address)], nil
}

// fakeDex scripts candidate pairs per token.

type fakeDex struct {
	mu sync.Mutex

	pairs  map[string][]*types.TradingPair
	errFor map[string]error
	err    error

	calls map[string]int
}

func (f *fakeDex) TokenPairs(_ context.Context, token string) ([]*types.TradingPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	token = utils.NormalizeAddress(token)
	f.calls[token]++
	if f.err != nil {
		return nil, f.err
	}
	if err := f.errFor[token]; err != nil {
		return nil, err
	}
	return f.pairs[token], nil
}

func (f *fakeDex) callCount(token string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[utils.NormalizeAddress(token)]
}

// fakeChain scripts the RPC reads.

type fakeChain struct {
	mu sync.Mutex

	native  map[string]*big.Int
	tokens  map[string]*types.Token
	lp      map[string]*types.LPPosition
	staked  *big.Int
	rewards *big.Int

	tokenInfoCalls int
}

func (f *fakeChain) NativeBalance(_ context.Context, address string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b := f.native[utils.NormalizeAddress(address)]; b != nil {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) TokenBalance(_ context.Context, _, _ string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeChain) TokenInfo(_ context.Context, token string) (*types.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenInfoCalls++
	if t := f.tokens[utils.NormalizeAddress(token)]; t != nil {
		copied := *t
		return &copied, nil
	}
	return nil, types.ErrNotFound
}

func (f *fakeChain) LPPosition(_ context.Context, pairAddress, wallet string) (*types.LPPosition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lp[utils.NormalizeAddress(pairAddress)+"|"+utils.NormalizeAddress(wallet)], nil
}

func (f *fakeChain) StakedBalance(_ context.Context, _, _ string) (*big.Int, *big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staked, rewards := f.staked, f.rewards
	if staked == nil {
		staked = big.NewInt(0)
	}
	if rewards == nil {
		rewards = big.NewInt(0)
	}
	return staked, rewards, nil
}

// memStore is an in-memory Storage used to keep server tests off docker.

type memStore struct {
	mu         sync.Mutex
	portfolios map[string]*types.Portfolio
	tokens     map[string]*types.Token
	summaries  map[string]*types.TxSummary
	pingErr    error
}

func newMemStore() *memStore {
	return &memStore{
		portfolios: make(map[string]*types.Portfolio),
		tokens:     make(map[string]*types.Token),
		summaries:  make(map[string]*types.TxSummary),
	}
}

func (m *memStore) Ping(_ context.Context) error { return m.pingErr }

func (m *memStore) InsertPortfolio(_ context.Context, p *types.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.portfolios[p.ID]; ok {
		return types.ErrRecordExist
	}
	copied := *p
	m.portfolios[p.ID] = &copied
	return nil
}

func (m *memStore) Portfolio(_ context.Context, id string) (*types.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.portfolios[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	copied := *p
	copied.Addresses = append([]string(nil), p.Addresses...)
	return &copied, nil
}

func (m *memStore) Portfolios(_ context.Context, pagination *types.Pagination) ([]*types.Portfolio, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*types.Portfolio, 0, len(m.portfolios))
	for _, p := range m.portfolios {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt > all[j].CreatedAt })
	total := int64(len(all))
	if pagination != nil {
		pagination.Sanitize()
		if pagination.Skip >= len(all) {
			return nil, total, nil
		}
		all = all[pagination.Skip:]
		if pagination.Limit < len(all) {
			all = all[:pagination.Limit]
		}
	}
	return all, total, nil
}

func (m *memStore) UpdatePortfolio(_ context.Context, p *types.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.portfolios[p.ID]; !ok {
		return types.ErrNotFound
	}
	copied := *p
	m.portfolios[p.ID] = &copied
	return nil
}

func (m *memStore) RemovePortfolio(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.portfolios[id]; !ok {
		return types.ErrNotFound
	}
	delete(m.portfolios, id)
	return nil
}

func (m *memStore) UpsertToken(_ context.Context, token *types.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *token
	m.tokens[utils.NormalizeAddress(token.Address)] = &copied
	return nil
}

func (m *memStore) Token(_ context.Context, address string) (*types.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[utils.NormalizeAddress(address)]
	if !ok {
		return nil, types.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *memStore) UpsertSummaries(_ context.Context, summaries []*types.TxSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range summaries {
		copied := *s
		m.summaries[s.Wallet+"/"+s.Hash] = &copied
	}
	return nil
}

func (m *memStore) SummariesByWallet(_ context.Context, wallet string, pagination *types.Pagination) ([]*types.TxSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet = utils.NormalizeAddress(wallet)
	var out []*types.TxSummary
	for _, s := range m.summaries {
		if s.Wallet == wallet {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	if pagination != nil {
		pagination.Sanitize()
		if pagination.Skip >= len(out) {
			return nil, nil
		}
		out = out[pagination.Skip:]
		if pagination.Limit < len(out) {
			out = out[:pagination.Limit]
		}
	}
	return out, nil
}

func (m *memStore) summaryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.summaries)
}

// memCache is an in-memory cache.Client used to keep server tests off redis.

type memCache struct {
	mu        sync.Mutex
	tokens    map[string]*types.Token
	prices    map[string]*types.PriceResult
	pages     map[string]*types.HistoryPage
	snapshots map[string]*types.PortfolioSnapshot
	status    *types.ServerStatus
	pingErr   error
}

func newMemCache() *memCache {
	return &memCache{
		tokens:    make(map[string]*types.Token),
		prices:    make(map[string]*types.PriceResult),
		pages:     make(map[string]*types.HistoryPage),
		snapshots: make(map[string]*types.PortfolioSnapshot),
	}
}

func pageKey(wallet, cursor string, limit int) string {
	return fmt.Sprintf("%s/%s/%d", wallet, cursor, limit)
}

func (c *memCache) TokenInfo(_ context.Context, address string) (*types.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tokens[utils.NormalizeAddress(address)]
	if !ok {
		return nil, types.ErrNotFound
	}
	return t, nil
}

func (c *memCache) UpdateTokenInfo(_ context.Context, token *types.Token) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[utils.NormalizeAddress(token.Address)] = token
	return nil
}

func (c *memCache) TokenPrice(_ context.Context, address string) (*types.PriceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.prices[utils.NormalizeAddress(address)]
	if !ok {
		return nil, types.ErrNotFound
	}
	return p, nil
}

func (c *memCache) UpdateTokenPrice(_ context.Context, price *types.PriceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[utils.NormalizeAddress(price.TokenAddress)] = price
	return nil
}

func (c *memCache) HistoryPage(_ context.Context, wallet, cursor string, limit int) (*types.HistoryPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pages[pageKey(wallet, cursor, limit)]
	if !ok {
		return nil, types.ErrNotFound
	}
	return p, nil
}

func (c *memCache) UpdateHistoryPage(_ context.Context, wallet, cursor string, limit int, page *types.HistoryPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[pageKey(wallet, cursor, limit)] = page
	return nil
}

func (c *memCache) PortfolioSnapshot(_ context.Context, id string) (*types.PortfolioSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.snapshots[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return s, nil
}

func (c *memCache) UpdatePortfolioSnapshot(_ context.Context, snapshot *types.PortfolioSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[snapshot.Portfolio.ID] = snapshot
	return nil
}

func (c *memCache) ServerStatus(_ context.Context) (*types.ServerStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == nil {
		return nil, types.ErrNotFound
	}
	return c.status, nil
}

func (c *memCache) UpdateServerStatus(_ context.Context, status *types.ServerStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	return nil
}

func (c *memCache) Ping(_ context.Context) error { return c.pingErr }
