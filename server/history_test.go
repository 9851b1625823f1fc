// Package server
package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletscope/walletscope-backend/types"
)

func rawSwapTx() *types.RawTransaction {
	return &types.RawTransaction{
		Hash:        "0xh1",
		From:        tWallet,
		To:          tRouter,
		Value:       "0",
		MethodLabel: "swapExactTokensForTokens",
		Time:        1700000300,
		Transfers: []*types.RawTransfer{
			{TokenAddress: tTokenA, TokenSymbol: "ABC", Decimals: "18", From: tWallet, To: tRouter, Amount: "1250000000000000000", LogIndex: 1},
			{TokenAddress: tTokenB, TokenSymbol: "XYZ", Decimals: "18", From: tRouter, To: tWallet, Amount: "3400000000000000000000", LogIndex: 2},
		},
	}
}

func rawSendTx() *types.RawTransaction {
	return &types.RawTransaction{
		Hash:        "0xh2",
		From:        tWallet,
		To:          tTokenA,
		Value:       "0",
		MethodLabel: "transfer",
		Time:        1700000200,
		Transfers: []*types.RawTransfer{
			{TokenAddress: tTokenA, TokenSymbol: "ABC", Decimals: "18", From: tWallet, To: tParty, Amount: "5000000000000000000", LogIndex: 1},
		},
	}
}

func TestAddressHistory_EndToEnd(t *testing.T) {
	ctx := context.Background()
	scanner := &fakeScanner{
		txs:        []*types.RawTransaction{rawSwapTx(), rawSendTx()},
		nextCursor: "cursor-2",
	}
	dex := &fakeDex{pairs: map[string][]*types.TradingPair{
		tTokenA: {tradingPair(tTokenA, tWrapped, "WETH", 500_000, "2")},
		tTokenB: {tradingPair(tTokenB, tWrapped, "WETH", 250_000, "0.5")},
	}}
	srv, store, cc := newTestServer(scanner, dex, &fakeChain{})

	page, err := srv.AddressHistory(ctx, &types.HistoryQuery{Address: "0xA1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6E7F8A9B0", Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "cursor-2", page.NextCursor)
	require.Len(t, page.Summaries, 2)

	swap := page.Summaries[0]
	assert.Equal(t, types.TxSwap, swap.Type)
	assert.Equal(t, "Swapped 1.25 ABC for 3,400 XYZ", swap.Line)
	require.Len(t, swap.Flows, 2)
	assert.Equal(t, "-1.25", swap.Flows[0].Amount)
	assert.Equal(t, "-$2.50", swap.Flows[0].AmountUsd)
	assert.Equal(t, "3400", swap.Flows[1].Amount)
	assert.Equal(t, "$1,700.00", swap.Flows[1].AmountUsd)

	send := page.Summaries[1]
	assert.Equal(t, types.TxSend, send.Type)
	assert.Equal(t, "Sent 5 ABC", send.Line)
	require.Len(t, send.Flows, 1)
	assert.Equal(t, "-$10.00", send.Flows[0].AmountUsd)

	// the page lands in storage and in the cache
	assert.Equal(t, 2, store.summaryCount())
	cached, err := cc.HistoryPage(ctx, tWallet, "", 10)
	require.NoError(t, err)
	assert.Equal(t, page, cached)
}

func TestAddressHistory_CacheHit(t *testing.T) {
	ctx := context.Background()
	scanner := &fakeScanner{txErr: errors.New("scanner must not be called")}
	srv, _, cc := newTestServer(scanner, &fakeDex{}, &fakeChain{})

	seeded := &types.HistoryPage{Summaries: []*types.TxSummary{{Hash: "0xh9", Type: types.TxSend, Line: "Sent 1 ABC", Time: 1}}}
	require.NoError(t, cc.UpdateHistoryPage(ctx, tWallet, "", 10, seeded))

	page, err := srv.AddressHistory(ctx, &types.HistoryQuery{Address: tWallet, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, seeded, page)
	assert.Equal(t, 0, scanner.txCalls)
}

func TestAddressHistory_PriceOutageDegrades(t *testing.T) {
	ctx := context.Background()
	scanner := &fakeScanner{txs: []*types.RawTransaction{rawSwapTx()}}
	dex := &fakeDex{err: errors.New("dex data down")}
	srv, _, _ := newTestServer(scanner, dex, &fakeChain{})

	page, err := srv.AddressHistory(ctx, &types.HistoryQuery{Address: tWallet, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Summaries, 1)
	assert.Equal(t, "Swapped 1.25 ABC for 3,400 XYZ", page.Summaries[0].Line)
	for _, flow := range page.Summaries[0].Flows {
		assert.Empty(t, flow.AmountUsd)
	}
}

func TestAddressHistory_ScannerDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	scanner := &fakeScanner{txErr: errors.New("scanner down")}
	srv, store, _ := newTestServer(scanner, &fakeDex{}, &fakeChain{})

	stored := []*types.TxSummary{
		{Wallet: tWallet, Hash: "0xh1", Type: types.TxSwap, Line: "Swapped 1.25 ABC for 3,400 XYZ", Time: 300},
		{Wallet: tWallet, Hash: "0xh2", Type: types.TxSend, Line: "Sent 5 ABC", Time: 200},
	}
	require.NoError(t, store.UpsertSummaries(ctx, stored))

	page, err := srv.AddressHistory(ctx, &types.HistoryQuery{Address: tWallet, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Summaries, 2)
	assert.Equal(t, "0xh1", page.Summaries[0].Hash)
	assert.Empty(t, page.NextCursor)
}

func TestAddressHistory_ScannerDownNoStoredHistory(t *testing.T) {
	ctx := context.Background()
	upstream := errors.New("scanner down")
	srv, _, _ := newTestServer(&fakeScanner{txErr: upstream}, &fakeDex{}, &fakeChain{})

	_, err := srv.AddressHistory(ctx, &types.HistoryQuery{Address: tWallet, Limit: 10})
	assert.ErrorIs(t, err, upstream)
}

func TestAddressHistory_LaterPagesDoNotFallBack(t *testing.T) {
	ctx := context.Background()
	upstream := errors.New("scanner down")
	srv, store, _ := newTestServer(&fakeScanner{txErr: upstream}, &fakeDex{}, &fakeChain{})
	require.NoError(t, store.UpsertSummaries(ctx, []*types.TxSummary{
		{Wallet: tWallet, Hash: "0xh1", Type: types.TxSend, Line: "Sent 5 ABC", Time: 200},
	}))

	// stored summaries only cover the newest page; older cursors surface the outage
	_, err := srv.AddressHistory(ctx, &types.HistoryQuery{Address: tWallet, Cursor: "cursor-2", Limit: 10})
	assert.ErrorIs(t, err, upstream)
}

func TestAddressHistory_InvalidAddress(t *testing.T) {
	srv, _, _ := newTestServer(&fakeScanner{}, &fakeDex{}, &fakeChain{})
	_, err := srv.AddressHistory(context.Background(), &types.HistoryQuery{Address: "0x1234"})
	assert.ErrorIs(t, err, types.ErrInvalidAddress)
}
