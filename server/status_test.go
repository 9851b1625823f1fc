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

func TestStatus_DefaultUntilSet(t *testing.T) {
	ctx := context.Background()
	srv, _, _ := newTestServer(&fakeScanner{}, &fakeDex{}, &fakeChain{})

	status, err := srv.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "online", status.Status)
	assert.Equal(t, "test", status.AppVersion)
	assert.Equal(t, "testnet", status.ChainName)

	require.NoError(t, srv.UpdateStatus(ctx, &types.ServerStatus{Status: "maintenance", DexStatus: "degraded"}))

	status, err = srv.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "maintenance", status.Status)
	assert.Equal(t, "degraded", status.DexStatus)
	// empty fields inherit the build identity
	assert.Equal(t, "test", status.AppVersion)
	assert.Equal(t, "testnet", status.ChainName)
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	srv, store, cc := newTestServer(&fakeScanner{}, &fakeDex{}, &fakeChain{})
	require.NoError(t, srv.Ping(ctx))

	store.pingErr = errors.New("mongo down")
	assert.Error(t, srv.Ping(ctx))

	store.pingErr = nil
	cc.pingErr = errors.New("redis down")
	assert.Error(t, srv.Ping(ctx))
}
