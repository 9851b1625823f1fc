package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletscope/walletscope-backend/types"
)

func testResult(token, price string) *types.PriceResult {
	return &types.PriceResult{
		TokenAddress: token,
		PriceUsd:     decimal.RequireFromString(price),
		Source:       "test",
	}
}

func TestCache_GetSet(t *testing.T) {
	c := NewCache(5*time.Minute, nil)

	assert.Nil(t, c.Get(prTokenA))
	c.Set(prTokenA, testResult(prTokenA, "2.5"))

	got := c.Get(prTokenA)
	require.NotNil(t, got)
	assert.Equal(t, "2.5", got.PriceUsd.String())
	assert.Equal(t, 1, c.Len())
}

func TestCache_ExpiryWithInjectedClock(t *testing.T) {
	now := time.Unix(1724580000, 0)
	c := NewCache(5*time.Minute, func() time.Time { return now })

	c.Set(prTokenA, testResult(prTokenA, "2.5"))
	require.NotNil(t, c.Get(prTokenA))

	// One second short of the deadline the entry is still live.
	now = now.Add(5*time.Minute - time.Second)
	require.NotNil(t, c.Get(prTokenA))

	// At the deadline it is gone, and the expired entry is swept.
	now = now.Add(time.Second)
	assert.Nil(t, c.Get(prTokenA))
	assert.Equal(t, 0, c.Len())
}

func TestCache_SetRefreshesDeadline(t *testing.T) {
	now := time.Unix(1724580000, 0)
	c := NewCache(time.Minute, func() time.Time { return now })

	c.Set(prTokenA, testResult(prTokenA, "1"))
	now = now.Add(50 * time.Second)
	c.Set(prTokenA, testResult(prTokenA, "2"))

	// 70s after the first Set, 20s after the second.
	now = now.Add(20 * time.Second)
	got := c.Get(prTokenA)
	require.NotNil(t, got)
	assert.Equal(t, "2", got.PriceUsd.String())
}

func TestCache_NilResultNotStored(t *testing.T) {
	c := NewCache(time.Minute, nil)

	c.Set(prTokenA, nil)
	assert.Nil(t, c.Get(prTokenA))
	assert.Equal(t, 0, c.Len())
}

func TestCache_KeyNormalized(t *testing.T) {
	c := NewCache(time.Minute, nil)

	c.Set("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", testResult(prTokenA, "7"))
	got := c.Get(prTokenA)
	require.NotNil(t, got)
	assert.Equal(t, "7", got.PriceUsd.String())
}
