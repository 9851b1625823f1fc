// Package utils
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walletscope/walletscope-backend/types"
)

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0xabc1de", NormalizeAddress("0xABC1DE"))
	assert.Equal(t, "0xabc1de", NormalizeAddress("ABC1DE"))
	assert.Equal(t, "", NormalizeAddress("  "))
}

func TestValidateAddress(t *testing.T) {
	got, err := ValidateAddress("0xC02AAA39B223FE8D0A0E5C4F27EAD9083C756CC2")
	assert.Nil(t, err)
	assert.Equal(t, "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", got)

	_, err = ValidateAddress("0x1234")
	assert.Equal(t, types.ErrInvalidAddress, err)

	_, err = ValidateAddress("0xzz2aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	assert.Equal(t, types.ErrInvalidAddress, err)
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"))
	assert.False(t, IsValidAddress("c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"))
	assert.False(t, IsValidAddress("0xzz2aaa39b223fe8d0a0e5c4f27ead9083c756cc2"))
}
