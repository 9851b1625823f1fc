package txflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/types"
)

func erc20Leg(token string, dir types.Direction, amount string) *types.Transfer {
	leg := &types.Transfer{TokenAddress: token, Decimals: 18, Amount: bi(amount), Direction: dir}
	switch dir {
	case types.DirectionSend:
		leg.From, leg.To = testWallet, testParty
	case types.DirectionReceive:
		leg.From, leg.To = testParty, testWallet
	default:
		leg.From, leg.To = testParty, testRouter
	}
	return leg
}

func nativeLeg(dir types.Direction, amount string) *types.Transfer {
	leg := erc20Leg(cfg.NativeTokenAddress, dir, amount)
	leg.Symbol = "ETH"
	return leg
}

func TestClassify_SwapVocabulary(t *testing.T) {
	p := testPipeline()

	labels := []string{
		"swapExactTokensForTokens",
		"SwapExactETHForTokens",
		"multicall",
		"exactInputSingle",
		"trade",
		"addLiquidityETH",
		"removeLiquidity",
	}
	for _, label := range labels {
		tx := &types.Transaction{Hash: "0x1", To: testParty, MethodLabel: label}
		assert.Equal(t, types.TxSwap, p.Classify(tx, testWallet), label)
	}
}

func TestClassify_SwapLabelNoTransfers(t *testing.T) {
	// A decoded swap label with zero visible legs is still a swap; rendering
	// copes with the missing legs, classification never invents them.
	p := testPipeline()
	tx := &types.Transaction{Hash: "0x1", To: testParty, MethodLabel: "multicall"}
	assert.Equal(t, types.TxSwap, p.Classify(tx, testWallet))
}

func TestClassify_RouterRecipient(t *testing.T) {
	p := testPipeline()
	tx := &types.Transaction{Hash: "0x1", To: testRouter}
	assert.Equal(t, types.TxSwap, p.Classify(tx, testWallet))
}

func TestClassify_BothDirectionsERC20(t *testing.T) {
	p := testPipeline()
	tx := &types.Transaction{
		Hash: "0x1", To: testParty,
		Transfers: []*types.Transfer{
			erc20Leg(testTokenA, types.DirectionSend, "1000"),
			erc20Leg(testTokenB, types.DirectionReceive, "500"),
		},
	}
	assert.Equal(t, types.TxSwap, p.Classify(tx, testWallet))
}

func TestClassify_BothDirectionsBeatsApproveLabel(t *testing.T) {
	// Transfer-pattern swap detection outranks the approve label.
	p := testPipeline()
	tx := &types.Transaction{
		Hash: "0x1", To: testParty, MethodLabel: "approveAndCall",
		Transfers: []*types.Transfer{
			erc20Leg(testTokenA, types.DirectionSend, "1000"),
			erc20Leg(testTokenB, types.DirectionReceive, "500"),
		},
	}
	assert.Equal(t, types.TxSwap, p.Classify(tx, testWallet))
}

func TestClassify_Approval(t *testing.T) {
	p := testPipeline()
	tx := &types.Transaction{Hash: "0x1", To: testTokenA, MethodLabel: "approve"}
	assert.Equal(t, types.TxApproval, p.Classify(tx, testWallet))

	tx.MethodLabel = "Approve(address,uint256)"
	assert.Equal(t, types.TxApproval, p.Classify(tx, testWallet))
}

func TestClassify_SingleDirection(t *testing.T) {
	p := testPipeline()

	tx := &types.Transaction{
		Hash: "0x1", To: testTokenA,
		Transfers: []*types.Transfer{erc20Leg(testTokenA, types.DirectionSend, "1000")},
	}
	assert.Equal(t, types.TxSend, p.Classify(tx, testWallet))

	tx = &types.Transaction{
		Hash: "0x1", To: testTokenA,
		Transfers: []*types.Transfer{
			erc20Leg(testTokenA, types.DirectionReceive, "10"),
			erc20Leg(testTokenB, types.DirectionReceive, "20"),
		},
	}
	assert.Equal(t, types.TxReceive, p.Classify(tx, testWallet))
}

func TestClassify_MixedNativeERC20DirectionsIsUnknown(t *testing.T) {
	// Native out plus ERC20 in, with no swap label or router: both
	// directions exist, so the single-direction rule cannot apply, and the
	// ERC20-only swap pattern is not satisfied either.
	p := testPipeline()
	tx := &types.Transaction{
		Hash: "0x1", To: testParty,
		Transfers: []*types.Transfer{
			nativeLeg(types.DirectionSend, "5"),
			erc20Leg(testTokenB, types.DirectionReceive, "20"),
		},
	}
	assert.Equal(t, types.TxUnknown, p.Classify(tx, testWallet))
}

func TestClassify_Contract(t *testing.T) {
	p := testPipeline()
	tx := &types.Transaction{Hash: "0x1", To: testTokenA, Value: "0"}
	assert.Equal(t, types.TxContract, p.Classify(tx, testWallet))
}

func TestClassify_BareNativeValue(t *testing.T) {
	p := testPipeline()

	tx := &types.Transaction{Hash: "0x1", From: testWallet, To: testParty, Value: "1000000000000000000"}
	assert.Equal(t, types.TxSend, p.Classify(tx, testWallet))

	tx = &types.Transaction{Hash: "0x1", From: testParty, To: testWallet, Value: "1000000000000000000"}
	assert.Equal(t, types.TxReceive, p.Classify(tx, testWallet))
}

func TestClassify_Unknown(t *testing.T) {
	p := testPipeline()
	tx := &types.Transaction{Hash: "0x1"}
	assert.Equal(t, types.TxUnknown, p.Classify(tx, testWallet))
}

func TestClassify_InternalLegsInvisible(t *testing.T) {
	p := testPipeline()
	internal := erc20Leg(testTokenA, types.DirectionSend, "1000")
	internal.Internal = true
	tx := &types.Transaction{
		Hash: "0x1", To: testTokenA, Value: "",
		Transfers: []*types.Transfer{internal},
	}
	// Only an internal hop: classification sees no legs at all.
	assert.Equal(t, types.TxContract, p.Classify(tx, testWallet))
}
