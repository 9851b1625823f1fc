package types

// LPPosition is a wallet's stake in one AMM pair: its LP balance translated
// into underlying token amounts via the pool share. Raw integers stay
// strings end to end.
type LPPosition struct {
	PairAddress  string `json:"pairAddress"`
	Token0       *Token `json:"token0"`
	Token1       *Token `json:"token1"`
	LPBalance    string `json:"lpBalance"`
	TotalSupply  string `json:"totalSupply"`
	SharePercent string `json:"sharePercent"`
	Amount0      string `json:"amount0"`
	Amount1      string `json:"amount1"`
}

// StakingPosition is a wallet's stake in the configured staking contract.
type StakingPosition struct {
	Contract       string `json:"contract"`
	Staked         string `json:"staked"`
	StakedDisplay  string `json:"stakedDisplay"`
	Rewards        string `json:"rewards"`
	RewardsDisplay string `json:"rewardsDisplay"`
}
