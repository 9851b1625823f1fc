package types

// Token is the registry entry for a token contract seen anywhere in the
// system: transfers, balances, pair legs. Discovered lazily and upserted.
type Token struct {
	Address     string `json:"address" bson:"address"`
	Name        string `json:"name" bson:"name"`
	Symbol      string `json:"symbol" bson:"symbol"`
	Decimals    int64  `json:"decimals" bson:"decimals"`
	Logo        string `json:"logo,omitempty" bson:"logo,omitempty"`
	TotalSupply string `json:"totalSupply,omitempty" bson:"totalSupply,omitempty"`
	UpdatedAt   int64  `json:"updatedAt" bson:"updatedAt"`
}

// RawTokenBalance is the scanner's wire shape for one token holding. Same
// rule as RawTransfer: string numerics, provider shapes stop at the caller.
type RawTokenBalance struct {
	TokenAddress string `json:"tokenAddress"`
	TokenSymbol  string `json:"tokenSymbol"`
	TokenName    string `json:"tokenName"`
	TokenLogo    string `json:"tokenLogo"`
	Decimals     string `json:"decimals"`
	Balance      string `json:"balance"`
}

// UploadLogoRequest carries a base64-encoded image for a token logo. The
// payload may include a data-URI prefix; validation happens on the way in.
type UploadLogoRequest struct {
	Logo string `json:"logo"`
}

// TokenBalance is one wallet's holding of one token, priced when possible.
// Balance keeps the raw integer form; BalanceDisplay is decimal-shifted for
// rendering. ValueUsd stays empty when the token has no resolvable price.
type TokenBalance struct {
	Token          *Token `json:"token"`
	Balance        string `json:"balance"`
	BalanceDisplay string `json:"balanceDisplay"`
	PriceUsd       string `json:"priceUsd,omitempty"`
	ValueUsd       string `json:"valueUsd,omitempty"`
}
