package types

// Portfolio groups wallet addresses a user watches together.
type Portfolio struct {
	ID        string   `json:"id" bson:"id"`
	Name      string   `json:"name" bson:"name"`
	Addresses []string `json:"addresses" bson:"addresses"`
	CreatedAt int64    `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64    `json:"updatedAt" bson:"updatedAt"`
}

type CreatePortfolioRequest struct {
	Name      string   `json:"name"`
	Addresses []string `json:"addresses"`
}

type AddAddressRequest struct {
	Address string `json:"address"`
}

// AddressSnapshot is the live view of one portfolio member.
type AddressSnapshot struct {
	Address  string          `json:"address"`
	Tokens   []*TokenBalance `json:"tokens"`
	TotalUsd string          `json:"totalUsd,omitempty"`
}

// PortfolioSnapshot is a portfolio with balances resolved for every member
// address at request time.
type PortfolioSnapshot struct {
	Portfolio *Portfolio         `json:"portfolio"`
	Members   []*AddressSnapshot `json:"members"`
	TotalUsd  string             `json:"totalUsd,omitempty"`
}
