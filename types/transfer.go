// Package types
package types

import (
	"math/big"
)

type Direction string

const (
	DirectionSend    Direction = "send"
	DirectionReceive Direction = "receive"
	DirectionUnknown Direction = "unknown"
)

// RawTransfer is a token transfer record exactly as the scanner API ships it:
// string numerics, optional fields, mixed-case addresses. Nothing outside the
// provider client and the normalizer should ever touch this shape.
type RawTransfer struct {
	TokenAddress string `json:"tokenAddress"`
	TokenSymbol  string `json:"tokenSymbol"`
	TokenName    string `json:"tokenName"`
	TokenLogo    string `json:"tokenLogo"`
	Decimals     string `json:"decimals"`
	From         string `json:"from"`
	To           string `json:"to"`
	Amount       string `json:"amount"`
	LogIndex     uint   `json:"logIndex"`
	Internal     bool   `json:"internal"`
}

// Transfer is the normalized view of a RawTransfer from one wallet's
// perspective. Amount is always non-nil; malformed provider values normalize
// to zero rather than failing the whole transaction.
type Transfer struct {
	TokenAddress string    `json:"tokenAddress"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Logo         string    `json:"logo,omitempty"`
	Decimals     int64     `json:"decimals"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Amount       *big.Int  `json:"-"`
	Direction    Direction `json:"direction"`
	Internal     bool      `json:"internal,omitempty"`
	LogIndex     uint      `json:"logIndex"`
}

// TokenFlow is one wallet's net movement of one token within a single
// transaction. Net is signed: positive into the wallet, negative out.
// Flows that net to exactly zero are never emitted.
type TokenFlow struct {
	TokenAddress string   `json:"tokenAddress"`
	Symbol       string   `json:"symbol"`
	Decimals     int64    `json:"decimals"`
	Net          *big.Int `json:"-"`
}

// Outbound reports whether the flow leaves the wallet.
func (f *TokenFlow) Outbound() bool {
	return f.Net.Sign() < 0
}
