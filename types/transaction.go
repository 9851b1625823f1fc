package types

type TransactionType string

const (
	TxSwap     TransactionType = "swap"
	TxSend     TransactionType = "send"
	TxReceive  TransactionType = "receive"
	TxApproval TransactionType = "approval"
	TxContract TransactionType = "contract"
	TxUnknown  TransactionType = "unknown"
)

// RawTransaction is the scanner's wire shape for one transaction, including
// its token transfer log. Same rule as RawTransfer: provider shapes stop at
// the normalizer.
type RawTransaction struct {
	Hash        string         `json:"hash"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Value       string         `json:"value"`
	MethodLabel string         `json:"methodLabel"`
	Category    string         `json:"category"`
	IsError     string         `json:"isError"`
	Time        int64          `json:"timestamp"`
	Transfers   []*RawTransfer `json:"transfers"`
}

// Transaction is the normalized record the pipeline works on. It is treated
// as immutable once built: the same transaction can be inspected from several
// wallet perspectives, so enrichment always produces derived values and never
// writes back.
type Transaction struct {
	Hash        string      `json:"hash"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	Value       string      `json:"value"`
	MethodLabel string      `json:"methodLabel,omitempty"`
	Category    string      `json:"category,omitempty"`
	Failed      bool        `json:"failed,omitempty"`
	Time        int64       `json:"time"`
	Transfers   []*Transfer `json:"transfers,omitempty"`
}

// FlowView is a TokenFlow rendered for the API and storage: signed display
// amount, optional USD. AmountUsd stays empty when no price was resolvable.
type FlowView struct {
	TokenAddress string `json:"tokenAddress" bson:"tokenAddress"`
	Symbol       string `json:"symbol" bson:"symbol"`
	Decimals     int64  `json:"decimals" bson:"decimals"`
	Amount       string `json:"amount" bson:"amount"`
	AmountUsd    string `json:"amountUsd,omitempty" bson:"amountUsd,omitempty"`
}

// TxSummary is the classified, human-readable digest of one transaction for
// one wallet. This is what the dashboard renders and what we persist for
// instant loads.
type TxSummary struct {
	Wallet   string          `json:"-" bson:"wallet"`
	Hash     string          `json:"hash" bson:"hash"`
	Type     TransactionType `json:"type" bson:"type"`
	Category string          `json:"category,omitempty" bson:"category,omitempty"`
	Line     string          `json:"line" bson:"line"`
	Time     int64           `json:"time" bson:"time"`
	Failed   bool            `json:"failed,omitempty" bson:"failed,omitempty"`
	Flows    []*FlowView     `json:"flows,omitempty" bson:"flows,omitempty"`
}
