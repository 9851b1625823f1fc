package types

const (
	defaultLimit = 25
	MaximumLimit = 100
)

type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func (f *Pagination) Sanitize() {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	} else if f.Limit > MaximumLimit {
		f.Limit = MaximumLimit
	}
}

// HistoryQuery addresses one page of a wallet's classified history. Cursor is
// the scanner's opaque continuation token; empty means newest first.
type HistoryQuery struct {
	Address string `json:"address"`
	Cursor  string `json:"cursor"`
	Limit   int    `json:"limit"`
}

func (q *HistoryQuery) Sanitize() {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	} else if q.Limit > MaximumLimit {
		q.Limit = MaximumLimit
	}
}

// HistoryPage is one resolved page: summaries plus the cursor for the next.
type HistoryPage struct {
	Summaries  []*TxSummary `json:"summaries"`
	NextCursor string       `json:"nextCursor,omitempty"`
}
