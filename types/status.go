package types

type ServerStatus struct {
	Status     string `json:"status"`
	AppVersion string `json:"appVersion"`
	ChainName  string `json:"chainName"`
	DexStatus  string `json:"dexStatus"`
}
