package domain

// TransferRequest carries a transfer submission to the daemon. Amount and
// GasPrice are base-unit integer strings so no float representation ever
// reaches the wire. Built at submission time, never mutated, discarded once
// the call resolves.
type TransferRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Currency string `json:"Currency"`
	Amount   string `json:"Amount"`
	GasPrice string `json:"GasPrice"`
}
