package model

import "strconv"

// Transaction is one wallet ledger entry. The server owns the ledger; the
// console only lists it.
type Transaction struct {
	ID        string  `json:"_id"`
	User      Ref     `json:"userId"`
	WalletID  string  `json:"walletID"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Time      Time    `json:"time"`
	Reference string  `json:"referrence"` // sic, matches the API
}

// Wallet prefers the wallet of a populated user over the one on the entry.
func (t Transaction) Wallet() string {
	if t.User.WalletID != "" {
		return t.User.WalletID
	}
	return t.WalletID
}

// AmountText renders the amount in Namibian dollars.
func (t Transaction) AmountText() string {
	return "N$" + strconv.FormatFloat(t.Amount, 'f', 2, 64)
}

var (
	TransactionTypes    = []string{"deposit", "withdrawal", "earning", "transfer"}
	TransactionStatuses = []string{"completed", "pending", "failed"}
)
