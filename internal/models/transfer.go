package models

// TransferType distinguishes cash moving in from cash moving out
type TransferType string

const (
	TransferDeposit    TransferType = "Deposit"
	TransferWithdrawal TransferType = "Withdrawal"
)

// Transfer represents a deposit or withdrawal, kept apart from trading results
type Transfer struct {
	ID        int64        `json:"id"`
	AccountID string       `json:"accountId"`
	Type      TransferType `json:"type"`
	Amount    float64      `json:"amount"`
	Date      string       `json:"date"`
}
