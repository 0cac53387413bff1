package models

// AccountType is the free-text account category shown next to the account name
type AccountType string

const (
	AccountTypeReal AccountType = "Real"
	AccountTypeDemo AccountType = "Demo"
)

// DefaultAccountID is the id of the built-in account created when no account exists
const DefaultAccountID = "main"

// Account represents a trading account the journal records trades against
type Account struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Type    AccountType `json:"type"`
	Initial float64     `json:"initial"`
	Balance float64     `json:"balance"`
}

// DefaultAccount returns the account every fresh journal starts with
func DefaultAccount() Account {
	return Account{
		ID:   DefaultAccountID,
		Name: "Main",
		Type: AccountTypeReal,
	}
}
