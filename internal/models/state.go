package models

import "time"

// SchemaVersion is the version tag written with every persisted state
const SchemaVersion = 2

// State is the full journal dataset persisted as a single blob
type State struct {
	Version   int        `json:"version"`
	Accounts  []Account  `json:"accounts"`
	Trades    []Trade    `json:"trades"`
	Transfers []Transfer `json:"transfers"`
}

// DefaultState returns the state of a journal that has never been saved
func DefaultState() State {
	return State{
		Version:   SchemaVersion,
		Accounts:  []Account{DefaultAccount()},
		Trades:    []Trade{},
		Transfers: []Transfer{},
	}
}

// Clone returns a copy that shares no slices with s
func (s State) Clone() State {
	out := State{
		Version:   s.Version,
		Accounts:  make([]Account, len(s.Accounts)),
		Trades:    make([]Trade, len(s.Trades)),
		Transfers: make([]Transfer, len(s.Transfers)),
	}
	copy(out.Accounts, s.Accounts)
	copy(out.Trades, s.Trades)
	copy(out.Transfers, s.Transfers)
	return out
}

// FindAccount returns the account with the given id
func (s State) FindAccount(id string) (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// TradesFor returns the trades recorded against an account, in stored order
func (s State) TradesFor(accountID string) []Trade {
	out := make([]Trade, 0)
	for _, t := range s.Trades {
		if t.Account == accountID {
			out = append(out, t)
		}
	}
	return out
}

// TransfersFor returns the transfers recorded against an account, in stored order
func (s State) TransfersFor(accountID string) []Transfer {
	out := make([]Transfer, 0)
	for _, t := range s.Transfers {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out
}

// Preferences are persisted separately from the journal state
type Preferences struct {
	DarkMode bool `json:"darkMode"`
}

// DefaultPreferences returns the preferences of a fresh install
func DefaultPreferences() Preferences {
	return Preferences{DarkMode: true}
}

// StoredBlob is a persisted document row used by the SQL storage backend
type StoredBlob struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Data      []byte    `gorm:"not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for StoredBlob model
func (StoredBlob) TableName() string {
	return "journal_blobs"
}
