// Package migrate brings persisted journal payloads written by older versions
// up to the current schema.
//
// Versions:
//
//	0  untagged, accounts stored as a list of plain names
//	1  untagged, accounts stored as records
//	2  tagged with "version" (current)
//
// Untagged payloads are classified by looking at the first account entry.
// Tagged payloads are dispatched on their version number.
package migrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tz-journal/internal/models"
)

var (
	ErrNotObject          = errors.New("payload is not a JSON object")
	ErrUnsupportedVersion = errors.New("unsupported schema version")
)

const (
	versionLegacyNames = 0
	versionUntagged    = 1
)

// Document is a decoded payload in the current schema. The Has* flags record
// which top-level collections were present so callers can merge over defaults.
type Document struct {
	State        models.State
	FromVersion  int
	HasAccounts  bool
	HasTrades    bool
	HasTransfers bool
}

// Migrated reports whether decoding changed the payload's content
func (d Document) Migrated() bool {
	return d.FromVersion == versionLegacyNames
}

type envelope struct {
	Version   *int            `json:"version"`
	Accounts  json.RawMessage `json:"accounts"`
	Trades    json.RawMessage `json:"trades"`
	Transfers json.RawMessage `json:"transfers"`
}

type payload struct {
	version     int
	legacyNames []string
	accounts    []models.Account
	trades      []models.Trade
	transfers   []models.Transfer
}

// upgrades[v] turns a version v payload into a version v+1 payload
var upgrades = []func(*payload){
	versionLegacyNames: upgradeLegacyNames,
	versionUntagged:    func(*payload) {},
}

// Decode parses raw and migrates it to the current schema version
func Decode(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, ErrNotObject
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Document{}, fmt.Errorf("failed to parse payload: %w", err)
	}

	doc := Document{
		HasAccounts:  present(env.Accounts),
		HasTrades:    present(env.Trades),
		HasTransfers: present(env.Transfers),
	}

	p := &payload{}
	if env.Version != nil {
		p.version = *env.Version
	} else {
		p.version = detectVersion(env.Accounts)
	}
	if p.version < 0 || p.version > models.SchemaVersion {
		return Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.version)
	}
	doc.FromVersion = p.version

	if err := p.decode(env); err != nil {
		return Document{}, err
	}

	for p.version < models.SchemaVersion {
		upgrades[p.version](p)
		p.version++
	}

	doc.State = models.State{
		Version:   models.SchemaVersion,
		Accounts:  nonNil(p.accounts),
		Trades:    nonNil(p.trades),
		Transfers: nonNil(p.transfers),
	}
	return doc, nil
}

func (p *payload) decode(env envelope) error {
	if present(env.Accounts) {
		var err error
		if p.version == versionLegacyNames {
			err = json.Unmarshal(env.Accounts, &p.legacyNames)
		} else {
			err = json.Unmarshal(env.Accounts, &p.accounts)
		}
		if err != nil {
			return fmt.Errorf("failed to decode accounts: %w", err)
		}
	}
	if present(env.Trades) {
		if err := json.Unmarshal(env.Trades, &p.trades); err != nil {
			return fmt.Errorf("failed to decode trades: %w", err)
		}
	}
	if present(env.Transfers) {
		if err := json.Unmarshal(env.Transfers, &p.transfers); err != nil {
			return fmt.Errorf("failed to decode transfers: %w", err)
		}
	}
	return nil
}

// detectVersion classifies an untagged payload by its first account entry
func detectVersion(accounts json.RawMessage) int {
	if !present(accounts) {
		return versionUntagged
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(accounts, &entries); err != nil || len(entries) == 0 {
		return versionUntagged
	}
	first := bytes.TrimSpace(entries[0])
	if len(first) > 0 && first[0] == '"' {
		return versionLegacyNames
	}
	return versionUntagged
}

// upgradeLegacyNames assigns acc_<index> ids to plain account names and
// re-points trades by exact name match. Unmatched trades keep their value.
func upgradeLegacyNames(p *payload) {
	p.accounts = make([]models.Account, len(p.legacyNames))
	byName := make(map[string]string, len(p.legacyNames))
	for i, name := range p.legacyNames {
		id := fmt.Sprintf("acc_%d", i)
		p.accounts[i] = models.Account{
			ID:   id,
			Name: name,
			Type: models.AccountTypeReal,
		}
		// first account wins on duplicate names
		if _, ok := byName[name]; !ok {
			byName[name] = id
		}
	}
	for i := range p.trades {
		if id, ok := byName[p.trades[i].Account]; ok {
			p.trades[i].Account = id
		}
	}
	p.legacyNames = nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}

// Encode serializes state tagged with the current schema version
func Encode(state models.State) ([]byte, error) {
	state.Version = models.SchemaVersion
	state.Accounts = nonNil(state.Accounts)
	state.Trades = nonNil(state.Trades)
	state.Transfers = nonNil(state.Transfers)
	return json.Marshal(state)
}
