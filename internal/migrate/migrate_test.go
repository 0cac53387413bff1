package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tz-journal/internal/models"
)

func TestDecode_LegacyAccountNames(t *testing.T) {
	raw := `{
		"accounts": ["Main", "Secondary"],
		"trades": [
			{"id": 1700000000000, "account": "Secondary", "date": "2024-01-05T10:00", "symbol": "EURUSD", "side": "Long", "pnl": 12.5, "status": "Win"},
			{"id": "t2", "account": "Gone", "date": "2024-01-06T10:00", "symbol": "GBPUSD", "side": "Short", "pnl": -3, "status": "Loss"}
		]
	}`

	doc, err := Decode([]byte(raw))
	require.NoError(t, err)

	assert.True(t, doc.Migrated())
	assert.Equal(t, 0, doc.FromVersion)
	assert.Equal(t, models.SchemaVersion, doc.State.Version)
	assert.Equal(t, []models.Account{
		{ID: "acc_0", Name: "Main", Type: models.AccountTypeReal},
		{ID: "acc_1", Name: "Secondary", Type: models.AccountTypeReal},
	}, doc.State.Accounts)

	require.Len(t, doc.State.Trades, 2)
	assert.Equal(t, "acc_1", doc.State.Trades[0].Account)
	assert.Equal(t, models.TradeID("1700000000000"), doc.State.Trades[0].ID)
	// unmatched names stay stale
	assert.Equal(t, "Gone", doc.State.Trades[1].Account)

	assert.True(t, doc.HasAccounts)
	assert.True(t, doc.HasTrades)
	assert.False(t, doc.HasTransfers)
	assert.NotNil(t, doc.State.Transfers)
}

func TestDecode_DuplicateLegacyNamesUseFirst(t *testing.T) {
	raw := `{"accounts": ["A", "A"], "trades": [{"id": "1", "account": "A", "pnl": 1}]}`

	doc, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "acc_0", doc.State.Trades[0].Account)
}

func TestDecode_CurrentFormatIsUntouched(t *testing.T) {
	state := models.State{
		Version: models.SchemaVersion,
		Accounts: []models.Account{
			{ID: "x1", Name: "Swing", Type: "Demo", Initial: 1000},
		},
		Trades: []models.Trade{
			{ID: "a", Account: "x1", Date: "2024-02-01T09:00", Symbol: "XAUUSD", Side: models.SideLong, PnL: 40, Status: models.StatusWin},
		},
		Transfers: []models.Transfer{
			{ID: 1, AccountID: "x1", Type: models.TransferDeposit, Amount: 500, Date: "2024-02-01"},
		},
	}
	raw, err := Encode(state)
	require.NoError(t, err)

	doc, err := Decode(raw)
	require.NoError(t, err)
	assert.False(t, doc.Migrated())
	assert.Equal(t, state, doc.State)

	again, err := Encode(doc.State)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
}

func TestDecode_UntaggedRecordsAreNotTransformed(t *testing.T) {
	raw := `{"accounts": [{"id": "main", "name": "Main", "type": "Real", "initial": 0, "balance": 0}], "trades": [{"id": "1", "account": "main", "pnl": 5}]}`

	doc, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.FromVersion)
	assert.False(t, doc.Migrated())
	assert.Equal(t, "main", doc.State.Accounts[0].ID)
	assert.Equal(t, "main", doc.State.Trades[0].Account)
}

func TestDecode_EmptyAndNullCollections(t *testing.T) {
	doc, err := Decode([]byte(`{"accounts": null, "trades": []}`))
	require.NoError(t, err)
	assert.False(t, doc.HasAccounts)
	assert.True(t, doc.HasTrades)
	assert.Empty(t, doc.State.Trades)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"array", `[1,2]`},
		{"null", `null`},
		{"garbage", `{"accounts": [`},
		{"future version", `{"version": 99, "accounts": []}`},
		{"bad trades", `{"trades": "nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestDecode_FutureVersionIsUnsupported(t *testing.T) {
	_, err := Decode([]byte(`{"version": 3}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}
