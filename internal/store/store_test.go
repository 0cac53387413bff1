package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tz-journal/internal/models"
	"github.com/tz-journal/internal/repository"
)

func newTestStore(t *testing.T) (*Store, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	return New(repo, zerolog.Nop()), repo
}

type failingRepo struct{}

func (failingRepo) Get(context.Context, string) ([]byte, error) { return nil, errors.New("offline") }
func (failingRepo) Put(context.Context, string, []byte) error   { return errors.New("offline") }

// blockingRepo holds the first Put until release is closed
type blockingRepo struct {
	*repository.MemoryRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newBlockingRepo() *blockingRepo {
	return &blockingRepo{
		MemoryRepository: repository.NewMemoryRepository(),
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
}

func (r *blockingRepo) Put(ctx context.Context, key string, data []byte) error {
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.entered)
		<-r.release
	}
	return r.MemoryRepository.Put(ctx, key, data)
}

func TestLoad_DefaultsWhenNothingSaved(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load(context.Background()))

	state := s.Snapshot()
	assert.Equal(t, []models.Account{models.DefaultAccount()}, state.Accounts)
	assert.Empty(t, state.Trades)
	assert.Empty(t, state.Transfers)
	assert.Equal(t, models.DefaultAccountID, s.CurrentAccountID())
	assert.True(t, s.Preferences().DarkMode)
}

func TestLoad_MigratesLegacyPayload(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	legacy := `{"accounts":["Main","Secondary"],"trades":[{"id":1,"account":"Secondary","date":"2024-01-01","symbol":"EURUSD","side":"Long","pnl":5,"status":"Win"}]}`
	require.NoError(t, repo.Put(ctx, repository.StateKey, []byte(legacy)))

	require.NoError(t, s.Load(ctx))

	state := s.Snapshot()
	require.Len(t, state.Accounts, 2)
	assert.Equal(t, "acc_0", state.Accounts[0].ID)
	assert.Equal(t, "acc_1", state.Trades[0].Account)
	// transfers were absent and keep the default
	assert.NotNil(t, state.Transfers)
	assert.Equal(t, "acc_0", s.CurrentAccountID())

	// migration is not persisted until saved
	raw, err := repo.Get(ctx, repository.StateKey)
	require.NoError(t, err)
	assert.Equal(t, legacy, string(raw))
}

func TestLoad_MissingKeysKeepDefaults(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, repository.StateKey, []byte(`{"trades":[]}`)))

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, []models.Account{models.DefaultAccount()}, s.Accounts())
}

func TestLoad_EmptyAccountListFallsBackToDefault(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, repository.StateKey, []byte(`{"version":2,"accounts":[],"trades":[],"transfers":[]}`)))

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, []models.Account{models.DefaultAccount()}, s.Accounts())
	assert.Equal(t, models.DefaultAccountID, s.CurrentAccountID())
}

func TestLoad_UnreadablePayloadKeepsDefaults(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, repository.StateKey, []byte(`{not json`)))
	require.NoError(t, repo.Put(ctx, repository.PreferencesKey, []byte(`[]`)))

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, models.DefaultState(), s.Snapshot())
	assert.True(t, s.Preferences().DarkMode)
}

func TestLoad_StorageErrorIsReturned(t *testing.T) {
	s := New(failingRepo{}, zerolog.Nop())
	assert.Error(t, s.Load(context.Background()))
	assert.Error(t, s.Save(context.Background()))
}

func TestLoad_KeepsValidSelection(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	_, err := s.AddAccount(models.Account{ID: "second", Name: "Second"})
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentAccount("second"))
	require.NoError(t, s.Save(ctx))

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, "second", s.CurrentAccountID())

	other := New(repo, zerolog.Nop())
	require.NoError(t, other.Load(ctx))
	assert.Equal(t, models.DefaultAccountID, other.CurrentAccountID())
}

func TestSaveAndReload(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	acc, err := s.AddAccount(models.Account{Name: "Prop", Type: models.AccountTypeDemo, Initial: 5000})
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)

	trade, err := s.AddTrade(models.Trade{Account: acc.ID, Date: "2024-02-01T10:00", Symbol: "NAS100", Side: models.SideShort, PnL: -12})
	require.NoError(t, err)
	assert.Equal(t, models.StatusLoss, trade.Status)
	assert.NotEmpty(t, trade.ID)

	transfer, err := s.AddTransfer(models.Transfer{AccountID: acc.ID, Type: models.TransferDeposit, Amount: 100, Date: "2024-02-01"})
	require.NoError(t, err)
	assert.NotZero(t, transfer.ID)

	s.SetPreferences(models.Preferences{DarkMode: false})
	require.NoError(t, s.Save(ctx))
	require.NoError(t, s.SavePreferences(ctx))

	reloaded := New(repo, zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
	assert.False(t, reloaded.Preferences().DarkMode)
}

func TestRemoveAccount_SelectionFallsBackAndRecordsAreOrphaned(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddAccount(models.Account{ID: "b", Name: "B"})
	require.NoError(t, err)
	_, err = s.AddTrade(models.Trade{ID: "t1", Account: "b", PnL: 10})
	require.NoError(t, err)
	_, err = s.AddTransfer(models.Transfer{ID: 7, AccountID: "b", Type: models.TransferDeposit, Amount: 1})
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentAccount("b"))

	require.NoError(t, s.RemoveAccount("b"))

	assert.Equal(t, models.DefaultAccountID, s.CurrentAccountID())
	state := s.Snapshot()
	assert.Len(t, state.Trades, 1, "trades are not cascaded")
	assert.Len(t, state.Transfers, 1, "transfers are not cascaded")

	data, err := s.AccountData("")
	require.NoError(t, err)
	assert.Empty(t, data.Trades)
	assert.Empty(t, data.Transfers)

	_, err = s.AccountData("b")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRemoveAccount_LastAccountRestoresDefault(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.RemoveAccount(models.DefaultAccountID))
	assert.Equal(t, []models.Account{models.DefaultAccount()}, s.Accounts())

	assert.ErrorIs(t, s.RemoveAccount("missing"), ErrAccountNotFound)
}

func TestTradeMutations(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddTrade(models.Trade{ID: "1", Account: "main", PnL: 5, Status: models.StatusLoss})
	require.NoError(t, err)
	got, err := s.Trade("1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWin, got.Status, "status is re-derived on write")

	_, err = s.AddTrade(models.Trade{ID: "1"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	updated, err := s.UpdateTrade(models.Trade{ID: "1", Account: "main", PnL: -1, Symbol: "GBPJPY"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusLoss, updated.Status)

	_, err = s.UpdateTrade(models.Trade{ID: "nope"})
	assert.ErrorIs(t, err, ErrTradeNotFound)

	require.NoError(t, s.RemoveTrade("1"))
	assert.ErrorIs(t, s.RemoveTrade("1"), ErrTradeNotFound)
}

func TestAddTrades_SkipsDuplicates(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddTrade(models.Trade{ID: "100", PnL: 1})
	require.NoError(t, err)

	added, dups := s.AddTrades([]models.Trade{
		{ID: "100", PnL: 1},
		{ID: "101", PnL: -2},
		{ID: "101", PnL: -2},
		{PnL: 3},
	})

	assert.Equal(t, 2, dups)
	require.Len(t, added, 2)
	assert.Equal(t, models.StatusLoss, added[0].Status)
	assert.NotEmpty(t, added[1].ID)
	assert.Len(t, s.Snapshot().Trades, 3)
}

func TestTransferMutations(t *testing.T) {
	s, _ := newTestStore(t)

	tr, err := s.AddTransfer(models.Transfer{AccountID: "main", Type: models.TransferWithdrawal, Amount: 20})
	require.NoError(t, err)
	_, err = s.AddTransfer(models.Transfer{ID: tr.ID})
	assert.ErrorIs(t, err, ErrDuplicateID)

	require.NoError(t, s.RemoveTransfer(tr.ID))
	assert.ErrorIs(t, s.RemoveTransfer(tr.ID), ErrTransferNotFound)
}

func TestSetCurrentAccount_Unknown(t *testing.T) {
	s, _ := newTestStore(t)
	assert.ErrorIs(t, s.SetCurrentAccount("ghost"), ErrAccountNotFound)
	assert.Equal(t, models.DefaultAccountID, s.CurrentAccountID())
}

func TestReplace(t *testing.T) {
	s, _ := newTestStore(t)
	s.Replace(models.State{Accounts: []models.Account{{ID: "x", Name: "X"}}})

	assert.Equal(t, "x", s.CurrentAccountID())
	state := s.Snapshot()
	assert.Equal(t, models.SchemaVersion, state.Version)
	assert.NotNil(t, state.Trades)
}

func TestOnChange(t *testing.T) {
	s, _ := newTestStore(t)
	var got []Change
	s.OnChange(func(c Change) { got = append(got, c) })

	require.NoError(t, s.Commit(context.Background(), "trade.create"))
	require.NoError(t, s.Save(context.Background()))

	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].Revision)
	assert.Equal(t, "trade.create", got[0].Reason)
	assert.Equal(t, uint64(2), got[1].Revision)
	assert.Equal(t, uint64(2), s.Revision())
}

func TestSnapshotIsIsolated(t *testing.T) {
	s, _ := newTestStore(t)
	snap := s.Snapshot()
	snap.Accounts[0].Name = "changed"
	assert.Equal(t, "Main", s.Accounts()[0].Name)
}

func TestSave_ConcurrentSavesKeepNewestState(t *testing.T) {
	repo := newBlockingRepo()
	s := New(repo, zerolog.Nop())
	ctx := context.Background()

	firstDone := make(chan error, 1)
	_, err := s.AddTrade(models.Trade{ID: "A", Account: models.DefaultAccountID, Date: "2024-01-01", Symbol: "X", PnL: 1})
	require.NoError(t, err)
	go func() { firstDone <- s.Save(ctx) }()
	<-repo.entered

	secondDone := make(chan error, 1)
	_, err = s.AddTrade(models.Trade{ID: "B", Account: models.DefaultAccountID, Date: "2024-01-02", Symbol: "X", PnL: 2})
	require.NoError(t, err)
	go func() { secondDone <- s.Save(ctx) }()

	select {
	case err := <-secondDone:
		t.Fatalf("second save finished while the first was still writing: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(repo.release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	reloaded := New(repo, zerolog.Nop())
	require.NoError(t, reloaded.Load(ctx))
	assert.Len(t, reloaded.Snapshot().Trades, 2)
}

func TestUpdate_RollsBackWhenSaveFails(t *testing.T) {
	s := New(failingRepo{}, zerolog.Nop())
	ctx := context.Background()
	_, err := s.AddAccount(models.Account{ID: "second", Name: "Second"})
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentAccount("second"))
	before := s.Snapshot()

	err = s.Update(ctx, "trade.create", func() error {
		_, err := s.AddTrade(models.Trade{Account: "second", Date: "2024-01-01", Symbol: "X", PnL: 1})
		return err
	})
	assert.Error(t, err)
	assert.Empty(t, s.Snapshot().Trades)

	err = s.Update(ctx, "account.delete", func() error { return s.RemoveAccount("second") })
	assert.Error(t, err)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, "second", s.CurrentAccountID())
}

func TestUpdate_FunctionErrorRollsBack(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, "trade.import", func() error {
		_, err := s.AddTrade(models.Trade{ID: "1", Account: models.DefaultAccountID, Date: "2024-01-01", Symbol: "X"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Snapshot().Trades)
	_, err = repo.Get(ctx, repository.StateKey)
	assert.ErrorIs(t, err, repository.ErrBlobNotFound)
}

func TestUpdate_NoChangeSkipsSave(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, "trade.import", func() error { return ErrNoChange }))
	assert.Equal(t, uint64(0), s.Revision())
	_, err := repo.Get(ctx, repository.StateKey)
	assert.ErrorIs(t, err, repository.ErrBlobNotFound)
}

func TestUpdatePreferences_KeepsPreviousOnFailure(t *testing.T) {
	s := New(failingRepo{}, zerolog.Nop())
	assert.Error(t, s.UpdatePreferences(context.Background(), models.Preferences{DarkMode: false}))
	assert.True(t, s.Preferences().DarkMode)

	ok, _ := newTestStore(t)
	require.NoError(t, ok.UpdatePreferences(context.Background(), models.Preferences{DarkMode: false}))
	assert.False(t, ok.Preferences().DarkMode)
}
