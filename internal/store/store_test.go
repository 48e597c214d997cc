package store_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/store"
)

func openStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	s, err := store.Open(path)
	require.NoError(t, err)
	return s, path
}

func TestOpen_MissingFile_StartsEmpty(t *testing.T) {
	s, _ := openStore(t)

	tx := s.Begin()
	defer tx.Rollback()

	_, err := tx.Get(42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOpen_CorruptFile_StartsEmptyWithError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := store.Open(path)
	require.NotNil(t, s)
	assert.ErrorIs(t, err, store.ErrStoreCorrupt)

	tx := s.Begin()
	defer tx.Rollback()
	_, gerr := tx.Get(1)
	assert.ErrorIs(t, gerr, store.ErrNotFound)
}

func TestGetOrCreate_Defaults(t *testing.T) {
	s, _ := openStore(t)

	tx := s.Begin()
	defer tx.Rollback()

	u := tx.GetOrCreate(42)
	assert.Equal(t, int64(42), u.ChatID)
	assert.Equal(t, int64(0), u.Balance)
	assert.Equal(t, 0, u.Referrals)
	assert.Nil(t, u.ReferredBy)
	assert.Nil(t, u.LastEarnAt)
	assert.False(t, u.Activated)
	assert.Len(t, u.ReferralCode, 8)
}

func TestReferralCode_DeterministicAcrossStores(t *testing.T) {
	s1, _ := openStore(t)
	s2, _ := openStore(t)

	tx1 := s1.Begin()
	code1 := tx1.GetOrCreate(12345).ReferralCode
	tx1.Rollback()

	tx2 := s2.Begin()
	code2 := tx2.GetOrCreate(12345).ReferralCode
	tx2.Rollback()

	assert.Equal(t, code1, code2)
}

func TestCommit_PersistsAndReloads(t *testing.T) {
	s, path := openStore(t)

	tx := s.Begin()
	u := tx.GetOrCreate(42)
	u.Balance = 70
	tx.Put(u)
	require.NoError(t, tx.Commit())

	reopened, err := store.Open(path)
	require.NoError(t, err)

	tx2 := reopened.Begin()
	defer tx2.Rollback()

	got, err := tx2.Get(42)
	require.NoError(t, err)
	assert.Equal(t, int64(70), got.Balance)
	assert.Equal(t, u.ReferralCode, got.ReferralCode)

	id, found := tx2.FindByCode(u.ReferralCode)
	assert.True(t, found)
	assert.Equal(t, int64(42), id)
}

func TestRollback_DiscardsStagedMutations(t *testing.T) {
	s, _ := openStore(t)

	tx := s.Begin()
	u := tx.GetOrCreate(42)
	u.Balance = 999
	tx.Put(u)
	tx.Rollback()

	tx2 := s.Begin()
	defer tx2.Rollback()
	_, err := tx2.Get(42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	s, _ := openStore(t)

	tx := s.Begin()
	u := tx.GetOrCreate(42)
	tx.Put(u)
	require.NoError(t, tx.Commit())

	tx2 := s.Begin()
	got, err := tx2.Get(42)
	require.NoError(t, err)
	got.Balance = 500 // not staged back
	tx2.Rollback()

	tx3 := s.Begin()
	defer tx3.Rollback()
	again, err := tx3.Get(42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Balance)
}

func TestCommit_WriteFailure_RevertsState(t *testing.T) {
	// Parent directory is missing, so the temp-file write must fail.
	path := filepath.Join(t.TempDir(), "missing", "users.json")
	s, err := store.Open(path)
	require.NoError(t, err)

	tx := s.Begin()
	u := tx.GetOrCreate(42)
	u.Balance = 10
	tx.Put(u)
	err = tx.Commit()
	assert.ErrorIs(t, err, store.ErrStoreIO)

	tx2 := s.Begin()
	defer tx2.Rollback()
	_, gerr := tx2.Get(42)
	assert.ErrorIs(t, gerr, store.ErrNotFound)
}

func TestConcurrentTransactions_DistinctUsers_LoseNoUpdates(t *testing.T) {
	s, _ := openStore(t)

	const rounds = 25
	var wg sync.WaitGroup
	for _, id := range []int64{100, 200} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for range rounds {
				tx := s.Begin()
				u := tx.GetOrCreate(id)
				u.Balance++
				tx.Put(u)
				assert.NoError(t, tx.Commit())
			}
		}(id)
	}
	wg.Wait()

	tx := s.Begin()
	defer tx.Rollback()
	for _, id := range []int64{100, 200} {
		u, err := tx.Get(id)
		require.NoError(t, err)
		assert.Equal(t, int64(rounds), u.Balance, "chat %d", id)
	}
}
