package journal_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/journal"
)

func TestJournal_RecordsWithdrawalsAndReferrals(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, j.RecordWithdrawal(ctx, 42, 100))
	require.NoError(t, j.RecordWithdrawal(ctx, 42, 100))
	require.NoError(t, j.RecordReferral(ctx, 1, 2, 50))

	pending, err := j.PendingWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(42), pending[0].ChatID)
	assert.Equal(t, int64(100), pending[0].Amount)
	assert.Equal(t, "pending", pending[0].Status)
	assert.NotEqual(t, pending[0].ID, pending[1].ID)

	total, err := j.TotalReferralEarnings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)
}

func TestJournal_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "journal.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordWithdrawal(context.Background(), 1, 100))
}
