package engine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestore(t *testing.T) {
	l, clock, transfers, _ := testLedger()
	transfers.credit("alice", testUSDT, tokens(10_000))
	transfers.credit("alice", testToken, tokens(10_000))

	_, err := l.Purchase("alice", tokens(100), testUSDT, "ref-1")
	require.NoError(t, err)
	index, err := l.Stake("alice", tokens(1_000), PoolFixed3Months)
	require.NoError(t, err)
	require.NoError(t, l.Pause(testOwner))
	require.NoError(t, l.SetEmergencyFee(testOwner, 700))

	snap := l.Snapshot()

	// Rebuild a fresh ledger from the snapshot on the same collaborators.
	restored := NewLedger(Config{
		Access:    StaticOwner(testOwner),
		Clock:     clock,
		Transfers: transfers,
		TokenAsset: testToken,
	})
	restored.Restore(snap)

	assert.Equal(t, l.Phase(), restored.Phase())
	assert.Equal(t, l.TotalSold(), restored.TotalSold())
	assert.Equal(t, l.SoldInPhase(PhasePresale), restored.SoldInPhase(PhasePresale))
	assert.Equal(t, "ref-1", restored.ReferrerOf("alice"))
	assert.Equal(t, l.ReferralStatsOf("ref-1"), restored.ReferralStatsOf("ref-1"))
	assert.Equal(t, l.StakedBy("alice"), restored.StakedBy("alice"))
	assert.Equal(t, l.Positions("alice"), restored.Positions("alice"))
	assert.True(t, restored.Paused())
	assert.Equal(t, uint64(700), restored.EmergencyFeeBPS())

	// Accrual continues identically after restore.
	clock.advance(90 * 24 * 3600)
	assert.Equal(t, l.PendingRewards("alice", index), restored.PendingRewards("alice", index))
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	l, _, transfers, _ := testLedger()
	transfers.credit("alice", testUSDT, tokens(10_000))
	_, err := l.Purchase("alice", tokens(100), testUSDT, "")
	require.NoError(t, err)

	snap := l.Snapshot()
	snap.Sale.TotalSold.Add(snap.Sale.TotalSold, big.NewInt(1))
	snap.Pools[PoolFlexible].APYBPS = 1

	assert.Equal(t, tokens(2000), l.TotalSold(), "mutating the snapshot leaves the ledger alone")
	pool, err := l.Pool(PoolFlexible)
	require.NoError(t, err)
	assert.Equal(t, uint64(850), pool.APYBPS)
}
