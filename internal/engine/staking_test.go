package engine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = int64(24 * 3600)

// stakedLedger opens one position for user in the given pool and returns its index.
func stakedLedger(t *testing.T, pool PoolType, amount *big.Int) (*Ledger, *fakeClock, *memTransfer, *recordSink, int) {
	t.Helper()
	l, clock, transfers, sink := testLedger()
	transfers.credit("alice", testToken, tokens(1_000_000))
	index, err := l.Stake("alice", amount, pool)
	require.NoError(t, err)
	return l, clock, transfers, sink, index
}

func TestStake(t *testing.T) {
	t.Run("Creates Position With Stable Index", func(t *testing.T) {
		l, _, transfers, sink := testLedger()
		transfers.credit("alice", testToken, tokens(10_000))

		i0, err := l.Stake("alice", tokens(1_000), PoolFlexible)
		require.NoError(t, err)
		i1, err := l.Stake("alice", tokens(2_500), PoolFixed12Months)
		require.NoError(t, err)
		assert.Equal(t, 0, i0)
		assert.Equal(t, 1, i1)

		positions := l.Positions("alice")
		require.Len(t, positions, 2)
		assert.Equal(t, tokens(1_000), positions[0].Amount)
		assert.Equal(t, PoolFixed12Months, positions[1].Pool)
		assert.True(t, positions[0].Active)

		pool, err := l.Pool(PoolFlexible)
		require.NoError(t, err)
		assert.Equal(t, tokens(1_000), pool.TotalStaked)
		assert.Equal(t, tokens(3_500), l.StakedBy("alice"))
		assert.Equal(t, tokens(6_500), transfers.balance("alice", testToken))
		assert.Equal(t, EventStake, sink.last().Kind)
	})

	t.Run("Validation Order", func(t *testing.T) {
		l, _, transfers, _ := testLedger()
		transfers.credit("alice", testToken, tokens(10_000))

		_, err := l.Stake("alice", new(big.Int), PoolFlexible)
		assert.ErrorIs(t, err, ErrZeroAmount)

		_, err = l.Stake("alice", tokens(100), PoolType(99))
		assert.ErrorIs(t, err, ErrUnknownPool)

		require.NoError(t, l.SetPoolActive(testOwner, PoolFlexible, false))
		_, err = l.Stake("alice", tokens(100), PoolFlexible)
		assert.ErrorIs(t, err, ErrPoolInactive)
		require.NoError(t, l.SetPoolActive(testOwner, PoolFlexible, true))

		_, err = l.Stake("alice", tokens(99), PoolFlexible)
		assert.ErrorIs(t, err, ErrBelowMinStake)
	})

	t.Run("Pause Gates Stake Only", func(t *testing.T) {
		l, clock, transfers, _ := testLedger()
		transfers.credit("alice", testToken, tokens(10_000))
		index, err := l.Stake("alice", tokens(1_000), PoolFlexible)
		require.NoError(t, err)

		require.NoError(t, l.Pause(testOwner))
		_, err = l.Stake("alice", tokens(1_000), PoolFlexible)
		assert.ErrorIs(t, err, ErrPaused)

		// The exit paths stay open while paused.
		clock.advance(30 * day)
		_, err = l.ClaimRewards("alice", index)
		assert.NoError(t, err)
		_, err = l.Unstake("alice", index)
		assert.NoError(t, err)
	})
}

func TestPendingRewards(t *testing.T) {
	t.Run("One Year Flexible Accrual", func(t *testing.T) {
		// 1000 staked at 8.5% APY for exactly 365 days accrues exactly 85,
		// with the 24h bonus track excluded.
		l, clock, _, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		clock.advance(365 * day)
		assert.Equal(t, tokens(85), l.PendingRewards("alice", index))
	})

	t.Run("Monotonic Accrual", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		prev := new(big.Int)
		for i := 0; i < 50; i++ {
			clock.advance(3_600)
			cur := l.PendingRewards("alice", index)
			assert.True(t, cur.Cmp(prev) >= 0, "pending rewards never decrease")
			prev = cur
		}
	})

	t.Run("Fixed Pool Bonus Scales Base Reward", func(t *testing.T) {
		// Fixed 3-month pool: 12% APY, 5% bonus on the accrued interest.
		l, clock, _, _, index := stakedLedger(t, PoolFixed3Months, tokens(1_000))
		clock.advance(365 * day)
		base := tokens(120)
		want := new(big.Int).Add(base, bpsShare(base, 500))
		assert.Equal(t, want, l.PendingRewards("alice", index))
	})

	t.Run("Defensive Reads", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		assert.Equal(t, int64(0), l.PendingRewards("alice", 99).Int64())
		assert.Equal(t, int64(0), l.PendingRewards("nobody", 0).Int64())

		clock.advance(10 * day)
		_, err := l.Unstake("alice", index)
		require.NoError(t, err)
		assert.Equal(t, int64(0), l.PendingRewards("alice", index).Int64(), "inactive position reads zero")
	})

	t.Run("Rate Change Is Not Segmented", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		clock.advance(100 * day)
		require.NoError(t, l.SetPoolRates(testOwner, PoolFlexible, 1_700, nil))
		clock.advance(265 * day)
		// The whole 365-day window reads at the new 17% rate.
		assert.Equal(t, tokens(170), l.PendingRewards("alice", index))
	})
}

func TestClaimRewards(t *testing.T) {
	t.Run("Claim Resets Checkpoint", func(t *testing.T) {
		l, clock, transfers, sink, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		balanceBefore := new(big.Int).Set(transfers.balance("alice", testToken))

		clock.advance(365 * day)
		paid, err := l.ClaimRewards("alice", index)
		require.NoError(t, err)
		assert.Equal(t, tokens(85), paid)
		assert.Equal(t, new(big.Int).Add(balanceBefore, tokens(85)), transfers.balance("alice", testToken))
		assert.Equal(t, tokens(85), l.RewardsPaid())
		assert.Equal(t, EventClaim, sink.last().Kind)

		// Checkpoint is reset: nothing pending immediately after.
		assert.Equal(t, int64(0), l.PendingRewards("alice", index).Int64())
		_, err = l.ClaimRewards("alice", index)
		assert.ErrorIs(t, err, ErrNoRewards)

		// Accrual restarts from the claim.
		clock.advance(365 * day)
		assert.Equal(t, tokens(85), l.PendingRewards("alice", index))
	})

	t.Run("Validation", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		_, err := l.ClaimRewards("alice", 5)
		assert.ErrorIs(t, err, ErrInvalidIndex)
		_, err = l.ClaimRewards("alice", index)
		assert.ErrorIs(t, err, ErrNoRewards)

		clock.advance(10 * day)
		_, err = l.Unstake("alice", index)
		require.NoError(t, err)
		_, err = l.ClaimRewards("alice", index)
		assert.ErrorIs(t, err, ErrInactiveStake)
	})
}

func TestClaimFlexibleBonus(t *testing.T) {
	t.Run("Flat Bonus Every 24h", func(t *testing.T) {
		l, clock, transfers, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		balanceBefore := new(big.Int).Set(transfers.balance("alice", testToken))

		_, err := l.ClaimFlexibleBonus("alice", index)
		assert.ErrorIs(t, err, ErrBonusNotReady)

		clock.advance(day)
		bonus, err := l.ClaimFlexibleBonus("alice", index)
		require.NoError(t, err)
		// 0.5% of principal, flat.
		assert.Equal(t, tokens(5), bonus)
		assert.Equal(t, new(big.Int).Add(balanceBefore, tokens(5)), transfers.balance("alice", testToken))

		_, err = l.ClaimFlexibleBonus("alice", index)
		assert.ErrorIs(t, err, ErrBonusNotReady)

		clock.advance(day)
		_, err = l.ClaimFlexibleBonus("alice", index)
		assert.NoError(t, err)
	})

	t.Run("Does Not Touch Reward Checkpoint", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		clock.advance(365 * day)
		_, err := l.ClaimFlexibleBonus("alice", index)
		require.NoError(t, err)
		assert.Equal(t, tokens(85), l.PendingRewards("alice", index), "base accrual unaffected by bonus claim")
	})

	t.Run("Fixed Pools Rejected", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFixed3Months, tokens(1_000))
		clock.advance(2 * day)
		_, err := l.ClaimFlexibleBonus("alice", index)
		assert.ErrorIs(t, err, ErrNotFlexible)
	})
}

func TestUnstake(t *testing.T) {
	t.Run("Lock Enforcement Boundary", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFixed12Months, tokens(2_500))

		clock.advance(365*day - 1)
		_, err := l.Unstake("alice", index)
		assert.ErrorIs(t, err, ErrStillLocked)

		clock.advance(1)
		payout, err := l.Unstake("alice", index)
		require.NoError(t, err)
		// Principal + 25% APY over a year + 20% bonus on the interest.
		interest := tokens(625)
		want := new(big.Int).Add(tokens(2_500), new(big.Int).Add(interest, bpsShare(interest, 2_000)))
		assert.Equal(t, want, payout)
	})

	t.Run("Settles Principal Plus Reward", func(t *testing.T) {
		l, clock, transfers, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		balanceBefore := new(big.Int).Set(transfers.balance("alice", testToken))

		clock.advance(365 * day)
		payout, err := l.Unstake("alice", index)
		require.NoError(t, err)
		assert.Equal(t, tokens(1_085), payout)
		assert.Equal(t, new(big.Int).Add(balanceBefore, tokens(1_085)), transfers.balance("alice", testToken))
		assert.Equal(t, tokens(85), l.RewardsPaid())

		pool, err := l.Pool(PoolFlexible)
		require.NoError(t, err)
		assert.Equal(t, int64(0), pool.TotalStaked.Int64())
		assert.Equal(t, int64(0), l.StakedBy("alice").Int64())

		positions := l.Positions("alice")
		require.Len(t, positions, 1, "closed positions stay in place")
		assert.False(t, positions[0].Active)

		_, err = l.Unstake("alice", index)
		assert.ErrorIs(t, err, ErrInactiveStake)
	})

	t.Run("Invalid Index", func(t *testing.T) {
		l, _, _, _ := testLedger()
		_, err := l.Unstake("alice", 0)
		assert.ErrorIs(t, err, ErrInvalidIndex)
		_, err = l.Unstake("alice", -1)
		assert.ErrorIs(t, err, ErrInvalidIndex)
	})

	t.Run("Reentrant Unstake Rejected", func(t *testing.T) {
		l, clock, transfers, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		clock.advance(10 * day)

		var nested error
		transfers.onTransfer = func() {
			cb := transfers.onTransfer
			transfers.onTransfer = nil
			defer func() { transfers.onTransfer = cb }()
			_, nested = l.Unstake("alice", index)
		}
		_, err := l.Unstake("alice", index)
		require.NoError(t, err)
		assert.ErrorIs(t, nested, ErrReentrantCall)
	})
}

func TestEmergencyUnstake(t *testing.T) {
	t.Run("Penalty And Forfeit", func(t *testing.T) {
		// 1000 staked, 5% emergency fee: exactly 950 back, zero reward,
		// no matter how much interest accrued.
		l, clock, transfers, sink, index := stakedLedger(t, PoolFixed6Months, tokens(1_000))
		clock.advance(100 * day)
		balanceBefore := new(big.Int).Set(transfers.balance("alice", testToken))

		payout, err := l.EmergencyUnstake("alice", index)
		require.NoError(t, err)
		assert.Equal(t, tokens(950), payout)
		assert.Equal(t, new(big.Int).Add(balanceBefore, tokens(950)), transfers.balance("alice", testToken))
		assert.Equal(t, int64(0), l.RewardsPaid().Int64(), "accrued rewards forfeited")

		ev := sink.last()
		assert.Equal(t, EventEmergencyWithdraw, ev.Kind)
		assert.Equal(t, tokens(50).String(), ev.Fee)

		pool, err := l.Pool(PoolFixed6Months)
		require.NoError(t, err)
		assert.Equal(t, int64(0), pool.TotalStaked.Int64())
	})

	t.Run("Only Before Lock Elapses", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFixed3Months, tokens(1_000))
		clock.advance(90 * day)
		_, err := l.EmergencyUnstake("alice", index)
		assert.ErrorIs(t, err, ErrNotLocked)
	})

	t.Run("Never For Flexible Pools", func(t *testing.T) {
		l, _, _, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		_, err := l.EmergencyUnstake("alice", index)
		assert.ErrorIs(t, err, ErrNotLocked)
	})

	t.Run("Terminal State", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFixed3Months, tokens(1_000))
		clock.advance(10 * day)
		_, err := l.EmergencyUnstake("alice", index)
		require.NoError(t, err)

		_, err = l.EmergencyUnstake("alice", index)
		assert.ErrorIs(t, err, ErrInactiveStake)
		_, err = l.Unstake("alice", index)
		assert.ErrorIs(t, err, ErrInactiveStake)
		_, err = l.ClaimRewards("alice", index)
		assert.ErrorIs(t, err, ErrInactiveStake)
	})
}

func TestStakingAdmin(t *testing.T) {
	t.Run("Owner Gate", func(t *testing.T) {
		l, _, _, _ := testLedger()
		assert.ErrorIs(t, l.SetPoolRates("mallory", PoolFlexible, 1_000, nil), ErrNotOwner)
		assert.ErrorIs(t, l.SetEmergencyFee("mallory", 100), ErrNotOwner)
		assert.ErrorIs(t, l.SetPoolActive("mallory", PoolFlexible, false), ErrNotOwner)
	})

	t.Run("Emergency Fee Cap", func(t *testing.T) {
		l, _, _, _ := testLedger()
		assert.ErrorIs(t, l.SetEmergencyFee(testOwner, 1_001), ErrRateTooHigh)
		require.NoError(t, l.SetEmergencyFee(testOwner, 1_000))
		assert.Equal(t, uint64(1_000), l.EmergencyFeeBPS())
	})

	t.Run("Pool Toggle Leaves Existing Positions", func(t *testing.T) {
		l, clock, _, _, index := stakedLedger(t, PoolFlexible, tokens(1_000))
		require.NoError(t, l.SetPoolActive(testOwner, PoolFlexible, false))

		clock.advance(365 * day)
		assert.Equal(t, tokens(85), l.PendingRewards("alice", index), "existing position keeps accruing")
		_, err := l.Unstake("alice", index)
		assert.NoError(t, err)
	})

	t.Run("Sweep Rewards", func(t *testing.T) {
		l, _, transfers, _ := testLedger()
		require.NoError(t, l.SweepRewards(testOwner, "vault", tokens(100)))
		assert.Equal(t, tokens(100), transfers.balance("vault", testToken))
		assert.ErrorIs(t, l.SweepRewards(testOwner, "vault", new(big.Int)), ErrZeroAmount)
	})
}
