package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/x/bondpool/types"
)

// TestSplitYieldExact tests that burn + staker portions always sum to the
// input, including amounts that don't divide evenly
func TestSplitYieldExact(t *testing.T) {
	factory := types.NewFactoryState("authority")

	testCases := []struct {
		name           string
		amount         int64
		expectedBurn   int64
		expectedStaker int64
	}{
		{"even split", 1000, 900, 100},
		{"odd amount", 1001, 900, 101},
		{"small amount", 7, 6, 1},
		{"single unit", 1, 0, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			burn, staker, err := factory.SplitYield(math.NewInt(tc.amount))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !burn.Equal(math.NewInt(tc.expectedBurn)) {
				t.Errorf("expected burn %d, got %s", tc.expectedBurn, burn)
			}
			if !staker.Equal(math.NewInt(tc.expectedStaker)) {
				t.Errorf("expected staker %d, got %s", tc.expectedStaker, staker)
			}
			if !burn.Add(staker).Equal(math.NewInt(tc.amount)) {
				t.Errorf("split does not conserve: %s + %s != %d", burn, staker, tc.amount)
			}
		})
	}
}

// TestFactoryValidateSplit tests the split configuration check
func TestFactoryValidateSplit(t *testing.T) {
	factory := types.NewFactoryState("authority")
	if err := factory.Validate(); err != nil {
		t.Errorf("default split should validate: %v", err)
	}

	factory.BurnBps = 9500
	if err := factory.Validate(); err != types.ErrInvalidSplit {
		t.Errorf("expected ErrInvalidSplit, got %v", err)
	}
}

// TestBootstrapEqualStakers tests the two-staker scenario: both stake 500
// before any yield, 100 of staker yield arrives, each is owed 50 by both
// accounting methods
func TestBootstrapEqualStakers(t *testing.T) {
	pool := types.NewBondPool("gaming", "creator", types.DefaultMinBondDuration)

	stake := func(amount int64) *types.BondPosition {
		amt := math.NewInt(amount)
		shares, err := pool.SharesForDeposit(amt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pos := types.NewBondPosition("addr", "gaming", pool.LockDuration, 0)
		pos.AmountStaked = amt
		pos.Shares = shares
		pos.RewardDebt = types.ShareRewardDebt(shares, pool.RewardPerShare)
		pos.ClaimedCursor = pool.YieldIntegral
		pool.TotalStaked = pool.TotalStaked.Add(amt)
		pool.TotalShares = pool.TotalShares.Add(shares)
		return pos
	}

	a := stake(500)
	b := stake(500)

	if err := pool.ApplyYield(math.NewInt(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, pos := range map[string]*types.BondPosition{"A": a, "B": b} {
		share := types.PendingShareReward(pos.Shares, pool.RewardPerShare, pos.RewardDebt)
		integral := types.PendingIntegralReward(pool.YieldIntegral, pos.ClaimedCursor, pos.AmountStaked)
		if !share.Equal(math.NewInt(50)) {
			t.Errorf("%s: expected share-method pending 50, got %s", name, share)
		}
		if !integral.Equal(math.NewInt(50)) {
			t.Errorf("%s: expected integral-method pending 50, got %s", name, integral)
		}
		if got := types.ReconcilePending(share, integral); !got.Equal(math.NewInt(50)) {
			t.Errorf("%s: expected reconciled pending 50, got %s", name, got)
		}
	}
}

// TestDualMethodsAgreeWithinRounding tests that the share and integral
// methods track the same yield stream and differ only by truncation
func TestDualMethodsAgreeWithinRounding(t *testing.T) {
	pool := types.NewBondPool("defi", "creator", types.DefaultMinBondDuration)

	var positions []*types.BondPosition
	for _, amount := range []int64{333, 1007, 9999, 61} {
		amt := math.NewInt(amount)
		shares, err := pool.SharesForDeposit(amt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pos := &types.BondPosition{
			AmountStaked:  amt,
			Shares:        shares,
			RewardDebt:    types.ShareRewardDebt(shares, pool.RewardPerShare),
			ClaimedCursor: pool.YieldIntegral,
		}
		pool.TotalStaked = pool.TotalStaked.Add(amt)
		pool.TotalShares = pool.TotalShares.Add(shares)
		positions = append(positions, pos)
	}

	for _, y := range []int64{97, 1013, 7} {
		if err := pool.ApplyYield(math.NewInt(y)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for i, pos := range positions {
		share := types.PendingShareReward(pos.Shares, pool.RewardPerShare, pos.RewardDebt)
		integral := types.PendingIntegralReward(pool.YieldIntegral, pos.ClaimedCursor, pos.AmountStaked)
		diff := share.Sub(integral).Abs()
		if diff.GT(math.NewInt(2)) {
			t.Errorf("position %d: methods diverge beyond rounding: share=%s integral=%s", i, share, integral)
		}
	}
}

// TestReconcilePaysLarger tests that reconciliation always favors the
// staker when the two methods disagree
func TestReconcilePaysLarger(t *testing.T) {
	if got := types.ReconcilePending(math.NewInt(10), math.NewInt(11)); !got.Equal(math.NewInt(11)) {
		t.Errorf("expected 11, got %s", got)
	}
	if got := types.ReconcilePending(math.NewInt(12), math.NewInt(11)); !got.Equal(math.NewInt(12)) {
		t.Errorf("expected 12, got %s", got)
	}
}

// TestAccrueAdvancesBothCursors tests that accrual advances the share
// debt and the integral cursor together, so a second accrual pays nothing
func TestAccrueAdvancesBothCursors(t *testing.T) {
	pool := types.NewBondPool("ai", "creator", types.DefaultMinBondDuration)

	amt := math.NewInt(1000)
	shares, _ := pool.SharesForDeposit(amt)
	pos := types.NewBondPosition("addr", "ai", pool.LockDuration, 0)
	pos.AmountStaked = amt
	pos.Shares = shares
	pool.TotalStaked = amt
	pool.TotalShares = shares

	if err := pool.ApplyYield(math.NewInt(250)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos.Accrue(pool)
	if !pos.PendingAccrued.Equal(math.NewInt(250)) {
		t.Errorf("expected pending 250, got %s", pos.PendingAccrued)
	}
	if !pos.ClaimedCursor.Equal(pool.YieldIntegral) {
		t.Errorf("cursor not advanced: %s != %s", pos.ClaimedCursor, pool.YieldIntegral)
	}

	pos.Accrue(pool)
	if !pos.PendingAccrued.Equal(math.NewInt(250)) {
		t.Errorf("second accrual minted rewards: got %s", pos.PendingAccrued)
	}
}

// TestLateStakerIntegralCursor tests that a staker entering after a yield
// event owes nothing by the integral method either
func TestLateStakerIntegralCursor(t *testing.T) {
	pool := types.NewBondPool("meme", "creator", types.DefaultMinBondDuration)

	early := math.NewInt(2000)
	earlyShares, _ := pool.SharesForDeposit(early)
	pool.TotalStaked = pool.TotalStaked.Add(early)
	pool.TotalShares = pool.TotalShares.Add(earlyShares)

	if err := pool.ApplyYield(math.NewInt(500)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	late := math.NewInt(2000)
	pos := types.NewBondPosition("late", "meme", pool.LockDuration, 0)
	lateShares, _ := pool.SharesForDeposit(late)
	pos.AmountStaked = late
	pos.Shares = lateShares
	pos.RewardDebt = types.ShareRewardDebt(lateShares, pool.RewardPerShare)
	pos.ClaimedCursor = pool.YieldIntegral
	pool.TotalStaked = pool.TotalStaked.Add(late)
	pool.TotalShares = pool.TotalShares.Add(lateShares)

	share := types.PendingShareReward(pos.Shares, pool.RewardPerShare, pos.RewardDebt)
	integral := types.PendingIntegralReward(pool.YieldIntegral, pos.ClaimedCursor, pos.AmountStaked)
	if !types.ReconcilePending(share, integral).IsZero() {
		t.Errorf("late staker owed retroactive yield: share=%s integral=%s", share, integral)
	}
}

// TestEarlyUnwrapPenalty tests the flat 30 bps penalty
func TestEarlyUnwrapPenalty(t *testing.T) {
	factory := types.NewFactoryState("authority")

	penalty := factory.EarlyUnwrapPenalty(math.NewInt(100_000))
	if !penalty.Equal(math.NewInt(300)) {
		t.Errorf("expected penalty 300, got %s", penalty)
	}

	// Small amounts truncate to zero penalty.
	if !factory.EarlyUnwrapPenalty(math.NewInt(100)).IsZero() {
		t.Error("expected zero penalty for dust amount")
	}
}

// TestApplyYieldEmptyPool tests that yield cannot be applied to a pool
// with no stakers
func TestApplyYieldEmptyPool(t *testing.T) {
	pool := types.NewBondPool("rwa", "creator", types.DefaultMinBondDuration)
	if err := pool.ApplyYield(math.NewInt(100)); err != types.ErrNothingStaked {
		t.Errorf("expected ErrNothingStaked, got %v", err)
	}
}

// TestValidSectorName tests sector name validation
func TestValidSectorName(t *testing.T) {
	testCases := []struct {
		name  string
		valid bool
	}{
		{"gaming", true},
		{"defi-2", true},
		{"a", false},
		{"UPPER", false},
		{"has space", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := types.ValidSectorName(tc.name); got != tc.valid {
			t.Errorf("ValidSectorName(%q) = %t, want %t", tc.name, got, tc.valid)
		}
	}
}

// TestLeaderboardOrdering tests the TVL ranking
func TestLeaderboardOrdering(t *testing.T) {
	lb := NewLeaderboard()
	lb.Update("gaming", math.NewInt(500))
	lb.Update("defi", math.NewInt(900))
	lb.Update("ai", math.NewInt(100))

	top := lb.Top(2)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Sector != "defi" || top[1].Sector != "gaming" {
		t.Errorf("unexpected order: %v", top)
	}

	// Updating repositions rather than duplicating.
	lb.Update("ai", math.NewInt(5000))
	top = lb.Top(3)
	if top[0].Sector != "ai" {
		t.Errorf("expected ai first after update, got %s", top[0].Sector)
	}
	if lb.Len() != 3 {
		t.Errorf("expected 3 ranked sectors, got %d", lb.Len())
	}

	lb.Remove("defi")
	if lb.Len() != 2 {
		t.Errorf("expected 2 after removal, got %d", lb.Len())
	}
}
