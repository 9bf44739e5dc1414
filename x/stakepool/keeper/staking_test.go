package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/x/stakepool/types"
)

// TestSharesBootstrap tests that the first deposit mints shares 1:1
func TestSharesBootstrap(t *testing.T) {
	pool := types.NewPool("test", "Test", "utwist", "creator")

	amount := math.NewInt(500)
	shares, err := pool.SharesForDeposit(amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !shares.Equal(amount) {
		t.Errorf("expected bootstrap shares %s, got %s", amount, shares)
	}
}

// TestSharesProportional tests share issuance against existing pool state
func TestSharesProportional(t *testing.T) {
	pool := types.NewPool("test", "Test", "utwist", "creator")
	pool.TotalStaked = math.NewInt(1000)
	pool.TotalShares = math.NewInt(500)

	shares, err := pool.SharesForDeposit(math.NewInt(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 200 * 500 / 1000 = 100
	if !shares.Equal(math.NewInt(100)) {
		t.Errorf("expected 100 shares, got %s", shares)
	}
}

// TestAddYieldRequiresStakers tests that yield cannot vanish into an empty pool
func TestAddYieldRequiresStakers(t *testing.T) {
	pool := types.NewPool("test", "Test", "utwist", "creator")
	if err := pool.AddYield(math.NewInt(100)); err != types.ErrNoStakers {
		t.Errorf("expected ErrNoStakers, got %v", err)
	}
}

// TestEqualStakersSplitYieldEqually tests the two-staker 50/50 scenario:
// A stakes 500, B stakes 500, 100 yield arrives, each is owed 50.
func TestEqualStakersSplitYieldEqually(t *testing.T) {
	pool := types.NewPool("test", "Test", "utwist", "creator")

	stake := func(amount int64) *types.Position {
		amt := math.NewInt(amount)
		shares, err := pool.SharesForDeposit(amt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pos := types.NewPosition("test", "addr", types.LockTier30Days, 0)
		pos.Amount = amt
		pos.Shares = shares
		pos.RewardDebt = types.RewardDebt(shares, pool.RewardPerShare)
		pool.TotalStaked = pool.TotalStaked.Add(amt)
		pool.TotalShares = pool.TotalShares.Add(shares)
		return pos
	}

	a := stake(500)
	b := stake(500)

	if err := pool.AddYield(math.NewInt(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pendingA := types.PendingReward(a.Shares, pool.RewardPerShare, a.RewardDebt)
	pendingB := types.PendingReward(b.Shares, pool.RewardPerShare, b.RewardDebt)

	if !pendingA.Equal(math.NewInt(50)) {
		t.Errorf("expected A pending 50, got %s", pendingA)
	}
	if !pendingB.Equal(math.NewInt(50)) {
		t.Errorf("expected B pending 50, got %s", pendingB)
	}
}

// TestLateStakerEarnsNothingRetroactively tests that a deposit after a
// yield event is not owed any of that yield
func TestLateStakerEarnsNothingRetroactively(t *testing.T) {
	pool := types.NewPool("test", "Test", "utwist", "creator")

	earlyShares, _ := pool.SharesForDeposit(math.NewInt(1000))
	earlyDebt := types.RewardDebt(earlyShares, pool.RewardPerShare)
	pool.TotalStaked = pool.TotalStaked.Add(math.NewInt(1000))
	pool.TotalShares = pool.TotalShares.Add(earlyShares)

	if err := pool.AddYield(math.NewInt(300)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lateShares, _ := pool.SharesForDeposit(math.NewInt(1000))
	lateDebt := types.RewardDebt(lateShares, pool.RewardPerShare)
	pool.TotalStaked = pool.TotalStaked.Add(math.NewInt(1000))
	pool.TotalShares = pool.TotalShares.Add(lateShares)

	latePending := types.PendingReward(lateShares, pool.RewardPerShare, lateDebt)
	if !latePending.IsZero() {
		t.Errorf("expected zero retroactive pending, got %s", latePending)
	}

	earlyPending := types.PendingReward(earlyShares, pool.RewardPerShare, earlyDebt)
	if !earlyPending.Equal(math.NewInt(300)) {
		t.Errorf("expected early staker pending 300, got %s", earlyPending)
	}
}

// TestYieldConservation tests that the sum of distributable rewards never
// exceeds the yield deposited, and undershoots by less than the staker count
func TestYieldConservation(t *testing.T) {
	pool := types.NewPool("test", "Test", "utwist", "creator")

	stakes := []int64{333, 1007, 12, 9999, 650}
	var positions []*types.Position
	for _, amount := range stakes {
		amt := math.NewInt(amount)
		shares, err := pool.SharesForDeposit(amt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pos := &types.Position{
			Amount:     amt,
			Shares:     shares,
			RewardDebt: types.RewardDebt(shares, pool.RewardPerShare),
		}
		pool.TotalStaked = pool.TotalStaked.Add(amt)
		pool.TotalShares = pool.TotalShares.Add(shares)
		positions = append(positions, pos)
	}

	totalYield := math.ZeroInt()
	for _, y := range []int64{101, 7, 5000, 13} {
		if err := pool.AddYield(math.NewInt(y)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		totalYield = totalYield.Add(math.NewInt(y))
	}

	sum := math.ZeroInt()
	for _, pos := range positions {
		sum = sum.Add(types.PendingReward(pos.Shares, pool.RewardPerShare, pos.RewardDebt))
	}

	if sum.GT(totalYield) {
		t.Errorf("pending sum %s exceeds distributed yield %s", sum, totalYield)
	}
	dust := totalYield.Sub(sum)
	if dust.GTE(math.NewInt(int64(len(positions)) * 4)) {
		t.Errorf("rounding dust %s too large for %d stakers over 4 events", dust, len(positions))
	}
}

// TestAccrueTwiceYieldsNothing tests that a second accrual without new
// yield produces zero additional pending rewards
func TestAccrueTwiceYieldsNothing(t *testing.T) {
	pool := types.NewPool("test", "Test", "utwist", "creator")

	shares, _ := pool.SharesForDeposit(math.NewInt(1000))
	pos := &types.Position{
		Amount:         math.NewInt(1000),
		Shares:         shares,
		RewardDebt:     types.RewardDebt(shares, pool.RewardPerShare),
		PendingAccrued: math.ZeroInt(),
		RewardsClaimed: math.ZeroInt(),
	}
	pool.TotalStaked = math.NewInt(1000)
	pool.TotalShares = shares

	if err := pool.AddYield(math.NewInt(77)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos.Accrue(pool.RewardPerShare)
	first := pos.PendingAccrued
	if !first.Equal(math.NewInt(77)) {
		t.Errorf("expected first accrual 77, got %s", first)
	}

	pos.Accrue(pool.RewardPerShare)
	if !pos.PendingAccrued.Equal(first) {
		t.Errorf("second accrual changed pending: %s -> %s", first, pos.PendingAccrued)
	}
}

// TestAmountForSharesPreRemoval tests that redemption uses the totals
// before shares are removed
func TestAmountForSharesPreRemoval(t *testing.T) {
	pool := types.NewPool("test", "Test", "utwist", "creator")
	pool.TotalStaked = math.NewInt(3000)
	pool.TotalShares = math.NewInt(1000)

	amount, err := pool.AmountForShares(math.NewInt(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 400 * 3000 / 1000 = 1200
	if !amount.Equal(math.NewInt(1200)) {
		t.Errorf("expected 1200, got %s", amount)
	}

	if _, err := pool.AmountForShares(math.NewInt(1001)); err != types.ErrInsufficientShares {
		t.Errorf("expected ErrInsufficientShares, got %v", err)
	}
}

// TestPenaltyRateTiers tests the base penalty rate per lock tier
func TestPenaltyRateTiers(t *testing.T) {
	testCases := []struct {
		name       string
		lockPeriod int64
		expected   int64
	}{
		{"30 day tier", types.LockTier30Days, 500},
		{"90 day tier", types.LockTier90Days, 1000},
		{"180 day tier", types.LockTier180Days, 1500},
		{"365 day tier", types.LockTier365Days, 2000},
		{"between tiers rounds down", types.LockTier90Days + types.SecondsPerDay, 1000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := types.PenaltyRateBps(tc.lockPeriod); got != tc.expected {
				t.Errorf("expected %d bps, got %d", tc.expected, got)
			}
		})
	}
}

// TestEarlyExitPenaltyScaling tests that the penalty scales linearly with
// time remaining and vanishes after unlock
func TestEarlyExitPenaltyScaling(t *testing.T) {
	amount := math.NewInt(10_000)
	pos := types.NewPosition("test", "addr", types.LockTier90Days, 0)

	// Immediately after staking the full tier penalty applies: 10%.
	full := pos.EarlyExitPenalty(amount, 0)
	if !full.Equal(math.NewInt(1000)) {
		t.Errorf("expected full penalty 1000, got %s", full)
	}

	// Halfway through the lock the penalty halves.
	half := pos.EarlyExitPenalty(amount, types.LockTier90Days/2)
	if !half.Equal(math.NewInt(500)) {
		t.Errorf("expected half penalty 500, got %s", half)
	}

	// Monotonic decrease over the lock window.
	prev := full
	for _, elapsed := range []int64{10, 30, 45, 60, 89} {
		p := pos.EarlyExitPenalty(amount, elapsed*types.SecondsPerDay)
		if p.GT(prev) {
			t.Errorf("penalty increased over time at day %d: %s > %s", elapsed, p, prev)
		}
		prev = p
	}

	// After unlock, no penalty.
	after := pos.EarlyExitPenalty(amount, types.LockTier90Days+1)
	if !after.IsZero() {
		t.Errorf("expected zero penalty after unlock, got %s", after)
	}
}

// TestAPYTiers tests the reward rate per lock tier
func TestAPYTiers(t *testing.T) {
	testCases := []struct {
		lockPeriod int64
		expected   int64
	}{
		{types.LockTier30Days, 1000},
		{types.LockTier90Days, 2000},
		{types.LockTier180Days, 3500},
		{types.LockTier365Days, 6700},
	}

	for _, tc := range testCases {
		if got := types.APYBps(tc.lockPeriod); got != tc.expected {
			t.Errorf("lock %d: expected %d bps, got %d", tc.lockPeriod, tc.expected, got)
		}
	}
}
