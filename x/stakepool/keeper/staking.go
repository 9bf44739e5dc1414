package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/pkg/fixedpoint"
	"github.com/twistprotocol/twist-chain/x/stakepool/types"
)

// CreatePool creates a new staking pool
func (k *Keeper) CreatePool(ctx context.Context, creator, poolID, name, denom string) (*types.Pool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if k.GetPool(sdkCtx, poolID) != nil {
		return nil, types.ErrPoolAlreadyExists
	}
	if denom == "" {
		denom = types.DefaultDenom
	}

	pool := types.NewPool(poolID, name, denom, creator)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stakepool_create",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("creator", creator),
			sdk.NewAttribute("denom", denom),
		),
	)

	k.logger.Info("Pool created", "pool_id", poolID, "creator", creator)
	return pool, nil
}

// Stake deposits tokens into a pool. Any pending rewards on an existing
// position are flushed before the principal is mutated so the new stake
// cannot dilute rewards already earned.
func (k *Keeper) Stake(ctx context.Context, staker, poolID string, amount math.Int, lockPeriod int64) (*types.Position, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if pool.Status != types.PoolStatusActive {
		return nil, types.ErrPoolNotActive
	}
	if amount.LT(pool.MinStake) {
		return nil, types.ErrStakeTooSmall
	}
	if amount.GT(pool.MaxStake) {
		return nil, types.ErrStakeTooLarge
	}
	if lockPeriod < types.MinLockPeriod || lockPeriod > types.MaxLockPeriod {
		return nil, types.ErrInvalidLockPeriod
	}

	shares, err := pool.SharesForDeposit(amount)
	if err != nil {
		return nil, err
	}
	if !shares.IsPositive() {
		return nil, types.ErrShareCalculation
	}

	stakerAddr, err := sdk.AccAddressFromBech32(staker)
	if err != nil {
		return nil, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.Denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, stakerAddr, types.ModuleName, coins); err != nil {
		return nil, err
	}

	now := sdkCtx.BlockTime().Unix()
	pos := k.GetPosition(sdkCtx, poolID, staker)
	if pos == nil || pos.Withdrawn {
		pos = types.NewPosition(poolID, staker, lockPeriod, now)
		pool.StakerCount++
	} else {
		// Re-staking refreshes the lock when the new period is longer.
		pos.Accrue(pool.RewardPerShare)
		if now+lockPeriod > pos.UnlockTime {
			pos.LockPeriod = lockPeriod
			pos.UnlockTime = now + lockPeriod
		}
	}

	pos.Amount = pos.Amount.Add(amount)
	pos.Shares = pos.Shares.Add(shares)
	pos.RewardDebt = types.RewardDebt(pos.Shares, pool.RewardPerShare)

	pool.TotalStaked = pool.TotalStaked.Add(amount)
	pool.TotalShares = pool.TotalShares.Add(shares)
	pool.UpdatedAt = now

	k.SetPosition(sdkCtx, pos)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stakepool_stake",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("staker", staker),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("shares", shares.String()),
			sdk.NewAttribute("unlock_time", strconv.FormatInt(pos.UnlockTime, 10)),
		),
	)

	k.logger.Info("Stake processed",
		"pool_id", poolID,
		"staker", staker,
		"amount", amount.String(),
		"shares", shares.String(),
	)

	return pos, nil
}

// Withdraw redeems shares for principal. Pending rewards are paid out
// first; an early exit forfeits a lock-tier penalty, scaled by the time
// remaining, to the treasury.
func (k *Keeper) Withdraw(ctx context.Context, staker, poolID string, shares math.Int) (returned, penalty, rewards math.Int, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	zero := math.ZeroInt()

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return zero, zero, zero, types.ErrPoolNotFound
	}
	pos := k.GetPosition(sdkCtx, poolID, staker)
	if pos == nil {
		return zero, zero, zero, types.ErrPositionNotFound
	}
	if pos.Withdrawn {
		return zero, zero, zero, types.ErrPositionWithdrawn
	}
	if !shares.IsPositive() || shares.GT(pos.Shares) {
		return zero, zero, zero, types.ErrInsufficientShares
	}

	// Flush rewards before the share count changes.
	pos.Accrue(pool.RewardPerShare)
	rewards = pos.PendingAccrued
	pos.PendingAccrued = math.ZeroInt()
	pos.RewardsClaimed = pos.RewardsClaimed.Add(rewards)

	// Principal is redeemed against pre-removal totals.
	amount, err := pool.AmountForShares(shares)
	if err != nil {
		return zero, zero, zero, err
	}

	now := sdkCtx.BlockTime().Unix()
	penalty = pos.EarlyExitPenalty(amount, now)
	returned = amount.Sub(penalty)

	stakerAddr, err := sdk.AccAddressFromBech32(staker)
	if err != nil {
		return zero, zero, zero, err
	}

	payout := returned.Add(rewards)
	if payout.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(pool.Denom, payout))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, stakerAddr, coins); err != nil {
			return zero, zero, zero, err
		}
	}
	if penalty.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(pool.Denom, penalty))
		if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, types.TreasuryPoolName, coins); err != nil {
			return zero, zero, zero, err
		}
		pool.TotalPenalties = pool.TotalPenalties.Add(penalty)
	}

	pos.Shares = pos.Shares.Sub(shares)
	pos.Amount = fixedpoint.SaturatingSub(pos.Amount, amount)
	pos.RewardDebt = types.RewardDebt(pos.Shares, pool.RewardPerShare)
	if pos.Shares.IsZero() {
		pos.Withdrawn = true
		if pool.StakerCount > 0 {
			pool.StakerCount--
		}
	}

	pool.TotalStaked = pool.TotalStaked.Sub(amount)
	pool.TotalShares = pool.TotalShares.Sub(shares)
	pool.UpdatedAt = now

	k.SetPosition(sdkCtx, pos)
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stakepool_withdraw",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("staker", staker),
			sdk.NewAttribute("shares", shares.String()),
			sdk.NewAttribute("returned", returned.String()),
			sdk.NewAttribute("penalty", penalty.String()),
			sdk.NewAttribute("rewards", rewards.String()),
		),
	)

	k.logger.Info("Withdrawal processed",
		"pool_id", poolID,
		"staker", staker,
		"returned", returned.String(),
		"penalty", penalty.String(),
	)

	return returned, penalty, rewards, nil
}

// ClaimRewards pays out a position's pending rewards. Claiming with
// nothing pending is a no-op that returns zero.
func (k *Keeper) ClaimRewards(ctx context.Context, staker, poolID string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	pos := k.GetPosition(sdkCtx, poolID, staker)
	if pos == nil {
		return math.ZeroInt(), types.ErrPositionNotFound
	}

	pos.Accrue(pool.RewardPerShare)
	amount := pos.PendingAccrued
	if !amount.IsPositive() {
		k.SetPosition(sdkCtx, pos)
		return math.ZeroInt(), nil
	}
	pos.PendingAccrued = math.ZeroInt()
	pos.RewardsClaimed = pos.RewardsClaimed.Add(amount)

	stakerAddr, err := sdk.AccAddressFromBech32(staker)
	if err != nil {
		return math.ZeroInt(), err
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.Denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, stakerAddr, coins); err != nil {
		return math.ZeroInt(), err
	}

	k.SetPosition(sdkCtx, pos)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stakepool_claim",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("staker", staker),
			sdk.NewAttribute("amount", amount.String()),
		),
	)

	k.logger.Info("Rewards claimed", "pool_id", poolID, "staker", staker, "amount", amount.String())
	return amount, nil
}

// DistributeYield folds yield into the pool accumulator. The funds are
// moved from the caller's module account so the pool can always honor
// subsequent claims. Fails when the pool is empty.
func (k *Keeper) DistributeYield(ctx context.Context, sourceModule, poolID string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if err := pool.AddYield(amount); err != nil {
		return err
	}

	if sourceModule != "" && sourceModule != types.ModuleName {
		coins := sdk.NewCoins(sdk.NewCoin(pool.Denom, amount))
		if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, sourceModule, types.ModuleName, coins); err != nil {
			return err
		}
	}

	pool.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetPool(sdkCtx, pool)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stakepool_yield",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("reward_per_share", pool.RewardPerShare.String()),
		),
	)

	k.logger.Info("Yield distributed", "pool_id", poolID, "amount", amount.String())
	return nil
}

// PendingRewards returns the live pending rewards for a position without
// mutating state.
func (k *Keeper) PendingRewards(ctx sdk.Context, staker, poolID string) math.Int {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return math.ZeroInt()
	}
	pos := k.GetPosition(ctx, poolID, staker)
	if pos == nil {
		return math.ZeroInt()
	}
	pending := types.PendingReward(pos.Shares, pool.RewardPerShare, pos.RewardDebt)
	return pos.PendingAccrued.Add(pending)
}
