package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/pkg/fixedpoint"
	"github.com/twistprotocol/twist-chain/x/bondpool/types"
)

// CreateSectorPool creates a new sector pool in the factory.
func (k *Keeper) CreateSectorPool(ctx context.Context, creator, sector string, lockDuration int64) (*types.BondPool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	factory := k.GetFactoryState(sdkCtx)
	if factory.Paused {
		return nil, types.ErrFactoryPaused
	}
	if !types.ValidSectorName(sector) {
		return nil, types.ErrInvalidSector
	}
	if k.GetPool(sdkCtx, sector) != nil {
		return nil, types.ErrPoolExists
	}
	if lockDuration < factory.MinBondDuration || lockDuration > factory.MaxBondDuration {
		return nil, types.ErrInvalidSector.Wrapf("lock duration %d outside [%d, %d]",
			lockDuration, factory.MinBondDuration, factory.MaxBondDuration)
	}

	pool := types.NewBondPool(sector, creator, lockDuration)
	k.SetPool(sdkCtx, pool)

	factory.PoolCount++
	factory.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetFactoryState(sdkCtx, factory)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bondpool_create",
			sdk.NewAttribute("sector", sector),
			sdk.NewAttribute("creator", creator),
			sdk.NewAttribute("wrapper_denom", pool.WrapperDenom),
		),
	)

	k.logger.Info("Sector pool created", "sector", sector, "creator", creator)
	return pool, nil
}

// SetFactoryPaused flips the factory pause switch. While paused, new
// pools and new stakes are rejected; claims and unwraps keep working so
// stakers are never trapped.
func (k *Keeper) SetFactoryPaused(ctx context.Context, paused bool) *types.FactoryState {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	factory := k.GetFactoryState(sdkCtx)
	factory.Paused = paused
	factory.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetFactoryState(sdkCtx, factory)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bondpool_pause",
			sdk.NewAttribute("paused", strconv.FormatBool(paused)),
		),
	)

	k.logger.Info("Factory pause updated", "paused", paused)
	return factory
}

// UpdateFactoryParams replaces the factory's tunable parameters. Values
// are absolute; existing pools pick up the new split on their next
// yield event.
func (k *Keeper) UpdateFactoryParams(ctx context.Context, burnBps, stakerBps, earlyUnwrapBps, minDuration, maxDuration int64) (*types.FactoryState, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if minDuration <= 0 || maxDuration < minDuration {
		return nil, types.ErrInvalidAmount.Wrapf("bond duration range [%d, %d] invalid", minDuration, maxDuration)
	}
	if earlyUnwrapBps < 0 || earlyUnwrapBps > 10_000 {
		return nil, types.ErrInvalidAmount.Wrapf("early unwrap penalty %d bps out of range", earlyUnwrapBps)
	}

	factory := k.GetFactoryState(sdkCtx)
	factory.BurnBps = burnBps
	factory.StakerBps = stakerBps
	factory.EarlyUnwrapBps = earlyUnwrapBps
	factory.MinBondDuration = minDuration
	factory.MaxBondDuration = maxDuration
	if err := factory.Validate(); err != nil {
		return nil, err
	}
	factory.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetFactoryState(sdkCtx, factory)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bondpool_params",
			sdk.NewAttribute("burn_bps", math.NewInt(burnBps).String()),
			sdk.NewAttribute("staker_bps", math.NewInt(stakerBps).String()),
			sdk.NewAttribute("early_unwrap_bps", math.NewInt(earlyUnwrapBps).String()),
		),
	)

	k.logger.Info("Factory params updated",
		"burn_bps", burnBps,
		"staker_bps", stakerBps,
		"early_unwrap_bps", earlyUnwrapBps,
	)
	return factory, nil
}

// Stake wraps TWIST into a sector pool: the principal moves into the
// module vault and wrapper tokens are minted 1:1 to the staker. An
// existing position has its rewards flushed before the principal grows.
func (k *Keeper) Stake(ctx context.Context, staker, sector string, amount math.Int) (*types.BondPosition, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	factory := k.GetFactoryState(sdkCtx)
	if factory.Paused {
		return nil, types.ErrFactoryPaused
	}
	pool := k.GetPool(sdkCtx, sector)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if !pool.Active {
		return nil, types.ErrPoolInactive
	}
	if !amount.IsPositive() {
		return nil, types.ErrInvalidAmount
	}

	shares, err := pool.SharesForDeposit(amount)
	if err != nil {
		return nil, err
	}

	stakerAddr, err := sdk.AccAddressFromBech32(staker)
	if err != nil {
		return nil, err
	}

	principal := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, stakerAddr, types.ModuleName, principal); err != nil {
		return nil, err
	}

	// Mint wrapper tokens 1:1 against the staked principal.
	wrapped := sdk.NewCoins(sdk.NewCoin(pool.WrapperDenom, amount))
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, wrapped); err != nil {
		return nil, err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, stakerAddr, wrapped); err != nil {
		return nil, err
	}

	now := sdkCtx.BlockTime().Unix()
	pos := k.GetPosition(sdkCtx, sector, staker)
	if pos == nil {
		pos = types.NewBondPosition(staker, sector, pool.LockDuration, now)
		pool.StakerCount++
	} else {
		pos.Accrue(pool)
	}

	pos.AmountStaked = pos.AmountStaked.Add(amount)
	pos.Shares = pos.Shares.Add(shares)
	pos.RewardDebt = types.ShareRewardDebt(pos.Shares, pool.RewardPerShare)
	pos.ClaimedCursor = pool.YieldIntegral
	pos.UpdatedAt = now

	pool.TotalStaked = pool.TotalStaked.Add(amount)
	pool.TotalShares = pool.TotalShares.Add(shares)
	pool.UpdatedAt = now

	factory.TotalValueLocked = factory.TotalValueLocked.Add(amount)
	factory.UpdatedAt = now

	k.SetPosition(sdkCtx, pos)
	k.SetPool(sdkCtx, pool)
	k.SetFactoryState(sdkCtx, factory)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bondpool_stake",
			sdk.NewAttribute("sector", sector),
			sdk.NewAttribute("staker", staker),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("shares", shares.String()),
		),
	)

	k.logger.Info("Bond stake processed",
		"sector", sector,
		"staker", staker,
		"amount", amount.String(),
		"shares", shares.String(),
	)

	return pos, nil
}

// DistributeYield routes a yield amount into a sector pool: the burn
// portion of the split is destroyed, the remainder feeds both reward
// accumulators. Funds are pulled from sourceModule's account.
func (k *Keeper) DistributeYield(ctx context.Context, sourceModule, sector string, amount math.Int) (burned, toStakers math.Int, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	zero := math.ZeroInt()

	pool := k.GetPool(sdkCtx, sector)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}
	if !pool.Active {
		return zero, zero, types.ErrPoolInactive
	}

	factory := k.GetFactoryState(sdkCtx)
	burned, toStakers, err = factory.SplitYield(amount)
	if err != nil {
		return zero, zero, err
	}

	if sourceModule != "" && sourceModule != types.ModuleName {
		coins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, amount))
		if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, sourceModule, types.ModuleName, coins); err != nil {
			return zero, zero, err
		}
	}

	if burned.IsPositive() {
		burnCoins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, burned))
		if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, burnCoins); err != nil {
			return zero, zero, err
		}
	}

	if toStakers.IsPositive() {
		if err := pool.ApplyYield(toStakers); err != nil {
			return zero, zero, err
		}
	}

	now := sdkCtx.BlockTime().Unix()
	pool.TotalBurned = pool.TotalBurned.Add(burned)
	pool.UpdatedAt = now
	factory.TotalBurned = factory.TotalBurned.Add(burned)
	factory.UpdatedAt = now

	k.SetPool(sdkCtx, pool)
	k.SetFactoryState(sdkCtx, factory)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bondpool_yield",
			sdk.NewAttribute("sector", sector),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("burned", burned.String()),
			sdk.NewAttribute("to_stakers", toStakers.String()),
		),
	)

	k.logger.Info("Yield distributed",
		"sector", sector,
		"amount", amount.String(),
		"burned", burned.String(),
		"to_stakers", toStakers.String(),
	)

	return burned, toStakers, nil
}

// ClaimRewards pays out a position's pending rewards, reconciling the
// share and integral methods and advancing both snapshots together.
func (k *Keeper) ClaimRewards(ctx context.Context, staker, sector string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pool := k.GetPool(sdkCtx, sector)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	pos := k.GetPosition(sdkCtx, sector, staker)
	if pos == nil {
		return math.ZeroInt(), types.ErrPositionNotFound
	}

	pos.Accrue(pool)
	amount := pos.PendingAccrued
	if !amount.IsPositive() {
		k.SetPosition(sdkCtx, pos)
		return math.ZeroInt(), nil
	}
	pos.PendingAccrued = math.ZeroInt()
	pos.RewardsClaimed = pos.RewardsClaimed.Add(amount)
	pos.UpdatedAt = sdkCtx.BlockTime().Unix()

	stakerAddr, err := sdk.AccAddressFromBech32(staker)
	if err != nil {
		return math.ZeroInt(), err
	}
	coins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, stakerAddr, coins); err != nil {
		return math.ZeroInt(), err
	}

	k.SetPosition(sdkCtx, pos)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bondpool_claim",
			sdk.NewAttribute("sector", sector),
			sdk.NewAttribute("staker", staker),
			sdk.NewAttribute("amount", amount.String()),
		),
	)

	k.logger.Info("Bond rewards claimed", "sector", sector, "staker", staker, "amount", amount.String())
	return amount, nil
}

// Unwrap redeems wrapper tokens for principal after the bond matures.
// Rewards are flushed and paid first, then the wrapper tokens are burned
// and the principal returned.
func (k *Keeper) Unwrap(ctx context.Context, staker, sector string, amount math.Int) (math.Int, error) {
	return k.unwrap(ctx, staker, sector, amount, false)
}

// EarlyUnwrap redeems wrapper tokens before maturity. A flat penalty is
// deducted from the principal and burned.
func (k *Keeper) EarlyUnwrap(ctx context.Context, staker, sector string, amount math.Int) (math.Int, error) {
	return k.unwrap(ctx, staker, sector, amount, true)
}

func (k *Keeper) unwrap(ctx context.Context, staker, sector string, amount math.Int, early bool) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	zero := math.ZeroInt()

	pool := k.GetPool(sdkCtx, sector)
	if pool == nil {
		return zero, types.ErrPoolNotFound
	}
	pos := k.GetPosition(sdkCtx, sector, staker)
	if pos == nil {
		return zero, types.ErrPositionNotFound
	}
	if !amount.IsPositive() {
		return zero, types.ErrInvalidAmount
	}
	if amount.GT(pos.AmountStaked) {
		return zero, types.ErrInsufficientStake
	}

	now := sdkCtx.BlockTime().Unix()
	if !early && !pos.CanWithdraw(now) {
		return zero, types.ErrInsufficientStake.Wrapf("bond locked until %d", pos.UnlockTime)
	}

	// Flush and pay rewards before touching the principal.
	pos.Accrue(pool)
	rewards := pos.PendingAccrued
	pos.PendingAccrued = math.ZeroInt()
	pos.RewardsClaimed = pos.RewardsClaimed.Add(rewards)

	// Shares removed proportionally to the principal leaving. A full exit
	// takes the position's entire share balance, so truncation cannot leave
	// dust shares behind with no principal backing them.
	var shares math.Int
	if amount.Equal(pos.AmountStaked) {
		shares = pos.Shares
	} else {
		var err error
		shares, err = fixedpoint.MulDiv(amount, pool.TotalShares, pool.TotalStaked)
		if err != nil {
			return zero, types.ErrMathOverflow
		}
		if shares.GT(pos.Shares) {
			shares = pos.Shares
		}
	}

	stakerAddr, err := sdk.AccAddressFromBech32(staker)
	if err != nil {
		return zero, err
	}

	// Burn the wrapper tokens being redeemed.
	wrapped := sdk.NewCoins(sdk.NewCoin(pool.WrapperDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, stakerAddr, types.ModuleName, wrapped); err != nil {
		return zero, err
	}
	if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, wrapped); err != nil {
		return zero, err
	}

	factory := k.GetFactoryState(sdkCtx)
	penalty := math.ZeroInt()
	if early && !pos.CanWithdraw(now) {
		penalty = factory.EarlyUnwrapPenalty(amount)
	}
	returned := amount.Sub(penalty)

	payout := returned.Add(rewards)
	if payout.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, payout))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, stakerAddr, coins); err != nil {
			return zero, err
		}
	}
	if penalty.IsPositive() {
		burnCoins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, penalty))
		if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, burnCoins); err != nil {
			return zero, err
		}
		pool.TotalBurned = pool.TotalBurned.Add(penalty)
		factory.TotalBurned = factory.TotalBurned.Add(penalty)
	}

	pos.AmountStaked = pos.AmountStaked.Sub(amount)
	pos.Shares = pos.Shares.Sub(shares)
	pos.RewardDebt = types.ShareRewardDebt(pos.Shares, pool.RewardPerShare)
	pos.ClaimedCursor = pool.YieldIntegral
	pos.UpdatedAt = now

	pool.TotalStaked = pool.TotalStaked.Sub(amount)
	pool.TotalShares = pool.TotalShares.Sub(shares)
	pool.UpdatedAt = now

	factory.TotalValueLocked = fixedpoint.SaturatingSub(factory.TotalValueLocked, amount)
	factory.UpdatedAt = now

	if pos.Shares.IsZero() {
		k.DeletePosition(sdkCtx, sector, staker)
		if pool.StakerCount > 0 {
			pool.StakerCount--
		}
	} else {
		k.SetPosition(sdkCtx, pos)
	}
	k.SetPool(sdkCtx, pool)
	k.SetFactoryState(sdkCtx, factory)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bondpool_unwrap",
			sdk.NewAttribute("sector", sector),
			sdk.NewAttribute("staker", staker),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("penalty", penalty.String()),
			sdk.NewAttribute("returned", returned.String()),
			sdk.NewAttribute("rewards", rewards.String()),
		),
	)

	k.logger.Info("Unwrap processed",
		"sector", sector,
		"staker", staker,
		"amount", amount.String(),
		"penalty", penalty.String(),
		"early", early,
	)

	return returned, nil
}

// PendingRewards returns the live pending rewards for a position using
// both accounting methods, without mutating state.
func (k *Keeper) PendingRewards(ctx sdk.Context, staker, sector string) math.Int {
	pool := k.GetPool(ctx, sector)
	if pool == nil {
		return math.ZeroInt()
	}
	pos := k.GetPosition(ctx, sector, staker)
	if pos == nil {
		return math.ZeroInt()
	}
	share := types.PendingShareReward(pos.Shares, pool.RewardPerShare, pos.RewardDebt)
	integral := types.PendingIntegralReward(pool.YieldIntegral, pos.ClaimedCursor, pos.AmountStaked)
	return pos.PendingAccrued.Add(types.ReconcilePending(share, integral))
}
