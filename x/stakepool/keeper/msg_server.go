package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/stakepool/types"
)

// MsgServer defines the stakepool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	pool, err := m.keeper.CreatePool(ctx, msg.Creator, msg.PoolID, msg.Name, msg.Denom)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolResponse{PoolID: pool.PoolID}, nil
}

// Stake handles MsgStake
func (m *MsgServer) Stake(ctx context.Context, msg *types.MsgStake) (*types.MsgStakeResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	pos, err := m.keeper.Stake(ctx, msg.Staker, msg.PoolID, amount, msg.LockPeriod)
	if err != nil {
		return nil, err
	}

	return &types.MsgStakeResponse{
		PositionID:     pos.PositionID,
		SharesReceived: pos.Shares.String(),
		UnlockTime:     pos.UnlockTime,
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	shares, ok := math.NewIntFromString(msg.Shares)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	returned, penalty, rewards, err := m.keeper.Withdraw(ctx, msg.Staker, msg.PoolID, shares)
	if err != nil {
		return nil, err
	}

	return &types.MsgWithdrawResponse{
		AmountReturned: returned.String(),
		PenaltyPaid:    penalty.String(),
		RewardsPaid:    rewards.String(),
	}, nil
}

// ClaimRewards handles MsgClaimRewards
func (m *MsgServer) ClaimRewards(ctx context.Context, msg *types.MsgClaimRewards) (*types.MsgClaimRewardsResponse, error) {
	amount, err := m.keeper.ClaimRewards(ctx, msg.Staker, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimRewardsResponse{AmountClaimed: amount.String()}, nil
}

// DistributeYield handles MsgDistributeYield (authority only)
func (m *MsgServer) DistributeYield(ctx context.Context, msg *types.MsgDistributeYield) (*types.MsgDistributeYieldResponse, error) {
	if msg.Authority != m.keeper.GetAuthority() {
		return nil, types.ErrUnauthorized
	}

	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := m.keeper.GetPool(sdkCtx, msg.PoolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}

	// The yield is funded from the authority's own balance so staked
	// principal in the vault is never paid out as rewards.
	authorityAddr, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(pool.Denom, amount))
	if err := m.keeper.bankKeeper.SendCoinsFromAccountToModule(ctx, authorityAddr, types.ModuleName, coins); err != nil {
		return nil, err
	}

	if err := m.keeper.DistributeYield(ctx, types.ModuleName, msg.PoolID, amount); err != nil {
		return nil, err
	}

	pool = m.keeper.GetPool(sdkCtx, msg.PoolID)

	return &types.MsgDistributeYieldResponse{
		NewRewardPerShare: pool.RewardPerShare.String(),
	}, nil
}
