package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/bondpool/types"
)

// MsgServer defines the bondpool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreateSectorPool handles MsgCreateSectorPool
func (m *MsgServer) CreateSectorPool(ctx context.Context, msg *types.MsgCreateSectorPool) (*types.MsgCreateSectorPoolResponse, error) {
	pool, err := m.keeper.CreateSectorPool(ctx, msg.Creator, msg.Sector, msg.LockDuration)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateSectorPoolResponse{
		Sector:       pool.Sector,
		WrapperDenom: pool.WrapperDenom,
	}, nil
}

// BondStake handles MsgBondStake
func (m *MsgServer) BondStake(ctx context.Context, msg *types.MsgBondStake) (*types.MsgBondStakeResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	pos, err := m.keeper.Stake(ctx, msg.Staker, msg.Sector, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgBondStakeResponse{
		SharesReceived: pos.Shares.String(),
		WrapperDenom:   types.WrapperDenom(msg.Sector),
		UnlockTime:     pos.UnlockTime,
	}, nil
}

// Unwrap handles MsgUnwrap
func (m *MsgServer) Unwrap(ctx context.Context, msg *types.MsgUnwrap) (*types.MsgUnwrapResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidAmount
	}

	var returned math.Int
	var err error
	if msg.Early {
		returned, err = m.keeper.EarlyUnwrap(ctx, msg.Staker, msg.Sector, amount)
	} else {
		returned, err = m.keeper.Unwrap(ctx, msg.Staker, msg.Sector, amount)
	}
	if err != nil {
		return nil, err
	}

	return &types.MsgUnwrapResponse{
		AmountReturned: returned.String(),
		PenaltyBurned:  amount.Sub(returned).String(),
	}, nil
}

// ClaimBondRewards handles MsgClaimBondRewards
func (m *MsgServer) ClaimBondRewards(ctx context.Context, msg *types.MsgClaimBondRewards) (*types.MsgClaimBondRewardsResponse, error) {
	amount, err := m.keeper.ClaimRewards(ctx, msg.Staker, msg.Sector)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimBondRewardsResponse{AmountClaimed: amount.String()}, nil
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

	// The yield is funded from the authority's own balance. Moving it into
	// the vault before the split keeps staked principal untouched by the
	// burn leg.
	authorityAddr, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, err
	}
	coins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, amount))
	if err := m.keeper.bankKeeper.SendCoinsFromAccountToModule(ctx, authorityAddr, types.ModuleName, coins); err != nil {
		return nil, err
	}

	burned, toStakers, err := m.keeper.DistributeYield(ctx, types.ModuleName, msg.Sector, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgDistributeYieldResponse{
		Burned:    burned.String(),
		ToStakers: toStakers.String(),
	}, nil
}

// SetFactoryPaused handles MsgSetFactoryPaused (authority only)
func (m *MsgServer) SetFactoryPaused(ctx context.Context, msg *types.MsgSetFactoryPaused) (*types.MsgSetFactoryPausedResponse, error) {
	if msg.Authority != m.keeper.GetAuthority() {
		return nil, types.ErrUnauthorized
	}

	factory := m.keeper.SetFactoryPaused(ctx, msg.Paused)
	return &types.MsgSetFactoryPausedResponse{Paused: factory.Paused}, nil
}

// UpdateFactoryParams handles MsgUpdateFactoryParams (authority only)
func (m *MsgServer) UpdateFactoryParams(ctx context.Context, msg *types.MsgUpdateFactoryParams) (*types.MsgUpdateFactoryParamsResponse, error) {
	if msg.Authority != m.keeper.GetAuthority() {
		return nil, types.ErrUnauthorized
	}

	_, err := m.keeper.UpdateFactoryParams(ctx,
		msg.BurnBps, msg.StakerBps, msg.EarlyUnwrapBps,
		msg.MinBondDuration, msg.MaxBondDuration)
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateFactoryParamsResponse{}, nil
}
