package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/supply/types"
)

// MsgServer defines the supply MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// UpdateAggregatedPrice handles MsgUpdateAggregatedPrice
func (m *MsgServer) UpdateAggregatedPrice(ctx context.Context, msg *types.MsgUpdateAggregatedPrice) (*types.MsgUpdateAggregatedPriceResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	price, err := m.keeper.UpdateAggregatedPrice(sdkCtx, msg.Sources)
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateAggregatedPriceResponse{Price: price}, nil
}

// ExecutePID handles MsgExecutePID
func (m *MsgServer) ExecutePID(ctx context.Context, msg *types.MsgExecutePID) (*types.MsgExecutePIDResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	adjustment, err := m.keeper.ExecutePID(sdkCtx)
	if err != nil {
		return nil, err
	}
	return &types.MsgExecutePIDResponse{
		AdjustmentType: string(adjustment.Type),
		Amount:         adjustment.Amount.String(),
	}, nil
}

// InitializePID handles MsgInitializePID
func (m *MsgServer) InitializePID(ctx context.Context, msg *types.MsgInitializePID) (*types.MsgInitializePIDResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.InitializePID(sdkCtx, msg.Authority, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgInitializePIDResponse{}, nil
}

// UpdatePIDParams handles MsgUpdatePIDParams
func (m *MsgServer) UpdatePIDParams(ctx context.Context, msg *types.MsgUpdatePIDParams) (*types.MsgUpdatePIDParamsResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.UpdatePIDParams(sdkCtx, msg.Authority, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgUpdatePIDParamsResponse{}, nil
}

// ResetPID handles MsgResetPID
func (m *MsgServer) ResetPID(ctx context.Context, msg *types.MsgResetPID) (*types.MsgResetPIDResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.ResetPID(sdkCtx, msg.Authority); err != nil {
		return nil, err
	}
	return &types.MsgResetPIDResponse{}, nil
}

// TripCircuitBreaker handles MsgTripCircuitBreaker
func (m *MsgServer) TripCircuitBreaker(ctx context.Context, msg *types.MsgTripCircuitBreaker) (*types.MsgTripCircuitBreakerResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.TripCircuitBreaker(sdkCtx, msg.Authority, msg.Reason, types.Severity(msg.Severity)); err != nil {
		return nil, err
	}
	return &types.MsgTripCircuitBreakerResponse{}, nil
}

// UpdateMarketStats handles MsgUpdateMarketStats
func (m *MsgServer) UpdateMarketStats(ctx context.Context, msg *types.MsgUpdateMarketStats) (*types.MsgUpdateMarketStatsResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	volume1h, ok := math.NewIntFromString(msg.Volume1h)
	if !ok {
		return nil, types.ErrInvalidMarketStats
	}
	volume24h, ok := math.NewIntFromString(msg.Volume24h)
	if !ok {
		return nil, types.ErrInvalidMarketStats
	}
	floorLiquidity, ok := math.NewIntFromString(msg.FloorLiquidity)
	if !ok {
		return nil, types.ErrInvalidMarketStats
	}

	if err := m.keeper.UpdateMarketStats(sdkCtx, msg.Authority, volume1h, volume24h, floorLiquidity); err != nil {
		return nil, err
	}
	return &types.MsgUpdateMarketStatsResponse{}, nil
}

// ResetCircuitBreaker handles MsgResetCircuitBreaker
func (m *MsgServer) ResetCircuitBreaker(ctx context.Context, msg *types.MsgResetCircuitBreaker) (*types.MsgResetCircuitBreakerResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.ResetCircuitBreaker(sdkCtx, msg.Authority); err != nil {
		return nil, err
	}
	return &types.MsgResetCircuitBreakerResponse{}, nil
}
