package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/x/vau/types"
)

// MsgServer defines the vau MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// RegisterWebsite handles MsgRegisterWebsite
func (m *MsgServer) RegisterWebsite(ctx context.Context, msg *types.MsgRegisterWebsite) (*types.MsgRegisterWebsiteResponse, error) {
	site, err := m.keeper.RegisterWebsite(ctx, msg.Owner, msg.SiteURL, msg.Sector)
	if err != nil {
		return nil, err
	}
	return &types.MsgRegisterWebsiteResponse{SiteHash: site.SiteHash}, nil
}

// VerifyWebsite handles MsgVerifyWebsite
func (m *MsgServer) VerifyWebsite(ctx context.Context, msg *types.MsgVerifyWebsite) (*types.MsgVerifyWebsiteResponse, error) {
	if err := m.keeper.VerifyWebsite(ctx, msg.Authority, msg.SiteHash); err != nil {
		return nil, err
	}
	return &types.MsgVerifyWebsiteResponse{}, nil
}

// AddEdgeWorker handles MsgAddEdgeWorker
func (m *MsgServer) AddEdgeWorker(ctx context.Context, msg *types.MsgAddEdgeWorker) (*types.MsgAddEdgeWorkerResponse, error) {
	if err := m.keeper.AddEdgeWorker(ctx, msg.Authority, msg.Worker); err != nil {
		return nil, err
	}
	return &types.MsgAddEdgeWorkerResponse{}, nil
}

// ProcessVisitorBurn handles MsgProcessVisitorBurn
func (m *MsgServer) ProcessVisitorBurn(ctx context.Context, msg *types.MsgProcessVisitorBurn) (*types.MsgProcessVisitorBurnResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrBurnTooSmall
	}

	record, err := m.keeper.ProcessVisitorBurn(ctx, msg.EdgeWorker, msg.Visitor, msg.SiteURL, msg.PageID, amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgProcessVisitorBurnResponse{
		RecordID:     record.RecordID,
		ProcessorFee: record.ProcessorFee.String(),
		AmountToPool: record.AmountToPool.String(),
	}, nil
}

// UpdateWebsiteMetrics handles MsgUpdateWebsiteMetrics
func (m *MsgServer) UpdateWebsiteMetrics(ctx context.Context, msg *types.MsgUpdateWebsiteMetrics) (*types.MsgUpdateWebsiteMetricsResponse, error) {
	site, err := m.keeper.UpdateWebsiteMetrics(ctx, msg.EdgeWorker, msg.SiteHash, msg.UniqueVisitors)
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateWebsiteMetricsResponse{
		AvgBurnPerVisit: site.AvgBurnPerVisit.String(),
	}, nil
}

// ClaimProcessorFees handles MsgClaimProcessorFees
func (m *MsgServer) ClaimProcessorFees(ctx context.Context, msg *types.MsgClaimProcessorFees) (*types.MsgClaimProcessorFeesResponse, error) {
	amount, err := m.keeper.ClaimProcessorFees(ctx, msg.Authority)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimProcessorFeesResponse{AmountClaimed: amount.String()}, nil
}
