package api

import (
	"github.com/twistprotocol/twist-chain/api/types"
)

// Re-export types for convenience
type (
	Pool                   = types.Pool
	StakePosition          = types.StakePosition
	SectorPool             = types.SectorPool
	LeaderboardEntry       = types.LeaderboardEntry
	Website                = types.Website
	BurnRecord             = types.BurnRecord
	SiteRankEntry          = types.SiteRankEntry
	EconomicState          = types.EconomicState
	ControllerState        = types.ControllerState
	StakeRequest           = types.StakeRequest
	WithdrawRequest        = types.WithdrawRequest
	StakeResponse          = types.StakeResponse
	ClaimResponse          = types.ClaimResponse
	BondStakeRequest       = types.BondStakeRequest
	BondStakeResponse      = types.BondStakeResponse
	BurnSubmission         = types.BurnSubmission
	BurnSubmissionResponse = types.BurnSubmissionResponse
	StakingService         = types.StakingService
	BondService            = types.BondService
	AttentionService       = types.AttentionService
	SupplyService          = types.SupplyService
)

// nowMillis returns current timestamp in milliseconds
func nowMillis() int64 {
	return types.NowMillis()
}
