package types

import (
	"context"
	"time"
)

// Pool represents a staking pool in the API response
type Pool struct {
	PoolID         uint64 `json:"pool_id"`
	Name           string `json:"name"`
	TotalStaked    string `json:"total_staked"`
	TotalShares    string `json:"total_shares"`
	RewardPerShare string `json:"reward_per_share"`
	StakerCount    int    `json:"staker_count"`
	Paused         bool   `json:"paused"`
	CreatedAt      int64  `json:"created_at"`
}

// StakePosition represents a staking position in the API response
type StakePosition struct {
	Owner          string `json:"owner"`
	PoolID         uint64 `json:"pool_id"`
	Shares         string `json:"shares"`
	StakedAmount   string `json:"staked_amount"`
	PendingRewards string `json:"pending_rewards"`
	LockEnd        int64  `json:"lock_end"`
	CreatedAt      int64  `json:"created_at"`
}

// SectorPool represents a sector bond pool in the API response
type SectorPool struct {
	Sector       string `json:"sector"`
	WrapperDenom string `json:"wrapper_denom"`
	TotalBonded  string `json:"total_bonded"`
	TotalShares  string `json:"total_shares"`
	LockSeconds  int64  `json:"lock_seconds"`
	StakerCount  int    `json:"staker_count"`
	CreatedAt    int64  `json:"created_at"`
}

// LeaderboardEntry represents one row of the TVL leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Sector      string `json:"sector"`
	TotalBonded string `json:"total_bonded"`
}

// Website represents a registered website in the API response
type Website struct {
	SiteHash     string `json:"site_hash"`
	SiteURL      string `json:"site_url"`
	Owner        string `json:"owner"`
	Sector       string `json:"sector"`
	Verified     bool   `json:"verified"`
	Active       bool   `json:"active"`
	TotalBurned  string `json:"total_burned"`
	DailyBurned  string `json:"daily_burned"`
	RegisteredAt int64  `json:"registered_at"`
}

// BurnRecord represents a processed visitor burn
type BurnRecord struct {
	RecordID     string `json:"record_id"`
	SiteHash     string `json:"site_hash"`
	Visitor      string `json:"visitor"`
	Amount       string `json:"amount"`
	ProcessorFee string `json:"processor_fee"`
	Timestamp    int64  `json:"timestamp"`
}

// SiteRankEntry represents one row of the site burn ranking
type SiteRankEntry struct {
	Rank        int    `json:"rank"`
	SiteHash    string `json:"site_hash"`
	SiteURL     string `json:"site_url"`
	TotalBurned string `json:"total_burned"`
}

// EconomicState represents the supply module state in the API response
type EconomicState struct {
	Price                int64  `json:"price"`
	LastOracleUpdate     int64  `json:"last_oracle_update"`
	TotalSupply          string `json:"total_supply"`
	CircuitBreakerActive bool   `json:"circuit_breaker_active"`
	BreakerSeverity      string `json:"breaker_severity"`
	EmergencyPause       bool   `json:"emergency_pause"`
	BuybackEnabled       bool   `json:"buyback_enabled"`
}

// ControllerState represents the supply controller in the API response
type ControllerState struct {
	TargetPrice        int64  `json:"target_price"`
	PreviousError      int64  `json:"previous_error"`
	Integral           string `json:"integral"`
	TotalMinted        string `json:"total_minted"`
	TotalBurned        string `json:"total_burned"`
	AdjustmentCount    uint64 `json:"adjustment_count"`
	LastAdjustmentType string `json:"last_adjustment_type"`
	LastAdjustment     int64  `json:"last_adjustment"`
}

// StakeRequest represents the request to stake into a pool
type StakeRequest struct {
	Staker   string `json:"staker"`
	PoolID   uint64 `json:"pool_id"`
	Amount   string `json:"amount"`
	LockDays int64  `json:"lock_days,omitempty"`
}

// WithdrawRequest represents the request to withdraw shares from a pool
type WithdrawRequest struct {
	Staker string `json:"staker"`
	PoolID uint64 `json:"pool_id"`
	Shares string `json:"shares"`
}

// StakeResponse represents the response after a stake or withdraw
type StakeResponse struct {
	Position *StakePosition `json:"position"`
	Pool     *Pool          `json:"pool"`
}

// ClaimResponse represents the response after claiming rewards
type ClaimResponse struct {
	Claimed  string         `json:"claimed"`
	Position *StakePosition `json:"position"`
}

// BondStakeRequest represents the request to bond into a sector pool
type BondStakeRequest struct {
	Staker string `json:"staker"`
	Sector string `json:"sector"`
	Amount string `json:"amount"`
}

// BondStakeResponse represents the response after bonding
type BondStakeResponse struct {
	Pool   *SectorPool `json:"pool"`
	Shares string      `json:"shares"`
}

// BurnSubmission represents an edge worker burn submission
type BurnSubmission struct {
	EdgeWorker string `json:"edge_worker"`
	Visitor    string `json:"visitor"`
	SiteURL    string `json:"site_url"`
	PageID     string `json:"page_id,omitempty"`
	Amount     string `json:"amount"`
}

// BurnSubmissionResponse represents the response after a burn submission
type BurnSubmissionResponse struct {
	Record *BurnRecord `json:"record"`
}

// StakingService defines the interface for staking pool operations
type StakingService interface {
	ListPools(ctx context.Context) ([]*Pool, error)
	GetPool(ctx context.Context, poolID uint64) (*Pool, error)
	GetPositions(ctx context.Context, owner string) ([]*StakePosition, error)
	Stake(ctx context.Context, req *StakeRequest) (*StakeResponse, error)
	Withdraw(ctx context.Context, req *WithdrawRequest) (*StakeResponse, error)
	ClaimRewards(ctx context.Context, staker string, poolID uint64) (*ClaimResponse, error)
}

// BondService defines the interface for sector bond pool operations
type BondService interface {
	ListSectorPools(ctx context.Context) ([]*SectorPool, error)
	GetSectorPool(ctx context.Context, sector string) (*SectorPool, error)
	GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error)
	BondStake(ctx context.Context, req *BondStakeRequest) (*BondStakeResponse, error)
}

// AttentionService defines the interface for visitor burn operations
type AttentionService interface {
	ListWebsites(ctx context.Context) ([]*Website, error)
	GetWebsite(ctx context.Context, siteHash string) (*Website, error)
	TopSites(ctx context.Context, limit int) ([]*SiteRankEntry, error)
	RecentBurns(ctx context.Context, limit int) ([]*BurnRecord, error)
	SubmitBurn(ctx context.Context, req *BurnSubmission) (*BurnSubmissionResponse, error)
}

// SupplyService defines the interface for supply state queries
type SupplyService interface {
	GetEconomicState(ctx context.Context) (*EconomicState, error)
	GetController(ctx context.Context) (*ControllerState, error)
}

// Helper function to get current timestamp in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
