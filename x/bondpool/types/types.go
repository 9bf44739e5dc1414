package types

import (
	"regexp"
	"time"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/pkg/fixedpoint"
)

// Module name and store key
const (
	ModuleName = "bondpool"
	StoreKey   = ModuleName

	TreasuryPoolName = "treasury"
)

// Yield split and penalty parameters
const (
	DefaultBurnBps   = int64(9000) // 90% of yield burned
	DefaultStakerBps = int64(1000) // 10% of yield to stakers

	EarlyUnwrapPenaltyBps = int64(30)

	SecondsPerDay = int64(24 * 60 * 60)

	DefaultMinBondDuration = 1 * SecondsPerDay
	DefaultMaxBondDuration = 365 * SecondsPerDay

	// Wrapper tokens are denominated as stwist/<sector>.
	WrapperDenomPrefix = "stwist/"

	BaseDenom = "utwist"

	MinSectorNameLen = 2
	MaxSectorNameLen = 32
)

var sectorNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSectorName reports whether a sector name is well-formed.
func ValidSectorName(sector string) bool {
	if len(sector) < MinSectorNameLen || len(sector) > MaxSectorNameLen {
		return false
	}
	return sectorNameRe.MatchString(sector)
}

// WrapperDenom returns the wrapper token denom for a sector.
func WrapperDenom(sector string) string {
	return WrapperDenomPrefix + sector
}

// FactoryState is the singleton configuration for the bond-pool factory.
type FactoryState struct {
	Authority      string `json:"authority"`
	PoolCount      int64  `json:"pool_count"`
	BurnBps        int64  `json:"burn_bps"`
	StakerBps      int64  `json:"staker_bps"`
	EarlyUnwrapBps int64  `json:"early_unwrap_bps"`
	Paused         bool   `json:"paused"`

	MinBondDuration int64 `json:"min_bond_duration"`
	MaxBondDuration int64 `json:"max_bond_duration"`

	TotalValueLocked math.Int `json:"total_value_locked"`
	TotalBurned      math.Int `json:"total_burned"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewFactoryState creates the factory with the default 90/10 split.
func NewFactoryState(authority string) *FactoryState {
	now := time.Now().Unix()
	return &FactoryState{
		Authority:        authority,
		PoolCount:        0,
		BurnBps:          DefaultBurnBps,
		StakerBps:        DefaultStakerBps,
		EarlyUnwrapBps:   EarlyUnwrapPenaltyBps,
		Paused:           false,
		MinBondDuration:  DefaultMinBondDuration,
		MaxBondDuration:  DefaultMaxBondDuration,
		TotalValueLocked: math.ZeroInt(),
		TotalBurned:      math.ZeroInt(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Validate checks the split configuration.
func (f *FactoryState) Validate() error {
	if f.BurnBps < 0 || f.StakerBps < 0 || f.BurnBps+f.StakerBps != 10_000 {
		return ErrInvalidSplit
	}
	return nil
}

// SplitYield divides a yield amount into burn and staker portions. The
// staker portion takes the remainder so the two always sum to the input.
func (f *FactoryState) SplitYield(amount math.Int) (burn, staker math.Int, err error) {
	if !amount.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), ErrInvalidAmount
	}
	burn, err = fixedpoint.PercentageBps(amount, f.BurnBps)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	staker = amount.Sub(burn)
	return burn, staker, nil
}

// BondPool is a per-sector staking pool with dual reward accounting: a
// 1e12-scaled reward-per-share accumulator and a Q64.64 yield integral.
// The two track the same yield stream at different precisions; claims
// reconcile them by paying whichever is larger.
type BondPool struct {
	Sector       string `json:"sector"`
	WrapperDenom string `json:"wrapper_denom"`
	Creator      string `json:"creator"`
	Active       bool   `json:"active"`
	LockDuration int64  `json:"lock_duration"`

	TotalStaked        math.Int `json:"total_staked"`
	TotalShares        math.Int `json:"total_shares"`
	RewardPerShare     math.Int `json:"reward_per_share"` // scaled by 1e12
	YieldIntegral      math.Int `json:"yield_integral"`   // Q64.64
	TotalYieldReceived math.Int `json:"total_yield_received"`
	TotalBurned        math.Int `json:"total_burned"`
	StakerCount        int64    `json:"staker_count"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewBondPool creates a new sector pool.
func NewBondPool(sector, creator string, lockDuration int64) *BondPool {
	now := time.Now().Unix()
	return &BondPool{
		Sector:             sector,
		WrapperDenom:       WrapperDenom(sector),
		Creator:            creator,
		Active:             true,
		LockDuration:       lockDuration,
		TotalStaked:        math.ZeroInt(),
		TotalShares:        math.ZeroInt(),
		RewardPerShare:     math.ZeroInt(),
		YieldIntegral:      math.ZeroInt(),
		TotalYieldReceived: math.ZeroInt(),
		TotalBurned:        math.ZeroInt(),
		StakerCount:        0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// SharesForDeposit returns the shares minted for a stake. First deposit
// bootstraps 1:1.
func (p *BondPool) SharesForDeposit(amount math.Int) (math.Int, error) {
	if !amount.IsPositive() {
		return math.ZeroInt(), ErrInvalidAmount
	}
	if p.TotalShares.IsZero() {
		return amount, nil
	}
	if p.TotalStaked.IsZero() {
		return math.ZeroInt(), ErrMathOverflow
	}
	out, err := fixedpoint.MulDiv(amount, p.TotalShares, p.TotalStaked)
	if err != nil {
		return math.ZeroInt(), ErrMathOverflow
	}
	return out, nil
}

// AmountForShares returns the principal redeemed by a share count using
// the pre-removal totals.
func (p *BondPool) AmountForShares(shares math.Int) (math.Int, error) {
	if !shares.IsPositive() {
		return math.ZeroInt(), ErrInvalidAmount
	}
	if shares.GT(p.TotalShares) {
		return math.ZeroInt(), ErrInsufficientShares
	}
	out, err := fixedpoint.MulDiv(shares, p.TotalStaked, p.TotalShares)
	if err != nil {
		return math.ZeroInt(), ErrMathOverflow
	}
	return out, nil
}

// ApplyYield folds the staker portion of a yield event into both
// accumulators atomically. The share accumulator advances by
// portion*1e12/totalShares, the integral by portion*2^64/totalStaked.
func (p *BondPool) ApplyYield(stakerPortion math.Int) error {
	if !stakerPortion.IsPositive() {
		return ErrInvalidAmount
	}
	if p.TotalShares.IsZero() || p.TotalStaked.IsZero() {
		return ErrNothingStaked
	}
	shareDelta, err := fixedpoint.MulDiv(stakerPortion, fixedpoint.Precision, p.TotalShares)
	if err != nil {
		return ErrMathOverflow
	}
	integralDelta, err := fixedpoint.MulDiv(stakerPortion, fixedpoint.QScale, p.TotalStaked)
	if err != nil {
		return ErrMathOverflow
	}
	p.RewardPerShare = p.RewardPerShare.Add(shareDelta)
	p.YieldIntegral = p.YieldIntegral.Add(integralDelta)
	p.TotalYieldReceived = p.TotalYieldReceived.Add(stakerPortion)
	return nil
}

// ShareRewardDebt returns the share-accumulator snapshot for a position.
func ShareRewardDebt(shares, rewardPerShare math.Int) math.Int {
	out, err := fixedpoint.MulDiv(shares, rewardPerShare, fixedpoint.Precision)
	if err != nil {
		return math.ZeroInt()
	}
	return out
}

// PendingShareReward is the share-method pending amount:
// shares * rewardPerShare / 1e12 - rewardDebt, floored at zero.
func PendingShareReward(shares, rewardPerShare, rewardDebt math.Int) math.Int {
	return fixedpoint.SaturatingSub(ShareRewardDebt(shares, rewardPerShare), rewardDebt)
}

// PendingIntegralReward is the integral-method pending amount:
// (yieldIntegral - claimedCursor) * amountStaked / 2^64, floored at zero.
func PendingIntegralReward(yieldIntegral, claimedCursor, amountStaked math.Int) math.Int {
	delta := fixedpoint.SaturatingSub(yieldIntegral, claimedCursor)
	out, err := fixedpoint.MulDiv(delta, amountStaked, fixedpoint.QScale)
	if err != nil {
		return math.ZeroInt()
	}
	return out
}

// ReconcilePending resolves the two accounting methods by paying the
// larger of the two, so truncation in one path can never short a staker.
func ReconcilePending(shareMethod, integralMethod math.Int) math.Int {
	return fixedpoint.Max(shareMethod, integralMethod)
}

// BondPosition is a staker's position in a sector pool. It carries
// snapshots for both accounting methods; they advance together.
type BondPosition struct {
	Owner  string `json:"owner"`
	Sector string `json:"sector"`

	AmountStaked  math.Int `json:"amount_staked"`
	Shares        math.Int `json:"shares"`
	RewardDebt    math.Int `json:"reward_debt"`
	ClaimedCursor math.Int `json:"claimed_cursor"` // Q64.64 integral snapshot

	PendingAccrued math.Int `json:"pending_accrued"`
	RewardsClaimed math.Int `json:"rewards_claimed"`

	StakedAt   int64 `json:"staked_at"`
	UnlockTime int64 `json:"unlock_time"`
	UpdatedAt  int64 `json:"updated_at"`
}

// NewBondPosition creates an empty position with the pool's lock applied.
func NewBondPosition(owner, sector string, lockDuration, now int64) *BondPosition {
	return &BondPosition{
		Owner:          owner,
		Sector:         sector,
		AmountStaked:   math.ZeroInt(),
		Shares:         math.ZeroInt(),
		RewardDebt:     math.ZeroInt(),
		ClaimedCursor:  math.ZeroInt(),
		PendingAccrued: math.ZeroInt(),
		RewardsClaimed: math.ZeroInt(),
		StakedAt:       now,
		UnlockTime:     now + lockDuration,
		UpdatedAt:      now,
	}
}

// CanWithdraw reports whether the position's lock has elapsed.
func (pos *BondPosition) CanWithdraw(now int64) bool {
	return now >= pos.UnlockTime
}

// Accrue flushes pending rewards using both methods and advances both
// snapshots. Must run before any mutation of AmountStaked or Shares,
// otherwise one method would retroactively apply to the new principal.
func (pos *BondPosition) Accrue(pool *BondPool) {
	if pos.Shares.IsPositive() {
		share := PendingShareReward(pos.Shares, pool.RewardPerShare, pos.RewardDebt)
		integral := PendingIntegralReward(pool.YieldIntegral, pos.ClaimedCursor, pos.AmountStaked)
		pending := ReconcilePending(share, integral)
		if pending.IsPositive() {
			pos.PendingAccrued = pos.PendingAccrued.Add(pending)
		}
	}
	pos.RewardDebt = ShareRewardDebt(pos.Shares, pool.RewardPerShare)
	pos.ClaimedCursor = pool.YieldIntegral
}

// EarlyUnwrapPenalty returns the flat penalty charged by the early
// unwrap path. The penalty portion is burned, not redistributed.
func (f *FactoryState) EarlyUnwrapPenalty(amount math.Int) math.Int {
	out, err := fixedpoint.PercentageBps(amount, f.EarlyUnwrapBps)
	if err != nil {
		return math.ZeroInt()
	}
	return out
}
