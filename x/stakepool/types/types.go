package types

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/pkg/fixedpoint"
)

// Module name and store key
const (
	ModuleName = "stakepool"
	StoreKey   = ModuleName

	// TreasuryPoolName is the module account receiving early-exit penalties.
	TreasuryPoolName = "treasury"
)

// Pool status
const (
	PoolStatusActive = "active"
	PoolStatusPaused = "paused"
	PoolStatusClosed = "closed"
)

// Staking denom and bounds
const (
	DefaultDenom = "utwist"

	SecondsPerDay = int64(24 * 60 * 60)

	MinLockPeriod = 30 * SecondsPerDay
	MaxLockPeriod = 365 * SecondsPerDay
)

// Lock tiers. Each tier sets both the APY paid and the base penalty
// charged on an early exit, scaled linearly by time remaining.
const (
	LockTier30Days  = 30 * SecondsPerDay
	LockTier90Days  = 90 * SecondsPerDay
	LockTier180Days = 180 * SecondsPerDay
	LockTier365Days = 365 * SecondsPerDay

	APYTier30Bps  = int64(1000)
	APYTier90Bps  = int64(2000)
	APYTier180Bps = int64(3500)
	APYTier365Bps = int64(6700)

	PenaltyTier30Bps  = int64(500)
	PenaltyTier90Bps  = int64(1000)
	PenaltyTier180Bps = int64(1500)
	PenaltyTier365Bps = int64(2000)
)

// Default pool limits
var (
	DefaultMinStake = math.NewInt(1_000_000_000)           // 1 TWIST (9 decimals)
	DefaultMaxStake = math.NewInt(100_000_000_000_000_000) // 100M TWIST
)

// Errors
var (
	ErrPoolNotFound       = errors.New("pool not found")
	ErrPoolNotActive      = errors.New("pool is not active")
	ErrPoolAlreadyExists  = errors.New("pool already exists")
	ErrPositionNotFound   = errors.New("position not found")
	ErrPositionWithdrawn  = errors.New("position already withdrawn")
	ErrStakeTooSmall      = errors.New("stake amount below minimum")
	ErrStakeTooLarge      = errors.New("stake amount exceeds maximum")
	ErrInvalidLockPeriod  = errors.New("lock period out of range")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNoStakers          = errors.New("no stakers in pool")
	ErrNothingToClaim     = errors.New("nothing to claim")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrShareCalculation   = errors.New("share calculation failed")
)

// Pool is a staking pool with share-based reward accounting. Rewards are
// tracked with a global reward-per-share accumulator scaled by 1e12; each
// position snapshots the accumulator via its reward debt.
type Pool struct {
	PoolID  string `json:"pool_id"`
	Name    string `json:"name"`
	Denom   string `json:"denom"`
	Status  string `json:"status"`
	Creator string `json:"creator"`

	TotalStaked           math.Int `json:"total_staked"`
	TotalShares           math.Int `json:"total_shares"`
	RewardPerShare        math.Int `json:"reward_per_share"` // scaled by 1e12
	TotalYieldDistributed math.Int `json:"total_yield_distributed"`
	TotalPenalties        math.Int `json:"total_penalties"`
	StakerCount           int64    `json:"staker_count"`

	MinStake math.Int `json:"min_stake"`
	MaxStake math.Int `json:"max_stake"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPool creates a new staking pool.
func NewPool(poolID, name, denom, creator string) *Pool {
	now := time.Now().Unix()
	return &Pool{
		PoolID:                poolID,
		Name:                  name,
		Denom:                 denom,
		Status:                PoolStatusActive,
		Creator:               creator,
		TotalStaked:           math.ZeroInt(),
		TotalShares:           math.ZeroInt(),
		RewardPerShare:        math.ZeroInt(),
		TotalYieldDistributed: math.ZeroInt(),
		TotalPenalties:        math.ZeroInt(),
		StakerCount:           0,
		MinStake:              DefaultMinStake,
		MaxStake:              DefaultMaxStake,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// SharesForDeposit returns the shares minted for a deposit. The first
// deposit bootstraps shares 1:1 with the amount; later deposits mint
// proportionally to the pre-deposit pool state.
func (p *Pool) SharesForDeposit(amount math.Int) (math.Int, error) {
	if !amount.IsPositive() {
		return math.ZeroInt(), ErrInvalidAmount
	}
	if p.TotalShares.IsZero() {
		return amount, nil
	}
	if p.TotalStaked.IsZero() {
		return math.ZeroInt(), ErrShareCalculation
	}
	return fixedpoint.MulDiv(amount, p.TotalShares, p.TotalStaked)
}

// AmountForShares returns the principal a share count redeems for,
// evaluated against the pre-removal pool totals.
func (p *Pool) AmountForShares(shares math.Int) (math.Int, error) {
	if !shares.IsPositive() {
		return math.ZeroInt(), ErrInvalidAmount
	}
	if shares.GT(p.TotalShares) {
		return math.ZeroInt(), ErrInsufficientShares
	}
	return fixedpoint.MulDiv(shares, p.TotalStaked, p.TotalShares)
}

// AddYield folds a yield amount into the reward-per-share accumulator.
// Fails when the pool has no shares so that yield can never vanish.
func (p *Pool) AddYield(amount math.Int) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.TotalShares.IsZero() {
		return ErrNoStakers
	}
	delta, err := fixedpoint.MulDiv(amount, fixedpoint.Precision, p.TotalShares)
	if err != nil {
		return err
	}
	p.RewardPerShare = p.RewardPerShare.Add(delta)
	p.TotalYieldDistributed = p.TotalYieldDistributed.Add(amount)
	return nil
}

// RewardDebt returns the accumulator snapshot for a share count:
// shares * rewardPerShare / 1e12, truncated.
func RewardDebt(shares, rewardPerShare math.Int) math.Int {
	out, err := fixedpoint.MulDiv(shares, rewardPerShare, fixedpoint.Precision)
	if err != nil {
		return math.ZeroInt()
	}
	return out
}

// PendingReward is the canonical pending-reward formula:
// shares * rewardPerShare / 1e12 - rewardDebt, floored at zero.
// Every reward read in the module goes through this function.
func PendingReward(shares, rewardPerShare, rewardDebt math.Int) math.Int {
	return fixedpoint.SaturatingSub(RewardDebt(shares, rewardPerShare), rewardDebt)
}

// PenaltyRateBps returns the base early-exit penalty for a lock tier.
// Longer commitments forfeit more when broken.
func PenaltyRateBps(lockPeriod int64) int64 {
	switch {
	case lockPeriod >= LockTier365Days:
		return PenaltyTier365Bps
	case lockPeriod >= LockTier180Days:
		return PenaltyTier180Bps
	case lockPeriod >= LockTier90Days:
		return PenaltyTier90Bps
	default:
		return PenaltyTier30Bps
	}
}

// APYBps returns the reward rate for a lock tier.
func APYBps(lockPeriod int64) int64 {
	switch {
	case lockPeriod >= LockTier365Days:
		return APYTier365Bps
	case lockPeriod >= LockTier180Days:
		return APYTier180Bps
	case lockPeriod >= LockTier90Days:
		return APYTier90Bps
	default:
		return APYTier30Bps
	}
}

// Position is a staker's position in a pool.
type Position struct {
	PositionID string `json:"position_id"`
	PoolID     string `json:"pool_id"`
	Owner      string `json:"owner"`

	Amount         math.Int `json:"amount"` // principal at stake
	Shares         math.Int `json:"shares"`
	RewardDebt     math.Int `json:"reward_debt"`
	PendingAccrued math.Int `json:"pending_accrued"` // flushed but unclaimed rewards
	RewardsClaimed math.Int `json:"rewards_claimed"`

	StakeTime  int64 `json:"stake_time"`
	LockPeriod int64 `json:"lock_period"`
	UnlockTime int64 `json:"unlock_time"`
	Withdrawn  bool  `json:"withdrawn"`
}

// NewPosition creates a new empty position with a lock starting now.
func NewPosition(poolID, owner string, lockPeriod, now int64) *Position {
	return &Position{
		PositionID:     generateID("stk"),
		PoolID:         poolID,
		Owner:          owner,
		Amount:         math.ZeroInt(),
		Shares:         math.ZeroInt(),
		RewardDebt:     math.ZeroInt(),
		PendingAccrued: math.ZeroInt(),
		RewardsClaimed: math.ZeroInt(),
		StakeTime:      now,
		LockPeriod:     lockPeriod,
		UnlockTime:     now + lockPeriod,
		Withdrawn:      false,
	}
}

// Accrue flushes the position's pending rewards into PendingAccrued and
// advances the reward debt to the current accumulator. Must be called
// before any mutation of Shares.
func (pos *Position) Accrue(rewardPerShare math.Int) {
	if pos.Shares.IsPositive() {
		pending := PendingReward(pos.Shares, rewardPerShare, pos.RewardDebt)
		if pending.IsPositive() {
			pos.PendingAccrued = pos.PendingAccrued.Add(pending)
		}
	}
	pos.RewardDebt = RewardDebt(pos.Shares, rewardPerShare)
}

// IsLocked reports whether the position is still inside its lock window.
func (pos *Position) IsLocked(now int64) bool {
	return now < pos.UnlockTime
}

// EarlyExitPenalty returns the penalty charged on withdrawing the given
// amount before unlock: the tier's base rate scaled linearly by the
// fraction of the lock still remaining. Zero once the lock has elapsed.
func (pos *Position) EarlyExitPenalty(amount math.Int, now int64) math.Int {
	if !pos.IsLocked(now) || pos.LockPeriod <= 0 {
		return math.ZeroInt()
	}
	remaining := pos.UnlockTime - now
	if remaining > pos.LockPeriod {
		remaining = pos.LockPeriod
	}
	baseBps := PenaltyRateBps(pos.LockPeriod)
	// amount * baseBps * remaining / (10000 * lockPeriod)
	num := amount.MulRaw(baseBps).MulRaw(remaining)
	den := fixedpoint.BpsDenominator.MulRaw(pos.LockPeriod)
	return num.Quo(den)
}

// generateID generates a unique ID with a prefix.
func generateID(prefix string) string {
	b := make([]byte, 8)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
