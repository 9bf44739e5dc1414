package types

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/pkg/fixedpoint"
)

// Module name and store key
const (
	ModuleName = "vau"
	StoreKey   = ModuleName

	TreasuryPoolName = "treasury"

	BaseDenom = "utwist"
)

// Processor defaults. The fee is capped at 1%.
const (
	DefaultProcessorFeeBps = int64(50)
	MaxProcessorFeeBps     = int64(100)
	DefaultRateLimitPerMin = int64(600)
	DailyResetInterval     = int64(86400)

	MaxSiteURLLen = 256
)

// Default burn bounds
var (
	DefaultMinBurnAmount     = math.NewInt(1_000)               // 0.000001 TWIST
	DefaultMaxBurnAmount     = math.NewInt(1_000_000_000_000)   // 1000 TWIST
	DefaultDailyLimitPerSite = math.NewInt(100_000_000_000_000) // 100K TWIST
)

// Errors
var (
	ErrProcessorPaused    = errors.New("processor is paused")
	ErrInvalidFee         = errors.New("processor fee exceeds maximum")
	ErrInvalidBurnBounds  = errors.New("invalid burn amount bounds")
	ErrBurnTooSmall       = errors.New("burn amount below minimum")
	ErrBurnTooLarge       = errors.New("burn amount exceeds maximum")
	ErrDailyLimitExceeded = errors.New("website daily burn limit exceeded")
	ErrWebsiteNotFound    = errors.New("website not registered")
	ErrWebsiteExists      = errors.New("website already registered")
	ErrWebsiteInactive    = errors.New("website is not active")
	ErrWebsiteNotVerified = errors.New("website is not verified")
	ErrInvalidSiteURL     = errors.New("invalid site URL")
	ErrUnauthorizedWorker = errors.New("edge worker not authorized")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrWorkerListFull     = errors.New("edge worker list is full")
	ErrNoFeesToClaim      = errors.New("no fees to claim")
	ErrInvalidMetrics     = errors.New("invalid website metrics")
)

// MaxEdgeWorkers bounds the authorized signer list.
const MaxEdgeWorkers = 10

// SiteHash returns the hex-encoded sha256 of a site URL. Websites are
// keyed by hash so URL length never affects store keys.
func SiteHash(siteURL string) string {
	sum := sha256.Sum256([]byte(siteURL))
	return hex.EncodeToString(sum[:])
}

// ProcessorState is the visitor-attention burn processor singleton.
type ProcessorState struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`

	ProcessorFeeBps   int64    `json:"processor_fee_bps"`
	MinBurnAmount     math.Int `json:"min_burn_amount"`
	MaxBurnAmount     math.Int `json:"max_burn_amount"`
	DailyLimitPerSite math.Int `json:"daily_limit_per_site"`
	RateLimitPerMin   int64    `json:"rate_limit_per_minute"`

	EdgeWorkers []string `json:"edge_workers"`

	TotalBurnsProcessed int64    `json:"total_burns_processed"`
	TotalBurned         math.Int `json:"total_burned"`
	TotalFeesCollected  math.Int `json:"total_fees_collected"`
	UnclaimedFees       math.Int `json:"unclaimed_fees"`

	UpdatedAt int64 `json:"updated_at"`
}

// NewProcessorState creates the processor with default limits.
func NewProcessorState(authority string) *ProcessorState {
	return &ProcessorState{
		Authority:           authority,
		Paused:              false,
		ProcessorFeeBps:     DefaultProcessorFeeBps,
		MinBurnAmount:       DefaultMinBurnAmount,
		MaxBurnAmount:       DefaultMaxBurnAmount,
		DailyLimitPerSite:   DefaultDailyLimitPerSite,
		RateLimitPerMin:     DefaultRateLimitPerMin,
		EdgeWorkers:         nil,
		TotalBurnsProcessed: 0,
		TotalBurned:         math.ZeroInt(),
		TotalFeesCollected:  math.ZeroInt(),
		UnclaimedFees:       math.ZeroInt(),
		UpdatedAt:           time.Now().Unix(),
	}
}

// CanProcessBurn checks the burn amount against processor bounds.
func (p *ProcessorState) CanProcessBurn(amount math.Int) error {
	if p.Paused {
		return ErrProcessorPaused
	}
	if amount.LT(p.MinBurnAmount) {
		return ErrBurnTooSmall
	}
	if amount.GT(p.MaxBurnAmount) {
		return ErrBurnTooLarge
	}
	return nil
}

// IsAuthorizedWorker reports whether an edge worker may submit burns.
func (p *ProcessorState) IsAuthorizedWorker(worker string) bool {
	for _, w := range p.EdgeWorkers {
		if w == worker {
			return true
		}
	}
	return false
}

// AddEdgeWorker authorizes a new edge worker signer.
func (p *ProcessorState) AddEdgeWorker(worker string) error {
	if p.IsAuthorizedWorker(worker) {
		return nil
	}
	if len(p.EdgeWorkers) >= MaxEdgeWorkers {
		return ErrWorkerListFull
	}
	p.EdgeWorkers = append(p.EdgeWorkers, worker)
	return nil
}

// ProcessorFee returns the fee withheld from a burn.
func (p *ProcessorState) ProcessorFee(amount math.Int) math.Int {
	fee, err := fixedpoint.PercentageBps(amount, p.ProcessorFeeBps)
	if err != nil {
		return math.ZeroInt()
	}
	return fee
}

// Website is a registered site participating in attention burns. Each
// website is bound to a sector bond pool that receives its yield.
type Website struct {
	SiteHash string `json:"site_hash"`
	SiteURL  string `json:"site_url"`
	Owner    string `json:"owner"`
	Sector   string `json:"sector"`

	Active   bool `json:"active"`
	Verified bool `json:"verified"`

	TotalBurns      int64    `json:"total_burns"`
	TotalBurned     math.Int `json:"total_burned"`
	DailyBurned     math.Int `json:"daily_burned"`
	UniqueVisitors  int64    `json:"unique_visitors"`
	AvgBurnPerVisit math.Int `json:"avg_burn_per_visit"`

	LastBurnTime   int64 `json:"last_burn_time"`
	LastDailyReset int64 `json:"last_daily_reset"`
	RegisteredAt   int64 `json:"registered_at"`
}

// NewWebsite registers a site. Verification is a separate manual step.
func NewWebsite(siteURL, owner, sector string, now int64) *Website {
	return &Website{
		SiteHash:        SiteHash(siteURL),
		SiteURL:         siteURL,
		Owner:           owner,
		Sector:          sector,
		Active:          true,
		Verified:        false,
		TotalBurns:      0,
		TotalBurned:     math.ZeroInt(),
		DailyBurned:     math.ZeroInt(),
		UniqueVisitors:  0,
		AvgBurnPerVisit: math.ZeroInt(),
		LastBurnTime:    0,
		LastDailyReset:  now,
		RegisteredAt:    now,
	}
}

// NeedsDailyReset reports whether the daily burn window has rolled over.
func (w *Website) NeedsDailyReset(now int64) bool {
	return now-w.LastDailyReset >= DailyResetInterval
}

// CanBurn checks website eligibility and the daily limit.
func (w *Website) CanBurn(amount, dailyLimit math.Int) error {
	if !w.Active {
		return ErrWebsiteInactive
	}
	if !w.Verified {
		return ErrWebsiteNotVerified
	}
	if w.DailyBurned.Add(amount).GT(dailyLimit) {
		return ErrDailyLimitExceeded
	}
	return nil
}

// RecordBurn updates website stats after a processed burn.
func (w *Website) RecordBurn(amount math.Int, now int64) {
	w.TotalBurns++
	w.TotalBurned = w.TotalBurned.Add(amount)
	w.DailyBurned = w.DailyBurned.Add(amount)
	w.LastBurnTime = now
	if w.UniqueVisitors > 0 {
		w.AvgBurnPerVisit = w.TotalBurned.QuoRaw(w.UniqueVisitors)
	}
}

// UpdateMetrics replaces the site's unique-visitor count and refreshes
// the derived average burn per visit. Visitor counts are observed
// offchain by edge workers; the chain stores only the aggregate.
func (w *Website) UpdateMetrics(uniqueVisitors int64) error {
	if uniqueVisitors < 0 {
		return ErrInvalidMetrics
	}
	w.UniqueVisitors = uniqueVisitors
	if uniqueVisitors > 0 {
		w.AvgBurnPerVisit = w.TotalBurned.QuoRaw(uniqueVisitors)
	} else {
		w.AvgBurnPerVisit = math.ZeroInt()
	}
	return nil
}

// BurnRecord is the receipt for a processed visitor burn.
type BurnRecord struct {
	RecordID     string   `json:"record_id"`
	Visitor      string   `json:"visitor"`
	SiteHash     string   `json:"site_hash"`
	Sector       string   `json:"sector"`
	Amount       math.Int `json:"amount"`
	ProcessorFee math.Int `json:"processor_fee"`
	AmountToPool math.Int `json:"amount_to_pool"`
	EdgeWorker   string   `json:"edge_worker"`
	PageID       string   `json:"page_id"`
	Timestamp    int64    `json:"timestamp"`
}
