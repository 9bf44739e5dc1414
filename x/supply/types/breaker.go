package types

import (
	"cosmossdk.io/math"
)

// Severity classifies how far past its threshold a trip condition went.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String implements fmt.Stringer
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

// TripCondition names the signal that tripped the breaker.
type TripCondition string

const (
	TripPriceVolatility  TripCondition = "price_volatility"
	TripVolumeSpike      TripCondition = "volume_spike"
	TripSupplyChange     TripCondition = "supply_change"
	TripLiquidityDrain   TripCondition = "liquidity_drain"
	TripOracleDivergence TripCondition = "oracle_divergence"
	TripManual           TripCondition = "manual"
)

// Default breaker thresholds and cooldowns.
const (
	DefaultPriceVolatilityBps  = int64(5000)
	DefaultVolumeSpikeMult     = int64(10)
	DefaultSupplyChangeBps     = int64(200)
	DefaultOracleDivergenceBps = int64(500)
	DefaultLiquidityDrainBps   = int64(2000)
	DefaultLowCooldown         = int64(900)
	DefaultMediumCooldown      = int64(3600)
	DefaultHighCooldown        = int64(14400)
	DefaultCriticalCooldown    = int64(86400)
	HistoryRollWindow          = int64(60)
	HourlyInterval             = int64(3600)
	DailyInterval              = int64(86400)
)

// CircuitBreaker monitors market signals and halts supply operations
// when any signal crosses its threshold.
type CircuitBreaker struct {
	Authority string `json:"authority"`

	LastTripTime      int64         `json:"last_trip_time"`
	LastTripSeverity  Severity      `json:"last_trip_severity"`
	LastTripCondition TripCondition `json:"last_trip_condition"`
	TripCount         int64         `json:"trip_count"`

	AutoResetEnabled bool `json:"auto_reset_enabled"`

	PriceVolatilityBps  int64 `json:"price_volatility_bps"`
	VolumeSpikeMult     int64 `json:"volume_spike_multiplier"`
	SupplyChangeBps     int64 `json:"supply_change_bps"`
	OracleDivergenceBps int64 `json:"oracle_divergence_bps"`
	LiquidityDrainBps   int64 `json:"liquidity_drain_bps"`

	LowCooldown      int64 `json:"low_cooldown"`
	MediumCooldown   int64 `json:"medium_cooldown"`
	HighCooldown     int64 `json:"high_cooldown"`
	CriticalCooldown int64 `json:"critical_cooldown"`

	Price1hAgo     int64    `json:"price_1h_ago"`
	Price24hAgo    int64    `json:"price_24h_ago"`
	Volume1hAgo    math.Int `json:"volume_1h_ago"`
	Volume24hAgo   math.Int `json:"volume_24h_ago"`
	Supply24hAgo   math.Int `json:"supply_24h_ago"`
	Liquidity1hAgo math.Int `json:"liquidity_1h_ago"`
}

// NewCircuitBreaker creates a breaker with default thresholds.
func NewCircuitBreaker(authority string) *CircuitBreaker {
	return &CircuitBreaker{
		Authority:           authority,
		LastTripTime:        0,
		LastTripSeverity:    SeverityNone,
		LastTripCondition:   TripManual,
		TripCount:           0,
		AutoResetEnabled:    true,
		PriceVolatilityBps:  DefaultPriceVolatilityBps,
		VolumeSpikeMult:     DefaultVolumeSpikeMult,
		SupplyChangeBps:     DefaultSupplyChangeBps,
		OracleDivergenceBps: DefaultOracleDivergenceBps,
		LiquidityDrainBps:   DefaultLiquidityDrainBps,
		LowCooldown:         DefaultLowCooldown,
		MediumCooldown:      DefaultMediumCooldown,
		HighCooldown:        DefaultHighCooldown,
		CriticalCooldown:    DefaultCriticalCooldown,
		Price1hAgo:          0,
		Price24hAgo:         0,
		Volume1hAgo:         math.ZeroInt(),
		Volume24hAgo:        math.ZeroInt(),
		Supply24hAgo:        math.ZeroInt(),
		Liquidity1hAgo:      math.ZeroInt(),
	}
}

// CooldownFor returns the reset cooldown for a given trip severity.
func (b *CircuitBreaker) CooldownFor(severity Severity) int64 {
	switch severity {
	case SeverityMedium:
		return b.MediumCooldown
	case SeverityHigh:
		return b.HighCooldown
	case SeverityCritical:
		return b.CriticalCooldown
	default:
		return b.LowCooldown
	}
}

// CanAutoReset reports whether the breaker may clear itself.
func (b *CircuitBreaker) CanAutoReset(now int64) bool {
	if !b.AutoResetEnabled {
		return false
	}
	return now-b.LastTripTime >= b.CooldownFor(b.LastTripSeverity)
}

// escalate maps how far over threshold a signal went to a severity.
// Over 1x threshold is Medium, over 2x High, over 3x Critical.
func escalate(valueBps, thresholdBps int64) Severity {
	if valueBps <= thresholdBps {
		return SeverityNone
	}
	if valueBps > thresholdBps*3 {
		return SeverityCritical
	}
	if valueBps > thresholdBps*2 {
		return SeverityHigh
	}
	return SeverityMedium
}

// CheckPriceVolatility compares the current price to the hourly snapshot.
func (b *CircuitBreaker) CheckPriceVolatility(currentPrice int64) Severity {
	if b.Price1hAgo <= 0 {
		return SeverityNone
	}
	diff := currentPrice - b.Price1hAgo
	if diff < 0 {
		diff = -diff
	}
	return escalate(diff*10000/b.Price1hAgo, b.PriceVolatilityBps)
}

// CheckVolumeSpike compares current volume to the hourly snapshot.
// Volume escalation uses the spike multiplier directly: over the
// multiplier is Medium, over 2x High, over 5x Critical.
func (b *CircuitBreaker) CheckVolumeSpike(currentVolume math.Int) Severity {
	if !b.Volume1hAgo.IsPositive() {
		return SeverityNone
	}
	ratio := currentVolume.Quo(b.Volume1hAgo)
	if ratio.LTE(math.NewInt(b.VolumeSpikeMult)) {
		return SeverityNone
	}
	if ratio.GT(math.NewInt(b.VolumeSpikeMult * 5)) {
		return SeverityCritical
	}
	if ratio.GT(math.NewInt(b.VolumeSpikeMult * 2)) {
		return SeverityHigh
	}
	return SeverityMedium
}

// CheckSupplyChange compares current supply to the daily snapshot.
func (b *CircuitBreaker) CheckSupplyChange(currentSupply math.Int) Severity {
	if !b.Supply24hAgo.IsPositive() {
		return SeverityNone
	}
	change := currentSupply.Sub(b.Supply24hAgo).Abs()
	changeBps := change.MulRaw(10000).Quo(b.Supply24hAgo)
	if !changeBps.IsInt64() {
		return SeverityCritical
	}
	return escalate(changeBps.Int64(), b.SupplyChangeBps)
}

// CheckLiquidityDrain fires only on falling liquidity.
func (b *CircuitBreaker) CheckLiquidityDrain(currentLiquidity math.Int) Severity {
	if !b.Liquidity1hAgo.IsPositive() {
		return SeverityNone
	}
	if currentLiquidity.GTE(b.Liquidity1hAgo) {
		return SeverityNone
	}
	drain := b.Liquidity1hAgo.Sub(currentLiquidity)
	drainBps := drain.MulRaw(10000).Quo(b.Liquidity1hAgo)
	if !drainBps.IsInt64() {
		return SeverityCritical
	}
	return escalate(drainBps.Int64(), b.LiquidityDrainBps)
}

// CheckOracleDivergence compares the spread across price sources.
func (b *CircuitBreaker) CheckOracleDivergence(sources []PriceSource) Severity {
	if len(sources) < 2 {
		return SeverityNone
	}
	minPrice := sources[0].Price
	maxPrice := sources[0].Price
	for _, src := range sources[1:] {
		if src.Price < minPrice {
			minPrice = src.Price
		}
		if src.Price > maxPrice {
			maxPrice = src.Price
		}
	}
	if minPrice <= 0 {
		return SeverityNone
	}
	return escalate((maxPrice-minPrice)*10000/minPrice, b.OracleDivergenceBps)
}

// RollHistory advances the 1h and 24h snapshots. Windows roll during the
// first minute of each hour and day respectively so snapshots stay
// aligned regardless of evaluation cadence.
func (b *CircuitBreaker) RollHistory(state *EconomicState, currentSupply math.Int, now int64) {
	if now%HourlyInterval < HistoryRollWindow {
		b.Price1hAgo = state.LastOraclePrice
		b.Volume1hAgo = state.Volume1h
		b.Liquidity1hAgo = state.FloorLiquidity
	}
	if now%DailyInterval < HistoryRollWindow {
		b.Price24hAgo = state.LastOraclePrice
		b.Volume24hAgo = state.Volume24h
		b.Supply24hAgo = currentSupply
	}
}

// Trip records a trip and returns the side effects the caller must apply.
func (b *CircuitBreaker) Trip(severity Severity, condition TripCondition, now int64) {
	b.LastTripTime = now
	b.LastTripSeverity = severity
	b.LastTripCondition = condition
	b.TripCount++
}
