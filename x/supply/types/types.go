package types

import (
	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "supply"
	StoreKey   = ModuleName

	TreasuryPoolName = "treasury"

	BaseDenom = "utwist"
)

// Oracle parameters. Prices are quoted in 6 decimal places.
const (
	OracleStalenessThreshold  = int64(60)
	OracleDivergenceBps       = int64(500)
	DefaultTargetPrice        = int64(50_000) // $0.05
	DefaultPriceToleranceBps  = int64(100)
	DefaultAdjustmentCooldown = int64(3600)
)

// EconomicState is the module singleton tracking the market observations
// that drive the supply controller and the circuit breaker.
type EconomicState struct {
	Authority string `json:"authority"`
	MintDenom string `json:"mint_denom"`

	LastOraclePrice  int64 `json:"last_oracle_price"`
	LastOracleUpdate int64 `json:"last_oracle_update"`

	Volume1h       math.Int `json:"volume_1h"`
	Volume24h      math.Int `json:"volume_24h"`
	FloorLiquidity math.Int `json:"floor_liquidity"`

	TotalSupplySnapshot math.Int `json:"total_supply_snapshot"`

	CircuitBreakerActive bool `json:"circuit_breaker_active"`
	EmergencyPause       bool `json:"emergency_pause"`
	BuybackEnabled       bool `json:"buyback_enabled"`

	UpdatedAt int64 `json:"updated_at"`
}

// NewEconomicState creates the singleton with markets enabled.
func NewEconomicState(authority string) *EconomicState {
	return &EconomicState{
		Authority:            authority,
		MintDenom:            BaseDenom,
		LastOraclePrice:      0,
		LastOracleUpdate:     0,
		Volume1h:             math.ZeroInt(),
		Volume24h:            math.ZeroInt(),
		FloorLiquidity:       math.ZeroInt(),
		TotalSupplySnapshot:  math.ZeroInt(),
		CircuitBreakerActive: false,
		EmergencyPause:       false,
		BuybackEnabled:       true,
	}
}

// PriceSource is one oracle observation feeding the aggregated price.
type PriceSource struct {
	SourceID    string `json:"source_id"`
	Price       int64  `json:"price"`
	Confidence  int64  `json:"confidence"`
	PublishTime int64  `json:"publish_time"`
}

// AggregatePrice combines multiple oracle observations into a single
// confidence-weighted price. Sources older than the staleness threshold
// are rejected outright, and the whole update fails when the surviving
// sources diverge beyond the divergence threshold.
func AggregatePrice(sources []PriceSource, now int64) (int64, error) {
	if len(sources) == 0 {
		return 0, ErrNoPriceSources
	}

	minPrice := int64(0)
	maxPrice := int64(0)
	for _, src := range sources {
		if src.Price <= 0 {
			return 0, ErrInvalidOraclePrice
		}
		if now-src.PublishTime > OracleStalenessThreshold {
			return 0, ErrOracleStale.Wrapf("source %s published %ds ago", src.SourceID, now-src.PublishTime)
		}
		if minPrice == 0 || src.Price < minPrice {
			minPrice = src.Price
		}
		if src.Price > maxPrice {
			maxPrice = src.Price
		}
	}

	if len(sources) > 1 {
		divergenceBps := (maxPrice - minPrice) * 10000 / minPrice
		if divergenceBps > OracleDivergenceBps {
			return 0, ErrOracleDivergence.Wrapf("%dbps between sources", divergenceBps)
		}
	}

	// Tighter confidence intervals get proportionally more weight.
	weightedSum := math.ZeroInt()
	weightSum := math.ZeroInt()
	for _, src := range sources {
		confidence := src.Confidence
		if confidence < 1 {
			confidence = 1
		}
		weight := math.NewInt(10000 / confidence)
		if weight.IsZero() {
			weight = math.OneInt()
		}
		weightedSum = weightedSum.Add(math.NewInt(src.Price).Mul(weight))
		weightSum = weightSum.Add(weight)
	}

	return weightedSum.Quo(weightSum).Int64(), nil
}
