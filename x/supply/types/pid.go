package types

import (
	"cosmossdk.io/math"
)

// AdjustmentType is the direction of a supply adjustment.
type AdjustmentType string

const (
	AdjustmentNone AdjustmentType = "none"
	AdjustmentMint AdjustmentType = "mint"
	AdjustmentBurn AdjustmentType = "burn"
)

// SupplyAdjustment is the outcome of one controller step.
type SupplyAdjustment struct {
	Type      AdjustmentType `json:"type"`
	Amount    math.Int       `json:"amount"`
	OutputBps int64          `json:"output_bps"`
}

// PIDControllerParams carries the tunable controller inputs.
type PIDControllerParams struct {
	Kp int64 `json:"kp"`
	Ki int64 `json:"ki"`
	Kd int64 `json:"kd"`

	TargetPrice       int64 `json:"target_price"`
	PriceToleranceBps int64 `json:"price_tolerance_bps"`

	MaxMintRateBps int64 `json:"max_mint_rate_bps"`
	MaxBurnRateBps int64 `json:"max_burn_rate_bps"`

	AdjustmentCooldown int64 `json:"adjustment_cooldown"`

	IntegralMin math.Int `json:"integral_min"`
	IntegralMax math.Int `json:"integral_max"`
	OutputMin   int64    `json:"output_min"`
	OutputMax   int64    `json:"output_max"`
}

// Validate checks parameter sanity at init and update time.
func (p PIDControllerParams) Validate() error {
	if p.TargetPrice <= 0 {
		return ErrInvalidParams.Wrap("target price must be positive")
	}
	if p.PriceToleranceBps < 0 || p.PriceToleranceBps > 10000 {
		return ErrInvalidParams.Wrap("price tolerance out of range")
	}
	if p.MaxMintRateBps < 0 || p.MaxMintRateBps > 10000 {
		return ErrInvalidParams.Wrap("max mint rate out of range")
	}
	if p.MaxBurnRateBps < 0 || p.MaxBurnRateBps > 10000 {
		return ErrInvalidParams.Wrap("max burn rate out of range")
	}
	if p.AdjustmentCooldown < 0 {
		return ErrInvalidParams.Wrap("cooldown must be non-negative")
	}
	if p.IntegralMin.GT(p.IntegralMax) {
		return ErrInvalidParams.Wrap("integral bounds inverted")
	}
	if p.OutputMin > p.OutputMax {
		return ErrInvalidParams.Wrap("output bounds inverted")
	}
	return nil
}

// PIDController drives algorithmic supply toward the target price.
// Positive controller output means the price is below target and supply
// should contract, negative output calls for expansion.
type PIDController struct {
	Authority string `json:"authority"`

	Kp int64 `json:"kp"`
	Ki int64 `json:"ki"`
	Kd int64 `json:"kd"`

	Integral      math.Int `json:"integral"`
	PreviousError int64    `json:"previous_error"`
	LastUpdate    int64    `json:"last_update"`

	IntegralMin math.Int `json:"integral_min"`
	IntegralMax math.Int `json:"integral_max"`
	OutputMin   int64    `json:"output_min"`
	OutputMax   int64    `json:"output_max"`

	TargetPrice       int64 `json:"target_price"`
	PriceToleranceBps int64 `json:"price_tolerance_bps"`

	MaxMintRateBps     int64 `json:"max_mint_rate_bps"`
	MaxBurnRateBps     int64 `json:"max_burn_rate_bps"`
	LastAdjustment     int64 `json:"last_adjustment"`
	AdjustmentCooldown int64 `json:"adjustment_cooldown"`

	TotalMinted          math.Int       `json:"total_minted"`
	TotalBurned          math.Int       `json:"total_burned"`
	AdjustmentCount      int64          `json:"adjustment_count"`
	LastAdjustmentAmount math.Int       `json:"last_adjustment_amount"`
	LastAdjustmentType   AdjustmentType `json:"last_adjustment_type"`
}

// NewPIDController creates a controller from validated parameters.
func NewPIDController(authority string, params PIDControllerParams) *PIDController {
	return &PIDController{
		Authority:            authority,
		Kp:                   params.Kp,
		Ki:                   params.Ki,
		Kd:                   params.Kd,
		Integral:             math.ZeroInt(),
		PreviousError:        0,
		LastUpdate:           0,
		IntegralMin:          params.IntegralMin,
		IntegralMax:          params.IntegralMax,
		OutputMin:            params.OutputMin,
		OutputMax:            params.OutputMax,
		TargetPrice:          params.TargetPrice,
		PriceToleranceBps:    params.PriceToleranceBps,
		MaxMintRateBps:       params.MaxMintRateBps,
		MaxBurnRateBps:       params.MaxBurnRateBps,
		LastAdjustment:       0,
		AdjustmentCooldown:   params.AdjustmentCooldown,
		TotalMinted:          math.ZeroInt(),
		TotalBurned:          math.ZeroInt(),
		AdjustmentCount:      0,
		LastAdjustmentAmount: math.ZeroInt(),
		LastAdjustmentType:   AdjustmentNone,
	}
}

// ApplyParams updates the tunables without touching accumulated state.
func (c *PIDController) ApplyParams(params PIDControllerParams) {
	c.Kp = params.Kp
	c.Ki = params.Ki
	c.Kd = params.Kd
	c.TargetPrice = params.TargetPrice
	c.PriceToleranceBps = params.PriceToleranceBps
	c.MaxMintRateBps = params.MaxMintRateBps
	c.MaxBurnRateBps = params.MaxBurnRateBps
	c.AdjustmentCooldown = params.AdjustmentCooldown
	c.IntegralMin = params.IntegralMin
	c.IntegralMax = params.IntegralMax
	c.OutputMin = params.OutputMin
	c.OutputMax = params.OutputMax
}

// Reset clears accumulated error state after a regime change.
func (c *PIDController) Reset() {
	c.Integral = math.ZeroInt()
	c.PreviousError = 0
	c.LastUpdate = 0
}

// CalculateAdjustment runs one controller step against the current price
// and supply. It mutates the controller state and returns the adjustment
// to execute. An error inside the tolerance dead band produces no
// adjustment and leaves the accumulated state untouched.
func (c *PIDController) CalculateAdjustment(currentPrice int64, currentSupply math.Int, now int64) (SupplyAdjustment, error) {
	if now-c.LastAdjustment < c.AdjustmentCooldown {
		return SupplyAdjustment{}, ErrAdjustmentTooSoon
	}

	// Positive error: price below target, supply must contract.
	errorTerm := c.TargetPrice - currentPrice

	deadBand := c.TargetPrice * c.PriceToleranceBps / 10000
	if abs64(errorTerm) < deadBand {
		return SupplyAdjustment{Type: AdjustmentNone, Amount: math.ZeroInt()}, nil
	}

	dt := now - c.LastUpdate
	if dt < 1 {
		dt = 1
	}

	// Integrate with anti-windup clamping.
	c.Integral = c.Integral.Add(math.NewInt(errorTerm).MulRaw(dt))
	if c.Integral.LT(c.IntegralMin) {
		c.Integral = c.IntegralMin
	}
	if c.Integral.GT(c.IntegralMax) {
		c.Integral = c.IntegralMax
	}

	// Derivative scaled by 1000 for precision across long dt.
	derivative := math.ZeroInt()
	if c.LastUpdate > 0 {
		derivative = math.NewInt(errorTerm - c.PreviousError).MulRaw(1000).QuoRaw(dt)
	}

	output := math.NewInt(c.Kp).MulRaw(errorTerm).QuoRaw(10000).
		Add(math.NewInt(c.Ki).Mul(c.Integral).QuoRaw(10000)).
		Add(math.NewInt(c.Kd).Mul(derivative).QuoRaw(10000))

	outputBps := clamp64(output, c.OutputMin, c.OutputMax)

	var adjType AdjustmentType
	var maxRateBps int64
	if outputBps > 0 {
		adjType = AdjustmentBurn
		maxRateBps = c.MaxBurnRateBps
	} else {
		adjType = AdjustmentMint
		maxRateBps = c.MaxMintRateBps
	}

	adjustmentBps := abs64(outputBps)
	if adjustmentBps > maxRateBps {
		adjustmentBps = maxRateBps
	}
	amount := currentSupply.MulRaw(adjustmentBps).QuoRaw(10000)

	c.PreviousError = errorTerm
	c.LastUpdate = now
	c.LastAdjustment = now
	c.LastAdjustmentAmount = amount
	c.LastAdjustmentType = adjType
	c.AdjustmentCount++

	switch adjType {
	case AdjustmentMint:
		c.TotalMinted = c.TotalMinted.Add(amount)
	case AdjustmentBurn:
		c.TotalBurned = c.TotalBurned.Add(amount)
	}

	return SupplyAdjustment{Type: adjType, Amount: amount, OutputBps: outputBps}, nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp64(v math.Int, lo, hi int64) int64 {
	if v.LT(math.NewInt(lo)) {
		return lo
	}
	if v.GT(math.NewInt(hi)) {
		return hi
	}
	return v.Int64()
}
