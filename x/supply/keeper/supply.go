package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/supply/types"
)

// UpdateAggregatedPrice validates the submitted oracle observations and
// stores their confidence-weighted average as the reference price.
func (k *Keeper) UpdateAggregatedPrice(ctx sdk.Context, sources []types.PriceSource) (int64, error) {
	state := k.GetEconomicState(ctx)
	if state.CircuitBreakerActive {
		return 0, types.ErrCircuitBreakerActive
	}

	now := ctx.BlockTime().Unix()
	price, err := types.AggregatePrice(sources, now)
	if err != nil {
		return 0, err
	}

	oldPrice := state.LastOraclePrice
	state.LastOraclePrice = price
	state.LastOracleUpdate = now
	state.UpdatedAt = now
	k.SetEconomicState(ctx, state)

	changeBps := int64(0)
	if oldPrice > 0 {
		diff := price - oldPrice
		if diff < 0 {
			diff = -diff
		}
		changeBps = diff * 10000 / oldPrice
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"supply_price_updated",
			sdk.NewAttribute("old_price", strconv.FormatInt(oldPrice, 10)),
			sdk.NewAttribute("new_price", strconv.FormatInt(price, 10)),
			sdk.NewAttribute("change_bps", strconv.FormatInt(changeBps, 10)),
			sdk.NewAttribute("sources", strconv.Itoa(len(sources))),
		),
	)

	k.logger.Info("Oracle price updated",
		"old_price", oldPrice,
		"new_price", price,
		"change_bps", changeBps,
		"sources", len(sources),
	)

	return price, nil
}

// UpdateMarketStats records volume and floor-liquidity observations on
// the economic state. These feed the volume-spike and liquidity-drain
// breaker signals on the next evaluation. Authority only.
func (k *Keeper) UpdateMarketStats(ctx sdk.Context, authority string, volume1h, volume24h, floorLiquidity math.Int) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}
	if volume1h.IsNegative() || volume24h.IsNegative() || floorLiquidity.IsNegative() {
		return types.ErrInvalidMarketStats
	}

	state := k.GetEconomicState(ctx)
	state.Volume1h = volume1h
	state.Volume24h = volume24h
	state.FloorLiquidity = floorLiquidity
	state.UpdatedAt = ctx.BlockTime().Unix()
	k.SetEconomicState(ctx, state)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"supply_market_stats",
			sdk.NewAttribute("volume_1h", volume1h.String()),
			sdk.NewAttribute("volume_24h", volume24h.String()),
			sdk.NewAttribute("floor_liquidity", floorLiquidity.String()),
		),
	)

	k.logger.Info("Market stats updated",
		"volume_1h", volume1h.String(),
		"volume_24h", volume24h.String(),
		"floor_liquidity", floorLiquidity.String(),
	)
	return nil
}

// InitializePID creates the supply controller
func (k *Keeper) InitializePID(ctx sdk.Context, authority string, params types.PIDControllerParams) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}
	if err := params.Validate(); err != nil {
		return err
	}

	c := types.NewPIDController(authority, params)
	k.SetPIDController(ctx, c)

	k.logger.Info("PID controller initialized",
		"kp", params.Kp,
		"ki", params.Ki,
		"kd", params.Kd,
		"target_price", params.TargetPrice,
	)
	return nil
}

// UpdatePIDParams replaces the controller tunables, keeping accumulated state
func (k *Keeper) UpdatePIDParams(ctx sdk.Context, authority string, params types.PIDControllerParams) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}
	if err := params.Validate(); err != nil {
		return err
	}

	c := k.GetPIDController(ctx)
	if c == nil {
		return types.ErrControllerNotFound
	}
	c.ApplyParams(params)
	k.SetPIDController(ctx, c)

	k.logger.Info("PID parameters updated", "kp", params.Kp, "ki", params.Ki, "kd", params.Kd)
	return nil
}

// ResetPID clears the controller's accumulated error state
func (k *Keeper) ResetPID(ctx sdk.Context, authority string) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}

	c := k.GetPIDController(ctx)
	if c == nil {
		return types.ErrControllerNotFound
	}
	c.Reset()
	k.SetPIDController(ctx, c)

	k.logger.Info("PID controller reset")
	return nil
}

// ExecutePID runs one controller step and applies the resulting mint or
// burn against the treasury module account.
func (k *Keeper) ExecutePID(ctx sdk.Context) (*types.SupplyAdjustment, error) {
	state := k.GetEconomicState(ctx)
	if state.CircuitBreakerActive {
		return nil, types.ErrCircuitBreakerActive
	}
	if state.EmergencyPause {
		return nil, types.ErrEmergencyPause
	}
	if state.LastOraclePrice <= 0 {
		return nil, types.ErrInvalidOraclePrice
	}

	now := ctx.BlockTime().Unix()
	if now-state.LastOracleUpdate > types.OracleStalenessThreshold*2 {
		return nil, types.ErrOracleStale
	}

	c := k.GetPIDController(ctx)
	if c == nil {
		return nil, types.ErrControllerNotFound
	}

	supply := k.TotalSupply(ctx)
	adjustment, err := c.CalculateAdjustment(state.LastOraclePrice, supply, now)
	if err != nil {
		return nil, err
	}

	if adjustment.Type != types.AdjustmentNone && adjustment.Amount.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, adjustment.Amount))
		switch adjustment.Type {
		case types.AdjustmentMint:
			if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
				return nil, err
			}
			if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, types.TreasuryPoolName, coins); err != nil {
				return nil, err
			}
		case types.AdjustmentBurn:
			if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.TreasuryPoolName, types.ModuleName, coins); err != nil {
				return nil, err
			}
			if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, coins); err != nil {
				return nil, err
			}
		}
	}

	k.SetPIDController(ctx, c)

	state.TotalSupplySnapshot = k.TotalSupply(ctx)
	state.UpdatedAt = now
	k.SetEconomicState(ctx, state)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"supply_pid_adjusted",
			sdk.NewAttribute("adjustment_type", string(adjustment.Type)),
			sdk.NewAttribute("amount", adjustment.Amount.String()),
			sdk.NewAttribute("output_bps", strconv.FormatInt(adjustment.OutputBps, 10)),
			sdk.NewAttribute("current_price", strconv.FormatInt(state.LastOraclePrice, 10)),
			sdk.NewAttribute("target_price", strconv.FormatInt(c.TargetPrice, 10)),
		),
	)

	k.logger.Info("PID adjustment executed",
		"type", string(adjustment.Type),
		"amount", adjustment.Amount.String(),
		"output_bps", adjustment.OutputBps,
		"price", state.LastOraclePrice,
	)

	return &adjustment, nil
}

// EvaluateCircuitBreaker rolls history windows, auto-resets an expired
// trip, and otherwise evaluates every trip signal in a fixed order. The
// highest severity wins, with earlier signals winning ties.
func (k *Keeper) EvaluateCircuitBreaker(ctx sdk.Context, sources []types.PriceSource) error {
	state := k.GetEconomicState(ctx)
	breaker := k.GetCircuitBreaker(ctx)
	now := ctx.BlockTime().Unix()
	supply := k.TotalSupply(ctx)

	breaker.RollHistory(state, supply, now)

	if state.CircuitBreakerActive {
		if breaker.CanAutoReset(now) {
			k.resetBreaker(ctx, state, breaker, "auto", now)
		}
		k.SetCircuitBreaker(ctx, breaker)
		return nil
	}

	maxSeverity := types.SeverityNone
	var condition types.TripCondition

	checks := []struct {
		condition types.TripCondition
		severity  types.Severity
	}{
		{types.TripPriceVolatility, breaker.CheckPriceVolatility(state.LastOraclePrice)},
		{types.TripVolumeSpike, breaker.CheckVolumeSpike(state.Volume24h)},
		{types.TripSupplyChange, breaker.CheckSupplyChange(supply)},
		{types.TripLiquidityDrain, breaker.CheckLiquidityDrain(state.FloorLiquidity)},
		{types.TripOracleDivergence, breaker.CheckOracleDivergence(sources)},
	}
	for _, check := range checks {
		if check.severity > maxSeverity {
			maxSeverity = check.severity
			condition = check.condition
		}
	}

	if maxSeverity > types.SeverityNone {
		k.tripBreaker(ctx, state, breaker, maxSeverity, condition, now)
	}

	k.SetCircuitBreaker(ctx, breaker)
	return nil
}

// TripCircuitBreaker trips the breaker manually
func (k *Keeper) TripCircuitBreaker(ctx sdk.Context, authority, reason string, severity types.Severity) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}

	state := k.GetEconomicState(ctx)
	if state.CircuitBreakerActive {
		return types.ErrCircuitBreakerActive
	}

	breaker := k.GetCircuitBreaker(ctx)
	now := ctx.BlockTime().Unix()
	k.tripBreaker(ctx, state, breaker, severity, types.TripManual, now)
	k.SetCircuitBreaker(ctx, breaker)

	k.logger.Warn("Circuit breaker manually tripped", "reason", reason, "severity", severity.String())
	return nil
}

// ResetCircuitBreaker resets the breaker manually after its cooldown
func (k *Keeper) ResetCircuitBreaker(ctx sdk.Context, authority string) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}

	state := k.GetEconomicState(ctx)
	if !state.CircuitBreakerActive {
		return types.ErrBreakerNotActive
	}

	breaker := k.GetCircuitBreaker(ctx)
	now := ctx.BlockTime().Unix()
	if now-breaker.LastTripTime < breaker.CooldownFor(breaker.LastTripSeverity) {
		return types.ErrCooldownActive
	}

	k.resetBreaker(ctx, state, breaker, "manual", now)
	k.SetCircuitBreaker(ctx, breaker)
	return nil
}

// tripBreaker applies trip side effects by severity and persists state.
func (k *Keeper) tripBreaker(ctx sdk.Context, state *types.EconomicState, breaker *types.CircuitBreaker, severity types.Severity, condition types.TripCondition, now int64) {
	breaker.Trip(severity, condition, now)
	state.CircuitBreakerActive = true

	switch severity {
	case types.SeverityCritical:
		state.EmergencyPause = true
		state.BuybackEnabled = false
	case types.SeverityHigh:
		state.BuybackEnabled = false
	}

	state.UpdatedAt = now
	k.SetEconomicState(ctx, state)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"supply_breaker_tripped",
			sdk.NewAttribute("condition", string(condition)),
			sdk.NewAttribute("severity", severity.String()),
			sdk.NewAttribute("trip_count", strconv.FormatInt(breaker.TripCount, 10)),
		),
	)

	k.logger.Warn("Circuit breaker tripped",
		"condition", string(condition),
		"severity", severity.String(),
		"trip_count", breaker.TripCount,
	)
}

// resetBreaker clears the trip and restores capabilities by severity.
func (k *Keeper) resetBreaker(ctx sdk.Context, state *types.EconomicState, breaker *types.CircuitBreaker, mode string, now int64) {
	state.CircuitBreakerActive = false

	switch breaker.LastTripSeverity {
	case types.SeverityCritical:
		state.EmergencyPause = false
		state.BuybackEnabled = true
	case types.SeverityHigh:
		state.BuybackEnabled = true
	}

	state.UpdatedAt = now
	k.SetEconomicState(ctx, state)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"supply_breaker_reset",
			sdk.NewAttribute("mode", mode),
			sdk.NewAttribute("severity", breaker.LastTripSeverity.String()),
		),
	)

	k.logger.Info("Circuit breaker reset", "mode", mode, "severity", breaker.LastTripSeverity.String())
}
