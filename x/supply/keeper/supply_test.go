package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/x/supply/types"
)

func testParams() types.PIDControllerParams {
	return types.PIDControllerParams{
		Kp:                 5000,
		Ki:                 100,
		Kd:                 1000,
		TargetPrice:        types.DefaultTargetPrice,
		PriceToleranceBps:  types.DefaultPriceToleranceBps,
		MaxMintRateBps:     100,
		MaxBurnRateBps:     100,
		AdjustmentCooldown: types.DefaultAdjustmentCooldown,
		IntegralMin:        math.NewInt(-1_000_000_000),
		IntegralMax:        math.NewInt(1_000_000_000),
		OutputMin:          -500,
		OutputMax:          500,
	}
}

func TestPIDDeadBand(t *testing.T) {
	c := types.NewPIDController("authority", testParams())
	supply := math.NewInt(1_000_000_000_000)

	// 100 bps tolerance on a 50000 target gives a 500 dead band
	adj, err := c.CalculateAdjustment(types.DefaultTargetPrice-499, supply, 10_000)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if adj.Type != types.AdjustmentNone {
		t.Errorf("inside dead band: got %s, want none", adj.Type)
	}
	if !c.Integral.IsZero() {
		t.Error("dead band step must not accumulate integral")
	}
	if c.AdjustmentCount != 0 {
		t.Error("dead band step must not count as adjustment")
	}
}

func TestPIDBurnWhenPriceBelowTarget(t *testing.T) {
	c := types.NewPIDController("authority", testParams())
	supply := math.NewInt(1_000_000_000_000)

	adj, err := c.CalculateAdjustment(types.DefaultTargetPrice-10_000, supply, 10_000)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if adj.Type != types.AdjustmentBurn {
		t.Errorf("price below target: got %s, want burn", adj.Type)
	}
	if !adj.Amount.IsPositive() {
		t.Error("burn amount should be positive")
	}
}

func TestPIDMintWhenPriceAboveTarget(t *testing.T) {
	c := types.NewPIDController("authority", testParams())
	supply := math.NewInt(1_000_000_000_000)

	adj, err := c.CalculateAdjustment(types.DefaultTargetPrice+10_000, supply, 10_000)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if adj.Type != types.AdjustmentMint {
		t.Errorf("price above target: got %s, want mint", adj.Type)
	}
}

func TestPIDAdjustmentBounded(t *testing.T) {
	c := types.NewPIDController("authority", testParams())
	supply := math.NewInt(1_000_000_000_000)

	// An extreme error must still respect the max burn rate
	adj, err := c.CalculateAdjustment(1, supply, 10_000)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	maxAmount := supply.MulRaw(c.MaxBurnRateBps).QuoRaw(10000)
	if adj.Amount.GT(maxAmount) {
		t.Errorf("adjustment %s exceeds rate cap %s", adj.Amount, maxAmount)
	}
}

func TestPIDCooldown(t *testing.T) {
	c := types.NewPIDController("authority", testParams())
	supply := math.NewInt(1_000_000_000_000)

	if _, err := c.CalculateAdjustment(1, supply, 10_000); err != nil {
		t.Fatalf("first adjustment: %v", err)
	}
	if _, err := c.CalculateAdjustment(1, supply, 10_000+c.AdjustmentCooldown-1); err != types.ErrAdjustmentTooSoon {
		t.Errorf("inside cooldown: got %v, want ErrAdjustmentTooSoon", err)
	}
	if _, err := c.CalculateAdjustment(1, supply, 10_000+c.AdjustmentCooldown); err != nil {
		t.Errorf("after cooldown: %v", err)
	}
}

func TestPIDIntegralAntiWindup(t *testing.T) {
	params := testParams()
	params.AdjustmentCooldown = 0
	c := types.NewPIDController("authority", params)
	supply := math.NewInt(1_000_000_000_000)

	// A persistent large error over long intervals must not grow the
	// integral past its clamp bound.
	now := int64(10_000)
	for i := 0; i < 10; i++ {
		now += 86_400
		if _, err := c.CalculateAdjustment(1, supply, now); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if c.Integral.GT(c.IntegralMax) {
		t.Errorf("integral %s exceeds max %s", c.Integral, c.IntegralMax)
	}
	if c.Integral.LT(c.IntegralMin) {
		t.Errorf("integral %s below min %s", c.Integral, c.IntegralMin)
	}
}

func TestPIDReset(t *testing.T) {
	c := types.NewPIDController("authority", testParams())
	supply := math.NewInt(1_000_000_000_000)

	if _, err := c.CalculateAdjustment(1, supply, 10_000); err != nil {
		t.Fatalf("adjustment: %v", err)
	}
	c.Reset()
	if !c.Integral.IsZero() || c.PreviousError != 0 || c.LastUpdate != 0 {
		t.Error("reset must clear accumulated error state")
	}
	if c.AdjustmentCount != 1 {
		t.Error("reset must keep adjustment history")
	}
}

func TestParamsValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*types.PIDControllerParams)
		wantErr bool
	}{
		{"defaults valid", func(p *types.PIDControllerParams) {}, false},
		{"zero target", func(p *types.PIDControllerParams) { p.TargetPrice = 0 }, true},
		{"tolerance over 10000", func(p *types.PIDControllerParams) { p.PriceToleranceBps = 10_001 }, true},
		{"mint rate over 10000", func(p *types.PIDControllerParams) { p.MaxMintRateBps = 20_000 }, true},
		{"inverted integral bounds", func(p *types.PIDControllerParams) { p.IntegralMin = math.NewInt(1); p.IntegralMax = math.NewInt(-1) }, true},
		{"inverted output bounds", func(p *types.PIDControllerParams) { p.OutputMin = 10; p.OutputMax = -10 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params := testParams()
			tc.mutate(&params)
			err := params.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAggregatePriceWeighted(t *testing.T) {
	now := int64(1_700_000_000)
	sources := []types.PriceSource{
		{SourceID: "pyth", Price: 50_000, Confidence: 100, PublishTime: now - 5},
		{SourceID: "switchboard", Price: 49_500, Confidence: 150, PublishTime: now - 8},
	}

	price, err := types.AggregatePrice(sources, now)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	// The tighter source pulls the average toward its price
	if price <= 49_500 || price >= 50_000 {
		t.Errorf("weighted price %d outside source range", price)
	}
	mid := int64(49_750)
	if price <= mid {
		t.Errorf("weighted price %d should lean toward the higher-confidence source", price)
	}
}

func TestAggregatePriceRejectsStale(t *testing.T) {
	now := int64(1_700_000_000)
	sources := []types.PriceSource{
		{SourceID: "pyth", Price: 50_000, Confidence: 100, PublishTime: now - types.OracleStalenessThreshold - 1},
	}
	if _, err := types.AggregatePrice(sources, now); err == nil {
		t.Error("stale source must be rejected")
	}
}

func TestAggregatePriceRejectsDivergence(t *testing.T) {
	now := int64(1_700_000_000)
	sources := []types.PriceSource{
		{SourceID: "a", Price: 50_000, Confidence: 100, PublishTime: now - 5},
		{SourceID: "b", Price: 53_000, Confidence: 100, PublishTime: now - 5},
	}
	if _, err := types.AggregatePrice(sources, now); err == nil {
		t.Error("600bps divergence must be rejected")
	}

	sources[1].Price = 52_000
	if _, err := types.AggregatePrice(sources, now); err != nil {
		t.Errorf("400bps divergence should pass: %v", err)
	}
}

func TestAggregatePriceEmpty(t *testing.T) {
	if _, err := types.AggregatePrice(nil, 1_700_000_000); err == nil {
		t.Error("empty source list must be rejected")
	}
}

func TestBreakerPriceVolatilityEscalation(t *testing.T) {
	b := types.NewCircuitBreaker("authority")
	b.Price1hAgo = 10_000

	testCases := []struct {
		name     string
		price    int64
		expected types.Severity
	}{
		{"flat", 10_000, types.SeverityNone},
		{"at threshold", 15_000, types.SeverityNone},
		{"over 1x", 15_100, types.SeverityMedium},
		{"over 2x", 20_100, types.SeverityHigh},
		{"over 3x", 25_100, types.SeverityCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := b.CheckPriceVolatility(tc.price)
			if got != tc.expected {
				t.Errorf("severity: got %s, want %s", got, tc.expected)
			}
		})
	}
}

func TestBreakerVolumeSpikeEscalation(t *testing.T) {
	b := types.NewCircuitBreaker("authority")
	b.Volume1hAgo = math.NewInt(1_000)

	testCases := []struct {
		name     string
		volume   math.Int
		expected types.Severity
	}{
		{"normal", math.NewInt(5_000), types.SeverityNone},
		{"at multiplier", math.NewInt(10_000), types.SeverityNone},
		{"over multiplier", math.NewInt(11_000), types.SeverityMedium},
		{"over 2x", math.NewInt(21_000), types.SeverityHigh},
		{"over 5x", math.NewInt(51_000), types.SeverityCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := b.CheckVolumeSpike(tc.volume)
			if got != tc.expected {
				t.Errorf("severity: got %s, want %s", got, tc.expected)
			}
		})
	}
}

func TestBreakerSupplyChangeBothDirections(t *testing.T) {
	b := types.NewCircuitBreaker("authority")
	b.Supply24hAgo = math.NewInt(1_000_000)

	// 2% threshold: a 3% move either way is Medium
	if got := b.CheckSupplyChange(math.NewInt(1_030_000)); got != types.SeverityMedium {
		t.Errorf("3%% expansion: got %s, want medium", got)
	}
	if got := b.CheckSupplyChange(math.NewInt(970_000)); got != types.SeverityMedium {
		t.Errorf("3%% contraction: got %s, want medium", got)
	}
	if got := b.CheckSupplyChange(math.NewInt(1_010_000)); got != types.SeverityNone {
		t.Errorf("1%% move: got %s, want none", got)
	}
}

func TestBreakerLiquidityDrainOnlyOnFall(t *testing.T) {
	b := types.NewCircuitBreaker("authority")
	b.Liquidity1hAgo = math.NewInt(1_000_000)

	if got := b.CheckLiquidityDrain(math.NewInt(2_000_000)); got != types.SeverityNone {
		t.Errorf("rising liquidity: got %s, want none", got)
	}
	// 20% threshold: a 25% drain is Medium
	if got := b.CheckLiquidityDrain(math.NewInt(750_000)); got != types.SeverityMedium {
		t.Errorf("25%% drain: got %s, want medium", got)
	}
	if got := b.CheckLiquidityDrain(math.NewInt(500_000)); got != types.SeverityHigh {
		t.Errorf("50%% drain: got %s, want high", got)
	}
}

func TestBreakerOracleDivergence(t *testing.T) {
	b := types.NewCircuitBreaker("authority")

	single := []types.PriceSource{{SourceID: "a", Price: 50_000}}
	if got := b.CheckOracleDivergence(single); got != types.SeverityNone {
		t.Errorf("single source: got %s, want none", got)
	}

	// 5% threshold: a 6% spread is Medium
	diverged := []types.PriceSource{
		{SourceID: "a", Price: 50_000},
		{SourceID: "b", Price: 53_000},
	}
	if got := b.CheckOracleDivergence(diverged); got != types.SeverityMedium {
		t.Errorf("600bps spread: got %s, want medium", got)
	}
}

func TestBreakerCooldowns(t *testing.T) {
	b := types.NewCircuitBreaker("authority")

	testCases := []struct {
		severity types.Severity
		expected int64
	}{
		{types.SeverityLow, 900},
		{types.SeverityMedium, 3600},
		{types.SeverityHigh, 14400},
		{types.SeverityCritical, 86400},
	}
	for _, tc := range testCases {
		if got := b.CooldownFor(tc.severity); got != tc.expected {
			t.Errorf("cooldown for %s: got %d, want %d", tc.severity, got, tc.expected)
		}
	}
}

func TestBreakerAutoReset(t *testing.T) {
	b := types.NewCircuitBreaker("authority")
	tripTime := int64(1_700_000_000)
	b.Trip(types.SeverityMedium, types.TripVolumeSpike, tripTime)

	if b.CanAutoReset(tripTime + b.MediumCooldown - 1) {
		t.Error("must not auto-reset inside cooldown")
	}
	if !b.CanAutoReset(tripTime + b.MediumCooldown) {
		t.Error("should auto-reset once cooldown elapses")
	}

	b.AutoResetEnabled = false
	if b.CanAutoReset(tripTime + b.MediumCooldown) {
		t.Error("must never auto-reset when disabled")
	}
}

func TestBreakerHistoryRoll(t *testing.T) {
	b := types.NewCircuitBreaker("authority")
	state := types.NewEconomicState("authority")
	state.LastOraclePrice = 42_000
	state.Volume1h = math.NewInt(500)
	state.Volume24h = math.NewInt(8_000)
	state.FloorLiquidity = math.NewInt(1_000_000)
	supply := math.NewInt(10_000_000)

	// Mid-hour timestamps leave snapshots untouched
	b.RollHistory(state, supply, types.HourlyInterval*100+1800)
	if b.Price1hAgo != 0 {
		t.Error("mid-hour evaluation must not roll the hourly window")
	}

	// First minute of the hour rolls hourly snapshots
	b.RollHistory(state, supply, types.HourlyInterval*100+30)
	if b.Price1hAgo != 42_000 {
		t.Errorf("hourly price snapshot: got %d, want 42000", b.Price1hAgo)
	}
	if b.Supply24hAgo.IsPositive() {
		t.Error("hourly roll must not touch the daily window")
	}

	// First minute of the day rolls both windows
	b.RollHistory(state, supply, types.DailyInterval*10+30)
	if !b.Supply24hAgo.Equal(supply) {
		t.Errorf("daily supply snapshot: got %s, want %s", b.Supply24hAgo, supply)
	}
}
