package keeper

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/supply/types"
)

var (
	supplyAuthority = sdk.AccAddress(bytes.Repeat([]byte{0xA1}, 20))
	supplyOutsider  = sdk.AccAddress(bytes.Repeat([]byte{0xC3}, 20))
)

// supplyBank reports a fixed circulating supply. The breaker paths only
// read supply; mint and burn are exercised by the PID tests.
type supplyBank struct {
	supply math.Int
}

func (b *supplyBank) MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	return nil
}

func (b *supplyBank) BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	return nil
}

func (b *supplyBank) SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error {
	return nil
}

func (b *supplyBank) GetSupply(ctx context.Context, denom string) sdk.Coin {
	return sdk.NewCoin(denom, b.supply)
}

func newSupplyKeeper(t *testing.T) (*Keeper, sdk.Context) {
	t.Helper()
	key := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.DefaultContext(key, storetypes.NewTransientStoreKey("transient_test"))
	// A few hundred seconds past the hour so history windows do not roll
	// mid-test and overwrite the seeded snapshots.
	ctx = ctx.WithBlockTime(time.Unix(1_700_000_000, 0))
	bank := &supplyBank{supply: math.NewInt(1_000_000_000_000)}
	k := NewKeeper(nil, key, bank, supplyAuthority.String(), log.NewNopLogger())
	return k, ctx
}

func TestUpdateMarketStatsPersistsAndGates(t *testing.T) {
	k, ctx := newSupplyKeeper(t)

	err := k.UpdateMarketStats(ctx, supplyOutsider.String(), math.NewInt(1), math.NewInt(2), math.NewInt(3))
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("outsider update: got %v, want ErrUnauthorized", err)
	}

	err = k.UpdateMarketStats(ctx, supplyAuthority.String(), math.NewInt(-1), math.NewInt(2), math.NewInt(3))
	if !errors.Is(err, types.ErrInvalidMarketStats) {
		t.Errorf("negative volume: got %v, want ErrInvalidMarketStats", err)
	}

	err = k.UpdateMarketStats(ctx, supplyAuthority.String(), math.NewInt(100), math.NewInt(2_400), math.NewInt(50_000))
	if err != nil {
		t.Fatalf("update market stats: %v", err)
	}

	state := k.GetEconomicState(ctx)
	if !state.Volume1h.Equal(math.NewInt(100)) {
		t.Errorf("volume 1h: got %s, want 100", state.Volume1h)
	}
	if !state.Volume24h.Equal(math.NewInt(2_400)) {
		t.Errorf("volume 24h: got %s, want 2400", state.Volume24h)
	}
	if !state.FloorLiquidity.Equal(math.NewInt(50_000)) {
		t.Errorf("floor liquidity: got %s, want 50000", state.FloorLiquidity)
	}
}

// TestMarketStatsFeedBreakerSignals tests that reported volume and
// liquidity observations are what the volume-spike and liquidity-drain
// signals evaluate against.
func TestMarketStatsFeedBreakerSignals(t *testing.T) {
	k, ctx := newSupplyKeeper(t)

	breaker := k.GetCircuitBreaker(ctx)
	breaker.Volume1hAgo = math.NewInt(10)
	breaker.Liquidity1hAgo = math.NewInt(10_000)
	k.SetCircuitBreaker(ctx, breaker)

	// Within thresholds: 5x the hourly volume against a 10x multiplier,
	// liquidity unchanged.
	if err := k.UpdateMarketStats(ctx, supplyAuthority.String(), math.NewInt(50), math.NewInt(50), math.NewInt(10_000)); err != nil {
		t.Fatalf("update market stats: %v", err)
	}
	if err := k.EvaluateCircuitBreaker(ctx, nil); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if k.GetEconomicState(ctx).CircuitBreakerActive {
		t.Fatal("breaker tripped on in-threshold stats")
	}

	// 15x the hourly volume crosses the spike multiplier.
	if err := k.UpdateMarketStats(ctx, supplyAuthority.String(), math.NewInt(150), math.NewInt(150), math.NewInt(10_000)); err != nil {
		t.Fatalf("update market stats: %v", err)
	}
	if err := k.EvaluateCircuitBreaker(ctx, nil); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !k.GetEconomicState(ctx).CircuitBreakerActive {
		t.Fatal("breaker did not trip on reported volume spike")
	}
	if got := k.GetCircuitBreaker(ctx).LastTripCondition; got != types.TripVolumeSpike {
		t.Errorf("trip condition: got %s, want %s", got, types.TripVolumeSpike)
	}
}

// TestBreakerEscalation tests that when several signals cross their
// thresholds at once the highest severity wins, earlier signals win
// ties, and trip side effects follow the winning severity.
func TestBreakerEscalation(t *testing.T) {
	tests := []struct {
		name           string
		price          int64    // current oracle price vs 10_000 snapshot
		volume24h      math.Int // vs 10 hourly snapshot, 10x multiplier
		floorLiquidity math.Int // vs 10_000 hourly snapshot, 2000 bps threshold
		wantCondition  types.TripCondition
		wantSeverity   types.Severity
		wantPause      bool
		wantBuyback    bool
	}{
		{
			name:           "critical volume beats medium price and liquidity",
			price:          15_500,             // 5500 bps move, medium
			volume24h:      math.NewInt(600),   // 60x, critical
			floorLiquidity: math.NewInt(7_000), // 3000 bps drain, medium
			wantCondition:  types.TripVolumeSpike,
			wantSeverity:   types.SeverityCritical,
			wantPause:      true,
			wantBuyback:    false,
		},
		{
			name:           "medium tie goes to the first signal",
			price:          15_500,             // 5500 bps move, medium
			volume24h:      math.NewInt(50),    // 5x, quiet
			floorLiquidity: math.NewInt(7_000), // 3000 bps drain, medium
			wantCondition:  types.TripPriceVolatility,
			wantSeverity:   types.SeverityMedium,
			wantPause:      false,
			wantBuyback:    true,
		},
		{
			name:           "high severity disables buyback only",
			price:          10_000,              // unchanged
			volume24h:      math.NewInt(300),    // 30x, high
			floorLiquidity: math.NewInt(10_000), // unchanged
			wantCondition:  types.TripVolumeSpike,
			wantSeverity:   types.SeverityHigh,
			wantPause:      false,
			wantBuyback:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k, ctx := newSupplyKeeper(t)

			breaker := k.GetCircuitBreaker(ctx)
			breaker.Price1hAgo = 10_000
			breaker.Volume1hAgo = math.NewInt(10)
			breaker.Liquidity1hAgo = math.NewInt(10_000)
			k.SetCircuitBreaker(ctx, breaker)

			state := k.GetEconomicState(ctx)
			state.LastOraclePrice = tc.price
			state.Volume24h = tc.volume24h
			state.FloorLiquidity = tc.floorLiquidity
			k.SetEconomicState(ctx, state)

			if err := k.EvaluateCircuitBreaker(ctx, nil); err != nil {
				t.Fatalf("evaluate: %v", err)
			}

			state = k.GetEconomicState(ctx)
			breaker = k.GetCircuitBreaker(ctx)
			if !state.CircuitBreakerActive {
				t.Fatal("breaker did not trip")
			}
			if breaker.LastTripCondition != tc.wantCondition {
				t.Errorf("condition: got %s, want %s", breaker.LastTripCondition, tc.wantCondition)
			}
			if breaker.LastTripSeverity != tc.wantSeverity {
				t.Errorf("severity: got %s, want %s", breaker.LastTripSeverity, tc.wantSeverity)
			}
			if breaker.TripCount != 1 {
				t.Errorf("trip count: got %d, want 1", breaker.TripCount)
			}
			if state.EmergencyPause != tc.wantPause {
				t.Errorf("emergency pause: got %v, want %v", state.EmergencyPause, tc.wantPause)
			}
			if state.BuybackEnabled != tc.wantBuyback {
				t.Errorf("buyback enabled: got %v, want %v", state.BuybackEnabled, tc.wantBuyback)
			}

			// An already-tripped breaker must not re-trip while active.
			if err := k.EvaluateCircuitBreaker(ctx, nil); err != nil {
				t.Fatalf("re-evaluate: %v", err)
			}
			if k.GetCircuitBreaker(ctx).TripCount != 1 {
				t.Error("active breaker re-tripped on evaluation")
			}
		})
	}
}
