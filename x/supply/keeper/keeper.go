package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/supply/types"
)

// Store key prefixes
var (
	EconomicStateKey  = []byte{0x01}
	PIDControllerKey  = []byte{0x02}
	CircuitBreakerKey = []byte{0x03}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
	GetSupply(ctx context.Context, denom string) sdk.Coin
}

// Keeper manages the supply control module state
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string
}

// NewKeeper creates a new supply keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:        cdc,
		storeKey:   storeKey,
		bankKeeper: bankKeeper,
		authority:  authority,
		logger:     logger.With("module", "x/supply"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the governance authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Economic State ============

// SetEconomicState saves the economic state singleton
func (k *Keeper) SetEconomicState(ctx sdk.Context, state *types.EconomicState) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(state)
	store.Set(EconomicStateKey, bz)
}

// GetEconomicState retrieves the economic state singleton, initializing
// it with defaults on first access
func (k *Keeper) GetEconomicState(ctx sdk.Context) *types.EconomicState {
	store := k.GetStore(ctx)
	bz := store.Get(EconomicStateKey)
	if bz == nil {
		state := types.NewEconomicState(k.authority)
		k.SetEconomicState(ctx, state)
		return state
	}
	var state types.EconomicState
	if err := json.Unmarshal(bz, &state); err != nil {
		k.logger.Error("Failed to unmarshal economic state", "error", err)
		return types.NewEconomicState(k.authority)
	}
	return &state
}

// ============ PID Controller ============

// SetPIDController saves the controller singleton
func (k *Keeper) SetPIDController(ctx sdk.Context, c *types.PIDController) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(c)
	store.Set(PIDControllerKey, bz)
}

// GetPIDController retrieves the controller, or nil if not initialized
func (k *Keeper) GetPIDController(ctx sdk.Context) *types.PIDController {
	store := k.GetStore(ctx)
	bz := store.Get(PIDControllerKey)
	if bz == nil {
		return nil
	}
	var c types.PIDController
	if err := json.Unmarshal(bz, &c); err != nil {
		k.logger.Error("Failed to unmarshal pid controller", "error", err)
		return nil
	}
	return &c
}

// ============ Circuit Breaker ============

// SetCircuitBreaker saves the breaker singleton
func (k *Keeper) SetCircuitBreaker(ctx sdk.Context, b *types.CircuitBreaker) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(b)
	store.Set(CircuitBreakerKey, bz)
}

// GetCircuitBreaker retrieves the breaker singleton, initializing it
// with default thresholds on first access
func (k *Keeper) GetCircuitBreaker(ctx sdk.Context) *types.CircuitBreaker {
	store := k.GetStore(ctx)
	bz := store.Get(CircuitBreakerKey)
	if bz == nil {
		b := types.NewCircuitBreaker(k.authority)
		k.SetCircuitBreaker(ctx, b)
		return b
	}
	var b types.CircuitBreaker
	if err := json.Unmarshal(bz, &b); err != nil {
		k.logger.Error("Failed to unmarshal circuit breaker", "error", err)
		return types.NewCircuitBreaker(k.authority)
	}
	return &b
}

// TotalSupply returns the circulating supply of the mint denom
func (k *Keeper) TotalSupply(ctx sdk.Context) math.Int {
	return k.bankKeeper.GetSupply(ctx, types.BaseDenom).Amount
}
