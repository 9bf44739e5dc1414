package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/stakepool/types"
)

// Store key prefixes
var (
	PoolKeyPrefix         = []byte{0x01}
	PositionKeyPrefix     = []byte{0x02}
	UserPositionKeyPrefix = []byte{0x03}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}

// Keeper manages the stakepool module state
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string
}

// NewKeeper creates a new stakepool keeper
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
		logger:     logger.With("module", "x/stakepool"),
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

// ============ Pool Operations ============

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := k.GetStore(ctx)
	key := append(PoolKeyPrefix, []byte(pool.PoolID)...)
	bz, _ := json.Marshal(pool)
	store.Set(key, bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	store := k.GetStore(ctx)
	key := append(PoolKeyPrefix, []byte(poolID)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// ============ Position Operations ============

// positionKey generates the key for a position
func positionKey(poolID, owner string) []byte {
	return append(PositionKeyPrefix, []byte(poolID+":"+owner)...)
}

// userPositionKey generates the key for the user index
func userPositionKey(owner, poolID string) []byte {
	return append(UserPositionKeyPrefix, []byte(owner+":"+poolID)...)
}

// SetPosition saves a position to the store
func (k *Keeper) SetPosition(ctx sdk.Context, pos *types.Position) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pos)
	store.Set(positionKey(pos.PoolID, pos.Owner), bz)
	store.Set(userPositionKey(pos.Owner, pos.PoolID), []byte(pos.PoolID))
}

// GetPosition retrieves a position from the store
func (k *Keeper) GetPosition(ctx sdk.Context, poolID, owner string) *types.Position {
	store := k.GetStore(ctx)
	bz := store.Get(positionKey(poolID, owner))
	if bz == nil {
		return nil
	}
	var pos types.Position
	if err := json.Unmarshal(bz, &pos); err != nil {
		return nil
	}
	return &pos
}

// GetUserPositions returns all positions for an owner
func (k *Keeper) GetUserPositions(ctx sdk.Context, owner string) []*types.Position {
	store := k.GetStore(ctx)
	prefix := append(UserPositionKeyPrefix, []byte(owner+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		poolID := string(iterator.Value())
		if pos := k.GetPosition(ctx, poolID, owner); pos != nil {
			positions = append(positions, pos)
		}
	}
	return positions
}

// GetPoolPositions returns all positions in a pool
func (k *Keeper) GetPoolPositions(ctx sdk.Context, poolID string) []*types.Position {
	store := k.GetStore(ctx)
	prefix := append(PositionKeyPrefix, []byte(poolID+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		var pos types.Position
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}
	return positions
}

// InitDefaultPool initializes the main staking pool at genesis
func (k *Keeper) InitDefaultPool(ctx sdk.Context) {
	if k.GetPool(ctx, "twist-main") == nil {
		pool := types.NewPool("twist-main", "TWIST Staking", types.DefaultDenom, k.authority)
		k.SetPool(ctx, pool)
		k.logger.Info("Initialized main staking pool")
	}
}
