package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/bondpool/types"
)

// Store key prefixes
var (
	FactoryStateKey   = []byte{0x01}
	PoolKeyPrefix     = []byte{0x02}
	PositionKeyPrefix = []byte{0x03}
	UserIndexPrefix   = []byte{0x04}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
}

// Keeper manages the bondpool module state
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	bankKeeper BankKeeper
	logger     log.Logger
	authority  string

	leaderboard  *Leaderboard
	dirtySectors map[string]struct{}
}

// NewKeeper creates a new bondpool keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:          cdc,
		storeKey:     storeKey,
		bankKeeper:   bankKeeper,
		authority:    authority,
		logger:       logger.With("module", "x/bondpool"),
		leaderboard:  NewLeaderboard(),
		dirtySectors: make(map[string]struct{}),
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

// ============ Factory State ============

// SetFactoryState saves the factory singleton
func (k *Keeper) SetFactoryState(ctx sdk.Context, state *types.FactoryState) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(state)
	store.Set(FactoryStateKey, bz)
}

// GetFactoryState retrieves the factory singleton, initializing it with
// defaults on first access
func (k *Keeper) GetFactoryState(ctx sdk.Context) *types.FactoryState {
	store := k.GetStore(ctx)
	bz := store.Get(FactoryStateKey)
	if bz == nil {
		state := types.NewFactoryState(k.authority)
		k.SetFactoryState(ctx, state)
		return state
	}
	var state types.FactoryState
	if err := json.Unmarshal(bz, &state); err != nil {
		return types.NewFactoryState(k.authority)
	}
	return &state
}

// ============ Pool Operations ============

// SetPool saves a bond pool and marks its leaderboard entry for the
// next flush. The ranking itself is refreshed from committed state in
// FlushLeaderboard so a write from an aborted delivery never lands in
// it.
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.BondPool) {
	store := k.GetStore(ctx)
	key := append(PoolKeyPrefix, []byte(pool.Sector)...)
	bz, _ := json.Marshal(pool)
	store.Set(key, bz)
	k.dirtySectors[pool.Sector] = struct{}{}
}

// GetPool retrieves a bond pool
func (k *Keeper) GetPool(ctx sdk.Context, sector string) *types.BondPool {
	store := k.GetStore(ctx)
	key := append(PoolKeyPrefix, []byte(sector)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var pool types.BondPool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all bond pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.BondPool {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.BondPool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.BondPool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// ============ Position Operations ============

func positionKey(sector, owner string) []byte {
	return append(PositionKeyPrefix, []byte(sector+":"+owner)...)
}

func userIndexKey(owner, sector string) []byte {
	return append(UserIndexPrefix, []byte(owner+":"+sector)...)
}

// SetPosition saves a bond position
func (k *Keeper) SetPosition(ctx sdk.Context, pos *types.BondPosition) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(pos)
	store.Set(positionKey(pos.Sector, pos.Owner), bz)
	store.Set(userIndexKey(pos.Owner, pos.Sector), []byte(pos.Sector))
}

// GetPosition retrieves a bond position
func (k *Keeper) GetPosition(ctx sdk.Context, sector, owner string) *types.BondPosition {
	store := k.GetStore(ctx)
	bz := store.Get(positionKey(sector, owner))
	if bz == nil {
		return nil
	}
	var pos types.BondPosition
	if err := json.Unmarshal(bz, &pos); err != nil {
		return nil
	}
	return &pos
}

// DeletePosition removes a closed position and its user index entry
func (k *Keeper) DeletePosition(ctx sdk.Context, sector, owner string) {
	store := k.GetStore(ctx)
	store.Delete(positionKey(sector, owner))
	store.Delete(userIndexKey(owner, sector))
}

// GetUserPositions returns all positions for an owner
func (k *Keeper) GetUserPositions(ctx sdk.Context, owner string) []*types.BondPosition {
	store := k.GetStore(ctx)
	prefix := append(UserIndexPrefix, []byte(owner+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.BondPosition
	for ; iterator.Valid(); iterator.Next() {
		sector := string(iterator.Value())
		if pos := k.GetPosition(ctx, sector, owner); pos != nil {
			positions = append(positions, pos)
		}
	}
	return positions
}

// GetPoolPositions returns all positions in a sector pool
func (k *Keeper) GetPoolPositions(ctx sdk.Context, sector string) []*types.BondPosition {
	store := k.GetStore(ctx)
	prefix := append(PositionKeyPrefix, []byte(sector+":")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.BondPosition
	for ; iterator.Valid(); iterator.Next() {
		var pos types.BondPosition
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}
	return positions
}

// FlushLeaderboard folds the sectors written since the last flush into
// the TVL ranking, re-reading each from the store so aborted writes are
// ignored. Called from the end blocker every block.
func (k *Keeper) FlushLeaderboard(ctx sdk.Context) {
	for sector := range k.dirtySectors {
		if pool := k.GetPool(ctx, sector); pool != nil {
			k.leaderboard.Update(sector, pool.TotalStaked)
		}
		delete(k.dirtySectors, sector)
	}
}

// RebuildLeaderboard repopulates the in-memory TVL ranking from the
// store. Called at startup and periodically as a backstop.
func (k *Keeper) RebuildLeaderboard(ctx sdk.Context) {
	k.leaderboard.Clear()
	clear(k.dirtySectors)
	for _, pool := range k.GetAllPools(ctx) {
		k.leaderboard.Update(pool.Sector, pool.TotalStaked)
	}
}

// TopPoolsByTVL returns the n sectors with the highest TVL.
func (k *Keeper) TopPoolsByTVL(n int) []LeaderboardEntry {
	return k.leaderboard.Top(n)
}
