package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/vau/types"
)

// Store key prefixes
var (
	ProcessorStateKey = []byte{0x01}
	WebsiteKeyPrefix  = []byte{0x02}
	BurnRecordPrefix  = []byte{0x03}
)

// BondPoolKeeper defines the expected interface for the bondpool module.
// Burns route their post-fee amount into the website's sector pool.
type BondPoolKeeper interface {
	DistributeYield(ctx context.Context, sourceModule, sector string, amount math.Int) (burned, toStakers math.Int, err error)
}

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}

// Keeper manages the vau module state
type Keeper struct {
	cdc            codec.BinaryCodec
	storeKey       storetypes.StoreKey
	bankKeeper     BankKeeper
	bondPoolKeeper BondPoolKeeper
	logger         log.Logger
	authority      string

	siteRanking *SiteRanking
	dirtySites  map[string]struct{}
}

// NewKeeper creates a new vau keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	bondPoolKeeper BondPoolKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:            cdc,
		storeKey:       storeKey,
		bankKeeper:     bankKeeper,
		bondPoolKeeper: bondPoolKeeper,
		authority:      authority,
		logger:         logger.With("module", "x/vau"),
		siteRanking:    NewSiteRanking(),
		dirtySites:     make(map[string]struct{}),
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

// ============ Processor State ============

// SetProcessorState saves the processor singleton
func (k *Keeper) SetProcessorState(ctx sdk.Context, state *types.ProcessorState) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(state)
	store.Set(ProcessorStateKey, bz)
}

// GetProcessorState retrieves the processor singleton, initializing with
// defaults on first access
func (k *Keeper) GetProcessorState(ctx sdk.Context) *types.ProcessorState {
	store := k.GetStore(ctx)
	bz := store.Get(ProcessorStateKey)
	if bz == nil {
		state := types.NewProcessorState(k.authority)
		k.SetProcessorState(ctx, state)
		return state
	}
	var state types.ProcessorState
	if err := json.Unmarshal(bz, &state); err != nil {
		return types.NewProcessorState(k.authority)
	}
	return &state
}

// ============ Website Operations ============

// SetWebsite saves a website and marks its ranking entry for the next
// flush. The ranking itself is refreshed from committed state in
// FlushSiteRanking so a write from an aborted delivery never lands in
// it.
func (k *Keeper) SetWebsite(ctx sdk.Context, site *types.Website) {
	store := k.GetStore(ctx)
	key := append(WebsiteKeyPrefix, []byte(site.SiteHash)...)
	bz, _ := json.Marshal(site)
	store.Set(key, bz)
	k.dirtySites[site.SiteHash] = struct{}{}
}

// GetWebsite retrieves a website by site hash
func (k *Keeper) GetWebsite(ctx sdk.Context, siteHash string) *types.Website {
	store := k.GetStore(ctx)
	key := append(WebsiteKeyPrefix, []byte(siteHash)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var site types.Website
	if err := json.Unmarshal(bz, &site); err != nil {
		return nil
	}
	return &site
}

// GetWebsiteByURL retrieves a website by URL
func (k *Keeper) GetWebsiteByURL(ctx sdk.Context, siteURL string) *types.Website {
	return k.GetWebsite(ctx, types.SiteHash(siteURL))
}

// GetAllWebsites returns all registered websites
func (k *Keeper) GetAllWebsites(ctx sdk.Context) []*types.Website {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, WebsiteKeyPrefix)
	defer iterator.Close()

	var sites []*types.Website
	for ; iterator.Valid(); iterator.Next() {
		var site types.Website
		if err := json.Unmarshal(iterator.Value(), &site); err != nil {
			continue
		}
		sites = append(sites, &site)
	}
	return sites
}

// ============ Burn Records ============

// AddBurnRecord persists a burn receipt
func (k *Keeper) AddBurnRecord(ctx sdk.Context, record *types.BurnRecord) {
	store := k.GetStore(ctx)
	key := append(BurnRecordPrefix, []byte(record.RecordID)...)
	bz, _ := json.Marshal(record)
	store.Set(key, bz)
}

// GetSiteBurnRecords returns all burn records for a site
func (k *Keeper) GetSiteBurnRecords(ctx sdk.Context, siteHash string) []*types.BurnRecord {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, BurnRecordPrefix)
	defer iterator.Close()

	var records []*types.BurnRecord
	for ; iterator.Valid(); iterator.Next() {
		var record types.BurnRecord
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			continue
		}
		if record.SiteHash == siteHash {
			records = append(records, &record)
		}
	}
	return records
}

// FlushSiteRanking folds the sites written since the last flush into
// the burn ranking, re-reading each from the store so aborted writes
// are ignored. Called from the end blocker every block.
func (k *Keeper) FlushSiteRanking(ctx sdk.Context) {
	for hash := range k.dirtySites {
		if site := k.GetWebsite(ctx, hash); site != nil {
			k.siteRanking.Update(site.SiteHash, site.SiteURL, site.TotalBurned)
		}
		delete(k.dirtySites, hash)
	}
}

// RebuildSiteRanking repopulates the in-memory burn ranking from the
// store. Called at startup and periodically as a backstop.
func (k *Keeper) RebuildSiteRanking(ctx sdk.Context) {
	k.siteRanking.Clear()
	clear(k.dirtySites)
	for _, site := range k.GetAllWebsites(ctx) {
		k.siteRanking.Update(site.SiteHash, site.SiteURL, site.TotalBurned)
	}
}

// TopSitesByBurned returns the n sites with the most TWIST burned.
func (k *Keeper) TopSitesByBurned(n int) []SiteRankEntry {
	return k.siteRanking.Top(n)
}
