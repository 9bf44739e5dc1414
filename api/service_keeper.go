package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/api/types"
	bondkeeper "github.com/twistprotocol/twist-chain/x/bondpool/keeper"
	bondtypes "github.com/twistprotocol/twist-chain/x/bondpool/types"
	stakekeeper "github.com/twistprotocol/twist-chain/x/stakepool/keeper"
	staketypes "github.com/twistprotocol/twist-chain/x/stakepool/types"
	supplykeeper "github.com/twistprotocol/twist-chain/x/supply/keeper"
	supplytypes "github.com/twistprotocol/twist-chain/x/supply/types"
	vaukeeper "github.com/twistprotocol/twist-chain/x/vau/keeper"
	vautypes "github.com/twistprotocol/twist-chain/x/vau/types"
)

// burnFeedLimit caps the cross-site burn feed kept for /v1/vau/burns.
const burnFeedLimit = 256

// defaultAccountFunding is credited to every address on first use so the
// dev server is usable without a faucet.
var defaultAccountFunding = math.NewInt(1_000_000_000_000_000) // 1M TWIST

// KeeperService implements the API services against real module keepers
// over an in-memory multistore. Staking, bonding, burns and supply
// queries run the same keeper code the chain runs, including the
// in-memory TVL leaderboard and site burn ranking.
type KeeperService struct {
	mu  sync.Mutex
	ctx sdk.Context

	stakeKeeper  *stakekeeper.Keeper
	bondKeeper   *bondkeeper.Keeper
	vauKeeper    *vaukeeper.Keeper
	supplyKeeper *supplykeeper.Keeper

	bank *memBank

	authority string
	worker    string

	poolIDs   []string          // numeric API id - 1 -> keeper pool id
	poolIndex map[string]uint64 // keeper pool id -> numeric API id

	burns []*types.BurnRecord // newest last
}

// memBank is an in-memory bank backing the keepers. Module vault
// balances are enforced; visitor and staker accounts are auto-funded on
// first use.
type memBank struct {
	mu       sync.Mutex
	accounts map[string]sdk.Coins
	modules  map[string]sdk.Coins
	supply   sdk.Coins
}

func newMemBank() *memBank {
	return &memBank{
		accounts: make(map[string]sdk.Coins),
		modules:  make(map[string]sdk.Coins),
	}
}

func (b *memBank) accountCoins(addr string) sdk.Coins {
	coins, ok := b.accounts[addr]
	if !ok {
		coins = sdk.NewCoins(sdk.NewCoin(staketypes.DefaultDenom, defaultAccountFunding))
		b.accounts[addr] = coins
		b.supply = b.supply.Add(coins...)
	}
	return coins
}

func (b *memBank) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	coins := b.accountCoins(senderAddr.String())
	if !coins.IsAllGTE(amt) {
		return fmt.Errorf("insufficient funds: %s has %s, want %s", senderAddr, coins, amt)
	}
	b.accounts[senderAddr.String()] = coins.Sub(amt...)
	b.modules[recipientModule] = b.modules[recipientModule].Add(amt...)
	return nil
}

func (b *memBank) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	coins := b.modules[senderModule]
	if !coins.IsAllGTE(amt) {
		return fmt.Errorf("insufficient module funds: %s has %s, want %s", senderModule, coins, amt)
	}
	b.modules[senderModule] = coins.Sub(amt...)
	b.accounts[recipientAddr.String()] = b.accountCoins(recipientAddr.String()).Add(amt...)
	return nil
}

func (b *memBank) SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	coins := b.modules[senderModule]
	if !coins.IsAllGTE(amt) {
		return fmt.Errorf("insufficient module funds: %s has %s, want %s", senderModule, coins, amt)
	}
	b.modules[senderModule] = coins.Sub(amt...)
	b.modules[recipientModule] = b.modules[recipientModule].Add(amt...)
	return nil
}

func (b *memBank) MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.modules[moduleName] = b.modules[moduleName].Add(amt...)
	b.supply = b.supply.Add(amt...)
	return nil
}

func (b *memBank) BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	coins := b.modules[moduleName]
	if !coins.IsAllGTE(amt) {
		return fmt.Errorf("insufficient module funds: %s has %s, want %s", moduleName, coins, amt)
	}
	b.modules[moduleName] = coins.Sub(amt...)
	b.supply = b.supply.Sub(amt...)
	return nil
}

func (b *memBank) GetSupply(ctx context.Context, denom string) sdk.Coin {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sdk.NewCoin(denom, b.supply.AmountOf(denom))
}

// NewKeeperService creates the keepers over a fresh in-memory store and
// seeds the same fixture data the mock service ships with.
func NewKeeperService() *KeeperService {
	stakeKey := storetypes.NewKVStoreKey(staketypes.StoreKey)
	bondKey := storetypes.NewKVStoreKey(bondtypes.StoreKey)
	vauKey := storetypes.NewKVStoreKey(vautypes.StoreKey)
	supplyKey := storetypes.NewKVStoreKey(supplytypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), storemetrics.NewNoOpMetrics())
	for _, key := range []*storetypes.KVStoreKey{stakeKey, bondKey, vauKey, supplyKey} {
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	if err := stateStore.LoadLatestVersion(); err != nil {
		panic(fmt.Sprintf("failed to load store: %v", err))
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Time:   time.Now(),
		Height: 1,
	}, false, log.NewNopLogger())

	authority := sdk.AccAddress(bytes.Repeat([]byte{0x0A}, 20)).String()
	worker := sdk.AccAddress(bytes.Repeat([]byte{0x0B}, 20)).String()
	bank := newMemBank()

	bondK := bondkeeper.NewKeeper(nil, bondKey, bank, authority, log.NewNopLogger())
	stakeK := stakekeeper.NewKeeper(nil, stakeKey, bank, authority, log.NewNopLogger())
	vauK := vaukeeper.NewKeeper(nil, vauKey, bank, bondK, authority, log.NewNopLogger())
	supplyK := supplykeeper.NewKeeper(nil, supplyKey, bank, authority, log.NewNopLogger())

	s := &KeeperService{
		ctx:          ctx,
		stakeKeeper:  stakeK,
		bondKeeper:   bondK,
		vauKeeper:    vauK,
		supplyKeeper: supplyK,
		bank:         bank,
		authority:    authority,
		worker:       worker,
		poolIndex:    make(map[string]uint64),
	}
	s.seed()
	return s
}

func (s *KeeperService) seed() {
	ctx := s.ctx

	s.stakeKeeper.InitDefaultPool(ctx)
	for _, pool := range s.stakeKeeper.GetAllPools(ctx) {
		s.numericPoolID(pool.PoolID)
	}

	for _, sector := range []string{"gaming", "defi", "media", "ai"} {
		if _, err := s.bondKeeper.CreateSectorPool(ctx, s.authority, sector, 90*bondtypes.SecondsPerDay); err != nil {
			panic(fmt.Sprintf("seed sector pool %s: %v", sector, err))
		}
	}

	if err := s.vauKeeper.AddEdgeWorker(ctx, s.authority, s.worker); err != nil {
		panic(fmt.Sprintf("seed edge worker: %v", err))
	}
	sites := []struct{ url, sector string }{
		{"https://play.example.com", "gaming"},
		{"https://news.example.com", "media"},
		{"https://swap.example.com", "defi"},
	}
	for _, site := range sites {
		registered, err := s.vauKeeper.RegisterWebsite(ctx, s.authority, site.url, site.sector)
		if err != nil {
			panic(fmt.Sprintf("seed website %s: %v", site.url, err))
		}
		if err := s.vauKeeper.VerifyWebsite(ctx, s.authority, registered.SiteHash); err != nil {
			panic(fmt.Sprintf("verify website %s: %v", site.url, err))
		}
	}

	// Circulating supply lives in the treasury until the controller
	// moves it.
	initialSupply := sdk.NewCoins(sdk.NewCoin(supplytypes.BaseDenom, math.NewInt(1_000_000_000_000_000_000)))
	if err := s.bank.MintCoins(ctx, supplytypes.TreasuryPoolName, initialSupply); err != nil {
		panic(fmt.Sprintf("seed supply: %v", err))
	}
	params := supplytypes.PIDControllerParams{
		Kp:                 5000,
		Ki:                 100,
		Kd:                 1000,
		TargetPrice:        supplytypes.DefaultTargetPrice,
		PriceToleranceBps:  supplytypes.DefaultPriceToleranceBps,
		MaxMintRateBps:     100,
		MaxBurnRateBps:     100,
		AdjustmentCooldown: supplytypes.DefaultAdjustmentCooldown,
		IntegralMin:        math.NewInt(-1_000_000_000_000),
		IntegralMax:        math.NewInt(1_000_000_000_000),
		OutputMin:          -500,
		OutputMax:          500,
	}
	if err := s.supplyKeeper.InitializePID(ctx, s.authority, params); err != nil {
		panic(fmt.Sprintf("seed pid controller: %v", err))
	}

	s.bondKeeper.RebuildLeaderboard(ctx)
	s.vauKeeper.RebuildSiteRanking(ctx)
}

// touch advances block time so lock and cooldown checks see wall time.
// Callers must hold s.mu.
func (s *KeeperService) touch() sdk.Context {
	s.ctx = s.ctx.WithBlockTime(time.Now())
	return s.ctx
}

// numericPoolID maps a keeper pool id to the numeric id the REST API
// exposes, assigning the next id on first sight. Callers hold s.mu.
func (s *KeeperService) numericPoolID(poolID string) uint64 {
	if id, ok := s.poolIndex[poolID]; ok {
		return id
	}
	s.poolIDs = append(s.poolIDs, poolID)
	id := uint64(len(s.poolIDs))
	s.poolIndex[poolID] = id
	return id
}

func (s *KeeperService) keeperPoolID(id uint64) (string, bool) {
	if id == 0 || id > uint64(len(s.poolIDs)) {
		return "", false
	}
	return s.poolIDs[id-1], true
}

// ============ StakingService ============

// ListPools returns all staking pools
func (s *KeeperService) ListPools(ctx context.Context) ([]*types.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pools := s.stakeKeeper.GetAllPools(s.ctx)
	out := make([]*types.Pool, 0, len(pools))
	for _, pool := range pools {
		out = append(out, s.toAPIPool(pool))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PoolID < out[j].PoolID })
	return out, nil
}

// GetPool returns a staking pool by its numeric API id
func (s *KeeperService) GetPool(ctx context.Context, poolID uint64) (*types.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keeperID, ok := s.keeperPoolID(poolID)
	if !ok {
		return nil, fmt.Errorf("pool %d not found", poolID)
	}
	pool := s.stakeKeeper.GetPool(s.ctx, keeperID)
	if pool == nil {
		return nil, fmt.Errorf("pool %d not found", poolID)
	}
	return s.toAPIPool(pool), nil
}

// GetPositions returns all staking positions for an owner
func (s *KeeperService) GetPositions(ctx context.Context, owner string) ([]*types.StakePosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := s.stakeKeeper.GetUserPositions(s.ctx, owner)
	out := make([]*types.StakePosition, 0, len(positions))
	for _, pos := range positions {
		out = append(out, s.toAPIPosition(pos))
	}
	return out, nil
}

// Stake stakes into a pool through the keeper
func (s *KeeperService) Stake(ctx context.Context, req *types.StakeRequest) (*types.StakeResponse, error) {
	amount, ok := math.NewIntFromString(req.Amount)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount: %s", req.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sdkCtx := s.touch()

	keeperID, ok := s.keeperPoolID(req.PoolID)
	if !ok {
		return nil, fmt.Errorf("pool %d not found", req.PoolID)
	}

	lockPeriod := int64(staketypes.LockTier30Days)
	if req.LockDays > 0 {
		lockPeriod = req.LockDays * staketypes.SecondsPerDay
	}

	pos, err := s.stakeKeeper.Stake(sdkCtx, req.Staker, keeperID, amount, lockPeriod)
	if err != nil {
		return nil, err
	}
	pool := s.stakeKeeper.GetPool(sdkCtx, keeperID)
	return &types.StakeResponse{Position: s.toAPIPosition(pos), Pool: s.toAPIPool(pool)}, nil
}

// Withdraw withdraws shares from a position through the keeper. An exit
// before the lock expires pays the tiered early-exit penalty.
func (s *KeeperService) Withdraw(ctx context.Context, req *types.WithdrawRequest) (*types.StakeResponse, error) {
	shares, ok := math.NewIntFromString(req.Shares)
	if !ok || !shares.IsPositive() {
		return nil, fmt.Errorf("invalid shares: %s", req.Shares)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sdkCtx := s.touch()

	keeperID, ok := s.keeperPoolID(req.PoolID)
	if !ok {
		return nil, fmt.Errorf("pool %d not found", req.PoolID)
	}

	if _, _, _, err := s.stakeKeeper.Withdraw(sdkCtx, req.Staker, keeperID, shares); err != nil {
		return nil, err
	}
	pos := s.stakeKeeper.GetPosition(sdkCtx, keeperID, req.Staker)
	if pos == nil {
		return nil, fmt.Errorf("position not found for %s in pool %d", req.Staker, req.PoolID)
	}
	pool := s.stakeKeeper.GetPool(sdkCtx, keeperID)
	return &types.StakeResponse{Position: s.toAPIPosition(pos), Pool: s.toAPIPool(pool)}, nil
}

// ClaimRewards settles pending rewards on a position
func (s *KeeperService) ClaimRewards(ctx context.Context, staker string, poolID uint64) (*types.ClaimResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sdkCtx := s.touch()

	keeperID, ok := s.keeperPoolID(poolID)
	if !ok {
		return nil, fmt.Errorf("pool %d not found", poolID)
	}

	claimed, err := s.stakeKeeper.ClaimRewards(sdkCtx, staker, keeperID)
	if errors.Is(err, staketypes.ErrNothingToClaim) {
		claimed = math.ZeroInt()
	} else if err != nil {
		return nil, err
	}
	pos := s.stakeKeeper.GetPosition(sdkCtx, keeperID, staker)
	if pos == nil {
		return nil, fmt.Errorf("position not found for %s in pool %d", staker, poolID)
	}
	return &types.ClaimResponse{Claimed: claimed.String(), Position: s.toAPIPosition(pos)}, nil
}

// ============ BondService ============

// ListSectorPools returns all sector bond pools
func (s *KeeperService) ListSectorPools(ctx context.Context) ([]*types.SectorPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pools := s.bondKeeper.GetAllPools(s.ctx)
	out := make([]*types.SectorPool, 0, len(pools))
	for _, pool := range pools {
		out = append(out, toAPISectorPool(pool))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sector < out[j].Sector })
	return out, nil
}

// GetSectorPool returns a sector pool by sector name
func (s *KeeperService) GetSectorPool(ctx context.Context, sector string) (*types.SectorPool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.bondKeeper.GetPool(s.ctx, strings.ToLower(sector))
	if pool == nil {
		return nil, fmt.Errorf("sector pool %s not found", sector)
	}
	return toAPISectorPool(pool), nil
}

// GetLeaderboard returns sectors ranked by TVL from the keeper's
// skip-list leaderboard
func (s *KeeperService) GetLeaderboard(ctx context.Context, limit int) ([]*types.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bondKeeper.FlushLeaderboard(s.ctx)
	top := s.bondKeeper.TopPoolsByTVL(limit)
	entries := make([]*types.LeaderboardEntry, 0, len(top))
	for i, entry := range top {
		entries = append(entries, &types.LeaderboardEntry{
			Rank:        i + 1,
			Sector:      entry.Sector,
			TotalBonded: entry.TVL.String(),
		})
	}
	return entries, nil
}

// BondStake bonds stake into a sector pool through the keeper
func (s *KeeperService) BondStake(ctx context.Context, req *types.BondStakeRequest) (*types.BondStakeResponse, error) {
	amount, ok := math.NewIntFromString(req.Amount)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount: %s", req.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sdkCtx := s.touch()

	sector := strings.ToLower(req.Sector)
	if s.bondKeeper.GetPool(sdkCtx, sector) == nil {
		return nil, fmt.Errorf("sector pool %s not found", req.Sector)
	}

	prevShares := math.ZeroInt()
	if prev := s.bondKeeper.GetPosition(sdkCtx, sector, req.Staker); prev != nil {
		prevShares = prev.Shares
	}
	pos, err := s.bondKeeper.Stake(sdkCtx, req.Staker, sector, amount)
	if err != nil {
		return nil, err
	}
	pool := s.bondKeeper.GetPool(sdkCtx, sector)
	return &types.BondStakeResponse{
		Pool:   toAPISectorPool(pool),
		Shares: pos.Shares.Sub(prevShares).String(),
	}, nil
}

// ============ AttentionService ============

// ListWebsites returns all registered websites
func (s *KeeperService) ListWebsites(ctx context.Context) ([]*types.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sites := s.vauKeeper.GetAllWebsites(s.ctx)
	out := make([]*types.Website, 0, len(sites))
	for _, site := range sites {
		out = append(out, toAPIWebsite(site))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SiteURL < out[j].SiteURL })
	return out, nil
}

// GetWebsite returns a website by its site hash
func (s *KeeperService) GetWebsite(ctx context.Context, siteHash string) (*types.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	site := s.vauKeeper.GetWebsite(s.ctx, siteHash)
	if site == nil {
		return nil, fmt.Errorf("website %s not found", siteHash)
	}
	return toAPIWebsite(site), nil
}

// TopSites returns websites ranked by total burned from the keeper's
// burn ranking
func (s *KeeperService) TopSites(ctx context.Context, limit int) ([]*types.SiteRankEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vauKeeper.FlushSiteRanking(s.ctx)
	top := s.vauKeeper.TopSitesByBurned(limit)
	entries := make([]*types.SiteRankEntry, 0, len(top))
	for i, entry := range top {
		entries = append(entries, &types.SiteRankEntry{
			Rank:        i + 1,
			SiteHash:    entry.SiteHash,
			SiteURL:     entry.SiteURL,
			TotalBurned: entry.Burned.String(),
		})
	}
	return entries, nil
}

// RecentBurns returns the most recently processed burns, newest first
func (s *KeeperService) RecentBurns(ctx context.Context, limit int) ([]*types.BurnRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.burns) {
		limit = len(s.burns)
	}
	records := make([]*types.BurnRecord, 0, limit)
	for i := len(s.burns) - 1; i >= len(s.burns)-limit; i-- {
		records = append(records, s.burns[i])
	}
	return records, nil
}

// SubmitBurn processes a visitor burn through the keeper. Submissions
// without an edge worker address are signed by the server's own worker.
func (s *KeeperService) SubmitBurn(ctx context.Context, req *types.BurnSubmission) (*types.BurnSubmissionResponse, error) {
	amount, ok := math.NewIntFromString(req.Amount)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount: %s", req.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sdkCtx := s.touch()

	worker := req.EdgeWorker
	if worker == "" {
		worker = s.worker
	}

	record, err := s.vauKeeper.ProcessVisitorBurn(sdkCtx, worker, req.Visitor, req.SiteURL, req.PageID, amount)
	if err != nil {
		return nil, err
	}

	apiRecord := toAPIBurnRecord(record)
	s.burns = append(s.burns, apiRecord)
	if len(s.burns) > burnFeedLimit {
		s.burns = s.burns[len(s.burns)-burnFeedLimit:]
	}
	return &types.BurnSubmissionResponse{Record: apiRecord}, nil
}

// ============ SupplyService ============

// GetEconomicState returns the supply module state
func (s *KeeperService) GetEconomicState(ctx context.Context) (*types.EconomicState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.supplyKeeper.GetEconomicState(s.ctx)
	severity := "none"
	if state.CircuitBreakerActive {
		severity = s.supplyKeeper.GetCircuitBreaker(s.ctx).LastTripSeverity.String()
	}
	return &types.EconomicState{
		Price:                state.LastOraclePrice,
		LastOracleUpdate:     state.LastOracleUpdate,
		TotalSupply:          s.supplyKeeper.TotalSupply(s.ctx).String(),
		CircuitBreakerActive: state.CircuitBreakerActive,
		BreakerSeverity:      severity,
		EmergencyPause:       state.EmergencyPause,
		BuybackEnabled:       state.BuybackEnabled,
	}, nil
}

// GetController returns the supply controller state
func (s *KeeperService) GetController(ctx context.Context) (*types.ControllerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.supplyKeeper.GetPIDController(s.ctx)
	if c == nil {
		return nil, fmt.Errorf("controller not initialized")
	}
	return &types.ControllerState{
		TargetPrice:        c.TargetPrice,
		PreviousError:      c.PreviousError,
		Integral:           c.Integral.String(),
		TotalMinted:        c.TotalMinted.String(),
		TotalBurned:        c.TotalBurned.String(),
		AdjustmentCount:    uint64(c.AdjustmentCount),
		LastAdjustmentType: string(c.LastAdjustmentType),
		LastAdjustment:     c.LastAdjustment,
	}, nil
}

// ============ Mapping helpers ============

func (s *KeeperService) toAPIPool(pool *staketypes.Pool) *types.Pool {
	return &types.Pool{
		PoolID:         s.numericPoolID(pool.PoolID),
		Name:           pool.Name,
		TotalStaked:    pool.TotalStaked.String(),
		TotalShares:    pool.TotalShares.String(),
		RewardPerShare: pool.RewardPerShare.String(),
		StakerCount:    int(pool.StakerCount),
		Paused:         pool.Status == staketypes.PoolStatusPaused,
		CreatedAt:      pool.CreatedAt,
	}
}

func (s *KeeperService) toAPIPosition(pos *staketypes.Position) *types.StakePosition {
	return &types.StakePosition{
		Owner:          pos.Owner,
		PoolID:         s.numericPoolID(pos.PoolID),
		Shares:         pos.Shares.String(),
		StakedAmount:   pos.Amount.String(),
		PendingRewards: s.stakeKeeper.PendingRewards(s.ctx, pos.Owner, pos.PoolID).String(),
		LockEnd:        pos.UnlockTime,
		CreatedAt:      pos.StakeTime,
	}
}

func toAPISectorPool(pool *bondtypes.BondPool) *types.SectorPool {
	return &types.SectorPool{
		Sector:       pool.Sector,
		WrapperDenom: pool.WrapperDenom,
		TotalBonded:  pool.TotalStaked.String(),
		TotalShares:  pool.TotalShares.String(),
		LockSeconds:  pool.LockDuration,
		StakerCount:  int(pool.StakerCount),
		CreatedAt:    pool.CreatedAt,
	}
}

func toAPIWebsite(site *vautypes.Website) *types.Website {
	return &types.Website{
		SiteHash:     site.SiteHash,
		SiteURL:      site.SiteURL,
		Owner:        site.Owner,
		Sector:       site.Sector,
		Verified:     site.Verified,
		Active:       site.Active,
		TotalBurned:  site.TotalBurned.String(),
		DailyBurned:  site.DailyBurned.String(),
		RegisteredAt: site.RegisteredAt,
	}
}

func toAPIBurnRecord(record *vautypes.BurnRecord) *types.BurnRecord {
	return &types.BurnRecord{
		RecordID:     record.RecordID,
		SiteHash:     record.SiteHash,
		Visitor:      record.Visitor,
		Amount:       record.Amount.String(),
		ProcessorFee: record.ProcessorFee.String(),
		Timestamp:    record.Timestamp,
	}
}
