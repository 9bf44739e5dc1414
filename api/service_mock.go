package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/api/types"
)

// MockService implements all API services with in-memory data. It is
// intended for frontend development and integration testing without a
// running chain.
type MockService struct {
	mu sync.RWMutex

	pools     map[uint64]*types.Pool
	positions map[string][]*types.StakePosition // owner -> positions

	sectorPools map[string]*types.SectorPool

	websites map[string]*types.Website // site hash -> website
	burns    []*types.BurnRecord
	burnSeq  int

	economicState *types.EconomicState
	controller    *types.ControllerState
}

// NewMockService creates a mock service with seeded data
func NewMockService() *MockService {
	s := &MockService{
		pools:       make(map[uint64]*types.Pool),
		positions:   make(map[string][]*types.StakePosition),
		sectorPools: make(map[string]*types.SectorPool),
		websites:    make(map[string]*types.Website),
	}
	s.seed()
	return s
}

func (s *MockService) seed() {
	now := time.Now().Unix()

	s.pools[1] = &types.Pool{
		PoolID:         1,
		Name:           "twist-core",
		TotalStaked:    "250000000000000",
		TotalShares:    "250000000000000",
		RewardPerShare: "104512",
		StakerCount:    1842,
		CreatedAt:      now - 86400*30,
	}
	s.pools[2] = &types.Pool{
		PoolID:         2,
		Name:           "twist-lp",
		TotalStaked:    "80000000000000",
		TotalShares:    "78500000000000",
		RewardPerShare: "88310",
		StakerCount:    412,
		CreatedAt:      now - 86400*14,
	}

	for i, sector := range []string{"gaming", "defi", "media", "ai"} {
		s.sectorPools[sector] = &types.SectorPool{
			Sector:       sector,
			WrapperDenom: "ub" + sector,
			TotalBonded:  fmt.Sprintf("%d000000000000", 40-i*8),
			TotalShares:  fmt.Sprintf("%d000000000000", 40-i*8),
			LockSeconds:  86400 * 90,
			StakerCount:  300 - i*50,
			CreatedAt:    now - 86400*int64(20-i),
		}
	}

	for i, url := range []string{"https://play.example.com", "https://news.example.com", "https://swap.example.com"} {
		hash := sha256.Sum256([]byte(url))
		siteHash := hex.EncodeToString(hash[:])
		s.websites[siteHash] = &types.Website{
			SiteHash:     siteHash,
			SiteURL:      url,
			Owner:        fmt.Sprintf("twist1mockowner%d", i),
			Sector:       "media",
			Verified:     true,
			Active:       true,
			TotalBurned:  fmt.Sprintf("%d00000000", 90-i*25),
			DailyBurned:  "1200000",
			RegisteredAt: now - 86400*int64(10-i),
		}
	}

	s.economicState = &types.EconomicState{
		Price:            50213,
		LastOracleUpdate: now - 12,
		TotalSupply:      "1000000000000000000",
		BreakerSeverity:  "none",
		BuybackEnabled:   true,
	}
	s.controller = &types.ControllerState{
		TargetPrice:        50000,
		PreviousError:      -213,
		Integral:           "-18450",
		TotalMinted:        "120000000000",
		TotalBurned:        "310000000000",
		AdjustmentCount:    47,
		LastAdjustmentType: "burn",
		LastAdjustment:     now - 1800,
	}
}

// ============ StakingService ============

// ListPools returns all staking pools
func (s *MockService) ListPools(ctx context.Context) ([]*types.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]*types.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		pools = append(pools, p)
	}
	sort.Slice(pools, func(i, j int) bool { return pools[i].PoolID < pools[j].PoolID })
	return pools, nil
}

// GetPool returns a staking pool by ID
func (s *MockService) GetPool(ctx context.Context, poolID uint64) (*types.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("pool %d not found", poolID)
	}
	return pool, nil
}

// GetPositions returns all staking positions for an owner
func (s *MockService) GetPositions(ctx context.Context, owner string) ([]*types.StakePosition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions[owner], nil
}

// Stake adds stake to a pool and returns the new position
func (s *MockService) Stake(ctx context.Context, req *types.StakeRequest) (*types.StakeResponse, error) {
	amount, ok := math.NewIntFromString(req.Amount)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount: %s", req.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool, ok := s.pools[req.PoolID]
	if !ok {
		return nil, fmt.Errorf("pool %d not found", req.PoolID)
	}
	if pool.Paused {
		return nil, fmt.Errorf("pool %d is paused", req.PoolID)
	}

	now := time.Now().Unix()
	pos := &types.StakePosition{
		Owner:          req.Staker,
		PoolID:         req.PoolID,
		Shares:         req.Amount,
		StakedAmount:   req.Amount,
		PendingRewards: "0",
		LockEnd:        now + req.LockDays*86400,
		CreatedAt:      now,
	}
	s.positions[req.Staker] = append(s.positions[req.Staker], pos)

	staked, _ := math.NewIntFromString(pool.TotalStaked)
	pool.TotalStaked = staked.Add(amount).String()
	shares, _ := math.NewIntFromString(pool.TotalShares)
	pool.TotalShares = shares.Add(amount).String()
	pool.StakerCount++

	return &types.StakeResponse{Position: pos, Pool: pool}, nil
}

// Withdraw removes shares from a position
func (s *MockService) Withdraw(ctx context.Context, req *types.WithdrawRequest) (*types.StakeResponse, error) {
	shares, ok := math.NewIntFromString(req.Shares)
	if !ok || !shares.IsPositive() {
		return nil, fmt.Errorf("invalid shares: %s", req.Shares)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool, ok := s.pools[req.PoolID]
	if !ok {
		return nil, fmt.Errorf("pool %d not found", req.PoolID)
	}

	for _, pos := range s.positions[req.Staker] {
		if pos.PoolID != req.PoolID {
			continue
		}
		held, _ := math.NewIntFromString(pos.Shares)
		if held.LT(shares) {
			return nil, fmt.Errorf("insufficient shares: have %s, want %s", pos.Shares, req.Shares)
		}
		if time.Now().Unix() < pos.LockEnd {
			return nil, fmt.Errorf("position locked until %d", pos.LockEnd)
		}
		pos.Shares = held.Sub(shares).String()
		return &types.StakeResponse{Position: pos, Pool: pool}, nil
	}
	return nil, fmt.Errorf("position not found for %s in pool %d", req.Staker, req.PoolID)
}

// ClaimRewards settles pending rewards on a position
func (s *MockService) ClaimRewards(ctx context.Context, staker string, poolID uint64) (*types.ClaimResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pos := range s.positions[staker] {
		if pos.PoolID != poolID {
			continue
		}
		claimed := pos.PendingRewards
		if claimed == "" {
			claimed = "0"
		}
		pos.PendingRewards = "0"
		return &types.ClaimResponse{Claimed: claimed, Position: pos}, nil
	}
	return nil, fmt.Errorf("position not found for %s in pool %d", staker, poolID)
}

// ============ BondService ============

// ListSectorPools returns all sector bond pools
func (s *MockService) ListSectorPools(ctx context.Context) ([]*types.SectorPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]*types.SectorPool, 0, len(s.sectorPools))
	for _, p := range s.sectorPools {
		pools = append(pools, p)
	}
	sort.Slice(pools, func(i, j int) bool { return pools[i].Sector < pools[j].Sector })
	return pools, nil
}

// GetSectorPool returns a sector pool by sector name
func (s *MockService) GetSectorPool(ctx context.Context, sector string) (*types.SectorPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.sectorPools[strings.ToLower(sector)]
	if !ok {
		return nil, fmt.Errorf("sector pool %s not found", sector)
	}
	return pool, nil
}

// GetLeaderboard returns sector pools ranked by total bonded value
func (s *MockService) GetLeaderboard(ctx context.Context, limit int) ([]*types.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]*types.SectorPool, 0, len(s.sectorPools))
	for _, p := range s.sectorPools {
		pools = append(pools, p)
	}
	sort.Slice(pools, func(i, j int) bool {
		a, _ := math.NewIntFromString(pools[i].TotalBonded)
		b, _ := math.NewIntFromString(pools[j].TotalBonded)
		return a.GT(b)
	})

	if limit <= 0 || limit > len(pools) {
		limit = len(pools)
	}
	entries := make([]*types.LeaderboardEntry, 0, limit)
	for i := 0; i < limit; i++ {
		entries = append(entries, &types.LeaderboardEntry{
			Rank:        i + 1,
			Sector:      pools[i].Sector,
			TotalBonded: pools[i].TotalBonded,
		})
	}
	return entries, nil
}

// BondStake bonds stake into a sector pool
func (s *MockService) BondStake(ctx context.Context, req *types.BondStakeRequest) (*types.BondStakeResponse, error) {
	amount, ok := math.NewIntFromString(req.Amount)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount: %s", req.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool, ok := s.sectorPools[strings.ToLower(req.Sector)]
	if !ok {
		return nil, fmt.Errorf("sector pool %s not found", req.Sector)
	}

	bonded, _ := math.NewIntFromString(pool.TotalBonded)
	pool.TotalBonded = bonded.Add(amount).String()
	shares, _ := math.NewIntFromString(pool.TotalShares)
	pool.TotalShares = shares.Add(amount).String()
	pool.StakerCount++

	return &types.BondStakeResponse{Pool: pool, Shares: amount.String()}, nil
}

// ============ AttentionService ============

// ListWebsites returns all registered websites
func (s *MockService) ListWebsites(ctx context.Context) ([]*types.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sites := make([]*types.Website, 0, len(s.websites))
	for _, w := range s.websites {
		sites = append(sites, w)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].SiteURL < sites[j].SiteURL })
	return sites, nil
}

// GetWebsite returns a website by its site hash
func (s *MockService) GetWebsite(ctx context.Context, siteHash string) (*types.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, ok := s.websites[siteHash]
	if !ok {
		return nil, fmt.Errorf("website %s not found", siteHash)
	}
	return site, nil
}

// TopSites returns websites ranked by total burned
func (s *MockService) TopSites(ctx context.Context, limit int) ([]*types.SiteRankEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sites := make([]*types.Website, 0, len(s.websites))
	for _, w := range s.websites {
		sites = append(sites, w)
	}
	sort.Slice(sites, func(i, j int) bool {
		a, _ := math.NewIntFromString(sites[i].TotalBurned)
		b, _ := math.NewIntFromString(sites[j].TotalBurned)
		return a.GT(b)
	})

	if limit <= 0 || limit > len(sites) {
		limit = len(sites)
	}
	entries := make([]*types.SiteRankEntry, 0, limit)
	for i := 0; i < limit; i++ {
		entries = append(entries, &types.SiteRankEntry{
			Rank:        i + 1,
			SiteHash:    sites[i].SiteHash,
			SiteURL:     sites[i].SiteURL,
			TotalBurned: sites[i].TotalBurned,
		})
	}
	return entries, nil
}

// RecentBurns returns the most recent burn records, newest first
func (s *MockService) RecentBurns(ctx context.Context, limit int) ([]*types.BurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.burns) {
		limit = len(s.burns)
	}
	records := make([]*types.BurnRecord, 0, limit)
	for i := len(s.burns) - 1; i >= len(s.burns)-limit; i-- {
		records = append(records, s.burns[i])
	}
	return records, nil
}

// SubmitBurn records a visitor burn against a registered site
func (s *MockService) SubmitBurn(ctx context.Context, req *types.BurnSubmission) (*types.BurnSubmissionResponse, error) {
	amount, ok := math.NewIntFromString(req.Amount)
	if !ok || !amount.IsPositive() {
		return nil, fmt.Errorf("invalid amount: %s", req.Amount)
	}

	hash := sha256.Sum256([]byte(req.SiteURL))
	siteHash := hex.EncodeToString(hash[:])

	s.mu.Lock()
	defer s.mu.Unlock()

	site, ok := s.websites[siteHash]
	if !ok {
		return nil, fmt.Errorf("website %s not registered", req.SiteURL)
	}
	if !site.Verified || !site.Active {
		return nil, fmt.Errorf("website %s not accepting burns", req.SiteURL)
	}

	// 0.5% processor fee, same split the chain applies
	fee := amount.MulRaw(50).QuoRaw(10000)

	s.burnSeq++
	record := &types.BurnRecord{
		RecordID:     fmt.Sprintf("burn-%d", s.burnSeq),
		SiteHash:     siteHash,
		Visitor:      req.Visitor,
		Amount:       amount.String(),
		ProcessorFee: fee.String(),
		Timestamp:    time.Now().Unix(),
	}
	s.burns = append(s.burns, record)

	total, _ := math.NewIntFromString(site.TotalBurned)
	site.TotalBurned = total.Add(amount).String()
	daily, _ := math.NewIntFromString(site.DailyBurned)
	site.DailyBurned = daily.Add(amount).String()

	return &types.BurnSubmissionResponse{Record: record}, nil
}

// ============ SupplyService ============

// GetEconomicState returns the current economic state
func (s *MockService) GetEconomicState(ctx context.Context) (*types.EconomicState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := *s.economicState
	return &state, nil
}

// GetController returns the current supply controller state
func (s *MockService) GetController(ctx context.Context) (*types.ControllerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctrl := *s.controller
	return &ctrl, nil
}
