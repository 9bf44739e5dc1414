package keeper

import (
	"sync"

	"cosmossdk.io/math"
	"github.com/huandu/skiplist"
)

// tvlKey orders leaderboard entries by TVL descending, breaking ties by
// sector name so iteration order is stable.
type tvlKey struct {
	TVL    math.Int
	Sector string
}

type tvlKeyDesc struct{}

func (tvlKeyDesc) Compare(lhs, rhs interface{}) int {
	l := lhs.(tvlKey)
	r := rhs.(tvlKey)
	if l.TVL.GT(r.TVL) {
		return -1
	}
	if l.TVL.LT(r.TVL) {
		return 1
	}
	if l.Sector < r.Sector {
		return -1
	}
	if l.Sector > r.Sector {
		return 1
	}
	return 0
}

func (tvlKeyDesc) CalcScore(key interface{}) float64 {
	k := key.(tvlKey)
	f, _ := math.LegacyNewDecFromInt(k.TVL).Float64()
	return -f
}

// LeaderboardEntry is a ranked sector pool.
type LeaderboardEntry struct {
	Sector string   `json:"sector"`
	TVL    math.Int `json:"tvl"`
}

// Leaderboard is an in-memory TVL ranking of sector pools backed by a
// skip list. O(log n) updates, ordered iteration for the top-N query.
// Query-side only: consensus state lives in the KVStore.
type Leaderboard struct {
	list *skiplist.SkipList
	keys map[string]tvlKey // sector -> current key, for O(log n) removal
	mu   sync.RWMutex
}

// NewLeaderboard creates an empty leaderboard
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{
		list: skiplist.New(tvlKeyDesc{}),
		keys: make(map[string]tvlKey),
	}
}

// Update inserts or repositions a sector with its current TVL
func (lb *Leaderboard) Update(sector string, tvl math.Int) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if old, ok := lb.keys[sector]; ok {
		lb.list.Remove(old)
	}
	key := tvlKey{TVL: tvl, Sector: sector}
	lb.list.Set(key, sector)
	lb.keys[sector] = key
}

// Remove drops a sector from the ranking
func (lb *Leaderboard) Remove(sector string) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if old, ok := lb.keys[sector]; ok {
		lb.list.Remove(old)
		delete(lb.keys, sector)
	}
}

// Top returns the n highest-TVL sectors in descending order
func (lb *Leaderboard) Top(n int) []LeaderboardEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	var out []LeaderboardEntry
	for elem := lb.list.Front(); elem != nil && len(out) < n; elem = elem.Next() {
		key := elem.Key().(tvlKey)
		out = append(out, LeaderboardEntry{Sector: key.Sector, TVL: key.TVL})
	}
	return out
}

// Len returns the number of ranked sectors
func (lb *Leaderboard) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.list.Len()
}

// Clear empties the leaderboard
func (lb *Leaderboard) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.list = skiplist.New(tvlKeyDesc{})
	lb.keys = make(map[string]tvlKey)
}
