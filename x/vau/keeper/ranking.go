package keeper

import (
	"sync"

	"cosmossdk.io/math"
	"github.com/google/btree"
)

const rankingDegree = 16

// siteRankItem wraps a ranked site for use in the btree. Ordered by total
// burned ascending (btree.Max is the top site), ties broken by hash.
type siteRankItem struct {
	burned   math.Int
	siteHash string
	siteURL  string
}

// Less implements btree.Item
func (a *siteRankItem) Less(b btree.Item) bool {
	other := b.(*siteRankItem)
	if a.burned.LT(other.burned) {
		return true
	}
	if a.burned.GT(other.burned) {
		return false
	}
	return a.siteHash < other.siteHash
}

// SiteRankEntry is a ranked website.
type SiteRankEntry struct {
	SiteHash string   `json:"site_hash"`
	SiteURL  string   `json:"site_url"`
	Burned   math.Int `json:"burned"`
}

// SiteRanking is an in-memory leaderboard of websites by total TWIST
// burned. Query-side only: consensus state lives in the KVStore.
type SiteRanking struct {
	tree  *btree.BTree
	items map[string]*siteRankItem // siteHash -> current item
	mu    sync.RWMutex
}

// NewSiteRanking creates an empty ranking
func NewSiteRanking() *SiteRanking {
	return &SiteRanking{
		tree:  btree.New(rankingDegree),
		items: make(map[string]*siteRankItem),
	}
}

// Update inserts or repositions a site with its cumulative burn total
func (r *SiteRanking) Update(siteHash, siteURL string, burned math.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.items[siteHash]; ok {
		r.tree.Delete(old)
	}
	item := &siteRankItem{burned: burned, siteHash: siteHash, siteURL: siteURL}
	r.tree.ReplaceOrInsert(item)
	r.items[siteHash] = item
}

// Top returns the n sites with the most burned, descending
func (r *SiteRanking) Top(n int) []SiteRankEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []SiteRankEntry
	r.tree.Descend(func(i btree.Item) bool {
		item := i.(*siteRankItem)
		out = append(out, SiteRankEntry{
			SiteHash: item.siteHash,
			SiteURL:  item.siteURL,
			Burned:   item.burned,
		})
		return len(out) < n
	})
	return out
}

// Len returns the number of ranked sites
func (r *SiteRanking) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Len()
}

// Clear empties the ranking
func (r *SiteRanking) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree = btree.New(rankingDegree)
	r.items = make(map[string]*siteRankItem)
}
