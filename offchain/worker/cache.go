package worker

import (
	"sync"
	"time"

	"cosmossdk.io/math"

	vautypes "github.com/twistprotocol/twist-chain/x/vau/types"
)

// SiteCache is a thread-safe cache of registered websites, keyed by site hash.
// The worker refreshes it from chain state and consults it before accepting
// visitor events, so unregistered sites are rejected at the edge instead of
// burning a transaction on-chain.
type SiteCache struct {
	sites map[string]*vautypes.Website
	mu    sync.RWMutex
}

// NewSiteCache creates a new site cache
func NewSiteCache() *SiteCache {
	return &SiteCache{
		sites: make(map[string]*vautypes.Website),
	}
}

// Get retrieves a website from the cache
func (c *SiteCache) Get(siteHash string) (*vautypes.Website, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	site, exists := c.sites[siteHash]
	return site, exists
}

// GetByURL retrieves a website by its URL
func (c *SiteCache) GetByURL(siteURL string) (*vautypes.Website, bool) {
	return c.Get(vautypes.SiteHash(siteURL))
}

// Set stores a website in the cache
func (c *SiteCache) Set(site *vautypes.Website) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sites[site.SiteHash] = site
}

// Delete removes a website from the cache
func (c *SiteCache) Delete(siteHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sites, siteHash)
}

// Len returns the number of websites in the cache
func (c *SiteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sites)
}

// Clear removes all websites from the cache
func (c *SiteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sites = make(map[string]*vautypes.Website)
}

// GetAll returns all websites in the cache
func (c *SiteCache) GetAll() []*vautypes.Website {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sites := make([]*vautypes.Website, 0, len(c.sites))
	for _, site := range c.sites {
		sites = append(sites, site)
	}
	return sites
}

// GetBySector returns all websites in a specific sector
func (c *SiteCache) GetBySector(sector string) []*vautypes.Website {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sites := make([]*vautypes.Website, 0)
	for _, site := range c.sites {
		if site.Sector == sector {
			sites = append(sites, site)
		}
	}
	return sites
}

// GetVerified returns all verified, active websites
func (c *SiteCache) GetVerified() []*vautypes.Website {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sites := make([]*vautypes.Website, 0)
	for _, site := range c.sites {
		if site.Verified && site.Active {
			sites = append(sites, site)
		}
	}
	return sites
}

// BurnEvent is an aggregated visitor burn pending submission to the chain.
type BurnEvent struct {
	Visitor   string
	SiteURL   string
	SiteHash  string
	PageID    string
	Amount    math.Int
	Timestamp time.Time
}

// BurnBuffer is a thread-safe buffer for burn events pending submission
type BurnBuffer struct {
	events  []*BurnEvent
	maxSize int
	mu      sync.Mutex
}

// NewBurnBuffer creates a new burn buffer with the given max size
func NewBurnBuffer(maxSize int) *BurnBuffer {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &BurnBuffer{
		events:  make([]*BurnEvent, 0, maxSize),
		maxSize: maxSize,
	}
}

// Add adds a burn event to the buffer
func (b *BurnBuffer) Add(event *BurnEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// AddBatch adds multiple burn events to the buffer
func (b *BurnBuffer) AddBatch(events []*BurnEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
}

// Flush returns all events and clears the buffer
func (b *BurnBuffer) Flush() []*BurnEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = make([]*BurnEvent, 0, b.maxSize)
	return events
}

// FlushBatch returns up to maxSize events and removes them from the buffer
func (b *BurnBuffer) FlushBatch() []*BurnEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}

	count := b.maxSize
	if len(b.events) < count {
		count = len(b.events)
	}

	batch := b.events[:count]
	b.events = b.events[count:]
	return batch
}

// Len returns the number of events in the buffer
func (b *BurnBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// IsFull returns true if the buffer is at or above max size
func (b *BurnBuffer) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events) >= b.maxSize
}

// Clear removes all events from the buffer
func (b *BurnBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = make([]*BurnEvent, 0, b.maxSize)
}

// Peek returns the events without removing them (for inspection)
func (b *BurnBuffer) Peek() []*BurnEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]*BurnEvent, len(b.events))
	copy(result, b.events)
	return result
}

// VisitCache tracks recently seen (visitor, site, page) tuples so a visitor
// refreshing the same page does not produce duplicate burns. Entries expire
// after the dedup window.
type VisitCache struct {
	seen   map[string]time.Time
	window time.Duration
	mu     sync.Mutex
}

// NewVisitCache creates a visit cache with the given dedup window
func NewVisitCache(window time.Duration) *VisitCache {
	if window <= 0 {
		window = 30 * time.Second
	}
	return &VisitCache{
		seen:   make(map[string]time.Time),
		window: window,
	}
}

func visitKey(visitor, siteHash, pageID string) string {
	return visitor + "|" + siteHash + "|" + pageID
}

// Seen records the visit and reports whether an unexpired entry already
// existed for the same tuple.
func (c *VisitCache) Seen(visitor, siteHash, pageID string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := visitKey(visitor, siteHash, pageID)
	if last, ok := c.seen[key]; ok && now.Sub(last) < c.window {
		return true
	}
	c.seen[key] = now
	return false
}

// Prune removes expired entries
func (c *VisitCache) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, last := range c.seen {
		if now.Sub(last) >= c.window {
			delete(c.seen, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked visits
func (c *VisitCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
