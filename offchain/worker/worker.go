package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"cosmossdk.io/math"

	vautypes "github.com/twistprotocol/twist-chain/x/vau/types"
)

// Config holds the edge worker configuration
type Config struct {
	BatchSize     int           // Maximum burns per batch submission
	BatchInterval time.Duration // Time interval for batch submission
	DedupWindow   time.Duration // Window within which repeat visits are dropped
	BurnPerUnit   math.Int      // utwist burned per attention unit
	WebSocketURL  string        // WebSocket URL for event listening
	ChainRPCURL   string        // Chain RPC URL for submission
}

// DefaultConfig returns the default edge worker configuration
func DefaultConfig() *Config {
	return &Config{
		BatchSize:     100,
		BatchInterval: 500 * time.Millisecond,
		DedupWindow:   30 * time.Second,
		BurnPerUnit:   math.NewInt(1_000),
		WebSocketURL:  "ws://localhost:26657/websocket",
		ChainRPCURL:   "http://localhost:26657",
	}
}

// EdgeWorker collects visitor attention events at the edge, deduplicates
// them, converts attention units to burn amounts, and submits burn batches
// to the chain.
type EdgeWorker struct {
	config     *Config
	sites      *SiteCache
	visits     *VisitCache
	burnBuffer *BurnBuffer
	submitter  TxSubmitter

	// Internal counters
	accepted int64
	dropped  int64
	mu       sync.RWMutex

	// Event channel for incoming visit events
	eventCh chan VisitEvent

	// Control channels
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// VisitEvent represents a visitor attention event reported to the worker
type VisitEvent struct {
	Visitor   string
	SiteURL   string
	PageID    string
	Units     int64 // attention units measured for this visit
	Timestamp time.Time
}

// NewEdgeWorker creates a new edge worker instance
func NewEdgeWorker(config *Config, submitter TxSubmitter) *EdgeWorker {
	if config == nil {
		config = DefaultConfig()
	}
	if submitter == nil {
		submitter = NewMockSubmitter()
	}

	return &EdgeWorker{
		config:     config,
		sites:      NewSiteCache(),
		visits:     NewVisitCache(config.DedupWindow),
		burnBuffer: NewBurnBuffer(config.BatchSize),
		submitter:  submitter,
		eventCh:    make(chan VisitEvent, 1000),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the edge worker
func (w *EdgeWorker) Start(ctx context.Context) error {
	log.Println("Starting edge worker...")

	// Start event listener
	w.wg.Add(1)
	go w.eventLoop(ctx)

	// Start batch submission loop
	w.wg.Add(1)
	go w.batchLoop(ctx)

	// Start dedup cache pruning
	w.wg.Add(1)
	go w.pruneLoop(ctx)

	log.Println("Edge worker started")
	return nil
}

// Stop stops the edge worker
func (w *EdgeWorker) Stop() error {
	log.Println("Stopping edge worker...")
	close(w.stopCh)
	w.wg.Wait()
	log.Println("Edge worker stopped")
	return nil
}

// eventLoop processes incoming visit events
func (w *EdgeWorker) eventLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event := <-w.eventCh:
			if err := w.handleVisit(event); err != nil {
				w.mu.Lock()
				w.dropped++
				w.mu.Unlock()
				log.Printf("Dropped visit: %v", err)
			}
		}
	}
}

// batchLoop periodically submits burn batches to the chain
func (w *EdgeWorker) batchLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.BatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Submit any remaining burns before stopping
			w.submitPendingBurns(ctx)
			return
		case <-w.stopCh:
			w.submitPendingBurns(ctx)
			return
		case <-ticker.C:
			w.submitPendingBurns(ctx)
		}
	}
}

// pruneLoop periodically expires old dedup entries
func (w *EdgeWorker) pruneLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.DedupWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.visits.Prune(time.Now())
		}
	}
}

// submitPendingBurns submits pending burns to the chain
func (w *EdgeWorker) submitPendingBurns(ctx context.Context) {
	events := w.burnBuffer.Flush()
	if len(events) == 0 {
		return
	}

	log.Printf("Submitting %d burns to chain...", len(events))
	if err := w.submitter.SubmitBurns(ctx, events); err != nil {
		log.Printf("Error submitting burns: %v", err)
		// Re-add events to buffer for retry
		w.burnBuffer.AddBatch(events)
	}
}

// handleVisit validates and scores a visit, queueing a burn event on success
func (w *EdgeWorker) handleVisit(event VisitEvent) error {
	if event.Visitor == "" {
		return fmt.Errorf("visitor address is empty")
	}
	if event.Units <= 0 {
		return fmt.Errorf("attention units must be positive")
	}

	siteHash := vautypes.SiteHash(event.SiteURL)
	site, exists := w.sites.Get(siteHash)
	if !exists {
		return fmt.Errorf("site not registered: %s", event.SiteURL)
	}
	if !site.Verified || !site.Active {
		return fmt.Errorf("site not accepting burns: %s", event.SiteURL)
	}

	// Drop repeat visits inside the dedup window
	if w.visits.Seen(event.Visitor, siteHash, event.PageID, event.Timestamp) {
		return fmt.Errorf("duplicate visit: %s on %s", event.Visitor, siteHash)
	}

	amount := w.config.BurnPerUnit.MulRaw(event.Units)
	if amount.LT(vautypes.DefaultMinBurnAmount) {
		return fmt.Errorf("burn amount %s below minimum", amount.String())
	}

	w.burnBuffer.Add(&BurnEvent{
		Visitor:   event.Visitor,
		SiteURL:   event.SiteURL,
		SiteHash:  siteHash,
		PageID:    event.PageID,
		Amount:    amount,
		Timestamp: event.Timestamp,
	})

	w.mu.Lock()
	w.accepted++
	w.mu.Unlock()

	return nil
}

// RegisterSite adds or updates a website in the worker's site cache
func (w *EdgeWorker) RegisterSite(site *vautypes.Website) {
	w.sites.Set(site)
}

// SubmitVisit submits a visit event to the worker (simulated WebSocket)
func (w *EdgeWorker) SubmitVisit(event VisitEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	w.eventCh <- event
}

// GetSite returns a cached website by hash
func (w *EdgeWorker) GetSite(siteHash string) *vautypes.Website {
	site, _ := w.sites.Get(siteHash)
	return site
}

// Stats returns edge worker statistics
type Stats struct {
	SiteCount     int
	PendingBurns  int
	TrackedVisits int
	Accepted      int64
	Dropped       int64
}

// GetStats returns current worker statistics
func (w *EdgeWorker) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return Stats{
		SiteCount:     w.sites.Len(),
		PendingBurns:  w.burnBuffer.Len(),
		TrackedVisits: w.visits.Len(),
		Accepted:      w.accepted,
		Dropped:       w.dropped,
	}
}
