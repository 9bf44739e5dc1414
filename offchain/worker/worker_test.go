package worker

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/math"

	vautypes "github.com/twistprotocol/twist-chain/x/vau/types"
)

func verifiedSite(url, sector string) *vautypes.Website {
	site := vautypes.NewWebsite(url, "twist1owner", sector, time.Now().Unix())
	site.Verified = true
	return site
}

func TestHandleVisitScoresAttention(t *testing.T) {
	w := NewEdgeWorker(nil, NewMockSubmitter())
	w.RegisterSite(verifiedSite("https://play.example.com", "gaming"))

	err := w.handleVisit(VisitEvent{
		Visitor:   "twist1visitor1",
		SiteURL:   "https://play.example.com",
		PageID:    "lobby",
		Units:     4,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("handleVisit failed: %v", err)
	}

	pending := w.burnBuffer.Peek()
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending burn, got %d", len(pending))
	}
	want := math.NewInt(4_000)
	if !pending[0].Amount.Equal(want) {
		t.Errorf("expected amount %s, got %s", want, pending[0].Amount)
	}
	if pending[0].SiteHash != vautypes.SiteHash("https://play.example.com") {
		t.Errorf("unexpected site hash %s", pending[0].SiteHash)
	}
}

func TestHandleVisitRejectsUnregisteredSite(t *testing.T) {
	w := NewEdgeWorker(nil, NewMockSubmitter())

	err := w.handleVisit(VisitEvent{
		Visitor:   "twist1visitor1",
		SiteURL:   "https://unknown.example.com",
		Units:     1,
		Timestamp: time.Now(),
	})
	if err == nil {
		t.Fatal("expected error for unregistered site")
	}
}

func TestHandleVisitRejectsUnverifiedSite(t *testing.T) {
	w := NewEdgeWorker(nil, NewMockSubmitter())
	site := vautypes.NewWebsite("https://new.example.com", "twist1owner", "media", time.Now().Unix())
	w.RegisterSite(site)

	err := w.handleVisit(VisitEvent{
		Visitor:   "twist1visitor1",
		SiteURL:   "https://new.example.com",
		Units:     1,
		Timestamp: time.Now(),
	})
	if err == nil {
		t.Fatal("expected error for unverified site")
	}
}

func TestHandleVisitDedup(t *testing.T) {
	w := NewEdgeWorker(nil, NewMockSubmitter())
	w.RegisterSite(verifiedSite("https://news.example.com", "media"))

	now := time.Now()
	event := VisitEvent{
		Visitor:   "twist1visitor1",
		SiteURL:   "https://news.example.com",
		PageID:    "frontpage",
		Units:     2,
		Timestamp: now,
	}

	if err := w.handleVisit(event); err != nil {
		t.Fatalf("first visit failed: %v", err)
	}
	if err := w.handleVisit(event); err == nil {
		t.Fatal("expected duplicate visit to be rejected")
	}

	// Same visitor on a different page is not a duplicate
	event.PageID = "article-42"
	if err := w.handleVisit(event); err != nil {
		t.Fatalf("different page rejected: %v", err)
	}

	// After the window expires the same page can burn again
	event.PageID = "frontpage"
	event.Timestamp = now.Add(w.config.DedupWindow + time.Second)
	if err := w.handleVisit(event); err != nil {
		t.Fatalf("post-window visit rejected: %v", err)
	}
}

func TestVisitCachePrune(t *testing.T) {
	c := NewVisitCache(10 * time.Second)
	now := time.Now()

	c.Seen("v1", "h1", "p1", now)
	c.Seen("v2", "h1", "p1", now)
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}

	removed := c.Prune(now.Add(11 * time.Second))
	if removed != 2 {
		t.Errorf("expected 2 pruned, got %d", removed)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestSubmitPendingBurnsRetainsOnFailure(t *testing.T) {
	sub := NewMockSubmitter()
	w := NewEdgeWorker(nil, sub)
	w.RegisterSite(verifiedSite("https://swap.example.com", "defi"))

	if err := w.handleVisit(VisitEvent{
		Visitor:   "twist1visitor1",
		SiteURL:   "https://swap.example.com",
		Units:     5,
		Timestamp: time.Now(),
	}); err != nil {
		t.Fatalf("handleVisit failed: %v", err)
	}

	sub.SetSimulateFailure(true)
	w.submitPendingBurns(context.Background())
	if w.burnBuffer.Len() != 1 {
		t.Fatalf("expected burn retained after failed submit, got %d", w.burnBuffer.Len())
	}

	sub.SetSimulateFailure(false)
	w.submitPendingBurns(context.Background())
	if w.burnBuffer.Len() != 0 {
		t.Fatalf("expected buffer drained, got %d", w.burnBuffer.Len())
	}

	burns := sub.GetSubmittedBurns()
	if len(burns) != 1 {
		t.Fatalf("expected 1 submitted burn, got %d", len(burns))
	}
	if !burns[0].Amount.Equal(math.NewInt(5_000)) {
		t.Errorf("unexpected amount %s", burns[0].Amount)
	}
}

func TestBurnBufferFlushBatch(t *testing.T) {
	b := NewBurnBuffer(2)
	for i := 0; i < 5; i++ {
		b.Add(&BurnEvent{Visitor: "v", Amount: math.NewInt(int64(i + 1))})
	}

	batch := b.FlushBatch()
	if len(batch) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(batch))
	}
	if b.Len() != 3 {
		t.Fatalf("expected 3 remaining, got %d", b.Len())
	}
}

func TestBatchSubmitterSplitsBatches(t *testing.T) {
	sub := NewBatchSubmitter(&BatchSubmitterConfig{
		RPCURL:        "http://localhost:26657",
		WorkerAddress: "twist1worker",
		BatchSize:     2,
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	})

	events := make([]*BurnEvent, 5)
	for i := range events {
		events[i] = &BurnEvent{
			Visitor:  "twist1visitor1",
			SiteURL:  "https://play.example.com",
			SiteHash: vautypes.SiteHash("https://play.example.com"),
			Amount:   math.NewInt(1_000),
		}
	}

	if err := sub.SubmitBurns(context.Background(), events); err != nil {
		t.Fatalf("SubmitBurns failed: %v", err)
	}

	status := sub.GetStatus()
	if status.TotalSubmissions != 1 {
		t.Errorf("expected 1 submission, got %d", status.TotalSubmissions)
	}
	if status.PendingTxCount != 0 {
		t.Errorf("expected no pending txs, got %d", status.PendingTxCount)
	}
}
