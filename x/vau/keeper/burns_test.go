package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/twistprotocol/twist-chain/x/vau/types"
)

func TestProcessorFee(t *testing.T) {
	p := types.NewProcessorState("authority")

	testCases := []struct {
		name     string
		amount   math.Int
		expected math.Int
	}{
		{"one twist", math.NewInt(1_000_000_000), math.NewInt(5_000_000)},
		{"small burn truncates", math.NewInt(1_999), math.NewInt(9)},
		{"dust rounds to zero", math.NewInt(19), math.ZeroInt()},
		{"zero", math.ZeroInt(), math.ZeroInt()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fee := p.ProcessorFee(tc.amount)
			if !fee.Equal(tc.expected) {
				t.Errorf("fee on %s: got %s, want %s", tc.amount, fee, tc.expected)
			}
		})
	}
}

func TestCanProcessBurnBounds(t *testing.T) {
	p := types.NewProcessorState("authority")

	if err := p.CanProcessBurn(p.MinBurnAmount); err != nil {
		t.Errorf("minimum amount should pass: %v", err)
	}
	if err := p.CanProcessBurn(p.MaxBurnAmount); err != nil {
		t.Errorf("maximum amount should pass: %v", err)
	}
	if err := p.CanProcessBurn(p.MinBurnAmount.SubRaw(1)); err != types.ErrBurnTooSmall {
		t.Errorf("below minimum: got %v, want ErrBurnTooSmall", err)
	}
	if err := p.CanProcessBurn(p.MaxBurnAmount.AddRaw(1)); err != types.ErrBurnTooLarge {
		t.Errorf("above maximum: got %v, want ErrBurnTooLarge", err)
	}

	p.Paused = true
	if err := p.CanProcessBurn(p.MinBurnAmount); err != types.ErrProcessorPaused {
		t.Errorf("paused processor: got %v, want ErrProcessorPaused", err)
	}
}

func TestEdgeWorkerAuthorization(t *testing.T) {
	p := types.NewProcessorState("authority")

	if p.IsAuthorizedWorker("worker-1") {
		t.Error("fresh processor should have no authorized workers")
	}
	if err := p.AddEdgeWorker("worker-1"); err != nil {
		t.Fatalf("add worker: %v", err)
	}
	if !p.IsAuthorizedWorker("worker-1") {
		t.Error("worker-1 should be authorized after add")
	}

	// Adding the same worker twice is a no-op
	if err := p.AddEdgeWorker("worker-1"); err != nil {
		t.Fatalf("re-add worker: %v", err)
	}
	if len(p.EdgeWorkers) != 1 {
		t.Errorf("worker list length: got %d, want 1", len(p.EdgeWorkers))
	}
}

func TestEdgeWorkerListCap(t *testing.T) {
	p := types.NewProcessorState("authority")

	for i := 0; i < types.MaxEdgeWorkers; i++ {
		worker := "worker-" + string(rune('a'+i))
		if err := p.AddEdgeWorker(worker); err != nil {
			t.Fatalf("add worker %d: %v", i, err)
		}
	}
	if err := p.AddEdgeWorker("one-too-many"); err != types.ErrWorkerListFull {
		t.Errorf("over cap: got %v, want ErrWorkerListFull", err)
	}
	if len(p.EdgeWorkers) != types.MaxEdgeWorkers {
		t.Errorf("worker list length: got %d, want %d", len(p.EdgeWorkers), types.MaxEdgeWorkers)
	}
}

func TestSiteHashDeterministic(t *testing.T) {
	a := types.SiteHash("https://example.com")
	b := types.SiteHash("https://example.com")
	c := types.SiteHash("https://example.org")

	if a != b {
		t.Error("same URL must hash to same key")
	}
	if a == c {
		t.Error("different URLs must not collide")
	}
	if len(a) != 64 {
		t.Errorf("hash length: got %d, want 64 hex chars", len(a))
	}
}

func TestWebsiteBurnGates(t *testing.T) {
	now := int64(1_700_000_000)
	limit := math.NewInt(10_000)

	w := types.NewWebsite("https://example.com", "owner", "gaming", now)

	// Registered sites start unverified
	if err := w.CanBurn(math.NewInt(100), limit); err != types.ErrWebsiteNotVerified {
		t.Errorf("unverified site: got %v, want ErrWebsiteNotVerified", err)
	}

	w.Verified = true
	if err := w.CanBurn(math.NewInt(100), limit); err != nil {
		t.Errorf("verified active site should accept burns: %v", err)
	}

	w.Active = false
	if err := w.CanBurn(math.NewInt(100), limit); err != types.ErrWebsiteInactive {
		t.Errorf("inactive site: got %v, want ErrWebsiteInactive", err)
	}
}

func TestWebsiteDailyLimit(t *testing.T) {
	now := int64(1_700_000_000)
	limit := math.NewInt(10_000)

	w := types.NewWebsite("https://example.com", "owner", "gaming", now)
	w.Verified = true

	w.RecordBurn(math.NewInt(9_000), now)
	if err := w.CanBurn(math.NewInt(1_000), limit); err != nil {
		t.Errorf("burn exactly at limit should pass: %v", err)
	}
	if err := w.CanBurn(math.NewInt(1_001), limit); err != types.ErrDailyLimitExceeded {
		t.Errorf("burn over limit: got %v, want ErrDailyLimitExceeded", err)
	}
}

func TestWebsiteDailyReset(t *testing.T) {
	start := int64(1_700_000_000)
	w := types.NewWebsite("https://example.com", "owner", "gaming", start)

	if w.NeedsDailyReset(start + types.DailyResetInterval - 1) {
		t.Error("reset should not trigger inside the window")
	}
	if !w.NeedsDailyReset(start + types.DailyResetInterval) {
		t.Error("reset should trigger once the window elapses")
	}
}

func TestRecordBurnStats(t *testing.T) {
	now := int64(1_700_000_000)
	w := types.NewWebsite("https://example.com", "owner", "gaming", now)

	w.RecordBurn(math.NewInt(500), now+10)
	w.RecordBurn(math.NewInt(1_500), now+20)

	if w.TotalBurns != 2 {
		t.Errorf("total burns: got %d, want 2", w.TotalBurns)
	}
	if !w.TotalBurned.Equal(math.NewInt(2_000)) {
		t.Errorf("total burned: got %s, want 2000", w.TotalBurned)
	}
	if !w.DailyBurned.Equal(math.NewInt(2_000)) {
		t.Errorf("daily burned: got %s, want 2000", w.DailyBurned)
	}
	if w.LastBurnTime != now+20 {
		t.Errorf("last burn time: got %d, want %d", w.LastBurnTime, now+20)
	}
}

func TestSiteRankingOrdering(t *testing.T) {
	r := NewSiteRanking()

	r.Update("hash-a", "https://a.com", math.NewInt(100))
	r.Update("hash-b", "https://b.com", math.NewInt(300))
	r.Update("hash-c", "https://c.com", math.NewInt(200))

	top := r.Top(3)
	if len(top) != 3 {
		t.Fatalf("top length: got %d, want 3", len(top))
	}
	if top[0].SiteHash != "hash-b" || top[1].SiteHash != "hash-c" || top[2].SiteHash != "hash-a" {
		t.Errorf("ordering: got %s, %s, %s", top[0].SiteHash, top[1].SiteHash, top[2].SiteHash)
	}

	// Repositioning moves a site up without duplicating it
	r.Update("hash-a", "https://a.com", math.NewInt(500))
	top = r.Top(3)
	if top[0].SiteHash != "hash-a" {
		t.Errorf("after update top site: got %s, want hash-a", top[0].SiteHash)
	}
	if r.Len() != 3 {
		t.Errorf("ranking length after update: got %d, want 3", r.Len())
	}
}

func TestSiteRankingTopN(t *testing.T) {
	r := NewSiteRanking()
	for i := 0; i < 5; i++ {
		hash := string(rune('a' + i))
		r.Update(hash, "https://"+hash+".com", math.NewInt(int64(i*100)))
	}

	top := r.Top(2)
	if len(top) != 2 {
		t.Fatalf("top length: got %d, want 2", len(top))
	}
	if !top[0].Burned.Equal(math.NewInt(400)) || !top[1].Burned.Equal(math.NewInt(300)) {
		t.Errorf("top two burned: got %s, %s", top[0].Burned, top[1].Burned)
	}
}
