package keeper

import (
	"bytes"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/vau/types"
)

var (
	metricsAuthority = sdk.AccAddress(bytes.Repeat([]byte{0xA1}, 20))
	metricsWorker    = sdk.AccAddress(bytes.Repeat([]byte{0xB2}, 20))
	metricsOutsider  = sdk.AccAddress(bytes.Repeat([]byte{0xC3}, 20))
)

func newMetricsKeeper(t *testing.T) (sdk.Context, *Keeper) {
	t.Helper()
	key := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.DefaultContext(key, storetypes.NewTransientStoreKey("transient_test"))
	ctx = ctx.WithBlockTime(time.Unix(1_700_000_000, 0))
	k := NewKeeper(nil, key, nil, nil, metricsAuthority.String(), log.NewNopLogger())
	return ctx, k
}

// TestUpdateWebsiteMetricsDerivesAverage tests that an authorized edge
// worker can report unique visitors and that the average burn per visit
// is derived from the site's lifetime burn total
func TestUpdateWebsiteMetricsDerivesAverage(t *testing.T) {
	ctx, k := newMetricsKeeper(t)
	srv := NewMsgServerImpl(k)

	if err := k.AddEdgeWorker(ctx, metricsAuthority.String(), metricsWorker.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	site, err := k.RegisterWebsite(ctx, metricsAuthority.String(), "https://play.example.com", "gaming")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Lifetime burns accumulated before any visitor report.
	site.TotalBurned = math.NewInt(100_000)
	site.TotalBurns = 10
	k.SetWebsite(ctx, site)

	resp, err := srv.UpdateWebsiteMetrics(ctx, &types.MsgUpdateWebsiteMetrics{
		EdgeWorker:     metricsWorker.String(),
		SiteHash:       site.SiteHash,
		UniqueVisitors: 40,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AvgBurnPerVisit != "2500" {
		t.Errorf("expected avg 2500, got %s", resp.AvgBurnPerVisit)
	}

	stored := k.GetWebsite(ctx, site.SiteHash)
	if stored.UniqueVisitors != 40 {
		t.Errorf("expected 40 unique visitors, got %d", stored.UniqueVisitors)
	}
	if !stored.AvgBurnPerVisit.Equal(math.NewInt(2500)) {
		t.Errorf("expected stored avg 2500, got %s", stored.AvgBurnPerVisit)
	}
}

// TestUpdateWebsiteMetricsGates tests worker authorization and input
// validation on the metrics path
func TestUpdateWebsiteMetricsGates(t *testing.T) {
	ctx, k := newMetricsKeeper(t)

	if err := k.AddEdgeWorker(ctx, metricsAuthority.String(), metricsWorker.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	site, err := k.RegisterWebsite(ctx, metricsAuthority.String(), "https://news.example.com", "news")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := k.UpdateWebsiteMetrics(ctx, metricsOutsider.String(), site.SiteHash, 10); err != types.ErrUnauthorizedWorker {
		t.Errorf("expected ErrUnauthorizedWorker, got %v", err)
	}
	if _, err := k.UpdateWebsiteMetrics(ctx, metricsWorker.String(), "deadbeef", 10); err != types.ErrWebsiteNotFound {
		t.Errorf("expected ErrWebsiteNotFound, got %v", err)
	}
	if _, err := k.UpdateWebsiteMetrics(ctx, metricsWorker.String(), site.SiteHash, -1); err != types.ErrInvalidMetrics {
		t.Errorf("expected ErrInvalidMetrics, got %v", err)
	}
}

// TestRecordBurnRefreshesAverage tests that burns recorded after a
// visitor report keep the derived average current
func TestRecordBurnRefreshesAverage(t *testing.T) {
	site := types.NewWebsite("https://swap.example.com", "owner", "defi", 0)
	if err := site.UpdateMetrics(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	site.RecordBurn(math.NewInt(1_000), 100)
	if !site.AvgBurnPerVisit.Equal(math.NewInt(250)) {
		t.Errorf("expected avg 250, got %s", site.AvgBurnPerVisit)
	}

	site.RecordBurn(math.NewInt(3_000), 200)
	if !site.AvgBurnPerVisit.Equal(math.NewInt(1_000)) {
		t.Errorf("expected avg 1000, got %s", site.AvgBurnPerVisit)
	}
}

// TestSiteRankingIgnoresAbortedWrites tests that a website write on a
// discarded branch context never reaches the burn ranking.
func TestSiteRankingIgnoresAbortedWrites(t *testing.T) {
	ctx, k := newMetricsKeeper(t)

	site := types.NewWebsite("https://a.example.com", metricsAuthority.String(), "media", ctx.BlockTime().Unix())
	site.TotalBurned = math.NewInt(500)
	k.SetWebsite(ctx, site)
	k.FlushSiteRanking(ctx)

	top := k.TopSitesByBurned(1)
	if len(top) != 1 || !top[0].Burned.Equal(math.NewInt(500)) {
		t.Fatalf("expected site ranked at 500, got %v", top)
	}

	branch, _ := ctx.CacheContext()
	site.TotalBurned = math.NewInt(9_000)
	k.SetWebsite(branch, site)

	k.FlushSiteRanking(ctx)
	top = k.TopSitesByBurned(1)
	if len(top) != 1 || !top[0].Burned.Equal(math.NewInt(500)) {
		t.Errorf("aborted write reached the ranking: %v", top)
	}
}
