package api

import (
	"bytes"
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/api/types"
)

func testAddr(fill byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{fill}, 20)).String()
}

func TestKeeperServiceStakeFlow(t *testing.T) {
	svc := NewKeeperService()
	ctx := context.Background()
	staker := testAddr(0xD1)

	resp, err := svc.Stake(ctx, &types.StakeRequest{
		Staker: staker,
		PoolID: 1,
		Amount: "2000000000",
	})
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if resp.Position.StakedAmount != "2000000000" {
		t.Errorf("expected staked amount 2000000000, got %s", resp.Position.StakedAmount)
	}
	if resp.Pool.TotalStaked != "2000000000" {
		t.Errorf("expected pool total 2000000000, got %s", resp.Pool.TotalStaked)
	}

	positions, err := svc.GetPositions(ctx, staker)
	if err != nil {
		t.Fatalf("get positions failed: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	if positions[0].PoolID != 1 {
		t.Errorf("expected pool id 1, got %d", positions[0].PoolID)
	}

	pool, err := svc.GetPool(ctx, 1)
	if err != nil {
		t.Fatalf("get pool failed: %v", err)
	}
	if pool.StakerCount != 1 {
		t.Errorf("expected 1 staker, got %d", pool.StakerCount)
	}

	if _, err := svc.GetPool(ctx, 99); err == nil {
		t.Error("expected unknown pool error")
	}
}

func TestKeeperServiceLeaderboardTracksBonds(t *testing.T) {
	svc := NewKeeperService()
	ctx := context.Background()

	if _, err := svc.BondStake(ctx, &types.BondStakeRequest{
		Staker: testAddr(0xD2),
		Sector: "gaming",
		Amount: "10000000000",
	}); err != nil {
		t.Fatalf("bond stake gaming failed: %v", err)
	}
	if _, err := svc.BondStake(ctx, &types.BondStakeRequest{
		Staker: testAddr(0xD3),
		Sector: "defi",
		Amount: "4000000000",
	}); err != nil {
		t.Fatalf("bond stake defi failed: %v", err)
	}

	entries, err := svc.GetLeaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Sector != "gaming" || entries[0].TotalBonded != "10000000000" {
		t.Errorf("expected gaming/10000000000 first, got %s/%s", entries[0].Sector, entries[0].TotalBonded)
	}
	if entries[1].Sector != "defi" {
		t.Errorf("expected defi second, got %s", entries[1].Sector)
	}
}

func TestKeeperServiceBurnFeedsSiteRanking(t *testing.T) {
	svc := NewKeeperService()
	ctx := context.Background()

	// Yield from burns needs bond stakers in the site's sector.
	if _, err := svc.BondStake(ctx, &types.BondStakeRequest{
		Staker: testAddr(0xD5),
		Sector: "gaming",
		Amount: "5000000000",
	}); err != nil {
		t.Fatalf("bond stake failed: %v", err)
	}

	resp, err := svc.SubmitBurn(ctx, &types.BurnSubmission{
		Visitor: testAddr(0xD4),
		SiteURL: "https://play.example.com",
		Amount:  "1000000",
	})
	if err != nil {
		t.Fatalf("submit burn failed: %v", err)
	}
	if resp.Record.Amount != "1000000" {
		t.Errorf("expected burn amount 1000000, got %s", resp.Record.Amount)
	}
	// 0.5% processor fee
	if resp.Record.ProcessorFee != "5000" {
		t.Errorf("expected fee 5000, got %s", resp.Record.ProcessorFee)
	}

	top, err := svc.TopSites(ctx, 1)
	if err != nil {
		t.Fatalf("top sites failed: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("expected 1 ranked site, got %d", len(top))
	}
	if top[0].SiteURL != "https://play.example.com" {
		t.Errorf("expected play.example.com on top, got %s", top[0].SiteURL)
	}
	if top[0].TotalBurned != "1000000" {
		t.Errorf("expected total burned 1000000, got %s", top[0].TotalBurned)
	}

	burns, err := svc.RecentBurns(ctx, 10)
	if err != nil {
		t.Fatalf("recent burns failed: %v", err)
	}
	if len(burns) != 1 {
		t.Fatalf("expected 1 burn record, got %d", len(burns))
	}
	if burns[0].RecordID != resp.Record.RecordID {
		t.Errorf("expected record %s, got %s", resp.Record.RecordID, burns[0].RecordID)
	}
}

func TestKeeperServiceSupplyState(t *testing.T) {
	svc := NewKeeperService()
	ctx := context.Background()

	state, err := svc.GetEconomicState(ctx)
	if err != nil {
		t.Fatalf("economic state failed: %v", err)
	}
	if state.TotalSupply != "1000000000000000000" {
		t.Errorf("expected seeded supply 1000000000000000000, got %s", state.TotalSupply)
	}
	if state.BreakerSeverity != "none" {
		t.Errorf("expected severity none, got %s", state.BreakerSeverity)
	}

	ctrl, err := svc.GetController(ctx)
	if err != nil {
		t.Fatalf("controller failed: %v", err)
	}
	if ctrl.TargetPrice != 50000 {
		t.Errorf("expected target price 50000, got %d", ctrl.TargetPrice)
	}
}
