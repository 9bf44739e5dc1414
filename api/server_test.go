package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/twistprotocol/twist-chain/api/handlers"
	"github.com/twistprotocol/twist-chain/api/types"
)

func TestMockServiceStakeAndWithdraw(t *testing.T) {
	svc := NewMockService()
	ctx := context.Background()

	resp, err := svc.Stake(ctx, &types.StakeRequest{
		Staker: "twist1alice",
		PoolID: 1,
		Amount: "1000000000",
	})
	if err != nil {
		t.Fatalf("stake failed: %v", err)
	}
	if resp.Position.Shares != "1000000000" {
		t.Errorf("expected shares 1000000000, got %s", resp.Position.Shares)
	}

	// No lock, withdrawal should succeed
	wResp, err := svc.Withdraw(ctx, &types.WithdrawRequest{
		Staker: "twist1alice",
		PoolID: 1,
		Shares: "400000000",
	})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if wResp.Position.Shares != "600000000" {
		t.Errorf("expected remaining shares 600000000, got %s", wResp.Position.Shares)
	}

	// More than held fails
	if _, err := svc.Withdraw(ctx, &types.WithdrawRequest{
		Staker: "twist1alice",
		PoolID: 1,
		Shares: "700000000",
	}); err == nil {
		t.Error("expected insufficient shares error")
	}
}

func TestMockServiceLockedWithdraw(t *testing.T) {
	svc := NewMockService()
	ctx := context.Background()

	if _, err := svc.Stake(ctx, &types.StakeRequest{
		Staker:   "twist1bob",
		PoolID:   1,
		Amount:   "500000",
		LockDays: 30,
	}); err != nil {
		t.Fatalf("stake failed: %v", err)
	}

	if _, err := svc.Withdraw(ctx, &types.WithdrawRequest{
		Staker: "twist1bob",
		PoolID: 1,
		Shares: "500000",
	}); err == nil {
		t.Error("expected locked position error")
	}
}

func TestMockServiceLeaderboardOrder(t *testing.T) {
	svc := NewMockService()

	entries, err := svc.GetLeaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected seeded leaderboard entries")
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Rank != entries[i-1].Rank+1 {
			t.Errorf("ranks not sequential at index %d", i)
		}
	}
	if entries[0].Sector != "gaming" {
		t.Errorf("expected gaming to lead the seeded leaderboard, got %s", entries[0].Sector)
	}
}

func TestMockServiceBurnFlow(t *testing.T) {
	svc := NewMockService()
	ctx := context.Background()

	resp, err := svc.SubmitBurn(ctx, &types.BurnSubmission{
		EdgeWorker: "twist1worker",
		Visitor:    "twist1visitor",
		SiteURL:    "https://play.example.com",
		Amount:     "1000000000",
	})
	if err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	if resp.Record.ProcessorFee != "5000000" {
		t.Errorf("expected fee 5000000, got %s", resp.Record.ProcessorFee)
	}

	burns, err := svc.RecentBurns(ctx, 10)
	if err != nil {
		t.Fatalf("recent burns failed: %v", err)
	}
	if len(burns) != 1 || burns[0].RecordID != resp.Record.RecordID {
		t.Error("expected submitted burn in recent list")
	}

	// Unregistered site rejected
	if _, err := svc.SubmitBurn(ctx, &types.BurnSubmission{
		EdgeWorker: "twist1worker",
		Visitor:    "twist1visitor",
		SiteURL:    "https://unknown.example.com",
		Amount:     "1000",
	}); err == nil {
		t.Error("expected unregistered site error")
	}
}

func TestStakingHandlerStake(t *testing.T) {
	svc := NewMockService()
	h := handlers.NewStakingHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{
		"staker":  "twist1carol",
		"pool_id": 1,
		"amount":  "250000",
	})
	req := httptest.NewRequest("POST", "/v1/staking/stake", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleStake(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp types.StakeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Position == nil || resp.Position.StakedAmount != "250000" {
		t.Errorf("unexpected position in response: %+v", resp.Position)
	}
}

func TestStakingHandlerRejectsMissingFields(t *testing.T) {
	svc := NewMockService()
	h := handlers.NewStakingHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{"pool_id": 1})
	req := httptest.NewRequest("POST", "/v1/staking/stake", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleStake(rec, req)

	if rec.Code != 400 {
		t.Errorf("expected 400 for missing amount, got %d", rec.Code)
	}
}

func TestSupplyHandlerState(t *testing.T) {
	svc := NewMockService()
	h := handlers.NewSupplyHandler(svc)

	req := httptest.NewRequest("GET", "/v1/supply/state", nil)
	rec := httptest.NewRecorder()

	h.HandleState(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var state types.EconomicState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if state.Price == 0 {
		t.Error("expected nonzero seeded price")
	}
}

func TestTopSitesHandlerLimit(t *testing.T) {
	svc := NewMockService()
	h := handlers.NewAttentionHandler(svc)

	req := httptest.NewRequest("GET", "/v1/vau/top-sites?limit=2", nil)
	rec := httptest.NewRecorder()

	h.HandleTopSites(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Sites []*types.SiteRankEntry `json:"sites"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Sites) != 2 {
		t.Fatalf("expected 2 sites, got %d", len(resp.Sites))
	}
	if resp.Sites[0].Rank != 1 || resp.Sites[1].Rank != 2 {
		t.Error("expected ranks 1 and 2")
	}
}
