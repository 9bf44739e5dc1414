package keeper

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/bondpool/types"
)

var (
	testAuthority = sdk.AccAddress(bytes.Repeat([]byte{0xA1}, 20))
	testStaker    = sdk.AccAddress(bytes.Repeat([]byte{0xB2}, 20))
)

// bankRecorder is an in-memory bank for keeper tests. Balances are
// enforced, so a payout from an underfunded module vault fails the same
// way it would on chain.
type bankRecorder struct {
	modules  map[string]sdk.Coins
	accounts map[string]sdk.Coins
}

func newBankRecorder() *bankRecorder {
	return &bankRecorder{
		modules:  make(map[string]sdk.Coins),
		accounts: make(map[string]sdk.Coins),
	}
}

func (b *bankRecorder) fundAccount(addr sdk.AccAddress, coins sdk.Coins) {
	b.accounts[addr.String()] = b.accounts[addr.String()].Add(coins...)
}

func (b *bankRecorder) fundModule(module string, coins sdk.Coins) {
	b.modules[module] = b.modules[module].Add(coins...)
}

func (b *bankRecorder) accountBalance(addr sdk.AccAddress) sdk.Coins {
	return b.accounts[addr.String()]
}

func (b *bankRecorder) moduleBalance(module string) sdk.Coins {
	return b.modules[module]
}

func (b *bankRecorder) SendCoinsFromAccountToModule(_ context.Context, sender sdk.AccAddress, module string, amt sdk.Coins) error {
	have := b.accounts[sender.String()]
	if !have.IsAllGTE(amt) {
		return fmt.Errorf("account %s: insufficient funds: %s < %s", sender, have, amt)
	}
	b.accounts[sender.String()] = have.Sub(amt...)
	b.modules[module] = b.modules[module].Add(amt...)
	return nil
}

func (b *bankRecorder) SendCoinsFromModuleToAccount(_ context.Context, module string, recipient sdk.AccAddress, amt sdk.Coins) error {
	have := b.modules[module]
	if !have.IsAllGTE(amt) {
		return fmt.Errorf("module %s: insufficient funds: %s < %s", module, have, amt)
	}
	b.modules[module] = have.Sub(amt...)
	b.accounts[recipient.String()] = b.accounts[recipient.String()].Add(amt...)
	return nil
}

func (b *bankRecorder) SendCoinsFromModuleToModule(_ context.Context, sender, recipient string, amt sdk.Coins) error {
	have := b.modules[sender]
	if !have.IsAllGTE(amt) {
		return fmt.Errorf("module %s: insufficient funds: %s < %s", sender, have, amt)
	}
	b.modules[sender] = have.Sub(amt...)
	b.modules[recipient] = b.modules[recipient].Add(amt...)
	return nil
}

func (b *bankRecorder) MintCoins(_ context.Context, module string, amt sdk.Coins) error {
	b.modules[module] = b.modules[module].Add(amt...)
	return nil
}

func (b *bankRecorder) BurnCoins(_ context.Context, module string, amt sdk.Coins) error {
	have := b.modules[module]
	if !have.IsAllGTE(amt) {
		return fmt.Errorf("module %s: cannot burn %s, holds %s", module, amt, have)
	}
	b.modules[module] = have.Sub(amt...)
	return nil
}

func newTestKeeper(t *testing.T) (sdk.Context, *Keeper, *bankRecorder) {
	t.Helper()
	key := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.DefaultContext(key, storetypes.NewTransientStoreKey("transient_test"))
	ctx = ctx.WithBlockTime(time.Unix(1_700_000_000, 0))
	bank := newBankRecorder()
	k := NewKeeper(nil, key, bank, testAuthority.String(), log.NewNopLogger())
	return ctx, k, bank
}

func utwist(amount int64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(types.BaseDenom, math.NewInt(amount)))
}

// TestAuthorityYieldFundsVault tests that an authority distribution is
// funded from the authority's own balance: after the burn leg the vault
// still holds the full staked principal plus the staker share of the
// yield, and a full exit pays out without touching anyone else's funds
func TestAuthorityYieldFundsVault(t *testing.T) {
	ctx, k, bank := newTestKeeper(t)
	srv := NewMsgServerImpl(k)

	if _, err := k.CreateSectorPool(ctx, testStaker.String(), "gaming", types.DefaultMinBondDuration); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bank.fundAccount(testStaker, utwist(1000))
	if _, err := k.Stake(ctx, testStaker.String(), "gaming", math.NewInt(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bank.fundAccount(testAuthority, utwist(1000))
	resp, err := srv.DistributeYield(ctx, &types.MsgDistributeYield{
		Authority: testAuthority.String(),
		Sector:    "gaming",
		Amount:    "1000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Burned != "900" || resp.ToStakers != "100" {
		t.Errorf("expected 900/100 split, got %s/%s", resp.Burned, resp.ToStakers)
	}

	// The authority paid, not the vault.
	if got := bank.accountBalance(testAuthority).AmountOf(types.BaseDenom); !got.IsZero() {
		t.Errorf("authority balance should be spent, got %s", got)
	}
	vault := bank.moduleBalance(types.ModuleName).AmountOf(types.BaseDenom)
	if !vault.Equal(math.NewInt(1100)) {
		t.Errorf("expected vault 1100 (principal + staker yield), got %s", vault)
	}

	claimed, err := k.ClaimRewards(ctx, testStaker.String(), "gaming")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claimed.Equal(math.NewInt(100)) {
		t.Errorf("expected claim 100, got %s", claimed)
	}

	// After maturity the full principal must still be withdrawable.
	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(time.Duration(types.DefaultMinBondDuration) * time.Second))
	returned, err := k.Unwrap(ctx, testStaker.String(), "gaming", math.NewInt(1000))
	if err != nil {
		t.Fatalf("full unwrap after distribution failed: %v", err)
	}
	if !returned.Equal(math.NewInt(1000)) {
		t.Errorf("expected principal 1000 returned, got %s", returned)
	}
	if got := bank.moduleBalance(types.ModuleName).AmountOf(types.BaseDenom); !got.IsZero() {
		t.Errorf("expected empty vault after full exit, got %s", got)
	}
}

// TestDistributeYieldRejectsUnderfundedAuthority tests that the
// distribution fails outright when the authority cannot cover it,
// instead of drawing on the vault
func TestDistributeYieldRejectsUnderfundedAuthority(t *testing.T) {
	ctx, k, bank := newTestKeeper(t)
	srv := NewMsgServerImpl(k)

	if _, err := k.CreateSectorPool(ctx, testStaker.String(), "gaming", types.DefaultMinBondDuration); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bank.fundAccount(testStaker, utwist(1000))
	if _, err := k.Stake(ctx, testStaker.String(), "gaming", math.NewInt(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := srv.DistributeYield(ctx, &types.MsgDistributeYield{
		Authority: testAuthority.String(),
		Sector:    "gaming",
		Amount:    "500",
	})
	if err == nil {
		t.Fatal("expected error for unfunded authority distribution")
	}
	vault := bank.moduleBalance(types.ModuleName).AmountOf(types.BaseDenom)
	if !vault.Equal(math.NewInt(1000)) {
		t.Errorf("vault principal touched: expected 1000, got %s", vault)
	}
}

// TestFullUnwrapClosesRoundedPosition tests that a full-principal exit
// removes the position's entire share balance even when the pool's
// share/stake ratio makes the proportional computation truncate to zero
func TestFullUnwrapClosesRoundedPosition(t *testing.T) {
	ctx, k, bank := newTestKeeper(t)

	// Totals shaped by rounding in earlier epochs: five staked against
	// two shares, the exiting position holding one share for two staked.
	pool := types.NewBondPool("defi", "creator", types.DefaultMinBondDuration)
	pool.TotalStaked = math.NewInt(5)
	pool.TotalShares = math.NewInt(2)
	pool.StakerCount = 2
	k.SetPool(ctx, pool)

	pos := types.NewBondPosition(testStaker.String(), "defi", 0, ctx.BlockTime().Unix())
	pos.AmountStaked = math.NewInt(2)
	pos.Shares = math.NewInt(1)
	k.SetPosition(ctx, pos)

	bank.fundAccount(testStaker, sdk.NewCoins(sdk.NewCoin(pool.WrapperDenom, math.NewInt(2))))
	bank.fundModule(types.ModuleName, utwist(5))

	returned, err := k.Unwrap(ctx, testStaker.String(), "defi", math.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !returned.Equal(math.NewInt(2)) {
		t.Errorf("expected 2 returned, got %s", returned)
	}

	if k.GetPosition(ctx, "defi", testStaker.String()) != nil {
		t.Error("position with zero principal was left behind")
	}
	pool = k.GetPool(ctx, "defi")
	if !pool.TotalShares.Equal(math.NewInt(1)) {
		t.Errorf("expected pool shares 1 after exit, got %s", pool.TotalShares)
	}
	if !pool.TotalStaked.Equal(math.NewInt(3)) {
		t.Errorf("expected pool staked 3 after exit, got %s", pool.TotalStaked)
	}
}

// TestFactoryPauseGatesEntrances tests that pausing the factory blocks
// new pools and new stakes but leaves the pause authority-gated
func TestFactoryPauseGatesEntrances(t *testing.T) {
	ctx, k, bank := newTestKeeper(t)
	srv := NewMsgServerImpl(k)

	if _, err := srv.SetFactoryPaused(ctx, &types.MsgSetFactoryPaused{
		Authority: testStaker.String(),
		Paused:    true,
	}); err != types.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := k.CreateSectorPool(ctx, testStaker.String(), "gaming", types.DefaultMinBondDuration); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := srv.SetFactoryPaused(ctx, &types.MsgSetFactoryPaused{
		Authority: testAuthority.String(),
		Paused:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Paused {
		t.Error("expected paused factory")
	}

	if _, err := k.CreateSectorPool(ctx, testStaker.String(), "defi", types.DefaultMinBondDuration); err != types.ErrFactoryPaused {
		t.Errorf("expected ErrFactoryPaused on create, got %v", err)
	}
	bank.fundAccount(testStaker, utwist(100))
	if _, err := k.Stake(ctx, testStaker.String(), "gaming", math.NewInt(100)); err != types.ErrFactoryPaused {
		t.Errorf("expected ErrFactoryPaused on stake, got %v", err)
	}

	if _, err := srv.SetFactoryPaused(ctx, &types.MsgSetFactoryPaused{
		Authority: testAuthority.String(),
		Paused:    false,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := k.Stake(ctx, testStaker.String(), "gaming", math.NewInt(100)); err != nil {
		t.Errorf("stake after resume failed: %v", err)
	}
}

// TestUpdateFactoryParamsSplit tests that an updated burn/staker split
// validates and takes effect on the next distribution
func TestUpdateFactoryParamsSplit(t *testing.T) {
	ctx, k, bank := newTestKeeper(t)
	srv := NewMsgServerImpl(k)

	if _, err := srv.UpdateFactoryParams(ctx, &types.MsgUpdateFactoryParams{
		Authority:       testAuthority.String(),
		BurnBps:         9500,
		StakerBps:       1000,
		EarlyUnwrapBps:  types.EarlyUnwrapPenaltyBps,
		MinBondDuration: types.DefaultMinBondDuration,
		MaxBondDuration: types.DefaultMaxBondDuration,
	}); err != types.ErrInvalidSplit {
		t.Fatalf("expected ErrInvalidSplit, got %v", err)
	}

	if _, err := srv.UpdateFactoryParams(ctx, &types.MsgUpdateFactoryParams{
		Authority:       testAuthority.String(),
		BurnBps:         8000,
		StakerBps:       2000,
		EarlyUnwrapBps:  types.EarlyUnwrapPenaltyBps,
		MinBondDuration: types.DefaultMinBondDuration,
		MaxBondDuration: types.DefaultMaxBondDuration,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := k.CreateSectorPool(ctx, testStaker.String(), "gaming", types.DefaultMinBondDuration); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bank.fundAccount(testStaker, utwist(1000))
	if _, err := k.Stake(ctx, testStaker.String(), "gaming", math.NewInt(1000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bank.fundAccount(testAuthority, utwist(1000))
	resp, err := srv.DistributeYield(ctx, &types.MsgDistributeYield{
		Authority: testAuthority.String(),
		Sector:    "gaming",
		Amount:    "1000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Burned != "800" || resp.ToStakers != "200" {
		t.Errorf("expected 800/200 split, got %s/%s", resp.Burned, resp.ToStakers)
	}
}

// TestLeaderboardIgnoresAbortedWrites tests that a pool write on a
// discarded branch context never reaches the TVL leaderboard: the flush
// re-reads committed state instead of trusting the write itself.
func TestLeaderboardIgnoresAbortedWrites(t *testing.T) {
	ctx, k, _ := newTestKeeper(t)

	pool := types.NewBondPool("gaming", testAuthority.String(), types.DefaultMinBondDuration)
	pool.TotalStaked = math.NewInt(1_000)
	pool.TotalShares = math.NewInt(1_000)
	k.SetPool(ctx, pool)
	k.FlushLeaderboard(ctx)

	top := k.TopPoolsByTVL(1)
	if len(top) != 1 || !top[0].TVL.Equal(math.NewInt(1_000)) {
		t.Fatalf("expected gaming ranked at 1000, got %v", top)
	}

	// A delivery that writes and then aborts leaves only the dirty mark.
	branch, _ := ctx.CacheContext()
	pool.TotalStaked = math.NewInt(9_999)
	k.SetPool(branch, pool)

	k.FlushLeaderboard(ctx)
	top = k.TopPoolsByTVL(1)
	if len(top) != 1 || !top[0].TVL.Equal(math.NewInt(1_000)) {
		t.Errorf("aborted write reached the leaderboard: %v", top)
	}
}
