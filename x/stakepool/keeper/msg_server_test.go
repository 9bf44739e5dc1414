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

	"github.com/twistprotocol/twist-chain/x/stakepool/types"
)

var (
	testAuthority = sdk.AccAddress(bytes.Repeat([]byte{0xA1}, 20))
	testStaker    = sdk.AccAddress(bytes.Repeat([]byte{0xB2}, 20))
)

// ledgerBank is an in-memory bank for keeper tests. Balances are
// enforced, so a payout from an underfunded module vault fails the same
// way it would on chain.
type ledgerBank struct {
	modules  map[string]sdk.Coins
	accounts map[string]sdk.Coins
}

func newLedgerBank() *ledgerBank {
	return &ledgerBank{
		modules:  make(map[string]sdk.Coins),
		accounts: make(map[string]sdk.Coins),
	}
}

func (b *ledgerBank) fundAccount(addr sdk.AccAddress, coins sdk.Coins) {
	b.accounts[addr.String()] = b.accounts[addr.String()].Add(coins...)
}

func (b *ledgerBank) accountBalance(addr sdk.AccAddress) sdk.Coins {
	return b.accounts[addr.String()]
}

func (b *ledgerBank) moduleBalance(module string) sdk.Coins {
	return b.modules[module]
}

func (b *ledgerBank) SendCoinsFromAccountToModule(_ context.Context, sender sdk.AccAddress, module string, amt sdk.Coins) error {
	have := b.accounts[sender.String()]
	if !have.IsAllGTE(amt) {
		return fmt.Errorf("account %s: insufficient funds: %s < %s", sender, have, amt)
	}
	b.accounts[sender.String()] = have.Sub(amt...)
	b.modules[module] = b.modules[module].Add(amt...)
	return nil
}

func (b *ledgerBank) SendCoinsFromModuleToAccount(_ context.Context, module string, recipient sdk.AccAddress, amt sdk.Coins) error {
	have := b.modules[module]
	if !have.IsAllGTE(amt) {
		return fmt.Errorf("module %s: insufficient funds: %s < %s", module, have, amt)
	}
	b.modules[module] = have.Sub(amt...)
	b.accounts[recipient.String()] = b.accounts[recipient.String()].Add(amt...)
	return nil
}

func (b *ledgerBank) SendCoinsFromModuleToModule(_ context.Context, sender, recipient string, amt sdk.Coins) error {
	have := b.modules[sender]
	if !have.IsAllGTE(amt) {
		return fmt.Errorf("module %s: insufficient funds: %s < %s", sender, have, amt)
	}
	b.modules[sender] = have.Sub(amt...)
	b.modules[recipient] = b.modules[recipient].Add(amt...)
	return nil
}

func newTestKeeper(t *testing.T) (sdk.Context, *Keeper, *ledgerBank) {
	t.Helper()
	key := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.DefaultContext(key, storetypes.NewTransientStoreKey("transient_test"))
	ctx = ctx.WithBlockTime(time.Unix(1_700_000_000, 0))
	bank := newLedgerBank()
	k := NewKeeper(nil, key, bank, testAuthority.String(), log.NewNopLogger())
	return ctx, k, bank
}

func utwist(amount int64) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(types.DefaultDenom, math.NewInt(amount)))
}

// TestAuthorityYieldFundsPool tests that an authority distribution is
// funded from the authority's own balance, so claims pay from the yield
// and the full staked principal stays withdrawable afterwards
func TestAuthorityYieldFundsPool(t *testing.T) {
	ctx, k, bank := newTestKeeper(t)
	srv := NewMsgServerImpl(k)

	if _, err := k.CreatePool(ctx, testStaker.String(), "twist-main", "Main", types.DefaultDenom); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	principal := int64(2_000_000_000)
	bank.fundAccount(testStaker, utwist(principal))
	pos, err := k.Stake(ctx, testStaker.String(), "twist-main", math.NewInt(principal), types.LockTier30Days)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	yield := int64(1_000_000_000)
	bank.fundAccount(testAuthority, utwist(yield))
	if _, err := srv.DistributeYield(ctx, &types.MsgDistributeYield{
		Authority: testAuthority.String(),
		PoolID:    "twist-main",
		Amount:    "1000000000",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The authority paid, not the vault.
	if got := bank.accountBalance(testAuthority).AmountOf(types.DefaultDenom); !got.IsZero() {
		t.Errorf("authority balance should be spent, got %s", got)
	}
	vault := bank.moduleBalance(types.ModuleName).AmountOf(types.DefaultDenom)
	if !vault.Equal(math.NewInt(principal + yield)) {
		t.Errorf("expected vault %d, got %s", principal+yield, vault)
	}

	claimed, err := k.ClaimRewards(ctx, testStaker.String(), "twist-main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !claimed.Equal(math.NewInt(yield)) {
		t.Errorf("expected claim %d, got %s", yield, claimed)
	}

	// After the lock elapses the full principal must still come back out.
	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(time.Duration(types.LockTier30Days) * time.Second))
	returned, penalty, _, err := k.Withdraw(ctx, testStaker.String(), "twist-main", pos.Shares)
	if err != nil {
		t.Fatalf("full withdrawal after distribution failed: %v", err)
	}
	if !penalty.IsZero() {
		t.Errorf("expected no penalty after lock, got %s", penalty)
	}
	if !returned.Equal(math.NewInt(principal)) {
		t.Errorf("expected principal %d returned, got %s", principal, returned)
	}
	if got := bank.moduleBalance(types.ModuleName).AmountOf(types.DefaultDenom); !got.IsZero() {
		t.Errorf("expected empty vault after full exit, got %s", got)
	}
}

// TestDistributeYieldRejectsUnderfundedAuthority tests that an unfunded
// distribution fails instead of minting claims against principal
func TestDistributeYieldRejectsUnderfundedAuthority(t *testing.T) {
	ctx, k, bank := newTestKeeper(t)
	srv := NewMsgServerImpl(k)

	if _, err := k.CreatePool(ctx, testStaker.String(), "twist-main", "Main", types.DefaultDenom); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	principal := int64(2_000_000_000)
	bank.fundAccount(testStaker, utwist(principal))
	if _, err := k.Stake(ctx, testStaker.String(), "twist-main", math.NewInt(principal), types.LockTier30Days); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := srv.DistributeYield(ctx, &types.MsgDistributeYield{
		Authority: testAuthority.String(),
		PoolID:    "twist-main",
		Amount:    "500000000",
	})
	if err == nil {
		t.Fatal("expected error for unfunded authority distribution")
	}
	vault := bank.moduleBalance(types.ModuleName).AmountOf(types.DefaultDenom)
	if !vault.Equal(math.NewInt(principal)) {
		t.Errorf("vault principal touched: expected %d, got %s", principal, vault)
	}
}
