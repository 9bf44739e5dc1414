package keeper

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/twistprotocol/twist-chain/x/vau/types"
)

// RegisterWebsite registers a site and binds it to a sector pool.
// Newly registered sites are unverified and cannot process burns until
// the authority verifies them.
func (k *Keeper) RegisterWebsite(ctx context.Context, owner, siteURL, sector string) (*types.Website, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if siteURL == "" || len(siteURL) > types.MaxSiteURLLen {
		return nil, types.ErrInvalidSiteURL
	}
	if k.GetWebsiteByURL(sdkCtx, siteURL) != nil {
		return nil, types.ErrWebsiteExists
	}

	site := types.NewWebsite(siteURL, owner, sector, sdkCtx.BlockTime().Unix())
	k.SetWebsite(sdkCtx, site)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"vau_register_website",
			sdk.NewAttribute("site_hash", site.SiteHash),
			sdk.NewAttribute("site_url", siteURL),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("sector", sector),
		),
	)

	k.logger.Info("Website registered", "site_url", siteURL, "sector", sector)
	return site, nil
}

// VerifyWebsite marks a site as verified. Authority only.
func (k *Keeper) VerifyWebsite(ctx context.Context, authority, siteHash string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if authority != k.authority {
		return types.ErrUnauthorized
	}
	site := k.GetWebsite(sdkCtx, siteHash)
	if site == nil {
		return types.ErrWebsiteNotFound
	}
	site.Verified = true
	k.SetWebsite(sdkCtx, site)

	k.logger.Info("Website verified", "site_hash", siteHash)
	return nil
}

// UpdateWebsiteMetrics records offchain visitor statistics for a site.
// Edge workers observe unique visitors at the CDN; the chain stores the
// aggregate so average burn per visit can be derived.
func (k *Keeper) UpdateWebsiteMetrics(ctx context.Context, edgeWorker, siteHash string, uniqueVisitors int64) (*types.Website, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	state := k.GetProcessorState(sdkCtx)
	if !state.IsAuthorizedWorker(edgeWorker) {
		return nil, types.ErrUnauthorizedWorker
	}
	site := k.GetWebsite(sdkCtx, siteHash)
	if site == nil {
		return nil, types.ErrWebsiteNotFound
	}
	if err := site.UpdateMetrics(uniqueVisitors); err != nil {
		return nil, err
	}
	k.SetWebsite(sdkCtx, site)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"vau_website_metrics",
			sdk.NewAttribute("site_hash", siteHash),
			sdk.NewAttribute("unique_visitors", strconv.FormatInt(uniqueVisitors, 10)),
		),
	)

	k.logger.Info("Website metrics updated",
		"site_hash", siteHash,
		"unique_visitors", uniqueVisitors,
	)
	return site, nil
}

// AddEdgeWorker authorizes an edge worker signer. Authority only.
func (k *Keeper) AddEdgeWorker(ctx context.Context, authority, worker string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if authority != k.authority {
		return types.ErrUnauthorized
	}
	state := k.GetProcessorState(sdkCtx)
	if err := state.AddEdgeWorker(worker); err != nil {
		return err
	}
	state.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetProcessorState(sdkCtx, state)

	k.logger.Info("Edge worker authorized", "worker", worker)
	return nil
}

// ProcessVisitorBurn handles an attention burn submitted by an edge
// worker on behalf of a visitor: the processor fee is withheld, the
// remainder is routed into the website's sector pool where the factory
// split burns 90% and pays 10% to bond stakers.
func (k *Keeper) ProcessVisitorBurn(ctx context.Context, edgeWorker, visitor, siteURL, pageID string, amount math.Int) (*types.BurnRecord, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	state := k.GetProcessorState(sdkCtx)
	if !state.IsAuthorizedWorker(edgeWorker) {
		return nil, types.ErrUnauthorizedWorker
	}
	if err := state.CanProcessBurn(amount); err != nil {
		return nil, err
	}

	site := k.GetWebsiteByURL(sdkCtx, siteURL)
	if site == nil {
		return nil, types.ErrWebsiteNotFound
	}

	now := sdkCtx.BlockTime().Unix()
	if site.NeedsDailyReset(now) {
		site.DailyBurned = math.ZeroInt()
		site.LastDailyReset = now
	}
	if err := site.CanBurn(amount, state.DailyLimitPerSite); err != nil {
		return nil, err
	}

	visitorAddr, err := sdk.AccAddressFromBech32(visitor)
	if err != nil {
		return nil, err
	}

	// Pull the full burn amount into the module, withhold the fee, then
	// hand the remainder to the sector pool.
	coins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, visitorAddr, types.ModuleName, coins); err != nil {
		return nil, err
	}

	fee := state.ProcessorFee(amount)
	amountToPool := amount.Sub(fee)

	if _, _, err := k.bondPoolKeeper.DistributeYield(ctx, types.ModuleName, site.Sector, amountToPool); err != nil {
		return nil, err
	}

	state.TotalBurnsProcessed++
	state.TotalBurned = state.TotalBurned.Add(amount)
	state.TotalFeesCollected = state.TotalFeesCollected.Add(fee)
	state.UnclaimedFees = state.UnclaimedFees.Add(fee)
	state.UpdatedAt = now

	site.RecordBurn(amount, now)

	record := &types.BurnRecord{
		RecordID:     generateRecordID(),
		Visitor:      visitor,
		SiteHash:     site.SiteHash,
		Sector:       site.Sector,
		Amount:       amount,
		ProcessorFee: fee,
		AmountToPool: amountToPool,
		EdgeWorker:   edgeWorker,
		PageID:       pageID,
		Timestamp:    now,
	}

	k.SetProcessorState(sdkCtx, state)
	k.SetWebsite(sdkCtx, site)
	k.AddBurnRecord(sdkCtx, record)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"vau_visitor_burn",
			sdk.NewAttribute("visitor", visitor),
			sdk.NewAttribute("site_hash", site.SiteHash),
			sdk.NewAttribute("sector", site.Sector),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("fee", fee.String()),
			sdk.NewAttribute("to_pool", amountToPool.String()),
		),
	)

	k.logger.Info("Visitor burn processed",
		"site_url", siteURL,
		"amount", amount.String(),
		"fee", fee.String(),
		"to_pool", amountToPool.String(),
	)

	return record, nil
}

// ClaimProcessorFees moves accumulated processor fees to the treasury.
// Authority only.
func (k *Keeper) ClaimProcessorFees(ctx context.Context, authority string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if authority != k.authority {
		return math.ZeroInt(), types.ErrUnauthorized
	}
	state := k.GetProcessorState(sdkCtx)
	amount := state.UnclaimedFees
	if !amount.IsPositive() {
		return math.ZeroInt(), types.ErrNoFeesToClaim
	}

	coins := sdk.NewCoins(sdk.NewCoin(types.BaseDenom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToModule(ctx, types.ModuleName, types.TreasuryPoolName, coins); err != nil {
		return math.ZeroInt(), err
	}

	state.UnclaimedFees = math.ZeroInt()
	state.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetProcessorState(sdkCtx, state)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"vau_claim_fees",
			sdk.NewAttribute("amount", amount.String()),
		),
	)

	k.logger.Info("Processor fees claimed", "amount", amount.String())
	return amount, nil
}

// generateRecordID generates a unique burn record ID
func generateRecordID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "burn-" + hex.EncodeToString(b)
}
