package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// EndBlocker is called at the end of each block to roll breaker history
// windows and evaluate trip conditions against the latest market state.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	if err := k.EvaluateCircuitBreaker(ctx, nil); err != nil {
		k.logger.Error("Circuit breaker evaluation failed", "error", err)
	}
	return nil
}
