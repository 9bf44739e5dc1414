package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrUnauthorized         = errors.Register("supply", 1, "unauthorized")
	ErrCircuitBreakerActive = errors.Register("supply", 2, "circuit breaker is active")
	ErrEmergencyPause       = errors.Register("supply", 3, "emergency pause is active")
	ErrOracleStale          = errors.Register("supply", 4, "oracle price is stale")
	ErrInvalidOraclePrice   = errors.Register("supply", 5, "oracle price must be positive")
	ErrOracleDivergence     = errors.Register("supply", 6, "oracle prices diverge beyond threshold")
	ErrNoPriceSources       = errors.Register("supply", 7, "no usable price sources")
	ErrAdjustmentTooSoon    = errors.Register("supply", 8, "adjustment cooldown has not elapsed")
	ErrInvalidParams        = errors.Register("supply", 9, "invalid controller parameters")
	ErrBreakerNotActive     = errors.Register("supply", 10, "circuit breaker is not active")
	ErrCooldownActive       = errors.Register("supply", 11, "severity cooldown has not elapsed")
	ErrControllerNotFound   = errors.Register("supply", 12, "pid controller not initialized")
	ErrInvalidMarketStats   = errors.Register("supply", 13, "market stats must be non-negative")
)
