package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrPoolNotFound       = errors.Register("bondpool", 1, "bond pool not found")
	ErrPoolExists         = errors.Register("bondpool", 2, "bond pool already exists")
	ErrPoolInactive       = errors.Register("bondpool", 3, "bond pool is not active")
	ErrFactoryPaused      = errors.Register("bondpool", 4, "factory is paused")
	ErrPositionNotFound   = errors.Register("bondpool", 5, "bond position not found")
	ErrInvalidAmount      = errors.Register("bondpool", 6, "amount must be positive")
	ErrInvalidSector      = errors.Register("bondpool", 7, "invalid sector name")
	ErrNoStakers          = errors.Register("bondpool", 8, "pool has no stakers")
	ErrInsufficientStake  = errors.Register("bondpool", 9, "insufficient staked balance")
	ErrInsufficientShares = errors.Register("bondpool", 10, "insufficient shares")
	ErrUnauthorized       = errors.Register("bondpool", 11, "unauthorized")
	ErrMathOverflow       = errors.Register("bondpool", 12, "arithmetic overflow or division by zero")
	ErrInvalidSplit       = errors.Register("bondpool", 13, "burn and staker shares must sum to 100%")
	ErrNothingStaked      = errors.Register("bondpool", 14, "no yield distributed: pool is empty")
)
