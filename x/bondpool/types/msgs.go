package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreateSectorPool    = "create_sector_pool"
	TypeMsgBondStake           = "bond_stake"
	TypeMsgUnwrap              = "unwrap"
	TypeMsgClaimBondRewards    = "claim_bond_rewards"
	TypeMsgDistributeYield     = "distribute_bond_yield"
	TypeMsgSetFactoryPaused    = "set_factory_paused"
	TypeMsgUpdateFactoryParams = "update_factory_params"
)

// MsgCreateSectorPool defines the CreateSectorPool message
type MsgCreateSectorPool struct {
	Creator      string `json:"creator"`
	Sector       string `json:"sector"`
	LockDuration int64  `json:"lock_duration"` // seconds
}

// Route implements sdk.Msg
func (msg MsgCreateSectorPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreateSectorPool) Type() string { return TypeMsgCreateSectorPool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreateSectorPool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return err
	}
	if !ValidSectorName(msg.Sector) {
		return ErrInvalidSector
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreateSectorPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Creator)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreateSectorPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreateSectorPool) Reset() { *msg = MsgCreateSectorPool{} }

// String implements proto.Message
func (msg MsgCreateSectorPool) String() string {
	return fmt.Sprintf("MsgCreateSectorPool{Creator: %s, Sector: %s}", msg.Creator, msg.Sector)
}

// MsgCreateSectorPoolResponse defines the CreateSectorPool response
type MsgCreateSectorPoolResponse struct {
	Sector       string `json:"sector"`
	WrapperDenom string `json:"wrapper_denom"`
}

// MsgBondStake defines the BondStake message
type MsgBondStake struct {
	Staker string `json:"staker"`
	Sector string `json:"sector"`
	Amount string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgBondStake) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgBondStake) Type() string { return TypeMsgBondStake }

// ValidateBasic implements sdk.Msg
func (msg MsgBondStake) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return err
	}
	if !ValidSectorName(msg.Sector) {
		return ErrInvalidSector
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgBondStake) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgBondStake) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgBondStake) Reset() { *msg = MsgBondStake{} }

// String implements proto.Message
func (msg MsgBondStake) String() string {
	return fmt.Sprintf("MsgBondStake{Staker: %s, Sector: %s, Amount: %s}", msg.Staker, msg.Sector, msg.Amount)
}

// MsgBondStakeResponse defines the BondStake response
type MsgBondStakeResponse struct {
	SharesReceived string `json:"shares_received"`
	WrapperDenom   string `json:"wrapper_denom"`
	UnlockTime     int64  `json:"unlock_time"`
}

// MsgUnwrap defines the Unwrap message. Early unwraps bypass the bond
// maturity check in exchange for a burned penalty.
type MsgUnwrap struct {
	Staker string `json:"staker"`
	Sector string `json:"sector"`
	Amount string `json:"amount"`
	Early  bool   `json:"early"`
}

// Route implements sdk.Msg
func (msg MsgUnwrap) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUnwrap) Type() string { return TypeMsgUnwrap }

// ValidateBasic implements sdk.Msg
func (msg MsgUnwrap) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return err
	}
	if !ValidSectorName(msg.Sector) {
		return ErrInvalidSector
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUnwrap) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUnwrap) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUnwrap) Reset() { *msg = MsgUnwrap{} }

// String implements proto.Message
func (msg MsgUnwrap) String() string {
	return fmt.Sprintf("MsgUnwrap{Staker: %s, Sector: %s, Amount: %s, Early: %t}", msg.Staker, msg.Sector, msg.Amount, msg.Early)
}

// MsgUnwrapResponse defines the Unwrap response
type MsgUnwrapResponse struct {
	AmountReturned string `json:"amount_returned"`
	PenaltyBurned  string `json:"penalty_burned"`
}

// MsgClaimBondRewards defines the ClaimBondRewards message
type MsgClaimBondRewards struct {
	Staker string `json:"staker"`
	Sector string `json:"sector"`
}

// Route implements sdk.Msg
func (msg MsgClaimBondRewards) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimBondRewards) Type() string { return TypeMsgClaimBondRewards }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimBondRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return err
	}
	if !ValidSectorName(msg.Sector) {
		return ErrInvalidSector
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimBondRewards) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaimBondRewards) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimBondRewards) Reset() { *msg = MsgClaimBondRewards{} }

// String implements proto.Message
func (msg MsgClaimBondRewards) String() string {
	return fmt.Sprintf("MsgClaimBondRewards{Staker: %s, Sector: %s}", msg.Staker, msg.Sector)
}

// MsgClaimBondRewardsResponse defines the ClaimBondRewards response
type MsgClaimBondRewardsResponse struct {
	AmountClaimed string `json:"amount_claimed"`
}

// MsgDistributeYield defines the DistributeYield message (authority only)
type MsgDistributeYield struct {
	Authority string `json:"authority"`
	Sector    string `json:"sector"`
	Amount    string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgDistributeYield) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDistributeYield) Type() string { return TypeMsgDistributeYield }

// ValidateBasic implements sdk.Msg
func (msg MsgDistributeYield) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if !ValidSectorName(msg.Sector) {
		return ErrInvalidSector
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgDistributeYield) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgDistributeYield) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDistributeYield) Reset() { *msg = MsgDistributeYield{} }

// String implements proto.Message
func (msg MsgDistributeYield) String() string {
	return fmt.Sprintf("MsgDistributeYield{Sector: %s, Amount: %s}", msg.Sector, msg.Amount)
}

// MsgDistributeYieldResponse defines the DistributeYield response
type MsgDistributeYieldResponse struct {
	Burned    string `json:"burned"`
	ToStakers string `json:"to_stakers"`
}

// MsgSetFactoryPaused defines the SetFactoryPaused message (authority
// only). Pausing the factory blocks new pools and new stakes; unwraps
// and claims keep working.
type MsgSetFactoryPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

// Route implements sdk.Msg
func (msg MsgSetFactoryPaused) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetFactoryPaused) Type() string { return TypeMsgSetFactoryPaused }

// ValidateBasic implements sdk.Msg
func (msg MsgSetFactoryPaused) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetFactoryPaused) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetFactoryPaused) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetFactoryPaused) Reset() { *msg = MsgSetFactoryPaused{} }

// String implements proto.Message
func (msg MsgSetFactoryPaused) String() string {
	return fmt.Sprintf("MsgSetFactoryPaused{Paused: %t}", msg.Paused)
}

// MsgSetFactoryPausedResponse defines the SetFactoryPaused response
type MsgSetFactoryPausedResponse struct {
	Paused bool `json:"paused"`
}

// MsgUpdateFactoryParams defines the UpdateFactoryParams message
// (authority only). All fields are absolute values, not deltas.
type MsgUpdateFactoryParams struct {
	Authority       string `json:"authority"`
	BurnBps         int64  `json:"burn_bps"`
	StakerBps       int64  `json:"staker_bps"`
	EarlyUnwrapBps  int64  `json:"early_unwrap_bps"`
	MinBondDuration int64  `json:"min_bond_duration"`
	MaxBondDuration int64  `json:"max_bond_duration"`
}

// Route implements sdk.Msg
func (msg MsgUpdateFactoryParams) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateFactoryParams) Type() string { return TypeMsgUpdateFactoryParams }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateFactoryParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.BurnBps < 0 || msg.StakerBps < 0 || msg.BurnBps+msg.StakerBps != 10_000 {
		return ErrInvalidSplit
	}
	if msg.EarlyUnwrapBps < 0 || msg.EarlyUnwrapBps > 10_000 {
		return ErrInvalidAmount
	}
	if msg.MinBondDuration <= 0 || msg.MaxBondDuration < msg.MinBondDuration {
		return ErrInvalidAmount
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateFactoryParams) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUpdateFactoryParams) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdateFactoryParams) Reset() { *msg = MsgUpdateFactoryParams{} }

// String implements proto.Message
func (msg MsgUpdateFactoryParams) String() string {
	return fmt.Sprintf("MsgUpdateFactoryParams{BurnBps: %d, StakerBps: %d}", msg.BurnBps, msg.StakerBps)
}

// MsgUpdateFactoryParamsResponse defines the UpdateFactoryParams response
type MsgUpdateFactoryParamsResponse struct{}
