package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgCreatePool      = "create_pool"
	TypeMsgStake           = "stake"
	TypeMsgWithdraw        = "withdraw"
	TypeMsgClaimRewards    = "claim_rewards"
	TypeMsgDistributeYield = "distribute_yield"
)

// MsgCreatePool defines the CreatePool message
type MsgCreatePool struct {
	Creator string `json:"creator"`
	PoolID  string `json:"pool_id"`
	Name    string `json:"name"`
	Denom   string `json:"denom"`
}

// Route implements sdk.Msg
func (msg MsgCreatePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreatePool) Type() string { return TypeMsgCreatePool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Creator)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreatePool) Reset() { *msg = MsgCreatePool{} }

// String implements proto.Message
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Creator: %s, PoolID: %s}", msg.Creator, msg.PoolID)
}

// MsgCreatePoolResponse defines the CreatePool response
type MsgCreatePoolResponse struct {
	PoolID string `json:"pool_id"`
}

// MsgStake defines the Stake message
type MsgStake struct {
	Staker     string `json:"staker"`
	PoolID     string `json:"pool_id"`
	Amount     string `json:"amount"`
	LockPeriod int64  `json:"lock_period"` // seconds
}

// Route implements sdk.Msg
func (msg MsgStake) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgStake) Type() string { return TypeMsgStake }

// ValidateBasic implements sdk.Msg
func (msg MsgStake) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.LockPeriod < MinLockPeriod || msg.LockPeriod > MaxLockPeriod {
		return ErrInvalidLockPeriod
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgStake) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgStake) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgStake) Reset() { *msg = MsgStake{} }

// String implements proto.Message
func (msg MsgStake) String() string {
	return fmt.Sprintf("MsgStake{Staker: %s, PoolID: %s, Amount: %s}", msg.Staker, msg.PoolID, msg.Amount)
}

// MsgStakeResponse defines the Stake response
type MsgStakeResponse struct {
	PositionID     string `json:"position_id"`
	SharesReceived string `json:"shares_received"`
	UnlockTime     int64  `json:"unlock_time"`
}

// MsgWithdraw defines the Withdraw message
type MsgWithdraw struct {
	Staker string `json:"staker"`
	PoolID string `json:"pool_id"`
	Shares string `json:"shares"`
}

// Route implements sdk.Msg
func (msg MsgWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdraw) Reset() { *msg = MsgWithdraw{} }

// String implements proto.Message
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Staker: %s, PoolID: %s, Shares: %s}", msg.Staker, msg.PoolID, msg.Shares)
}

// MsgWithdrawResponse defines the Withdraw response
type MsgWithdrawResponse struct {
	AmountReturned string `json:"amount_returned"`
	PenaltyPaid    string `json:"penalty_paid"`
	RewardsPaid    string `json:"rewards_paid"`
}

// MsgClaimRewards defines the ClaimRewards message
type MsgClaimRewards struct {
	Staker string `json:"staker"`
	PoolID string `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgClaimRewards) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimRewards) Type() string { return TypeMsgClaimRewards }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimRewards) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Staker); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimRewards) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Staker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaimRewards) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimRewards) Reset() { *msg = MsgClaimRewards{} }

// String implements proto.Message
func (msg MsgClaimRewards) String() string {
	return fmt.Sprintf("MsgClaimRewards{Staker: %s, PoolID: %s}", msg.Staker, msg.PoolID)
}

// MsgClaimRewardsResponse defines the ClaimRewards response
type MsgClaimRewardsResponse struct {
	AmountClaimed string `json:"amount_claimed"`
}

// MsgDistributeYield defines the DistributeYield message. Restricted to
// the module authority.
type MsgDistributeYield struct {
	Authority string `json:"authority"`
	PoolID    string `json:"pool_id"`
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
	if msg.PoolID == "" {
		return ErrPoolNotFound
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
	return fmt.Sprintf("MsgDistributeYield{PoolID: %s, Amount: %s}", msg.PoolID, msg.Amount)
}

// MsgDistributeYieldResponse defines the DistributeYield response
type MsgDistributeYieldResponse struct {
	NewRewardPerShare string `json:"new_reward_per_share"`
}
