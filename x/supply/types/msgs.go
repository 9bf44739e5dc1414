package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgUpdateAggregatedPrice = "update_aggregated_price"
	TypeMsgExecutePID            = "execute_pid"
	TypeMsgInitializePID         = "initialize_pid"
	TypeMsgUpdatePIDParams       = "update_pid_params"
	TypeMsgResetPID              = "reset_pid"
	TypeMsgTripCircuitBreaker    = "trip_circuit_breaker"
	TypeMsgResetCircuitBreaker   = "reset_circuit_breaker"
	TypeMsgUpdateMarketStats     = "update_market_stats"
)

// MsgUpdateAggregatedPrice defines the UpdateAggregatedPrice message
type MsgUpdateAggregatedPrice struct {
	Updater string        `json:"updater"`
	Sources []PriceSource `json:"sources"`
}

// Route implements sdk.Msg
func (msg MsgUpdateAggregatedPrice) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateAggregatedPrice) Type() string { return TypeMsgUpdateAggregatedPrice }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateAggregatedPrice) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Updater); err != nil {
		return err
	}
	if len(msg.Sources) == 0 {
		return ErrNoPriceSources
	}
	for _, src := range msg.Sources {
		if src.Price <= 0 {
			return ErrInvalidOraclePrice
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateAggregatedPrice) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Updater)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUpdateAggregatedPrice) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdateAggregatedPrice) Reset() { *msg = MsgUpdateAggregatedPrice{} }

// String implements proto.Message
func (msg MsgUpdateAggregatedPrice) String() string {
	return fmt.Sprintf("MsgUpdateAggregatedPrice{Updater: %s, Sources: %d}", msg.Updater, len(msg.Sources))
}

// MsgUpdateAggregatedPriceResponse defines the UpdateAggregatedPrice response
type MsgUpdateAggregatedPriceResponse struct {
	Price int64 `json:"price"`
}

// MsgExecutePID defines the ExecutePID message
type MsgExecutePID struct {
	Executor string `json:"executor"`
}

// Route implements sdk.Msg
func (msg MsgExecutePID) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgExecutePID) Type() string { return TypeMsgExecutePID }

// ValidateBasic implements sdk.Msg
func (msg MsgExecutePID) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Executor)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgExecutePID) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Executor)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgExecutePID) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgExecutePID) Reset() { *msg = MsgExecutePID{} }

// String implements proto.Message
func (msg MsgExecutePID) String() string {
	return fmt.Sprintf("MsgExecutePID{Executor: %s}", msg.Executor)
}

// MsgExecutePIDResponse defines the ExecutePID response
type MsgExecutePIDResponse struct {
	AdjustmentType string `json:"adjustment_type"`
	Amount         string `json:"amount"`
}

// MsgInitializePID defines the InitializePID message
type MsgInitializePID struct {
	Authority string              `json:"authority"`
	Params    PIDControllerParams `json:"params"`
}

// Route implements sdk.Msg
func (msg MsgInitializePID) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgInitializePID) Type() string { return TypeMsgInitializePID }

// ValidateBasic implements sdk.Msg
func (msg MsgInitializePID) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	return msg.Params.Validate()
}

// GetSigners implements sdk.Msg
func (msg MsgInitializePID) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgInitializePID) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgInitializePID) Reset() { *msg = MsgInitializePID{} }

// String implements proto.Message
func (msg MsgInitializePID) String() string {
	return fmt.Sprintf("MsgInitializePID{Authority: %s}", msg.Authority)
}

// MsgInitializePIDResponse defines the InitializePID response
type MsgInitializePIDResponse struct{}

// MsgUpdatePIDParams defines the UpdatePIDParams message
type MsgUpdatePIDParams struct {
	Authority string              `json:"authority"`
	Params    PIDControllerParams `json:"params"`
}

// Route implements sdk.Msg
func (msg MsgUpdatePIDParams) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdatePIDParams) Type() string { return TypeMsgUpdatePIDParams }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdatePIDParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	return msg.Params.Validate()
}

// GetSigners implements sdk.Msg
func (msg MsgUpdatePIDParams) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUpdatePIDParams) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdatePIDParams) Reset() { *msg = MsgUpdatePIDParams{} }

// String implements proto.Message
func (msg MsgUpdatePIDParams) String() string {
	return fmt.Sprintf("MsgUpdatePIDParams{Authority: %s}", msg.Authority)
}

// MsgUpdatePIDParamsResponse defines the UpdatePIDParams response
type MsgUpdatePIDParamsResponse struct{}

// MsgResetPID defines the ResetPID message
type MsgResetPID struct {
	Authority string `json:"authority"`
}

// Route implements sdk.Msg
func (msg MsgResetPID) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgResetPID) Type() string { return TypeMsgResetPID }

// ValidateBasic implements sdk.Msg
func (msg MsgResetPID) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Authority)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgResetPID) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgResetPID) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgResetPID) Reset() { *msg = MsgResetPID{} }

// String implements proto.Message
func (msg MsgResetPID) String() string {
	return fmt.Sprintf("MsgResetPID{Authority: %s}", msg.Authority)
}

// MsgResetPIDResponse defines the ResetPID response
type MsgResetPIDResponse struct{}

// MsgTripCircuitBreaker defines the manual TripCircuitBreaker message
type MsgTripCircuitBreaker struct {
	Authority string `json:"authority"`
	Reason    string `json:"reason"`
	Severity  int32  `json:"severity"`
}

// Route implements sdk.Msg
func (msg MsgTripCircuitBreaker) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgTripCircuitBreaker) Type() string { return TypeMsgTripCircuitBreaker }

// ValidateBasic implements sdk.Msg
func (msg MsgTripCircuitBreaker) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.Severity < int32(SeverityLow) || msg.Severity > int32(SeverityCritical) {
		return ErrInvalidParams.Wrap("severity out of range")
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgTripCircuitBreaker) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgTripCircuitBreaker) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgTripCircuitBreaker) Reset() { *msg = MsgTripCircuitBreaker{} }

// String implements proto.Message
func (msg MsgTripCircuitBreaker) String() string {
	return fmt.Sprintf("MsgTripCircuitBreaker{Authority: %s, Severity: %d}", msg.Authority, msg.Severity)
}

// MsgTripCircuitBreakerResponse defines the TripCircuitBreaker response
type MsgTripCircuitBreakerResponse struct{}

// MsgResetCircuitBreaker defines the manual ResetCircuitBreaker message
type MsgResetCircuitBreaker struct {
	Authority string `json:"authority"`
}

// Route implements sdk.Msg
func (msg MsgResetCircuitBreaker) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgResetCircuitBreaker) Type() string { return TypeMsgResetCircuitBreaker }

// ValidateBasic implements sdk.Msg
func (msg MsgResetCircuitBreaker) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Authority)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgResetCircuitBreaker) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgResetCircuitBreaker) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgResetCircuitBreaker) Reset() { *msg = MsgResetCircuitBreaker{} }

// String implements proto.Message
func (msg MsgResetCircuitBreaker) String() string {
	return fmt.Sprintf("MsgResetCircuitBreaker{Authority: %s}", msg.Authority)
}

// MsgResetCircuitBreakerResponse defines the ResetCircuitBreaker response
type MsgResetCircuitBreakerResponse struct{}

// MsgUpdateMarketStats defines the UpdateMarketStats message (authority
// only). Volume and floor-liquidity observations feed the volume-spike
// and liquidity-drain breaker signals; amounts are utwist strings.
type MsgUpdateMarketStats struct {
	Authority      string `json:"authority"`
	Volume1h       string `json:"volume_1h"`
	Volume24h      string `json:"volume_24h"`
	FloorLiquidity string `json:"floor_liquidity"`
}

// Route implements sdk.Msg
func (msg MsgUpdateMarketStats) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateMarketStats) Type() string { return TypeMsgUpdateMarketStats }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateMarketStats) ValidateBasic() error {
	_, err := sdk.AccAddressFromBech32(msg.Authority)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateMarketStats) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUpdateMarketStats) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdateMarketStats) Reset() { *msg = MsgUpdateMarketStats{} }

// String implements proto.Message
func (msg MsgUpdateMarketStats) String() string {
	return fmt.Sprintf("MsgUpdateMarketStats{Volume24h: %s, FloorLiquidity: %s}", msg.Volume24h, msg.FloorLiquidity)
}

// MsgUpdateMarketStatsResponse defines the UpdateMarketStats response
type MsgUpdateMarketStatsResponse struct{}
