package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgRegisterWebsite      = "register_website"
	TypeMsgVerifyWebsite        = "verify_website"
	TypeMsgAddEdgeWorker        = "add_edge_worker"
	TypeMsgProcessVisitorBurn   = "process_visitor_burn"
	TypeMsgClaimProcessorFees   = "claim_processor_fees"
	TypeMsgUpdateWebsiteMetrics = "update_website_metrics"
)

// MsgRegisterWebsite defines the RegisterWebsite message
type MsgRegisterWebsite struct {
	Owner   string `json:"owner"`
	SiteURL string `json:"site_url"`
	Sector  string `json:"sector"`
}

// Route implements sdk.Msg
func (msg MsgRegisterWebsite) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRegisterWebsite) Type() string { return TypeMsgRegisterWebsite }

// ValidateBasic implements sdk.Msg
func (msg MsgRegisterWebsite) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.SiteURL == "" || len(msg.SiteURL) > MaxSiteURLLen {
		return ErrInvalidSiteURL
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRegisterWebsite) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRegisterWebsite) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRegisterWebsite) Reset() { *msg = MsgRegisterWebsite{} }

// String implements proto.Message
func (msg MsgRegisterWebsite) String() string {
	return fmt.Sprintf("MsgRegisterWebsite{Owner: %s, SiteURL: %s, Sector: %s}", msg.Owner, msg.SiteURL, msg.Sector)
}

// MsgRegisterWebsiteResponse defines the RegisterWebsite response
type MsgRegisterWebsiteResponse struct {
	SiteHash string `json:"site_hash"`
}

// MsgVerifyWebsite defines the VerifyWebsite message (authority only)
type MsgVerifyWebsite struct {
	Authority string `json:"authority"`
	SiteHash  string `json:"site_hash"`
}

// Route implements sdk.Msg
func (msg MsgVerifyWebsite) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgVerifyWebsite) Type() string { return TypeMsgVerifyWebsite }

// ValidateBasic implements sdk.Msg
func (msg MsgVerifyWebsite) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.SiteHash == "" {
		return ErrWebsiteNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgVerifyWebsite) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgVerifyWebsite) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgVerifyWebsite) Reset() { *msg = MsgVerifyWebsite{} }

// String implements proto.Message
func (msg MsgVerifyWebsite) String() string {
	return fmt.Sprintf("MsgVerifyWebsite{SiteHash: %s}", msg.SiteHash)
}

// MsgVerifyWebsiteResponse defines the VerifyWebsite response
type MsgVerifyWebsiteResponse struct{}

// MsgAddEdgeWorker defines the AddEdgeWorker message (authority only)
type MsgAddEdgeWorker struct {
	Authority string `json:"authority"`
	Worker    string `json:"worker"`
}

// Route implements sdk.Msg
func (msg MsgAddEdgeWorker) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAddEdgeWorker) Type() string { return TypeMsgAddEdgeWorker }

// ValidateBasic implements sdk.Msg
func (msg MsgAddEdgeWorker) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Worker); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgAddEdgeWorker) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAddEdgeWorker) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAddEdgeWorker) Reset() { *msg = MsgAddEdgeWorker{} }

// String implements proto.Message
func (msg MsgAddEdgeWorker) String() string {
	return fmt.Sprintf("MsgAddEdgeWorker{Worker: %s}", msg.Worker)
}

// MsgAddEdgeWorkerResponse defines the AddEdgeWorker response
type MsgAddEdgeWorkerResponse struct{}

// MsgProcessVisitorBurn defines the ProcessVisitorBurn message. Signed
// by an authorized edge worker on behalf of a visitor.
type MsgProcessVisitorBurn struct {
	EdgeWorker string `json:"edge_worker"`
	Visitor    string `json:"visitor"`
	SiteURL    string `json:"site_url"`
	PageID     string `json:"page_id,omitempty"`
	Amount     string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgProcessVisitorBurn) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgProcessVisitorBurn) Type() string { return TypeMsgProcessVisitorBurn }

// ValidateBasic implements sdk.Msg
func (msg MsgProcessVisitorBurn) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.EdgeWorker); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Visitor); err != nil {
		return err
	}
	if msg.SiteURL == "" || len(msg.SiteURL) > MaxSiteURLLen {
		return ErrInvalidSiteURL
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgProcessVisitorBurn) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.EdgeWorker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgProcessVisitorBurn) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgProcessVisitorBurn) Reset() { *msg = MsgProcessVisitorBurn{} }

// String implements proto.Message
func (msg MsgProcessVisitorBurn) String() string {
	return fmt.Sprintf("MsgProcessVisitorBurn{Visitor: %s, SiteURL: %s, Amount: %s}", msg.Visitor, msg.SiteURL, msg.Amount)
}

// MsgProcessVisitorBurnResponse defines the ProcessVisitorBurn response
type MsgProcessVisitorBurnResponse struct {
	RecordID     string `json:"record_id"`
	ProcessorFee string `json:"processor_fee"`
	AmountToPool string `json:"amount_to_pool"`
}

// MsgClaimProcessorFees defines the ClaimProcessorFees message (authority only)
type MsgClaimProcessorFees struct {
	Authority string `json:"authority"`
}

// Route implements sdk.Msg
func (msg MsgClaimProcessorFees) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimProcessorFees) Type() string { return TypeMsgClaimProcessorFees }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimProcessorFees) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimProcessorFees) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaimProcessorFees) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimProcessorFees) Reset() { *msg = MsgClaimProcessorFees{} }

// String implements proto.Message
func (msg MsgClaimProcessorFees) String() string {
	return fmt.Sprintf("MsgClaimProcessorFees{Authority: %s}", msg.Authority)
}

// MsgClaimProcessorFeesResponse defines the ClaimProcessorFees response
type MsgClaimProcessorFeesResponse struct {
	AmountClaimed string `json:"amount_claimed"`
}

// MsgUpdateWebsiteMetrics defines the UpdateWebsiteMetrics message.
// Signed by an authorized edge worker reporting offchain visitor stats.
type MsgUpdateWebsiteMetrics struct {
	EdgeWorker     string `json:"edge_worker"`
	SiteHash       string `json:"site_hash"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

// Route implements sdk.Msg
func (msg MsgUpdateWebsiteMetrics) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateWebsiteMetrics) Type() string { return TypeMsgUpdateWebsiteMetrics }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateWebsiteMetrics) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.EdgeWorker); err != nil {
		return err
	}
	if msg.SiteHash == "" {
		return ErrWebsiteNotFound
	}
	if msg.UniqueVisitors < 0 {
		return ErrInvalidMetrics
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateWebsiteMetrics) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.EdgeWorker)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUpdateWebsiteMetrics) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUpdateWebsiteMetrics) Reset() { *msg = MsgUpdateWebsiteMetrics{} }

// String implements proto.Message
func (msg MsgUpdateWebsiteMetrics) String() string {
	return fmt.Sprintf("MsgUpdateWebsiteMetrics{SiteHash: %s, UniqueVisitors: %d}", msg.SiteHash, msg.UniqueVisitors)
}

// MsgUpdateWebsiteMetricsResponse defines the UpdateWebsiteMetrics response
type MsgUpdateWebsiteMetricsResponse struct {
	AvgBurnPerVisit string `json:"avg_burn_per_visit"`
}
