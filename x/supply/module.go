package supply

import (
	"encoding/json"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/twistprotocol/twist-chain/x/supply/keeper"
	"github.com/twistprotocol/twist-chain/x/supply/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for supply control
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgUpdateAggregatedPrice{}, "supply/MsgUpdateAggregatedPrice", nil)
	cdc.RegisterConcrete(&types.MsgExecutePID{}, "supply/MsgExecutePID", nil)
	cdc.RegisterConcrete(&types.MsgInitializePID{}, "supply/MsgInitializePID", nil)
	cdc.RegisterConcrete(&types.MsgUpdatePIDParams{}, "supply/MsgUpdatePIDParams", nil)
	cdc.RegisterConcrete(&types.MsgResetPID{}, "supply/MsgResetPID", nil)
	cdc.RegisterConcrete(&types.MsgTripCircuitBreaker{}, "supply/MsgTripCircuitBreaker", nil)
	cdc.RegisterConcrete(&types.MsgResetCircuitBreaker{}, "supply/MsgResetCircuitBreaker", nil)
	cdc.RegisterConcrete(&types.MsgUpdateMarketStats{}, "supply/MsgUpdateMarketStats", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&types.MsgUpdateAggregatedPrice{},
		&types.MsgExecutePID{},
		&types.MsgInitializePID{},
		&types.MsgUpdatePIDParams{},
		&types.MsgResetPID{},
		&types.MsgTripCircuitBreaker{},
		&types.MsgResetCircuitBreaker{},
		&types.MsgUpdateMarketStats{},
	)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	return nil
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	return nil
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
}

// AppModule implements an application module for the supply module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services
func (am AppModule) RegisterServices(cfg module.Configurator) {
	_ = keeper.NewMsgServerImpl(am.keeper)
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// EndBlocker is called at the end of each block to evaluate circuit
// breaker conditions against the newest market observations
func (am AppModule) EndBlocker(ctx sdk.Context) error {
	return am.keeper.EndBlocker(ctx)
}
