package incentives

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/openalpha/lp-incentives/x/incentives/keeper"
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for incentives
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgInitializeWeights{}, "incentives/MsgInitializeWeights", nil)
	cdc.RegisterConcrete(&types.MsgCreatePool{}, "incentives/MsgCreatePool", nil)
	cdc.RegisterConcrete(&types.MsgAddLiquidity{}, "incentives/MsgAddLiquidity", nil)
	cdc.RegisterConcrete(&types.MsgUpdateScores{}, "incentives/MsgUpdateScores", nil)
	cdc.RegisterConcrete(&types.MsgClaimRewards{}, "incentives/MsgClaimRewards", nil)
	cdc.RegisterConcrete(&types.MsgRebalance{}, "incentives/MsgRebalance", nil)
	cdc.RegisterConcrete(&types.MsgSetOracle{}, "incentives/MsgSetOracle", nil)
	cdc.RegisterConcrete(&types.MsgSetPaused{}, "incentives/MsgSetPaused", nil)
	cdc.RegisterConcrete(&types.MsgSetPoolActive{}, "incentives/MsgSetPoolActive", nil)
	cdc.RegisterConcrete(&types.MsgFundPool{}, "incentives/MsgFundPool", nil)
}

// RegisterInterfaces registers the module's interface types.
// Messages have no generated proto descriptors, so they are routed by the
// application directly and not through the interface registry.
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesis())
	if err != nil {
		panic(err)
	}
	return bz
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	gs, err := ParseGenesis(bz)
	if err != nil {
		return err
	}
	return gs.Validate()
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module.
// Queries are served by the REST API in package api instead.
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {}

// ParseGenesis decodes a JSON genesis document
func ParseGenesis(bz json.RawMessage) (*types.GenesisState, error) {
	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s genesis state: %w", ModuleName, err)
	}
	return &gs, nil
}

// AppModule implements an application module for the incentives module
type AppModule struct {
	AppModuleBasic
	keeper    *keeper.Keeper
	msgServer *keeper.MsgServer
	query     *keeper.QueryServer
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
		msgServer:      keeper.NewMsgServerImpl(k),
		query:          keeper.NewQueryServerImpl(k),
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// RegisterServices registers module services
func (am AppModule) RegisterServices(cfg module.Configurator) {
	// MsgServer and QueryServer are hand written and exposed through
	// MsgServer() and QueryServer() rather than the configurator.
}

// MsgServer returns the module's message handler
func (am AppModule) MsgServer() *keeper.MsgServer {
	return am.msgServer
}

// QueryServer returns the module's query handler
func (am AppModule) QueryServer() *keeper.QueryServer {
	return am.query
}

// InitGenesis loads the module's genesis state from JSON
func (am AppModule) InitGenesis(ctx sdk.Context, bz json.RawMessage) error {
	gs, err := ParseGenesis(bz)
	if err != nil {
		return err
	}
	return am.keeper.InitGenesis(ctx, gs)
}

// ExportGenesis exports the module's state as JSON
func (am AppModule) ExportGenesis(ctx sdk.Context) (json.RawMessage, error) {
	return json.MarshalIndent(am.keeper.ExportGenesis(ctx), "", "  ")
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// EndBlocker checks the ledger invariants after every committed height
func (am AppModule) EndBlocker(ctx sdk.Context) error {
	return am.keeper.CheckInvariants(ctx)
}
