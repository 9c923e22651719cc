package app

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/lp-incentives/metrics"
	"github.com/openalpha/lp-incentives/x/incentives"
	"github.com/openalpha/lp-incentives/x/incentives/keeper"
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

const (
	Name = "incentives"

	// metaStoreKey holds application bookkeeping outside the module store
	metaStoreKey = "meta"
)

var (
	// DefaultNodeHome default home directories for the application daemon
	DefaultNodeHome string

	lastHeightKey = []byte{0x01}
)

// Ledger application errors
const codespace = "ledger"

var (
	ErrHeightRegression = errorsmod.Register(codespace, 2, "height regression")
	ErrUnknownMsg       = errorsmod.Register(codespace, 3, "unknown message type")
	ErrInvariantBroken  = errorsmod.Register(codespace, 4, "ledger invariant broken")
)

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".incentives")
}

// EventListener receives the events emitted by a committed message
type EventListener func(height int64, events sdk.Events)

// Options configures a LedgerApp
type Options struct {
	ChainID string
	Admin   string
	// Oracle seeds the genesis oracle on first start
	Oracle string
	// Genesis replaces the default genesis on first start
	Genesis         *types.GenesisState
	CheckInvariants bool
	// Metrics receives ledger metrics; nil disables them
	Metrics *metrics.Collector
}

// LedgerApp executes incentives messages in height order against a
// durable multistore. Every successful message is committed on its own;
// a failed message leaves no trace.
type LedgerApp struct {
	mtx sync.RWMutex
	// listenerMtx keeps listener dispatch in commit order
	listenerMtx sync.Mutex

	logger  log.Logger
	db      dbm.DB
	cms     storetypes.CommitMultiStore
	keys    map[string]*storetypes.KVStoreKey
	chainID string

	encodingConfig EncodingConfig
	Keeper         *keeper.Keeper
	module         incentives.AppModule

	lastHeight      int64
	checkInvariants bool
	listeners       []EventListener
	metrics         *metrics.Collector
}

// NewLedgerApp opens the ledger on db, loading genesis on first start
func NewLedgerApp(logger log.Logger, db dbm.DB, opts Options) (*LedgerApp, error) {
	encodingConfig := MakeEncodingConfig()

	keys := storetypes.NewKVStoreKeys(types.StoreKey, metaStoreKey)
	cms := store.NewCommitMultiStore(db, logger, storemetrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, errorsmod.Wrap(err, "failed to load store")
	}

	k := keeper.NewKeeper(encodingConfig.Codec, keys[types.StoreKey], opts.Admin, logger)

	app := &LedgerApp{
		logger:          logger.With("module", "app"),
		db:              db,
		cms:             cms,
		keys:            keys,
		chainID:         opts.ChainID,
		encodingConfig:  encodingConfig,
		Keeper:          k,
		module:          incentives.NewAppModule(k),
		checkInvariants: opts.CheckInvariants,
		metrics:         opts.Metrics,
	}

	if cms.LastCommitID().Version == 0 {
		if err := app.initChain(opts); err != nil {
			return nil, err
		}
	}
	app.lastHeight = app.loadLastHeight()

	if app.metrics != nil {
		app.AddListener(app.recordEvents)
		app.metrics.RecordHeight(app.lastHeight)
	}

	app.logger.Info("Ledger opened",
		"chain_id", app.chainID,
		"version", cms.LastCommitID().Version,
		"height", app.lastHeight,
	)
	return app, nil
}

func (app *LedgerApp) initChain(opts Options) error {
	gs := opts.Genesis
	if gs == nil {
		gs = types.NewGenesisState(opts.Oracle)
	}
	bz, err := json.Marshal(gs)
	if err != nil {
		return err
	}

	cacheMS := app.cms.CacheMultiStore()
	ctx := sdk.NewContext(cacheMS, cmtproto.Header{ChainID: app.chainID, Height: gs.Height}, false, app.logger)
	if err := app.module.InitGenesis(ctx, bz); err != nil {
		return errorsmod.Wrap(err, "failed to init genesis")
	}
	// an imported ledger resumes at its exported height
	cacheMS.GetKVStore(app.keys[metaStoreKey]).Set(lastHeightKey, sdk.Uint64ToBigEndian(uint64(gs.Height)))
	cacheMS.Write()
	app.cms.Commit()
	return nil
}

func (app *LedgerApp) loadLastHeight() int64 {
	bz := app.cms.GetKVStore(app.keys[metaStoreKey]).Get(lastHeightKey)
	if bz == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(bz))
}

// AddListener subscribes l to the events of every committed message
func (app *LedgerApp) AddListener(l EventListener) {
	app.mtx.Lock()
	defer app.mtx.Unlock()
	app.listeners = append(app.listeners, l)
}

// LastHeight returns the height of the last committed message
func (app *LedgerApp) LastHeight() int64 {
	app.mtx.RLock()
	defer app.mtx.RUnlock()
	return app.lastHeight
}

// ChainID returns the configured chain id
func (app *LedgerApp) ChainID() string {
	return app.chainID
}

// Deliver executes msg at height. Heights may repeat but never go
// backwards. The message's writes are committed only if it succeeds.
func (app *LedgerApp) Deliver(height int64, msg sdk.Msg) (any, error) {
	timer := metrics.NewTimer()

	app.mtx.Lock()
	resp, events, err := app.deliver(height, msg)
	listeners := app.listeners
	if err == nil {
		// taken before the state lock is released so that listeners see
		// commits in order while queries proceed
		app.listenerMtx.Lock()
	}
	app.mtx.Unlock()

	msgType := msgTypeOf(msg)
	if app.metrics != nil {
		app.metrics.RecordMsg(msgType, statusOf(err), timer.ElapsedMs())
	}
	if err != nil {
		app.logger.Debug("Message rejected", "height", height, "msg_type", msgType, "err", err)
		return nil, err
	}

	defer app.listenerMtx.Unlock()
	for _, l := range listeners {
		l(height, events)
	}
	return resp, nil
}

func (app *LedgerApp) deliver(height int64, msg sdk.Msg) (any, sdk.Events, error) {
	if height < app.lastHeight {
		return nil, nil, ErrHeightRegression.Wrapf("height %d is below last committed height %d", height, app.lastHeight)
	}
	if m, ok := msg.(sdk.HasValidateBasic); ok {
		if err := m.ValidateBasic(); err != nil {
			return nil, nil, err
		}
	}

	cacheMS := app.cms.CacheMultiStore()
	ctx := sdk.NewContext(cacheMS, cmtproto.Header{ChainID: app.chainID, Height: height}, false, app.logger)

	resp, err := app.route(ctx, msg)
	if err != nil {
		return nil, nil, err
	}
	if app.checkInvariants {
		if err := app.module.EndBlocker(ctx); err != nil {
			if app.metrics != nil {
				app.metrics.RecordInvariantFailure()
			}
			app.logger.Error("Invariant check failed, message discarded", "height", height, "err", err)
			return nil, nil, ErrInvariantBroken.Wrap(err.Error())
		}
	}

	cacheMS.GetKVStore(app.keys[metaStoreKey]).Set(lastHeightKey, sdk.Uint64ToBigEndian(uint64(height)))
	cacheMS.Write()
	app.cms.Commit()
	app.lastHeight = height

	return resp, ctx.EventManager().Events(), nil
}

// route dispatches msg to its handler
func (app *LedgerApp) route(ctx sdk.Context, msg sdk.Msg) (any, error) {
	ms := app.module.MsgServer()

	switch m := msg.(type) {
	case *types.MsgInitializeWeights:
		return ms.InitializeWeights(ctx, m)
	case *types.MsgCreatePool:
		return ms.CreatePool(ctx, m)
	case *types.MsgAddLiquidity:
		return ms.AddLiquidity(ctx, m)
	case *types.MsgUpdateScores:
		return ms.UpdateScores(ctx, m)
	case *types.MsgClaimRewards:
		return ms.ClaimRewards(ctx, m)
	case *types.MsgRebalance:
		return ms.Rebalance(ctx, m)
	case *types.MsgSetOracle:
		return ms.SetOracle(ctx, m)
	case *types.MsgSetPaused:
		return ms.SetPaused(ctx, m)
	case *types.MsgSetPoolActive:
		return ms.SetPoolActive(ctx, m)
	case *types.MsgFundPool:
		return ms.FundPool(ctx, m)
	default:
		return nil, ErrUnknownMsg.Wrapf("%T", msg)
	}
}

// Query runs fn against the last committed state. Writes made by fn are
// discarded.
func (app *LedgerApp) Query(fn func(ctx sdk.Context, qs *keeper.QueryServer) error) error {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	ctx := sdk.NewContext(app.cms.CacheMultiStore(), cmtproto.Header{ChainID: app.chainID, Height: app.lastHeight}, false, app.logger)
	return fn(ctx, app.module.QueryServer())
}

// ExportGenesis dumps the committed state as a genesis document
func (app *LedgerApp) ExportGenesis() (json.RawMessage, error) {
	var bz json.RawMessage
	err := app.Query(func(ctx sdk.Context, _ *keeper.QueryServer) error {
		var err error
		bz, err = app.module.ExportGenesis(ctx)
		return err
	})
	return bz, err
}

// Close releases the database
func (app *LedgerApp) Close() error {
	return app.db.Close()
}

type typedMsg interface {
	Type() string
}

func msgTypeOf(msg sdk.Msg) string {
	if m, ok := msg.(typedMsg); ok {
		return m.Type()
	}
	return sdk.MsgTypeURL(msg)
}

func statusOf(err error) string {
	if err == nil {
		return "ok"
	}
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	return fmt.Sprintf("%s_%d", codespace, code)
}
