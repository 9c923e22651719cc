package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"

	apitypes "github.com/openalpha/lp-incentives/api/types"
	"github.com/openalpha/lp-incentives/x/incentives/keeper"
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500

	defaultLeaderboardLimit = 10

	// maxTxBodyBytes bounds a transaction submission
	maxTxBodyBytes = 64 << 10
)

// IncentivesHandler handles incentives API requests
type IncentivesHandler struct {
	ledger apitypes.Ledger
	logger log.Logger
}

// NewIncentivesHandler creates a new IncentivesHandler
func NewIncentivesHandler(ledger apitypes.Ledger, logger log.Logger) *IncentivesHandler {
	return &IncentivesHandler{
		ledger: ledger,
		logger: logger.With("module", "api"),
	}
}

// RegisterRoutes registers incentives API routes. txMiddleware wraps the
// transaction route only.
func (h *IncentivesHandler) RegisterRoutes(r *mux.Router, txMiddleware ...mux.MiddlewareFunc) {
	r.HandleFunc("/v1/incentives/state", h.GetState).Methods(http.MethodGet)
	r.HandleFunc("/v1/incentives/weights", h.GetWeights).Methods(http.MethodGet)
	r.HandleFunc("/v1/incentives/ranking", h.GetRanking).Methods(http.MethodGet)

	// Pool routes
	r.HandleFunc("/v1/incentives/pools", h.GetPools).Methods(http.MethodGet)
	r.HandleFunc("/v1/incentives/pools/{poolId}", h.GetPool).Methods(http.MethodGet)
	r.HandleFunc("/v1/incentives/pools/{poolId}/positions", h.GetPoolPositions).Methods(http.MethodGet)
	r.HandleFunc("/v1/incentives/pools/{poolId}/positions/{participant}", h.GetPosition).Methods(http.MethodGet)
	r.HandleFunc("/v1/incentives/pools/{poolId}/pending/{participant}", h.GetPendingRewards).Methods(http.MethodGet)
	r.HandleFunc("/v1/incentives/pools/{poolId}/metrics", h.GetPoolMetrics).Methods(http.MethodGet)
	r.HandleFunc("/v1/incentives/pools/{poolId}/leaderboard", h.GetLeaderboard).Methods(http.MethodGet)

	// Transaction route
	tx := r.PathPrefix("/v1/incentives/tx").Subrouter()
	tx.Use(txMiddleware...)
	tx.HandleFunc("/{msgType}", h.SubmitTx).Methods(http.MethodPost)
}

// query runs fn against the ledger and writes its result
func (h *IncentivesHandler) query(w http.ResponseWriter, fn func(ctx sdk.Context, qs *keeper.QueryServer) (any, error)) {
	var result any
	err := h.ledger.Query(func(ctx sdk.Context, qs *keeper.QueryServer) error {
		var err error
		result, err = fn(ctx, qs)
		return err
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetState returns the global counters
func (h *IncentivesHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		return qs.State(ctx)
	})
}

// GetWeights returns the weight table
func (h *IncentivesHandler) GetWeights(w http.ResponseWriter, r *http.Request) {
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		weights, err := qs.Weights(ctx)
		return map[string]interface{}{"weights": weights}, err
	})
}

// GetRanking returns pools ordered by health
func (h *IncentivesHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", 0)
	if !ok {
		return
	}
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		ranking, err := qs.Ranking(ctx, limit)
		return map[string]interface{}{"ranking": ranking}, err
	})
}

// GetPools returns a page of pools
func (h *IncentivesHandler) GetPools(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		pools, total, err := qs.Pools(ctx, offset, limit)
		return apitypes.ListResponse{Items: pools, Total: total}, err
	})
}

// GetPool returns a single pool
func (h *IncentivesHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDParam(w, r)
	if !ok {
		return
	}
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		return qs.Pool(ctx, poolID)
	})
}

// GetPoolPositions returns a page of a pool's positions
func (h *IncentivesHandler) GetPoolPositions(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDParam(w, r)
	if !ok {
		return
	}
	offset, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		positions, total, err := qs.PoolPositions(ctx, poolID, offset, limit)
		return apitypes.ListResponse{Items: positions, Total: total}, err
	})
}

// GetPosition returns a participant's position
func (h *IncentivesHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDParam(w, r)
	if !ok {
		return
	}
	participant := mux.Vars(r)["participant"]
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		return qs.Position(ctx, poolID, participant)
	})
}

// GetPendingRewards returns the reward breakdown at the last height
func (h *IncentivesHandler) GetPendingRewards(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDParam(w, r)
	if !ok {
		return
	}
	participant := mux.Vars(r)["participant"]
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		return qs.PendingRewards(ctx, poolID, participant)
	})
}

// GetPoolMetrics returns a pool's journaled metrics
func (h *IncentivesHandler) GetPoolMetrics(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDParam(w, r)
	if !ok {
		return
	}
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		metrics, err := qs.PoolMetrics(ctx, poolID)
		return map[string]interface{}{"metrics": metrics}, err
	})
}

// GetLeaderboard returns a pool's top earners
func (h *IncentivesHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	poolID, ok := poolIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit", defaultLeaderboardLimit)
	if !ok {
		return
	}
	h.query(w, func(ctx sdk.Context, qs *keeper.QueryServer) (any, error) {
		entries, err := qs.Leaderboard(ctx, poolID, limit)
		return map[string]interface{}{"leaderboard": entries}, err
	})
}

// SubmitTx decodes a message of the routed type and delivers it
func (h *IncentivesHandler) SubmitTx(w http.ResponseWriter, r *http.Request) {
	msgType := mux.Vars(r)["msgType"]
	msg, ok := types.NewMsg(msgType)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_msg_type", "Unknown message type: "+msgType)
		return
	}

	var req apitypes.TxRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return
	}
	if len(req.Msg) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "msg is required")
		return
	}

	dec := json.NewDecoder(bytes.NewReader(req.Msg))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_msg", err.Error())
		return
	}

	height := h.ledger.LastHeight()
	if req.Height != nil {
		height = *req.Height
	}

	result, err := h.ledger.Deliver(height, msg)
	if err != nil {
		h.logger.Debug("Transaction rejected", "msg_type", msgType, "height", height, "err", err)
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apitypes.TxResponse{
		Height:  height,
		MsgType: msgType,
		Result:  result,
	})
}

func poolIDParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := mux.Vars(r)["poolId"]
	poolID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_pool_id", "Invalid pool id: "+raw)
		return 0, false
	}
	return poolID, true
}

func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(w, http.StatusBadRequest, "invalid_"+name, "Invalid "+name+": "+raw)
		return 0, false
	}
	return v, true
}

func pageParams(w http.ResponseWriter, r *http.Request) (offset, limit uint64, ok bool) {
	o, ok := intParam(w, r, "offset", 0)
	if !ok {
		return 0, 0, false
	}
	l, ok := intParam(w, r, "limit", defaultPageLimit)
	if !ok {
		return 0, 0, false
	}
	if l == 0 || l > maxPageLimit {
		l = maxPageLimit
	}
	return uint64(o), uint64(l), true
}
