package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/twistprotocol/twist-chain/api/types"
)

// StakingHandler handles staking pool HTTP requests
type StakingHandler struct {
	service types.StakingService
}

// NewStakingHandler creates a new staking handler
func NewStakingHandler(service types.StakingService) *StakingHandler {
	return &StakingHandler{service: service}
}

// HandlePools handles GET /v1/staking/pools
func (h *StakingHandler) HandlePools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	pools, err := h.service.ListPools(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_pools_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"pools": pools})
}

// HandlePool handles GET /v1/staking/pools/{id}
func (h *StakingHandler) HandlePool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	idStr := r.URL.Path[len("/v1/staking/pools/"):]
	poolID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_pool_id", "Pool ID must be numeric")
		return
	}

	pool, err := h.service.GetPool(r.Context(), poolID)
	if err != nil {
		writeError(w, http.StatusNotFound, "pool_not_found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pool)
}

// HandlePositions handles GET /v1/staking/positions?owner=...
func (h *StakingHandler) HandlePositions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		owner = r.Header.Get("X-Owner-Address")
	}
	if owner == "" {
		writeError(w, http.StatusBadRequest, "missing_owner", "owner address is required")
		return
	}

	positions, err := h.service.GetPositions(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_positions_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"positions": positions})
}

// HandleStake handles POST /v1/staking/stake
func (h *StakingHandler) HandleStake(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req types.StakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if req.Amount == "" {
		writeError(w, http.StatusBadRequest, "missing_amount", "amount is required")
		return
	}
	if req.Staker == "" {
		req.Staker = r.Header.Get("X-Owner-Address")
	}
	if req.Staker == "" {
		writeError(w, http.StatusBadRequest, "missing_staker", "staker address is required")
		return
	}

	resp, err := h.service.Stake(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "stake_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleWithdraw handles POST /v1/staking/withdraw
func (h *StakingHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req types.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if req.Shares == "" {
		writeError(w, http.StatusBadRequest, "missing_shares", "shares is required")
		return
	}
	if req.Staker == "" {
		req.Staker = r.Header.Get("X-Owner-Address")
	}
	if req.Staker == "" {
		writeError(w, http.StatusBadRequest, "missing_staker", "staker address is required")
		return
	}

	resp, err := h.service.Withdraw(r.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "position_not_found", err.Error())
		} else if strings.Contains(err.Error(), "insufficient") {
			writeError(w, http.StatusBadRequest, "insufficient_shares", err.Error())
		} else if strings.Contains(err.Error(), "locked") {
			writeError(w, http.StatusBadRequest, "position_locked", err.Error())
		} else {
			writeError(w, http.StatusBadRequest, "withdraw_failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleClaim handles POST /v1/staking/claim
func (h *StakingHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req struct {
		Staker string `json:"staker"`
		PoolID uint64 `json:"pool_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if req.Staker == "" {
		req.Staker = r.Header.Get("X-Owner-Address")
	}
	if req.Staker == "" {
		writeError(w, http.StatusBadRequest, "missing_staker", "staker address is required")
		return
	}

	resp, err := h.service.ClaimRewards(r.Context(), req.Staker, req.PoolID)
	if err != nil {
		writeError(w, http.StatusNotFound, "claim_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   code,
		"message": message,
	})
}
