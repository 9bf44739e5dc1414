package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/twistprotocol/twist-chain/api/types"
)

// BondHandler handles sector bond pool HTTP requests
type BondHandler struct {
	service types.BondService
}

// NewBondHandler creates a new bond handler
func NewBondHandler(service types.BondService) *BondHandler {
	return &BondHandler{service: service}
}

// HandlePools handles GET /v1/bond/pools
func (h *BondHandler) HandlePools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	pools, err := h.service.ListSectorPools(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_pools_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"pools": pools})
}

// HandlePool handles GET /v1/bond/pools/{sector}
func (h *BondHandler) HandlePool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	sector := r.URL.Path[len("/v1/bond/pools/"):]
	if sector == "" {
		writeError(w, http.StatusBadRequest, "missing_sector", "Sector is required")
		return
	}

	pool, err := h.service.GetSectorPool(r.Context(), sector)
	if err != nil {
		writeError(w, http.StatusNotFound, "pool_not_found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pool)
}

// HandleLeaderboard handles GET /v1/bond/leaderboard?limit=N
func (h *BondHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.service.GetLeaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "leaderboard_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// HandleStake handles POST /v1/bond/stake
func (h *BondHandler) HandleStake(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req types.BondStakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if req.Amount == "" {
		writeError(w, http.StatusBadRequest, "missing_amount", "amount is required")
		return
	}
	if req.Sector == "" {
		writeError(w, http.StatusBadRequest, "missing_sector", "sector is required")
		return
	}
	if req.Staker == "" {
		req.Staker = r.Header.Get("X-Owner-Address")
	}
	if req.Staker == "" {
		writeError(w, http.StatusBadRequest, "missing_staker", "staker address is required")
		return
	}

	resp, err := h.service.BondStake(r.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "pool_not_found", err.Error())
		} else {
			writeError(w, http.StatusBadRequest, "stake_failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
