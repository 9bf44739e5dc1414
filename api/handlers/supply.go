package handlers

import (
	"net/http"

	"github.com/twistprotocol/twist-chain/api/types"
)

// SupplyHandler handles supply state HTTP requests
type SupplyHandler struct {
	service types.SupplyService
}

// NewSupplyHandler creates a new supply handler
func NewSupplyHandler(service types.SupplyService) *SupplyHandler {
	return &SupplyHandler{service: service}
}

// HandleState handles GET /v1/supply/state
func (h *SupplyHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	state, err := h.service.GetEconomicState(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_state_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// HandleController handles GET /v1/supply/controller
func (h *SupplyHandler) HandleController(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	ctrl, err := h.service.GetController(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_controller_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ctrl)
}
