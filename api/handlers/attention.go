package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/twistprotocol/twist-chain/api/types"
)

// AttentionHandler handles visitor burn HTTP requests
type AttentionHandler struct {
	service types.AttentionService
}

// NewAttentionHandler creates a new attention handler
func NewAttentionHandler(service types.AttentionService) *AttentionHandler {
	return &AttentionHandler{service: service}
}

// HandleSites handles GET /v1/vau/sites
func (h *AttentionHandler) HandleSites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	sites, err := h.service.ListWebsites(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_sites_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sites": sites})
}

// HandleSite handles GET /v1/vau/sites/{hash}
func (h *AttentionHandler) HandleSite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	siteHash := r.URL.Path[len("/v1/vau/sites/"):]
	if siteHash == "" {
		writeError(w, http.StatusBadRequest, "missing_site_hash", "Site hash is required")
		return
	}

	site, err := h.service.GetWebsite(r.Context(), siteHash)
	if err != nil {
		writeError(w, http.StatusNotFound, "site_not_found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, site)
}

// HandleTopSites handles GET /v1/vau/top-sites?limit=N
func (h *AttentionHandler) HandleTopSites(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.service.TopSites(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "top_sites_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sites": entries})
}

// HandleRecentBurns handles GET /v1/vau/burns?limit=N
func (h *AttentionHandler) HandleRecentBurns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	burns, err := h.service.RecentBurns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "recent_burns_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"burns": burns})
}

// HandleSubmitBurn handles POST /v1/vau/burns
func (h *AttentionHandler) HandleSubmitBurn(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req types.BurnSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if req.Amount == "" {
		writeError(w, http.StatusBadRequest, "missing_amount", "amount is required")
		return
	}
	if req.SiteURL == "" {
		writeError(w, http.StatusBadRequest, "missing_site_url", "site_url is required")
		return
	}
	if req.Visitor == "" {
		writeError(w, http.StatusBadRequest, "missing_visitor", "visitor address is required")
		return
	}

	resp, err := h.service.SubmitBurn(r.Context(), &req)
	if err != nil {
		if strings.Contains(err.Error(), "not registered") {
			writeError(w, http.StatusNotFound, "site_not_registered", err.Error())
		} else if strings.Contains(err.Error(), "not accepting") {
			writeError(w, http.StatusForbidden, "site_not_accepting", err.Error())
		} else {
			writeError(w, http.StatusBadRequest, "burn_failed", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
