package controllers

import (
	"encoding/json"
	"net/http"
)

// HealthController reports liveness plus the shape of the tool surface:
// how many search providers are in the rotation and whether the fetch
// cache is wired.
type HealthController struct {
	searchProviders int
	fetchCache      bool
}

func NewHealthController(searchProviders int, fetchCache bool) *HealthController {
	return &HealthController{
		searchProviders: searchProviders,
		fetchCache:      fetchCache,
	}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":           "ok",
		"search_providers": h.searchProviders,
		"fetch_cache":      h.fetchCache,
	})
}
