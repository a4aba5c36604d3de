package handlers

import (
	"net/http"

	"github.com/macracrm/macra-crm/internal/store"
)

type StatsHandler struct {
	Store *store.CrmStore
}

func NewStatsHandler(crm *store.CrmStore) *StatsHandler {
	return &StatsHandler{Store: crm}
}

// HandleStats reads the counters straight from the in-memory collections; it
// never touches the data service.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Stats())
}
