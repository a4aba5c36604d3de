package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macracrm/macra-crm/internal/entity"
	"github.com/macracrm/macra-crm/internal/infra/http/middleware"
	"github.com/macracrm/macra-crm/internal/store"
)

// LeadHandler adapts the domain store to HTTP. The store never errors out, so
// each handler triggers the operation and then reads the error slot to pick a
// status code.
type LeadHandler struct {
	Store *store.CrmStore
}

func NewLeadHandler(crm *store.CrmStore) *LeadHandler {
	return &LeadHandler{Store: crm}
}

// HandleList refreshes from the data service and returns the collection.
// An optional ?status= query filters by exact pipeline column match.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.Store.FetchLeads(r.Context())
	if msg := h.Store.Err(); msg != "" {
		writeError(w, http.StatusBadGateway, msg)
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		leads := h.Store.LeadsByStatus(entity.LeadStatus(status))
		if leads == nil {
			leads = []entity.Lead{}
		}
		writeJSON(w, http.StatusOK, leads)
		return
	}
	writeJSON(w, http.StatusOK, h.Store.Leads())
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lead := h.Store.FetchLeadByID(r.Context(), chi.URLParam(r, "id"))
	if lead == nil {
		writeError(w, http.StatusNotFound, h.Store.Err())
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var fields entity.NewLead
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	created := h.Store.CreateLead(r.Context(), fields)
	if created == nil {
		writeError(w, http.StatusBadGateway, h.Store.Err())
		return
	}
	middleware.RecordLeadCreated()
	writeJSON(w, http.StatusCreated, created)
}

func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	id := chi.URLParam(r, "id")
	var before entity.LeadStatus
	for _, l := range h.Store.Leads() {
		if l.ID == id {
			before = l.Status
			break
		}
	}

	updated := h.Store.UpdateLead(r.Context(), id, patch)
	if updated == nil {
		if h.Store.Err() == "Lead not found" {
			writeError(w, http.StatusNotFound, "Lead not found")
			return
		}
		writeError(w, http.StatusBadGateway, h.Store.Err())
		return
	}
	if before != "" && before != updated.Status {
		middleware.RecordStatusTransition(string(before), string(updated.Status))
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *LeadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.Store.DeleteLead(r.Context(), chi.URLParam(r, "id")) {
		writeError(w, http.StatusBadGateway, h.Store.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
