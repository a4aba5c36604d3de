package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/macracrm/macra-crm/internal/entity"
	"github.com/macracrm/macra-crm/internal/infra/http/middleware"
	"github.com/macracrm/macra-crm/internal/store"
)

type InteractionHandler struct {
	Store *store.CrmStore
}

func NewInteractionHandler(crm *store.CrmStore) *InteractionHandler {
	return &InteractionHandler{Store: crm}
}

func (h *InteractionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.Store.FetchInteractions(r.Context())
	if msg := h.Store.Err(); msg != "" {
		writeError(w, http.StatusBadGateway, msg)
		return
	}
	writeJSON(w, http.StatusOK, h.Store.Interactions())
}

func (h *InteractionHandler) HandleListForLead(w http.ResponseWriter, r *http.Request) {
	interactions := h.Store.FetchInteractionsForLead(r.Context(), chi.URLParam(r, "id"))
	if msg := h.Store.Err(); msg != "" {
		writeError(w, http.StatusBadGateway, msg)
		return
	}
	if interactions == nil {
		interactions = []entity.Interaction{}
	}
	writeJSON(w, http.StatusOK, interactions)
}

func (h *InteractionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var fields entity.NewInteraction
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	created := h.Store.CreateInteraction(r.Context(), fields)
	if created == nil {
		writeError(w, http.StatusBadGateway, h.Store.Err())
		return
	}
	middleware.RecordInteractionLogged()
	writeJSON(w, http.StatusCreated, created)
}

func (h *InteractionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.Store.DeleteInteraction(r.Context(), chi.URLParam(r, "id")) {
		writeError(w, http.StatusBadGateway, h.Store.Err())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
