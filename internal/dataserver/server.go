package dataserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/macracrm/macra-crm/internal/entity"
)

// Server exposes the storage backend as the conventional resource API. It is
// the timestamp authority for leads: POST /leads stamps createdAt and
// updatedAt server-side regardless of what the body carries.
type Server struct {
	storage Storage
	now     func() time.Time
}

func NewServer(storage Storage) *Server {
	return &Server{storage: storage, now: time.Now}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/leads", s.listLeads)
	r.Post("/leads", s.createLead)
	r.Get("/leads/{id}", s.getLead)
	r.Put("/leads/{id}", s.updateLead)
	r.Delete("/leads/{id}", s.deleteLead)

	r.Get("/interactions", s.listInteractions)
	r.Post("/interactions", s.createInteraction)
	r.Delete("/interactions/{id}", s.deleteInteraction)

	return r
}

func (s *Server) isoNow() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.storage.ListLeads(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) getLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.storage.GetLead(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNoRecord) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load lead")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) createLead(w http.ResponseWriter, r *http.Request) {
	var lead entity.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	now := s.isoNow()
	lead.ID = uuid.New().String()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	if err := s.storage.CreateLead(r.Context(), lead); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create lead")
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// updateLead accepts a full or partial body: fields absent from the JSON keep
// their stored value, and the path id always wins over a body id.
func (s *Server) updateLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	current, err := s.storage.GetLead(r.Context(), id)
	if errors.Is(err, ErrNoRecord) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load lead")
		return
	}

	updated := *current
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	updated.ID = id

	if err := s.storage.ReplaceLead(r.Context(), updated); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update lead")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteLead(w http.ResponseWriter, r *http.Request) {
	err := s.storage.DeleteLead(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNoRecord) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete lead")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := s.storage.ListInteractions(r.Context(), r.URL.Query().Get("leadId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list interactions")
		return
	}
	if interactions == nil {
		interactions = []entity.Interaction{}
	}
	writeJSON(w, http.StatusOK, interactions)
}

func (s *Server) createInteraction(w http.ResponseWriter, r *http.Request) {
	var interaction entity.Interaction
	if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// The client is the date authority for interactions; only the id is ours.
	interaction.ID = uuid.New().String()

	if err := s.storage.CreateInteraction(r.Context(), interaction); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create interaction")
		return
	}
	writeJSON(w, http.StatusCreated, interaction)
}

func (s *Server) deleteInteraction(w http.ResponseWriter, r *http.Request) {
	err := s.storage.DeleteInteraction(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNoRecord) {
		writeError(w, http.StatusNotFound, "interaction not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete interaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[dataserver] failed to encode response: %s", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
