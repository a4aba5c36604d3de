// Package store holds the two stateful service objects of the CRM: the domain
// store (leads, interactions, pipeline stats) and the session store. Both are
// explicit dependency-injected objects owned by the application root, shared
// by every HTTP handler.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/macracrm/macra-crm/internal/entity"
	"github.com/macracrm/macra-crm/internal/infra/queue"
)

// DataService is the slice of the remote data client the domain store uses.
type DataService interface {
	ListLeads(ctx context.Context) ([]entity.Lead, error)
	GetLead(ctx context.Context, id string) (*entity.Lead, error)
	CreateLead(ctx context.Context, fields entity.NewLead) (*entity.Lead, error)
	UpdateLead(ctx context.Context, id string, lead entity.Lead) (*entity.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	ListInteractions(ctx context.Context) ([]entity.Interaction, error)
	ListInteractionsForLead(ctx context.Context, leadID string) ([]entity.Interaction, error)
	CreateInteraction(ctx context.Context, fields entity.NewInteraction) (*entity.Interaction, error)
	DeleteInteraction(ctx context.Context, id string) error
}

// EventPublisher receives lead lifecycle events after successful mutations.
type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error
}

// CrmStore owns the in-memory lead and interaction collections. Every
// operation follows the same request/reconcile pattern: raise a busy flag,
// clear the error slot, call the data service, merge the response back in.
// Network calls run without the lock, so two in-flight calls on the same
// record resolve in arrival order — last response wins. A failed call leaves
// the collections exactly as they were (stale but present, never wiped).
//
// Operations never return an error: failures land in the error slot as one
// static human-readable message per operation kind, and the return value
// (nil pointer or false) signals the outcome where the caller needs one.
type CrmStore struct {
	data   DataService
	events EventPublisher // nil disables publishing
	now    func() time.Time

	mu           sync.Mutex
	leads        []entity.Lead
	interactions []entity.Interaction
	selected     *entity.Lead
	loading      int // counters internally, booleans outward, so
	updating     int // overlapping calls don't clear each other's flag
	lastErr      string
}

func NewCrmStore(data DataService, events EventPublisher) *CrmStore {
	return &CrmStore{data: data, events: events, now: time.Now}
}

// isoNow matches the timestamp format the SPA and the data service exchange.
func (s *CrmStore) isoNow() string {
	return s.now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// FetchLeads replaces the local lead collection with the data service's.
func (s *CrmStore) FetchLeads(ctx context.Context) {
	s.beginRead()
	leads, err := s.data.ListLeads(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.lastErr = "Failed to fetch leads"
		return
	}
	s.leads = leads
}

// FetchLeadByID loads one lead into the selection. Returns nil on any
// failure, including the data service not knowing the id.
func (s *CrmStore) FetchLeadByID(ctx context.Context, id string) *entity.Lead {
	s.beginRead()
	lead, err := s.data.GetLead(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.lastErr = "Failed to fetch lead"
		return nil
	}
	selected := *lead
	s.selected = &selected
	out := *lead
	return &out
}

// CreateLead posts the fields as-is (the data service is the timestamp
// authority at creation) and appends the returned record. Append, not
// merge-by-id: issuing the same logical create twice yields two records.
func (s *CrmStore) CreateLead(ctx context.Context, fields entity.NewLead) *entity.Lead {
	s.beginWrite()
	created, err := s.data.CreateLead(ctx, fields)

	s.mu.Lock()
	s.updating--
	if err != nil {
		s.lastErr = "Failed to create lead"
		s.mu.Unlock()
		return nil
	}
	s.leads = append(s.leads, *created)
	s.mu.Unlock()

	s.publish(ctx, queue.EventLeadCreated, *created)
	out := *created
	return &out
}

// UpdateLead merges the patch over the current local record, stamps updatedAt
// with the client clock, and sends the full merged record. A miss on the
// local collection fails with "Lead not found" before any network call.
func (s *CrmStore) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) *entity.Lead {
	s.beginWrite()

	s.mu.Lock()
	idx := indexOfLead(s.leads, id)
	if idx < 0 {
		s.lastErr = "Lead not found"
		s.updating--
		s.mu.Unlock()
		return nil
	}
	current := s.leads[idx]
	s.mu.Unlock()

	merged := patch.Apply(current)
	merged.UpdatedAt = s.isoNow()
	updated, err := s.data.UpdateLead(ctx, id, merged)

	s.mu.Lock()
	s.updating--
	if err != nil {
		s.lastErr = "Failed to update lead"
		s.mu.Unlock()
		return nil
	}
	if idx := indexOfLead(s.leads, id); idx >= 0 {
		s.leads[idx] = *updated
	}
	if s.selected != nil && s.selected.ID == id {
		selected := *updated
		s.selected = &selected
	}
	s.mu.Unlock()

	if current.Status != updated.Status {
		s.publish(ctx, queue.EventLeadStatusChanged, *updated)
	}
	out := *updated
	return &out
}

// DeleteLead removes the record locally only after the remote delete
// succeeds, clearing the selection if it matched.
func (s *CrmStore) DeleteLead(ctx context.Context, id string) bool {
	s.beginWrite()
	err := s.data.DeleteLead(ctx, id)

	s.mu.Lock()
	s.updating--
	if err != nil {
		s.lastErr = "Failed to delete lead"
		s.mu.Unlock()
		return false
	}
	var deleted entity.Lead
	kept := s.leads[:0]
	for _, l := range s.leads {
		if l.ID == id {
			deleted = l
			continue
		}
		kept = append(kept, l)
	}
	s.leads = kept
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()

	deleted.ID = id
	s.publish(ctx, queue.EventLeadDeleted, deleted)
	return true
}

// FetchInteractions replaces the local interaction collection.
func (s *CrmStore) FetchInteractions(ctx context.Context) {
	s.beginRead()
	interactions, err := s.data.ListInteractions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.lastErr = "Failed to fetch interactions"
		return
	}
	s.interactions = interactions
}

// FetchInteractionsForLead is a read-through query; it does not replace the
// main interaction collection.
func (s *CrmStore) FetchInteractionsForLead(ctx context.Context, leadID string) []entity.Interaction {
	s.beginRead()
	interactions, err := s.data.ListInteractionsForLead(ctx, leadID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--
	if err != nil {
		s.lastErr = "Failed to fetch interactions"
		return nil
	}
	return interactions
}

func (s *CrmStore) CreateInteraction(ctx context.Context, fields entity.NewInteraction) *entity.Interaction {
	s.beginWrite()
	created, err := s.data.CreateInteraction(ctx, fields)

	s.mu.Lock()
	s.updating--
	if err != nil {
		s.lastErr = "Failed to create interaction"
		s.mu.Unlock()
		return nil
	}
	s.interactions = append(s.interactions, *created)
	s.mu.Unlock()

	s.publish(ctx, queue.EventInteractionLogged, entity.Lead{ID: created.LeadID})
	out := *created
	return &out
}

func (s *CrmStore) DeleteInteraction(ctx context.Context, id string) bool {
	s.beginWrite()
	err := s.data.DeleteInteraction(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updating--
	if err != nil {
		s.lastErr = "Failed to delete interaction"
		return false
	}
	kept := s.interactions[:0]
	for _, i := range s.interactions {
		if i.ID != id {
			kept = append(kept, i)
		}
	}
	s.interactions = kept
	return true
}

// Stats recomputes the dashboard counters from the current collections on
// every call. Never cached.
func (s *CrmStore) Stats() entity.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := entity.Stats{
		TotalLeads:        len(s.leads),
		TotalInteractions: len(s.interactions),
	}
	for _, l := range s.leads {
		switch l.Status {
		case entity.StatusProspect:
			stats.TotalProspects++
		case entity.StatusDeal:
			stats.TotalDeals++
		}
	}
	return stats
}

// LeadsByStatus filters the current collection by exact status match.
func (s *CrmStore) LeadsByStatus(status entity.LeadStatus) []entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Lead
	for _, l := range s.leads {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out
}

func (s *CrmStore) Leads() []entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *CrmStore) Interactions() []entity.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Interaction, len(s.interactions))
	copy(out, s.interactions)
	return out
}

func (s *CrmStore) SelectedLead() *entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	out := *s.selected
	return &out
}

func (s *CrmStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

func (s *CrmStore) IsUpdating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating > 0
}

// Err returns the last-error slot: empty when the most recent operation
// succeeded, one static message per operation kind otherwise.
func (s *CrmStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *CrmStore) beginRead() {
	s.mu.Lock()
	s.loading++
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *CrmStore) beginWrite() {
	s.mu.Lock()
	s.updating++
	s.lastErr = ""
	s.mu.Unlock()
}

// publish is best-effort: event delivery never affects the store contract.
func (s *CrmStore) publish(ctx context.Context, event string, lead entity.Lead) {
	if s.events == nil {
		return
	}
	payload := queue.LeadEventPayload{
		Event:      event,
		LeadID:     lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Status:     string(lead.Status),
		OccurredAt: s.isoNow(),
	}
	if err := s.events.PublishLeadEvent(ctx, payload); err != nil {
		log.Printf("[store] failed to publish %s for lead %s: %s", event, lead.ID, err)
	}
}

func indexOfLead(leads []entity.Lead, id string) int {
	for i, l := range leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}
