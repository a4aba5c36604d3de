package dataserver

import (
	"context"
	"sync"

	"github.com/macracrm/macra-crm/internal/entity"
)

// MemoryStorage keeps everything in insertion-ordered slices. Default backend
// for demos and tests; state dies with the process.
type MemoryStorage struct {
	mu           sync.RWMutex
	leads        []entity.Lead
	interactions []entity.Interaction
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) ListLeads(ctx context.Context) ([]entity.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.Lead, len(m.leads))
	copy(out, m.leads)
	return out, nil
}

func (m *MemoryStorage) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.leads {
		if l.ID == id {
			out := l
			return &out, nil
		}
	}
	return nil, ErrNoRecord
}

func (m *MemoryStorage) CreateLead(ctx context.Context, lead entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append(m.leads, lead)
	return nil
}

func (m *MemoryStorage) ReplaceLead(ctx context.Context, lead entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.leads {
		if l.ID == lead.ID {
			m.leads[i] = lead
			return nil
		}
	}
	return ErrNoRecord
}

func (m *MemoryStorage) DeleteLead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.leads {
		if l.ID == id {
			m.leads = append(m.leads[:i], m.leads[i+1:]...)
			return nil
		}
	}
	return ErrNoRecord
}

func (m *MemoryStorage) ListInteractions(ctx context.Context, leadID string) ([]entity.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []entity.Interaction
	for _, in := range m.interactions {
		if leadID == "" || in.LeadID == leadID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (m *MemoryStorage) CreateInteraction(ctx context.Context, interaction entity.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, interaction)
	return nil
}

func (m *MemoryStorage) DeleteInteraction(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, in := range m.interactions {
		if in.ID == id {
			m.interactions = append(m.interactions[:i], m.interactions[i+1:]...)
			return nil
		}
	}
	return ErrNoRecord
}
