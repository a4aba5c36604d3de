// Package dataserver is the bundled stand-in for the external REST JSON data
// service the CRM delegates persistence to. It speaks the conventional
// resource API (list/get/create/update/delete keyed by resource and id) and
// enforces no schema beyond the record shapes.
package dataserver

import (
	"context"
	"errors"

	"github.com/macracrm/macra-crm/internal/entity"
)

// ErrNoRecord signals a lookup miss to the HTTP layer, which maps it to 404.
var ErrNoRecord = errors.New("no such record")

// Storage is the persistence backend. Records arrive complete: the HTTP layer
// assigns ids and lead timestamps before calling in.
type Storage interface {
	ListLeads(ctx context.Context) ([]entity.Lead, error)
	GetLead(ctx context.Context, id string) (*entity.Lead, error)
	CreateLead(ctx context.Context, lead entity.Lead) error
	ReplaceLead(ctx context.Context, lead entity.Lead) error
	DeleteLead(ctx context.Context, id string) error

	// ListInteractions with an empty leadID returns everything.
	ListInteractions(ctx context.Context, leadID string) ([]entity.Interaction, error)
	CreateInteraction(ctx context.Context, interaction entity.Interaction) error
	DeleteInteraction(ctx context.Context, id string) error
}
