package entity

// InteractionType classifies a logged communication event.
type InteractionType string

const (
	InteractionCall      InteractionType = "Call"
	InteractionEmail     InteractionType = "Email"
	InteractionMeeting   InteractionType = "Meeting"
	InteractionComplaint InteractionType = "Complaint"
)

// Interaction is one communication event tied to exactly one lead. The leadId
// relationship is not enforced referentially on this side. Interactions are
// never updated in place: created, listed, deleted.
type Interaction struct {
	ID          string          `json:"id"`
	LeadID      string          `json:"leadId"`
	Type        InteractionType `json:"type"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// NewInteraction carries the caller-supplied fields of an interaction to
// create. The caller sets Date; the data service assigns the id.
type NewInteraction struct {
	LeadID      string          `json:"leadId"`
	Type        InteractionType `json:"type"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}
