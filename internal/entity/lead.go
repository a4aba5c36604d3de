package entity

// LeadStatus is the pipeline column a lead sits in.
type LeadStatus string

const (
	StatusProspect    LeadStatus = "Prospect"
	StatusNegotiation LeadStatus = "Negotiation"
	StatusDeal        LeadStatus = "Deal"
	StatusLost        LeadStatus = "Lost"
)

// LeadSource tracks where a lead came from.
type LeadSource string

const (
	SourceWebsite     LeadSource = "Website"
	SourceReferral    LeadSource = "Referral"
	SourceSocialMedia LeadSource = "Social Media"
	SourceColdCall    LeadSource = "Cold Call"
)

// Lead is a prospective or existing customer record. Timestamps are ISO-8601
// strings; the data service owns them at creation time. Status and source are
// not validated anywhere: an unknown string coming back from the data service
// is carried through as-is.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	Status    LeadStatus `json:"status"`
	Source    LeadSource `json:"source"`
	Notes     string     `json:"notes"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

// NewLead carries the caller-supplied fields of a lead to create. The data
// service assigns id, createdAt and updatedAt.
type NewLead struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Phone   string     `json:"phone"`
	Company string     `json:"company"`
	Status  LeadStatus `json:"status"`
	Source  LeadSource `json:"source"`
	Notes   string     `json:"notes"`
}

// LeadPatch is a partial lead update. Nil fields are left untouched by Apply.
type LeadPatch struct {
	Name    *string     `json:"name,omitempty"`
	Email   *string     `json:"email,omitempty"`
	Phone   *string     `json:"phone,omitempty"`
	Company *string     `json:"company,omitempty"`
	Status  *LeadStatus `json:"status,omitempty"`
	Source  *LeadSource `json:"source,omitempty"`
	Notes   *string     `json:"notes,omitempty"`
}

// Apply merges the patch over lead and returns the result. Pure: neither input
// is modified. Status moves are unrestricted — any status may replace any
// other, including reopening a Lost or Deal lead. The pipeline has no workflow
// guards on purpose.
func (p LeadPatch) Apply(lead Lead) Lead {
	if p.Name != nil {
		lead.Name = *p.Name
	}
	if p.Email != nil {
		lead.Email = *p.Email
	}
	if p.Phone != nil {
		lead.Phone = *p.Phone
	}
	if p.Company != nil {
		lead.Company = *p.Company
	}
	if p.Status != nil {
		lead.Status = *p.Status
	}
	if p.Source != nil {
		lead.Source = *p.Source
	}
	if p.Notes != nil {
		lead.Notes = *p.Notes
	}
	return lead
}

// Stats are the dashboard counters, recomputed from the in-memory collections
// on every call.
type Stats struct {
	TotalLeads        int `json:"totalLeads"`
	TotalProspects    int `json:"totalProspects"`
	TotalDeals        int `json:"totalDeals"`
	TotalInteractions int `json:"totalInteractions"`
}
