package models

import "time"

// Service is a category of public service, potentially offered at several
// units. Units and services are joined through the shared external UUID in
// the identifier tables.
type Service struct {
	ID                   int             `json:"id"`
	Name                 LocalizedString `json:"name"`
	ClarificationEnabled bool            `json:"clarification_enabled"`
	PeriodEnabled        bool            `json:"period_enabled"`
	LastModifiedTime     time.Time       `json:"last_modified_time"`

	changeFlag
}

// NewService creates a service row with the flags the catalog import uses.
func NewService(id int) *Service {
	return &Service{
		ID:                   id,
		ClarificationEnabled: false,
		PeriodEnabled:        false,
	}
}

func (s *Service) SetName(lang, value string) {
	if s.Name.Set(lang, value) {
		s.Touch()
	}
}

// ServiceNode is a node in the local service taxonomy tree. The catalog
// import never creates nodes; it only links services to existing ones.
type ServiceNode struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	ParentID         *int      `json:"parent_id,omitempty"`
	RootID           *int      `json:"root_id,omitempty"`
	LastModifiedTime time.Time `json:"last_modified_time"`

	changeFlag
}
