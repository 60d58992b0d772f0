package models

import "github.com/google/uuid"

// UnitPTVIdentifier binds an externally assigned catalog UUID to a local unit
// id. Once bound the local id never changes for that UUID.
type UnitPTVIdentifier struct {
	ID     uuid.UUID `json:"id"`
	UnitID *int      `json:"unit_id,omitempty"`

	changeFlag
}

func (i *UnitPTVIdentifier) SetUnit(unitID int) {
	if i.UnitID != nil && *i.UnitID == unitID {
		return
	}
	i.UnitID = &unitID
	i.Touch()
}

// ServicePTVIdentifier binds a catalog UUID to a local service id. Rows are
// created by the unit import only; the service import consumes them as its
// inclusion gate.
type ServicePTVIdentifier struct {
	ID        uuid.UUID `json:"id"`
	ServiceID *int      `json:"service_id,omitempty"`

	changeFlag
}

func (i *ServicePTVIdentifier) SetService(serviceID int) {
	if i.ServiceID != nil && *i.ServiceID == serviceID {
		return
	}
	i.ServiceID = &serviceID
	i.Touch()
}
