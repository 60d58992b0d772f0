package service

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
)

const serviceTable = "services"

type ServiceRow struct {
	ID                   int            `db:"id"`
	NameFi               sql.NullString `db:"name_fi"`
	NameSv               sql.NullString `db:"name_sv"`
	NameEn               sql.NullString `db:"name_en"`
	ClarificationEnabled bool           `db:"clarification_enabled"`
	PeriodEnabled        bool           `db:"period_enabled"`
	LastModifiedTime     time.Time      `db:"last_modified_time"`
}

var serviceStruct = database.NewStruct(new(ServiceRow))

func FromService(service *models.Service) *ServiceRow {
	return &ServiceRow{
		ID:                   service.ID,
		NameFi:               sql.NullString{String: service.Name.Get("fi"), Valid: service.Name.Get("fi") != ""},
		NameSv:               sql.NullString{String: service.Name.Get("sv"), Valid: service.Name.Get("sv") != ""},
		NameEn:               sql.NullString{String: service.Name.Get("en"), Valid: service.Name.Get("en") != ""},
		ClarificationEnabled: service.ClarificationEnabled,
		PeriodEnabled:        service.PeriodEnabled,
		LastModifiedTime:     service.LastModifiedTime,
	}
}

func ToService(row *ServiceRow) *models.Service {
	service := &models.Service{
		ID:                   row.ID,
		ClarificationEnabled: row.ClarificationEnabled,
		PeriodEnabled:        row.PeriodEnabled,
		LastModifiedTime:     row.LastModifiedTime,
	}
	if row.NameFi.Valid {
		service.Name.Set("fi", row.NameFi.String)
	}
	if row.NameSv.Valid {
		service.Name.Set("sv", row.NameSv.String)
	}
	if row.NameEn.Valid {
		service.Name.Set("en", row.NameEn.String)
	}
	return service
}
