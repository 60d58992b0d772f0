package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Repository handles service persistence
type Repository struct {
	db     database.Queryer
	logger ectologger.Logger
}

// NewRepository creates a new service repository
func NewRepository(db database.Queryer, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListImported returns every service with a catalog identifier binding.
func (r *Repository) ListImported(ctx context.Context) ([]*models.Service, error) {
	ctx, span := tracing.StartSpan(ctx, "service.Repository.ListImported")
	defer span.End()

	query := `
		SELECT s.id, s.name_fi, s.name_sv, s.name_en, s.clarification_enabled, s.period_enabled, s.last_modified_time
		FROM services s
		JOIN service_ptv_ids i ON i.service_id = s.id
		ORDER BY s.id
	`

	var rows []ServiceRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list imported services")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list imported services")
	}

	services := make([]*models.Service, 0, len(rows))
	for i := range rows {
		services = append(services, ToService(&rows[i]))
	}
	return services, nil
}

// MaxID returns the highest service id in use, or 0 for an empty table.
func (r *Repository) MaxID(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "service.Repository.MaxID")
	defer span.End()

	var max int
	if err := r.db.GetContext(ctx, &max, "SELECT COALESCE(MAX(id), 0) FROM services"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get max service id")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get max service id")
	}
	return max, nil
}

// Save upserts a service row by id.
func (r *Repository) Save(ctx context.Context, service *models.Service) error {
	ctx, span := tracing.StartSpan(ctx, "service.Repository.Save")
	defer span.End()

	row := FromService(service)
	ib := serviceStruct.InsertInto(serviceTable, row)
	ub := ib.OnConflict("id")
	ub.Set(
		ub.Assign("name_fi", database.Excluded("name_fi")),
		ub.Assign("name_sv", database.Excluded("name_sv")),
		ub.Assign("name_en", database.Excluded("name_en")),
		ub.Assign("clarification_enabled", database.Excluded("clarification_enabled")),
		ub.Assign("period_enabled", database.Excluded("period_enabled")),
		ub.Assign("last_modified_time", database.Excluded("last_modified_time")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": service.ID}).Error("Failed to save service")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save service")
	}
	return nil
}

// Get retrieves a service by id.
func (r *Repository) Get(ctx context.Context, id int) (*models.Service, error) {
	ctx, span := tracing.StartSpan(ctx, "service.Repository.Get")
	defer span.End()

	sb := serviceStruct.SelectFrom(serviceTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var row ServiceRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("service %d not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get service")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get service")
	}
	return ToService(&row), nil
}

// List retrieves services with pagination.
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]*models.Service, int, error) {
	ctx, span := tracing.StartSpan(ctx, "service.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, "SELECT COUNT(*) FROM services"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count services")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count services")
	}

	sb := serviceStruct.SelectFrom(serviceTable)
	sb.OrderBy("id")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var rows []ServiceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"page": page, "page_size": pageSize}).Error("Failed to list services")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list services")
	}

	services := make([]*models.Service, 0, len(rows))
	for i := range rows {
		services = append(services, ToService(&rows[i]))
	}
	return services, totalCount, nil
}

// ListByUnit returns the services offered at a unit. Units and services
// share their catalog UUID, so the join runs through both identifier tables.
func (r *Repository) ListByUnit(ctx context.Context, unitID int) ([]*models.Service, error) {
	ctx, span := tracing.StartSpan(ctx, "service.Repository.ListByUnit")
	defer span.End()

	query := `
		SELECT s.id, s.name_fi, s.name_sv, s.name_en, s.clarification_enabled, s.period_enabled, s.last_modified_time
		FROM services s
		JOIN service_ptv_ids si ON si.service_id = s.id
		JOIN unit_ptv_ids ui ON ui.id = si.id
		WHERE ui.unit_id = $1
		ORDER BY s.id
	`

	var rows []ServiceRow
	if err := r.db.SelectContext(ctx, &rows, query, unitID); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unit_id": unitID}).Error("Failed to list services for unit")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list services for unit")
	}

	services := make([]*models.Service, 0, len(rows))
	for i := range rows {
		services = append(services, ToService(&rows[i]))
	}
	return services, nil
}
