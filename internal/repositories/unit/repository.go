package unit

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

// Repository handles unit persistence
type Repository struct {
	db     database.Queryer
	logger ectologger.Logger
}

// NewRepository creates a new unit repository
func NewRepository(db database.Queryer, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListByDataSource returns every unit tagged with the given data source.
func (r *Repository) ListByDataSource(ctx context.Context, dataSource string) ([]*models.Unit, error) {
	ctx, span := tracing.StartSpan(ctx, "unit.Repository.ListByDataSource")
	defer span.End()

	sb := unitStruct.SelectFrom(unitTable)
	sb.Where(sb.Equal("data_source", dataSource))
	sb.OrderBy("id")

	query, args := sb.Build()
	var rows []UnitRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"data_source": dataSource}).Error("Failed to list units by data source")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list units")
	}

	units := make([]*models.Unit, 0, len(rows))
	for i := range rows {
		units = append(units, ToUnit(&rows[i]))
	}
	return units, nil
}

// MaxID returns the highest unit id in use, or 0 for an empty table.
func (r *Repository) MaxID(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "unit.Repository.MaxID")
	defer span.End()

	var max int
	if err := r.db.GetContext(ctx, &max, "SELECT COALESCE(MAX(id), 0) FROM units"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get max unit id")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get max unit id")
	}
	return max, nil
}

// Save upserts a unit row by id.
func (r *Repository) Save(ctx context.Context, unit *models.Unit) error {
	ctx, span := tracing.StartSpan(ctx, "unit.Repository.Save")
	defer span.End()

	row := FromUnit(unit)
	ib := unitStruct.InsertInto(unitTable, row)
	ub := ib.OnConflict("id")
	ub.Set(
		ub.Assign("name_fi", database.Excluded("name_fi")),
		ub.Assign("name_sv", database.Excluded("name_sv")),
		ub.Assign("name_en", database.Excluded("name_en")),
		ub.Assign("description_fi", database.Excluded("description_fi")),
		ub.Assign("description_sv", database.Excluded("description_sv")),
		ub.Assign("description_en", database.Excluded("description_en")),
		ub.Assign("street_address_fi", database.Excluded("street_address_fi")),
		ub.Assign("street_address_sv", database.Excluded("street_address_sv")),
		ub.Assign("street_address_en", database.Excluded("street_address_en")),
		ub.Assign("address_postal_full_fi", database.Excluded("address_postal_full_fi")),
		ub.Assign("address_postal_full_sv", database.Excluded("address_postal_full_sv")),
		ub.Assign("address_postal_full_en", database.Excluded("address_postal_full_en")),
		ub.Assign("www_fi", database.Excluded("www_fi")),
		ub.Assign("www_sv", database.Excluded("www_sv")),
		ub.Assign("www_en", database.Excluded("www_en")),
		ub.Assign("location_lon", database.Excluded("location_lon")),
		ub.Assign("location_lat", database.Excluded("location_lat")),
		ub.Assign("address_zip", database.Excluded("address_zip")),
		ub.Assign("email", database.Excluded("email")),
		ub.Assign("municipality_id", database.Excluded("municipality_id")),
		ub.Assign("data_source", database.Excluded("data_source")),
		ub.Assign("last_modified_time", database.Excluded("last_modified_time")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": unit.ID}).Error("Failed to save unit")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save unit")
	}
	return nil
}

// Get retrieves a unit by id.
func (r *Repository) Get(ctx context.Context, id int) (*models.Unit, error) {
	ctx, span := tracing.StartSpan(ctx, "unit.Repository.Get")
	defer span.End()

	sb := unitStruct.SelectFrom(unitTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var row UnitRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unit %d not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get unit")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get unit")
	}
	return ToUnit(&row), nil
}

// List retrieves units with pagination, newest first.
func (r *Repository) List(ctx context.Context, page, pageSize int) ([]*models.Unit, int, error) {
	ctx, span := tracing.StartSpan(ctx, "unit.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, "SELECT COUNT(*) FROM units"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count units")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count units")
	}

	sb := unitStruct.SelectFrom(unitTable)
	sb.OrderBy("last_modified_time DESC", "id")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var rows []UnitRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"page": page, "page_size": pageSize}).Error("Failed to list units")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list units")
	}

	units := make([]*models.Unit, 0, len(rows))
	for i := range rows {
		units = append(units, ToUnit(&rows[i]))
	}
	return units, totalCount, nil
}
