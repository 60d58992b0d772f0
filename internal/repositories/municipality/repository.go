// Package municipality resolves municipality reference rows.
package municipality

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const municipalityTable = "municipalities"

type MunicipalityRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

var municipalityStruct = database.NewStruct(new(MunicipalityRow))

// Repository handles municipality persistence
type Repository struct {
	db     database.Queryer
	logger ectologger.Logger
}

// NewRepository creates a new municipality repository
func NewRepository(db database.Queryer, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByName returns the municipality with the given name, or nil when the
// name is unknown locally.
func (r *Repository) GetByName(ctx context.Context, name string) (*models.Municipality, error) {
	ctx, span := tracing.StartSpan(ctx, "municipality.Repository.GetByName")
	defer span.End()

	sb := municipalityStruct.SelectFrom(municipalityTable)
	sb.Where(sb.Equal("name", name))
	sb.Limit(1)

	query, args := sb.Build()
	var row MunicipalityRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"name": name}).Error("Failed to get municipality by name")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get municipality")
	}
	return &models.Municipality{ID: row.ID, Name: row.Name}, nil
}

// List returns every municipality.
func (r *Repository) List(ctx context.Context) ([]*models.Municipality, error) {
	ctx, span := tracing.StartSpan(ctx, "municipality.Repository.List")
	defer span.End()

	sb := municipalityStruct.SelectFrom(municipalityTable)
	sb.OrderBy("name")

	query, args := sb.Build()
	var rows []MunicipalityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list municipalities")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list municipalities")
	}

	municipalities := make([]*models.Municipality, 0, len(rows))
	for i := range rows {
		municipalities = append(municipalities, &models.Municipality{ID: rows[i].ID, Name: rows[i].Name})
	}
	return municipalities, nil
}
