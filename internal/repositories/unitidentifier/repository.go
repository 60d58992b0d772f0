// Package unitidentifier persists the binding between catalog UUIDs and
// local unit ids.
package unitidentifier

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const identifierTable = "unit_ptv_ids"

type IdentifierRow struct {
	ID     uuid.UUID     `db:"id"`
	UnitID sql.NullInt64 `db:"unit_id"`
}

var identifierStruct = database.NewStruct(new(IdentifierRow))

func fromIdentifier(row *models.UnitPTVIdentifier) *IdentifierRow {
	out := &IdentifierRow{ID: row.ID}
	if row.UnitID != nil {
		out.UnitID = sql.NullInt64{Int64: int64(*row.UnitID), Valid: true}
	}
	return out
}

func toIdentifier(row *IdentifierRow) *models.UnitPTVIdentifier {
	out := &models.UnitPTVIdentifier{ID: row.ID}
	if row.UnitID.Valid {
		id := int(row.UnitID.Int64)
		out.UnitID = &id
	}
	return out
}

// Repository handles unit identifier persistence
type Repository struct {
	db     database.Queryer
	logger ectologger.Logger
}

// NewRepository creates a new unit identifier repository
func NewRepository(db database.Queryer, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// List returns every identifier row.
func (r *Repository) List(ctx context.Context) ([]*models.UnitPTVIdentifier, error) {
	ctx, span := tracing.StartSpan(ctx, "unitidentifier.Repository.List")
	defer span.End()

	sb := identifierStruct.SelectFrom(identifierTable)
	query, args := sb.Build()

	var rows []IdentifierRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list unit identifiers")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list unit identifiers")
	}

	identifiers := make([]*models.UnitPTVIdentifier, 0, len(rows))
	for i := range rows {
		identifiers = append(identifiers, toIdentifier(&rows[i]))
	}
	return identifiers, nil
}

// Save upserts an identifier row by UUID.
func (r *Repository) Save(ctx context.Context, identifier *models.UnitPTVIdentifier) error {
	ctx, span := tracing.StartSpan(ctx, "unitidentifier.Repository.Save")
	defer span.End()

	row := fromIdentifier(identifier)
	ib := identifierStruct.InsertInto(identifierTable, row)
	ub := ib.OnConflict("id")
	ub.Set(
		ub.Assign("unit_id", database.Excluded("unit_id")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": identifier.ID}).Error("Failed to save unit identifier")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save unit identifier")
	}
	return nil
}

// GetByUnit returns the identifier bound to a unit, or nil when the unit has
// no catalog binding.
func (r *Repository) GetByUnit(ctx context.Context, unitID int) (*models.UnitPTVIdentifier, error) {
	ctx, span := tracing.StartSpan(ctx, "unitidentifier.Repository.GetByUnit")
	defer span.End()

	sb := identifierStruct.SelectFrom(identifierTable)
	sb.Where(sb.Equal("unit_id", unitID))
	sb.Limit(1)

	query, args := sb.Build()
	var row IdentifierRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unit_id": unitID}).Error("Failed to get unit identifier by unit")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get unit identifier")
	}
	return toIdentifier(&row), nil
}
