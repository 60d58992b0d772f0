// Package serviceidentifier persists the binding between catalog UUIDs and
// local service ids. Rows are seeded by the unit import and consumed by the
// service import as its inclusion gate.
package serviceidentifier

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

const identifierTable = "service_ptv_ids"

type IdentifierRow struct {
	ID        uuid.UUID     `db:"id"`
	ServiceID sql.NullInt64 `db:"service_id"`
}

var identifierStruct = database.NewStruct(new(IdentifierRow))

func fromIdentifier(row *models.ServicePTVIdentifier) *IdentifierRow {
	out := &IdentifierRow{ID: row.ID}
	if row.ServiceID != nil {
		out.ServiceID = sql.NullInt64{Int64: int64(*row.ServiceID), Valid: true}
	}
	return out
}

func toIdentifier(row *IdentifierRow) *models.ServicePTVIdentifier {
	out := &models.ServicePTVIdentifier{ID: row.ID}
	if row.ServiceID.Valid {
		id := int(row.ServiceID.Int64)
		out.ServiceID = &id
	}
	return out
}

// Repository handles service identifier persistence
type Repository struct {
	db     database.Queryer
	logger ectologger.Logger
}

// NewRepository creates a new service identifier repository
func NewRepository(db database.Queryer, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// List returns every identifier row.
func (r *Repository) List(ctx context.Context) ([]*models.ServicePTVIdentifier, error) {
	ctx, span := tracing.StartSpan(ctx, "serviceidentifier.Repository.List")
	defer span.End()

	sb := identifierStruct.SelectFrom(identifierTable)
	query, args := sb.Build()

	var rows []IdentifierRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list service identifiers")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list service identifiers")
	}

	identifiers := make([]*models.ServicePTVIdentifier, 0, len(rows))
	for i := range rows {
		identifiers = append(identifiers, toIdentifier(&rows[i]))
	}
	return identifiers, nil
}

// Save upserts an identifier row by UUID.
func (r *Repository) Save(ctx context.Context, identifier *models.ServicePTVIdentifier) error {
	ctx, span := tracing.StartSpan(ctx, "serviceidentifier.Repository.Save")
	defer span.End()

	row := fromIdentifier(identifier)
	ib := identifierStruct.InsertInto(identifierTable, row)
	ub := ib.OnConflict("id")
	ub.Set(
		ub.Assign("service_id", database.Excluded("service_id")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": identifier.ID}).Error("Failed to save service identifier")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save service identifier")
	}
	return nil
}
