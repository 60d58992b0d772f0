// Package unitconnection persists per-unit contact connection rows.
package unitconnection

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const connectionTable = "unit_connections"

type ConnectionRow struct {
	ID          int64          `db:"id" fieldopt:"omitempty"`
	UnitID      int            `db:"unit_id"`
	SectionType string         `db:"section_type"`
	NameFi      sql.NullString `db:"name_fi"`
	NameSv      sql.NullString `db:"name_sv"`
	NameEn      sql.NullString `db:"name_en"`
	Email       sql.NullString `db:"email"`
	Phone       sql.NullString `db:"phone"`
	Order       int            `db:"connection_order"`
}

var connectionStruct = database.NewStruct(new(ConnectionRow))

func fromConnection(conn *models.UnitConnection) *ConnectionRow {
	row := &ConnectionRow{
		ID:          conn.ID,
		UnitID:      conn.UnitID,
		SectionType: conn.SectionType,
		NameFi:      sql.NullString{String: conn.Name.Get("fi"), Valid: conn.Name.Get("fi") != ""},
		NameSv:      sql.NullString{String: conn.Name.Get("sv"), Valid: conn.Name.Get("sv") != ""},
		NameEn:      sql.NullString{String: conn.Name.Get("en"), Valid: conn.Name.Get("en") != ""},
		Order:       conn.Order,
	}
	if conn.Email != nil {
		row.Email = sql.NullString{String: *conn.Email, Valid: true}
	}
	if conn.Phone != nil {
		row.Phone = sql.NullString{String: *conn.Phone, Valid: true}
	}
	return row
}

func toConnection(row *ConnectionRow) *models.UnitConnection {
	conn := &models.UnitConnection{
		ID:          row.ID,
		UnitID:      row.UnitID,
		SectionType: row.SectionType,
		Order:       row.Order,
	}
	if row.NameFi.Valid {
		conn.Name.Set("fi", row.NameFi.String)
	}
	if row.NameSv.Valid {
		conn.Name.Set("sv", row.NameSv.String)
	}
	if row.NameEn.Valid {
		conn.Name.Set("en", row.NameEn.String)
	}
	if row.Email.Valid {
		email := row.Email.String
		conn.Email = &email
	}
	if row.Phone.Valid {
		phone := row.Phone.String
		conn.Phone = &phone
	}
	return conn
}

// Repository handles unit connection persistence
type Repository struct {
	db     database.Queryer
	logger ectologger.Logger
}

// NewRepository creates a new unit connection repository
func NewRepository(db database.Queryer, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// DeleteBySection removes every connection of one section for a unit.
func (r *Repository) DeleteBySection(ctx context.Context, unitID int, sectionType string) error {
	ctx, span := tracing.StartSpan(ctx, "unitconnection.Repository.DeleteBySection")
	defer span.End()

	db := database.NewDeleteBuilder()
	db.DeleteFrom(connectionTable)
	db.Where(
		db.Equal("unit_id", unitID),
		db.Equal("section_type", sectionType),
	)

	query, args := db.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unit_id": unitID, "section_type": sectionType}).Error("Failed to delete unit connections")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete unit connections")
	}
	return nil
}

// Insert adds a new connection row. The surrogate id comes from the table's
// sequence and is written back to the model.
func (r *Repository) Insert(ctx context.Context, conn *models.UnitConnection) error {
	ctx, span := tracing.StartSpan(ctx, "unitconnection.Repository.Insert")
	defer span.End()

	row := fromConnection(conn)
	ib := connectionStruct.InsertInto(connectionTable, row)
	ib = ib.Returning("id")

	query, args := ib.Build()
	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unit_id": conn.UnitID, "section_type": conn.SectionType}).Error("Failed to insert unit connection")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert unit connection")
	}
	conn.ID = id
	return nil
}

// ListByUnit returns a unit's connections in section order.
func (r *Repository) ListByUnit(ctx context.Context, unitID int) ([]*models.UnitConnection, error) {
	ctx, span := tracing.StartSpan(ctx, "unitconnection.Repository.ListByUnit")
	defer span.End()

	sb := connectionStruct.SelectFrom(connectionTable)
	sb.Where(sb.Equal("unit_id", unitID))
	sb.OrderBy("section_type", "connection_order")

	query, args := sb.Build()
	var rows []ConnectionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unit_id": unitID}).Error("Failed to list unit connections")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list unit connections")
	}

	connections := make([]*models.UnitConnection, 0, len(rows))
	for i := range rows {
		connections = append(connections, toConnection(&rows[i]))
	}
	return connections, nil
}
