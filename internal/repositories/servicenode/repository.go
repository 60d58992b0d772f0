// Package servicenode reads the service taxonomy tree and maintains its
// links to services.
package servicenode

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const (
	nodeTable     = "service_nodes"
	relationTable = "service_node_services"
)

type NodeRow struct {
	ID               int           `db:"id"`
	Name             string        `db:"name"`
	ParentID         sql.NullInt64 `db:"parent_id"`
	RootID           sql.NullInt64 `db:"root_id"`
	LastModifiedTime time.Time     `db:"last_modified_time"`
}

var nodeStruct = database.NewStruct(new(NodeRow))

func toNode(row *NodeRow) *models.ServiceNode {
	node := &models.ServiceNode{
		ID:               row.ID,
		Name:             row.Name,
		LastModifiedTime: row.LastModifiedTime,
	}
	if row.ParentID.Valid {
		id := int(row.ParentID.Int64)
		node.ParentID = &id
	}
	if row.RootID.Valid {
		id := int(row.RootID.Int64)
		node.RootID = &id
	}
	return node
}

// Repository handles service node persistence
type Repository struct {
	db     database.Queryer
	logger ectologger.Logger
}

// NewRepository creates a new service node repository
func NewRepository(db database.Queryer, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByName returns the node with the given name, or nil when no node
// matches.
func (r *Repository) GetByName(ctx context.Context, name string) (*models.ServiceNode, error) {
	ctx, span := tracing.StartSpan(ctx, "servicenode.Repository.GetByName")
	defer span.End()

	sb := nodeStruct.SelectFrom(nodeTable)
	sb.Where(sb.Equal("name", name))
	sb.Limit(1)

	query, args := sb.Build()
	var row NodeRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"name": name}).Error("Failed to get service node by name")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get service node")
	}
	return toNode(&row), nil
}

// AddRelatedService links a service to a node. It reports whether the link
// was newly created; re-linking an existing pair is a no-op.
func (r *Repository) AddRelatedService(ctx context.Context, nodeID, serviceID int) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "servicenode.Repository.AddRelatedService")
	defer span.End()

	ib := database.NewInsertBuilder()
	ib = ib.InsertInto(relationTable).Cols("service_node_id", "service_id").Values(nodeID, serviceID)
	ib = ib.OnConflictDoNothing()

	query, args := ib.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"service_node_id": nodeID, "service_id": serviceID}).Error("Failed to link service to node")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to link service to node")
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Save updates a node's mutable fields by id. Nodes are never created here;
// the taxonomy tree is maintained elsewhere.
func (r *Repository) Save(ctx context.Context, node *models.ServiceNode) error {
	ctx, span := tracing.StartSpan(ctx, "servicenode.Repository.Save")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(nodeTable)
	ub.Set(
		ub.Assign("name", node.Name),
		ub.Assign("last_modified_time", node.LastModifiedTime),
	)
	ub.Where(ub.Equal("id", node.ID))

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": node.ID}).Error("Failed to save service node")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save service node")
	}
	return nil
}

// RecomputeRoots rewrites every node's root reference by walking the tree
// from the parentless nodes down.
func (r *Repository) RecomputeRoots(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "servicenode.Repository.RecomputeRoots")
	defer span.End()

	query := `
		WITH RECURSIVE tree AS (
			SELECT id, id AS root_id FROM service_nodes WHERE parent_id IS NULL
			UNION ALL
			SELECT n.id, t.root_id FROM service_nodes n JOIN tree t ON n.parent_id = t.id
		)
		UPDATE service_nodes sn
		SET root_id = tree.root_id
		FROM tree
		WHERE sn.id = tree.id AND sn.root_id IS DISTINCT FROM tree.root_id
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to recompute service node roots")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to recompute service node roots")
	}
	return nil
}

// ListByService returns the taxonomy nodes a service is linked to.
func (r *Repository) ListByService(ctx context.Context, serviceID int) ([]*models.ServiceNode, error) {
	ctx, span := tracing.StartSpan(ctx, "servicenode.Repository.ListByService")
	defer span.End()

	query := `
		SELECT n.id, n.name, n.parent_id, n.root_id, n.last_modified_time
		FROM service_nodes n
		JOIN service_node_services r ON r.service_node_id = n.id
		WHERE r.service_id = $1
		ORDER BY n.name
	`

	var rows []NodeRow
	if err := r.db.SelectContext(ctx, &rows, query, serviceID); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"service_id": serviceID}).Error("Failed to list nodes for service")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list nodes for service")
	}

	nodes := make([]*models.ServiceNode, 0, len(rows))
	for i := range rows {
		nodes = append(nodes, toNode(&rows[i]))
	}
	return nodes, nil
}
