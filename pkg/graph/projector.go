package graph

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// UnitSource yields the units to project.
type UnitSource interface {
	ListByDataSource(ctx context.Context, dataSource string) ([]*models.Unit, error)
}

// ServiceSource yields the services offered at a unit.
type ServiceSource interface {
	ListByUnit(ctx context.Context, unitID int) ([]*models.Service, error)
}

// NodeSource yields the taxonomy nodes a service is classified under.
type NodeSource interface {
	ListByService(ctx context.Context, serviceID int) ([]*models.ServiceNode, error)
}

// Projector mirrors the imported catalog into the graph: Unit, Service and
// ServiceNode nodes with OFFERS and CLASSIFIED_AS edges between them. The
// projection is a read model; losing it never loses data.
type Projector struct {
	client   *Client
	units    UnitSource
	services ServiceSource
	nodes    NodeSource
	logger   ectologger.Logger
}

func NewProjector(client *Client, units UnitSource, services ServiceSource, nodes NodeSource, logger ectologger.Logger) *Projector {
	return &Projector{
		client:   client,
		units:    units,
		services: services,
		nodes:    nodes,
		logger:   logger,
	}
}

// Project rewrites the graph projection from the current store contents.
func (p *Projector) Project(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "graph.Projector.Project")
	defer span.End()

	units, err := p.units.ListByDataSource(ctx, models.DataSourcePTV)
	if err != nil {
		return err
	}

	for _, unit := range units {
		if err := p.projectUnit(ctx, unit); err != nil {
			return err
		}

		services, err := p.services.ListByUnit(ctx, unit.ID)
		if err != nil {
			return err
		}
		for _, service := range services {
			if err := p.projectService(ctx, service); err != nil {
				return err
			}
			if err := p.linkOffer(ctx, unit.ID, service.ID); err != nil {
				return err
			}

			nodes, err := p.nodes.ListByService(ctx, service.ID)
			if err != nil {
				return err
			}
			for _, node := range nodes {
				if err := p.linkClassification(ctx, service.ID, node); err != nil {
					return err
				}
			}
		}
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{"units": len(units)}).Info("Projected catalog into graph")
	return nil
}

func (p *Projector) projectUnit(ctx context.Context, unit *models.Unit) error {
	props := map[string]any{
		"id":          unit.ID,
		"name":        unit.Name.Default(),
		"address_zip": unit.AddressZip,
		"email":       unit.Email,
		"data_source": unit.DataSource,
	}
	if unit.Location != nil {
		props["lon"] = unit.Location.Lon
		props["lat"] = unit.Location.Lat
	}
	if unit.MunicipalityID != nil {
		props["municipality_id"] = *unit.MunicipalityID
	}

	cypher := `
		MERGE (u:Unit {id: $id})
		SET u = $props
		RETURN u
	`

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"id":    unit.ID,
			"props": props,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unit_id": unit.ID}).Error("Failed to project unit")
		return err
	}
	return nil
}

func (p *Projector) projectService(ctx context.Context, service *models.Service) error {
	cypher := `
		MERGE (s:Service {id: $id})
		SET s.name = $name
		RETURN s
	`

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"id":   service.ID,
			"name": service.Name.Default(),
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"service_id": service.ID}).Error("Failed to project service")
		return err
	}
	return nil
}

func (p *Projector) linkClassification(ctx context.Context, serviceID int, node *models.ServiceNode) error {
	cypher := `
		MATCH (s:Service {id: $service_id})
		MERGE (n:ServiceNode {id: $node_id})
		SET n.name = $node_name
		MERGE (s)-[r:CLASSIFIED_AS]->(n)
		RETURN r
	`

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"service_id": serviceID,
			"node_id":    node.ID,
			"node_name":  node.Name,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"service_id": serviceID, "node_id": node.ID}).Error("Failed to link service to node")
		return err
	}
	return nil
}

func (p *Projector) linkOffer(ctx context.Context, unitID, serviceID int) error {
	cypher := `
		MATCH (u:Unit {id: $unit_id})
		MATCH (s:Service {id: $service_id})
		MERGE (u)-[r:OFFERS]->(s)
		RETURN r
	`

	_, err := p.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, map[string]any{
			"unit_id":    unitID,
			"service_id": serviceID,
		})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"unit_id": unitID, "service_id": serviceID}).Error("Failed to link unit to service")
		return err
	}
	return nil
}
