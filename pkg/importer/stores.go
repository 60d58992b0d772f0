package importer

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/ptv"
)

// CatalogSource yields the decoded catalog feeds for an area.
type CatalogSource interface {
	Units(ctx context.Context, areaCode string) ([]ptv.UnitRecord, error)
	Services(ctx context.Context, areaCode string) ([]ptv.ServiceRecord, error)
}

// UnitStore persists unit rows.
type UnitStore interface {
	ListByDataSource(ctx context.Context, dataSource string) ([]*models.Unit, error)
	MaxID(ctx context.Context) (int, error)
	Save(ctx context.Context, unit *models.Unit) error
}

// UnitIdentifierStore persists the UUID to unit id bindings.
type UnitIdentifierStore interface {
	List(ctx context.Context) ([]*models.UnitPTVIdentifier, error)
	Save(ctx context.Context, row *models.UnitPTVIdentifier) error
}

// ConnectionStore persists per-unit contact connections.
type ConnectionStore interface {
	DeleteBySection(ctx context.Context, unitID int, sectionType string) error
	Insert(ctx context.Context, conn *models.UnitConnection) error
}

// ServiceStore persists service rows.
type ServiceStore interface {
	ListImported(ctx context.Context) ([]*models.Service, error)
	MaxID(ctx context.Context) (int, error)
	Save(ctx context.Context, service *models.Service) error
}

// ServiceIdentifierStore persists the UUID to service id bindings.
type ServiceIdentifierStore interface {
	List(ctx context.Context) ([]*models.ServicePTVIdentifier, error)
	Save(ctx context.Context, row *models.ServicePTVIdentifier) error
}

// ServiceNodeStore reads taxonomy nodes and maintains their service links.
// AddRelatedService reports whether the link was newly created so callers
// can stamp the node only on real changes.
type ServiceNodeStore interface {
	GetByName(ctx context.Context, name string) (*models.ServiceNode, error)
	AddRelatedService(ctx context.Context, nodeID, serviceID int) (bool, error)
	Save(ctx context.Context, node *models.ServiceNode) error
	RecomputeRoots(ctx context.Context) error
}

// MunicipalityStore resolves municipality rows by Finnish name. A nil result
// with nil error means the municipality is unknown locally.
type MunicipalityStore interface {
	GetByName(ctx context.Context, name string) (*models.Municipality, error)
}

// Stores bundles every persistence surface one run needs, all bound to the
// same transaction.
type Stores struct {
	Units              UnitStore
	UnitIdentifiers    UnitIdentifierStore
	Connections        ConnectionStore
	Services           ServiceStore
	ServiceIdentifiers ServiceIdentifierStore
	ServiceNodes       ServiceNodeStore
	Municipalities     MunicipalityStore
}

// StoreFactory binds a fresh set of stores to the given queryer, typically
// the run's open transaction.
type StoreFactory func(q database.Queryer) Stores

// Syncher key extractors.
func unitKey(u *models.Unit) int                                    { return u.ID }
func serviceKey(s *models.Service) int                              { return s.ID }
func unitIdentifierKey(i *models.UnitPTVIdentifier) uuid.UUID       { return i.ID }
func serviceIdentifierKey(i *models.ServicePTVIdentifier) uuid.UUID { return i.ID }
