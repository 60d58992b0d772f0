// Package repositories wires the individual repositories into the store
// bundle the importer consumes.
package repositories

import (
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/internal/repositories/municipality"
	"github.com/Ramsey-B/fern/internal/repositories/service"
	"github.com/Ramsey-B/fern/internal/repositories/serviceidentifier"
	"github.com/Ramsey-B/fern/internal/repositories/servicenode"
	"github.com/Ramsey-B/fern/internal/repositories/unit"
	"github.com/Ramsey-B/fern/internal/repositories/unitconnection"
	"github.com/Ramsey-B/fern/internal/repositories/unitidentifier"
	"github.com/Ramsey-B/fern/pkg/importer"
)

// NewStoreFactory returns a factory that binds a fresh repository set to a
// queryer, typically an import run's transaction.
func NewStoreFactory(logger ectologger.Logger) importer.StoreFactory {
	return func(q database.Queryer) importer.Stores {
		return importer.Stores{
			Units:              unit.NewRepository(q, logger),
			UnitIdentifiers:    unitidentifier.NewRepository(q, logger),
			Connections:        unitconnection.NewRepository(q, logger),
			Services:           service.NewRepository(q, logger),
			ServiceIdentifiers: serviceidentifier.NewRepository(q, logger),
			ServiceNodes:       servicenode.NewRepository(q, logger),
			Municipalities:     municipality.NewRepository(q, logger),
		}
	}
}
