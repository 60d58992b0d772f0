// Package importer reconciles the external service catalog into the local
// store. A run imports the unit feed first and the service feed second; the
// unit pass seeds the identifier rows that admit services.
package importer

import (
	"context"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/ptv"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// importLockKey is the advisory lock key taken by both import transactions.
// It serializes id allocation across processes sharing the database.
const importLockKey int64 = 0x50545631

// Importer runs catalog reconciliation against the store.
type Importer struct {
	db     database.DB
	source CatalogSource
	stores StoreFactory
	logger ectologger.Logger
	now    func() time.Time

	mu      sync.Mutex
	lastRun *models.ImportRun
}

func New(db database.DB, source CatalogSource, stores StoreFactory, logger ectologger.Logger) *Importer {
	return &Importer{
		db:     db,
		source: source,
		stores: stores,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LastRun returns the summary of the most recent completed run, or nil.
func (i *Importer) LastRun() *models.ImportRun {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastRun
}

// Run fetches both feeds and reconciles them, units first. Each feed is
// imported in its own transaction; an error rolls that transaction back and
// aborts the run. Runs within one process are serialized by the runner; the
// advisory lock serializes runs across processes.
func (i *Importer) Run(ctx context.Context, areaCode string) (*models.ImportRun, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Importer.Run")
	defer span.End()

	log := i.logger.WithContext(ctx).WithFields(map[string]any{"area_code": areaCode})
	stats := &models.ImportRun{AreaCode: areaCode, StartedAt: i.now()}

	units, err := i.source.Units(ctx, areaCode)
	if err != nil {
		log.WithError(err).Error("Failed to fetch unit feed")
		return nil, err
	}
	services, err := i.source.Services(ctx, areaCode)
	if err != nil {
		log.WithError(err).Error("Failed to fetch service feed")
		return nil, err
	}

	if err := i.importUnits(ctx, units, stats); err != nil {
		log.WithError(err).Error("Unit import failed")
		return nil, err
	}
	if err := i.importServices(ctx, services, stats); err != nil {
		log.WithError(err).Error("Service import failed")
		return nil, err
	}

	stats.Duration = i.now().Sub(stats.StartedAt)

	i.mu.Lock()
	i.lastRun = stats
	i.mu.Unlock()

	log.WithFields(map[string]any{
		"units_seen":       stats.UnitsSeen,
		"units_created":    stats.UnitsCreated,
		"units_updated":    stats.UnitsUpdated,
		"services_seen":    stats.ServicesSeen,
		"services_created": stats.ServicesCreated,
		"services_updated": stats.ServicesUpdated,
		"services_skipped": stats.ServicesSkipped,
		"duration":         stats.Duration.String(),
	}).Info("Catalog import finished")
	return stats, nil
}

func (i *Importer) importUnits(ctx context.Context, records []ptv.UnitRecord, stats *models.ImportRun) error {
	tx, err := i.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := database.AdvisoryXactLock(ctx, tx, importLockKey); err != nil {
		return err
	}

	run := newUnitImport(i.stores(tx), i.logger, i.now, stats)
	if err := run.run(ctx, records); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (i *Importer) importServices(ctx context.Context, records []ptv.ServiceRecord, stats *models.ImportRun) error {
	tx, err := i.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := database.AdvisoryXactLock(ctx, tx, importLockKey); err != nil {
		return err
	}

	stores := i.stores(tx)
	run := newServiceImport(stores, i.logger, i.now, stats)
	if err := run.run(ctx, records); err != nil {
		return err
	}

	// The taxonomy tree's root references are rebuilt once, after the whole
	// feed is in, rather than per record.
	if err := stores.ServiceNodes.RecomputeRoots(ctx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
