package importer

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/ptv"
	"github.com/Ramsey-B/fern/pkg/syncher"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// serviceImport holds the per-run state of one service feed pass.
type serviceImport struct {
	stores Stores
	logger ectologger.Logger
	now    func() time.Time
	stats  *models.ImportRun

	services    *syncher.Syncher[int, *models.Service]
	identifiers *syncher.Syncher[uuid.UUID, *models.ServicePTVIdentifier]

	maxID int
	seen  map[uuid.UUID]struct{}
}

func newServiceImport(stores Stores, logger ectologger.Logger, now func() time.Time, stats *models.ImportRun) *serviceImport {
	return &serviceImport{
		stores: stores,
		logger: logger,
		now:    now,
		stats:  stats,
		seen:   map[uuid.UUID]struct{}{},
	}
}

// run reconciles the service feed. Records whose UUID has no identifier row
// belong to units outside this import and are skipped. The id allocation
// counter advances once per record, skipped ones included.
func (s *serviceImport) run(ctx context.Context, records []ptv.ServiceRecord) error {
	ctx, span := tracing.StartSpan(ctx, "importer.serviceImport.run")
	defer span.End()

	existing, err := s.stores.Services.ListImported(ctx)
	if err != nil {
		return err
	}
	s.services = syncher.New(existing, serviceKey)

	identifiers, err := s.stores.ServiceIdentifiers.List(ctx)
	if err != nil {
		return err
	}
	s.identifiers = syncher.New(identifiers, serviceIdentifierKey)

	s.maxID, err = s.stores.Services.MaxID(ctx)
	if err != nil {
		return err
	}

	counter := 1
	for i, rec := range records {
		if err := s.handleService(ctx, rec, counter); err != nil {
			return errors.Wrapf(err, "service record %d", i)
		}
		counter++
	}
	return nil
}

func (s *serviceImport) handleService(ctx context.Context, rec ptv.ServiceRecord, counter int) error {
	uid, err := uuid.Parse(rec.ID)
	if err != nil {
		return errors.Wrapf(err, "invalid service id %q", rec.ID)
	}
	if _, dup := s.seen[uid]; dup {
		return errors.Errorf("service id %s appears twice in the feed", uid)
	}
	s.seen[uid] = struct{}{}

	// Only services attached to imported units are admitted; their
	// identifier rows were seeded by the unit import.
	idRow, ok := s.identifiers.Get(uid)
	if !ok {
		s.stats.ServicesSkipped++
		return nil
	}

	var serviceID int
	if idRow.ServiceID != nil {
		serviceID = *idRow.ServiceID
	} else {
		serviceID = s.maxID + counter
	}

	service, ok := s.services.Get(serviceID)
	isNew := !ok
	if isNew {
		service = models.NewService(serviceID)
		service.Touch()
		s.services.Put(service)
	}

	for _, name := range rec.ServiceNames {
		setTranslation(service.SetName, name, "")
	}

	changed := service.Changed()
	if changed {
		service.LastModifiedTime = s.now()
		if err := s.stores.Services.Save(ctx, service); err != nil {
			return err
		}
		service.ClearChanged()
	}
	s.services.Mark(serviceID)

	// The identifier references the service row, so the service must be
	// saved first.
	if idRow.ServiceID == nil {
		idRow.SetService(serviceID)
	}
	if idRow.Changed() {
		if err := s.stores.ServiceIdentifiers.Save(ctx, idRow); err != nil {
			return err
		}
		idRow.ClearChanged()
	}

	for _, class := range rec.ServiceClasses {
		if err := s.linkNode(ctx, class, service); err != nil {
			return err
		}
	}

	s.stats.ServicesSeen++
	if isNew {
		s.stats.ServicesCreated++
	} else if changed {
		s.stats.ServicesUpdated++
	}
	return nil
}

// linkNode resolves a service class to a taxonomy node by its Finnish name
// and links the service to it. Unresolvable names are logged and skipped.
func (s *serviceImport) linkNode(ctx context.Context, class ptv.ServiceClass, service *models.Service) error {
	for _, name := range class.Name {
		if name.Language != "fi" {
			continue
		}

		nodeName := mapNodeName(name.Value)
		node, err := s.stores.ServiceNodes.GetByName(ctx, nodeName)
		if err != nil {
			return err
		}
		if node == nil {
			s.logger.WithContext(ctx).Warnf("ServiceNode %q does not exist", nodeName)
			break
		}

		added, err := s.stores.ServiceNodes.AddRelatedService(ctx, node.ID, service.ID)
		if err != nil {
			return err
		}
		if added {
			node.LastModifiedTime = s.now()
			if err := s.stores.ServiceNodes.Save(ctx, node); err != nil {
				return err
			}
		}
	}
	return nil
}
