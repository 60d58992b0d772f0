package importer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/ptv"
	"github.com/Ramsey-B/fern/pkg/syncher"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// unitImport holds the per-run state of one unit feed pass.
type unitImport struct {
	stores Stores
	logger ectologger.Logger
	now    func() time.Time
	stats  *models.ImportRun

	units       *syncher.Syncher[int, *models.Unit]
	identifiers *syncher.Syncher[uuid.UUID, *models.UnitPTVIdentifier]
	serviceIDs  *syncher.Syncher[uuid.UUID, *models.ServicePTVIdentifier]

	maxID int
	seen  map[uuid.UUID]struct{}
}

func newUnitImport(stores Stores, logger ectologger.Logger, now func() time.Time, stats *models.ImportRun) *unitImport {
	return &unitImport{
		stores: stores,
		logger: logger,
		now:    now,
		stats:  stats,
		seen:   map[uuid.UUID]struct{}{},
	}
}

// run reconciles the unit feed into the store. Only ServiceLocation channels
// are processed; the id allocation counter advances once per processed record.
func (u *unitImport) run(ctx context.Context, records []ptv.UnitRecord) error {
	ctx, span := tracing.StartSpan(ctx, "importer.unitImport.run")
	defer span.End()

	existing, err := u.stores.Units.ListByDataSource(ctx, models.DataSourcePTV)
	if err != nil {
		return err
	}
	u.units = syncher.New(existing, unitKey)

	identifiers, err := u.stores.UnitIdentifiers.List(ctx)
	if err != nil {
		return err
	}
	u.identifiers = syncher.New(identifiers, unitIdentifierKey)

	serviceIDs, err := u.stores.ServiceIdentifiers.List(ctx)
	if err != nil {
		return err
	}
	u.serviceIDs = syncher.New(serviceIDs, serviceIdentifierKey)

	u.maxID, err = u.stores.Units.MaxID(ctx)
	if err != nil {
		return err
	}

	counter := 1
	for i, rec := range records {
		if rec.ServiceChannelType != ptv.ServiceChannelTypeLocation {
			continue
		}
		if err := u.handleUnit(ctx, rec, counter); err != nil {
			return errors.Wrapf(err, "unit record %d", i)
		}
		counter++
	}
	return nil
}

func (u *unitImport) handleUnit(ctx context.Context, rec ptv.UnitRecord, counter int) error {
	uid, err := uuid.Parse(rec.ID)
	if err != nil {
		return errors.Wrapf(err, "invalid unit id %q", rec.ID)
	}
	if _, dup := u.seen[uid]; dup {
		return errors.Errorf("unit id %s appears twice in the feed", uid)
	}
	u.seen[uid] = struct{}{}

	idRow, ok := u.identifiers.Get(uid)
	if !ok {
		idRow = &models.UnitPTVIdentifier{ID: uid}
		idRow.Touch()
		u.identifiers.Put(idRow)
	}

	var unitID int
	if idRow.UnitID != nil {
		unitID = *idRow.UnitID
	} else {
		// No auto-increment on the unit table; synthesize the next free id.
		unitID = u.maxID + counter
	}

	unit, ok := u.units.Get(unitID)
	isNew := !ok
	if isNew {
		unit = models.NewUnit(unitID)
		unit.Touch()
		u.units.Put(unit)
	}

	if err := u.populate(ctx, unit, rec); err != nil {
		return err
	}
	unit.SetDataSource(models.DataSourcePTV)

	// The unit's UUID doubles as the service feed's identifier; seeding the
	// service identifier table here is what admits the unit's services later.
	if err := u.ensureServiceIdentifier(ctx, uid); err != nil {
		return err
	}

	changed := unit.Changed()
	if changed {
		unit.LastModifiedTime = u.now()
		if err := u.stores.Units.Save(ctx, unit); err != nil {
			return err
		}
		unit.ClearChanged()
	}
	u.units.Mark(unitID)

	// The identifier references the unit row, so the unit must be saved first.
	if idRow.UnitID == nil {
		idRow.SetUnit(unitID)
	}
	if idRow.Changed() {
		if err := u.stores.UnitIdentifiers.Save(ctx, idRow); err != nil {
			return err
		}
		idRow.ClearChanged()
	}

	if err := u.rewriteConnections(ctx, unit, rec); err != nil {
		return err
	}

	u.stats.UnitsSeen++
	if isNew {
		u.stats.UnitsCreated++
	} else if changed {
		u.stats.UnitsUpdated++
	}
	return nil
}

func (u *unitImport) populate(ctx context.Context, unit *models.Unit, rec ptv.UnitRecord) error {
	for _, name := range rec.ServiceChannelNames {
		setTranslation(unit.SetName, name, "")
	}
	for _, desc := range rec.ServiceChannelDescriptions {
		setTranslation(unit.SetDescription, desc, "")
	}

	if err := u.populateAddress(ctx, unit, rec); err != nil {
		return err
	}

	if len(rec.Emails) > 0 {
		unit.SetEmail(rec.Emails[0].Value)
	}
	for _, page := range rec.WebPages {
		setTranslation(unit.SetWWW, ptv.LocalizedText{Language: page.Language}, page.URL)
	}
	return nil
}

func (u *unitImport) populateAddress(ctx context.Context, unit *models.Unit, rec ptv.UnitRecord) error {
	if len(rec.Addresses) == 0 {
		return nil
	}
	addr := rec.Addresses[0].StreetAddress
	if addr == nil {
		return nil
	}

	if addr.Latitude != "" && addr.Longitude != "" {
		lat, err := strconv.ParseFloat(addr.Latitude, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid latitude %q", addr.Latitude)
		}
		lon, err := strconv.ParseFloat(addr.Longitude, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid longitude %q", addr.Longitude)
		}
		unit.SetLocation(lon, lat)
	}

	unit.SetAddressZip(addr.PostalCode)

	for _, street := range addr.Street {
		streetAddress := fmt.Sprintf("%s %s", street.Value, addr.StreetNumber)
		setTranslation(unit.SetStreetAddress, street, streetAddress)

		// Post office text follows the street's language when available.
		postOffice := ""
		if len(addr.PostOffice) > 0 {
			postOffice = addr.PostOffice[0].Value
		}
		for _, po := range addr.PostOffice {
			if po.Language == street.Language {
				postOffice = po.Value
			}
		}
		full := fmt.Sprintf("%s %s %s", streetAddress, addr.PostalCode, postOffice)
		setTranslation(unit.SetAddressPostalFull, street, full)
	}

	if addr.Municipality != nil {
		for _, name := range addr.Municipality.Name {
			if name.Language != "fi" {
				continue
			}
			muni, err := u.stores.Municipalities.GetByName(ctx, name.Value)
			if err != nil {
				return err
			}
			if muni == nil {
				u.logger.WithContext(ctx).Warnf("Municipality %q does not exist", name.Value)
			} else {
				unit.SetMunicipality(&muni.ID)
			}
			break
		}
	}
	return nil
}

func (u *unitImport) ensureServiceIdentifier(ctx context.Context, uid uuid.UUID) error {
	if _, ok := u.serviceIDs.Get(uid); ok {
		return nil
	}
	row := &models.ServicePTVIdentifier{ID: uid}
	row.Touch()
	if err := u.stores.ServiceIdentifiers.Save(ctx, row); err != nil {
		return err
	}
	row.ClearChanged()
	u.serviceIDs.Put(row)
	return nil
}

// rewriteConnections replaces the unit's phone/email connections with exactly
// what the current feed record carries.
func (u *unitImport) rewriteConnections(ctx context.Context, unit *models.Unit, rec ptv.UnitRecord) error {
	if err := u.stores.Connections.DeleteBySection(ctx, unit.ID, models.SectionTypePhoneOrEmail); err != nil {
		return err
	}

	order := 0
	if len(rec.Emails) > 0 && rec.Emails[0].Value != "" {
		email := rec.Emails[0].Value
		conn := &models.UnitConnection{
			UnitID:      unit.ID,
			SectionType: models.SectionTypePhoneOrEmail,
			Name:        models.LocalizedString{"fi": "Sähköposti", "sv": "E-post", "en": "Email"},
			Email:       &email,
			Order:       order,
		}
		if err := u.stores.Connections.Insert(ctx, conn); err != nil {
			return err
		}
		order++
	}

	if len(rec.PhoneNumbers) > 0 {
		phone := rec.PhoneNumbers[0].PrefixNumber + rec.PhoneNumbers[0].Number
		names := models.LocalizedString{}
		for _, number := range rec.PhoneNumbers {
			if number.Language != "" {
				names.Set(number.Language, number.AdditionalInformation)
			}
		}
		conn := &models.UnitConnection{
			UnitID:      unit.ID,
			SectionType: models.SectionTypePhoneOrEmail,
			Name:        names,
			Phone:       &phone,
			Order:       order,
		}
		if err := u.stores.Connections.Insert(ctx, conn); err != nil {
			return err
		}
	}
	return nil
}
