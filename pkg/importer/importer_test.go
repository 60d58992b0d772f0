package importer

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/ptv"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// fakeStores is an in-memory implementation of every store interface a run
// touches, shared across both passes like a real transaction would be.
type fakeStores struct {
	units       map[int]*models.Unit
	unitIDs     map[uuid.UUID]*models.UnitPTVIdentifier
	services    map[int]*models.Service
	serviceIDs  map[uuid.UUID]*models.ServicePTVIdentifier
	nodes       map[string]*models.ServiceNode
	nodeLinks   map[[2]int]bool
	connections []*models.UnitConnection
	munis       map[string]*models.Municipality

	unitSaves    int
	serviceSaves int
	nodeSaves    int
	deletes      int
	recomputes   int
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		units:      map[int]*models.Unit{},
		unitIDs:    map[uuid.UUID]*models.UnitPTVIdentifier{},
		services:   map[int]*models.Service{},
		serviceIDs: map[uuid.UUID]*models.ServicePTVIdentifier{},
		nodes:      map[string]*models.ServiceNode{},
		nodeLinks:  map[[2]int]bool{},
		munis:      map[string]*models.Municipality{},
	}
}

func (f *fakeStores) ListByDataSource(_ context.Context, dataSource string) ([]*models.Unit, error) {
	var out []*models.Unit
	for _, u := range f.units {
		if u.DataSource == dataSource {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStores) MaxID(_ context.Context) (int, error) {
	max := 0
	for id := range f.units {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (f *fakeStores) Save(_ context.Context, unit *models.Unit) error {
	f.units[unit.ID] = unit
	f.unitSaves++
	return nil
}

type fakeUnitIdentifiers struct{ f *fakeStores }

func (s fakeUnitIdentifiers) List(_ context.Context) ([]*models.UnitPTVIdentifier, error) {
	var out []*models.UnitPTVIdentifier
	for _, row := range s.f.unitIDs {
		out = append(out, row)
	}
	return out, nil
}

func (s fakeUnitIdentifiers) Save(_ context.Context, row *models.UnitPTVIdentifier) error {
	// The unit_id column carries a foreign key, checked at statement end.
	if row.UnitID != nil {
		if _, ok := s.f.units[*row.UnitID]; !ok {
			return errors.Errorf("unit_ptv_ids.unit_id references missing unit %d", *row.UnitID)
		}
	}
	s.f.unitIDs[row.ID] = row
	return nil
}

type fakeConnections struct{ f *fakeStores }

func (s fakeConnections) DeleteBySection(_ context.Context, unitID int, sectionType string) error {
	var kept []*models.UnitConnection
	for _, conn := range s.f.connections {
		if conn.UnitID == unitID && conn.SectionType == sectionType {
			continue
		}
		kept = append(kept, conn)
	}
	s.f.connections = kept
	s.f.deletes++
	return nil
}

func (s fakeConnections) Insert(_ context.Context, conn *models.UnitConnection) error {
	conn.ID = int64(len(s.f.connections) + 1)
	s.f.connections = append(s.f.connections, conn)
	return nil
}

type fakeServices struct{ f *fakeStores }

func (s fakeServices) ListImported(_ context.Context) ([]*models.Service, error) {
	var out []*models.Service
	for _, svc := range s.f.services {
		out = append(out, svc)
	}
	return out, nil
}

func (s fakeServices) MaxID(_ context.Context) (int, error) {
	max := 0
	for id := range s.f.services {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (s fakeServices) Save(_ context.Context, service *models.Service) error {
	s.f.services[service.ID] = service
	s.f.serviceSaves++
	return nil
}

type fakeServiceIdentifiers struct{ f *fakeStores }

func (s fakeServiceIdentifiers) List(_ context.Context) ([]*models.ServicePTVIdentifier, error) {
	var out []*models.ServicePTVIdentifier
	for _, row := range s.f.serviceIDs {
		out = append(out, row)
	}
	return out, nil
}

func (s fakeServiceIdentifiers) Save(_ context.Context, row *models.ServicePTVIdentifier) error {
	// The service_id column carries a foreign key, checked at statement end.
	if row.ServiceID != nil {
		if _, ok := s.f.services[*row.ServiceID]; !ok {
			return errors.Errorf("service_ptv_ids.service_id references missing service %d", *row.ServiceID)
		}
	}
	s.f.serviceIDs[row.ID] = row
	return nil
}

type fakeServiceNodes struct{ f *fakeStores }

func (s fakeServiceNodes) GetByName(_ context.Context, name string) (*models.ServiceNode, error) {
	return s.f.nodes[name], nil
}

func (s fakeServiceNodes) AddRelatedService(_ context.Context, nodeID, serviceID int) (bool, error) {
	key := [2]int{nodeID, serviceID}
	if s.f.nodeLinks[key] {
		return false, nil
	}
	s.f.nodeLinks[key] = true
	return true, nil
}

func (s fakeServiceNodes) Save(_ context.Context, node *models.ServiceNode) error {
	s.f.nodeSaves++
	return nil
}

func (s fakeServiceNodes) RecomputeRoots(_ context.Context) error {
	s.f.recomputes++
	return nil
}

type fakeMunicipalities struct{ f *fakeStores }

func (s fakeMunicipalities) GetByName(_ context.Context, name string) (*models.Municipality, error) {
	return s.f.munis[name], nil
}

func (f *fakeStores) stores() Stores {
	return Stores{
		Units:              f,
		UnitIdentifiers:    fakeUnitIdentifiers{f},
		Connections:        fakeConnections{f},
		Services:           fakeServices{f},
		ServiceIdentifiers: fakeServiceIdentifiers{f},
		ServiceNodes:       fakeServiceNodes{f},
		Municipalities:     fakeMunicipalities{f},
	}
}

// fakeSource returns canned feeds.
type fakeSource struct {
	units    []ptv.UnitRecord
	services []ptv.ServiceRecord
}

func (s *fakeSource) Units(context.Context, string) ([]ptv.UnitRecord, error) {
	return s.units, nil
}

func (s *fakeSource) Services(context.Context, string) ([]ptv.ServiceRecord, error) {
	return s.services, nil
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 0, nil }

// fakeTx satisfies database.Tx; the stores are faked separately so only the
// advisory lock exec and commit/rollback bookkeeping matter here.
type fakeTx struct {
	locks     int
	committed bool
}

func (t *fakeTx) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	if query == "SELECT pg_advisory_xact_lock($1)" {
		t.locks++
	}
	return fakeResult{}, nil
}

func (t *fakeTx) GetContext(context.Context, any, string, ...any) error    { return sql.ErrNoRows }
func (t *fakeTx) SelectContext(context.Context, any, string, ...any) error { return nil }
func (t *fakeTx) QueryRowxContext(context.Context, string, ...any) *sqlx.Row {
	return nil
}
func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { return nil }
func (t *fakeTx) IsOpen() bool                   { return !t.committed }

type fakeDB struct {
	txs []*fakeTx
}

func (d *fakeDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return fakeResult{}, nil
}
func (d *fakeDB) GetContext(context.Context, any, string, ...any) error    { return sql.ErrNoRows }
func (d *fakeDB) SelectContext(context.Context, any, string, ...any) error { return nil }
func (d *fakeDB) QueryRowxContext(context.Context, string, ...any) *sqlx.Row {
	return nil
}
func (d *fakeDB) BeginTxx(context.Context, *sql.TxOptions) (*sqlx.Tx, error) { return nil, nil }
func (d *fakeDB) PingContext(context.Context) error                          { return nil }
func (d *fakeDB) Ping() error                                                { return nil }
func (d *fakeDB) Close() error                                               { return nil }
func (d *fakeDB) Unsafe() *sqlx.DB                                           { return nil }

func (d *fakeDB) GetTx(context.Context, *sql.TxOptions) (database.Tx, error) {
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func newTestImporter(f *fakeStores, src *fakeSource) (*Importer, *fakeDB) {
	db := &fakeDB{}
	imp := New(db, src, func(database.Queryer) Stores { return f.stores() }, testLogger())
	return imp, db
}

const (
	unitUUID    = "7fadb0f4-6c9a-4d22-b8a3-ea19b100a973"
	serviceUUID = "0d312d36-8dd9-4d87-bbcb-16d8b2ab0b4c"
)

func locationRecord(id string) ptv.UnitRecord {
	return ptv.UnitRecord{
		ID:                 id,
		ServiceChannelType: ptv.ServiceChannelTypeLocation,
		ServiceChannelNames: []ptv.LocalizedText{
			{Language: "fi", Value: "Pääkirjasto"},
			{Language: "sv", Value: "Huvudbiblioteket"},
		},
		ServiceChannelDescriptions: []ptv.LocalizedText{
			{Language: "fi", Value: "Kirjasto keskustassa"},
		},
		Addresses: []ptv.Address{{
			StreetAddress: &ptv.StreetAddress{
				Latitude:     "60.4518",
				Longitude:    "22.2666",
				PostalCode:   "20100",
				StreetNumber: "2",
				Street: []ptv.LocalizedText{
					{Language: "fi", Value: "Linnankatu"},
					{Language: "sv", Value: "Slottsgatan"},
				},
				PostOffice: []ptv.LocalizedText{
					{Language: "fi", Value: "TURKU"},
					{Language: "sv", Value: "ÅBO"},
				},
				Municipality: &ptv.Municipality{Name: []ptv.LocalizedText{
					{Language: "fi", Value: "Turku"},
				}},
			},
		}},
		Emails: []ptv.Email{{Value: "kirjasto@turku.fi"}},
		PhoneNumbers: []ptv.PhoneNumber{
			{Language: "fi", PrefixNumber: "+358", Number: "21234567", AdditionalInformation: "Vaihde"},
			{Language: "sv", PrefixNumber: "+358", Number: "21234567", AdditionalInformation: "Växel"},
		},
		WebPages: []ptv.WebPage{{Language: "fi", URL: "https://turku.fi/kirjasto"}},
	}
}

func serviceRecord(id, class string) ptv.ServiceRecord {
	rec := ptv.ServiceRecord{
		ID: id,
		ServiceNames: []ptv.LocalizedText{
			{Language: "fi", Value: "Kirjastopalvelut"},
		},
	}
	if class != "" {
		rec.ServiceClasses = []ptv.ServiceClass{{Name: []ptv.LocalizedText{
			{Language: "fi", Value: class},
		}}}
	}
	return rec
}

func TestRun_FreshImport(t *testing.T) {
	f := newFakeStores()
	f.munis["Turku"] = &models.Municipality{ID: "turku", Name: "Turku"}
	f.nodes["Terveyspalvelut"] = &models.ServiceNode{ID: 100, Name: "Terveyspalvelut"}

	src := &fakeSource{
		units: []ptv.UnitRecord{
			{ID: uuid.NewString(), ServiceChannelType: "EChannel"},
			locationRecord(unitUUID),
		},
		services: []ptv.ServiceRecord{
			serviceRecord(serviceUUID, "Perusterveydenhuolto"),
			serviceRecord(unitUUID, "Perusterveydenhuolto"),
		},
	}

	imp, db := newTestImporter(f, src)
	stats, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	// Electronic channels are filtered, the location is imported.
	assert.Equal(t, 1, stats.UnitsSeen)
	assert.Equal(t, 1, stats.UnitsCreated)
	assert.Equal(t, 0, stats.UnitsUpdated)

	unit, ok := f.units[1]
	require.True(t, ok, "first unit gets id max+1")
	assert.Equal(t, "Pääkirjasto", unit.Name.Get("fi"))
	assert.Equal(t, "Huvudbiblioteket", unit.Name.Get("sv"))
	assert.Equal(t, "Kirjasto keskustassa", unit.Description.Get("fi"))
	assert.Equal(t, "Linnankatu 2", unit.StreetAddress.Get("fi"))
	assert.Equal(t, "Slottsgatan 2", unit.StreetAddress.Get("sv"))
	assert.Equal(t, "Linnankatu 2 20100 TURKU", unit.AddressPostalFull.Get("fi"))
	assert.Equal(t, "Slottsgatan 2 20100 ÅBO", unit.AddressPostalFull.Get("sv"))
	assert.Equal(t, "20100", unit.AddressZip)
	assert.Equal(t, "kirjasto@turku.fi", unit.Email)
	assert.Equal(t, "https://turku.fi/kirjasto", unit.WWW.Get("fi"))
	require.NotNil(t, unit.Location)
	assert.InDelta(t, 22.2666, unit.Location.Lon, 1e-9)
	assert.InDelta(t, 60.4518, unit.Location.Lat, 1e-9)
	require.NotNil(t, unit.MunicipalityID)
	assert.Equal(t, "turku", *unit.MunicipalityID)
	assert.Equal(t, models.DataSourcePTV, unit.DataSource)

	idRow := f.unitIDs[uuid.MustParse(unitUUID)]
	require.NotNil(t, idRow)
	require.NotNil(t, idRow.UnitID)
	assert.Equal(t, 1, *idRow.UnitID)

	// The unit's UUID was seeded into the service identifiers, so only the
	// matching service record is admitted.
	assert.Equal(t, 1, stats.ServicesSeen)
	assert.Equal(t, 1, stats.ServicesCreated)
	assert.Equal(t, 1, stats.ServicesSkipped)

	svcID := f.serviceIDs[uuid.MustParse(unitUUID)]
	require.NotNil(t, svcID)
	require.NotNil(t, svcID.ServiceID)
	svc := f.services[*svcID.ServiceID]
	require.NotNil(t, svc)
	assert.Equal(t, "Kirjastopalvelut", svc.Name.Get("fi"))
	assert.False(t, svc.ClarificationEnabled)
	assert.False(t, svc.PeriodEnabled)

	assert.True(t, f.nodeLinks[[2]int{100, svc.ID}])
	assert.Equal(t, 1, f.nodeSaves)
	assert.Equal(t, 1, f.recomputes, "roots are rebuilt once per run")

	// Each pass runs in its own committed transaction under the advisory lock.
	require.Len(t, db.txs, 2)
	for _, tx := range db.txs {
		assert.Equal(t, 1, tx.locks)
		assert.True(t, tx.committed)
	}
}

func TestRun_SecondRunWritesNothing(t *testing.T) {
	f := newFakeStores()
	f.munis["Turku"] = &models.Municipality{ID: "turku", Name: "Turku"}
	f.nodes["Terveyspalvelut"] = &models.ServiceNode{ID: 100, Name: "Terveyspalvelut"}

	src := &fakeSource{
		units:    []ptv.UnitRecord{locationRecord(unitUUID)},
		services: []ptv.ServiceRecord{serviceRecord(unitUUID, "Perusterveydenhuolto")},
	}

	imp, _ := newTestImporter(f, src)
	_, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	firstUnitTime := f.units[1].LastModifiedTime
	unitSaves, serviceSaves, nodeSaves := f.unitSaves, f.serviceSaves, f.nodeSaves

	imp.now = func() time.Time { return firstUnitTime.Add(time.Hour) }
	stats, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.UnitsSeen)
	assert.Equal(t, 0, stats.UnitsCreated)
	assert.Equal(t, 0, stats.UnitsUpdated)
	assert.Equal(t, 0, stats.ServicesUpdated)

	assert.Equal(t, unitSaves, f.unitSaves, "unchanged unit is not rewritten")
	assert.Equal(t, serviceSaves, f.serviceSaves, "unchanged service is not rewritten")
	assert.Equal(t, nodeSaves, f.nodeSaves, "existing node link is not restamped")
	assert.Equal(t, firstUnitTime, f.units[1].LastModifiedTime)
}

func TestRun_ChangedFieldUpdatesAndStamps(t *testing.T) {
	f := newFakeStores()
	src := &fakeSource{units: []ptv.UnitRecord{locationRecord(unitUUID)}}

	imp, _ := newTestImporter(f, src)
	_, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)
	firstTime := f.units[1].LastModifiedTime

	renamed := locationRecord(unitUUID)
	renamed.ServiceChannelNames[0].Value = "Uusi pääkirjasto"
	src.units = []ptv.UnitRecord{renamed}

	imp.now = func() time.Time { return firstTime.Add(time.Hour) }
	stats, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.UnitsUpdated)
	assert.Equal(t, "Uusi pääkirjasto", f.units[1].Name.Get("fi"))
	assert.Equal(t, firstTime.Add(time.Hour), f.units[1].LastModifiedTime)
}

func TestRun_IdentifierBindingIsStable(t *testing.T) {
	f := newFakeStores()
	existing := 41
	uid := uuid.MustParse(unitUUID)
	f.unitIDs[uid] = &models.UnitPTVIdentifier{ID: uid, UnitID: &existing}
	unit := models.NewUnit(existing)
	unit.SetDataSource(models.DataSourcePTV)
	unit.ClearChanged()
	f.units[existing] = unit

	src := &fakeSource{units: []ptv.UnitRecord{locationRecord(unitUUID)}}
	imp, _ := newTestImporter(f, src)
	_, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, existing, *f.unitIDs[uid].UnitID)
	assert.Contains(t, f.units, existing)
	assert.NotContains(t, f.units, existing+1, "bound unit keeps its id")
}

func TestRun_ServiceCounterAdvancesPastSkippedRecords(t *testing.T) {
	f := newFakeStores()
	src := &fakeSource{
		units: []ptv.UnitRecord{locationRecord(unitUUID)},
		services: []ptv.ServiceRecord{
			serviceRecord(serviceUUID, ""),
			serviceRecord(unitUUID, ""),
		},
	}

	imp, _ := newTestImporter(f, src)
	stats, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ServicesSkipped)
	require.NotNil(t, f.serviceIDs[uuid.MustParse(unitUUID)].ServiceID)
	assert.Equal(t, 2, *f.serviceIDs[uuid.MustParse(unitUUID)].ServiceID,
		"skipped records still consume an id slot")
}

func TestRun_ConnectionsAreRewritten(t *testing.T) {
	f := newFakeStores()
	src := &fakeSource{units: []ptv.UnitRecord{locationRecord(unitUUID)}}

	imp, _ := newTestImporter(f, src)
	_, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	require.Len(t, f.connections, 2)
	email := f.connections[0]
	assert.Equal(t, models.SectionTypePhoneOrEmail, email.SectionType)
	assert.Equal(t, "Sähköposti", email.Name.Get("fi"))
	assert.Equal(t, "E-post", email.Name.Get("sv"))
	assert.Equal(t, "Email", email.Name.Get("en"))
	require.NotNil(t, email.Email)
	assert.Equal(t, "kirjasto@turku.fi", *email.Email)
	assert.Equal(t, 0, email.Order)

	phone := f.connections[1]
	require.NotNil(t, phone.Phone)
	assert.Equal(t, "+35821234567", *phone.Phone)
	assert.Equal(t, "Vaihde", phone.Name.Get("fi"))
	assert.Equal(t, "Växel", phone.Name.Get("sv"))
	assert.Equal(t, 1, phone.Order)

	// A later feed without an email drops the email connection and moves the
	// phone to order 0.
	noEmail := locationRecord(unitUUID)
	noEmail.Emails = nil
	src.units = []ptv.UnitRecord{noEmail}

	_, err = imp.Run(context.Background(), "853")
	require.NoError(t, err)

	require.Len(t, f.connections, 1)
	assert.Nil(t, f.connections[0].Email)
	assert.Equal(t, 0, f.connections[0].Order)
}

func TestRun_UnknownNodeIsSkipped(t *testing.T) {
	f := newFakeStores()
	src := &fakeSource{
		units:    []ptv.UnitRecord{locationRecord(unitUUID)},
		services: []ptv.ServiceRecord{serviceRecord(unitUUID, "Tuntematon luokka")},
	}

	imp, _ := newTestImporter(f, src)
	stats, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ServicesCreated, "service is created even when its node is missing")
	assert.Empty(t, f.nodeLinks)
	assert.Equal(t, 0, f.nodeSaves)
}

func TestRun_UnknownMunicipalityIsNonFatal(t *testing.T) {
	f := newFakeStores()
	src := &fakeSource{units: []ptv.UnitRecord{locationRecord(unitUUID)}}

	imp, _ := newTestImporter(f, src)
	stats, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, 1, stats.UnitsCreated)
	assert.Nil(t, f.units[1].MunicipalityID)
}

func TestRun_DuplicateUnitUUIDFails(t *testing.T) {
	f := newFakeStores()
	src := &fakeSource{units: []ptv.UnitRecord{
		locationRecord(unitUUID),
		locationRecord(unitUUID),
	}}

	imp, db := newTestImporter(f, src)
	_, err := imp.Run(context.Background(), "853")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appears twice")
	require.Len(t, db.txs, 1)
	assert.False(t, db.txs[0].committed)
}

func TestRun_InvalidCoordinatesFail(t *testing.T) {
	f := newFakeStores()
	bad := locationRecord(unitUUID)
	bad.Addresses[0].StreetAddress.Latitude = "not-a-number"

	imp, _ := newTestImporter(f, &fakeSource{units: []ptv.UnitRecord{bad}})
	_, err := imp.Run(context.Background(), "853")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid latitude")
}

func TestRun_RowsAreSavedBeforeIdentifierBindings(t *testing.T) {
	// The fake identifier stores reject bindings to absent rows the same way
	// the foreign keys do, so a fresh import only succeeds when each unit and
	// service row is written before the identifier that points at it.
	f := newFakeStores()
	src := &fakeSource{
		units:    []ptv.UnitRecord{locationRecord(unitUUID)},
		services: []ptv.ServiceRecord{serviceRecord(unitUUID, "")},
	}

	imp, _ := newTestImporter(f, src)
	_, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	require.NotNil(t, f.unitIDs[uuid.MustParse(unitUUID)].UnitID)
	require.NotNil(t, f.serviceIDs[uuid.MustParse(unitUUID)].ServiceID)
}

func TestRun_EmptyFeedsLeaveStoreIntact(t *testing.T) {
	f := newFakeStores()
	f.munis["Turku"] = &models.Municipality{ID: "turku", Name: "Turku"}
	f.nodes["Terveyspalvelut"] = &models.ServiceNode{ID: 100, Name: "Terveyspalvelut"}

	src := &fakeSource{
		units:    []ptv.UnitRecord{locationRecord(unitUUID)},
		services: []ptv.ServiceRecord{serviceRecord(unitUUID, "Perusterveydenhuolto")},
	}

	imp, _ := newTestImporter(f, src)
	_, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	unitTime := f.units[1].LastModifiedTime
	unitSaves, serviceSaves := f.unitSaves, f.serviceSaves
	connections := len(f.connections)

	// Rows absent from a later feed are kept; the feeds are additive.
	src.units = nil
	src.services = nil
	imp.now = func() time.Time { return unitTime.Add(time.Hour) }
	stats, err := imp.Run(context.Background(), "853")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.UnitsSeen)
	assert.Equal(t, 0, stats.ServicesSeen)

	require.Contains(t, f.units, 1)
	assert.Equal(t, unitTime, f.units[1].LastModifiedTime)
	assert.Contains(t, f.unitIDs, uuid.MustParse(unitUUID))
	assert.Contains(t, f.serviceIDs, uuid.MustParse(unitUUID))
	require.NotNil(t, f.serviceIDs[uuid.MustParse(unitUUID)].ServiceID)
	assert.Contains(t, f.services, *f.serviceIDs[uuid.MustParse(unitUUID)].ServiceID)
	assert.Len(t, f.connections, connections)
	assert.True(t, f.nodeLinks[[2]int{100, 1}])

	assert.Equal(t, unitSaves, f.unitSaves)
	assert.Equal(t, serviceSaves, f.serviceSaves)
}

func TestMapNodeName(t *testing.T) {
	assert.Equal(t, "Terveyspalvelut", mapNodeName("Perusterveydenhuolto"))
	assert.Equal(t, "Päivähoito ja koulutus", mapNodeName("Koulutus"))
	assert.Equal(t, "Oma luokka", mapNodeName("Oma luokka"))
}
