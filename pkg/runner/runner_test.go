package runner

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/importer"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/ptv"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// blockingSource parks the run inside the unit fetch until proceed is
// closed, keeping the run slot observably held.
type blockingSource struct {
	started chan struct{}
	proceed chan struct{}
}

func (s *blockingSource) Units(context.Context, string) ([]ptv.UnitRecord, error) {
	s.started <- struct{}{}
	<-s.proceed
	return nil, nil
}

func (s *blockingSource) Services(context.Context, string) ([]ptv.ServiceRecord, error) {
	return nil, nil
}

type stubUnits struct{}

func (stubUnits) ListByDataSource(context.Context, string) ([]*models.Unit, error) { return nil, nil }
func (stubUnits) MaxID(context.Context) (int, error)                               { return 0, nil }
func (stubUnits) Save(context.Context, *models.Unit) error                         { return nil }

type stubUnitIdentifiers struct{}

func (stubUnitIdentifiers) List(context.Context) ([]*models.UnitPTVIdentifier, error) {
	return nil, nil
}
func (stubUnitIdentifiers) Save(context.Context, *models.UnitPTVIdentifier) error { return nil }

type stubServices struct{}

func (stubServices) ListImported(context.Context) ([]*models.Service, error) { return nil, nil }
func (stubServices) MaxID(context.Context) (int, error)                      { return 0, nil }
func (stubServices) Save(context.Context, *models.Service) error             { return nil }

type stubServiceIdentifiers struct{}

func (stubServiceIdentifiers) List(context.Context) ([]*models.ServicePTVIdentifier, error) {
	return nil, nil
}
func (stubServiceIdentifiers) Save(context.Context, *models.ServicePTVIdentifier) error { return nil }

type stubNodes struct{}

func (stubNodes) GetByName(context.Context, string) (*models.ServiceNode, error) { return nil, nil }
func (stubNodes) AddRelatedService(context.Context, int, int) (bool, error)      { return false, nil }
func (stubNodes) Save(context.Context, *models.ServiceNode) error                { return nil }
func (stubNodes) RecomputeRoots(context.Context) error                           { return nil }

func stubStores(database.Queryer) importer.Stores {
	return importer.Stores{
		Units:              stubUnits{},
		UnitIdentifiers:    stubUnitIdentifiers{},
		Services:           stubServices{},
		ServiceIdentifiers: stubServiceIdentifiers{},
		ServiceNodes:       stubNodes{},
	}
}

type stubResult struct{}

func (stubResult) LastInsertId() (int64, error) { return 0, nil }
func (stubResult) RowsAffected() (int64, error) { return 0, nil }

type stubTx struct{ committed bool }

func (t *stubTx) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return stubResult{}, nil
}
func (t *stubTx) GetContext(context.Context, any, string, ...any) error    { return sql.ErrNoRows }
func (t *stubTx) SelectContext(context.Context, any, string, ...any) error { return nil }
func (t *stubTx) QueryRowxContext(context.Context, string, ...any) *sqlx.Row {
	return nil
}
func (t *stubTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *stubTx) Rollback(context.Context) error { return nil }
func (t *stubTx) IsOpen() bool                   { return !t.committed }

type stubDB struct{}

func (stubDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return stubResult{}, nil
}
func (stubDB) GetContext(context.Context, any, string, ...any) error    { return sql.ErrNoRows }
func (stubDB) SelectContext(context.Context, any, string, ...any) error { return nil }
func (stubDB) QueryRowxContext(context.Context, string, ...any) *sqlx.Row {
	return nil
}
func (stubDB) BeginTxx(context.Context, *sql.TxOptions) (*sqlx.Tx, error) { return nil, nil }
func (stubDB) PingContext(context.Context) error                          { return nil }
func (stubDB) Ping() error                                                { return nil }
func (stubDB) Close() error                                               { return nil }
func (stubDB) Unsafe() *sqlx.DB                                           { return nil }
func (stubDB) GetTx(context.Context, *sql.TxOptions) (database.Tx, error) {
	return &stubTx{}, nil
}

func newTestRunner(src *blockingSource) *Runner {
	imp := importer.New(stubDB{}, src, stubStores, testLogger())
	return New(imp, events.NewEmitter(nil, testLogger()), nil, testLogger())
}

func TestLaunch_HoldsRunSlotBeforeReturning(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}, 2), proceed: make(chan struct{})}
	r := newTestRunner(src)

	require.NoError(t, r.Launch("853"))

	// The slot is taken synchronously, so a second trigger is rejected even
	// before the background run reaches the feed fetch.
	assert.Equal(t, ErrRunInProgress, r.Launch("853"))
	_, err := r.Execute(context.Background(), "853")
	assert.Equal(t, ErrRunInProgress, err)

	<-src.started
	assert.True(t, r.Running())

	close(src.proceed)
	require.Eventually(t, func() bool { return !r.Running() }, time.Second, 5*time.Millisecond)
	require.NotNil(t, r.LastRun())
}

func TestLaunch_SlotIsReleasedAfterCompletion(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}, 2), proceed: make(chan struct{})}
	close(src.proceed)
	r := newTestRunner(src)

	require.NoError(t, r.Launch("853"))
	require.Eventually(t, func() bool { return !r.Running() }, time.Second, 5*time.Millisecond)

	run, err := r.Execute(context.Background(), "853")
	require.NoError(t, err)
	assert.Equal(t, "853", run.AreaCode)
}
