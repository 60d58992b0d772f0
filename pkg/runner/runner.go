// Package runner ties an import run to its side effects: lifecycle events
// and the graph projection. Both the HTTP trigger and the Kafka trigger go
// through it, so it also holds the single run slot for the process.
package runner

import (
	"context"
	"net/http"
	"sync"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/graph"
	"github.com/Ramsey-B/fern/pkg/importer"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/requestctx"
)

// ErrRunInProgress is returned when a run is requested while another is
// still executing.
var ErrRunInProgress = httperror.NewHTTPError(http.StatusConflict, "an import run is already in progress")

type Runner struct {
	importer  *importer.Importer
	emitter   *events.Emitter
	projector *graph.Projector // nil when the graph projection is disabled
	logger    ectologger.Logger

	mu      sync.Mutex
	running bool
}

func New(imp *importer.Importer, emitter *events.Emitter, projector *graph.Projector, logger ectologger.Logger) *Runner {
	return &Runner{
		importer:  imp,
		emitter:   emitter,
		projector: projector,
		logger:    logger,
	}
}

// Running reports whether a run is currently executing.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// LastRun returns the most recent completed run summary, or nil.
func (r *Runner) LastRun() *models.ImportRun {
	return r.importer.LastRun()
}

func (r *Runner) tryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	return true
}

func (r *Runner) release() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
}

// Execute runs one import synchronously and publishes its outcome.
func (r *Runner) Execute(ctx context.Context, areaCode string) (*models.ImportRun, error) {
	if !r.tryAcquire() {
		return nil, ErrRunInProgress
	}
	defer r.release()
	return r.execute(ctx, areaCode)
}

// Launch reserves the run slot and executes the import in the background.
// The slot is taken before Launch returns, so a nil error means the run has
// actually started and a later trigger will see ErrRunInProgress.
func (r *Runner) Launch(areaCode string) error {
	if !r.tryAcquire() {
		return ErrRunInProgress
	}
	// Detached from the caller's context so client disconnects do not abort
	// the run mid-transaction.
	go func() {
		defer r.release()
		if _, err := r.execute(context.Background(), areaCode); err != nil {
			r.logger.WithError(err).WithFields(map[string]any{"area_code": areaCode}).Error("Import run failed")
		}
	}()
	return nil
}

// execute assumes the run slot is held by the caller. The graph projection
// is refreshed after a successful run; projection failures are logged but do
// not fail the run, since the projection can be rebuilt at any time.
func (r *Runner) execute(ctx context.Context, areaCode string) (*models.ImportRun, error) {
	ctx = requestctx.SetAreaCode(ctx, areaCode)

	run, err := r.importer.Run(ctx, areaCode)
	if err != nil {
		if emitErr := r.emitter.EmitImportFailed(ctx, areaCode, err); emitErr != nil {
			r.logger.WithContext(ctx).WithError(emitErr).Warnf("Could not publish failure event")
		}
		return nil, err
	}

	if emitErr := r.emitter.EmitImportCompleted(ctx, run); emitErr != nil {
		r.logger.WithContext(ctx).WithError(emitErr).Warnf("Could not publish completion event")
	}

	if r.projector != nil {
		if projErr := r.projector.Project(ctx); projErr != nil {
			r.logger.WithContext(ctx).WithError(projErr).Warnf("Graph projection failed")
		}
	}
	return run, nil
}
