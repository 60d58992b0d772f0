// Package events handles event emission for import run lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Emitter publishes import lifecycle events. A nil producer makes every
// emit a no-op, which keeps the importer usable without Kafka.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitImportCompleted emits an event carrying the run summary.
func (e *Emitter) EmitImportCompleted(ctx context.Context, run *models.ImportRun) error {
	if e.producer == nil {
		return nil
	}
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitImportCompleted")
	defer span.End()

	event := &kafka.ImportEvent{
		EventType: "import.completed",
		AreaCode:  run.AreaCode,
		Run:       run,
	}

	if err := e.producer.PublishImportEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit import.completed event")
		return err
	}
	return nil
}

// EmitImportFailed emits an event describing a failed run.
func (e *Emitter) EmitImportFailed(ctx context.Context, areaCode string, runErr error) error {
	if e.producer == nil {
		return nil
	}
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitImportFailed")
	defer span.End()

	event := &kafka.ImportEvent{
		EventType: "import.failed",
		AreaCode:  areaCode,
		Error:     runErr.Error(),
	}

	if err := e.producer.PublishImportEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit import.failed event")
		return err
	}
	return nil
}
