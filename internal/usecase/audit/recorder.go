// Package audit turns partial failures into persisted inconsistency events.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	publisher "github.com/brtprivate/blockchain-bull-server/internal/infrastructure/kafka"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recordTimeout = 5 * time.Second

// Alerter pushes a recorded event to operators.
type Alerter interface {
	Alert(ctx context.Context, event *domain.InconsistencyEvent) error
}

type Recorder struct {
	repo      domain.InconsistencyRepository
	publisher domain.EventPublisher
	alerter   Alerter
	logger    *zap.Logger
	now       func() time.Time
}

func NewRecorder(repo domain.InconsistencyRepository, eventPublisher domain.EventPublisher, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:      repo,
		publisher: eventPublisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithAlerter sends every recorded event to a as well.
func (r *Recorder) WithAlerter(a Alerter) *Recorder {
	r.alerter = a
	return r
}

// Record persists err as an inconsistency event when it is a partial failure
// and returns the stored event. Other errors are ignored and nil is returned.
// The write outlives ctx so a cancelled request still leaves its trace.
func (r *Recorder) Record(ctx context.Context, operation string, err error) *domain.InconsistencyEvent {
	event := &domain.InconsistencyEvent{
		ID:        uuid.New().String(),
		Operation: operation,
		Error:     err.Error(),
		CreatedAt: r.now().UTC(),
	}

	var propErr *domain.PropagationError
	var writeErr *domain.PartialWriteError
	switch {
	case errors.As(err, &propErr):
		event.Kind = domain.KindPartialPropagation
		event.SubjectAddress = propErr.Address
		event.LastCompletedLevel = propErr.LastCompletedLevel
	case errors.As(err, &writeErr):
		event.Kind = domain.KindPartialWrite
		event.SubjectAddress = writeErr.Address
		event.RecordID = writeErr.RecordID
		event.Step = writeErr.Step
	default:
		return nil
	}

	r.logger.Error("inconsistency detected",
		zap.String("event_id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.String("operation", operation),
		zap.String("subject_address", event.SubjectAddress),
		zap.String("record_id", event.RecordID),
		zap.Int("last_completed_level", event.LastCompletedLevel),
		zap.String("step", event.Step),
		zap.Error(err),
	)

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if recErr := r.repo.RecordInconsistency(writeCtx, event); recErr != nil {
		r.logger.Error("failed to persist inconsistency event",
			zap.String("event_id", event.ID),
			zap.Error(recErr),
		)
	}

	if pubErr := r.publisher.PublishEvent(writeCtx, domain.EventInconsistencyDetected, event.SubjectAddress, publisher.InconsistencyDetectedEvent{
		EventID:            event.ID,
		Kind:               string(event.Kind),
		Operation:          event.Operation,
		SubjectAddress:     event.SubjectAddress,
		RecordID:           event.RecordID,
		LastCompletedLevel: event.LastCompletedLevel,
		Step:               event.Step,
		Error:              event.Error,
	}); pubErr != nil {
		r.logger.Warn("failed to publish inconsistency event", zap.String("event_id", event.ID), zap.Error(pubErr))
	}

	if r.alerter != nil {
		if alertErr := r.alerter.Alert(writeCtx, event); alertErr != nil {
			r.logger.Warn("failed to send inconsistency alert", zap.String("event_id", event.ID), zap.Error(alertErr))
		}
	}

	return event
}
