package background

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/participant"
	"go.uber.org/zap"
)

type ReconcileResult struct {
	Scanned  int
	Resolved int
	Failed   int
}

// Reconciler resumes registrations whose upline walk stopped partway. Partial
// write events are left for operators.
type Reconciler struct {
	participants    participant.ParticipantUsecase
	inconsistencies domain.InconsistencyRepository
	pool            pond.Pool
	batchSize       int
	logger          *zap.Logger
}

func NewReconciler(
	participants participant.ParticipantUsecase,
	inconsistencies domain.InconsistencyRepository,
	pool pond.Pool,
	batchSize int,
	logger *zap.Logger,
) *Reconciler {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Reconciler{
		participants:    participants,
		inconsistencies: inconsistencies,
		pool:            pool,
		batchSize:       batchSize,
		logger:          logger.Named("reconciler"),
	}
}

// RunOnce processes one batch of open propagation events. Events of the same
// participant are resumed by a single walk; different participants run in
// parallel on the pool.
func (r *Reconciler) RunOnce(ctx context.Context) (ReconcileResult, error) {
	events, err := r.inconsistencies.ListOpenInconsistencies(ctx, domain.KindPartialPropagation, r.batchSize)
	if err != nil {
		return ReconcileResult{}, err
	}
	result := ReconcileResult{Scanned: len(events)}
	if len(events) == 0 {
		return result, nil
	}

	byAddress := make(map[string][]*domain.InconsistencyEvent)
	var order []string
	for _, e := range events {
		if _, ok := byAddress[e.SubjectAddress]; !ok {
			order = append(order, e.SubjectAddress)
		}
		byAddress[e.SubjectAddress] = append(byAddress[e.SubjectAddress], e)
	}

	var resolved, failed atomic.Int32
	group := r.pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for _, address := range order {
		batch := byAddress[address]
		group.Submit(func() {
			if groupCtx.Err() != nil {
				return
			}
			if r.resume(groupCtx, address, batch) {
				resolved.Add(int32(len(batch)))
			} else {
				failed.Add(int32(len(batch)))
			}
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		r.logger.Warn("reconcile group encountered error", zap.Error(err))
	}

	result.Resolved = int(resolved.Load())
	result.Failed = int(failed.Load())
	return result, ctx.Err()
}

func (r *Reconciler) resume(ctx context.Context, address string, events []*domain.InconsistencyEvent) bool {
	out, err := r.participants.ResumePropagation(ctx, address)
	if err != nil {
		r.logger.Warn("resume failed",
			zap.String("address", address),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
		for _, e := range events {
			if incErr := r.inconsistencies.IncrementInconsistencyAttempts(ctx, e.ID, err.Error()); incErr != nil {
				r.logger.Error("failed to bump attempts", zap.String("event_id", e.ID), zap.Error(incErr))
			}
		}
		return false
	}

	now := timeNow().UTC()
	for _, e := range events {
		if markErr := r.inconsistencies.MarkInconsistencyResolved(ctx, e.ID, now); markErr != nil {
			r.logger.Error("failed to mark event resolved", zap.String("event_id", e.ID), zap.Error(markErr))
		}
	}
	r.logger.Info("propagation reconciled",
		zap.String("address", address),
		zap.Int("last_completed_level", out.LastCompletedLevel),
		zap.Int("edges_created", out.EdgesCreated),
	)
	return true
}
