package background

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	publisher "github.com/brtprivate/blockchain-bull-server/internal/infrastructure/kafka"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/memory"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/metrics"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/audit"
	participantdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/participant"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/participant"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const rootAddress = "0x00000000000000000000000000000000000000ee"

func addr(i int) string {
	return fmt.Sprintf("0x%040d", i)
}

// flakyReferrals fails every level-3 credit while broken is set.
type flakyReferrals struct {
	domain.ReferralRepository
	broken atomic.Bool
}

func (f *flakyReferrals) CreditAncestor(ctx context.Context, edge *domain.ReferralEdge) (bool, error) {
	if f.broken.Load() && edge.Level == 3 {
		return false, errors.New("connection refused")
	}
	return f.ReferralRepository.CreditAncestor(ctx, edge)
}

type fixture struct {
	store      *memory.Store
	referrals  *flakyReferrals
	uc         *participant.DefaultParticipantUsecase
	reconciler *Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	referrals := &flakyReferrals{ReferralRepository: store}
	logger := zap.NewNop()

	uc, err := participant.NewDefaultParticipantUsecase(store, referrals,
		audit.NewRecorder(store, publisher.NopPublisher{}, logger), publisher.NopPublisher{},
		metrics.NewReferralMetrics(prometheus.NewRegistry()), logger)
	require.NoError(t, err)
	_, err = uc.SeedRoot(context.Background(), rootAddress)
	require.NoError(t, err)

	pool := pond.NewPool(2)
	t.Cleanup(pool.StopAndWait)

	return &fixture{
		store:      store,
		referrals:  referrals,
		uc:         uc,
		reconciler: NewReconciler(uc, store, pool, 10, logger),
	}
}

// partialRegistration builds root <- a <- b and registers c and d under b
// while level-3 credits fail, leaving two open events.
func (f *fixture) partialRegistration(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.RegisterParticipant(ctx, &participantdto.RegisterInput{Address: addr(1), SponsorAddress: rootAddress})
	require.NoError(t, err)
	_, err = f.uc.RegisterParticipant(ctx, &participantdto.RegisterInput{Address: addr(2), SponsorAddress: addr(1)})
	require.NoError(t, err)

	f.referrals.broken.Store(true)
	for _, address := range []string{addr(3), addr(4)} {
		_, err = f.uc.RegisterParticipant(ctx, &participantdto.RegisterInput{Address: address, SponsorAddress: addr(2)})
		require.Equal(t, domain.KindPartialPropagation, domain.KindOf(err))
	}
}

func TestReconcilerResolvesPartialPropagation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.partialRegistration(t)
	f.referrals.broken.Store(false)

	result, err := f.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileResult{Scanned: 2, Resolved: 2}, result)

	root, err := f.store.GetParticipant(ctx, rootAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(2), root.LevelCount(3))

	open, err := f.store.ListOpenInconsistencies(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, open)

	t.Run("nothing left to do", func(t *testing.T) {
		result, err := f.reconciler.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, ReconcileResult{}, result)
	})
}

func TestReconcilerCountsFailedAttempts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.partialRegistration(t)

	result, err := f.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileResult{Scanned: 2, Failed: 2}, result)

	open, err := f.store.ListOpenInconsistencies(ctx, domain.KindPartialPropagation, 0)
	require.NoError(t, err)
	require.Len(t, open, 2)
	for _, e := range open {
		assert.Equal(t, 1, e.Attempts)
		assert.Contains(t, e.Error, "connection refused")
	}
}

func TestReconcilerGroupsEventsBySubject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.store.RecordInconsistency(ctx, &domain.InconsistencyEvent{
			ID:             fmt.Sprintf("evt-%d", i),
			Kind:           domain.KindPartialPropagation,
			SubjectAddress: rootAddress,
			CreatedAt:      time.Now(),
		}))
	}

	result, err := f.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Resolved)
}

func TestReconcilerSkipsPartialWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.RecordInconsistency(ctx, &domain.InconsistencyEvent{
		ID:             "write-1",
		Kind:           domain.KindPartialWrite,
		SubjectAddress: rootAddress,
	}))

	result, err := f.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Scanned)

	open, err := f.store.ListOpenInconsistencies(ctx, domain.KindPartialWrite, 0)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestBackgroundTasksRejectsBadSpec(t *testing.T) {
	f := newFixture(t)
	tasks := NewBackgroundTasks(f.reconciler, "not a cron spec", time.Second, zap.NewNop())

	assert.Error(t, tasks.StartAll(context.Background()))
}
