package investment

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	publisher "github.com/brtprivate/blockchain-bull-server/internal/infrastructure/kafka"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/memory"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/metrics"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/audit"
	investmentdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/investment"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const owner = "0x00000000000000000000000000000000000000aa"

// brokenTotals fails every aggregate increment.
type brokenTotals struct {
	domain.ParticipantRepository
}

func (brokenTotals) IncrementParticipantTotals(context.Context, string, domain.ParticipantTotalsDelta) error {
	return errors.New("deadlock detected")
}

type fixture struct {
	store   *memory.Store
	metrics *metrics.ReferralMetrics
	uc      *DefaultInvestmentUsecase
}

// newFixture seeds the owner. wrap, when set, decorates the participant
// repository seen by the usecase.
func newFixture(t *testing.T, wrap func(domain.ParticipantRepository) domain.ParticipantRepository) *fixture {
	t.Helper()
	store := memory.NewStore()
	var participants domain.ParticipantRepository = store
	if wrap != nil {
		participants = wrap(store)
	}

	require.NoError(t, store.RegisterParticipant(context.Background(), &domain.Participant{
		Address:          owner,
		SponsorAddress:   domain.RootSentinel,
		RegistrationDate: time.Now(),
		IsActive:         true,
	}, nil))

	m := metrics.NewReferralMetrics(prometheus.NewRegistry())
	logger := zap.NewNop()
	uc := NewDefaultInvestmentUsecase(store, participants, audit.NewRecorder(store, publisher.NopPublisher{}, logger),
		publisher.NopPublisher{}, m, logger)
	return &fixture{store: store, metrics: m, uc: uc}
}

func ptr[T any](v T) *T { return &v }

func TestCreateInvestment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	inv, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{
		OwnerAddress: owner,
		Amount:       50,
		Type:         domain.InvestmentStake,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, inv.RemainingBalance)
	assert.Equal(t, domain.InvestmentConfirmed, inv.Status)
	assert.True(t, inv.IsActive)
	_, err = uuid.Parse(inv.ID)
	assert.NoError(t, err)

	p, err := f.store.GetParticipant(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.TotalInvestment)

	agg, err := f.uc.AggregateForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 50.0, agg.Totals.TotalInvested)
	assert.Equal(t, int64(1), agg.Totals.InvestmentCount)
	assert.Equal(t, 50.0, agg.Totals.Average)
	require.Len(t, agg.ByType, 1)
	assert.Equal(t, domain.InvestmentStake, agg.ByType[0].Type)
	assert.Len(t, agg.RecentInvestments, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.InvestmentsCreatedTotal.WithLabelValues("stake")))
	assert.Equal(t, 50.0, testutil.ToFloat64(f.metrics.InvestmentsCreatedAmountTotal.WithLabelValues("stake")))
}

func TestCreateInvestment_DefaultsType(t *testing.T) {
	f := newFixture(t, nil)

	inv, err := f.uc.CreateInvestment(context.Background(), &investmentdto.CreateInvestmentInput{OwnerAddress: owner, Amount: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.InvestmentPackage, inv.Type)
}

func TestCreateInvestment_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	tests := []struct {
		name  string
		input investmentdto.CreateInvestmentInput
		want  error
	}{
		{"missing owner", investmentdto.CreateInvestmentInput{Amount: 10}, domain.ErrValidation},
		{"zero amount", investmentdto.CreateInvestmentInput{OwnerAddress: owner}, domain.ErrValidation},
		{"negative amount", investmentdto.CreateInvestmentInput{OwnerAddress: owner, Amount: -1}, domain.ErrValidation},
		{"nan amount", investmentdto.CreateInvestmentInput{OwnerAddress: owner, Amount: math.NaN()}, domain.ErrValidation},
		{"bad type", investmentdto.CreateInvestmentInput{OwnerAddress: owner, Amount: 1, Type: "bond"}, domain.ErrValidation},
		{"bad status", investmentdto.CreateInvestmentInput{OwnerAddress: owner, Amount: 1, Status: "settled"}, domain.ErrValidation},
		{"unknown owner", investmentdto.CreateInvestmentInput{OwnerAddress: "0xnobody", Amount: 1}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateInvestment(ctx, &tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := f.uc.ListInvestments(ctx, &investmentdto.ListInvestmentsInput{})
	require.NoError(t, err)
	assert.Empty(t, list.Investments)
}

func TestCreateInvestment_PartialWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func(repo domain.ParticipantRepository) domain.ParticipantRepository {
		return brokenTotals{ParticipantRepository: repo}
	})

	_, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{OwnerAddress: owner, Amount: 25})
	require.Error(t, err)
	assert.Equal(t, domain.KindPartialWrite, domain.KindOf(err))

	var writeErr *domain.PartialWriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, stepIncrementTotalInvestment, writeErr.Step)

	stored, err := f.store.GetInvestment(ctx, writeErr.RecordID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, stored.Amount)

	events, err := f.store.ListOpenInconsistencies(ctx, domain.KindPartialWrite, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, writeErr.RecordID, events[0].RecordID)
	assert.Equal(t, owner, events[0].SubjectAddress)
	assert.Equal(t, stepIncrementTotalInvestment, events[0].Step)
}

func TestUpdateInvestment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	inv, err := f.uc.CreateInvestment(ctx, &investmentdto.CreateInvestmentInput{OwnerAddress: owner, Amount: 100})
	require.NoError(t, err)

	updated, err := f.uc.UpdateInvestment(ctx, &investmentdto.UpdateInvestmentInput{ID: inv.ID, EarnedReturn: ptr(20.0)})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.RemainingBalance)

	updated, err = f.uc.UpdateInvestment(ctx, &investmentdto.UpdateInvestmentInput{ID: inv.ID, TotalWithdrawn: ptr(30.0)})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.EarnedReturn)
	assert.Equal(t, 90.0, updated.RemainingBalance)

	updated, err = f.uc.UpdateInvestment(ctx, &investmentdto.UpdateInvestmentInput{
		ID:       inv.ID,
		Status:   ptr(domain.InvestmentFailed),
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.RemainingBalance)
	assert.False(t, updated.IsActive)

	t.Run("not found", func(t *testing.T) {
		_, err := f.uc.UpdateInvestment(ctx, &investmentdto.UpdateInvestmentInput{ID: uuid.NewString(), EarnedReturn: ptr(1.0)})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.uc.UpdateInvestment(ctx, &investmentdto.UpdateInvestmentInput{ID: "not-a-uuid", EarnedReturn: ptr(1.0)})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.uc.UpdateInvestment(ctx, &investmentdto.UpdateInvestmentInput{ID: inv.ID})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = f.uc.UpdateInvestment(ctx, &investmentdto.UpdateInvestmentInput{ID: inv.ID, TotalWithdrawn: ptr(-1.0)})
		assert.ErrorIs(t, err, domain.ErrValidation)

		bad := domain.InvestmentStatus("settled")
		_, err = f.uc.UpdateInvestment(ctx, &investmentdto.UpdateInvestmentInput{ID: inv.ID, Status: &bad})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestListInvestments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	for _, in := range []investmentdto.CreateInvestmentInput{
		{OwnerAddress: owner, Amount: 10, Type: domain.InvestmentStake},
		{OwnerAddress: owner, Amount: 20, Type: domain.InvestmentPackage},
		{OwnerAddress: owner, Amount: 30, Type: domain.InvestmentStake, Status: domain.InvestmentPending},
	} {
		_, err := f.uc.CreateInvestment(ctx, &in)
		require.NoError(t, err)
	}

	t.Run("owner listing carries totals", func(t *testing.T) {
		out, err := f.uc.ListOwnerInvestments(ctx, &investmentdto.ListOwnerInvestmentsInput{
			OwnerAddress: owner,
			Type:         domain.InvestmentStake,
			Limit:        1,
		})
		require.NoError(t, err)
		assert.Len(t, out.Investments, 1)
		assert.Equal(t, int64(2), out.Pagination.TotalItems)
		assert.Equal(t, 2, out.Pagination.TotalPages)
		require.NotNil(t, out.Totals)
		assert.Equal(t, 60.0, out.Totals.TotalInvested)
	})

	t.Run("global listing filters by status", func(t *testing.T) {
		out, err := f.uc.ListInvestments(ctx, &investmentdto.ListInvestmentsInput{Status: domain.InvestmentPending})
		require.NoError(t, err)
		require.Len(t, out.Investments, 1)
		assert.Equal(t, 30.0, out.Investments[0].Amount)
		assert.Nil(t, out.Totals)
		assert.Equal(t, defaultPageLimit, out.Pagination.ItemsPerPage)
	})

	t.Run("invalid filters", func(t *testing.T) {
		_, err := f.uc.ListInvestments(ctx, &investmentdto.ListInvestmentsInput{Type: "bond"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = f.uc.ListOwnerInvestments(ctx, &investmentdto.ListOwnerInvestmentsInput{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("owner without records", func(t *testing.T) {
		agg, err := f.uc.AggregateForOwner(ctx, "0xother")
		require.NoError(t, err)
		assert.Equal(t, domain.InvestmentTotals{}, agg.Totals)
		assert.Empty(t, agg.RecentInvestments)
	})
}
