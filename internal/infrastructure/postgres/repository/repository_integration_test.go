//go:build integration

package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/config"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/migrate"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres"
	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testPort = 54329

var testDB *gorm.DB

// TestMain starts a throwaway postgres and applies the migrations once for
// every test in the package.
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	pg := embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
		Username("referral").
		Password("referral").
		Database("referral").
		Port(testPort).
		Logger(io.Discard))
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		return 1
	}
	defer func() {
		if err := pg.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
		}
	}()

	db, err := postgres.InitDB(config.ReferralDB{
		Dsn:          fmt.Sprintf("host=localhost port=%d user=referral password=referral dbname=referral sslmode=disable", testPort),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if err := migrate.RunMigrations(db, "../../../../migrations", zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	testDB = db

	return m.Run()
}

func testAddress(prefix string, i int) string {
	return fmt.Sprintf("0x%s%038d", prefix, i)
}

func testParticipant(address, sponsor string) *domain.Participant {
	return &domain.Participant{
		Address:          address,
		SponsorAddress:   sponsor,
		RegistrationDate: time.Now(),
		IsActive:         true,
	}
}

func testEdge(referrer, referred string, level int) *domain.ReferralEdge {
	return &domain.ReferralEdge{
		ID:               uuid.NewString(),
		ReferrerAddress:  referrer,
		ReferredAddress:  referred,
		Level:            level,
		RegistrationDate: time.Now(),
		IsActive:         true,
	}
}

func TestParticipantRepository_RegisterParticipant(t *testing.T) {
	ctx := context.Background()
	participants := NewDefaultParticipantRepository(testDB)
	root, a := testAddress("a0", 1), testAddress("a0", 2)

	require.NoError(t, participants.RegisterParticipant(ctx, testParticipant(root, domain.RootSentinel), nil))
	require.NoError(t, participants.RegisterParticipant(ctx, testParticipant(a, root), testEdge(root, a, 1)))

	got, err := participants.GetParticipant(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LevelCount(1))
	assert.Equal(t, int64(1), got.TotalReferrals)

	t.Run("duplicate", func(t *testing.T) {
		err := participants.RegisterParticipant(ctx, testParticipant(a, root), testEdge(root, a, 1))
		assert.ErrorIs(t, err, domain.ErrDuplicateParticipant)

		got, err := participants.GetParticipant(ctx, root)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.TotalReferrals)
	})

	t.Run("unknown sponsor rolls back", func(t *testing.T) {
		orphan, ghost := testAddress("a0", 3), testAddress("a0", 99)
		err := participants.RegisterParticipant(ctx, testParticipant(orphan, ghost), testEdge(ghost, orphan, 1))
		assert.ErrorIs(t, err, domain.ErrUnknownSponsor)

		_, err = participants.GetParticipant(ctx, orphan)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReferralRepository_CreditAncestor(t *testing.T) {
	ctx := context.Background()
	participants := NewDefaultParticipantRepository(testDB)
	referrals := NewDefaultReferralRepository(testDB)
	root, a, b := testAddress("b0", 1), testAddress("b0", 2), testAddress("b0", 3)

	require.NoError(t, participants.RegisterParticipant(ctx, testParticipant(root, domain.RootSentinel), nil))
	require.NoError(t, participants.RegisterParticipant(ctx, testParticipant(a, root), testEdge(root, a, 1)))
	require.NoError(t, participants.RegisterParticipant(ctx, testParticipant(b, a), testEdge(a, b, 1)))

	created, err := referrals.CreditAncestor(ctx, testEdge(root, b, 2))
	require.NoError(t, err)
	assert.True(t, created)

	t.Run("repeat is a no-op", func(t *testing.T) {
		created, err := referrals.CreditAncestor(ctx, testEdge(root, b, 2))
		require.NoError(t, err)
		assert.False(t, created)

		got, err := participants.GetParticipant(ctx, root)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.LevelCount(2))
		assert.Equal(t, int64(2), got.TotalReferrals)
	})

	t.Run("level held by another referrer", func(t *testing.T) {
		_, err := referrals.CreditAncestor(ctx, testEdge(a, b, 2))
		assert.ErrorIs(t, err, domain.ErrEdgeConflict)
	})

	t.Run("pair linked at another level", func(t *testing.T) {
		_, err := referrals.CreditAncestor(ctx, testEdge(root, b, 3))
		assert.ErrorIs(t, err, domain.ErrEdgeConflict)

		got, err := participants.GetParticipant(ctx, root)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.LevelCount(3))
	})

	t.Run("missing referrer rolls back the edge", func(t *testing.T) {
		ghost := testAddress("b0", 99)
		_, err := referrals.CreditAncestor(ctx, testEdge(ghost, b, 3))
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = referrals.GetEdge(ctx, ghost, b)
		assert.ErrorIs(t, err, domain.ErrEdgeNotFound)
	})

	t.Run("level out of range", func(t *testing.T) {
		_, err := referrals.CreditAncestor(ctx, testEdge(root, b, 11))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	counts, err := referrals.CountEdgesByLevel(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[0])
	assert.Equal(t, int64(1), counts[1])
}

func TestInvestmentRepository_AggregateInvestments(t *testing.T) {
	ctx := context.Background()
	investments := NewDefaultInvestmentRepository(testDB)
	owner := testAddress("c0", 1)

	ids := make([]string, 0, 3)
	for _, amount := range []float64{100, 250, 50} {
		id := uuid.NewString()
		require.NoError(t, investments.CreateInvestment(ctx, &domain.Investment{
			ID:               id,
			OwnerAddress:     owner,
			Amount:           amount,
			InvestmentDate:   time.Now(),
			Type:             domain.InvestmentPackage,
			Status:           domain.InvestmentConfirmed,
			IsActive:         true,
			RemainingBalance: amount,
		}))
		ids = append(ids, id)
	}

	inactive := false
	_, err := investments.UpdateInvestment(ctx, ids[2], domain.InvestmentUpdate{IsActive: &inactive})
	require.NoError(t, err)

	totals, err := investments.AggregateInvestments(ctx, owner)
	require.NoError(t, err)
	assert.InDelta(t, 400, totals.TotalInvested, 1e-9)
	assert.Equal(t, int64(3), totals.InvestmentCount)
	assert.Equal(t, int64(2), totals.ActiveCount)
	assert.InDelta(t, 400.0/3, totals.Average, 1e-9)
	assert.InDelta(t, 250, totals.Max, 1e-9)
	assert.InDelta(t, 50, totals.Min, 1e-9)

	t.Run("owner without investments", func(t *testing.T) {
		totals, err := investments.AggregateInvestments(ctx, testAddress("c0", 2))
		require.NoError(t, err)
		assert.Zero(t, totals.InvestmentCount)
		assert.Zero(t, totals.ActiveCount)
		assert.Zero(t, totals.TotalInvested)
	})
}
