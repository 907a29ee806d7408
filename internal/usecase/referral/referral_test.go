package referral

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/config"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	publisher "github.com/brtprivate/blockchain-bull-server/internal/infrastructure/kafka"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/memory"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/metrics"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/audit"
	referraldto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/referral"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const rootAddress = "0x00000000000000000000000000000000000000ff"

func addr(i int) string {
	return fmt.Sprintf("0x%040d", i)
}

func newEdge(referrer, referred string, level int) *domain.ReferralEdge {
	return &domain.ReferralEdge{
		ID:               fmt.Sprintf("%s-%s-%d", referrer, referred, level),
		ReferrerAddress:  referrer,
		ReferredAddress:  referred,
		Level:            level,
		RegistrationDate: time.Now(),
		IsActive:         true,
	}
}

// seedChain stores root <- addr(1) <- ... <- addr(n) with level-1 edges only.
func seedChain(t *testing.T, store *memory.Store, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.RegisterParticipant(ctx, &domain.Participant{
		Address:          rootAddress,
		SponsorAddress:   domain.RootSentinel,
		RegistrationDate: time.Now(),
	}, nil))

	sponsor := rootAddress
	for i := 1; i <= n; i++ {
		require.NoError(t, store.RegisterParticipant(ctx, &domain.Participant{
			Address:          addr(i),
			SponsorAddress:   sponsor,
			RegistrationDate: time.Now(),
		}, newEdge(sponsor, addr(i), 1)))
		sponsor = addr(i)
	}
}

// failingEarnings fails the totalEarnings increment.
type failingEarnings struct {
	domain.ParticipantRepository
}

func (failingEarnings) IncrementParticipantTotals(context.Context, string, domain.ParticipantTotalsDelta) error {
	return errors.New("lock timeout")
}

func newUsecase(store *memory.Store, participants domain.ParticipantRepository) *DefaultReferralUsecase {
	if participants == nil {
		participants = store
	}
	logger := zap.NewNop()
	return NewDefaultReferralUsecase(participants, store, audit.NewRecorder(store, publisher.NopPublisher{}, logger),
		publisher.NopPublisher{}, metrics.NewReferralMetrics(prometheus.NewRegistry()), logger,
		config.Referral{DefaultTreeDepth: 3, MaxTreeDepth: 10})
}

func depthOf(node *domain.TreeNode) int {
	deepest := 0
	for _, child := range node.Children {
		if d := depthOf(child) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

func TestBuildTree(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedChain(t, store, 5)
	uc := newUsecase(store, nil)

	t.Run("default depth", func(t *testing.T) {
		tree, err := uc.BuildTree(ctx, &referraldto.BuildTreeInput{Address: rootAddress})
		require.NoError(t, err)
		assert.True(t, tree.UserExists)
		assert.Equal(t, 3, depthOf(tree.TreeNode))

		leaf := tree.Children[0].Children[0].Children[0]
		assert.Equal(t, addr(3), leaf.Address)
		assert.NotNil(t, leaf.Children)
		assert.Empty(t, leaf.Children)
		assert.Equal(t, int64(1), leaf.Level1Referrals)
	})

	t.Run("depth is clamped", func(t *testing.T) {
		tree, err := uc.BuildTree(ctx, &referraldto.BuildTreeInput{Address: rootAddress, MaxDepth: 50})
		require.NoError(t, err)
		assert.Equal(t, 5, depthOf(tree.TreeNode))
	})

	t.Run("explicit depth", func(t *testing.T) {
		tree, err := uc.BuildTree(ctx, &referraldto.BuildTreeInput{Address: rootAddress, MaxDepth: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, depthOf(tree.TreeNode))
	})

	t.Run("unknown address", func(t *testing.T) {
		tree, err := uc.BuildTree(ctx, &referraldto.BuildTreeInput{Address: addr(99)})
		require.NoError(t, err)
		assert.False(t, tree.UserExists)
		assert.Equal(t, addr(99), tree.Address)
		assert.Empty(t, tree.Children)
	})

	t.Run("missing address", func(t *testing.T) {
		_, err := uc.BuildTree(ctx, &referraldto.BuildTreeInput{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestBuildTree_MalformedEdges(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedChain(t, store, 2)

	// addr(2) claims the root as a direct referral, closing a loop
	created, err := store.CreditAncestor(ctx, newEdge(addr(2), rootAddress, 1))
	require.NoError(t, err)
	require.True(t, created)

	uc := newUsecase(store, nil)
	tree, err := uc.BuildTree(ctx, &referraldto.BuildTreeInput{Address: rootAddress, MaxDepth: 10})
	require.NoError(t, err)

	seen := map[string]int{}
	var walk func(n *domain.TreeNode)
	walk = func(n *domain.TreeNode) {
		seen[n.Address]++
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree.TreeNode)

	assert.Len(t, seen, 3)
	for address, count := range seen {
		assert.Equal(t, 1, count, address)
	}
}

func TestApplyCommission(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedChain(t, store, 1)
	uc := newUsecase(store, nil)

	edge, err := uc.ApplyCommission(ctx, &referraldto.CommissionInput{
		ReferrerAddress: rootAddress,
		ReferredAddress: addr(1),
		Amount:          2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, edge.CommissionEarned)

	root, err := store.GetParticipant(ctx, rootAddress)
	require.NoError(t, err)
	assert.Equal(t, 2.5, root.TotalEarnings)

	t.Run("missing edge writes nothing", func(t *testing.T) {
		_, err := uc.ApplyCommission(ctx, &referraldto.CommissionInput{
			ReferrerAddress: addr(1),
			ReferredAddress: rootAddress,
			Amount:          1,
		})
		assert.ErrorIs(t, err, domain.ErrEdgeNotFound)

		p, err := store.GetParticipant(ctx, addr(1))
		require.NoError(t, err)
		assert.Zero(t, p.TotalEarnings)
	})

	t.Run("validation", func(t *testing.T) {
		for _, amount := range []float64{0, -3} {
			_, err := uc.ApplyCommission(ctx, &referraldto.CommissionInput{
				ReferrerAddress: rootAddress,
				ReferredAddress: addr(1),
				Amount:          amount,
			})
			assert.ErrorIs(t, err, domain.ErrValidation)
		}
	})
}

func TestApplyCommission_PartialWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedChain(t, store, 1)
	uc := newUsecase(store, failingEarnings{ParticipantRepository: store})

	_, err := uc.ApplyCommission(ctx, &referraldto.CommissionInput{
		ReferrerAddress: rootAddress,
		ReferredAddress: addr(1),
		Amount:          4,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindPartialWrite, domain.KindOf(err))

	edge, err := store.GetEdge(ctx, rootAddress, addr(1))
	require.NoError(t, err)
	assert.Equal(t, 4.0, edge.CommissionEarned)

	events, err := store.ListOpenInconsistencies(ctx, domain.KindPartialWrite, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, stepIncrementTotalEarnings, events[0].Step)
	assert.Equal(t, rootAddress, events[0].SubjectAddress)
}

func TestReferralStats(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedChain(t, store, 2)
	_, err := store.CreditAncestor(ctx, newEdge(rootAddress, addr(2), 2))
	require.NoError(t, err)
	uc := newUsecase(store, nil)

	_, err = uc.ApplyCommission(ctx, &referraldto.CommissionInput{ReferrerAddress: rootAddress, ReferredAddress: addr(2), Amount: 1.5})
	require.NoError(t, err)

	t.Run("known participant", func(t *testing.T) {
		stats, err := uc.GetReferralStats(ctx, rootAddress)
		require.NoError(t, err)
		assert.True(t, stats.UserExists)
		assert.NotNil(t, stats.RegistrationDate)
		assert.Equal(t, int64(2), stats.TotalReferrals)
		assert.Equal(t, 1.5, stats.TotalCommission)
		assert.Equal(t, 1.5, stats.TotalEarnings)
		assert.Equal(t, 1, stats.Levels[0].Count)
		assert.Equal(t, 1, stats.Levels[1].Count)
		assert.Equal(t, 3, stats.Levels[2].Level)
		assert.Empty(t, stats.Levels[2].Referrals)
	})

	t.Run("unknown participant", func(t *testing.T) {
		stats, err := uc.GetReferralStats(ctx, addr(77))
		require.NoError(t, err)
		assert.False(t, stats.UserExists)
		assert.Nil(t, stats.RegistrationDate)
		for i, level := range stats.Levels {
			assert.Equal(t, i+1, level.Level)
			assert.Zero(t, level.Count)
		}
	})

	t.Run("level wise", func(t *testing.T) {
		out, err := uc.GetLevelWise(ctx, &referraldto.LevelWiseInput{Address: rootAddress, Level: 2})
		require.NoError(t, err)
		require.Len(t, out.Levels, 1)
		assert.Equal(t, 2, out.Levels[0].Level)
		require.Len(t, out.Levels[0].Referrals, 1)
		assert.Equal(t, addr(2), out.Levels[0].Referrals[0].ReferredAddress)

		all, err := uc.GetLevelWise(ctx, &referraldto.LevelWiseInput{Address: rootAddress})
		require.NoError(t, err)
		assert.Len(t, all.Levels, domain.MaxReferralLevels)

		_, err = uc.GetLevelWise(ctx, &referraldto.LevelWiseInput{Address: rootAddress, Level: 11})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTopReferrers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedChain(t, store, 3)
	for i := 10; i < 13; i++ {
		require.NoError(t, store.RegisterParticipant(ctx, &domain.Participant{
			Address:          addr(i),
			SponsorAddress:   addr(2),
			RegistrationDate: time.Now(),
		}, newEdge(addr(2), addr(i), 1)))
	}
	uc := newUsecase(store, nil)

	top, err := uc.TopReferrers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, addr(2), top[0].Address)
	assert.Equal(t, int64(4), top[0].TotalReferrals)

	all, err := uc.TopReferrers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}
