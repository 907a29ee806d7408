package referral

import (
	"context"

	"github.com/brtprivate/blockchain-bull-server/internal/config"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/metrics"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/audit"
	referraldto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/referral"
	"go.uber.org/zap"
)

const (
	opCommission = "apply_commission"

	stepIncrementTotalEarnings = "increment_total_earnings"

	defaultTopLimit = 10
	maxTopLimit     = 100
)

type ReferralUsecase interface {
	ApplyCommission(ctx context.Context, input *referraldto.CommissionInput) (*domain.ReferralEdge, error)
	BuildTree(ctx context.Context, input *referraldto.BuildTreeInput) (*domain.ReferralTree, error)
	GetReferralStats(ctx context.Context, address string) (*referraldto.StatsOutput, error)
	GetLevelWise(ctx context.Context, input *referraldto.LevelWiseInput) (*referraldto.LevelWiseOutput, error)
	TopReferrers(ctx context.Context, limit int) ([]*domain.Participant, error)
}

type DefaultReferralUsecase struct {
	participantRepo domain.ParticipantRepository
	referralRepo    domain.ReferralRepository
	recorder        *audit.Recorder
	publisher       domain.EventPublisher
	metrics         *metrics.ReferralMetrics
	logger          *zap.Logger

	defaultDepth int
	maxDepth     int
}

func NewDefaultReferralUsecase(
	participantRepo domain.ParticipantRepository,
	referralRepo domain.ReferralRepository,
	recorder *audit.Recorder,
	eventPublisher domain.EventPublisher,
	referralMetrics *metrics.ReferralMetrics,
	logger *zap.Logger,
	cfg config.Referral,
) *DefaultReferralUsecase {
	defaultDepth, maxDepth := cfg.DefaultTreeDepth, cfg.MaxTreeDepth
	if maxDepth <= 0 {
		maxDepth = domain.MaxReferralLevels
	}
	if defaultDepth <= 0 || defaultDepth > maxDepth {
		defaultDepth = min(3, maxDepth)
	}
	return &DefaultReferralUsecase{
		participantRepo: participantRepo,
		referralRepo:    referralRepo,
		recorder:        recorder,
		publisher:       eventPublisher,
		metrics:         referralMetrics,
		logger:          logger.Named("referral"),
		defaultDepth:    defaultDepth,
		maxDepth:        maxDepth,
	}
}
