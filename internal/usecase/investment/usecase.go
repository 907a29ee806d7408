package investment

import (
	"context"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/metrics"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/audit"
	investmentdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/investment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	opCreate = "create_investment"
	opUpdate = "update_investment"

	stepIncrementTotalInvestment = "increment_total_investment"

	defaultPageLimit = 50
	maxPageLimit     = 200
	recentLimit      = 10
)

type InvestmentUsecase interface {
	CreateInvestment(ctx context.Context, input *investmentdto.CreateInvestmentInput) (*domain.Investment, error)
	UpdateInvestment(ctx context.Context, input *investmentdto.UpdateInvestmentInput) (*domain.Investment, error)
	AggregateForOwner(ctx context.Context, owner string) (*investmentdto.OwnerAggregateOutput, error)
	ListOwnerInvestments(ctx context.Context, input *investmentdto.ListOwnerInvestmentsInput) (*investmentdto.ListInvestmentsOutput, error)
	ListInvestments(ctx context.Context, input *investmentdto.ListInvestmentsInput) (*investmentdto.ListInvestmentsOutput, error)
}

type DefaultInvestmentUsecase struct {
	investmentRepo  domain.InvestmentRepository
	participantRepo domain.ParticipantRepository
	recorder        *audit.Recorder
	publisher       domain.EventPublisher
	metrics         *metrics.ReferralMetrics
	logger          *zap.Logger

	newID func() string
	now   func() time.Time
}

func NewDefaultInvestmentUsecase(
	investmentRepo domain.InvestmentRepository,
	participantRepo domain.ParticipantRepository,
	recorder *audit.Recorder,
	eventPublisher domain.EventPublisher,
	referralMetrics *metrics.ReferralMetrics,
	logger *zap.Logger,
) *DefaultInvestmentUsecase {
	return &DefaultInvestmentUsecase{
		investmentRepo:  investmentRepo,
		participantRepo: participantRepo,
		recorder:        recorder,
		publisher:       eventPublisher,
		metrics:         referralMetrics,
		logger:          logger.Named("investment"),
		newID:           func() string { return uuid.New().String() },
		now:             time.Now,
	}
}

func (uc *DefaultInvestmentUsecase) recordError(operation string, err error) {
	uc.metrics.RecordError(operation, string(domain.KindOf(err)))
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func pagination(page, limit int, total int64) investmentdto.Pagination {
	return investmentdto.Pagination{
		CurrentPage:  page,
		TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}
