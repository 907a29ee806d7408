package participant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/metrics"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/audit"
	participantdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/participant"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

const (
	opRegister = "register_participant"
	opResume   = "resume_propagation"

	defaultPageLimit = 50
	maxPageLimit     = 200
	referralsLimit   = 100
)

type ParticipantUsecase interface {
	RegisterParticipant(ctx context.Context, input *participantdto.RegisterInput) (*participantdto.RegisterOutput, error)
	ResumePropagation(ctx context.Context, address string) (*participantdto.PropagationOutput, error)
	SeedRoot(ctx context.Context, address string) (*domain.Participant, error)
	GetParticipant(ctx context.Context, address string) (*domain.Participant, error)
	ListParticipants(ctx context.Context, input *participantdto.ListParticipantsInput) (*participantdto.ListParticipantsOutput, error)
	GetParticipantReferrals(ctx context.Context, input *participantdto.GetReferralsInput) (*participantdto.ReferralsOutput, error)
}

type DefaultParticipantUsecase struct {
	participantRepo domain.ParticipantRepository
	referralRepo    domain.ReferralRepository
	recorder        *audit.Recorder
	publisher       domain.EventPublisher
	metrics         *metrics.ReferralMetrics
	logger          *zap.Logger

	newEdgeID func() string
	now       func() time.Time
}

func NewDefaultParticipantUsecase(
	participantRepo domain.ParticipantRepository,
	referralRepo domain.ReferralRepository,
	recorder *audit.Recorder,
	eventPublisher domain.EventPublisher,
	referralMetrics *metrics.ReferralMetrics,
	logger *zap.Logger,
) (*DefaultParticipantUsecase, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("init edge id generator: %w", err)
	}
	var mu sync.Mutex
	newEdgeID := func() string {
		mu.Lock()
		defer mu.Unlock()
		return idGenerator()
	}
	return &DefaultParticipantUsecase{
		participantRepo: participantRepo,
		referralRepo:    referralRepo,
		recorder:        recorder,
		publisher:       eventPublisher,
		metrics:         referralMetrics,
		logger:          logger.Named("participant"),
		newEdgeID:       newEdgeID,
		now:             time.Now,
	}, nil
}

func (uc *DefaultParticipantUsecase) newEdge(referrer, referred string, level int, registeredAt time.Time) *domain.ReferralEdge {
	now := uc.now().UTC()
	return &domain.ReferralEdge{
		ID:               uc.newEdgeID(),
		ReferrerAddress:  referrer,
		ReferredAddress:  referred,
		Level:            level,
		RegistrationDate: registeredAt,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (uc *DefaultParticipantUsecase) recordError(operation string, err error) {
	uc.metrics.RecordError(operation, string(domain.KindOf(err)))
}
