package setup

import (
	"fmt"

	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/notifier"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/audit"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/investment"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/participant"
	"github.com/brtprivate/blockchain-bull-server/internal/usecase/referral"
)

type UseCases struct {
	ParticipantUsecase participant.ParticipantUsecase
	InvestmentUsecase  investment.InvestmentUsecase
	ReferralUsecase    referral.ReferralUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	repos := deps.Repositories
	recorder := audit.NewRecorder(repos.InconsistencyRepo, deps.Publisher, deps.Logger.Named("audit"))
	if url := deps.Config.Alerting.WebhookURL; url != "" {
		recorder.WithAlerter(notifier.NewWebhook(url, deps.Config.Alerting.Timeout))
	}

	participantUsecase, err := participant.NewDefaultParticipantUsecase(
		repos.ParticipantRepo,
		repos.ReferralRepo,
		recorder,
		deps.Publisher,
		deps.Metrics,
		deps.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("participant usecase: %w", err)
	}

	investmentUsecase := investment.NewDefaultInvestmentUsecase(
		repos.InvestmentRepo,
		repos.ParticipantRepo,
		recorder,
		deps.Publisher,
		deps.Metrics,
		deps.Logger,
	)

	referralUsecase := referral.NewDefaultReferralUsecase(
		repos.ParticipantRepo,
		repos.ReferralRepo,
		recorder,
		deps.Publisher,
		deps.Metrics,
		deps.Logger,
		deps.Config.Referral,
	)

	return &UseCases{
		ParticipantUsecase: participantUsecase,
		InvestmentUsecase:  investmentUsecase,
		ReferralUsecase:    referralUsecase,
	}, nil
}
