package setup

import (
	"fmt"

	"github.com/brtprivate/blockchain-bull-server/internal/config"
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	publisher "github.com/brtprivate/blockchain-bull-server/internal/infrastructure/kafka"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/logger"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/memory"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/metrics"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/migrate"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Dependencies struct {
	Config       *config.ReferralConfig
	Logger       *zap.Logger
	DB           *gorm.DB
	Publisher    domain.EventPublisher
	Registry     *prometheus.Registry
	Metrics      *metrics.ReferralMetrics
	Repositories *Repositories

	closers []func() error
}

type Repositories struct {
	ParticipantRepo   domain.ParticipantRepository
	ReferralRepo      domain.ReferralRepository
	InvestmentRepo    domain.InvestmentRepository
	InconsistencyRepo domain.InconsistencyRepository
}

func InitializeDependencies(cfg *config.ReferralConfig, log *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: log,
	}

	repos, err := deps.initRepositories()
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Repositories = repos

	deps.Publisher = deps.initPublisher()

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewReferralMetrics(deps.Registry)

	return deps, nil
}

func (d *Dependencies) initRepositories() (*Repositories, error) {
	switch d.Config.ReferralDB.Driver {
	case DriverMemory:
		d.Logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &Repositories{
			ParticipantRepo:   store,
			ReferralRepo:      store,
			InvestmentRepo:    store,
			InconsistencyRepo: store,
		}, nil
	case DriverPostgres:
		db, err := postgres.InitDB(d.Config.ReferralDB)
		if err != nil {
			return nil, err
		}
		d.DB = db
		d.closers = append(d.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

		if err := migrate.RunMigrations(db, d.Config.ReferralDB.MigrationsPath, d.Logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}

		return &Repositories{
			ParticipantRepo:   repository.NewDefaultParticipantRepository(db),
			ReferralRepo:      repository.NewDefaultReferralRepository(db),
			InvestmentRepo:    repository.NewDefaultInvestmentRepository(db),
			InconsistencyRepo: logger.NewPGInconsistencyLog(db),
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", d.Config.ReferralDB.Driver)
}

func (d *Dependencies) initPublisher() domain.EventPublisher {
	if !d.Config.KafkaService.Enabled {
		d.Logger.Info("kafka disabled, domain events are dropped")
		return publisher.NopPublisher{}
	}
	brokers := []string{fmt.Sprintf("%s:%s", d.Config.KafkaService.Host, d.Config.KafkaService.Port)}
	kafkaPublisher := publisher.NewKafkaPublisher(brokers, d.Config.KafkaService.Topic)
	d.closers = append(d.closers, kafkaPublisher.Close)
	d.Logger.Info("kafka publisher initialized",
		zap.Strings("brokers", brokers),
		zap.String("topic", d.Config.KafkaService.Topic),
	)
	return kafkaPublisher
}

// Close releases the database pool and the kafka writer in reverse order.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.Warn("failed to close dependency", zap.Error(err))
		}
	}
	d.closers = nil
}
