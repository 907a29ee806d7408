package repository

import (
	"context"
	"errors"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres/mappers"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultReferralRepository struct {
	DB *gorm.DB
}

func NewDefaultReferralRepository(db *gorm.DB) *DefaultReferralRepository {
	return &DefaultReferralRepository{DB: db}
}

func (r *DefaultReferralRepository) CreditAncestor(ctx context.Context, edge *domain.ReferralEdge) (bool, error) {
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = creditAncestor(tx, edge)
		return err
	})
	return created, err
}

func (r *DefaultReferralRepository) GetEdge(ctx context.Context, referrer, referred string) (*domain.ReferralEdge, error) {
	var model models.ReferralEdgeModel
	if err := r.DB.WithContext(ctx).
		Where("referrer_address = ? AND referred_address = ?", referrer, referred).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEdgeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainReferralEdge(&model), nil
}

func (r *DefaultReferralRepository) AddCommission(ctx context.Context, referrer, referred string, amount float64) (*domain.ReferralEdge, error) {
	var model models.ReferralEdgeModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ReferralEdgeModel{}).
			Where("referrer_address = ? AND referred_address = ?", referrer, referred).
			Updates(map[string]interface{}{
				"commission_earned": gorm.Expr("commission_earned + ?", amount),
				"updated_at":        time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrEdgeNotFound
		}
		return tx.Where("referrer_address = ? AND referred_address = ?", referrer, referred).
			First(&model).Error
	})
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainReferralEdge(&model), nil
}

func (r *DefaultReferralRepository) ListEdges(ctx context.Context, filter domain.ReferralFilter) ([]*domain.ReferralEdge, error) {
	query := r.DB.WithContext(ctx).Model(&models.ReferralEdgeModel{})
	if filter.ReferrerAddress != "" {
		query = query.Where("referrer_address = ?", filter.ReferrerAddress)
	}
	if filter.ReferredAddress != "" {
		query = query.Where("referred_address = ?", filter.ReferredAddress)
	}
	if filter.Level != 0 {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var edgeModels []models.ReferralEdgeModel
	if err := query.Order("registration_date DESC").Find(&edgeModels).Error; err != nil {
		return nil, err
	}

	edges := make([]*domain.ReferralEdge, len(edgeModels))
	for i := range edgeModels {
		edges[i] = mappers.ToDomainReferralEdge(&edgeModels[i])
	}
	return edges, nil
}

func (r *DefaultReferralRepository) CountEdgesByLevel(ctx context.Context, referrer string) ([domain.MaxReferralLevels]int64, error) {
	var counts [domain.MaxReferralLevels]int64

	type levelCount struct {
		Level int
		Count int64
	}
	var rows []levelCount
	if err := r.DB.WithContext(ctx).
		Model(&models.ReferralEdgeModel{}).
		Select("level, COUNT(*) AS count").
		Where("referrer_address = ?", referrer).
		Group("level").
		Scan(&rows).Error; err != nil {
		return counts, err
	}

	for _, row := range rows {
		if domain.ValidLevel(row.Level) {
			counts[row.Level-1] = row.Count
		}
	}
	return counts, nil
}

func (r *DefaultReferralRepository) SumCommission(ctx context.Context, referrer string) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).
		Model(&models.ReferralEdgeModel{}).
		Select("COALESCE(SUM(commission_earned), 0)").
		Where("referrer_address = ?", referrer).
		Scan(&total).Error
	return total, err
}
