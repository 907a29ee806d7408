package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres/mappers"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultInvestmentRepository struct {
	DB *gorm.DB
}

func NewDefaultInvestmentRepository(db *gorm.DB) *DefaultInvestmentRepository {
	return &DefaultInvestmentRepository{DB: db}
}

func (r *DefaultInvestmentRepository) CreateInvestment(ctx context.Context, investment *domain.Investment) error {
	return r.DB.WithContext(ctx).Create(mappers.ToGORMInvestment(investment)).Error
}

func (r *DefaultInvestmentRepository) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	var model models.InvestmentModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainInvestment(&model), nil
}

func (r *DefaultInvestmentRepository) UpdateInvestment(ctx context.Context, id string, update domain.InvestmentUpdate) (*domain.Investment, error) {
	var investment *domain.Investment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.InvestmentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		investment = mappers.ToDomainInvestment(&model)
		investment.ApplyUpdate(update)
		investment.UpdatedAt = time.Now()

		return tx.Model(&models.InvestmentModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"earned_return":     investment.EarnedReturn,
				"total_withdrawn":   investment.TotalWithdrawn,
				"remaining_balance": investment.RemainingBalance,
				"status":            string(investment.Status),
				"is_active":         investment.IsActive,
				"updated_at":        investment.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return investment, nil
}

func (r *DefaultInvestmentRepository) ListInvestments(ctx context.Context, filter domain.InvestmentFilter) ([]*domain.Investment, int64, error) {
	baseQuery := func() *gorm.DB {
		query := r.DB.WithContext(ctx).Model(&models.InvestmentModel{})
		if filter.OwnerAddress != "" {
			query = query.Where("owner_address = ?", filter.OwnerAddress)
		}
		if filter.Type != "" {
			query = query.Where("investment_type = ?", string(filter.Type))
		}
		if filter.Status != "" {
			query = query.Where("status = ?", string(filter.Status))
		}
		return query
	}

	var total int64
	if err := baseQuery().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count investments: %w", err)
	}

	var investmentModels []models.InvestmentModel
	if err := baseQuery().
		Order("investment_date DESC").
		Offset(offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&investmentModels).Error; err != nil {
		return nil, 0, err
	}

	investments := make([]*domain.Investment, len(investmentModels))
	for i := range investmentModels {
		investments[i] = mappers.ToDomainInvestment(&investmentModels[i])
	}
	return investments, total, nil
}

func (r *DefaultInvestmentRepository) AggregateInvestments(ctx context.Context, owner string) (domain.InvestmentTotals, error) {
	var row struct {
		TotalInvested     float64
		TotalReturnEarned float64
		TotalWithdrawn    float64
		ActiveCount       int64
		InvestmentCount   int64
		AverageAmount     float64
		MaxAmount         float64
		MinAmount         float64
	}
	err := r.DB.WithContext(ctx).
		Model(&models.InvestmentModel{}).
		Select(`COALESCE(SUM(amount), 0) AS total_invested,
			COALESCE(SUM(earned_return), 0) AS total_return_earned,
			COALESCE(SUM(total_withdrawn), 0) AS total_withdrawn,
			COUNT(*) FILTER (WHERE is_active) AS active_count,
			COUNT(*) AS investment_count,
			COALESCE(AVG(amount), 0) AS average_amount,
			COALESCE(MAX(amount), 0) AS max_amount,
			COALESCE(MIN(amount), 0) AS min_amount`).
		Where("owner_address = ?", owner).
		Scan(&row).Error
	if err != nil {
		return domain.InvestmentTotals{}, err
	}

	return domain.InvestmentTotals{
		TotalInvested:     row.TotalInvested,
		TotalReturnEarned: row.TotalReturnEarned,
		TotalWithdrawn:    row.TotalWithdrawn,
		ActiveCount:       row.ActiveCount,
		InvestmentCount:   row.InvestmentCount,
		Average:           row.AverageAmount,
		Max:               row.MaxAmount,
		Min:               row.MinAmount,
	}, nil
}

func (r *DefaultInvestmentRepository) AggregateInvestmentsByType(ctx context.Context, owner string) ([]domain.InvestmentTypeBreakdown, error) {
	var rows []struct {
		InvestmentType string
		Count          int64
		TotalAmount    float64
	}
	if err := r.DB.WithContext(ctx).
		Model(&models.InvestmentModel{}).
		Select("investment_type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("owner_address = ?", owner).
		Group("investment_type").
		Order("investment_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	breakdown := make([]domain.InvestmentTypeBreakdown, len(rows))
	for i, row := range rows {
		breakdown[i] = domain.InvestmentTypeBreakdown{
			Type:        domain.InvestmentType(row.InvestmentType),
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
		}
	}
	return breakdown, nil
}
