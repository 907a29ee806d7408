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

type DefaultParticipantRepository struct {
	DB *gorm.DB
}

func NewDefaultParticipantRepository(db *gorm.DB) *DefaultParticipantRepository {
	return &DefaultParticipantRepository{DB: db}
}

func (r *DefaultParticipantRepository) RegisterParticipant(ctx context.Context, participant *domain.Participant, firstEdge *domain.ReferralEdge) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(mappers.ToGORMParticipant(participant))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrDuplicateParticipant
		}

		if firstEdge == nil {
			return nil
		}
		if _, err := creditAncestor(tx, firstEdge); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUnknownSponsor
			}
			return err
		}
		return nil
	})
}

func (r *DefaultParticipantRepository) GetParticipant(ctx context.Context, address string) (*domain.Participant, error) {
	var model models.ParticipantModel
	if err := r.DB.WithContext(ctx).First(&model, "address = ?", address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mappers.ToDomainParticipant(&model), nil
}

func (r *DefaultParticipantRepository) IncrementParticipantTotals(ctx context.Context, address string, delta domain.ParticipantTotalsDelta) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if delta.Investment != 0 {
		updates["total_investment"] = gorm.Expr("total_investment + ?", delta.Investment)
	}
	if delta.Earnings != 0 {
		updates["total_earnings"] = gorm.Expr("total_earnings + ?", delta.Earnings)
	}

	res := r.DB.WithContext(ctx).
		Model(&models.ParticipantModel{}).
		Where("address = ?", address).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DefaultParticipantRepository) ListParticipants(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, int64, error) {
	baseQuery := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&models.ParticipantModel{})
	}

	var total int64
	if err := baseQuery().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count participants: %w", err)
	}

	var participantModels []models.ParticipantModel
	if err := baseQuery().
		Order("registration_date DESC").
		Offset(offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&participantModels).Error; err != nil {
		return nil, 0, err
	}

	participants := make([]*domain.Participant, len(participantModels))
	for i := range participantModels {
		participants[i] = mappers.ToDomainParticipant(&participantModels[i])
	}
	return participants, total, nil
}

func (r *DefaultParticipantRepository) TopReferrers(ctx context.Context, limit int) ([]*domain.Participant, error) {
	var participantModels []models.ParticipantModel
	if err := r.DB.WithContext(ctx).
		Order("total_referrals DESC").
		Order("registration_date ASC").
		Limit(limit).
		Find(&participantModels).Error; err != nil {
		return nil, err
	}

	participants := make([]*domain.Participant, len(participantModels))
	for i := range participantModels {
		participants[i] = mappers.ToDomainParticipant(&participantModels[i])
	}
	return participants, nil
}

// creditAncestor inserts the edge and bumps the matching counter of the
// referrer within tx. The counter update is a single in-place increment.
func creditAncestor(tx *gorm.DB, edge *domain.ReferralEdge) (bool, error) {
	if !domain.ValidLevel(edge.Level) {
		return false, domain.NewValidationError("level", fmt.Sprintf("%d outside [1,%d]", edge.Level, domain.MaxReferralLevels))
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(mappers.ToGORMReferralEdge(edge))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, existingEdge(tx, edge)
	}

	column := levelColumn(edge.Level)
	upd := tx.Model(&models.ParticipantModel{}).
		Where("address = ?", edge.ReferrerAddress).
		Updates(map[string]interface{}{
			column:            gorm.Expr(column+" + ?", 1),
			"total_referrals": gorm.Expr("total_referrals + ?", 1),
			"updated_at":      time.Now(),
		})
	if upd.Error != nil {
		return false, upd.Error
	}
	if upd.RowsAffected == 0 {
		return false, domain.ErrNotFound
	}
	return true, nil
}

// existingEdge reports whether an insert skipped on conflict hit the same
// edge. Any other holder of the level or the pair is ErrEdgeConflict.
func existingEdge(tx *gorm.DB, edge *domain.ReferralEdge) error {
	var count int64
	if err := tx.Model(&models.ReferralEdgeModel{}).
		Where("referred_address = ? AND level = ? AND referrer_address = ?",
			edge.ReferredAddress, edge.Level, edge.ReferrerAddress).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrEdgeConflict
	}
	return nil
}

func levelColumn(level int) string {
	return fmt.Sprintf("level%d_referrals", level)
}

func offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
